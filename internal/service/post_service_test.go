package service

import (
	"errors"
	"testing"
	"time"

	"github.com/blogengine/internal/db"
)

func TestPostCreateAssociatesTagsAndFlushesOnce(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	flusher := &recordingFlusher{}
	posts := NewPostService(gdb, flusher)
	tags := NewTagService(gdb, nil)

	perl, err := tags.Create("Perl", "", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	post := mustCreatePost(t, posts, PostInput{
		Title:    "My first post",
		Text:     "This is my first blog post",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
		TagIDs:   []uint{perl.ID},
	})

	if len(post.Tags) != 1 || post.Tags[0].Slug != "perl" {
		t.Fatalf("expected perl tag association, got %+v", post.Tags)
	}
	if post.Author.Username != "editor" {
		t.Fatalf("expected author preloaded, got %+v", post.Author)
	}
	if flusher.calls != 1 {
		t.Fatalf("expected exactly one flush, got %d", flusher.calls)
	}
}

func TestPostCreateRejectsSlugCollision(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	flusher := &recordingFlusher{}
	posts := NewPostService(gdb, flusher)

	original := mustCreatePost(t, posts, PostInput{
		Title:    "My first post",
		Text:     "original body",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})

	_, err := posts.Create(PostInput{
		Title:    "Impostor",
		Text:     "other body",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})
	assertIs(t, err, ErrSlugTaken)

	var stored db.Post
	if err := gdb.First(&stored, original.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if stored.Text != "original body" {
		t.Fatalf("prior post mutated: %+v", stored)
	}

	// The failed write must not have flushed.
	if flusher.calls != 1 {
		t.Fatalf("expected one flush from the initial create only, got %d", flusher.calls)
	}
}

func TestPostCreateMapsIndexCollisionToSlugTaken(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	posts := NewPostService(gdb, nil)

	post := mustCreatePost(t, posts, PostInput{
		Title:    "My first post",
		Text:     "body",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})

	// Hide the row from the pre-check while the unique index still holds it,
	// the same shape as a concurrent create committing between the check and
	// the insert. The typed error must come from the index backstop.
	if err := gdb.Delete(&db.Post{}, post.ID).Error; err != nil {
		t.Fatalf("soft delete post: %v", err)
	}

	_, err := posts.Create(PostInput{
		Title:    "Impostor",
		Text:     "body",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})
	assertIs(t, err, ErrSlugTaken)
}

func TestPostCreateRejectsUnresolvedReferences(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	posts := NewPostService(gdb, nil)

	base := PostInput{
		Title:    "Broken refs",
		Text:     "body",
		PubDate:  time.Now(),
		AuthorID: authorID,
		SiteID:   siteID,
	}

	badAuthor := base
	badAuthor.Slug = "bad-author"
	badAuthor.AuthorID = 999
	_, err := posts.Create(badAuthor)
	assertIs(t, err, ErrAuthorNotFound)

	badSite := base
	badSite.Slug = "bad-site"
	badSite.SiteID = 999
	_, err = posts.Create(badSite)
	assertIs(t, err, ErrSiteNotFound)

	missingCategory := uint(999)
	badCategory := base
	badCategory.Slug = "bad-category"
	badCategory.CategoryID = &missingCategory
	_, err = posts.Create(badCategory)
	assertIs(t, err, ErrCategoryNotFound)

	badTags := base
	badTags.Slug = "bad-tags"
	badTags.TagIDs = []uint{999}
	_, err = posts.Create(badTags)
	assertIs(t, err, ErrTagNotFound)

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("no post should have been written, got %d", count)
	}
}

func TestPostUpdateRevalidatesSlugAndFlushes(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	flusher := &recordingFlusher{}
	posts := NewPostService(gdb, flusher)

	first := mustCreatePost(t, posts, PostInput{
		Title:    "My first post",
		Text:     "body",
		Slug:     "my-first-post",
		PubDate:  time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})
	second := mustCreatePost(t, posts, PostInput{
		Title:    "My second post",
		Text:     "body",
		Slug:     "my-second-post",
		PubDate:  time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		AuthorID: authorID,
		SiteID:   siteID,
	})

	// Colliding rename is rejected.
	_, err := posts.Update(second.ID, PostInput{
		Title:    "My second post",
		Text:     "body",
		Slug:     first.Slug,
		AuthorID: authorID,
		SiteID:   siteID,
	})
	assertIs(t, err, ErrSlugTaken)

	flushesBefore := flusher.calls

	updated, err := posts.Update(second.ID, PostInput{
		Title:    "My second post, revised",
		Text:     "new body",
		Slug:     "my-second-post",
		AuthorID: authorID,
		SiteID:   siteID,
	})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Title != "My second post, revised" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if flusher.calls != flushesBefore+1 {
		t.Fatalf("expected one flush for the update, got %d", flusher.calls-flushesBefore)
	}
}

func TestPostUpdateReplacesAssociationsAndKeepsPubDate(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	posts := NewPostService(gdb, nil)
	categories := NewCategoryService(gdb, nil)
	tags := NewTagService(gdb, nil)

	python, err := categories.Create("Python", "", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	perl, err := tags.Create("Perl", "", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	published := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	post := mustCreatePost(t, posts, PostInput{
		Title:      "My first post",
		Text:       "body",
		Slug:       "my-first-post",
		PubDate:    published,
		AuthorID:   authorID,
		SiteID:     siteID,
		CategoryID: &python.ID,
		TagIDs:     []uint{perl.ID},
	})

	// An update carries the full post, so omitted category and tags clear
	// the associations. A zero PubDate keeps the stored publish date.
	updated, err := posts.Update(post.ID, PostInput{
		Title:    "My first post",
		Text:     "revised body",
		Slug:     "my-first-post",
		AuthorID: authorID,
		SiteID:   siteID,
	})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}

	if updated.CategoryID != nil {
		t.Fatalf("expected cleared category, got %v", *updated.CategoryID)
	}
	if len(updated.Tags) != 0 {
		t.Fatalf("expected cleared tags, got %+v", updated.Tags)
	}
	if !updated.PubDate.Equal(published) {
		t.Fatalf("expected preserved publish date %v, got %v", published, updated.PubDate)
	}
}

func TestPostDeleteFlushesOnce(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	flusher := &recordingFlusher{}
	posts := NewPostService(gdb, flusher)

	post := mustCreatePost(t, posts, PostInput{
		Title:    "Short lived",
		Text:     "body",
		Slug:     "short-lived",
		PubDate:  time.Now(),
		AuthorID: authorID,
		SiteID:   siteID,
	})

	flushesBefore := flusher.calls
	if err := posts.Delete(post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if flusher.calls != flushesBefore+1 {
		t.Fatalf("expected one flush for the delete, got %d", flusher.calls-flushesBefore)
	}

	assertIs(t, posts.Delete(post.ID), ErrPostNotFound)
	if flusher.calls != flushesBefore+1 {
		t.Fatalf("failed delete must not flush")
	}
}

func TestPostWriteSucceedsWhenFlushFails(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	authorID, siteID := seedAuthorAndSite(t, gdb)
	flusher := &recordingFlusher{err: errors.New("cache backend down")}
	posts := NewPostService(gdb, flusher)

	post, err := posts.Create(PostInput{
		Title:    "Resilient",
		Text:     "body",
		Slug:     "resilient",
		PubDate:  time.Now(),
		AuthorID: authorID,
		SiteID:   siteID,
	})
	if err != nil {
		t.Fatalf("a cache flush failure must never fail the write: %v", err)
	}
	if post.ID == 0 {
		t.Fatalf("expected persisted post")
	}
	if flusher.calls != 1 {
		t.Fatalf("expected flush attempt, got %d", flusher.calls)
	}
}
