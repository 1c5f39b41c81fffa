package service

import (
	"context"
	"testing"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/stretchr/testify/require"
)

func TestBlogServiceCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBlogService(st)
	author := createTestUser(t, st, domain.RoleAdmin)

	t.Run("slug is derived from the title", func(t *testing.T) {
		b, err := svc.Create(ctx, author.ID, "  Hello, World!  ", "<p>content</p>", "", domain.BlogStatusPublished)
		require.NoError(t, err)
		require.Equal(t, "hello-world", b.Slug)
		require.Equal(t, "Hello, World!", b.Title)
	})

	t.Run("colliding slug gets a unique suffix", func(t *testing.T) {
		b, err := svc.Create(ctx, author.ID, "Hello, World!", "second post", "", domain.BlogStatusPublished)
		require.NoError(t, err)
		require.NotEqual(t, "hello-world", b.Slug)
		require.Contains(t, b.Slug, "hello-world-")
	})

	t.Run("script tags are stripped from content", func(t *testing.T) {
		b, err := svc.Create(ctx, author.ID, "XSS attempt", `<p>hi</p><script>alert(1)</script>`, "", domain.BlogStatusDraft)
		require.NoError(t, err)
		require.NotContains(t, b.Content, "<script>")
		require.Contains(t, b.Content, "<p>hi</p>")
	})

	t.Run("empty status defaults to draft", func(t *testing.T) {
		b, err := svc.Create(ctx, author.ID, "No status", "content", "", "")
		require.NoError(t, err)
		require.Equal(t, domain.BlogStatusDraft, b.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, author.ID, "Bad status", "content", "", "archived")
		require.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestBlogServiceListing(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBlogService(st)
	author := createTestUser(t, st, domain.RoleAdmin)

	_, err := svc.Create(ctx, author.ID, "Published post", "content", "", domain.BlogStatusPublished)
	require.NoError(t, err)
	_, err = svc.Create(ctx, author.ID, "Draft post", "content", "", domain.BlogStatusDraft)
	require.NoError(t, err)

	t.Run("published-only listing hides drafts", func(t *testing.T) {
		blogs, err := svc.List(ctx, true, 10, 0)
		require.NoError(t, err)
		require.Len(t, blogs, 1)
		require.Equal(t, "Published post", blogs[0].Title)
	})

	t.Run("unfiltered listing includes drafts", func(t *testing.T) {
		blogs, err := svc.List(ctx, false, 10, 0)
		require.NoError(t, err)
		require.Len(t, blogs, 2)
	})

	t.Run("author listing honors the filter", func(t *testing.T) {
		blogs, err := svc.ListByAuthor(ctx, author.ID, true, 10, 0)
		require.NoError(t, err)
		require.Len(t, blogs, 1)

		blogs, err = svc.ListByAuthor(ctx, author.ID, false, 10, 0)
		require.NoError(t, err)
		require.Len(t, blogs, 2)
	})
}

func TestBlogServiceReadBySlug(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBlogService(st)
	author := createTestUser(t, st, domain.RoleAdmin)

	created, err := svc.Create(ctx, author.ID, "Counted post", "content", "", domain.BlogStatusPublished)
	require.NoError(t, err)

	b, err := svc.ReadBySlug(ctx, created.Slug)
	require.NoError(t, err)
	require.EqualValues(t, 1, b.ViewsCount)

	b, err = svc.ReadBySlug(ctx, created.Slug)
	require.NoError(t, err)
	require.EqualValues(t, 2, b.ViewsCount)

	_, err = svc.ReadBySlug(ctx, "no-such-slug")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBlogServiceUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBlogService(st)
	author := createTestUser(t, st, domain.RoleAdmin)

	created, err := svc.Create(ctx, author.ID, "Original title", "content", "", domain.BlogStatusDraft)
	require.NoError(t, err)

	t.Run("partial update keeps the slug stable", func(t *testing.T) {
		newTitle := "Renamed title"
		status := domain.BlogStatusPublished
		updated, err := svc.Update(ctx, created.ID, BlogUpdate{Title: &newTitle, Status: &status})
		require.NoError(t, err)
		require.Equal(t, "Renamed title", updated.Title)
		require.Equal(t, created.Slug, updated.Slug)
		require.Equal(t, domain.BlogStatusPublished, updated.Status)
		require.Equal(t, "content", updated.Content, "untouched fields survive")
	})

	t.Run("updated content is sanitised", func(t *testing.T) {
		dirty := `ok<script>alert(1)</script>`
		updated, err := svc.Update(ctx, created.ID, BlogUpdate{Content: &dirty})
		require.NoError(t, err)
		require.NotContains(t, updated.Content, "script")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		title := "x"
		_, err := svc.Update(ctx, "missing", BlogUpdate{Title: &title})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestBlogServiceDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBlogService(st)
	author := createTestUser(t, st, domain.RoleAdmin)

	created, err := svc.Create(ctx, author.ID, "Doomed post", "content", "", domain.BlogStatusPublished)
	require.NoError(t, err)

	n, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again reports zero rows, not an error.
	n, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}
