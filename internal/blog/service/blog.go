package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
	"github.com/microcosm-cc/bluemonday"
)

var ErrInvalidStatus = errors.New("invalid_status")

// BlogService owns post CRUD. Content is HTML-sanitised on every write so
// stored markup is safe to render as-is.
type BlogService struct {
	Store     store.Store
	Sanitizer *bluemonday.Policy
}

func NewBlogService(st store.Store) *BlogService {
	return &BlogService{
		Store:     st,
		Sanitizer: bluemonday.UGCPolicy(),
	}
}

// BlogUpdate is a partial update; nil fields are left untouched.
type BlogUpdate struct {
	Title     *string
	Content   *string
	BannerURL *string
	Status    *domain.BlogStatus
}

func (s *BlogService) Create(ctx context.Context, authorID, title, content, bannerURL string, status domain.BlogStatus) (domain.Blog, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	if status == "" {
		status = domain.BlogStatusDraft
	}
	if !status.Valid() {
		return domain.Blog{}, ErrInvalidStatus
	}

	b := domain.Blog{
		ID:        idx.New().String(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(title),
		Slug:      slugify(title),
		Content:   s.Sanitizer.Sanitize(content),
		BannerURL: strings.TrimSpace(bannerURL),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.Blogs().CreateBlog(ctx, b)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Slug collision: retry once with a unique suffix.
		b.Slug = b.Slug + "-" + strings.ToLower(idx.New().String())
		err = s.Store.Blogs().CreateBlog(ctx, b)
	}
	if err != nil {
		return domain.Blog{}, err
	}

	l.Info("blog created", "blog_id", b.ID, "author_id", authorID, "status", b.Status)
	return b, nil
}

func (s *BlogService) GetByID(ctx context.Context, id string) (domain.Blog, error) {
	return s.Store.Blogs().GetBlogByID(ctx, id)
}

// ReadBySlug fetches a post for display and bumps its view counter. The
// counter write is best-effort; a failed bump never fails the read.
func (s *BlogService) ReadBySlug(ctx context.Context, slug string) (domain.Blog, error) {
	b, err := s.Store.Blogs().GetBlogBySlug(ctx, slug)
	if err != nil {
		return domain.Blog{}, err
	}

	if err := s.Store.Blogs().IncrementBlogViews(ctx, b.ID); err != nil {
		slogx.FromContext(ctx).Warn("failed to bump view counter", "blog_id", b.ID, "error", err)
	} else {
		b.ViewsCount++
	}

	return b, nil
}

func (s *BlogService) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	return s.Store.Blogs().ListBlogs(ctx, publishedOnly, normalizeLimit(limit), max(offset, 0))
}

func (s *BlogService) ListByAuthor(ctx context.Context, authorID string, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	return s.Store.Blogs().ListBlogsByAuthor(ctx, authorID, publishedOnly, normalizeLimit(limit), max(offset, 0))
}

// Update applies a partial update. The slug is stable across title changes
// so published links keep working.
func (s *BlogService) Update(ctx context.Context, id string, upd BlogUpdate) (domain.Blog, error) {
	b, err := s.Store.Blogs().GetBlogByID(ctx, id)
	if err != nil {
		return domain.Blog{}, err
	}

	if upd.Title != nil {
		b.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		b.Content = s.Sanitizer.Sanitize(*upd.Content)
	}
	if upd.BannerURL != nil {
		b.BannerURL = strings.TrimSpace(*upd.BannerURL)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return domain.Blog{}, ErrInvalidStatus
		}
		b.Status = *upd.Status
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.Store.Blogs().UpdateBlog(ctx, b); err != nil {
		return domain.Blog{}, err
	}
	return b, nil
}

// Delete removes a post. Comments cascade per schema.
func (s *BlogService) Delete(ctx context.Context, id string) (int64, error) {
	return s.Store.Blogs().DeleteBlog(ctx, id)
}

// slugify converts a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeLimit(limit int) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
