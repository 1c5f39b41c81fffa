package service

import (
	"context"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/microcosm-cc/bluemonday"
)

// CommentService keeps comments and the denormalised comments_count on the
// parent blog in sync; every write runs in a single transaction.
type CommentService struct {
	Store     store.Store
	Sanitizer *bluemonday.Policy
}

func NewCommentService(st store.Store) *CommentService {
	return &CommentService{
		Store:     st,
		Sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *CommentService) Create(ctx context.Context, blogID, userID, content string) (domain.Comment, error) {
	now := time.Now().UTC()

	c := domain.Comment{
		ID:        idx.New().String(),
		BlogID:    blogID,
		UserID:    userID,
		Content:   s.Sanitizer.Sanitize(strings.TrimSpace(content)),
		CreatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Confirms the blog exists; FK alone would surface a driver error.
		if _, err := tx.Blogs().GetBlogByID(ctx, blogID); err != nil {
			return err
		}
		if err := tx.Comments().CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.Blogs().AdjustBlogComments(ctx, blogID, 1)
	})
	if err != nil {
		return domain.Comment{}, err
	}

	return c, nil
}

func (s *CommentService) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	return s.Store.Comments().GetCommentByID(ctx, id)
}

func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]domain.Comment, error) {
	// Listing an unknown blog is a 404, not an empty list.
	if _, err := s.Store.Blogs().GetBlogByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.Store.Comments().ListCommentsByBlog(ctx, blogID)
}

// Delete removes a comment and decrements the parent counter atomically.
// Deleting an absent comment reports zero rows without touching the counter.
func (s *CommentService) Delete(ctx context.Context, id string) (int64, error) {
	var deleted int64

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Comments().GetCommentByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := tx.Comments().DeleteComment(ctx, id)
		if err != nil {
			return err
		}
		deleted = n
		if n == 0 {
			return nil
		}
		return tx.Blogs().AdjustBlogComments(ctx, c.BlogID, -1)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
