package sqlite

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type commentsRepo struct {
	q dbtx
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO comments (id, blog_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.BlogID, c.UserID, c.Content, c.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	var c domain.Comment
	err := r.q.QueryRowContext(ctx,
		`SELECT id, blog_id, user_id, content, created_at FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.BlogID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) ListCommentsByBlog(ctx context.Context, blogID string) ([]domain.Comment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, blog_id, user_id, content, created_at FROM comments WHERE blog_id = ? ORDER BY created_at DESC, id DESC`,
		blogID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
