package sqlite

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
)

type blogsRepo struct {
	q dbtx
}

const blogColumns = `id, author_id, title, slug, content, banner_url, status, views_count, comments_count, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(
		&b.ID, &b.AuthorID, &b.Title, &b.Slug, &b.Content, &b.BannerURL,
		&b.Status, &b.ViewsCount, &b.CommentsCount, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *blogsRepo) CreateBlog(ctx context.Context, b domain.Blog) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO blogs (id, author_id, title, slug, content, banner_url, status, views_count, comments_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AuthorID, b.Title, b.Slug, b.Content, b.BannerURL,
		b.Status, b.ViewsCount, b.CommentsCount, b.CreatedAt, b.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *blogsRepo) GetBlogByID(ctx context.Context, id string) (domain.Blog, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)
	b, err := scanBlog(row)
	if err != nil {
		return domain.Blog{}, mapNotFound(err)
	}
	return b, nil
}

func (r *blogsRepo) GetBlogBySlug(ctx context.Context, slug string) (domain.Blog, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug)
	b, err := scanBlog(row)
	if err != nil {
		return domain.Blog{}, mapNotFound(err)
	}
	return b, nil
}

func (r *blogsRepo) ListBlogs(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	args := []any{}
	if publishedOnly {
		query += ` WHERE status = ?`
		args = append(args, domain.BlogStatusPublished)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryBlogs(ctx, query, args...)
}

func (r *blogsRepo) ListBlogsByAuthor(ctx context.Context, authorID string, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE author_id = ?`
	args := []any{authorID}
	if publishedOnly {
		query += ` AND status = ?`
		args = append(args, domain.BlogStatusPublished)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryBlogs(ctx, query, args...)
}

func (r *blogsRepo) queryBlogs(ctx context.Context, query string, args ...any) ([]domain.Blog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func (r *blogsRepo) UpdateBlog(ctx context.Context, b domain.Blog) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE blogs
		SET title = ?, slug = ?, content = ?, banner_url = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.Slug, b.Content, b.BannerURL, b.Status, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *blogsRepo) DeleteBlog(ctx context.Context, id string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *blogsRepo) IncrementBlogViews(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE blogs SET views_count = views_count + 1 WHERE id = ?`, id)
	return err
}

func (r *blogsRepo) AdjustBlogComments(ctx context.Context, id string, delta int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE blogs SET comments_count = comments_count + ? WHERE id = ?`, delta, id)
	return err
}
