package domain

import "time"

// BlogStatus controls the visibility of a post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

type Blog struct {
	ID            string
	AuthorID      string
	Title         string
	Slug          string
	Content       string
	BannerURL     string
	Status        BlogStatus
	ViewsCount    int64
	CommentsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
