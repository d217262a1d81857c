package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// Discussion defines a discussion thread. It may optionally be bound to a
// book and/or a book club; when bound to a club only members may post in it.
type Discussion struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Username     string     `json:"username,omitempty"`
	BookID       *int64     `json:"book_id,omitempty"`
	BookTitle    string     `json:"book_title,omitempty"`
	BookClubID   *int64     `json:"book_club_id,omitempty"`
	BookClubName string     `json:"book_club_name,omitempty"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CommentCount int64      `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Version      int32      `json:"-"`
}

func ValidateDiscussion(v *validator.Validator, discussion *Discussion) {
	v.Check(discussion.Title != "", "title", "must be provided")
	v.Check(len(discussion.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(discussion.Content != "", "content", "must be provided")
	v.Check(len(discussion.Content) <= 20_000, "content", "must not be more than 20000 bytes long")
}
