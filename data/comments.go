package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// Comment defines a discussion comment. Replies reference their parent
// comment; deleting a comment deletes its replies.
type Comment struct {
	ID           int64      `json:"id"`
	DiscussionID int64      `json:"discussion_id"`
	UserID       int64      `json:"user_id"`
	Username     string     `json:"username,omitempty"`
	ParentID     *int64     `json:"parent_id,omitempty"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Version      int32      `json:"-"`
}

func ValidateComment(v *validator.Validator, comment *Comment) {
	v.Check(comment.Content != "", "content", "must be provided")
	v.Check(len(comment.Content) <= 10_000, "content", "must not be more than 10000 bytes long")
}
