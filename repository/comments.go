package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookshelf/data"
)

type comments interface {
	CreateComment(comment *data.Comment) error
	GetComment(commentID int64) (*data.Comment, error)
	UpdateComment(comment *data.Comment) error
	DeleteComment(commentID int64) error
	GetAllCommentsForDiscussion(discussionID int64) ([]*data.Comment, error)
}

// CreateComment creates a comment record. A reply carries the ID of its
// parent comment.
func (r *repository) CreateComment(comment *data.Comment) error {
	query := `
		INSERT INTO comments (discussion_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`
	args := []interface{}{comment.DiscussionID, comment.UserID, comment.ParentID, comment.Content}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt, &comment.Version)
}

// GetComment retrieves a comment record along with the author's username.
func (r *repository) GetComment(commentID int64) (*data.Comment, error) {
	if commentID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT comments.id, comments.discussion_id, comments.user_id, users.username,
			comments.parent_id, comments.content, comments.created_at, comments.updated_at, comments.version
		FROM comments
		INNER JOIN users ON comments.user_id = users.id
		WHERE comments.id = $1`
	var comment data.Comment
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.DiscussionID,
		&comment.UserID,
		&comment.Username,
		&comment.ParentID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &comment, nil
}

// UpdateComment updates a comment record and stamps updated_at.
func (r *repository) UpdateComment(comment *data.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, updated_at = now(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version`
	args := []interface{}{comment.Content, comment.ID, comment.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&comment.UpdatedAt, &comment.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteComment deletes a comment record along with every reply beneath it,
// walking the parent chain recursively.
func (r *repository) DeleteComment(commentID int64) error {
	if commentID < 1 {
		return ErrRecordNotFound
	}
	query := `
		WITH RECURSIVE thread AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT comments.id FROM comments
			INNER JOIN thread ON comments.parent_id = thread.id
		)
		DELETE FROM comments
		WHERE id IN (SELECT id FROM thread)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAllCommentsForDiscussion retrieves a discussion's comments in creation
// order. Thread assembly from parent IDs is left to the caller.
func (r *repository) GetAllCommentsForDiscussion(discussionID int64) ([]*data.Comment, error) {
	query := `
		SELECT comments.id, comments.discussion_id, comments.user_id, users.username,
			comments.parent_id, comments.content, comments.created_at, comments.updated_at, comments.version
		FROM comments
		INNER JOIN users ON comments.user_id = users.id
		WHERE comments.discussion_id = $1
		ORDER BY comments.created_at ASC, comments.id ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, discussionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []*data.Comment{}
	for rows.Next() {
		var comment data.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.DiscussionID,
			&comment.UserID,
			&comment.Username,
			&comment.ParentID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Version,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
