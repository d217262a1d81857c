package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookshelf/data"
)

type discussions interface {
	CreateDiscussion(discussion *data.Discussion) error
	GetDiscussion(discussionID int64) (*data.Discussion, error)
	UpdateDiscussion(discussion *data.Discussion) error
	DeleteDiscussion(discussionID int64) error
	GetAllDiscussionsForClub(clubID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error)
	GetAllDiscussionsForBook(bookID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error)
}

const discussionSelectColumns = `discussions.id, discussions.user_id, users.username,
	discussions.book_id, coalesce(books.title, ''), discussions.book_club_id, coalesce(book_clubs.name, ''),
	discussions.title, discussions.content,
	(SELECT count(*) FROM comments WHERE comments.discussion_id = discussions.id),
	discussions.created_at, discussions.updated_at, discussions.version`

const discussionJoins = `
	FROM discussions
	INNER JOIN users ON discussions.user_id = users.id
	LEFT JOIN books ON discussions.book_id = books.id
	LEFT JOIN book_clubs ON discussions.book_club_id = book_clubs.id`

// CreateDiscussion creates a discussion record.
func (r *repository) CreateDiscussion(discussion *data.Discussion) error {
	query := `
		INSERT INTO discussions (user_id, book_id, book_club_id, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`
	args := []interface{}{discussion.UserID, discussion.BookID, discussion.BookClubID, discussion.Title, discussion.Content}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&discussion.ID, &discussion.CreatedAt, &discussion.Version)
}

// GetDiscussion retrieves a discussion record along with its author, any
// bound book or club, and the comment count.
func (r *repository) GetDiscussion(discussionID int64) (*data.Discussion, error) {
	if discussionID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + discussionSelectColumns + discussionJoins + `
		WHERE discussions.id = $1`
	var discussion data.Discussion
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, discussionID).Scan(
		&discussion.ID,
		&discussion.UserID,
		&discussion.Username,
		&discussion.BookID,
		&discussion.BookTitle,
		&discussion.BookClubID,
		&discussion.BookClubName,
		&discussion.Title,
		&discussion.Content,
		&discussion.CommentCount,
		&discussion.CreatedAt,
		&discussion.UpdatedAt,
		&discussion.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &discussion, nil
}

// UpdateDiscussion updates a discussion record and stamps updated_at.
func (r *repository) UpdateDiscussion(discussion *data.Discussion) error {
	query := `
		UPDATE discussions
		SET title = $1, content = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []interface{}{discussion.Title, discussion.Content, discussion.ID, discussion.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&discussion.UpdatedAt, &discussion.Version)
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

// DeleteDiscussion deletes a discussion record. The schema cascades the
// delete to the discussion's comments.
func (r *repository) DeleteDiscussion(discussionID int64) error {
	if discussionID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM discussions
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, discussionID)
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

// GetAllDiscussionsForClub retrieves a paginated list of a club's discussions.
func (r *repository) GetAllDiscussionsForClub(clubID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+discussionSelectColumns+discussionJoins+`
		WHERE discussions.book_club_id = $1
		ORDER BY %s %s, discussions.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	return r.getAllDiscussions(query, clubID, filters)
}

// GetAllDiscussionsForBook retrieves a paginated list of a book's discussions.
func (r *repository) GetAllDiscussionsForBook(bookID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+discussionSelectColumns+discussionJoins+`
		WHERE discussions.book_id = $1
		ORDER BY %s %s, discussions.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	return r.getAllDiscussions(query, bookID, filters)
}

func (r *repository) getAllDiscussions(query string, id int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error) {
	args := []interface{}{id, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	discussions := []*data.Discussion{}
	for rows.Next() {
		var discussion data.Discussion
		err := rows.Scan(
			&totalRecords,
			&discussion.ID,
			&discussion.UserID,
			&discussion.Username,
			&discussion.BookID,
			&discussion.BookTitle,
			&discussion.BookClubID,
			&discussion.BookClubName,
			&discussion.Title,
			&discussion.Content,
			&discussion.CommentCount,
			&discussion.CreatedAt,
			&discussion.UpdatedAt,
			&discussion.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		discussions = append(discussions, &discussion)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return discussions, metadata, nil
}
