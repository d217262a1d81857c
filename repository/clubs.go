package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookshelf/data"
	"github.com/lib/pq"
)

type clubs interface {
	CreateBookClub(club *data.BookClub) error
	GetBookClub(clubID int64) (*data.BookClub, error)
	UpdateBookClub(club *data.BookClub) error
	DeleteBookClub(clubID int64) error
	GetAllPublicBookClubs(search string, filters data.Filters) ([]*data.BookClub, data.Metadata, error)
	GetBookClubsForUser(userID int64) ([]*data.BookClub, error)
	AddBookClubMember(membership *data.BookClubMembership) error
	GetBookClubMembership(clubID int64, userID int64) (*data.BookClubMembership, error)
	RemoveBookClubMember(clubID int64, userID int64) error
	UpdateBookClubMemberRole(clubID int64, userID int64, role data.MemberRole) error
	GetBookClubMembers(clubID int64) ([]*data.BookClubMembership, error)
}

const clubSelectColumns = `book_clubs.id, book_clubs.creator_id, users.username, book_clubs.name,
	book_clubs.description, book_clubs.is_public, book_clubs.image_url,
	(SELECT count(*) FROM book_club_members WHERE book_club_members.book_club_id = book_clubs.id),
	book_clubs.created_at, book_clubs.version`

// CreateBookClub creates a book club record and enrolls the creator as its
// first member in the same transaction.
func (r *repository) CreateBookClub(club *data.BookClub) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := `
		INSERT INTO book_clubs (creator_id, name, description, is_public, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`
	args := []interface{}{club.CreatorID, club.Name, club.Description, club.IsPublic, club.ImageURL}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&club.ID, &club.CreatedAt, &club.Version)
	if err != nil {
		return err
	}
	query = `
		INSERT INTO book_club_members (book_club_id, user_id, role)
		VALUES ($1, $2, $3)`
	_, err = tx.ExecContext(ctx, query, club.ID, club.CreatorID, data.RoleCreator)
	if err != nil {
		return err
	}
	club.MemberCount = 1
	return tx.Commit()
}

// GetBookClub retrieves a book club record along with the creator's username
// and the member count.
func (r *repository) GetBookClub(clubID int64) (*data.BookClub, error) {
	if clubID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + clubSelectColumns + `
		FROM book_clubs
		INNER JOIN users ON book_clubs.creator_id = users.id
		WHERE book_clubs.id = $1`
	var club data.BookClub
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, clubID).Scan(
		&club.ID,
		&club.CreatorID,
		&club.CreatorUsername,
		&club.Name,
		&club.Description,
		&club.IsPublic,
		&club.ImageURL,
		&club.MemberCount,
		&club.CreatedAt,
		&club.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &club, nil
}

// UpdateBookClub updates a book club record. The creator never changes.
func (r *repository) UpdateBookClub(club *data.BookClub) error {
	query := `
		UPDATE book_clubs
		SET name = $1, description = $2, is_public = $3, image_url = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`
	args := []interface{}{club.Name, club.Description, club.IsPublic, club.ImageURL, club.ID, club.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&club.Version)
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

// DeleteBookClub deletes a book club record. The schema cascades the delete
// to memberships and the club's discussions.
func (r *repository) DeleteBookClub(clubID int64) error {
	if clubID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM book_clubs
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, clubID)
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

// GetAllPublicBookClubs retrieves a paginated list of public book clubs. A
// non-empty search term matches against the club name.
func (r *repository) GetAllPublicBookClubs(search string, filters data.Filters) ([]*data.BookClub, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+clubSelectColumns+`
		FROM book_clubs
		INNER JOIN users ON book_clubs.creator_id = users.id
		WHERE book_clubs.is_public = true
			AND ($1 = '' OR book_clubs.name ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s, book_clubs.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	args := []interface{}{search, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	clubs := []*data.BookClub{}
	for rows.Next() {
		var club data.BookClub
		err := rows.Scan(
			&totalRecords,
			&club.ID,
			&club.CreatorID,
			&club.CreatorUsername,
			&club.Name,
			&club.Description,
			&club.IsPublic,
			&club.ImageURL,
			&club.MemberCount,
			&club.CreatedAt,
			&club.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		clubs = append(clubs, &club)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return clubs, metadata, nil
}

// GetBookClubsForUser retrieves all book clubs the user is a member of.
func (r *repository) GetBookClubsForUser(userID int64) ([]*data.BookClub, error) {
	query := `
		SELECT ` + clubSelectColumns + `
		FROM book_clubs
		INNER JOIN users ON book_clubs.creator_id = users.id
		INNER JOIN book_club_members ON book_club_members.book_club_id = book_clubs.id
		WHERE book_club_members.user_id = $1
		ORDER BY book_club_members.joined_at ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	clubs := []*data.BookClub{}
	for rows.Next() {
		var club data.BookClub
		err := rows.Scan(
			&club.ID,
			&club.CreatorID,
			&club.CreatorUsername,
			&club.Name,
			&club.Description,
			&club.IsPublic,
			&club.ImageURL,
			&club.MemberCount,
			&club.CreatedAt,
			&club.Version,
		)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, &club)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return clubs, nil
}

// AddBookClubMember creates a membership record. A unique constraint on the
// (club, user) pair rejects double joins.
func (r *repository) AddBookClubMember(membership *data.BookClubMembership) error {
	query := `
		INSERT INTO book_club_members (book_club_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`
	args := []interface{}{membership.BookClubID, membership.UserID, membership.Role}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&membership.ID, &membership.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetBookClubMembership retrieves a user's membership in a club.
func (r *repository) GetBookClubMembership(clubID int64, userID int64) (*data.BookClubMembership, error) {
	query := `
		SELECT book_club_members.id, book_club_members.book_club_id, book_club_members.user_id,
			users.username, book_club_members.role, book_club_members.joined_at
		FROM book_club_members
		INNER JOIN users ON book_club_members.user_id = users.id
		WHERE book_club_members.book_club_id = $1 AND book_club_members.user_id = $2`
	var membership data.BookClubMembership
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, clubID, userID).Scan(
		&membership.ID,
		&membership.BookClubID,
		&membership.UserID,
		&membership.Username,
		&membership.Role,
		&membership.JoinedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &membership, nil
}

// RemoveBookClubMember deletes a membership record.
func (r *repository) RemoveBookClubMember(clubID int64, userID int64) error {
	query := `
		DELETE FROM book_club_members
		WHERE book_club_id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, clubID, userID)
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

// UpdateBookClubMemberRole changes a member's role.
func (r *repository) UpdateBookClubMemberRole(clubID int64, userID int64, role data.MemberRole) error {
	query := `
		UPDATE book_club_members
		SET role = $1
		WHERE book_club_id = $2 AND user_id = $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, role, clubID, userID)
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

// GetBookClubMembers retrieves all memberships for a club, creator first.
func (r *repository) GetBookClubMembers(clubID int64) ([]*data.BookClubMembership, error) {
	query := `
		SELECT book_club_members.id, book_club_members.book_club_id, book_club_members.user_id,
			users.username, book_club_members.role, book_club_members.joined_at
		FROM book_club_members
		INNER JOIN users ON book_club_members.user_id = users.id
		WHERE book_club_members.book_club_id = $1
		ORDER BY book_club_members.joined_at ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := []*data.BookClubMembership{}
	for rows.Next() {
		var membership data.BookClubMembership
		err := rows.Scan(
			&membership.ID,
			&membership.BookClubID,
			&membership.UserID,
			&membership.Username,
			&membership.Role,
			&membership.JoinedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, &membership)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
