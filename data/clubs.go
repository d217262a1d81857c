package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// MemberRole governs what a member may do within a book club.
type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleAdmin   MemberRole = "admin"
	RoleCreator MemberRole = "creator"
)

// MemberRoleSafeList enumerates the roles that can be assigned to a member.
// The creator role is assigned at club creation and is immutable, so it is
// deliberately absent.
var MemberRoleSafeList = []string{string(RoleMember), string(RoleAdmin)}

// BookClub defines a book club. The creator is fixed at creation time.
type BookClub struct {
	ID              int64     `json:"id"`
	CreatorID       int64     `json:"creator_id"`
	CreatorUsername string    `json:"creator_username,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	IsPublic        bool      `json:"is_public"`
	ImageURL        string    `json:"image_url,omitempty"`
	MemberCount     int64     `json:"member_count"`
	CreatedAt       time.Time `json:"created_at"`
	Version         int32     `json:"-"`
}

func ValidateBookClub(v *validator.Validator, club *BookClub) {
	v.Check(club.Name != "", "name", "must be provided")
	v.Check(len(club.Name) <= 200, "name", "must not be more than 200 bytes long")
	v.Check(len(club.Description) <= 5000, "description", "must not be more than 5000 bytes long")
}

// BookClubMembership links a user to a book club with a role. One membership
// exists per (club, user) pair.
type BookClubMembership struct {
	ID         int64      `json:"id"`
	BookClubID int64      `json:"book_club_id"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	Role       MemberRole `json:"role"`
	JoinedAt   time.Time  `json:"joined_at"`
}

// CanManage reports whether the membership grants admin privileges over the
// club (role changes, club edits, discussion moderation).
func (m *BookClubMembership) CanManage() bool {
	return m.Role == RoleAdmin || m.Role == RoleCreator
}
