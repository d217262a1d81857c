package service

import (
	"errors"
	"mime/multipart"

	"github.com/emzola/bookshelf/clients"
	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type clubs interface {
	CreateBookClub(userID int64, body dto.CreateBookClubRequestBody) (*data.BookClub, error)
	GetBookClub(clubID int64) (*data.BookClub, error)
	UpdateBookClub(clubID int64, userID int64, body dto.UpdateBookClubRequestBody) (*data.BookClub, error)
	UploadBookClubImage(clubID int64, userID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.BookClub, error)
	DeleteBookClub(clubID int64, userID int64) error
	ListPublicBookClubs(search string, filters data.Filters) ([]*data.BookClub, data.Metadata, error)
	ListUserBookClubs(userID int64) ([]*data.BookClub, error)
	JoinBookClub(clubID int64, userID int64) (*data.BookClubMembership, error)
	LeaveBookClub(clubID int64, userID int64) error
	UpdateMemberRole(clubID int64, actorID int64, memberUserID int64, role data.MemberRole) (*data.BookClubMembership, error)
	RemoveBookClubMember(clubID int64, actorID int64, memberUserID int64) error
	ListBookClubMembers(clubID int64) ([]*data.BookClubMembership, error)
	CreateDiscussion(userID int64, body dto.CreateDiscussionRequestBody) (*data.Discussion, error)
	GetDiscussion(discussionID int64) (*data.Discussion, error)
	UpdateDiscussion(discussionID int64, userID int64, body dto.UpdateDiscussionRequestBody) (*data.Discussion, error)
	DeleteDiscussion(discussionID int64, userID int64) error
	ListClubDiscussions(clubID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error)
	ListBookDiscussions(bookID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error)
	CreateComment(discussionID int64, userID int64, body dto.CreateCommentRequestBody) (*data.Comment, error)
	UpdateComment(commentID int64, userID int64, body dto.UpdateCommentRequestBody) (*data.Comment, error)
	DeleteComment(commentID int64, userID int64) error
	ListDiscussionComments(discussionID int64) ([]*data.Comment, error)
}

// CreateBookClub service creates a book club. The creating user becomes the
// club's creator and first member.
func (s *service) CreateBookClub(userID int64, body dto.CreateBookClubRequestBody) (*data.BookClub, error) {
	club := &data.BookClub{
		CreatorID:   userID,
		Name:        body.Name,
		Description: body.Description,
		IsPublic:    body.IsPublic,
		ImageURL:    body.ImageURL,
	}
	v := validator.New()
	if data.ValidateBookClub(v, club); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBookClub(club)
	if err != nil {
		return nil, err
	}
	return club, nil
}

// GetBookClub service retrieves a book club's details.
func (s *service) GetBookClub(clubID int64) (*data.BookClub, error) {
	club, err := s.repo.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return club, nil
}

// UpdateBookClub service updates a club's details. Only an admin or the
// creator may edit a club.
func (s *service) UpdateBookClub(clubID int64, userID int64, body dto.UpdateBookClubRequestBody) (*data.BookClub, error) {
	club, err := s.repo.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	membership, err := s.repo.GetBookClubMembership(clubID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrNotPermitted
		default:
			return nil, err
		}
	}
	if !membership.CanManage() {
		return nil, ErrNotPermitted
	}
	if body.Name != nil {
		club.Name = *body.Name
	}
	if body.Description != nil {
		club.Description = *body.Description
	}
	if body.IsPublic != nil {
		club.IsPublic = *body.IsPublic
	}
	if body.ImageURL != nil {
		club.ImageURL = *body.ImageURL
	}
	v := validator.New()
	if data.ValidateBookClub(v, club); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBookClub(club)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return club, nil
}

// UploadBookClubImage service uploads a club's cover image to object storage
// and records its URL on the club. Only an admin or the creator may change it.
func (s *service) UploadBookClubImage(clubID int64, userID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.BookClub, error) {
	club, err := s.repo.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	membership, err := s.repo.GetBookClubMembership(clubID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrNotPermitted
		default:
			return nil, err
		}
	}
	if !membership.CanManage() {
		return nil, ErrNotPermitted
	}
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if v.Check(validator.Mime(mtype, "image/jpeg", "image/png", "image/webp"), "image", "must be a jpeg, png or webp image"); !v.Valid() {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	url, err := s.uploadFileToS3(s3Client, buffer, mtype, fileHeader, "clubimages")
	if err != nil {
		return nil, err
	}
	club.ImageURL = url
	err = s.repo.UpdateBookClub(club)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return club, nil
}

// DeleteBookClub service deletes a club. Only the creator may delete it.
func (s *service) DeleteBookClub(clubID int64, userID int64) error {
	club, err := s.repo.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if club.CreatorID != userID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListPublicBookClubs service retrieves a paginated list of public clubs.
func (s *service) ListPublicBookClubs(search string, filters data.Filters) ([]*data.BookClub, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	clubs, metadata, err := s.repo.GetAllPublicBookClubs(search, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return clubs, metadata, nil
}

// ListUserBookClubs service retrieves the clubs a user belongs to.
func (s *service) ListUserBookClubs(userID int64) ([]*data.BookClub, error) {
	return s.repo.GetBookClubsForUser(userID)
}

// JoinBookClub service enrolls a user in a public club. Private clubs cannot
// be joined directly and joining twice is rejected.
func (s *service) JoinBookClub(clubID int64, userID int64) (*data.BookClubMembership, error) {
	club, err := s.repo.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if !club.IsPublic {
		return nil, ErrNotPermitted
	}
	membership := &data.BookClubMembership{
		BookClubID: club.ID,
		UserID:     userID,
		Role:       data.RoleMember,
	}
	err = s.repo.AddBookClubMember(membership)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return membership, nil
}

// LeaveBookClub service removes a user from a club. The creator cannot leave
// their own club; they must delete it instead.
func (s *service) LeaveBookClub(clubID int64, userID int64) error {
	membership, err := s.repo.GetBookClubMembership(clubID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if membership.Role == data.RoleCreator {
		return ErrNotPermitted
	}
	err = s.repo.RemoveBookClubMember(clubID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// UpdateMemberRole service changes a member's role. Only an admin or the
// creator may change roles, and the creator's own role is immutable.
func (s *service) UpdateMemberRole(clubID int64, actorID int64, memberUserID int64, role data.MemberRole) (*data.BookClubMembership, error) {
	v := validator.New()
	if v.Check(validator.In(string(role), data.MemberRoleSafeList...), "role", "must be member or admin"); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	actor, err := s.repo.GetBookClubMembership(clubID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrNotPermitted
		default:
			return nil, err
		}
	}
	if !actor.CanManage() {
		return nil, ErrNotPermitted
	}
	member, err := s.repo.GetBookClubMembership(clubID, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if member.Role == data.RoleCreator {
		return nil, ErrNotPermitted
	}
	err = s.repo.UpdateBookClubMemberRole(clubID, memberUserID, role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	member.Role = role
	return member, nil
}

// RemoveBookClubMember service removes another member from a club. Only an
// admin or the creator may remove members, and the creator cannot be removed.
func (s *service) RemoveBookClubMember(clubID int64, actorID int64, memberUserID int64) error {
	actor, err := s.repo.GetBookClubMembership(clubID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrNotPermitted
		default:
			return err
		}
	}
	if !actor.CanManage() {
		return ErrNotPermitted
	}
	member, err := s.repo.GetBookClubMembership(clubID, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if member.Role == data.RoleCreator {
		return ErrNotPermitted
	}
	err = s.repo.RemoveBookClubMember(clubID, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListBookClubMembers service retrieves a club's members.
func (s *service) ListBookClubMembers(clubID int64) ([]*data.BookClubMembership, error) {
	if _, err := s.repo.GetBookClub(clubID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return s.repo.GetBookClubMembers(clubID)
}

// CreateDiscussion service starts a discussion thread. A discussion bound to
// a club may only be started by one of its members; a discussion bound to a
// book requires the book to exist.
func (s *service) CreateDiscussion(userID int64, body dto.CreateDiscussionRequestBody) (*data.Discussion, error) {
	discussion := &data.Discussion{
		UserID:     userID,
		BookID:     body.BookID,
		BookClubID: body.BookClubID,
		Title:      body.Title,
		Content:    body.Content,
	}
	v := validator.New()
	if data.ValidateDiscussion(v, discussion); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	if discussion.BookID != nil {
		if _, err := s.repo.GetBook(*discussion.BookID); err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrRecordNotFound
			default:
				return nil, err
			}
		}
	}
	if discussion.BookClubID != nil {
		if _, err := s.repo.GetBookClub(*discussion.BookClubID); err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrRecordNotFound
			default:
				return nil, err
			}
		}
		if _, err := s.repo.GetBookClubMembership(*discussion.BookClubID, userID); err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrNotPermitted
			default:
				return nil, err
			}
		}
	}
	err := s.repo.CreateDiscussion(discussion)
	if err != nil {
		return nil, err
	}
	return discussion, nil
}

// GetDiscussion service retrieves a discussion thread.
func (s *service) GetDiscussion(discussionID int64) (*data.Discussion, error) {
	discussion, err := s.repo.GetDiscussion(discussionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return discussion, nil
}

// UpdateDiscussion service updates a discussion. Only its author may edit it.
func (s *service) UpdateDiscussion(discussionID int64, userID int64, body dto.UpdateDiscussionRequestBody) (*data.Discussion, error) {
	discussion, err := s.repo.GetDiscussion(discussionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if discussion.UserID != userID {
		return nil, ErrNotPermitted
	}
	if body.Title != nil {
		discussion.Title = *body.Title
	}
	if body.Content != nil {
		discussion.Content = *body.Content
	}
	v := validator.New()
	if data.ValidateDiscussion(v, discussion); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateDiscussion(discussion)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return discussion, nil
}

// DeleteDiscussion service deletes a discussion. The author may always delete
// it; for a club discussion a club admin or the creator may delete it too.
func (s *service) DeleteDiscussion(discussionID int64, userID int64) error {
	discussion, err := s.repo.GetDiscussion(discussionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if discussion.UserID != userID {
		if !s.canModerate(discussion, userID) {
			return ErrNotPermitted
		}
	}
	err = s.repo.DeleteDiscussion(discussionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListClubDiscussions service retrieves a paginated list of a club's
// discussions.
func (s *service) ListClubDiscussions(clubID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	if _, err := s.repo.GetBookClub(clubID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	discussions, metadata, err := s.repo.GetAllDiscussionsForClub(clubID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return discussions, metadata, nil
}

// ListBookDiscussions service retrieves a paginated list of a book's
// discussions.
func (s *service) ListBookDiscussions(bookID int64, filters data.Filters) ([]*data.Discussion, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	if _, err := s.repo.GetBook(bookID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	discussions, metadata, err := s.repo.GetAllDiscussionsForBook(bookID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return discussions, metadata, nil
}

// CreateComment service posts a comment in a discussion. Commenting in a club
// discussion requires membership, and a reply must reference a parent in the
// same discussion.
func (s *service) CreateComment(discussionID int64, userID int64, body dto.CreateCommentRequestBody) (*data.Comment, error) {
	discussion, err := s.repo.GetDiscussion(discussionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if discussion.BookClubID != nil {
		if _, err := s.repo.GetBookClubMembership(*discussion.BookClubID, userID); err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrNotPermitted
			default:
				return nil, err
			}
		}
	}
	comment := &data.Comment{
		DiscussionID: discussion.ID,
		UserID:       userID,
		ParentID:     body.ParentID,
		Content:      body.Content,
	}
	v := validator.New()
	if data.ValidateComment(v, comment); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	if comment.ParentID != nil {
		parent, err := s.repo.GetComment(*comment.ParentID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrRecordNotFound
			default:
				return nil, err
			}
		}
		if parent.DiscussionID != discussion.ID {
			v.AddError("parent_id", "must reference a comment in the same discussion")
			return nil, s.failedValidation(v.Errors)
		}
	}
	err = s.repo.CreateComment(comment)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment service edits a comment. Only its author may edit it.
func (s *service) UpdateComment(commentID int64, userID int64, body dto.UpdateCommentRequestBody) (*data.Comment, error) {
	comment, err := s.repo.GetComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if comment.UserID != userID {
		return nil, ErrNotPermitted
	}
	if body.Content != nil {
		comment.Content = *body.Content
	}
	v := validator.New()
	if data.ValidateComment(v, comment); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateComment(comment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return comment, nil
}

// DeleteComment service deletes a comment and all replies beneath it. The
// author may always delete it; for a club discussion a club admin or the
// creator may delete it too.
func (s *service) DeleteComment(commentID int64, userID int64) error {
	comment, err := s.repo.GetComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if comment.UserID != userID {
		discussion, err := s.repo.GetDiscussion(comment.DiscussionID)
		if err != nil {
			return err
		}
		if !s.canModerate(discussion, userID) {
			return ErrNotPermitted
		}
	}
	err = s.repo.DeleteComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListDiscussionComments service retrieves a discussion's comments in
// creation order.
func (s *service) ListDiscussionComments(discussionID int64) ([]*data.Comment, error) {
	if _, err := s.repo.GetDiscussion(discussionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return s.repo.GetAllCommentsForDiscussion(discussionID)
}

// canModerate reports whether the user holds an admin or creator role in the
// club a discussion belongs to. Discussions outside a club have no
// moderators.
func (s *service) canModerate(discussion *data.Discussion, userID int64) bool {
	if discussion.BookClubID == nil {
		return false
	}
	membership, err := s.repo.GetBookClubMembership(*discussion.BookClubID, userID)
	if err != nil {
		return false
	}
	return membership.CanManage()
}
