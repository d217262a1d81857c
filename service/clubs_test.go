package service

import (
	"errors"
	"testing"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/repository"
)

func TestJoinBookClub(t *testing.T) {
	t.Run("joins a public club as a member", func(t *testing.T) {
		repo := &testRepo{
			getBookClub: func(clubID int64) (*data.BookClub, error) {
				return &data.BookClub{ID: clubID, IsPublic: true}, nil
			},
			addBookClubMember: func(membership *data.BookClubMembership) error { return nil },
		}
		s, _ := newTestService(t, repo)
		membership, err := s.JoinBookClub(5, 1)
		if err != nil {
			t.Fatal(err)
		}
		if membership.Role != data.RoleMember {
			t.Errorf("Role = %q; want %q", membership.Role, data.RoleMember)
		}
	})

	t.Run("private clubs cannot be joined", func(t *testing.T) {
		repo := &testRepo{
			getBookClub: func(clubID int64) (*data.BookClub, error) {
				return &data.BookClub{ID: clubID, IsPublic: false}, nil
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.JoinBookClub(5, 1)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})

	t.Run("joining twice is rejected", func(t *testing.T) {
		repo := &testRepo{
			getBookClub: func(clubID int64) (*data.BookClub, error) {
				return &data.BookClub{ID: clubID, IsPublic: true}, nil
			},
			addBookClubMember: func(membership *data.BookClubMembership) error {
				return repository.ErrDuplicateRecord
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.JoinBookClub(5, 1)
		if !errors.Is(err, ErrDuplicateRecord) {
			t.Errorf("expected ErrDuplicateRecord; got %v", err)
		}
	})

	t.Run("unknown club", func(t *testing.T) {
		repo := &testRepo{
			getBookClub: func(clubID int64) (*data.BookClub, error) {
				return nil, repository.ErrRecordNotFound
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.JoinBookClub(5, 1)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound; got %v", err)
		}
	})
}

func TestLeaveBookClub(t *testing.T) {
	t.Run("a member can leave", func(t *testing.T) {
		removed := false
		repo := &testRepo{
			getBookClubMembership: func(clubID, userID int64) (*data.BookClubMembership, error) {
				return &data.BookClubMembership{BookClubID: clubID, UserID: userID, Role: data.RoleMember}, nil
			},
			removeBookClubMember: func(clubID, userID int64) error {
				removed = true
				return nil
			},
		}
		s, _ := newTestService(t, repo)
		if err := s.LeaveBookClub(5, 2); err != nil {
			t.Fatal(err)
		}
		if !removed {
			t.Error("expected the membership to be removed")
		}
	})

	t.Run("the creator cannot leave", func(t *testing.T) {
		repo := &testRepo{
			getBookClubMembership: func(clubID, userID int64) (*data.BookClubMembership, error) {
				return &data.BookClubMembership{BookClubID: clubID, UserID: userID, Role: data.RoleCreator}, nil
			},
		}
		s, _ := newTestService(t, repo)
		err := s.LeaveBookClub(5, 1)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})
}

func TestUpdateMemberRole(t *testing.T) {
	memberships := map[int64]*data.BookClubMembership{
		1: {UserID: 1, Role: data.RoleCreator},
		2: {UserID: 2, Role: data.RoleAdmin},
		3: {UserID: 3, Role: data.RoleMember},
	}
	repo := &testRepo{
		getBookClubMembership: func(clubID, userID int64) (*data.BookClubMembership, error) {
			m, ok := memberships[userID]
			if !ok {
				return nil, repository.ErrRecordNotFound
			}
			copy := *m
			return &copy, nil
		},
	}

	t.Run("rejects the creator role", func(t *testing.T) {
		s, _ := newTestService(t, repo)
		_, err := s.UpdateMemberRole(5, 1, 3, data.RoleCreator)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("a plain member cannot change roles", func(t *testing.T) {
		s, _ := newTestService(t, repo)
		_, err := s.UpdateMemberRole(5, 3, 2, data.RoleMember)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})

	t.Run("the creator's role is immutable", func(t *testing.T) {
		s, _ := newTestService(t, repo)
		_, err := s.UpdateMemberRole(5, 2, 1, data.RoleMember)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})
}

func TestDeleteBookClub(t *testing.T) {
	t.Run("only the creator may delete", func(t *testing.T) {
		repo := &testRepo{
			getBookClub: func(clubID int64) (*data.BookClub, error) {
				return &data.BookClub{ID: clubID, CreatorID: 1}, nil
			},
		}
		s, _ := newTestService(t, repo)
		err := s.DeleteBookClub(5, 2)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})
}
