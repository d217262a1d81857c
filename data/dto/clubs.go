package dto

import "github.com/emzola/bookshelf/data"

// CreateBookClubRequestBody defines a request body for CreateBookClub service.
type CreateBookClubRequestBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	ImageURL    string `json:"image_url"`
}

// UpdateBookClubRequestBody defines a request body for UpdateBookClub service.
type UpdateBookClubRequestBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	ImageURL    *string `json:"image_url"`
}

// UpdateMemberRoleRequestBody defines a request body for UpdateMemberRole service.
type UpdateMemberRoleRequestBody struct {
	Role data.MemberRole `json:"role"`
}

// QsListBookClubs defines the query strings used for listing book clubs.
type QsListBookClubs struct {
	Filters data.Filters
}
