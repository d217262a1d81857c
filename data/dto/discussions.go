package dto

// CreateDiscussionRequestBody defines a request body for CreateDiscussion service.
type CreateDiscussionRequestBody struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	BookID     *int64 `json:"book_id"`
	BookClubID *int64 `json:"book_club_id"`
}

// UpdateDiscussionRequestBody defines a request body for UpdateDiscussion service.
type UpdateDiscussionRequestBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateCommentRequestBody defines a request body for CreateComment service.
type CreateCommentRequestBody struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateCommentRequestBody defines a request body for UpdateComment service.
type UpdateCommentRequestBody struct {
	Content *string `json:"content"`
}
