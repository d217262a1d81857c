package dto

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActivateUserRequestBody defines a request body for ActivateUser service.
type ActivateUserRequestBody struct {
	Token string `json:"token"`
}

// UpdateUserRequestBody defines a request body for UpdateUser service. The
// fields are pointer types to allow partial updates.
type UpdateUserRequestBody struct {
	Username          *string `json:"username"`
	Email             *string `json:"email"`
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// UpdateUserPasswordRequestBody defines a request body for UpdateUserPassword service.
type UpdateUserPasswordRequestBody struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetUserPasswordRequestBody defines a request body for ResetUserPassword service.
type ResetUserPasswordRequestBody struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}
