package service

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/emzola/bookshelf/clients"
	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/mailer"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type users interface {
	RegisterUser(username string, email string, password string) (*data.User, error)
	ActivateUser(token string) (*data.User, error)
	ShowUser(userID int64) (*data.User, error)
	UpdateUser(userID int64, body dto.UpdateUserRequestBody) (*data.User, error)
	UpdateUserPassword(userID int64, old string, new string, confirm string) (*data.User, error)
	UploadUserProfilePicture(userID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.User, error)
	DeleteUser(userID int64) error
	ResetUserPassword(password string, token string) error
	GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error)
}

// RegisterUser service registers a new user and creates their default
// bookshelf.
func (s *service) RegisterUser(username string, email string, password string) (*data.User, error) {
	user := &data.User{
		Username:  username,
		Email:     email,
		Activated: false,
	}
	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address or username already exists")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	// Every user gets a default shelf which cannot be renamed or deleted.
	shelf := &data.Bookshelf{
		UserID:    user.ID,
		Name:      "My Books",
		IsDefault: true,
	}
	err = s.repo.CreateBookshelf(shelf)
	if err != nil {
		return nil, err
	}
	// Generate a new activation token for user
	token, err := s.repo.CreateNewToken(user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return nil, err
	}
	// Send welcome email in a background goroutine to speed up response time
	s.background(func() {
		data := map[string]string{
			"userName":        user.Username,
			"activationToken": token.Plaintext,
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err := mailer.Send(user.Email, "user_welcome.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, nil
}

// ActivateUser service activates a newly registered user.
func (s *service) ActivateUser(token string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, token); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	// Retrieve user associated with the activation token. If the user record
	// isn't found, it means the token is invalid
	user, err := s.repo.GetUserForToken(data.ScopeActivation, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired activation token")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	user.Activated = true
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	err = s.repo.DeleteAllTokensForUser(data.ScopeActivation, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ShowUser service shows the details of a specific user.
func (s *service) ShowUser(userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUser service updates the profile of a specific user.
func (s *service) UpdateUser(userID int64, body dto.UpdateUserRequestBody) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if body.Username != nil {
		user.Username = *body.Username
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.FirstName != nil {
		user.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		user.LastName = *body.LastName
	}
	if body.Bio != nil {
		user.Bio = *body.Bio
	}
	if body.ProfilePictureURL != nil {
		user.ProfilePictureURL = *body.ProfilePictureURL
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address or username already exists")
			return nil, s.failedValidation(v.Errors)
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUserPassword service updates an authenticated user's password.
func (s *service) UpdateUserPassword(userID int64, old string, new string, confirm string) (*data.User, error) {
	v := validator.New()
	data.ValidatePasswordPlaintext(v, old)
	data.ValidatePasswordPlaintext(v, new)
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	if new != confirm {
		return nil, ErrPasswordMismatch
	}
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	match, err := user.Password.Matches(old)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	err = user.Password.Set(new)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// Send password change notification email in a background goroutine
	s.background(func() {
		data := map[string]string{
			"userName": user.Username,
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err = mailer.Send(user.Email, "user_password_change.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, nil
}

// UploadUserProfilePicture service uploads a profile picture to object
// storage and records its URL on the user.
func (s *service) UploadUserProfilePicture(userID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if v.Check(validator.Mime(mtype, "image/jpeg", "image/png", "image/webp"), "profile_picture", "must be a jpeg, png or webp image"); !v.Valid() {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	url, err := s.uploadFileToS3(s3Client, buffer, mtype, fileHeader, "profilepictures")
	if err != nil {
		return nil, err
	}
	user.ProfilePictureURL = url
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return user, nil
}

// DeleteUser service deletes a user. An account with existing reviews cannot
// be deleted.
func (s *service) DeleteUser(userID int64) error {
	err := s.repo.DeleteUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		case errors.Is(err, repository.ErrRestrictedRecord):
			return ErrRestrictedRecord
		default:
			return err
		}
	}
	return nil
}

// ResetUserPassword service resets a registered user's password.
func (s *service) ResetUserPassword(password string, token string) error {
	v := validator.New()
	data.ValidateTokenPlaintext(v, token)
	data.ValidatePasswordPlaintext(v, password)
	if !v.Valid() {
		return s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserForToken(data.ScopePasswordReset, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			return s.failedValidation(v.Errors)
		default:
			return err
		}
	}
	err = user.Password.Set(password)
	if err != nil {
		return err
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	err = s.repo.DeleteAllTokensForUser(data.ScopePasswordReset, user.ID)
	if err != nil {
		return err
	}
	// Send password change notification email in a background goroutine
	s.background(func() {
		data := map[string]string{
			"userName": user.Username,
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err = mailer.Send(user.Email, "user_password_change.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return nil
}

// GetUserForToken retrieves the user associated with a token.
func (s *service) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	v := validator.New()
	user, err := s.repo.GetUserForToken(tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return user, nil
}
