package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrPasswordMismatch     = errors.New("password mismatch")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrBadRequest           = errors.New("bad request")
	ErrDuplicateRecord      = errors.New("duplicate record")
	ErrRestrictedRecord     = errors.New("restricted record")
	ErrNotPermitted         = errors.New("not permitted")
)

// failedValidation flattens a validation error map into a single error which
// matches ErrFailedValidation. Keys are sorted so the message is stable.
func (s *service) failedValidation(errorMap map[string]string) error {
	keys := make([]string, 0, len(errorMap))
	for k := range errorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q %s", k, errorMap[k]))
	}
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(parts, "; "))
}
