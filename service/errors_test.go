package service

import (
	"errors"
	"testing"
)

func TestFailedValidation(t *testing.T) {
	s := &service{}
	err := s.failedValidation(map[string]string{
		"title":  "must be provided",
		"rating": "must be at least 1",
	})

	if !errors.Is(err, ErrFailedValidation) {
		t.Fatalf("expected the error to match ErrFailedValidation; got %v", err)
	}

	want := `failed validation: "rating" must be at least 1; "title" must be provided`
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}
