package validator

import "testing"

func TestValidator(t *testing.T) {
	t.Run("new validator is valid", func(t *testing.T) {
		v := New()
		if !v.Valid() {
			t.Error("expected a fresh validator to be valid")
		}
	})

	t.Run("failed check records an error", func(t *testing.T) {
		v := New()
		v.Check(false, "rating", "must be between 1 and 5")
		if v.Valid() {
			t.Error("expected validator to be invalid after a failed check")
		}
		if v.Errors["rating"] != "must be between 1 and 5" {
			t.Errorf("unexpected error map: %v", v.Errors)
		}
	})

	t.Run("first error for a key wins", func(t *testing.T) {
		v := New()
		v.AddError("email", "must be provided")
		v.AddError("email", "must be a valid email address")
		if v.Errors["email"] != "must be provided" {
			t.Errorf("expected first error to be kept; got %q", v.Errors["email"])
		}
	})
}

func TestMatchesEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"alice+books@example.co.uk", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.email, EmailRX); got != tt.want {
			t.Errorf("Matches(%q) = %v; want %v", tt.email, got, tt.want)
		}
	}
}

func TestUnique(t *testing.T) {
	if !Unique([]string{"a", "b", "c"}) {
		t.Error("expected distinct values to be unique")
	}
	if Unique([]string{"a", "b", "a"}) {
		t.Error("expected duplicate values to not be unique")
	}
}

func TestIn(t *testing.T) {
	if !In("admin", "member", "admin", "creator") {
		t.Error("expected admin to be in the list")
	}
	if In("owner", "member", "admin", "creator") {
		t.Error("did not expect owner to be in the list")
	}
}
