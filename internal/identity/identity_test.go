package identity

import (
	"errors"
	"testing"

	"github.com/swtichedxp/Naotems-poll/internal/testutil"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

func TestNormalizeLoginID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FPE/20/1234", "fpe/20/1234"},
		{"  FPE/20/1234  ", "fpe/20/1234"},
		{"FPE-20-1234!", "fpe201234"},
		{"JohnDoe", "johndoe"},
		{"john.doe", "johndoe"},
		{"", ""},
		{"///", "///"},
	}
	for _, tt := range tests {
		if got := NormalizeLoginID(tt.in); got != tt.want {
			t.Errorf("NormalizeLoginID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsMatric(t *testing.T) {
	if !IsMatric("fpe/20/1234") {
		t.Error("matric numbers contain slashes")
	}
	if IsMatric("johndoe") {
		t.Error("usernames have no slashes")
	}
}

func TestSyntheticEmail(t *testing.T) {
	tests := []struct {
		matric string
		want   string
	}{
		{"FPE/20/1234", "fpe201234@fpe.edu"},
		{"fpe/20/1234", "fpe201234@fpe.edu"},
		{" FPE / 20 / 1234 ", "fpe201234@fpe.edu"},
	}
	for _, tt := range tests {
		if got := SyntheticEmail(tt.matric, "fpe.edu"); got != tt.want {
			t.Errorf("SyntheticEmail(%q) = %q, want %q", tt.matric, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "johndoe", "fpe/20/1234")

	// By matric number, any casing.
	got, err := Resolve(db, "FPE/20/1234")
	if err != nil {
		t.Fatalf("Resolve by matric: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("resolved user %d, want %d", got.ID, user.ID)
	}

	// By username.
	got, err = Resolve(db, "JohnDoe")
	if err != nil {
		t.Fatalf("Resolve by username: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("resolved user %d, want %d", got.ID, user.ID)
	}

	// Unknown identifiers and blank input yield LookupError.
	for _, id := range []string{"nobody", "fpe/99/9999", "   "} {
		_, err = Resolve(db, id)
		var lookupErr *workflow.LookupError
		if !errors.As(err, &lookupErr) {
			t.Errorf("Resolve(%q) error = %v, want LookupError", id, err)
		}
	}
}
