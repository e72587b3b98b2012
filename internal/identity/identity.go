// Package identity maps the strings students actually type (a matric number
// such as FPE/20/1234 or a chosen username) onto stored profiles and onto the
// address-shaped identifier the auth layer requires. The synthetic email is a
// deliberate, isolated workaround; nothing outside this package should
// construct one.
package identity

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

// NormalizeLoginID lowercases and strips everything but letters, digits and
// the slashes that separate matric number segments.
func NormalizeLoginID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '/' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsMatric reports whether the identifier looks like a matric number rather
// than a username. Matric numbers contain slash-separated segments.
func IsMatric(loginID string) bool {
	return strings.Contains(loginID, "/")
}

// SyntheticEmail derives the address-shaped identifier stored for a matric
// number: normalized, slashes removed, domain appended.
func SyntheticEmail(matric, domain string) string {
	local := strings.ReplaceAll(NormalizeLoginID(matric), "/", "")
	return local + "@" + domain
}

// Resolve finds the profile behind a login identifier, trying the matric
// number column for slash-shaped input and the username column otherwise.
// Returns a LookupError when no profile matches.
func Resolve(db *gorm.DB, loginID string) (*models.User, error) {
	id := NormalizeLoginID(loginID)
	if id == "" {
		return nil, &workflow.LookupError{LoginID: loginID}
	}

	var user models.User
	var err error
	if IsMatric(id) {
		err = db.Where("matric_number = ?", id).First(&user).Error
	} else {
		err = db.Where("username = ?", id).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &workflow.LookupError{LoginID: loginID}
	}
	if err != nil {
		return nil, &workflow.PersistenceError{Err: err}
	}
	return &user, nil
}
