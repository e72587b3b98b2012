// Package testutil holds shared fixtures for handler and workflow tests.
// Tests run against a file-backed SQLite database in the test's temp dir, so
// no external services are needed.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/database"
	"github.com/swtichedxp/Naotems-poll/internal/models"
)

// PNGStub is a minimal payload that content-sniffs as image/png.
var PNGStub = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

// SetupTestDB opens a fresh SQLite database with the full schema, including
// the partial unique live-vote index.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// TestConfig returns a standard test configuration. admin/fpe/00/0001 are
// allow-listed as administrators.
func TestConfig() *config.Config {
	return &config.Config{
		JWTSecret:   []byte("test-secret"),
		EmailDomain: "fpe.edu",
		AdminLogins: []string{"fpe/00/0001", "admin"},
		Payment: config.PaymentAccount{
			AccountName:   "Dept. Project Fund",
			AccountNumber: "0012345678",
			BankName:      "OPay Wallet",
		},
	}
}

// CreateTestUser inserts a profile with the password "secret123".
func CreateTestUser(t *testing.T, db *gorm.DB, username, matric string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		MatricNumber: matric,
		Email:        username + "@fpe.edu",
		Password:     string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestPoll inserts an active poll with one candidate per name given.
func CreateTestPoll(t *testing.T, db *gorm.DB, title string, cost int, candidateNames ...string) *models.Poll {
	t.Helper()

	poll := &models.Poll{Title: title, CostPerVote: cost, IsActive: true}
	if err := db.Create(poll).Error; err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for _, name := range candidateNames {
		candidate := models.Candidate{PollID: poll.ID, Name: name}
		if err := db.Create(&candidate).Error; err != nil {
			t.Fatalf("Failed to create test candidate: %v", err)
		}
		poll.Candidates = append(poll.Candidates, candidate)
	}
	return poll
}

// AuthToken signs a JWT for the user the way the login handler does.
func AuthToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// MakeVoteRequest builds the multipart submission the vote endpoint expects.
// A nil proof omits the file part entirely.
func MakeVoteRequest(t *testing.T, path, candidateID, ref string, proof []byte, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if candidateID != "" {
		_ = w.WriteField("candidate_id", candidateID)
	}
	_ = w.WriteField("transaction_ref", ref)
	if proof != nil {
		part, err := w.CreateFormFile("proof", "receipt.png")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(proof)); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
