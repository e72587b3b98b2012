package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/events"
	"github.com/swtichedxp/Naotems-poll/internal/middleware"
	"github.com/swtichedxp/Naotems-poll/internal/testutil"
)

// memStore is an in-process ProofStore for handler tests.
type memStore struct {
	failUpload bool
	uploads    map[string][]byte
	removed    []string
}

func newMemStore() *memStore {
	return &memStore{uploads: make(map[string][]byte)}
}

func (m *memStore) Upload(_ context.Context, path string, data []byte, _ string) error {
	if m.failUpload {
		return fmt.Errorf("bucket unavailable")
	}
	m.uploads[path] = data
	return nil
}

func (m *memStore) PublicURL(path string) string {
	return "https://storage.test/proofs/" + path
}

func (m *memStore) Remove(_ context.Context, path string) error {
	m.removed = append(m.removed, path)
	delete(m.uploads, path)
	return nil
}

// setupAPI wires the handlers into a router with the same route layout and
// middleware the server registers.
func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	store := newMemStore()
	bus := events.NewBus()
	handler := NewHandler(db, cfg, store, bus)

	r := gin.New()
	api := r.Group("/api")

	api.POST("/register", handler.Auth.Register)
	api.POST("/login", handler.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.GET("/me", handler.Auth.GetMe)
	protected.GET("/polls", handler.Poll.GetPolls)
	protected.GET("/polls/:id/vote", handler.Vote.GetState)
	protected.POST("/polls/:id/vote", handler.Vote.Submit)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly(db, cfg))
	admin.POST("/polls", handler.Poll.CreatePoll)
	admin.PATCH("/polls/:id/active", handler.Poll.SetPollActive)
	admin.GET("/votes/pending", handler.Admin.ListPending)
	admin.POST("/votes/:id/disposition", handler.Admin.Disposition)

	return r, db, cfg, store
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
