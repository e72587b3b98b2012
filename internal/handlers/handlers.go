package handlers

import (
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/events"
	"github.com/swtichedxp/Naotems-poll/internal/notify"
	"github.com/swtichedxp/Naotems-poll/internal/review"
	"github.com/swtichedxp/Naotems-poll/internal/storage"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

// Handler combines all handler types
type Handler struct {
	Auth  *AuthHandler
	Poll  *PollHandler
	Vote  *VoteHandler
	Admin *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, store storage.ProofStore, bus *events.Bus) *Handler {
	engine := workflow.NewEngine(db, store, bus)
	queue := review.NewQueue(db)

	return &Handler{
		Auth:  NewAuthHandler(db, cfg),
		Poll:  NewPollHandler(db),
		Vote:  NewVoteHandler(db, cfg, engine),
		Admin: NewAdminHandler(db, queue, bus, notify.New(cfg)),
	}
}
