package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/events"
	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/notify"
	"github.com/swtichedxp/Naotems-poll/internal/review"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

type AdminHandler struct {
	db       *gorm.DB
	queue    *review.Queue
	bus      *events.Bus
	notifier *notify.Notifier
}

func NewAdminHandler(db *gorm.DB, queue *review.Queue, bus *events.Bus, notifier *notify.Notifier) *AdminHandler {
	return &AdminHandler{db: db, queue: queue, bus: bus, notifier: notifier}
}

// ListPending returns the review queue, oldest first. An optional ?q= term
// filters by voter identifier, poll title, or transaction reference.
func (h *AdminHandler) ListPending(c *gin.Context) {
	var (
		rows []review.PendingVote
		err  error
	)
	if term := c.Query("q"); term != "" {
		rows, err = h.queue.Search(term)
	} else {
		rows, err = h.queue.ListPending()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending votes"})
		return
	}

	if rows == nil {
		rows = []review.PendingVote{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": rows, "count": len(rows)})
}

// Disposition approves or rejects a pending vote. Losing a race to another
// admin returns 409; the client should refetch the queue.
func (h *AdminHandler) Disposition(c *gin.Context) {
	adminID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	voteID := c.Param("id")

	var input models.DispositionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome is required"})
		return
	}

	if err := h.queue.Disposition(voteID, input.Outcome, adminID.(int)); err != nil {
		var (
			staleErr      *workflow.StaleStateError
			validationErr *workflow.ValidationError
			lookupErr     *workflow.LookupError
		)
		switch {
		case errors.As(err, &staleErr):
			c.JSON(http.StatusConflict, gin.H{"error": "This vote has already been reviewed"})
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
		case errors.As(err, &lookupErr):
			c.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		}
		return
	}

	h.notifyVoter(voteID, input.Outcome)

	c.JSON(http.StatusOK, gin.H{"id": voteID, "status": input.Outcome})
}

// Stream pushes newly submitted pending votes over SSE. Purely a
// convenience: a dropped event or a closed stream is recovered by the
// client calling ListPending again.
func (h *AdminHandler) Stream(c *gin.Context) {
	id, ch := h.bus.Subscribe()
	defer h.bus.Unsubscribe(id)

	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case vote, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("vote", vote)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// notifyVoter sends the student a best-effort SMS about the outcome.
func (h *AdminHandler) notifyVoter(voteID, outcome string) {
	if h.notifier == nil {
		return
	}

	var vote models.Vote
	if err := h.db.First(&vote, "id = ?", voteID).Error; err != nil {
		return
	}
	var user models.User
	if err := h.db.First(&user, vote.UserID).Error; err != nil {
		return
	}
	var poll models.Poll
	if err := h.db.First(&poll, vote.PollID).Error; err != nil {
		return
	}

	go h.notifier.VoteDisposed(&user, poll.Title, outcome)
}
