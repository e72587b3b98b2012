package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

type VoteHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	engine *workflow.Engine
}

func NewVoteHandler(db *gorm.DB, cfg *config.Config, engine *workflow.Engine) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, engine: engine}
}

// GetState resolves the student's workflow position for a poll: the entry
// guard sends anyone with a live vote straight to the read-only status view.
// Payment instructions ride along so the client never hard-codes them.
func (h *VoteHandler) GetState(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll id"})
		return
	}

	var poll models.Poll
	if err := h.db.First(&poll, pollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		return
	}

	session, err := h.engine.Resolve(userID.(int), pollID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve vote state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"payment": gin.H{
			"cost_per_vote":  poll.CostPerVote,
			"account_name":   h.cfg.Payment.AccountName,
			"account_number": h.cfg.Payment.AccountNumber,
			"bank_name":      h.cfg.Payment.BankName,
		},
	})
}

// Submit records the vote: multipart form with candidate_id, transaction_ref
// and the proof screenshot. Workflow errors map onto HTTP statuses.
func (h *VoteHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll id"})
		return
	}

	candidateID, err := strconv.Atoi(c.PostForm("candidate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id is required"})
		return
	}

	sub := workflow.Submission{
		CandidateID:    candidateID,
		TransactionRef: c.PostForm("transaction_ref"),
	}

	file, header, err := c.Request.FormFile("proof")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, workflow.MaxProofSize+1))
		if readErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read proof image"})
			return
		}
		sub.Image = data
		sub.ContentType = http.DetectContentType(data)
		sub.Filename = header.Filename
	}

	vote, err := h.engine.Submit(c.Request.Context(), userID.(int), pollID, sub)
	if err != nil {
		status, msg := voteErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment proof submitted. Your vote is pending admin approval.",
		"vote":    vote,
	})
}

func voteErrorStatus(err error) (int, string) {
	var (
		validationErr  *workflow.ValidationError
		conflictErr    *workflow.ConflictError
		uploadErr      *workflow.UploadError
		lookupErr      *workflow.LookupError
		persistenceErr *workflow.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Reason
	case errors.As(err, &conflictErr):
		return http.StatusConflict, "You already have a pending or approved vote for this poll"
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, "Proof upload failed, please try again"
	case errors.As(err, &lookupErr):
		return http.StatusNotFound, "Poll not found"
	case errors.As(err, &persistenceErr):
		return http.StatusInternalServerError, "Failed to record vote, please try again"
	default:
		return http.StatusInternalServerError, "Submission failed"
	}
}
