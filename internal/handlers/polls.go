package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/models"
)

type PollHandler struct {
	db *gorm.DB
}

func NewPollHandler(db *gorm.DB) *PollHandler {
	return &PollHandler{db: db}
}

// GetPolls returns all active polls with their candidates, newest first.
func (h *PollHandler) GetPolls(c *gin.Context) {
	var polls []models.Poll

	if err := h.db.Preload("Candidates").Where("is_active = ?", true).
		Order("created_at desc").Find(&polls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch polls"})
		return
	}

	// If no polls, return empty array not null
	if polls == nil {
		polls = []models.Poll{}
	}

	c.JSON(http.StatusOK, polls)
}

// CreatePoll creates a poll plus its candidates (ADMIN). The poll and the
// candidates are two separate inserts; when the candidate insert fails the
// poll is deactivated rather than rolled back, so a half-created poll can
// never be voted on.
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var input models.CreatePollRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	input.Title = strings.TrimSpace(input.Title)

	candidates := make([]models.Candidate, 0, len(input.Candidates))
	for _, in := range input.Candidates {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		summary := in.ManifestoSummary
		if len(summary) > models.ManifestoMaxLen {
			summary = summary[:models.ManifestoMaxLen]
		}
		candidates = append(candidates, models.Candidate{
			Name:             name,
			PictureURL:       strings.TrimSpace(in.PictureURL),
			ManifestoSummary: strings.TrimSpace(summary),
		})
	}

	if input.Title == "" || input.CostPerVote <= 0 || len(candidates) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A title, a cost greater than zero, and at least two named candidates are required",
		})
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	poll := models.Poll{
		Title:       input.Title,
		CostPerVote: input.CostPerVote,
		IsActive:    isActive,
		CreatedBy:   userID.(int),
	}

	if err := h.db.Create(&poll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
		return
	}

	for i := range candidates {
		candidates[i].PollID = poll.ID
	}

	if err := h.db.Create(&candidates).Error; err != nil {
		// Leave the poll behind for inspection, but never votable.
		h.db.Model(&poll).Update("is_active", false)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Poll was created but its candidates could not be saved; the poll has been deactivated",
		})
		return
	}

	h.db.Preload("Candidates").First(&poll, poll.ID)

	c.JSON(http.StatusCreated, poll)
}

// SetPollActive toggles a poll's visibility to students (ADMIN).
func (h *PollHandler) SetPollActive(c *gin.Context) {
	pollID := c.Param("id")

	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	var poll models.Poll
	if err := h.db.First(&poll, pollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		return
	}

	if err := h.db.Model(&poll).Update("is_active", *input.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update poll"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": poll.ID, "is_active": *input.IsActive})
}
