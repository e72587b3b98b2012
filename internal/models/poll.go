package models

import "time"

type Poll struct {
	ID          int         `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	CostPerVote int         `gorm:"not null" json:"cost_per_vote"` // smallest currency unit (kobo)
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	CreatedBy   int         `json:"created_by"`
	Candidates  []Candidate `gorm:"foreignKey:PollID" json:"candidates"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CandidateInput struct {
	Name             string `json:"name"`
	PictureURL       string `json:"picture_url"`
	ManifestoSummary string `json:"manifesto_summary"`
}

type CreatePollRequest struct {
	Title       string           `json:"title"`
	CostPerVote int              `json:"cost_per_vote"`
	IsActive    *bool            `json:"is_active"`
	Candidates  []CandidateInput `json:"candidates"`
}
