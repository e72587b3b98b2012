package models

import "time"

// Vote statuses. A vote is "live" while PENDING or APPROVED; a REJECTED
// vote never blocks a later resubmission.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Vote records a single pay-to-vote claim. Created PENDING after the proof
// upload succeeds, mutated exactly once by an admin disposition, never deleted.
type Vote struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	PollID         int        `gorm:"index;not null" json:"poll_id"`
	UserID         int        `gorm:"index;not null" json:"user_id"`
	CandidateID    int        `gorm:"not null" json:"candidate_id"`
	TransactionRef string     `gorm:"not null" json:"transaction_ref"`
	ProofURL       string     `json:"proof_url"`
	ProofPath      string     `json:"-"` // bucket object path, kept for out-of-band cleanup
	Status         string     `gorm:"index;not null" json:"status"`
	ApprovedBy     *int       `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type DispositionRequest struct {
	Outcome string `json:"outcome"` // APPROVED or REJECTED
}
