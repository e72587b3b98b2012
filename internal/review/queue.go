// Package review is the admin side of the vote workflow: the FIFO queue of
// PENDING votes and the disposition action that terminates each one.
package review

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

// PendingVote is a queue row: the vote joined with its poll title, candidate
// name and voter identity, which is what the reviewer actually reads.
type PendingVote struct {
	ID             string    `json:"id"`
	PollID         int       `json:"poll_id"`
	CandidateID    int       `json:"candidate_id"`
	TransactionRef string    `json:"transaction_ref"`
	ProofURL       string    `json:"proof_url"`
	CreatedAt      time.Time `json:"created_at"`
	PollTitle      string    `json:"poll_title"`
	CandidateName  string    `json:"candidate_name"`
	Username       string    `json:"username"`
	MatricNumber   string    `json:"matric_number"`

	// RefReused flags a transaction reference that appears on more than one
	// vote, usually a rejected vote resubmitted with the same receipt. The
	// admin decides what to make of it.
	RefReused bool `json:"ref_reused"`
}

type Queue struct {
	db *gorm.DB
}

func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// ListPending returns every PENDING vote, oldest submission first so
// long-waiting students are reviewed first. Multiple pending votes for the
// same (user, poll) are listed as-is; the admin catches duplicates.
func (q *Queue) ListPending() ([]PendingVote, error) {
	var rows []PendingVote
	err := q.db.Table("votes").
		Select(`votes.id, votes.poll_id, votes.candidate_id, votes.transaction_ref,
			votes.proof_url, votes.created_at,
			polls.title AS poll_title, candidates.name AS candidate_name,
			users.username, users.matric_number`).
		Joins("JOIN polls ON polls.id = votes.poll_id").
		Joins("JOIN candidates ON candidates.id = votes.candidate_id").
		Joins("JOIN users ON users.id = votes.user_id").
		Where("votes.status = ?", models.StatusPending).
		Order("votes.created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, &workflow.PersistenceError{Err: err}
	}

	if err := q.markReusedRefs(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Refresh is the always-available fallback behind any push channel: a full
// refetch, equivalent to ListPending.
func (q *Queue) Refresh() ([]PendingVote, error) {
	return q.ListPending()
}

// Search filters the fetched pending set by case-insensitive substring match
// against the voter's username and matric number, the poll title, and the
// transaction reference. The pending set is expected to be small, so the
// filter runs over the rows rather than as a second query.
func (q *Queue) Search(term string) ([]PendingVote, error) {
	rows, err := q.ListPending()
	if err != nil {
		return nil, err
	}
	return Filter(rows, term), nil
}

// Filter applies Search's matching rules to an already-fetched set.
func Filter(rows []PendingVote, term string) []PendingVote {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	matched := make([]PendingVote, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Username), term) ||
			strings.Contains(strings.ToLower(r.MatricNumber), term) ||
			strings.Contains(strings.ToLower(r.PollTitle), term) ||
			strings.Contains(strings.ToLower(r.TransactionRef), term) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Disposition sets a PENDING vote to APPROVED or REJECTED, recording which
// admin acted and when. The update is conditional on the vote still being
// PENDING, so two admins racing on the same vote leaves exactly one winner;
// the loser gets a StaleStateError and should refetch.
func (q *Queue) Disposition(voteID, outcome string, adminID int) error {
	if outcome != models.StatusApproved && outcome != models.StatusRejected {
		return &workflow.ValidationError{Reason: "outcome must be APPROVED or REJECTED"}
	}

	res := q.db.Model(&models.Vote{}).
		Where("id = ? AND status = ?", voteID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      outcome,
			"approved_by": adminID,
			"approved_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return &workflow.PersistenceError{Err: res.Error}
	}
	if res.RowsAffected == 0 {
		var vote models.Vote
		err := q.db.First(&vote, "id = ?", voteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &workflow.LookupError{}
		}
		if err != nil {
			return &workflow.PersistenceError{Err: err}
		}
		return &workflow.StaleStateError{VoteID: voteID}
	}
	return nil
}

// markReusedRefs sets RefReused on rows whose transaction reference appears
// on more than one vote of any status.
func (q *Queue) markReusedRefs(rows []PendingVote) error {
	if len(rows) == 0 {
		return nil
	}
	refs := make([]string, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, r.TransactionRef)
	}

	type refCount struct {
		TransactionRef string
		N              int64
	}
	var counts []refCount
	err := q.db.Model(&models.Vote{}).
		Select("transaction_ref, COUNT(*) AS n").
		Where("transaction_ref IN ?", refs).
		Group("transaction_ref").
		Scan(&counts).Error
	if err != nil {
		return &workflow.PersistenceError{Err: err}
	}

	reused := make(map[string]bool, len(counts))
	for _, c := range counts {
		if c.N > 1 {
			reused[c.TransactionRef] = true
		}
	}
	for i := range rows {
		rows[i].RefReused = reused[rows[i].TransactionRef]
	}
	return nil
}
