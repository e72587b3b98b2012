// Package workflow drives a student's pay-to-vote attempt for a single poll:
// candidate selection, payment disclosure, proof capture, submission, and the
// states an admin disposition leaves behind. It is the one place the
// one-live-vote rule is enforced.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/events"
	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/storage"
)

// MaxProofSize bounds the accepted proof screenshot.
const MaxProofSize = 5 << 20

type Engine struct {
	db    *gorm.DB
	store storage.ProofStore
	bus   *events.Bus // may be nil

	newID func() string
	now   func() time.Time
}

func NewEngine(db *gorm.DB, store storage.ProofStore, bus *events.Bus) *Engine {
	return &Engine{
		db:    db,
		store: store,
		bus:   bus,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// LiveVote returns the PENDING or APPROVED vote for (user, poll), or nil.
func (e *Engine) LiveVote(userID, pollID int) (*models.Vote, error) {
	var vote models.Vote
	err := e.db.
		Where("user_id = ? AND poll_id = ?", userID, pollID).
		Where("status IN ?", []string{models.StatusPending, models.StatusApproved}).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return &vote, nil
}

// Resolve is the workflow entry guard. A live vote sends the session
// straight to its read-only status state; otherwise the student starts at
// SELECTING. A prior REJECTED vote does not surface here at all.
func (e *Engine) Resolve(userID, pollID int) (*Session, error) {
	session := &Session{UserID: userID, PollID: pollID, State: StateSelecting}

	vote, err := e.LiveVote(userID, pollID)
	if err != nil {
		return nil, err
	}
	if vote != nil {
		session.CandidateID = vote.CandidateID
		session.LastRef = vote.TransactionRef
		if vote.Status == models.StatusApproved {
			session.State = StateApproved
		} else {
			session.State = StateSubmittedPending
		}
	}
	return session, nil
}

// Submission carries everything the final submit step needs.
type Submission struct {
	CandidateID    int
	TransactionRef string
	Image          []byte
	ContentType    string
	Filename       string
}

var allowedProofTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Submit runs the final step of the workflow: validate input, re-check the
// one-live-vote rule, upload the proof, then insert the PENDING vote. The
// proof upload and the insert commit together from the student's point of
// view; a failed insert triggers a best-effort removal of the just-uploaded
// blob, logged only if the cleanup itself fails.
func (e *Engine) Submit(ctx context.Context, userID, pollID int, sub Submission) (*models.Vote, error) {
	sub.TransactionRef = strings.TrimSpace(sub.TransactionRef)
	if sub.TransactionRef == "" {
		return nil, &ValidationError{Reason: "transaction reference is required"}
	}
	if len(sub.Image) == 0 {
		return nil, &ValidationError{Reason: "proof screenshot is required"}
	}
	if len(sub.Image) > MaxProofSize {
		return nil, &ValidationError{Reason: "proof screenshot is too large"}
	}
	ext, ok := allowedProofTypes[sub.ContentType]
	if !ok {
		return nil, &ValidationError{Reason: "proof must be a PNG or JPEG image"}
	}
	if sub.Filename != "" {
		if fe := strings.ToLower(path.Ext(sub.Filename)); fe == ".png" || fe == ".jpg" || fe == ".jpeg" {
			ext = fe
		}
	}

	var poll models.Poll
	if err := e.db.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &LookupError{}
		}
		return nil, &PersistenceError{Err: err}
	}
	if !poll.IsActive {
		return nil, &ValidationError{Reason: "poll is not open for voting"}
	}

	var candidate models.Candidate
	err := e.db.Where("id = ? AND poll_id = ?", sub.CandidateID, pollID).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ValidationError{Reason: "candidate does not belong to this poll"}
	}
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	// Re-check just before committing: two sessions can both pass Resolve.
	live, err := e.LiveVote(userID, pollID)
	if err != nil {
		return nil, err
	}
	if live != nil {
		return nil, &ConflictError{UserID: userID, PollID: pollID}
	}

	proofPath := fmt.Sprintf("%d/%d_%d%s", userID, pollID, e.now().UnixMilli(), ext)
	if err := e.store.Upload(ctx, proofPath, sub.Image, sub.ContentType); err != nil {
		return nil, &UploadError{Err: err}
	}

	vote := models.Vote{
		ID:             e.newID(),
		PollID:         pollID,
		UserID:         userID,
		CandidateID:    sub.CandidateID,
		TransactionRef: sub.TransactionRef,
		ProofURL:       e.store.PublicURL(proofPath),
		ProofPath:      proofPath,
		Status:         models.StatusPending,
		CreatedAt:      e.now(),
	}

	if err := e.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if cleanupErr := e.store.Remove(ctx, proofPath); cleanupErr != nil {
			log.Printf("orphaned proof %s: cleanup failed: %v", proofPath, cleanupErr)
		}
		if isDuplicate(err) {
			return nil, &ConflictError{UserID: userID, PollID: pollID}
		}
		return nil, &PersistenceError{Err: err}
	}

	if e.bus != nil {
		e.bus.Publish(vote)
	}
	return &vote, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
