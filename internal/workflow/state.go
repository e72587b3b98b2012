package workflow

// State is a student's position in the pay-to-vote flow for one poll.
type State string

const (
	StateSelecting        State = "SELECTING"
	StateAwaitingPayment  State = "AWAITING_PAYMENT"
	StateUploadingProof   State = "UPLOADING_PROOF"
	StateSubmittedPending State = "SUBMITTED_PENDING"
	StateApproved         State = "APPROVED"
	StateRejected         State = "REJECTED"
)

// Terminal reports whether no further student action is possible from s.
// A REJECTED vote is terminal for that record; resubmission starts a fresh
// session (and a fresh vote record) at SELECTING.
func (s State) Terminal() bool {
	return s == StateApproved || s == StateRejected
}

// Session tracks one (user, poll) pass through the workflow. The selection
// steps are in-memory only; nothing is persisted until Submit succeeds.
type Session struct {
	UserID      int    `json:"user_id"`
	PollID      int    `json:"poll_id"`
	State       State  `json:"state"`
	CandidateID int    `json:"candidate_id,omitempty"`
	LastRef     string `json:"last_ref,omitempty"` // transaction ref of the live vote, if any
}

// Select moves SELECTING -> AWAITING_PAYMENT with the chosen candidate.
func (s *Session) Select(candidateID int) error {
	if s.State != StateSelecting {
		return &ValidationError{Reason: "cannot select a candidate from state " + string(s.State)}
	}
	if candidateID <= 0 {
		return &ValidationError{Reason: "a candidate must be chosen"}
	}
	s.CandidateID = candidateID
	s.State = StateAwaitingPayment
	return nil
}

// Confirm moves AWAITING_PAYMENT -> UPLOADING_PROOF once the student says
// they have paid.
func (s *Session) Confirm() error {
	if s.State != StateAwaitingPayment {
		return &ValidationError{Reason: "cannot confirm payment from state " + string(s.State)}
	}
	s.State = StateUploadingProof
	return nil
}

// Cancel moves AWAITING_PAYMENT back to SELECTING, dropping the selection.
func (s *Session) Cancel() error {
	if s.State != StateAwaitingPayment {
		return &ValidationError{Reason: "cannot cancel from state " + string(s.State)}
	}
	s.CandidateID = 0
	s.State = StateSelecting
	return nil
}

// Back moves UPLOADING_PROOF back to AWAITING_PAYMENT, keeping the selection.
func (s *Session) Back() error {
	if s.State != StateUploadingProof {
		return &ValidationError{Reason: "cannot go back from state " + string(s.State)}
	}
	s.State = StateAwaitingPayment
	return nil
}
