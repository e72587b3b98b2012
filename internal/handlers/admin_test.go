package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/review"
	"github.com/swtichedxp/Naotems-poll/internal/testutil"
)

type pendingResponse struct {
	Pending []review.PendingVote `json:"pending"`
	Count   int                  `json:"count"`
}

// submitVote drives a student's submission through the API and returns the
// created vote id.
func submitVote(t *testing.T, r http.Handler, votePath, candidateID, ref, token string) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeVoteRequest(t, votePath, candidateID, ref, testutil.PNGStub, token))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		Vote models.Vote `json:"vote"`
	}
	testutil.AssertJSON(t, w, &created)
	return created.Vote.ID
}

func TestAdminReviewEndToEnd(t *testing.T) {
	r, db, cfg, _ := setupAPI(t)
	admin := testutil.CreateTestUser(t, db, "admin", "fpe/00/0001")
	adminToken := testutil.AuthToken(t, cfg, admin)
	student := testutil.CreateTestUser(t, db, "johndoe", "fpe/20/1234")
	poll := testutil.CreateTestPoll(t, db, "HOD Election", 100, "Alice", "Bob")
	votePath := fmt.Sprintf("/api/polls/%d/vote", poll.ID)

	voteID := submitVote(t, r, votePath, strconv.Itoa(poll.Candidates[0].ID), "TXN123",
		testutil.AuthToken(t, cfg, student))

	// The vote shows up in the queue with its joined display fields.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/api/admin/votes/pending", nil, bearer(adminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var queue pendingResponse
	testutil.AssertJSON(t, w, &queue)
	if queue.Count != 1 || queue.Pending[0].ID != voteID {
		t.Fatalf("queue = %+v, want the submitted vote", queue)
	}
	if queue.Pending[0].PollTitle != "HOD Election" || queue.Pending[0].Username != "johndoe" {
		t.Errorf("joined fields = %+v", queue.Pending[0])
	}

	// Approve it.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/api/admin/votes/"+voteID+"/disposition",
		models.DispositionRequest{Outcome: models.StatusApproved}, bearer(adminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var vote models.Vote
	if err := db.First(&vote, "id = ?", voteID).Error; err != nil {
		t.Fatalf("reload vote: %v", err)
	}
	if vote.Status != models.StatusApproved {
		t.Errorf("status = %s, want APPROVED", vote.Status)
	}
	if vote.ApprovedBy == nil || *vote.ApprovedBy != admin.ID {
		t.Errorf("approved_by = %v, want %d", vote.ApprovedBy, admin.ID)
	}
	if vote.ApprovedAt == nil {
		t.Error("approved_at not set")
	}

	// And it is gone from the queue.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/api/admin/votes/pending", nil, bearer(adminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &queue)
	if queue.Count != 0 {
		t.Errorf("queue count = %d, want 0", queue.Count)
	}

	// A second disposition is stale.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/api/admin/votes/"+voteID+"/disposition",
		models.DispositionRequest{Outcome: models.StatusRejected}, bearer(adminToken)))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestAdminQueueSearch(t *testing.T) {
	r, db, cfg, _ := setupAPI(t)
	admin := testutil.CreateTestUser(t, db, "admin", "fpe/00/0001")
	adminToken := testutil.AuthToken(t, cfg, admin)
	doe := testutil.CreateTestUser(t, db, "johndoe", "fpe/20/1111")
	smith := testutil.CreateTestUser(t, db, "asmith", "fpe/20/2222")
	poll := testutil.CreateTestPoll(t, db, "HOD Election", 100, "Alice", "Bob")
	votePath := fmt.Sprintf("/api/polls/%d/vote", poll.ID)
	alice := strconv.Itoa(poll.Candidates[0].ID)

	submitVote(t, r, votePath, alice, "TXN-1", testutil.AuthToken(t, cfg, doe))
	submitVote(t, r, votePath, alice, "TXN-2", testutil.AuthToken(t, cfg, smith))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/api/admin/votes/pending?q=doe", nil, bearer(adminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var queue pendingResponse
	testutil.AssertJSON(t, w, &queue)
	if queue.Count != 1 || queue.Pending[0].Username != "johndoe" {
		t.Fatalf("search result = %+v, want only johndoe's vote", queue)
	}
}

func TestAdminEndpointsRejectStudents(t *testing.T) {
	r, db, cfg, _ := setupAPI(t)
	student := testutil.CreateTestUser(t, db, "johndoe", "fpe/20/1234")
	token := testutil.AuthToken(t, cfg, student)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/api/admin/votes/pending", nil, bearer(token)))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/api/admin/votes/some-id/disposition",
		models.DispositionRequest{Outcome: models.StatusApproved}, bearer(token)))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestDispositionUnknownVote(t *testing.T) {
	r, db, cfg, _ := setupAPI(t)
	admin := testutil.CreateTestUser(t, db, "admin", "fpe/00/0001")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/api/admin/votes/missing/disposition",
		models.DispositionRequest{Outcome: models.StatusApproved}, bearer(testutil.AuthToken(t, cfg, admin))))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDispositionInvalidOutcome(t *testing.T) {
	r, db, cfg, _ := setupAPI(t)
	admin := testutil.CreateTestUser(t, db, "admin", "fpe/00/0001")
	student := testutil.CreateTestUser(t, db, "johndoe", "fpe/20/1234")
	poll := testutil.CreateTestPoll(t, db, "HOD Election", 100, "Alice", "Bob")
	votePath := fmt.Sprintf("/api/polls/%d/vote", poll.ID)

	voteID := submitVote(t, r, votePath, strconv.Itoa(poll.Candidates[0].ID), "TXN123",
		testutil.AuthToken(t, cfg, student))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/api/admin/votes/"+voteID+"/disposition",
		models.DispositionRequest{Outcome: "MAYBE"}, bearer(testutil.AuthToken(t, cfg, admin))))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
