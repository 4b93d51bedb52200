package handlers

import (
	"log/slog"
	"net/http"

	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/live"
	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

type VoteHandler struct {
	store *store.PollStore
	hub   *live.Hub
	cfg   cliparse.Config
}

func NewVoteHandler(s *store.PollStore, hub *live.Hub, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{store: s, hub: hub, cfg: cfg}
}

// CastVote handles POST /polls/{id}/votes. The session id identifies
// the voter; one vote per session per question, enforced by the store.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Session-Id header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.CastVote(pollID, sessionID, req.QuestionIndex, req.OptionIndex); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("vote cast",
		"poll_id", pollID,
		"question_ix", req.QuestionIndex,
		"option_ix", req.OptionIndex,
	)
	h.hub.Broadcast(pollID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		QuestionIndex: req.QuestionIndex,
		OptionIndex:   req.OptionIndex,
		Message:       "Vote recorded",
	})
}

// GetMyVote handles GET /polls/{id}/votes/me?question=N. Lets a
// reconnecting client restore its "already voted" state.
func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Session-Id header required")
		return
	}

	questionIx, err := queryInt(r, "question", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question must be an integer")
		return
	}

	vote, found, err := h.store.VoteFor(pollID, sessionID, questionIx)
	if err != nil {
		storeError(w, err)
		return
	}

	resp := models.MyVoteResponse{QuestionIndex: questionIx}
	if found {
		resp.OptionIndex = &vote.OptionIndex
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
