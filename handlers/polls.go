package handlers

import (
	"log/slog"
	"net/http"

	"github.com/livepoll/livepoll/auth"
	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/live"
	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

type PollHandler struct {
	store *store.PollStore
	hub   *live.Hub
	cfg   cliparse.Config
}

func NewPollHandler(s *store.PollStore, hub *live.Hub, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: s, hub: hub, cfg: cfg}
}

// requireHostKey validates the X-Host-Key header for host-only
// mutations. Ownership is the key itself: the HMAC binds it to the
// poll id, so no database lookup is needed.
func (h *PollHandler) requireHostKey(w http.ResponseWriter, r *http.Request, pollID string) bool {
	hostKey := r.Header.Get("X-Host-Key")
	if err := auth.ValidateHostKey(pollID, hostKey, h.cfg.HostKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid host key")
		return false
	}
	return true
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ownerID := r.Header.Get("X-Owner-Id")
	if ownerID == "" {
		ownerID = auth.NewOwnerID()
	}

	poll, err := h.store.CreatePoll(ownerID, req.Title, req.Questions)
	if err != nil {
		storeError(w, err)
		return
	}

	hostKey := auth.GenerateHostKey(poll.ID, h.cfg.HostKeySalt)

	slog.Info("poll created", "poll_id", poll.ID, "owner_id", ownerID, "questions", len(poll.Questions))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:  poll.ID,
		HostKey: hostKey,
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	snap, err := h.store.GetSnapshot(pollID)
	if err != nil {
		storeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// ListPolls handles GET /polls - the host dashboard listing.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-Owner-Id")
	if ownerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Owner-Id header required")
		return
	}

	summaries, err := h.store.ListPollsByOwner(ownerID)
	if err != nil {
		storeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// EditPoll handles PUT /polls/{id}. Draft only; the ledger is cleared
// and the tally reseeded so counters match the new option layout.
func (h *PollHandler) EditPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	if !h.requireHostKey(w, r, pollID) {
		return
	}

	var req models.EditPollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.UpdateQuestions(pollID, req.Title, req.Questions); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("poll edited", "poll_id", pollID, "questions", len(req.Questions))
	h.hub.Broadcast(pollID)

	snap, err := h.store.GetSnapshot(pollID)
	if err != nil {
		storeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	if !h.requireHostKey(w, r, pollID) {
		return
	}

	if err := h.store.DeletePoll(pollID); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)
	// Ends every live subscription for the poll.
	h.hub.Broadcast(pollID)

	w.WriteHeader(http.StatusNoContent)
}
