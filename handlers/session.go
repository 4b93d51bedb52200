package handlers

import (
	"log/slog"
	"net/http"

	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
)

// Session control endpoints. Every transition requires the host key,
// mutates the poll in one transaction, then broadcasts the committed
// snapshot to all live subscribers.

// StartPresentation handles POST /polls/{id}/start
func (h *PollHandler) StartPresentation(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !h.requireHostKey(w, r, pollID) {
		return
	}

	var req models.StartPresentationRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	if err := h.store.StartPresentation(pollID, req.QuestionIndex); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("presentation started", "poll_id", pollID)
	h.respondState(w, pollID)
}

// OpenVoting handles POST /polls/{id}/open
func (h *PollHandler) OpenVoting(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "voting opened", h.store.OpenVoting)
}

// CloseVoting handles POST /polls/{id}/close
func (h *PollHandler) CloseVoting(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "voting closed", h.store.CloseVoting)
}

// NextQuestion handles POST /polls/{id}/next
func (h *PollHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "advanced to next question", h.store.NextQuestion)
}

// PreviousQuestion handles POST /polls/{id}/previous
func (h *PollHandler) PreviousQuestion(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "stepped to previous question", h.store.PreviousQuestion)
}

// EndPoll handles POST /polls/{id}/end
func (h *PollHandler) EndPoll(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "poll ended", h.store.EndPoll)
}

// Restart handles POST /polls/{id}/restart
func (h *PollHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.sessionTransition(w, r, "poll restarted", h.store.Restart)
}

func (h *PollHandler) sessionTransition(w http.ResponseWriter, r *http.Request, event string, fn func(string) error) {
	pollID := r.PathValue("id")
	if !h.requireHostKey(w, r, pollID) {
		return
	}

	if err := fn(pollID); err != nil {
		storeError(w, err)
		return
	}

	slog.Info(event, "poll_id", pollID)
	h.respondState(w, pollID)
}

// respondState broadcasts the committed state and echoes it to the
// caller so the host UI does not need a second round trip.
func (h *PollHandler) respondState(w http.ResponseWriter, pollID string) {
	h.hub.Broadcast(pollID)

	snap, err := h.store.GetSnapshot(pollID)
	if err != nil {
		storeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}
