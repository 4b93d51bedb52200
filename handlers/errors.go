package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/livepoll/livepoll/db"
	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/store"
)

// storeError maps store-layer sentinels onto HTTP responses. Anything
// unrecognized is logged and reported generically.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this question")
	case errors.Is(err, store.ErrQuestionNotActive):
		middleware.ErrorResponse(w, http.StatusConflict, "This question is not open for voting - please wait for the host")
	case errors.Is(err, store.ErrVotingClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is closed - please wait for the host")
	case errors.Is(err, store.ErrInvalidQuestion):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid question index")
	case errors.Is(err, store.ErrInvalidOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid option index")
	case errors.Is(err, store.ErrInvalidPoll):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotDraft):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not in draft")
	case errors.Is(err, store.ErrNotLive):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not live")
	case errors.Is(err, db.ErrConflict):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Busy, please try again")
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
