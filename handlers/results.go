package handlers

import (
	"net/http"
	"strconv"

	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
)

// GetResults handles GET /polls/{id}/results - the full per-question
// breakdown with counts and percentages, for any status. Percentages
// are derived from the counts at read time.
func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, buildResults(snap))
}

func buildResults(snap models.PollSnapshot) models.PollResults {
	results := models.PollResults{
		PollID:    snap.Poll.ID,
		Title:     snap.Poll.Title,
		Status:    snap.Poll.Status,
		Questions: make([]models.QuestionResults, len(snap.Poll.Questions)),
	}
	for q, question := range snap.Poll.Questions {
		counts := snap.Tally.QuestionCounts(q, len(question.Options))
		pcts := models.Percentages(counts)
		qr := models.QuestionResults{
			QuestionIndex: q,
			Text:          question.Text,
			Options:       make([]models.OptionResult, len(question.Options)),
		}
		for o, opt := range question.Options {
			qr.Options[o] = models.OptionResult{
				OptionIndex: o,
				Text:        opt.Text,
				Votes:       counts[o],
				Percentage:  pcts[o],
			}
			qr.TotalVotes += counts[o]
		}
		results.Questions[q] = qr
		results.TotalVotes += qr.TotalVotes
	}
	return results
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
