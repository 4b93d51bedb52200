package router

import (
	"net/http"

	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/handlers"
	"github.com/livepoll/livepoll/live"
	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/store"
)

func NewRouter(polls *store.PollStore, hub *live.Hub, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(polls, hub, cfg)
	voteHandler := handlers.NewVoteHandler(polls, hub, cfg)
	socket := live.NewSocketServer(hub, polls)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management (host operations)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("PUT /polls/{id}", middleware.WithLogging(pollHandler.EditPoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Session state machine (host operations)
	mux.HandleFunc("POST /polls/{id}/start", middleware.WithLogging(pollHandler.StartPresentation))
	mux.HandleFunc("POST /polls/{id}/open", middleware.WithLogging(pollHandler.OpenVoting))
	mux.HandleFunc("POST /polls/{id}/close", middleware.WithLogging(pollHandler.CloseVoting))
	mux.HandleFunc("POST /polls/{id}/next", middleware.WithLogging(pollHandler.NextQuestion))
	mux.HandleFunc("POST /polls/{id}/previous", middleware.WithLogging(pollHandler.PreviousQuestion))
	mux.HandleFunc("POST /polls/{id}/end", middleware.WithLogging(pollHandler.EndPoll))
	mux.HandleFunc("POST /polls/{id}/restart", middleware.WithLogging(pollHandler.Restart))

	// Voting (participant operations)
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/votes/me", middleware.WithLogging(voteHandler.GetMyVote))

	// Results retrieval (public)
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(pollHandler.GetResults))

	// Live stream (websocket; logs its own lifecycle)
	mux.HandleFunc("GET /polls/{id}/live", socket.ServeLive)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return middleware.CORS(mux)
}
