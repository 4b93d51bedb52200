package live

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livepoll/livepoll/middleware"
	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

// VoteReader looks up one session's recorded vote. Satisfied by
// *store.PollStore.
type VoteReader interface {
	VoteFor(pollID, sessionID string, questionIx int) (models.Vote, bool, error)
}

const writeTimeout = 10 * time.Second

// SocketServer serves the per-poll live stream over WebSocket.
type SocketServer struct {
	hub      *Hub
	votes    VoteReader
	upgrader websocket.Upgrader
}

func NewSocketServer(hub *Hub, votes VoteReader) *SocketServer {
	return &SocketServer{
		hub:   hub,
		votes: votes,
		upgrader: websocket.Upgrader{
			// Browsers on any origin may watch a poll; votes and host
			// mutations are authorized separately.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// stateMessage is the one message type the stream carries. Exactly one
// of the view fields is set, matching the requested role.
type stateMessage struct {
	Type        string           `json:"type"`
	Participant *ParticipantView `json:"participant,omitempty"`
	Presenter   *PresenterView   `json:"presenter,omitempty"`
	Dashboard   *DashboardView   `json:"dashboard,omitempty"`
}

// ServeLive handles GET /polls/{id}/live. Query parameters:
//
//	role    participant (default) | presenter | dashboard
//	session the viewer's session id (participant role)
//
// The current snapshot is sent on connect and again after every
// committed change. If the viewer lags too far behind, the connection
// is closed; reconnecting yields a fresh snapshot (no delta replay).
func (s *SocketServer) ServeLive(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		role = RoleParticipant
	}
	if role != RoleParticipant && role != RolePresenter && role != RoleDashboard {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown role")
		return
	}
	sessionID := r.URL.Query().Get("session")

	sub, err := s.hub.Subscribe(pollID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		slog.Error("live subscribe failed", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.Unsubscribe(sub)
		slog.Warn("websocket upgrade failed", "poll_id", pollID, "error", err)
		return
	}

	slog.Info("viewer connected", "poll_id", pollID, "role", role)

	// Reader goroutine: viewers never send application messages; this
	// only notices the peer going away so the writer can stop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.hub.Unsubscribe(sub)
		conn.Close()
		slog.Info("viewer disconnected", "poll_id", pollID, "role", role)
	}()

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				// Dropped for lagging; the client reconnects for a
				// fresh snapshot.
				deadline := time.Now().Add(writeTimeout)
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "resubscribe"), deadline)
				return
			}
			msg, err := s.shape(role, sessionID, snap)
			if err != nil {
				slog.Error("failed to shape view", "poll_id", pollID, "error", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *SocketServer) shape(role, sessionID string, snap models.PollSnapshot) (stateMessage, error) {
	msg := stateMessage{Type: "state"}
	switch role {
	case RolePresenter:
		view := PresenterViewOf(snap)
		msg.Presenter = &view
	case RoleDashboard:
		view := DashboardViewOf(snap)
		msg.Dashboard = &view
	default:
		var yourVote *int
		if sessionID != "" && snap.Poll.ActiveQuestion >= 0 {
			vote, found, err := s.votes.VoteFor(snap.Poll.ID, sessionID, snap.Poll.ActiveQuestion)
			if err != nil {
				return stateMessage{}, err
			}
			if found {
				ix := vote.OptionIndex
				yourVote = &ix
			}
		}
		view := ParticipantViewOf(snap, yourVote)
		msg.Participant = &view
	}
	return msg, nil
}
