package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
	"github.com/livepoll/livepoll/testutil"
)

func newLiveServer(t *testing.T) (*httptest.Server, *Hub, *store.PollStore) {
	t.Helper()
	s := testutil.NewTestStore(t)
	hub := NewHub(s)
	socket := NewSocketServer(hub, s)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /polls/{id}/live", socket.ServeLive)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, hub, s
}

func dialLive(t *testing.T, server *httptest.Server, pollID, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/polls/" + pollID + "/live"
	if query != "" {
		url += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg stateMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != "state" {
		t.Fatalf("message type = %q, want state", msg.Type)
	}
	return msg
}

func TestServeLiveInitialSnapshot(t *testing.T) {
	server, _, s := newLiveServer(t)
	poll := testutil.CreateTestPoll(t, s, models.StatusLive)

	conn := dialLive(t, server, poll.ID, "role=presenter")

	msg := readState(t, conn)
	if msg.Presenter == nil {
		t.Fatal("presenter view missing")
	}
	if msg.Presenter.PollID != poll.ID || msg.Presenter.Question == nil {
		t.Errorf("view = %+v", msg.Presenter)
	}
}

func TestServeLivePushesAfterVote(t *testing.T) {
	server, hub, s := newLiveServer(t)
	poll := testutil.CreateTestPoll(t, s, models.StatusLive)

	conn := dialLive(t, server, poll.ID, "role=presenter")
	readState(t, conn)

	if err := s.CastVote(poll.ID, "s_voter", 0, 0); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	hub.Broadcast(poll.ID)

	msg := readState(t, conn)
	if msg.Presenter.TotalVotes != 1 {
		t.Errorf("total votes = %d, want 1", msg.Presenter.TotalVotes)
	}
	if msg.Presenter.Results.Options[0].Votes != 1 {
		t.Errorf("option 0 votes = %d, want 1", msg.Presenter.Results.Options[0].Votes)
	}
}

func TestServeLiveParticipantSeesOwnVote(t *testing.T) {
	server, _, s := newLiveServer(t)
	poll := testutil.CreateTestPoll(t, s, models.StatusLive)

	if err := s.CastVote(poll.ID, "s_me", 0, 1); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	conn := dialLive(t, server, poll.ID, "role=participant&session=s_me")

	msg := readState(t, conn)
	if msg.Participant == nil {
		t.Fatal("participant view missing")
	}
	if msg.Participant.YourVote == nil || *msg.Participant.YourVote != 1 {
		t.Errorf("your_vote = %v, want 1", msg.Participant.YourVote)
	}
	if msg.Participant.Results == nil {
		t.Error("results should be revealed once this session voted")
	}

	// A stranger still has results hidden
	other := dialLive(t, server, poll.ID, "role=participant&session=s_other")
	otherMsg := readState(t, other)
	if otherMsg.Participant.Results != nil {
		t.Error("results leaked to a session that has not voted")
	}
}

func TestServeLiveUnknownPoll(t *testing.T) {
	server, _, _ := newLiveServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/polls/ZZZZZZ/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for a missing poll")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %+v, want 404", resp)
	}
}

func TestServeLiveRejectsUnknownRole(t *testing.T) {
	server, _, s := newLiveServer(t)
	poll := testutil.CreateTestPoll(t, s, models.StatusLive)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/polls/" + poll.ID + "/live?role=spy"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for an unknown role")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %+v, want 400", resp)
	}
}
