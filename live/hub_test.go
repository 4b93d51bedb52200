package live

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

// fakeSnapshots serves canned snapshots so hub tests need no database.
type fakeSnapshots struct {
	mu    sync.Mutex
	snaps map[string]models.PollSnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snaps: make(map[string]models.PollSnapshot)}
}

func (f *fakeSnapshots) set(pollID string, snap models.PollSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[pollID] = snap
}

func (f *fakeSnapshots) GetSnapshot(pollID string) (models.PollSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snaps[pollID]
	if !ok {
		return models.PollSnapshot{}, store.ErrNotFound
	}
	return snap, nil
}

func snapshotFixture(pollID string, total int) models.PollSnapshot {
	return models.PollSnapshot{
		Poll: models.Poll{
			ID:             pollID,
			Title:          "Fixture",
			Status:         models.StatusLive,
			ActiveQuestion: 0,
			VotingOpen:     true,
			Questions: []models.Question{
				{Text: "Q0", Options: []models.Option{{Text: "A"}, {Text: "B"}}},
			},
		},
		Tally: models.Tally{models.TallyKey(0, 0): total},
	}
}

func recv(t *testing.T, c chan models.PollSnapshot) models.PollSnapshot {
	t.Helper()
	select {
	case snap, ok := <-c:
		if !ok {
			t.Fatal("subscriber channel closed unexpectedly")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return models.PollSnapshot{}
}

func TestSubscribeDeliversSnapshot(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.set("ABC234", snapshotFixture("ABC234", 4))
	hub := NewHub(snaps)

	sub, err := hub.Subscribe("ABC234")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer hub.Unsubscribe(sub)

	got := recv(t, sub.C)
	if got.Poll.ID != "ABC234" {
		t.Errorf("snapshot poll = %q, want ABC234", got.Poll.ID)
	}
	if got.Tally.Count(0, 0) != 4 {
		t.Errorf("snapshot tally = %d, want 4", got.Tally.Count(0, 0))
	}
}

func TestSubscribeUnknownPoll(t *testing.T) {
	hub := NewHub(newFakeSnapshots())

	if _, err := hub.Subscribe("ZZZZZZ"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.set("ABC234", snapshotFixture("ABC234", 0))
	hub := NewHub(snaps)

	a, _ := hub.Subscribe("ABC234")
	b, _ := hub.Subscribe("ABC234")
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)
	recv(t, a.C)
	recv(t, b.C)

	snaps.set("ABC234", snapshotFixture("ABC234", 7))
	hub.Broadcast("ABC234")

	for _, sub := range []*Subscriber{a, b} {
		got := recv(t, sub.C)
		if got.Tally.Count(0, 0) != 7 {
			t.Errorf("broadcast tally = %d, want 7", got.Tally.Count(0, 0))
		}
	}
}

func TestBroadcastIsScopedToOnePoll(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.set("AAAAAA", snapshotFixture("AAAAAA", 0))
	snaps.set("BBBBBB", snapshotFixture("BBBBBB", 0))
	hub := NewHub(snaps)

	a, _ := hub.Subscribe("AAAAAA")
	b, _ := hub.Subscribe("BBBBBB")
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)
	recv(t, a.C)
	recv(t, b.C)

	hub.Broadcast("AAAAAA")

	recv(t, a.C)
	select {
	case <-b.C:
		t.Error("subscriber of another poll received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.set("ABC234", snapshotFixture("ABC234", 0))
	hub := NewHub(snaps)

	sub, _ := hub.Subscribe("ABC234")
	if hub.SubscriberCount("ABC234") != 1 {
		t.Fatalf("subscriber count = %d, want 1", hub.SubscriberCount("ABC234"))
	}

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	if hub.SubscriberCount("ABC234") != 0 {
		t.Errorf("subscriber count = %d, want 0", hub.SubscriberCount("ABC234"))
	}
}

// A subscriber that stops draining is dropped instead of stalling the
// room; its channel closes so the transport can tell it to resubscribe.
func TestLaggingSubscriberIsDropped(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.set("ABC234", snapshotFixture("ABC234", 0))
	hub := NewHub(snaps)

	lagger, _ := hub.Subscribe("ABC234")
	// One slot is taken by the initial snapshot; fill the rest and one
	// more to overflow.
	for i := 0; i < subscriberBuffer; i++ {
		hub.Broadcast("ABC234")
	}

	if hub.SubscriberCount("ABC234") != 0 {
		t.Errorf("lagging subscriber still registered")
	}

	// Drain: buffered snapshots then close
	for i := 0; i < subscriberBuffer; i++ {
		recv(t, lagger.C)
	}
	select {
	case _, ok := <-lagger.C:
		if ok {
			t.Error("expected channel close after drop")
		}
	case <-time.After(time.Second):
		t.Error("channel never closed after drop")
	}
}
