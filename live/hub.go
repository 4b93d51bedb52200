package live

import (
	"log/slog"
	"sync"

	"github.com/livepoll/livepoll/models"
)

// Snapshotter loads the current committed state of one poll. Satisfied
// by *store.PollStore.
type Snapshotter interface {
	GetSnapshot(pollID string) (models.PollSnapshot, error)
}

// subscriberBuffer is how many undelivered snapshots a viewer may lag
// behind before it is dropped and must resubscribe.
const subscriberBuffer = 16

// Subscriber receives poll snapshots on C. The channel is closed when
// the subscriber falls too far behind or is unsubscribed; a viewer
// that sees the close must resubscribe to get a fresh snapshot rather
// than expect missed deltas to be replayed.
type Subscriber struct {
	C      chan models.PollSnapshot
	pollID string
}

// Hub is the live view synchronizer: it fans the full current poll
// snapshot out to every subscribed viewer after each committed change.
type Hub struct {
	snapshots Snapshotter

	mu    sync.Mutex
	rooms map[string]*room
}

// room serializes snapshot loads and sends per poll, which is what
// gives subscribers commit-ordered delivery for a single poll. Cross-
// poll ordering is not promised and not needed.
type room struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

func NewHub(snapshots Snapshotter) *Hub {
	return &Hub{snapshots: snapshots, rooms: make(map[string]*room)}
}

// Subscribe registers a viewer for one poll and delivers the current
// snapshot immediately. Returns store.ErrNotFound via the snapshot
// load when the poll does not exist.
func (h *Hub) Subscribe(pollID string) (*Subscriber, error) {
	rm := h.room(pollID)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	// Load inside the room lock so the initial snapshot cannot be
	// older than a broadcast that already went out.
	snap, err := h.snapshots.GetSnapshot(pollID)
	if err != nil {
		return nil, err
	}

	sub := &Subscriber{C: make(chan models.PollSnapshot, subscriberBuffer), pollID: pollID}
	sub.C <- snap
	rm.subs[sub] = struct{}{}
	return sub, nil
}

// Unsubscribe detaches a viewer. Safe to call after the hub already
// dropped the subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	rm := h.room(sub.pollID)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, ok := rm.subs[sub]; ok {
		delete(rm.subs, sub)
		close(sub.C)
	}
}

// Broadcast pushes the current snapshot of a poll to every subscriber.
// Call it after each committed mutation. Slow subscribers whose buffer
// is full are dropped rather than blocking the rest of the room.
func (h *Hub) Broadcast(pollID string) {
	rm := h.room(pollID)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if len(rm.subs) == 0 {
		return
	}

	snap, err := h.snapshots.GetSnapshot(pollID)
	if err != nil {
		// Poll deleted out from under its viewers: end every
		// subscription so clients notice and leave.
		slog.Warn("broadcast snapshot failed", "poll_id", pollID, "error", err)
		for sub := range rm.subs {
			delete(rm.subs, sub)
			close(sub.C)
		}
		return
	}

	for sub := range rm.subs {
		select {
		case sub.C <- snap:
		default:
			delete(rm.subs, sub)
			close(sub.C)
			slog.Warn("dropped lagging subscriber", "poll_id", pollID)
		}
	}
}

// SubscriberCount reports the current number of viewers for a poll.
func (h *Hub) SubscriberCount(pollID string) int {
	rm := h.room(pollID)
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.subs)
}

func (h *Hub) room(pollID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm := h.rooms[pollID]
	if rm == nil {
		rm = &room{subs: make(map[*Subscriber]struct{})}
		h.rooms[pollID] = rm
	}
	return rm
}
