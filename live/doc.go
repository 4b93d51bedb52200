/*
Package live is the view synchronizer: it pushes the current poll state
to every connected viewer whenever a mutation commits.

# Hub

The Hub keeps one room per poll. Handlers call Broadcast after each
committed write; the hub re-reads the snapshot under the room lock and
fans it out, which yields commit-ordered delivery per poll. Subscribers
get the current snapshot immediately on Subscribe. A viewer that can't
keep up is dropped (its channel closed) instead of buffering without
bound - on reconnect it receives a fresh snapshot, so nothing is lost
that matters; there is deliberately no durable event log to replay.

# Views

Each viewer class sees a different shape of the same snapshot:

  - participant: the open question, the voting window, their own
    recorded choice, and results only once they voted or voting closed
  - presenter: full live tally for the active question plus the
    aggregate vote count
  - dashboard: poll-level totals for listing, no per-question breakdown

Percentages are derived per message via models.Percentages, never
stored.

# Transport

SocketServer exposes the stream on GET /polls/{id}/live via
gorilla/websocket. Role and session id travel as query parameters
because browsers cannot set custom headers on WebSocket dials.
*/
package live
