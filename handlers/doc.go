/*
Package handlers contains the HTTP handlers for the poll API.

PollHandler covers the host surface: poll CRUD, the session state
machine (start, open, close, next, previous, end, restart), and the
results read path. VoteHandler covers the participant surface: casting
a vote and recalling this session's own vote.

Host-only endpoints authenticate with the X-Host-Key header; the key
is an HMAC over the poll id, so validation needs no database access.
Participants identify themselves with X-Session-Id, an opaque
client-generated id.

Every handler that commits a state change calls hub.Broadcast after
the transaction, so live subscribers always observe committed state in
commit order.
*/
package handlers
