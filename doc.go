/*
livepoll is the backend for a live-polling web app: hosts present
questions one at a time, participants vote from their phones, and
everyone watches the tallies move in real time.

The server keeps three pieces of state per poll: the poll document
(questions, lifecycle status, active question, voting window), an
append-only vote ledger that enforces one vote per session per
question, and a table of per-option counters incremented alongside
each accepted ledger insert. All three move together in single
transactions, so concurrent voters can never double-count or
double-vote no matter how requests interleave.

Clients subscribe to GET /polls/{id}/live (WebSocket) and receive a
full role-shaped snapshot after every committed change; there is no
delta protocol, so a dropped or lagging client just reconnects.

Run it with a DATABASE_URL and HOST_KEY_SALT; SQLite is the default
engine and PostgreSQL is selected with -t postgres.
*/
package main
