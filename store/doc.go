/*
Package store implements the vote ledger, tally counters, and the poll
session state machine on top of database/sql. It is the headless core:
HTTP handlers and the load harness are both thin callers.

# Vote Ledger

CastVote is the one write path for participants. Its guarantees:

  - at most one vote per (poll, session, question): the ledger's
    primary key enforces this at the engine, so N concurrent casts
    from the same session yield exactly one acceptance and N-1
    ErrAlreadyVoted failures;
  - no lost tally updates: the counter increment is a commutative
    UPDATE (count = count + 1) executed in SQL, never a
    read-modify-write of a value held in Go;
  - gating: the increment carries an EXISTS guard re-checking that the
    poll is live, voting is open, and the target question is the
    active one, so the check and the write cannot diverge.

Ledger insert and tally increment commit atomically; a failure of
either rolls back both.

# Session State Machine

States: draft → live → ended, with host-initiated transitions:

	StartPresentation  draft → live (opens voting on question 0)
	OpenVoting         live, reopens the window
	CloseVoting        live, closes the window
	NextQuestion       live, advances and forces voting closed
	PreviousQuestion   live, steps back and forces voting closed
	EndPoll            live → ended
	Restart            any → draft; clears ledger, zeroes tally

Restart is the one non-monotonic transition and is atomic with the
ledger clear: a state reset that left old ledger entries behind would
block legitimate re-votes after the reset.

# Editing

UpdateQuestions only works in draft. It clears the ledger and reseeds
the tally to zeros for the new option layout, since option position is
identity and counters for a reshuffled structure would be meaningless.

# Errors

Sentinel errors mirror the caller-facing taxonomy: ErrNotFound,
ErrAlreadyVoted, ErrQuestionNotActive, ErrVotingClosed,
ErrInvalidQuestion, ErrInvalidOption, ErrInvalidPoll, ErrNotDraft,
ErrNotLive. Transient transaction collisions surface as db.ErrConflict
after the retry budget is spent.
*/
package store
