package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL sticks to
// the dialect both drivers share, so one schema serves sqlite and
// postgres alike.
func CreateSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls. questions holds the ordered question/option structure as
-- JSON; option position is identity, so tally and vote rows key by
-- index rather than a stable option id.
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    questions TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'live', 'ended')),
    active_question INTEGER NOT NULL DEFAULT -1,
    voting_open BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_owner_id ON poll(owner_id);
CREATE INDEX IF NOT EXISTS idx_poll_status ON poll(status);

-- Tally counters. One row per declared (question, option), seeded to
-- zero at create/edit time and incremented commutatively in SQL so
-- concurrent votes never lose updates.
CREATE TABLE IF NOT EXISTS tally (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_ix INTEGER NOT NULL,
    option_ix INTEGER NOT NULL,
    count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
    PRIMARY KEY (poll_id, question_ix, option_ix)
);

-- Vote ledger. The primary key IS the at-most-one-vote invariant:
-- a second insert for the same (poll, session, question) fails at the
-- engine regardless of application races.
CREATE TABLE IF NOT EXISTS vote (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    session_id TEXT NOT NULL,
    question_ix INTEGER NOT NULL,
    option_ix INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, session_id, question_ix)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_question ON vote(poll_id, question_ix);
`
