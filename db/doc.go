/*
Package db handles database access: driver selection, schema creation,
and the bounded-retry transaction helper.

# Drivers

Open supports two interchangeable backends behind database/sql:

  - sqlite (modernc.org/sqlite): default; also used by the test suite
  - postgres (lib/pq): production deployments

All SQL in the repository uses $n placeholders and the DDL subset both
engines accept, so the store layer never branches on driver.

# Transactions

InTx wraps begin/exec/commit with a bounded retry loop:

	err := db.InTx(conn, cfg.VoteRetries, func(tx *sql.Tx) error {
		...
	})

Retries fire only for transient concurrency failures (postgres
serialization failures and deadlocks, SQLite busy); after the budget
is spent the error is wrapped in ErrConflict. The callback must be
free of side effects outside the transaction so replays are safe.

# Tables

  - poll: aggregate root; lifecycle state, active question, voting
    window, question structure as JSON
  - tally: one pre-seeded counter row per (question, option)
  - vote: the ledger; primary key (poll_id, session_id, question_ix)
    enforces at-most-one vote per voter per question

Foreign keys use ON DELETE CASCADE, so deleting a poll removes its
ledger and tally in one statement.
*/
package db
