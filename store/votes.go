package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/livepoll/livepoll/db"
	"github.com/livepoll/livepoll/models"
)

// CastVote records one vote for (sessionID, questionIx) and increments
// the matching tally counter, atomically. Preconditions are checked
// inside the same transaction:
//
//   - the poll exists, is live, has voting open, and questionIx is the
//     currently active question (late votes for a since-closed question
//     are rejected, never queued);
//   - optionIx is within the question's option range;
//   - no ledger entry exists yet for (poll, session, question).
//
// The ledger insert rides on the primary key, so a concurrent duplicate
// fails at the engine with ErrAlreadyVoted no matter how the race
// lands. The increment is a commutative UPDATE guarded by a recheck of
// the voting window, so a vote can never be counted after the host
// closes the question between our precheck and the write.
func (s *PollStore) CastVote(pollID, sessionID string, questionIx, optionIx int) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidPoll)
	}

	return db.InTx(s.conn, s.retries, func(tx *sql.Tx) error {
		poll, err := loadPoll(tx, pollID)
		if err != nil {
			return err
		}

		if questionIx < 0 || questionIx >= len(poll.Questions) {
			return ErrInvalidQuestion
		}
		if optionIx < 0 || optionIx >= len(poll.Questions[questionIx].Options) {
			return ErrInvalidOption
		}
		if poll.Status != models.StatusLive || poll.ActiveQuestion != questionIx {
			return ErrQuestionNotActive
		}
		if !poll.VotingOpen {
			return ErrVotingClosed
		}

		_, err = tx.Exec(`
			INSERT INTO vote (poll_id, session_id, question_ix, option_ix, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, pollID, sessionID, questionIx, optionIx, time.Now().UTC())
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyVoted
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		// The EXISTS guard re-evaluates the voting window at write time
		// with whatever is committed now, so the increment and the
		// gating check cannot diverge.
		res, err := tx.Exec(`
			UPDATE tally SET count = count + 1
			WHERE poll_id = $1 AND question_ix = $2 AND option_ix = $3
			  AND EXISTS (
			      SELECT 1 FROM poll
			      WHERE id = $1 AND status = 'live' AND voting_open = TRUE AND active_question = $2
			  )
		`, pollID, questionIx, optionIx)
		if err != nil {
			return fmt.Errorf("failed to increment tally: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// Voting closed (or the question advanced) between the
			// precheck and the write; abort so the ledger entry rolls
			// back with the increment.
			return ErrQuestionNotActive
		}
		return nil
	})
}

// VoteFor returns this session's recorded vote for a question, or
// found=false when the session has not voted on it.
func (s *PollStore) VoteFor(pollID, sessionID string, questionIx int) (models.Vote, bool, error) {
	var vote models.Vote
	err := s.conn.QueryRow(`
		SELECT poll_id, session_id, question_ix, option_ix, created_at
		FROM vote
		WHERE poll_id = $1 AND session_id = $2 AND question_ix = $3
	`, pollID, sessionID, questionIx).Scan(
		&vote.PollID, &vote.SessionID, &vote.QuestionIndex, &vote.OptionIndex, &vote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to query vote: %w", err)
	}
	return vote, true, nil
}

// VoteCount returns the number of ledger entries for a poll, across
// all questions.
func (s *PollStore) VoteCount(pollID string) (int, error) {
	var count int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
