package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/livepoll/livepoll/db"
	"github.com/livepoll/livepoll/models"
)

// StartPresentation moves a draft poll live. The active question
// defaults to 0 (or the given index) and voting opens immediately.
func (s *PollStore) StartPresentation(pollID string, questionIx *int) error {
	return s.transition(pollID, func(poll models.Poll) (models.Poll, error) {
		if poll.Status != models.StatusDraft {
			return poll, ErrNotDraft
		}
		active := 0
		if questionIx != nil {
			active = *questionIx
		} else if poll.ActiveQuestion >= 0 {
			active = poll.ActiveQuestion
		}
		if active < 0 || active >= len(poll.Questions) {
			return poll, ErrInvalidQuestion
		}
		poll.Status = models.StatusLive
		poll.ActiveQuestion = active
		poll.VotingOpen = true
		return poll, nil
	})
}

// OpenVoting opens the voting window for the active question.
func (s *PollStore) OpenVoting(pollID string) error {
	return s.transition(pollID, func(poll models.Poll) (models.Poll, error) {
		if poll.Status != models.StatusLive {
			return poll, ErrNotLive
		}
		poll.VotingOpen = true
		return poll, nil
	})
}

// CloseVoting closes the voting window without changing the question.
func (s *PollStore) CloseVoting(pollID string) error {
	return s.transition(pollID, func(poll models.Poll) (models.Poll, error) {
		if poll.Status != models.StatusLive {
			return poll, ErrNotLive
		}
		poll.VotingOpen = false
		return poll, nil
	})
}

// NextQuestion advances the active question. Voting is forced closed
// so no stray vote lands on the new question before the host reopens.
func (s *PollStore) NextQuestion(pollID string) error {
	return s.advance(pollID, +1)
}

// PreviousQuestion steps back one question, also forcing voting closed.
func (s *PollStore) PreviousQuestion(pollID string) error {
	return s.advance(pollID, -1)
}

func (s *PollStore) advance(pollID string, delta int) error {
	return s.transition(pollID, func(poll models.Poll) (models.Poll, error) {
		if poll.Status != models.StatusLive {
			return poll, ErrNotLive
		}
		next := poll.ActiveQuestion + delta
		if next < 0 || next >= len(poll.Questions) {
			return poll, ErrInvalidQuestion
		}
		poll.ActiveQuestion = next
		poll.VotingOpen = false
		return poll, nil
	})
}

// EndPoll is the terminal transition for a normal session.
func (s *PollStore) EndPoll(pollID string) error {
	return s.transition(pollID, func(poll models.Poll) (models.Poll, error) {
		if poll.Status != models.StatusLive {
			return poll, ErrNotLive
		}
		poll.Status = models.StatusEnded
		poll.VotingOpen = false
		return poll, nil
	})
}

// Restart resets the poll to draft: every ledger entry is deleted,
// every tally counter zeroed, and the session state cleared, all in
// one transaction. A partial restart would let replayed votes violate
// the at-most-once invariant, so the three writes commit together or
// not at all.
func (s *PollStore) Restart(pollID string) error {
	return db.InTx(s.conn, s.retries, func(tx *sql.Tx) error {
		if _, err := loadPoll(tx, pollID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM vote WHERE poll_id = $1`, pollID); err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
		if _, err := tx.Exec(`UPDATE tally SET count = 0 WHERE poll_id = $1`, pollID); err != nil {
			return fmt.Errorf("failed to zero tally: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE poll SET status = $1, active_question = $2, voting_open = FALSE, updated_at = $3
			WHERE id = $4
		`, models.StatusDraft, models.NoActiveQuestion, time.Now().UTC(), pollID); err != nil {
			return fmt.Errorf("failed to reset poll: %w", err)
		}
		return nil
	})
}

// transition loads the poll, applies fn to compute the new session
// state, and persists status/active_question/voting_open in the same
// transaction.
func (s *PollStore) transition(pollID string, fn func(models.Poll) (models.Poll, error)) error {
	return db.InTx(s.conn, s.retries, func(tx *sql.Tx) error {
		poll, err := loadPoll(tx, pollID)
		if err != nil {
			return err
		}
		updated, err := fn(poll)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			UPDATE poll SET status = $1, active_question = $2, voting_open = $3, updated_at = $4
			WHERE id = $5
		`, updated.Status, updated.ActiveQuestion, updated.VotingOpen, time.Now().UTC(), pollID)
		if err != nil {
			return fmt.Errorf("failed to update poll state: %w", err)
		}
		return nil
	})
}
