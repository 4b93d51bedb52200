package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/livepoll/livepoll/auth"
	"github.com/livepoll/livepoll/db"
	"github.com/livepoll/livepoll/models"
)

var (
	ErrNotFound          = errors.New("poll not found")
	ErrAlreadyVoted      = errors.New("already voted on this question")
	ErrQuestionNotActive = errors.New("question is not active")
	ErrVotingClosed      = errors.New("voting is closed")
	ErrInvalidQuestion   = errors.New("invalid question index")
	ErrInvalidOption     = errors.New("invalid option index")
	ErrInvalidPoll       = errors.New("invalid poll content")
	ErrNotDraft          = errors.New("poll is not in draft")
	ErrNotLive           = errors.New("poll is not live")
)

const pollCodeLength = 6

// PollStore owns all SQL for polls, the vote ledger, and tally
// counters. Handlers and the load harness both drive it; it has no
// HTTP dependencies.
type PollStore struct {
	conn    *sql.DB
	retries int
}

func New(conn *sql.DB, retries int) *PollStore {
	return &PollStore{conn: conn, retries: retries}
}

// CreatePoll validates content, assigns a shareable code, and seeds a
// zero tally row for every declared option.
func (s *PollStore) CreatePoll(ownerID, title string, questions []models.Question) (models.Poll, error) {
	if ownerID == "" {
		return models.Poll{}, fmt.Errorf("%w: owner id is required", ErrInvalidPoll)
	}
	if err := validateContent(title, questions); err != nil {
		return models.Poll{}, err
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to encode questions: %w", err)
	}

	now := time.Now().UTC()
	poll := models.Poll{
		OwnerID:        ownerID,
		Title:          title,
		Questions:      questions,
		Status:         models.StatusDraft,
		ActiveQuestion: models.NoActiveQuestion,
		VotingOpen:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Short codes can collide; regenerate and retry a few times before
	// giving up.
	for attempt := 0; attempt < 5; attempt++ {
		code, err := auth.GeneratePollCode(pollCodeLength)
		if err != nil {
			return models.Poll{}, err
		}
		poll.ID = code

		err = db.InTx(s.conn, s.retries, func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				INSERT INTO poll (id, owner_id, title, questions, status, active_question, voting_open, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, poll.ID, poll.OwnerID, poll.Title, string(questionsJSON), poll.Status,
				poll.ActiveQuestion, poll.VotingOpen, poll.CreatedAt, poll.UpdatedAt)
			if err != nil {
				return err
			}
			return seedTally(tx, poll.ID, questions)
		})
		if err == nil {
			return poll, nil
		}
		if db.IsUniqueViolation(err) {
			continue
		}
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	return models.Poll{}, errors.New("failed to allocate a unique poll code")
}

// GetPoll returns the poll document without its tally.
func (s *PollStore) GetPoll(pollID string) (models.Poll, error) {
	return scanPoll(s.conn.QueryRow(`
		SELECT id, owner_id, title, questions, status, active_question, voting_open, created_at, updated_at
		FROM poll WHERE id = $1
	`, pollID))
}

// GetSnapshot returns the poll document plus its full tally. The two
// reads are not transactional: the tally only ever grows between them,
// so the snapshot is at least as fresh as the poll row.
func (s *PollStore) GetSnapshot(pollID string) (models.PollSnapshot, error) {
	poll, err := s.GetPoll(pollID)
	if err != nil {
		return models.PollSnapshot{}, err
	}
	tally, err := s.Tally(pollID)
	if err != nil {
		return models.PollSnapshot{}, err
	}
	return models.PollSnapshot{Poll: poll, Tally: tally}, nil
}

// Tally returns every counter for the poll keyed "<q>_<o>".
func (s *PollStore) Tally(pollID string) (models.Tally, error) {
	rows, err := s.conn.Query(`
		SELECT question_ix, option_ix, count
		FROM tally WHERE poll_id = $1
		ORDER BY question_ix, option_ix
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	tally := models.Tally{}
	for rows.Next() {
		var q, o, count int
		if err := rows.Scan(&q, &o, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		tally[models.TallyKey(q, o)] = count
	}
	return tally, rows.Err()
}

// ListPollsByOwner returns the dashboard listing: each poll with its
// aggregate vote count across all questions.
func (s *PollStore) ListPollsByOwner(ownerID string) ([]models.PollSummary, error) {
	rows, err := s.conn.Query(`
		SELECT p.id, p.title, p.status, p.questions, p.created_at, COALESCE(SUM(t.count), 0)
		FROM poll p
		LEFT JOIN tally t ON p.id = t.poll_id
		WHERE p.owner_id = $1
		GROUP BY p.id, p.title, p.status, p.questions, p.created_at
		ORDER BY p.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	summaries := []models.PollSummary{}
	for rows.Next() {
		var s models.PollSummary
		var questionsJSON string
		if err := rows.Scan(&s.ID, &s.Title, &s.Status, &questionsJSON, &s.CreatedAt, &s.TotalVotes); err != nil {
			return nil, fmt.Errorf("failed to scan poll summary: %w", err)
		}
		var questions []models.Question
		if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions: %w", err)
		}
		s.QuestionCount = len(questions)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateQuestions edits a draft poll's content. Votes recorded against
// the old structure are cleared and the tally reseeded to zeros, so
// counters always match option positions; stale entries are never
// resurrected as votes for new options.
func (s *PollStore) UpdateQuestions(pollID, title string, questions []models.Question) error {
	if err := validateContent(title, questions); err != nil {
		return err
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	return db.InTx(s.conn, s.retries, func(tx *sql.Tx) error {
		poll, err := loadPoll(tx, pollID)
		if err != nil {
			return err
		}
		if poll.Status != models.StatusDraft {
			return ErrNotDraft
		}

		if _, err := tx.Exec(`
			UPDATE poll SET title = $1, questions = $2, updated_at = $3 WHERE id = $4
		`, title, string(questionsJSON), time.Now().UTC(), pollID); err != nil {
			return fmt.Errorf("failed to update poll: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM vote WHERE poll_id = $1`, pollID); err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM tally WHERE poll_id = $1`, pollID); err != nil {
			return fmt.Errorf("failed to clear tally: %w", err)
		}
		return seedTally(tx, pollID, questions)
	})
}

// DeletePoll removes the poll; ledger and tally rows cascade.
func (s *PollStore) DeletePoll(pollID string) error {
	res, err := s.conn.Exec(`DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateContent(title string, questions []models.Question) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPoll)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidPoll)
	}
	for qi, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidPoll, qi)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidPoll, qi)
		}
		for oi, o := range q.Options {
			if o.Text == "" {
				return fmt.Errorf("%w: question %d option %d has no text", ErrInvalidPoll, qi, oi)
			}
		}
	}
	return nil
}

func seedTally(tx *sql.Tx, pollID string, questions []models.Question) error {
	for qi, q := range questions {
		for oi := range q.Options {
			if _, err := tx.Exec(`
				INSERT INTO tally (poll_id, question_ix, option_ix, count)
				VALUES ($1, $2, $3, 0)
			`, pollID, qi, oi); err != nil {
				return fmt.Errorf("failed to seed tally: %w", err)
			}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var poll models.Poll
	var questionsJSON string
	err := row.Scan(&poll.ID, &poll.OwnerID, &poll.Title, &questionsJSON,
		&poll.Status, &poll.ActiveQuestion, &poll.VotingOpen,
		&poll.CreatedAt, &poll.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to scan poll: %w", err)
	}
	if err := json.Unmarshal([]byte(questionsJSON), &poll.Questions); err != nil {
		return models.Poll{}, fmt.Errorf("failed to decode questions: %w", err)
	}
	return poll, nil
}

func loadPoll(tx *sql.Tx, pollID string) (models.Poll, error) {
	return scanPoll(tx.QueryRow(`
		SELECT id, owner_id, title, questions, status, active_question, voting_open, created_at, updated_at
		FROM poll WHERE id = $1
	`, pollID))
}
