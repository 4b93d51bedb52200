package models

import (
	"fmt"
	"time"
)

// Poll status constants
const (
	StatusDraft = "draft"
	StatusLive  = "live"
	StatusEnded = "ended"
)

// NoActiveQuestion is the active_question value for a poll whose
// presentation has not started (or was restarted).
const NoActiveQuestion = -1

// Request types

type CreatePollRequest struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type EditPollRequest struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type StartPresentationRequest struct {
	QuestionIndex *int `json:"question_index,omitempty"`
}

type CastVoteRequest struct {
	QuestionIndex int `json:"question_index"`
	OptionIndex   int `json:"option_index"`
}

// Response types

type CreatePollResponse struct {
	PollID  string `json:"poll_id"`
	HostKey string `json:"host_key"`
}

type CastVoteResponse struct {
	QuestionIndex int    `json:"question_index"`
	OptionIndex   int    `json:"option_index"`
	Message       string `json:"message"`
}

type MyVoteResponse struct {
	QuestionIndex int  `json:"question_index"`
	OptionIndex   *int `json:"option_index"` // nil when this session has not voted
}

// Domain types

type Poll struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Title          string     `json:"title"`
	Questions      []Question `json:"questions"`
	Status         string     `json:"status"`
	ActiveQuestion int        `json:"active_question_index"`
	VotingOpen     bool       `json:"voting_open"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type Option struct {
	Text string `json:"text"`
}

// Vote is one ledger entry: proof that a session voted once on one
// question. Immutable once written.
type Vote struct {
	PollID        string    `json:"poll_id"`
	SessionID     string    `json:"-"` // never expose voter identities
	QuestionIndex int       `json:"question_index"`
	OptionIndex   int       `json:"option_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// Tally maps "<questionIndex>_<optionIndex>" to a vote count. The key
// shape is part of the wire format, so keep it stable.
type Tally map[string]int

// TallyKey builds the wire key for one (question, option) counter.
func TallyKey(questionIx, optionIx int) string {
	return fmt.Sprintf("%d_%d", questionIx, optionIx)
}

// Count returns the counter for one (question, option), zero if absent.
func (t Tally) Count(questionIx, optionIx int) int {
	return t[TallyKey(questionIx, optionIx)]
}

// QuestionCounts returns the per-option counts for one question, in
// option order. Keys outside the option range (orphaned by an edit)
// are ignored.
func (t Tally) QuestionCounts(questionIx, optionCount int) []int {
	counts := make([]int, optionCount)
	for o := range counts {
		counts[o] = t.Count(questionIx, o)
	}
	return counts
}

// QuestionTotal returns the total votes recorded for one question.
func (t Tally) QuestionTotal(questionIx, optionCount int) int {
	total := 0
	for o := 0; o < optionCount; o++ {
		total += t.Count(questionIx, o)
	}
	return total
}

// Total returns the vote count summed across every counter. Used for
// the dashboard poll-level aggregate.
func (t Tally) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// Percentages derives rounded integer percentages from raw counts.
// Recomputed from the counts every time, never stored, so it can't go
// stale. A zero total yields all zeros.
func Percentages(counts []int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]int, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = int(float64(c)/float64(total)*100 + 0.5)
	}
	return out
}

// PollSnapshot is the full authoritative state of one poll: the poll
// document plus its tally. This is what the live hub delivers on every
// committed change.
type PollSnapshot struct {
	Poll  Poll  `json:"poll"`
	Tally Tally `json:"tally"`
}

// PollSummary is the dashboard listing row: poll metadata plus the
// aggregate vote count, without per-question breakdown.
type PollSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"question_count"`
	TotalVotes    int       `json:"total_votes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Results types (presenter read path)

type OptionResult struct {
	OptionIndex int    `json:"option_index"`
	Text        string `json:"text"`
	Votes       int    `json:"votes"`
	Percentage  int    `json:"percentage"`
}

type QuestionResults struct {
	QuestionIndex int            `json:"question_index"`
	Text          string         `json:"text"`
	TotalVotes    int            `json:"total_votes"`
	Options       []OptionResult `json:"options"`
}

type PollResults struct {
	PollID     string            `json:"poll_id"`
	Title      string            `json:"title"`
	Status     string            `json:"status"`
	TotalVotes int               `json:"total_votes"`
	Questions  []QuestionResults `json:"questions"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
