package live

import (
	"github.com/livepoll/livepoll/models"
)

// Viewer roles for the live endpoint.
const (
	RoleParticipant = "participant"
	RolePresenter   = "presenter"
	RoleDashboard   = "dashboard"
)

// ActiveQuestion is the question currently on screen, shaped for
// viewers (text plus option labels only).
type ActiveQuestion struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// ParticipantView is what a voter's screen renders: the open question,
// whether voting is open, their own recorded choice, and - only once
// they have voted or the host has closed voting - the live results.
type ParticipantView struct {
	PollID        string                  `json:"poll_id"`
	Title         string                  `json:"title"`
	Status        string                  `json:"status"`
	QuestionCount int                     `json:"question_count"`
	Question      *ActiveQuestion         `json:"question,omitempty"`
	VotingOpen    bool                    `json:"voting_open"`
	YourVote      *int                    `json:"your_vote,omitempty"`
	Results       *models.QuestionResults `json:"results,omitempty"`
}

// PresenterView always carries the full tally for the active question,
// regardless of anyone's vote status.
type PresenterView struct {
	PollID        string                  `json:"poll_id"`
	Title         string                  `json:"title"`
	Status        string                  `json:"status"`
	QuestionCount int                     `json:"question_count"`
	Question      *ActiveQuestion         `json:"question,omitempty"`
	VotingOpen    bool                    `json:"voting_open"`
	Results       *models.QuestionResults `json:"results,omitempty"`
	TotalVotes    int                     `json:"total_votes"`
}

// DashboardView is the poll-level aggregate for listing purposes, with
// no per-question breakdown.
type DashboardView struct {
	PollID     string `json:"poll_id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	TotalVotes int    `json:"total_votes"`
}

// ParticipantViewOf shapes a snapshot for one voter. yourVote is the
// option index from the ledger, nil when the session has not voted on
// the active question.
func ParticipantViewOf(snap models.PollSnapshot, yourVote *int) ParticipantView {
	view := ParticipantView{
		PollID:        snap.Poll.ID,
		Title:         snap.Poll.Title,
		Status:        snap.Poll.Status,
		QuestionCount: len(snap.Poll.Questions),
		VotingOpen:    snap.Poll.VotingOpen,
		YourVote:      yourVote,
	}

	q := activeQuestion(snap.Poll)
	if q == nil || snap.Poll.Status == models.StatusEnded {
		return view
	}
	view.Question = q

	// Results stay hidden while the voter can still be influenced by
	// them: revealed once they voted, or once the host closes voting.
	if yourVote != nil || !snap.Poll.VotingOpen {
		results := questionResults(snap, q.Index)
		view.Results = &results
	}
	return view
}

// PresenterViewOf shapes a snapshot for the presenter screen.
func PresenterViewOf(snap models.PollSnapshot) PresenterView {
	view := PresenterView{
		PollID:        snap.Poll.ID,
		Title:         snap.Poll.Title,
		Status:        snap.Poll.Status,
		QuestionCount: len(snap.Poll.Questions),
		VotingOpen:    snap.Poll.VotingOpen,
		TotalVotes:    snap.Tally.Total(),
	}
	if q := activeQuestion(snap.Poll); q != nil {
		view.Question = q
		results := questionResults(snap, q.Index)
		view.Results = &results
	}
	return view
}

// DashboardViewOf shapes a snapshot for the host dashboard list.
func DashboardViewOf(snap models.PollSnapshot) DashboardView {
	return DashboardView{
		PollID:     snap.Poll.ID,
		Title:      snap.Poll.Title,
		Status:     snap.Poll.Status,
		TotalVotes: snap.Tally.Total(),
	}
}

func activeQuestion(poll models.Poll) *ActiveQuestion {
	ix := poll.ActiveQuestion
	if ix < 0 || ix >= len(poll.Questions) {
		return nil
	}
	q := poll.Questions[ix]
	options := make([]string, len(q.Options))
	for i, o := range q.Options {
		options[i] = o.Text
	}
	return &ActiveQuestion{Index: ix, Text: q.Text, Options: options}
}

func questionResults(snap models.PollSnapshot, questionIx int) models.QuestionResults {
	q := snap.Poll.Questions[questionIx]
	counts := snap.Tally.QuestionCounts(questionIx, len(q.Options))
	percentages := models.Percentages(counts)

	results := models.QuestionResults{
		QuestionIndex: questionIx,
		Text:          q.Text,
		TotalVotes:    snap.Tally.QuestionTotal(questionIx, len(q.Options)),
		Options:       make([]models.OptionResult, len(q.Options)),
	}
	for i, o := range q.Options {
		results.Options[i] = models.OptionResult{
			OptionIndex: i,
			Text:        o.Text,
			Votes:       counts[i],
			Percentage:  percentages[i],
		}
	}
	return results
}
