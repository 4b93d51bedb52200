package live

import (
	"testing"

	"github.com/livepoll/livepoll/models"
)

func viewFixture() models.PollSnapshot {
	return models.PollSnapshot{
		Poll: models.Poll{
			ID:             "ABC234",
			Title:          "Standup poll",
			Status:         models.StatusLive,
			ActiveQuestion: 0,
			VotingOpen:     true,
			Questions: []models.Question{
				{Text: "Coffee?", Options: []models.Option{{Text: "Yes"}, {Text: "No"}}},
				{Text: "Tea?", Options: []models.Option{{Text: "Yes"}, {Text: "No"}}},
			},
		},
		Tally: models.Tally{
			models.TallyKey(0, 0): 3,
			models.TallyKey(0, 1): 1,
			models.TallyKey(1, 0): 5,
		},
	}
}

func TestParticipantViewHidesResultsBeforeVoting(t *testing.T) {
	view := ParticipantViewOf(viewFixture(), nil)

	if view.Question == nil {
		t.Fatal("active question missing")
	}
	if view.Question.Index != 0 || view.Question.Text != "Coffee?" {
		t.Errorf("question = %+v", view.Question)
	}
	if view.Results != nil {
		t.Error("results should stay hidden while the voter has not voted and voting is open")
	}
	if view.YourVote != nil {
		t.Errorf("your_vote = %v, want nil", *view.YourVote)
	}
}

func TestParticipantViewRevealsResultsAfterVoting(t *testing.T) {
	vote := 0
	view := ParticipantViewOf(viewFixture(), &vote)

	if view.Results == nil {
		t.Fatal("results missing after voting")
	}
	if view.Results.TotalVotes != 4 {
		t.Errorf("total votes = %d, want 4", view.Results.TotalVotes)
	}
	if view.Results.Options[0].Votes != 3 || view.Results.Options[0].Percentage != 75 {
		t.Errorf("option 0 = %+v, want 3 votes / 75%%", view.Results.Options[0])
	}
	if view.YourVote == nil || *view.YourVote != 0 {
		t.Errorf("your_vote = %v, want 0", view.YourVote)
	}
}

func TestParticipantViewRevealsResultsWhenVotingCloses(t *testing.T) {
	snap := viewFixture()
	snap.Poll.VotingOpen = false

	view := ParticipantViewOf(snap, nil)
	if view.Results == nil {
		t.Error("results should show once the host closes voting")
	}
}

func TestParticipantViewAfterEnd(t *testing.T) {
	snap := viewFixture()
	snap.Poll.Status = models.StatusEnded
	snap.Poll.VotingOpen = false

	view := ParticipantViewOf(snap, nil)
	if view.Question != nil {
		t.Error("ended poll should not show an active question")
	}
	if view.Status != models.StatusEnded {
		t.Errorf("status = %q", view.Status)
	}
}

func TestParticipantViewBeforeStart(t *testing.T) {
	snap := viewFixture()
	snap.Poll.Status = models.StatusDraft
	snap.Poll.ActiveQuestion = models.NoActiveQuestion
	snap.Poll.VotingOpen = false

	view := ParticipantViewOf(snap, nil)
	if view.Question != nil {
		t.Error("draft poll should not show a question")
	}
}

func TestPresenterViewAlwaysCarriesResults(t *testing.T) {
	view := PresenterViewOf(viewFixture())

	if view.Results == nil {
		t.Fatal("presenter results missing")
	}
	if view.Results.Options[1].Votes != 1 || view.Results.Options[1].Percentage != 25 {
		t.Errorf("option 1 = %+v, want 1 vote / 25%%", view.Results.Options[1])
	}
	// Tally total spans all questions
	if view.TotalVotes != 9 {
		t.Errorf("total votes = %d, want 9", view.TotalVotes)
	}
}

func TestDashboardView(t *testing.T) {
	view := DashboardViewOf(viewFixture())

	if view.PollID != "ABC234" || view.Status != models.StatusLive {
		t.Errorf("view = %+v", view)
	}
	if view.TotalVotes != 9 {
		t.Errorf("total votes = %d, want 9", view.TotalVotes)
	}
}
