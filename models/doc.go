/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, questions
  - EditPollRequest: title, questions (draft only)
  - StartPresentationRequest: optional question_index
  - CastVoteRequest: question_index, option_index

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, host_key
  - CastVoteResponse: question_index, option_index, message
  - MyVoteResponse: this session's recorded choice, if any
  - PollResults / QuestionResults / OptionResult: tally read path
  - ErrorResponse: error, message

# Domain Types

  - Poll: the aggregate root (questions, status, active question,
    voting window)
  - Question / Option: content; option position is identity
  - Vote: one immutable ledger entry per (session, question)
  - Tally: derived counter map keyed "<q>_<o>"
  - PollSnapshot: poll + tally, the unit the live hub delivers
  - PollSummary: dashboard listing row with aggregate vote count

# Constants

Status values:

	StatusDraft = "draft"
	StatusLive  = "live"
	StatusEnded = "ended"

# Percentages

Percentages derives rounded integer percentages from raw counts and is
the only place that math lives. It is a pure function so results can
never go stale relative to the tally they were computed from.
*/
package models
