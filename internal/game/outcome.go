package game

import (
	"fmt"
	"time"
)

type SessionOutcome int

const (
	OutcomeInProgress SessionOutcome = iota
	OutcomeCleared
	OutcomeTimedOut
)

func (o SessionOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeCleared:
		return "cleared"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

type SessionOutcomeReason struct {
	Outcome     SessionOutcome
	Kills       int
	Detonations int
	Hits        int
	Remaining   int
	Elapsed     time.Duration
	Score       ScoreResult
	Description string
}

// DetermineOutcome classifies a session. A positive deadline turns an
// uncleared session past it into a time-out.
func DetermineOutcome(s *Session, deadline time.Duration) SessionOutcomeReason {
	reg := s.Registry()
	res, _ := s.Result()
	r := SessionOutcomeReason{
		Outcome:     OutcomeInProgress,
		Kills:       reg.Kills,
		Detonations: reg.Detonations,
		Hits:        reg.Hits,
		Remaining:   reg.LiveEnemyCount(),
		Elapsed:     s.Elapsed(),
		Score:       res,
		Description: "in_progress",
	}

	switch {
	case s.Cleared() && reg.Hits == 0:
		r.Outcome = OutcomeCleared
		r.Description = "cleared_untouched"
	case s.Cleared() && reg.Detonations == reg.Kills:
		r.Outcome = OutcomeCleared
		r.Description = "cleared_by_detonation"
	case s.Cleared():
		r.Outcome = OutcomeCleared
		r.Description = "cleared"
	case deadline > 0 && s.Elapsed() >= deadline:
		r.Outcome = OutcomeTimedOut
		r.Description = fmt.Sprintf("timed_out_%d_remaining", r.Remaining)
	}
	return r
}
