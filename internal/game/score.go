package game

import (
	"fmt"
	"time"
)

// Score points.
const (
	PointsPerKill    = 100
	PenaltyPerHit    = 50
	PenaltyPerSecond = 2
)

// ScoreResult is the breakdown shown on the clear screen.
type ScoreResult struct {
	Kills       int
	Hits        int
	Seconds     int
	Base        int
	HitPenalty  int
	TimePenalty int
	Final       int
}

func (r ScoreResult) String() string {
	return fmt.Sprintf("score %d (kills %d×%d=%d, hits -%d, time %ds -%d)",
		r.Final, r.Kills, PointsPerKill, r.Base, r.HitPenalty, r.Seconds, r.TimePenalty)
}

// Score returns max(0, kills*100 - hits*50 - seconds*2).
func Score(seconds, kills, hits int) int {
	s := kills*PointsPerKill - hits*PenaltyPerHit - seconds*PenaltyPerSecond
	if s < 0 {
		return 0
	}
	return s
}

// CalculateScore scores an elapsed session time, flooring it to whole seconds.
func CalculateScore(elapsed time.Duration, kills, hits int) ScoreResult {
	if elapsed < 0 {
		elapsed = 0
	}
	sec := int(elapsed / time.Second)
	return ScoreResult{
		Kills:       kills,
		Hits:        hits,
		Seconds:     sec,
		Base:        kills * PointsPerKill,
		HitPenalty:  hits * PenaltyPerHit,
		TimePenalty: sec * PenaltyPerSecond,
		Final:       Score(sec, kills, hits),
	}
}
