package battle

import (
	"math"
	"time"

	"github.com/mealmax/backend/internal/models"
)

// Rand is the source of randomness for battle resolution. *rand.Rand
// satisfies it; tests inject scripted sequences for reproducible outcomes.
type Rand interface {
	Float64() float64
}

// Outcome records a resolved battle. It is ephemeral: consumed by the stats
// updater and returned to the caller, never persisted as an entity.
type Outcome struct {
	WinnerID    uint      `json:"winner_id"`
	WinnerName  string    `json:"winner"`
	LoserID     uint      `json:"loser_id"`
	LoserName   string    `json:"loser"`
	WinnerScore float64   `json:"winner_score"`
	LoserScore  float64   `json:"loser_score"`
	FoughtAt    time.Time `json:"fought_at"`
}

// Resolve runs a contest between two distinct meals. The win probability of a
// is scoreA/(scoreA+scoreB); a single uniform draw r in [0,1) decides the
// winner (a wins iff r < p). Outcomes are probabilistically fair relative to
// score but deterministic given a fixed random sequence.
func Resolve(a, b models.Meal, rng Rand) (Outcome, error) {
	if a.ID == b.ID {
		return Outcome{}, ErrIdenticalCombatants
	}

	scoreA := Score(a)
	scoreB := Score(b)
	if !validScore(scoreA) || !validScore(scoreB) {
		return Outcome{}, ErrInvalidScore
	}

	p := scoreA / (scoreA + scoreB)
	winner, loser := a, b
	winnerScore, loserScore := scoreA, scoreB
	if rng.Float64() >= p {
		winner, loser = b, a
		winnerScore, loserScore = scoreB, scoreA
	}

	return Outcome{
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		LoserID:     loser.ID,
		LoserName:   loser.Name,
		WinnerScore: winnerScore,
		LoserScore:  loserScore,
		FoughtAt:    time.Now().UTC(),
	}, nil
}

func validScore(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}
