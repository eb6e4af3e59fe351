package battle

import "github.com/mealmax/backend/internal/models"

// Scoring weights. Price is rewarded linearly and each difficulty tier adds a
// fixed bonus, largest for LOW: a harder dish is discounted relative to an
// easier one of equal price. The mapping is total-order compatible and always
// positive for a valid meal (price > 0).
const (
	priceWeight = 3.0

	bonusLow  = 15.0
	bonusMed  = 10.0
	bonusHigh = 5.0
)

// Score converts a meal's attributes into its battle score. Pure: no I/O, no
// randomness, identical inputs always produce the identical score.
func Score(m models.Meal) float64 {
	return m.Price*priceWeight + difficultyBonus(m.Difficulty)
}

func difficultyBonus(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyLow:
		return bonusLow
	case models.DifficultyMed:
		return bonusMed
	case models.DifficultyHigh:
		return bonusHigh
	}
	return 0
}
