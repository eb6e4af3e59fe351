// Package battle implements the battle engine: the combatant roster, the
// scoring function and the weighted-random resolver.
package battle

import "github.com/mealmax/backend/internal/models"

const rosterCapacity = 2

// Roster holds the meals currently prepped for battle, in prep order. It is
// not safe for concurrent use on its own; callers serialize access through a
// single lock (see service.BattleService).
type Roster struct {
	combatants []models.Meal
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Prep appends a meal to the roster. The caller is responsible for ensuring
// the meal exists and is not deleted.
func (r *Roster) Prep(m models.Meal) error {
	if len(r.combatants) >= rosterCapacity {
		return ErrRosterFull
	}
	for _, c := range r.combatants {
		if c.ID == m.ID {
			return ErrAlreadyPrepped
		}
	}
	r.combatants = append(r.combatants, m)
	return nil
}

// List returns the prepped meals in insertion order.
func (r *Roster) List() []models.Meal {
	out := make([]models.Meal, len(r.combatants))
	copy(out, r.combatants)
	return out
}

// Size returns the number of prepped meals.
func (r *Roster) Size() int {
	return len(r.combatants)
}

// Clear empties the roster. Safe to call on an empty roster.
func (r *Roster) Clear() {
	r.combatants = r.combatants[:0]
}

// TakePair returns the two current combatants without mutating the roster;
// mutation happens only after resolution, via Evict.
func (r *Roster) TakePair() (models.Meal, models.Meal, error) {
	if len(r.combatants) != rosterCapacity {
		return models.Meal{}, models.Meal{}, ErrInsufficientCombatants
	}
	return r.combatants[0], r.combatants[1], nil
}

// Evict removes the meal with the given id from the roster.
func (r *Roster) Evict(id uint) error {
	for i, c := range r.combatants {
		if c.ID == id {
			r.combatants = append(r.combatants[:i], r.combatants[i+1:]...)
			return nil
		}
	}
	return ErrCombatantNotFound
}
