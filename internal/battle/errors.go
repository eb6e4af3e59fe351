package battle

import "errors"

var (
	// ErrRosterFull is returned when a third combatant is prepped.
	ErrRosterFull = errors.New("combatant roster is full")

	// ErrAlreadyPrepped is returned when a meal already on the roster is
	// prepped again.
	ErrAlreadyPrepped = errors.New("meal is already prepped")

	// ErrInsufficientCombatants is returned when a battle is attempted with
	// fewer than two prepped combatants.
	ErrInsufficientCombatants = errors.New("two combatants must be prepped for a battle")

	// ErrCombatantNotFound is returned when evicting a meal that is not on
	// the roster.
	ErrCombatantNotFound = errors.New("combatant not found on roster")

	// ErrIdenticalCombatants is returned when both combatants share an id.
	ErrIdenticalCombatants = errors.New("combatants must be distinct meals")

	// ErrInvalidScore is returned when a combatant's battle score is not a
	// positive finite number.
	ErrInvalidScore = errors.New("battle score must be positive and finite")
)
