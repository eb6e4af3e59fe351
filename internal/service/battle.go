package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/mealmax/backend/internal/battle"
	"github.com/mealmax/backend/internal/models"
)

// BattleService owns the combatant roster and runs battles. One mutex
// serializes every roster operation; a full battle (pair, resolve, apply
// stats, evict loser) is a single critical section, so no concurrent prep or
// battle ever observes the roster between pairing and eviction.
type BattleService struct {
	mu      sync.Mutex
	roster  *battle.Roster
	catalog *CatalogService
	boards  *LeaderboardService
	rng     battle.Rand
}

// NewBattleService creates a new BattleService instance. A nil rng gets a
// time-seeded source; tests inject a scripted one. The rng is only ever used
// under the service mutex. boards may be nil when no cache is in play.
func NewBattleService(catalog *CatalogService, boards *LeaderboardService, rng battle.Rand) *BattleService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BattleService{
		roster:  battle.NewRoster(),
		catalog: catalog,
		boards:  boards,
		rng:     rng,
	}
}

// PrepCombatant looks up a live meal by name and adds it to the roster.
func (s *BattleService) PrepCombatant(ctx context.Context, name string) (*models.Meal, error) {
	meal, err := s.catalog.GetMealByName(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.roster.Prep(*meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// Combatants returns the currently prepped meals in prep order.
func (s *BattleService) Combatants() []models.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.List()
}

// ClearCombatants empties the roster. Idempotent.
func (s *BattleService) ClearCombatants() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster.Clear()
}

// Battle resolves a contest between the two prepped combatants. Stats are
// applied before the loser is evicted: if the apply fails the battle is void,
// no counters move and the roster is left untouched. The winner stays on the
// roster for a rematch, so the roster goes 2 -> 1 on success.
func (s *BattleService) Battle(ctx context.Context) (battle.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first, second, err := s.roster.TakePair()
	if err != nil {
		return battle.Outcome{}, err
	}

	outcome, err := battle.Resolve(first, second, s.rng)
	if err != nil {
		return battle.Outcome{}, err
	}

	if err := s.catalog.ApplyOutcome(ctx, outcome); err != nil {
		return battle.Outcome{}, err
	}

	if err := s.roster.Evict(outcome.LoserID); err != nil {
		// TakePair guarantees the loser was on the roster.
		return battle.Outcome{}, err
	}

	if s.boards != nil {
		s.boards.Invalidate(ctx)
	}
	return outcome, nil
}
