package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/mealmax/backend/internal/battle"
	"github.com/mealmax/backend/internal/models"
)

var (
	// ErrMealNotFound is returned when a meal id or name does not resolve to
	// a live (non-deleted) catalog entry.
	ErrMealNotFound = errors.New("meal not found")

	// ErrDuplicateMeal is returned when creating a meal whose name is taken,
	// including by a soft-deleted meal.
	ErrDuplicateMeal = errors.New("meal already exists")

	// ErrInvalidMeal is returned when a meal fails catalog validation.
	ErrInvalidMeal = errors.New("invalid meal")

	// ErrInvalidSortKey is returned for an unknown leaderboard sort key.
	ErrInvalidSortKey = errors.New("invalid leaderboard sort key")
)

// Leaderboard sort keys.
const (
	SortByWins    = "wins"
	SortByWinPct  = "win_pct"
	SortByBattles = "battles"
)

// CatalogService handles meal storage: CRUD, the transactional win/loss
// counters and the leaderboard projection.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateMeal validates and stores a new meal. Names are unique across live
// and soft-deleted meals.
func (s *CatalogService) CreateMeal(ctx context.Context, meal *models.Meal) error {
	if meal.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMeal)
	}
	if meal.Price <= 0 {
		return fmt.Errorf("%w: price %v must be positive", ErrInvalidMeal, meal.Price)
	}
	if !meal.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q must be LOW, MED or HIGH", ErrInvalidMeal, meal.Difficulty)
	}

	var count int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&models.Meal{}).
		Where("name = ?", meal.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateMeal, meal.Name)
	}

	meal.Battles = 0
	meal.Wins = 0
	return s.db.WithContext(ctx).Create(meal).Error
}

// GetMeal retrieves a live meal by id.
func (s *CatalogService) GetMeal(ctx context.Context, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMealNotFound, id)
		}
		return nil, err
	}
	return &meal, nil
}

// GetMealByName retrieves a live meal by its display name (case-sensitive).
func (s *CatalogService) GetMealByName(ctx context.Context, name string) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrMealNotFound, name)
		}
		return nil, err
	}
	return &meal, nil
}

// DeleteMeal soft-deletes a meal. Its battle history is preserved and its id
// is never reassigned; deleting an already-deleted meal reports not found.
func (s *CatalogService) DeleteMeal(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Meal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrMealNotFound, id)
	}
	return nil
}

// ClearMeals removes every meal, soft-deleted included. Admin reset only.
func (s *CatalogService) ClearMeals(ctx context.Context) error {
	return s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&models.Meal{}).Error
}

// IsDeleted reports whether the meal id refers to a soft-deleted meal. An
// unknown id is an error, not a deletion.
func (s *CatalogService) IsDeleted(ctx context.Context, id uint) (bool, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).Unscoped().First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: id %d", ErrMealNotFound, id)
		}
		return false, err
	}
	return meal.DeletedAt.Valid, nil
}

// ApplyOutcome applies a battle outcome to both combatants' counters in one
// transaction: winner gets battles+1 and wins+1, loser gets battles+1. If
// either meal vanished between resolution and apply, nothing is written and
// the battle is void.
func (s *CatalogService) ApplyOutcome(ctx context.Context, outcome battle.Outcome) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		win := tx.Model(&models.Meal{}).Where("id = ?", outcome.WinnerID).
			Updates(map[string]interface{}{
				"battles": gorm.Expr("battles + 1"),
				"wins":    gorm.Expr("wins + 1"),
			})
		if win.Error != nil {
			return win.Error
		}
		if win.RowsAffected == 0 {
			return fmt.Errorf("%w: winner id %d", ErrMealNotFound, outcome.WinnerID)
		}

		loss := tx.Model(&models.Meal{}).Where("id = ?", outcome.LoserID).
			Update("battles", gorm.Expr("battles + 1"))
		if loss.Error != nil {
			return loss.Error
		}
		if loss.RowsAffected == 0 {
			return fmt.Errorf("%w: loser id %d", ErrMealNotFound, outcome.LoserID)
		}
		return nil
	})
}

// Leaderboard returns live meals with at least one battle, ranked descending
// by the chosen key. Ties break by higher battle count, then ascending id, so
// the order is fully deterministic. Zero-battle meals are filtered out, so
// win percentage is never computed against zero battles.
func (s *CatalogService) Leaderboard(ctx context.Context, sortKey string) ([]models.LeaderboardEntry, error) {
	if sortKey == "" {
		sortKey = SortByWins
	}
	switch sortKey {
	case SortByWins, SortByWinPct, SortByBattles:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, sortKey)
	}

	var meals []models.Meal
	if err := s.db.WithContext(ctx).Where("battles > 0").Find(&meals).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(meals))
	for _, m := range meals {
		entries = append(entries, models.LeaderboardEntry{
			ID:         m.ID,
			Name:       m.Name,
			Cuisine:    m.Cuisine,
			Price:      m.Price,
			Difficulty: m.Difficulty,
			Battles:    m.Battles,
			Wins:       m.Wins,
			WinPct:     winPct(m.Wins, m.Battles),
		})
	}

	key := func(e models.LeaderboardEntry) float64 {
		switch sortKey {
		case SortByWinPct:
			return e.WinPct
		case SortByBattles:
			return float64(e.Battles)
		default:
			return float64(e.Wins)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		ki, kj := key(entries[i]), key(entries[j])
		if ki != kj {
			return ki > kj
		}
		if entries[i].Battles != entries[j].Battles {
			return entries[i].Battles > entries[j].Battles
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Ping checks database connectivity for the db-check endpoint.
func (s *CatalogService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// winPct is wins/battles as a ratio rounded to three decimals.
func winPct(wins, battles uint) float64 {
	if battles == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(battles)*1000) / 1000
}
