package models

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty is the preparation difficulty tier of a meal.
type Difficulty string

const (
	DifficultyLow  Difficulty = "LOW"
	DifficultyMed  Difficulty = "MED"
	DifficultyHigh Difficulty = "HIGH"
)

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyLow, DifficultyMed, DifficultyHigh:
		return true
	}
	return false
}

// Meal is a catalog entry that can be prepped as a battle combatant.
// Deletion is soft: a deleted meal keeps its row (and battle history) but is
// excluded from catalog reads and the leaderboard, and its id is never reused.
type Meal struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Cuisine    string         `gorm:"size:100" json:"cuisine"`
	Price      float64        `gorm:"not null" json:"price"`
	Difficulty Difficulty     `gorm:"size:4;not null" json:"difficulty"`
	Battles    uint           `gorm:"not null;default:0" json:"battles"`
	Wins       uint           `gorm:"not null;default:0" json:"wins"`
}

// LeaderboardEntry is a read-only ranking projection of a meal. It is
// recomputed per query, never stored.
type LeaderboardEntry struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Cuisine    string     `json:"cuisine"`
	Price      float64    `json:"price"`
	Difficulty Difficulty `json:"difficulty"`
	Battles    uint       `json:"battles"`
	Wins       uint       `json:"wins"`
	WinPct     float64    `json:"win_pct"`
}
