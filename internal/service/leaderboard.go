package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mealmax/backend/internal/models"
)

const leaderboardKeyPrefix = "leaderboard:"

// LeaderboardService serves ranked leaderboards, fronted by a short-lived
// Redis cache per sort key. A nil Redis client disables caching; every read
// then falls through to the catalog.
type LeaderboardService struct {
	catalog *CatalogService
	redis   *redis.Client
	ttl     time.Duration
}

// NewLeaderboardService creates a new LeaderboardService instance.
func NewLeaderboardService(catalog *CatalogService, redisClient *redis.Client, ttl time.Duration) *LeaderboardService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LeaderboardService{
		catalog: catalog,
		redis:   redisClient,
		ttl:     ttl,
	}
}

// Leaderboard returns the ranking for sortKey, from cache when fresh. Cache
// failures degrade to a direct catalog read rather than failing the request.
func (s *LeaderboardService) Leaderboard(ctx context.Context, sortKey string) ([]models.LeaderboardEntry, error) {
	if sortKey == "" {
		sortKey = SortByWins
	}

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, leaderboardKeyPrefix+sortKey).Bytes()
		if err == nil {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			log.Printf("leaderboard cache read failed: %v", err)
		}
	}

	entries, err := s.catalog.Leaderboard(ctx, sortKey)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ctx, leaderboardKeyPrefix+sortKey, payload, s.ttl).Err(); err != nil {
				log.Printf("leaderboard cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}

// Invalidate drops every cached ranking. Called after any stats or catalog
// mutation so readers never see counters older than the TTL.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	keys := []string{
		leaderboardKeyPrefix + SortByWins,
		leaderboardKeyPrefix + SortByWinPct,
		leaderboardKeyPrefix + SortByBattles,
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("leaderboard cache invalidation failed: %v", err)
	}
}
