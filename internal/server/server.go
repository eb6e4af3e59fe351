// Package server assembles the gin engine and owns the HTTP lifecycle.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mealmax/backend/config"
	"github.com/mealmax/backend/internal/api"
	"github.com/mealmax/backend/internal/middleware"
	"github.com/mealmax/backend/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires services and handlers into a server instance. redisClient may be
// nil; the leaderboard is then served uncached.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	catalog := service.NewCatalogService(db)
	boards := service.NewLeaderboardService(catalog, redisClient, cfg.LeaderboardTTL)
	battles := service.NewBattleService(catalog, boards, nil)

	api.RegisterRoutes(router, catalog, battles, boards)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops serving.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
