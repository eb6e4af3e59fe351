// Package api contains the HTTP handlers for the meal catalog and the
// battle engine.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealmax/backend/internal/battle"
	"github.com/mealmax/backend/internal/service"
)

// HealthCheck returns the health status of the API.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "MealMax API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(router *gin.Engine, catalog *service.CatalogService, battles *service.BattleService, boards *service.LeaderboardService) {
	router.GET("/health", HealthCheck)

	mealHandler := NewMealHandler(catalog, boards)
	battleHandler := NewBattleHandler(battles, boards)

	v1 := router.Group("/api/v1")
	v1.GET("/db-check", mealHandler.DBCheck)
	mealHandler.RegisterRoutes(v1)
	battleHandler.RegisterRoutes(v1)
}

// errorResponse maps service and engine errors to HTTP statuses. Every core
// failure surfaces as a non-success status.
func errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, battle.ErrCombatantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMeal),
		errors.Is(err, service.ErrInvalidSortKey),
		errors.Is(err, battle.ErrInsufficientCombatants),
		errors.Is(err, battle.ErrIdenticalCombatants),
		errors.Is(err, battle.ErrInvalidScore):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateMeal),
		errors.Is(err, battle.ErrAlreadyPrepped),
		errors.Is(err, battle.ErrRosterFull):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"status": "error", "error": err.Error()})
}
