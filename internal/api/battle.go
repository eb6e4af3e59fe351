package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealmax/backend/internal/service"
)

// BattleHandler serves the combatant roster and battle endpoints.
type BattleHandler struct {
	battles *service.BattleService
	boards  *service.LeaderboardService
}

func NewBattleHandler(battles *service.BattleService, boards *service.LeaderboardService) *BattleHandler {
	return &BattleHandler{battles: battles, boards: boards}
}

func (h *BattleHandler) RegisterRoutes(router *gin.RouterGroup) {
	battle := router.Group("/battle")
	{
		battle.POST("", h.Battle)
		battle.POST("/combatants/:name", h.PrepCombatant)
		battle.GET("/combatants", h.ListCombatants)
		battle.DELETE("/combatants", h.ClearCombatants)
	}
	router.GET("/leaderboard", h.Leaderboard)
}

func (h *BattleHandler) PrepCombatant(c *gin.Context) {
	meal, err := h.battles.PrepCombatant(c.Request.Context(), c.Param("name"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "combatant": meal})
}

func (h *BattleHandler) ListCombatants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"combatants": h.battles.Combatants(),
	})
}

func (h *BattleHandler) ClearCombatants(c *gin.Context) {
	h.battles.ClearCombatants()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *BattleHandler) Battle(c *gin.Context) {
	outcome, err := h.battles.Battle(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"winner":  outcome.WinnerName,
		"outcome": outcome,
	})
}

func (h *BattleHandler) Leaderboard(c *gin.Context) {
	entries, err := h.boards.Leaderboard(c.Request.Context(), c.Query("sort"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "leaderboard": entries})
}
