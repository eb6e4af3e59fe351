package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mealmax/backend/internal/models"
	"github.com/mealmax/backend/internal/service"
)

// MealHandler serves the meal catalog CRUD endpoints.
type MealHandler struct {
	catalog *service.CatalogService
	boards  *service.LeaderboardService
}

func NewMealHandler(catalog *service.CatalogService, boards *service.LeaderboardService) *MealHandler {
	return &MealHandler{catalog: catalog, boards: boards}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.CreateMeal)
		meals.GET("/:id", h.GetMeal)
		meals.GET("/by-name/:name", h.GetMealByName)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.DELETE("", h.ClearMeals)
	}
}

// CreateMealRequest is the payload for creating a meal.
type CreateMealRequest struct {
	Name       string            `json:"name" binding:"required"`
	Cuisine    string            `json:"cuisine"`
	Price      float64           `json:"price" binding:"required"`
	Difficulty models.Difficulty `json:"difficulty" binding:"required"`
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	meal := models.Meal{
		Name:       req.Name,
		Cuisine:    req.Cuisine,
		Price:      req.Price,
		Difficulty: req.Difficulty,
	}
	if err := h.catalog.CreateMeal(c.Request.Context(), &meal); err != nil {
		errorResponse(c, err)
		return
	}

	if h.boards != nil {
		h.boards.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "meal": meal})
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid meal id"})
		return
	}

	meal, err := h.catalog.GetMeal(c.Request.Context(), uint(id))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "meal": meal})
}

func (h *MealHandler) GetMealByName(c *gin.Context) {
	meal, err := h.catalog.GetMealByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "meal": meal})
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid meal id"})
		return
	}

	if err := h.catalog.DeleteMeal(c.Request.Context(), uint(id)); err != nil {
		errorResponse(c, err)
		return
	}

	if h.boards != nil {
		h.boards.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "id": id})
}

func (h *MealHandler) ClearMeals(c *gin.Context) {
	if err := h.catalog.ClearMeals(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}

	if h.boards != nil {
		h.boards.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DBCheck verifies database connectivity.
func (h *MealHandler) DBCheck(c *gin.Context) {
	if err := h.catalog.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "database": "healthy"})
}
