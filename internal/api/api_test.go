package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mealmax/backend/internal/battle"
	"github.com/mealmax/backend/internal/models"
	"github.com/mealmax/backend/internal/service"
)

// scriptedRand replays a fixed sequence of draws.
type scriptedRand struct {
	vals []float64
	i    int
}

func (r *scriptedRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func setupTestRouter(t *testing.T, draws ...float64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Meal{}))

	var rng battle.Rand
	if len(draws) > 0 {
		rng = &scriptedRand{vals: draws}
	}

	catalog := service.NewCatalogService(db)
	boards := service.NewLeaderboardService(catalog, nil, 0)
	battles := service.NewBattleService(catalog, boards, rng)

	router := gin.New()
	RegisterRoutes(router, catalog, battles, boards)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func createMeal(t *testing.T, router *gin.Engine, name string, price float64, difficulty string) {
	t.Helper()
	w, response := doJSON(t, router, "POST", "/api/v1/meals", map[string]interface{}{
		"name":       name,
		"cuisine":    "Test Cuisine",
		"price":      price,
		"difficulty": difficulty,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "success", response["status"])
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", response["status"])
}

func TestDBCheck(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/api/v1/db-check", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", response["database"])
}

func TestCreateAndGetMeal(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")

	w, response := doJSON(t, router, "GET", "/api/v1/meals/by-name/Pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	meal := response["meal"].(map[string]interface{})
	assert.Equal(t, "Pizza", meal["name"])
	assert.Equal(t, 12.99, meal["price"])

	id := int(meal["id"].(float64))
	w, response = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/meals/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", response["status"])
}

func TestCreateMealRejectsBadInput(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "POST", "/api/v1/meals", map[string]interface{}{
		"name":       "Refund",
		"price":      -5,
		"difficulty": "LOW",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", response["status"])

	w, response = doJSON(t, router, "POST", "/api/v1/meals", map[string]interface{}{
		"name":       "Mystery",
		"price":      5,
		"difficulty": "IMPOSSIBLE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", response["status"])
}

func TestCreateMealDuplicateConflict(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")
	w, response := doJSON(t, router, "POST", "/api/v1/meals", map[string]interface{}{
		"name":       "Pizza",
		"price":      9.5,
		"difficulty": "MED",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", response["status"])
}

func TestGetMealNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/api/v1/meals/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", response["status"])
	assert.Contains(t, response["error"], "not found")
}

func TestDeleteMeal(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")
	_, response := doJSON(t, router, "GET", "/api/v1/meals/by-name/Pizza", nil)
	id := int(response["meal"].(map[string]interface{})["id"].(float64))

	w, _ := doJSON(t, router, "DELETE", fmt.Sprintf("/api/v1/meals/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Reads and a second delete report not found
	w, _ = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/meals/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, router, "DELETE", fmt.Sprintf("/api/v1/meals/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrepAndListCombatants(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")
	createMeal(t, router, "Sushi", 15.5, "HIGH")

	w, response := doJSON(t, router, "POST", "/api/v1/battle/combatants/Pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", response["status"])

	// Unknown meal cannot be prepped
	w, _ = doJSON(t, router, "POST", "/api/v1/battle/combatants/Nachos", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Duplicate prep conflicts
	w, _ = doJSON(t, router, "POST", "/api/v1/battle/combatants/Pizza", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response = doJSON(t, router, "POST", "/api/v1/battle/combatants/Sushi", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response = doJSON(t, router, "GET", "/api/v1/battle/combatants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	combatants := response["combatants"].([]interface{})
	require.Len(t, combatants, 2)
	assert.Equal(t, "Pizza", combatants[0].(map[string]interface{})["name"])
	assert.Equal(t, "Sushi", combatants[1].(map[string]interface{})["name"])
}

func TestBattleFlow(t *testing.T) {
	// 0.1 < p(MealA) = 75/182, so MealA must win.
	router := setupTestRouter(t, 0.1)

	createMeal(t, router, "MealA", 20, "LOW")
	createMeal(t, router, "MealB", 34, "HIGH")

	w, _ := doJSON(t, router, "POST", "/api/v1/battle/combatants/MealA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, router, "POST", "/api/v1/battle/combatants/MealB", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := doJSON(t, router, "POST", "/api/v1/battle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "MealA", response["winner"])

	// Loser evicted, winner stays
	_, response = doJSON(t, router, "GET", "/api/v1/battle/combatants", nil)
	combatants := response["combatants"].([]interface{})
	require.Len(t, combatants, 1)
	assert.Equal(t, "MealA", combatants[0].(map[string]interface{})["name"])

	// Stats feed the leaderboard
	w, response = doJSON(t, router, "GET", "/api/v1/leaderboard?sort=wins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := response["leaderboard"].([]interface{})
	require.Len(t, entries, 2)
	top := entries[0].(map[string]interface{})
	assert.Equal(t, "MealA", top["name"])
	assert.Equal(t, float64(1), top["wins"])
	assert.Equal(t, float64(1), top["battles"])
	assert.Equal(t, float64(1), top["win_pct"])
}

func TestBattleWithoutCombatants(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "POST", "/api/v1/battle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", response["status"])
	assert.Contains(t, response["error"], "two combatants")
}

func TestClearCombatants(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")
	w, _ := doJSON(t, router, "POST", "/api/v1/battle/combatants/Pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "DELETE", "/api/v1/battle/combatants", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, response := doJSON(t, router, "GET", "/api/v1/battle/combatants", nil)
	assert.Empty(t, response["combatants"])
}

func TestLeaderboardRejectsUnknownSortKey(t *testing.T) {
	router := setupTestRouter(t)

	w, response := doJSON(t, router, "GET", "/api/v1/leaderboard?sort=losses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", response["status"])
}

func TestClearMeals(t *testing.T) {
	router := setupTestRouter(t)

	createMeal(t, router, "Pizza", 12.99, "LOW")
	w, _ := doJSON(t, router, "DELETE", "/api/v1/meals", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "GET", "/api/v1/meals/by-name/Pizza", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
