package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/userChris26/Macros-sub000/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Fdc         services.NutritionSource
	Entries     *services.FoodEntryService
	Recognition *services.RecognitionService
}

func NewFoodController(fdc services.NutritionSource, entries *services.FoodEntryService, rec *services.RecognitionService) *FoodController {
	return &FoodController{Fdc: fdc, Entries: entries, Recognition: rec}
}

const dateLayout = "2006-01-02"

// parseOptionalDate turns an optional YYYY-MM-DD field into a time, zero when
// the field is empty (services treat zero as "today").
func parseOptionalDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func (h *FoodController) SearchFoods(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required", "success": false})
		return
	}
	foods, err := h.Fdc.Search(query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "success": true, "foods": foods})
}

func (h *FoodController) FoodDetails(c *gin.Context) {
	fdcID, err := strconv.Atoi(c.Param("fdcId"))
	if err != nil || fdcID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fdcId"})
		return
	}
	detail, err := h.Fdc.GetFood(fdcID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "success": true, "food": detail})
}

func (h *FoodController) RecognizeFood(c *gin.Context) {
	var input struct {
		PhotoBase64 string `json:"photoBase64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	foods, err := h.Recognition.SuggestFoods(input.PhotoBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "success": true, "foods": foods})
}

type AddFoodInput struct {
	UserID        uint    `json:"userId" binding:"required"`
	FdcID         int     `json:"fdcId" binding:"required"`
	ServingAmount float64 `json:"servingAmount" binding:"required"`
	MealType      string  `json:"mealType" binding:"required"`
	Date          string  `json:"date"`
}

func (h *FoodController) AddFood(c *gin.Context) {
	var input AddFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	date, ok := parseOptionalDate(c, input.Date)
	if !ok {
		return
	}

	entry, meal, err := h.Entries.AddFood(input.UserID, input.FdcID, input.ServingAmount, input.MealType, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"error": "", "success": true, "entry": entry, "meal": meal})
}

type listEntriesInput struct {
	UserID uint   `json:"userId" binding:"required"`
	Date   string `json:"date"`
}

func (h *FoodController) GetFoodEntries(c *gin.Context) {
	var input listEntriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	date, ok := parseOptionalDate(c, input.Date)
	if !ok {
		return
	}

	entries, totals, err := h.Entries.ListByDate(input.UserID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":         "",
		"success":       true,
		"foodEntries":   entries,
		"totalCalories": totals.Calories,
		"totals":        totals,
	})
}

type deleteEntryInput struct {
	UserID  uint `json:"userId" binding:"required"`
	EntryID uint `json:"entryId" binding:"required"`
}

func (h *FoodController) DeleteFoodEntry(c *gin.Context) {
	var input deleteEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	if err := h.Entries.DeleteEntry(input.UserID, input.EntryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "success": true})
}
