package controllers

import (
	"net/http"

	"github.com/userChris26/Macros-sub000/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Svc *services.MealService
}

func NewMealController(svc *services.MealService) *MealController {
	return &MealController{Svc: svc}
}

// GetMeal returns the daily aggregate with foods resolved. "Nothing logged
// yet" comes back as 200 with a null meal, not as an error.
func (h *MealController) GetMeal(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	date, ok := parseOptionalDate(c, c.Param("date"))
	if !ok {
		return
	}
	mealType := c.Param("mealType")

	meal, foods, err := h.Svc.GetMeal(userID, date, mealType)
	if err != nil {
		if notFound(err) {
			c.JSON(http.StatusOK, gin.H{"error": "", "meal": nil, "foods": []any{}})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":  "",
		"meal":   meal,
		"foods":  foods,
		"totals": services.SumNutrients(foods),
	})
}

type mealPhotoInput struct {
	UserID      uint   `json:"userId" binding:"required"`
	Date        string `json:"date"`
	MealType    string `json:"mealType" binding:"required"`
	PhotoBase64 string `json:"photoBase64"`
}

func (h *MealController) UploadMealPhoto(c *gin.Context) {
	var input mealPhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	date, ok := parseOptionalDate(c, input.Date)
	if !ok {
		return
	}
	meal, err := h.Svc.AttachPhoto(input.UserID, date, input.MealType, input.PhotoBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "meal": meal})
}

func (h *MealController) DeleteMealPhoto(c *gin.Context) {
	var input mealPhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	date, ok := parseOptionalDate(c, input.Date)
	if !ok {
		return
	}
	meal, err := h.Svc.DetachPhoto(input.UserID, date, input.MealType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "meal": meal})
}

type templateInput struct {
	UserID   uint                           `json:"userId" binding:"required"`
	Name     string                         `json:"name"`
	MealType string                         `json:"mealType"`
	Items    []services.TemplateItemRequest `json:"items"`
}

func (h *MealController) AddTemplate(c *gin.Context) {
	var input templateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	template, err := h.Svc.AddTemplate(input.UserID, input.Name, input.MealType, input.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"error": "", "meal": template})
}

func (h *MealController) GetTemplates(c *gin.Context) {
	var input struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	templates, err := h.Svc.ListTemplates(input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "meals": templates})
}

func (h *MealController) GetTemplate(c *gin.Context) {
	mealID, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}
	userID, _ := userIDFromCtx(c)
	template, err := h.Svc.GetTemplate(userID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "meal": template})
}

func (h *MealController) UpdateTemplate(c *gin.Context) {
	mealID, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}
	var input templateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	template, err := h.Svc.UpdateTemplate(input.UserID, mealID, input.Name, input.MealType, input.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "meal": template})
}

func (h *MealController) DeleteTemplate(c *gin.Context) {
	var input struct {
		UserID uint `json:"userId" binding:"required"`
		MealID uint `json:"mealId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	if err := h.Svc.DeleteTemplate(input.UserID, input.MealID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "message": "meal template deleted"})
}

func (h *MealController) AddMealToday(c *gin.Context) {
	var input struct {
		UserID uint   `json:"userId" binding:"required"`
		MealID uint   `json:"mealId" binding:"required"`
		Date   string `json:"date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.UserID) {
		return
	}
	date, ok := parseOptionalDate(c, input.Date)
	if !ok {
		return
	}
	added, err := h.Svc.ApplyTemplate(input.UserID, input.MealID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"error": "", "success": true, "addedEntries": added})
}
