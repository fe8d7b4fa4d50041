package controllers

import (
	"net/http"
	"strconv"

	"github.com/userChris26/Macros-sub000/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Svc: svc}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (h *UserController) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := h.Svc.Get(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user})
}

type UpdateUserInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Bio       *string `json:"bio"`
}

func (h *UserController) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok || !requireOwner(c, userID) {
		return
	}
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Svc.Update(userID, input.FirstName, input.LastName, input.Bio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user})
}

func (h *UserController) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok || !requireOwner(c, userID) {
		return
	}
	if err := h.Svc.Delete(userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "message": "account deleted"})
}

func (h *UserController) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	users, err := h.Svc.Search(query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "success": true, "users": users})
}

type photoInput struct {
	PhotoBase64 string `json:"photoBase64" binding:"required"`
}

func (h *UserController) UploadProfilePic(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok || !requireOwner(c, userID) {
		return
	}
	var input photoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Svc.UploadProfilePic(userID, input.PhotoBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user})
}

func (h *UserController) DeleteProfilePic(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok || !requireOwner(c, userID) {
		return
	}
	user, err := h.Svc.DeleteProfilePic(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user})
}

func (h *UserController) DashboardStats(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	stats, err := h.Svc.DashboardStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":         "",
		"totalCalories": stats.TotalCalories,
		"totalEntries":  stats.TotalEntries,
		"following":     stats.Following,
		"followers":     stats.Followers,
	})
}
