package controllers

import (
	"net/http"

	"github.com/userChris26/Macros-sub000/services"

	"github.com/gin-gonic/gin"
)

type SocialController struct {
	Svc *services.SocialService
}

func NewSocialController(svc *services.SocialService) *SocialController {
	return &SocialController{Svc: svc}
}

type followInput struct {
	FollowerID  uint `json:"followerId" binding:"required"`
	FollowingID uint `json:"followingId" binding:"required"`
}

func (h *SocialController) Follow(c *gin.Context) {
	var input followInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.FollowerID) {
		return
	}
	if err := h.Svc.Follow(input.FollowerID, input.FollowingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func (h *SocialController) Unfollow(c *gin.Context) {
	var input followInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireOwner(c, input.FollowerID) {
		return
	}
	if err := h.Svc.Unfollow(input.FollowerID, input.FollowingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func (h *SocialController) Followers(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	followers, err := h.Svc.Followers(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "followers": followers})
}

func (h *SocialController) Following(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	following, err := h.Svc.Following(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "following": following})
}

func (h *SocialController) Feed(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	feed, err := h.Svc.Feed(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "feed": feed})
}
