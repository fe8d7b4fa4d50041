package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/userChris26/Macros-sub000/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses. Upstream
// detail goes to the server log, never into the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrNotFollowing),
		errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "success": false})
	case errors.Is(err, services.ErrUpstream):
		log.Printf("upstream failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream service unavailable", "success": false})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "success": false})
	}
}

func notFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// requireOwner rejects requests touching another user's resources.
func requireOwner(c *gin.Context, ownerID uint) bool {
	callerID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	if callerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}
