package handler

import (
	"net/http"

	"album-server/internal/middleware"
	"album-server/internal/model"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

func adminTarget(c *gin.Context) (*model.User, *model.User, bool) {
	actor, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return nil, nil, false
	}
	return actor, target, true
}

// LockUser demotes the target to the locked role.
func LockUser(c *gin.Context) {
	actor, target, ok := adminTarget(c)
	if !ok {
		return
	}
	if err := service.LockUser(actor, target); err != nil {
		WriteServiceError(c, err, "failed to lock user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user locked"})
}

// UnlockUser restores the target to the regular user role.
func UnlockUser(c *gin.Context) {
	actor, target, ok := adminTarget(c)
	if !ok {
		return
	}
	if err := service.UnlockUser(actor, target); err != nil {
		WriteServiceError(c, err, "failed to unlock user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unlocked"})
}

// BlockUser deactivates the target's account; a blocked account cannot
// log in and existing tokens stop working once the active cache expires.
func BlockUser(c *gin.Context) {
	actor, target, ok := adminTarget(c)
	if !ok {
		return
	}
	if err := service.BlockUser(actor, target); err != nil {
		WriteServiceError(c, err, "failed to block user")
		return
	}
	middleware.ClearUserActiveCache(target.ID)
	c.JSON(http.StatusOK, gin.H{"message": "user blocked"})
}

// UnblockUser reactivates the target's account.
func UnblockUser(c *gin.Context) {
	actor, target, ok := adminTarget(c)
	if !ok {
		return
	}
	if err := service.UnblockUser(actor, target); err != nil {
		WriteServiceError(c, err, "failed to unblock user")
		return
	}
	middleware.ClearUserActiveCache(target.ID)
	c.JSON(http.StatusOK, gin.H{"message": "user unblocked"})
}

// SetUserRole reassigns the target's role by name. Administrator only.
func SetUserRole(c *gin.Context) {
	actor, target, ok := adminTarget(c)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := service.SetUserRole(actor, target, req.Role); err != nil {
		WriteServiceError(c, err, "failed to update role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}
