package handler

import (
	"net/http"

	"album-server/internal/consts"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Register creates an account and sends the confirmation mail.
func Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := service.Register(req.Name, req.Email, req.Username, req.Password)
	if err != nil {
		WriteServiceError(c, err, "registration failed")
		return
	}

	if _, err := service.RequestConfirmation(user); err != nil {
		WriteServiceError(c, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "confirmation email sent, check your inbox",
		"user":    user,
	})
}

// Login exchanges credentials for a session token.
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := service.Authenticate(req.Email, req.Password)
	if err != nil {
		WriteServiceError(c, err, "login failed")
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := service.IssueLoginToken(user)
	if err != nil {
		WriteServiceError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Confirm validates a confirmation token for the logged-in caller.
func Confirm(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Confirmed {
		c.JSON(http.StatusOK, gin.H{"message": "account already confirmed"})
		return
	}

	if !service.ValidateToken(user, c.Param("token"), consts.OperationConfirm, "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account confirmed"})
}

// ResendConfirmation issues a fresh confirmation token.
func ResendConfirmation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Confirmed {
		c.JSON(http.StatusOK, gin.H{"message": "account already confirmed"})
		return
	}

	if _, err := service.RequestConfirmation(user); err != nil {
		WriteServiceError(c, err, "failed to send confirmation email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "confirmation email sent, check your inbox"})
}

// ForgetPassword mails a password-reset token to the given address.
func ForgetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := service.RequestPasswordReset(req.Email); err != nil {
		WriteServiceError(c, err, "failed to send reset email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset email sent, check your inbox"})
}

// ResetPassword validates a reset token and stores the new password.
func ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target, err := service.GetUserByEmail(req.Email)
	if err != nil {
		WriteServiceError(c, err, "failed to reset password")
		return
	}

	if !service.ValidateToken(target, req.Token, consts.OperationResetPassword, req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
