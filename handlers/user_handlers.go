package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justeat/guard"
	"justeat/services"
)

func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful. Please log in.",
		"user":     user,
		"redirect": guard.LoginPath,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Welcome back " + result.User.Name,
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
		"redirect":   guard.DashboardFor(result.User.Role),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), identity(c).TokenID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": guard.LoginPath})
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.Auth.Profile(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), identity(c).UserID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}
