package handlers

import (
	"net/http"

	"eticket/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req services.Credentials
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.auth(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req services.Credentials
	if !bindJSON(c, &req) {
		return
	}
	token, u, err := h.auth(c).Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}

// GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_user_id", "invalid user id", nil)
		return
	}
	u, err := h.auth(c).GetUser(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

