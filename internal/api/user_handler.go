package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sumit-1109/Link-Management-Backend/internal/middleware"
	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
)

// signup handles POST /api/user/signup
// Response codes:
//   - 201 Created: account created
//   - 400 Bad Request: missing or malformed field
//   - 409 Conflict: email or mobile already registered
func (h *Handler) signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.users.Signup(c.Request.Context(), &req); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created"})
}

// login handles POST /api/user/login
// Response codes:
//   - 200 OK: token issued
//   - 401 Unauthorized: unknown email or wrong password
func (h *Handler) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getProfile handles GET /api/user
func (h *Handler) getProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// modifyProfile handles PUT /api/user/modify
func (h *Handler) modifyProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	var req model.ModifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.users.Modify(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deleteAccount handles DELETE /api/user/delete
// The account's links and their click logs are removed with it.
func (h *Handler) deleteAccount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// greeting handles GET /api/user/greeting
func (h *Handler) greeting(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	resp, err := h.users.Greeting(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
