package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sumit-1109/Link-Management-Backend/internal/middleware"
	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/service"
)

// createLink handles POST /api/links/create
// Response codes:
//   - 201 Created: short link created, public short URL returned
//   - 400 Bad Request: invalid URL, missing remarks or past expiration
func (h *Handler) createLink(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.links.CreateLink(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listLinks handles GET /api/links
// Query parameters: q, sortBy (createdAt|status), order (asc|desc),
// page, limit.
func (h *Handler) listLinks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	params := service.ListLinksParams{
		Query:  c.Query("q"),
		SortBy: c.DefaultQuery("sortBy", "createdAt"),
		Order:  c.DefaultQuery("order", "asc"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}

	resp, err := h.links.ListLinks(c.Request.Context(), userID, params)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getLinkDetails handles GET /api/links/:id
func (h *Handler) getLinkDetails(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid link id")
		return
	}

	link, err := h.links.GetLink(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"linkDetails": link})
}

// updateLink handles PUT /api/links/:id
// Only the destination, remarks and expiration date are mutable.
func (h *Handler) updateLink(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid link id")
		return
	}

	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	link, err := h.links.UpdateLink(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link updated successfully", "link": link})
}

// deleteLink handles DELETE /api/links/:id
func (h *Handler) deleteLink(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid link id")
		return
	}

	if err := h.links.DeleteLink(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted successfully"})
}

// getAnalytics handles GET /api/links/analytics
// Query parameters: page, limit, order (asc|desc, default desc).
func (h *Handler) getAnalytics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	resp, err := h.analytics.GetAnalytics(c.Request.Context(), userID,
		queryInt(c, "page", 1),
		queryInt(c, "limit", 10),
		c.DefaultQuery("order", "desc"),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDashboard handles GET /api/links/dashboard
func (h *Handler) getDashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Missing owner identity")
		return
	}

	resp, err := h.analytics.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// redirect handles GET /:code
// Response codes:
//   - 302 Found: redirects to the destination URL
//   - 404 Not Found: unknown short code
//   - 410 Gone: link past its expiration date; no click is recorded
//   - 500 Internal Server Error: click could not be persisted
func (h *Handler) redirect(c *gin.Context) {
	code := c.Param("code")

	target, err := h.links.Redirect(c.Request.Context(), code, middleware.GetClientInfo(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target)
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultVal
}
