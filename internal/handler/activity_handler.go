package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/service"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
	"github.com/noah-isme/daycare-api/pkg/response"
)

const defaultActivityLimit = 100

// ActivityHandler exposes the activity log and notifications.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs ActivityHandler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// History godoc
// @Summary Activity log
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries (0 = all)"
// @Success 200 {object} response.Envelope
// @Router /history [get]
func (h *ActivityHandler) History(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.activity.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Notifications godoc
// @Summary Staff notifications
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries (0 = all)"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *ActivityHandler) Notifications(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.activity.Notifications(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultActivityLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer")
	}
	return limit, nil
}
