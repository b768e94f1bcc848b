package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/response"
)

// SettingsHandler exposes center settings and the fee catalog.
type SettingsHandler struct {
	settings *service.SettingsService
	catalog  *billing.Catalog
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, catalog *billing.Catalog) *SettingsHandler {
	return &SettingsHandler{settings: settings, catalog: catalog}
}

// Get godoc
// @Summary Current settings
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.Current(), nil)
}

// Update godoc
// @Summary Save settings
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Schedules godoc
// @Summary Fee schedule catalog
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *SettingsHandler) Schedules(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.All(), nil)
}
