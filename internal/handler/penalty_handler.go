package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/response"
)

// PenaltyHandler exposes late-pickup penalty endpoints.
type PenaltyHandler struct {
	penalties *service.PenaltyService
}

// NewPenaltyHandler constructs PenaltyHandler.
func NewPenaltyHandler(penalties *service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penalties: penalties}
}

// List godoc
// @Summary List penalties
// @Tags Penalties
// @Security BearerAuth
// @Produce json
// @Param student_id query int false "Student numeric ID"
// @Param year query int false "Year"
// @Param month query int false "Month"
// @Success 200 {object} response.Envelope
// @Router /penalties [get]
func (h *PenaltyHandler) List(c *gin.Context) {
	var query dto.ListPenaltiesQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}
	penalties, err := h.penalties.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, penalties, nil)
}

// Update godoc
// @Summary Edit penalty
// @Tags Penalties
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Penalty ID"
// @Param payload body dto.UpdatePenaltyRequest true "Amount and/or reason"
// @Success 200 {object} response.Envelope
// @Router /penalties/{id} [patch]
func (h *PenaltyHandler) Update(c *gin.Context) {
	var req dto.UpdatePenaltyRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	penalty, err := h.penalties.Update(c.Request.Context(), c.Param("id"), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, penalty, nil)
}

// Delete godoc
// @Summary Delete penalty
// @Tags Penalties
// @Security BearerAuth
// @Param id path string true "Penalty ID"
// @Success 204
// @Router /penalties/{id} [delete]
func (h *PenaltyHandler) Delete(c *gin.Context) {
	if err := h.penalties.Delete(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
