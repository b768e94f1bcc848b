package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/response"
)

// StaffHandler exposes staff and time-clock endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	members, err := h.staff.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Create godoc
// @Summary Add staff member
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateStaffRequest true "Staff member"
// @Success 201 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.staff.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// CheckIn godoc
// @Summary Clock in
// @Tags Staff
// @Security BearerAuth
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id}/check-in [post]
func (h *StaffHandler) CheckIn(c *gin.Context) {
	member, err := h.staff.CheckIn(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// CheckOut godoc
// @Summary Clock out
// @Tags Staff
// @Security BearerAuth
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id}/check-out [post]
func (h *StaffHandler) CheckOut(c *gin.Context) {
	member, err := h.staff.CheckOut(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Remove staff member
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Staff ID"
// @Success 204
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
