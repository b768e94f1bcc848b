package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/response"
)

type attendanceService interface {
	Save(ctx context.Context, req dto.SaveAttendanceRequest, actor string) (*service.AttendanceResult, error)
	List(ctx context.Context, query dto.ListAttendanceQuery) ([]models.AttendanceRecord, error)
}

// AttendanceHandler exposes daily attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance
// @Tags Attendance
// @Security BearerAuth
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Param student_id query int false "Student numeric ID"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var query dto.ListAttendanceQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Save godoc
// @Summary Record entry and/or exit
// @Description Upserts the day's record. A late exit creates a penalty returned alongside the record. A payload without times is ignored.
// @Tags Attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.SaveAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req dto.SaveAttendanceRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Save(c.Request.Context(), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
