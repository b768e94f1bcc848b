package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/pkg/response"
)

type exportService interface {
	CSV(ctx context.Context, exportType, actor string) (string, []byte, error)
	Open(token string) (string, *os.File, error)
}

// ExportHandler serves CSV exports and signed file downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CSV godoc
// @Summary Export a collection as CSV
// @Tags Export
// @Security BearerAuth
// @Produce text/csv
// @Param type path string true "students, attendance, invoices, penalties, staff or history"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /export/csv/{type} [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	filename, body, err := h.exports.CSV(c.Request.Context(), c.Param("type"), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "text/csv; charset=utf-8", body)
}

// Download godoc
// @Summary Download a rendered file via signed token
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	filename, file, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentTypeFor(filename), file, nil)
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
