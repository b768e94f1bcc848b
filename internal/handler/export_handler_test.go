package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type fakeExportSrv struct {
	filename string
	body     []byte
	path     string
	err      error
	lastType string
}

func (f *fakeExportSrv) CSV(_ context.Context, exportType, _ string) (string, []byte, error) {
	f.lastType = exportType
	return f.filename, f.body, f.err
}

func (f *fakeExportSrv) Open(string) (string, *os.File, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return "", nil, err
	}
	return f.filename, file, nil
}

func TestExportHandlerCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{filename: "students_export_2026-10-19.csv", body: []byte("id,name\n1,Ana\n")}
	handler := NewExportHandler(srv)

	c, rec := newJSONContext(http.MethodGet, "/export/csv/students", "")
	c.Params = gin.Params{{Key: "type", Value: "students"}}
	handler.CSV(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "students", srv.lastType)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "students_export_2026-10-19.csv")
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "id,name\n1,Ana\n", rec.Body.String())
}

func TestExportHandlerCSVNoData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{err: appErrors.ErrNoData})

	c, rec := newJSONContext(http.MethodGet, "/export/csv/staff", "")
	c.Params = gin.Params{{Key: "type", Value: "staff"}}
	handler.CSV(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandlerDownloadStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "factura.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o600))
	handler := NewExportHandler(&fakeExportSrv{filename: "factura_2026-10-1001.pdf", path: path})

	c, rec := newJSONContext(http.MethodGet, "/export/token", "")
	c.Params = gin.Params{{Key: "token", Value: "token"}}
	handler.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestExportHandlerDownloadRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{err: appErrors.ErrForbidden})

	c, rec := newJSONContext(http.MethodGet, "/export/bad", "")
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	handler.Download(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
