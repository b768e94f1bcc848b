package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/models"
)

type auditEntry struct {
	user, action, details string
}

type recordingAudit struct {
	entries []auditEntry
}

func (r *recordingAudit) LogAction(_ context.Context, user, action, details string) {
	r.entries = append(r.entries, auditEntry{user: user, action: action, details: details})
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &recordingAudit{}
	r := gin.New()
	r.GET("/export/:token", Audit(audit, "Export downloaded"), func(c *gin.Context) {
		c.String(http.StatusOK, "file")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/abc", nil))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, anonymousUser, audit.entries[0].user)
	assert.Equal(t, "Export downloaded", audit.entries[0].action)
	assert.Contains(t, audit.entries[0].details, `"path":"/export/:token"`)
	assert.Contains(t, audit.entries[0].details, `"status":200`)
}

func TestAuditUsesAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &recordingAudit{}
	r := gin.New()
	r.GET("/export/:token", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{Username: "carmen"})
	}, Audit(audit, "Export downloaded"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/export/abc", nil))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "carmen", audit.entries[0].user)
}

func TestAuditSkipsFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &recordingAudit{}
	r := gin.New()
	r.GET("/export/:token", Audit(audit, "Export downloaded"), func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/export/abc", nil))

	assert.Empty(t, audit.entries)
}
