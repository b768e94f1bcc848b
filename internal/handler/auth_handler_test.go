package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type fakeAuthSrv struct {
	res       *models.LoginResponse
	err       error
	loggedOut string
	lastLogin models.LoginRequest
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return f.res, f.err
}

func (f *fakeAuthSrv) Logout(_ context.Context, username string) {
	f.loggedOut = username
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{res: &models.LoginResponse{AccessToken: "token", User: models.UserInfo{Username: "maria", Role: models.RoleAdmin}}}
	handler := NewAuthHandler(srv)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"maria","password":"secret"}`)
	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maria", srv.lastLogin.Username)
	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &res))
	assert.Equal(t, "token", res.AccessToken)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrInvalidCredentials})

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"maria","password":"nope"}`)
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLogoutRecordsUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)

	c, _ := newJSONContext(http.MethodPost, "/auth/logout", "")
	handler.Logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "maria", srv.loggedOut)
}

func TestAuthHandlerMeWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&fakeAuthSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
