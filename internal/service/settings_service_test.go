package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
)

func TestSettingsServiceSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	defaults := models.Settings(defaultTestSettings())
	svc := NewSettingsService(repos.settings, defaults, &recordingActivity{}, nil, nil)

	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	assert.Equal(t, defaults.CenterName, svc.Current().CenterName)
	stored, err := repos.settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, defaults.LateFee.Equal(stored.LateFee))
}

func TestSettingsServiceFollowsStoredDocument(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	require.NoError(t, repos.settings.Save(ctx, models.Settings{CenterName: "Los Peques", Currency: "€", LateFee: decimal.NewFromInt(12)}))

	svc := NewSettingsService(repos.settings, models.Settings(defaultTestSettings()), &recordingActivity{}, nil, nil)
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()
	assert.Equal(t, "Los Peques", svc.Current().CenterName)

	require.NoError(t, repos.settings.Save(ctx, models.Settings{CenterName: "Los Peques", Currency: "€", LateFee: decimal.NewFromInt(15)}))
	require.Eventually(t, func() bool {
		return svc.Current().LateFee.Equal(decimal.NewFromInt(15))
	}, time.Second, 10*time.Millisecond)
}

func TestSettingsServiceUpdate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	activity := &recordingActivity{}
	svc := NewSettingsService(repos.settings, models.Settings(defaultTestSettings()), activity, nil, nil)

	saved, err := svc.Update(ctx, dto.UpdateSettingsRequest{CenterName: "Centro", Currency: "€", LateFee: decimal.RequireFromString("7.50")}, "admin")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(saved.LateFee))
	assert.True(t, decimal.RequireFromString("7.5").Equal(svc.Current().LateFee))
	assert.Contains(t, activity.notifications, "Settings saved.")

	_, err = svc.Update(ctx, dto.UpdateSettingsRequest{CenterName: "Centro", Currency: "€", LateFee: decimal.NewFromInt(-1)}, "admin")
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Update(ctx, dto.UpdateSettingsRequest{CenterName: "Centro", LateFee: decimal.NewFromInt(1)}, "admin")
	requireAppError(t, err, http.StatusBadRequest)
}
