package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/dto"
)

func TestStaffServiceTimeClock(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	now := octoberNoon
	clock := Clock{Now: func() time.Time { return now }, Location: time.UTC}
	svc := NewStaffService(repos.staff, &recordingActivity{}, clock, nil, nil)

	member, err := svc.Create(ctx, dto.CreateStaffRequest{Name: "Ana", Role: "Educadora"}, "admin")
	require.NoError(t, err)
	assert.Nil(t, member.CheckIn)

	in, err := svc.CheckIn(ctx, member.ID, "ana")
	require.NoError(t, err)
	require.NotNil(t, in.CheckIn)
	assert.Nil(t, in.CheckOut)

	now = now.Add(4 * time.Hour)
	out, err := svc.CheckOut(ctx, member.ID, "ana")
	require.NoError(t, err)
	require.NotNil(t, out.CheckOut)
	assert.Equal(t, octoberNoon.Add(4*time.Hour), *out.CheckOut)

	now = now.Add(20 * time.Hour)
	again, err := svc.CheckIn(ctx, member.ID, "ana")
	require.NoError(t, err)
	assert.Nil(t, again.CheckOut)

	members, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, svc.Delete(ctx, member.ID, "admin"))
	_, err = svc.CheckIn(ctx, member.ID, "ana")
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Create(ctx, dto.CreateStaffRequest{Name: "", Role: "x"}, "admin")
	requireAppError(t, err, http.StatusBadRequest)
}
