package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/pkg/jobs"
)

func TestActivityServiceWritesInlineWithoutQueue(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewActivityService(repos.history, fixedClock(octoberNoon), nil)

	svc.LogAction(ctx, "admin", "Login", "admin signed in.")
	svc.NotifyUser(ctx, "Settings saved.")

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "admin", history[0].User)
	assert.Equal(t, "Login", history[0].Action)
	assert.Equal(t, octoberNoon, history[0].Timestamp)

	notifications, err := svc.Notifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Settings saved.", notifications[0].Message)
}

func TestActivityServiceDeliversThroughQueue(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewActivityService(repos.history, fixedClock(octoberNoon), nil)
	queue := jobs.NewQueue("activity", svc.Handle, jobs.QueueConfig{Workers: 2})
	queue.Start(ctx)
	svc.UseQueue(queue)

	for i := 0; i < 5; i++ {
		svc.LogAction(ctx, "staff", "Attendance", "saved")
	}
	queue.Stop()

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}

func TestActivityServiceFallsBackWhenQueueClosed(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewActivityService(repos.history, fixedClock(octoberNoon), nil)
	queue := jobs.NewQueue("activity", svc.Handle, jobs.QueueConfig{Workers: 1})
	queue.Start(ctx)
	queue.Stop()
	svc.UseQueue(queue)

	svc.NotifyUser(ctx, "Student enrolled.")

	notifications, err := svc.Notifications(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestActivityServiceHandleRejectsUnknownPayload(t *testing.T) {
	svc := NewActivityService(newTestRepos().history, fixedClock(octoberNoon), nil)
	err := svc.Handle(context.Background(), jobs.Job{ID: "x", Type: "other", Payload: 42})
	assert.Error(t, err)
}
