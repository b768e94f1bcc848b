package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
	"github.com/noah-isme/daycare-api/pkg/jobs"
)

// Job types handled by the activity queue.
const (
	JobTypeHistory      = "history"
	JobTypeNotification = "notification"
)

type activityRepository interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	Notify(ctx context.Context, notification models.Notification) error
	Notifications(ctx context.Context, limit int) ([]models.Notification, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// activityLogger is the fire-and-forget collaborator used by the other services.
type activityLogger interface {
	LogAction(ctx context.Context, user, action, details string)
	NotifyUser(ctx context.Context, message string)
}

// ActivityService records the activity log and staff notifications without
// blocking or failing the operation that triggered them.
type ActivityService struct {
	repo   activityRepository
	queue  jobEnqueuer
	clock  Clock
	logger *zap.Logger
}

// NewActivityService constructs ActivityService. Without a queue writes happen inline.
func NewActivityService(repo activityRepository, clock Clock, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, clock: clock, logger: logger}
}

// UseQueue routes writes through a worker pool whose handler is s.Handle.
func (s *ActivityService) UseQueue(queue jobEnqueuer) {
	s.queue = queue
}

// LogAction appends an entry to the activity log.
func (s *ActivityService) LogAction(ctx context.Context, user, action, details string) {
	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		User:      user,
		Action:    action,
		Details:   details,
		Timestamp: s.clock.now().UTC(),
	}
	s.dispatch(ctx, jobs.Job{ID: entry.ID, Type: JobTypeHistory, Payload: entry})
}

// NotifyUser stores a notification for staff.
func (s *ActivityService) NotifyUser(ctx context.Context, message string) {
	notification := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: s.clock.now().UTC(),
	}
	s.dispatch(ctx, jobs.Job{ID: notification.ID, Type: JobTypeNotification, Payload: notification})
}

// Handle writes a queued activity job.
func (s *ActivityService) Handle(ctx context.Context, job jobs.Job) error {
	switch payload := job.Payload.(type) {
	case models.HistoryEntry:
		return s.repo.Append(ctx, payload)
	case models.Notification:
		return s.repo.Notify(ctx, payload)
	default:
		return fmt.Errorf("unsupported activity payload %T for job %s", job.Payload, job.Type)
	}
}

// History lists the activity log, newest first.
func (s *ActivityService) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list history")
	}
	return entries, nil
}

// Notifications lists staff notifications, newest first.
func (s *ActivityService) Notifications(ctx context.Context, limit int) ([]models.Notification, error) {
	items, err := s.repo.Notifications(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return items, nil
}

func (s *ActivityService) dispatch(ctx context.Context, job jobs.Job) {
	if s.queue != nil {
		err := s.queue.Enqueue(job)
		if err == nil {
			return
		}
		s.logger.Warn("activity queue unavailable, writing inline", zap.String("type", job.Type), zap.Error(err))
	}
	if err := s.Handle(context.WithoutCancel(ctx), job); err != nil {
		s.logger.Error("activity write failed", zap.String("type", job.Type), zap.String("job_id", job.ID), zap.Error(err))
	}
}
