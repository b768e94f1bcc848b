package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type settingsRepository interface {
	Save(ctx context.Context, settings models.Settings) error
	Watch(ctx context.Context) (<-chan docstore.DocumentSnapshot, func(), error)
}

// settingsSource exposes the live center settings.
type settingsSource interface {
	Current() models.Settings
}

// SettingsService keeps the center settings in memory, following the stored
// document, and seeds the document with defaults when it is missing.
type SettingsService struct {
	repo      settingsRepository
	defaults  models.Settings
	activity  activityLogger
	validator *validator.Validate
	logger    *zap.Logger

	mu      sync.RWMutex
	current models.Settings
	cancel  func()
	done    chan struct{}
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(repo settingsRepository, defaults models.Settings, activity activityLogger, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: defaults, activity: activity, validator: validate, logger: logger, current: defaults}
}

// Start subscribes to the settings document and returns once the first
// snapshot has been applied.
func (s *SettingsService) Start(ctx context.Context) error {
	updates, cancel, err := s.repo.Watch(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to watch settings")
	}
	ready := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		first := true
		for snapshot := range updates {
			s.apply(ctx, snapshot)
			if first {
				close(ready)
				first = false
			}
		}
		if first {
			close(ready)
		}
	}()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Stop ends the subscription.
func (s *SettingsService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Current returns the latest known settings.
func (s *SettingsService) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and stores new settings.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest, actor string) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if req.LateFee.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "late fee must not be negative")
	}
	settings := models.Settings{CenterName: req.CenterName, Currency: req.Currency, LateFee: req.LateFee}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.set(settings)

	s.activity.NotifyUser(ctx, "Settings saved.")
	s.activity.LogAction(ctx, actor, "Settings", fmt.Sprintf("Late fee set to %s%s.", settings.LateFee.StringFixed(2), settings.Currency))
	return &settings, nil
}

func (s *SettingsService) apply(ctx context.Context, snapshot docstore.DocumentSnapshot) {
	if !snapshot.Exists {
		if err := s.repo.Save(ctx, s.defaults); err != nil {
			s.logger.Error("failed to seed default settings", zap.Error(err))
		}
		s.set(s.defaults)
		return
	}
	var settings models.Settings
	if err := snapshot.Decode(&settings); err != nil {
		s.logger.Warn("ignoring unreadable settings document", zap.Error(err))
		return
	}
	s.set(settings)
}

func (s *SettingsService) set(settings models.Settings) {
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
}
