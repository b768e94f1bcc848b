package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/pkg/docstore"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type collectionSubscriber interface {
	SubscribeAll(ctx context.Context, collection string) (<-chan []docstore.Document, func(), error)
}

type settingsWatcher interface {
	Watch(ctx context.Context) (<-chan docstore.DocumentSnapshot, func(), error)
}

// StreamService opens live subscriptions for the streaming endpoints.
type StreamService struct {
	store    collectionSubscriber
	settings settingsWatcher
	allowed  map[string]struct{}
	logger   *zap.Logger
}

// NewStreamService constructs StreamService restricted to the given collections.
func NewStreamService(store collectionSubscriber, settings settingsWatcher, collections []string, logger *zap.Logger) *StreamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(collections))
	for _, name := range collections {
		allowed[name] = struct{}{}
	}
	return &StreamService{store: store, settings: settings, allowed: allowed, logger: logger}
}

// Collection subscribes to every document of a collection.
func (s *StreamService) Collection(ctx context.Context, name string) (<-chan []docstore.Document, func(), error) {
	if _, ok := s.allowed[name]; !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown collection %q", name))
	}
	updates, cancel, err := s.store.SubscribeAll(ctx, name)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to subscribe")
	}
	s.logger.Debug("collection stream opened", zap.String("collection", name))
	return updates, cancel, nil
}

// Settings subscribes to the settings document.
func (s *StreamService) Settings(ctx context.Context) (<-chan docstore.DocumentSnapshot, func(), error) {
	updates, cancel, err := s.settings.Watch(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to subscribe")
	}
	return updates, cancel, nil
}
