package docstore

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// watch pushes load() once and again after each feed signal. A newer value
// replaces one the subscriber has not read yet.
func watch[T any](ctx context.Context, feed Feed, collection string, logger *zap.Logger, load func(context.Context) (T, error)) (<-chan T, func(), error) {
	signals, stopFeed, err := feed.Listen(ctx, collection)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan T, 1)

	push := func() bool {
		value, err := load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			logger.Warn("docstore snapshot failed", zap.String("collection", collection), zap.Error(err))
			return true
		}
		select {
		case <-out:
		default:
		}
		select {
		case out <- value:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)
		defer stopFeed()
		if !push() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok || !push() {
					return
				}
			}
		}
	}()

	return out, cancel, nil
}

func snapshotLoader(collection, id string, get func(context.Context, string, string) (json.RawMessage, error)) func(context.Context) (DocumentSnapshot, error) {
	return func(ctx context.Context) (DocumentSnapshot, error) {
		raw, err := get(ctx, collection, id)
		if err == ErrNotFound {
			return DocumentSnapshot{ID: id}, nil
		}
		if err != nil {
			return DocumentSnapshot{}, err
		}
		return DocumentSnapshot{ID: id, Exists: true, Data: raw}, nil
	}
}

func mergeFields(current json.RawMessage, fields map[string]interface{}) (json.RawMessage, error) {
	merged := make(map[string]json.RawMessage)
	if len(current) > 0 {
		if err := json.Unmarshal(current, &merged); err != nil {
			return nil, err
		}
	}
	for key, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}
