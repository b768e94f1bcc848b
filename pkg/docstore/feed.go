package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// LocalFeed fans change signals out inside a single process.
type LocalFeed struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan struct{}
	next int
}

// NewLocalFeed constructs an in-process feed.
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[string]map[int]chan struct{})}
}

// Publish signals every listener of the collection. Pending signals coalesce.
func (f *LocalFeed) Publish(_ context.Context, collection string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Listen registers a listener for the collection.
func (f *LocalFeed) Listen(_ context.Context, collection string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	id := f.next
	f.next++
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[int]chan struct{})
	}
	f.subs[collection][id] = ch
	f.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs[collection], id)
			f.mu.Unlock()
		})
	}
	return ch, stop, nil
}

// RedisFeed carries change signals over Redis pub/sub so that every API
// instance sees writes made by the others.
type RedisFeed struct {
	client *redis.Client
	prefix string
}

// NewRedisFeed constructs a feed publishing on "<prefix><collection>" channels.
func NewRedisFeed(client *redis.Client, prefix string) *RedisFeed {
	if prefix == "" {
		prefix = "docstore:"
	}
	return &RedisFeed{client: client, prefix: prefix}
}

// Publish announces a change to the collection.
func (f *RedisFeed) Publish(ctx context.Context, collection string) error {
	if err := f.client.Publish(ctx, f.channel(collection), collection).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", collection, err)
	}
	return nil
}

// Listen subscribes to the collection channel.
func (f *RedisFeed) Listen(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	sub := f.client.Subscribe(ctx, f.channel(collection))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", collection, err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	msgs := sub.Channel()
	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, stop, nil
}

func (f *RedisFeed) channel(collection string) string {
	return f.prefix + collection
}
