package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryEntry struct {
	data      json.RawMessage
	seq       int64
	updatedAt time.Time
}

// MemoryStore keeps documents in process. It backs tests and single-node
// development runs.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]memoryEntry
	seq    int64
	feed   Feed
	logger *zap.Logger
	now    func() time.Time
}

// NewMemoryStore constructs an empty store. A nil feed defaults to a LocalFeed.
func NewMemoryStore(feed Feed, logger *zap.Logger) *MemoryStore {
	if feed == nil {
		feed = NewLocalFeed()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		data:   make(map[string]map[string]memoryEntry),
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores record under a fresh UUID.
func (s *MemoryStore) Create(ctx context.Context, collection string, record interface{}) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.put(collection, id, payload)
	s.mu.Unlock()
	s.publish(ctx, collection)
	return id, nil
}

// Get loads a document into dest.
func (s *MemoryStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	raw, err := s.raw(ctx, collection, id)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// List returns the collection in creation order.
func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ordered struct {
		doc Document
		seq int64
	}
	entries := make([]ordered, 0, len(s.data[collection]))
	for id, entry := range s.data[collection] {
		entries = append(entries, ordered{
			doc: Document{ID: id, Data: append(json.RawMessage(nil), entry.data...), UpdatedAt: entry.updatedAt},
			seq: entry.seq,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	docs := make([]Document, len(entries))
	for i, entry := range entries {
		docs[i] = entry.doc
	}
	return docs, nil
}

// Update merges fields into an existing document.
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	entry, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	merged, err := mergeFields(entry.data, fields)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("merge %s document: %w", collection, err)
	}
	entry.data = merged
	entry.updatedAt = s.now()
	s.data[collection][id] = entry
	s.mu.Unlock()
	s.publish(ctx, collection)
	return nil
}

// Set creates or replaces the document stored under id.
func (s *MemoryStore) Set(ctx context.Context, collection, id string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", collection, err)
	}
	s.mu.Lock()
	s.put(collection, id, payload)
	s.mu.Unlock()
	s.publish(ctx, collection)
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.data[collection], id)
	s.mu.Unlock()
	s.publish(ctx, collection)
	return nil
}

// SubscribeAll pushes collection snapshots.
func (s *MemoryStore) SubscribeAll(ctx context.Context, collection string) (<-chan []Document, func(), error) {
	return watch(ctx, s.feed, collection, s.logger, func(ctx context.Context) ([]Document, error) {
		return s.List(ctx, collection)
	})
}

// SubscribeDoc pushes snapshots of a single document.
func (s *MemoryStore) SubscribeDoc(ctx context.Context, collection, id string) (<-chan DocumentSnapshot, func(), error) {
	return watch(ctx, s.feed, collection, s.logger, snapshotLoader(collection, id, s.raw))
}

func (s *MemoryStore) raw(_ context.Context, collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append(json.RawMessage(nil), entry.data...), nil
}

// put must be called with mu held.
func (s *MemoryStore) put(collection, id string, payload json.RawMessage) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]memoryEntry)
	}
	entry, ok := s.data[collection][id]
	if !ok {
		s.seq++
		entry.seq = s.seq
	}
	entry.data = payload
	entry.updatedAt = s.now()
	s.data[collection][id] = entry
}

func (s *MemoryStore) publish(ctx context.Context, collection string) {
	if err := s.feed.Publish(ctx, collection); err != nil {
		s.logger.Warn("docstore change not published", zap.String("collection", collection), zap.Error(err))
	}
}
