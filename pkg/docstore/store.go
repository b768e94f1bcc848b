// Package docstore stores JSON documents in named collections and pushes
// live snapshots of a collection, or of a single document, to subscribers.
//
// Two backends are provided: PostgresStore keeps documents in a JSONB table,
// MemoryStore keeps them in process. Both announce writes on a Feed so that
// subscriptions re-read and push a fresh snapshot after every change.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored record and its key.
type Document struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Decode unmarshals the document payload into dest.
func (d Document) Decode(dest interface{}) error {
	return json.Unmarshal(d.Data, dest)
}

// DocumentSnapshot is pushed by SubscribeDoc. Exists is false once the
// document is missing or deleted.
type DocumentSnapshot struct {
	ID     string
	Exists bool
	Data   json.RawMessage
}

// Decode unmarshals the snapshot payload into dest.
func (s DocumentSnapshot) Decode(dest interface{}) error {
	if !s.Exists {
		return ErrNotFound
	}
	return json.Unmarshal(s.Data, dest)
}

// Store is the document store contract used by repositories.
type Store interface {
	// Create stores record under a generated ID and returns it.
	Create(ctx context.Context, collection string, record interface{}) (string, error)
	// Get loads one document into dest.
	Get(ctx context.Context, collection, id string, dest interface{}) error
	// List returns every document of a collection in creation order.
	List(ctx context.Context, collection string) ([]Document, error)
	// Update merges fields into the top level of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Set creates or fully replaces the document stored under id.
	Set(ctx context.Context, collection, id string, record interface{}) error
	// Delete removes a document.
	Delete(ctx context.Context, collection, id string) error
	// SubscribeAll pushes the full collection now and after every change
	// until cancel is called or ctx ends.
	SubscribeAll(ctx context.Context, collection string) (<-chan []Document, func(), error)
	// SubscribeDoc pushes one document now and after every change to its collection.
	SubscribeDoc(ctx context.Context, collection, id string) (<-chan DocumentSnapshot, func(), error)
}

// Feed carries change signals for a collection.
type Feed interface {
	Publish(ctx context.Context, collection string) error
	Listen(ctx context.Context, collection string) (<-chan struct{}, func(), error)
}

// QueryObserver receives backend timings, typically a metrics service.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}
