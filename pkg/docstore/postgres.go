package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection_created ON documents (collection, created_at);
`

type documentRow struct {
	Collection string    `db:"collection"`
	ID         string    `db:"id"`
	Data       string    `db:"data"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// PostgresStore keeps every collection in a single JSONB table keyed by
// (collection, id).
type PostgresStore struct {
	db       *sqlx.DB
	feed     Feed
	logger   *zap.Logger
	observer QueryObserver
	now      func() time.Time
}

// NewPostgresStore constructs the store. observer may be nil.
func NewPostgresStore(db *sqlx.DB, feed Feed, observer QueryObserver, logger *zap.Logger) *PostgresStore {
	if feed == nil {
		feed = NewLocalFeed()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, feed: feed, logger: logger, observer: observer, now: time.Now}
}

// EnsureSchema creates the documents table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Create inserts record under a fresh UUID.
func (s *PostgresStore) Create(ctx context.Context, collection string, record interface{}) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	now := s.now().UTC()
	row := documentRow{Collection: collection, ID: uuid.NewString(), Data: string(payload), CreatedAt: now, UpdatedAt: now}

	defer s.observe("docstore_create", time.Now())
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
VALUES (:collection, :id, :data, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	s.publish(ctx, collection)
	return row.ID, nil
}

// Get loads a document into dest.
func (s *PostgresStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	raw, err := s.raw(ctx, collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s document: %w", collection, err)
	}
	return nil
}

// List returns the collection ordered by creation time.
func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	defer s.observe("docstore_list", time.Now())
	var rows []documentRow
	const query = `SELECT id, data, updated_at FROM documents WHERE collection = $1 ORDER BY created_at ASC, id ASC`
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("list %s documents: %w", collection, err)
	}
	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document{ID: row.ID, Data: json.RawMessage(row.Data), UpdatedAt: row.UpdatedAt}
	}
	return docs, nil
}

// Update merges fields into the stored JSON object.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", collection, err)
	}

	defer s.observe("docstore_update", time.Now())
	const query = `UPDATE documents SET data = data || $3::jsonb, updated_at = $4 WHERE collection = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, query, collection, id, string(patch), s.now().UTC())
	if err != nil {
		return fmt.Errorf("update %s document: %w", collection, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	s.publish(ctx, collection)
	return nil
}

// Set upserts the document stored under id.
func (s *PostgresStore) Set(ctx context.Context, collection, id string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", collection, err)
	}
	now := s.now().UTC()
	row := documentRow{Collection: collection, ID: id, Data: string(payload), CreatedAt: now, UpdatedAt: now}

	defer s.observe("docstore_set", time.Now())
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
VALUES (:collection, :id, :data, :created_at, :updated_at)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("set %s document: %w", collection, err)
	}
	s.publish(ctx, collection)
	return nil
}

// Delete removes a document.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	defer s.observe("docstore_delete", time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s document: %w", collection, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	s.publish(ctx, collection)
	return nil
}

// SubscribeAll pushes collection snapshots after every change announced on the feed.
func (s *PostgresStore) SubscribeAll(ctx context.Context, collection string) (<-chan []Document, func(), error) {
	return watch(ctx, s.feed, collection, s.logger, func(ctx context.Context) ([]Document, error) {
		return s.List(ctx, collection)
	})
}

// SubscribeDoc pushes snapshots of a single document.
func (s *PostgresStore) SubscribeDoc(ctx context.Context, collection, id string) (<-chan DocumentSnapshot, func(), error) {
	return watch(ctx, s.feed, collection, s.logger, snapshotLoader(collection, id, s.raw))
}

func (s *PostgresStore) raw(ctx context.Context, collection, id string) (json.RawMessage, error) {
	defer s.observe("docstore_get", time.Now())
	var data string
	const query = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if err := s.db.GetContext(ctx, &data, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s document: %w", collection, err)
	}
	return json.RawMessage(data), nil
}

func (s *PostgresStore) publish(ctx context.Context, collection string) {
	if err := s.feed.Publish(ctx, collection); err != nil {
		s.logger.Warn("docstore change not published", zap.String("collection", collection), zap.Error(err))
	}
}

func (s *PostgresStore) observe(label string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveDBQuery(label, time.Since(start))
	}
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
