package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/pkg/docstore"
	"github.com/noah-isme/daycare-api/pkg/response"
)

const defaultHeartbeat = 25 * time.Second

type streamService interface {
	Collection(ctx context.Context, name string) (<-chan []docstore.Document, func(), error)
	Settings(ctx context.Context) (<-chan docstore.DocumentSnapshot, func(), error)
}

type streamedDocument struct {
	ID        string          `json:"id"`
	Exists    bool            `json:"exists"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// StreamHandler pushes live snapshots as Server-Sent Events.
type StreamHandler struct {
	streams   streamService
	heartbeat time.Duration
}

// NewStreamHandler constructs StreamHandler. heartbeat <= 0 uses 25s.
func NewStreamHandler(streams streamService, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StreamHandler{streams: streams, heartbeat: heartbeat}
}

// Collection godoc
// @Summary Live collection snapshots
// @Description Emits a "snapshot" event with every document now and after each change.
// @Tags Streams
// @Security BearerAuth
// @Produce text/event-stream
// @Param collection path string true "Collection name"
// @Param access_token query string false "Token for EventSource clients"
// @Router /streams/{collection} [get]
func (h *StreamHandler) Collection(c *gin.Context) {
	updates, cancel, err := h.streams.Collection(c.Request.Context(), c.Param("collection"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()
	pump(c, h.heartbeat, updates, func(docs []docstore.Document) interface{} {
		out := make([]streamedDocument, 0, len(docs))
		for _, doc := range docs {
			updatedAt := doc.UpdatedAt
			out = append(out, streamedDocument{ID: doc.ID, Exists: true, Data: doc.Data, UpdatedAt: &updatedAt})
		}
		return out
	})
}

// Settings godoc
// @Summary Live settings document
// @Tags Streams
// @Security BearerAuth
// @Produce text/event-stream
// @Param access_token query string false "Token for EventSource clients"
// @Router /streams/settings [get]
func (h *StreamHandler) Settings(c *gin.Context) {
	updates, cancel, err := h.streams.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()
	pump(c, h.heartbeat, updates, func(snapshot docstore.DocumentSnapshot) interface{} {
		return streamedDocument{ID: snapshot.ID, Exists: snapshot.Exists, Data: snapshot.Data}
	})
}

// pump writes one event per update until the client leaves or the
// subscription ends. Idle connections get a ping comment-event.
func pump[T any](c *gin.Context, heartbeat time.Duration, updates <-chan T, encode func(T) interface{}) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case value, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("snapshot", encode(value))
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
		}
		c.Writer.Flush()
	}
}
