package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPostCreated = "posts.created"

// PostCreatedEvent is published when a post goes live, and drives the
// new_post notification fan-out to the author's followers.
type PostCreatedEvent struct {
	PostID    string    `json:"post_id"`
	AuthorID  uint      `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher emits domain events. Services depend on this interface so
// tests can substitute a recorder.
type Publisher interface {
	PublishPostCreated(ctx context.Context, event PostCreatedEvent) error
}

// NatsPublisher publishes events over NATS.
type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher creates a NatsPublisher.
func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

func (p *NatsPublisher) PublishPostCreated(_ context.Context, event PostCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(subjectPostCreated, data)
}

// SubscribePostCreated registers a handler for post-created events. Decode
// failures are logged and dropped; the handler runs on the NATS delivery
// goroutine.
func SubscribePostCreated(conn *nats.Conn, log *zap.Logger, handler func(PostCreatedEvent)) (*nats.Subscription, error) {
	return conn.Subscribe(subjectPostCreated, func(msg *nats.Msg) {
		var event PostCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Error("failed to decode post-created event", zap.Error(err))
			return
		}
		handler(event)
	})
}
