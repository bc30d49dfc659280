// Package realtime fans table changes out to connected clients over Redis Pub/Sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "mb:changes:"

// Topics a client can subscribe to.
const (
	TopicEvents       = "events"
	TopicRSVPs        = "rsvps"
	TopicTransactions = "transactions"
	TopicUsers        = "users"
	TopicContent      = "content"
	TopicVideos       = "videos"
)

var knownTopics = map[string]bool{
	TopicEvents:       true,
	TopicRSVPs:        true,
	TopicTransactions: true,
	TopicUsers:        true,
	TopicContent:      true,
	TopicVideos:       true,
}

// Change actions
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Change describes one row-level change. UserID marks a change private to that user.
type Change struct {
	Topic   string          `json:"topic"`
	Action  string          `json:"action"`
	ID      string          `json:"id"`
	UserID  string          `json:"user_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// VisibleTo reports whether uid may receive the change.
func (c Change) VisibleTo(uid string) bool {
	return c.UserID == "" || c.UserID == uid
}

// Publisher is what feature services depend on.
type Publisher interface {
	Publish(ctx context.Context, topic, action, id, userID string, payload any) error
}

type Hub struct {
	client *redis.Client
}

func NewHub(client *redis.Client) *Hub {
	return &Hub{client: client}
}

// ValidTopic reports whether name is a subscribable topic.
func ValidTopic(name string) bool {
	return knownTopics[name]
}

func (h *Hub) Publish(ctx context.Context, topic, action, id, userID string, payload any) error {
	if !ValidTopic(topic) {
		return fmt.Errorf("unknown topic %q", topic)
	}

	ch := Change{Topic: topic, Action: action, ID: id, UserID: userID, At: time.Now().UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		ch.Payload = raw
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	if err := h.client.Publish(ctx, channelPrefix+topic, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a subscription on topics. The caller owns the returned handle
// and must Close it. Cancelling ctx also ends the stream and releases the
// Redis subscription.
func (h *Hub) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}

	channels := make([]string, 0, len(topics))
	for _, t := range topics {
		if !ValidTopic(t) {
			return nil, fmt.Errorf("unknown topic %q", t)
		}
		channels = append(channels, channelPrefix+t)
	}

	ps := h.client.Subscribe(ctx, channels...)
	// Wait for the subscription to be confirmed so nothing published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		ps:     ps,
		out:    make(chan Change, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.pump(subCtx)
	return s, nil
}

// Subscription is a cancellable stream of changes.
type Subscription struct {
	ps     *redis.PubSub
	out    chan Change
	cancel context.CancelFunc
	done   chan struct{}
	err    error // result of closing ps, set before done is closed
}

// C delivers changes until the subscription is closed.
func (s *Subscription) C() <-chan Change {
	return s.out
}

// Close releases the Redis subscription. Safe to call more than once.
func (s *Subscription) Close() error {
	s.cancel()
	<-s.done
	return s.err
}

// pump forwards messages until ctx ends, then releases the Redis subscription.
func (s *Subscription) pump(ctx context.Context) {
	defer close(s.done)
	defer func() { s.err = s.ps.Close() }()
	defer close(s.out)

	msgs := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ch Change
			if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
				continue
			}
			select {
			case s.out <- ch:
			case <-ctx.Done():
				return
			}
		}
	}
}
