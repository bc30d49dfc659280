package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mensbreakfast/breakfast-backend/internal/chat/domain"
)

const keyPrefix = "chat:transcript:"

// TranscriptStore keeps one serialized transcript blob per user.
type TranscriptStore struct {
	client *redis.Client
	limit  int
}

func NewTranscriptStore(client *redis.Client, limit int) *TranscriptStore {
	return &TranscriptStore{client: client, limit: limit}
}

func key(uid string) string {
	return keyPrefix + uid
}

// Load returns the stored transcript, or an empty one when nothing is saved.
func (s *TranscriptStore) Load(ctx context.Context, uid string) ([]domain.Message, error) {
	data, err := s.client.Get(ctx, key(uid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// Save overwrites the transcript, keeping only the newest messages.
func (s *TranscriptStore) Save(ctx context.Context, uid string, msgs []domain.Message) error {
	data, err := json.Marshal(domain.Trim(msgs, s.limit))
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := s.client.Set(ctx, key(uid), data, 0).Err(); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

func (s *TranscriptStore) Clear(ctx context.Context, uid string) error {
	if err := s.client.Del(ctx, key(uid)).Err(); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}
