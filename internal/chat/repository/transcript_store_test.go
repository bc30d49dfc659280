package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/internal/chat/domain"
)

func setupStore(t *testing.T, limit int) (*TranscriptStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTranscriptStore(client, limit), mr
}

func TestTranscriptStore(t *testing.T) {
	store, mr := setupStore(t, 3)
	ctx := context.Background()

	msgs, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)

	var in []domain.Message
	for i := 0; i < 5; i++ {
		in = append(in, domain.Message{ID: fmt.Sprint(i), Text: "m", Sender: domain.SenderUser, Timestamp: time.Now().UTC()})
	}
	require.NoError(t, store.Save(ctx, "u1", in))
	assert.True(t, mr.Exists("chat:transcript:u1"))

	msgs, err = store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "2", msgs[0].ID)

	other, err := store.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.Clear(ctx, "u1"))
	msgs, err = store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestTranscriptStore_CorruptBlob(t *testing.T) {
	store, mr := setupStore(t, 10)
	require.NoError(t, mr.Set("chat:transcript:u1", "not json"))

	_, err := store.Load(context.Background(), "u1")
	assert.Error(t, err)
}
