package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/internal/chat/domain"
)

// Transcripts is implemented by repository.TranscriptStore.
type Transcripts interface {
	Load(ctx context.Context, uid string) ([]domain.Message, error)
	Save(ctx context.Context, uid string, msgs []domain.Message) error
	Clear(ctx context.Context, uid string) error
}

type ChatService struct {
	transcripts Transcripts
	generator   Generator
	now         func() time.Time
}

func NewChatService(transcripts Transcripts, generator Generator) *ChatService {
	return &ChatService{transcripts: transcripts, generator: generator, now: time.Now}
}

func (s *ChatService) History(ctx context.Context, uid string) ([]domain.Message, error) {
	return s.transcripts.Load(ctx, uid)
}

// Send appends the user's message and the assistant's reply to the
// transcript. A failed generation stores the fallback reply instead of
// returning an error.
func (s *ChatService) Send(ctx context.Context, uid, text string) (user, reply domain.Message, err error) {
	if strings.TrimSpace(text) == "" {
		return user, reply, domain.ErrEmptyMessage
	}

	history, err := s.transcripts.Load(ctx, uid)
	if err != nil {
		return user, reply, err
	}

	user = domain.Message{ID: uuid.NewString(), Text: text, Sender: domain.SenderUser, Timestamp: s.now().UTC()}

	answer, genErr := s.generator.Generate(ctx, domain.BuildPrompt(history, text))
	if genErr != nil || answer == "" {
		answer = domain.FallbackReply
	}
	reply = domain.Message{ID: uuid.NewString(), Text: answer, Sender: domain.SenderAI, Timestamp: s.now().UTC()}

	if err := s.transcripts.Save(ctx, uid, append(history, user, reply)); err != nil {
		return user, reply, err
	}
	return user, reply, nil
}

func (s *ChatService) Clear(ctx context.Context, uid string) error {
	return s.transcripts.Clear(ctx, uid)
}
