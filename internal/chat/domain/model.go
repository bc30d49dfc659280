package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyMessage = errors.New("message text is required")
	ErrRateLimited  = errors.New("too many messages, slow down")
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

const SystemPrompt = "You are a helpful financial and event planning AI assistant. " +
	"Provide detailed, professional answers with markdown formatting when appropriate. " +
	"Your responses should be clear, concise, and tailored to the user's needs."

// FallbackReply is stored as the assistant's answer when generation fails.
const FallbackReply = "I'm having trouble connecting to the AI service. Please try again later."

// PromptHistoryTurns is how many earlier user turns go into a prompt.
const PromptHistoryTurns = 5

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// BuildPrompt renders the system prompt, the last few user turns of history
// and the new input in the USER/ASSISTANT transcript format.
func BuildPrompt(history []Message, input string) string {
	var users []string
	for _, m := range history {
		if m.Sender == SenderUser {
			users = append(users, m.Text)
		}
	}
	if len(users) > PromptHistoryTurns {
		users = users[len(users)-PromptHistoryTurns:]
	}

	lines := make([]string, 0, len(users)+2)
	lines = append(lines, "SYSTEM: "+SystemPrompt)
	for _, u := range users {
		lines = append(lines, "USER: "+u+"\nASSISTANT:")
	}
	lines = append(lines, "USER: "+input+"\nASSISTANT:")
	return strings.Join(lines, "\n")
}

// Trim keeps the newest limit messages.
func Trim(msgs []Message, limit int) []Message {
	if limit > 0 && len(msgs) > limit {
		return msgs[len(msgs)-limit:]
	}
	return msgs
}
