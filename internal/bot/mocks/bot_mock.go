// Package mocks provides mock implementations for testing bot handlers.
package mocks

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramAPI defines the Telegram operations the handlers use.
// It lives here to avoid an import cycle between bot and mocks.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// SentMessage captures a message sent via MockBot.
type SentMessage struct {
	ChatID    any
	Text      string
	ParseMode models.ParseMode
}

var _ TelegramAPI = (*MockBot)(nil)

// MockBot records outgoing messages.
type MockBot struct {
	mu sync.RWMutex

	SentMessages []SentMessage

	// SendMessageError makes SendMessage fail.
	SendMessageError error

	// NextMessageID is auto-incremented for each sent message.
	NextMessageID int
}

// NewMockBot creates a new MockBot instance.
func NewMockBot() *MockBot {
	return &MockBot{
		SentMessages:  make([]SentMessage, 0),
		NextMessageID: 1000,
	}
}

// SendMessage simulates sending a message.
func (m *MockBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendMessageError != nil {
		return nil, m.SendMessageError
	}

	m.SentMessages = append(m.SentMessages, SentMessage{
		ChatID:    params.ChatID,
		Text:      params.Text,
		ParseMode: params.ParseMode,
	})

	msgID := m.NextMessageID
	m.NextMessageID++

	return &models.Message{
		ID:   msgID,
		Chat: models.Chat{ID: chatIDToInt64(params.ChatID)},
		Text: params.Text,
	}, nil
}

// Reset clears all recorded interactions.
func (m *MockBot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentMessages = make([]SentMessage, 0)
	m.SendMessageError = nil
}

// LastSentMessage returns the most recently sent message, or nil if none.
func (m *MockBot) LastSentMessage() *SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.SentMessages) == 0 {
		return nil
	}
	msg := m.SentMessages[len(m.SentMessages)-1]
	return &msg
}

// SentMessageCount returns the number of messages sent.
func (m *MockBot) SentMessageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SentMessages)
}

func chatIDToInt64(chatID any) int64 {
	switch v := chatID.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
