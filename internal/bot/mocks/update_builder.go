package mocks

import (
	"github.com/go-telegram/bot/models"
)

// UpdateBuilder helps construct test Update objects.
type UpdateBuilder struct {
	update *models.Update
}

// NewUpdateBuilder creates a new UpdateBuilder.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{update: &models.Update{}}
}

// WithMessage sets a text message on the update.
func (b *UpdateBuilder) WithMessage(chatID, userID int64, text string) *UpdateBuilder {
	b.update.Message = &models.Message{
		ID: 1,
		Chat: models.Chat{
			ID:   chatID,
			Type: "private",
		},
		From: &models.User{
			ID:        userID,
			FirstName: "Test",
			Username:  "testuser",
		},
		Text: text,
	}
	return b
}

// WithFirstName overrides the sender's first name.
func (b *UpdateBuilder) WithFirstName(name string) *UpdateBuilder {
	if b.update.Message != nil && b.update.Message.From != nil {
		b.update.Message.From.FirstName = name
	}
	return b
}

// Build returns the constructed Update.
func (b *UpdateBuilder) Build() *models.Update {
	return b.update
}

// MessageUpdate creates a simple message update.
func MessageUpdate(chatID, userID int64, text string) *models.Update {
	return NewUpdateBuilder().WithMessage(chatID, userID, text).Build()
}

// CommandUpdate creates a command message update.
func CommandUpdate(chatID, userID int64, command string) *models.Update {
	return MessageUpdate(chatID, userID, command)
}
