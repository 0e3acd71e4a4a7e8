package mocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	t.Run("with message", func(t *testing.T) {
		t.Parallel()
		update := NewUpdateBuilder().WithMessage(12345, 67890, "Hello").Build()

		require.NotNil(t, update.Message)
		require.Equal(t, int64(12345), update.Message.Chat.ID)
		require.Equal(t, int64(67890), update.Message.From.ID)
		require.Equal(t, "Hello", update.Message.Text)
		require.Equal(t, "Test", update.Message.From.FirstName)
	})

	t.Run("with first name", func(t *testing.T) {
		t.Parallel()
		update := NewUpdateBuilder().WithMessage(1, 2, "x").WithFirstName("Min").Build()
		require.Equal(t, "Min", update.Message.From.FirstName)
	})

	t.Run("first name without message is a no-op", func(t *testing.T) {
		t.Parallel()
		update := NewUpdateBuilder().WithFirstName("Min").Build()
		require.Nil(t, update.Message)
	})

	t.Run("command update", func(t *testing.T) {
		t.Parallel()
		update := CommandUpdate(1, 2, "/rates")
		require.Equal(t, "/rates", update.Message.Text)
	})
}
