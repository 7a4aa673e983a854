package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcastNotificationCommandHandler_Handle(t *testing.T) {
	t.Run("aggregates successful, failed and skipped per channel", func(t *testing.T) {
		ctx := t.Context()
		full := kernel.NewUUID()    // all contacts, email send fails
		noPhone := kernel.NewUUID() // sms must be skipped

		directory := &MockRecipientDirectory{}
		directory.On("GetRecipient", mock.Anything, full).Return(fullContactRecipient(full), nil)
		directory.On("GetRecipient", mock.Anything, noPhone).Return(notification.Recipient{
			ID: noPhone, Email: "b@example.com", PushToken: "token-2",
		}, nil)

		prefs := &MockPreferenceStore{}
		prefs.On("GetUserNotificationPreferences", mock.Anything, mock.Anything).Return(nil, nil)

		email, sms, push, providers := allProviders()
		email.On("Send", mock.Anything, "casey@example.com", "Maintenance", "tonight 2am").
			Return(errors.New("smtp timeout"))
		email.On("Send", mock.Anything, "b@example.com", "Maintenance", "tonight 2am").Return(nil)
		sms.On("Send", mock.Anything, "+447700900000", "Maintenance", "tonight 2am").Return(nil)
		push.On("Send", mock.Anything, mock.Anything, "Maintenance", "tonight 2am").Return(nil).Twice()

		store := &MockNotificationStore{}
		store.On("CreateOrderNotification", mock.Anything, mock.Anything).Return(nil)

		handler := commands.NewBroadcastNotificationCommandHandler(
			prefs, directory, store, providers, 4, discardLogger())
		cmd, err := commands.NewBroadcastNotificationCommand(
			[]kernel.UUID{full, noPhone}, "Maintenance", "tonight 2am")
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Successful)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 6, result.Successful+result.Failed+result.Skipped)
	})

	t.Run("unknown target counts as skipped for every channel", func(t *testing.T) {
		ctx := t.Context()
		missing := kernel.NewUUID()

		directory := &MockRecipientDirectory{}
		directory.On("GetRecipient", mock.Anything, missing).
			Return(notification.Recipient{}, errors.New("not found"))

		prefs := &MockPreferenceStore{}
		_, _, _, providers := allProviders()
		store := &MockNotificationStore{}

		handler := commands.NewBroadcastNotificationCommandHandler(
			prefs, directory, store, providers, 4, discardLogger())
		cmd, err := commands.NewBroadcastNotificationCommand(
			[]kernel.UUID{missing}, "Maintenance", "tonight 2am")
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.BroadcastResult{Skipped: 3}, result)
	})

	t.Run("disabled preference counts as skipped", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()

		directory := &MockRecipientDirectory{}
		directory.On("GetRecipient", mock.Anything, userID).Return(fullContactRecipient(userID), nil)

		prefs := &MockPreferenceStore{}
		prefs.On("GetUserNotificationPreferences", mock.Anything, userID).Return(&notification.Preference{
			Triggers: map[notification.Trigger]bool{notification.TriggerAnnouncement: false},
		}, nil)

		_, _, _, providers := allProviders()
		store := &MockNotificationStore{}

		handler := commands.NewBroadcastNotificationCommandHandler(
			prefs, directory, store, providers, 4, discardLogger())
		cmd, err := commands.NewBroadcastNotificationCommand(
			[]kernel.UUID{userID}, "Maintenance", "tonight 2am")
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.BroadcastResult{Skipped: 3}, result)
	})
}
