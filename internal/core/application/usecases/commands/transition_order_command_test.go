package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand(t *testing.T) {
	t.Run("creates valid command", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewTransitionOrderCommand(orderID, order.Confirmed, "restaurant-1", "eta 20m")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, orderID, cmd.OrderID())
		assert.Equal(t, order.Confirmed, cmd.To())
		assert.Equal(t, "restaurant-1", cmd.ActorID())
		assert.Equal(t, "eta 20m", cmd.Notes())
	})

	t.Run("rejects undefined target status", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Unknown, "restaurant-1", "")

		require.Error(t, err)
	})

	t.Run("rejects missing actor", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Confirmed, "", "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.TransitionOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrTransitionOrderCommandIsNotConstructed)
	})
}
