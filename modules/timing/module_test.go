package timing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/registry"
)

func TestWait(t *testing.T) {
	t.Run("sleeps for the duration", func(t *testing.T) {
		res, err := Wait(context.Background(), &WaitInput{Duration: "1ms"})
		require.NoError(t, err)
		assert.Equal(t, "1ms", res.Waited)
	})

	t.Run("cancellation interrupts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Wait(ctx, &WaitInput{Duration: "10s"})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := Wait(context.Background(), &WaitInput{Duration: "soon"})
		require.Error(t, err)
	})

	t.Run("negative duration", func(t *testing.T) {
		_, err := Wait(context.Background(), &WaitInput{Duration: "-1s"})
		require.Error(t, err)
	})
}

func TestNow(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	inv := &registry.Invocation{Clock: func() time.Time { return fixed }}

	res, err := Now(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), res.Unix)
	assert.Equal(t, "2024-05-01T12:00:00Z", res.RFC)
}
