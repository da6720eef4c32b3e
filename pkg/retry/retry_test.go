package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"multibank/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{Attempts: attempts, BaseDelay: time.Millisecond}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RecoversFromTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	transient := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return transient
	})

	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestDo_AppErrorIsPermanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return apperror.ErrInsufficientFunds("1.00", "2.02", "USD")
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRF_002", appErr.Code)
	assert.Equal(t, 1, calls, "business errors must not be retried")
}

func TestDo_WrappedAppErrorIsPermanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return apperror.ErrDatabaseError(errors.New("constraint violated"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancellationIsPermanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return context.Canceled
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsWaitingWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, Config{Attempts: 3, BaseDelay: time.Minute}, zerolog.Nop(), func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_NormalizesAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{Attempts: 0}, zerolog.Nop(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
