package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeout_Success(t *testing.T) {
	to := NewTimeout(time.Second)

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestTimeout_Exceeded(t *testing.T) {
	to := NewTimeout(10 * time.Millisecond)

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTimeout_ParentCancelled(t *testing.T) {
	to := NewTimeout(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := to.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimeout_PassesError(t *testing.T) {
	to := NewTimeout(time.Second)
	assert.ErrorIs(t, to.Execute(context.Background(), fail), errSearch)
}

func TestTimeout_Default(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewTimeout(0).Duration())
}
