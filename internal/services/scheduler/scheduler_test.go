package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SweeperMock struct {
	mock.Mock
	calls atomic.Int32
}

func (m *SweeperMock) ClearExpiredCodes(ctx context.Context) (int64, int64, error) {
	m.calls.Add(1)
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Run_SweepsImmediatelyAndStops(t *testing.T) {
	sweeper := new(SweeperMock)
	sweeper.On("ClearExpiredCodes", mock.Anything).Return(int64(2), int64(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewService(sweeper, time.Hour, newNoopLogger()).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

func TestService_Run_Ticks(t *testing.T) {
	sweeper := new(SweeperMock)
	sweeper.On("ClearExpiredCodes", mock.Anything).Return(int64(0), int64(0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewService(sweeper, 10*time.Millisecond, newNoopLogger()).Run(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestService_Run_ErrorDoesNotStopLoop(t *testing.T) {
	sweeper := new(SweeperMock)
	sweeper.On("ClearExpiredCodes", mock.Anything).Return(int64(0), int64(0), errors.New("db down"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewService(sweeper, 10*time.Millisecond, newNoopLogger()).Run(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestNewService_DefaultInterval(t *testing.T) {
	s := NewService(new(SweeperMock), 0, newNoopLogger())
	assert.Equal(t, time.Hour, s.interval)
}
