package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped chan struct{}
	once    sync.Once
	failErr error
}

func newBlockingService() *blockingService {
	return &blockingService{stopped: make(chan struct{})}
}

func (s *blockingService) Start() error {
	s.started.Store(true)
	if s.failErr != nil {
		return s.failErr
	}
	<-s.stopped
	return nil
}

func (s *blockingService) Stop() {
	s.once.Do(func() { close(s.stopped) })
}

func (s *blockingService) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

func runAsync(lc *Lifecycle, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}

func TestLifecycle_StopsServicesThenClosers(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	telnet := newBlockingService()
	lc.Add("telnet", telnet)

	var mu sync.Mutex
	var order []string
	lc.OnShutdown("store", func() error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "store")
		assert.True(t, telnet.isStopped(), "closers run after services stop")
		return nil
	})
	lc.OnShutdown("narrator", func() error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "narrator")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(lc, ctx)
	require.Eventually(t, telnet.started.Load, 2*time.Second, 10*time.Millisecond)
	cancel()

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, []string{"narrator", "store"}, order)
}

func TestLifecycle_ServiceFailureIsReturned(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	boom := errors.New("address in use")
	failing := newBlockingService()
	failing.failErr = boom
	healthy := newBlockingService()
	lc.Add("healthy", healthy)
	lc.Add("telnet", failing)

	err := waitDone(t, runAsync(lc, context.Background()))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, healthy.isStopped())
}

func TestLifecycle_CloserErrorsAreJoined(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	closeErr := errors.New("pool busy")
	lc.OnShutdown("database", func() error { return closeErr })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitDone(t, runAsync(lc, ctx))
	assert.ErrorIs(t, err, closeErr)
}

func TestFuncService(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, started)
	assert.True(t, stopped)
}
