package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type mockHTTPServer struct {
	listenErr error
	started   chan struct{}
	stop      chan struct{}
	shutdowns int
	mu        sync.Mutex
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.started <- struct{}{}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stop
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdowns++
	close(m.stop)
	return nil
}

func TestHTTPServiceShutsDownOnCancel(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.Equal(t, 1, server.shutdowns)
}

func TestHTTPServiceReportsListenFailure(t *testing.T) {
	server := newMockHTTPServer()
	server.listenErr = errors.New("address already in use")

	err := NewHTTPService(server, 0).Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Equal(t, "http-server", NewHTTPService(server, 0).String())
}

type recordingEnqueuer struct {
	mu       sync.Mutex
	triggers []models.RefreshTrigger
	err      error
}

func (r *recordingEnqueuer) Enqueue(trigger models.RefreshTrigger) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger)
	if r.err != nil {
		return "", r.err
	}
	return "job-1", nil
}

func (r *recordingEnqueuer) snapshot() []models.RefreshTrigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RefreshTrigger(nil), r.triggers...)
}

func TestRefreshTickerQueuesStartupAndScheduledRuns(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	ticker := NewRefreshTicker(enqueuer, 20*time.Millisecond, true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ticker.Serve(ctx) }()

	require.Eventually(t, func() bool { return len(enqueuer.snapshot()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	triggers := enqueuer.snapshot()
	assert.Equal(t, models.RefreshTriggerStartup, triggers[0])
	assert.Equal(t, models.RefreshTriggerSchedule, triggers[1])
}

func TestRefreshTickerToleratesBusyQueue(t *testing.T) {
	enqueuer := &recordingEnqueuer{err: appErrors.Clone(appErrors.ErrRefreshInProgress, "busy")}
	ticker := NewRefreshTicker(enqueuer, 10*time.Millisecond, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ticker.Serve(ctx) }()

	require.Eventually(t, func() bool { return len(enqueuer.snapshot()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
	for _, trigger := range enqueuer.snapshot() {
		assert.Equal(t, models.RefreshTriggerSchedule, trigger)
	}
}

type blockingService struct {
	started chan struct{}
}

func (b *blockingService) Serve(ctx context.Context) error {
	close(b.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestTreeRunsServicesUntilCancelled(t *testing.T) {
	tree := NewTree(nil, TreeConfig{ShutdownTimeout: time.Second})
	worker := &blockingService{started: make(chan struct{})}
	api := &blockingService{started: make(chan struct{})}
	tree.AddWorker(worker)
	tree.AddAPI(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	<-worker.started
	<-api.started
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, err == nil || errors.Is(err, context.Canceled))
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}
