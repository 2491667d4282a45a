package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fireline-notifier/internal/catalog"
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/dispatch"
	"fireline-notifier/internal/router"
)

type fakeStore struct {
	entries []catalog.StatusEntry
	err     error
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]catalog.StatusEntry, error) {
	return f.entries, f.err
}

type captureEmailSink struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureEmailSink) Send(ctx context.Context, to, subject, body string) error {
	c.mu.Lock()
	c.sent = append(c.sent, to)
	c.mu.Unlock()
	return nil
}

func (c *captureEmailSink) recipients() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type captureToastSink struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureToastSink) Show(toastType, title, message string, durationSeconds int) {
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
}

func (c *captureToastSink) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1]
}

type testHarness struct {
	service *Service
	email   *captureEmailSink
	toast   *captureToastSink
	now     time.Time
	mu      sync.Mutex
}

func (h *testHarness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *testHarness) advance(d time.Duration) {
	h.mu.Lock()
	h.now = h.now.Add(d)
	h.mu.Unlock()
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		email: &captureEmailSink{},
		toast: &captureToastSink{},
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	log := logger.NewTestLogger(t)
	svc, err := New(context.Background(), Options{
		Store:  &fakeStore{},
		Router: router.New(nil, log),
		Cache: dispatch.NewCache(dispatch.CacheConfig{
			Window:       time.Minute,
			MaxPerWindow: 10,
			GCIdle:       5 * time.Minute,
		}),
		Dispatcher: dispatch.NewDispatcher(
			h.email, nil, nil, nil,
			dispatch.DispatcherConfig{Timeout: time.Second},
			log,
		),
		Toast:        h.toast,
		Clock:        h.clock,
		Logger:       log,
		DrainTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	h.service = svc
	return h
}

func statusEvent(projectID int64, newStatus int, role catalog.Role) router.NotificationEvent {
	return router.NotificationEvent{
		ProjectID:  projectID,
		NewStatus:  newStatus,
		OldStatus:  10,
		ActingRole: role,
		ContextData: map[string]string{
			"PROJECT_ADDRESS": "123 Main St",
			"CLIENT_NAME":     "Dana",
			"CLIENT_EMAIL":    "dana@example.com",
			"ADMIN_EMAIL":     "ops@fireline.example",
		},
	}
}

func TestHandleStatusChangeDispatches(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.service.HandleStatusChange(context.Background(), statusEvent(1, 10, catalog.RoleClient))
	require.NoError(t, err)

	assert.NotEmpty(t, result.EventID)
	assert.True(t, result.Dispatched)
	assert.Empty(t, result.DenyReason)
	assert.Equal(t, 2, result.Recipients)
	assert.Equal(t, "Project submitted. Status: Submitted", result.LocalMessage.Body)
	assert.Equal(t, result.LocalMessage.Body, h.toast.last())

	h.service.Close()
	assert.ElementsMatch(t, []string{"dana@example.com", "ops@fireline.example"}, h.email.recipients())
}

func TestHandleStatusChangeDuplicateDenied(t *testing.T) {
	h := newTestHarness(t)
	event := statusEvent(1, 10, catalog.RoleAdmin)

	first, err := h.service.HandleStatusChange(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, first.Dispatched)

	h.advance(2 * time.Second)

	// Same project/status inside the fingerprint bucket: denied, but the
	// local toast still shows.
	second, err := h.service.HandleStatusChange(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, second.Dispatched)
	assert.Equal(t, string(dispatch.DenyDuplicate), second.DenyReason)
	assert.NotEmpty(t, second.LocalMessage.Body)
	assert.Equal(t, second.LocalMessage.Body, h.toast.last())
}

func TestHandleStatusChangeRateLimited(t *testing.T) {
	h := newTestHarness(t)

	statuses := []int{10, 20, 30, 40, 50, 60, 90}
	for round, allowedSoFar := 0, 0; allowedSoFar < 10; round++ {
		for _, st := range statuses {
			if allowedSoFar == 10 {
				break
			}
			result, err := h.service.HandleStatusChange(context.Background(), statusEvent(5, st, catalog.RoleAdmin))
			require.NoError(t, err)
			require.True(t, result.Dispatched)
			allowedSoFar++
			h.advance(500 * time.Millisecond)
		}
		// Shift to a new fingerprint bucket before repeating statuses.
		h.advance(11 * time.Second)
	}

	result, err := h.service.HandleStatusChange(context.Background(), statusEvent(5, 10, catalog.RoleAdmin))
	require.NoError(t, err)
	assert.False(t, result.Dispatched)
	assert.Equal(t, string(dispatch.DenyRateLimited), result.DenyReason)
}

func TestHandleStatusChangeWindowReset(t *testing.T) {
	h := newTestHarness(t)
	event := statusEvent(1, 20, catalog.RoleStaff)

	first, err := h.service.HandleStatusChange(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, first.Dispatched)

	h.advance(61 * time.Second)

	second, err := h.service.HandleStatusChange(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, second.Dispatched, "fresh window after expiry")
}

func TestHandleStatusChangeUnknownStatus(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.service.HandleStatusChange(context.Background(), statusEvent(1, 777, catalog.RoleAdmin))
	require.NoError(t, err)

	assert.False(t, result.Dispatched)
	assert.Equal(t, "Status Update", result.LocalMessage.Body)
	assert.Zero(t, result.Recipients)
}

func TestHandleStatusChangeInvalidRole(t *testing.T) {
	h := newTestHarness(t)

	event := statusEvent(1, 10, catalog.Role("superuser"))
	_, err := h.service.HandleStatusChange(context.Background(), event)
	require.Error(t, err)
}

func TestHandleStatusChangeEventTimestampPreserved(t *testing.T) {
	h := newTestHarness(t)

	event := statusEvent(1, 10, catalog.RoleAdmin)
	event.EventID = "caller-supplied"
	event.Timestamp = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	result, err := h.service.HandleStatusChange(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", result.EventID)
}

func TestNewFailsWhenCatalogLoadFails(t *testing.T) {
	log := logger.NewTestLogger(t)
	_, err := New(context.Background(), Options{
		Store:  &fakeStore{err: assert.AnError},
		Router: router.New(nil, log),
		Cache:  dispatch.NewCache(dispatch.DefaultCacheConfig()),
		Logger: log,
	})
	require.Error(t, err)
}

func TestReload(t *testing.T) {
	store := &fakeStore{}
	log := logger.NewTestLogger(t)

	svc, err := New(context.Background(), Options{
		Store:      store,
		Router:     router.New(nil, log),
		Cache:      dispatch.NewCache(dispatch.DefaultCacheConfig()),
		Dispatcher: dispatch.NewDispatcher(nil, nil, nil, nil, dispatch.DispatcherConfig{}, log),
		Logger:     log,
	})
	require.NoError(t, err)
	defer svc.Close()

	before := svc.Catalog().Len()

	store.entries = []catalog.StatusEntry{
		{StatusCode: 10, AdminName: "Only One", AdminTab: "incoming"},
	}
	require.NoError(t, svc.Reload(context.Background()))

	assert.NotEqual(t, before, svc.Catalog().Len())
	assert.Equal(t, 1, svc.Catalog().Len())
}

func TestCloseIsIdempotent(t *testing.T) {
	h := newTestHarness(t)
	h.service.Close()
	h.service.Close()
}
