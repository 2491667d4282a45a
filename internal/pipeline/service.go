// Package pipeline wires the status notification flow: catalog lookup,
// template rendering, routing, rate-limited dispatch, and the local toast.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fireline-notifier/internal/catalog"
	stderrors "fireline-notifier/internal/common/errors"
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/common/metrics"
	"fireline-notifier/internal/common/observability"
	"fireline-notifier/internal/dispatch"
	"fireline-notifier/internal/router"
	"fireline-notifier/internal/sink"
	"fireline-notifier/internal/template"

	"github.com/google/uuid"
)

// Result is what the UI layer gets back for one status change event. The
// caller always receives a local message, even when dispatch was denied or
// failed.
type Result struct {
	EventID          string                   `json:"eventId"`
	LocalMessage     template.RenderedMessage `json:"localMessage"`
	CountdownSeconds int                      `json:"countdownSeconds,omitempty"`
	Dispatched       bool                     `json:"dispatched"`
	DenyReason       string                   `json:"denyReason,omitempty"`
	Recipients       int                      `json:"recipients"`
}

// Options configures a Service.
type Options struct {
	Store      catalog.Store
	Router     *router.Router
	Cache      *dispatch.Cache
	Dispatcher *dispatch.Dispatcher
	Toast      sink.ToastSink
	Clock      dispatch.Clock
	Obs        *observability.Observability
	Logger     logger.Logger

	// DrainTimeout bounds the wait for in-flight outbound calls on Close.
	DrainTimeout time.Duration
}

// Service is the pipeline entry point. One Service is constructed per
// process; its dispatch cache is instance state, not a package-level map.
type Service struct {
	store      catalog.Store
	cat        atomic.Pointer[catalog.Catalog]
	router     *router.Router
	cache      *dispatch.Cache
	dispatcher *dispatch.Dispatcher
	toast      sink.ToastSink
	clock      dispatch.Clock
	obs        *observability.Observability
	logger     logger.Logger

	drainTimeout time.Duration
	inflight     sync.WaitGroup
	gcDone       chan struct{}
	closeOnce    sync.Once
}

func New(ctx context.Context, opts Options) (*Service, error) {
	cat, err := catalog.Load(ctx, opts.Store)
	if err != nil {
		return nil, stderrors.NewCatalogLoadFailedError(err)
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = 15 * time.Second
	}

	s := &Service{
		store:        opts.Store,
		router:       opts.Router,
		cache:        opts.Cache,
		dispatcher:   opts.Dispatcher,
		toast:        opts.Toast,
		clock:        opts.Clock,
		obs:          opts.Obs,
		logger:       opts.Logger,
		drainTimeout: opts.DrainTimeout,
		gcDone:       make(chan struct{}),
	}
	s.cat.Store(cat)

	s.cache.StartGC(s.gcDone, s.clock)

	return s, nil
}

// Catalog returns the current catalog snapshot.
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat.Load()
}

// Reload refreshes the catalog from the store. Used by the administrative
// configuration flow after editing the status table.
func (s *Service) Reload(ctx context.Context) error {
	cat, err := catalog.Load(ctx, s.store)
	if err != nil {
		return stderrors.NewCatalogLoadFailedError(err)
	}
	s.cat.Store(cat)
	s.logger.Info("status catalog reloaded", map[string]interface{}{
		"entries": cat.Len(),
	})
	return nil
}

// HandleStatusChange processes one status transition. It always produces a
// Result with a local message; denial and dispatch failure degrade the
// Result, they do not error.
func (s *Service) HandleStatusChange(ctx context.Context, event router.NotificationEvent) (Result, error) {
	started := s.clock()

	if _, ok := catalog.ParseRole(string(event.ActingRole)); !ok {
		return Result{}, stderrors.NewInvalidEventError("unknown acting role: " + string(event.ActingRole))
	}
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = started
	}

	decision := s.router.Route(event, s.cat.Load())

	result := Result{
		EventID:          event.EventID,
		LocalMessage:     decision.LocalMessage,
		CountdownSeconds: decision.CountdownSeconds,
		Recipients:       len(decision.ExternalRecipients),
	}

	if decision.ShouldDispatchExternally {
		result.Dispatched, result.DenyReason = s.tryDispatch(event, decision)
	}

	s.showToast(event, decision)
	s.record(ctx, started, result)

	return result, nil
}

// tryDispatch consults the dispatch cache and, when allowed, fires the
// outbound calls without awaiting delivery, so the caller's UI flow is not
// held beyond the check itself.
func (s *Service) tryDispatch(event router.NotificationEvent, decision router.RoutingDecision) (bool, string) {
	now := s.clock()
	fingerprint := dispatch.Fingerprint(event.ProjectID, event.NewStatus, event.Timestamp)

	cacheDecision := s.cache.TryDispatch(event.ProjectID, fingerprint, now)
	if !cacheDecision.Allowed {
		metrics.NotificationsDenied.WithLabelValues(string(cacheDecision.Reason)).Inc()
		s.logger.Info("dispatch denied", map[string]interface{}{
			"projectId": event.ProjectID,
			"newStatus": event.NewStatus,
			"reason":    cacheDecision.Reason,
		})
		return false, string(cacheDecision.Reason)
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		// Detached from the request context: the dispatcher applies its own
		// per-call timeout, and the request returning must not cancel an
		// in-flight send.
		s.dispatcher.Dispatch(context.Background(), event, decision, fingerprint)
	}()

	return true, ""
}

func (s *Service) showToast(event router.NotificationEvent, decision router.RoutingDecision) {
	if s.toast == nil {
		return
	}

	toastType := sink.ToastInfo
	if event.ActingRole == catalog.RoleClient {
		toastType = sink.ToastSuccess
	}
	s.toast.Show(toastType, "Status Update", decision.LocalMessage.Body, decision.CountdownSeconds)
}

func (s *Service) record(ctx context.Context, started time.Time, result Result) {
	disposition := "dispatched"
	switch {
	case result.DenyReason != "":
		disposition = result.DenyReason
	case !result.Dispatched:
		disposition = "local_only"
	}

	elapsed := s.clock().Sub(started)
	metrics.EventDuration.Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordEventProcessed(ctx, disposition)
		s.obs.RecordEventDuration(ctx, elapsed, disposition)
	}
}

// Close stops the cache sweeper and drains in-flight outbound calls, bounded
// by the drain timeout.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.gcDone)

		done := make(chan struct{})
		go func() {
			s.inflight.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(s.drainTimeout):
			s.logger.Warn("drain timeout, abandoning in-flight dispatches", nil)
		}
	})
}
