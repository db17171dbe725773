// Package outbox provides a single-process event bus for catalog events.
// It is not durable; a crash loses queued events. Durable delivery would
// persist events next to the order write and dispatch from a relay.
package outbox

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	domoutbox "github.com/bookforge/catalog/internal/domain/outbox"
	"github.com/bookforge/catalog/internal/observability"
	"github.com/bookforge/catalog/internal/observability/logctx"
)

const (
	queueCapacity  = 1024
	maxFanout      = 8
	handlerTimeout = 30 * time.Second
)

// Bus fans published events out to the handlers subscribed to their name.
// Publish blocks only while the queue is full; handlers run on their own
// goroutines detached from the publisher's context.
type Bus struct {
	mu    sync.RWMutex
	subs  map[string][]domoutbox.Handler
	queue chan domoutbox.Event

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	log       observability.Logger
}

func NewBus(logger observability.Logger) *Bus {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Bus{
		subs:  make(map[string][]domoutbox.Handler),
		queue: make(chan domoutbox.Event, queueCapacity),
		log:   logger.With(observability.F("component", "outbox")),
	}
}

// Subscribe registers a handler for the named event. Subscriptions taken
// after Start still receive subsequent events.
func (b *Bus) Subscribe(eventName string, h domoutbox.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		go b.run(loopCtx)
		logctx.FromOr(ctx, b.log).Info("event_bus_started")
	})
}

func (b *Bus) Stop(ctx context.Context) {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		close(b.queue)
		logctx.FromOr(ctx, b.log).Info("event_bus_stopped")
	})
}

// Publish enqueues the event. It fails only when the queue is full and the
// caller's context expires first.
func (b *Bus) Publish(ctx context.Context, e domoutbox.Event) error {
	if e == nil {
		return nil
	}
	logger := logctx.FromOr(ctx, b.log).With(observability.F("event", e.EventName()))
	select {
	case b.queue <- e:
		logger.Debug("event_enqueued")
		return nil
	case <-ctx.Done():
		logger.Warn("event_enqueue_aborted", observability.F("error", ctx.Err().Error()))
		return ctx.Err()
	}
}

func (b *Bus) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.queue:
			if !ok {
				return
			}
			b.dispatch(ctx, e)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, e domoutbox.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domoutbox.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	logger := b.log.With(observability.F("event", name))
	if len(handlers) == 0 {
		logger.Debug("event_dropped_no_subscriber")
		return
	}

	// Handlers must outlive the publisher's request.
	base := context.WithoutCancel(ctx)

	sem := make(chan struct{}, maxFanout)
	var wg sync.WaitGroup
	for _, h := range handlers {
		h := h
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("event_handler_panic",
						observability.F("panic", r),
						observability.F("stack", string(debug.Stack())),
					)
				}
				<-sem
				wg.Done()
			}()

			hctx, cancel := context.WithTimeout(base, handlerTimeout)
			defer cancel()
			hctx = logctx.With(hctx, logger)
			if err := h(hctx, e); err != nil {
				logger.Warn("event_handler_error", observability.F("error", err.Error()))
			}
		}()
	}
	wg.Wait()

	logger.Debug("event_dispatched", observability.F("handlers", len(handlers)))
}
