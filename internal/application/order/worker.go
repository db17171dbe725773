package order

import (
	"context"
	"time"

	domain "github.com/bookforge/catalog/internal/domain/order"
	domoutbox "github.com/bookforge/catalog/internal/domain/outbox"
	"github.com/bookforge/catalog/internal/observability"
	"github.com/bookforge/catalog/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const auditUseCase = "order.worker.audit_created"

// AuditWorker subscribes to catalog events and records an audit entry for
// every created order. Delivery is best-effort; the creation pipeline never
// waits on it.
type AuditWorker struct {
	subscriber domoutbox.Subscriber
	tel        observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewAuditWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *AuditWorker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &AuditWorker{
		subscriber:   subscriber,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", "order-audit-worker")),
		reqCounter:   tel.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram: tel.Metrics().Histogram(observability.MUsecaseDuration),
	}
}

func (w *AuditWorker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domain.OrderCreatedEvent{}.EventName(), w.handleOrderCreated)
}

func (w *AuditWorker) handleOrderCreated(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domain.OrderCreatedEvent)
	if !ok {
		w.count("ignored")
		return nil
	}

	ctx, span := w.tel.Tracer().Start(ctx, spanPrefix+"AuditOrderCreated",
		attribute.String("use_case", auditUseCase),
		attribute.String("event", e.EventName()),
	)
	start := time.Now()

	logger := logctx.FromOr(ctx, w.log).With(
		observability.F("use_case", auditUseCase),
		observability.F("event", e.EventName()),
	)

	logger.Info("order_audit_recorded",
		observability.F("order_id", evt.OrderID),
		observability.F("title", evt.Title),
		observability.F("author", evt.Author),
		observability.F("isbn", evt.ISBN),
		observability.F("category", string(evt.Category)),
		observability.F("occurred_at", evt.OccurredAt),
	)

	w.count("success")
	if w.durHistogram != nil {
		w.durHistogram.Observe(time.Since(start).Seconds(),
			observability.L("use_case", auditUseCase),
		)
	}
	span.SetStatus(codes.Ok, "OK")
	span.End()
	return nil
}

func (w *AuditWorker) count(outcome string) {
	if w.reqCounter != nil {
		w.reqCounter.Add(1,
			observability.L("use_case", auditUseCase),
			observability.L("outcome", outcome),
		)
	}
}
