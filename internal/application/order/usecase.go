package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bookforge/catalog/internal/domain/order"
	domoutbox "github.com/bookforge/catalog/internal/domain/outbox"
	"github.com/bookforge/catalog/internal/observability"
	"github.com/bookforge/catalog/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	catalogService     = "catalog-service"
	useCaseOrderCreate = "order.create"
	spanPrefix         = "UC."
	publishPeer        = "outbox"
	publishEndpoint    = "order.created"
	publishTimeout     = 300 * time.Millisecond
	cacheKeyAllOrders  = "all_orders"
)

// CreateOrderUseCase sequences duplicate check, validation, persistence,
// cache invalidation, and projection, with per-stage timing and one metrics
// record per attempt.
type CreateOrderUseCase struct {
	repo        domain.Repository
	validator   *Validator
	projector   *Projector
	cache       Cache
	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	tel         observability.Observability

	// Base logger with fixed fields prebound (vendor must remain hidden).
	log observability.Logger
	// RED metrics (supplied via DI; do not instantiate inside methods).
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}

	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

// NewCreateOrderUseCase wires the dependencies required to execute the use case.
func NewCreateOrderUseCase(
	repo domain.Repository,
	validator *Validator,
	projector *Projector,
	cache Cache,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *CreateOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(
		observability.F("service", catalogService),
	)

	metricsProvider := tel.Metrics()

	return &CreateOrderUseCase{
		repo:         repo,
		validator:    validator,
		projector:    projector,
		cache:        cache,
		idGenerator:  idGen,
		publisher:    publisher,
		tel:          tel,
		log:          baseLog,
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
		extCounter:   metricsProvider.Counter(observability.MExternalRequests),
		extHistogram: metricsProvider.Histogram(observability.MExternalRequestDuration),
	}
}

// Execute performs the order creation flow: duplicate-ISBN short-circuit,
// full rule validation, persistence, best-effort cache invalidation, event
// publication, and projection. Every exit path emits the creation metrics
// record before returning.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, d domain.Draft) (_ *Profile, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCaseOrderCreate))

	operationID := shortID(uc.idGenerator.NewID())
	logger = logger.With(observability.F("operation_id", operationID))

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"CreateOrder",
		attribute.String("use_case", useCaseOrderCreate),
		attribute.String("order.isbn", d.ISBN),
		attribute.String("order.category", string(d.Category)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	var (
		validationDur time.Duration
		saveDur       time.Duration
		publishErr    error
	)

	defer func() {
		total := time.Since(start)

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		if uc.reqCounter != nil {
			uc.reqCounter.Add(1,
				observability.L("use_case", useCaseOrderCreate),
				observability.L("outcome", outcome),
			)
		}
		if uc.durHistogram != nil {
			uc.durHistogram.Observe(total.Seconds(),
				observability.L("use_case", useCaseOrderCreate),
			)
		}

		failureReason := ""
		if err != nil {
			failureReason = err.Error()
		}
		if publishErr != nil {
			logger = logger.With(observability.F("event_publish_error", publishErr.Error()))
		}
		logCreationMetrics(logger, CreationMetrics{
			OperationID:        operationID,
			Title:              d.Title,
			ISBN:               d.ISBN,
			Category:           d.Category,
			ValidationDuration: validationDur,
			SaveDuration:       saveDur,
			TotalDuration:      total,
			Success:            err == nil,
			FailureReason:      failureReason,
		})
	}()

	logger.Info("creation_started",
		observability.F("title", d.Title),
		observability.F("author", d.Author),
		observability.F("category", string(d.Category)),
		observability.F("isbn", d.ISBN),
	)

	valStart := time.Now()

	existing, lookupErr := uc.repo.GetByISBN(ctx, d.ISBN)
	if lookupErr != nil && !errors.Is(lookupErr, domain.ErrNotFound) {
		validationDur = time.Since(valStart)
		outcome, statusText = "error", "DUPLICATE_CHECK_FAILED"
		return nil, fmt.Errorf("order: duplicate check: %w", lookupErr)
	}
	logger.Info("duplicate_check_performed", observability.F("isbn", d.ISBN))
	if existing != nil {
		validationDur = time.Since(valStart)
		outcome, statusText = "error", "ISBN_CONFLICT"
		logger.Warn("order_conflict", observability.F("isbn", d.ISBN))
		return nil, &domain.ConflictError{ISBN: d.ISBN}
	}

	out, valErr := uc.validator.Validate(ctx, d)
	validationDur = time.Since(valStart)
	if valErr != nil {
		if errors.Is(valErr, context.Canceled) || errors.Is(valErr, context.DeadlineExceeded) {
			outcome, statusText = "canceled", "CONTEXT_CANCELED"
		} else {
			outcome, statusText = "error", "VALIDATION_LOOKUP_FAILED"
		}
		return nil, valErr
	}
	if !out.Valid() {
		outcome, statusText = "error", "VALIDATION_FAILED"
		logger.Warn("validation_failed",
			observability.F("failure_count", len(out.Failures)),
		)
		return nil, &domain.ValidationError{Failures: out.Failures}
	}
	logger.Info("validation_passed")

	if ctxErr := ctx.Err(); ctxErr != nil {
		outcome, statusText = "canceled", "CONTEXT_CANCELED"
		return nil, ctxErr
	}

	entity := domain.FromDraft(d)

	saveStart := time.Now()
	logger.Info("order_save_started",
		observability.F("title", entity.Title),
		observability.F("isbn", entity.ISBN),
	)
	if addErr := uc.repo.Add(ctx, entity); addErr != nil {
		saveDur = time.Since(saveStart)
		outcome, statusText = "error", "REPO_ADD_FAILED"
		return nil, fmt.Errorf("order: save: %w", addErr)
	}
	saveDur = time.Since(saveStart)
	logger.Info("order_save_completed", observability.F("order_id", entity.ID))

	// Best-effort: a stale list cache is tolerable, a failed creation is not.
	if uc.cache != nil {
		if cacheErr := uc.cache.Remove(ctx, cacheKeyAllOrders); cacheErr != nil {
			logger.Warn("cache_invalidation_failed",
				observability.F("key", cacheKeyAllOrders),
				observability.F("error", cacheErr.Error()),
			)
		} else {
			logger.Info("cache_invalidated", observability.F("key", cacheKeyAllOrders))
		}
	}

	if uc.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		pubStart := time.Now()
		pubOutcome := "success"

		publishErr = uc.publisher.Publish(pubCtx, domain.NewOrderCreatedEvent(entity))
		if publishErr != nil {
			pubOutcome = "error"
			logger.Warn("event_publish_failed",
				observability.F("event", publishEndpoint),
				observability.F("order_id", entity.ID),
				observability.F("error", publishErr.Error()),
			)
		}
		cancel()

		if uc.extCounter != nil {
			uc.extCounter.Add(1,
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
				observability.L("outcome", pubOutcome),
			)
		}
		if uc.extHistogram != nil {
			uc.extHistogram.Observe(time.Since(pubStart).Seconds(),
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
			)
		}
	}

	span.SetAttributes(attribute.String("order.id", entity.ID))
	span.AddEvent("order.created",
		trace.WithAttributes(attribute.String("order.id", entity.ID)),
	)

	profile := uc.projector.Project(entity)
	logger.Info("creation_completed", observability.F("order_id", entity.ID))

	return profile, nil
}

// shortID derives a compact operation identifier from a UUID.
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
