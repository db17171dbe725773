package order

import (
	"time"

	domain "github.com/bookforge/catalog/internal/domain/order"
	"github.com/bookforge/catalog/internal/observability"
)

// CreationMetrics is the per-attempt timing record emitted for every
// creation, successful or not. FailureReason is empty exactly when Success
// is true.
type CreationMetrics struct {
	OperationID        string
	Title              string
	ISBN               string
	Category           domain.Category
	ValidationDuration time.Duration
	SaveDuration       time.Duration
	TotalDuration      time.Duration
	Success            bool
	FailureReason      string
}

func logCreationMetrics(logger observability.Logger, m CreationMetrics) {
	status := "SUCCESS"
	if !m.Success {
		status = "FAILURE"
	}
	fields := []observability.Field{
		observability.F("operation_id", m.OperationID),
		observability.F("title", m.Title),
		observability.F("isbn", m.ISBN),
		observability.F("category", string(m.Category)),
		observability.F("validation_ms", m.ValidationDuration.Milliseconds()),
		observability.F("save_ms", m.SaveDuration.Milliseconds()),
		observability.F("total_ms", m.TotalDuration.Milliseconds()),
		observability.F("status", status),
	}
	if m.FailureReason != "" {
		fields = append(fields, observability.F("error", m.FailureReason))
	}
	logger.Info("order_creation_metrics", fields...)
}
