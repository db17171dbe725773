package order

import (
	"context"
	"fmt"
	"time"

	domain "github.com/bookforge/catalog/internal/domain/order"
	"github.com/bookforge/catalog/internal/observability"
	"github.com/bookforge/catalog/internal/observability/logctx"
)

// Validator composes the field, category, and async rule sets into a single
// pass. Failures from every set are aggregated; no rule short-circuits
// another, except that a lookup is skipped when the format rule for its own
// field already failed (a uniqueness probe on a malformed ISBN is
// meaningless).
type Validator struct {
	repo       domain.Repository
	rules      domain.RuleConfig
	dailyLimit int
	log        observability.Logger
	now        func() time.Time
}

func NewValidator(repo domain.Repository, rules domain.RuleConfig, dailyLimit int, logger observability.Logger) *Validator {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Validator{
		repo:       repo,
		rules:      rules,
		dailyLimit: dailyLimit,
		log:        logger.With(observability.F("component", "order_validator")),
		now:        time.Now,
	}
}

// Validate runs the full rule engine over the draft. The returned error is
// reserved for cancellation and repository failures; rule violations are
// reported through the Outcome only.
func (v *Validator) Validate(ctx context.Context, d domain.Draft) (domain.Outcome, error) {
	logger := logctx.FromOr(ctx, v.log)
	now := v.now()

	var out domain.Outcome
	out.Failures = append(out.Failures, domain.CheckFields(d, v.rules, now)...)
	out.Failures = append(out.Failures, domain.CheckCategory(d, v.rules, now)...)

	if !out.HasFailure("title") && !out.HasFailure("author") {
		if err := ctx.Err(); err != nil {
			return domain.Outcome{}, err
		}
		exists, err := v.repo.ExistsTitleForAuthor(ctx, d.Title, d.Author)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("order: title uniqueness lookup: %w", err)
		}
		logger.Info("uniqueness_check_performed",
			observability.F("check", "title_author"),
			observability.F("title", d.Title),
			observability.F("author", d.Author),
			observability.F("exists", exists),
		)
		if exists {
			out.Add("title", "Title must be unique for the same author.")
		}
	}

	if !out.HasFailure("isbn") {
		if err := ctx.Err(); err != nil {
			return domain.Outcome{}, err
		}
		exists, err := v.repo.ExistsISBN(ctx, d.ISBN)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("order: isbn uniqueness lookup: %w", err)
		}
		logger.Info("uniqueness_check_performed",
			observability.F("check", "isbn"),
			observability.F("isbn", d.ISBN),
			observability.F("exists", exists),
		)
		if exists {
			out.Add("isbn", "ISBN already exists.")
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, err
	}
	count, err := v.repo.CountAddedToday(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("order: daily volume lookup: %w", err)
	}
	logger.Info("daily_volume_check_performed",
		observability.F("count", count),
		observability.F("limit", v.dailyLimit),
	)
	if count >= v.dailyLimit {
		out.Add("request", "Daily order limit reached.")
	}

	return out, nil
}
