package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/bookforge/catalog/internal/domain/order"
)

// OrderRepository is an append-only in-memory store. It is safe for
// concurrent use, but does not enforce ISBN uniqueness atomically: the
// pipeline's duplicate check and Add are separate calls, and the gap between
// them is accepted behaviour.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Add appends the order, assigning its identity and creation timestamp.
func (r *OrderRepository) Add(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil {
		return fmt.Errorf("order repository: order is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()
	r.orders = append(r.orders, order.Clone())
	return nil
}

func (r *OrderRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if strings.EqualFold(o.ISBN, isbn) {
			return o.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepository) ExistsTitleForAuthor(ctx context.Context, title, author string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if strings.EqualFold(o.Title, title) && strings.EqualFold(o.Author, author) {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderRepository) ExistsISBN(ctx context.Context, isbn string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if strings.EqualFold(o.ISBN, isbn) {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderRepository) CountAddedToday(ctx context.Context) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	count := 0
	for _, o := range r.orders {
		if o.CreatedAt.UTC().Truncate(24 * time.Hour).Equal(today) {
			count++
		}
	}
	return count, nil
}
