package order

import "context"

// Repository is the narrow persistence contract the creation pipeline
// consumes. All string matching is case-insensitive exact match.
type Repository interface {
	// Add appends the order to the backing store, assigning its ID and
	// CreatedAt as a side effect.
	Add(ctx context.Context, order *Order) error
	// GetByISBN returns the stored order with the given ISBN, or ErrNotFound.
	GetByISBN(ctx context.Context, isbn string) (*Order, error)
	// ExistsTitleForAuthor reports whether any stored order matches both
	// title and author.
	ExistsTitleForAuthor(ctx context.Context, title, author string) (bool, error)
	// ExistsISBN reports whether any stored order carries the ISBN.
	ExistsISBN(ctx context.Context, isbn string) (bool, error)
	// CountAddedToday counts orders whose CreatedAt falls on the current
	// calendar day (UTC).
	CountAddedToday(ctx context.Context) (int, error)
}
