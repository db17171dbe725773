package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of catalog categories. The zero value is not a
// member; display code treats anything outside the set as uncategorized.
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "NonFiction"
	CategoryTechnical  Category = "Technical"
	CategoryChildren   Category = "Children"
)

// Known reports whether c is one of the recognised categories.
func (c Category) Known() bool {
	switch c {
	case CategoryFiction, CategoryNonFiction, CategoryTechnical, CategoryChildren:
		return true
	}
	return false
}

// Draft is a validated-or-not request to create an order. It is immutable
// once received; the rule engine only reads it.
type Draft struct {
	Title         string
	Author        string
	ISBN          string
	Category      Category
	Price         decimal.Decimal
	PublishedDate time.Time
	CoverImageURL string
	StockQuantity int
}

// Order is the persisted catalog entity. The repository owns it after Add;
// ID and CreatedAt are assigned there and never reassigned.
type Order struct {
	ID            string
	Title         string
	Author        string
	ISBN          string
	Category      Category
	Price         decimal.Decimal
	PublishedDate time.Time
	CoverImageURL string
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// FromDraft builds the transient entity the creation pipeline hands to the
// repository. Identity and CreatedAt are left for the repository to assign.
func FromDraft(d Draft) *Order {
	return &Order{
		Title:         d.Title,
		Author:        d.Author,
		ISBN:          d.ISBN,
		Category:      d.Category,
		Price:         d.Price,
		PublishedDate: d.PublishedDate,
		CoverImageURL: d.CoverImageURL,
		StockQuantity: d.StockQuantity,
	}
}

// IsAvailable is derived from stock on every read so it cannot diverge from
// the persisted quantity.
func (o *Order) IsAvailable() bool { return o.StockQuantity > 0 }

// Clone returns a deep copy so repository internals never leak shared state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		clone.UpdatedAt = &t
	}
	return &clone
}
