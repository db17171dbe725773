package order

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	domain "github.com/bookforge/catalog/internal/domain/order"
)

// Profile is the read-only presentation view of a persisted order. Every
// derived field is recomputed on each projection; nothing here is stored.
type Profile struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Author              string          `json:"author"`
	ISBN                string          `json:"isbn"`
	CategoryDisplayName string          `json:"categoryDisplayName"`
	Price               decimal.Decimal `json:"price"`
	FormattedPrice      string          `json:"formattedPrice"`
	PublishedDate       time.Time       `json:"publishedDate"`
	CreatedAt           time.Time       `json:"createdAt"`
	CoverImageURL       string          `json:"coverImageUrl,omitempty"`
	IsAvailable         bool            `json:"isAvailable"`
	StockQuantity       int             `json:"stockQuantity"`
	PublishedAge        string          `json:"publishedAge"`
	AuthorInitials      string          `json:"authorInitials"`
	AvailabilityStatus  string          `json:"availabilityStatus"`
}

var childrenDiscount = decimal.RequireFromString("0.9")

// Projector maps persisted orders to profiles. It holds no mutable state, so
// projecting the same order twice yields identical profiles.
type Projector struct {
	now func() time.Time
}

func NewProjector() *Projector {
	return &Projector{now: time.Now}
}

// Project computes the derived presentation fields from the entity. For the
// Children category the price is discounted by 10% and the cover image is
// suppressed; both adjustments apply only to the view, never to the entity.
func (p *Projector) Project(o *domain.Order) *Profile {
	price := o.Price
	coverImageURL := o.CoverImageURL
	if o.Category == domain.CategoryChildren {
		price = price.Mul(childrenDiscount)
		coverImageURL = ""
	}

	return &Profile{
		ID:                  o.ID,
		Title:               o.Title,
		Author:              o.Author,
		ISBN:                o.ISBN,
		CategoryDisplayName: categoryDisplayName(o.Category),
		Price:               price,
		FormattedPrice:      formatPrice(price),
		PublishedDate:       o.PublishedDate,
		CreatedAt:           o.CreatedAt,
		CoverImageURL:       coverImageURL,
		IsAvailable:         o.IsAvailable(),
		StockQuantity:       o.StockQuantity,
		PublishedAge:        publishedAge(o.PublishedDate, p.now()),
		AuthorInitials:      authorInitials(o.Author),
		AvailabilityStatus:  availabilityStatus(o),
	}
}

func categoryDisplayName(c domain.Category) string {
	switch c {
	case domain.CategoryFiction:
		return "Fiction & Literature"
	case domain.CategoryNonFiction:
		return "Non-Fiction"
	case domain.CategoryTechnical:
		return "Technical & Professional"
	case domain.CategoryChildren:
		return "Children's Orders"
	default:
		return "Uncategorized"
	}
}

func formatPrice(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}

func authorInitials(author string) string {
	if strings.TrimSpace(author) == "" {
		return "?"
	}
	names := strings.Fields(author)
	if len(names) >= 2 {
		return upperFirst(names[0]) + upperFirst(names[len(names)-1])
	}
	return upperFirst(names[0])
}

func upperFirst(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func availabilityStatus(o *domain.Order) string {
	if !o.IsAvailable() {
		return "Out of Stock"
	}
	// Unreachable: IsAvailable is false whenever stock is zero. Kept to match
	// the historical rule book.
	if o.StockQuantity == 0 {
		return "Unavailable"
	}
	if o.StockQuantity == 1 {
		return "Last Copy"
	}
	if o.StockQuantity <= 5 {
		return "Limited Stock"
	}
	return "In Stock"
}

func publishedAge(published, now time.Time) string {
	days := int(now.Sub(published).Hours() / 24)
	if days < 30 {
		return "New Release"
	}
	if days < 365 {
		return fmt.Sprintf("%d months old", days/30)
	}
	return fmt.Sprintf("%d years old", days/365)
}
