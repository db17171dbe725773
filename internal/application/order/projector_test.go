package order_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	app "github.com/bookforge/catalog/internal/application/order"
	domain "github.com/bookforge/catalog/internal/domain/order"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		Title:         "The Midnight Garden",
		Author:        "John Smith",
		ISBN:          "9781234567890",
		Category:      domain.CategoryFiction,
		Price:         decimal.NewFromInt(40),
		PublishedDate: time.Now().UTC().AddDate(-2, 0, 0),
		CoverImageURL: "https://cdn.example.com/cover.jpg",
		StockQuantity: 10,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestProject_PassThroughFields(t *testing.T) {
	o := sampleOrder()
	p := app.NewProjector().Project(o)

	if p.ID != o.ID || p.Title != o.Title || p.Author != o.Author || p.ISBN != o.ISBN {
		t.Fatalf("identity fields diverged: %+v", p)
	}
	if !p.Price.Equal(o.Price) {
		t.Fatalf("price = %s, want %s", p.Price, o.Price)
	}
	if p.FormattedPrice != "$40.00" {
		t.Fatalf("formatted price = %q", p.FormattedPrice)
	}
	if p.CoverImageURL != o.CoverImageURL {
		t.Fatalf("cover = %q", p.CoverImageURL)
	}
	if !p.IsAvailable {
		t.Fatal("10 units should be available")
	}
}

func TestProject_CategoryDisplayName(t *testing.T) {
	cases := []struct {
		category domain.Category
		want     string
	}{
		{domain.CategoryFiction, "Fiction & Literature"},
		{domain.CategoryNonFiction, "Non-Fiction"},
		{domain.CategoryTechnical, "Technical & Professional"},
		{domain.CategoryChildren, "Children's Orders"},
		{domain.Category("Mystery"), "Uncategorized"},
	}
	projector := app.NewProjector()
	for _, tc := range cases {
		o := sampleOrder()
		o.Category = tc.category
		if tc.category == domain.CategoryTechnical || tc.category == domain.CategoryChildren {
			o.Price = decimal.NewFromInt(30)
		}
		got := projector.Project(o).CategoryDisplayName
		if got != tc.want {
			t.Fatalf("category %q: display = %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestProject_ChildrenDiscountAndCoverSuppression(t *testing.T) {
	o := sampleOrder()
	o.Category = domain.CategoryChildren
	o.Price = decimal.NewFromInt(40)

	p := app.NewProjector().Project(o)

	if !p.Price.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("discounted price = %s, want 36", p.Price)
	}
	if p.FormattedPrice != "$36.00" {
		t.Fatalf("formatted price = %q", p.FormattedPrice)
	}
	if p.CoverImageURL != "" {
		t.Fatalf("cover should be suppressed, got %q", p.CoverImageURL)
	}
	// The entity itself must stay untouched.
	if !o.Price.Equal(decimal.NewFromInt(40)) || o.CoverImageURL == "" {
		t.Fatalf("projection mutated the entity: %+v", o)
	}
}

func TestProject_AuthorInitials(t *testing.T) {
	cases := []struct {
		author string
		want   string
	}{
		{"John Smith", "JS"},
		{"mary jane watson", "MW"},
		{"Madonna", "M"},
		{"  ", "?"},
	}
	projector := app.NewProjector()
	for _, tc := range cases {
		o := sampleOrder()
		o.Author = tc.author
		got := projector.Project(o).AuthorInitials
		if got != tc.want {
			t.Fatalf("author %q: initials = %q, want %q", tc.author, got, tc.want)
		}
	}
}

func TestProject_AvailabilityStatus(t *testing.T) {
	cases := []struct {
		stock int
		want  string
	}{
		{0, "Out of Stock"},
		{1, "Last Copy"},
		{3, "Limited Stock"},
		{5, "Limited Stock"},
		{6, "In Stock"},
		{500, "In Stock"},
	}
	projector := app.NewProjector()
	for _, tc := range cases {
		o := sampleOrder()
		o.StockQuantity = tc.stock
		p := projector.Project(o)
		if p.AvailabilityStatus != tc.want {
			t.Fatalf("stock %d: status = %q, want %q", tc.stock, p.AvailabilityStatus, tc.want)
		}
		if p.IsAvailable != (tc.stock > 0) {
			t.Fatalf("stock %d: isAvailable = %v", tc.stock, p.IsAvailable)
		}
	}
}

func TestProject_PublishedAge(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name      string
		published time.Time
		want      string
	}{
		{"ten days ago", now.AddDate(0, 0, -10), "New Release"},
		{"ninety days ago", now.AddDate(0, 0, -90), "3 months old"},
		{"four hundred days ago", now.AddDate(0, 0, -400), "1 years old"},
		{"eight hundred days ago", now.AddDate(0, 0, -800), "2 years old"},
	}
	projector := app.NewProjector()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := sampleOrder()
			o.PublishedDate = tc.published
			got := projector.Project(o).PublishedAge
			if got != tc.want {
				t.Fatalf("age = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProject_Idempotent(t *testing.T) {
	o := sampleOrder()
	projector := app.NewProjector()
	first := projector.Project(o)
	second := projector.Project(o)
	if first.FormattedPrice != second.FormattedPrice ||
		first.AuthorInitials != second.AuthorInitials ||
		first.AvailabilityStatus != second.AvailabilityStatus ||
		first.CategoryDisplayName != second.CategoryDisplayName {
		t.Fatalf("projections diverged: %+v vs %+v", first, second)
	}
}
