package order_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookforge/catalog/internal/domain/order"
)

var testRules = order.RuleConfig{
	DisallowedTerms:         []string{"badword1", "badword2"},
	ChildrenRestrictedWords: []string{"violent", "adult", "horror"},
	TechnicalKeywords: []string{
		"software", "programming", "cloud", "database", "system",
		"ai", "algorithm", "machine learning", "engineering", "devops",
	},
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func validDraft() order.Draft {
	return order.Draft{
		Title:         "The Midnight Garden",
		Author:        "Jane Austen",
		ISBN:          "9781234567890",
		Category:      order.CategoryFiction,
		Price:         decimal.NewFromFloat(29.99),
		PublishedDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		StockQuantity: 10,
	}
}

func failureFor(failures []order.FieldError, field string) (order.FieldError, bool) {
	for _, f := range failures {
		if f.Field == field {
			return f, true
		}
	}
	return order.FieldError{}, false
}

func TestCheckFields_ValidDraft(t *testing.T) {
	failures := order.CheckFields(validDraft(), testRules, testNow)
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %+v", failures)
	}
}

func TestCheckFields_Title(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		message string
	}{
		{"empty", "", "Title cannot be empty."},
		{"too long", strings.Repeat("x", 201), "Title must be between 1 and 200 characters."},
		{"disallowed term", "A badword1 story", "Title contains inappropriate words."},
		{"disallowed term case-insensitive", "A BADWORD2 story", "Title contains inappropriate words."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			d.Title = tc.title
			failures := order.CheckFields(d, testRules, testNow)
			f, ok := failureFor(failures, "title")
			if !ok {
				t.Fatalf("expected a title failure, got %+v", failures)
			}
			if f.Message != tc.message {
				t.Fatalf("message = %q, want %q", f.Message, tc.message)
			}
		})
	}

	t.Run("max length is allowed", func(t *testing.T) {
		d := validDraft()
		d.Title = strings.Repeat("x", 200)
		failures := order.CheckFields(d, testRules, testNow)
		if _, ok := failureFor(failures, "title"); ok {
			t.Fatalf("200-character title should pass, got %+v", failures)
		}

		d.Title = strings.Repeat("Ж", 200) // 200 letters, 400 bytes
		failures = order.CheckFields(d, testRules, testNow)
		if _, ok := failureFor(failures, "title"); ok {
			t.Fatalf("200-letter Cyrillic title should pass, got %+v", failures)
		}
	})
}

func TestCheckFields_Author(t *testing.T) {
	cases := []struct {
		name    string
		author  string
		message string
	}{
		{"empty", "", "Author cannot be empty."},
		{"too short", "A", "Author must be between 2 and 100 characters."},
		{"too long", strings.Repeat("a", 101), "Author must be between 2 and 100 characters."},
		{"digits rejected", "Jane 4usten", "Author contains invalid characters."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			d.Author = tc.author
			failures := order.CheckFields(d, testRules, testNow)
			f, ok := failureFor(failures, "author")
			if !ok {
				t.Fatalf("expected an author failure, got %+v", failures)
			}
			if f.Message != tc.message {
				t.Fatalf("message = %q, want %q", f.Message, tc.message)
			}
		})
	}

	t.Run("punctuation and accents allowed", func(t *testing.T) {
		for _, author := range []string{"Mary O'Brien", "J. R. Tolkien-Smith", "Gabriel García Márquez"} {
			d := validDraft()
			d.Author = author
			failures := order.CheckFields(d, testRules, testNow)
			if _, ok := failureFor(failures, "author"); ok {
				t.Fatalf("author %q should pass, got %+v", author, failures)
			}
		}
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		d := validDraft()
		d.Author = strings.Repeat("Ж", 60) // 60 letters, 120 bytes
		failures := order.CheckFields(d, testRules, testNow)
		if _, ok := failureFor(failures, "author"); ok {
			t.Fatalf("60-letter Cyrillic author should pass, got %+v", failures)
		}

		d.Author = strings.Repeat("Ж", 101)
		failures = order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "author")
		if !ok || f.Message != "Author must be between 2 and 100 characters." {
			t.Fatalf("101-letter author should fail the bounds, got %+v", failures)
		}
	})
}

func TestCheckFields_ISBN(t *testing.T) {
	cases := []struct {
		name string
		isbn string
		ok   bool
	}{
		{"ten digits", "1234567890", true},
		{"thirteen digits", "9781234567890", true},
		{"hyphenated thirteen", "978-1-2345-6789-0", true},
		{"spaced ten", "1 234 567 890", true},
		{"eleven digits", "12345678901", false},
		{"letters", "123456789X", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			d.ISBN = tc.isbn
			failures := order.CheckFields(d, testRules, testNow)
			_, failed := failureFor(failures, "isbn")
			if tc.ok && failed {
				t.Fatalf("isbn %q should pass, got %+v", tc.isbn, failures)
			}
			if !tc.ok && !failed {
				t.Fatalf("isbn %q should fail", tc.isbn)
			}
		})
	}

	t.Run("empty has its own message", func(t *testing.T) {
		d := validDraft()
		d.ISBN = ""
		failures := order.CheckFields(d, testRules, testNow)
		f, _ := failureFor(failures, "isbn")
		if f.Message != "ISBN cannot be empty." {
			t.Fatalf("message = %q", f.Message)
		}
	})
}

func TestCheckFields_CategoryPriceStock(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		d := validDraft()
		d.Category = order.Category("Cookbook")
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "category")
		if !ok || f.Message != "Category is invalid." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("zero price", func(t *testing.T) {
		d := validDraft()
		d.Price = decimal.Zero
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "price")
		if !ok || f.Message != "Price must be greater than zero." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("price at ceiling", func(t *testing.T) {
		d := validDraft()
		d.Price = decimal.NewFromInt(10_000)
		d.StockQuantity = 5
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "price")
		if !ok || f.Message != "Price must be less than $10,000." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("negative stock", func(t *testing.T) {
		d := validDraft()
		d.StockQuantity = -1
		failures := order.CheckFields(d, testRules, testNow)
		if _, ok := failureFor(failures, "stockQuantity"); !ok {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("stock above maximum", func(t *testing.T) {
		d := validDraft()
		d.StockQuantity = 100_001
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "stockQuantity")
		if !ok || f.Message != "Stock quantity exceeds allowed maximum." {
			t.Fatalf("got %+v", failures)
		}
	})
}

func TestCheckFields_PublishedDate(t *testing.T) {
	t.Run("future date", func(t *testing.T) {
		d := validDraft()
		d.PublishedDate = testNow.AddDate(0, 0, 1)
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "publishedDate")
		if !ok || f.Message != "Published date cannot be in the future." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("same calendar day is not future", func(t *testing.T) {
		d := validDraft()
		d.PublishedDate = time.Date(2026, time.March, 15, 23, 0, 0, 0, time.UTC)
		failures := order.CheckFields(d, testRules, testNow)
		if _, ok := failureFor(failures, "publishedDate"); ok {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("before 1400", func(t *testing.T) {
		d := validDraft()
		d.PublishedDate = time.Date(1399, time.December, 31, 0, 0, 0, 0, time.UTC)
		failures := order.CheckFields(d, testRules, testNow)
		f, ok := failureFor(failures, "publishedDate")
		if !ok || f.Message != "Published date cannot be before year 1400." {
			t.Fatalf("got %+v", failures)
		}
	})
}

func TestCheckFields_CoverImageURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		ok   bool
	}{
		{"absent", "", true},
		{"https jpg", "https://cdn.example.com/covers/a.jpg", true},
		{"http png", "http://cdn.example.com/a.png", true},
		{"webp with query", "https://cdn.example.com/a.webp?w=300", true},
		{"no extension", "https://cdn.example.com/a", false},
		{"relative path", "/covers/a.jpg", false},
		{"ftp scheme", "ftp://cdn.example.com/a.jpg", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			d.CoverImageURL = tc.url
			failures := order.CheckFields(d, testRules, testNow)
			_, failed := failureFor(failures, "coverImageUrl")
			if tc.ok && failed {
				t.Fatalf("url %q should pass, got %+v", tc.url, failures)
			}
			if !tc.ok && !failed {
				t.Fatalf("url %q should fail", tc.url)
			}
		})
	}
}

func TestCheckFields_AggregatesAcrossFields(t *testing.T) {
	d := order.Draft{
		Category:      order.Category("Nope"),
		Price:         decimal.Zero,
		PublishedDate: testNow.AddDate(1, 0, 0),
		StockQuantity: -5,
	}
	failures := order.CheckFields(d, testRules, testNow)
	for _, field := range []string{"title", "author", "isbn", "category", "price", "publishedDate", "stockQuantity"} {
		if _, ok := failureFor(failures, field); !ok {
			t.Fatalf("expected a failure for %q, got %+v", field, failures)
		}
	}
}

func TestCheckCategory_Technical(t *testing.T) {
	technical := func() order.Draft {
		d := validDraft()
		d.Category = order.CategoryTechnical
		d.Title = "Cloud Database Systems"
		d.Price = decimal.NewFromInt(45)
		d.PublishedDate = testNow.AddDate(-1, 0, 0)
		return d
	}

	t.Run("valid", func(t *testing.T) {
		failures := order.CheckCategory(technical(), testRules, testNow)
		if len(failures) != 0 {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("price just below floor", func(t *testing.T) {
		d := technical()
		d.Price = decimal.RequireFromString("19.99")
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "price")
		if !ok || f.Message != "Technical orders must cost at least $20.00." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("price at floor", func(t *testing.T) {
		d := technical()
		d.Price = decimal.NewFromInt(20)
		failures := order.CheckCategory(d, testRules, testNow)
		if _, ok := failureFor(failures, "price"); ok {
			t.Fatalf("$20.00 should satisfy the floor, got %+v", failures)
		}
	})

	t.Run("missing keyword", func(t *testing.T) {
		d := technical()
		d.Title = "A Quiet Evening"
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "title")
		if !ok || f.Message != "Technical orders must include technical-related keywords in the title." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("stale publication", func(t *testing.T) {
		d := technical()
		d.PublishedDate = testNow.AddDate(-5, 0, -1)
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "publishedDate")
		if !ok || f.Message != "Technical orders must be published within the last 5 years." {
			t.Fatalf("got %+v", failures)
		}
		if len(failures) != 1 {
			t.Fatalf("recency violation should produce one message, got %+v", failures)
		}
	})

	t.Run("exactly five years old", func(t *testing.T) {
		d := technical()
		d.PublishedDate = testNow.AddDate(-5, 0, 0)
		failures := order.CheckCategory(d, testRules, testNow)
		if _, ok := failureFor(failures, "publishedDate"); ok {
			t.Fatalf("boundary date should pass, got %+v", failures)
		}
	})
}

func TestCheckCategory_Children(t *testing.T) {
	children := func() order.Draft {
		d := validDraft()
		d.Category = order.CategoryChildren
		d.Price = decimal.NewFromInt(15)
		return d
	}

	t.Run("price above cap", func(t *testing.T) {
		d := children()
		d.Price = decimal.RequireFromString("50.01")
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "price")
		if !ok || f.Message != "Children's books must cost no more than $50.00." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("price at cap", func(t *testing.T) {
		d := children()
		d.Price = decimal.NewFromInt(50)
		failures := order.CheckCategory(d, testRules, testNow)
		if _, ok := failureFor(failures, "price"); ok {
			t.Fatalf("$50.00 should pass, got %+v", failures)
		}
	})

	t.Run("restricted word", func(t *testing.T) {
		d := children()
		d.Title = "A Horror for Bedtime"
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "title")
		if !ok || f.Message != "Children's book titles must not contain inappropriate words." {
			t.Fatalf("got %+v", failures)
		}
	})
}

func TestCheckCategory_Fiction(t *testing.T) {
	d := validDraft()
	d.Author = "Amy"
	failures := order.CheckCategory(d, testRules, testNow)
	f, ok := failureFor(failures, "author")
	if !ok || f.Message != "Fiction authors must have at least 5 characters in their full name." {
		t.Fatalf("got %+v", failures)
	}

	d.Author = "J. Roe"
	failures = order.CheckCategory(d, testRules, testNow)
	if _, ok := failureFor(failures, "author"); ok {
		t.Fatalf("6-character name should pass, got %+v", failures)
	}

	// Three Cyrillic letters are six bytes but still too short.
	d.Author = "Жан"
	failures = order.CheckCategory(d, testRules, testNow)
	if _, ok := failureFor(failures, "author"); !ok {
		t.Fatalf("3-letter name should fail regardless of byte width, got %+v", failures)
	}
}

func TestCheckCategory_CrossFieldStockCaps(t *testing.T) {
	t.Run("over 100 with 21 units", func(t *testing.T) {
		d := validDraft()
		d.Price = decimal.RequireFromString("100.01")
		d.StockQuantity = 21
		failures := order.CheckCategory(d, testRules, testNow)
		f, ok := failureFor(failures, "request")
		if !ok || f.Message != "Orders costing more than $100 must not exceed 20 units in stock." {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("exactly 100 exempt", func(t *testing.T) {
		d := validDraft()
		d.Price = decimal.NewFromInt(100)
		d.StockQuantity = 1000
		failures := order.CheckCategory(d, testRules, testNow)
		if _, ok := failureFor(failures, "request"); ok {
			t.Fatalf("got %+v", failures)
		}
	})

	t.Run("over 500 with 11 units trips both caps", func(t *testing.T) {
		d := validDraft()
		d.Price = decimal.NewFromInt(600)
		d.StockQuantity = 11
		failures := order.CheckCategory(d, testRules, testNow)
		if _, ok := failureFor(failures, "request"); !ok {
			t.Fatalf("got %+v", failures)
		}
		found := false
		for _, f := range failures {
			if f.Message == "Orders costing more than $500 must not exceed 10 units in stock." {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected the premium cap message, got %+v", failures)
		}
	})
}

func TestOutcome_HasFailure(t *testing.T) {
	var out order.Outcome
	if !out.Valid() {
		t.Fatal("zero outcome should be valid")
	}
	out.Add("isbn", "ISBN must be valid 10 or 13 digits format.")
	if out.Valid() {
		t.Fatal("outcome with a failure should be invalid")
	}
	if !out.HasFailure("isbn") || out.HasFailure("title") {
		t.Fatalf("unexpected field index: %+v", out.Failures)
	}
}
