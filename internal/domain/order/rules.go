package order

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// RuleConfig carries the tunable rule inputs. It is loaded once at startup
// and never mutated afterwards.
type RuleConfig struct {
	DisallowedTerms         []string
	ChildrenRestrictedWords []string
	TechnicalKeywords       []string
}

const (
	titleMaxLen           = 200
	authorMinLen          = 2
	authorMaxLen          = 100
	stockMax              = 100_000
	highPriceStockMax     = 20
	premiumPriceStockMax  = 10
	technicalRecencyYears = 5
	fictionAuthorMinLen   = 5
)

var (
	priceMax          = decimal.NewFromInt(10_000)
	technicalMinPrice = decimal.NewFromInt(20)
	childrenMaxPrice  = decimal.NewFromInt(50)
	highPrice         = decimal.NewFromInt(100)
	premiumPrice      = decimal.NewFromInt(500)

	publishedFloor = time.Date(1400, time.January, 1, 0, 0, 0, 0, time.UTC)

	authorNamePattern = regexp.MustCompile(`^[\p{L} .'-]+$`)

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// Outcome is the result of one validation pass: valid iff no failures were
// collected. Failures keep the order in which the rules ran.
type Outcome struct {
	Failures []FieldError
}

func (o Outcome) Valid() bool { return len(o.Failures) == 0 }

func (o *Outcome) Add(field, message string) {
	o.Failures = append(o.Failures, FieldError{Field: field, Message: message})
}

// HasFailure reports whether any collected failure addresses the given field.
// The orchestrator uses it to gate lookups on their format rule having passed.
func (o Outcome) HasFailure(field string) bool {
	for _, f := range o.Failures {
		if f.Field == field {
			return true
		}
	}
	return false
}

// CheckFields runs every synchronous per-field predicate. Each failing
// predicate contributes exactly one failure; fields never short-circuit
// each other.
func CheckFields(d Draft, cfg RuleConfig, now time.Time) []FieldError {
	var out Outcome

	// Length bounds count characters, not bytes: the author pattern admits
	// any letter, so multibyte names must not hit the limits early.
	switch {
	case d.Title == "":
		out.Add("title", "Title cannot be empty.")
	case utf8.RuneCountInString(d.Title) > titleMaxLen:
		out.Add("title", "Title must be between 1 and 200 characters.")
	case containsAnyFold(d.Title, cfg.DisallowedTerms):
		out.Add("title", "Title contains inappropriate words.")
	}

	switch {
	case d.Author == "":
		out.Add("author", "Author cannot be empty.")
	case utf8.RuneCountInString(d.Author) < authorMinLen || utf8.RuneCountInString(d.Author) > authorMaxLen:
		out.Add("author", "Author must be between 2 and 100 characters.")
	case !authorNamePattern.MatchString(d.Author):
		out.Add("author", "Author contains invalid characters.")
	}

	switch {
	case d.ISBN == "":
		out.Add("isbn", "ISBN cannot be empty.")
	case !validISBN(d.ISBN):
		out.Add("isbn", "ISBN must be valid 10 or 13 digits format.")
	}

	if !d.Category.Known() {
		out.Add("category", "Category is invalid.")
	}

	if !d.Price.GreaterThan(decimal.Zero) {
		out.Add("price", "Price must be greater than zero.")
	} else if !d.Price.LessThan(priceMax) {
		out.Add("price", "Price must be less than $10,000.")
	}

	today := dateOf(now)
	if dateOf(d.PublishedDate).After(today) {
		out.Add("publishedDate", "Published date cannot be in the future.")
	} else if d.PublishedDate.Before(publishedFloor) {
		out.Add("publishedDate", "Published date cannot be before year 1400.")
	}

	if d.StockQuantity < 0 {
		out.Add("stockQuantity", "Stock cannot be negative.")
	} else if d.StockQuantity > stockMax {
		out.Add("stockQuantity", "Stock quantity exceeds allowed maximum.")
	}

	if strings.TrimSpace(d.CoverImageURL) != "" && !validImageURL(d.CoverImageURL) {
		out.Add("coverImageUrl", "CoverImageUrl must be a valid image URL.")
	}

	return out.Failures
}

// CheckCategory runs the category-gated rules and the cross-field
// constraints. The Technical recency constraint appears in two gates of the
// original rule book; it is kept as a single rule here so one violation
// produces one message.
func CheckCategory(d Draft, cfg RuleConfig, now time.Time) []FieldError {
	var out Outcome

	switch d.Category {
	case CategoryTechnical:
		if d.Price.LessThan(technicalMinPrice) {
			out.Add("price", "Technical orders must cost at least $20.00.")
		}
		if !containsAnyFold(d.Title, cfg.TechnicalKeywords) {
			out.Add("title", "Technical orders must include technical-related keywords in the title.")
		}
		if !withinLastYears(d.PublishedDate, now, technicalRecencyYears) {
			out.Add("publishedDate", "Technical orders must be published within the last 5 years.")
		}
	case CategoryChildren:
		if d.Price.GreaterThan(childrenMaxPrice) {
			out.Add("price", "Children's books must cost no more than $50.00.")
		}
		if containsAnyFold(d.Title, cfg.ChildrenRestrictedWords) {
			out.Add("title", "Children's book titles must not contain inappropriate words.")
		}
	case CategoryFiction:
		if utf8.RuneCountInString(d.Author) < fictionAuthorMinLen {
			out.Add("author", "Fiction authors must have at least 5 characters in their full name.")
		}
	}

	if d.Price.GreaterThan(highPrice) && d.StockQuantity > highPriceStockMax {
		out.Add("request", "Orders costing more than $100 must not exceed 20 units in stock.")
	}
	if d.Price.GreaterThan(premiumPrice) && d.StockQuantity > premiumPriceStockMax {
		out.Add("request", "Orders costing more than $500 must not exceed 10 units in stock.")
	}

	return out.Failures
}

func containsAnyFold(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// validISBN accepts 10 or 13 digits once hyphens and spaces are stripped.
func validISBN(isbn string) bool {
	digits := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	if len(digits) != 10 && len(digits) != 13 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func withinLastYears(date, now time.Time, years int) bool {
	return !dateOf(date).Before(dateOf(now).AddDate(-years, 0, 0))
}

// dateOf truncates to calendar-date precision; published dates carry no
// time-of-day semantics.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
