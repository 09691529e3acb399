// Package listing defines the normalized classified-ad record and the static
// filter criteria applied to it.
package listing

import (
	"strings"
	"time"
)

// Listing represents a single classified ad from the external source. Identity
// is the source-assigned ID; every other field is descriptive only.
type Listing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Year        int        `json:"year,omitempty"`
	Price       string     `json:"price,omitempty"`
	PriceAmount float64    `json:"price_amount,omitempty"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Criteria holds the static filter applied to fetched listings. Empty strings
// and zero years mean "unconstrained".
type Criteria struct {
	Brand   string
	Model   string
	YearMin int
	YearMax int
}

// Matches reports whether a listing satisfies every non-empty criterion.
// Brand and model are matched as case-insensitive substrings of the title. A
// listing whose year is unknown (zero) is never excluded by the year bounds.
func Matches(l Listing, c Criteria) bool {
	title := strings.ToLower(l.Title)

	if c.Brand != "" && !strings.Contains(title, strings.ToLower(c.Brand)) {
		return false
	}
	if c.Model != "" && !strings.Contains(title, strings.ToLower(c.Model)) {
		return false
	}

	if l.Year != 0 {
		if c.YearMin > 0 && l.Year < c.YearMin {
			return false
		}
		if c.YearMax > 0 && l.Year > c.YearMax {
			return false
		}
	}

	return true
}

// Filter returns the listings matching the criteria, preserving input order.
func Filter(listings []Listing, c Criteria) []Listing {
	matched := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, c) {
			matched = append(matched, l)
		}
	}
	return matched
}
