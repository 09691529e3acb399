package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMatches_BrandAndModelAndYearRange verifies the fully-constrained case
func TestMatches_BrandAndModelAndYearRange(t *testing.T) {
	c := Criteria{Brand: "BMW", Model: "320", YearMin: 2018, YearMax: 2023}

	l := Listing{Title: "BMW 320d 2019, servisna", Year: 2019}
	assert.True(t, Matches(l, c))

	other := Listing{Title: "Audi A4 2019", Year: 2019}
	assert.False(t, Matches(other, c), "different brand must not match")
}

// TestMatches_EmptyCriteria verifies that empty criteria match everything
func TestMatches_EmptyCriteria(t *testing.T) {
	l := Listing{Title: "Renault Clio 1.2", Year: 2009}
	assert.True(t, Matches(l, Criteria{}))
}

// TestMatches_CaseInsensitiveSubstring verifies brand/model matching rules
func TestMatches_CaseInsensitiveSubstring(t *testing.T) {
	l := Listing{Title: "HYUNDAI ix35 1.7 CRDi"}

	assert.True(t, Matches(l, Criteria{Brand: "hyundai"}))
	assert.True(t, Matches(l, Criteria{Model: "IX35"}))
	assert.False(t, Matches(l, Criteria{Model: "tucson"}))
}

// TestMatches_YearBounds verifies inclusive year range behavior
func TestMatches_YearBounds(t *testing.T) {
	c := Criteria{YearMin: 2010, YearMax: 2015}

	assert.True(t, Matches(Listing{Title: "a", Year: 2010}, c), "lower bound is inclusive")
	assert.True(t, Matches(Listing{Title: "a", Year: 2015}, c), "upper bound is inclusive")
	assert.False(t, Matches(Listing{Title: "a", Year: 2009}, c))
	assert.False(t, Matches(Listing{Title: "a", Year: 2016}, c))
}

// TestMatches_UnknownYearIsPermissive verifies that a listing without a
// parseable year is never excluded by year bounds.
func TestMatches_UnknownYearIsPermissive(t *testing.T) {
	c := Criteria{YearMin: 2018, YearMax: 2023}

	l := Listing{Title: "BMW 320d, odlicno ohranjen"}
	assert.True(t, Matches(l, c), "unknown year must pass year bounds")
}

// TestFilter_PreservesOrder verifies order-preserving subset selection
func TestFilter_PreservesOrder(t *testing.T) {
	listings := []Listing{
		{ID: "1", Title: "BMW 320d", Year: 2019},
		{ID: "2", Title: "Audi A4", Year: 2019},
		{ID: "3", Title: "BMW 318i", Year: 2012},
		{ID: "4", Title: "BMW 330e", Year: 2021},
	}

	got := Filter(listings, Criteria{Brand: "BMW", YearMin: 2015})
	ids := make([]string, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"1", "4"}, ids)
}

func TestYearFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"year in title", "BMW 320d 2019, servisna", 2019},
		{"no year", "BMW 320d, servisna knjiga", 0},
		{"displacement ignored", "Golf 1.9 TDI letnik 2008", 2008},
		{"out of range", "cena 7000 EUR", 0},
		{"five digit number", "prevozenih 12345 km", 0},
		{"year at end", "Hyundai ix35 2013", 2013},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearFromText(tt.text))
		})
	}
}

func TestYearNear(t *testing.T) {
	assert.Equal(t, 2020, YearNear("1.6 dCi Letnik: 2020 145000 km", "Letnik"))
	assert.Equal(t, 0, YearNear("1.6 dCi 145000 km", "Letnik"))
	// The marker anchors extraction past earlier numbers.
	assert.Equal(t, 2011, YearNear("prva registracija 2009 Letnik 2011", "Letnik"))
}

func TestPriceAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.500 €", 12500},
		{"7.999,50 EUR", 7999.50},
		{"6990 €", 6990},
		{"N/A", 0},
		{"", 0},
		{"Pokličite za ceno", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceAmount(tt.in), "input %q", tt.in)
	}
}

func TestIDFromURL(t *testing.T) {
	assert.Equal(t, "19584023",
		IDFromURL("https://www.avto.net/oglasi/hyundai-ix35/19584023"))
	assert.Equal(t, "19584023",
		IDFromURL("https://www.avto.net/oglasi/hyundai-ix35/19584023/"))
	// Degenerate inputs fall back to the raw URL so identity is stable.
	assert.Equal(t, "https://www.avto.net/", IDFromURL("https://www.avto.net/"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "BMW 320d xDrive", NormalizeText("  BMW\n 320d\t xDrive "))
}
