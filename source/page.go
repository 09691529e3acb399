package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"avtowatch/listing"
)

const (
	defaultBaseURL = "https://www.avto.net/"
	defaultTimeout = 30 * time.Second

	// The site serves results to anything that looks like a browser; bare
	// clients get a 403.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "sl-SI,sl;q=0.9,en;q=0.8",
	"Upgrade-Insecure-Requests": "1",
}

// PageConfig controls the results-page adapter.
type PageConfig struct {
	// URL of the search results page, filters included in the query string.
	URL string
	// BaseURL of the site, used to resolve relative ad links and to build the
	// warm-up requests. Defaults to the live site.
	BaseURL string
	// WarmupPaths are visited before the results URL so the collector's
	// cookie jar is populated and the results request carries a plausible
	// Referer. Defaults to the site root and the car search category page.
	WarmupPaths []string
	UserAgent   string
	Timeout     time.Duration
}

// Page fetches listings by scraping the search results markup. Each Fetch
// runs on a fresh collector so cookies never leak between cycles.
type Page struct {
	cfg PageConfig
}

// NewPage builds the markup adapter, applying defaults for every zero field
// except URL.
func NewPage(cfg PageConfig) *Page {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.WarmupPaths == nil {
		cfg.WarmupPaths = []string{"", "Ads/search_category.asp?SID=10000"}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Page{cfg: cfg}
}

// Name identifies the adapter in logs.
func (p *Page) Name() string { return "page" }

// Fetch retrieves and parses one results page. Warm-up failures are ignored;
// only the results request decides success.
func (p *Page) Fetch(ctx context.Context) ([]listing.Listing, error) {
	if p.cfg.URL == "" {
		return nil, errors.New("no results URL configured")
	}
	base, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := colly.NewCollector()
	c.UserAgent = p.cfg.UserAgent
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	c.SetRequestTimeout(p.cfg.Timeout)

	referer := ""
	warmingUp := true
	c.OnRequest(func(r *colly.Request) {
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
		if !warmingUp && referer != "" {
			r.Headers.Set("Referer", referer)
		}
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		if !warmingUp {
			body = r.Body
		}
	})

	done := make(chan error, 1)
	go func() {
		for _, path := range p.cfg.WarmupPaths {
			warmupURL := base.String()
			if path != "" {
				if u, err := url.Parse(path); err == nil {
					warmupURL = base.ResolveReference(u).String()
				}
			}
			if err := c.Visit(warmupURL); err == nil {
				referer = warmupURL
			}
		}
		warmingUp = false
		done <- c.Visit(p.cfg.URL)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("fetch results page: %w", err)
		}
	}

	if len(body) == 0 {
		return nil, errors.New("empty results page")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	return parseResults(doc, base), nil
}

// parseResults extracts every listing visible in the document. Rows that
// cannot be resolved to an ad link are skipped, never fatal.
func parseResults(doc *goquery.Document, base *url.URL) []listing.Listing {
	rows := findRows(doc)

	listings := make([]listing.Listing, 0, rows.Length())
	seen := make(map[string]bool)
	rows.Each(func(_ int, row *goquery.Selection) {
		l, ok := parseRow(row, base)
		if !ok || seen[l.ID] {
			return
		}
		seen[l.ID] = true
		listings = append(listings, l)
	})
	return listings
}

// findRows locates listing containers, trying the site's known layouts in
// order before falling back to the parents of ad links.
func findRows(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{
		"div.GO-Results-Row",
		"div.GO-Results-Row-Data",
		"div[data-id]",
		"article",
	} {
		if rows := doc.Find(sel); rows.Length() > 0 {
			return rows
		}
	}
	return doc.Find("a[href*='/oglasi/']").Parent()
}

func parseRow(row *goquery.Selection, base *url.URL) (listing.Listing, bool) {
	anchor := findAnchor(row)
	if anchor == nil {
		return listing.Listing{}, false
	}

	title := listing.NormalizeText(anchor.Text())
	if title == "" {
		return listing.Listing{}, false
	}

	href := anchor.AttrOr("href", "")
	if !strings.Contains(href, "/oglasi/") {
		return listing.Listing{}, false
	}
	adURL := resolveURL(base, href)

	rowText := row.Text()
	year := listing.YearNear(rowText, "Letnik")
	if year == 0 {
		year = listing.YearFromText(title)
	}

	price := findPrice(row)

	return listing.Listing{
		ID:          listing.IDFromURL(adURL),
		Title:       title,
		Year:        year,
		Price:       price,
		PriceAmount: listing.PriceAmount(price),
		URL:         adURL,
	}, true
}

func findAnchor(row *goquery.Selection) *goquery.Selection {
	if row.Is("a") {
		return row
	}
	for _, sel := range []string{"a.stretched-link", "a[href*='/oglasi/']", "a"} {
		if a := row.Find(sel).First(); a.Length() > 0 {
			return a
		}
	}
	return nil
}

// findPrice returns the display price for a row: the dedicated price element
// when present, otherwise the first short text fragment carrying a euro sign.
func findPrice(row *goquery.Selection) string {
	for _, sel := range []string{"span.cena", "div.cena"} {
		if t := listing.NormalizeText(row.Find(sel).First().Text()); t != "" {
			return t
		}
	}

	price := ""
	row.Find("span, div, td, b, strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := listing.NormalizeText(s.Text())
		if strings.Contains(t, "€") && len(t) <= 40 {
			price = t
			return false
		}
		return true
	})
	return price
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
