package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"avtowatch/listing"
)

// FeedConfig controls the RSS adapter.
type FeedConfig struct {
	// URL of the results RSS feed, filters included in the query string.
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// Feed fetches listings from the site's results RSS feed. The gofeed parser
// handles both RSS and Atom, so the adapter never inspects the format itself.
type Feed struct {
	cfg    FeedConfig
	parser *gofeed.Parser
}

// NewFeed builds the feed adapter.
func NewFeed(cfg FeedConfig) *Feed {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	parser.Client = &http.Client{Timeout: cfg.Timeout}

	return &Feed{cfg: cfg, parser: parser}
}

// Name identifies the adapter in logs.
func (f *Feed) Name() string { return "feed" }

// Fetch retrieves and parses one feed response. Entries without a link carry
// no identity and are skipped.
func (f *Feed) Fetch(ctx context.Context) ([]listing.Listing, error) {
	if f.cfg.URL == "" {
		return nil, errors.New("no feed URL configured")
	}

	feed, err := f.parser.ParseURLWithContext(f.cfg.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	listings := make([]listing.Listing, 0, len(feed.Items))
	for _, item := range feed.Items {
		l, ok := feedItemToListing(item)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// feedItemToListing maps one feed entry to a Listing. The entry link doubles
// as the listing identity, matching how the site keys its feed.
func feedItemToListing(item *gofeed.Item) (listing.Listing, bool) {
	link := listing.NormalizeText(item.Link)
	if link == "" {
		return listing.Listing{}, false
	}

	title := listing.NormalizeText(item.Title)

	var publishedAt *time.Time
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed
	}

	return listing.Listing{
		ID:          link,
		Title:       title,
		Year:        listing.YearFromText(title),
		URL:         link,
		PublishedAt: publishedAt,
	}, true
}
