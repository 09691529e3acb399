// Package watcher runs one polling cycle: fetch the current listings, filter
// them, notify about the ones not seen before, and persist the grown
// seen-set. Every failure along the way is absorbed and logged — the process
// must look healthy to the external scheduler even when the source blocks us.
package watcher

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"avtowatch/listing"
	"avtowatch/notify"
	"avtowatch/seenset"
	"avtowatch/source"
)

// Status summarizes how a cycle went. The process exit code stays zero in
// every case; Status exists for logs and tests.
type Status string

const (
	// StatusClean: everything worked, whether or not new listings appeared.
	StatusClean Status = "clean"
	// StatusSourceDegraded: the source could not be fetched or parsed; the
	// cycle completed with zero listings.
	StatusSourceDegraded Status = "source_degraded"
	// StatusNotifyDegraded: at least one notification failed to deliver.
	StatusNotifyDegraded Status = "notify_degraded"
)

// Outcome reports the counters of one cycle.
type Outcome struct {
	RunID          uuid.UUID
	Status         Status
	Fetched        int
	Matched        int
	New            int
	Notified       int
	NotifyFailures int
	Started        time.Time
	Duration       time.Duration
	FlushErr       error
}

// Watcher wires one source, one seen-set store and one notifier into a
// single-pass run controller.
type Watcher struct {
	source   source.Source
	criteria listing.Criteria
	store    seenset.Store
	notifier notify.Notifier
	log      *zap.Logger
}

// New creates a watcher. A nil logger is replaced with a no-op one.
func New(src source.Source, crit listing.Criteria, store seenset.Store, n notify.Notifier, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		source:   src,
		criteria: crit,
		store:    store,
		notifier: n,
		log:      log,
	}
}

// Run executes one cycle. It never returns an error: fetch, notify and flush
// failures are logged and reflected in the Outcome instead.
func (w *Watcher) Run(ctx context.Context) Outcome {
	out := Outcome{
		RunID:   uuid.New(),
		Status:  StatusClean,
		Started: time.Now(),
	}
	log := w.log.With(
		zap.String("run_id", out.RunID.String()),
		zap.String("source", w.source.Name()),
	)

	fetched, err := w.source.Fetch(ctx)
	if err != nil {
		// Treated as zero new listings: transient blocking by the site must
		// not surface as a process failure.
		log.Warn("source fetch failed", zap.Error(err))
		out.Status = StatusSourceDegraded
	}
	out.Fetched = len(fetched)

	matched := listing.Filter(fetched, w.criteria)
	out.Matched = len(matched)

	for _, l := range matched {
		if w.store.Contains(l.ID) {
			continue
		}
		out.New++

		if err := w.notifier.Send(ctx, messageFor(l)); err != nil {
			log.Warn("notification failed",
				zap.String("notifier", w.notifier.Name()),
				zap.String("listing_id", l.ID),
				zap.Error(err))
			out.NotifyFailures++
			if out.Status == StatusClean {
				out.Status = StatusNotifyDegraded
			}
		} else {
			out.Notified++
			log.Info("notified about new listing",
				zap.String("listing_id", l.ID),
				zap.String("title", l.Title))
		}

		// The listing was genuinely observed even if delivery failed, so it
		// must not be re-notified next cycle.
		w.store.Record(l.ID)
	}

	if err := w.store.Flush(); err != nil {
		log.Error("failed to persist seen-set", zap.Error(err))
		out.FlushErr = err
	}

	out.Duration = time.Since(out.Started)
	log.Info("cycle completed",
		zap.String("status", string(out.Status)),
		zap.Int("fetched", out.Fetched),
		zap.Int("matched", out.Matched),
		zap.Int("new", out.New),
		zap.Int("notified", out.Notified),
		zap.Int("notify_failures", out.NotifyFailures),
		zap.Int("seen_total", w.store.Len()),
		zap.Duration("duration", out.Duration))
	return out
}

func messageFor(l listing.Listing) notify.Message {
	year := "N/A"
	if l.Year != 0 {
		year = strconv.Itoa(l.Year)
	}
	price := l.Price
	if price == "" {
		price = "N/A"
	}
	return notify.Message{
		Title: l.Title,
		Year:  year,
		Price: price,
		URL:   l.URL,
	}
}
