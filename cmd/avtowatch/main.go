// Command avtowatch runs one polling cycle against a classifieds search and
// notifies about listings not seen before. It is meant to be invoked on an
// external timer (cron, CI workflow) and always exits 0: fetch, parse and
// delivery failures are logged, never propagated, so a transient block by the
// source site does not trip the scheduler's failure alerting.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"avtowatch/config"
	"avtowatch/listing"
	"avtowatch/logging"
	"avtowatch/notify"
	"avtowatch/seenset"
	"avtowatch/source"
	"avtowatch/watcher"
)

func main() {
	configPath := flag.String("config", "avtowatch.yaml", "path to the config file")
	verbose := flag.Bool("verbose", false, "human-readable debug logging")
	flag.Parse()

	// Secrets may live in a local .env; absence is fine.
	_ = godotenv.Load()

	log, err := logging.New(*verbose)
	if err != nil {
		// Nothing sensible to do without a logger; still exit 0 per the
		// scheduler contract.
		os.Exit(0)
	}
	defer log.Sync()

	run(log, *configPath)
}

// run performs one cycle. It returns instead of exiting so main stays the
// only place deciding the (always-zero) exit status.
func run(log *zap.Logger, configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("invalid configuration, skipping cycle", zap.Error(err))
		return
	}
	if cfg.Source.URL == "" {
		log.Error("no source URL configured, skipping cycle",
			zap.String("config", configPath))
		return
	}

	store, closeStore := openStore(log, cfg)
	defer closeStore()

	src := buildSource(cfg)
	n := buildNotifier(log)

	w := watcher.New(src, criteriaFrom(cfg), store, n, log)
	out := w.Run(context.Background())

	if out.Status != watcher.StatusClean {
		log.Warn("cycle degraded", zap.String("status", string(out.Status)))
	}
}

func buildSource(cfg *config.Config) source.Source {
	if cfg.Source.Type == "feed" {
		return source.NewFeed(source.FeedConfig{
			URL:     cfg.Source.URL,
			Timeout: cfg.FetchTimeout(),
		})
	}
	return source.NewPage(source.PageConfig{
		URL:     cfg.Source.URL,
		Timeout: cfg.FetchTimeout(),
	})
}

// openStore opens the configured seen-set backend. When persistent storage
// cannot be opened the cycle still runs against an empty in-memory set, per
// the treat-broken-state-as-empty policy.
func openStore(log *zap.Logger, cfg *config.Config) (seenset.Store, func()) {
	if cfg.State.Type == "sqlite" {
		store, err := seenset.OpenSQLite(cfg.State.Path)
		if err != nil {
			log.Warn("cannot open seen-set database, running with empty set",
				zap.String("path", cfg.State.Path), zap.Error(err))
			return seenset.New(), func() {}
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close seen-set database", zap.Error(err))
			}
		}
	}
	return seenset.Open(cfg.State.Path), func() {}
}

func buildNotifier(log *zap.Logger) notify.Notifier {
	token, chatID, ok := config.TelegramCredentials()
	if !ok {
		log.Info("telegram credentials not set, notifications go to stdout")
		return notify.NewConsole(os.Stdout)
	}
	return notify.NewTelegram(token, chatID)
}

func criteriaFrom(cfg *config.Config) listing.Criteria {
	return listing.Criteria{
		Brand:   cfg.Criteria.Brand,
		Model:   cfg.Criteria.Model,
		YearMin: cfg.Criteria.YearMin,
		YearMax: cfg.Criteria.YearMax,
	}
}
