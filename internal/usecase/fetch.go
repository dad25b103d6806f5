package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/logging"
	"NewsNavigator/internal/ports"
)

const dayLayout = "2006-01-02"

// FetcherDeps carries the collaborators every source fetcher shares.
type FetcherDeps struct {
	Source   ports.EntrySource
	Enricher *enrichment.Client
	Logger   *slog.Logger
	// Now and Sleep default to the wall clock; tests replace them.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

func (d FetcherDeps) withDefaults(component string) FetcherDeps {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	d.Logger = d.Logger.With("component", component)
	if d.Enricher == nil {
		d.Enricher = enrichment.NewClient(nil, "", d.Logger)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = sleepContext
	}
	return d
}

// sleepContext waits d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fetchStats is logged once per fetch.
type fetchStats struct {
	saved     int
	skipped   int
	fallbacks int
}

// recoverFetch turns a panic inside a fetch into an error log; the named
// result keeps whatever was saved before it.
func recoverFetch(logger *slog.Logger, source string) {
	if r := recover(); r != nil {
		logger.Error("fetch aborted by panic", "source", source, "panic", r)
	}
}
