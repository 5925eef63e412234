package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campwatch/internal/domain/entity"
	"campwatch/internal/observability/metrics"
)

const (
	// PollingIntervalMinimum is the floor for the continuous polling
	// interval. Reservation providers block clients that poll faster.
	PollingIntervalMinimum = 5 * time.Minute

	// RecommendedPollingInterval is the default polling interval.
	RecommendedPollingInterval = 10 * time.Minute

	// MinimumFirstNotify is the new-campsite count above which a
	// first-iteration result is treated as stale backlog rather than a
	// fresh cancellation wave.
	MinimumFirstNotify = 5

	// MaximumNotificationBatch caps the campsites included in any single
	// notification dispatch.
	MaximumNotificationBatch = 20
)

// Searcher runs one availability search. Implemented by Orchestrator.
type Searcher interface {
	Run(ctx context.Context, params Params) ([]entity.AvailableCampsite, error)
}

// Notifier is the outbound side of the continuous engine. Implemented by the
// notification dispatcher.
type Notifier interface {
	// SendCampsites broadcasts newly found campsites to every configured
	// channel.
	SendCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error

	// SendMessage broadcasts a plain text message to every configured
	// channel.
	SendMessage(ctx context.Context, message string) error

	// HasNonSilent reports whether any configured channel reaches a human.
	HasNonSilent() bool
}

// EngineConfig tunes the continuous search loop.
type EngineConfig struct {
	// PollingInterval is the delay between search iterations. Values below
	// PollingIntervalMinimum are raised to it; zero means
	// RecommendedPollingInterval.
	PollingInterval time.Duration

	// SearchForever keeps polling after a match instead of stopping at the
	// first successful notification.
	SearchForever bool

	// NotifyFirstTry sends everything found on the first iteration instead
	// of applying the stale-backlog heuristic.
	NotifyFirstTry bool
}

// Engine polls for availability until new campsites appear, deduplicates
// against everything already notified, and fans the genuinely new ones out
// through the notifier.
type Engine struct {
	searcher Searcher
	notifier Notifier
	store    LedgerStore
	cfg      EngineConfig

	seen     map[entity.CampsiteIdentity]entity.AvailableCampsite
	loaded   bool
	attempts int
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewEngine builds a continuous search engine. A nil store keeps the
// notification ledger in memory only.
func NewEngine(searcher Searcher, notifier Notifier, store LedgerStore, cfg EngineConfig) *Engine {
	if cfg.PollingInterval == 0 {
		cfg.PollingInterval = RecommendedPollingInterval
	}
	if cfg.PollingInterval < PollingIntervalMinimum {
		slog.Warn("polling interval raised to the minimum allowed",
			slog.Duration("requested", cfg.PollingInterval),
			slog.Duration("minimum", PollingIntervalMinimum))
		cfg.PollingInterval = PollingIntervalMinimum
	}
	if store == nil {
		store = MemoryLedger{}
	}
	return &Engine{
		searcher: searcher,
		notifier: notifier,
		store:    store,
		cfg:      cfg,
		seen:     make(map[entity.CampsiteIdentity]entity.AvailableCampsite),
		sleep:    ctxSleep,
	}
}

// Run polls until new campsites are found and notified (or forever when
// configured so). A cancelled context is a graceful stop, not an error.
// Configuration errors stop the loop immediately, after a final message to
// the notification channels so a silently dying watcher does not go
// unnoticed.
func (e *Engine) Run(ctx context.Context, params Params) error {
	if err := e.loadLedger(); err != nil {
		return err
	}

	slog.Info("continuous search started",
		slog.Duration("polling_interval", e.cfg.PollingInterval),
		slog.Bool("search_forever", e.cfg.SearchForever),
		slog.Int("ledger", len(e.seen)))

	for attempt := 1; ; attempt++ {
		results, err := e.searcher.Run(ctx, params)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			slog.Info("continuous search stopped", slog.Int("attempts", attempt))
			return nil
		case isFatal(err):
			e.lastGasp(err)
			return err
		default:
			slog.Error("search iteration failed, waiting for the next poll",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}

		if newSites := e.dedupe(results); len(newSites) > 0 {
			e.notify(ctx, newSites, attempt)
			if !e.cfg.SearchForever {
				return nil
			}
		} else if err == nil {
			slog.Info("no new campsites found", slog.Int("attempt", attempt))
		}

		if err := e.sleep(ctx, e.cfg.PollingInterval); err != nil {
			slog.Info("continuous search stopped", slog.Int("attempts", attempt))
			return nil
		}
	}
}

// RunOnce executes a single search iteration against the shared ledger.
// It is the scheduled-run entry point: each invocation searches once,
// notifies about anything genuinely new, and returns. The ledger is loaded
// on the first call and carried across calls, so repeated invocations never
// re-notify.
func (e *Engine) RunOnce(ctx context.Context, params Params) error {
	if err := e.loadLedger(); err != nil {
		return err
	}

	e.attempts++
	results, err := e.searcher.Run(ctx, params)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	case isFatal(err):
		e.lastGasp(err)
		return err
	default:
		return fmt.Errorf("search iteration %d: %w", e.attempts, err)
	}

	if newSites := e.dedupe(results); len(newSites) > 0 {
		e.notify(ctx, newSites, e.attempts)
	} else {
		slog.Info("no new campsites found", slog.Int("attempt", e.attempts))
	}
	return nil
}

// loadLedger hydrates the in-memory ledger from the store exactly once per
// engine lifetime.
func (e *Engine) loadLedger() error {
	if e.loaded {
		return nil
	}
	loaded, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("loading notification ledger: %w", err)
	}
	e.seen = loaded
	e.loaded = true
	metrics.UpdateLedgerSize(len(e.seen))
	return nil
}

// dedupe returns the campsites not yet recorded in the ledger, records
// them, and persists the updated ledger.
func (e *Engine) dedupe(results []entity.AvailableCampsite) []entity.AvailableCampsite {
	var newSites []entity.AvailableCampsite
	for _, site := range results {
		id := site.Identity()
		if _, known := e.seen[id]; known {
			continue
		}
		e.seen[id] = site
		newSites = append(newSites, site)
	}
	if len(newSites) == 0 {
		return nil
	}
	if err := e.store.Save(e.seen); err != nil {
		slog.Error("notification ledger could not be persisted",
			slog.String("error", err.Error()))
	}
	metrics.UpdateLedgerSize(len(e.seen))
	return newSites
}

// notify applies the volume policy and dispatches the surviving batch.
// Truncation is announced through the channels themselves, so a subscriber
// knows more was found than they are being told about.
func (e *Engine) notify(ctx context.Context, newSites []entity.AvailableCampsite, attempt int) {
	batch, warnings := e.applyVolumePolicy(newSites, attempt)
	for _, warning := range warnings {
		if err := e.notifier.SendMessage(ctx, warning); err != nil {
			slog.Error("truncation notice failed", slog.String("error", err.Error()))
		}
	}
	if len(batch) == 0 {
		return
	}
	metrics.RecordNotificationBatch(len(batch))
	if err := e.notifier.SendCampsites(ctx, batch); err != nil {
		slog.Error("campsite notification failed",
			slog.Int("campsites", len(batch)),
			slog.String("error", err.Error()))
	}
}

// applyVolumePolicy trims a batch of newly found campsites before dispatch.
//
// After the first iteration every new campsite is a real-time cancellation,
// so the batch is only capped at MaximumNotificationBatch. On the first
// iteration a large batch usually means long-standing availability the
// caller has simply not seen yet; unless NotifyFirstTry is set, anything
// beyond MinimumFirstNotify is held back to avoid drowning human channels
// in stale results. Each truncation yields a warning message for the
// channels alongside the log entry.
func (e *Engine) applyVolumePolicy(newSites []entity.AvailableCampsite, attempt int) ([]entity.AvailableCampsite, []string) {
	var warnings []string
	firstTry := attempt == 1 && !e.cfg.NotifyFirstTry
	if firstTry && e.notifier.HasNonSilent() && len(newSites) > MinimumFirstNotify {
		msg := fmt.Sprintf("found %d matching campsites on the first try, these may be long-standing availability; only notifying about the first %d",
			len(newSites), MinimumFirstNotify)
		slog.Warn(msg)
		warnings = append(warnings, msg)
		newSites = newSites[:MinimumFirstNotify]
	}
	if len(newSites) > MaximumNotificationBatch {
		msg := fmt.Sprintf("too many new campsites for one dispatch (%d found); only notifying about the first %d",
			len(newSites), MaximumNotificationBatch)
		slog.Warn(msg)
		warnings = append(warnings, msg)
		newSites = newSites[:MaximumNotificationBatch]
	}
	return newSites, warnings
}

// lastGasp tells every channel the watcher is going down and why. Errors
// here are logged and dropped; the fatal error itself is what matters.
func (e *Engine) lastGasp(cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	msg := fmt.Sprintf("campsite search has exited with an error: %s", cause)
	if err := e.notifier.SendMessage(ctx, msg); err != nil {
		slog.Error("final error notification failed", slog.String("error", err.Error()))
	}
}

// isFatal reports whether a search error is a configuration problem that no
// amount of polling will fix.
func isFatal(err error) bool {
	var verr *entity.ValidationError
	return errors.Is(err, entity.ErrNoSearchDays) ||
		errors.Is(err, entity.ErrNoSearchTargets) ||
		errors.Is(err, entity.ErrInvalidInput) ||
		errors.Is(err, entity.ErrNotFound) ||
		errors.As(err, &verr)
}

// ctxSleep waits for d or until the context is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
