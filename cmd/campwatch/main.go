// Command campwatch watches campground availability and notifies when new
// campsites open up.
//
// A search is defined either by a YAML search file (--search-file) or by
// flags. One-off searches print their results and exit; continuous mode
// (--continuous, --search-forever, or a search file that asks for it) polls
// on an interval and dispatches notifications, exposing Prometheus metrics
// while it runs. --cron runs one search per schedule tick instead of a
// steady polling loop.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"campwatch/internal/config"
	"campwatch/internal/domain/entity"
	pgrepo "campwatch/internal/infra/adapter/persistence/postgres"
	"campwatch/internal/infra/db"
	"campwatch/internal/infra/notifier"
	"campwatch/internal/infra/provider/recreationgov"
	"campwatch/internal/observability/logging"
	"campwatch/internal/provider"
	"campwatch/internal/repository"
	"campwatch/internal/usecase/notify"
	"campwatch/internal/usecase/search"
	pkgconfig "campwatch/pkg/config"
)

// options collects the command-line surface. Flags override the search file
// when both are given.
type options struct {
	searchFile string

	providerName string
	campgrounds  string
	recAreas     string
	query        string
	campsites    string
	startDate    string
	endDate      string
	nights       int
	weekendsOnly bool
	weekdays     string
	equipment    string

	continuous      bool
	searchForever   bool
	notifyFirstTry  bool
	pollingInterval time.Duration
	cronSpec        string
	notifications   string
	ledgerPath      string

	listCampgrounds bool
	listRecAreas    bool
}

func parseFlags(args []string) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("campwatch", flag.ContinueOnError)

	fs.StringVar(&opts.searchFile, "search-file", "", "YAML search definition")

	fs.StringVar(&opts.providerName, "provider", recreationgov.Name, "provider adapter to search against")
	fs.StringVar(&opts.campgrounds, "campground", "", "comma-separated campground IDs")
	fs.StringVar(&opts.recAreas, "rec-area", "", "comma-separated recreation area IDs")
	fs.StringVar(&opts.query, "query", "", "free-text campground search")
	fs.StringVar(&opts.campsites, "campsite", "", "comma-separated campsite IDs to keep")
	fs.StringVar(&opts.startDate, "start-date", "", "first night to search (YYYY-MM-DD)")
	fs.StringVar(&opts.endDate, "end-date", "", "last night to search (YYYY-MM-DD)")
	fs.IntVar(&opts.nights, "nights", 1, "minimum consecutive nights")
	fs.BoolVar(&opts.weekendsOnly, "weekends", false, "only search Friday and Saturday nights")
	fs.StringVar(&opts.weekdays, "day", "", "comma-separated weekday names to search")
	fs.StringVar(&opts.equipment, "equipment", "", "comma-separated equipment names (e.g. Tent,RV)")

	fs.BoolVar(&opts.continuous, "continuous", false, "poll until new campsites are found")
	fs.BoolVar(&opts.searchForever, "search-forever", false, "keep polling after the first match")
	fs.BoolVar(&opts.notifyFirstTry, "notify-first-try", false, "notify everything found on the first poll")
	fs.DurationVar(&opts.pollingInterval, "polling-interval", 0, "delay between polls (minimum 5m)")
	fs.StringVar(&opts.cronSpec, "cron", "", "cron schedule; one search per tick instead of steady polling")
	fs.StringVar(&opts.notifications, "notifications", "", "comma-separated channels (silent, slack, discord, webhook)")
	fs.StringVar(&opts.ledgerPath, "offline-search", "", "JSON file persisting the notification ledger across restarts")

	fs.BoolVar(&opts.listCampgrounds, "list-campgrounds", false, "resolve and list matching campgrounds, then exit")
	fs.BoolVar(&opts.listRecAreas, "list-rec-areas", false, "list recreation areas matching --query, then exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	opts, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fs); err != nil {
		logger.Error("campwatch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, fs *flag.FlagSet) error {
	envCfg := config.FromEnv()

	sf, err := resolveSearch(opts, fs)
	if err != nil {
		return err
	}

	adapter, err := buildAdapter(sf.Provider, envCfg)
	if err != nil {
		return err
	}

	metadata, closeDB, err := openMetadataIndex(ctx, envCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeDB()

	if opts.listRecAreas {
		return listRecreationAreas(ctx, adapter, opts.query, metadata)
	}

	if opts.listCampgrounds {
		return listCampgrounds(ctx, adapter, sf, metadata)
	}

	params, err := buildParams(sf)
	if err != nil {
		return err
	}

	orchestrator := search.NewOrchestrator(adapter, nil)

	if singleShot(sf, opts.cronSpec) {
		return searchOnce(ctx, orchestrator, params)
	}

	dispatcher, err := buildDispatcher(sf.Notifications)
	if err != nil {
		return err
	}

	var store search.LedgerStore
	if sf.OfflineSearch != "" {
		store = &search.FileLedger{Path: sf.OfflineSearch}
	}

	engine := search.NewEngine(orchestrator, dispatcher, store, search.EngineConfig{
		PollingInterval: sf.PollingInterval.Duration,
		SearchForever:   sf.SearchForever,
		NotifyFirstTry:  sf.NotifyFirstTry,
	})

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return runMetricsServer(ctx, envCfg.MetricsPort)
	})
	group.Go(func() error {
		if opts.cronSpec != "" {
			return runOnSchedule(ctx, engine, params, opts.cronSpec)
		}
		return engine.Run(ctx, params)
	})
	return group.Wait()
}

// buildAdapter wires the requested provider. The registry is the seam for
// future providers; recreation.gov is the only one today.
func buildAdapter(name string, envCfg config.Config) (provider.Adapter, error) {
	registry := provider.NewRegistry()

	recgov, err := recreationgov.New(recreationgov.ClientConfig{APIKey: envCfg.RIDBAPIKey})
	if err != nil {
		return nil, err
	}
	registry.Register(recgov)

	return registry.Lookup(name)
}

// resolveSearch builds the search definition from the YAML file, then lets
// explicitly set flags override individual fields.
func resolveSearch(opts *options, fs *flag.FlagSet) (*config.SearchFile, error) {
	sf := &config.SearchFile{}
	if opts.searchFile != "" {
		loaded, err := config.LoadSearchFile(opts.searchFile)
		if err != nil {
			return nil, err
		}
		sf = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["provider"] || sf.Provider == "" {
		sf.Provider = opts.providerName
	}
	if set["continuous"] {
		sf.Continuous = opts.continuous
	}

	applyList := func(name, value string, dst *config.StringList) {
		if set[name] {
			*dst = splitList(value)
		}
	}
	applyList("campground", opts.campgrounds, &sf.Campground)
	applyList("rec-area", opts.recAreas, &sf.RecreationArea)
	applyList("campsite", opts.campsites, &sf.Campsites)
	applyList("day", opts.weekdays, &sf.DaysOfTheWeek)
	applyList("equipment", opts.equipment, &sf.Equipment)
	applyList("notifications", opts.notifications, &sf.Notifications)

	if set["query"] {
		sf.Query = opts.query
	}
	if set["nights"] {
		sf.Nights = opts.nights
	}
	if set["weekends"] {
		sf.WeekendsOnly = opts.weekendsOnly
	}
	if set["search-forever"] {
		sf.SearchForever = opts.searchForever
	}
	if set["notify-first-try"] {
		sf.NotifyFirstTry = opts.notifyFirstTry
	}
	if set["polling-interval"] {
		sf.PollingInterval = config.Duration{Duration: opts.pollingInterval}
	}
	if set["offline-search"] {
		sf.OfflineSearch = opts.ledgerPath
	}
	if set["start-date"] || set["end-date"] {
		window, err := parseWindow(opts.startDate, opts.endDate)
		if err != nil {
			return nil, err
		}
		sf.StartDate = config.Date{Time: window.StartDate}
		sf.EndDate = config.Date{Time: window.EndDate}
	}

	return sf, nil
}

func parseWindow(start, end string) (entity.SearchWindow, error) {
	if start == "" || end == "" {
		return entity.SearchWindow{}, fmt.Errorf("%w: both --start-date and --end-date are required", entity.ErrInvalidInput)
	}
	startDate, err := time.Parse(entity.DateLayout, start)
	if err != nil {
		return entity.SearchWindow{}, fmt.Errorf("%w: invalid --start-date %q", entity.ErrInvalidInput, start)
	}
	endDate, err := time.Parse(entity.DateLayout, end)
	if err != nil {
		return entity.SearchWindow{}, fmt.Errorf("%w: invalid --end-date %q", entity.ErrInvalidInput, end)
	}
	return entity.SearchWindow{StartDate: startDate, EndDate: endDate}, nil
}

// buildParams converts the resolved search definition into engine params.
func buildParams(sf *config.SearchFile) (search.Params, error) {
	weekdays, err := sf.Weekdays()
	if err != nil {
		return search.Params{}, err
	}

	var equipment []entity.Equipment
	for _, name := range sf.Equipment {
		equipment = append(equipment, entity.Equipment{Name: name})
	}

	return search.Params{
		Criteria:     sf.Criteria(),
		Windows:      sf.SearchWindows(),
		Nights:       sf.Nights,
		WeekendsOnly: sf.WeekendsOnly,
		DaysOfWeek:   weekdays,
		CampsiteIDs:  sf.Campsites,
		Equipment:    equipment,
	}, nil
}

// buildDispatcher resolves the configured notification channels, reading
// webhook credentials from the environment.
func buildDispatcher(names []string) (*notify.Dispatcher, error) {
	channelCfg := notify.ChannelConfig{
		Slack: notifier.SlackConfig{
			WebhookURL: pkgconfig.GetEnvString("SLACK_WEBHOOK_URL", ""),
		},
		Discord: notifier.DiscordConfig{
			WebhookURL: pkgconfig.GetEnvString("DISCORD_WEBHOOK_URL", ""),
		},
		Webhook: notifier.WebhookConfig{
			URL:     pkgconfig.GetEnvString("NOTIFY_WEBHOOK_URL", ""),
			Headers: parseHeaders(pkgconfig.GetEnvStringList("NOTIFY_WEBHOOK_HEADERS", nil)),
		},
	}

	channels, err := notify.BuildChannels(names, channelCfg)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(channels...)
	slog.Info("notification channels configured",
		slog.Any("channels", dispatcher.ChannelNames()))
	return dispatcher, nil
}

// parseHeaders turns "Name=Value" pairs into a header map.
func parseHeaders(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			slog.Warn("ignoring malformed webhook header", slog.String("pair", pair))
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers
}

// singleShot reports whether the resolved search runs exactly once and
// prints, rather than engaging the polling engine. search_once forces it;
// otherwise any continuous signal (continuous, search_forever, a cron
// schedule, or configured notification channels) means polling.
func singleShot(sf *config.SearchFile, cronSpec string) bool {
	if sf.SearchOnce {
		return true
	}
	return !sf.Continuous && !sf.SearchForever && cronSpec == "" && len(sf.Notifications) == 0
}

// searchOnce runs a single search and prints the results.
func searchOnce(ctx context.Context, orchestrator *search.Orchestrator, params search.Params) error {
	results, err := orchestrator.Run(ctx, params)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no campsites matching the search criteria are currently available")
		return nil
	}
	fmt.Printf("%d available campsite(s):\n", len(results))
	for _, site := range results {
		fmt.Printf("  %s\n    %s\n", site, site.BookingURL)
	}
	return nil
}

// runOnSchedule runs one search iteration per cron tick until the context
// is cancelled. The engine's ledger is shared across ticks, so a campsite
// is only ever notified once.
func runOnSchedule(ctx context.Context, engine *search.Engine, params search.Params, spec string) error {
	scheduler := cron.New()
	var tickErr error

	_, err := scheduler.AddFunc(spec, func() {
		if err := engine.RunOnce(ctx, params); err != nil {
			if isConfigError(err) {
				tickErr = err
				return
			}
			slog.Error("scheduled search failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: invalid cron schedule %q: %v", entity.ErrInvalidInput, spec, err)
	}

	slog.Info("cron schedule started", slog.String("schedule", spec))
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	if tickErr != nil {
		return tickErr
	}
	return nil
}

// isConfigError reports whether an error is a configuration problem that
// retrying on the next tick cannot fix.
func isConfigError(err error) bool {
	var verr *entity.ValidationError
	return errors.Is(err, entity.ErrNoSearchDays) ||
		errors.Is(err, entity.ErrNoSearchTargets) ||
		errors.Is(err, entity.ErrInvalidInput) ||
		errors.As(err, &verr)
}

// openMetadataIndex connects to the optional Postgres metadata index. An
// empty DSN disables the index; the search path never needs it.
func openMetadataIndex(ctx context.Context, dsn string) (repository.MetadataRepository, func(), error) {
	if dsn == "" {
		return nil, func() {}, nil
	}

	database, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata index: %w", err)
	}
	if err := db.MigrateUp(database); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("metadata index migration: %w", err)
	}

	closeDB := func() { closeQuietly(database) }
	return pgrepo.NewMetadataRepo(database), closeDB, nil
}

func closeQuietly(database *sql.DB) {
	if err := database.Close(); err != nil {
		slog.Error("failed to close metadata index", slog.String("error", err.Error()))
	}
}

// listRecreationAreas prints the recreation areas matching a query and
// refreshes the metadata index with them.
func listRecreationAreas(ctx context.Context, adapter provider.Adapter, query string, metadata repository.MetadataRepository) error {
	if query == "" {
		return fmt.Errorf("%w: --list-rec-areas requires --query", entity.ErrInvalidInput)
	}

	areas, err := adapter.FindRecreationAreas(ctx, query)
	if err != nil {
		return err
	}
	for _, area := range areas {
		fmt.Println(area)
	}

	if metadata != nil && len(areas) > 0 {
		if err := metadata.UpsertRecreationAreas(ctx, areas); err != nil {
			slog.Warn("metadata index refresh failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

// listCampgrounds resolves the campground selector and prints the matching
// facilities. Results refresh the metadata index; if the provider is
// unreachable and an index exists, the cached copy is listed instead.
func listCampgrounds(ctx context.Context, adapter provider.Adapter, sf *config.SearchFile, metadata repository.MetadataRepository) error {
	criteria := sf.Criteria()
	if err := criteria.Validate(); err != nil {
		return err
	}

	facilities, err := adapter.FindCampgrounds(ctx, criteria)
	if err != nil {
		if metadata == nil {
			return err
		}
		slog.Warn("provider lookup failed, listing cached campgrounds",
			slog.String("error", err.Error()))
		facilities, err = cachedCampgrounds(ctx, metadata, adapter.Name(), criteria.Query)
		if err != nil {
			return err
		}
	} else if metadata != nil && len(facilities) > 0 {
		if err := metadata.UpsertCampgrounds(ctx, adapter.Name(), facilities); err != nil {
			slog.Warn("metadata index refresh failed", slog.String("error", err.Error()))
		}
	}

	for _, facility := range facilities {
		fmt.Println(facility)
	}
	return nil
}

func cachedCampgrounds(ctx context.Context, metadata repository.MetadataRepository, providerName, query string) ([]entity.CampgroundFacility, error) {
	if query != "" {
		return metadata.SearchCampgrounds(ctx, providerName, query)
	}
	return metadata.ListCampgrounds(ctx, providerName)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
