package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/betsim/config"
	"github.com/alejandrodnm/betsim/internal/adapters/feeds"
	"github.com/alejandrodnm/betsim/internal/adapters/notify"
	"github.com/alejandrodnm/betsim/internal/adapters/storage"
	"github.com/alejandrodnm/betsim/internal/application/arb"
	"github.com/alejandrodnm/betsim/internal/application/clv"
	"github.com/alejandrodnm/betsim/internal/application/engine"
	"github.com/alejandrodnm/betsim/internal/application/ledger"
	"github.com/alejandrodnm/betsim/internal/application/risk"
	"github.com/alejandrodnm/betsim/internal/domain"
	"github.com/alejandrodnm/betsim/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one simulation cycle and exit")
	table := flag.Bool("table", false, "print full opportunity tables")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	report := flag.Bool("report", false, "print performance + CLV report and exit")
	exportPath := flag.String("export", "", "export bet history to CSV at the given path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("betsim starting",
		"config", *configPath,
		"interval", cfg.Interval(),
		"sports", cfg.Simulation.Sports,
		"providers", cfg.Odds.Providers,
	)

	var store ports.LedgerStorage
	if cfg.Storage.DSN != "none" {
		sqlite, err := storage.NewSQLite(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlite.Close()
		store = sqlite
	}

	book := ledger.New(cfg.Simulation.StartingBankroll, store)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := book.Restore(ctx); err != nil {
		slog.Error("failed to restore ledger state", "err", err)
		os.Exit(1)
	}

	console := notify.NewConsoleWriter(os.Stdout, *table)

	switch {
	case *report:
		runReport(book, console)
		return
	case *exportPath != "":
		runExport(book, *exportPath)
		return
	}

	mock := feeds.NewMock(cfg.Odds.MockSeed)
	odds := buildOddsProvider(cfg, mock)

	governor := risk.New(domain.RiskLimits{
		MaxDailyLossPct:   cfg.Risk.MaxDailyLossPct,
		MaxDrawdownPct:    cfg.Risk.MaxDrawdownPct,
		MaxConcurrentBets: cfg.Risk.MaxConcurrentBets,
		KellyFraction:     cfg.Risk.KellyFraction,
		MaxBetPct:         cfg.Risk.MaxBetPct,
	})

	eng := engine.New(
		engine.Config{
			Sports:        cfg.Simulation.Sports,
			Interval:      cfg.Interval(),
			ArbStakePct:   cfg.Simulation.ArbStakePct,
			MinEdgePoints: cfg.Simulation.MinEdgePoints,
			MinConfidence: cfg.Simulation.MinConfidence,
		},
		odds,
		mock, // results source: the mock grades its own games
		mock, // model source: opaque predictions
		book,
		governor,
		arb.New(cfg.Arbitrage.MinProfitMargin),
		clv.NewTracker(cfg.CLV.Window),
		console,
	)

	if *once {
		if _, err := eng.RunOnce(ctx); err != nil {
			slog.Error("cycle failed", "err", err)
			os.Exit(1)
		}
		runReport(book, console)
		return
	}

	runLoop(ctx, eng)
	runReport(book, console)
	slog.Info("betsim stopped cleanly")
}

// buildOddsProvider assembles the ordered fallback chain from config.
func buildOddsProvider(cfg *config.Config, mock *feeds.Mock) ports.OddsProvider {
	var providers []ports.OddsProvider
	for _, name := range cfg.Odds.Providers {
		switch name {
		case "odds-api":
			if cfg.Odds.APIKey == "" {
				slog.Warn("odds-api provider configured without ODDS_API_KEY, skipping")
				continue
			}
			providers = append(providers, feeds.NewOddsAPI(cfg.Odds.APIBase, cfg.Odds.APIKey))
		case "mock":
			providers = append(providers, mock)
		default:
			slog.Warn("unknown odds provider in config, skipping", "provider", name)
		}
	}
	if len(providers) == 0 {
		providers = []ports.OddsProvider{mock}
	}
	if len(providers) == 1 {
		return providers[0]
	}
	return feeds.NewChain(providers...)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
