package main

import (
	"log/slog"
	"os"

	"github.com/alejandrodnm/betsim/internal/adapters/notify"
	"github.com/alejandrodnm/betsim/internal/application/analytics"
	"github.com/alejandrodnm/betsim/internal/application/clv"
	"github.com/alejandrodnm/betsim/internal/application/ledger"
	"github.com/alejandrodnm/betsim/internal/domain"
)

// runReport prints the full performance picture from whatever the ledger
// currently holds: overall metrics, breakdowns, and a CLV report rebuilt
// from settled history.
func runReport(book *ledger.Ledger, console *notify.Console) {
	console.PrintPerformance(book.Performance(0))

	history := book.History(domain.HistoryFilter{})
	console.PrintGroups("=== BY STRATEGY ===", analytics.ByStrategy(history))
	console.PrintGroups("=== BY SPORT ===", analytics.BySport(history))

	tracker := clv.NewTracker(len(history))
	for _, bet := range history {
		tracker.TrackBet(bet)
	}
	console.PrintCLVReport(tracker.Report())
}

// runExport writes the bet history as CSV to the given path.
func runExport(book *ledger.Ledger, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create export file", "err", err, "path", path)
		os.Exit(1)
	}
	defer f.Close()

	if err := book.ExportCSV(f); err != nil {
		slog.Error("export failed", "err", err, "path", path)
		os.Exit(1)
	}
	slog.Info("history exported", "path", path, "bets", len(book.History(domain.HistoryFilter{})))
}
