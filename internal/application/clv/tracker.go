package clv

import (
	"log/slog"
	"sync"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// DefaultWindow is the trailing number of settled bets the aggregates cover.
const DefaultWindow = 100

// Record is one tracked CLV observation.
type Record struct {
	BetID    string
	Sport    string
	Strategy string
	CLV      float64
}

// Tracker maintains rolling CLV aggregates over the trailing window of
// settled bets. CLV is the long-run skill signal: beat the closing line
// consistently and the results follow, whatever individual bets do.
type Tracker struct {
	mu      sync.Mutex
	window  int
	records []Record
}

// NewTracker creates a tracker over the trailing window (DefaultWindow when
// window <= 0).
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window}
}

// Track records one CLV observation, evicting the oldest once the window is
// full.
func (t *Tracker) Track(betID, sport, strategy string, clv float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, Record{BetID: betID, Sport: sport, Strategy: strategy, CLV: clv})
	if len(t.records) > t.window {
		t.records = t.records[len(t.records)-t.window:]
	}
	slog.Debug("clv tracked", "bet", betID, "clv", clv, "records", len(t.records))
}

// TrackBet records a settled bet that carries a CLV value. Bets without one
// are ignored.
func (t *Tracker) TrackBet(bet domain.Bet) {
	if bet.Settlement == nil || bet.Settlement.CLV == nil {
		return
	}
	t.Track(bet.ID, bet.Sport, bet.Strategy, *bet.Settlement.CLV)
}

// Average returns the mean CLV over the window, optionally filtered by
// strategy and/or sport (empty string matches all).
func (t *Tracker) Average(strategy, sport string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	sum, n := 0.0, 0
	for _, r := range t.records {
		if strategy != "" && r.Strategy != strategy {
			continue
		}
		if sport != "" && r.Sport != sport {
			continue
		}
		sum += r.CLV
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Distribution returns the bucket histogram over the window.
func (t *Tracker) Distribution() domain.CLVDistribution {
	t.mu.Lock()
	defer t.mu.Unlock()
	var d domain.CLVDistribution
	for _, r := range t.records {
		switch domain.BucketCLV(r.CLV) {
		case domain.CLVHighlyPositive:
			d.HighlyPositive++
		case domain.CLVPositive:
			d.Positive++
		case domain.CLVNegative:
			d.Negative++
		case domain.CLVHighlyNegative:
			d.HighlyNegative++
		}
		d.Total++
	}
	return d
}

// Report builds the full aggregate view: overall average, per-strategy and
// per-sport averages, and the bucket histogram.
func (t *Tracker) Report() domain.CLVReport {
	t.mu.Lock()
	byStrategy := make(map[string]float64)
	bySport := make(map[string]float64)
	strategies := make(map[string]struct{})
	sports := make(map[string]struct{})
	for _, r := range t.records {
		if r.Strategy != "" {
			strategies[r.Strategy] = struct{}{}
		}
		if r.Sport != "" {
			sports[r.Sport] = struct{}{}
		}
	}
	count := len(t.records)
	t.mu.Unlock()

	for s := range strategies {
		byStrategy[s] = t.Average(s, "")
	}
	for s := range sports {
		bySport[s] = t.Average("", s)
	}

	return domain.CLVReport{
		Average:      t.Average("", ""),
		Count:        count,
		ByStrategy:   byStrategy,
		BySport:      bySport,
		Distribution: t.Distribution(),
	}
}
