package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// exportColumns is the fixed export schema. Existing consumers parse exports
// by position, so the order must never change.
var exportColumns = []string{
	"id", "timestamp", "sport", "game_id", "bet_type", "selection",
	"odds", "stake", "strategy", "sportsbook", "status", "result",
	"profit", "closing_line", "clv", "settled_at",
}

// ExportCSV writes the full bet history to w in the fixed column order.
// Unset optional fields are written as empty strings.
func (l *Ledger) ExportCSV(w io.Writer) error {
	bets := l.History(domain.HistoryFilter{})

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("ledger.ExportCSV: header: %w", err)
	}

	for _, b := range bets {
		row := []string{
			b.ID,
			b.PlacedAt.Format(time.RFC3339),
			b.Sport,
			b.GameID,
			string(b.Market),
			b.Selection,
			strconv.Itoa(b.Odds),
			strconv.FormatFloat(b.Stake, 'f', 2, 64),
			b.Strategy,
			b.Sportsbook,
			b.Status(),
			"", // result
			strconv.FormatFloat(b.Profit(), 'f', 2, 64),
			"", // closing_line
			"", // clv
			"", // settled_at
		}
		if s := b.Settlement; s != nil {
			row[11] = string(s.Result)
			if s.ClosingOdds != nil {
				row[13] = strconv.Itoa(*s.ClosingOdds)
			}
			if s.CLV != nil {
				row[14] = strconv.FormatFloat(*s.CLV, 'f', 4, 64)
			}
			row[15] = s.SettledAt.Format(time.RFC3339)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ledger.ExportCSV: row %s: %w", b.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
