package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/betsim/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implements ports.Notifier and renders the reporting views.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify prints the cycle's arbitrage opportunities: a one-line summary by
// default, the full table with -table.
func (c *Console) Notify(_ context.Context, opportunities []domain.ArbitrageOpportunity) error {
	now := time.Now().Format("15:04:05")
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no arbitrage found\n", now)
		return nil
	}

	if !c.table {
		best := opportunities[0]
		for _, opp := range opportunities[1:] {
			if opp.ProfitMargin > best.ProfitMargin {
				best = opp
			}
		}
		fmt.Fprintf(c.out, "[%s] %d arbitrage opportunities — best %.2f%% (%s %s)\n",
			now, len(opportunities), best.ProfitMargin*100, best.GameID, best.Market)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %d arbitrage opportunities\n", now, len(opportunities))
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Game", "Market", "Line", "Legs", "Margin", "Stake", "Profit")
	for i, opp := range opportunities {
		line := "-"
		if opp.LinePoint != nil {
			line = fmt.Sprintf("%.1f", *opp.LinePoint)
		}
		legs := make([]string, 0, len(opp.Legs))
		for _, leg := range opp.Legs {
			legs = append(legs, fmt.Sprintf("%s %s %+d", leg.Book, leg.Side, leg.Odds))
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.GameID,
			string(opp.Market),
			line,
			strings.Join(legs, " / "),
			fmt.Sprintf("%.2f%%", opp.ProfitMargin*100),
			fmt.Sprintf("$%.2f", opp.TotalStake),
			fmt.Sprintf("$%.2f", opp.GuaranteedProfit()),
		)
	}
	table.Render()
	return nil
}

// PrintPerformance renders the ledger-wide performance view.
func (c *Console) PrintPerformance(perf domain.Performance) {
	fmt.Fprintf(c.out, "\n=== PERFORMANCE ===\n")
	fmt.Fprintf(c.out, "Bankroll: $%.2f (started $%.2f, net %+.2f)\n",
		perf.CurrentBankroll, perf.StartingBankroll, perf.NetProfit)
	fmt.Fprintf(c.out, "Bets: %d (W:%d L:%d P:%d)  win rate %.1f%%  ROI %+.2f%%  avg CLV %+.2f\n",
		perf.TotalBets, perf.Wins, perf.Losses, perf.Pushes,
		perf.WinRate*100, perf.ROI*100, perf.AvgCLV)
}

// PrintGroups renders per-strategy or per-sport performance rows.
func (c *Console) PrintGroups(title string, groups []domain.GroupPerformance) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(c.out, "\n%s\n", title)
	table := tablewriter.NewWriter(c.out)
	table.Header("Group", "Bets", "W-L-P", "Win%", "Staked", "Profit", "ROI", "Sharpe", "MaxDD")
	for _, g := range groups {
		table.Append(
			g.Group,
			fmt.Sprintf("%d", g.TotalBets),
			fmt.Sprintf("%d-%d-%d", g.Wins, g.Losses, g.Pushes),
			fmt.Sprintf("%.1f", g.WinRate*100),
			fmt.Sprintf("$%.2f", g.TotalStaked),
			fmt.Sprintf("%+.2f", g.TotalProfit),
			fmt.Sprintf("%+.2f%%", g.ROI*100),
			fmt.Sprintf("%.2f", g.SharpeRatio),
			fmt.Sprintf("$%.2f", g.MaxDrawdown),
		)
	}
	table.Render()
}

// PrintCLVReport renders the rolling CLV aggregates and the histogram.
func (c *Console) PrintCLVReport(report domain.CLVReport) {
	fmt.Fprintf(c.out, "\n=== CLOSING LINE VALUE (%d bets) ===\n", report.Count)
	fmt.Fprintf(c.out, "Average CLV: %+.2f\n", report.Average)

	printAvgMap(c.out, "By strategy:", report.ByStrategy)
	printAvgMap(c.out, "By sport:", report.BySport)

	d := report.Distribution
	fmt.Fprintf(c.out, "Distribution: >2: %d  (0,2]: %d  [-2,0]: %d  <-2: %d\n",
		d.HighlyPositive, d.Positive, d.Negative, d.HighlyNegative)
}

// PrintHistory renders the bet history table.
func (c *Console) PrintHistory(bets []domain.Bet) {
	if len(bets) == 0 {
		fmt.Fprintln(c.out, "no bets recorded")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Sport", "Market", "Selection", "Odds", "Stake", "Strategy", "Status", "Result", "Profit")
	for _, b := range bets {
		result, profit := "", ""
		if b.Settled() {
			result = string(b.Settlement.Result)
			profit = fmt.Sprintf("%+.2f", b.Settlement.Profit)
		}
		table.Append(
			b.ID, b.Sport, string(b.Market), b.Selection,
			fmt.Sprintf("%+d", b.Odds),
			fmt.Sprintf("$%.2f", b.Stake),
			b.Strategy, b.Status(), result, profit,
		)
	}
	table.Render()
}

func printAvgMap(out io.Writer, label string, avgs map[string]float64) {
	if len(avgs) == 0 {
		return
	}
	keys := make([]string, 0, len(avgs))
	for k := range avgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(out, "%s ", label)
	for i, k := range keys {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		fmt.Fprintf(out, "%s %+.2f", k, avgs[k])
	}
	fmt.Fprintln(out)
}
