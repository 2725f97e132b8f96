package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/betsim/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS bets (
    id           TEXT PRIMARY KEY,
    placed_at    DATETIME NOT NULL,
    game_id      TEXT     NOT NULL,
    sport        TEXT     NOT NULL,
    bet_type     TEXT     NOT NULL,
    selection    TEXT     NOT NULL,
    odds         INTEGER  NOT NULL,
    stake        REAL     NOT NULL,
    strategy     TEXT     NOT NULL,
    sportsbook   TEXT     NOT NULL DEFAULT '',
    line_point   REAL,
    status       TEXT     NOT NULL,
    result       TEXT,
    profit       REAL     NOT NULL DEFAULT 0,
    closing_odds INTEGER,
    clv          REAL,
    settled_at   DATETIME
);

-- One row: the bankroll snapshot plus the bet counter.
CREATE TABLE IF NOT EXISTS ledger_meta (
    id                INTEGER PRIMARY KEY CHECK (id = 1),
    bankroll          REAL     NOT NULL,
    starting_bankroll REAL     NOT NULL,
    peak_bankroll     REAL     NOT NULL,
    bet_counter       INTEGER  NOT NULL,
    last_updated      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bets_status   ON bets(status);
CREATE INDEX IF NOT EXISTS idx_bets_sport    ON bets(sport);
CREATE INDEX IF NOT EXISTS idx_bets_strategy ON bets(strategy);
`

// SQLite implements ports.LedgerStorage with the pure-Go driver (no CGo).
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for tests.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLite: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveBet inserts a newly placed bet.
func (s *SQLite) SaveBet(ctx context.Context, bet domain.Bet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (id, placed_at, game_id, sport, bet_type, selection,
		                  odds, stake, strategy, sportsbook, line_point, status,
		                  result, profit, closing_odds, clv, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bet.ID, bet.PlacedAt, bet.GameID, bet.Sport, string(bet.Market),
		bet.Selection, bet.Odds, bet.Stake, bet.Strategy, bet.Sportsbook,
		bet.LinePoint, bet.Status(),
		nil, 0.0, nil, nil, nil,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveBet: %s: %w", bet.ID, err)
	}
	return nil
}

// UpdateBet rewrites the settlement columns of an existing bet.
func (s *SQLite) UpdateBet(ctx context.Context, bet domain.Bet) error {
	st := bet.Settlement
	if st == nil {
		return fmt.Errorf("storage.UpdateBet: %s: bet is not settled", bet.ID)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE bets
		SET status = ?, result = ?, profit = ?, closing_odds = ?, clv = ?, settled_at = ?
		WHERE id = ?`,
		bet.Status(), string(st.Result), st.Profit, st.ClosingOdds, st.CLV, st.SettledAt, bet.ID,
	)
	if err != nil {
		return fmt.Errorf("storage.UpdateBet: %s: %w", bet.ID, err)
	}
	return nil
}

// SaveMeta upserts the single bankroll/counter row.
func (s *SQLite) SaveMeta(ctx context.Context, bankroll domain.Bankroll, betCounter int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_meta (id, bankroll, starting_bankroll, peak_bankroll, bet_counter, last_updated)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bankroll          = excluded.bankroll,
			starting_bankroll = excluded.starting_bankroll,
			peak_bankroll     = excluded.peak_bankroll,
			bet_counter       = excluded.bet_counter,
			last_updated      = excluded.last_updated`,
		bankroll.Current, bankroll.Starting, bankroll.Peak, betCounter, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveMeta: %w", err)
	}
	return nil
}

// Load restores the full ledger snapshot. Returns nil when no meta row
// exists yet (fresh database).
func (s *SQLite) Load(ctx context.Context) (*domain.LedgerSnapshot, error) {
	snap := &domain.LedgerSnapshot{}
	err := s.db.QueryRowContext(ctx, `
		SELECT bankroll, starting_bankroll, peak_bankroll, bet_counter, last_updated
		FROM ledger_meta WHERE id = 1`).
		Scan(&snap.Bankroll.Current, &snap.Bankroll.Starting, &snap.Bankroll.Peak,
			&snap.BetCounter, &snap.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.Load: meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, placed_at, game_id, sport, bet_type, selection, odds, stake,
		       strategy, sportsbook, line_point, status, result, profit,
		       closing_odds, clv, settled_at
		FROM bets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: bets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.Load: %w", err)
		}
		snap.Bets = append(snap.Bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}
	return snap, nil
}

// Close closes the database cleanly.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanBet(rows *sql.Rows) (domain.Bet, error) {
	var (
		bet         domain.Bet
		market      string
		linePoint   sql.NullFloat64
		status      string
		result      sql.NullString
		profit      float64
		closingOdds sql.NullInt64
		clv         sql.NullFloat64
		settledAt   sql.NullTime
	)
	err := rows.Scan(&bet.ID, &bet.PlacedAt, &bet.GameID, &bet.Sport, &market,
		&bet.Selection, &bet.Odds, &bet.Stake, &bet.Strategy, &bet.Sportsbook,
		&linePoint, &status, &result, &profit, &closingOdds, &clv, &settledAt)
	if err != nil {
		return domain.Bet{}, err
	}
	bet.Market = domain.MarketType(market)
	if linePoint.Valid {
		bet.LinePoint = &linePoint.Float64
	}
	if status == domain.StatusSettled {
		st := &domain.Settlement{
			Result:    domain.Result(result.String),
			Profit:    profit,
			SettledAt: settledAt.Time,
		}
		if closingOdds.Valid {
			co := int(closingOdds.Int64)
			st.ClosingOdds = &co
		}
		if clv.Valid {
			st.CLV = &clv.Float64
		}
		bet.Settlement = st
	}
	return bet, nil
}
