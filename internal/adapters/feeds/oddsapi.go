package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/betsim/internal/domain"
)

const (
	defaultOddsAPIBase = "https://api.the-odds-api.com/v4"

	// Free-tier quota is tight; stay well under it.
	oddsAPIRatePerSec = 1

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// OddsAPI is a thin The Odds API client implementing ports.OddsProvider.
// Rate limited and retried; everything past the wire format stays out of it.
type OddsAPI struct {
	http    *http.Client
	base    string
	apiKey  string
	limiter *rate.Limiter

	sports map[string]string // internal sport -> API sport key

	mu        sync.Mutex
	eventKeys map[string]string // event id -> API sport key, filled by Games
}

// NewOddsAPI creates a client. An empty base falls back to production.
func NewOddsAPI(base, apiKey string) *OddsAPI {
	if base == "" {
		base = defaultOddsAPIBase
	}
	return &OddsAPI{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(oddsAPIRatePerSec, 2),
		sports: map[string]string{
			"nba": "basketball_nba",
			"nfl": "americanfootball_nfl",
			"mlb": "baseball_mlb",
			"nhl": "icehockey_nhl",
		},
		eventKeys: make(map[string]string),
	}
}

func (c *OddsAPI) Name() string { return "odds-api" }

type apiEvent struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Bookmakers   []struct {
		Key     string `json:"key"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price int      `json:"price"`
				Point *float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// Games lists upcoming events for a sport.
func (c *OddsAPI) Games(ctx context.Context, sport string) ([]domain.Game, error) {
	key, ok := c.sports[sport]
	if !ok {
		return nil, fmt.Errorf("feeds.OddsAPI: unsupported sport %q", sport)
	}

	u := fmt.Sprintf("%s/sports/%s/odds?apiKey=%s&regions=us&markets=h2h&oddsFormat=american",
		c.base, key, url.QueryEscape(c.apiKey))
	var events []apiEvent
	if err := c.get(ctx, u, &events); err != nil {
		return nil, fmt.Errorf("feeds.OddsAPI: games %s: %w", sport, err)
	}

	games := make([]domain.Game, 0, len(events))
	c.mu.Lock()
	for _, ev := range events {
		c.eventKeys[ev.ID] = key
		games = append(games, domain.Game{
			ID:       ev.ID,
			Sport:    sport,
			HomeTeam: ev.HomeTeam,
			AwayTeam: ev.AwayTeam,
			StartsAt: ev.CommenceTime,
		})
	}
	c.mu.Unlock()
	return games, nil
}

// GetOdds fetches one market of one event across all US books and flattens
// it into quotes.
func (c *OddsAPI) GetOdds(ctx context.Context, gameID string, market domain.MarketType) ([]domain.OddsQuote, error) {
	marketKey, ok := marketKeys[market]
	if !ok {
		return nil, fmt.Errorf("feeds.OddsAPI: unsupported market %q", market)
	}

	c.mu.Lock()
	sportKey, ok := c.eventKeys[gameID]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("feeds.OddsAPI: unknown event %q, call Games first", gameID)
	}

	u := fmt.Sprintf("%s/sports/%s/events/%s/odds?apiKey=%s&regions=us&markets=%s&oddsFormat=american",
		c.base, sportKey, url.PathEscape(gameID), url.QueryEscape(c.apiKey), marketKey)
	var ev apiEvent
	if err := c.get(ctx, u, &ev); err != nil {
		return nil, fmt.Errorf("feeds.OddsAPI: odds %s/%s: %w", gameID, market, err)
	}

	now := time.Now()
	var quotes []domain.OddsQuote
	for _, bm := range ev.Bookmakers {
		for _, mk := range bm.Markets {
			if mk.Key != marketKey {
				continue
			}
			for _, out := range mk.Outcomes {
				quotes = append(quotes, domain.OddsQuote{
					Book:      bm.Key,
					GameID:    gameID,
					Market:    market,
					Side:      outcomeSide(out.Name, ev),
					Odds:      out.Price,
					LinePoint: out.Point,
					Timestamp: now,
				})
			}
		}
	}
	return quotes, nil
}

var marketKeys = map[domain.MarketType]string{
	domain.MarketMoneyline: "h2h",
	domain.MarketSpread:    "spreads",
	domain.MarketTotal:     "totals",
}

func outcomeSide(name string, ev apiEvent) domain.Side {
	switch name {
	case ev.HomeTeam:
		return domain.SideHome
	case ev.AwayTeam:
		return domain.SideAway
	case "Over":
		return domain.SideOver
	default:
		return domain.SideUnder
	}
}

// get performs a rate-limited GET with exponential backoff on failures and
// 429s.
func (c *OddsAPI) get(ctx context.Context, u string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by odds API", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("status %d: %s", resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("request failed after %d retries", maxRetries)
}

// sleep waits with exponential backoff plus jitter, respecting cancellation.
func (c *OddsAPI) sleep(ctx context.Context, attempt int) {
	wait := baseRetryWait << attempt
	wait += time.Duration(rand.Int63n(int64(wait / 2)))
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}
