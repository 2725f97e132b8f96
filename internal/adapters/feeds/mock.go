package feeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/betsim/internal/domain"
)

var mockBooks = []string{"fanduel", "draftkings", "betmgm", "caesars", "pointsbet"}

var mockTeams = map[string][]string{
	"nba": {"Lakers", "Celtics", "Warriors", "Bucks", "Nuggets", "Heat", "Suns", "Knicks"},
	"nfl": {"Chiefs", "Eagles", "Bills", "49ers", "Cowboys", "Ravens", "Lions", "Bengals"},
	"mlb": {"Dodgers", "Yankees", "Braves", "Astros", "Phillies", "Orioles", "Padres", "Mets"},
}

const (
	mockGamesPerSport = 4
	mockVig           = 0.045 // per-book overround
	mockArbChance     = 0.08  // chance a book misprices a side enough to open an arb
)

// Mock is a deterministic seeded odds, results and prediction source for
// simulation runs. Each game gets a hidden true line; books quote around it
// with vig and noise, results are sampled from it, and the model sees it
// through noise scaled by its confidence.
type Mock struct {
	mu      sync.Mutex
	rng     *rand.Rand
	games   map[string][]domain.Game       // sport -> generated slate
	lines   map[string]float64             // game id -> true home margin
	results map[string]domain.GameResult   // game id -> final score, once drawn
	byID    map[string]domain.Game
}

// NewMock creates a mock feed. The same seed reproduces the same slate,
// prices and results.
func NewMock(seed int64) *Mock {
	return &Mock{
		rng:     rand.New(rand.NewSource(seed)),
		games:   make(map[string][]domain.Game),
		lines:   make(map[string]float64),
		results: make(map[string]domain.GameResult),
		byID:    make(map[string]domain.Game),
	}
}

func (m *Mock) Name() string { return "mock" }

// Games generates (once) and returns the sport's slate. Start times are
// staggered around now so settlement kicks in within a few cycles.
func (m *Mock) Games(_ context.Context, sport string) ([]domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slate, ok := m.games[sport]; ok {
		return slate, nil
	}
	teams := mockTeams[sport]
	if teams == nil {
		return nil, fmt.Errorf("feeds.Mock: unknown sport %q", sport)
	}

	slate := make([]domain.Game, 0, mockGamesPerSport)
	perm := m.rng.Perm(len(teams))
	for i := 0; i < mockGamesPerSport; i++ {
		g := domain.Game{
			ID:       uuid.NewString(),
			Sport:    sport,
			HomeTeam: teams[perm[2*i]],
			AwayTeam: teams[perm[2*i+1]],
			StartsAt: time.Now().Add(time.Duration(i-1) * 2 * time.Minute),
		}
		slate = append(slate, g)
		m.byID[g.ID] = g
		m.lines[g.ID] = m.rng.NormFloat64() * 6
	}
	m.games[sport] = slate
	return slate, nil
}

// GetOdds quotes both sides of the market at every book, pricing around the
// game's true line with vig and per-book noise.
func (m *Mock) GetOdds(_ context.Context, gameID string, market domain.MarketType) ([]domain.OddsQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trueLine, ok := m.lines[gameID]
	if !ok {
		return nil, fmt.Errorf("feeds.Mock: unknown game %q", gameID)
	}

	now := time.Now()
	sideA, sideB := domain.MarketSides(market)
	quotes := make([]domain.OddsQuote, 0, 2*len(mockBooks))
	for _, book := range mockBooks {
		probA := m.bookProbability(trueLine, market)
		// A rare mispricing opens a window against the other books.
		if m.rng.Float64() < mockArbChance {
			probA -= 0.06
		}

		var pointA, pointB *float64
		switch market {
		case domain.MarketSpread:
			line := math.Round((-trueLine+m.rng.NormFloat64()*0.5)*2) / 2
			opposite := -line
			pointA, pointB = &line, &opposite
		case domain.MarketTotal:
			total := math.Round((215+m.rng.NormFloat64()*4)*2) / 2
			pointA, pointB = &total, &total
		}

		quotes = append(quotes,
			domain.OddsQuote{
				Book: book, GameID: gameID, Market: market, Side: sideA,
				Odds: probToAmerican(probA + mockVig/2), LinePoint: pointA, Timestamp: now,
			},
			domain.OddsQuote{
				Book: book, GameID: gameID, Market: market, Side: sideB,
				Odds: probToAmerican(1 - probA + mockVig/2), LinePoint: pointB, Timestamp: now,
			},
		)
	}
	return quotes, nil
}

// GetResult samples the final score from the true line once the game's start
// time has passed, then pins it.
func (m *Mock) GetResult(_ context.Context, game domain.Game) (domain.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if res, ok := m.results[game.ID]; ok {
		return res, nil
	}
	if time.Now().Before(game.StartsAt.Add(2 * time.Minute)) {
		return domain.GameResult{GameID: game.ID}, nil
	}

	trueLine := m.lines[game.ID]
	margin := int(math.Round(trueLine + m.rng.NormFloat64()*10))
	away := 100 + m.rng.Intn(20)
	res := domain.GameResult{
		GameID:    game.ID,
		Completed: true,
		HomeScore: away + margin,
		AwayScore: away,
	}
	m.results[game.ID] = res
	return res, nil
}

// Predict exposes the true line through noise that shrinks as confidence
// grows, standing in for a real outcome model.
func (m *Mock) Predict(_ context.Context, game domain.Game, _ domain.MarketType) (domain.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trueLine, ok := m.lines[game.ID]
	if !ok {
		return domain.Prediction{}, fmt.Errorf("feeds.Mock: unknown game %q", game.ID)
	}
	confidence := 0.55 + m.rng.Float64()*0.25
	noise := m.rng.NormFloat64() * 3 * (1 - confidence)
	return domain.Prediction{
		PredictedLine: -trueLine + noise, // home-perspective spread line
		Confidence:    confidence,
	}, nil
}

// bookProbability is this book's estimate of the home/over win probability.
func (m *Mock) bookProbability(trueLine float64, market domain.MarketType) float64 {
	switch market {
	case domain.MarketMoneyline:
		// Logistic map from margin to win probability, plus book noise.
		p := 1/(1+math.Exp(-trueLine/5)) + m.rng.NormFloat64()*0.015
		return clampProb(p)
	default:
		// Spread and total sides price near the coin flip.
		return clampProb(0.5 + m.rng.NormFloat64()*0.02)
	}
}

// probToAmerican converts a probability into American odds rounded to 5.
func probToAmerican(p float64) int {
	p = clampProb(p)
	var odds float64
	if p >= 0.5 {
		odds = -p / (1 - p) * 100
	} else {
		odds = (1 - p) / p * 100
	}
	rounded := int(math.Round(odds/5) * 5)
	// American odds between -100 and +100 do not exist.
	if rounded > -105 && rounded < 100 {
		if rounded < 0 {
			rounded = -105
		} else {
			rounded = 100
		}
	}
	return rounded
}

func clampProb(p float64) float64 {
	return math.Min(0.97, math.Max(0.03, p))
}
