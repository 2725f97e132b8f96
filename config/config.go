package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete simulator configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Risk       RiskConfig       `yaml:"risk"`
	Arbitrage  ArbitrageConfig  `yaml:"arbitrage"`
	CLV        CLVConfig        `yaml:"clv"`
	Odds       OddsConfig       `yaml:"odds"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controls the paper trading loop.
type SimulationConfig struct {
	StartingBankroll float64  `yaml:"starting_bankroll"`
	IntervalSeconds  int      `yaml:"interval_seconds"`
	Sports           []string `yaml:"sports"`
	ArbStakePct      float64  `yaml:"arb_stake_pct"`    // bankroll fraction per arbitrage
	MinEdgePoints    float64  `yaml:"min_edge_points"`  // value path threshold
	MinConfidence    float64  `yaml:"min_confidence"`   // value path threshold
}

// RiskConfig maps onto domain.RiskLimits.
type RiskConfig struct {
	MaxDailyLossPct   float64 `yaml:"max_daily_loss_pct"`
	MaxDrawdownPct    float64 `yaml:"max_total_drawdown_pct"`
	MaxConcurrentBets int     `yaml:"max_concurrent_bets"`
	KellyFraction     float64 `yaml:"kelly_fraction"`
	MaxBetPct         float64 `yaml:"max_bet_pct"`
}

// ArbitrageConfig controls the detector.
type ArbitrageConfig struct {
	MinProfitMargin float64 `yaml:"min_profit_margin"`
}

// CLVConfig controls the rolling CLV tracker.
type CLVConfig struct {
	Window int `yaml:"window"`
}

// OddsConfig selects and configures the odds sources, tried in order.
type OddsConfig struct {
	Providers []string `yaml:"providers"` // "odds-api", "mock"
	APIBase   string   `yaml:"api_base"`
	APIKey    string   `yaml:"api_key"` // usually via ODDS_API_KEY in .env
	MockSeed  int64    `yaml:"mock_seed"`
}

// StorageConfig controls persistence.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present. Environment
// variables override matching YAML keys.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg, nil
}

// Interval returns the cycle interval as a time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Simulation.IntervalSeconds) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		cfg.Odds.APIKey = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STARTING_BANKROLL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.StartingBankroll = f
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Simulation.StartingBankroll <= 0 {
		cfg.Simulation.StartingBankroll = 10000
	}
	if cfg.Simulation.IntervalSeconds <= 0 {
		cfg.Simulation.IntervalSeconds = 60
	}
	if len(cfg.Simulation.Sports) == 0 {
		cfg.Simulation.Sports = []string{"nba", "nfl"}
	}
	if cfg.Simulation.ArbStakePct <= 0 {
		cfg.Simulation.ArbStakePct = 0.10
	}
	if cfg.Risk.MaxDailyLossPct <= 0 {
		cfg.Risk.MaxDailyLossPct = 0.10
	}
	if cfg.Risk.MaxDrawdownPct <= 0 {
		cfg.Risk.MaxDrawdownPct = 0.20
	}
	if cfg.Risk.MaxConcurrentBets <= 0 {
		cfg.Risk.MaxConcurrentBets = 10
	}
	if cfg.Risk.KellyFraction <= 0 {
		cfg.Risk.KellyFraction = 0.25
	}
	if cfg.Arbitrage.MinProfitMargin <= 0 {
		cfg.Arbitrage.MinProfitMargin = 0.005
	}
	if cfg.CLV.Window <= 0 {
		cfg.CLV.Window = 100
	}
	if len(cfg.Odds.Providers) == 0 {
		cfg.Odds.Providers = []string{"mock"}
	}
	if cfg.Odds.MockSeed == 0 {
		cfg.Odds.MockSeed = 1
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "data/betsim.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
