package domain

// Performance is the ledger-wide reporting view over settled bets.
type Performance struct {
	TotalBets   int
	Wins        int
	Losses      int
	Pushes      int
	WinRate     float64 // wins / (wins + losses), pushes excluded
	ROI         float64 // total profit / total staked
	TotalStaked float64
	TotalProfit float64
	AvgCLV      float64 // over settled bets with CLV attached

	CurrentBankroll  float64
	StartingBankroll float64
	NetProfit        float64
}

// GroupPerformance is the per-strategy or per-sport analytics view.
type GroupPerformance struct {
	Group       string // strategy tag or sport
	TotalBets   int
	Wins        int
	Losses      int
	Pushes      int
	WinRate     float64
	TotalStaked float64
	TotalProfit float64
	ROI         float64
	SharpeRatio float64 // mean per-bet profit over its stddev
	MaxDrawdown float64 // worst peak-to-trough of cumulative profit
}

// PerformanceMatrix is the strategy x sport ROI breakdown.
// Outer key: strategy; inner key: sport.
type PerformanceMatrix map[string]map[string]GroupPerformance

// CLVDistribution is the bucket histogram over tracked CLV records.
type CLVDistribution struct {
	HighlyPositive int
	Positive       int
	Negative       int
	HighlyNegative int
	Total          int
}

// CLVReport is the aggregate view produced by the CLV tracker.
type CLVReport struct {
	Average      float64
	Count        int
	ByStrategy   map[string]float64
	BySport      map[string]float64
	Distribution CLVDistribution
}
