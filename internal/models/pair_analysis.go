package models

import (
	"time"

	"github.com/google/uuid"
)

// CointegrationStatus classifies the outcome of an Engle-Granger pair test.
type CointegrationStatus string

const (
	StatusCointegrated    CointegrationStatus = "cointegrated"
	StatusWeak            CointegrationStatus = "weak"
	StatusNotCointegrated CointegrationStatus = "not_cointegrated"
)

// SpreadMethod selects how the spread between the two legs is constructed.
type SpreadMethod string

const (
	SpreadMethodDifference SpreadMethod = "difference"
	SpreadMethodRatio      SpreadMethod = "ratio"
)

// SignalDirection represents the trading instruction derived from a z-score.
type SignalDirection string

const (
	SignalLongSpread  SignalDirection = "long_spread"
	SignalShortSpread SignalDirection = "short_spread"
	SignalExit        SignalDirection = "exit"
	SignalNone        SignalDirection = "no_signal"
)

// CointegrationResult represents the outcome of testing one pair of series.
type CointegrationResult struct {
	SymbolA      string              `json:"symbol_a"`
	SymbolB      string              `json:"symbol_b"`
	Correlation  float64             `json:"correlation"`
	HedgeRatio   float64             `json:"hedge_ratio"`
	Intercept    float64             `json:"intercept"`
	ADFStatistic float64             `json:"adf_statistic"`
	ADFLag       int                 `json:"adf_lag"`
	PValue       float64             `json:"p_value"`
	Status       CointegrationStatus `json:"status"`
	Window       int                 `json:"window"`
	TestedAt     time.Time           `json:"tested_at"`
}

// IsCointegrated reports whether the pair passed at the configured
// significance threshold.
func (r CointegrationResult) IsCointegrated() bool {
	return r.Status == StatusCointegrated
}

// Pair returns the canonical "A/B" name of the tested pair.
func (r CointegrationResult) Pair() string {
	return r.SymbolA + "/" + r.SymbolB
}

// SpreadAnalysis represents the spread dynamics of a pair at a point in time.
type SpreadAnalysis struct {
	Pair         string          `json:"pair"`
	Spread       float64         `json:"spread"`
	Mean         float64         `json:"mean"`
	StdDev       float64         `json:"std_dev"`
	ZScore       float64         `json:"z_score"`
	HalfLife     float64         `json:"half_life"`
	Hurst        float64         `json:"hurst"`
	Signal       SignalDirection `json:"signal"`
	Confidence   float64         `json:"confidence"`
	Observations int             `json:"observations"`
}

// PairSignal is a point-in-time trading instruction for a pair.
type PairSignal struct {
	ID          uuid.UUID       `json:"id"`
	Pair        string          `json:"pair"`
	Direction   SignalDirection `json:"direction"`
	ZScore      float64         `json:"z_score"`
	Confidence  float64         `json:"confidence"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// PairScore represents the ranked screening outcome for one candidate pair.
type PairScore struct {
	Pair               string              `json:"pair"`
	CointegrationScore float64             `json:"cointegration_score"`
	HalfLifeScore      float64             `json:"half_life_score"`
	CorrelationScore   float64             `json:"correlation_score"`
	HurstScore         float64             `json:"hurst_score"`
	TotalScore         float64             `json:"total_score"`
	Rank               int                 `json:"rank"`
	Cointegration      CointegrationResult `json:"cointegration"`
	Analysis           SpreadAnalysis      `json:"analysis"`
}

// ScreeningReport summarizes one universe screening run.
type ScreeningReport struct {
	ID           uuid.UUID     `json:"id"`
	UniverseSize int           `json:"universe_size"`
	PairsTested  int           `json:"pairs_tested"`
	Scores       []PairScore   `json:"scores"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
}
