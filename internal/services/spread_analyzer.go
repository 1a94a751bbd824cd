package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/statlabs/pairscreen/internal/config"
	"github.com/statlabs/pairscreen/internal/models"
)

// hurstMinPoints is the shortest spread series the rescaled-range estimate
// accepts before reporting the neutral exponent.
const hurstMinPoints = 20

// SpreadAnalyzer computes spread series and mean-reversion diagnostics for
// cointegrated pairs.
type SpreadAnalyzer struct {
	config config.SpreadConfig
	logger *logrus.Logger
}

// NewSpreadAnalyzer creates a new spread analyzer.
func NewSpreadAnalyzer(cfg config.SpreadConfig, logger *logrus.Logger) *SpreadAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &SpreadAnalyzer{
		config: cfg,
		logger: logger,
	}
}

// ComputeSpread builds the spread series between two aligned price legs
// using the configured construction method.
func (s *SpreadAnalyzer) ComputeSpread(a []float64, b []float64, hedgeRatio, intercept float64) []float64 {
	return s.ComputeSpreadWithMethod(a, b, hedgeRatio, intercept, models.SpreadMethod(s.config.Method))
}

// ComputeSpreadWithMethod builds the spread with an explicit method. The
// difference method uses a_t - beta*b_t - alpha; the ratio method uses
// a_t / (beta*b_t) with zero filled in where the denominator vanishes.
// Unrecognized methods fall back to difference.
func (s *SpreadAnalyzer) ComputeSpreadWithMethod(a []float64, b []float64, hedgeRatio, intercept float64, method models.SpreadMethod) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	spread := make([]float64, n)
	if method == models.SpreadMethodRatio {
		for i := 0; i < n; i++ {
			denom := hedgeRatio * b[i]
			if denom != 0 {
				spread[i] = a[i] / denom
			}
		}
		return spread
	}
	for i := 0; i < n; i++ {
		spread[i] = a[i] - hedgeRatio*b[i] - intercept
	}
	return spread
}

// Analyze computes the rolling z-score, half-life, Hurst exponent and the
// threshold signal for a spread series. A series shorter than the z-score
// window yields a neutral default analysis.
func (s *SpreadAnalyzer) Analyze(pair string, spread []float64) models.SpreadAnalysis {
	analysis := models.SpreadAnalysis{
		Pair:         pair,
		HalfLife:     s.config.MaxHalfLife + 1,
		Hurst:        0.5,
		Signal:       models.SignalNone,
		Observations: len(spread),
	}
	if len(spread) < s.config.ZScoreWindow {
		return analysis
	}

	window := spread[len(spread)-s.config.ZScoreWindow:]
	latest := spread[len(spread)-1]
	mean := calculateMean(window)
	std := calculateStdDev(window)

	analysis.Spread = latest
	analysis.Mean = mean
	analysis.StdDev = std
	if std > 0 {
		analysis.ZScore = (latest - mean) / std
	}
	analysis.HalfLife = s.halfLife(spread)
	analysis.Hurst = s.hurstExponent(spread)
	analysis.Signal = s.signalFor(analysis.ZScore)
	analysis.Confidence = s.confidence(analysis.ZScore)
	return analysis
}

// Signal wraps an analysis into an identified point-in-time instruction.
func (s *SpreadAnalyzer) Signal(analysis models.SpreadAnalysis) *models.PairSignal {
	signal := &models.PairSignal{
		ID:          uuid.New(),
		Pair:        analysis.Pair,
		Direction:   analysis.Signal,
		ZScore:      analysis.ZScore,
		Confidence:  analysis.Confidence,
		GeneratedAt: time.Now(),
	}
	s.logger.WithFields(logrus.Fields{
		"pair":       signal.Pair,
		"direction":  signal.Direction,
		"z_score":    signal.ZScore,
		"confidence": signal.Confidence,
	}).Debug("Generated pair signal")
	return signal
}

// halfLife fits the Ornstein-Uhlenbeck discretization
// delta s_t = theta*(s_{t-1} - mean) + eps and converts the reversion rate
// into periods. Non-reverting fits report the max-half-life sentinel.
func (s *SpreadAnalyzer) halfLife(spread []float64) float64 {
	sentinel := s.config.MaxHalfLife + 1
	if len(spread) < 10 {
		return sentinel
	}
	lagged := spread[:len(spread)-1]
	deltas := diffSeries(spread)
	laggedMean := calculateMean(lagged)

	var num float64
	var denom float64
	for i := range deltas {
		centered := lagged[i] - laggedMean
		num += centered * deltas[i]
		denom += centered * centered
	}
	if denom == 0 {
		return sentinel
	}
	theta := num / denom
	if theta >= 0 {
		return sentinel
	}
	base := 1 + theta
	if base <= 0 {
		// Overshooting reversion clamps to the fastest half-life.
		return 0.1
	}
	halfLife := -math.Ln2 / math.Log(base)
	if halfLife < 0.1 {
		return 0.1
	}
	return halfLife
}

// hurstExponent estimates the Hurst exponent by rescaled-range analysis,
// regressing log(R/S) on log(lag) across non-overlapping segments. Series
// too short or too degenerate to estimate report the neutral 0.5.
func (s *SpreadAnalyzer) hurstExponent(spread []float64) float64 {
	n := len(spread)
	if n < hurstMinPoints {
		return 0.5
	}
	maxLag := s.config.HurstMaxLag
	if limit := n / 2; maxLag > limit {
		maxLag = limit
	}

	var logLags []float64
	var logRS []float64
	for lag := 2; lag <= maxLag; lag++ {
		segments := n / lag
		var rsSum float64
		var rsCount int
		for seg := 0; seg < segments; seg++ {
			rs, valid := rescaledRange(spread[seg*lag : (seg+1)*lag])
			if !valid {
				continue
			}
			rsSum += rs
			rsCount++
		}
		if rsCount == 0 {
			continue
		}
		avg := rsSum / float64(rsCount)
		if avg <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logRS = append(logRS, math.Log(avg))
	}
	if len(logLags) < 2 {
		return 0.5
	}

	slope, _ := fitLine(logLags, logRS)
	if slope < 0 {
		return 0
	}
	if slope > 1 {
		return 1
	}
	return slope
}

// rescaledRange computes the range of the cumulative mean-centered sum of a
// segment divided by the segment's sample standard deviation. Flat segments
// report false and are skipped.
func rescaledRange(segment []float64) (float64, bool) {
	std := calculateStdDev(segment)
	if std == 0 {
		return 0, false
	}
	mean := calculateMean(segment)
	var cum float64
	var minCum float64
	var maxCum float64
	for _, v := range segment {
		cum += v - mean
		if cum < minCum {
			minCum = cum
		}
		if cum > maxCum {
			maxCum = cum
		}
	}
	return (maxCum - minCum) / std, true
}

func (s *SpreadAnalyzer) signalFor(z float64) models.SignalDirection {
	switch {
	case z >= s.config.EntryZScore:
		return models.SignalShortSpread
	case z <= -s.config.EntryZScore:
		return models.SignalLongSpread
	case math.Abs(z) <= s.config.ExitZScore:
		return models.SignalExit
	default:
		return models.SignalNone
	}
}

// confidence grades |z| against the threshold ladder: strongest inside the
// exit band, decaying from entry toward the stop threshold where breakdown
// risk takes over.
func (s *SpreadAnalyzer) confidence(z float64) float64 {
	abs := math.Abs(z)
	switch {
	case abs <= s.config.ExitZScore:
		return 0.8
	case abs < s.config.EntryZScore:
		return 0
	case abs <= s.config.StopZScore:
		span := s.config.StopZScore - s.config.EntryZScore
		return 0.9 - 0.4*(abs-s.config.EntryZScore)/span
	default:
		return 0.3
	}
}
