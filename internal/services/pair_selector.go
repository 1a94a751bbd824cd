package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/statlabs/pairscreen/internal/config"
	"github.com/statlabs/pairscreen/internal/models"
	"github.com/statlabs/pairscreen/internal/repository"
)

// PairSelector screens a universe of price series for tradeable pairs by
// combining cointegration tests and spread diagnostics into weighted
// quality scores.
type PairSelector struct {
	config   *config.Config
	tester   *CointegrationService
	analyzer *SpreadAnalyzer
	history  repository.ScoreHistory
	logger   *logrus.Logger
}

// NewPairSelector creates a pair selector with its own tester and analyzer
// built from the configuration. The history repository may be nil when
// callers do not track screening runs over time.
func NewPairSelector(cfg *config.Config, history repository.ScoreHistory, logger *logrus.Logger) *PairSelector {
	if logger == nil {
		logger = logrus.New()
	}
	return &PairSelector{
		config:   cfg,
		tester:   NewCointegrationService(cfg.Screening, logger),
		analyzer: NewSpreadAnalyzer(cfg.Spread, logger),
		history:  history,
		logger:   logger,
	}
}

// Tester exposes the underlying cointegration service.
func (s *PairSelector) Tester() *CointegrationService {
	return s.tester
}

// Analyzer exposes the underlying spread analyzer.
func (s *PairSelector) Analyzer() *SpreadAnalyzer {
	return s.analyzer
}

// ScorePair combines the cointegration result and spread analysis of one
// pair into the four weighted sub-scores. Every sub-score lies in [0, 100].
func (s *PairSelector) ScorePair(result models.CointegrationResult, analysis models.SpreadAnalysis) models.PairScore {
	score := models.PairScore{
		Pair:          result.Pair(),
		Cointegration: result,
		Analysis:      analysis,
	}
	score.CointegrationScore = cointegrationScore(result.PValue)
	score.HalfLifeScore = halfLifeScore(analysis.HalfLife, s.config.Spread.MaxHalfLife)
	score.CorrelationScore = correlationScore(result.Correlation)
	score.HurstScore = hurstScore(analysis.Hurst)

	w := s.config.Scoring
	score.TotalScore = w.CointegrationWeight*score.CointegrationScore +
		w.HalfLifeWeight*score.HalfLifeScore +
		w.CorrelationWeight*score.CorrelationScore +
		w.HurstWeight*score.HurstScore
	return score
}

// ScreenUniverse tests every unordered pair, analyzes the cointegrated ones
// and returns the ranked scores that clear the minimum score filter.
func (s *PairSelector) ScreenUniverse(ctx context.Context, universe []*models.PriceSeries) (*models.ScreeningReport, error) {
	startedAt := time.Now()

	results, err := s.tester.TestUniverse(ctx, universe)
	if err != nil {
		return nil, err
	}

	// Pair iteration mirrors TestUniverse so results[idx] lines up with (i, j).
	scores := make([]models.PairScore, 0, len(results))
	idx := 0
	for i := 0; i < len(universe); i++ {
		for j := i + 1; j < len(universe); j++ {
			result := results[idx]
			idx++
			if !result.IsCointegrated() {
				continue
			}
			pricesA := universe[i].TailPrices(result.Window)
			pricesB := universe[j].TailPrices(result.Window)
			spread := s.analyzer.ComputeSpread(pricesA, pricesB, result.HedgeRatio, result.Intercept)
			analysis := s.analyzer.Analyze(result.Pair(), spread)
			score := s.ScorePair(result, analysis)
			if score.TotalScore < s.config.Scoring.MinScore {
				continue
			}
			scores = append(scores, score)
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].Pair < scores[j].Pair
	})
	if len(scores) > s.config.Scoring.MaxPairs {
		scores = scores[:s.config.Scoring.MaxPairs]
	}
	for i := range scores {
		scores[i].Rank = i + 1
	}

	report := &models.ScreeningReport{
		ID:           uuid.New(),
		UniverseSize: len(universe),
		PairsTested:  len(results),
		Scores:       scores,
		StartedAt:    startedAt,
		Duration:     time.Since(startedAt),
	}

	if s.history != nil {
		for _, score := range scores {
			s.history.Append(score.Pair, score)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"universe_size": report.UniverseSize,
		"pairs_tested":  report.PairsTested,
		"pairs_ranked":  len(report.Scores),
		"duration":      report.Duration,
	}).Info("Universe screening completed")

	return report, nil
}

// cointegrationScore rewards small p-values, reaching zero at p = 0.10.
func cointegrationScore(pValue float64) float64 {
	return math.Max(0, 1-pValue/0.10) * 100
}

// halfLifeScore peaks at the 15-period sweet spot and fades to zero at the
// configured maximum half-life.
func halfLifeScore(halfLife, maxHalfLife float64) float64 {
	if halfLife <= 0 || halfLife > maxHalfLife {
		return 0
	}
	if halfLife <= 30 {
		return 100 * (1 - math.Abs(halfLife-15)/30)
	}
	// 50 is the triangular value at the 30-period boundary.
	return 50 * (maxHalfLife - halfLife) / (maxHalfLife - 30)
}

// correlationScore maps |corr| onto [0, 100].
func correlationScore(corr float64) float64 {
	return math.Min(math.Abs(corr)*100, 100)
}

// hurstScore rewards anti-persistent spreads; exponents at or above 0.5
// score zero.
func hurstScore(hurst float64) float64 {
	if hurst >= 0.5 {
		return 0
	}
	return (0.5 - hurst) / 0.5 * 100
}
