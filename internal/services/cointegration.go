package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statlabs/pairscreen/internal/config"
	"github.com/statlabs/pairscreen/internal/models"
)

// minTestWindow is the smallest window the lag-augmented regression can
// support; shorter pairs degrade to a not-cointegrated result.
const minTestWindow = 20

// adfCriticalValues holds the MacKinnon critical values for the
// constant-only ADF regression. The p-value is interpolated linearly
// between them and extrapolated linearly beyond the table.
var adfCriticalValues = []struct {
	Stat   float64
	PValue float64
}{
	{-3.43, 0.01},
	{-2.86, 0.05},
	{-2.57, 0.10},
}

// CointegrationService runs Engle-Granger cointegration tests over pairs of
// price series.
type CointegrationService struct {
	config config.ScreeningConfig
	logger *logrus.Logger
}

// NewCointegrationService creates a new cointegration tester.
func NewCointegrationService(cfg config.ScreeningConfig, logger *logrus.Logger) *CointegrationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &CointegrationService{
		config: cfg,
		logger: logger,
	}
}

// TestPair runs the two-step Engle-Granger test on one pair. Both series are
// truncated to their most recent common window capped at the configured
// lookback. Degenerate inputs never fail: they yield a not-cointegrated
// result with p-value 1.
func (s *CointegrationService) TestPair(a *models.PriceSeries, b *models.PriceSeries) models.CointegrationResult {
	window := a.Len()
	if b.Len() < window {
		window = b.Len()
	}
	if window > s.config.LookbackWindow {
		window = s.config.LookbackWindow
	}

	result := models.CointegrationResult{
		SymbolA:  a.Symbol,
		SymbolB:  b.Symbol,
		PValue:   1.0,
		Status:   models.StatusNotCointegrated,
		Window:   window,
		TestedAt: time.Now(),
	}
	if window < minTestWindow {
		return result
	}

	pricesA := a.TailPrices(window)
	pricesB := b.TailPrices(window)

	result.Correlation = calculateCorrelation(pricesA, pricesB)
	if math.Abs(result.Correlation) < s.config.MinCorrelation {
		return result
	}

	beta, alpha := calculateHedge(pricesA, pricesB)
	result.HedgeRatio = beta
	result.Intercept = alpha

	residuals := make([]float64, window)
	for i := range pricesA {
		residuals[i] = pricesA[i] - beta*pricesB[i] - alpha
	}

	stat, lag, ok := s.adfStatistic(residuals)
	if !ok {
		return result
	}
	result.ADFStatistic = stat
	result.ADFLag = lag
	result.PValue = pValueFromADF(stat)

	switch {
	case result.PValue <= s.config.PValueThreshold:
		result.Status = models.StatusCointegrated
	case result.PValue <= 2*s.config.PValueThreshold:
		result.Status = models.StatusWeak
	}
	return result
}

// TestUniverse tests every unordered pair in the universe. Results come back
// in deterministic pair order regardless of the worker count. The scan stops
// early when the context is cancelled.
func (s *CointegrationService) TestUniverse(ctx context.Context, universe []*models.PriceSeries) ([]models.CointegrationResult, error) {
	pairs := make([][2]int, 0, len(universe)*(len(universe)-1)/2)
	for i := 0; i < len(universe); i++ {
		for j := i + 1; j < len(universe); j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	results := make([]models.CointegrationResult, len(pairs))
	if len(pairs) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return results, nil
	}

	workers := s.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	s.logger.WithFields(logrus.Fields{
		"symbols": len(universe),
		"pairs":   len(pairs),
		"workers": workers,
	}).Debug("Testing universe for cointegration")

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				pair := pairs[idx]
				results[idx] = s.TestPair(universe[pair[0]], universe[pair[1]])
			}
		}()
	}

	var scanErr error
	for idx := range pairs {
		// Checked before the send so an already-cancelled context never
		// dispatches work.
		if scanErr = ctx.Err(); scanErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			scanErr = ctx.Err()
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if scanErr != nil {
		return nil, scanErr
	}
	return results, nil
}

// adfStatistic runs the augmented Dickey-Fuller regression on the residual
// series for every candidate lag and keeps the fit with the lowest AIC.
func (s *CointegrationService) adfStatistic(residuals []float64) (stat float64, lag int, ok bool) {
	maxLag := s.config.ADFMaxLags
	if limit := len(residuals) / 4; maxLag > limit {
		maxLag = limit
	}

	bestAIC := math.Inf(1)
	bestLag := -1
	var bestStat float64
	for candidate := 0; candidate <= maxLag; candidate++ {
		tStat, aic, fitted := adfRegression(residuals, candidate)
		if !fitted {
			continue
		}
		if aic < bestAIC {
			bestAIC = aic
			bestStat = tStat
			bestLag = candidate
		}
	}
	if bestLag < 0 {
		return 0, 0, false
	}
	return bestStat, bestLag, true
}

// adfRegression fits delta r_t = c + gamma*r_{t-1} + sum(phi_i * delta r_{t-i})
// by ordinary least squares over the normal equations and returns the
// t-statistic of gamma together with the regression AIC. A singular or
// degenerate system reports ok=false so the caller skips the lag.
func adfRegression(residuals []float64, lag int) (tStat float64, aic float64, ok bool) {
	diffs := diffSeries(residuals)
	nobs := len(diffs) - lag
	k := lag + 2
	if nobs < k+1 {
		return 0, 0, false
	}

	rows := make([][]float64, 0, nobs)
	targets := make([]float64, 0, nobs)
	for t := lag; t < len(diffs); t++ {
		row := make([]float64, k)
		row[0] = 1
		row[1] = residuals[t]
		for i := 1; i <= lag; i++ {
			row[1+i] = diffs[t-i]
		}
		rows = append(rows, row)
		targets = append(targets, diffs[t])
	}

	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)
	for r, row := range rows {
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * targets[r]
		}
	}

	coeffs, solved := solveLinearSystem(xtx, xty)
	if !solved {
		return 0, 0, false
	}

	var rss float64
	for r, row := range rows {
		fitted := 0.0
		for i := 0; i < k; i++ {
			fitted += coeffs[i] * row[i]
		}
		resid := targets[r] - fitted
		rss += resid * resid
	}
	if rss <= 0 {
		return 0, 0, false
	}

	// Standard error of gamma needs the (1,1) entry of (X'X)^-1.
	unit := make([]float64, k)
	unit[1] = 1
	inverseCol, solved := solveLinearSystem(xtx, unit)
	if !solved {
		return 0, 0, false
	}
	sigma2 := rss / float64(nobs-k)
	gammaVar := sigma2 * inverseCol[1]
	if gammaVar <= 0 || math.IsNaN(gammaVar) {
		return 0, 0, false
	}

	tStat = coeffs[1] / math.Sqrt(gammaVar)
	aic = float64(nobs)*math.Log(rss/float64(nobs)) + 2*float64(k)
	if math.IsNaN(tStat) || math.IsInf(tStat, 0) || math.IsNaN(aic) {
		return 0, 0, false
	}
	return tStat, aic, true
}

// pValueFromADF maps an ADF statistic to an approximate p-value by linear
// interpolation between the tabulated critical values, extrapolating
// linearly outside the table and clamping to [0, 1].
func pValueFromADF(stat float64) float64 {
	cv := adfCriticalValues
	var p float64
	if stat <= cv[1].Stat {
		p = interpolatePValue(stat, cv[0].Stat, cv[0].PValue, cv[1].Stat, cv[1].PValue)
	} else {
		p = interpolatePValue(stat, cv[1].Stat, cv[1].PValue, cv[2].Stat, cv[2].PValue)
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func interpolatePValue(stat, x0, p0, x1, p1 float64) float64 {
	slope := (p1 - p0) / (x1 - x0)
	return p0 + slope*(stat-x0)
}
