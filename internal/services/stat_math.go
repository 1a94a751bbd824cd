package services

import "math"

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculateStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := calculateMean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	variance := sumSquares / float64(len(values)-1)
	return math.Sqrt(variance)
}

func calculateCorrelation(x []float64, y []float64) float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return 0
	}
	meanX := calculateMean(x)
	meanY := calculateMean(y)

	var numerator float64
	var denomX float64
	var denomY float64

	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	denom := math.Sqrt(denomX * denomY)
	if denom == 0 {
		return 0
	}

	corr := numerator / denom
	if corr > 1 {
		return 1
	}
	if corr < -1 {
		return -1
	}
	return corr
}

// calculateHedge fits A_t = alpha + beta*B_t by least squares. A constant
// B leg falls back to beta=1, alpha=0 so pair testing never fails outright.
func calculateHedge(a []float64, b []float64) (beta float64, alpha float64) {
	n := len(a)
	if n == 0 || len(b) != n {
		return 1, 0
	}
	meanA := calculateMean(a)
	meanB := calculateMean(b)

	var cov float64
	var varB float64
	for i := 0; i < n; i++ {
		db := b[i] - meanB
		cov += (a[i] - meanA) * db
		varB += db * db
	}
	if varB == 0 {
		return 1, 0
	}
	beta = cov / varB
	alpha = meanA - beta*meanB
	return beta, alpha
}

func diffSeries(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// fitLine estimates y = intercept + slope*x by least squares.
func fitLine(x []float64, y []float64) (slope float64, intercept float64) {
	n := len(x)
	if n == 0 || len(y) != n {
		return 0, 0
	}
	var sumX float64
	var sumY float64
	var sumXX float64
	var sumXY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXX += x[i] * x[i]
		sumXY += x[i] * y[i]
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, calculateMean(y)
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept
}

// solveLinearSystem solves m*x = v by Gaussian elimination with partial
// pivoting. Returns false when the system is singular.
func solveLinearSystem(m [][]float64, v []float64) ([]float64, bool) {
	n := len(m)
	if n == 0 || len(v) != n {
		return nil, false
	}
	aug := make([][]float64, n)
	for i := range m {
		if len(m[i]) != n {
			return nil, false
		}
		aug[i] = make([]float64, n+1)
		copy(aug[i], m[i])
		aug[i][n] = v[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		for row := col + 1; row < n; row++ {
			factor := aug[row][col] / aug[col][col]
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := aug[i][n]
		for k := i + 1; k < n; k++ {
			sum -= aug[i][k] * x[k]
		}
		x[i] = sum / aug[i][i]
	}
	return x, true
}
