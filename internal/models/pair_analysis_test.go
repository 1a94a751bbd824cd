package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCointegrationResult_Pair(t *testing.T) {
	result := CointegrationResult{SymbolA: "BTC/USDT", SymbolB: "ETH/USDT"}
	assert.Equal(t, "BTC/USDT/ETH/USDT", result.Pair())

	result = CointegrationResult{SymbolA: "AAA", SymbolB: "BBB"}
	assert.Equal(t, "AAA/BBB", result.Pair())
}

func TestCointegrationResult_IsCointegrated(t *testing.T) {
	tests := []struct {
		status   CointegrationStatus
		expected bool
	}{
		{StatusCointegrated, true},
		{StatusWeak, false},
		{StatusNotCointegrated, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			result := CointegrationResult{Status: tc.status}
			assert.Equal(t, tc.expected, result.IsCointegrated())
		})
	}
}

func TestStatusAndSignalValues(t *testing.T) {
	// These string values are the external contract for serialized results.
	assert.Equal(t, CointegrationStatus("cointegrated"), StatusCointegrated)
	assert.Equal(t, CointegrationStatus("weak"), StatusWeak)
	assert.Equal(t, CointegrationStatus("not_cointegrated"), StatusNotCointegrated)

	assert.Equal(t, SignalDirection("long_spread"), SignalLongSpread)
	assert.Equal(t, SignalDirection("short_spread"), SignalShortSpread)
	assert.Equal(t, SignalDirection("exit"), SignalExit)
	assert.Equal(t, SignalDirection("no_signal"), SignalNone)

	assert.Equal(t, SpreadMethod("difference"), SpreadMethodDifference)
	assert.Equal(t, SpreadMethod("ratio"), SpreadMethodRatio)
}
