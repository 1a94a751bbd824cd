package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear any existing environment variables that might interfere
	os.Clearenv()

	config, err := Load()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.LogLevel)

	assert.Equal(t, 252, config.Screening.LookbackWindow)
	assert.Equal(t, 0.7, config.Screening.MinCorrelation)
	assert.Equal(t, 0.05, config.Screening.PValueThreshold)
	assert.Equal(t, 12, config.Screening.ADFMaxLags)
	assert.Equal(t, 1, config.Screening.Workers)

	assert.Equal(t, "difference", config.Spread.Method)
	assert.Equal(t, 30, config.Spread.ZScoreWindow)
	assert.Equal(t, 2.0, config.Spread.EntryZScore)
	assert.Equal(t, 0.5, config.Spread.ExitZScore)
	assert.Equal(t, 3.0, config.Spread.StopZScore)
	assert.Equal(t, 60.0, config.Spread.MaxHalfLife)
	assert.Equal(t, 20, config.Spread.HurstMaxLag)

	assert.Equal(t, 0.35, config.Scoring.CointegrationWeight)
	assert.Equal(t, 0.25, config.Scoring.HalfLifeWeight)
	assert.Equal(t, 0.20, config.Scoring.CorrelationWeight)
	assert.Equal(t, 0.20, config.Scoring.HurstWeight)
	assert.Equal(t, 50.0, config.Scoring.MinScore)
	assert.Equal(t, 20, config.Scoring.MaxPairs)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Setenv("ENVIRONMENT", "PRODUCTION")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SCREENING_LOOKBACK_WINDOW", "120")
	t.Setenv("SCREENING_MIN_CORRELATION", "0.6")
	t.Setenv("SCREENING_WORKERS", "4")
	t.Setenv("SPREAD_METHOD", "ratio")
	t.Setenv("SPREAD_ZSCORE_WINDOW", "20")
	t.Setenv("SPREAD_ENTRY_ZSCORE", "1.5")
	t.Setenv("SCORING_MIN_SCORE", "10")
	t.Setenv("SCORING_MAX_PAIRS", "5")

	config, err := Load()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "production", config.Environment, "environment is normalized to lowercase")
	assert.Equal(t, "error", config.LogLevel)
	assert.Equal(t, 120, config.Screening.LookbackWindow)
	assert.Equal(t, 0.6, config.Screening.MinCorrelation)
	assert.Equal(t, 4, config.Screening.Workers)
	assert.Equal(t, "ratio", config.Spread.Method)
	assert.Equal(t, 20, config.Spread.ZScoreWindow)
	assert.Equal(t, 1.5, config.Spread.EntryZScore)
	assert.Equal(t, 10.0, config.Scoring.MinScore)
	assert.Equal(t, 5, config.Scoring.MaxPairs)
}

func TestLoad_InvalidWeightsFromEnvironment(t *testing.T) {
	t.Setenv("SCORING_COINTEGRATION_WEIGHT", "0.5")

	config, err := Load()
	require.Error(t, err)
	assert.Nil(t, config)
	assert.ErrorContains(t, err, "weights must sum to 1.0")
}

func TestDefault(t *testing.T) {
	config := Default()

	require.NoError(t, config.Validate())
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 252, config.Screening.LookbackWindow)
	assert.Equal(t, "difference", config.Spread.Method)
	assert.Equal(t, 20, config.Scoring.MaxPairs)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero lookback window",
			mutate:  func(c *Config) { c.Screening.LookbackWindow = 0 },
			wantErr: "lookback_window",
		},
		{
			name:    "min correlation at one",
			mutate:  func(c *Config) { c.Screening.MinCorrelation = 1.0 },
			wantErr: "min_correlation",
		},
		{
			name:    "negative min correlation",
			mutate:  func(c *Config) { c.Screening.MinCorrelation = -0.2 },
			wantErr: "min_correlation",
		},
		{
			name:    "zero p-value threshold",
			mutate:  func(c *Config) { c.Screening.PValueThreshold = 0 },
			wantErr: "pvalue_threshold",
		},
		{
			name:    "oversized p-value threshold",
			mutate:  func(c *Config) { c.Screening.PValueThreshold = 0.6 },
			wantErr: "pvalue_threshold",
		},
		{
			name:    "negative adf lags",
			mutate:  func(c *Config) { c.Screening.ADFMaxLags = -1 },
			wantErr: "adf_max_lags",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Screening.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "unknown spread method",
			mutate:  func(c *Config) { c.Spread.Method = "log" },
			wantErr: "spread.method",
		},
		{
			name:    "tiny zscore window",
			mutate:  func(c *Config) { c.Spread.ZScoreWindow = 1 },
			wantErr: "zscore_window",
		},
		{
			name:    "negative exit threshold",
			mutate:  func(c *Config) { c.Spread.ExitZScore = -0.1 },
			wantErr: "thresholds",
		},
		{
			name: "entry below exit",
			mutate: func(c *Config) {
				c.Spread.EntryZScore = 0.4
			},
			wantErr: "thresholds",
		},
		{
			name: "stop below entry",
			mutate: func(c *Config) {
				c.Spread.StopZScore = 1.5
			},
			wantErr: "thresholds",
		},
		{
			name:    "max half-life too small",
			mutate:  func(c *Config) { c.Spread.MaxHalfLife = 30 },
			wantErr: "max_half_life",
		},
		{
			name:    "hurst lag too small",
			mutate:  func(c *Config) { c.Spread.HurstMaxLag = 1 },
			wantErr: "hurst_max_lag",
		},
		{
			name: "negative weight",
			mutate: func(c *Config) {
				c.Scoring.CointegrationWeight = -0.1
				c.Scoring.HalfLifeWeight = 0.7
			},
			wantErr: "must not be negative",
		},
		{
			name: "weights do not sum to one",
			mutate: func(c *Config) {
				c.Scoring.CointegrationWeight = 0.5
			},
			wantErr: "weights must sum to 1.0",
		},
		{
			name:    "negative min score",
			mutate:  func(c *Config) { c.Scoring.MinScore = -5 },
			wantErr: "min_score",
		},
		{
			name:    "min score above hundred",
			mutate:  func(c *Config) { c.Scoring.MinScore = 101 },
			wantErr: "min_score",
		},
		{
			name:    "zero max pairs",
			mutate:  func(c *Config) { c.Scoring.MaxPairs = 0 },
			wantErr: "max_pairs",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := Default()
			tc.mutate(config)

			err := config.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
