package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Screening   ScreeningConfig `mapstructure:"screening"`
	Spread      SpreadConfig    `mapstructure:"spread"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
}

// ScreeningConfig controls the cointegration test and the universe scan.
type ScreeningConfig struct {
	LookbackWindow  int     `mapstructure:"lookback_window"`
	MinCorrelation  float64 `mapstructure:"min_correlation"`
	PValueThreshold float64 `mapstructure:"pvalue_threshold"`
	ADFMaxLags      int     `mapstructure:"adf_max_lags"`
	Workers         int     `mapstructure:"workers"`
}

// SpreadConfig controls spread construction, z-score thresholds and the
// mean-reversion diagnostics.
type SpreadConfig struct {
	Method       string  `mapstructure:"method"`
	ZScoreWindow int     `mapstructure:"zscore_window"`
	EntryZScore  float64 `mapstructure:"entry_zscore"`
	ExitZScore   float64 `mapstructure:"exit_zscore"`
	StopZScore   float64 `mapstructure:"stop_zscore"`
	MaxHalfLife  float64 `mapstructure:"max_half_life"`
	HurstMaxLag  int     `mapstructure:"hurst_max_lag"`
}

// ScoringConfig controls pair scoring, filtering and ranking.
type ScoringConfig struct {
	CointegrationWeight float64 `mapstructure:"cointegration_weight"`
	HalfLifeWeight      float64 `mapstructure:"half_life_weight"`
	CorrelationWeight   float64 `mapstructure:"correlation_weight"`
	HurstWeight         float64 `mapstructure:"hurst_weight"`
	MinScore            float64 `mapstructure:"min_score"`
	MaxPairs            int     `mapstructure:"max_pairs"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a configuration populated with the same defaults Load
// applies, for callers embedding the engine without a config file.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Screening: ScreeningConfig{
			LookbackWindow:  252,
			MinCorrelation:  0.7,
			PValueThreshold: 0.05,
			ADFMaxLags:      12,
			Workers:         1,
		},
		Spread: SpreadConfig{
			Method:       "difference",
			ZScoreWindow: 30,
			EntryZScore:  2.0,
			ExitZScore:   0.5,
			StopZScore:   3.0,
			MaxHalfLife:  60,
			HurstMaxLag:  20,
		},
		Scoring: ScoringConfig{
			CointegrationWeight: 0.35,
			HalfLifeWeight:      0.25,
			CorrelationWeight:   0.20,
			HurstWeight:         0.20,
			MinScore:            50,
			MaxPairs:            20,
		},
	}
}

// Validate checks every threshold and weight once, at construction time, so
// the statistical services never re-validate during computation.
func (c *Config) Validate() error {
	s := c.Screening
	if s.LookbackWindow <= 0 {
		return fmt.Errorf("screening.lookback_window must be positive, got %d", s.LookbackWindow)
	}
	if s.MinCorrelation < 0 || s.MinCorrelation >= 1 {
		return fmt.Errorf("screening.min_correlation must be in [0, 1), got %v", s.MinCorrelation)
	}
	if s.PValueThreshold <= 0 || s.PValueThreshold > 0.5 {
		return fmt.Errorf("screening.pvalue_threshold must be in (0, 0.5], got %v", s.PValueThreshold)
	}
	if s.ADFMaxLags < 0 {
		return fmt.Errorf("screening.adf_max_lags must not be negative, got %d", s.ADFMaxLags)
	}
	if s.Workers < 1 {
		return fmt.Errorf("screening.workers must be at least 1, got %d", s.Workers)
	}

	p := c.Spread
	switch p.Method {
	case "difference", "ratio":
	default:
		return fmt.Errorf("spread.method must be difference or ratio, got %q", p.Method)
	}
	if p.ZScoreWindow < 2 {
		return fmt.Errorf("spread.zscore_window must be at least 2, got %d", p.ZScoreWindow)
	}
	if p.ExitZScore < 0 || p.EntryZScore <= p.ExitZScore || p.StopZScore <= p.EntryZScore {
		return fmt.Errorf("spread thresholds must satisfy 0 <= exit < entry < stop, got exit=%v entry=%v stop=%v",
			p.ExitZScore, p.EntryZScore, p.StopZScore)
	}
	if p.MaxHalfLife <= 30 {
		return fmt.Errorf("spread.max_half_life must exceed 30 periods, got %v", p.MaxHalfLife)
	}
	if p.HurstMaxLag < 2 {
		return fmt.Errorf("spread.hurst_max_lag must be at least 2, got %d", p.HurstMaxLag)
	}

	w := c.Scoring
	for name, weight := range map[string]float64{
		"scoring.cointegration_weight": w.CointegrationWeight,
		"scoring.half_life_weight":     w.HalfLifeWeight,
		"scoring.correlation_weight":   w.CorrelationWeight,
		"scoring.hurst_weight":         w.HurstWeight,
	} {
		if weight < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, weight)
		}
	}
	sum := w.CointegrationWeight + w.HalfLifeWeight + w.CorrelationWeight + w.HurstWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	if w.MinScore < 0 || w.MinScore > 100 {
		return fmt.Errorf("scoring.min_score must be in [0, 100], got %v", w.MinScore)
	}
	if w.MaxPairs < 1 {
		return fmt.Errorf("scoring.max_pairs must be at least 1, got %d", w.MaxPairs)
	}
	return nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Screening
	viper.SetDefault("screening.lookback_window", 252)
	viper.SetDefault("screening.min_correlation", 0.7)
	viper.SetDefault("screening.pvalue_threshold", 0.05)
	viper.SetDefault("screening.adf_max_lags", 12)
	viper.SetDefault("screening.workers", 1)

	// Spread
	viper.SetDefault("spread.method", "difference")
	viper.SetDefault("spread.zscore_window", 30)
	viper.SetDefault("spread.entry_zscore", 2.0)
	viper.SetDefault("spread.exit_zscore", 0.5)
	viper.SetDefault("spread.stop_zscore", 3.0)
	viper.SetDefault("spread.max_half_life", 60.0)
	viper.SetDefault("spread.hurst_max_lag", 20)

	// Scoring
	viper.SetDefault("scoring.cointegration_weight", 0.35)
	viper.SetDefault("scoring.half_life_weight", 0.25)
	viper.SetDefault("scoring.correlation_weight", 0.20)
	viper.SetDefault("scoring.hurst_weight", 0.20)
	viper.SetDefault("scoring.min_score", 50.0)
	viper.SetDefault("scoring.max_pairs", 20)
}
