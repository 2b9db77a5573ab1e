package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database (optional - simulation results persistence)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional - analysis result cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Simulation
	TrialsPerTest     int `mapstructure:"TRIALS_PER_TEST"`
	MaxPoints         int `mapstructure:"MAX_POINTS"`
	SimulationWorkers int `mapstructure:"SIMULATION_WORKERS"`

	// Statistical analysis
	StatRuns         int     `mapstructure:"STAT_RUNS"`
	MatchSimulations int     `mapstructure:"MATCH_SIMULATIONS"`
	DefaultChange    float64 `mapstructure:"DEFAULT_CHANGE"`

	// Cache
	CacheExpirationMinutes int `mapstructure:"CACHE_EXPIRATION_MINUTES"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("TRIALS_PER_TEST", 100000)
	viper.SetDefault("MAX_POINTS", 1000000)
	viper.SetDefault("SIMULATION_WORKERS", 0)
	viper.SetDefault("STAT_RUNS", 5)
	viper.SetDefault("MATCH_SIMULATIONS", 10000)
	viper.SetDefault("DEFAULT_CHANGE", 0.05)
	viper.SetDefault("CACHE_EXPIRATION_MINUTES", 60)

	viper.AutomaticEnv()

	// Read config file if present; environment variables win either way
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.TrialsPerTest <= 0 {
		return nil, fmt.Errorf("TRIALS_PER_TEST must be positive, got %d", config.TrialsPerTest)
	}
	if config.StatRuns <= 0 {
		return nil, fmt.Errorf("STAT_RUNS must be positive, got %d", config.StatRuns)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Env) == "development"
}
