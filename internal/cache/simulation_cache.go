package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/stats"
	"github.com/bvsim-dev/bvsim/internal/types"
)

// SimulationCacheService handles caching for simulation and analysis results
type SimulationCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewSimulationCacheService creates a new simulation cache service
func NewSimulationCacheService(client *redis.Client, logger *logrus.Logger) *SimulationCacheService {
	return &SimulationCacheService{
		client: client,
		logger: logger,
	}
}

// SetSimulationResult stores a simulation result in cache
func (c *SimulationCacheService) SetSimulationResult(ctx context.Context, key string, result *types.SimulationResult, expiration time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal simulation result: %w", err)
	}

	fullKey := fmt.Sprintf("simulation:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set simulation result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":    fullKey,
		"expiration":   expiration,
		"total_points": result.TotalPoints,
	}).Debug("Cached simulation result")

	return nil
}

// GetSimulationResult retrieves a simulation result from cache
func (c *SimulationCacheService) GetSimulationResult(ctx context.Context, key string) (*types.SimulationResult, error) {
	fullKey := fmt.Sprintf("simulation:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("simulation result not found in cache")
		}
		return nil, fmt.Errorf("failed to get simulation result from cache: %w", err)
	}

	var result types.SimulationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulation result: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":    fullKey,
		"total_points": result.TotalPoints,
	}).Debug("Retrieved simulation result from cache")

	return &result, nil
}

// SetSkillReport stores an aggregated skill analysis report in cache
func (c *SimulationCacheService) SetSkillReport(ctx context.Context, key string, report *stats.Report, expiration time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal skill report: %w", err)
	}

	fullKey := fmt.Sprintf("skills:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set skill report in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
		"parameters": len(report.Parameters),
	}).Debug("Cached skill report")

	return nil
}

// GetSkillReport retrieves an aggregated skill analysis report from cache
func (c *SimulationCacheService) GetSkillReport(ctx context.Context, key string) (*stats.Report, error) {
	fullKey := fmt.Sprintf("skills:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("skill report not found in cache")
		}
		return nil, fmt.Errorf("failed to get skill report from cache: %w", err)
	}

	var report stats.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skill report: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"parameters": len(report.Parameters),
	}).Debug("Retrieved skill report from cache")

	return &report, nil
}

// DeleteSimulationResult removes a simulation result from cache
func (c *SimulationCacheService) DeleteSimulationResult(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("simulation:%s", key)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to delete simulation result from cache: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Deleted simulation result from cache")
	return nil
}

// GetStatus returns cache statistics
func (c *SimulationCacheService) GetStatus(ctx context.Context) map[string]interface{} {
	info := c.client.Info(ctx)
	dbSize := c.client.DBSize(ctx)

	status := map[string]interface{}{
		"service":   "simulation-cache",
		"timestamp": time.Now(),
		"connected": true,
	}

	if dbSize.Err() == nil {
		status["db_size"] = dbSize.Val()
	}

	if info.Err() == nil {
		status["redis_info"] = "available"
	}

	simulationKeys, err := c.client.Keys(ctx, "simulation:*").Result()
	if err == nil {
		status["simulation_keys"] = len(simulationKeys)
	}

	skillKeys, err := c.client.Keys(ctx, "skills:*").Result()
	if err == nil {
		status["skill_keys"] = len(skillKeys)
	}

	return status
}

// FlushSimulationCache clears all simulation results from cache
func (c *SimulationCacheService) FlushSimulationCache(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "simulation:*").Result()
	if err != nil {
		return fmt.Errorf("failed to get simulation keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete simulation keys: %w", err)
		}
	}

	c.logger.WithField("deleted_keys", len(keys)).Info("Flushed simulation cache")
	return nil
}
