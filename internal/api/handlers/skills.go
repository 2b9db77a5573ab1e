package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/cache"
	"github.com/bvsim-dev/bvsim/internal/config"
	"github.com/bvsim-dev/bvsim/internal/stats"
	"github.com/bvsim-dev/bvsim/internal/storage"
	"github.com/bvsim-dev/bvsim/internal/team"
	"github.com/bvsim-dev/bvsim/internal/types"
)

// SkillsHandler handles skill sweep and statistical analysis endpoints
type SkillsHandler struct {
	store  *storage.Store
	cache  *cache.SimulationCacheService
	config *config.Config
	logger *logrus.Logger
}

// NewSkillsHandler creates a new skills handler
func NewSkillsHandler(
	store *storage.Store,
	cache *cache.SimulationCacheService,
	cfg *config.Config,
	logger *logrus.Logger,
) *SkillsHandler {
	return &SkillsHandler{
		store:  store,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

// SkillAnalysisRequest represents a request to sweep a team's parameters
type SkillAnalysisRequest struct {
	Team     *team.Team `json:"team"`
	Opponent *team.Team `json:"opponent"`
	Change   *float64   `json:"change,omitempty"`
	Trials   *int       `json:"trials,omitempty"`
}

// StatisticalAnalysisRequest adds repeated runs and match conversion
type StatisticalAnalysisRequest struct {
	SkillAnalysisRequest
	Runs *int `json:"runs,omitempty"`
}

func (h *SkillsHandler) resolveRequest(req *SkillAnalysisRequest) (change float64, trials int, err error) {
	if req.Team == nil || req.Opponent == nil {
		return 0, 0, errMissingTeams
	}
	if issues := team.Validate(req.Team); len(issues) > 0 {
		return 0, 0, errInvalidTeam("team", issues)
	}
	if issues := team.Validate(req.Opponent); len(issues) > 0 {
		return 0, 0, errInvalidTeam("opponent", issues)
	}

	change = h.config.DefaultChange
	if req.Change != nil {
		change = *req.Change
	}
	trials = h.config.TrialsPerTest
	if req.Trials != nil && *req.Trials > 0 {
		trials = *req.Trials
	}
	return change, trials, nil
}

// RunSkillAnalysis sweeps every parameter once and returns raw improvements
func (h *SkillsHandler) RunSkillAnalysis(c *gin.Context) {
	var req SkillAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	change, trials, err := h.resolveRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid analysis parameters",
			Code:  "INVALID_ANALYSIS",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	engine := analysis.NewEngine(h.logger, trials, "A", h.config.SimulationWorkers != 1)
	result, err := engine.FullSkillAnalysis(c.Request.Context(), req.Team, req.Opponent, change)
	if err != nil {
		h.logger.WithError(err).Error("Skill analysis failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Skill analysis failed",
			Code:  "ANALYSIS_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RunStatisticalAnalysis repeats the sweep and aggregates with confidence
// intervals and match-level significance
func (h *SkillsHandler) RunStatisticalAnalysis(c *gin.Context) {
	var req StatisticalAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	change, trials, err := h.resolveRequest(&req.SkillAnalysisRequest)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid analysis parameters",
			Code:  "INVALID_ANALYSIS",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	runs := h.config.StatRuns
	if req.Runs != nil && *req.Runs > 0 {
		runs = *req.Runs
	}

	engine := analysis.NewEngine(h.logger, trials, "A", h.config.SimulationWorkers != 1)
	aggregator := stats.NewAggregator(h.logger, engine, runs, trials, h.config.MatchSimulations)
	report, err := aggregator.RepeatedSkillAnalysis(c.Request.Context(), req.Team, req.Opponent, change)
	if err != nil {
		h.logger.WithError(err).Error("Statistical analysis failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Statistical analysis failed",
			Code:  "ANALYSIS_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	if h.store != nil {
		if _, err := h.store.SaveSkillReport(req.Team.Name, req.Opponent.Name, report); err != nil {
			h.logger.WithError(err).Warn("Failed to persist skill report")
		}
	}
	if h.cache != nil {
		expiration := time.Duration(h.config.CacheExpirationMinutes) * time.Minute
		if err := h.cache.SetSkillReport(c.Request.Context(), report.RunID, report, expiration); err != nil {
			h.logger.WithError(err).Warn("Failed to cache skill report")
		}
	}

	c.JSON(http.StatusOK, report)
}
