package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/analysis"
	"github.com/bvsim-dev/bvsim/internal/cache"
	"github.com/bvsim-dev/bvsim/internal/config"
	"github.com/bvsim-dev/bvsim/internal/storage"
	"github.com/bvsim-dev/bvsim/internal/team"
	"github.com/bvsim-dev/bvsim/internal/types"
	"github.com/bvsim-dev/bvsim/internal/websocket"
)

// SimulationHandler handles point simulation endpoints
type SimulationHandler struct {
	store  *storage.Store
	cache  *cache.SimulationCacheService
	wsHub  *websocket.Hub
	config *config.Config
	logger *logrus.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(
	store *storage.Store,
	cache *cache.SimulationCacheService,
	wsHub *websocket.Hub,
	cfg *config.Config,
	logger *logrus.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		store:  store,
		cache:  cache,
		wsHub:  wsHub,
		config: cfg,
		logger: logger,
	}
}

// SimulationRequest represents a request to simulate a batch of points
type SimulationRequest struct {
	TeamA     *team.Team `json:"team_a"`
	TeamB     *team.Team `json:"team_b"`
	NumPoints int        `json:"num_points"`
	Seed      *int64     `json:"seed,omitempty"`
}

// RunSimulation handles simulation requests
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req SimulationRequest
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

	if err := h.validateSimulationRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid simulation parameters",
			Code:  "INVALID_SIMULATION",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	simulationID := uuid.NewString()

	progressChan := make(chan types.ProgressUpdate, 100)
	defer close(progressChan)
	go h.forwardProgress(simulationID, progressChan)

	runner := analysis.NewSimulationRunner(h.logger)
	result, err := runner.Run(c.Request.Context(), req.TeamA, req.TeamB, req.NumPoints, req.Seed, progressChan)
	if err != nil {
		h.logger.WithError(err).Error("Simulation failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Simulation failed",
			Code:  "SIMULATION_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	if h.store != nil {
		if id, err := h.store.SaveSimulation(result); err != nil {
			h.logger.WithError(err).Warn("Failed to persist simulation result")
		} else {
			simulationID = id
		}
	}

	if h.cache != nil {
		expiration := time.Duration(h.config.CacheExpirationMinutes) * time.Minute
		if err := h.cache.SetSimulationResult(c.Request.Context(), simulationID, result, expiration); err != nil {
			h.logger.WithError(err).Warn("Failed to cache simulation result")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"simulation_id": simulationID,
		"result":        result,
	})
}

// GetSimulation returns a previously stored simulation result
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	id := c.Param("id")

	if h.cache != nil {
		if result, err := h.cache.GetSimulationResult(c.Request.Context(), id); err == nil {
			c.JSON(http.StatusOK, gin.H{"simulation_id": id, "result": result, "source": "cache"})
			return
		}
	}

	if h.store == nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error: "Simulation not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	result, err := h.store.GetSimulation(id)
	if err != nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error: "Simulation not found",
			Code:  "NOT_FOUND",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulation_id": id, "result": result, "source": "database"})
}

// ListSimulations returns recent simulation records
func (h *SimulationHandler) ListSimulations(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"simulations": []storage.SimulationRecord{}})
		return
	}

	records, err := h.store.ListSimulations(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Failed to list simulations",
			Code:  "DATABASE_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": records})
}

func (h *SimulationHandler) validateSimulationRequest(req *SimulationRequest) error {
	if req.TeamA == nil || req.TeamB == nil {
		return errMissingTeams
	}
	if req.NumPoints <= 0 {
		return errNonPositivePoints
	}
	if req.NumPoints > h.config.MaxPoints {
		return errTooManyPoints(h.config.MaxPoints)
	}
	if issues := team.Validate(req.TeamA); len(issues) > 0 {
		return errInvalidTeam("team_a", issues)
	}
	if issues := team.Validate(req.TeamB); len(issues) > 0 {
		return errInvalidTeam("team_b", issues)
	}
	return nil
}

func (h *SimulationHandler) forwardProgress(simulationID string, progressChan <-chan types.ProgressUpdate) {
	for update := range progressChan {
		if h.wsHub != nil {
			h.wsHub.BroadcastToRun(simulationID, update)
		}
	}
}
