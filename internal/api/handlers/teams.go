package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bvsim-dev/bvsim/internal/team"
	"github.com/bvsim-dev/bvsim/internal/types"
)

// TeamsHandler handles team configuration endpoints
type TeamsHandler struct {
	templates *team.TemplateProvider
	logger    *logrus.Logger
}

// NewTeamsHandler creates a new teams handler
func NewTeamsHandler(templates *team.TemplateProvider, logger *logrus.Logger) *TeamsHandler {
	return &TeamsHandler{
		templates: templates,
		logger:    logger,
	}
}

// ValidateTeam checks a team configuration and returns any issues found
func (h *TeamsHandler) ValidateTeam(c *gin.Context) {
	var t team.Team
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	issues := team.Validate(&t)
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

// GetTemplate returns a template team configuration
func (h *TeamsHandler) GetTemplate(c *gin.Context) {
	templateType := c.Param("type")
	name := c.DefaultQuery("name", "Template Team")

	t, ok := h.templates.ByType(templateType, name)
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error: "Unknown template type",
			Code:  "NOT_FOUND",
			Details: map[string]string{
				"template_type": templateType,
			},
		})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListParameters enumerates every adjustable parameter path of a team
func (h *TeamsHandler) ListParameters(c *gin.Context) {
	var t team.Team
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	params := t.Parameters()
	paths := make([]string, len(params))
	for i, p := range params {
		paths[i] = p.Path
	}
	c.JSON(http.StatusOK, gin.H{
		"total":      len(paths),
		"parameters": paths,
	})
}
