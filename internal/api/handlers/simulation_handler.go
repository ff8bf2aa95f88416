package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lalaji/replenish/internal/service"
	"github.com/lalaji/replenish/internal/simulation"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// RunSimulation executes one of the seven scenarios and returns the result
// plus the mutation report when auto-apply is enabled.
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	scenarioType := c.Param("type")

	outcome, err := h.service.Run(c.Request.Context(), scenarioType)
	if err != nil {
		if errors.Is(err, simulation.ErrUnknownScenario) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown simulation type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
