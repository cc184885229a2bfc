// Package agent provides the read-only agent query endpoints: list and
// get, by instance UID.
package agent

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
	agentv1 "github.com/opamp-commander/opamp-commander/api/v1/agent"
	configrequestv1 "github.com/opamp-commander/opamp-commander/api/v1/configrequest"
	applicationport "github.com/opamp-commander/opamp-commander/internal/application/port"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// Controller implements the agent list/get HTTP endpoints.
type Controller struct {
	logger   *slog.Logger
	operator applicationport.OperatorUsecase
}

// NewController creates a new instance of Controller.
func NewController(operator applicationport.OperatorUsecase, logger *slog.Logger) *Controller {
	return &Controller{
		logger:   logger,
		operator: operator,
	}
}

// RoutesInfo returns the routes information for the agent controller.
func (c *Controller) RoutesInfo() gin.RoutesInfo {
	return gin.RoutesInfo{
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/agents",
			Handler:     "http.v1.agent.List",
			HandlerFunc: c.List,
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/agents/:id",
			Handler:     "http.v1.agent.Get",
			HandlerFunc: c.Get,
		},
		{
			Method:      http.MethodPost,
			Path:        "/api/v1/agents/:id/request-effective-config",
			Handler:     "http.v1.agent.RequestEffectiveConfig",
			HandlerFunc: c.RequestEffectiveConfig,
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/agents/:id/config-requests/:trackingId",
			Handler:     "http.v1.agent.GetConfigRequest",
			HandlerFunc: c.GetConfigRequest,
		},
	}
}

// List retrieves a page of agents in the caller's org.
//
// @Summary List agents
// @Tags Agent
// @Produce json
// @Param org query string true "organization"
// @Param limit query int false "page size"
// @Param continue query string false "continuation token"
// @Success 200 {object} agentv1.List
// @Router /api/v1/agents [get].
func (c *Controller) List(ctx *gin.Context) {
	org := ctx.Query("org")

	options := model.ListOptions{Continue: ctx.Query("continue")}
	if limit := ctx.Query("limit"); limit != "" {
		if parsed, err := strconv.ParseInt(limit, 10, 64); err == nil {
			options.Limit = parsed
		}
	}

	resp, err := c.operator.ListAgents(ctx.Request.Context(), org, options)
	if err != nil {
		c.logger.Error("failed to list agents", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	items := make([]*agentv1.Agent, 0, len(resp.Items))
	for _, a := range resp.Items {
		items = append(items, toDTO(a))
	}

	ctx.JSON(http.StatusOK, agentv1.List{
		ListMeta: v1.ListMeta{
			Continue:           resp.Continue,
			RemainingItemCount: resp.RemainingItemCount,
		},
		Items: items,
	})
}

// Get retrieves an agent by its instance UID.
//
// @Summary Get an agent
// @Tags Agent
// @Produce json
// @Param id path string true "instance UID"
// @Success 200 {object} agentv1.Agent
// @Failure 404 {object} gin.H
// @Router /api/v1/agents/{id} [get].
func (c *Controller) Get(ctx *gin.Context) {
	instanceUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance uid"})

		return
	}

	agentRecord, err := c.operator.GetAgent(ctx.Request.Context(), instanceUID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})

			return
		}

		c.logger.Error("failed to get agent", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, toDTO(agentRecord))
}

// RequestEffectiveConfig asks an agent to report its full effective config
// on its next message and returns a tracking id to poll.
//
// @Summary Request effective config
// @Tags Agent
// @Produce json
// @Param id path string true "instance UID"
// @Success 202 {object} configrequestv1.RequestResponse
// @Router /api/v1/agents/{id}/request-effective-config [post].
func (c *Controller) RequestEffectiveConfig(ctx *gin.Context) {
	instanceUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance uid"})

		return
	}

	trackingID, err := c.operator.RequestEffectiveConfig(ctx.Request.Context(), instanceUID)
	if err != nil {
		c.logger.Error("failed to request effective config", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusAccepted, configrequestv1.RequestResponse{TrackingID: trackingID})
}

// GetConfigRequest polls the status of a tracked effective-config request.
//
// @Summary Get config request
// @Tags Agent
// @Produce json
// @Param id path string true "instance UID"
// @Param trackingId path string true "tracking id"
// @Success 200 {object} configrequestv1.Request
// @Failure 404 {object} gin.H
// @Router /api/v1/agents/{id}/config-requests/{trackingId} [get].
func (c *Controller) GetConfigRequest(ctx *gin.Context) {
	trackingID, err := uuid.Parse(ctx.Param("trackingId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid tracking id"})

		return
	}

	req, err := c.operator.GetConfigRequest(ctx.Request.Context(), trackingID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "config request not found"})

			return
		}

		c.logger.Error("failed to get config request", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	dto := configrequestv1.Request{
		TrackingID:          req.TrackingID,
		InstanceUID:         req.InstanceUID,
		Status:              string(req.Status),
		RequestedAt:         v1.NewTime(req.RequestedAt),
		EffectiveConfigYAML: string(req.EffectiveConfigYAML),
		EffectiveConfigHash: req.EffectiveConfigHash.String(),
		Error:               req.Error,
	}

	if !req.CompletedAt.IsZero() {
		completedAt := v1.NewTime(req.CompletedAt)
		dto.CompletedAt = &completedAt
	}

	ctx.JSON(http.StatusOK, dto)
}
