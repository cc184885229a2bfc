// Package deployment implements the deployment/rollout HTTP endpoints:
// create, status, rollback, ad-hoc push, and the pure YAML-compare helper.
package deployment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
	deploymentv1 "github.com/opamp-commander/opamp-commander/api/v1/deployment"
	applicationport "github.com/opamp-commander/opamp-commander/internal/application/port"
	domaindeployment "github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// Controller implements the deployment HTTP endpoints.
type Controller struct {
	logger   *slog.Logger
	operator applicationport.OperatorUsecase
}

// NewController creates a new instance of Controller.
func NewController(operator applicationport.OperatorUsecase, logger *slog.Logger) *Controller {
	return &Controller{logger: logger, operator: operator}
}

// RoutesInfo returns the routes information for the deployment controller.
func (c *Controller) RoutesInfo() gin.RoutesInfo {
	return gin.RoutesInfo{
		{
			Method: http.MethodPost, Path: "/api/v1/opamp-config/deployments",
			Handler: "http.v1.deployment.Create", HandlerFunc: c.Create,
		},
		{
			Method: http.MethodGet, Path: "/api/v1/opamp-config/deployments/:id/status",
			Handler: "http.v1.deployment.Status", HandlerFunc: c.Status,
		},
		{
			Method: http.MethodPost, Path: "/api/v1/opamp-config/deployments/:id/rollback",
			Handler: "http.v1.deployment.Rollback", HandlerFunc: c.Rollback,
		},
		{
			Method: http.MethodPost, Path: "/api/v1/opamp-config/push",
			Handler: "http.v1.deployment.Push", HandlerFunc: c.Push,
		},
		{
			Method: http.MethodPost, Path: "/api/v1/opamp-config/compare",
			Handler: "http.v1.deployment.Compare", HandlerFunc: c.Compare,
		},
	}
}

// Create creates a new deployment.
//
// @Summary Create deployment
// @Tags Deployment
// @Accept json
// @Produce json
// @Param org query string true "organization"
// @Param body body deploymentv1.CreateRequest true "deployment spec"
// @Success 201 {object} deploymentv1.Deployment
// @Router /api/v1/opamp-config/deployments [post].
func (c *Controller) Create(ctx *gin.Context) {
	var req deploymentv1.CreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	d, err := c.operator.CreateDeployment(ctx.Request.Context(), applicationport.CreateDeploymentInput{
		Org:              ctx.Query("org"),
		Name:             req.Name,
		ConfigYAML:       []byte(req.ConfigYAML),
		RolloutStrategy:  domaindeployment.Strategy(req.RolloutStrategy),
		CanaryPercentage: req.CanaryPercentage,
		TargetTags:       req.TargetTags,
		IgnoreFailures:   req.IgnoreFailures,
	})
	if err != nil {
		c.logger.Error("failed to create deployment", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, toDTO(d))
}

// Push deploys config to a tag set as an immediate, one-shot deployment.
//
// @Summary Push ad-hoc config
// @Tags Deployment
// @Accept json
// @Produce json
// @Param org query string true "organization"
// @Param body body deploymentv1.PushRequest true "push spec"
// @Success 201 {object} deploymentv1.Deployment
// @Router /api/v1/opamp-config/push [post].
func (c *Controller) Push(ctx *gin.Context) {
	var req deploymentv1.PushRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	d, err := c.operator.PushAdHocConfig(
		ctx.Request.Context(), ctx.Query("org"), req.Name, req.TargetTags, []byte(req.ConfigYAML), req.IgnoreFailures,
	)
	if err != nil {
		c.logger.Error("failed to push ad-hoc config", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, toDTO(d))
}

// Status returns a deployment's progress snapshot.
//
// @Summary Deployment status
// @Tags Deployment
// @Produce json
// @Param id path string true "deployment id"
// @Success 200 {object} deploymentv1.StatusResponse
// @Failure 404 {object} gin.H
// @Router /api/v1/opamp-config/deployments/{id}/status [get].
func (c *Controller) Status(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})

		return
	}

	d, progress, rows, err := c.operator.GetDeploymentStatus(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "deployment not found"})

			return
		}

		c.logger.Error("failed to get deployment status", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	auditRows := make([]deploymentv1.AuditRow, 0, len(rows))
	for _, row := range rows {
		auditRows = append(auditRows, deploymentv1.AuditRow{
			InstanceUID:         row.InstanceUID,
			ConfigHash:          row.ConfigHash.String(),
			Status:              string(row.Status),
			EffectiveConfigHash: row.EffectiveConfigHash.String(),
			Error:               row.Error,
			ReportedAt:          v1.NewTime(row.ReportedAt),
		})
	}

	ctx.JSON(http.StatusOK, deploymentv1.StatusResponse{
		Deployment: toDTO(d),
		Progress: deploymentv1.Progress{
			Applied:     progress.Applied,
			Applying:    progress.Applying,
			Failed:      progress.Failed,
			Pending:     progress.Pending,
			Total:       progress.Total,
			SuccessRate: progress.SuccessRate,
		},
		AuditRows: auditRows,
	})
}

// Rollback creates and starts a rollback deployment.
//
// @Summary Rollback deployment
// @Tags Deployment
// @Produce json
// @Param id path string true "deployment id"
// @Success 201 {object} deploymentv1.Deployment
// @Router /api/v1/opamp-config/deployments/{id}/rollback [post].
func (c *Controller) Rollback(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})

		return
	}

	d, err := c.operator.RollbackDeployment(ctx.Request.Context(), id)
	if err != nil {
		c.logger.Error("failed to rollback deployment", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, toDTO(d))
}

// Compare diffs two YAML documents.
//
// @Summary Compare YAML documents
// @Tags Deployment
// @Accept json
// @Produce json
// @Param body body deploymentv1.CompareRequest true "documents to compare"
// @Success 200 {object} deploymentv1.CompareResponse
// @Router /api/v1/opamp-config/compare [post].
func (c *Controller) Compare(ctx *gin.Context) {
	var req deploymentv1.CompareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	result, err := c.operator.CompareYAML(ctx.Request.Context(), []byte(req.Before), []byte(req.After))
	if err != nil {
		c.logger.Error("failed to compare yaml", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, deploymentv1.CompareResponse{
		Identical:    result.Identical,
		UnifiedDiff:  result.UnifiedDiff,
		LinesAdded:   result.LinesAdded,
		LinesRemoved: result.LinesRemoved,
	})
}

func toDTO(d *domaindeployment.Deployment) deploymentv1.Deployment {
	dto := deploymentv1.Deployment{
		ID:               d.ID,
		Org:              d.Org,
		Name:             d.Name,
		ConfigVersion:    d.ConfigVersion,
		ConfigHash:       d.ConfigHash.String(),
		RolloutStrategy:  string(d.RolloutStrategy),
		CanaryPercentage: d.CanaryPercentage,
		TargetTags:       d.TargetTags,
		Status:           string(d.Status),
		IgnoreFailures:   d.IgnoreFailures,
		IsRollback:       d.IsRollback,
		StartedAt:        v1.NewTime(d.StartedAt),
		FailureReason:    d.FailureReason,
	}

	if !d.CompletedAt.IsZero() {
		completedAt := v1.NewTime(d.CompletedAt)
		dto.CompletedAt = &completedAt
	}

	return dto
}
