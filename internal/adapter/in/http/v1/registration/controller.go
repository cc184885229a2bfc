// Package registration implements the registration HTTP endpoints:
// minting operator-issued registration tokens and redeeming one for an
// OpAMP bearer token.
package registration

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
	registrationv1 "github.com/opamp-commander/opamp-commander/api/v1/registration"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// DefaultTokenTTL is used when a mint request omits ttlSeconds.
const DefaultTokenTTL = 24 * time.Hour

// Controller implements the registration-token and gateway-registration
// HTTP endpoints.
type Controller struct {
	logger        *slog.Logger
	auth          port.AuthUsecase
	opampEndpoint string
}

// NewController creates a new instance of Controller. opampEndpoint is
// echoed back to a newly registered gateway so it knows where to dial in.
func NewController(auth port.AuthUsecase, opampEndpoint string, logger *slog.Logger) *Controller {
	return &Controller{logger: logger, auth: auth, opampEndpoint: opampEndpoint}
}

// RoutesInfo returns the routes information for the registration controller.
func (c *Controller) RoutesInfo() gin.RoutesInfo {
	return gin.RoutesInfo{
		{
			Method: http.MethodPost, Path: "/api/v1/registration-tokens",
			Handler: "http.v1.registration.MintToken", HandlerFunc: c.MintToken,
		},
		{
			Method: http.MethodPost, Path: "/api/v1/gateways",
			Handler: "http.v1.registration.RegisterGateway", HandlerFunc: c.RegisterGateway,
		},
	}
}

// MintToken mints a new one-shot registration token.
//
// @Summary Mint registration token
// @Tags Registration
// @Accept json
// @Produce json
// @Param body body registrationv1.MintTokenRequest true "token spec"
// @Success 201 {object} registrationv1.MintTokenResponse
// @Router /api/v1/registration-tokens [post].
func (c *Controller) MintToken(ctx *gin.Context) {
	var req registrationv1.MintTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ttl := DefaultTokenTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	token, err := c.auth.MintRegistrationToken(ctx.Request.Context(), req.Org, ttl)
	if err != nil {
		c.logger.Error("failed to mint registration token", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, registrationv1.MintTokenResponse{
		ID:        token.ID,
		Token:     token.OneShotSecret,
		ExpiresAt: v1.NewTime(token.ExpiresAt),
	})
}

// RegisterGateway redeems a one-shot registration token (presented as a
// bearer token on this request) for a long-lived OpAMP bearer token.
//
// @Summary Register gateway
// @Tags Registration
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <registration token>"
// @Param body body registrationv1.RegisterGatewayRequest true "gateway identity"
// @Success 201 {object} registrationv1.RegisterGatewayResponse
// @Failure 401 {object} gin.H
// @Router /api/v1/gateways [post].
func (c *Controller) RegisterGateway(ctx *gin.Context) {
	secret := bearerToken(ctx.GetHeader("Authorization"))
	if secret == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing registration token"})

		return
	}

	var req registrationv1.RegisterGatewayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	bearer, err := c.auth.RedeemRegistrationToken(ctx.Request.Context(), secret, port.RegisterGateway{
		Name:       req.Name,
		InstanceID: req.InstanceID,
		Hostname:   req.Hostname,
		IPAddress:  req.IPAddress,
		Metadata:   req.Metadata,
	})
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "registration token not consumable"})

			return
		}

		c.logger.Error("failed to register gateway", slog.String("error", err.Error()))
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "registration token not consumable"})

		return
	}

	ctx.JSON(http.StatusCreated, registrationv1.RegisterGatewayResponse{
		ID:            bearer.InstanceUID,
		OpAMPToken:    bearer.Secret,
		OpAMPEndpoint: c.opampEndpoint,
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimPrefix(header, prefix)
}
