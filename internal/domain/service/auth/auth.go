// Package auth implements the auth adapter: registration-token minting
// and atomic consumption, and OpAMP bearer-token validation.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/registration"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.AuthUsecase = (*Service)(nil)

// ErrTokenNotConsumable is returned when a registration token has already
// been consumed or has expired.
var ErrTokenNotConsumable = errors.New("auth: registration token not consumable")

// Service implements port.AuthUsecase.
type Service struct {
	registration port.RegistrationPersistencePort
	agents       port.AgentPersistencePort
	logger       *slog.Logger
}

// New creates a Service.
func New(
	registrationPort port.RegistrationPersistencePort,
	agentsPort port.AgentPersistencePort,
	logger *slog.Logger,
) *Service {
	return &Service{
		registration: registrationPort,
		agents:       agentsPort,
		logger:       logger,
	}
}

// MintRegistrationToken implements port.AuthUsecase.
func (s *Service) MintRegistrationToken(
	ctx context.Context,
	org string,
	ttl time.Duration,
) (*registration.Token, error) {
	secret, err := randomSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate registration token secret: %w", err)
	}

	token := &registration.Token{
		ID:            uuid.New(),
		Org:           org,
		OneShotSecret: secret,
		ExpiresAt:     time.Now().Add(ttl),
	}

	if err := s.registration.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create registration token: %w", err)
	}

	return token, nil
}

// RedeemRegistrationToken implements port.AuthUsecase.
//
// Consumption is a single conditional update gated on consumed_at IS NULL,
// performed by the persistence adapter; here we only interpret the
// result, create or bind the agent record, and mint the bearer token.
func (s *Service) RedeemRegistrationToken(
	ctx context.Context,
	secret string,
	gw port.RegisterGateway,
) (*registration.BearerToken, error) {
	token, err := s.registration.ConsumeToken(ctx, secret, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenNotConsumable, err)
	}

	instanceUID := gw.InstanceID
	if instanceUID == uuid.Nil {
		instanceUID = uuid.New()
	}

	agentRecord, err := s.agents.GetAgent(ctx, instanceUID)
	if err != nil {
		if !errors.Is(err, port.ErrResourceNotExist) {
			return nil, fmt.Errorf("failed to look up agent for registration: %w", err)
		}

		agentRecord = model.NewAgent(instanceUID)
	}

	agentRecord.Org = token.Org
	agentRecord.DisplayName = gw.Name
	agentRecord.Hostname = gw.Hostname
	agentRecord.IP = gw.IPAddress

	if err := s.agents.PutAgent(ctx, agentRecord); err != nil {
		return nil, fmt.Errorf("failed to save agent for registration: %w", err)
	}

	bearerSecret, err := randomSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bearer token secret: %w", err)
	}

	bearer := &registration.BearerToken{
		ID:          uuid.New(),
		InstanceUID: instanceUID,
		Org:         token.Org,
		Secret:      bearerSecret,
		IssuedAt:    time.Now(),
	}

	if err := s.registration.CreateBearerToken(ctx, bearer); err != nil {
		return nil, fmt.Errorf("failed to create bearer token: %w", err)
	}

	return bearer, nil
}

// Authenticate implements port.AuthUsecase.
func (s *Service) Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error) {
	token, err := s.registration.GetBearerToken(ctx, bearerToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to authenticate bearer token: %w", err)
	}

	return token.InstanceUID, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
