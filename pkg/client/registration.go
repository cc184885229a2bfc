package client

import (
	"context"
	"fmt"

	registrationv1 "github.com/opamp-commander/opamp-commander/api/v1/registration"
)

const (
	// MintRegistrationTokenURL mints a new one-shot registration token.
	MintRegistrationTokenURL = "/api/v1/registration-tokens"
	// RegisterGatewayURL redeems a registration token for an OpAMP bearer token.
	RegisterGatewayURL = "/api/v1/gateways"
)

// RegistrationService provides methods to mint registration tokens and
// register gateways on behalf of an operator.
type RegistrationService struct {
	service *service
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(service *service) *RegistrationService {
	return &RegistrationService{service: service}
}

// MintToken mints a new one-shot registration token for an org.
func (s *RegistrationService) MintToken(
	ctx context.Context,
	req registrationv1.MintTokenRequest,
) (*registrationv1.MintTokenResponse, error) {
	return postResource[registrationv1.MintTokenResponse](ctx, s.service, MintRegistrationTokenURL, req)
}

// RegisterGateway redeems a registration token (passed as token) for a
// long-lived OpAMP bearer token.
func (s *RegistrationService) RegisterGateway(
	ctx context.Context,
	token string,
	req registrationv1.RegisterGatewayRequest,
) (*registrationv1.RegisterGatewayResponse, error) {
	var result registrationv1.RegisterGatewayResponse

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&result).
		Post(RegisterGatewayURL)
	if err != nil {
		return nil, fmt.Errorf("failed to register gateway: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}
