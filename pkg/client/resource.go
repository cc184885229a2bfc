package client

import (
	"context"
	"fmt"
	"strconv"
)

func getResource[T any](ctx context.Context, svc *service, url string, id string) (*T, error) {
	var result T

	response, err := svc.Resty.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&result).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

func postResource[T any](ctx context.Context, svc *service, url string, body any) (*T, error) {
	var result T

	response, err := svc.Resty.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("failed to post resource: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

func listQueryParams(settings ListSettings) map[string]string {
	params := make(map[string]string, 2) //nolint:mnd

	if settings.limit != nil && *settings.limit > 0 {
		params["limit"] = strconv.Itoa(*settings.limit)
	}

	if settings.continueToken != nil && *settings.continueToken != "" {
		params["continue"] = *settings.continueToken
	}

	return params
}
