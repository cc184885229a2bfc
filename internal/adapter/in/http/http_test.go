package http_test

import (
	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http"
	"github.com/opamp-commander/opamp-commander/pkg/apiserver/module/helper"
)

var (
	// Ensure HealthService implements http.HealthService interface.
	_ http.HealthService = (*helper.HealthService)(nil)

	// Ensure HealthController implements helper.Controller interface.
	_ helper.Controller = (*http.HealthController)(nil)
)
