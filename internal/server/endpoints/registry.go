package endpoints

import (
	"github.com/jackzampolin/isbnscan/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// ISBN endpoints
		&ExtractEndpoint{},
		&BatchExtractEndpoint{},
		&ValidateEndpoint{},

		// Metrics endpoints
		&MetricsEndpoint{},
		&ResetMetricsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
