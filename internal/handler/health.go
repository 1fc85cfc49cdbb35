package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/middleware"
	"github.com/deppfellow/kwcluster/internal/server"
)

const (
	checkConfigured   = "configured"
	checkUnconfigured = "unconfigured"
)

// HealthHandler serves the liveness endpoint used by load balancers and
// uptime monitors.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports service status and whether each provider has a
// credential configured.
//
// Providers are not called and keys are not validated, so the response
// is always 200. A missing key is reported as "unconfigured".
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	providers := h.server.Config.Providers
	checks := map[string]interface{}{
		"search":     providerCheck(providers.Search.APIKey),
		"generation": providerCheck(providers.Generation.APIKey),
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	for name, check := range checks {
		if check.(map[string]interface{})["status"] != checkUnconfigured {
			continue
		}

		logger.Warn().Str("provider", name).Msg("provider credential is not configured")

		if nrApp := h.server.LoggerService.GetApplication(); nrApp != nil {
			nrApp.RecordCustomEvent("HealthCheckWarning", map[string]interface{}{
				"check_type": name,
				"operation":  "health_check",
				"error_type": "provider_unconfigured",
			})
		}
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func providerCheck(apiKey string) map[string]interface{} {
	if apiKey == "" {
		return map[string]interface{}{"status": checkUnconfigured}
	}
	return map[string]interface{}{"status": checkConfigured}
}
