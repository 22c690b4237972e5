package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/docuflow/docuflow/internal/api"
	"github.com/docuflow/docuflow/internal/models"
)

// Probe checks whether the docuflow service is reachable
type Probe struct {
	api *api.Client
}

func NewProbe(apiClient *api.Client) *Probe {
	return &Probe{api: apiClient}
}

// Check issues a single unauthenticated GET /health.
// A 2xx response is connected; any other response or a transport failure is error.
func (p *Probe) Check(ctx context.Context) models.BackendStatus {
	req, err := p.api.NewRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		slog.ErrorContext(ctx, "Unable to build health request", "err", err)
		return models.StatusError
	}

	resp, err := p.api.Do(req)
	if err != nil {
		slog.WarnContext(req.Context(), "Backend unreachable", "url", p.api.BaseURL(), "err", err)
		return models.StatusError
	}
	defer resp.Body.Close()

	if !api.OK(resp) {
		slog.WarnContext(req.Context(), "Backend health check failed", "url", p.api.BaseURL(), "status", resp.StatusCode)
		return models.StatusError
	}

	return models.StatusConnected
}
