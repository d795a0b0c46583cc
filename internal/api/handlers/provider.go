package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"
)

const connectionTestTimeout = 15 * time.Second

// ProviderService exposes the active adapter and runtime switching
type ProviderService interface {
	GetAdapter() llm.Adapter
	GetProviderInfo() llm.ProviderInfo
	SwitchProvider(name string) (llm.ProviderInfo, error)
}

// ProviderHandlers serves provider inspection and switching
type ProviderHandlers struct {
	providers ProviderService
}

// NewProviderHandlers creates provider handlers
func NewProviderHandlers(providers ProviderService) *ProviderHandlers {
	return &ProviderHandlers{providers: providers}
}

type ProviderResponse struct {
	llm.ProviderInfo
	Connected *bool `json:"connected,omitempty"`
}

// GetProviderHandler returns the active provider. ?test=true also probes the connection.
func (h *ProviderHandlers) GetProviderHandler(w http.ResponseWriter, r *http.Request) {
	resp := ProviderResponse{ProviderInfo: h.providers.GetProviderInfo()}

	if r.URL.Query().Get("test") == "true" {
		if tester, ok := h.providers.GetAdapter().(llm.ConnectionTester); ok {
			ctx, cancel := context.WithTimeout(r.Context(), connectionTestTimeout)
			defer cancel()
			connected := tester.TestConnection(ctx)
			resp.Connected = &connected
		}
	}

	sendJSON(w, http.StatusOK, resp)
}

// SwitchProviderHandler replaces the active provider for subsequent requests
func (h *ProviderHandlers) SwitchProviderHandler(w http.ResponseWriter, r *http.Request) {
	var req SwitchProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	info, err := h.providers.SwitchProvider(req.Provider)
	if err != nil {
		sendServiceError(w, "Error switching provider", err)
		return
	}

	logger.Log.WithField("provider", info.Provider).Info("Provider switched via API")
	sendJSON(w, http.StatusOK, ProviderResponse{ProviderInfo: info})
}
