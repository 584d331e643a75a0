// Package probe checks the analysis backend's health endpoint. The
// result is display-only: gateway fallbacks are driven by per-call
// failures, never by a stale probe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Status struct {
	Status            string `json:"status"`
	TextModelLoaded   bool   `json:"text_model_loaded"`
	SpeechModelLoaded bool   `json:"speech_model_loaded"`
	LLMConfigured     bool   `json:"llm_configured"`
}

type Prober struct {
	baseURL string
	client  *http.Client
}

func NewProber(baseURL string, timeout time.Duration) *Prober {
	return &Prober{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Prober) Check(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling health endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}

	status := &Status{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, fmt.Errorf("error decoding health response: %w", err)
	}
	return status, nil
}
