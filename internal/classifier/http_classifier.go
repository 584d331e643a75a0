package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/models"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

// Valence and arousal are optional in the backend payload; pointers
// keep "absent" apart from an explicit zero.
type analyzeResponse struct {
	Primary  string                `json:"primary"`
	Emotions []models.EmotionScore `json:"emotions"`
	Valence  *float64              `json:"valence"`
	Arousal  *float64              `json:"arousal"`
}

// RemoteClassifier calls the emotion analysis backend over HTTP.
type RemoteClassifier struct {
	baseURL    string
	client     *http.Client
	dimensions map[string]catalog.Dimension
	logger     *zap.Logger
	available  atomic.Bool
}

func NewRemoteClassifier(baseURL string, timeout time.Duration, cat *catalog.Catalog, logger *zap.Logger) *RemoteClassifier {
	c := &RemoteClassifier{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		dimensions: cat.Dimensions,
		logger:     logger,
	}
	c.available.Store(true)
	return c
}

// Available reports whether the last classification round-trip
// succeeded. It starts optimistic and flips on the first failure.
func (c *RemoteClassifier) Available() bool {
	return c.available.Load()
}

func (c *RemoteClassifier) Classify(ctx context.Context, text string) *models.EmotionResult {
	result, err := c.classify(ctx, text)
	if err != nil {
		c.available.Store(false)
		c.logger.Warn("Emotion analysis unavailable, using neutral fallback", zap.Error(err))
		return FallbackResult()
	}
	c.available.Store(true)
	return result
}

func (c *RemoteClassifier) classify(ctx context.Context, text string) (*models.EmotionResult, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/analyze-emotion", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling emotion analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("emotion analysis returned status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	result := &models.EmotionResult{
		Primary:  parsed.Primary,
		Emotions: parsed.Emotions,
	}
	if parsed.Valence != nil {
		result.Valence = *parsed.Valence
	}
	if parsed.Arousal != nil {
		result.Arousal = *parsed.Arousal
	}
	normalize(result)
	backfillDimensions(result, parsed.Valence != nil, parsed.Arousal != nil, c.dimensions)
	return result, nil
}
