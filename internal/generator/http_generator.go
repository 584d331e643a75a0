package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireEmotion struct {
	Primary    string  `json:"primary"`
	Confidence float64 `json:"confidence"`
	Valence    float64 `json:"valence"`
	Arousal    float64 `json:"arousal"`
}

type generateRequest struct {
	Messages    []wireMessage `json:"messages"`
	EmotionData *wireEmotion  `json:"emotionData,omitempty"`
	UserName    string        `json:"userName,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// RemoteGenerator calls the response generation backend over HTTP.
type RemoteGenerator struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewRemoteGenerator(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteGenerator {
	return &RemoteGenerator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *RemoteGenerator) Generate(ctx context.Context, history []*models.Utterance, emotion *models.EmotionResult, displayName string) string {
	reply, err := g.generate(ctx, history, emotion, displayName)
	if err != nil {
		g.logger.Warn("Response generation unavailable, falling back to templates", zap.Error(err))
		return ""
	}
	return reply
}

func (g *RemoteGenerator) generate(ctx context.Context, history []*models.Utterance, emotion *models.EmotionResult, displayName string) (string, error) {
	payload := generateRequest{UserName: displayName}
	for _, u := range history {
		payload.Messages = append(payload.Messages, wireMessage{
			Role:    string(u.Role),
			Content: u.Content,
		})
	}
	if emotion != nil {
		payload.EmotionData = &wireEmotion{
			Primary:    emotion.Primary,
			Confidence: emotion.TopConfidence(),
			Valence:    emotion.Valence,
			Arousal:    emotion.Arousal,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/generate-empathetic-response", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling response generation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("response generation returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}
