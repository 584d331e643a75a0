package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/models"
)

type gptEmotionResponse struct {
	Primary  string             `json:"primary"`
	Emotions map[string]float64 `json:"emotions"`
}

// GPTClassifier labels messages with a chat completion request when no
// dedicated analysis backend is configured.
type GPTClassifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	dimensions  map[string]catalog.Dimension
	logger      *zap.Logger
	available   atomic.Bool
}

func NewGPTClassifier(apiKey string, model string, maxTokens int, temperature float64, cat *catalog.Catalog, logger *zap.Logger) *GPTClassifier {
	c := &GPTClassifier{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		dimensions:  cat.Dimensions,
		logger:      logger,
	}
	c.available.Store(true)
	return c
}

func (c *GPTClassifier) Available() bool {
	return c.available.Load()
}

func (c *GPTClassifier) Classify(ctx context.Context, text string) *models.EmotionResult {
	prompt := fmt.Sprintf(`Classify the emotional content of the following message.
Pick the single strongest emotion and score up to three emotions with
confidence values between 0 and 1.

Use only these labels: admiration, amusement, anger, annoyance, approval,
caring, confusion, curiosity, desire, disappointment, disapproval, disgust,
embarrassment, excitement, fear, gratitude, grief, joy, love, nervousness,
optimism, pride, realization, relief, remorse, sadness, surprise, neutral.

Return the response as a JSON object with this structure:
{
    "primary": "strongest_emotion",
    "emotions": {"emotion1": 0.8, "emotion2": 0.3}
}

Message: %s`, text)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		c.available.Store(false)
		c.logger.Warn("Failed to get GPT emotion response", zap.Error(err))
		return FallbackResult()
	}

	result, err := c.parseCompletion(resp)
	if err != nil {
		c.available.Store(false)
		c.logger.Warn("Failed to parse GPT emotion response", zap.Error(err))
		return FallbackResult()
	}
	c.available.Store(true)
	return result
}

func (c *GPTClassifier) parseCompletion(resp openai.ChatCompletionResponse) (*models.EmotionResult, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	var parsed gptEmotionResponse
	response := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("error parsing completion %q: %w", response, err)
	}

	result := &models.EmotionResult{Primary: strings.ToLower(parsed.Primary)}
	for emotion, confidence := range parsed.Emotions {
		result.Emotions = append(result.Emotions, models.EmotionScore{
			Emotion:    strings.ToLower(emotion),
			Confidence: confidence,
		})
	}
	normalize(result)
	// The completion prompt never asks for dimensions, so both come
	// from the table.
	backfillDimensions(result, false, false, c.dimensions)
	return result, nil
}
