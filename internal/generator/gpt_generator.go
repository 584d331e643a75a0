package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

// GPTGenerator produces empathetic replies with a chat completion
// request when no dedicated generation backend is configured.
type GPTGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTGenerator(apiKey string, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTGenerator {
	return &GPTGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (g *GPTGenerator) Generate(ctx context.Context, history []*models.Utterance, emotion *models.EmotionResult, displayName string) string {
	name := displayName
	if name == "" {
		name = "friend"
	}
	primary := "neutral"
	if emotion != nil {
		primary = emotion.Primary
	}

	systemPrompt := fmt.Sprintf(`You are Mindful, a compassionate counselor in a mental health companion.
The user you are speaking with is named %s.
Your primary role is to create a safe, non-judgmental space where the user feels heard and understood.
Use a warm, caring, and consistently supportive tone.

Core method:
1. Reflective listening first: always start by summarizing or reflecting what the user has shared.
2. Ask one gentle, open-ended follow-up question to encourage the user to explore their feelings further. Never ask simple yes/no questions.
3. Gently weave the detected emotion into your reflection. The primary emotion detected in the user's last message was '%s'.

Strict guidelines:
- Do not offer solutions or tell the user what to do unless they explicitly ask for a coping technique.
- Never provide diagnoses, medical recommendations, or psychiatric analysis.
- Keep the entire response thoughtful but brief, ideally 2-4 sentences.
- If the user's language indicates a crisis, gently and immediately guide them towards professional help without being alarming.`, name, primary)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, u := range history {
		role := openai.ChatMessageRoleUser
		if u.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: u.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       g.model,
			Messages:    messages,
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		g.logger.Warn("Failed to get GPT reply, falling back to templates", zap.Error(err))
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
