// Package generator produces free-form empathetic replies. A generator
// is best-effort: when the underlying service fails the engine falls
// back to template composition, so implementations report failure with
// an empty string rather than letting an error reach the user.
package generator

import (
	"context"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

type Generator interface {
	// Generate returns an empathetic reply for the conversation so far,
	// or an empty string when generation was not possible.
	Generate(ctx context.Context, history []*models.Utterance, emotion *models.EmotionResult, displayName string) string
}
