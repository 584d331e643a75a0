package companion

import (
	"strings"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/models"
)

// TemplateComposer produces the deterministic offline reply used whenever
// the remote generator is unavailable. Every reply is three non-empty
// segments (acknowledgment, exploration, reflective question) joined by
// blank lines.
type TemplateComposer struct {
	templates map[string]catalog.ResponseTemplate
}

func NewTemplateComposer(templates map[string]catalog.ResponseTemplate) *TemplateComposer {
	return &TemplateComposer{templates: templates}
}

// Compose builds the reply for the primary emotion of result. Unknown
// labels fall back to the neutral template. A non-empty displayName is
// inserted where the template allows personalization.
func (c *TemplateComposer) Compose(result *models.EmotionResult, displayName string) string {
	label := "neutral"
	if result != nil && result.Primary != "" {
		label = result.Primary
	}

	tpl, ok := c.templates[label]
	if !ok {
		tpl = c.templates["neutral"]
	}

	insert := ""
	if name := strings.TrimSpace(displayName); name != "" {
		insert = ", " + name
	}

	parts := []string{
		strings.ReplaceAll(tpl.Acknowledgment, "{name}", insert),
		strings.ReplaceAll(tpl.Exploration, "{name}", insert),
		strings.ReplaceAll(tpl.Question, "{name}", insert),
	}
	return strings.Join(parts, "\n\n")
}
