package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/classifier"
	"github.com/shamik143/mindfulcompanion/internal/models"
	"github.com/shamik143/mindfulcompanion/internal/probe"
)

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

// formatReply renders an assistant reply with its coping suggestions.
func formatReply(u *models.Utterance) string {
	text := escapeMarkdown(u.Content)

	if len(u.Suggestions) > 0 {
		text += "\n\n*Techniques that might help:*\n"
		for _, s := range u.Suggestions {
			text += fmt.Sprintf("%s *%s* \\(%s\\)\n%s\n",
				s.Details.Icon,
				escapeMarkdown(s.Name),
				escapeMarkdown(s.Details.Duration),
				escapeMarkdown(s.Details.Description))
		}
	}
	return text
}

func formatTechniqueSteps(name string, t models.Technique) string {
	text := fmt.Sprintf("%s *%s* \\(%s\\)\n%s\n\n",
		t.Icon, escapeMarkdown(name), escapeMarkdown(t.Duration), escapeMarkdown(t.Description))
	for i, step := range t.Steps {
		text += fmt.Sprintf("%d\\. %s\n", i+1, escapeMarkdown(step))
	}
	return text
}

func moodGlyph(valence float64) string {
	switch {
	case valence > 0.3:
		return "🙂"
	case valence < -0.3:
		return "😔"
	default:
		return "😐"
	}
}

// formatMoodHistory renders the most recent mood entries, newest last.
func formatMoodHistory(history []*models.MoodEntry, limit int) string {
	if len(history) == 0 {
		return "No mood entries yet\\. Just talk to me and I'll keep track\\."
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	text := "*Your recent moods:*\n\n"
	for _, entry := range history {
		text += fmt.Sprintf("%s *%s* \\(%d%%\\) · %s\n_%s_\n\n",
			moodGlyph(entry.Valence),
			escapeMarkdown(entry.Emotion),
			int(entry.Confidence*100),
			escapeMarkdown(entry.CreatedAt.Format("Jan 2 15:04")),
			escapeMarkdown(entry.Excerpt))
	}
	return text
}

func formatHotlines(regions []catalog.Region) string {
	text := "*Crisis support lines:*\n\n"
	for _, region := range regions {
		text += fmt.Sprintf("*%s*\n", escapeMarkdown(region.Title))
		for _, h := range region.Hotlines {
			text += fmt.Sprintf("• %s: %s \\(%s\\)\n",
				escapeMarkdown(h.Name),
				escapeMarkdown(h.Phone),
				escapeMarkdown(h.Available))
			if h.Website != "" {
				text += fmt.Sprintf("  %s\n", escapeMarkdown(h.Website))
			}
		}
		text += "\n"
	}
	return text
}

// formatExport builds the plain-text session report attached to /export.
func formatExport(session *models.Session, messages []*models.Utterance, moods []*models.MoodEntry) string {
	var b strings.Builder

	b.WriteString("Mindful Companion - Session Export\n")
	b.WriteString("Generated: " + time.Now().Format(time.RFC1123) + "\n")
	if session.DisplayName != "" {
		b.WriteString("Name: " + session.DisplayName + "\n")
	}
	b.WriteString("\n=== Conversation ===\n\n")

	for _, m := range messages {
		who := "You"
		if m.Role == models.RoleAssistant {
			who = "Mindful"
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n", m.CreatedAt.Format("2006-01-02 15:04"), who, m.Content))
		if m.Emotion != nil && m.Role == models.RoleUser {
			b.WriteString(fmt.Sprintf("  (detected: %s %.0f%%)\n", m.Emotion.Primary, m.Emotion.TopConfidence()*100))
		}
		b.WriteString("\n")
	}

	b.WriteString("=== Mood record ===\n\n")
	for _, entry := range moods {
		b.WriteString(fmt.Sprintf("%s  %-15s %3.0f%%  valence %+.2f  arousal %.2f  %q\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.Emotion,
			entry.Confidence*100,
			entry.Valence,
			entry.Arousal,
			entry.Excerpt))
	}

	return b.String()
}

// formatStatus renders the /status report. A nil status with a nil
// probeErr means no analysis backend is configured; cls reflects the
// classification gateway's last round-trip.
func formatStatus(status *probe.Status, probeErr error, proberConfigured bool, cls classifier.Classifier) string {
	text := "Mindful is up.\n"

	switch {
	case !proberConfigured:
		text += "Analysis backend: not configured\n"
	case probeErr != nil:
		text += "Analysis backend: unreachable\n"
	default:
		text += fmt.Sprintf("Analysis backend: %s (text model %s, llm %s)\n",
			status.Status, onOff(status.TextModelLoaded), onOff(status.LLMConfigured))
	}

	if cls != nil {
		if cls.Available() {
			text += "Emotion analysis: connected\n"
		} else {
			text += "Emotion analysis: offline, replies use the neutral fallback\n"
		}
	}

	return text
}

func onOff(ok bool) string {
	if ok {
		return "on"
	}
	return "off"
}
