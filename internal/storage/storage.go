package storage

import (
	"context"
	"errors"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrFeedbackAlreadySet = errors.New("feedback already set")
)

// Storage persists per-chat session state, the append-only message log,
// and the longitudinal mood record.
type Storage interface {
	// GetSession returns the session for a chat, creating a default one
	// if none exists yet.
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SetDisplayName(ctx context.Context, chatID int64, name string) error

	AppendUtterance(ctx context.Context, u *models.Utterance) error
	// RecentUtterances returns up to limit most recent utterances in
	// chronological order. A limit <= 0 returns the whole log.
	RecentUtterances(ctx context.Context, chatID int64, limit int) ([]*models.Utterance, error)
	// SetFeedback records user feedback on a message. Feedback is
	// write-once: a second attempt returns ErrFeedbackAlreadySet.
	SetFeedback(ctx context.Context, chatID int64, messageID string, feedback models.Feedback) error

	AppendMoodEntry(ctx context.Context, entry *models.MoodEntry) error
	// MoodHistory returns the full mood record in chronological order.
	// Callers must treat the result as read-only.
	MoodHistory(ctx context.Context, chatID int64) ([]*models.MoodEntry, error)

	// AppendInsight atomically appends the insight message and marks the
	// session's insight flag. It returns false without appending when an
	// insight was already shown, which makes the at-most-one-insight
	// invariant hold regardless of scheduling races.
	AppendInsight(ctx context.Context, u *models.Utterance) (bool, error)

	Close() error
}
