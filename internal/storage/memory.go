package storage

import (
	"context"
	"sync"
	"time"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
	messages map[int64][]*models.Utterance
	moods    map[int64][]*models.MoodEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*models.Session),
		messages: make(map[int64][]*models.Utterance),
		moods:    make(map[int64][]*models.MoodEntry),
	}
}

func (s *MemoryStorage) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(chatID)
	copied := *session
	return &copied, nil
}

// session returns the live session record, creating it if needed. Callers
// must hold the write lock.
func (s *MemoryStorage) session(chatID int64) *models.Session {
	if session, exists := s.sessions[chatID]; exists {
		return session
	}
	session := &models.Session{
		ChatID:     chatID,
		LastSeenAt: time.Now(),
	}
	s.sessions[chatID] = session
	return session
}

func (s *MemoryStorage) SetDisplayName(ctx context.Context, chatID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(chatID)
	session.DisplayName = name
	session.LastSeenAt = time.Now()
	return nil
}

func (s *MemoryStorage) AppendUtterance(ctx context.Context, u *models.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(u.ChatID)
	session.LastSeenAt = time.Now()
	s.messages[u.ChatID] = append(s.messages[u.ChatID], u)
	return nil
}

func (s *MemoryStorage) RecentUtterances(ctx context.Context, chatID int64, limit int) ([]*models.Utterance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.messages[chatID]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}

	result := make([]*models.Utterance, len(log))
	copy(result, log)
	return result, nil
}

func (s *MemoryStorage) SetFeedback(ctx context.Context, chatID int64, messageID string, feedback models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.messages[chatID] {
		if u.ID != messageID {
			continue
		}
		if u.Feedback != models.FeedbackNone {
			return ErrFeedbackAlreadySet
		}
		u.Feedback = feedback
		return nil
	}
	return ErrMessageNotFound
}

func (s *MemoryStorage) AppendMoodEntry(ctx context.Context, entry *models.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moods[entry.ChatID] = append(s.moods[entry.ChatID], entry)
	return nil
}

func (s *MemoryStorage) MoodHistory(ctx context.Context, chatID int64) ([]*models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.moods[chatID]
	result := make([]*models.MoodEntry, len(history))
	copy(result, history)
	return result, nil
}

func (s *MemoryStorage) AppendInsight(ctx context.Context, u *models.Utterance) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(u.ChatID)
	if session.InsightShown {
		return false, nil
	}
	session.InsightShown = true
	s.messages[u.ChatID] = append(s.messages[u.ChatID], u)
	return true, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
