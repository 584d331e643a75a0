package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

func utterance(chatID int64, id string, role models.Role, content string) *models.Utterance {
	return &models.Utterance{
		ID:        id,
		ChatID:    chatID,
		Role:      role,
		Kind:      models.KindNormal,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func TestGetSessionCreatesDefault(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	session, err := s.GetSession(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), session.ChatID)
	assert.Empty(t, session.DisplayName)
	assert.False(t, session.InsightShown)
}

func TestSetDisplayName(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.SetDisplayName(ctx, 1, "Priya"))

	session, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Priya", session.DisplayName)
}

func TestRecentUtterancesWindow(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		u := utterance(1, fmt.Sprintf("m%d", i), models.RoleUser, fmt.Sprintf("message %d", i))
		require.NoError(t, s.AppendUtterance(ctx, u))
	}

	recent, err := s.RecentUtterances(ctx, 1, 8)
	require.NoError(t, err)

	require.Len(t, recent, 8)
	assert.Equal(t, "message 2", recent[0].Content)
	assert.Equal(t, "message 9", recent[7].Content)
}

func TestRecentUtterancesIsolatedPerChat(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.AppendUtterance(ctx, utterance(1, "a", models.RoleUser, "chat one")))
	require.NoError(t, s.AppendUtterance(ctx, utterance(2, "b", models.RoleUser, "chat two")))

	recent, err := s.RecentUtterances(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "chat one", recent[0].Content)
}

func TestSetFeedbackWriteOnce(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.AppendUtterance(ctx, utterance(1, "m1", models.RoleAssistant, "reply")))

	require.NoError(t, s.SetFeedback(ctx, 1, "m1", models.FeedbackPositive))

	err := s.SetFeedback(ctx, 1, "m1", models.FeedbackNegative)
	assert.ErrorIs(t, err, ErrFeedbackAlreadySet)

	recent, err := s.RecentUtterances(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackPositive, recent[0].Feedback)
}

func TestSetFeedbackUnknownMessage(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	err := s.SetFeedback(ctx, 1, "missing", models.FeedbackPositive)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMoodHistoryChronological(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for _, emotion := range []string{"sadness", "joy", "anger"} {
		entry := &models.MoodEntry{ChatID: 1, Emotion: emotion, CreatedAt: time.Now()}
		require.NoError(t, s.AppendMoodEntry(ctx, entry))
	}

	history, err := s.MoodHistory(ctx, 1)
	require.NoError(t, err)

	require.Len(t, history, 3)
	assert.Equal(t, "sadness", history[0].Emotion)
	assert.Equal(t, "anger", history[2].Emotion)
}

func TestAppendInsightOnce(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	first := utterance(1, "i1", models.RoleAssistant, "insight")
	first.Kind = models.KindInsight
	appended, err := s.AppendInsight(ctx, first)
	require.NoError(t, err)
	assert.True(t, appended)

	second := utterance(1, "i2", models.RoleAssistant, "insight")
	second.Kind = models.KindInsight
	appended, err = s.AppendInsight(ctx, second)
	require.NoError(t, err)
	assert.False(t, appended)

	recent, err := s.RecentUtterances(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	session, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.True(t, session.InsightShown)
}

func TestAppendInsightConcurrent(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	appends := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			u := utterance(1, fmt.Sprintf("i%d", n), models.RoleAssistant, "insight")
			u.Kind = models.KindInsight
			appended, err := s.AppendInsight(ctx, u)
			assert.NoError(t, err)
			appends <- appended
		}(i)
	}
	wg.Wait()
	close(appends)

	wins := 0
	for appended := range appends {
		if appended {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}
