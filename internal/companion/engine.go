package companion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/classifier"
	"github.com/shamik143/mindfulcompanion/internal/generator"
	"github.com/shamik143/mindfulcompanion/internal/models"
	"github.com/shamik143/mindfulcompanion/internal/storage"
)

const (
	defaultReplyDelay    = 1200 * time.Millisecond
	defaultInsightDelay  = 2500 * time.Millisecond
	defaultHistoryWindow = 8
	defaultExcerptLength = 50
)

// Notifier delivers an asynchronously produced message (currently only
// the trend insight) to the chat surface.
type Notifier func(chatID int64, u *models.Utterance)

// Options tune the engine's pacing and context sizes. Zero values take
// the defaults.
type Options struct {
	ReplyDelay    time.Duration
	InsightDelay  time.Duration
	HistoryWindow int
	ExcerptLength int
}

// Engine orchestrates one conversational turn: crisis screening,
// emotion classification, mood recording, reply production, suggestion
// selection, and trend evaluation. Turns within one chat are
// serialized; different chats proceed concurrently.
type Engine struct {
	storage    storage.Storage
	classifier classifier.Classifier
	generator  generator.Generator
	crisis     *CrisisDetector
	composer   *TemplateComposer
	selector   *SuggestionSelector
	trends     *TrendAnalyzer

	crisisResponse string
	insightMessage string

	logger *zap.Logger
	notify Notifier
	opts   Options

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewEngine wires the turn pipeline. generator may be nil, in which
// case every reply comes from the template composer. notify may be nil
// when no asynchronous delivery surface exists (tests).
func NewEngine(store storage.Storage, cls classifier.Classifier, gen generator.Generator, cat *catalog.Catalog, logger *zap.Logger, notify Notifier, opts Options) *Engine {
	if opts.ReplyDelay == 0 {
		opts.ReplyDelay = defaultReplyDelay
	}
	if opts.InsightDelay == 0 {
		opts.InsightDelay = defaultInsightDelay
	}
	if opts.HistoryWindow == 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	if opts.ExcerptLength == 0 {
		opts.ExcerptLength = defaultExcerptLength
	}

	return &Engine{
		storage:        store,
		classifier:     cls,
		generator:      gen,
		crisis:         NewCrisisDetector(cat.CrisisPhrases),
		composer:       NewTemplateComposer(cat.Templates),
		selector:       NewSuggestionSelector(cat.Recommendations, cat.Techniques, logger),
		trends:         NewTrendAnalyzer(cat.NegativeEmotions),
		crisisResponse: cat.CrisisResponse,
		insightMessage: cat.InsightMessage,
		logger:         logger,
		notify:         notify,
		opts:           opts,
		locks:          make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) chatLock(chatID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[chatID] = lock
	}
	return lock
}

// ProcessTurn handles one user message and returns the assistant reply.
// Classification runs on every turn, crisis or not, so the mood record
// gains exactly one entry per user message.
func (e *Engine) ProcessTurn(ctx context.Context, chatID int64, text string) (*models.Utterance, error) {
	lock := e.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.storage.GetSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	userMsg := &models.Utterance{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      models.RoleUser,
		Kind:      models.KindNormal,
		Content:   text,
		CreatedAt: time.Now(),
	}

	inCrisis := e.crisis.Detect(text)
	emotion := e.classifier.Classify(ctx, text)
	userMsg.Emotion = emotion

	if err := e.storage.AppendUtterance(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("error saving user message: %w", err)
	}

	entry := &models.MoodEntry{
		ChatID:     chatID,
		Emotion:    emotion.Primary,
		Confidence: emotion.TopConfidence(),
		Excerpt:    excerpt(text, e.opts.ExcerptLength),
		Valence:    emotion.Valence,
		Arousal:    emotion.Arousal,
		CreatedAt:  userMsg.CreatedAt,
	}
	if err := e.storage.AppendMoodEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("error saving mood entry: %w", err)
	}

	reply := &models.Utterance{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      models.RoleAssistant,
		CreatedAt: time.Now(),
	}

	if inCrisis {
		reply.Kind = models.KindCrisis
		reply.Content = e.crisisResponse
		e.logger.Warn("Crisis language detected", zap.Int64("chat_id", chatID))
	} else {
		reply.Kind = models.KindNormal
		reply.Content = e.produceReply(ctx, chatID, emotion, session.DisplayName)
		reply.Suggestions = e.selector.Select(emotion)
	}

	if err := e.pause(ctx, e.opts.ReplyDelay); err != nil {
		return nil, err
	}
	reply.CreatedAt = time.Now()

	if err := e.storage.AppendUtterance(ctx, reply); err != nil {
		return nil, fmt.Errorf("error saving reply: %w", err)
	}

	e.evaluateTrend(ctx, chatID, session.InsightShown)

	return reply, nil
}

// produceReply tries the free-form generator first and composes from
// templates when it yields nothing. Generation failure never fails the
// turn.
func (e *Engine) produceReply(ctx context.Context, chatID int64, emotion *models.EmotionResult, displayName string) string {
	if e.generator != nil {
		history, err := e.storage.RecentUtterances(ctx, chatID, e.opts.HistoryWindow)
		if err != nil {
			e.logger.Warn("Failed to load conversation history", zap.Error(err), zap.Int64("chat_id", chatID))
		} else if reply := e.generator.Generate(ctx, history, emotion, displayName); reply != "" {
			return reply
		}
	}
	return e.composer.Compose(emotion, displayName)
}

// evaluateTrend checks the mood record after this turn's append and
// schedules the one-time insight when a sustained negative stretch is
// found. The storage append is the idempotence point, so a concurrent
// double-trigger still yields a single insight.
func (e *Engine) evaluateTrend(ctx context.Context, chatID int64, insightShown bool) {
	if insightShown {
		return
	}

	history, err := e.storage.MoodHistory(ctx, chatID)
	if err != nil {
		e.logger.Warn("Failed to load mood history", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	if !e.trends.ShouldTrigger(history, insightShown) {
		return
	}

	time.AfterFunc(e.opts.InsightDelay, func() {
		insight := &models.Utterance{
			ID:        uuid.New().String(),
			ChatID:    chatID,
			Role:      models.RoleAssistant,
			Kind:      models.KindInsight,
			Content:   e.insightMessage,
			CreatedAt: time.Now(),
		}

		appended, err := e.storage.AppendInsight(context.Background(), insight)
		if err != nil {
			e.logger.Error("Failed to save trend insight", zap.Error(err), zap.Int64("chat_id", chatID))
			return
		}
		if !appended {
			return
		}

		e.logger.Info("Trend insight delivered", zap.Int64("chat_id", chatID))
		if e.notify != nil {
			e.notify(chatID, insight)
		}
	})
}

// SetFeedback records thumbs up/down on an assistant reply.
func (e *Engine) SetFeedback(ctx context.Context, chatID int64, messageID string, feedback models.Feedback) error {
	return e.storage.SetFeedback(ctx, chatID, messageID, feedback)
}

func (e *Engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
