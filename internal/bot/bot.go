package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/assessment"
	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/classifier"
	"github.com/shamik143/mindfulcompanion/internal/companion"
	"github.com/shamik143/mindfulcompanion/internal/models"
	"github.com/shamik143/mindfulcompanion/internal/probe"
	"github.com/shamik143/mindfulcompanion/internal/storage"
)

const moodHistoryDisplayLimit = 10

// quizState tracks an in-flight self-assessment for one chat.
type quizState struct {
	key     string
	answers map[int]int
}

type Bot struct {
	api        *tgbotapi.BotAPI
	engine     *companion.Engine
	storage    storage.Storage
	catalog    *catalog.Catalog
	prober     *probe.Prober
	classifier classifier.Classifier
	logger     *zap.Logger

	mu      sync.Mutex
	quizzes map[int64]*quizState
}

// New creates the Telegram surface. prober may be nil when no analysis
// backend is configured; cls is consulted only for the /status
// connectivity line. The engine is attached separately so its insight
// notifier can point back at this bot.
func New(token string, store storage.Storage, cat *catalog.Catalog, prober *probe.Prober, cls classifier.Classifier, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		storage:    store,
		catalog:    cat,
		prober:     prober,
		classifier: cls,
		logger:     logger,
		quizzes:    make(map[int64]*quizState),
	}, nil
}

func (b *Bot) AttachEngine(engine *companion.Engine) {
	b.engine = engine
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			go b.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			go b.handleMessage(update.Message)
		}
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	b.sendTyping(message.Chat.ID)

	reply, err := b.engine.ProcessTurn(ctx, message.Chat.ID, text)
	if err != nil {
		b.logger.Error("Failed to process turn",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, something went wrong on my side. Please try again.")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatReply(reply))
	msg.ParseMode = "MarkdownV2"
	if reply.Kind == models.KindNormal {
		msg.ReplyMarkup = replyKeyboard(reply)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

// DeliverInsight pushes an asynchronously produced insight message to
// the chat. It is the engine's notifier.
func (b *Bot) DeliverInsight(chatID int64, u *models.Utterance) {
	msg := tgbotapi.NewMessage(chatID, escapeMarkdown(u.Content))
	msg.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send insight",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "name":
		b.handleName(ctx, message)
	case "mood":
		b.handleMood(ctx, message)
	case "export":
		b.handleExport(ctx, message)
	case "hotlines":
		b.handleHotlines(message)
	case "assess":
		b.handleAssess(message)
	case "status":
		b.handleStatus(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Hi, I'm Mindful 🌿
I'm here to listen. Tell me how you're feeling, in your own words, and I'll do my best to support you.

A few things I can do:
- Keep track of your mood over time (/mood)
- Suggest coping techniques that fit how you feel
- Offer self-assessments (/assess)
- Share crisis support lines (/hotlines)

I'm not a therapist and I don't give medical advice. If you're in immediate danger, please reach out to a crisis line right away.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Introduction
/help - Show this help message
/name <your name> - Tell me what to call you
/mood - Show your recent mood record
/assess - Take a self-assessment
/hotlines - Crisis support lines
/export - Download your conversation and mood record
/status - Service health

Outside of commands, just talk to me. I'll listen.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleName(ctx context.Context, message *tgbotapi.Message) {
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		b.sendMessage(message.Chat.ID, "Usage: /name <your name>")
		return
	}

	if err := b.storage.SetDisplayName(ctx, message.Chat.ID, name); err != nil {
		b.logger.Error("Failed to set display name",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't save your name. Please try again.")
		return
	}

	b.sendMessage(message.Chat.ID, fmt.Sprintf("Nice to meet you, %s 🌿", name))
}

func (b *Bot) handleMood(ctx context.Context, message *tgbotapi.Message) {
	history, err := b.storage.MoodHistory(ctx, message.Chat.ID)
	if err != nil {
		b.logger.Error("Failed to get mood history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your mood record.")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatMoodHistory(history, moodHistoryDisplayLimit))
	msg.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send mood history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleExport(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session, err := b.storage.GetSession(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session", zap.Error(err), zap.Int64("chat_id", chatID))
		b.sendErrorMessage(chatID, "Sorry, I couldn't prepare your export.")
		return
	}
	messages, err := b.storage.RecentUtterances(ctx, chatID, 0)
	if err != nil {
		b.logger.Error("Failed to get messages", zap.Error(err), zap.Int64("chat_id", chatID))
		b.sendErrorMessage(chatID, "Sorry, I couldn't prepare your export.")
		return
	}
	moods, err := b.storage.MoodHistory(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get mood history", zap.Error(err), zap.Int64("chat_id", chatID))
		b.sendErrorMessage(chatID, "Sorry, I couldn't prepare your export.")
		return
	}

	report := formatExport(session, messages, moods)
	filename := fmt.Sprintf("mindful-export-%s.txt", time.Now().Format("2006-01-02"))

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: []byte(report),
	})
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send export",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleHotlines(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, formatHotlines(b.catalog.Regions))
	msg.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send hotlines",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleStatus(ctx context.Context, message *tgbotapi.Message) {
	var status *probe.Status
	var probeErr error
	if b.prober != nil {
		status, probeErr = b.prober.Check(ctx)
	}

	b.sendMessage(message.Chat.ID, formatStatus(status, probeErr, b.prober != nil, b.classifier))
}

func (b *Bot) handleAssess(message *tgbotapi.Message) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for key, q := range b.catalog.Assessments {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(q.Title, "quiz:start:"+key),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Which self-assessment would you like to take?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send assessment menu",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.logger.Error("Failed to ack callback", zap.Error(err))
		}
	}()

	parts := strings.Split(query.Data, ":")
	switch parts[0] {
	case "fb":
		b.handleFeedbackCallback(ctx, query, parts)
	case "quiz":
		b.handleQuizCallback(query, parts)
	case "tech":
		b.handleTechniqueCallback(query)
	}
}

// handleTechniqueCallback expands a suggested technique into its steps.
func (b *Bot) handleTechniqueCallback(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	name := strings.TrimPrefix(query.Data, "tech:")

	technique, ok := b.catalog.Techniques[name]
	if !ok {
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatTechniqueSteps(name, technique))
	msg.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send technique steps",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleFeedbackCallback(ctx context.Context, query *tgbotapi.CallbackQuery, parts []string) {
	if len(parts) != 3 {
		return
	}
	chatID := query.Message.Chat.ID

	feedback := models.FeedbackPositive
	if parts[1] == "neg" {
		feedback = models.FeedbackNegative
	}

	err := b.engine.SetFeedback(ctx, chatID, parts[2], feedback)
	switch {
	case err == nil:
		// Drop the buttons once feedback is recorded.
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Error("Failed to clear feedback keyboard", zap.Error(err), zap.Int64("chat_id", chatID))
		}
		b.sendMessage(chatID, "Thank you for the feedback 💙")
	case err == storage.ErrFeedbackAlreadySet:
		// Second tap, nothing to record.
	default:
		b.logger.Error("Failed to save feedback",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("message_id", parts[2]))
	}
}

func (b *Bot) handleQuizCallback(query *tgbotapi.CallbackQuery, parts []string) {
	chatID := query.Message.Chat.ID

	if len(parts) == 3 && parts[1] == "start" {
		key := parts[2]
		q, ok := b.catalog.Assessments[key]
		if !ok {
			return
		}

		b.mu.Lock()
		b.quizzes[chatID] = &quizState{key: key, answers: make(map[int]int)}
		b.mu.Unlock()

		intro := tgbotapi.NewMessage(chatID, q.Description)
		if _, err := b.api.Send(intro); err != nil {
			b.logger.Error("Failed to send quiz intro", zap.Error(err), zap.Int64("chat_id", chatID))
		}
		b.sendQuestion(chatID, key, 0)
		return
	}

	if len(parts) != 4 || parts[1] != "answer" {
		return
	}

	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}
	value, err := strconv.Atoi(parts[3])
	if err != nil {
		return
	}

	b.mu.Lock()
	state := b.quizzes[chatID]
	if state != nil {
		state.answers[index] = value
	}
	b.mu.Unlock()
	if state == nil {
		return
	}

	q := b.catalog.Assessments[state.key]
	if index+1 < len(q.Questions) {
		b.sendQuestion(chatID, state.key, index+1)
		return
	}

	b.finishQuiz(chatID, state, q)
}

func (b *Bot) sendQuestion(chatID int64, key string, index int) {
	q, ok := b.catalog.Assessments[key]
	if !ok || index >= len(q.Questions) {
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, option := range q.Options {
		data := fmt.Sprintf("quiz:answer:%d:%d", index, option.Value)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option.Text, data),
		))
	}

	text := fmt.Sprintf("%d/%d  %s", index+1, len(q.Questions), q.Questions[index])
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send quiz question",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) finishQuiz(chatID int64, state *quizState, q assessment.Questionnaire) {
	b.mu.Lock()
	delete(b.quizzes, chatID)
	b.mu.Unlock()

	result, err := q.Score(state.answers)
	if err != nil {
		b.logger.Error("Failed to score assessment",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("assessment", state.key))
		b.sendErrorMessage(chatID, "Sorry, I couldn't score that assessment. Please try again with /assess.")
		return
	}

	text := fmt.Sprintf("*%s*\nScore: %d\n\n%s\n\n_This is a self\\-reflection tool, not a diagnosis\\. If the result worries you, consider talking to a professional\\._",
		escapeMarkdown(q.Title), result.Score, escapeMarkdown(result.Text))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "MarkdownV2"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send quiz result",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

// replyKeyboard builds the inline keyboard under a normal reply: one
// button per suggested technique, then the feedback row.
func replyKeyboard(reply *models.Utterance) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range reply.Suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Details.Icon+" "+s.Name, "tech:"+s.Name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("👍", "fb:pos:"+reply.ID),
		tgbotapi.NewInlineKeyboardButtonData("👎", "fb:neg:"+reply.ID),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		b.logger.Error("Failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
