// Package bot is the Telegram presentation layer: menus, the three study
// screens and the import flow. All scheduling decisions live in
// internal/session and internal/srs; this package only renders them.
package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingobot/internal/audio"
	"github.com/example/lingobot/internal/reminder"
	"github.com/example/lingobot/internal/session"
	"github.com/example/lingobot/internal/storage"
	"github.com/example/lingobot/pkg/models"
)

// MenuButton represents a button in an inline menu. URL buttons open a link
// instead of firing a callback.
type MenuButton struct {
	Text         string
	CallbackData string
	URL          string
}

// createKeyboard creates an inline keyboard from menu buttons.
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			if button.URL != "" {
				keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonURL(button.Text, button.URL))
				continue
			}
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Screen identifies which study screen a chat session runs.
type Screen int

const (
	ScreenFlashcards Screen = iota
	ScreenQuiz
	ScreenOral
)

// studyMode maps a screen to the schedule slot it reads and updates: the
// flashcard screen tracks recognition, the quiz and oral screens track
// production.
func (s Screen) studyMode() models.StudyMode {
	if s == ScreenFlashcards {
		return models.Recognition
	}
	return models.Production
}

func (s Screen) title() string {
	switch s {
	case ScreenFlashcards:
		return "Flashcards"
	case ScreenQuiz:
		return "Quiz"
	case ScreenOral:
		return "Oral practice"
	default:
		return "Study"
	}
}

// chatSession is the per-chat study state: the setup being edited before
// launch and the runner once a session is live.
type chatSession struct {
	screen Screen
	setup  *setupState
	runner *session.Runner
}

// setupState holds the session criteria while the user is still picking
// categories and options.
type setupState struct {
	categories map[string]bool
	limit      int
	direction  session.Direction
	kind       session.Kind
	messageID  int
}

// Bot represents the Telegram bot application.
type Bot struct {
	api    *tgbotapi.BotAPI
	pool   *models.Pool
	store  *storage.Store
	synth  *audio.Synthesizer
	recog  *audio.Recognizer
	config *Config

	sessions      map[int64]*chatSession
	pendingImport map[int64]string // chat id -> category awaiting a file
}

// New creates a new bot instance bound to the shared pool.
func New(pool *models.Pool, store *storage.Store) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	cfg := DefaultConfig()
	return &Bot{
		api:           api,
		pool:          pool,
		store:         store,
		synth:         audio.NewSynthesizer(cfg.TTSLang),
		recog:         audio.NewRecognizer(cfg.STTLang),
		config:        cfg,
		sessions:      make(map[int64]*chatSession),
		pendingImport: make(map[int64]string),
	}, nil
}

// Start receives and handles updates until the context is cancelled.
// Updates are handled one at a time: a review outcome and its persistence
// write always complete before the next interaction is processed.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

var _ reminder.Notifier = (*Bot)(nil)

// SendDueReminder notifies the configured chat about waiting reviews;
// implements reminder.Notifier.
func (b *Bot) SendDueReminder(recognition, production int) error {
	if b.config.ReminderChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("📚 Reviews are waiting: %d flashcards, %d quiz items. Use /learn or /quiz to start.",
		recognition, production)
	_, err := b.api.Send(tgbotapi.NewMessage(b.config.ReminderChatID, text))
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// send delivers a message and logs delivery failures.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}
