package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingobot/internal/excel"
	"github.com/example/lingobot/internal/reminder"
	"github.com/example/lingobot/pkg/models"
)

// handleUpdate routes one incoming update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		message := update.Message
		switch {
		case message.IsCommand():
			b.handleCommand(ctx, message)
		case message.Document != nil && b.pendingImport[message.Chat.ID] != "":
			b.handleImportFile(ctx, message)
		case message.Voice != nil:
			b.handleVoiceAnswer(ctx, message)
		case message.Text != "":
			b.handleTextAnswer(ctx, message)
		}
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "help":
		b.handleHelpCommand(message)
	case "learn":
		b.openSetup(chatID, ScreenFlashcards)
	case "quiz":
		b.openSetup(chatID, ScreenQuiz)
	case "oral":
		b.openSetup(chatID, ScreenOral)
	case "library":
		b.handleLibraryCommand(message)
	case "due":
		b.handleDueCommand(message)
	case "dictionary":
		b.send(withKeyboard(chatID, "External dictionaries:", [][]MenuButton{{
			{Text: "🌐 Lexilogos", URL: "https://www.lexilogos.com/frances_lingua_dicionario.htm"},
		}}))
	case "import":
		b.handleImportCommand(message)
	case "reset":
		b.handleResetCommand(ctx, message)
	case "clear":
		b.send(withKeyboard(chatID, "Delete every vocabulary item? This cannot be undone.", [][]MenuButton{{
			{Text: "🗑 Yes, wipe everything", CallbackData: "clear:confirm"},
			{Text: "Cancel", CallbackData: "clear:cancel"},
		}}))
	case "quit":
		b.handleQuitCommand(chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func withKeyboard(chatID int64, text string, buttons [][]MenuButton) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(buttons)
	return msg
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	text := "👋 Welcome to LingoBot!\n\n" +
		"I help you learn vocabulary with spaced repetition across three exercises:\n\n" +
		"🃏 /learn — flashcards\n" +
		"✍️ /quiz — written and multiple-choice questions\n" +
		"🎙 /oral — speak your answers\n\n" +
		"📖 /library — browse your words\n" +
		"📥 /import — add words from a spreadsheet\n" +
		"❓ /help — full command list"
	b.reply(message.Chat.ID, text)
}

func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	text := "Commands:\n\n" +
		"/learn — flashcard session (recognition track)\n" +
		"/quiz — written / multiple-choice session (production track)\n" +
		"/oral — oral production session\n" +
		"/quit — abandon the running session\n\n" +
		"/library — list all words with their scores\n" +
		"/due — how many reviews are waiting\n" +
		"/dictionary — external dictionary links\n" +
		"/import <list name> — then send an .xlsx or .csv file; " +
		"column A is the foreign term, column B the translation\n" +
		"/reset — make every word due now (scores are kept)\n" +
		"/clear — delete all words\n\n" +
		"Each session can be launched three ways: SRS (due words only), " +
		"Free (any word) or Endless (one random word after another until you /quit)."
	b.reply(message.Chat.ID, text)
}

func (b *Bot) handleLibraryCommand(message *tgbotapi.Message) {
	if len(b.pool.Items) == 0 {
		b.reply(message.Chat.ID, "Your library is empty. Use /import to add words.")
		return
	}
	var sb strings.Builder
	current := ""
	for _, category := range b.pool.Categories() {
		for _, item := range b.pool.Items {
			if item.CategoryOrDefault() != category {
				continue
			}
			if category != current {
				fmt.Fprintf(&sb, "\n📂 %s\n", category)
				current = category
			}
			// The library view shows the quiz (production) score.
			fmt.Fprintf(&sb, "• %s — %s (quiz score %d)\n",
				item.TermTarget, item.TermPrimary, item.ScheduleFor(models.Production).Score)
		}
	}
	b.reply(message.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleDueCommand(message *tgbotapi.Message) {
	recognition, production := reminder.CountDue(b.pool, time.Now())
	b.reply(message.Chat.ID, fmt.Sprintf("Due now: %d flashcards, %d quiz items.", recognition, production))
}

func (b *Bot) handleImportCommand(message *tgbotapi.Message) {
	category := strings.TrimSpace(message.CommandArguments())
	if category == "" {
		b.reply(message.Chat.ID, "Usage: /import <list name> — then send the file.")
		return
	}
	b.pendingImport[message.Chat.ID] = category
	b.reply(message.Chat.ID, fmt.Sprintf("Send me an .xlsx or .csv file to import into “%s”.", category))
}

func (b *Bot) handleImportFile(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	category := b.pendingImport[chatID]
	delete(b.pendingImport, chatID)

	fileURL, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		log.Printf("Error resolving file %s: %v", message.Document.FileID, err)
		b.reply(chatID, "I could not download that file. Please try again.")
		return
	}
	body, err := downloadFile(ctx, fileURL)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		b.reply(chatID, "I could not download that file. Please try again.")
		return
	}
	defer body.Close()

	// Spreadsheets are expected to carry a header row.
	result, err := excel.Import(body, message.Document.FileName, excel.Config{Category: category, SkipHeader: true}, b.pool, time.Now())
	if err != nil {
		log.Printf("Error importing file: %v", err)
		b.reply(chatID, "That file could not be read. Expected .xlsx or .csv with two columns.")
		return
	}
	if err := b.store.SavePool(ctx, b.pool); err != nil {
		log.Printf("Error saving pool after import: %v", err)
		b.reply(chatID, "⚠️ Imported, but saving failed. Changes may be lost after a restart.")
		return
	}

	text := fmt.Sprintf("✅ Imported %d new words into “%s” (%d rows skipped).",
		result.Imported, category, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\n%d rows had problems, e.g. %s", len(result.Errors), result.Errors[0])
	}
	b.reply(chatID, text)
}

func downloadFile(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (b *Bot) handleResetCommand(ctx context.Context, message *tgbotapi.Message) {
	b.pool.ResetDueDates(time.Now())
	if err := b.store.SavePool(ctx, b.pool); err != nil {
		log.Printf("Error saving pool after reset: %v", err)
		b.reply(message.Chat.ID, "⚠️ Due dates reset, but saving failed.")
		return
	}
	b.reply(message.Chat.ID, "🔄 Every word is due now. Scores are untouched.")
}

func (b *Bot) handleQuitCommand(chatID int64) {
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil || !cs.runner.Active() {
		b.reply(chatID, "No session is running.")
		return
	}
	cs.runner.Quit()
	delete(b.sessions, chatID)
	b.reply(chatID, "🛑 Session abandoned. Progress you already answered is saved.")
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge so the client stops the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error acknowledging callback: %v", err)
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == "clear:confirm":
		b.handleClearConfirm(ctx, chatID)
	case data == "clear:cancel":
		b.reply(chatID, "Nothing was deleted.")
	case strings.HasPrefix(data, "cat:") || data == "limit:cycle" ||
		data == "dir:cycle" || data == "kind:cycle":
		b.handleSetupCallback(chatID, data)
	case strings.HasPrefix(data, "start:"):
		b.handleStartSession(ctx, chatID, strings.TrimPrefix(data, "start:"))
	default:
		b.handleStudyCallback(ctx, chatID, data)
	}
}

func (b *Bot) handleClearConfirm(ctx context.Context, chatID int64) {
	if err := b.store.Clear(ctx); err != nil {
		log.Printf("Error clearing pool: %v", err)
		b.reply(chatID, "⚠️ Could not clear the library.")
		return
	}
	b.pool.Items = nil
	delete(b.sessions, chatID)
	b.reply(chatID, "🗑 Library cleared.")
}
