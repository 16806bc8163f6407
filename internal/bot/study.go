package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingobot/internal/audio"
	"github.com/example/lingobot/internal/session"
)

// limitSteps are the word-count presets the setup button cycles through.
var limitSteps = []int{5, 10, 20, 50}

// abandonActiveSession quits the chat's running session, if any, so its
// queue is not silently dropped when a new screen takes over.
func (b *Bot) abandonActiveSession(chatID int64) {
	if prev, ok := b.sessions[chatID]; ok && prev.runner != nil && prev.runner.Active() {
		prev.runner.Quit()
	}
}

// openSetup shows the pre-session option menu for a study screen.
func (b *Bot) openSetup(chatID int64, screen Screen) {
	if len(b.pool.Items) == 0 {
		b.reply(chatID, "Your library is empty. Use /import to add words first.")
		return
	}
	// Opening a new setup abandons whatever session was running.
	b.abandonActiveSession(chatID)

	categories := make(map[string]bool)
	for _, name := range b.pool.Categories() {
		categories[name] = true
	}
	setup := &setupState{
		categories: categories,
		limit:      b.config.DefaultLimit,
		direction:  session.DirectionRandom,
		kind:       session.KindMixed,
	}
	if screen == ScreenOral {
		// Oral practice always prompts in the native language.
		setup.direction = session.DirectionPrimaryToTarget
	}
	cs := &chatSession{screen: screen, setup: setup}
	b.sessions[chatID] = cs

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s — pick your options, then launch:", screen.title()))
	msg.ReplyMarkup = createKeyboard(b.setupButtons(cs))
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending setup menu: %v", err)
		return
	}
	setup.messageID = sent.MessageID
}

func (b *Bot) setupButtons(cs *chatSession) [][]MenuButton {
	setup := cs.setup
	var rows [][]MenuButton

	for _, name := range b.pool.Categories() {
		mark := "⬜️"
		if setup.categories[name] {
			mark = "✅"
		}
		rows = append(rows, []MenuButton{{Text: mark + " " + name, CallbackData: "cat:t:" + name}})
	}
	rows = append(rows, []MenuButton{
		{Text: "All lists", CallbackData: "cat:all"},
		{Text: "No lists", CallbackData: "cat:none"},
	})
	rows = append(rows, []MenuButton{{Text: fmt.Sprintf("Words: %d", setup.limit), CallbackData: "limit:cycle"}})

	if cs.screen != ScreenOral {
		rows = append(rows, []MenuButton{{Text: "Direction: " + directionLabel(setup.direction), CallbackData: "dir:cycle"}})
	}
	if cs.screen == ScreenQuiz {
		rows = append(rows, []MenuButton{{Text: "Type: " + kindLabel(setup.kind), CallbackData: "kind:cycle"}})
	}
	rows = append(rows, []MenuButton{
		{Text: "🚀 SRS", CallbackData: "start:srs"},
		{Text: "🎲 Free", CallbackData: "start:free"},
		{Text: "♾ Endless", CallbackData: "start:infinite"},
	})
	return rows
}

func directionLabel(d session.Direction) string {
	switch d {
	case session.DirectionPrimaryToTarget:
		return "to foreign"
	case session.DirectionTargetToPrimary:
		return "to native"
	default:
		return "random"
	}
}

func kindLabel(k session.Kind) string {
	switch k {
	case session.KindWritten:
		return "written"
	case session.KindChoice:
		return "multiple choice"
	default:
		return "mixed"
	}
}

// handleSetupCallback mutates the setup being edited and refreshes the
// option keyboard in place.
func (b *Bot) handleSetupCallback(chatID int64, data string) {
	cs := b.sessions[chatID]
	if cs == nil || cs.setup == nil {
		return
	}
	setup := cs.setup

	switch {
	case strings.HasPrefix(data, "cat:t:"):
		name := strings.TrimPrefix(data, "cat:t:")
		setup.categories[name] = !setup.categories[name]
	case data == "cat:all":
		for _, name := range b.pool.Categories() {
			setup.categories[name] = true
		}
	case data == "cat:none":
		for name := range setup.categories {
			setup.categories[name] = false
		}
	case data == "limit:cycle":
		setup.limit = nextLimit(setup.limit)
	case data == "dir:cycle":
		setup.direction = session.Direction((int(setup.direction) + 1) % 3)
	case data == "kind:cycle":
		setup.kind = session.Kind((int(setup.kind) + 1) % 3)
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, setup.messageID, createKeyboard(b.setupButtons(cs)))
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error updating setup menu: %v", err)
	}
}

func nextLimit(current int) int {
	for i, step := range limitSteps {
		if step == current {
			return limitSteps[(i+1)%len(limitSteps)]
		}
	}
	return limitSteps[0]
}

// handleStartSession builds the criteria from the setup and launches the
// run. An empty result is a normal outcome and just reports back.
func (b *Bot) handleStartSession(ctx context.Context, chatID int64, modeName string) {
	cs := b.sessions[chatID]
	if cs == nil || cs.setup == nil {
		return
	}
	setup := cs.setup

	var mode session.Mode
	switch modeName {
	case "srs":
		mode = session.ModeSRS
	case "free":
		mode = session.ModeFree
	case "infinite":
		mode = session.ModeInfinite
	default:
		return
	}

	kind := setup.kind
	if cs.screen != ScreenQuiz {
		// Only the quiz screen has a choice form.
		kind = session.KindWritten
	}
	criteria := session.Criteria{
		Categories: setup.categories,
		Mode:       mode,
		StudyMode:  cs.screen.studyMode(),
		Direction:  setup.direction,
		Kind:       kind,
	}

	// Clamp the limit to the currently eligible count before handing it to
	// the builder.
	eligible := len(session.Eligible(b.pool, criteria, time.Now()))
	if eligible == 0 {
		if mode == session.ModeSRS {
			b.reply(chatID, "🎉 Nothing is due in those lists right now. Try Free mode or come back later.")
		} else {
			b.reply(chatID, "No words match the selected lists.")
		}
		return
	}
	criteria.Limit = setup.limit
	if criteria.Limit > eligible {
		criteria.Limit = eligible
	}
	if criteria.Limit < 1 {
		criteria.Limit = 1
	}

	runner := session.NewRunner(b.pool, b.store)
	if !runner.Start(criteria) {
		b.reply(chatID, "Nothing to study with those options.")
		return
	}
	cs.runner = runner
	cs.setup = nil
	b.presentCurrent(ctx, chatID)
}

// presentCurrent renders the exercise at the cursor for the chat's screen.
func (b *Bot) presentCurrent(ctx context.Context, chatID int64) {
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil {
		return
	}
	item, exercise := cs.runner.Current()
	if item == nil {
		b.finishSession(chatID)
		return
	}

	prefix := ""
	if cs.runner.Queue() != nil && cs.runner.Queue().Mode != session.ModeInfinite {
		done, total := cs.runner.Progress()
		prefix = fmt.Sprintf("[%d/%d] ", done+1, total)
	}

	switch cs.screen {
	case ScreenFlashcards:
		b.send(withKeyboard(chatID, prefix+"🃏 "+exercise.Question, [][]MenuButton{{
			{Text: "🔄 Flip", CallbackData: "fc:flip"},
		}}))
		b.sendTermAudio(ctx, chatID, item.TermTarget)
	case ScreenQuiz:
		if exercise.Kind == session.KindChoice {
			var rows [][]MenuButton
			for i, option := range exercise.Options {
				rows = append(rows, []MenuButton{{Text: option, CallbackData: "opt:" + strconv.Itoa(i)}})
			}
			rows = append(rows, []MenuButton{{Text: "🤷 I don't know", CallbackData: "giveup"}})
			b.send(withKeyboard(chatID, prefix+"❓ "+exercise.Question, rows))
		} else {
			b.send(withKeyboard(chatID, prefix+"✍️ Translate: "+exercise.Question+"\n\nType your answer.", [][]MenuButton{{
				{Text: "🤷 I don't know", CallbackData: "giveup"},
			}}))
		}
	case ScreenOral:
		b.send(withKeyboard(chatID, prefix+"🎙 Say it out loud: "+exercise.Question+"\n\nSend me a voice message.", [][]MenuButton{{
			{Text: "🤷 I don't know", CallbackData: "giveup"},
		}}))
	}
}

// sendTermAudio synthesizes the target term and sends it as a voice note.
// Synthesis failures are not user-facing; the exercise works without audio.
func (b *Bot) sendTermAudio(ctx context.Context, chatID int64, term string) {
	speech, err := b.synth.Synthesize(ctx, term)
	if err != nil {
		log.Printf("Error synthesizing %q: %v", term, err)
		return
	}
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "term.mp3", Bytes: speech})
	b.send(voice)
}

// handleStudyCallback routes the in-session buttons.
func (b *Bot) handleStudyCallback(ctx context.Context, chatID int64, data string) {
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil {
		return
	}
	item, exercise := cs.runner.Current()
	if item == nil {
		return
	}

	switch {
	case data == "fc:flip":
		exercise.Flipped = true
		b.send(withKeyboard(chatID, "🃏 "+exercise.Answer, [][]MenuButton{{
			{Text: "❌ Again", CallbackData: "fc:again"},
			{Text: "✅ Got it", CallbackData: "fc:ok"},
		}}))
	case data == "fc:ok":
		// Acquired only counts as a clean pass.
		b.commitAndAdvance(ctx, chatID, !exercise.HasFailed)
	case data == "fc:again":
		b.commitAndAdvance(ctx, chatID, false)
	case strings.HasPrefix(data, "opt:"):
		if exercise.AnswerChecked {
			return
		}
		index, err := strconv.Atoi(strings.TrimPrefix(data, "opt:"))
		if err != nil || index < 0 || index >= len(exercise.Options) {
			return
		}
		if exercise.CheckOption(exercise.Options[index]) {
			b.send(withKeyboard(chatID, "✅ Correct! "+exercise.Question+" → "+exercise.Answer, continueRow()))
		} else {
			b.send(withKeyboard(chatID, "❌ Not quite. It was: "+exercise.Answer, continueRow()))
		}
	case data == "giveup":
		exercise.GiveUp()
		b.send(withKeyboard(chatID, "🤷 The answer was: "+exercise.Answer, continueRow()))
	case data == "retry":
		exercise.Retry()
		b.reply(chatID, "🎙 Try again — send a new voice message.")
	case data == "next":
		success := exercise.Correct
		if cs.screen == ScreenOral {
			// A recovered retry still counts as a miss for spacing.
			success = exercise.Outcome()
		}
		b.commitAndAdvance(ctx, chatID, success)
	}
}

func continueRow() [][]MenuButton {
	return [][]MenuButton{{{Text: "Continue ➡️", CallbackData: "next"}}}
}

// handleTextAnswer checks a typed quiz answer.
func (b *Bot) handleTextAnswer(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil || cs.screen != ScreenQuiz {
		b.reply(chatID, "I don't understand. Use /help to see the commands.")
		return
	}
	item, exercise := cs.runner.Current()
	if item == nil || exercise.Kind != session.KindWritten || exercise.AnswerChecked {
		return
	}

	if exercise.CheckText(message.Text) {
		b.send(withKeyboard(chatID, "✅ Correct! "+exercise.Question+" → "+exercise.Answer, continueRow()))
	} else {
		b.send(withKeyboard(chatID, "❌ It was: "+exercise.Answer, continueRow()))
	}
}

// handleVoiceAnswer transcribes an oral answer and checks it. An
// unrecognized recording is never scored; the learner chooses to retry or
// give up.
func (b *Bot) handleVoiceAnswer(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil || cs.screen != ScreenOral {
		return
	}
	item, exercise := cs.runner.Current()
	if item == nil || exercise.AnswerChecked {
		return
	}

	recording, err := b.downloadVoice(ctx, message.Voice.FileID)
	if err != nil {
		log.Printf("Error downloading voice message: %v", err)
		b.reply(chatID, "I could not fetch that recording. Please try again.")
		return
	}

	transcript, err := b.recog.Transcribe(ctx, recording)
	if errors.Is(err, audio.ErrUnrecognized) {
		b.send(withKeyboard(chatID, "😕 I couldn't make that out.", [][]MenuButton{{
			{Text: "🔁 Try again", CallbackData: "retry"},
			{Text: "🏳 Give up", CallbackData: "giveup"},
		}}))
		return
	}
	if err != nil {
		log.Printf("Error transcribing voice message: %v", err)
		b.reply(chatID, "⚠️ Speech recognition is unavailable right now.")
		return
	}

	if exercise.CheckText(transcript) {
		b.send(withKeyboard(chatID, "✅ I heard: “"+transcript+"”", continueRow()))
	} else {
		b.send(withKeyboard(chatID, "❌ I heard: “"+transcript+"” — expected: “"+exercise.Answer+"”", [][]MenuButton{
			{{Text: "🔁 Retry", CallbackData: "retry"}, {Text: "🏳 Give up", CallbackData: "giveup"}},
			{{Text: "Continue ➡️", CallbackData: "next"}},
		}))
	}
	b.sendTermAudio(ctx, chatID, item.TermTarget)
}

func (b *Bot) downloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voice file: %w", err)
	}
	body, err := downloadFile(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// commitAndAdvance funnels the outcome into the scheduler, persists the
// pool and shows the next exercise (or the completion message).
func (b *Bot) commitAndAdvance(ctx context.Context, chatID int64, success bool) {
	cs := b.sessions[chatID]
	if cs == nil || cs.runner == nil {
		return
	}
	item, _ := cs.runner.Current()
	if item == nil {
		return
	}

	if err := cs.runner.SubmitOutcome(ctx, item.ID, success); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			log.Printf("Error submitting outcome: %v", err)
		} else {
			log.Printf("Error persisting outcome: %v", err)
			b.reply(chatID, "⚠️ Your progress could not be saved. It still counts for this session.")
		}
	}

	if cs.runner.Active() {
		b.presentCurrent(ctx, chatID)
		return
	}
	b.finishSession(chatID)
}

func (b *Bot) finishSession(chatID int64) {
	delete(b.sessions, chatID)
	b.reply(chatID, "🎉 Session complete! Use /learn, /quiz or /oral to start another.")
}
