package bot

import (
	"os"
	"strconv"
)

// Config represents the configuration for the bot.
type Config struct {
	// TTSLang is the language tag used to synthesize target terms.
	TTSLang string
	// STTLang is the language tag used to transcribe spoken answers.
	STTLang string
	// DefaultLimit is the word count preselected for a new session.
	DefaultLimit int
	// ReminderChatID receives the daily due-review reminder; 0 disables it.
	ReminderChatID int64
}

// DefaultConfig returns the default bot configuration, tuned for
// Portuguese as the target language.
func DefaultConfig() *Config {
	cfg := &Config{
		TTSLang:      "pt",
		STTLang:      "pt-PT",
		DefaultLimit: 20,
	}
	if lang := os.Getenv("LINGOBOT_TTS_LANG"); lang != "" {
		cfg.TTSLang = lang
	}
	if lang := os.Getenv("LINGOBOT_STT_LANG"); lang != "" {
		cfg.STTLang = lang
	}
	if idStr := os.Getenv("REMINDER_CHAT_ID"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			cfg.ReminderChatID = id
		}
	}
	return cfg
}
