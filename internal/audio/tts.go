// Package audio wraps the speech collaborators of the oral and flashcard
// screens: text-to-speech for presenting terms and speech-to-text for
// checking spoken answers. The scheduling core never depends on either
// succeeding.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Synthesizer renders a term to speech through the Google Translate TTS
// endpoint (the same one the gTTS tooling uses).
type Synthesizer struct {
	client  *http.Client
	baseURL string
	// Lang is the BCP-47 tag of the target language, e.g. "pt".
	Lang string
}

// NewSynthesizer creates a client for the given target-language tag.
func NewSynthesizer(lang string) *Synthesizer {
	return &Synthesizer{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://translate.google.com/translate_tts",
		Lang:    lang,
	}
}

// Synthesize returns MP3 bytes for the given text, or an error when the
// endpoint is unreachable or refuses. Callers treat a failure as "no
// audio", never as a session failure.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", s.Lang)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech endpoint returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	return data, nil
}
