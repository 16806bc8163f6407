package textutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase", "Bom Dia", "bom dia"},
		{"diacritics", "café", "cafe"},
		{"punctuation", "Déjà-vu!", "deja vu"},
		{"collapse whitespace", "  olá ,   mundo  ", "ola mundo"},
		{"underscore kept", "foo_bar", "foo_bar"},
		{"digits kept", "rua 25 de abril", "rua 25 de abril"},
		{"apostrophe", "c'est", "c est"},
		{"only punctuation", "?!...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Café", "cafe"))
	assert.True(t, Equal("obrigado.", "Obrigado"))
	assert.True(t, Equal("", ""))
	assert.False(t, Equal("bom", "mau"))
}

func TestNormalize_Idempotent(t *testing.T) {
	// Normalizing an already-normalized string must change nothing.
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("aàâbcçdeéèêëfghiîïjklmnoôpqrstuûüvwxyzÀÉÇ0123456789 _-!?.,;:'\"()[]ßñ漢字🦉")
	for i := 0; i < 50; i++ {
		length := rng.Intn(40)
		runes := make([]rune, length)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(runes)
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}
