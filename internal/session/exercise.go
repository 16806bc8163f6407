package session

import (
	"math/rand"

	"github.com/example/lingobot/internal/textutil"
	"github.com/example/lingobot/pkg/models"
)

// GiveUpAnswer is the placeholder recorded when the learner declines to
// answer, so the presentation layer can show "you didn't answer" instead of
// "you answered wrong". It is scheduled identically to a wrong answer.
const GiveUpAnswer = "[no answer]"

// maxDistractors caps the incorrect options of a multiple-choice question.
const maxDistractors = 3

// Exercise is the transient state of one cursor position: which term is the
// question, the exercise form, the drawn options and the answer-attempt
// flags. It is computed once when the position is first visited and
// discarded on every advance or quit.
type Exercise struct {
	Question string
	Answer   string
	// Kind is resolved to KindWritten or KindChoice.
	Kind Kind
	// Options holds the shuffled choice set (distractors plus the correct
	// answer); empty for written exercises.
	Options []string

	Flipped       bool
	AnswerChecked bool
	LastAnswer    string
	Correct       bool
	// HasFailed records whether any attempt failed during this exercise
	// instance, across retries.
	HasFailed bool
}

// NewExercise draws the per-item presentation state: question/answer
// direction, exercise form, and multiple-choice distractors taken from the
// other items sharing the session's category filter.
func NewExercise(item *models.VocabularyItem, peers []*models.VocabularyItem, dir Direction, kind Kind) *Exercise {
	askTarget := dir == DirectionTargetToPrimary
	if dir == DirectionRandom {
		askTarget = rand.Intn(2) == 0
	}

	e := &Exercise{}
	if askTarget {
		e.Question = item.TermTarget
		e.Answer = item.TermPrimary
	} else {
		e.Question = item.TermPrimary
		e.Answer = item.TermTarget
	}

	e.Kind = kind
	if kind == KindMixed {
		if rand.Intn(2) == 0 {
			e.Kind = KindWritten
		} else {
			e.Kind = KindChoice
		}
	}
	if e.Kind == KindChoice {
		e.Options = drawOptions(item, peers, askTarget, e.Answer)
	}
	return e
}

// drawOptions samples up to maxDistractors distinct wrong answers in the
// same answer direction, appends the correct one and shuffles.
func drawOptions(item *models.VocabularyItem, peers []*models.VocabularyItem, askTarget bool, answer string) []string {
	seen := map[string]bool{answer: true}
	var candidates []string
	for _, peer := range peers {
		if peer.ID == item.ID {
			continue
		}
		term := peer.TermTarget
		if askTarget {
			term = peer.TermPrimary
		}
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		candidates = append(candidates, term)
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > maxDistractors {
		candidates = candidates[:maxDistractors]
	}

	options := append(candidates, answer)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// CheckText verifies a typed or transcribed answer, ignoring case,
// diacritics and punctuation.
func (e *Exercise) CheckText(answer string) bool {
	correct := textutil.Equal(answer, e.Answer)
	e.record(answer, correct)
	return correct
}

// CheckOption verifies a picked multiple-choice option by exact match.
func (e *Exercise) CheckOption(option string) bool {
	correct := option == e.Answer
	e.record(option, correct)
	return correct
}

// GiveUp records an immediate failed attempt with the placeholder answer.
func (e *Exercise) GiveUp() {
	e.record(GiveUpAnswer, false)
}

func (e *Exercise) record(answer string, correct bool) {
	e.LastAnswer = answer
	e.Correct = correct
	e.AnswerChecked = true
	if !correct {
		e.HasFailed = true
	}
}

// Retry clears the answer-checked flag so a fresh attempt can be captured.
// The failed-attempt record survives; only the eventually committed outcome
// reaches the scheduler.
func (e *Exercise) Retry() {
	e.AnswerChecked = false
	e.LastAnswer = ""
	e.Correct = false
}

// Outcome is the result to commit for screens that score "acquired" as a
// clean pass: correct and never failed during this exercise instance.
func (e *Exercise) Outcome() bool {
	return e.Correct && !e.HasFailed
}
