// Package session assembles study queues from the vocabulary pool and
// drives them through a review run.
package session

import "github.com/example/lingobot/pkg/models"

// Mode selects how a queue is assembled.
type Mode int

const (
	// ModeSRS restricts the queue to items whose review is due.
	ModeSRS Mode = iota
	// ModeFree ignores due dates.
	ModeFree
	// ModeInfinite serves one random item at a time and replenishes the
	// queue after every answer; it never exhausts on its own.
	ModeInfinite
)

func (m Mode) String() string {
	switch m {
	case ModeSRS:
		return "srs"
	case ModeFree:
		return "free"
	case ModeInfinite:
		return "infinite"
	default:
		return "unknown"
	}
}

// Direction controls which of the two terms is shown as the question.
type Direction int

const (
	// DirectionRandom flips a fair coin per item, each time it is presented.
	DirectionRandom Direction = iota
	// DirectionPrimaryToTarget asks for the target-language term.
	DirectionPrimaryToTarget
	// DirectionTargetToPrimary asks for the primary-language term.
	DirectionTargetToPrimary
)

// Kind selects the exercise form on screens that support both.
type Kind int

const (
	// KindMixed flips a fair coin per item between written and choice.
	KindMixed Kind = iota
	// KindWritten asks for a typed answer.
	KindWritten
	// KindChoice asks a multiple-choice question.
	KindChoice
)

// Criteria carries everything the builder needs to assemble a queue.
type Criteria struct {
	// Categories is the allowed-category set. Empty means nothing to study.
	Categories map[string]bool
	// Mode selects due-only, unrestricted or endless assembly.
	Mode Mode
	// StudyMode picks which per-item schedule slot the session reads and
	// updates.
	StudyMode models.StudyMode
	// Limit caps the queue length in non-endless modes. Callers clamp it
	// to [1, eligible-count] beforehand; the builder only slices.
	Limit int
	// Direction and Kind are resolved per item when the item is presented.
	Direction Direction
	Kind      Kind
}
