package models

// StudyMode identifies one of the two independent review tracks kept per
// item. Progress in one mode never affects the other.
type StudyMode int

const (
	// Recognition is the flashcard-style track: see one side, recall the other.
	Recognition StudyMode = iota
	// Production is the quiz-style track: produce the answer yourself.
	Production
)

// Modes lists every study mode, in a fixed order.
var Modes = []StudyMode{Recognition, Production}

func (m StudyMode) String() string {
	switch m {
	case Recognition:
		return "recognition"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}
