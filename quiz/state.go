// Package quiz drives a picture-naming quiz session: level progression
// over an ID-partitioned question pool, distractor selection, and an
// answer-evaluation state machine. Label detection for unlabeled images
// is delegated to an external collaborator and degrades to a placeholder
// pool when unavailable.
package quiz

import "fmt"

// State is a quiz session lifecycle state.
type State string

const (
	StateLoading       State = "loading"
	StatePresenting    State = "presenting"
	StateAnswered      State = "answered"
	StateLevelComplete State = "level-complete"
	StateQuizComplete  State = "quiz-complete"
	StateFailed        State = "failed"
)

// IsTerminal reports whether the state ends the session.
func IsTerminal(s State) bool {
	switch s {
	case StateQuizComplete, StateFailed:
		return true
	default:
		return false
	}
}

// transition performs a validated state change. The caller supplies the
// expected prior state so a stale caller observes the conflict instead of
// silently clobbering the machine.
func (s *Session) transition(from, to State) error {
	if s.state != from {
		return fmt.Errorf("invalid transition: expected %s, got %s", from, s.state)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	s.state = to
	return nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateLoading:
		return to == StatePresenting || to == StateFailed
	case StatePresenting:
		return to == StateAnswered || to == StateFailed
	case StateAnswered:
		return to == StatePresenting || to == StateLevelComplete
	case StateLevelComplete:
		// Failed is reachable here: advancing into a level whose ID
		// sub-range holds no questions is terminal.
		return to == StatePresenting || to == StateQuizComplete || to == StateFailed
	default:
		// QuizComplete and Failed are terminal.
		return false
	}
}
