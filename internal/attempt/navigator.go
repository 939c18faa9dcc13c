package attempt

import "github.com/skill-code/skillcode-backend/internal/assessment"

// Navigator resolves caller-supplied positions against an assessment's
// ordered question index. It keeps no state between calls: every request
// carries its own position, and navigation is forward-only.
type Navigator struct{}

// Resolve returns the question at the given position, if any.
func (Navigator) Resolve(a assessment.Assessment, pos int) (assessment.Question, bool) {
	for _, q := range a.Questions {
		if q.Position == pos {
			return q, true
		}
	}
	return assessment.Question{}, false
}

// Next returns the smallest position greater than pos. This is an ordered
// lookup, not an arithmetic increment, so a hole in the position sequence
// advances to the next question that actually exists. ok is false when pos is
// at or past the last question.
func (Navigator) Next(a assessment.Assessment, pos int) (int, bool) {
	next, found := 0, false
	for _, q := range a.Questions {
		if q.Position <= pos {
			continue
		}
		if !found || q.Position < next {
			next, found = q.Position, true
		}
	}
	return next, found
}
