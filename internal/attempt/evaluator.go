package attempt

import "github.com/skill-code/skillcode-backend/internal/assessment"

// Correct reports whether the submitted answer matches the question's correct
// answer. Comparison is exact string equality: no case folding, no trimming.
// Callers must submit the option text verbatim.
func Correct(q assessment.Question, submitted string) bool {
	return submitted == q.CorrectAnswer
}
