package attempt

import (
	"context"
	"fmt"

	"github.com/skill-code/skillcode-backend/internal/assessment"
)

// CompletionMessage is returned in place of a next question once the last
// position has been answered.
const CompletionMessage = "Assessment completed. Thank you for participating!"

// Machine drives one question interaction at a time. It holds no per-student
// state: the caller supplies the position on every call, and "completed" is a
// response shape, not a persisted fact. A student may revisit or re-answer any
// position; each answer lands as a fresh ledger event.
type Machine struct {
	catalog assessment.Catalog
	ledger  assessment.Ledger
	nav     Navigator
}

func NewMachine(catalog assessment.Catalog, ledger assessment.Ledger) *Machine {
	return &Machine{catalog: catalog, ledger: ledger}
}

// QuestionView is the student-facing rendering of a question. It never
// carries the correct answer.
type QuestionView struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// AnswerResult reveals the correct answer for the position just answered,
// never for the next one.
type AnswerResult struct {
	IsCorrect     bool          `json:"is_correct"`
	CorrectAnswer string        `json:"correct_answer"`
	StudentID     string        `json:"student_id"`
	NextQuestion  *QuestionView `json:"next_question,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// View returns the question at pos for display. Errors are
// assessment.ErrAssessmentNotFound, assessment.ErrQuestionNotFound, or a
// store failure.
func (m *Machine) View(ctx context.Context, assessmentID string, pos int) (QuestionView, error) {
	a, err := m.catalog.GetAssessment(ctx, assessmentID)
	if err != nil {
		return QuestionView{}, err
	}
	q, ok := m.nav.Resolve(a, pos)
	if !ok {
		return QuestionView{}, assessment.ErrQuestionNotFound
	}
	return QuestionView{QuestionText: q.Text, Options: q.Options}, nil
}

// Answer validates the submission against the question at pos, records the
// event unconditionally (wrong answers too), and resolves the successor
// position. The assessment and question are re-resolved even on the answer
// path: the caller-supplied position may be stale or forged.
func (m *Machine) Answer(ctx context.Context, assessmentID string, pos int, studentID, submitted string) (AnswerResult, error) {
	a, err := m.catalog.GetAssessment(ctx, assessmentID)
	if err != nil {
		return AnswerResult{}, err
	}
	q, ok := m.nav.Resolve(a, pos)
	if !ok {
		return AnswerResult{}, assessment.ErrQuestionNotFound
	}

	correct := Correct(q, submitted)
	_, err = m.ledger.Record(ctx, assessment.ResponseEvent{
		AssessmentID: a.ID,
		QuestionID:   q.ID,
		StudentID:    studentID,
		AnswerText:   submitted,
		IsCorrect:    correct,
	})
	if err != nil {
		return AnswerResult{}, fmt.Errorf("record response: %w", err)
	}

	res := AnswerResult{
		IsCorrect:     correct,
		CorrectAnswer: q.CorrectAnswer,
		StudentID:     studentID,
	}
	if next, ok := m.nav.Next(a, pos); ok {
		nq, _ := m.nav.Resolve(a, next)
		res.NextQuestion = &QuestionView{QuestionText: nq.Text, Options: nq.Options}
	} else {
		res.Message = CompletionMessage
	}
	return res, nil
}
