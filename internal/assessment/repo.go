package assessment

import (
	"context"
	"errors"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrQuestionNotFound   = errors.New("question not found")
)

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

// Catalog is the read-mostly source of assessment definitions. Assessments
// and their questions are written once at authoring time and never edited.
type Catalog interface {
	PutAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, error) // full, answer keys included
	ListAssessments(ctx context.Context, opts ListOpts) ([]AssessmentSummary, error)
	ListMentorAssessments(ctx context.Context, mentorID string) ([]AssessmentSummary, error)
}

// Ledger is the append-only record of answer submissions. Record always
// inserts; nothing ever updates or deletes a row.
type Ledger interface {
	Record(ctx context.Context, ev ResponseEvent) (ResponseEvent, error)
	ListResponses(ctx context.Context, studentID, assessmentID string) ([]ResponseEvent, error)
}

type FeedbackStore interface {
	AddFeedback(ctx context.Context, f Feedback) (Feedback, error)
	ListFeedback(ctx context.Context, studentID, assessmentID string) ([]Feedback, error)
}

type GradeStore interface {
	AddGrades(ctx context.Context, gs []Grade) error
	ListGrades(ctx context.Context, studentID, assessmentID string) ([]Grade, error)
}

type Store interface {
	Catalog
	Ledger
	FeedbackStore
	GradeStore
}
