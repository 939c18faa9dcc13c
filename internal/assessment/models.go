package assessment

// Question is a single-choice item with exactly four options. Position is the
// 1-based ordinal within its assessment; it is distinct from the opaque ID and
// is what callers use to address the question during an attempt.
type Question struct {
	ID            string   `json:"id"`
	AssessmentID  string   `json:"assessment_id,omitempty"`
	Position      int      `json:"position"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type Assessment struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	MentorID  string     `json:"mentor_id"`
	Questions []Question `json:"questions,omitempty"` // ordered by position
	CreatedAt int64      `json:"created_at,omitempty"`
}

// WithoutAnswers returns a copy safe to serve to students.
func (a Assessment) WithoutAnswers() Assessment {
	qs := make([]Question, len(a.Questions))
	copy(qs, a.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	a.Questions = qs
	return a
}

type AssessmentSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     int64  `json:"created_at"`
	QuestionCount int    `json:"questions_count"`
}

// ResponseEvent is one answer submission. Events are append-only: the same
// (student, question) pair may appear many times, and the monotonically
// increasing ID orders them. Consumers wanting "the" answer take the last.
type ResponseEvent struct {
	ID           int64  `json:"id"`
	AssessmentID string `json:"assessment_id"`
	QuestionID   string `json:"question_id"`
	StudentID    string `json:"student_id"`
	AnswerText   string `json:"answer_text"`
	IsCorrect    bool   `json:"is_correct"`
	CreatedAt    int64  `json:"created_at"`
}

type Feedback struct {
	ID           int64  `json:"id"`
	MentorID     string `json:"mentor_id"`
	AssessmentID string `json:"assessment_id"`
	QuestionID   string `json:"question_id"`
	StudentID    string `json:"student_id"`
	Text         string `json:"text"`
	CreatedAt    int64  `json:"created_at"`
}

type Grade struct {
	ID           int64   `json:"id"`
	MentorID     string  `json:"mentor_id"`
	StudentID    string  `json:"student_id"`
	AssessmentID string  `json:"assessment_id"`
	Score        float64 `json:"score"`
	CreatedAt    int64   `json:"created_at"`
}
