package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutAssessment(ctx context.Context, a Assessment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	createdAt := a.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO assessments (id,title,mentor_id,created_at) VALUES ($1,$2,$3,$4)`,
		a.ID, a.Title, a.MentorID, createdAt)
	if err != nil {
		return err
	}
	for _, q := range a.Questions {
		var oj []byte
		oj, err = json.Marshal(q.Options)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (id,assessment_id,position,text,options_json,correct_answer)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			q.ID, a.ID, q.Position, q.Text, string(oj), q.CorrectAnswer)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,mentor_id,created_at FROM assessments WHERE id=$1`, id)
	var a Assessment
	if err := row.Scan(&a.ID, &a.Title, &a.MentorID, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrAssessmentNotFound
		}
		return Assessment{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,position,text,options_json,correct_answer FROM questions
		 WHERE assessment_id=$1 ORDER BY position`, id)
	if err != nil {
		return Assessment{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var q Question
		var oj string
		if err := rows.Scan(&q.ID, &q.Position, &q.Text, &oj, &q.CorrectAnswer); err != nil {
			return Assessment{}, err
		}
		if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
			return Assessment{}, err
		}
		q.AssessmentID = a.ID
		a.Questions = append(a.Questions, q)
	}
	return a, rows.Err()
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts ListOpts) ([]AssessmentSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT a.id, a.title, a.created_at, COUNT(q.id)
	      FROM assessments a LEFT JOIN questions q ON q.assessment_id = a.id`
	args := []interface{}{}
	if opts.Q != "" {
		q += ` WHERE lower(a.title) LIKE '%' || lower($1) || '%'`
		args = append(args, opts.Q)
	}
	q += ` GROUP BY a.id, a.title, a.created_at ORDER BY a.created_at DESC`
	if opts.Q != "" {
		q += ` LIMIT $2 OFFSET $3`
	} else {
		q += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AssessmentSummary{}
	for rows.Next() {
		var sm AssessmentSummary
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.CreatedAt, &sm.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListMentorAssessments(ctx context.Context, mentorID string) ([]AssessmentSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.title, a.created_at, COUNT(q.id)
		 FROM assessments a LEFT JOIN questions q ON q.assessment_id = a.id
		 WHERE a.mentor_id=$1
		 GROUP BY a.id, a.title, a.created_at ORDER BY a.created_at DESC`, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AssessmentSummary{}
	for rows.Next() {
		var sm AssessmentSummary
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.CreatedAt, &sm.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Record appends one response event. Repeated submissions for the same
// question each get their own row; the returned ID carries the insertion
// order.
func (s *SQLStore) Record(ctx context.Context, ev ResponseEvent) (ResponseEvent, error) {
	ev.CreatedAt = time.Now().Unix()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO responses (assessment_id,question_id,student_id,answer_text,is_correct,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		ev.AssessmentID, ev.QuestionID, ev.StudentID, ev.AnswerText, ev.IsCorrect, ev.CreatedAt,
	).Scan(&ev.ID)
	if err != nil {
		return ResponseEvent{}, err
	}
	return ev, nil
}

func (s *SQLStore) ListResponses(ctx context.Context, studentID, assessmentID string) ([]ResponseEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,assessment_id,question_id,student_id,answer_text,is_correct,created_at
		 FROM responses WHERE student_id=$1 AND assessment_id=$2 ORDER BY id`,
		studentID, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ResponseEvent{}
	for rows.Next() {
		var ev ResponseEvent
		if err := rows.Scan(&ev.ID, &ev.AssessmentID, &ev.QuestionID, &ev.StudentID,
			&ev.AnswerText, &ev.IsCorrect, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	f.CreatedAt = time.Now().Unix()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO feedback (mentor_id,assessment_id,question_id,student_id,text,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		f.MentorID, f.AssessmentID, f.QuestionID, f.StudentID, f.Text, f.CreatedAt,
	).Scan(&f.ID)
	if err != nil {
		return Feedback{}, err
	}
	return f, nil
}

func (s *SQLStore) ListFeedback(ctx context.Context, studentID, assessmentID string) ([]Feedback, error) {
	q := `SELECT id,mentor_id,assessment_id,question_id,student_id,text,created_at
	      FROM feedback WHERE student_id=$1`
	args := []interface{}{studentID}
	if assessmentID != "" {
		q += ` AND assessment_id=$2`
		args = append(args, assessmentID)
	}
	q += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Feedback{}
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.MentorID, &f.AssessmentID, &f.QuestionID,
			&f.StudentID, &f.Text, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddGrades(ctx context.Context, gs []Grade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := time.Now().Unix()
	for _, g := range gs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO grades (mentor_id,student_id,assessment_id,score,created_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			g.MentorID, g.StudentID, g.AssessmentID, g.Score, now)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

func (s *SQLStore) ListGrades(ctx context.Context, studentID, assessmentID string) ([]Grade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,mentor_id,student_id,assessment_id,score,created_at
		 FROM grades WHERE student_id=$1 AND assessment_id=$2 ORDER BY id`,
		studentID, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Grade{}
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.MentorID, &g.StudentID, &g.AssessmentID,
			&g.Score, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
