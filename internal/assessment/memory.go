package assessment

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryStore is a mutex-guarded Store for tests and offline experiments.
type memoryStore struct {
	mu          sync.RWMutex
	assessments map[string]Assessment
	responses   []ResponseEvent
	feedback    []Feedback
	grades      []Grade
	respSeq     int64
	fbSeq       int64
	gradeSeq    int64
}

func NewInMemoryStore() Store {
	return &memoryStore{assessments: map[string]Assessment{}}
}

func (m *memoryStore) PutAssessment(_ context.Context, a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, ErrAssessmentNotFound
	}
	return a, nil
}

func (m *memoryStore) ListAssessments(_ context.Context, opts ListOpts) ([]AssessmentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []AssessmentSummary{}
	for _, a := range m.assessments {
		if opts.Q != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, AssessmentSummary{
			ID: a.ID, Title: a.Title, CreatedAt: a.CreatedAt, QuestionCount: len(a.Questions),
		})
	}
	return out, nil
}

func (m *memoryStore) ListMentorAssessments(_ context.Context, mentorID string) ([]AssessmentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []AssessmentSummary{}
	for _, a := range m.assessments {
		if a.MentorID != mentorID {
			continue
		}
		out = append(out, AssessmentSummary{
			ID: a.ID, Title: a.Title, CreatedAt: a.CreatedAt, QuestionCount: len(a.Questions),
		})
	}
	return out, nil
}

func (m *memoryStore) Record(_ context.Context, ev ResponseEvent) (ResponseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.respSeq++
	ev.ID = m.respSeq
	ev.CreatedAt = time.Now().Unix()
	m.responses = append(m.responses, ev)
	return ev, nil
}

func (m *memoryStore) ListResponses(_ context.Context, studentID, assessmentID string) ([]ResponseEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ResponseEvent{}
	for _, ev := range m.responses {
		if ev.StudentID == studentID && ev.AssessmentID == assessmentID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memoryStore) AddFeedback(_ context.Context, f Feedback) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fbSeq++
	f.ID = m.fbSeq
	f.CreatedAt = time.Now().Unix()
	m.feedback = append(m.feedback, f)
	return f, nil
}

func (m *memoryStore) ListFeedback(_ context.Context, studentID, assessmentID string) ([]Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Feedback{}
	for _, f := range m.feedback {
		if f.StudentID != studentID {
			continue
		}
		if assessmentID != "" && f.AssessmentID != assessmentID {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *memoryStore) AddGrades(_ context.Context, gs []Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	for _, g := range gs {
		m.gradeSeq++
		g.ID = m.gradeSeq
		g.CreatedAt = now
		m.grades = append(m.grades, g)
	}
	return nil
}

func (m *memoryStore) ListGrades(_ context.Context, studentID, assessmentID string) ([]Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Grade{}
	for _, g := range m.grades {
		if g.StudentID == studentID && g.AssessmentID == assessmentID {
			out = append(out, g)
		}
	}
	return out, nil
}
