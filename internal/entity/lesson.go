package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Lesson is an ordered set of questions in one language.
type Lesson struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Language  Language   `json:"language" yaml:"language"`
	Questions []Question `json:"questions" yaml:"questions"`
	CreatedAt time.Time  `json:"-" yaml:"-"`
	UpdatedAt time.Time  `json:"-" yaml:"-"`
}

// Question is a prompt with one or more accepted answers.
type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Order    int      `json:"order" yaml:"order"`
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Answers  []string `json:"answers" yaml:"answers"`
	AudioURL string   `json:"audio_url,omitempty" yaml:"audio_url,omitempty"`
}

// Accepts reports whether answer matches one of the accepted answers.
func (q Question) Accepts(answer string) bool {
	got := NormalizeAnswer(answer)
	if got == "" {
		return false
	}
	return lo.SomeBy(q.Answers, func(a string) bool { return NormalizeAnswer(a) == got })
}

// Normalize trims identifiers, fills missing orders and sorts questions.
func (l *Lesson) Normalize(now time.Time) {
	l.ID = strings.TrimSpace(l.ID)
	l.Title = strings.TrimSpace(l.Title)
	l.Language = ParseLanguage(string(l.Language))
	for i := range l.Questions {
		l.Questions[i].ID = strings.TrimSpace(l.Questions[i].ID)
		if l.Questions[i].Order == 0 {
			l.Questions[i].Order = i + 1
		}
	}
	sort.SliceStable(l.Questions, func(i, j int) bool { return l.Questions[i].Order < l.Questions[j].Order })
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
}

func (l Lesson) Validate() error {
	if l.ID == "" || l.Title == "" {
		return ErrInvalidLesson
	}
	if !l.Language.IsValid() {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidLesson, l.Language)
	}
	if len(l.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidLesson)
	}
	seen := make(map[string]struct{}, len(l.Questions))
	for _, q := range l.Questions {
		if q.ID == "" || strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("%w: question requires id and prompt", ErrInvalidLesson)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question %q", ErrInvalidLesson, q.ID)
		}
		seen[q.ID] = struct{}{}
		if !lo.SomeBy(q.Answers, func(a string) bool { return NormalizeAnswer(a) != "" }) {
			return fmt.Errorf("%w: question %q has no answers", ErrInvalidLesson, q.ID)
		}
	}
	return nil
}

// Question returns the question with the given id.
func (l Lesson) Question(id string) (Question, bool) {
	return lo.Find(l.Questions, func(q Question) bool { return q.ID == id })
}

// SessionState is the phase of a lesson session.
type SessionState string

const (
	SessionAnswering SessionState = "answering"
	SessionFeedback  SessionState = "feedback"
	SessionComplete  SessionState = "complete"
)

// LessonSession walks a learner through a lesson. Questions answered
// incorrectly go back to the end of the queue; the session completes once
// the queue drains.
type LessonSession struct {
	ID        string
	UserID    int64
	Lesson    Lesson
	State     SessionState
	Pending   []string
	Correct   int
	Incorrect int
	// LastCorrect is the verdict shown during the feedback phase.
	LastCorrect bool
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// NewLessonSession starts a session at the first question of lesson.
func NewLessonSession(id string, userID int64, lesson Lesson, now time.Time) *LessonSession {
	return &LessonSession{
		ID:        id,
		UserID:    userID,
		Lesson:    lesson,
		State:     SessionAnswering,
		Pending:   lo.Map(lesson.Questions, func(q Question, _ int) string { return q.ID }),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Current returns the question at the head of the queue.
func (s *LessonSession) Current() (Question, bool) {
	if s.State == SessionComplete || len(s.Pending) == 0 {
		return Question{}, false
	}
	return s.Lesson.Question(s.Pending[0])
}

// Submit grades answer against the current question and moves to feedback.
func (s *LessonSession) Submit(answer string, now time.Time) (bool, error) {
	switch s.State {
	case SessionComplete:
		return false, ErrSessionComplete
	case SessionFeedback:
		return false, ErrAwaitingFeedback
	}
	q, ok := s.Current()
	if !ok {
		return false, ErrSessionComplete
	}

	correct := q.Accepts(answer)
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
		s.Pending = append(s.Pending, q.ID)
	}
	s.LastCorrect = correct
	s.State = SessionFeedback
	s.UpdatedAt = now
	return correct, nil
}

// Advance leaves the feedback phase for the next question or completion.
func (s *LessonSession) Advance(now time.Time) error {
	switch s.State {
	case SessionComplete:
		return ErrSessionComplete
	case SessionAnswering:
		return ErrAwaitingAnswer
	}
	s.Pending = s.Pending[1:]
	if len(s.Pending) == 0 {
		s.State = SessionComplete
	} else {
		s.State = SessionAnswering
	}
	s.UpdatedAt = now
	return nil
}

// Remaining counts queued questions, including the current one.
func (s *LessonSession) Remaining() int {
	return len(s.Pending)
}
