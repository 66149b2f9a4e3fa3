package entity

import (
	"errors"
	"testing"
	"time"
)

func sampleLesson() Lesson {
	return Lesson{
		ID:       "L1",
		Title:    "Greetings",
		Language: LanguageSpanish,
		Questions: []Question{
			{ID: "q1", Order: 1, Prompt: "hello", Answers: []string{"hola"}},
			{ID: "q2", Order: 2, Prompt: "goodbye", Answers: []string{"adiós", "adios"}},
		},
	}
}

func TestLessonSessionRequeuesIncorrectFIFO(t *testing.T) {
	now := time.Now()
	s := NewLessonSession("sess", 7, sampleLesson(), now)

	answer := func(text string, want bool) {
		t.Helper()
		got, err := s.Submit(text, now)
		if err != nil {
			t.Fatalf("submit %q: %v", text, err)
		}
		if got != want {
			t.Fatalf("submit %q: expected correct=%v", text, want)
		}
		if err := s.Advance(now); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	answer("nope", false) // q1 goes to the back
	if q, _ := s.Current(); q.ID != "q2" {
		t.Fatalf("expected q2 next, got %s", q.ID)
	}
	answer("  ADIOS ", true)
	if q, _ := s.Current(); q.ID != "q1" {
		t.Fatalf("expected q1 retried, got %s", q.ID)
	}
	answer("Hola", true)

	if s.State != SessionComplete {
		t.Fatalf("expected complete, got %s", s.State)
	}
	if s.Correct != 2 || s.Incorrect != 1 {
		t.Fatalf("unexpected tallies %d/%d", s.Correct, s.Incorrect)
	}
	if _, err := s.Submit("hola", now); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
}

func TestLessonSessionPhaseGuards(t *testing.T) {
	now := time.Now()
	s := NewLessonSession("sess", 1, sampleLesson(), now)
	if err := s.Advance(now); !errors.Is(err, ErrAwaitingAnswer) {
		t.Fatalf("expected ErrAwaitingAnswer, got %v", err)
	}
	if _, err := s.Submit("hola", now); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit("hola", now); !errors.Is(err, ErrAwaitingFeedback) {
		t.Fatalf("expected ErrAwaitingFeedback, got %v", err)
	}
}

func TestLessonValidate(t *testing.T) {
	l := sampleLesson()
	l.Questions = append(l.Questions, Question{ID: "q1", Prompt: "dup", Answers: []string{"x"}})
	l.Normalize(time.Now())
	if err := l.Validate(); !errors.Is(err, ErrInvalidLesson) {
		t.Fatalf("expected ErrInvalidLesson for duplicate question, got %v", err)
	}

	l = sampleLesson()
	l.Questions[0].Answers = []string{"  "}
	if err := l.Validate(); !errors.Is(err, ErrInvalidLesson) {
		t.Fatalf("expected ErrInvalidLesson for blank answers, got %v", err)
	}
}
