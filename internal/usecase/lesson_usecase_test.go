package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/lingocast/internal/entity"
)

func newTestLessonUsecase() *lessonUsecase {
	repo := newFakeLessonRepo(entity.Lesson{
		ID:       "L1",
		Title:    "Numbers",
		Language: entity.LanguageFrench,
		Questions: []entity.Question{
			{ID: "q1", Order: 1, Prompt: "one", Answers: []string{"un"}},
			{ID: "q2", Order: 2, Prompt: "two", Answers: []string{"deux"}},
		},
	})
	uc := NewLessonUsecase(repo).(*lessonUsecase)
	uc.clock = fixedClock()
	uc.newID = sequentialIDs("sess-")
	return uc
}

func TestLessonSessionFlow(t *testing.T) {
	uc := newTestLessonUsecase()
	ctx := context.Background()

	session, err := uc.StartSession(ctx, 3, "L1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.ID != "sess-1" || session.State != entity.SessionAnswering {
		t.Fatalf("unexpected session %+v", session)
	}

	steps := []struct {
		answer  string
		correct bool
	}{
		{"deux", false}, // q1 wrong, re-queued
		{"deux", true},  // q2
		{" UN ", true},  // q1 again
	}
	for i, step := range steps {
		s, correct, err := uc.SubmitAnswer(ctx, 3, session.ID, step.answer)
		if err != nil {
			t.Fatalf("step %d submit: %v", i, err)
		}
		if correct != step.correct || s.State != entity.SessionFeedback {
			t.Fatalf("step %d: expected correct=%v in feedback, got %v %s", i, step.correct, correct, s.State)
		}
		if session, err = uc.Advance(ctx, 3, session.ID); err != nil {
			t.Fatalf("step %d advance: %v", i, err)
		}
	}
	if session.State != entity.SessionComplete {
		t.Fatalf("expected complete, got %s", session.State)
	}
	if _, err := uc.Advance(ctx, 3, session.ID); !errors.Is(err, entity.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
}

func TestLessonSessionIsolatedPerUser(t *testing.T) {
	uc := newTestLessonUsecase()
	ctx := context.Background()
	session, err := uc.StartSession(ctx, 3, "L1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := uc.SubmitAnswer(ctx, 4, session.ID, "un"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for another user, got %v", err)
	}
	if _, err := uc.StartSession(ctx, 3, "missing"); !errors.Is(err, entity.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
	if _, err := uc.StartSession(ctx, 0, "L1"); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestLessonSessionExpiresWhenIdle(t *testing.T) {
	uc := newTestLessonUsecase()
	ctx := context.Background()
	session, err := uc.StartSession(ctx, 3, "L1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	started := session.UpdatedAt

	uc.clock = func() time.Time { return started.Add(time.Hour) }
	if _, _, err := uc.SubmitAnswer(ctx, 3, session.ID, "un"); err != nil {
		t.Fatalf("session within the TTL should answer: %v", err)
	}

	uc.clock = func() time.Time { return started.Add(time.Hour + sessionTTL + time.Minute) }
	if _, err := uc.Advance(ctx, 3, session.ID); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for an idle session, got %v", err)
	}
	uc.mu.Lock()
	_, kept := uc.sessions[session.ID]
	uc.mu.Unlock()
	if kept {
		t.Fatalf("expired session should be dropped")
	}
}

func TestImportLessonRejectsInvalid(t *testing.T) {
	uc := newTestLessonUsecase()
	_, err := uc.ImportLesson(context.Background(), &entity.Lesson{ID: "L2", Title: "Empty", Language: "fr"})
	if !errors.Is(err, entity.ErrInvalidLesson) {
		t.Fatalf("expected ErrInvalidLesson, got %v", err)
	}
}
