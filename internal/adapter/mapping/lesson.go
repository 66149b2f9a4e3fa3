package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/entity"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

func ToPbLesson(in *entity.Lesson) *lessonv1.Lesson {
	if in == nil {
		return nil
	}
	return &lessonv1.Lesson{
		ID:       in.ID,
		Title:    in.Title,
		Language: string(in.Language),
		Questions: lo.Map(in.Questions, func(q entity.Question, _ int) *lessonv1.Question {
			return toPbQuestion(q)
		}),
	}
}

func toPbQuestion(q entity.Question) *lessonv1.Question {
	return &lessonv1.Question{ID: q.ID, Order: int32(q.Order), Prompt: q.Prompt, AudioURL: q.AudioURL}
}

func ToPbSession(in *entity.LessonSession) *lessonv1.Session {
	if in == nil {
		return nil
	}
	out := &lessonv1.Session{
		ID:          in.ID,
		LessonID:    in.Lesson.ID,
		State:       string(in.State),
		Remaining:   int32(in.Remaining()),
		Correct:     int32(in.Correct),
		Incorrect:   int32(in.Incorrect),
		LastCorrect: in.LastCorrect,
	}
	if q, ok := in.Current(); ok {
		out.Current = toPbQuestion(q)
	}
	return out
}
