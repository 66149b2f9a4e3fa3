package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/infrastructure/database/types"
	"github.com/eslsoft/lingocast/internal/repository"
)

const (
	tableLessons   = "lessons"
	tableQuestions = "questions"
)

var questionColumns = []string{"lesson_id", "id", "question_order", "prompt", "answers", "audio_url"}

type lessonRepository struct {
	store
}

// NewLessonRepository constructs an SQL-backed lesson repository.
func NewLessonRepository(drv *entsql.Driver) repository.LessonRepository {
	return &lessonRepository{store: newStore(drv)}
}

func (r *lessonRepository) SaveLesson(ctx context.Context, lesson *entity.Lesson) (*entity.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		upsert := r.b.Insert(tableLessons).
			Columns("id", "title", "language", "created_at", "updated_at").
			Values(lesson.ID, lesson.Title, string(lesson.Language), utc(lesson.CreatedAt), utc(lesson.UpdatedAt)).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) {
					u.SetExcluded("title").SetExcluded("language").SetExcluded("updated_at")
				}),
			)
		if _, err := exec(ctx, tx, upsert); err != nil {
			return fmt.Errorf("upsert lesson: %w", err)
		}
		if _, err := exec(ctx, tx, r.b.Delete(tableQuestions).Where(entsql.EQ("lesson_id", lesson.ID))); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if len(lesson.Questions) == 0 {
			return nil
		}
		ins := r.b.Insert(tableQuestions).Columns(questionColumns...)
		for _, q := range lesson.Questions {
			ins.Values(lesson.ID, q.ID, q.Order, q.Prompt, types.StringList(q.Answers), q.AudioURL)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return translateWriteError(err, entity.ErrInvalidLesson, "insert questions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	saved := *lesson
	return &saved, nil
}

func (r *lessonRepository) GetLesson(ctx context.Context, id string) (*entity.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, args := r.b.Select("id", "title", "language", "created_at", "updated_at").
		From(r.b.Table(tableLessons)).
		Where(entsql.EQ("id", id)).
		Query()

	var lesson entity.Lesson
	var lang string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&lesson.ID, &lesson.Title, &lang, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	lesson.Language = entity.Language(lang)

	query, args = r.b.Select(questionColumns[1:]...).
		From(r.b.Table(tableQuestions)).
		Where(entsql.EQ("lesson_id", id)).
		OrderBy("question_order", "id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q entity.Question
		var answers types.StringList
		if err := rows.Scan(&q.ID, &q.Order, &q.Prompt, &answers, &q.AudioURL); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Answers = []string(answers)
		lesson.Questions = append(lesson.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &lesson, nil
}
