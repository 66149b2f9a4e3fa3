package repository

import (
	"context"

	"github.com/eslsoft/lingocast/internal/entity"
)

// ListMediaQuery holds parameters for listing media items.
type ListMediaQuery struct {
	Pagination
	FilterOrder

	Kind     entity.MediaKind
	Language entity.Language
}

// SentenceFallback is the enrichment pair written onto a sentence.
type SentenceFallback struct {
	English         string
	Transliteration string
}

// ContentRepository persists media items with their timed tracks.
type ContentRepository interface {
	// SaveMedia replaces the media item and all of its sentences.
	SaveMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error)
	GetMedia(ctx context.Context, id string) (*entity.MediaItem, error)
	ListMedia(ctx context.Context, query *ListMediaQuery) ([]entity.MediaSummary, int64, error)
	// GetSentences returns the sentences with the given ids, keyed by id.
	// Unknown ids are absent from the result.
	GetSentences(ctx context.Context, ids []string) (map[string]entity.Sentence, error)
	SetSentenceFallback(ctx context.Context, sentenceID string, fallback SentenceFallback) error
}

// LessonRepository persists lessons and their questions.
type LessonRepository interface {
	SaveLesson(ctx context.Context, lesson *entity.Lesson) (*entity.Lesson, error)
	GetLesson(ctx context.Context, id string) (*entity.Lesson, error)
}

// ProgressRepository records media progress per user.
type ProgressRepository interface {
	// UpsertProgress inserts or refreshes the (UserID, MediaID) row.
	UpsertProgress(ctx context.Context, progress *entity.MediaProgress) error
	GetProgress(ctx context.Context, userID int64, mediaID string) (*entity.MediaProgress, error)
}
