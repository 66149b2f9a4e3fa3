package repository

import (
	"context"

	"github.com/eslsoft/lingocast/internal/entity"
)

// ListBookmarkQuery holds parameters shared by every bookmark listing.
// Scope narrows the listing to one lesson, media item or book depending on
// the bookmark kind; empty means all.
type ListBookmarkQuery struct {
	Pagination
	FilterOrder

	UserID   int64
	Language entity.Language
	Scope    string
}

// QuestionBookmarkRepository persists question bookmarks.
type QuestionBookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.QuestionBookmark) (*entity.QuestionBookmark, error)
	List(ctx context.Context, query *ListBookmarkQuery) ([]entity.QuestionBookmark, int64, error)
	Delete(ctx context.Context, userID int64, id string) error
}

// SubtitleBookmarkRepository persists subtitle bookmarks.
type SubtitleBookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.SubtitleBookmark) (*entity.SubtitleBookmark, error)
	List(ctx context.Context, query *ListBookmarkQuery) ([]entity.SubtitleBookmark, int64, error)
	Delete(ctx context.Context, userID int64, id string) error
}

// LyricBookmarkRepository persists lyric bookmarks.
type LyricBookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.LyricBookmark) (*entity.LyricBookmark, error)
	List(ctx context.Context, query *ListBookmarkQuery) ([]entity.LyricBookmark, int64, error)
	Delete(ctx context.Context, userID int64, id string) error
}

// ReadingBookmarkRepository persists reading bookmarks.
type ReadingBookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.ReadingBookmark) (*entity.ReadingBookmark, error)
	List(ctx context.Context, query *ListBookmarkQuery) ([]entity.ReadingBookmark, int64, error)
	Delete(ctx context.Context, userID int64, id string) error
}
