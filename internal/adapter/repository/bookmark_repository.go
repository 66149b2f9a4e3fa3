package repository

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/infrastructure/database/types"
	"github.com/eslsoft/lingocast/internal/repository"
	"github.com/eslsoft/lingocast/pkg/filterexpr"
)

// bookmarkTable describes how one bookmark kind maps onto its table.
type bookmarkTable[B any] struct {
	name    string
	scope   string
	columns []string
	schema  filterexpr.ResourceSchema
	values  func(*B) []any
	scan    func(*sql.Rows) (B, error)
}

func (t bookmarkTable[B]) create(ctx context.Context, s store, b *B) (*B, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ins := s.b.Insert(t.name).Columns(t.columns...).Values(t.values(b)...)
	if _, err := exec(ctx, s.db, ins); err != nil {
		return nil, translateWriteError(err, entity.ErrDuplicateBookmark, "create "+t.name)
	}
	out := *b
	return &out, nil
}

func (t bookmarkTable[B]) list(ctx context.Context, s store, query *repository.ListBookmarkQuery) ([]B, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	fixed := []*entsql.Predicate{entsql.EQ("user_id", query.UserID)}
	if query.Language != "" {
		fixed = append(fixed, entsql.EQ("language", string(query.Language)))
	}
	if query.Scope != "" {
		fixed = append(fixed, entsql.EQ(t.scope, query.Scope))
	}
	list, err := compileList(t.name, &query.FilterOrder, t.schema, fixed...)
	if err != nil {
		return nil, 0, err
	}

	total, err := list.count(ctx, s)
	if err != nil {
		return nil, 0, err
	}
	stmt, args := list.selector(s, query.Pagination, t.columns...).Query()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	items := []B{}
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.name, err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (t bookmarkTable[B]) delete(ctx context.Context, s store, userID int64, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	del := s.b.Delete(t.name).Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", userID)))
	res, err := exec(ctx, s.db, del)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrBookmarkNotFound
	}
	return nil
}

var questionBookmarks = bookmarkTable[entity.QuestionBookmark]{
	name:    "question_bookmarks",
	scope:   "lesson_id",
	columns: []string{"id", "user_id", "lesson_id", "question_id", "language", "prompt", "answer", "audio_url", "created_at"},
	schema:  listQuestionBookmarksSchema,
	values: func(b *entity.QuestionBookmark) []any {
		return []any{b.ID, b.UserID, b.LessonID, b.QuestionID, string(b.Language), b.Prompt, b.Answer, b.AudioURL, utc(b.CreatedAt)}
	},
	scan: func(rows *sql.Rows) (entity.QuestionBookmark, error) {
		var b entity.QuestionBookmark
		var lang string
		err := rows.Scan(&b.ID, &b.UserID, &b.LessonID, &b.QuestionID, &lang, &b.Prompt, &b.Answer, &b.AudioURL, &b.CreatedAt)
		b.Language = entity.Language(lang)
		return b, err
	},
}

var sentenceGroupColumns = []string{"id", "user_id", "language", "media_id", "sentence_ids", "sentences", "audio_url", "start_time", "end_time", "created_at"}

func sentenceGroupValues(id string, userID int64, lang entity.Language, g entity.SentenceGroup, createdAt any) []any {
	return []any{id, userID, string(lang), g.MediaID, types.StringList(g.SentenceIDs), types.SentenceSnapshots(g.Sentences), g.AudioURL, g.Start, g.End, createdAt}
}

func scanSentenceGroup(rows *sql.Rows, id *string, userID *int64, lang *entity.Language, g *entity.SentenceGroup, createdAt any) error {
	var language string
	var ids types.StringList
	var snaps types.SentenceSnapshots
	if err := rows.Scan(id, userID, &language, &g.MediaID, &ids, &snaps, &g.AudioURL, &g.Start, &g.End, createdAt); err != nil {
		return err
	}
	*lang = entity.Language(language)
	g.SentenceIDs = []string(ids)
	g.Sentences = []entity.SentenceSnapshot(snaps)
	return nil
}

var subtitleBookmarks = bookmarkTable[entity.SubtitleBookmark]{
	name:    "subtitle_bookmarks",
	scope:   "media_id",
	columns: sentenceGroupColumns,
	schema:  listSentenceGroupBookmarksSchema,
	values: func(b *entity.SubtitleBookmark) []any {
		return sentenceGroupValues(b.ID, b.UserID, b.Language, b.SentenceGroup, utc(b.CreatedAt))
	},
	scan: func(rows *sql.Rows) (entity.SubtitleBookmark, error) {
		var b entity.SubtitleBookmark
		err := scanSentenceGroup(rows, &b.ID, &b.UserID, &b.Language, &b.SentenceGroup, &b.CreatedAt)
		return b, err
	},
}

var lyricBookmarks = bookmarkTable[entity.LyricBookmark]{
	name:    "lyric_bookmarks",
	scope:   "media_id",
	columns: sentenceGroupColumns,
	schema:  listSentenceGroupBookmarksSchema,
	values: func(b *entity.LyricBookmark) []any {
		return sentenceGroupValues(b.ID, b.UserID, b.Language, b.SentenceGroup, utc(b.CreatedAt))
	},
	scan: func(rows *sql.Rows) (entity.LyricBookmark, error) {
		var b entity.LyricBookmark
		err := scanSentenceGroup(rows, &b.ID, &b.UserID, &b.Language, &b.SentenceGroup, &b.CreatedAt)
		return b, err
	},
}

var readingBookmarks = bookmarkTable[entity.ReadingBookmark]{
	name:    "reading_bookmarks",
	scope:   "book_id",
	columns: []string{"id", "user_id", "book_id", "sentence_id", "sentence_text", "translation", "language", "created_at"},
	schema:  listReadingBookmarksSchema,
	values: func(b *entity.ReadingBookmark) []any {
		return []any{b.ID, b.UserID, b.BookID, b.SentenceID, b.SentenceText, b.Translation, string(b.Language), utc(b.CreatedAt)}
	},
	scan: func(rows *sql.Rows) (entity.ReadingBookmark, error) {
		var b entity.ReadingBookmark
		var lang string
		err := rows.Scan(&b.ID, &b.UserID, &b.BookID, &b.SentenceID, &b.SentenceText, &b.Translation, &lang, &b.CreatedAt)
		b.Language = entity.Language(lang)
		return b, err
	},
}

type questionBookmarkRepository struct{ store }

// NewQuestionBookmarkRepository constructs an SQL-backed question bookmark repository.
func NewQuestionBookmarkRepository(drv *entsql.Driver) repository.QuestionBookmarkRepository {
	return &questionBookmarkRepository{store: newStore(drv)}
}

func (r *questionBookmarkRepository) Create(ctx context.Context, b *entity.QuestionBookmark) (*entity.QuestionBookmark, error) {
	return questionBookmarks.create(ctx, r.store, b)
}

func (r *questionBookmarkRepository) List(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.QuestionBookmark, int64, error) {
	return questionBookmarks.list(ctx, r.store, query)
}

func (r *questionBookmarkRepository) Delete(ctx context.Context, userID int64, id string) error {
	return questionBookmarks.delete(ctx, r.store, userID, id)
}

type subtitleBookmarkRepository struct{ store }

// NewSubtitleBookmarkRepository constructs an SQL-backed subtitle bookmark repository.
func NewSubtitleBookmarkRepository(drv *entsql.Driver) repository.SubtitleBookmarkRepository {
	return &subtitleBookmarkRepository{store: newStore(drv)}
}

func (r *subtitleBookmarkRepository) Create(ctx context.Context, b *entity.SubtitleBookmark) (*entity.SubtitleBookmark, error) {
	return subtitleBookmarks.create(ctx, r.store, b)
}

func (r *subtitleBookmarkRepository) List(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.SubtitleBookmark, int64, error) {
	return subtitleBookmarks.list(ctx, r.store, query)
}

func (r *subtitleBookmarkRepository) Delete(ctx context.Context, userID int64, id string) error {
	return subtitleBookmarks.delete(ctx, r.store, userID, id)
}

type lyricBookmarkRepository struct{ store }

// NewLyricBookmarkRepository constructs an SQL-backed lyric bookmark repository.
func NewLyricBookmarkRepository(drv *entsql.Driver) repository.LyricBookmarkRepository {
	return &lyricBookmarkRepository{store: newStore(drv)}
}

func (r *lyricBookmarkRepository) Create(ctx context.Context, b *entity.LyricBookmark) (*entity.LyricBookmark, error) {
	return lyricBookmarks.create(ctx, r.store, b)
}

func (r *lyricBookmarkRepository) List(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.LyricBookmark, int64, error) {
	return lyricBookmarks.list(ctx, r.store, query)
}

func (r *lyricBookmarkRepository) Delete(ctx context.Context, userID int64, id string) error {
	return lyricBookmarks.delete(ctx, r.store, userID, id)
}

type readingBookmarkRepository struct{ store }

// NewReadingBookmarkRepository constructs an SQL-backed reading bookmark repository.
func NewReadingBookmarkRepository(drv *entsql.Driver) repository.ReadingBookmarkRepository {
	return &readingBookmarkRepository{store: newStore(drv)}
}

func (r *readingBookmarkRepository) Create(ctx context.Context, b *entity.ReadingBookmark) (*entity.ReadingBookmark, error) {
	return readingBookmarks.create(ctx, r.store, b)
}

func (r *readingBookmarkRepository) List(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.ReadingBookmark, int64, error) {
	return readingBookmarks.list(ctx, r.store, query)
}

func (r *readingBookmarkRepository) Delete(ctx context.Context, userID int64, id string) error {
	return readingBookmarks.delete(ctx, r.store, userID, id)
}
