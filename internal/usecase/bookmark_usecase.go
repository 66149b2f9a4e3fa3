package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

// ToggleResult reports what a toggle did. Bookmark is the created bookmark,
// or the one that was deleted.
type ToggleResult[B any] struct {
	Created  bool
	Bookmark B
}

// BookmarkUsecase implements the list/create/delete/toggle protocol for the
// four bookmark kinds.
type BookmarkUsecase interface {
	ListQuestionBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.QuestionBookmark, int64, error)
	CreateQuestionBookmark(ctx context.Context, bookmark *entity.QuestionBookmark) (*entity.QuestionBookmark, error)
	DeleteQuestionBookmark(ctx context.Context, userID int64, id string) error
	ToggleQuestionBookmark(ctx context.Context, bookmark *entity.QuestionBookmark) (*ToggleResult[entity.QuestionBookmark], error)

	ListSubtitleBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.SubtitleBookmark, int64, error)
	CreateSubtitleBookmark(ctx context.Context, bookmark *entity.SubtitleBookmark) (*entity.SubtitleBookmark, error)
	DeleteSubtitleBookmark(ctx context.Context, userID int64, id string) error
	ToggleSubtitleBookmark(ctx context.Context, bookmark *entity.SubtitleBookmark) (*ToggleResult[entity.SubtitleBookmark], error)

	ListLyricBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.LyricBookmark, int64, error)
	CreateLyricBookmark(ctx context.Context, bookmark *entity.LyricBookmark) (*entity.LyricBookmark, error)
	DeleteLyricBookmark(ctx context.Context, userID int64, id string) error
	ToggleLyricBookmark(ctx context.Context, bookmark *entity.LyricBookmark) (*ToggleResult[entity.LyricBookmark], error)

	ListReadingBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.ReadingBookmark, int64, error)
	CreateReadingBookmark(ctx context.Context, bookmark *entity.ReadingBookmark) (*entity.ReadingBookmark, error)
	DeleteReadingBookmark(ctx context.Context, userID int64, id string) error
	ToggleReadingBookmark(ctx context.Context, bookmark *entity.ReadingBookmark) (*ToggleResult[entity.ReadingBookmark], error)
}

// BookmarkRepositories groups the per-kind stores.
type BookmarkRepositories struct {
	Questions repository.QuestionBookmarkRepository
	Subtitles repository.SubtitleBookmarkRepository
	Lyrics    repository.LyricBookmarkRepository
	Readings  repository.ReadingBookmarkRepository
}

// NewBookmarkUsecase wires the bookmark stores with the content and lesson
// repositories used for snapshots and enrichment.
func NewBookmarkUsecase(repos BookmarkRepositories, content repository.ContentRepository, lessons repository.LessonRepository, logger logrus.FieldLogger) BookmarkUsecase {
	return &bookmarkUsecase{
		repos:   repos,
		content: content,
		lessons: lessons,
		logger:  logger,
		clock:   time.Now,
		newID:   uuid.NewString,
	}
}

type bookmarkUsecase struct {
	repos   BookmarkRepositories
	content repository.ContentRepository
	lessons repository.LessonRepository
	logger  logrus.FieldLogger
	clock   func() time.Time
	newID   func() string
}

func checkListQuery(query *repository.ListBookmarkQuery) error {
	if query == nil {
		return fmt.Errorf("list query required")
	}
	if query.UserID <= 0 {
		return entity.ErrInvalidUserID
	}
	return nil
}

func checkDelete(userID int64, id string) error {
	if userID <= 0 {
		return entity.ErrInvalidUserID
	}
	if strings.TrimSpace(id) == "" {
		return entity.ErrBookmarkNotFound
	}
	return nil
}

func checkOwner(userID int64, lang entity.Language) (entity.Language, error) {
	if userID <= 0 {
		return "", entity.ErrInvalidUserID
	}
	parsed := entity.ParseLanguage(string(lang))
	if parsed == entity.LanguageUnspecified {
		return "", fmt.Errorf("%w: unsupported language %q", entity.ErrInvalidBookmark, lang)
	}
	return parsed, nil
}

// scopeQuery lists every bookmark of a user in one language and scope; the
// matchers run over the result.
func scopeQuery(userID int64, lang entity.Language, scope string) *repository.ListBookmarkQuery {
	return &repository.ListBookmarkQuery{UserID: userID, Language: lang, Scope: scope}
}

// Question bookmarks.

func (u *bookmarkUsecase) ListQuestionBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.QuestionBookmark, int64, error) {
	if err := checkListQuery(query); err != nil {
		return nil, 0, err
	}
	return u.repos.Questions.List(ctx, query)
}

func (u *bookmarkUsecase) CreateQuestionBookmark(ctx context.Context, bookmark *entity.QuestionBookmark) (*entity.QuestionBookmark, error) {
	b, err := u.prepareQuestion(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	return u.repos.Questions.Create(ctx, b)
}

func (u *bookmarkUsecase) prepareQuestion(ctx context.Context, bookmark *entity.QuestionBookmark) (*entity.QuestionBookmark, error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	b := *bookmark
	lang, err := checkOwner(b.UserID, b.Language)
	if err != nil {
		return nil, err
	}
	b.Language = lang
	b.LessonID = strings.TrimSpace(b.LessonID)
	b.QuestionID = strings.TrimSpace(b.QuestionID)
	if b.LessonID == "" || b.QuestionID == "" {
		return nil, fmt.Errorf("%w: lesson and question ids are required", entity.ErrInvalidBookmark)
	}
	if strings.TrimSpace(b.Prompt) == "" && u.lessons != nil {
		lesson, err := u.lessons.GetLesson(ctx, b.LessonID)
		if err != nil {
			return nil, err
		}
		q, ok := lesson.Question(b.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %q", entity.ErrInvalidBookmark, b.QuestionID)
		}
		b.Prompt = q.Prompt
		b.AudioURL = q.AudioURL
		if len(q.Answers) > 0 {
			b.Answer = q.Answers[0]
		}
	}
	b.ID = u.newID()
	b.CreatedAt = u.clock()
	return &b, nil
}

func (u *bookmarkUsecase) DeleteQuestionBookmark(ctx context.Context, userID int64, id string) error {
	if err := checkDelete(userID, id); err != nil {
		return err
	}
	return u.repos.Questions.Delete(ctx, userID, id)
}

func (u *bookmarkUsecase) ToggleQuestionBookmark(ctx context.Context, bookmark *entity.QuestionBookmark) (*ToggleResult[entity.QuestionBookmark], error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	lang, err := checkOwner(bookmark.UserID, bookmark.Language)
	if err != nil {
		return nil, err
	}
	lessonID := strings.TrimSpace(bookmark.LessonID)
	existing, _, err := u.repos.Questions.List(ctx, scopeQuery(bookmark.UserID, lang, lessonID))
	if err != nil {
		return nil, err
	}
	if match, ok := entity.FindQuestionBookmark(existing, lessonID, strings.TrimSpace(bookmark.QuestionID)); ok {
		if err := u.repos.Questions.Delete(ctx, bookmark.UserID, match.ID); err != nil {
			return nil, err
		}
		return &ToggleResult[entity.QuestionBookmark]{Bookmark: match}, nil
	}
	created, err := u.CreateQuestionBookmark(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	return &ToggleResult[entity.QuestionBookmark]{Created: true, Bookmark: *created}, nil
}

// Subtitle bookmarks.

func (u *bookmarkUsecase) ListSubtitleBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.SubtitleBookmark, int64, error) {
	if err := checkListQuery(query); err != nil {
		return nil, 0, err
	}
	return u.repos.Subtitles.List(ctx, query)
}

func (u *bookmarkUsecase) CreateSubtitleBookmark(ctx context.Context, bookmark *entity.SubtitleBookmark) (*entity.SubtitleBookmark, error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	b := *bookmark
	lang, err := checkOwner(b.UserID, b.Language)
	if err != nil {
		return nil, err
	}
	b.Language = lang
	sentences, err := u.prepareGroup(ctx, &b.SentenceGroup)
	if err != nil {
		return nil, err
	}
	b.ID = u.newID()
	b.CreatedAt = u.clock()

	created, err := u.repos.Subtitles.Create(ctx, &b)
	if err != nil {
		return nil, err
	}
	u.enrich(ctx, created.SentenceGroup, sentences)
	return created, nil
}

func (u *bookmarkUsecase) DeleteSubtitleBookmark(ctx context.Context, userID int64, id string) error {
	if err := checkDelete(userID, id); err != nil {
		return err
	}
	return u.repos.Subtitles.Delete(ctx, userID, id)
}

func (u *bookmarkUsecase) ToggleSubtitleBookmark(ctx context.Context, bookmark *entity.SubtitleBookmark) (*ToggleResult[entity.SubtitleBookmark], error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	lang, err := checkOwner(bookmark.UserID, bookmark.Language)
	if err != nil {
		return nil, err
	}
	group := bookmark.SentenceGroup
	group.Normalize()
	existing, _, err := u.repos.Subtitles.List(ctx, scopeQuery(bookmark.UserID, lang, group.MediaID))
	if err != nil {
		return nil, err
	}
	if match, ok := entity.FindSubtitleBookmark(existing, group.SentenceIDs); ok {
		if err := u.repos.Subtitles.Delete(ctx, bookmark.UserID, match.ID); err != nil {
			return nil, err
		}
		return &ToggleResult[entity.SubtitleBookmark]{Bookmark: match}, nil
	}
	created, err := u.CreateSubtitleBookmark(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	return &ToggleResult[entity.SubtitleBookmark]{Created: true, Bookmark: *created}, nil
}

// Lyric bookmarks.

func (u *bookmarkUsecase) ListLyricBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.LyricBookmark, int64, error) {
	if err := checkListQuery(query); err != nil {
		return nil, 0, err
	}
	return u.repos.Lyrics.List(ctx, query)
}

func (u *bookmarkUsecase) CreateLyricBookmark(ctx context.Context, bookmark *entity.LyricBookmark) (*entity.LyricBookmark, error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	b := *bookmark
	lang, err := checkOwner(b.UserID, b.Language)
	if err != nil {
		return nil, err
	}
	b.Language = lang
	sentences, err := u.prepareGroup(ctx, &b.SentenceGroup)
	if err != nil {
		return nil, err
	}
	b.ID = u.newID()
	b.CreatedAt = u.clock()

	created, err := u.repos.Lyrics.Create(ctx, &b)
	if err != nil {
		return nil, err
	}
	u.enrich(ctx, created.SentenceGroup, sentences)
	return created, nil
}

func (u *bookmarkUsecase) DeleteLyricBookmark(ctx context.Context, userID int64, id string) error {
	if err := checkDelete(userID, id); err != nil {
		return err
	}
	return u.repos.Lyrics.Delete(ctx, userID, id)
}

func (u *bookmarkUsecase) ToggleLyricBookmark(ctx context.Context, bookmark *entity.LyricBookmark) (*ToggleResult[entity.LyricBookmark], error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	lang, err := checkOwner(bookmark.UserID, bookmark.Language)
	if err != nil {
		return nil, err
	}
	group := bookmark.SentenceGroup
	group.Normalize()
	existing, _, err := u.repos.Lyrics.List(ctx, scopeQuery(bookmark.UserID, lang, group.MediaID))
	if err != nil {
		return nil, err
	}
	if match, ok := entity.FindLyricBookmark(existing, group.SentenceIDs); ok {
		if err := u.repos.Lyrics.Delete(ctx, bookmark.UserID, match.ID); err != nil {
			return nil, err
		}
		return &ToggleResult[entity.LyricBookmark]{Bookmark: match}, nil
	}
	created, err := u.CreateLyricBookmark(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	return &ToggleResult[entity.LyricBookmark]{Created: true, Bookmark: *created}, nil
}

// Reading bookmarks.

func (u *bookmarkUsecase) ListReadingBookmarks(ctx context.Context, query *repository.ListBookmarkQuery) ([]entity.ReadingBookmark, int64, error) {
	if err := checkListQuery(query); err != nil {
		return nil, 0, err
	}
	return u.repos.Readings.List(ctx, query)
}

func (u *bookmarkUsecase) CreateReadingBookmark(ctx context.Context, bookmark *entity.ReadingBookmark) (*entity.ReadingBookmark, error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	b := *bookmark
	lang, err := checkOwner(b.UserID, b.Language)
	if err != nil {
		return nil, err
	}
	b.Language = lang
	b.BookID = strings.TrimSpace(b.BookID)
	b.SentenceID = strings.TrimSpace(b.SentenceID)
	if b.BookID == "" || b.SentenceID == "" {
		return nil, fmt.Errorf("%w: book and sentence ids are required", entity.ErrInvalidBookmark)
	}
	b.ID = u.newID()
	b.CreatedAt = u.clock()
	return u.repos.Readings.Create(ctx, &b)
}

func (u *bookmarkUsecase) DeleteReadingBookmark(ctx context.Context, userID int64, id string) error {
	if err := checkDelete(userID, id); err != nil {
		return err
	}
	return u.repos.Readings.Delete(ctx, userID, id)
}

func (u *bookmarkUsecase) ToggleReadingBookmark(ctx context.Context, bookmark *entity.ReadingBookmark) (*ToggleResult[entity.ReadingBookmark], error) {
	if bookmark == nil {
		return nil, entity.ErrInvalidBookmark
	}
	lang, err := checkOwner(bookmark.UserID, bookmark.Language)
	if err != nil {
		return nil, err
	}
	bookID := strings.TrimSpace(bookmark.BookID)
	existing, _, err := u.repos.Readings.List(ctx, scopeQuery(bookmark.UserID, lang, bookID))
	if err != nil {
		return nil, err
	}
	if match, ok := entity.FindReadingBookmark(existing, bookID, strings.TrimSpace(bookmark.SentenceID), bookmark.SentenceText); ok {
		if err := u.repos.Readings.Delete(ctx, bookmark.UserID, match.ID); err != nil {
			return nil, err
		}
		return &ToggleResult[entity.ReadingBookmark]{Bookmark: match}, nil
	}
	created, err := u.CreateReadingBookmark(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	return &ToggleResult[entity.ReadingBookmark]{Created: true, Bookmark: *created}, nil
}

// prepareGroup validates a sentence group and fills snapshots the caller
// left out from stored content. The loaded sentences are returned for
// enrichment; a failed lookup only costs the snapshot fill.
func (u *bookmarkUsecase) prepareGroup(ctx context.Context, group *entity.SentenceGroup) (map[string]entity.Sentence, error) {
	group.Normalize()
	if group.MediaID == "" {
		return nil, fmt.Errorf("%w: media id is required", entity.ErrInvalidBookmark)
	}
	if len(group.SentenceIDs) == 0 {
		return nil, entity.ErrEmptySentenceSet
	}
	if group.End < group.Start {
		return nil, fmt.Errorf("%w: end before start", entity.ErrInvalidBookmark)
	}
	if u.content == nil {
		return nil, nil
	}

	sentences, err := u.content.GetSentences(ctx, group.SentenceIDs)
	if err != nil {
		u.logger.WithError(err).WithField("media_id", group.MediaID).Warn("load bookmarked sentences failed")
		return nil, nil
	}
	missing := lo.Filter(group.SentenceIDs, func(id string, _ int) bool {
		_, ok := group.Snapshot(id)
		return !ok
	})
	if len(missing) == 0 {
		return sentences, nil
	}
	media, err := u.content.GetMedia(ctx, group.MediaID)
	if err != nil {
		u.logger.WithError(err).WithField("media_id", group.MediaID).Warn("load bookmarked media failed")
		return sentences, nil
	}
	for _, id := range missing {
		if snap, ok := media.Tracks.SnapshotOf(id); ok {
			group.Sentences = append(group.Sentences, snap)
		}
	}
	return sentences, nil
}

// enrich writes the bookmark fallback text onto every referenced sentence
// that has none yet. The first bookmark carrying translation words wins;
// later ones leave the sentence alone. Failures are logged and do not
// affect the bookmark.
func (u *bookmarkUsecase) enrich(ctx context.Context, group entity.SentenceGroup, sentences map[string]entity.Sentence) {
	if u.content == nil {
		return
	}
	for _, id := range group.SentenceIDs {
		s, ok := sentences[id]
		if !ok || s.HasFallback() {
			continue
		}
		snap, ok := group.Snapshot(id)
		if !ok {
			continue
		}
		english, translit := snap.FallbackText()
		if english == "" {
			continue
		}
		err := u.content.SetSentenceFallback(ctx, id, repository.SentenceFallback{
			English:         english,
			Transliteration: translit,
		})
		if err != nil {
			u.logger.WithError(err).WithFields(logrus.Fields{
				"media_id":    group.MediaID,
				"sentence_id": id,
			}).Warn("sentence enrichment failed")
		}
	}
}
