package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

type fakeContentRepo struct {
	mu          sync.RWMutex
	items       map[string]*entity.MediaItem
	fallbacks   map[string]repository.SentenceFallback
	writes      int
	fallbackErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		items:     make(map[string]*entity.MediaItem),
		fallbacks: make(map[string]repository.SentenceFallback),
	}
}

func (r *fakeContentRepo) SaveMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *item
	r.items[item.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeContentRepo) GetMedia(ctx context.Context, id string) (*entity.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, entity.ErrMediaNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeContentRepo) ListMedia(ctx context.Context, query *repository.ListMediaQuery) ([]entity.MediaSummary, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.MediaSummary
	for _, item := range r.items {
		if query.Kind != "" && item.Kind != query.Kind {
			continue
		}
		out = append(out, entity.MediaSummary{ID: item.ID, Kind: item.Kind, Title: item.Title, Language: item.Language})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeContentRepo) GetSentences(ctx context.Context, ids []string) (map[string]entity.Sentence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]entity.Sentence)
	for _, item := range r.items {
		for _, kind := range entity.TrackKinds {
			for _, s := range item.Tracks.Track(kind) {
				for _, id := range ids {
					if s.ID != id {
						continue
					}
					if fb, ok := r.fallbacks[id]; ok {
						s.BookmarkedEnglish = fb.English
						s.BookmarkedTransliteration = fb.Transliteration
					}
					out[id] = s
				}
			}
		}
	}
	return out, nil
}

func (r *fakeContentRepo) SetSentenceFallback(ctx context.Context, sentenceID string, fallback repository.SentenceFallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallbackErr != nil {
		return r.fallbackErr
	}
	r.writes++
	r.fallbacks[sentenceID] = fallback
	return nil
}

type fakeLessonRepo struct {
	mu      sync.RWMutex
	lessons map[string]*entity.Lesson
}

func newFakeLessonRepo(lessons ...entity.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: make(map[string]*entity.Lesson)}
	for i := range lessons {
		l := lessons[i]
		r.lessons[l.ID] = &l
	}
	return r
}

func (r *fakeLessonRepo) SaveLesson(ctx context.Context, lesson *entity.Lesson) (*entity.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *lesson
	r.lessons[lesson.ID] = &copy
	return &copy, nil
}

func (r *fakeLessonRepo) GetLesson(ctx context.Context, id string) (*entity.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lessons[id]
	if !ok {
		return nil, entity.ErrLessonNotFound
	}
	copy := *l
	return &copy, nil
}

type fakeProgressRepo struct {
	mu   sync.Mutex
	rows map[string]entity.MediaProgress
	err  error
	seen chan struct{}
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[string]entity.MediaProgress), seen: make(chan struct{}, 16)}
}

func (r *fakeProgressRepo) UpsertProgress(ctx context.Context, p *entity.MediaProgress) error {
	defer func() { r.seen <- struct{}{} }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	key := p.MediaID
	if existing, ok := r.rows[key]; ok && existing.UserID == p.UserID {
		p.StartedAt = existing.StartedAt
	}
	r.rows[key] = *p
	return nil
}

func (r *fakeProgressRepo) GetProgress(ctx context.Context, userID int64, mediaID string) (*entity.MediaProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[mediaID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

// bookmarkStore is a generic in-memory bookmark table.
type bookmarkStore[B interface {
	GetID() string
}] struct {
	mu      sync.RWMutex
	items   []B
	userOf  func(B) int64
	scopeOf func(B) string
	failErr error
}

func (s *bookmarkStore[B]) Create(ctx context.Context, b *B) (*B, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	s.items = append(s.items, *b)
	out := *b
	return &out, nil
}

func (s *bookmarkStore[B]) List(ctx context.Context, query *repository.ListBookmarkQuery) ([]B, int64, error) {
	if query == nil {
		return nil, 0, errors.New("list query required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []B
	for _, b := range s.items {
		if s.userOf(b) != query.UserID {
			continue
		}
		if query.Scope != "" && s.scopeOf(b) != query.Scope {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (s *bookmarkStore[B]) Delete(ctx context.Context, userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.items {
		if b.GetID() == id && s.userOf(b) == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return entity.ErrBookmarkNotFound
}

func (s *bookmarkStore[B]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

type fakeBookmarkRepos struct {
	questions *bookmarkStore[entity.QuestionBookmark]
	subtitles *bookmarkStore[entity.SubtitleBookmark]
	lyrics    *bookmarkStore[entity.LyricBookmark]
	readings  *bookmarkStore[entity.ReadingBookmark]
}

func newFakeBookmarkRepos() *fakeBookmarkRepos {
	return &fakeBookmarkRepos{
		questions: &bookmarkStore[entity.QuestionBookmark]{
			userOf:  func(b entity.QuestionBookmark) int64 { return b.UserID },
			scopeOf: func(b entity.QuestionBookmark) string { return b.LessonID },
		},
		subtitles: &bookmarkStore[entity.SubtitleBookmark]{
			userOf:  func(b entity.SubtitleBookmark) int64 { return b.UserID },
			scopeOf: func(b entity.SubtitleBookmark) string { return b.MediaID },
		},
		lyrics: &bookmarkStore[entity.LyricBookmark]{
			userOf:  func(b entity.LyricBookmark) int64 { return b.UserID },
			scopeOf: func(b entity.LyricBookmark) string { return b.MediaID },
		},
		readings: &bookmarkStore[entity.ReadingBookmark]{
			userOf:  func(b entity.ReadingBookmark) int64 { return b.UserID },
			scopeOf: func(b entity.ReadingBookmark) string { return b.BookID },
		},
	}
}

func (f *fakeBookmarkRepos) repositories() BookmarkRepositories {
	return BookmarkRepositories{
		Questions: f.questions,
		Subtitles: f.subtitles,
		Lyrics:    f.lyrics,
		Readings:  f.readings,
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}
