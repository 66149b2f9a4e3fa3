package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBookmarkUsecase(repos *fakeBookmarkRepos, content *fakeContentRepo, lessons *fakeLessonRepo) *bookmarkUsecase {
	uc := NewBookmarkUsecase(repos.repositories(), content, lessons, quietLogger()).(*bookmarkUsecase)
	uc.clock = fixedClock()
	uc.newID = sequentialIDs("bm-")
	return uc
}

func seedSong(t *testing.T, content *fakeContentRepo) {
	t.Helper()
	_, err := content.SaveMedia(context.Background(), &entity.MediaItem{
		ID:       "song-1",
		Kind:     entity.MediaKindSong,
		Title:    "Song",
		Language: entity.LanguageJapanese,
		Tracks: entity.Tracks{
			Original: []entity.Sentence{
				{ID: "x", AlignmentGroup: 1, Text: "さくら", Start: 0, End: 2, Words: []entity.Word{{Text: "さくら", Start: 0, End: 2, Transliteration: "sakura"}}},
				{ID: "y", AlignmentGroup: 2, Text: "はな", Start: 2, End: 4, Words: []entity.Word{{Text: "はな", Start: 2, End: 4}}},
				{ID: "z", AlignmentGroup: 3, Text: "そら", Start: 4, End: 6},
			},
			Translation: []entity.Sentence{
				{ID: "tx", AlignmentGroup: 1, Text: "cherry blossom", Start: 0, End: 2, Words: []entity.Word{
					{Text: "cherry", Start: 0, End: 1, Order: 1},
					{Text: "blossom", Start: 1, End: 2, Order: 2},
				}},
				{ID: "tz", AlignmentGroup: 3, Text: "sky", Start: 4, End: 6},
			},
			Transliteration: []entity.Sentence{
				{ID: "rz", AlignmentGroup: 3, Text: "sora", Start: 4, End: 6},
			},
		},
	})
	if err != nil {
		t.Fatalf("seed song: %v", err)
	}
}

func TestToggleQuestionBookmarkCreateDeleteCreate(t *testing.T) {
	repos := newFakeBookmarkRepos()
	lessons := newFakeLessonRepo(entity.Lesson{
		ID:       "L1",
		Title:    "Basics",
		Language: entity.LanguageSpanish,
		Questions: []entity.Question{
			{ID: "Q1", Prompt: "cat", Answers: []string{"gato"}, AudioURL: "q1.mp3"},
		},
	})
	uc := newTestBookmarkUsecase(repos, newFakeContentRepo(), lessons)
	ctx := context.Background()
	req := &entity.QuestionBookmark{UserID: 9, LessonID: "L1", QuestionID: "Q1", Language: "es"}

	first, err := uc.ToggleQuestionBookmark(ctx, req)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Created || first.Bookmark.ID != "bm-1" {
		t.Fatalf("expected creation with bm-1, got %+v", first)
	}
	if first.Bookmark.Prompt != "cat" || first.Bookmark.Answer != "gato" || first.Bookmark.AudioURL != "q1.mp3" {
		t.Fatalf("expected snapshot from lesson, got %+v", first.Bookmark)
	}

	second, err := uc.ToggleQuestionBookmark(ctx, req)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Created || second.Bookmark.ID != "bm-1" {
		t.Fatalf("expected deletion of bm-1, got %+v", second)
	}
	if repos.questions.len() != 0 {
		t.Fatalf("expected no bookmarks after delete")
	}

	third, err := uc.ToggleQuestionBookmark(ctx, req)
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if !third.Created || third.Bookmark.ID == first.Bookmark.ID {
		t.Fatalf("expected a fresh id on re-create, got %+v", third)
	}
}

func TestToggleSubtitleBookmarkUsesSupersetMatch(t *testing.T) {
	repos := newFakeBookmarkRepos()
	content := newFakeContentRepo()
	seedSong(t, content)
	uc := newTestBookmarkUsecase(repos, content, newFakeLessonRepo())
	ctx := context.Background()

	group := func(ids ...string) entity.SentenceGroup {
		return entity.SentenceGroup{MediaID: "song-1", SentenceIDs: ids}
	}
	res, err := uc.ToggleSubtitleBookmark(ctx, &entity.SubtitleBookmark{UserID: 1, Language: "ja", SentenceGroup: group("x", "y", "z")})
	if err != nil || !res.Created {
		t.Fatalf("expected creation, got %+v err=%v", res, err)
	}
	if len(res.Bookmark.Sentences) != 3 {
		t.Fatalf("expected snapshots filled from content, got %d", len(res.Bookmark.Sentences))
	}

	res, err = uc.ToggleSubtitleBookmark(ctx, &entity.SubtitleBookmark{UserID: 1, Language: "ja", SentenceGroup: group("x", "y", "w")})
	if err != nil || !res.Created {
		t.Fatalf("{x,y,w} is not covered and should create, got %+v err=%v", res, err)
	}

	res, err = uc.ToggleSubtitleBookmark(ctx, &entity.SubtitleBookmark{UserID: 1, Language: "ja", SentenceGroup: group("x", "y")})
	if err != nil || res.Created {
		t.Fatalf("{x,y} is covered and should delete, got %+v err=%v", res, err)
	}
	if repos.subtitles.len() != 1 {
		t.Fatalf("expected one bookmark left, got %d", repos.subtitles.len())
	}

	if _, err := uc.ToggleSubtitleBookmark(ctx, &entity.SubtitleBookmark{UserID: 1, Language: "ja", SentenceGroup: group()}); !errors.Is(err, entity.ErrEmptySentenceSet) {
		t.Fatalf("expected ErrEmptySentenceSet, got %v", err)
	}
}

func TestCreateLyricBookmarkEnrichmentIsFirstWriterWins(t *testing.T) {
	repos := newFakeBookmarkRepos()
	content := newFakeContentRepo()
	seedSong(t, content)
	uc := newTestBookmarkUsecase(repos, content, newFakeLessonRepo())
	ctx := context.Background()

	first := &entity.LyricBookmark{
		UserID:   1,
		Language: entity.LanguageJapanese,
		SentenceGroup: entity.SentenceGroup{
			MediaID:     "song-1",
			SentenceIDs: []string{"x"},
			Sentences: []entity.SentenceSnapshot{{
				SentenceID:   "x",
				Text:         "さくら",
				Words:        []entity.WordSnapshot{{Text: "さくら", Transliteration: "sakura"}},
				Translations: []entity.WordSnapshot{{Text: "cherry"}, {Text: "blossom"}},
			}},
		},
	}
	if _, err := uc.CreateLyricBookmark(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	got := content.fallbacks["x"]
	if got.English != "cherry blossom" || got.Transliteration != "sakura" {
		t.Fatalf("unexpected fallback %+v", got)
	}

	second := *first
	second.UserID = 2
	second.Sentences = []entity.SentenceSnapshot{{SentenceID: "x", Translations: []entity.WordSnapshot{{Text: "sakura tree"}}}}
	if _, err := uc.CreateLyricBookmark(ctx, &second); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if content.writes != 1 {
		t.Fatalf("expected a single enrichment write, got %d", content.writes)
	}
	if content.fallbacks["x"].English != "cherry blossom" {
		t.Fatalf("enrichment must not be overwritten, got %+v", content.fallbacks["x"])
	}
}

func TestCreateLyricBookmarkFillsSnapshotFromAlignedTracks(t *testing.T) {
	repos := newFakeBookmarkRepos()
	content := newFakeContentRepo()
	seedSong(t, content)
	uc := newTestBookmarkUsecase(repos, content, newFakeLessonRepo())
	ctx := context.Background()

	created, err := uc.CreateLyricBookmark(ctx, &entity.LyricBookmark{
		UserID:        1,
		Language:      entity.LanguageJapanese,
		SentenceGroup: entity.SentenceGroup{MediaID: "song-1", SentenceIDs: []string{"x", "y", "z"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	snap, ok := created.Snapshot("x")
	if !ok || len(snap.Translations) != 2 || snap.Translations[1].Text != "blossom" {
		t.Fatalf("expected translation words in snapshot, got %+v", created.Sentences)
	}
	if snap, _ := created.Snapshot("z"); snap.Transliteration != "sora" || len(snap.Translations) != 1 {
		t.Fatalf("expected aligned lines for z, got %+v", snap)
	}

	if got := content.fallbacks["x"]; got.English != "cherry blossom" || got.Transliteration != "sakura" {
		t.Fatalf("unexpected fallback for x: %+v", got)
	}
	if got := content.fallbacks["z"]; got.English != "sky" || got.Transliteration != "sora" {
		t.Fatalf("unexpected fallback for z: %+v", got)
	}
	// y has no translation line, so it stays open for a later bookmark.
	if _, ok := content.fallbacks["y"]; ok {
		t.Fatalf("y must not be enriched without english text")
	}

	_, err = uc.CreateLyricBookmark(ctx, &entity.LyricBookmark{
		UserID:   2,
		Language: entity.LanguageJapanese,
		SentenceGroup: entity.SentenceGroup{
			MediaID:     "song-1",
			SentenceIDs: []string{"y"},
			Sentences:   []entity.SentenceSnapshot{{SentenceID: "y", Translations: []entity.WordSnapshot{{Text: "flower"}}}},
		},
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if got := content.fallbacks["y"]; got.English != "flower" {
		t.Fatalf("expected y enriched by the first bookmark with english, got %+v", got)
	}
}

func TestEnrichmentFailureDoesNotFailCreate(t *testing.T) {
	repos := newFakeBookmarkRepos()
	content := newFakeContentRepo()
	seedSong(t, content)
	content.fallbackErr = errors.New("write failed")
	uc := newTestBookmarkUsecase(repos, content, newFakeLessonRepo())

	created, err := uc.CreateSubtitleBookmark(context.Background(), &entity.SubtitleBookmark{
		UserID:        3,
		Language:      entity.LanguageJapanese,
		SentenceGroup: entity.SentenceGroup{MediaID: "song-1", SentenceIDs: []string{"x"}},
	})
	if err != nil {
		t.Fatalf("create should succeed despite enrichment failure: %v", err)
	}
	if created.ID == "" || repos.subtitles.len() != 1 {
		t.Fatalf("expected bookmark persisted, got %+v", created)
	}
}

func TestToggleReadingBookmarkMatchesLegacyText(t *testing.T) {
	repos := newFakeBookmarkRepos()
	repos.readings.items = []entity.ReadingBookmark{{ID: "legacy", UserID: 4, BookID: "book", SentenceText: "Call me Ishmael.", Language: entity.LanguageEnglish}}
	uc := newTestBookmarkUsecase(repos, newFakeContentRepo(), newFakeLessonRepo())

	res, err := uc.ToggleReadingBookmark(context.Background(), &entity.ReadingBookmark{
		UserID: 4, BookID: "book", SentenceID: "s1", SentenceText: "Call me Ishmael.", Language: entity.LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.Created || res.Bookmark.ID != "legacy" {
		t.Fatalf("expected legacy bookmark removed, got %+v", res)
	}

	if _, err := uc.CreateReadingBookmark(context.Background(), &entity.ReadingBookmark{UserID: 4, BookID: "book", Language: "en"}); !errors.Is(err, entity.ErrInvalidBookmark) {
		t.Fatalf("expected ErrInvalidBookmark without sentence id, got %v", err)
	}
}

func TestBookmarkUsecaseValidatesCaller(t *testing.T) {
	uc := newTestBookmarkUsecase(newFakeBookmarkRepos(), newFakeContentRepo(), newFakeLessonRepo())
	ctx := context.Background()

	if _, _, err := uc.ListSubtitleBookmarks(ctx, &repository.ListBookmarkQuery{}); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if err := uc.DeleteLyricBookmark(ctx, 1, " "); !errors.Is(err, entity.ErrBookmarkNotFound) {
		t.Fatalf("expected ErrBookmarkNotFound, got %v", err)
	}
	if _, err := uc.CreateQuestionBookmark(ctx, &entity.QuestionBookmark{UserID: 1, LessonID: "L", QuestionID: "Q", Language: "xx"}); !errors.Is(err, entity.ErrInvalidBookmark) {
		t.Fatalf("expected ErrInvalidBookmark for unknown language, got %v", err)
	}
}
