package connectrpc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"connectrpc.com/connect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/adapter/repository"
	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/internal/usecase"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

type testEnv struct {
	content   *contentv1.ContentServiceClient
	bookmarks *bookmarkv1.BookmarkServiceClient
	lessons   *lessonv1.LessonServiceClient
	lessonUC  usecase.LessonUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	drv := entsql.OpenDB("sqlite3", db)
	if err := database.Migrate(context.Background(), drv); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	contentRepo := repository.NewContentRepository(drv)
	lessonRepo := repository.NewLessonRepository(drv)
	progress := usecase.NewProgressUsecase(repository.NewProgressRepository(drv), usecase.ProgressOptions{Workers: 1, QueueSize: 8}, logger)
	t.Cleanup(progress.Close)

	contentUC := usecase.NewContentUsecase(contentRepo, progress)
	lessonUC := usecase.NewLessonUsecase(lessonRepo)
	bookmarkUC := usecase.NewBookmarkUsecase(usecase.BookmarkRepositories{
		Questions: repository.NewQuestionBookmarkRepository(drv),
		Subtitles: repository.NewSubtitleBookmarkRepository(drv),
		Lyrics:    repository.NewLyricBookmarkRepository(drv),
		Readings:  repository.NewReadingBookmarkRepository(drv),
	}, contentRepo, lessonRepo, logger)

	mux := http.NewServeMux()
	mux.Handle(contentv1.NewContentServiceHandler(NewContentServiceServer(contentUC)))
	mux.Handle(bookmarkv1.NewBookmarkServiceHandler(NewBookmarkServiceServer(bookmarkUC)))
	mux.Handle(lessonv1.NewLessonServiceHandler(NewLessonServiceServer(lessonUC)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{
		content:   contentv1.NewContentServiceClient(srv.Client(), srv.URL),
		bookmarks: bookmarkv1.NewBookmarkServiceClient(srv.Client(), srv.URL),
		lessons:   lessonv1.NewLessonServiceClient(srv.Client(), srv.URL),
		lessonUC:  lessonUC,
	}
}

func asUser[T any](msg *T, userID int64) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if userID > 0 {
		req.Header().Set(HeaderUserID, strconv.FormatInt(userID, 10))
	}
	return req
}

func greetingMedia() *contentv1.MediaItem {
	return &contentv1.MediaItem{
		ID:       "m1",
		Kind:     "audio_lesson",
		Title:    "Greetings",
		Language: "en",
		Tracks: &contentv1.Tracks{
			Original: []*contentv1.Sentence{{
				ID: "s1", Text: "hi there", Start: 2, End: 5,
				Words: []*contentv1.Word{
					{Text: "hi", Start: 2, End: 3, Order: 1},
					{Text: "there", Start: 3, End: 5, Order: 2},
				},
			}},
			Translation: []*contentv1.Sentence{{ID: "t1", Text: "hola", Start: 2, End: 5}},
		},
	}
}

func TestContentServiceResolvesPosition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.content.ImportMedia(ctx, connect.NewRequest(&contentv1.ImportMediaRequest{Item: greetingMedia()})); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := env.content.GetMedia(ctx, asUser(&commonv1.IDRequest{ID: "m1"}, 7))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Msg.Tracks.Original) != 1 || len(got.Msg.Tracks.Original[0].Words) != 2 {
		t.Fatalf("unexpected media: %+v", got.Msg.Tracks)
	}

	cases := []struct {
		at   float64
		text string
		word string
	}{
		{at: 2.5, text: "hi there", word: "hi"},
		{at: 4.9, text: "hi there", word: "there"},
		{at: 5.0, text: "(The Original Sentence)"},
	}
	for _, tc := range cases {
		res, err := env.content.ResolvePosition(ctx, connect.NewRequest(&contentv1.ResolvePositionRequest{MediaID: "m1", At: tc.at}))
		if err != nil {
			t.Fatalf("resolve %.1f: %v", tc.at, err)
		}
		if res.Msg.Original.Text != tc.text || res.Msg.Original.Word != tc.word {
			t.Errorf("at %.1f: got %q/%q, want %q/%q", tc.at, res.Msg.Original.Text, res.Msg.Original.Word, tc.text, tc.word)
		}
	}

	_, err = env.content.GetMedia(ctx, connect.NewRequest(&commonv1.IDRequest{ID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}

	bad := greetingMedia()
	bad.Tracks.Original[0].Words[1].End = 7
	_, err = env.content.ImportMedia(ctx, connect.NewRequest(&contentv1.ImportMediaRequest{Item: bad}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected invalid_argument for escaping word, got %v", err)
	}

	list, err := env.content.ListMedia(ctx, connect.NewRequest(&contentv1.ListMediaRequest{Kind: "audio_lesson"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Msg.Pagination.Total != 1 || list.Msg.Items[0].SentenceCount != 1 {
		t.Fatalf("unexpected list: %+v", list.Msg)
	}
}

func TestBookmarkServiceToggle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	if _, err := env.content.ImportMedia(ctx, connect.NewRequest(&contentv1.ImportMediaRequest{Item: greetingMedia()})); err != nil {
		t.Fatalf("import: %v", err)
	}

	group := &bookmarkv1.SentenceGroupBookmark{Language: "en", MediaID: "m1", SentenceIDs: []string{"s1"}, Start: 2, End: 5}
	first, err := env.bookmarks.Subtitles.Toggle(ctx, asUser(&bookmarkv1.SentenceGroupBookmarkRequest{Bookmark: group}, 7))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !first.Msg.Created || first.Msg.Bookmark.ID == "" {
		t.Fatalf("expected create, got %+v", first.Msg)
	}
	if snaps := first.Msg.Bookmark.Sentences; len(snaps) != 1 || snaps[0].Text != "hi there" {
		t.Fatalf("expected snapshot filled from content, got %+v", snaps)
	}

	list, err := env.bookmarks.Subtitles.List(ctx, asUser(&bookmarkv1.ListBookmarksRequest{Scope: "m1"}, 7))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Msg.Bookmarks) != 1 {
		t.Fatalf("expected one bookmark, got %d", len(list.Msg.Bookmarks))
	}

	second, err := env.bookmarks.Subtitles.Toggle(ctx, asUser(&bookmarkv1.SentenceGroupBookmarkRequest{Bookmark: group}, 7))
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if second.Msg.Created || second.Msg.Bookmark.ID != first.Msg.Bookmark.ID {
		t.Fatalf("expected delete of %s, got %+v", first.Msg.Bookmark.ID, second.Msg)
	}

	_, err = env.bookmarks.Subtitles.Create(ctx, asUser(&bookmarkv1.SentenceGroupBookmarkRequest{
		Bookmark: &bookmarkv1.SentenceGroupBookmark{Language: "en", MediaID: "m1"},
	}, 7))
	if connect.CodeOf(err) != connect.CodeInvalidArgument || !errors.Is(mapping.FromConnectError(err), entity.ErrEmptySentenceSet) {
		t.Fatalf("expected empty sentence set error, got %v", err)
	}
}

func TestBookmarkServiceErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.bookmarks.Questions.List(ctx, connect.NewRequest(&bookmarkv1.ListBookmarksRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated without user header, got %v", err)
	}

	q := &bookmarkv1.QuestionBookmark{LessonID: "l1", QuestionID: "q1", Language: "en", Prompt: "hi", Answer: "hello"}
	if _, err := env.bookmarks.Questions.Create(ctx, asUser(&bookmarkv1.QuestionBookmarkRequest{Bookmark: q}, 7)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = env.bookmarks.Questions.Create(ctx, asUser(&bookmarkv1.QuestionBookmarkRequest{Bookmark: q}, 7))
	if connect.CodeOf(err) != connect.CodeAlreadyExists || !errors.Is(mapping.FromConnectError(err), entity.ErrDuplicateBookmark) {
		t.Fatalf("expected already_exists, got %v", err)
	}

	_, err = env.bookmarks.Questions.Delete(ctx, asUser(&commonv1.IDRequest{ID: "nope"}, 7))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}

	_, err = env.bookmarks.Questions.List(ctx, asUser(&bookmarkv1.ListBookmarksRequest{Filter: "answer == 'x'"}, 7))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected invalid_argument for unknown filter field, got %v", err)
	}
}

func TestLessonServiceSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.lessonUC.ImportLesson(ctx, &entity.Lesson{
		ID: "l1", Title: "Greetings", Language: entity.LanguageEnglish,
		Questions: []entity.Question{
			{ID: "q1", Prompt: "hola", Answers: []string{"hello"}},
			{ID: "q2", Prompt: "adios", Answers: []string{"bye"}},
		},
	})
	if err != nil {
		t.Fatalf("import lesson: %v", err)
	}

	lesson, err := env.lessons.GetLesson(ctx, connect.NewRequest(&commonv1.IDRequest{ID: "l1"}))
	if err != nil || len(lesson.Msg.Questions) != 2 {
		t.Fatalf("get lesson: %+v %v", lesson, err)
	}

	started, err := env.lessons.StartSession(ctx, asUser(&lessonv1.StartSessionRequest{LessonID: "l1"}, 7))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	sid := started.Msg.ID

	answers := []struct {
		answer  string
		correct bool
	}{
		{"hello", true},
		{"nope", false},
		{"Bye ", true},
	}
	for _, a := range answers {
		res, err := env.lessons.SubmitAnswer(ctx, asUser(&lessonv1.SubmitAnswerRequest{SessionID: sid, Answer: a.answer}, 7))
		if err != nil {
			t.Fatalf("submit %q: %v", a.answer, err)
		}
		if res.Msg.Correct != a.correct {
			t.Fatalf("submit %q: correct=%v", a.answer, res.Msg.Correct)
		}
		if _, err := env.lessons.Advance(ctx, asUser(&lessonv1.SessionRequest{SessionID: sid}, 7)); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	_, err = env.lessons.SubmitAnswer(ctx, asUser(&lessonv1.SubmitAnswerRequest{SessionID: sid, Answer: "x"}, 7))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("expected failed_precondition after completion, got %v", err)
	}
	_, err = env.lessons.Advance(ctx, asUser(&lessonv1.SessionRequest{SessionID: sid}, 8))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected another user's session to be hidden, got %v", err)
	}
}
