package bookmarkv1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/pkg/api"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

type (
	QuestionBookmarkRequest      = BookmarkRequest[QuestionBookmark]
	SentenceGroupBookmarkRequest = BookmarkRequest[SentenceGroupBookmark]
	ReadingBookmarkRequest       = BookmarkRequest[ReadingBookmark]

	ToggleQuestionBookmarkResponse = ToggleBookmarkResponse[QuestionBookmark]
	ToggleSubtitleBookmarkResponse = ToggleBookmarkResponse[SentenceGroupBookmark]
	ToggleLyricBookmarkResponse    = ToggleBookmarkResponse[SentenceGroupBookmark]
	ToggleReadingBookmarkResponse  = ToggleBookmarkResponse[ReadingBookmark]
)

// BookmarkServiceHandler is implemented by the bookmark service server.
type BookmarkServiceHandler interface {
	ListQuestionBookmarks(context.Context, *connect.Request[ListBookmarksRequest]) (*connect.Response[ListQuestionBookmarksResponse], error)
	CreateQuestionBookmark(context.Context, *connect.Request[QuestionBookmarkRequest]) (*connect.Response[QuestionBookmark], error)
	DeleteQuestionBookmark(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error)
	ToggleQuestionBookmark(context.Context, *connect.Request[QuestionBookmarkRequest]) (*connect.Response[ToggleQuestionBookmarkResponse], error)

	ListSubtitleBookmarks(context.Context, *connect.Request[ListBookmarksRequest]) (*connect.Response[ListSubtitleBookmarksResponse], error)
	CreateSubtitleBookmark(context.Context, *connect.Request[SentenceGroupBookmarkRequest]) (*connect.Response[SentenceGroupBookmark], error)
	DeleteSubtitleBookmark(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error)
	ToggleSubtitleBookmark(context.Context, *connect.Request[SentenceGroupBookmarkRequest]) (*connect.Response[ToggleSubtitleBookmarkResponse], error)

	ListLyricBookmarks(context.Context, *connect.Request[ListBookmarksRequest]) (*connect.Response[ListLyricBookmarksResponse], error)
	CreateLyricBookmark(context.Context, *connect.Request[SentenceGroupBookmarkRequest]) (*connect.Response[SentenceGroupBookmark], error)
	DeleteLyricBookmark(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error)
	ToggleLyricBookmark(context.Context, *connect.Request[SentenceGroupBookmarkRequest]) (*connect.Response[ToggleLyricBookmarkResponse], error)

	ListReadingBookmarks(context.Context, *connect.Request[ListBookmarksRequest]) (*connect.Response[ListReadingBookmarksResponse], error)
	CreateReadingBookmark(context.Context, *connect.Request[ReadingBookmarkRequest]) (*connect.Response[ReadingBookmark], error)
	DeleteReadingBookmark(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error)
	ToggleReadingBookmark(context.Context, *connect.Request[ReadingBookmarkRequest]) (*connect.Response[ToggleReadingBookmarkResponse], error)
}

// NewBookmarkServiceHandler builds an HTTP handler serving every bookmark
// procedure. It returns the path to mount the handler on.
func NewBookmarkServiceHandler(svc BookmarkServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = api.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(BookmarkServiceListQuestionBookmarksProcedure, connect.NewUnaryHandler(BookmarkServiceListQuestionBookmarksProcedure, svc.ListQuestionBookmarks, opts...))
	mux.Handle(BookmarkServiceCreateQuestionBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceCreateQuestionBookmarkProcedure, svc.CreateQuestionBookmark, opts...))
	mux.Handle(BookmarkServiceDeleteQuestionBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceDeleteQuestionBookmarkProcedure, svc.DeleteQuestionBookmark, opts...))
	mux.Handle(BookmarkServiceToggleQuestionBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceToggleQuestionBookmarkProcedure, svc.ToggleQuestionBookmark, opts...))

	mux.Handle(BookmarkServiceListSubtitleBookmarksProcedure, connect.NewUnaryHandler(BookmarkServiceListSubtitleBookmarksProcedure, svc.ListSubtitleBookmarks, opts...))
	mux.Handle(BookmarkServiceCreateSubtitleBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceCreateSubtitleBookmarkProcedure, svc.CreateSubtitleBookmark, opts...))
	mux.Handle(BookmarkServiceDeleteSubtitleBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceDeleteSubtitleBookmarkProcedure, svc.DeleteSubtitleBookmark, opts...))
	mux.Handle(BookmarkServiceToggleSubtitleBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceToggleSubtitleBookmarkProcedure, svc.ToggleSubtitleBookmark, opts...))

	mux.Handle(BookmarkServiceListLyricBookmarksProcedure, connect.NewUnaryHandler(BookmarkServiceListLyricBookmarksProcedure, svc.ListLyricBookmarks, opts...))
	mux.Handle(BookmarkServiceCreateLyricBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceCreateLyricBookmarkProcedure, svc.CreateLyricBookmark, opts...))
	mux.Handle(BookmarkServiceDeleteLyricBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceDeleteLyricBookmarkProcedure, svc.DeleteLyricBookmark, opts...))
	mux.Handle(BookmarkServiceToggleLyricBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceToggleLyricBookmarkProcedure, svc.ToggleLyricBookmark, opts...))

	mux.Handle(BookmarkServiceListReadingBookmarksProcedure, connect.NewUnaryHandler(BookmarkServiceListReadingBookmarksProcedure, svc.ListReadingBookmarks, opts...))
	mux.Handle(BookmarkServiceCreateReadingBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceCreateReadingBookmarkProcedure, svc.CreateReadingBookmark, opts...))
	mux.Handle(BookmarkServiceDeleteReadingBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceDeleteReadingBookmarkProcedure, svc.DeleteReadingBookmark, opts...))
	mux.Handle(BookmarkServiceToggleReadingBookmarkProcedure, connect.NewUnaryHandler(BookmarkServiceToggleReadingBookmarkProcedure, svc.ToggleReadingBookmark, opts...))
	return "/" + BookmarkServiceName + "/", mux
}

// KindClient calls the four procedures of one bookmark kind.
type KindClient[B any] struct {
	list   *connect.Client[ListBookmarksRequest, ListBookmarksResponse[B]]
	create *connect.Client[BookmarkRequest[B], B]
	delete *connect.Client[commonv1.IDRequest, commonv1.Empty]
	toggle *connect.Client[BookmarkRequest[B], ToggleBookmarkResponse[B]]
}

func newKindClient[B any](httpClient connect.HTTPClient, baseURL, list, create, del, toggle string, opts []connect.ClientOption) *KindClient[B] {
	return &KindClient[B]{
		list:   connect.NewClient[ListBookmarksRequest, ListBookmarksResponse[B]](httpClient, baseURL+list, opts...),
		create: connect.NewClient[BookmarkRequest[B], B](httpClient, baseURL+create, opts...),
		delete: connect.NewClient[commonv1.IDRequest, commonv1.Empty](httpClient, baseURL+del, opts...),
		toggle: connect.NewClient[BookmarkRequest[B], ToggleBookmarkResponse[B]](httpClient, baseURL+toggle, opts...),
	}
}

func (c *KindClient[B]) List(ctx context.Context, req *connect.Request[ListBookmarksRequest]) (*connect.Response[ListBookmarksResponse[B]], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *KindClient[B]) Create(ctx context.Context, req *connect.Request[BookmarkRequest[B]]) (*connect.Response[B], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *KindClient[B]) Delete(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *KindClient[B]) Toggle(ctx context.Context, req *connect.Request[BookmarkRequest[B]]) (*connect.Response[ToggleBookmarkResponse[B]], error) {
	return c.toggle.CallUnary(ctx, req)
}

// BookmarkServiceClient groups the per-kind clients of the bookmark service.
type BookmarkServiceClient struct {
	Questions *KindClient[QuestionBookmark]
	Subtitles *KindClient[SentenceGroupBookmark]
	Lyrics    *KindClient[SentenceGroupBookmark]
	Readings  *KindClient[ReadingBookmark]
}

func NewBookmarkServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BookmarkServiceClient {
	opts = api.ClientOptions(opts...)
	return &BookmarkServiceClient{
		Questions: newKindClient[QuestionBookmark](httpClient, baseURL,
			BookmarkServiceListQuestionBookmarksProcedure, BookmarkServiceCreateQuestionBookmarkProcedure,
			BookmarkServiceDeleteQuestionBookmarkProcedure, BookmarkServiceToggleQuestionBookmarkProcedure, opts),
		Subtitles: newKindClient[SentenceGroupBookmark](httpClient, baseURL,
			BookmarkServiceListSubtitleBookmarksProcedure, BookmarkServiceCreateSubtitleBookmarkProcedure,
			BookmarkServiceDeleteSubtitleBookmarkProcedure, BookmarkServiceToggleSubtitleBookmarkProcedure, opts),
		Lyrics: newKindClient[SentenceGroupBookmark](httpClient, baseURL,
			BookmarkServiceListLyricBookmarksProcedure, BookmarkServiceCreateLyricBookmarkProcedure,
			BookmarkServiceDeleteLyricBookmarkProcedure, BookmarkServiceToggleLyricBookmarkProcedure, opts),
		Readings: newKindClient[ReadingBookmark](httpClient, baseURL,
			BookmarkServiceListReadingBookmarksProcedure, BookmarkServiceCreateReadingBookmarkProcedure,
			BookmarkServiceDeleteReadingBookmarkProcedure, BookmarkServiceToggleReadingBookmarkProcedure, opts),
	}
}
