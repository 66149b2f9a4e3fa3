package connectrpc

import (
	"context"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
	"github.com/eslsoft/lingocast/internal/usecase"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

var _ bookmarkv1.BookmarkServiceHandler = (*BookmarkServiceServer)(nil)

type BookmarkServiceServer struct {
	uc usecase.BookmarkUsecase
}

func NewBookmarkServiceServer(uc usecase.BookmarkUsecase) *BookmarkServiceServer {
	return &BookmarkServiceServer{uc: uc}
}

func listBookmarks[E, D any](
	ctx context.Context,
	req *connect.Request[bookmarkv1.ListBookmarksRequest],
	list func(context.Context, *repository.ListBookmarkQuery) ([]E, int64, error),
	toPb func(E) *D,
) (*connect.Response[bookmarkv1.ListBookmarksResponse[D]], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	if msg == nil {
		msg = &bookmarkv1.ListBookmarksRequest{}
	}
	query := &repository.ListBookmarkQuery{
		Pagination: convertPagination(msg.Pagination),
		FilterOrder: repository.FilterOrder{
			Filter:  msg.Filter,
			OrderBy: msg.OrderBy,
		},
		UserID: userID,
		Scope:  msg.Scope,
	}
	if msg.Language != "" {
		query.Language = entity.ParseLanguage(msg.Language)
		if query.Language == entity.LanguageUnspecified {
			return nil, invalidArgument("unsupported language")
		}
	}

	items, total, err := list(ctx, query)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&bookmarkv1.ListBookmarksResponse[D]{
		Bookmarks:  lo.Map(items, func(item E, _ int) *D { return toPb(item) }),
		Pagination: mapping.ToPbPagination(total, query.PageNo),
	}), nil
}

func createBookmark[E, D any](
	ctx context.Context,
	req *connect.Request[bookmarkv1.BookmarkRequest[D]],
	fromPb func(int64, *D) *E,
	create func(context.Context, *E) (*E, error),
	toPb func(E) *D,
) (*connect.Response[D], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg == nil || req.Msg.Bookmark == nil {
		return nil, invalidArgument("bookmark payload required")
	}
	created, err := create(ctx, fromPb(userID, req.Msg.Bookmark))
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(toPb(*created)), nil
}

func toggleBookmark[E, D any](
	ctx context.Context,
	req *connect.Request[bookmarkv1.BookmarkRequest[D]],
	fromPb func(int64, *D) *E,
	toggle func(context.Context, *E) (*usecase.ToggleResult[E], error),
	toPb func(E) *D,
) (*connect.Response[bookmarkv1.ToggleBookmarkResponse[D]], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg == nil || req.Msg.Bookmark == nil {
		return nil, invalidArgument("bookmark payload required")
	}
	res, err := toggle(ctx, fromPb(userID, req.Msg.Bookmark))
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&bookmarkv1.ToggleBookmarkResponse[D]{
		Created:  res.Created,
		Bookmark: toPb(res.Bookmark),
	}), nil
}

func deleteBookmark(
	ctx context.Context,
	req *connect.Request[commonv1.IDRequest],
	del func(context.Context, int64, string) error,
) (*connect.Response[commonv1.Empty], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg.GetID() == "" {
		return nil, invalidArgument("id required")
	}
	if err := del(ctx, userID, req.Msg.ID); err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&commonv1.Empty{}), nil
}

func (s *BookmarkServiceServer) ListQuestionBookmarks(ctx context.Context, req *connect.Request[bookmarkv1.ListBookmarksRequest]) (*connect.Response[bookmarkv1.ListQuestionBookmarksResponse], error) {
	return listBookmarks(ctx, req, s.uc.ListQuestionBookmarks, mapping.ToPbQuestionBookmark)
}

func (s *BookmarkServiceServer) CreateQuestionBookmark(ctx context.Context, req *connect.Request[bookmarkv1.QuestionBookmarkRequest]) (*connect.Response[bookmarkv1.QuestionBookmark], error) {
	return createBookmark(ctx, req, mapping.FromPbQuestionBookmark, s.uc.CreateQuestionBookmark, mapping.ToPbQuestionBookmark)
}

func (s *BookmarkServiceServer) DeleteQuestionBookmark(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error) {
	return deleteBookmark(ctx, req, s.uc.DeleteQuestionBookmark)
}

func (s *BookmarkServiceServer) ToggleQuestionBookmark(ctx context.Context, req *connect.Request[bookmarkv1.QuestionBookmarkRequest]) (*connect.Response[bookmarkv1.ToggleQuestionBookmarkResponse], error) {
	return toggleBookmark(ctx, req, mapping.FromPbQuestionBookmark, s.uc.ToggleQuestionBookmark, mapping.ToPbQuestionBookmark)
}

func (s *BookmarkServiceServer) ListSubtitleBookmarks(ctx context.Context, req *connect.Request[bookmarkv1.ListBookmarksRequest]) (*connect.Response[bookmarkv1.ListSubtitleBookmarksResponse], error) {
	return listBookmarks(ctx, req, s.uc.ListSubtitleBookmarks, mapping.ToPbSubtitleBookmark)
}

func (s *BookmarkServiceServer) CreateSubtitleBookmark(ctx context.Context, req *connect.Request[bookmarkv1.SentenceGroupBookmarkRequest]) (*connect.Response[bookmarkv1.SentenceGroupBookmark], error) {
	return createBookmark(ctx, req, mapping.FromPbSubtitleBookmark, s.uc.CreateSubtitleBookmark, mapping.ToPbSubtitleBookmark)
}

func (s *BookmarkServiceServer) DeleteSubtitleBookmark(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error) {
	return deleteBookmark(ctx, req, s.uc.DeleteSubtitleBookmark)
}

func (s *BookmarkServiceServer) ToggleSubtitleBookmark(ctx context.Context, req *connect.Request[bookmarkv1.SentenceGroupBookmarkRequest]) (*connect.Response[bookmarkv1.ToggleSubtitleBookmarkResponse], error) {
	return toggleBookmark(ctx, req, mapping.FromPbSubtitleBookmark, s.uc.ToggleSubtitleBookmark, mapping.ToPbSubtitleBookmark)
}

func (s *BookmarkServiceServer) ListLyricBookmarks(ctx context.Context, req *connect.Request[bookmarkv1.ListBookmarksRequest]) (*connect.Response[bookmarkv1.ListLyricBookmarksResponse], error) {
	return listBookmarks(ctx, req, s.uc.ListLyricBookmarks, mapping.ToPbLyricBookmark)
}

func (s *BookmarkServiceServer) CreateLyricBookmark(ctx context.Context, req *connect.Request[bookmarkv1.SentenceGroupBookmarkRequest]) (*connect.Response[bookmarkv1.SentenceGroupBookmark], error) {
	return createBookmark(ctx, req, mapping.FromPbLyricBookmark, s.uc.CreateLyricBookmark, mapping.ToPbLyricBookmark)
}

func (s *BookmarkServiceServer) DeleteLyricBookmark(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error) {
	return deleteBookmark(ctx, req, s.uc.DeleteLyricBookmark)
}

func (s *BookmarkServiceServer) ToggleLyricBookmark(ctx context.Context, req *connect.Request[bookmarkv1.SentenceGroupBookmarkRequest]) (*connect.Response[bookmarkv1.ToggleLyricBookmarkResponse], error) {
	return toggleBookmark(ctx, req, mapping.FromPbLyricBookmark, s.uc.ToggleLyricBookmark, mapping.ToPbLyricBookmark)
}

func (s *BookmarkServiceServer) ListReadingBookmarks(ctx context.Context, req *connect.Request[bookmarkv1.ListBookmarksRequest]) (*connect.Response[bookmarkv1.ListReadingBookmarksResponse], error) {
	return listBookmarks(ctx, req, s.uc.ListReadingBookmarks, mapping.ToPbReadingBookmark)
}

func (s *BookmarkServiceServer) CreateReadingBookmark(ctx context.Context, req *connect.Request[bookmarkv1.ReadingBookmarkRequest]) (*connect.Response[bookmarkv1.ReadingBookmark], error) {
	return createBookmark(ctx, req, mapping.FromPbReadingBookmark, s.uc.CreateReadingBookmark, mapping.ToPbReadingBookmark)
}

func (s *BookmarkServiceServer) DeleteReadingBookmark(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[commonv1.Empty], error) {
	return deleteBookmark(ctx, req, s.uc.DeleteReadingBookmark)
}

func (s *BookmarkServiceServer) ToggleReadingBookmark(ctx context.Context, req *connect.Request[bookmarkv1.ReadingBookmarkRequest]) (*connect.Response[bookmarkv1.ToggleReadingBookmarkResponse], error) {
	return toggleBookmark(ctx, req, mapping.FromPbReadingBookmark, s.uc.ToggleReadingBookmark, mapping.ToPbReadingBookmark)
}
