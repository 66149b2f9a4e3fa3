package connectrpc

import (
	"context"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
	"github.com/eslsoft/lingocast/internal/usecase"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
)

var _ contentv1.ContentServiceHandler = (*ContentServiceServer)(nil)

type ContentServiceServer struct {
	uc usecase.ContentUsecase
}

func NewContentServiceServer(uc usecase.ContentUsecase) *ContentServiceServer {
	return &ContentServiceServer{uc: uc}
}

func (s *ContentServiceServer) ListMedia(ctx context.Context, req *connect.Request[contentv1.ListMediaRequest]) (*connect.Response[contentv1.ListMediaResponse], error) {
	if req.Msg == nil {
		return nil, invalidArgument("request required")
	}
	msg := req.Msg
	query := &repository.ListMediaQuery{
		Pagination: convertPagination(msg.Pagination),
		FilterOrder: repository.FilterOrder{
			Filter:  msg.Filter,
			OrderBy: msg.OrderBy,
		},
		Kind: entity.ParseMediaKind(msg.Kind),
	}
	if msg.Kind != "" && query.Kind == "" {
		return nil, invalidArgument("unknown media kind")
	}
	if msg.Language != "" {
		query.Language = entity.ParseLanguage(msg.Language)
		if query.Language == entity.LanguageUnspecified {
			return nil, invalidArgument("unsupported language")
		}
	}

	items, total, err := s.uc.ListMedia(ctx, query)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&contentv1.ListMediaResponse{
		Items:      lo.Map(items, mapping.ToPbMediaSummary),
		Pagination: mapping.ToPbPagination(total, query.PageNo),
	}), nil
}

// GetMedia records progress for the caller when the user header is present.
func (s *ContentServiceServer) GetMedia(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[contentv1.MediaItem], error) {
	if req.Msg.GetID() == "" {
		return nil, invalidArgument("id required")
	}
	userID, _, err := optionalUser(req.Header())
	if err != nil {
		return nil, err
	}
	item, err := s.uc.GetMedia(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbMediaItem(item)), nil
}

func (s *ContentServiceServer) ResolvePosition(ctx context.Context, req *connect.Request[contentv1.ResolvePositionRequest]) (*connect.Response[contentv1.ResolvePositionResponse], error) {
	if req.Msg == nil || req.Msg.MediaID == "" {
		return nil, invalidArgument("media id required")
	}
	res, err := s.uc.ResolvePosition(ctx, req.Msg.MediaID, req.Msg.At)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbResolution(req.Msg.At, res)), nil
}

func (s *ContentServiceServer) ImportMedia(ctx context.Context, req *connect.Request[contentv1.ImportMediaRequest]) (*connect.Response[contentv1.MediaItem], error) {
	if req.Msg == nil || req.Msg.Item == nil {
		return nil, invalidArgument("media item payload required")
	}
	item, err := s.uc.ImportMedia(ctx, mapping.FromPbMediaItem(req.Msg.Item))
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbMediaItem(item)), nil
}
