package contentv1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/pkg/api"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

// ContentServiceHandler is implemented by the content service server.
type ContentServiceHandler interface {
	ListMedia(context.Context, *connect.Request[ListMediaRequest]) (*connect.Response[ListMediaResponse], error)
	GetMedia(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[MediaItem], error)
	ResolvePosition(context.Context, *connect.Request[ResolvePositionRequest]) (*connect.Response[ResolvePositionResponse], error)
	ImportMedia(context.Context, *connect.Request[ImportMediaRequest]) (*connect.Response[MediaItem], error)
}

// NewContentServiceHandler builds an HTTP handler serving every content
// procedure. It returns the path to mount the handler on.
func NewContentServiceHandler(svc ContentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = api.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(ContentServiceListMediaProcedure, connect.NewUnaryHandler(ContentServiceListMediaProcedure, svc.ListMedia, opts...))
	mux.Handle(ContentServiceGetMediaProcedure, connect.NewUnaryHandler(ContentServiceGetMediaProcedure, svc.GetMedia, opts...))
	mux.Handle(ContentServiceResolvePositionProcedure, connect.NewUnaryHandler(ContentServiceResolvePositionProcedure, svc.ResolvePosition, opts...))
	mux.Handle(ContentServiceImportMediaProcedure, connect.NewUnaryHandler(ContentServiceImportMediaProcedure, svc.ImportMedia, opts...))
	return "/" + ContentServiceName + "/", mux
}

// ContentServiceClient calls the content service.
type ContentServiceClient struct {
	listMedia       *connect.Client[ListMediaRequest, ListMediaResponse]
	getMedia        *connect.Client[commonv1.IDRequest, MediaItem]
	resolvePosition *connect.Client[ResolvePositionRequest, ResolvePositionResponse]
	importMedia     *connect.Client[ImportMediaRequest, MediaItem]
}

func NewContentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ContentServiceClient {
	opts = api.ClientOptions(opts...)
	return &ContentServiceClient{
		listMedia:       connect.NewClient[ListMediaRequest, ListMediaResponse](httpClient, baseURL+ContentServiceListMediaProcedure, opts...),
		getMedia:        connect.NewClient[commonv1.IDRequest, MediaItem](httpClient, baseURL+ContentServiceGetMediaProcedure, opts...),
		resolvePosition: connect.NewClient[ResolvePositionRequest, ResolvePositionResponse](httpClient, baseURL+ContentServiceResolvePositionProcedure, opts...),
		importMedia:     connect.NewClient[ImportMediaRequest, MediaItem](httpClient, baseURL+ContentServiceImportMediaProcedure, opts...),
	}
}

func (c *ContentServiceClient) ListMedia(ctx context.Context, req *connect.Request[ListMediaRequest]) (*connect.Response[ListMediaResponse], error) {
	return c.listMedia.CallUnary(ctx, req)
}

func (c *ContentServiceClient) GetMedia(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[MediaItem], error) {
	return c.getMedia.CallUnary(ctx, req)
}

func (c *ContentServiceClient) ResolvePosition(ctx context.Context, req *connect.Request[ResolvePositionRequest]) (*connect.Response[ResolvePositionResponse], error) {
	return c.resolvePosition.CallUnary(ctx, req)
}

func (c *ContentServiceClient) ImportMedia(ctx context.Context, req *connect.Request[ImportMediaRequest]) (*connect.Response[MediaItem], error) {
	return c.importMedia.CallUnary(ctx, req)
}
