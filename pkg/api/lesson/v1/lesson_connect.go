package lessonv1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/pkg/api"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

// LessonServiceHandler is implemented by the lesson service server.
type LessonServiceHandler interface {
	GetLesson(context.Context, *connect.Request[commonv1.IDRequest]) (*connect.Response[Lesson], error)
	StartSession(context.Context, *connect.Request[StartSessionRequest]) (*connect.Response[Session], error)
	SubmitAnswer(context.Context, *connect.Request[SubmitAnswerRequest]) (*connect.Response[SubmitAnswerResponse], error)
	Advance(context.Context, *connect.Request[SessionRequest]) (*connect.Response[Session], error)
}

// NewLessonServiceHandler builds an HTTP handler serving every lesson
// procedure. It returns the path to mount the handler on.
func NewLessonServiceHandler(svc LessonServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = api.HandlerOptions(opts...)
	mux := http.NewServeMux()
	mux.Handle(LessonServiceGetLessonProcedure, connect.NewUnaryHandler(LessonServiceGetLessonProcedure, svc.GetLesson, opts...))
	mux.Handle(LessonServiceStartSessionProcedure, connect.NewUnaryHandler(LessonServiceStartSessionProcedure, svc.StartSession, opts...))
	mux.Handle(LessonServiceSubmitAnswerProcedure, connect.NewUnaryHandler(LessonServiceSubmitAnswerProcedure, svc.SubmitAnswer, opts...))
	mux.Handle(LessonServiceAdvanceProcedure, connect.NewUnaryHandler(LessonServiceAdvanceProcedure, svc.Advance, opts...))
	return "/" + LessonServiceName + "/", mux
}

// LessonServiceClient calls the lesson service.
type LessonServiceClient struct {
	getLesson    *connect.Client[commonv1.IDRequest, Lesson]
	startSession *connect.Client[StartSessionRequest, Session]
	submitAnswer *connect.Client[SubmitAnswerRequest, SubmitAnswerResponse]
	advance      *connect.Client[SessionRequest, Session]
}

func NewLessonServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LessonServiceClient {
	opts = api.ClientOptions(opts...)
	return &LessonServiceClient{
		getLesson:    connect.NewClient[commonv1.IDRequest, Lesson](httpClient, baseURL+LessonServiceGetLessonProcedure, opts...),
		startSession: connect.NewClient[StartSessionRequest, Session](httpClient, baseURL+LessonServiceStartSessionProcedure, opts...),
		submitAnswer: connect.NewClient[SubmitAnswerRequest, SubmitAnswerResponse](httpClient, baseURL+LessonServiceSubmitAnswerProcedure, opts...),
		advance:      connect.NewClient[SessionRequest, Session](httpClient, baseURL+LessonServiceAdvanceProcedure, opts...),
	}
}

func (c *LessonServiceClient) GetLesson(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[Lesson], error) {
	return c.getLesson.CallUnary(ctx, req)
}

func (c *LessonServiceClient) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[Session], error) {
	return c.startSession.CallUnary(ctx, req)
}

func (c *LessonServiceClient) SubmitAnswer(ctx context.Context, req *connect.Request[SubmitAnswerRequest]) (*connect.Response[SubmitAnswerResponse], error) {
	return c.submitAnswer.CallUnary(ctx, req)
}

func (c *LessonServiceClient) Advance(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[Session], error) {
	return c.advance.CallUnary(ctx, req)
}
