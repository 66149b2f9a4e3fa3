package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/usecase"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

var _ lessonv1.LessonServiceHandler = (*LessonServiceServer)(nil)

type LessonServiceServer struct {
	uc usecase.LessonUsecase
}

func NewLessonServiceServer(uc usecase.LessonUsecase) *LessonServiceServer {
	return &LessonServiceServer{uc: uc}
}

func (s *LessonServiceServer) GetLesson(ctx context.Context, req *connect.Request[commonv1.IDRequest]) (*connect.Response[lessonv1.Lesson], error) {
	if req.Msg.GetID() == "" {
		return nil, invalidArgument("id required")
	}
	lesson, err := s.uc.GetLesson(ctx, req.Msg.ID)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbLesson(lesson)), nil
}

func (s *LessonServiceServer) StartSession(ctx context.Context, req *connect.Request[lessonv1.StartSessionRequest]) (*connect.Response[lessonv1.Session], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg == nil || req.Msg.LessonID == "" {
		return nil, invalidArgument("lesson id required")
	}
	session, err := s.uc.StartSession(ctx, userID, req.Msg.LessonID)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbSession(session)), nil
}

func (s *LessonServiceServer) SubmitAnswer(ctx context.Context, req *connect.Request[lessonv1.SubmitAnswerRequest]) (*connect.Response[lessonv1.SubmitAnswerResponse], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg == nil || req.Msg.SessionID == "" {
		return nil, invalidArgument("session id required")
	}
	session, correct, err := s.uc.SubmitAnswer(ctx, userID, req.Msg.SessionID, req.Msg.Answer)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&lessonv1.SubmitAnswerResponse{
		Correct: correct,
		Session: mapping.ToPbSession(session),
	}), nil
}

func (s *LessonServiceServer) Advance(ctx context.Context, req *connect.Request[lessonv1.SessionRequest]) (*connect.Response[lessonv1.Session], error) {
	userID, err := requireUser(req.Header())
	if err != nil {
		return nil, err
	}
	if req.Msg == nil || req.Msg.SessionID == "" {
		return nil, invalidArgument("session id required")
	}
	session, err := s.uc.Advance(ctx, userID, req.Msg.SessionID)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbSession(session)), nil
}
