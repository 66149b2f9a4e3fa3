package mapping

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/internal/entity"
)

// ToConnectError maps domain errors onto connect status codes. Errors that
// already carry a code pass through.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	return connect.NewError(errorCode(err), err)
}

func errorCode(err error) connect.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, entity.ErrInvalidUserID):
		return connect.CodeUnauthenticated
	case errors.Is(err, entity.ErrMediaNotFound),
		errors.Is(err, entity.ErrSentenceNotFound),
		errors.Is(err, entity.ErrProgressNotFound),
		errors.Is(err, entity.ErrBookmarkNotFound),
		errors.Is(err, entity.ErrLessonNotFound),
		errors.Is(err, entity.ErrSessionNotFound):
		return connect.CodeNotFound
	case errors.Is(err, entity.ErrDuplicateBookmark):
		return connect.CodeAlreadyExists
	case errors.Is(err, entity.ErrInvalidFilter),
		errors.Is(err, entity.ErrInvalidMedia),
		errors.Is(err, entity.ErrInvalidTiming),
		errors.Is(err, entity.ErrInvalidBookmark),
		errors.Is(err, entity.ErrEmptySentenceSet),
		errors.Is(err, entity.ErrInvalidLesson):
		return connect.CodeInvalidArgument
	case errors.Is(err, entity.ErrSessionComplete),
		errors.Is(err, entity.ErrAwaitingFeedback),
		errors.Is(err, entity.ErrAwaitingAnswer):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

var codeErrors = map[connect.Code][]error{
	connect.CodeNotFound:           {entity.ErrMediaNotFound, entity.ErrBookmarkNotFound, entity.ErrLessonNotFound, entity.ErrSessionNotFound},
	connect.CodeAlreadyExists:      {entity.ErrDuplicateBookmark},
	connect.CodeInvalidArgument:    {entity.ErrInvalidFilter, entity.ErrInvalidMedia, entity.ErrInvalidTiming, entity.ErrInvalidBookmark, entity.ErrEmptySentenceSet, entity.ErrInvalidLesson},
	connect.CodeFailedPrecondition: {entity.ErrSessionComplete, entity.ErrAwaitingFeedback, entity.ErrAwaitingAnswer},
	connect.CodeUnauthenticated:    {entity.ErrInvalidUserID},
}

// FromConnectError restores the domain sentinel carried by a connect error so
// clients can use errors.Is against entity errors.
func FromConnectError(err error) error {
	var ce *connect.Error
	if !errors.As(err, &ce) {
		return err
	}
	msg := ce.Message()
	for _, sentinel := range codeErrors[ce.Code()] {
		if msg == sentinel.Error() || strings.HasPrefix(msg, sentinel.Error()+":") {
			return &remoteError{sentinel: sentinel, err: err}
		}
	}
	return err
}

type remoteError struct {
	sentinel error
	err      error
}

func (e *remoteError) Error() string { return e.err.Error() }

func (e *remoteError) Unwrap() []error { return []error{e.sentinel, e.err} }
