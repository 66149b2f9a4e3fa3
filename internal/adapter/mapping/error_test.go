package mapping

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/internal/entity"
)

func TestToConnectError(t *testing.T) {
	cases := []struct {
		err  error
		code connect.Code
	}{
		{entity.ErrMediaNotFound, connect.CodeNotFound},
		{fmt.Errorf("%w: end before start", entity.ErrInvalidBookmark), connect.CodeInvalidArgument},
		{entity.ErrDuplicateBookmark, connect.CodeAlreadyExists},
		{entity.ErrAwaitingFeedback, connect.CodeFailedPrecondition},
		{entity.ErrInvalidUserID, connect.CodeUnauthenticated},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{errors.New("boom"), connect.CodeInternal},
	}
	for _, tc := range cases {
		if got := connect.CodeOf(ToConnectError(tc.err)); got != tc.code {
			t.Errorf("%v: got %v, want %v", tc.err, got, tc.code)
		}
	}

	if ToConnectError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	already := connect.NewError(connect.CodeUnavailable, errors.New("down"))
	if ToConnectError(already) != already {
		t.Fatalf("connect errors must pass through")
	}
}

func TestFromConnectErrorRestoresSentinel(t *testing.T) {
	wrapped := ToConnectError(fmt.Errorf("%w: media id is required", entity.ErrInvalidBookmark))
	if !errors.Is(FromConnectError(wrapped), entity.ErrInvalidBookmark) {
		t.Fatalf("expected ErrInvalidBookmark from %v", wrapped)
	}
	if errors.Is(FromConnectError(wrapped), entity.ErrEmptySentenceSet) {
		t.Fatalf("unexpected sentinel match")
	}
	plain := errors.New("x")
	if FromConnectError(plain) != plain {
		t.Fatalf("non-connect errors pass through")
	}
}
