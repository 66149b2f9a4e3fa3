package connectrpc

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

// HeaderUserID carries the authenticated learner. Authentication itself
// happens in front of this service.
const HeaderUserID = "X-User-Id"

const (
	_defaultPageSize = 20
	_maxPageSize     = 10000
)

func convertPagination(p *commonv1.PaginationRequest) repository.Pagination {
	pageNo := p.GetPageNo()
	if pageNo <= 0 {
		pageNo = 1
	}
	pageSize := p.GetPageSize()
	if pageSize <= 0 {
		pageSize = _defaultPageSize
	}
	if pageSize > _maxPageSize {
		pageSize = _maxPageSize
	}

	return repository.Pagination{PageNo: pageNo, PageSize: pageSize}
}

// requireUser reads the caller's id from the request header.
func requireUser(h http.Header) (int64, error) {
	id, ok, err := optionalUser(h)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, connect.NewError(connect.CodeUnauthenticated, entity.ErrInvalidUserID)
	}
	return id, nil
}

// optionalUser returns ok=false when the header is absent.
func optionalUser(h http.Header) (int64, bool, error) {
	raw := strings.TrimSpace(h.Get(HeaderUserID))
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, connect.NewError(connect.CodeUnauthenticated, entity.ErrInvalidUserID)
	}
	return id, true, nil
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
