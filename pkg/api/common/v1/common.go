// Package commonv1 holds messages shared by every lingocast service.
package commonv1

// PaginationRequest selects one page of a list. PageSize 0 lets the server
// apply its default.
type PaginationRequest struct {
	PageNo   int32 `json:"pageNo,omitempty"`
	PageSize int32 `json:"pageSize,omitempty"`
}

func (p *PaginationRequest) GetPageNo() int32 {
	if p == nil {
		return 0
	}
	return p.PageNo
}

func (p *PaginationRequest) GetPageSize() int32 {
	if p == nil {
		return 0
	}
	return p.PageSize
}

// PaginationResponse reports the total number of matching rows.
type PaginationResponse struct {
	Total  int64 `json:"total"`
	PageNo int32 `json:"pageNo"`
}

// IDRequest addresses a single resource.
type IDRequest struct {
	ID string `json:"id"`
}

func (r *IDRequest) GetID() string {
	if r == nil {
		return ""
	}
	return r.ID
}

// Empty is returned by RPCs without a payload.
type Empty struct{}
