package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the offset-based paging contract used by all list endpoints.
type Pagination struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset"`
}

// PageInfo accompanies list responses.
type PageInfo struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

func (p Pagination) Normalized() Pagination {
	out := p
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}
