package pagination

const DefaultPageSize = 50

type Pagination struct {
	PageSize int `form:"page_size,default=50" validate:"gte=1,lte=250"`
	Offset   int `form:"offset" validate:"gte=0"`
}

type PageInfo struct {
	HasMore bool `json:"has_more"`
}

// BuildPageInfo trims an over-fetched result set down to the page size and
// reports whether more rows exist past it.
func BuildPageInfo[T any](data []*T, limit int) ([]*T, PageInfo) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if len(data) > limit {
		return data[:limit], PageInfo{HasMore: true}
	}
	return data, PageInfo{HasMore: false}
}
