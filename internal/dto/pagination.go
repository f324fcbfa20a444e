package dto

// PageRequest is the shared shape consumed by every paginated listing.
type PageRequest struct {
	Page          int    `form:"page" json:"page"`
	PageSize      int    `form:"page_size" json:"page_size"`
	SearchTerm    string `form:"search_term" json:"search_term"`
	SortColumn    string `form:"sort_column" json:"sort_column"`
	SortDirection string `form:"sort_direction" json:"sort_direction"`
}

// Descending reports whether the request asked for descending order.
// Anything other than "desc" sorts ascending.
func (r PageRequest) Descending() bool {
	return r.SortDirection == "desc"
}

// Offset returns the row offset for the requested page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResponse is the shared paginated response envelope.
type PageResponse[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
}

// NewPageResponse assembles a response envelope, computing the page count.
func NewPageResponse[T any](items []T, totalCount int64, page, pageSize int) PageResponse[T] {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return PageResponse[T]{
		Items:       items,
		TotalCount:  totalCount,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}
