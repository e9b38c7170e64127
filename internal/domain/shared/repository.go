package shared

// Filter represents common query filtering options
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
	Order   string // asc or desc
	Search  string
	Filters map[string]any
}

// DefaultFilter returns a filter with sensible defaults
func DefaultFilter() Filter {
	return Filter{
		Limit:   20,
		Offset:  0,
		OrderBy: "created_at",
		Order:   "desc",
		Filters: make(map[string]any),
	}
}

// WithFilter adds a key-value filter condition
func (f Filter) WithFilter(key string, value any) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
	f.Filters[key] = value
	return f
}

// Paginated wraps a result list with pagination metadata
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a paginated result
func NewPaginated[T any](items []T, total int64, limit, offset int) Paginated[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		TotalPages: totalPages,
	}
}
