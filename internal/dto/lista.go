package dto

// Paginacion is embedded in list filters bound from the query string.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// Offset returns the row offset for the current page.
func (p Paginacion) Offset() int { return (p.Page - 1) * p.Limit }

// ListResponse is the envelope of every paginated listing.
type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewListResponse[T any](data []T, total int64, p Paginacion) ListResponse[T] {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
