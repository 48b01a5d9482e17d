package models

// Page is one page of a listing. Page numbers start at 1 and an empty
// listing is page 1 of 1.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage clamps the requested page into [1, last] for the given total.
func NewPage[T any](requested, pageSize, total int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Page[T]{
		Items:       []T{},
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

func (p Page[T]) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PaginatedResponse struct {
	Data     any `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type DashboardSummary struct {
	ProductCount  int `json:"product_count"`
	CategoryCount int `json:"category_count"`
	OrderCount    int `json:"order_count"`
}
