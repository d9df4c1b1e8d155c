package dashboard

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageSizes offered by the detail table.
var PageSizes = []int{10, 20, 50}

// Page is one slice of a subset plus paging metadata.
type Page struct {
	Data       []*FailureWithUnitName `json:"data"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	Total      int64                  `json:"totalItems"`
	TotalPages int                    `json:"totalPages"`
}

// Paginate returns page (1-based) of list. Out of range pages come back empty.
func Paginate(list []*FailureWithUnitName, page, size int) Page {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	total := len(list)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	data := make([]*FailureWithUnitName, end-start)
	copy(data, list[start:end])

	return Page{
		Data:       data,
		Page:       page,
		PageSize:   size,
		Total:      int64(total),
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	}
}
