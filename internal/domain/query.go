package domain

import "strings"

type SortKey string

const (
	SortDefault   SortKey = ""
	SortDateAsc   SortKey = "dateAsc"
	SortDateDesc  SortKey = "dateDesc"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortDefault, SortDateAsc, SortDateDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Sort     SortKey
}

func (q *ListQuery) Normalize() error {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return validationf("page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return validationf("page_size must be between 1 and %d", MaxPageSize)
	}
	if !q.Sort.Valid() {
		return validationf("unknown sort key %q", q.Sort)
	}
	q.Search = strings.TrimSpace(q.Search)
	return nil
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type BookingPage struct {
	Items      []*BookingDetails `json:"items"`
	TotalCount int               `json:"total_count"`
}
