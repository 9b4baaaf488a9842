package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a validated page/page_size pair.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset is the number of rows to skip for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageRequest reads page and page_size from the query string. Missing
// or malformed values fall back to the first page of DefaultPageSize, and
// page_size is capped at MaxPageSize.
func ParsePageRequest(r *http.Request) PageRequest {
	q := r.URL.Query()

	p := PageRequest{
		Page:     atLeastOne(q.Get("page"), 1),
		PageSize: atLeastOne(q.Get("page_size"), DefaultPageSize),
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func atLeastOne(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// PaginatedResponse is the data payload of list endpoints that page
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalItems int64       `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

// NewPaginatedResponse wraps one page of items with its position in the set
func NewPaginatedResponse(data interface{}, p PageRequest, totalItems int64) PaginatedResponse {
	size := int64(p.PageSize)
	return PaginatedResponse{
		Data:       data,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: totalItems,
		TotalPages: int((totalItems + size - 1) / size),
	}
}
