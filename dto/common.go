package dto

import "locationsguard/response"

// PaginatedResponse wraps a page of T with its pagination.
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// PageQuery is bound from ?page=&limit=. Pages start at 0.
type PageQuery struct {
	Page  int `form:"page" validate:"gte=0"`
	Limit int `form:"limit" validate:"gte=0,lte=100"`
}

// Normalize applies the default page size.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	return q
}
