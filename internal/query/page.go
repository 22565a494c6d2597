package query

import "errors"

// ErrInvalidPage is returned when pagination parameters are out of range.
// It maps to a client error at the HTTP layer and is never retried.
var ErrInvalidPage = errors.New("page and pageSize must be >= 1")

// Page is a 1-based pagination request.
type Page struct {
	Number int `json:"current"`
	Size   int `json:"pageSize"`
}

// Validate rejects zero and negative page numbers and sizes.
func (p Page) Validate() error {
	if p.Number < 1 || p.Size < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Offset returns the number of rows to skip. Page 1 starts at offset 0.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the page size.
func (p Page) Limit() int {
	return p.Size
}

// Result is a page of items plus the total number of records matching the
// predicate before pagination. Total is independent of the page requested;
// a page past the end yields empty Items with the same Total.
type Result[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}
