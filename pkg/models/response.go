package models

import "encoding/json"

// Envelope codes used by the account server.
const (
	CodeSuccess      = 200
	CodeUnregistered = 201
	CodeError        = 500
)

// Result is the {code, message, data} envelope every endpoint answers with.
type Result[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK reports whether the server accepted the request.
func (r *Result[T]) OK() bool {
	return r != nil && r.Code == CodeSuccess
}

// Ack is a Result whose data is left undecoded.
type Ack = Result[json.RawMessage]

// Page is one page of a listing.
type Page[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"pageNum"`
	PageSize int   `json:"pageSize"`
	Pages    int   `json:"pages"`
}

// NewPage builds a page and derives the page count from total and size.
func NewPage[T any](list []T, total int64, pageNum, pageSize int) Page[T] {
	if list == nil {
		list = []T{}
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		List:     list,
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
		Pages:    pages,
	}
}
