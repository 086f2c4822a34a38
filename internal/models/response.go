package models

import "math"

// Response is the envelope every endpoint writes
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a collection
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total items
func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// BulkFailure is one item that a bulk operation could not process
type BulkFailure struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// BulkResult enumerates per-item outcomes of a bulk operation
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// NewBulkResult returns a result with empty, non-nil lists
func NewBulkResult() *BulkResult {
	return &BulkResult{Succeeded: []string{}, Failed: []BulkFailure{}}
}

// DispatchReport is the outcome of sending a campaign
type DispatchReport struct {
	Attempted int         `json:"attempted"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Result    *BulkResult `json:"result"`
}

// ImportReport is the outcome of a CSV contact import
type ImportReport struct {
	TotalRows int           `json:"totalRows"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Failed    []ImportError `json:"failed"`
}

// ImportError describes one rejected CSV row
type ImportError struct {
	Row   int    `json:"row"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}
