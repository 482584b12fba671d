package models

// Pagination mirrors the backend paging envelope. Page indexes are
// zero-based everywhere, including the console API.
type Pagination struct {
	Page       uint64 `json:"page"`
	Items      uint64 `json:"items"`
	TotalItems uint64 `json:"totalItems"`
	TotalPages uint64 `json:"totalPages"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
