package dto

// PaginationMeta mirrors the history endpoint's pagination metadata.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
}

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    any             `json:"data,omitempty"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
}

// ErrorDetail carries a machine-readable failure code plus display data.
// Details never leaks internal identifiers beyond what the caller owns.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// NormalizePage clamps pagination inputs: page to >=1, pageSize to [1,100]
// with a default of 10 when unset.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
