package common

import "math"

type PaginationResult struct {
	Message     string      `json:"message"`
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
}

// NormalizePage clamps page/limit query values to sane defaults.
func NormalizePage(page, limit, defaultLimit int) (int, int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if page < 1 {
		page = 1
	}
	return page, limit, (page - 1) * limit
}

func PaginateResponse(data interface{}, total int64, page int, limit int, message string) PaginationResult {
	if message == "" {
		message = "success"
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return PaginationResult{
		Message:     message,
		Data:        data,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}
