package db

import (
	"math"
	"strconv"
)

// Offset turns a 1-based page into a row offset. Pages below 1 are
// treated as the first page. The offset saturates instead of overflowing,
// so it is never negative.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt / pageSize * pageSize
	}
	return (page - 1) * pageSize
}

// ParsePage reads the page query parameter, falling back to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// EmptyOrRows never returns nil, so an empty result encodes as [].
func EmptyOrRows[T any](rows []T) []T {
	if len(rows) == 0 {
		return []T{}
	}
	return rows
}
