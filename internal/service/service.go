// Package service contains the application's business logic, sitting between
// HTTP handlers and the repository layer. Services own authorization
// decisions and side effects such as notification dispatch; handlers only
// translate between HTTP and service inputs.
package service

import (
	"errors"

	"gorm.io/gorm"
)

// Pagination bounds shared by every list endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// clampLimit normalizes a caller-supplied page size into [1, MaxPageSize].
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
