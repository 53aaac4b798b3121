package library

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrEmptyTitle = errors.New("title is required")
)

// APIError is a non-2xx response from Open Library.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("bad status: %s", e.Status)
	}
	return fmt.Sprintf("bad status: %d", e.StatusCode)
}
