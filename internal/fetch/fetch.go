// Package fetch retrieves listings and details from the remote adoption
// service.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"adoptwatch/internal/models"
)

var (
	ErrNotFound   = errors.New("listing not found")
	ErrBadStatus  = errors.New("unexpected response status")
	ErrBadPayload = errors.New("malformed response")
)

// Fetcher returns normalized listings for a species and single details.
type Fetcher interface {
	FetchList(ctx context.Context, speciesID int) ([]models.Listing, error)
	FetchDetail(ctx context.Context, id string) (models.Detail, error)
}

// Error is a terminal fetch failure. Status is the HTTP status, or zero for
// transport failures.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("fetch failed with status %d: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
