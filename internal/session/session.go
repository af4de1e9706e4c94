// Package session keeps the per-user pagination cursor of the listing commands.
package session

import (
	"context"
	"strconv"
)

// Store hands out page numbers per key. Implementations must keep keys isolated from
// each other; concurrent Next calls on the same key may interleave.
type Store interface {
	// Next advances the cursor for key and returns the new 1-based page.
	Next(ctx context.Context, key string) (int, error)
	// Reset moves the cursor for key back before the first page.
	Reset(ctx context.Context, key string) error
}

// Key scopes a cursor to one user and one listing view, e.g. "new" or "chain:solana".
func Key(userID int64, view string) string {
	return "page:" + strconv.FormatInt(userID, 10) + ":" + view
}
