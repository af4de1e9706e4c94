// Package storage defines the persistence contract for discovered projects.
package storage

import (
	"context"

	"github.com/nekoweb3/alphabot/internal/models"
)

// ProjectStore persists projects keyed by address. Writes never overwrite an existing
// record: the first-seen snapshot of a project is kept for good.
type ProjectStore interface {
	// InsertIfAbsent stores every project whose address is not yet known and leaves the
	// rest untouched.
	InsertIfAbsent(ctx context.Context, projects []models.Project) (UpsertResult, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Project, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Ping(ctx context.Context) error
}

// UpsertResult reports what an InsertIfAbsent call did.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Existing int `json:"existing"`
}

// Filter narrows a project query. Zero-valued fields match everything.
type Filter struct {
	Chain        string
	Category     models.Category
	Risk         models.RiskTier
	ExcludeRisk  models.RiskTier
	HasTelegram  bool
	NameContains string // case-insensitive substring

	// MaxAgeHours keeps projects strictly younger than the limit and skips records whose
	// age is unknown. Zero disables the check.
	MaxAgeHours float64
}

// SortOrder selects the result ordering of Find.
type SortOrder int

const (
	// SortNewest orders by created_at descending.
	SortNewest SortOrder = iota
	// SortYoungest orders by pair age ascending with unknown ages last.
	SortYoungest
)

// FindOptions controls ordering and paging.
type FindOptions struct {
	Sort  SortOrder
	Skip  int64
	Limit int64 // zero means no limit
}
