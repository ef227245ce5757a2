package activity

import (
	"context"
	"errors"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

var ErrNotFound = errors.New("activity not found")

// Page is one stored page of an organization's stream plus the total
// page count for the applied filter.
type Page struct {
	Records   []domain.ActivityRecord
	PageCount int
}

//go:generate go run go.uber.org/mock/mockgen -source=activity.go -destination=mocks/mock.go
type Repository interface {
	// ListByFilter returns one newest-first page for an organization,
	// optionally narrowed to a subcategory (0 means no filter).
	ListByFilter(ctx context.Context, orgID, subcategoryID, page, pageSize int) (Page, error)

	// GetByID returns a single activity with its author and directory names.
	GetByID(ctx context.Context, id int) (domain.ActivityRecord, error)

	// Create inserts a composed activity and returns the stored record.
	Create(ctx context.Context, authorID int, draft domain.ActivityDraft) (domain.ActivityRecord, error)
}
