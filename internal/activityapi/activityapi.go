// Package activityapi defines the data-access collaborator that the feed
// engine loads activities, like state and directory data from.
package activityapi

import (
	"context"
	"errors"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

var (
	ErrNotFound    = errors.New("activity not found")
	ErrUnavailable = errors.New("activity source unavailable")
)

// ActivitiesQuery selects one page of an organization's activity stream.
// SubcategoryID of 0 means no subcategory filter.
type ActivitiesQuery struct {
	OrgID         int
	SubcategoryID int
	Page          int // 1-based
	PageSize      int
}

// ActivitiesPage is one fetched page plus the pagination metadata needed
// to compute whether more pages remain.
type ActivitiesPage struct {
	Records   []domain.ActivityRecord
	PageCount int
}

//go:generate go run go.uber.org/mock/mockgen -source=activityapi.go -destination=mocks/mock.go
type Client interface {
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error)
	ListActivities(ctx context.Context, q ActivitiesQuery) (ActivitiesPage, error)
	LikeStatus(ctx context.Context, activityID int) (domain.LikeStatus, error)
	ToggleLike(ctx context.Context, activityID int) (domain.LikeStatus, error)
	CreateActivity(ctx context.Context, draft domain.ActivityDraft) (domain.ActivityRecord, error)
}
