package directory

import (
	"context"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=mocks/mock.go
type Repository interface {
	// ListOrganizations returns every organization, name-ordered.
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)

	// ListSubcategories returns an organization's subcategories, name-ordered.
	ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error)
}
