package like

import (
	"context"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=like.go -destination=mocks/mock.go
type Repository interface {
	// Status returns the stored like count for an activity and whether
	// the given user has liked it.
	Status(ctx context.Context, activityID, userID int) (domain.LikeStatus, error)

	// Toggle flips the user's like for an activity and returns the
	// resulting authoritative status.
	Toggle(ctx context.Context, activityID, userID int) (domain.LikeStatus, error)
}
