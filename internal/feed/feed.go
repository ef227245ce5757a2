// Package feed defines the activity-feed synchronization engine: the
// façade a UI layer observes and drives. The engine owns pagination,
// media-classified entries and per-activity like state, and keeps the
// like counters consistent across the user's own optimistic toggles,
// confirmed server responses and broadcasts from other sessions.
package feed

import (
	"context"
	"errors"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

var (
	// ErrNoOrganization is returned by operations that need a selected
	// organization before one has been selected.
	ErrNoOrganization = errors.New("no organization selected")

	// ErrToggleInFlight rejects a like toggle while a previous toggle for
	// the same activity is still unresolved.
	ErrToggleInFlight = errors.New("like toggle already in flight")
)

// Error codes attached to wrapped failures, one per taxonomy class.
const (
	CodeLoadFailure         = "LOAD_FAILURE"
	CodeToggleFailure       = "TOGGLE_FAILURE"
	CodeLikeStatusFailure   = "LIKE_STATUS_FAILURE"
	CodeSubscriptionFailure = "SUBSCRIPTION_FAILURE"
	CodeComposeFailure      = "COMPOSE_FAILURE"
)

// LikeSnapshot is the observable like state of one activity. IsLoading is
// true only while an optimistic toggle awaits its resolution.
type LikeSnapshot struct {
	LikeCount int
	IsLiked   bool
	IsLoading bool
}

// Snapshot is the externally observable engine state. Entries are scoped
// to Filter; Likes is keyed by activity id.
type Snapshot struct {
	Filter  domain.FilterKey
	Page    int
	HasMore bool
	Entries []domain.FeedEntry
	Likes   map[int]LikeSnapshot
}

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go
type Engine interface {
	// SelectOrganization switches the feed to orgID: entries are cleared,
	// pagination resets, the broadcast channel is rebound and page 1 is
	// loaded. Selecting the current organization is a no-op.
	SelectOrganization(ctx context.Context, orgID int) error

	// SelectSubcategory narrows the current organization's feed to one
	// subcategory (0 clears the filter). Selecting the current
	// subcategory is a no-op.
	SelectSubcategory(ctx context.Context, subcategoryID int) error

	// LoadMore fetches the next page. It is a no-op when no further pages
	// exist or a load is already in flight.
	LoadMore(ctx context.Context) error

	// Refresh re-loads page 1 for the current filter. Prior entries stay
	// visible until the new page arrives; a failed refresh leaves them
	// untouched.
	Refresh(ctx context.Context) error

	// ToggleLike applies an optimistic like mutation for the current user
	// and reconciles it against the server's confirmation, rolling back
	// exactly on failure.
	ToggleLike(ctx context.Context, activityID int) error

	// ComposeActivity validates a draft locally, submits it, prepends the
	// transformed entry and triggers a refresh-equivalent invalidation.
	ComposeActivity(ctx context.Context, draft domain.ActivityDraft) (domain.FeedEntry, error)

	// Organizations and Subcategories list the filter dimensions; the
	// latter is scoped to the selected organization.
	Organizations(ctx context.Context) ([]domain.Organization, error)
	Subcategories(ctx context.Context) ([]domain.Subcategory, error)

	// Snapshot returns a copy of the observable state. Updates yields a
	// coalesced signal whenever that state changes.
	Snapshot() Snapshot
	Updates() <-chan struct{}

	// LikeState reports the like state of one activity. The second result
	// is false when the activity is unknown to the engine.
	LikeState(activityID int) (LikeSnapshot, bool)

	// ScheduleRefresh starts a periodic background refresh, used as a
	// fallback when real-time updates are unavailable.
	ScheduleRefresh(ctx context.Context) error

	// Close unsubscribes the broadcast channel and stops background jobs.
	Close(ctx context.Context) error
}

// ValidationError reports field-level composition failures. It is
// returned before any network call is made.
type ValidationError struct {
	Fields []FieldReason
}

// FieldReason names one invalid draft field.
type FieldReason struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid draft: " + e.Fields[0].Field
	}
	return "invalid draft"
}
