// Package pgimpl implements the data-access collaborator directly against
// Postgres, publishing like-state broadcasts so other sessions converge.
package pgimpl

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	"github.com/orgball2608/community-feed-engine/internal/ratelimit"
	"github.com/orgball2608/community-feed-engine/internal/repositories/activity"
	"github.com/orgball2608/community-feed-engine/internal/repositories/directory"
	"github.com/orgball2608/community-feed-engine/internal/repositories/like"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Activities activity.Repository
	Directory  directory.Repository
	Likes      like.Repository
	PubSub     pubsub.Client
	Config     *config.Config
	Logger     logger.Logger
}

type PgImpl struct {
	activities activity.Repository
	directory  directory.Repository
	likes      like.Repository
	pubsub     pubsub.Client
	limiter    ratelimit.Limiter
	userID     int
	logger     logger.Logger
}

var ErrRateLimited = errors.New("too many like toggles")

func New(opts Opts) *PgImpl {
	return &PgImpl{
		activities: opts.Activities,
		directory:  opts.Directory,
		likes:      opts.Likes,
		pubsub:     opts.PubSub,
		limiter:    ratelimit.NewInMemoryLimiter(1, time.Second, 5),
		userID:     opts.Config.Feed.UserID,
		logger:     opts.Logger.WithComponent("ActivityPg"),
	}
}

var _ activityapi.Client = (*PgImpl)(nil)

func (p *PgImpl) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return p.directory.ListOrganizations(ctx)
}

func (p *PgImpl) ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error) {
	return p.directory.ListSubcategories(ctx, orgID)
}

func (p *PgImpl) ListActivities(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
	page, err := p.activities.ListByFilter(ctx, q.OrgID, q.SubcategoryID, q.Page, q.PageSize)
	if err != nil {
		return activityapi.ActivitiesPage{}, err
	}
	return activityapi.ActivitiesPage{
		Records:   page.Records,
		PageCount: page.PageCount,
	}, nil
}

func (p *PgImpl) LikeStatus(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	return p.likes.Status(ctx, activityID, p.userID)
}

// ToggleLike flips the caller's like and broadcasts the new state on the
// activity's organization channel. A failed broadcast does not undo the
// toggle; subscribers reconcile on their next load.
func (p *PgImpl) ToggleLike(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	if !p.limiter.Allow(p.userID) {
		return domain.LikeStatus{}, ErrRateLimited
	}

	rec, err := p.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return domain.LikeStatus{}, activityapi.ErrNotFound
		}
		return domain.LikeStatus{}, err
	}

	status, err := p.likes.Toggle(ctx, activityID, p.userID)
	if err != nil {
		return domain.LikeStatus{}, err
	}

	update := domain.LikeUpdate{
		ActivityID: status.ActivityID,
		LikeCount:  status.LikeCount,
		IsLiked:    status.IsLiked,
		UserID:     p.userID,
	}
	if err := p.pubsub.Publish(ctx, pubsub.OrgChannel(rec.OrgID), pubsub.EventLikeUpdate, update); err != nil {
		p.logger.Warn("Failed to broadcast like update", "activity_id", activityID, "error", err)
	}

	return status, nil
}

func (p *PgImpl) CreateActivity(ctx context.Context, draft domain.ActivityDraft) (domain.ActivityRecord, error) {
	return p.activities.Create(ctx, p.userID, draft)
}
