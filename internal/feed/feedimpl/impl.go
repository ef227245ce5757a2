package feedimpl

import (
	"context"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	"github.com/orgball2608/community-feed-engine/internal/validation"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	API       activityapi.Client
	PubSub    pubsub.Client
	Validator *validation.Validator
	Logger    logger.Logger
	Config    *config.Config
}

// FeedImpl is the engine. All observable state lives behind mu; network
// and broker I/O happens outside the lock, and every asynchronous
// resolution re-validates against the filter epoch captured at issue
// time so responses for a superseded filter key are discarded.
type FeedImpl struct {
	API       activityapi.Client
	PubSub    pubsub.Client
	Validator *validation.Validator
	Logger    logger.Logger
	Config    *config.Config

	userID   int
	pageSize int

	mu      sync.Mutex
	filter  domain.FilterKey
	epoch   uint64
	page    int
	hasMore bool
	loading bool
	entries []domain.FeedEntry
	likes   map[int]*likeState

	// binding state, serialized separately so rebinds do not hold up
	// snapshot reads during broker round-trips
	bindMu   sync.Mutex
	sub      pubsub.Subscription
	boundOrg int

	scheduler gocron.Scheduler

	updates chan struct{}
}

func New(opts Opts) *FeedImpl {
	pageSize := opts.Config.Feed.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedImpl{
		API:       opts.API,
		PubSub:    opts.PubSub,
		Validator: opts.Validator,
		Logger:    opts.Logger.WithComponent("FeedEngine"),
		Config:    opts.Config,
		userID:    opts.Config.Feed.UserID,
		pageSize:  pageSize,
		page:      1,
		hasMore:   true,
		likes:     make(map[int]*likeState),
		updates:   make(chan struct{}, 1),
	}
}

var _ feed.Engine = (*FeedImpl)(nil)

func (f *FeedImpl) Organizations(ctx context.Context) ([]domain.Organization, error) {
	orgs, err := f.API.ListOrganizations(ctx)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, feed.CodeLoadFailure, "could not list organizations")
	}
	return orgs, nil
}

func (f *FeedImpl) Subcategories(ctx context.Context) ([]domain.Subcategory, error) {
	f.mu.Lock()
	orgID := f.filter.OrgID
	f.mu.Unlock()
	if orgID == 0 {
		return nil, feed.ErrNoOrganization
	}

	subcats, err := f.API.ListSubcategories(ctx, orgID)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, feed.CodeLoadFailure, "could not list subcategories")
	}
	return subcats, nil
}

func (f *FeedImpl) Snapshot() feed.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := make([]domain.FeedEntry, len(f.entries))
	copy(entries, f.entries)

	likes := make(map[int]feed.LikeSnapshot, len(f.likes))
	for id, ls := range f.likes {
		likes[id] = ls.snapshot()
	}

	return feed.Snapshot{
		Filter:  f.filter,
		Page:    f.page,
		HasMore: f.hasMore,
		Entries: entries,
		Likes:   likes,
	}
}

func (f *FeedImpl) Updates() <-chan struct{} {
	return f.updates
}

// LikeState reports one activity's like state. An activity that is loaded
// but has no reconciled state yet reports its raw entry count.
func (f *FeedImpl) LikeState(activityID int) (feed.LikeSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ls, ok := f.likes[activityID]; ok {
		return ls.snapshot(), true
	}
	for i := range f.entries {
		if f.entries[i].ID == activityID {
			return feed.LikeSnapshot{LikeCount: f.entries[i].Likes}, true
		}
	}
	return feed.LikeSnapshot{}, false
}

func (f *FeedImpl) Close(ctx context.Context) error {
	if f.scheduler != nil {
		if err := f.scheduler.Shutdown(); err != nil {
			f.Logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
		f.scheduler = nil
	}
	return f.unbind(ctx)
}

// notify signals observers that the snapshot changed. Signals are
// coalesced: an already-pending signal absorbs new ones.
func (f *FeedImpl) notify() {
	select {
	case f.updates <- struct{}{}:
	default:
	}
}
