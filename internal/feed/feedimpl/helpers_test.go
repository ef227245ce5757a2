package feedimpl_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/feed/feedimpl"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	"github.com/orgball2608/community-feed-engine/internal/validation"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
)

const testUserID = 9

// stubAPI implements activityapi.Client with overridable behavior per
// test. Unset functions return empty results.
type stubAPI struct {
	mu            sync.Mutex
	activityCalls int

	listOrganizations func(ctx context.Context) ([]domain.Organization, error)
	listSubcategories func(ctx context.Context, orgID int) ([]domain.Subcategory, error)
	listActivities    func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error)
	likeStatus        func(ctx context.Context, activityID int) (domain.LikeStatus, error)
	toggleLike        func(ctx context.Context, activityID int) (domain.LikeStatus, error)
	createActivity    func(ctx context.Context, draft domain.ActivityDraft) (domain.ActivityRecord, error)
}

func (s *stubAPI) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if s.listOrganizations == nil {
		return nil, nil
	}
	return s.listOrganizations(ctx)
}

func (s *stubAPI) ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error) {
	if s.listSubcategories == nil {
		return nil, nil
	}
	return s.listSubcategories(ctx, orgID)
}

func (s *stubAPI) ListActivities(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
	s.mu.Lock()
	s.activityCalls++
	s.mu.Unlock()
	if s.listActivities == nil {
		return activityapi.ActivitiesPage{PageCount: 1}, nil
	}
	return s.listActivities(ctx, q)
}

func (s *stubAPI) LikeStatus(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	if s.likeStatus == nil {
		return domain.LikeStatus{ActivityID: activityID}, nil
	}
	return s.likeStatus(ctx, activityID)
}

func (s *stubAPI) ToggleLike(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	if s.toggleLike == nil {
		return domain.LikeStatus{ActivityID: activityID}, nil
	}
	return s.toggleLike(ctx, activityID)
}

func (s *stubAPI) CreateActivity(ctx context.Context, draft domain.ActivityDraft) (domain.ActivityRecord, error) {
	if s.createActivity == nil {
		return domain.ActivityRecord{}, nil
	}
	return s.createActivity(ctx, draft)
}

func (s *stubAPI) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activityCalls
}

// fakePubSub records subscribe/unsubscribe operations in order and keeps
// the most recent handler so tests can inject broadcasts.
type fakePubSub struct {
	mu      sync.Mutex
	ops     []string
	handler pubsub.Handler
	channel string
	failSub bool
}

type fakeSubscription struct {
	ps      *fakePubSub
	channel string
}

func (s *fakeSubscription) Unsubscribe(ctx context.Context) error {
	s.ps.mu.Lock()
	defer s.ps.mu.Unlock()
	s.ps.ops = append(s.ps.ops, "unsubscribe "+s.channel)
	if s.ps.channel == s.channel {
		s.ps.handler = nil
		s.ps.channel = ""
	}
	return nil
}

func (ps *fakePubSub) Subscribe(ctx context.Context, channel, event string, handler pubsub.Handler) (pubsub.Subscription, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.failSub {
		return nil, fmt.Errorf("broker unreachable")
	}
	ps.ops = append(ps.ops, "subscribe "+channel)
	ps.handler = handler
	ps.channel = channel
	return &fakeSubscription{ps: ps, channel: channel}, nil
}

func (ps *fakePubSub) Publish(ctx context.Context, channel, event string, payload any) error {
	return nil
}

func (ps *fakePubSub) operations() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]string, len(ps.ops))
	copy(out, ps.ops)
	return out
}

// emit delivers a like-update broadcast through the active handler, the
// way the broker's receive loop would.
func (ps *fakePubSub) emit(t *testing.T, upd domain.LikeUpdate) {
	t.Helper()
	ps.mu.Lock()
	handler := ps.handler
	channel := ps.channel
	ps.mu.Unlock()
	if handler == nil {
		t.Fatal("no active subscription to emit on")
	}
	data, err := json.Marshal(upd)
	if err != nil {
		t.Fatal(err)
	}
	handler(pubsub.Message{Channel: channel, Event: pubsub.EventLikeUpdate, Data: data})
}

func newTestEngine(t *testing.T, api *stubAPI, ps *fakePubSub) *feedimpl.FeedImpl {
	t.Helper()
	cfg := &config.Config{}
	cfg.Feed.UserID = testUserID
	cfg.Feed.PageSize = 10
	cfg.Feed.RefreshInterval = time.Minute

	return feedimpl.New(feedimpl.Opts{
		API:       api,
		PubSub:    ps,
		Validator: validation.New(),
		Logger:    logger.FromSlog(slogt.New(t)),
		Config:    cfg,
	})
}

// makePage builds n records with sequential ids starting at firstID.
func makePage(orgID, firstID, n, pageCount int) activityapi.ActivitiesPage {
	records := make([]domain.ActivityRecord, n)
	for i := range records {
		records[i] = domain.ActivityRecord{
			ID:        firstID + i,
			Title:     fmt.Sprintf("Activity %d", firstID+i),
			CreatedAt: time.Now().Add(-time.Hour).Format(time.RFC3339),
			Category:  domain.CategoryEvent,
			OrgID:     orgID,
			Likes:     3,
		}
	}
	return activityapi.ActivitiesPage{Records: records, PageCount: pageCount}
}
