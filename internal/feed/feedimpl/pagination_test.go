package feedimpl_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
)

func TestSelectOrganizationLoadsFirstPage(t *testing.T) {
	api := &stubAPI{
		listActivities: func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
			if q.OrgID != 5 || q.Page != 1 || q.PageSize != 10 {
				t.Errorf("unexpected query: %+v", q)
			}
			return makePage(5, 100, 10, 3), nil
		},
	}
	eng := newTestEngine(t, api, &fakePubSub{})

	if err := eng.SelectOrganization(context.Background(), 5); err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if len(snap.Entries) != 10 {
		t.Errorf("entries = %d, want 10", len(snap.Entries))
	}
	if snap.Page != 1 {
		t.Errorf("page = %d, want 1", snap.Page)
	}
	if !snap.HasMore {
		t.Error("hasMore = false, want true")
	}
}

func TestSelectSameOrganizationIsNoOp(t *testing.T) {
	api := &stubAPI{
		listActivities: func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
			return makePage(5, 100, 2, 1), nil
		},
	}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}
	before := api.calls()

	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if api.calls() != before {
		t.Error("re-selecting the current organization triggered a load")
	}
}

func TestFilterChangeResetsBeforeFetch(t *testing.T) {
	api := &stubAPI{}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	api.listActivities = func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
		return makePage(5, 100, 10, 3), nil
	}
	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if err := eng.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}

	// The reset must be observable at the time the new filter's fetch is
	// issued: the engine releases its state lock around I/O, so the stub
	// can inspect the snapshot mid-flight.
	api.listActivities = func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
		snap := eng.Snapshot()
		if len(snap.Entries) != 0 {
			t.Errorf("entries not cleared before fetch: %d left", len(snap.Entries))
		}
		if snap.Page != 1 {
			t.Errorf("page = %d at fetch time, want 1", snap.Page)
		}
		if !snap.HasMore {
			t.Error("hasMore = false at fetch time, want true")
		}
		return makePage(5, 500, 4, 1), nil
	}
	if err := eng.SelectSubcategory(ctx, 3); err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if want := (domain.FilterKey{OrgID: 5, SubcategoryID: 3}); snap.Filter != want {
		t.Errorf("filter = %+v, want %+v", snap.Filter, want)
	}
	if len(snap.Entries) != 4 {
		t.Errorf("entries = %d, want 4", len(snap.Entries))
	}
}

func TestLoadMoreAppendsAndAdvances(t *testing.T) {
	api := &stubAPI{
		listActivities: func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
			return makePage(5, q.Page*100, 10, 2), nil
		},
	}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if err := eng.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if len(snap.Entries) != 20 {
		t.Errorf("entries = %d, want 20", len(snap.Entries))
	}
	if snap.Page != 2 {
		t.Errorf("page = %d, want 2", snap.Page)
	}
	if snap.HasMore {
		t.Error("hasMore = true after final page, want false")
	}

	// Nothing more to load: no further API call.
	before := api.calls()
	if err := eng.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}
	if api.calls() != before {
		t.Error("LoadMore fetched past the final page")
	}
}

func TestFailedLoadKeepsPriorState(t *testing.T) {
	api := &stubAPI{
		listActivities: func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
			return makePage(5, 100, 10, 3), nil
		},
	}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}

	api.listActivities = func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
		return activityapi.ActivitiesPage{}, fmt.Errorf("upstream down")
	}
	err := eng.Refresh(ctx)
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if code := apperrors.GetCode(err); code != "LOAD_FAILURE" {
		t.Errorf("error code = %q, want LOAD_FAILURE", code)
	}

	snap := eng.Snapshot()
	if len(snap.Entries) != 10 {
		t.Errorf("entries = %d after failed refresh, want 10", len(snap.Entries))
	}
	if snap.Page != 1 || !snap.HasMore {
		t.Errorf("pagination disturbed by failed refresh: page=%d hasMore=%v", snap.Page, snap.HasMore)
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{
		listActivities: func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
			if q.OrgID == 5 {
				close(started)
				<-release
				return makePage(5, 100, 10, 3), nil
			}
			return makePage(7, 700, 3, 1), nil
		},
	}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- eng.SelectOrganization(ctx, 5)
	}()
	<-started

	// Supersede the in-flight load, then let it resolve.
	if err := eng.SelectOrganization(ctx, 7); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if want := (domain.FilterKey{OrgID: 7}); snap.Filter != want {
		t.Fatalf("filter = %+v, want %+v", snap.Filter, want)
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("entries = %d, want only org 7's 3", len(snap.Entries))
	}
	for _, e := range snap.Entries {
		if e.ID >= 100 && e.ID < 200 {
			t.Errorf("stale org 5 entry %d applied after filter change", e.ID)
		}
	}
}

func TestConcurrentLoadsAreCoalesced(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{}
	eng := newTestEngine(t, api, &fakePubSub{})
	ctx := context.Background()

	api.listActivities = func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
		return makePage(5, 100, 10, 3), nil
	}
	if err := eng.SelectOrganization(ctx, 5); err != nil {
		t.Fatal(err)
	}
	before := api.calls()

	api.listActivities = func(ctx context.Context, q activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
		close(started)
		<-release
		return makePage(5, 200, 10, 3), nil
	}
	done := make(chan error, 1)
	go func() {
		done <- eng.LoadMore(ctx)
	}()
	<-started

	// Second request while the first is in flight: coalesced, no call.
	if err := eng.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if got := api.calls() - before; got != 1 {
		t.Errorf("in-flight window issued %d loads, want 1", got)
	}
}

func TestLoadMoreWithoutOrganization(t *testing.T) {
	api := &stubAPI{}
	eng := newTestEngine(t, api, &fakePubSub{})

	if err := eng.LoadMore(context.Background()); err != nil {
		t.Fatal(err)
	}
	if api.calls() != 0 {
		t.Error("LoadMore fetched without a selected organization")
	}
}
