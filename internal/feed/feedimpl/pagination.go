package feedimpl

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/transform"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
)

// SelectOrganization switches the filter key to (orgID, no subcategory),
// rebinds the broadcast channel and loads page 1. The reset of entries,
// page and hasMore happens atomically before any fetch resolves.
func (f *FeedImpl) SelectOrganization(ctx context.Context, orgID int) error {
	f.mu.Lock()
	if f.filter.OrgID == orgID {
		f.mu.Unlock()
		return nil
	}
	f.resetLocked(domain.FilterKey{OrgID: orgID})
	f.mu.Unlock()
	f.notify()

	// A failed binding degrades to manual/scheduled refresh; the feed
	// itself stays usable.
	if err := f.bind(ctx, orgID); err != nil {
		f.Logger.Warn("Realtime subscription unavailable, continuing without it", "org_id", orgID, "error", err)
	}

	if orgID == 0 {
		return nil
	}
	return f.loadPage(ctx, 1)
}

// SelectSubcategory narrows the current organization's feed. The
// organization binding is untouched; only pagination state resets.
func (f *FeedImpl) SelectSubcategory(ctx context.Context, subcategoryID int) error {
	f.mu.Lock()
	if f.filter.OrgID == 0 {
		f.mu.Unlock()
		return feed.ErrNoOrganization
	}
	if f.filter.SubcategoryID == subcategoryID {
		f.mu.Unlock()
		return nil
	}
	f.resetLocked(domain.FilterKey{OrgID: f.filter.OrgID, SubcategoryID: subcategoryID})
	f.mu.Unlock()
	f.notify()

	return f.loadPage(ctx, 1)
}

// LoadMore fetches the next page. No-op while nothing more is available
// or a load is already in flight.
func (f *FeedImpl) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.hasMore || f.loading || f.filter.OrgID == 0 {
		f.mu.Unlock()
		return nil
	}
	next := f.page + 1
	f.mu.Unlock()

	return f.loadPage(ctx, next)
}

// Refresh re-runs page 1 for the current filter key. Entries are replaced
// on success, not cleared up front, so a failed refresh leaves the prior
// feed visible.
func (f *FeedImpl) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.filter.OrgID == 0 {
		f.mu.Unlock()
		return feed.ErrNoOrganization
	}
	f.mu.Unlock()

	return f.loadPage(ctx, 1)
}

// resetLocked installs a new filter key: entries cleared, page 1, more
// available, like state discarded, in-flight loads invalidated via the
// epoch bump. Callers hold f.mu.
func (f *FeedImpl) resetLocked(key domain.FilterKey) {
	f.filter = key
	f.epoch++
	f.page = 1
	f.hasMore = true
	f.loading = false
	f.entries = nil
	f.likes = make(map[int]*likeState)
}

// loadPage fetches one page and applies it, unless the filter key changed
// while the fetch was in flight. Page 1 replaces entries, later pages
// append. Concurrent loads for the same filter key are coalesced.
func (f *FeedImpl) loadPage(ctx context.Context, pageNum int) error {
	f.mu.Lock()
	if f.filter.OrgID == 0 {
		f.mu.Unlock()
		return feed.ErrNoOrganization
	}
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	epoch := f.epoch
	q := activityapi.ActivitiesQuery{
		OrgID:         f.filter.OrgID,
		SubcategoryID: f.filter.SubcategoryID,
		Page:          pageNum,
		PageSize:      f.pageSize,
	}
	f.mu.Unlock()

	page, err := f.API.ListActivities(ctx, q)

	f.mu.Lock()
	if f.epoch != epoch {
		f.mu.Unlock()
		f.Logger.Debug("Discarding page load for superseded filter", "org_id", q.OrgID, "page", pageNum)
		return nil
	}
	f.loading = false
	if err != nil {
		f.mu.Unlock()
		return apperrors.WrapWithCode(err, feed.CodeLoadFailure, "could not load activities page")
	}

	now := time.Now()
	entries := make([]domain.FeedEntry, len(page.Records))
	ids := make([]int, len(page.Records))
	for i, rec := range page.Records {
		entries[i] = transform.Entry(rec, now)
		ids[i] = rec.ID
	}
	if pageNum == 1 {
		f.entries = entries
	} else {
		f.entries = append(f.entries, entries...)
	}
	f.page = pageNum
	f.hasMore = pageNum < page.PageCount
	f.mu.Unlock()
	f.notify()

	f.loadLikeStatuses(ctx, epoch, ids)
	return nil
}

// loadLikeStatuses fetches the like state of one page's activities. Items
// fan out concurrently; a per-item failure defaults that item to a
// neutral state and never fails the batch.
func (f *FeedImpl) loadLikeStatuses(ctx context.Context, epoch uint64, ids []int) {
	if len(ids) == 0 {
		return
	}

	statuses := make([]domain.LikeStatus, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			status, err := f.API.LikeStatus(ctx, id)
			if err != nil {
				f.Logger.Debug("Like status fetch failed, defaulting to neutral", "activity_id", id, "error", err)
				status = domain.LikeStatus{ActivityID: id}
			}
			statuses[i] = status
		}(i, id)
	}
	wg.Wait()

	f.mu.Lock()
	if f.epoch != epoch {
		f.mu.Unlock()
		return
	}
	for _, status := range statuses {
		ls, ok := f.likes[status.ActivityID]
		if ok && ls.pending {
			// A toggle round-trip owns this activity's state right now.
			continue
		}
		if !ok {
			ls = &likeState{}
			f.likes[status.ActivityID] = ls
		}
		ls.count = status.LikeCount
		ls.liked = status.IsLiked
		f.mirrorLikesLocked(status.ActivityID, status.LikeCount)
	}
	f.mu.Unlock()
	f.notify()
}
