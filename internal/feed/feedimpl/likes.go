package feedimpl

import (
	"context"
	"encoding/json"

	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
)

// likeState is the per-activity reconciler state. Idle when pending is
// false; Pending (an optimistic round-trip in flight) when true, with
// prev holding the exact rollback snapshot.
type likeState struct {
	count   int
	liked   bool
	pending bool
	prev    struct {
		count int
		liked bool
	}
}

func (ls *likeState) snapshot() feed.LikeSnapshot {
	return feed.LikeSnapshot{
		LikeCount: ls.count,
		IsLiked:   ls.liked,
		IsLoading: ls.pending,
	}
}

// ToggleLike applies the optimistic mutation, issues the toggle request
// and reconciles: the server's confirmation is adopted verbatim on
// success, the stored snapshot restored exactly on failure. A toggle is
// rejected while a previous one for the same activity is unresolved.
func (f *FeedImpl) ToggleLike(ctx context.Context, activityID int) error {
	f.mu.Lock()
	ls, ok := f.likes[activityID]
	if !ok {
		ls = &likeState{}
		for i := range f.entries {
			if f.entries[i].ID == activityID {
				ls.count = f.entries[i].Likes
				break
			}
		}
		f.likes[activityID] = ls
	}
	if ls.pending {
		f.mu.Unlock()
		return feed.ErrToggleInFlight
	}

	ls.prev.count, ls.prev.liked = ls.count, ls.liked
	if ls.liked {
		if ls.count > 0 {
			ls.count--
		}
	} else {
		ls.count++
	}
	ls.liked = !ls.liked
	ls.pending = true
	f.mirrorLikesLocked(activityID, ls.count)
	f.mu.Unlock()
	f.notify()

	status, err := f.API.ToggleLike(ctx, activityID)

	f.mu.Lock()
	cur, live := f.likes[activityID]
	if !live || cur != ls || !ls.pending {
		// Superseded by a filter change or resolved by the user's own
		// broadcast from another session; nothing left to reconcile.
		f.mu.Unlock()
		if err != nil {
			return apperrors.WrapWithCode(err, feed.CodeToggleFailure, "could not toggle like")
		}
		return nil
	}

	if err != nil {
		ls.count, ls.liked = ls.prev.count, ls.prev.liked
		ls.pending = false
		f.mirrorLikesLocked(activityID, ls.count)
		f.mu.Unlock()
		f.notify()
		return apperrors.WrapWithCode(err, feed.CodeToggleFailure, "could not toggle like")
	}

	ls.count = status.LikeCount
	ls.liked = status.IsLiked
	ls.pending = false
	f.mirrorLikesLocked(activityID, ls.count)
	f.mu.Unlock()
	f.notify()
	return nil
}

// handleLikeUpdate applies one broadcast. The like count is globally
// shared and always adopted. IsLiked reflects the receiving user's own
// relationship to the activity: it is adopted only when the broadcast
// describes this user's action performed elsewhere, in which case any
// in-flight optimistic toggle is resolved by it as well.
func (f *FeedImpl) handleLikeUpdate(msg pubsub.Message) {
	var upd domain.LikeUpdate
	if err := json.Unmarshal(msg.Data, &upd); err != nil {
		f.Logger.Warn("Dropping malformed like-update broadcast", "channel", msg.Channel, "error", err)
		return
	}

	f.mu.Lock()
	ls, ok := f.likes[upd.ActivityID]
	if !ok {
		ls = &likeState{}
		f.likes[upd.ActivityID] = ls
	}
	ls.count = upd.LikeCount
	if upd.UserID == f.userID {
		ls.liked = upd.IsLiked
		ls.pending = false
	}
	f.mirrorLikesLocked(upd.ActivityID, ls.count)
	f.mu.Unlock()
	f.notify()
}

// mirrorLikesLocked keeps the entry's display counter aligned with the
// reconciled like state. Callers hold f.mu.
func (f *FeedImpl) mirrorLikesLocked(activityID, count int) {
	for i := range f.entries {
		if f.entries[i].ID == activityID {
			f.entries[i].Likes = count
			return
		}
	}
}
