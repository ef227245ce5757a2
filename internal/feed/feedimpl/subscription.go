package feedimpl

import (
	"context"

	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
)

// bind points the engine's single broadcast binding at orgID's channel.
// The previous binding is always unsubscribed before the new one is
// created, so rapid organization switches never double-deliver. An orgID
// of 0 leaves no channel active.
func (f *FeedImpl) bind(ctx context.Context, orgID int) error {
	f.bindMu.Lock()
	defer f.bindMu.Unlock()

	if f.sub != nil && f.boundOrg == orgID {
		return nil
	}

	if f.sub != nil {
		if err := f.sub.Unsubscribe(ctx); err != nil {
			f.Logger.Warn("Failed to unsubscribe previous channel", "org_id", f.boundOrg, "error", err)
		}
		f.sub = nil
		f.boundOrg = 0
	}

	if orgID == 0 {
		return nil
	}

	sub, err := f.PubSub.Subscribe(ctx, pubsub.OrgChannel(orgID), pubsub.EventLikeUpdate, f.handleLikeUpdate)
	if err != nil {
		return apperrors.WrapWithCode(err, feed.CodeSubscriptionFailure, "could not subscribe to activity channel")
	}

	f.sub = sub
	f.boundOrg = orgID
	f.Logger.Info("Bound activity channel", "org_id", orgID)
	return nil
}

func (f *FeedImpl) unbind(ctx context.Context) error {
	return f.bind(ctx, 0)
}
