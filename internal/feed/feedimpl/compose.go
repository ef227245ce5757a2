package feedimpl

import (
	"context"
	"time"

	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/transform"
	apperrors "github.com/orgball2608/community-feed-engine/pkg/errors"
)

// ComposeActivity validates the draft locally, submits it and prepends
// the transformed entry to the feed, then triggers a refresh-equivalent
// invalidation so the composed entry is replaced by its server-side
// rendition on the next page 1.
func (f *FeedImpl) ComposeActivity(ctx context.Context, draft domain.ActivityDraft) (domain.FeedEntry, error) {
	if errs := f.Validator.ValidateDraft(draft); len(errs) > 0 {
		fields := make([]feed.FieldReason, len(errs))
		for i, e := range errs {
			fields[i] = feed.FieldReason{Field: e.Field, Message: e.Message}
		}
		return domain.FeedEntry{}, &feed.ValidationError{Fields: fields}
	}

	f.mu.Lock()
	epoch := f.epoch
	f.mu.Unlock()

	rec, err := f.API.CreateActivity(ctx, draft)
	if err != nil {
		return domain.FeedEntry{}, apperrors.WrapWithCode(err, feed.CodeComposeFailure, "could not create activity")
	}

	entry := transform.Entry(rec, time.Now())

	f.mu.Lock()
	if f.epoch == epoch {
		f.entries = append([]domain.FeedEntry{entry}, f.entries...)
	}
	f.mu.Unlock()
	f.notify()

	if err := f.Refresh(ctx); err != nil {
		f.Logger.Warn("Post-compose refresh failed", "activity_id", rec.ID, "error", err)
	}
	return entry, nil
}
