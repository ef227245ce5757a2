package fx

import (
	"github.com/orgball2608/community-feed-engine/internal/repositories/activity"
	"github.com/orgball2608/community-feed-engine/internal/repositories/directory"
	"github.com/orgball2608/community-feed-engine/internal/repositories/like"
	"go.uber.org/fx"
)

var Module = fx.Options(
	activity.Module,
	directory.Module,
	like.Module,
)
