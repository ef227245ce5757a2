// Package media classifies an activity's raw media fields into exactly one
// display attachment variant. Classification precedence is fixed: a
// parseable YouTube URL wins over a single image, which wins over a
// multi-image set.
package media

import (
	"regexp"

	"github.com/orgball2608/community-feed-engine/internal/domain"
)

// youtubeIDPattern accepts the common YouTube URL shapes: watch?v=,
// youtu.be/, embed/, /v/, /u/<x>/ and &v=.
var youtubeIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// youtubeIDLength is the exact token length of a valid video id.
const youtubeIDLength = 11

// YouTubeVideoID extracts the video id from url. It returns "" when the
// URL has no recognizable shape or the extracted token is not exactly 11
// characters long.
func YouTubeVideoID(url string) string {
	if url == "" {
		return ""
	}
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[1]) != youtubeIDLength {
		return ""
	}
	return m[1]
}

// Classify maps a record to its attachment. It is deterministic and total:
// every record yields exactly one variant, even when multiple source
// fields are populated at once.
func Classify(rec domain.ActivityRecord) domain.Attachment {
	if id := YouTubeVideoID(rec.YouTubeURL); id != "" {
		return domain.Attachment{
			Kind:      domain.MediaYouTube,
			VideoID:   id,
			SourceURL: rec.YouTubeURL,
		}
	}
	if rec.SingleMediaURL != "" {
		return domain.Attachment{
			Kind: domain.MediaImage,
			URL:  rec.SingleMediaURL,
		}
	}
	if len(rec.MultiMediaURLs) > 0 {
		return domain.Attachment{
			Kind: domain.MediaImageSet,
			URLs: rec.MultiMediaURLs,
		}
	}
	return domain.Attachment{Kind: domain.MediaNone}
}
