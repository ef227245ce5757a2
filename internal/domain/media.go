package domain

// AttachmentKind enumerates the display-media variants of an activity.
type AttachmentKind string

const (
	MediaNone     AttachmentKind = "none"
	MediaYouTube  AttachmentKind = "youtube"
	MediaImage    AttachmentKind = "image"
	MediaImageSet AttachmentKind = "images"
)

// Attachment is the resolved media of a feed entry. Exactly one variant
// applies per activity; which fields are set depends on Kind.
type Attachment struct {
	Kind      AttachmentKind
	VideoID   string   // MediaYouTube
	SourceURL string   // MediaYouTube
	URL       string   // MediaImage
	URLs      []string // MediaImageSet, non-empty
}

// IsZero reports whether the attachment is the None variant.
func (a Attachment) IsZero() bool {
	return a.Kind == "" || a.Kind == MediaNone
}
