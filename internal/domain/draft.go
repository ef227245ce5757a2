package domain

// Draft content types, as selected in the composer.
const (
	ContentTypeText    = "TEXT"
	ContentTypeYouTube = "YOUTUBE"
	ContentTypeMedia   = "MEDIA"
)

// Upload modes for ContentTypeMedia drafts.
const (
	UploadModeSingle = "single"
	UploadModeMulti  = "multi"
)

// ActivityDraft is a locally composed activity, validated before it is
// submitted to the data-access collaborator.
type ActivityDraft struct {
	Title          string   `validate:"required"`
	Subtitle       string   `validate:""`
	Category       Category `validate:"required"`
	OrgID          int      `validate:"required"`
	SubcategoryID  int      `validate:"required"`
	ContentType    string   `validate:"required,oneof=TEXT YOUTUBE MEDIA"`
	YouTubeURL     string   `validate:"required_if=ContentType YOUTUBE"`
	UploadMode     string   `validate:"omitempty,oneof=single multi"`
	SingleMediaURL string
	MultiMediaURLs []string
}
