package domain

// Category is the server-side activity category enum.
type Category string

const (
	CategoryAnnouncement Category = "ANNOUNCEMENT"
	CategoryEvent        Category = "EVENT"
	CategoryPrayer       Category = "PRAYER"
	CategoryDonation     Category = "DONATION"
	CategoryJoin         Category = "JOIN"
	CategoryCelebration  Category = "CELEBRATION"
	CategoryService      Category = "SERVICE"
	CategoryEducation    Category = "EDUCATION"
)

// UserSummary is the authoring user as embedded in an activity record.
type UserSummary struct {
	ID        int
	FirstName string
	LastName  string
	AvatarURL string
	Role      string // e.g. "ADMIN", "MEMBER"
	Status    string // e.g. "APPROVED"
}

// ActivityRecord is a server-origin activity. It is immutable once fetched.
// CreatedAt is kept as the raw server string; the transformer parses it and
// falls back to "now" when it is malformed.
type ActivityRecord struct {
	ID              int
	Title           string
	Subtitle        string
	CreatedAt       string
	Category        Category
	Author          UserSummary
	OrgID           int
	OrgName         string
	SubcategoryID   int // 0 when the activity has no subcategory
	SubcategoryName string
	Likes           int
	YouTubeURL      string
	SingleMediaURL  string
	MultiMediaURLs  []string
}

// Author is the display-ready author block of a feed entry.
type Author struct {
	Name      string
	Role      string // "Admin", "Member" or "Volunteer"
	AvatarURL string
}

// FeedEntry is one normalized, display-ready activity. Only Likes is ever
// mutated after creation, as a mirror of the reconciled like count.
type FeedEntry struct {
	ID           int
	Title        string
	Content      string
	Category     Category
	Action       string
	TimeAgo      string
	Author       Author
	Organization string
	Subcategory  string
	Media        Attachment
	Likes        int
}
