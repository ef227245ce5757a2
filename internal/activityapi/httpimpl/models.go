package httpimpl

import (
	"github.com/orgball2608/community-feed-engine/internal/domain"
)

// Wire shapes of the activity backend. Media and author blocks arrive as
// nested objects; absent blocks decode to nil.

type wireMedia struct {
	URL string `json:"url"`
}

type wireUser struct {
	ID             int        `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	ProfilePicture *wireMedia `json:"profilePicture"`
	UserRole       string     `json:"userrole"`
	UserStatus     string     `json:"userstatus"`
}

type wireRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wireActivity struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	CreatedAt   string      `json:"createdAt"`
	Category    string      `json:"category"`
	YouTubeURL  string      `json:"youtubeurl"`
	SingleMedia *wireMedia  `json:"singlemedia"`
	MultiMedia  []wireMedia `json:"multimedia"`
	Likes       int         `json:"likes"`
	User        *wireUser   `json:"user"`
	Temple      *wireRef    `json:"temple"`
	Subcategory *wireRef    `json:"subcategory"`
}

func (w wireActivity) toDomain() domain.ActivityRecord {
	rec := domain.ActivityRecord{
		ID:         w.ID,
		Title:      w.Title,
		Subtitle:   w.Subtitle,
		CreatedAt:  w.CreatedAt,
		Category:   domain.Category(w.Category),
		Likes:      w.Likes,
		YouTubeURL: w.YouTubeURL,
	}
	if w.User != nil {
		rec.Author = domain.UserSummary{
			ID:        w.User.ID,
			FirstName: w.User.FirstName,
			LastName:  w.User.LastName,
			Role:      w.User.UserRole,
			Status:    w.User.UserStatus,
		}
		if w.User.ProfilePicture != nil {
			rec.Author.AvatarURL = w.User.ProfilePicture.URL
		}
	}
	if w.Temple != nil {
		rec.OrgID = w.Temple.ID
		rec.OrgName = w.Temple.Name
	}
	if w.Subcategory != nil {
		rec.SubcategoryID = w.Subcategory.ID
		rec.SubcategoryName = w.Subcategory.Name
	}
	if w.SingleMedia != nil {
		rec.SingleMediaURL = w.SingleMedia.URL
	}
	for _, m := range w.MultiMedia {
		rec.MultiMediaURLs = append(rec.MultiMediaURLs, m.URL)
	}
	return rec
}

type wireOrganization struct {
	ID         int `json:"id"`
	Attributes struct {
		Name string `json:"name"`
	} `json:"attributes"`
}

type wireSubcategory struct {
	ID         int `json:"id"`
	Attributes struct {
		Name   string `json:"name"`
		NameHi string `json:"name_hi"`
		Icon   string `json:"icon"`
	} `json:"attributes"`
}

type wirePagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}
