// Package transform normalizes raw activity records into display-ready
// feed entries.
package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/internal/media"
)

const defaultAvatarURL = "/default-avatar.png"

var actionPhrases = map[domain.Category]string{
	domain.CategoryAnnouncement: "made an announcement",
	domain.CategoryEvent:        "created an event",
	domain.CategoryPrayer:       "shared a prayer",
	domain.CategoryDonation:     "made a donation",
	domain.CategoryJoin:         "joined the community",
	domain.CategoryCelebration:  "shared a celebration",
	domain.CategoryService:      "organized a service",
	domain.CategoryEducation:    "shared educational content",
}

// ActionPhrase maps a category to its fixed action phrase. Unknown
// categories map to a generic phrase.
func ActionPhrase(c domain.Category) string {
	if phrase, ok := actionPhrases[c]; ok {
		return phrase
	}
	return "shared an update"
}

// DisplayName resolves the author's display name from first/last name,
// falling back to "Unknown User" when both are absent.
func DisplayName(u domain.UserSummary) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "Unknown User"
	}
	return name
}

// RoleLabel maps the raw role/status pair to a display role.
func RoleLabel(u domain.UserSummary) string {
	switch {
	case u.Role == "ADMIN":
		return "Admin"
	case u.Status == "APPROVED":
		return "Member"
	default:
		return "Volunteer"
	}
}

// TimeAgo renders a relative time string for createdAt against now. A
// malformed timestamp is treated as now rather than an error.
func TimeAgo(createdAt string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		t = now
	}

	minutes := int(now.Sub(t).Minutes())
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("1/2/2006")
}

// Entry transforms a raw record into a feed entry, resolving the author
// block, action phrase, relative time and media attachment.
func Entry(rec domain.ActivityRecord, now time.Time) domain.FeedEntry {
	avatar := rec.Author.AvatarURL
	if avatar == "" {
		avatar = defaultAvatarURL
	}

	return domain.FeedEntry{
		ID:       rec.ID,
		Title:    rec.Title,
		Content:  rec.Subtitle,
		Category: rec.Category,
		Action:   ActionPhrase(rec.Category),
		TimeAgo:  TimeAgo(rec.CreatedAt, now),
		Author: domain.Author{
			Name:      DisplayName(rec.Author),
			Role:      RoleLabel(rec.Author),
			AvatarURL: avatar,
		},
		Organization: rec.OrgName,
		Subcategory:  rec.SubcategoryName,
		Media:        media.Classify(rec),
		Likes:        rec.Likes,
	}
}
