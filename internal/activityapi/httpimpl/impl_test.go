package httpimpl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/neilotoole/slogt"
	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPImpl {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Source.BaseURL = srv.URL
	cfg.Source.Token = "test-token"
	cfg.Source.Timeout = 5 * time.Second

	cli := New(Opts{Config: cfg, Logger: logger.FromSlog(slogt.New(t))})
	// Keep test failures fast.
	cli.retryCfg.MaxRetries = 0
	return cli
}

func TestListActivities(t *testing.T) {
	cli := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/activities" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("orgId") != "5" || q.Get("page") != "1" || q.Get("pageSize") != "10" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{
				"id": 42,
				"title": "Diwali Celebration",
				"subtitle": "Festival of lights",
				"createdAt": "2025-06-15T10:00:00Z",
				"category": "CELEBRATION",
				"youtubeurl": "https://youtu.be/dQw4w9WgXcQ",
				"likes": 12,
				"user": {
					"id": 7,
					"first_name": "Asha",
					"last_name": "Patel",
					"profilePicture": {"url": "https://cdn.example.com/asha.jpg"},
					"userrole": "ADMIN",
					"userstatus": "APPROVED"
				},
				"temple": {"id": 5, "name": "Shree Mandir"},
				"subcategory": {"id": 3, "name": "Festivals"}
			}],
			"meta": {"pagination": {"page": 1, "pageSize": 10, "pageCount": 3, "total": 25}}
		}`))
	}))

	page, err := cli.ListActivities(context.Background(), activityapi.ActivitiesQuery{
		OrgID: 5, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if page.PageCount != 3 {
		t.Errorf("pageCount = %d, want 3", page.PageCount)
	}

	want := []domain.ActivityRecord{{
		ID:        42,
		Title:     "Diwali Celebration",
		Subtitle:  "Festival of lights",
		CreatedAt: "2025-06-15T10:00:00Z",
		Category:  domain.CategoryCelebration,
		Author: domain.UserSummary{
			ID:        7,
			FirstName: "Asha",
			LastName:  "Patel",
			AvatarURL: "https://cdn.example.com/asha.jpg",
			Role:      "ADMIN",
			Status:    "APPROVED",
		},
		OrgID:           5,
		OrgName:         "Shree Mandir",
		SubcategoryID:   3,
		SubcategoryName: "Festivals",
		Likes:           12,
		YouTubeURL:      "https://youtu.be/dQw4w9WgXcQ",
	}}
	if diff := cmp.Diff(want, page.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleLike(t *testing.T) {
	cli := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/activities/42/toggle-like" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true, "data": {"likeCount": 4, "isLiked": true}}`))
	}))

	status, err := cli.ToggleLike(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.LikeStatus{ActivityID: 42, LikeCount: 4, IsLiked: true}
	if status != want {
		t.Errorf("status = %+v, want %+v", status, want)
	}
}

func TestLikeStatusNotFound(t *testing.T) {
	cli := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := cli.LikeStatus(context.Background(), 99)
	if !errors.Is(err, activityapi.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	cli := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := cli.ListOrganizations(context.Background())
	if !errors.Is(err, activityapi.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
