// Package httpimpl implements the data-access collaborator against the
// community backend's REST API.
package httpimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/domain"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
	"github.com/orgball2608/community-feed-engine/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type HTTPImpl struct {
	baseURL  string
	token    string
	http     *http.Client
	retryCfg retry.Config
	Logger   logger.Logger
}

func New(opts Opts) *HTTPImpl {
	return &HTTPImpl{
		baseURL:  opts.Config.Source.BaseURL,
		token:    opts.Config.Source.Token,
		http:     &http.Client{Timeout: opts.Config.Source.Timeout},
		retryCfg: retry.DefaultConfig(),
		Logger:   opts.Logger.WithComponent("ActivityAPI"),
	}
}

var _ activityapi.Client = (*HTTPImpl)(nil)

func (c *HTTPImpl) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var res struct {
		Data []wireOrganization `json:"data"`
	}
	if err := c.get(ctx, "/api/organizations", nil, &res); err != nil {
		return nil, err
	}

	orgs := make([]domain.Organization, len(res.Data))
	for i, w := range res.Data {
		orgs[i] = domain.Organization{ID: w.ID, Name: w.Attributes.Name}
	}
	return orgs, nil
}

func (c *HTTPImpl) ListSubcategories(ctx context.Context, orgID int) ([]domain.Subcategory, error) {
	var res struct {
		Data []wireSubcategory `json:"data"`
	}
	q := url.Values{"orgId": {strconv.Itoa(orgID)}}
	if err := c.get(ctx, "/api/subcategories", q, &res); err != nil {
		return nil, err
	}

	subcats := make([]domain.Subcategory, len(res.Data))
	for i, w := range res.Data {
		name := w.Attributes.Name
		if w.Attributes.NameHi != "" {
			name = fmt.Sprintf("%s(%s)", w.Attributes.NameHi, w.Attributes.Name)
		}
		icon := w.Attributes.Icon
		if icon == "" {
			icon = "🏷️"
		}
		subcats[i] = domain.Subcategory{ID: w.ID, Name: name, Icon: icon}
	}
	return subcats, nil
}

func (c *HTTPImpl) ListActivities(ctx context.Context, query activityapi.ActivitiesQuery) (activityapi.ActivitiesPage, error) {
	var res struct {
		Data []wireActivity `json:"data"`
		Meta struct {
			Pagination wirePagination `json:"pagination"`
		} `json:"meta"`
	}

	q := url.Values{
		"orgId":    {strconv.Itoa(query.OrgID)},
		"page":     {strconv.Itoa(query.Page)},
		"pageSize": {strconv.Itoa(query.PageSize)},
	}
	if query.SubcategoryID != 0 {
		q.Set("subcategoryId", strconv.Itoa(query.SubcategoryID))
	}
	if err := c.get(ctx, "/api/activities", q, &res); err != nil {
		return activityapi.ActivitiesPage{}, err
	}

	records := make([]domain.ActivityRecord, len(res.Data))
	for i, w := range res.Data {
		records[i] = w.toDomain()
	}
	pageCount := res.Meta.Pagination.PageCount
	if pageCount == 0 {
		pageCount = 1
	}
	return activityapi.ActivitiesPage{Records: records, PageCount: pageCount}, nil
}

func (c *HTTPImpl) LikeStatus(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	var status domain.LikeStatus
	path := fmt.Sprintf("/api/activities/%d/like-status", activityID)
	if err := c.get(ctx, path, nil, &status); err != nil {
		return domain.LikeStatus{}, err
	}
	status.ActivityID = activityID
	return status, nil
}

func (c *HTTPImpl) ToggleLike(ctx context.Context, activityID int) (domain.LikeStatus, error) {
	var res struct {
		Success bool `json:"success"`
		Data    struct {
			LikeCount int  `json:"likeCount"`
			IsLiked   bool `json:"isLiked"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/api/activities/%d/toggle-like", activityID)
	if err := c.post(ctx, path, nil, &res); err != nil {
		return domain.LikeStatus{}, err
	}
	if !res.Success {
		return domain.LikeStatus{}, fmt.Errorf("toggle like %d: backend reported failure", activityID)
	}
	return domain.LikeStatus{
		ActivityID: activityID,
		LikeCount:  res.Data.LikeCount,
		IsLiked:    res.Data.IsLiked,
	}, nil
}

func (c *HTTPImpl) CreateActivity(ctx context.Context, draft domain.ActivityDraft) (domain.ActivityRecord, error) {
	body := map[string]any{
		"title":       draft.Title,
		"subtitle":    draft.Subtitle,
		"category":    draft.Category,
		"orgId":       draft.OrgID,
		"subcategory": draft.SubcategoryID,
	}
	switch draft.ContentType {
	case domain.ContentTypeYouTube:
		body["youtubeurl"] = draft.YouTubeURL
	case domain.ContentTypeMedia:
		if draft.UploadMode == domain.UploadModeMulti {
			body["multimedia"] = draft.MultiMediaURLs
		} else {
			body["singlemedia"] = draft.SingleMediaURL
		}
	}

	var res struct {
		Data wireActivity `json:"data"`
	}
	if err := c.post(ctx, "/api/activities", body, &res); err != nil {
		return domain.ActivityRecord{}, err
	}
	return res.Data.toDomain(), nil
}

// get performs a GET with bounded retry. Reads are idempotent, so
// transient failures are retried with backoff.
func (c *HTTPImpl) get(ctx context.Context, path string, query url.Values, out any) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
		if err != nil {
			return backoffPermanent(err)
		}
		return c.do(req, out)
	}
	return retry.Do(ctx, c.Logger, "GET "+path, op, c.retryCfg)
}

// post performs a POST without retry; writes are not assumed idempotent.
func (c *HTTPImpl) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPImpl) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", activityapi.ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return backoffPermanent(activityapi.ErrNotFound)
	case res.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", activityapi.ErrUnavailable, res.StatusCode)
	case res.StatusCode >= 400:
		return backoffPermanent(fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, res.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// backoffPermanent marks an error as non-retryable for the backoff loop.
func backoffPermanent(err error) error {
	return backoff.Permanent(err)
}

func (c *HTTPImpl) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
