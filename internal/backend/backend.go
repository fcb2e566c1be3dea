// Package backend reads talent profiles and jobs from the managed backend's REST interface.
package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/store"
)

const (
	restPath        = "/rest/v1/"
	userAgent       = "talent-matcher"
	talentsTable    = "talent_profiles"
	jobsTable       = "jobs"
	defaultPageSize = 500
)

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	PageSize   int
}

var _ store.Source = (*Client)(nil)

func New(logger *zap.Logger, apiURL, apiKey string) (*Client, error) {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		return nil, errors.New("backend url is required")
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		PageSize:  defaultPageSize,
	}, nil
}

// Talents returns every talent profile.
func (c *Client) Talents(ctx context.Context) ([]*model.TalentProfile, error) {
	items, err := c.GetItems(ctx, talentsTable, nil)
	if err != nil {
		return nil, err
	}

	var talents []*model.TalentProfile
	if err := store.Decode(items, &talents); err != nil {
		return nil, err
	}
	return talents, nil
}

// Jobs returns every job. Closed jobs are included; matching filters them.
func (c *Client) Jobs(ctx context.Context) ([]*model.Job, error) {
	items, err := c.GetItems(ctx, jobsTable, nil)
	if err != nil {
		return nil, err
	}

	var jobs []*model.Job
	if err := store.Decode(items, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Talent returns one talent profile or nil when it does not exist.
func (c *Client) Talent(ctx context.Context, id string) (*model.TalentProfile, error) {
	items, err := c.GetItems(ctx, talentsTable, url.Values{"id": {"eq." + id}})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var talent model.TalentProfile
	if err := store.Decode(items[0], &talent); err != nil {
		return nil, err
	}
	return &talent, nil
}
