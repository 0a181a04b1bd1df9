package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxResponseBytes caps how much of an API response is read.
const maxResponseBytes = 1 << 20

// HTTPParams holds configuration for an analytics API client.
type HTTPParams struct {
	BaseURL string
	Client  *http.Client
}

// HTTP is a DataSource that queries a JSON analytics API.
//
// Each endpoint answers with {"points":[{"label":"...","value":N}, ...]}.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

var _ DataSource = (*HTTP)(nil)

type pointsResponse struct {
	Points []Point `json:"points"`
	Error  string  `json:"error,omitempty"`
}

// NewHTTP creates an HTTP data source for the API at p.BaseURL.
func NewHTTP(p HTTPParams) (*HTTP, error) {
	if p.BaseURL == "" {
		return nil, fmt.Errorf("http source needs a base url")
	}
	base, err := url.Parse(strings.TrimRight(p.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", p.BaseURL)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{base: base, client: client}, nil
}

func (h *HTTP) TimeSeries(ctx context.Context, windowDays int) ([]Point, error) {
	return h.get(ctx, "daily views", "/api/stats/daily", url.Values{"days": {strconv.Itoa(windowDays)}})
}

func (h *HTTP) Ranked(ctx context.Context, limit int) ([]Point, error) {
	return h.get(ctx, "top pages", "/api/stats/top", url.Values{"limit": {strconv.Itoa(limit)}})
}

func (h *HTTP) CategoricalShare(ctx context.Context) ([]Point, error) {
	return h.get(ctx, "share", "/api/stats/share", nil)
}

func (h *HTTP) get(ctx context.Context, op, path string, q url.Values) ([]Point, error) {
	u := *h.base
	u.Path += path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, Unavailable(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, Unavailable(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, Unavailable(op, fmt.Errorf("read body: %w", err))
	}

	var out pointsResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != "" {
			return nil, Unavailable(op, fmt.Errorf("%s: %s", resp.Status, out.Error))
		}
		return nil, Unavailable(op, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if decodeErr != nil {
		return nil, Unavailable(op, fmt.Errorf("decode response: %w", decodeErr))
	}
	if out.Points == nil {
		out.Points = []Point{}
	}
	return out.Points, nil
}
