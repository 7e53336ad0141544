package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/types"
)

// Client talks to the reelrank HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Query selects recommendations remotely.
type Query struct {
	Language string
	Genre    string
	Exclude  []string
	Limit    int
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("language", q.Language)
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if len(q.Exclude) > 0 {
		v.Set("exclude", strings.Join(q.Exclude, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Recommendations calls GET /recommendations.
func (c *Client) Recommendations(ctx context.Context, q Query) (types.Recommendations, error) {
	var out types.Recommendations
	err := c.do(ctx, http.MethodGet, "/recommendations?"+q.values().Encode(), nil, http.StatusOK, &out)
	return out, err
}

// Genres calls GET /genres.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var out types.Genres
	if err := c.do(ctx, http.MethodGet, "/genres", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Languages calls GET /languages.
func (c *Client) Languages(ctx context.Context) ([]model.Language, error) {
	var out types.Languages
	if err := c.do(ctx, http.MethodGet, "/languages", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// Stats calls GET /stats.
func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var out types.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, http.StatusOK, &out)
	return out, err
}

// Rebuild calls POST /rebuild.
func (c *Client) Rebuild(ctx context.Context, reason string) (types.RebuildAccepted, error) {
	var out types.RebuildAccepted
	body := map[string]string{"reason": reason}
	err := c.do(ctx, http.MethodPost, "/rebuild", body, http.StatusAccepted, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: %w: %d %s", method, path, ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
