package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"ripkit/internal/logging"
)

var (
	// ErrAPIKeyMissing is returned when no TVDb API key is configured.
	ErrAPIKeyMissing = errors.New("tvdb api key not configured")
	// ErrSeriesNotFound is returned when a search yields no series.
	ErrSeriesNotFound = errors.New("series not found")
)

// HTTPDoer abstracts the HTTP client for tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.httpClient = doer }
}

// Client is a TVDb v4 API client. The login token is cached and
// refreshed transparently.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New constructs a TVDb client.
func New(baseURL, apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tvdb base url required")
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewComponentLogger(logger, "tvdb"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool { return c.apiKey != "" }

func (c *Client) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}
	if c.apiKey == "" {
		return ErrAPIKeyMissing
	}

	body, err := json.Marshal(loginRequest{APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tvdb login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tvdb login returned %d", resp.StatusCode)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	c.token = login.Data.Token
	// Tokens last longer but refreshing daily keeps failures early and cheap.
	c.tokenExpiry = time.Now().Add(24 * time.Hour)
	c.logger.Debug("tvdb authenticated")
	return nil
}

// SearchSeries returns the first series matching the query.
func (c *Client) SearchSeries(ctx context.Context, query string) (*Series, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "series")

	var response searchResponse
	if err := c.get(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	for _, item := range response.Data {
		if item.Type != "series" {
			continue
		}
		id, err := strconv.ParseInt(item.TvdbID, 10, 64)
		if err != nil {
			continue
		}
		c.logger.Debug("series matched",
			logging.String("query", query),
			logging.String("name", item.Name),
			logging.Int64("id", id),
		)
		return &Series{ID: id, Name: item.Name, Year: item.Year}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, query)
}

// SeasonEpisodes returns the episodes of one season in episode order,
// following pagination links until exhausted.
func (c *Client) SeasonEpisodes(ctx context.Context, seriesID int64, season int) ([]Episode, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	var episodes []Episode
	page := 0
	for {
		params := url.Values{}
		params.Set("season", strconv.Itoa(season))
		params.Set("page", strconv.Itoa(page))
		path := fmt.Sprintf("/series/%d/episodes/default?%s", seriesID, params.Encode())

		var response episodesResponse
		if err := c.get(ctx, path, &response); err != nil {
			return nil, err
		}

		for _, ep := range response.Data.Episodes {
			if ep.SeasonNumber != season {
				continue
			}
			episodes = append(episodes, Episode{
				ID:            ep.ID,
				SeasonNumber:  ep.SeasonNumber,
				EpisodeNumber: ep.Number,
				Title:         ep.Name,
			})
		}

		if strings.TrimSpace(response.Links.Next) == "" {
			break
		}
		page++
	}

	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})
	return episodes, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tvdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token likely expired; clear it so the next call re-authenticates.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("tvdb request unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tvdb request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode tvdb response: %w", err)
	}
	return nil
}
