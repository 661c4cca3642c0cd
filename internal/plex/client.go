package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ripkit/internal/logging"
)

const (
	userAgent     = "Ripkit-Go/0.1.0"
	productName   = "ripkit"
	signInBaseURL = "https://plex.tv"
)

var (
	// ErrNotConfigured is returned when the server URL or token is missing.
	ErrNotConfigured = errors.New("plex server not configured")
	// ErrLibraryNotFound is returned when no section matches a library name.
	ErrLibraryNotFound = errors.New("plex library not found")
)

// Section is one Plex library section.
type Section struct {
	Key   string
	Title string
	Type  string
}

// ServerInfo describes the Plex server identity.
type ServerInfo struct {
	Name     string
	Version  string
	Platform string
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithSignInURL overrides the plex.tv sign-in endpoint.
func WithSignInURL(base string) Option {
	return func(c *Client) { c.signInURL = strings.TrimRight(base, "/") }
}

// Client is a Plex Media Server HTTP client. Library sections are
// fetched once and cached for the client's lifetime.
type Client struct {
	serverURL  string
	token      string
	signInURL  string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	sections []Section
}

// New constructs a Plex client. The server URL may be empty; calls
// against the server then fail with ErrNotConfigured.
func New(serverURL, token string, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		serverURL:  strings.TrimRight(strings.TrimSpace(serverURL), "/"),
		token:      strings.TrimSpace(token),
		signInURL:  signInBaseURL,
		clientID:   uuid.NewString(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewComponentLogger(logger, "plex"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// IsConfigured reports whether server calls can be made.
func (c *Client) IsConfigured() bool { return c.serverURL != "" && c.token != "" }

// SignIn exchanges Plex account credentials for an authentication
// token via plex.tv. The token is stored on the client and returned so
// callers can persist it.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signInURL+"/users/sign_in.xml", nil)
	if err != nil {
		return "", fmt.Errorf("build sign-in request: %w", err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("plex sign-in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("plex sign-in returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user struct {
		Token string `xml:"authenticationToken,attr"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("decode sign-in response: %w", err)
	}
	if user.Token == "" {
		return "", errors.New("plex sign-in response missing token")
	}

	c.token = user.Token
	c.logger.Info("plex sign-in succeeded", logging.String("username", username))
	return user.Token, nil
}

// Sections lists the server's library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureSectionsLocked(ctx)
}

func (c *Client) ensureSectionsLocked(ctx context.Context) ([]Section, error) {
	if c.sections != nil {
		return c.sections, nil
	}
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.serverGet(ctx, "/library/sections")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	type directory struct {
		Key   string `xml:"key,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	}
	type mediaContainer struct {
		Directories []directory `xml:"Directory"`
	}

	var container mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("decode plex sections: %w", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Type: dir.Type})
	}
	c.sections = sections
	return sections, nil
}

// Refresh triggers a scan of the library section matching the given
// name (case-insensitive).
func (c *Client) Refresh(ctx context.Context, libraryName string) error {
	c.mu.Lock()
	sections, err := c.ensureSectionsLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	var key string
	for _, section := range sections {
		if strings.EqualFold(section.Title, libraryName) {
			key = section.Key
			break
		}
	}
	if key == "" {
		return fmt.Errorf("%w: %q", ErrLibraryNotFound, libraryName)
	}

	resp, err := c.serverGet(ctx, "/library/sections/"+key+"/refresh")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Info("plex library refresh triggered",
		logging.String("library", libraryName),
		logging.String("section", key),
	)
	return nil
}

// Server returns the Plex server identity.
func (c *Client) Server(ctx context.Context) (*ServerInfo, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.serverGet(ctx, "/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var container struct {
		Name     string `xml:"friendlyName,attr"`
		Version  string `xml:"version,attr"`
		Platform string `xml:"platform,attr"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("decode plex server info: %w", err)
	}
	return &ServerInfo{Name: container.Name, Version: container.Version, Platform: container.Platform}, nil
}

func (c *Client) serverGet(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build plex request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex request: %w", err)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("plex %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
