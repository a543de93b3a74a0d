package packs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher defines the interface for fetching the pack index and pack files.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchIndex(ctx context.Context) (*Index, error)
	FetchPack(ctx context.Context, file string) (*Pack, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// IndexFile is the manifest name looked up under the packs base URL.
const IndexFile = "index.json"

// ErrMalformedResponse marks a response body that did not decode into the
// expected document.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError reports a non-success HTTP status for a pack resource.
type StatusError struct {
	Path       string
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d %s", e.Path, e.StatusCode, e.StatusText)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client reads sticker pack documents from a static base location.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultPacksURL  = "http://127.0.0.1:8080/packs/"
	defaultUserAgent = "stickerpicker/0.1"
)

// NewClient builds a Client rooted at packsURL. Relative pack file names are
// resolved against it. A file:// base is served from the local filesystem.
// A zero timeout leaves requests bounded only by their context.
func NewClient(packsURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(packsURL)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the resolved packs base location.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchIndex retrieves and decodes index.json.
func (c *Client) FetchIndex(ctx context.Context) (*Index, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Index
	if err := c.get(ctx, IndexFile, &payload, "packs"); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchPack retrieves and decodes a single pack file named in the index.
func (c *Client) FetchPack(ctx context.Context, file string) (*Pack, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name := strings.TrimSpace(file)
	if name == "" {
		return nil, fmt.Errorf("pack file name required")
	}
	var payload Pack
	if err := c.get(ctx, name, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// get fetches name and decodes it into dest. The body must be a JSON object
// carrying every key in required; anything else is ErrMalformedResponse.
func (c *Client) get(ctx context.Context, name string, dest any, required ...string) error {
	rel, err := url.Parse(name)
	if err != nil {
		return fmt.Errorf("parse pack path %q: %w", name, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{
			Path:       name,
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("decode %s: %w: %v", name, ErrMalformedResponse, err)
	}
	if fields == nil {
		return fmt.Errorf("decode %s: %w", name, ErrMalformedResponse)
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("decode %s: %w: missing %q", name, ErrMalformedResponse, key)
		}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w: %v", name, ErrMalformedResponse, err)
	}
	return nil
}

// statusText returns the reason phrase of resp, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func parseBaseURL(packsURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(packsURL)
	if trimmed == "" {
		trimmed = defaultPacksURL
	}
	if strings.HasPrefix(trimmed, "/") {
		trimmed = "file://" + trimmed
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse packs_url %q: %w", packsURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
