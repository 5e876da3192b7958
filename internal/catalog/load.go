package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultTimeout bounds a remote catalog fetch.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with remote catalog requests.
const DefaultUserAgent = "folio/1.0 (+https://github.com/ziadkadry99/folio)"

// FetchError reports a catalog source that could not be read.
type FetchError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching catalog %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetching catalog %s: %s", e.Source, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Options configures Load.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// DefaultOptions returns the options used when Load is given nil.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Load reads a catalog from a local path or an http(s) URL, validates it
// against the schema and the record constraints, and returns it.
func Load(ctx context.Context, source string, opts *Options) (*Catalog, error) {
	data, err := Fetch(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates raw catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{Projects: projects}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Fetch returns the raw bytes of source. A non-2xx response is an error.
func Fetch(ctx context.Context, source string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, &FetchError{Source: source, Message: "reading file", Cause: err}
		}
		return data, nil
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	return data, nil
}

// IsRemote reports whether source is an http(s) URL rather than a file path.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
