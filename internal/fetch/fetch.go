package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DefaultTimeout bounds a single page fetch when Client.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ErrNotReachable is returned when the upstream answered with a status other
// than 200 OK.
var ErrNotReachable = errors.New("page not reachable")

// StatusError reports the upstream status that caused ErrNotReachable.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status: %d", ErrNotReachable, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrNotReachable }

// Client performs one bounded-timeout GET per call. There is no retry, no
// cache and no custom header handling; redirects follow net/http defaults.
type Client struct {
	HTTPClient *http.Client
	// Timeout bounds the whole request including the body read. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Get fetches rawURL and returns the response body decoded to UTF-8 text.
//
// A non-200 status yields an error wrapping ErrNotReachable. Every other
// failure (bad URL, unsupported scheme, DNS, refused connection, timeout,
// truncated body) is returned as-is and should be treated as a network error.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return "", fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	text, err := decodeBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return text, nil
}

// decodeBody converts the body to UTF-8 using the charset from the
// Content-Type header, a <meta> declaration or a BOM, in that order.
func decodeBody(r io.Reader, contentType string) (string, error) {
	br := bufio.NewReaderSize(r, 1024)
	peek, err := br.Peek(1024)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	enc, _, _ := charset.DetermineEncoding(peek, contentType)
	b, err := io.ReadAll(transform.NewReader(br, enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
