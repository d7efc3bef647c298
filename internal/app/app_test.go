package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/goscrape/internal/extract"
	"github.com/hyperifyio/goscrape/internal/fetch"
)

// countingFetcher serves canned bodies and records how often it was called.
type countingFetcher struct {
	body  string
	err   error
	calls int
}

func (f *countingFetcher) Get(ctx context.Context, rawURL string) (string, error) {
	f.calls++
	return f.body, f.err
}

func newAppWithFetcher(f Fetcher) *App {
	return &App{cfg: Config{FetchTimeout: time.Second}, fetcher: f, extractor: extract.HeuristicExtractor{}}
}

// newUpstreamApp routes every upstream dial to a local test server so real
// hostnames pass domain validation while the fetch stays on loopback.
func newUpstreamApp(t *testing.T, h http.HandlerFunc) *App {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	addr := srv.Listener.Addr().String()
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
	return &App{
		cfg:       Config{FetchTimeout: 2 * time.Second},
		fetcher:   &fetch.Client{HTTPClient: &http.Client{Transport: transport}, Timeout: 2 * time.Second},
		extractor: extract.HeuristicExtractor{},
	}
}

func TestScrape_RoundTrip(t *testing.T) {
	const page = `<html><title>T</title><article><p>Hello <b>World</b></p></article></html>`
	a := newUpstreamApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	const u = "http://blog.example.com/post/1"
	resp, err := a.Scrape(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Site != u {
		t.Fatalf("expected site %q, got %q", u, resp.Site)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(resp.Items))
	}
	item := resp.Items[0]
	if item.Title != "T" {
		t.Fatalf("expected title T, got %q", item.Title)
	}
	if !strings.Contains(item.Content, "Hello") || !strings.Contains(item.Content, "**World**") {
		t.Fatalf("unexpected content: %q", item.Content)
	}
	if item.ContentType != ContentTypeBlog || item.SourceURL != u {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestScrape_InvalidInputSkipsNetwork(t *testing.T) {
	f := &countingFetcher{body: "<p>never</p>"}
	a := newAppWithFetcher(f)
	for _, u := range []string{"", "http://localhost/", "http://10.0.0.1/x", "https://", "nonsense"} {
		_, err := a.Scrape(context.Background(), u)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", u, err)
		}
		var se *ScrapeError
		if !errors.As(err, &se) || se.Status != http.StatusBadRequest || se.Detail != "Invalid URL" {
			t.Fatalf("%q: unexpected error shape: %#v", u, err)
		}
	}
	if f.calls != 0 {
		t.Fatalf("expected no fetches for invalid input, got %d", f.calls)
	}
}

func TestScrape_UpstreamNon200(t *testing.T) {
	a := newUpstreamApp(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := a.Scrape(context.Background(), "http://example.org/missing")
	if !errors.Is(err, ErrUpstreamNotReachable) || !errors.Is(err, fetch.ErrNotReachable) {
		t.Fatalf("expected not reachable, got %v", err)
	}
	var se *ScrapeError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound || se.Detail != "Page not reachable" {
		t.Fatalf("unexpected error shape: %#v", err)
	}
}

func TestScrape_NetworkFailure(t *testing.T) {
	f := &countingFetcher{err: errors.New("dial tcp: connection refused")}
	a := newAppWithFetcher(f)
	_, err := a.Scrape(context.Background(), "https://example.com/")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	var se *ScrapeError
	if !errors.As(err, &se) || se.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected error shape: %#v", err)
	}
	if se.Detail != "Request failed: dial tcp: connection refused" {
		t.Fatalf("expected cause in detail, got %q", se.Detail)
	}
}

func TestScrape_NoSchemeFailsAtFetch(t *testing.T) {
	a := New(Config{FetchTimeout: time.Second})
	_, err := a.Scrape(context.Background(), "example.com/article")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error for missing scheme, got %v", err)
	}
}

func TestScrape_NoContent(t *testing.T) {
	f := &countingFetcher{body: `<html><head><title>Empty</title></head><body><div>  </div><p>	</p></body></html>`}
	a := newAppWithFetcher(f)
	_, err := a.Scrape(context.Background(), "https://example.com/")
	if !errors.Is(err, ErrNoContentFound) || !errors.Is(err, extract.ErrNoContent) {
		t.Fatalf("expected no content, got %v", err)
	}
	var se *ScrapeError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound || se.Detail != "No readable content found" {
		t.Fatalf("unexpected error shape: %#v", err)
	}
}

func TestScrape_FallbackSelectsLongestBlock(t *testing.T) {
	passage := strings.Repeat("x", 500)
	f := &countingFetcher{body: `<html><body><div>short</div><div>` + passage + `</div></body></html>`}
	a := newAppWithFetcher(f)
	resp, err := a.Scrape(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := resp.Items[0]
	if item.Title != extract.NoTitle {
		t.Fatalf("expected placeholder title, got %q", item.Title)
	}
	if !strings.Contains(item.Content, passage) || strings.Contains(item.Content, "short") {
		t.Fatalf("expected the 500-char block only, got %q", item.Content)
	}
}

func TestNewResponse_EmptyItemsEncodeAsArray(t *testing.T) {
	r := NewResponse("https://example.com")
	if r.Items == nil || len(r.Items) != 0 {
		t.Fatalf("expected empty non-nil items")
	}
}
