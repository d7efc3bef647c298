package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/goscrape/internal/domain"
	"github.com/hyperifyio/goscrape/internal/extract"
	"github.com/hyperifyio/goscrape/internal/fetch"
)

// Fetcher returns the body of a page as text.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// App runs the scrape pipeline: validate, fetch, extract, assemble. It holds
// no per-request state and is safe for concurrent use.
type App struct {
	cfg       Config
	fetcher   Fetcher
	extractor extract.Extractor
}

func New(cfg Config) *App {
	return &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			HTTPClient: newFetchHTTPClient(),
			Timeout:    cfg.FetchTimeout,
		},
		extractor: extract.HeuristicExtractor{},
	}
}

// Scrape produces a single-item response for rawURL or a *ScrapeError. No
// partial result is ever returned.
func (a *App) Scrape(ctx context.Context, rawURL string) (ScrapeResponse, error) {
	logger := zerolog.Ctx(ctx)

	registered, err := domain.Registered(rawURL)
	if err != nil {
		return ScrapeResponse{}, invalidInput(err)
	}
	logger.Debug().Str("url", rawURL).Str("domain", registered).Msg("domain ok")

	body, err := a.fetcher.Get(ctx, rawURL)
	if err != nil {
		if errors.Is(err, fetch.ErrNotReachable) {
			return ScrapeResponse{}, notReachable(err)
		}
		return ScrapeResponse{}, networkFailure(err)
	}
	logger.Debug().Int("bytes", len(body)).Msg("page fetched")

	doc, err := a.extractor.Extract(body)
	if err != nil {
		if errors.Is(err, extract.ErrNoContent) {
			return ScrapeResponse{}, noContent(err)
		}
		return ScrapeResponse{}, fmt.Errorf("extract: %w", err)
	}
	logger.Debug().
		Str("path", doc.Path).
		Int("text_len", doc.TextLength).
		Str("title", doc.Title).
		Msg("content selected")

	return NewResponse(rawURL, NewItem(doc.Title, doc.Content, rawURL)), nil
}
