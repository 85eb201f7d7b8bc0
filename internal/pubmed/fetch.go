// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/pubmed-export/internal/httputil"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Page is one fetched result page.
type Page struct {
	// URL is the request URL, suitable for opening in a browser.
	URL string

	// Body is the page HTML, transcoded to UTF-8.
	Body []byte
}

// Fetcher retrieves the result page for a configuration. Tests substitute
// a fake; HTTPFetcher talks to PubMed.
type Fetcher interface {
	Fetch(ctx context.Context, cfg types.HarvestConfig) (Page, error)
}

// HTTPFetcher fetches result pages over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher whose client uses cfg's timeout.
func NewHTTPFetcher(cfg types.HTTPConfig) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: cfg.Timeout}}
}

// Fetch requests the single result page described by cfg.
func (f *HTTPFetcher) Fetch(ctx context.Context, cfg types.HarvestConfig) (Page, error) {
	u, err := QueryURL(cfg)
	if err != nil {
		return Page{}, err
	}

	resp, err := httputil.Get(ctx, f.Client, u, cfg.UserAgent)
	if err != nil {
		return Page{}, fmt.Errorf("fetching result page: %w", err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return Page{}, fmt.Errorf("reading result page: %w", err)
	}
	return Page{URL: u, Body: body}, nil
}
