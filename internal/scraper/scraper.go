package scraper

import (
	"context"
	"net/http"

	"github.com/ecoulson/perdue/internal/college"
)

// PagedRequest is the request side of a paged site protocol. SetPage must
// produce the wire-equivalent request for the given page.
type PagedRequest interface {
	CurrentPage() int
	SetPage(page int)
}

// PagedResponse is the response side of a paged site protocol.
// TotalPages reports the last page number to fetch, or fails with a NotFound
// status when the response carries no page count. A value at or below the
// request's initial page (the health site reports 0 for fewer posts than one
// page) means only the initial page is scraped.
type PagedResponse interface {
	TotalPages() (int, error)
}

// StudentScraper is the per-site capability: fetch a page, deserialize the
// wire payload, scrape student rows out of it. Adapters are immutable after
// construction and shared by concurrent pipeline tasks.
type StudentScraper[Req PagedRequest, Res PagedResponse] interface {
	// College returns the static site configuration.
	College() college.College

	// NewRequest builds the site's default request targeting the first page.
	NewRequest() Req

	// Fetch performs the page request. Transport failures are NotFound.
	Fetch(ctx context.Context, request Req) (*http.Response, error)

	// Deserialize decodes the response body. Malformed payloads are
	// InvalidArgument; non-2xx responses are Internal.
	Deserialize(ctx context.Context, response *http.Response) (Res, error)

	// Scrape produces one ScrapeResult per directory row. It fails as a
	// whole with NotFound when the response carries no student list at all.
	Scrape(ctx context.Context, response Res) ([]college.ScrapeResult, error)
}

// SinglePageRequest is the unit request of sites without pagination.
type SinglePageRequest struct{}

func (SinglePageRequest) CurrentPage() int { return 1 }
func (SinglePageRequest) SetPage(int)      {}

// HTMLPage is the decoded body of a single-page site.
type HTMLPage string

func (HTMLPage) TotalPages() (int, error) { return 1, nil }
