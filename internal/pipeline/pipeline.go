// Package pipeline runs site adapters through the three-stage scrape engine
// and feeds their output into persistence, one independent run per site.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/scraper"
)

// Site is a type-erased handle on one adapter so runs over differently
// parameterized scrapers can be scheduled together.
type Site struct {
	College college.College
	Scrape  func(ctx context.Context) ([][]college.ScrapeResult, error)
}

// NewSite wraps an adapter into a schedulable Site.
func NewSite[Req scraper.PagedRequest, Res scraper.PagedResponse](s scraper.StudentScraper[Req, Res]) Site {
	return Site{
		College: s.College(),
		Scrape: func(ctx context.Context) ([][]college.ScrapeResult, error) {
			return ScrapeCollege(ctx, s)
		},
	}
}

// ScrapeCollege drives one site through the three pipeline stages with a
// paged fan-out.
//
// The initial page is fetched and deserialized synchronously to learn the
// page count; its scrape is scheduled concurrently. Every further page runs
// fetch, deserialize, and scrape as one chained task, so a slow scrape on
// one page never blocks the fetch of another. Pages whose result vector is
// empty are dropped. Page order in the returned list is unspecified; row
// order within a page is preserved.
//
// The first stage error encountered cancels the remaining tasks and becomes
// the run's error. There is no concurrency cap beyond the shared HTTP
// client's pool.
func ScrapeCollege[Req scraper.PagedRequest, Res scraper.PagedResponse](ctx context.Context, s scraper.StudentScraper[Req, Res]) ([][]college.ScrapeResult, error) {
	request := s.NewRequest()
	initialPage := request.CurrentPage()

	response, err := s.Fetch(ctx, request)
	if err != nil {
		return nil, err
	}
	initial, err := s.Deserialize(ctx, response)
	if err != nil {
		return nil, err
	}
	totalPages, err := initial.TotalPages()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var pages [][]college.ScrapeResult
	appendPage := func(results []college.ScrapeResult) {
		if len(results) == 0 {
			return
		}
		mu.Lock()
		pages = append(pages, results)
		mu.Unlock()
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		results, err := s.Scrape(groupCtx, initial)
		if err != nil {
			return err
		}
		appendPage(results)
		return nil
	})

	for page := initialPage + 1; page <= totalPages; page++ {
		group.Go(func() error {
			request := s.NewRequest()
			request.SetPage(page)

			response, err := s.Fetch(groupCtx, request)
			if err != nil {
				return err
			}
			decoded, err := s.Deserialize(groupCtx, response)
			if err != nil {
				return err
			}
			results, err := s.Scrape(groupCtx, decoded)
			if err != nil {
				return err
			}
			appendPage(results)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}
