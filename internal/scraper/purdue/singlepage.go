package purdue

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/htmlrow"
	"github.com/ecoulson/perdue/internal/parser"
	"github.com/ecoulson/perdue/internal/scraper"
)

// SinglePageScraper covers the department sites whose whole directory is one
// HTML page. The selector spec and the parser policy carry everything that
// differs between them.
type SinglePageScraper struct {
	client    *scraper.Client
	college   college.College
	selectors htmlrow.Selectors
	parser    parser.RowParser
}

// NewSinglePageScraper builds the adapter for one single-page site.
func NewSinglePageScraper(client *scraper.Client, site college.College, selectors htmlrow.Selectors, rowParser parser.RowParser) *SinglePageScraper {
	return &SinglePageScraper{
		client:    client,
		college:   site,
		selectors: selectors,
		parser:    rowParser,
	}
}

func (s *SinglePageScraper) College() college.College {
	return s.college
}

func (s *SinglePageScraper) NewRequest() scraper.SinglePageRequest {
	return scraper.SinglePageRequest{}
}

// Fetch GETs the directory page. Transport failures are NotFound.
func (s *SinglePageScraper) Fetch(ctx context.Context, _ scraper.SinglePageRequest) (*http.Response, error) {
	response, err := s.client.Get(ctx, s.college.BaseURL)
	if err != nil {
		return nil, domerrors.NotFound(err)
	}
	return response, nil
}

// Deserialize decodes the body text.
func (s *SinglePageScraper) Deserialize(ctx context.Context, response *http.Response) (scraper.HTMLPage, error) {
	body, err := scraper.ReadBody(response)
	if err != nil {
		return "", domerrors.InvalidArgument(err)
	}
	if response.StatusCode != http.StatusOK {
		return "", domerrors.Internal(domerrors.NewScraperError(s.college.BaseURL, response.StatusCode, fmt.Errorf("unexpected status")))
	}
	return scraper.HTMLPage(body), nil
}

// Scrape runs the selector engine over the page and the site's row parser
// over every row. Rows failing the position gate or yielding no id are
// dropped silently.
func (s *SinglePageScraper) Scrape(ctx context.Context, response scraper.HTMLPage) ([]college.ScrapeResult, error) {
	document, err := htmlrow.Parse(string(response))
	if err != nil {
		return nil, err
	}

	var results []college.ScrapeResult
	for _, row := range htmlrow.Rows(document, s.selectors) {
		student := parser.ParseRow(s.parser, row)
		if student == nil {
			continue
		}
		student.CollegeID = s.college.ID
		results = append(results, college.Success(student))
	}

	return results, nil
}
