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

// liberalArtsDepartmentExclusions are position strings that never name the
// student's school; the first remaining position becomes the department.
var liberalArtsDepartmentExclusions = map[string]struct{}{
	"Graduate Student":       {},
	"SIS":                    {},
	"SLC":                    {},
	"Rueff School":           {},
	"SLC Teaching Assistant": {},
	"Teaching Assistant":     {},
}

// LiberalArtsScraper scrapes the liberal arts directory. The site lists a
// position stack per row; the department is derived from it rather than from
// a dedicated cell.
type LiberalArtsScraper struct {
	client  *scraper.Client
	college college.College
	parser  parser.LiberalArts
}

// NewLiberalArtsScraper builds the liberal arts adapter.
func NewLiberalArtsScraper(client *scraper.Client, site college.College) *LiberalArtsScraper {
	return &LiberalArtsScraper{client: client, college: site}
}

func (s *LiberalArtsScraper) College() college.College {
	return s.college
}

func (s *LiberalArtsScraper) NewRequest() scraper.SinglePageRequest {
	return scraper.SinglePageRequest{}
}

// Fetch GETs the directory page. Transport failures are NotFound.
func (s *LiberalArtsScraper) Fetch(ctx context.Context, _ scraper.SinglePageRequest) (*http.Response, error) {
	response, err := s.client.Get(ctx, s.college.BaseURL)
	if err != nil {
		return nil, domerrors.NotFound(err)
	}
	return response, nil
}

// Deserialize decodes the body text.
func (s *LiberalArtsScraper) Deserialize(ctx context.Context, response *http.Response) (scraper.HTMLPage, error) {
	body, err := scraper.ReadBody(response)
	if err != nil {
		return "", domerrors.InvalidArgument(err)
	}
	if response.StatusCode != http.StatusOK {
		return "", domerrors.Internal(domerrors.NewScraperError(s.college.BaseURL, response.StatusCode, fmt.Errorf("unexpected status")))
	}
	return scraper.HTMLPage(body), nil
}

// Scrape parses profile rows and promotes the first non-generic position to
// the student's department.
func (s *LiberalArtsScraper) Scrape(ctx context.Context, response scraper.HTMLPage) ([]college.ScrapeResult, error) {
	document, err := htmlrow.Parse(string(response))
	if err != nil {
		return nil, err
	}

	selectors := htmlrow.Selectors{
		DirectoryRow: ".profile-row",
		Names:        []string{"td:nth-child(1) a"},
		Position:     "td:nth-child(2)",
		Email:        "td:nth-child(4)",
		Location:     "td:nth-child(5)",
	}

	var results []college.ScrapeResult
	for _, row := range htmlrow.Rows(document, selectors) {
		student := parser.ParseRow(s.parser, row)
		if student == nil {
			continue
		}

		student.Department = ""
		for _, position := range s.parser.ParsePositions(row.Position) {
			if _, excluded := liberalArtsDepartmentExclusions[position]; !excluded {
				student.Department = position
				break
			}
		}

		student.CollegeID = s.college.ID
		results = append(results, college.Success(student))
	}

	return results, nil
}
