package purdue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/htmlrow"
	"github.com/ecoulson/perdue/internal/parser"
	"github.com/ecoulson/perdue/internal/scraper"
)

// detailFetchConcurrency bounds the per-row detail page fan-out.
const detailFetchConcurrency = 10

// HealthRequest is the admin-ajax paging request of the health sciences
// directory. The endpoint pages through WordPress posts.
type HealthRequest struct {
	Action           string
	QueryType        string
	ID               string
	PostID           int
	Slug             string
	CanonicalURL     string
	PostsPerPage     int
	Page             int
	Offset           int
	PostType         string
	Repeater         string
	SEOStartPage     int
	Filters          bool
	FiltersStartPage int
	FiltersTarget    string
	Facets           bool
	ThemeRepeater    string
	MetaKey          string
	MetaValue        string
	MetaCompare      string
	MetaType         string
	Order            string
	OrderBy          string
}

// NewHealthRequest builds the default request targeting page 0 of the
// graduate student listing.
func NewHealthRequest() *HealthRequest {
	return &HealthRequest{
		Action:           "alm_get_posts",
		QueryType:        "standard",
		ID:               "main_directory_listing",
		PostID:           727,
		Slug:             "directory",
		CanonicalURL:     "https%3A%2F%2Fhhs.purdue.edu%2Fabout-hhs%2Fdirectory%2F",
		PostsPerPage:     20,
		Page:             0,
		Offset:           0,
		PostType:         "directory",
		Repeater:         "default",
		SEOStartPage:     1,
		Filters:          true,
		FiltersStartPage: 0,
		FiltersTarget:    "maindirectorylisting",
		Facets:           false,
		ThemeRepeater:    "directory-table.php",
		MetaKey:          "staff_faculty_type",
		MetaValue:        "Graduate Student",
		MetaCompare:      "IN",
		MetaType:         "CHAR",
		Order:            "DESC",
		OrderBy:          "date",
	}
}

func (r *HealthRequest) CurrentPage() int {
	return r.Page
}

func (r *HealthRequest) SetPage(page int) {
	r.Page = page
}

// Encode renders the request as a query string.
func (r *HealthRequest) Encode() string {
	values := url.Values{}
	values.Set("action", r.Action)
	values.Set("query_type", r.QueryType)
	values.Set("id", r.ID)
	values.Set("post_id", strconv.Itoa(r.PostID))
	values.Set("slug", r.Slug)
	values.Set("canonical_url", r.CanonicalURL)
	values.Set("posts_per_page", strconv.Itoa(r.PostsPerPage))
	values.Set("page", strconv.Itoa(r.Page))
	values.Set("offset", strconv.Itoa(r.Offset))
	values.Set("post_type", r.PostType)
	values.Set("repeater", r.Repeater)
	values.Set("seo_start_page", strconv.Itoa(r.SEOStartPage))
	values.Set("filters", strconv.FormatBool(r.Filters))
	values.Set("filters_startpage", strconv.Itoa(r.FiltersStartPage))
	values.Set("filters_target", r.FiltersTarget)
	values.Set("facets", strconv.FormatBool(r.Facets))
	values.Set("theme_repeater", r.ThemeRepeater)
	values.Set("meta_key", r.MetaKey)
	values.Set("meta_value", r.MetaValue)
	values.Set("meta_compare", r.MetaCompare)
	values.Set("meta_type", r.MetaType)
	values.Set("order", r.Order)
	values.Set("orderby", r.OrderBy)
	return values.Encode()
}

// HealthResponse wraps the HTML table fragment the endpoint returns inline
// in JSON next to its paging metadata.
type HealthResponse struct {
	HTML *string     `json:"html"`
	Meta *healthMeta `json:"meta"`
}

type healthMeta struct {
	TotalPosts int `json:"totalposts"`
	PostCount  int `json:"postcount"`
}

// TotalPages is totalposts / postcount with integer division, matching the
// endpoint's own pager.
func (r *HealthResponse) TotalPages() (int, error) {
	if r.Meta == nil || r.Meta.PostCount == 0 {
		return 0, domerrors.NotFoundf("metadata not included in response")
	}
	return r.Meta.TotalPosts / r.Meta.PostCount, nil
}

// HealthScraper scrapes the two-phase health sciences directory: a paged
// list of faculty rows, each linking to a detail page that carries the
// student's email.
type HealthScraper struct {
	client  *scraper.Client
	college college.College
	parser  parser.LastNameFirst
}

// NewHealthScraper builds the health sciences adapter.
func NewHealthScraper(client *scraper.Client, site college.College) *HealthScraper {
	return &HealthScraper{client: client, college: site}
}

func (s *HealthScraper) College() college.College {
	return s.college
}

func (s *HealthScraper) NewRequest() *HealthRequest {
	return NewHealthRequest()
}

// Fetch GETs the listing endpoint with the request as query string.
// Transport failures are NotFound.
func (s *HealthScraper) Fetch(ctx context.Context, request *HealthRequest) (*http.Response, error) {
	response, err := s.client.Get(ctx, fmt.Sprintf("%s?%s", s.college.BaseURL, request.Encode()))
	if err != nil {
		return nil, domerrors.NotFound(err)
	}
	return response, nil
}

// Deserialize parses the JSON envelope.
func (s *HealthScraper) Deserialize(ctx context.Context, response *http.Response) (*HealthResponse, error) {
	body, err := scraper.ReadBody(response)
	if err != nil {
		return nil, domerrors.Internal(err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, domerrors.Internal(domerrors.NewScraperError(s.college.BaseURL, response.StatusCode, fmt.Errorf("unexpected status")))
	}

	var page HealthResponse
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		return nil, domerrors.InvalidArgumentf("decode listing page: %w", err)
	}
	return &page, nil
}

// Scrape extracts the faculty rows from the inline HTML fragment, then
// launches a bounded fan-out that follows each row's detail page for the
// student's email. Row order is preserved in the result.
func (s *HealthScraper) Scrape(ctx context.Context, response *HealthResponse) ([]college.ScrapeResult, error) {
	if response.HTML == nil {
		return nil, domerrors.NotFoundf("HTML not found on response")
	}

	// The fragment is table rows without the enclosing table.
	document, err := htmlrow.Parse("<table>" + *response.HTML + "</table>")
	if err != nil {
		return nil, err
	}

	rows := htmlrow.Rows(document, htmlrow.Selectors{
		DirectoryRow: ".faculty-table--row",
		Names:        []string{".faculty-table--name a"},
		Position:     ".faculty-table--title",
		Department:   ".faculty-table--department",
	})

	results := make([]college.ScrapeResult, len(rows))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(detailFetchConcurrency)

	for i, row := range rows {
		detailURL, student, rowErr := s.parseListRow(row)
		if rowErr != nil {
			results[i] = college.Failure(rowErr)
			continue
		}

		group.Go(func() error {
			results[i] = s.scrapeDetail(groupCtx, detailURL, student)
			return nil
		})
	}

	// Detail failures land in the row's slot, never abort the page.
	_ = group.Wait()

	return results, nil
}

// parseListRow extracts the detail URL and the partially filled student from
// one faculty table row.
func (s *HealthScraper) parseListRow(row htmlrow.Row) (string, *college.GraduateStudent, error) {
	if len(row.Names) == 0 {
		return "", nil, domerrors.NotFoundf("Name link element not found")
	}

	detailURL, ok := row.Names[0].Attr("href")
	if !ok {
		return "", nil, domerrors.NotFoundf("Name url not found in href")
	}

	if row.Department == nil {
		return "", nil, domerrors.NotFoundf("Department element not found")
	}

	names := s.parser.ParseNames(row.Names)
	if len(names) == 0 {
		return "", nil, domerrors.NotFoundf("No names found")
	}

	return detailURL, &college.GraduateStudent{
		Names:      names,
		Department: strings.TrimSpace(row.Department.Text()),
		CollegeID:  s.college.ID,
	}, nil
}

// scrapeDetail follows a detail page and fills in the student's email and
// id. A transport or status failure is retried exactly once before being
// reported as Internal.
func (s *HealthScraper) scrapeDetail(ctx context.Context, detailURL string, student *college.GraduateStudent) college.ScrapeResult {
	response, err := s.fetchDetail(ctx, detailURL)
	if err != nil {
		// One retry for a flaky detail page.
		response, err = s.fetchDetail(ctx, detailURL)
	}
	if err != nil {
		return college.Failure(domerrors.Internal(err))
	}

	body, err := scraper.ReadBody(response)
	if err != nil {
		return college.Failure(domerrors.Internal(err))
	}

	document, err := htmlrow.Parse(body)
	if err != nil {
		return college.Failure(err)
	}

	emailElement := document.Find(".email a").First()
	if emailElement.Length() == 0 {
		return college.Failure(domerrors.NotFoundf("Email element not found"))
	}

	email := s.parser.ParseEmail(emailElement)
	if email == "" {
		return college.Failure(domerrors.InvalidArgumentf("Invalid email"))
	}

	local, _, _ := strings.Cut(email, "@")
	student.Email = email
	student.ID = strings.ToLower(strings.TrimSpace(local))
	return college.Success(student)
}

func (s *HealthScraper) fetchDetail(ctx context.Context, detailURL string) (*http.Response, error) {
	response, err := s.client.Get(ctx, detailURL)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		_, _ = scraper.ReadBody(response)
		return nil, domerrors.NewScraperError(detailURL, response.StatusCode, fmt.Errorf("unexpected status"))
	}
	return response, nil
}
