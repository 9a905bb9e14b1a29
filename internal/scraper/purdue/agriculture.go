// Package purdue provides the site adapters for the Purdue department
// directories and the registry wiring them to the pipeline.
package purdue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/scraper"
)

// AgricultureRequest is the form-posted paging request of the agriculture
// staff directory API.
type AgricultureRequest struct {
	CurrentPageNumber    int
	PageSize             int
	OrganizationFilter   []string
	ClassificationFilter []int
}

// NewAgricultureRequest builds the default request: page 1, 50 rows,
// College of Agriculture, graduate-student classification.
func NewAgricultureRequest() *AgricultureRequest {
	return &AgricultureRequest{
		CurrentPageNumber:    1,
		PageSize:             50,
		OrganizationFilter:   []string{"CoA"},
		ClassificationFilter: []int{6},
	}
}

func (r *AgricultureRequest) CurrentPage() int {
	return r.CurrentPageNumber
}

func (r *AgricultureRequest) SetPage(page int) {
	r.CurrentPageNumber = page
}

// Encode renders the request as an application/x-www-form-urlencoded body
// with indexed keys for the filter lists.
func (r *AgricultureRequest) Encode() string {
	values := url.Values{}
	values.Set("CurrentPageNumber", strconv.Itoa(r.CurrentPageNumber))
	values.Set("PageSize", strconv.Itoa(r.PageSize))
	for i, organization := range r.OrganizationFilter {
		values.Set(fmt.Sprintf("OrganizationFilter[%d]", i), organization)
	}
	for i, classification := range r.ClassificationFilter {
		values.Set(fmt.Sprintf("ClassificationFilter[%d]", i), strconv.Itoa(classification))
	}
	return values.Encode()
}

// AgricultureResponse is the JSON page envelope of the directory API.
type AgricultureResponse struct {
	Data  []agricultureStudent `json:"Data"`
	Pages *int                 `json:"TotalPages"`
}

// TotalPages fails with NotFound when the envelope carries no page count.
func (r *AgricultureResponse) TotalPages() (int, error) {
	if r.Pages == nil {
		return 0, domerrors.NotFoundf("no total pages found on response")
	}
	return *r.Pages, nil
}

type agricultureStudent struct {
	Building    string                  `json:"Building"`
	Email       string                  `json:"Email"`
	FirstName   string                  `json:"FirstName"`
	LastName    string                  `json:"LastName"`
	MiddleName  string                  `json:"MiddleName"`
	Room        string                  `json:"Room"`
	Departments []agricultureDepartment `json:"DepartmentList"`
	Alias       string                  `json:"stralias"`
}

type agricultureDepartment struct {
	Department string `json:"department"`
}

// AgricultureScraper scrapes the paged-JSON agriculture directory.
type AgricultureScraper struct {
	client  *scraper.Client
	college college.College
}

// NewAgricultureScraper builds the adapter for the given site configuration.
func NewAgricultureScraper(client *scraper.Client, site college.College) *AgricultureScraper {
	return &AgricultureScraper{client: client, college: site}
}

func (s *AgricultureScraper) College() college.College {
	return s.college
}

func (s *AgricultureScraper) NewRequest() *AgricultureRequest {
	return NewAgricultureRequest()
}

// Fetch POSTs the form-encoded request. Transport failures are NotFound.
func (s *AgricultureScraper) Fetch(ctx context.Context, request *AgricultureRequest) (*http.Response, error) {
	response, err := s.client.PostForm(ctx, s.college.BaseURL, request.Encode())
	if err != nil {
		return nil, domerrors.NotFound(err)
	}
	return response, nil
}

// Deserialize parses the JSON page envelope.
func (s *AgricultureScraper) Deserialize(ctx context.Context, response *http.Response) (*AgricultureResponse, error) {
	body, err := scraper.ReadBody(response)
	if err != nil {
		return nil, domerrors.Internal(err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, domerrors.Internal(domerrors.NewScraperError(s.college.BaseURL, response.StatusCode, fmt.Errorf("unexpected status")))
	}

	var page AgricultureResponse
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		return nil, domerrors.InvalidArgumentf("decode directory page: %w", err)
	}
	return &page, nil
}

// Scrape walks the Data array. A record missing both alias and email yields
// a row Failure; a response missing Data entirely fails the page.
func (s *AgricultureScraper) Scrape(ctx context.Context, response *AgricultureResponse) ([]college.ScrapeResult, error) {
	if response.Data == nil {
		return nil, domerrors.NotFoundf("no students were found")
	}

	results := make([]college.ScrapeResult, 0, len(response.Data))
	for _, record := range response.Data {
		if record.Alias == "" && record.Email == "" {
			results = append(results, college.Failure(domerrors.NotFoundf("No id or email was found")))
			continue
		}

		id := record.Alias
		if id == "" {
			local, _, _ := strings.Cut(record.Email, "@")
			id = strings.ToLower(local)
		}

		var names []string
		names = append(names, strings.Fields(record.FirstName)...)
		names = append(names, strings.Fields(record.MiddleName)...)
		names = append(names, strings.Fields(record.LastName)...)

		department := ""
		if len(record.Departments) > 0 {
			department = record.Departments[0].Department
		}

		results = append(results, college.Success(&college.GraduateStudent{
			ID:         id,
			Names:      names,
			Email:      record.Email,
			Department: department,
			Office: college.Office{
				Building: record.Building,
				Room:     record.Room,
			},
			CollegeID: s.college.ID,
		}))
	}

	return results, nil
}
