package purdue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/pipeline"
	"github.com/ecoulson/perdue/internal/scraper"
)

func testClient(t *testing.T) *scraper.Client {
	t.Helper()
	return scraper.NewClient(5*time.Second, 0)
}

func agricultureCollege(baseURL string) college.College {
	return college.College{
		ID:                "0",
		Name:              "College of Agriculture",
		BaseURL:           baseURL,
		DefaultDepartment: "School of Agriculture",
	}
}

const aarstadRecord = `{
	"stralias": "aaarstad",
	"LastName": "Aarstad",
	"FirstName": "Anna",
	"MiddleName": "Kay",
	"Email": "aaarstad@purdue.edu",
	"Building": "KRAN",
	"Room": "",
	"DepartmentList": [{"department": "Agricultural Economics"}]
}`

func TestAgricultureSinglePage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "1", r.PostFormValue("CurrentPageNumber"))
		require.Equal(t, "50", r.PostFormValue("PageSize"))

		_, _ = w.Write([]byte(`{"TotalPages": 1, "Data": [` + aarstadRecord + `]}`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	pages, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Len(t, pages[0], 1)

	student := pages[0][0].Student
	require.NotNil(t, student)
	require.Equal(t, "aaarstad", student.ID)
	require.Equal(t, []string{"Anna", "Kay", "Aarstad"}, student.Names)
	require.Equal(t, "aaarstad@purdue.edu", student.Email)
	require.Equal(t, "Agricultural Economics", student.Department)
	require.Equal(t, college.Office{Building: "KRAN", Room: ""}, student.Office)
}

func TestAgricultureTwoPages(t *testing.T) {
	t.Parallel()

	pageBodies := map[string]string{
		"1": `{"TotalPages": 2, "Data": [` + aarstadRecord + `]}`,
		"2": `{"TotalPages": 2, "Data": [{"stralias": "abdelhas", "FirstName": "Ahmed", "LastName": "Abdelhaseb", "Email": "abdelhas@purdue.edu"}]}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		body, ok := pageBodies[r.PostFormValue("CurrentPageNumber")]
		require.True(t, ok, "unexpected page %q", r.PostFormValue("CurrentPageNumber"))
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	pages, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Page order is unspecified; both students must be present.
	ids := make(map[string]bool)
	for _, page := range pages {
		require.Len(t, page, 1)
		ids[page[0].Student.ID] = true
	}
	require.True(t, ids["aaarstad"])
	require.True(t, ids["abdelhas"])
}

func TestAgricultureEmailOnlyRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"TotalPages": 1, "Data": [{"FirstName": "Maha", "LastName": "Ahmed", "Email": "Maha@purdue.edu"}]}`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	pages, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	student := pages[0][0].Student
	require.NotNil(t, student)
	require.Equal(t, "maha", student.ID, "id falls back to the lowercased email local-part")
}

func TestAgricultureRecordWithoutIDOrEmail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"TotalPages": 1, "Data": [{"FirstName": "Ghost", "LastName": "Row"}]}`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	pages, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	result := pages[0][0]
	require.False(t, result.OK())
	require.Equal(t, domerrors.KindNotFound, domerrors.KindOf(result.Err))
	require.Contains(t, result.Err.Error(), "No id or email was found")
}

func TestAgricultureEmptyDataIsPageError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"TotalPages": 1}`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	_, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.Error(t, err)
	require.Equal(t, domerrors.KindNotFound, domerrors.KindOf(err))
}

func TestAgricultureMissingTotalPages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Data": []}`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	_, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.Error(t, err)
	require.Equal(t, domerrors.KindNotFound, domerrors.KindOf(err))
}

func TestAgricultureMalformedJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"TotalPages":`))
	}))
	defer server.Close()

	adapter := NewAgricultureScraper(testClient(t), agricultureCollege(server.URL))
	_, err := pipeline.ScrapeCollege[*AgricultureRequest, *AgricultureResponse](context.Background(), adapter)
	require.Error(t, err)
	require.Equal(t, domerrors.KindInvalidArgument, domerrors.KindOf(err))
}

func TestAgricultureRequestEncoding(t *testing.T) {
	t.Parallel()

	request := NewAgricultureRequest()
	request.SetPage(3)
	encoded := request.Encode()

	require.Contains(t, encoded, "CurrentPageNumber=3")
	require.Contains(t, encoded, "PageSize=50")
	require.Contains(t, encoded, "OrganizationFilter%5B0%5D=CoA")
	require.Contains(t, encoded, "ClassificationFilter%5B0%5D=6")
	require.False(t, strings.Contains(encoded, " "))
}
