package directory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.New(ctx, dbPath, 4)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	students := []*college.GraduateStudent{
		{
			ID:         "jdoe",
			Names:      []string{"Jane", "Doe"},
			Email:      "jdoe@purdue.edu",
			Department: "Department of Computer Science",
			Office:     college.Office{Building: "LWSN", Room: "1163"},
			CollegeID:  "14",
		},
	}
	if err := db.UpsertStudents(ctx, students); err != nil {
		t.Fatalf("seed students: %v", err)
	}
	if err := db.UpsertSalaries(ctx, []college.Salary{{StudentID: "jdoe", Year: 2023, AmountUSD: 5000000}}); err != nil {
		t.Fatalf("seed salaries: %v", err)
	}
	if err := db.SeedColleges(ctx, []college.College{{ID: "14", Name: "College of Computer Sciences", BaseURL: "https://www.cs.purdue.edu"}}); err != nil {
		t.Fatalf("seed colleges: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(db, logger.NewWithWriter("error", io.Discard)).Register(router.Group("/api"))
	return router
}

func TestListDirectory(t *testing.T) {
	t.Parallel()
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/directory", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		Students []storage.DirectoryRow `json:"students"`
		Count    int                    `json:"count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Count != 1 || body.Students[0].ID != "jdoe" {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.Students[0].Name != "Doe Jane" {
		t.Errorf("expected display name, got %q", body.Students[0].Name)
	}
}

func TestListDirectoryWithFilter(t *testing.T) {
	t.Parallel()
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/directory?filter=Department=Department%20of%20Computer%20Science", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestListDirectoryRejectsBadFilter(t *testing.T) {
	t.Parallel()
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/directory?filter=NotAColumn=x", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}

func TestGetCollege(t *testing.T) {
	t.Parallel()
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/colleges/14", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/api/colleges/99", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown college, got %d", recorder.Code)
	}
}

func TestListCollegeStudents(t *testing.T) {
	t.Parallel()
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/colleges/14/students", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Count != 1 {
		t.Errorf("expected one student, got %d", body.Count)
	}
}
