package salary

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/metrics"
	"github.com/ecoulson/perdue/internal/storage"
)

const compensationHeader = "Year,Name,Department,JobTitle,City,TotalCompensation\n"

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.New(context.Background(), dbPath, 4)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testProcessor(t *testing.T, db *storage.DB) *Processor {
	t.Helper()
	return NewProcessor(db, "", logger.NewWithWriter("error", io.Discard), metrics.New())
}

func TestParseYear(t *testing.T) {
	t.Parallel()

	year, err := parseYear("Wages Paid in FY2023")
	if err != nil {
		t.Fatalf("parseYear failed: %v", err)
	}
	if year != 2023 {
		t.Errorf("expected 2023, got %d", year)
	}

	if _, err := parseYear("short"); err == nil {
		t.Error("expected an error for a too-short field")
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    string
		expected int
		wantErr  bool
	}{
		{"typical", "$50,000.00", 5000000, false},
		{"small", "$1.23", 123, false},
		{"garbage", "fifty grand", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			amount, err := parseAmount(tt.field)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount failed: %v", err)
			}
			if amount != tt.expected {
				t.Errorf("expected %d cents, got %d", tt.expected, amount)
			}
		})
	}
}

func TestNameTokens(t *testing.T) {
	t.Parallel()

	tokens := NameTokens("Doe, Jane Q Marie")
	if got := strings.Join(tokens, "|"); got != "Doe|Jane|Q|Marie" {
		t.Errorf("expected stored-order tokens, got %q", got)
	}
}

func TestProcessJoinsWithMiddleNameElision(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	// Stored as "Doe, Jane Marie"; the CSV adds an extra middle initial.
	if err := db.UpsertStudents(ctx, []*college.GraduateStudent{{
		ID:    "jdoe",
		Names: []string{"Jane", "Marie", "Doe"},
	}}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	csv := compensationHeader +
		`Wages Paid in FY2023,"Doe, Jane Q Marie",Statistics,Graduate Student,West Lafayette,"$50,000.00"` + "\n"

	salaries, err := testProcessor(t, db).Process(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(salaries) != 1 {
		t.Fatalf("expected one salary, got %d", len(salaries))
	}
	expected := college.Salary{StudentID: "jdoe", Year: 2023, AmountUSD: 5000000}
	if salaries[0] != expected {
		t.Errorf("expected %+v, got %+v", expected, salaries[0])
	}
}

func TestProcessSkipsOtherJobTitles(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertStudents(ctx, []*college.GraduateStudent{{
		ID:    "jdoe",
		Names: []string{"Jane", "Doe"},
	}}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	csv := compensationHeader +
		`Wages Paid in FY2023,"Doe, Jane",Statistics,Professor,West Lafayette,"$150,000.00"` + "\n"

	salaries, err := testProcessor(t, db).Process(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(salaries) != 0 {
		t.Errorf("expected professors to be skipped, got %+v", salaries)
	}
}

func TestProcessDropsUnmatchedRows(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	csv := compensationHeader +
		`Wages Paid in FY2023,"Nobody, Known",Statistics,Graduate Student,West Lafayette,"$40,000.00"` + "\n"

	salaries, err := testProcessor(t, db).Process(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(salaries) != 0 {
		t.Errorf("expected unmatched rows to be dropped, got %+v", salaries)
	}
}

func TestProcessSkipsMalformedRows(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertStudents(ctx, []*college.GraduateStudent{{
		ID:    "jdoe",
		Names: []string{"Jane", "Doe"},
	}}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	csv := compensationHeader +
		`bad year,"Doe, Jane",Statistics,Graduate Student,West Lafayette,"$50,000.00"` + "\n" +
		`Wages Paid in FY2023,"Doe, Jane",Statistics,Graduate Student,West Lafayette,"$50,000.00"` + "\n"

	salaries, err := testProcessor(t, db).Process(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(salaries) != 1 {
		t.Errorf("expected the malformed row to be skipped, got %d salaries", len(salaries))
	}
}

func TestProcessRejectsMissingColumns(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	csv := "Year,Name\n2023,whoever\n"
	if _, err := testProcessor(t, db).Process(context.Background(), strings.NewReader(csv)); err == nil {
		t.Error("expected missing columns to fail")
	}
}

func TestRunPersistsSalaries(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertStudents(ctx, []*college.GraduateStudent{{
		ID:    "jdoe",
		Names: []string{"Jane", "Doe"},
	}}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	csvPath := filepath.Join(t.TempDir(), "compensation.csv")
	csv := compensationHeader +
		`Wages Paid in FY2023,"Doe, Jane",Statistics,Graduate Student,West Lafayette,"$50,000.00"` + "\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	processor := NewProcessor(db, csvPath, logger.NewWithWriter("error", io.Discard), metrics.New())
	if err := processor.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var amount int
	if err := db.Reader().QueryRowContext(ctx, "SELECT AmountUsd FROM Salaries WHERE StudentId = 'jdoe' AND Year = 2023").Scan(&amount); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if amount != 5000000 {
		t.Errorf("expected 5000000 cents, got %d", amount)
	}
}
