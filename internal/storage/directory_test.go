package storage

import (
	"context"
	"testing"

	"github.com/ecoulson/perdue/internal/college"
)

func seedDirectory(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	students := []*college.GraduateStudent{
		{
			ID:         "aaarstad",
			Names:      []string{"Anna", "Kay", "Aarstad"},
			Email:      "aaarstad@purdue.edu",
			Department: "Agricultural Economics",
			Office:     college.Office{Building: "KRAN"},
			CollegeID:  "0",
		},
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
	if err := db.UpsertOffices(ctx, students); err != nil {
		t.Fatalf("seed offices: %v", err)
	}
	if err := db.UpsertSalaries(ctx, []college.Salary{
		{StudentID: "aaarstad", Year: 2023, AmountUSD: 3000000},
		{StudentID: "jdoe", Year: 2023, AmountUSD: 5000000},
	}); err != nil {
		t.Fatalf("seed salaries: %v", err)
	}
}

func TestDirectoryRowsDefaultSort(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	rows, err := db.DirectoryRows(context.Background(), DirectoryQuery{})
	if err != nil {
		t.Fatalf("DirectoryRows failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "aaarstad" || rows[1].ID != "jdoe" {
		t.Errorf("expected Id ascending order, got %q then %q", rows[0].ID, rows[1].ID)
	}
	if rows[0].Name != "Aarstad Anna Kay" {
		t.Errorf("expected display name, got %q", rows[0].Name)
	}
	if rows[1].Building != "LWSN" || rows[1].Room != "1163" {
		t.Errorf("expected joined office, got %+v", rows[1])
	}
}

func TestDirectoryRowsFilter(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	rows, err := db.DirectoryRows(context.Background(), DirectoryQuery{
		Filters: []Filter{{Column: "Department", Value: "Agricultural Economics"}},
	})
	if err != nil {
		t.Fatalf("DirectoryRows failed: %v", err)
	}

	if len(rows) != 1 || rows[0].ID != "aaarstad" {
		t.Errorf("unexpected filtered rows: %+v", rows)
	}
}

func TestDirectoryRowsFiltersAreOrCombined(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	rows, err := db.DirectoryRows(context.Background(), DirectoryQuery{
		Filters: []Filter{
			{Column: "Id", Value: "aaarstad"},
			{Column: "Id", Value: "jdoe"},
		},
	})
	if err != nil {
		t.Fatalf("DirectoryRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected OR-combined filters to match both rows, got %d", len(rows))
	}
}

func TestDirectoryRowsSortDescending(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	rows, err := db.DirectoryRows(context.Background(), DirectoryQuery{
		SortColumn:    "AmountUsd",
		SortDirection: "desc",
	})
	if err != nil {
		t.Fatalf("DirectoryRows failed: %v", err)
	}
	if rows[0].ID != "jdoe" {
		t.Errorf("expected highest compensation first, got %q", rows[0].ID)
	}
}

func TestDirectoryRowsRejectsUnknownColumn(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	if _, err := db.DirectoryRows(context.Background(), DirectoryQuery{
		Filters: []Filter{{Column: "Id; DROP TABLE Students", Value: "x"}},
	}); err == nil {
		t.Error("expected unknown filter column to be rejected")
	}

	if _, err := db.DirectoryRows(context.Background(), DirectoryQuery{
		SortColumn: "Name); DELETE FROM Students",
	}); err == nil {
		t.Error("expected unknown sort column to be rejected")
	}
}

func TestStudentsByCollege(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	seedDirectory(t, db)

	rows, err := db.StudentsByCollege(context.Background(), "14")
	if err != nil {
		t.Fatalf("StudentsByCollege failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "jdoe" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestCollegeByID(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedColleges(ctx, []college.College{
		{ID: "0", Name: "College of Agriculture", BaseURL: "https://ag.purdue.edu"},
	}); err != nil {
		t.Fatalf("SeedColleges failed: %v", err)
	}

	row, err := db.CollegeByID(ctx, "0")
	if err != nil {
		t.Fatalf("CollegeByID failed: %v", err)
	}
	if row == nil || row.Name != "College of Agriculture" {
		t.Errorf("unexpected college: %+v", row)
	}

	missing, err := db.CollegeByID(ctx, "99")
	if err != nil {
		t.Fatalf("CollegeByID failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown college, got %+v", missing)
	}
}
