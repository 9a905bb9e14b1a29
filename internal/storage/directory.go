package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// directoryColumns maps the read surface's column names onto qualified SQL
// expressions. Filters and sorts only bind through this allowlist.
var directoryColumns = map[string]string{
	"Id":         "Students.Id",
	"Name":       "Students.Name",
	"Email":      "Students.Email",
	"Department": "Students.Department",
	"CollegeId":  "Students.CollegeId",
	"Building":   "Offices.Building",
	"Room":       "Offices.Room",
	"AmountUsd":  "Salaries.AmountUsd",
	"Year":       "Salaries.Year",
}

// IsDirectoryColumn reports whether the column is part of the read surface.
func IsDirectoryColumn(column string) bool {
	_, ok := directoryColumns[column]
	return ok
}

const directorySelect = `
	SELECT Students.Id, Students.Department, Students.Email, Students.Name,
	       Salaries.Year, Salaries.AmountUsd, Students.CollegeId,
	       Offices.Building, Offices.Room
	FROM Students
	JOIN Salaries ON Students.Id = Salaries.StudentId
	LEFT JOIN Offices ON Students.Id = Offices.StudentId
`

// DirectoryRows returns the merged directory, filtered and sorted per the
// query. Unknown filter or sort columns are rejected.
func (db *DB) DirectoryRows(ctx context.Context, query DirectoryQuery) ([]DirectoryRow, error) {
	var conditions []string
	var args []any
	for _, filter := range query.Filters {
		column, ok := directoryColumns[filter.Column]
		if !ok {
			return nil, fmt.Errorf("unknown directory column: %q", filter.Column)
		}
		conditions = append(conditions, column+" = ?")
		args = append(args, filter.Value)
	}

	sortColumn, ok := directoryColumns[query.SortColumn]
	if query.SortColumn == "" {
		sortColumn = directoryColumns["Id"]
	} else if !ok {
		return nil, fmt.Errorf("unknown directory column: %q", query.SortColumn)
	}

	sortDirection := strings.ToUpper(query.SortDirection)
	switch sortDirection {
	case "":
		sortDirection = "ASC"
	case "ASC", "DESC":
	default:
		return nil, fmt.Errorf("unknown sort direction: %q", query.SortDirection)
	}

	stmt := directorySelect
	if len(conditions) > 0 {
		stmt += " WHERE " + strings.Join(conditions, " OR ")
	}
	stmt += fmt.Sprintf(" ORDER BY %s %s", sortColumn, sortDirection)

	rows, err := db.Reader().QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDirectoryRows(rows)
}

// StudentsByCollege returns the directory restricted to one college.
func (db *DB) StudentsByCollege(ctx context.Context, collegeID string) ([]DirectoryRow, error) {
	stmt := directorySelect + " WHERE Students.CollegeId = ? ORDER BY Students.Id ASC"

	rows, err := db.Reader().QueryContext(ctx, stmt, collegeID)
	if err != nil {
		return nil, fmt.Errorf("query college students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDirectoryRows(rows)
}

// CollegeByID returns one college's static configuration, or nil.
func (db *DB) CollegeByID(ctx context.Context, collegeID string) (*CollegeRow, error) {
	row := db.Reader().QueryRowContext(ctx, "SELECT Id, Name, Url FROM Colleges WHERE Id = ?", collegeID)

	var c CollegeRow
	if err := row.Scan(&c.ID, &c.Name, &c.URL); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query college: %w", err)
	}
	return &c, nil
}

// CollegeRow is one stored college.
type CollegeRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func scanDirectoryRows(rows *sql.Rows) ([]DirectoryRow, error) {
	var directory []DirectoryRow
	for rows.Next() {
		var row DirectoryRow
		var building, room sql.NullString
		if err := rows.Scan(&row.ID, &row.Department, &row.Email, &row.Name,
			&row.Year, &row.AmountUSD, &row.CollegeID, &building, &room); err != nil {
			return nil, fmt.Errorf("scan directory row: %w", err)
		}
		row.Building = building.String
		row.Room = room.String
		row.Name = displayName(row.Name)
		directory = append(directory, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory rows: %w", err)
	}
	return directory, nil
}

// displayName renders the stored "Last, First Middle" shape for display.
func displayName(name string) string {
	return strings.Join(strings.Split(name, ", "), " ")
}
