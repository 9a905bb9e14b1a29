package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/id"
	"github.com/ecoulson/perdue/internal/metrics"
)

// upsertChunkSize bounds how many rows a single upsert transaction carries.
const upsertChunkSize = 50

// SetMetrics attaches pipeline metrics so upserts report their duration.
func (db *DB) SetMetrics(m *metrics.Metrics) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.metrics = m
}

func (db *DB) observeUpsert(table string, start time.Time) {
	db.mu.RLock()
	m := db.metrics
	db.mu.RUnlock()
	if m != nil {
		m.UpsertDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
	}
}

// StorePage persists the successes of one page-bag. Failures are logged with
// their error kind and skipped; they never abort the page.
func (db *DB) StorePage(ctx context.Context, results []college.ScrapeResult) error {
	students := make([]*college.GraduateStudent, 0, len(results))
	for _, result := range results {
		if !result.OK() {
			status := domerrors.AsStatus(result.Err)
			slog.WarnContext(ctx, "Skipping row",
				"kind", status.Kind.String(),
				"error", status.Err)
			continue
		}
		students = append(students, result.Student)
	}

	if err := db.UpsertStudents(ctx, students); err != nil {
		return err
	}
	return db.UpsertOffices(ctx, students)
}

// UpsertStudents inserts or replaces students by primary key in chunks of
// fifty. Running it twice with the same input leaves the table unchanged.
func (db *DB) UpsertStudents(ctx context.Context, students []*college.GraduateStudent) error {
	if len(students) == 0 {
		return nil
	}

	query := `
		INSERT INTO Students (Id, Name, Email, Department, CollegeId)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(Id) DO UPDATE SET
			Name = excluded.Name,
			Email = excluded.Email,
			Department = excluded.Department,
			CollegeId = excluded.CollegeId
	`

	start := time.Now()
	defer db.observeUpsert("students", start)

	for chunk := range chunks(students, upsertChunkSize) {
		err := db.ExecBatchContext(ctx, query, func(stmt *sql.Stmt) error {
			for _, student := range chunk {
				if _, err := stmt.ExecContext(ctx, student.ID, student.CanonicalName(), student.Email, student.Department, student.CollegeID); err != nil {
					return fmt.Errorf("failed to save student %s: %w", student.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if duration := time.Since(start); duration > 500*time.Millisecond {
		slog.WarnContext(ctx, "slow batch operation",
			"operation", "UpsertStudents",
			"count", len(students),
			"duration_ms", duration.Milliseconds())
	}

	return nil
}

// UpsertOffices inserts an office row for every student that has a
// non-trivial office and no office row yet. Offices are write-once: the
// UNIQUE constraint on StudentId makes later inserts no-ops.
func (db *DB) UpsertOffices(ctx context.Context, students []*college.GraduateStudent) error {
	if len(students) == 0 {
		return nil
	}

	query := `
		INSERT INTO Offices (OfficeId, StudentId, Building, Room)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(StudentId) DO NOTHING
	`

	start := time.Now()
	defer db.observeUpsert("offices", start)

	for chunk := range chunks(students, upsertChunkSize) {
		err := db.ExecBatchContext(ctx, query, func(stmt *sql.Stmt) error {
			for _, student := range chunk {
				if student.Office.IsZero() {
					continue
				}
				if _, err := stmt.ExecContext(ctx, id.New(), student.ID, student.Office.Building, student.Office.Room); err != nil {
					return fmt.Errorf("failed to save office for %s: %w", student.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// UpsertSalaries replaces salaries by (StudentId, Year) in chunks of fifty.
func (db *DB) UpsertSalaries(ctx context.Context, salaries []college.Salary) error {
	if len(salaries) == 0 {
		return nil
	}

	query := `
		INSERT INTO Salaries (StudentId, Year, AmountUsd)
		VALUES (?, ?, ?)
		ON CONFLICT(StudentId, Year) DO UPDATE SET
			AmountUsd = excluded.AmountUsd
	`

	start := time.Now()
	defer db.observeUpsert("salaries", start)

	for chunk := range chunks(salaries, upsertChunkSize) {
		err := db.ExecBatchContext(ctx, query, func(stmt *sql.Stmt) error {
			for _, salary := range chunk {
				if _, err := stmt.ExecContext(ctx, salary.StudentID, salary.Year, salary.AmountUSD); err != nil {
					return fmt.Errorf("failed to save salary for %s: %w", salary.StudentID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// SeedColleges records the static site configuration for the read surface.
func (db *DB) SeedColleges(ctx context.Context, colleges []college.College) error {
	query := `
		INSERT INTO Colleges (Id, Name, Url)
		VALUES (?, ?, ?)
		ON CONFLICT(Id) DO UPDATE SET
			Name = excluded.Name,
			Url = excluded.Url
	`

	return db.ExecBatchContext(ctx, query, func(stmt *sql.Stmt) error {
		for _, c := range colleges {
			if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.BaseURL); err != nil {
				return fmt.Errorf("failed to seed college %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// LookupStudentByName resolves a stored-order name token sequence to at most
// one student via a LIKE pattern of the tokens joined by wildcards. On a
// miss it removes the second token and retries while more than two tokens
// remain (progressive middle elision). The returned student's Names are the
// stored name's tokens in stored order (last name first), not first-to-last,
// and its Office is empty.
func (db *DB) LookupStudentByName(ctx context.Context, names []string) (*college.GraduateStudent, error) {
	tokens := make([]string, len(names))
	copy(tokens, names)

	for {
		student, err := db.lookupByPattern(ctx, tokens)
		if err != nil {
			return nil, err
		}
		if student != nil {
			return student, nil
		}
		if len(tokens) <= 2 {
			return nil, nil
		}
		tokens = append(tokens[:1], tokens[2:]...)
	}
}

func (db *DB) lookupByPattern(ctx context.Context, tokens []string) (*college.GraduateStudent, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	sanitized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		sanitized = append(sanitized, sanitizeLikeToken(token))
	}
	pattern := strings.Join(sanitized, "%")

	query := `
		SELECT Id, Email, Name, Department, CollegeId
		FROM Students
		WHERE Name LIKE ? ESCAPE '\'
		ORDER BY Id
		LIMIT 1
	`

	row := db.Reader().QueryRowContext(ctx, query, pattern)

	var studentID, email, name, department, collegeID string
	if err := row.Scan(&studentID, &email, &name, &department, &collegeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup student by name: %w", err)
	}

	return &college.GraduateStudent{
		ID:         studentID,
		Names:      college.SplitCanonicalName(name),
		Email:      email,
		Department: department,
		CollegeID:  collegeID,
	}, nil
}

// CountStudents reports how many students the store holds.
func (db *DB) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := db.Reader().QueryRowContext(ctx, "SELECT COUNT(*) FROM Students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// chunks yields len-bounded sub-slices of items in order.
func chunks[T any](items []T, size int) func(func([]T) bool) {
	return func(yield func([]T) bool) {
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}
