// Package salary streams the Indiana compensation CSV and reconciles each
// graduate-student row to a stored student by name.
package salary

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/metrics"
)

// graduateJobTitle is the only job title the join considers.
const graduateJobTitle = "Graduate Student"

// yearSuffixIndex is where the fiscal year starts inside the CSV's
// free-form Year field.
const yearSuffixIndex = 16

// Store is the persistence surface the joiner needs: name resolution against
// stored students plus the salary upsert.
type Store interface {
	LookupStudentByName(ctx context.Context, names []string) (*college.GraduateStudent, error)
	UpsertSalaries(ctx context.Context, salaries []college.Salary) error
}

// Processor joins the compensation CSV against the student store.
type Processor struct {
	store   Store
	path    string
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewProcessor builds a processor reading the CSV at path.
func NewProcessor(store Store, path string, log *logger.Logger, m *metrics.Metrics) *Processor {
	return &Processor{
		store:   store,
		path:    path,
		log:     log.WithModule("salary"),
		metrics: m,
	}
}

// Run streams the CSV and persists every reconciled salary.
func (p *Processor) Run(ctx context.Context) error {
	file, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("open compensation file: %w", err)
	}
	defer func() { _ = file.Close() }()

	salaries, err := p.Process(ctx, file)
	if err != nil {
		return err
	}

	return p.store.UpsertSalaries(ctx, salaries)
}

// Process reads compensation rows and emits one Salary per row whose name
// reconciles to a stored student. Malformed rows are logged and skipped;
// unmatched rows are dropped.
func (p *Processor) Process(ctx context.Context, r io.Reader) ([]college.Salary, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read compensation header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Year", "Name", "JobTitle", "TotalCompensation"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("compensation file is missing column %q", required)
		}
	}

	var salaries []college.Salary
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read compensation row: %w", err)
		}

		if record[columns["JobTitle"]] != graduateJobTitle {
			p.metrics.SalaryRowsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		year, err := parseYear(record[columns["Year"]])
		if err != nil {
			p.metrics.SalaryRowsTotal.WithLabelValues("invalid").Inc()
			p.log.WithError(err).WarnContext(ctx, "Skipping malformed compensation row",
				"name", record[columns["Name"]])
			continue
		}

		amount, err := parseAmount(record[columns["TotalCompensation"]])
		if err != nil {
			p.metrics.SalaryRowsTotal.WithLabelValues("invalid").Inc()
			p.log.WithError(err).WarnContext(ctx, "Skipping malformed compensation row",
				"name", record[columns["Name"]])
			continue
		}

		names := NameTokens(record[columns["Name"]])
		student, err := p.store.LookupStudentByName(ctx, names)
		if err != nil {
			return nil, err
		}
		if student == nil {
			p.metrics.SalaryRowsTotal.WithLabelValues("unmatched").Inc()
			continue
		}

		p.metrics.SalaryRowsTotal.WithLabelValues("matched").Inc()
		salaries = append(salaries, college.Salary{
			StudentID: student.ID,
			Year:      year,
			AmountUSD: amount,
		})
	}

	return salaries, nil
}

// parseYear reads the fiscal year embedded in the tail of the descriptive
// Year field.
func parseYear(field string) (int, error) {
	if len(field) <= yearSuffixIndex {
		return 0, fmt.Errorf("year field %q is too short", field)
	}
	year, err := strconv.Atoi(strings.TrimSpace(field[yearSuffixIndex:]))
	if err != nil {
		return 0, fmt.Errorf("parse year from %q: %w", field, err)
	}
	return year, nil
}

// parseAmount converts "$DDD,DDD.cc" into integer cents.
func parseAmount(field string) (int, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", ".", "").Replace(field)
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse compensation from %q: %w", field, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative compensation in %q", field)
	}
	return amount, nil
}

// NameTokens splits a "Last, First Middle" compensation name into the
// stored-order token sequence the name lookup expects: parts split on ", ",
// each part split on whitespace, flattened without reordering.
func NameTokens(name string) []string {
	var tokens []string
	for _, part := range strings.Split(name, ", ") {
		tokens = append(tokens, strings.Fields(part)...)
	}
	return tokens
}
