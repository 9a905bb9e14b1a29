// Package htmlrow extracts directory rows from parsed HTML documents.
// Given one selector for directory rows and optional per-field sub-selectors,
// it produces one Row view per directory entry. Rows borrow the parsed
// document and must not be retained past the scrape call that produced them.
package htmlrow

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	domerrors "github.com/ecoulson/perdue/internal/errors"
)

// Selectors configures extraction for one site. DirectoryRow is mandatory;
// empty field selectors mean the field is not present on that site. Names
// are tried in order and every matching selector contributes one element.
type Selectors struct {
	DirectoryRow string
	Names        []string
	Position     string
	Department   string
	Email        string
	Location     string
}

// Row exposes the matched sub-elements of one directory entry. Fields are
// nil when the selector was not configured or did not match.
type Row struct {
	Names      []*goquery.Selection
	Position   *goquery.Selection
	Department *goquery.Selection
	Email      *goquery.Selection
	Location   *goquery.Selection
}

// Parse parses an HTML document. Parse failures are InvalidArgument.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, domerrors.InvalidArgumentf("parse html: %w", err)
	}
	return doc, nil
}

// Rows selects every directory row in the document. An empty result is a
// legitimately empty page, not an error.
func Rows(doc *goquery.Document, selectors Selectors) []Row {
	var rows []Row

	doc.Find(selectors.DirectoryRow).Each(func(_ int, entry *goquery.Selection) {
		row := Row{
			Position:   first(entry, selectors.Position),
			Department: first(entry, selectors.Department),
			Email:      first(entry, selectors.Email),
			Location:   first(entry, selectors.Location),
		}

		for _, nameSelector := range selectors.Names {
			if element := first(entry, nameSelector); element != nil {
				row.Names = append(row.Names, element)
			}
		}

		rows = append(rows, row)
	})

	return rows
}

func first(entry *goquery.Selection, selector string) *goquery.Selection {
	if selector == "" {
		return nil
	}
	match := entry.Find(selector).First()
	if match.Length() == 0 {
		return nil
	}
	return match
}
