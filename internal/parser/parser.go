// Package parser turns directory row views into canonical student records.
// A RowParser is a set of pure functions, each tolerant of missing inputs;
// site policies override a minimal subset and inherit the rest.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/htmlrow"
)

// RowParser is the capability set a site policy provides. Every method must
// accept a nil element.
type RowParser interface {
	// IsValidPosition gates a row on its position element. Rows failing the
	// gate are dropped silently.
	IsValidPosition(element *goquery.Selection) bool

	// ParseNames extracts ordered first-to-last name tokens.
	ParseNames(elements []*goquery.Selection) []string

	// ParseEmail extracts a normalized lowercased email, or "" when the
	// element carries none.
	ParseEmail(element *goquery.Selection) string

	// ParseID extracts the stable student id, or "" when none can be derived.
	ParseID(element *goquery.Selection) string

	// ParseOffice extracts a building/room pair. The second return reports
	// whether an office (possibly a site default) applies.
	ParseOffice(element *goquery.Selection) (college.Office, bool)

	// ParseDepartment extracts the department name. The second return reports
	// whether a department (possibly a site default) applies.
	ParseDepartment(element *goquery.Selection) (string, bool)

	// ParsePositions extracts the position strings listed on the row.
	ParsePositions(element *goquery.Selection) []string
}

// ParseRow composes the parser capabilities over one row view. It returns a
// student iff the row passes the position gate and yields a non-empty id;
// otherwise nil and the row is dropped.
func ParseRow(p RowParser, row htmlrow.Row) *college.GraduateStudent {
	if !p.IsValidPosition(row.Position) {
		return nil
	}

	student := &college.GraduateStudent{}
	student.Names = p.ParseNames(row.Names)

	if office, ok := p.ParseOffice(row.Location); ok {
		student.Office = office
	}

	if email := p.ParseEmail(row.Email); email != "" {
		student.Email = email
	}

	id := p.ParseID(row.Email)
	if id == "" {
		return nil
	}
	student.ID = id

	if department, ok := p.ParseDepartment(row.Department); ok {
		student.Department = department
	}

	return student
}

// Base supplies the default parser behaviors. Site policies embed it and
// override what the site's markup requires.
type Base struct{}

// IsValidPosition accepts every row.
func (Base) IsValidPosition(*goquery.Selection) bool {
	return true
}

// ParseNames splits the first text node of each element on whitespace.
func (Base) ParseNames(elements []*goquery.Selection) []string {
	var names []string
	for _, element := range elements {
		text, ok := firstText(element)
		if !ok {
			continue
		}
		names = append(names, strings.Fields(strings.TrimSpace(text))...)
	}
	return names
}

// ParseEmail reads the href of a mailto: link, falling back to the element's
// inner text. An href of "#" or any candidate without "@" yields no email.
func (Base) ParseEmail(element *goquery.Selection) string {
	if element == nil {
		return ""
	}

	if href, ok := element.Attr("href"); ok {
		if href == "#" || !strings.Contains(href, "@") {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(strings.Replace(href, "mailto:", "", 1)))
	}

	text, ok := firstText(element)
	if !ok {
		return ""
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if !strings.Contains(text, "@") {
		return ""
	}
	return text
}

// ParseID derives the id from the email local-part, lowercased.
func (b Base) ParseID(element *goquery.Selection) string {
	email := b.ParseEmail(element)
	if email == "" {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(strings.TrimSpace(local))
}

// ParseOffice splits the trimmed first text node on whitespace into
// building then room.
func (Base) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	if element == nil {
		return college.Office{}, false
	}
	text, ok := firstText(element)
	if !ok {
		return college.Office{}, false
	}
	return splitOffice(text), true
}

// ParseDepartment reads the trimmed first text node.
func (Base) ParseDepartment(element *goquery.Selection) (string, bool) {
	if element == nil {
		return "", false
	}
	text, ok := firstText(element)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// ParsePositions splits the trimmed first text node on " // ".
func (Base) ParsePositions(element *goquery.Selection) []string {
	if element == nil {
		return nil
	}
	text, ok := firstText(element)
	if !ok {
		return nil
	}

	parts := strings.Split(strings.TrimSpace(text), " // ")
	positions := make([]string, 0, len(parts))
	for _, part := range parts {
		positions = append(positions, strings.TrimSpace(part))
	}
	return positions
}

// splitOffice splits a location string on the first whitespace into
// building then room.
func splitOffice(text string) college.Office {
	fields := strings.Fields(strings.TrimSpace(text))
	office := college.Office{}
	if len(fields) > 0 {
		office.Building = fields[0]
	}
	if len(fields) > 1 {
		office.Room = fields[1]
	}
	return office
}

// lastNameFirstTokens splits "Last, First Middle" text into ordered
// first-to-last tokens, stripping the given characters beforehand.
func lastNameFirstTokens(text string, strip ...string) []string {
	for _, s := range strip {
		text = strings.ReplaceAll(text, s, "")
	}

	parts := strings.Split(strings.TrimSpace(text), ", ")
	var names []string
	for i := len(parts) - 1; i >= 0; i-- {
		names = append(names, strings.Fields(parts[i])...)
	}
	return names
}

// firstText returns the first descendant text node of the element in tree
// order. Unlike goquery's Text it does not concatenate every text node,
// matching sites where the interesting value is the leading fragment.
func firstText(element *goquery.Selection) (string, bool) {
	texts := textNodes(element, 1)
	if len(texts) == 0 {
		return "", false
	}
	return texts[0], true
}

// nthText returns the n-th (0-based) descendant text node in tree order.
func nthText(element *goquery.Selection, n int) (string, bool) {
	texts := textNodes(element, n+1)
	if len(texts) <= n {
		return "", false
	}
	return texts[n], true
}

// allText concatenates every descendant text node in tree order.
func allText(element *goquery.Selection) string {
	var builder strings.Builder
	for _, text := range textNodes(element, -1) {
		builder.WriteString(text)
	}
	return builder.String()
}

// textNodes walks the element's subtree collecting up to limit text nodes in
// tree order. A negative limit collects all of them.
func textNodes(element *goquery.Selection, limit int) []string {
	if element == nil {
		return nil
	}

	var texts []string
	var walk func(node *html.Node) bool
	walk = func(node *html.Node) bool {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				texts = append(texts, child.Data)
				if limit >= 0 && len(texts) >= limit {
					return true
				}
				continue
			}
			if walk(child) {
				return true
			}
		}
		return false
	}

	for _, node := range element.Nodes {
		if walk(node) {
			break
		}
	}
	return texts
}
