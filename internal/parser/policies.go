package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ecoulson/perdue/internal/college"
)

// Default is the baseline site policy: default behaviors plus configured
// fallbacks for rows that carry no department or location markup.
type Default struct {
	Base
	DefaultDepartment string
	DefaultOffice     college.Office
}

func (p Default) ParseDepartment(element *goquery.Selection) (string, bool) {
	if element == nil {
		return p.DefaultDepartment, true
	}
	text, ok := firstText(element)
	if !ok {
		return p.DefaultDepartment, true
	}
	return strings.TrimSpace(text), true
}

func (p Default) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	if element == nil {
		return p.DefaultOffice, true
	}
	text, ok := firstText(element)
	if !ok {
		return p.DefaultOffice, true
	}
	return splitOffice(text), true
}

// LastNameFirst handles sites that render names "Last, First Middle".
type LastNameFirst struct {
	Base
}

func (LastNameFirst) ParseNames(elements []*goquery.Selection) []string {
	if len(elements) == 0 {
		return nil
	}
	text, ok := firstText(elements[0])
	if !ok {
		return nil
	}
	return lastNameFirstTokens(text)
}

// Pharmacy names come "First (Nickname) Last" in a single cell.
type Pharmacy struct {
	Base
}

func (Pharmacy) ParseDepartment(*goquery.Selection) (string, bool) {
	return "School of Pharmacy", true
}

func (Pharmacy) ParseNames(elements []*goquery.Selection) []string {
	if len(elements) == 0 {
		return nil
	}
	text, ok := firstText(elements[0])
	if !ok {
		return nil
	}
	text = strings.ReplaceAll(text, "(", "")
	text = strings.ReplaceAll(text, ")", "")
	return strings.Fields(strings.TrimSpace(text))
}

// ChemicalSciences lists room before building and renders names
// "Last, First".
type ChemicalSciences struct {
	Base
}

func (ChemicalSciences) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	if element == nil {
		return college.Office{}, false
	}
	text, ok := firstText(element)
	if !ok {
		return college.Office{}, false
	}

	fields := strings.Fields(strings.TrimSpace(text))
	office := college.Office{}
	if len(fields) > 0 {
		office.Room = fields[0]
	}
	if len(fields) > 1 {
		office.Building = fields[1]
	}
	return office, true
}

func (ChemicalSciences) ParseDepartment(*goquery.Selection) (string, bool) {
	return "Department Of Chemistry", true
}

func (ChemicalSciences) ParseNames(elements []*goquery.Selection) []string {
	if len(elements) == 0 {
		return nil
	}
	text, ok := firstText(elements[0])
	if !ok {
		return nil
	}
	return lastNameFirstTokens(text, "(", ")")
}

// PhysicsAndAstronomy publishes usernames instead of mailto links and gates
// rows on the "Graduate Students" category tab.
type PhysicsAndAstronomy struct {
	Base
}

func (PhysicsAndAstronomy) IsValidPosition(element *goquery.Selection) bool {
	if element == nil {
		return false
	}
	text, ok := firstText(element)
	if !ok {
		return false
	}
	return strings.ToLower(text) == "graduate students"
}

func (PhysicsAndAstronomy) ParseNames(elements []*goquery.Selection) []string {
	if len(elements) == 0 {
		return nil
	}
	text, ok := firstText(elements[0])
	if !ok {
		return nil
	}
	return lastNameFirstTokens(text)
}

func (PhysicsAndAstronomy) ParseID(element *goquery.Selection) string {
	if element == nil {
		return ""
	}
	text, ok := firstText(element)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(text))
}

func (p PhysicsAndAstronomy) ParseEmail(element *goquery.Selection) string {
	id := p.ParseID(element)
	if id == "" {
		return ""
	}
	return id + "@purdue.edu"
}

func (PhysicsAndAstronomy) ParseDepartment(*goquery.Selection) (string, bool) {
	return "Department of Physics and Astronomy", true
}

func (PhysicsAndAstronomy) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	fallback := college.Office{Building: "PHYS"}
	if element == nil {
		return fallback, true
	}
	text, ok := firstText(element)
	if !ok {
		return fallback, true
	}

	office := splitOffice(text)
	if office.Building == "" {
		office.Building = "PHYS"
	}
	return office, true
}

// VeterinaryMedicine publishes no offices and renders names
// "Last, First M." with stray punctuation.
type VeterinaryMedicine struct {
	Base
}

func (VeterinaryMedicine) ParseOffice(*goquery.Selection) (college.Office, bool) {
	return college.Office{}, true
}

func (VeterinaryMedicine) ParseDepartment(*goquery.Selection) (string, bool) {
	return "Department of Veterinary Medicine", true
}

func (VeterinaryMedicine) ParseNames(elements []*goquery.Selection) []string {
	if len(elements) == 0 {
		return nil
	}
	text, ok := firstText(elements[0])
	if !ok {
		return nil
	}
	return lastNameFirstTokens(text, "(", ")", ".")
}

// BiologicalSciences nests the location behind a label node and suffixes
// lab rooms with "(Lab)".
type BiologicalSciences struct {
	Base
}

func (BiologicalSciences) ParseDepartment(*goquery.Selection) (string, bool) {
	return "School of Biological sciences", true
}

func (BiologicalSciences) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	if element == nil {
		return college.Office{}, false
	}
	// The first text node is the "Office:" label; the location follows it.
	text, ok := nthText(element, 1)
	if !ok {
		return college.Office{}, false
	}
	text = strings.ReplaceAll(text, " (lab)", "")
	text = strings.ReplaceAll(text, " (Lab)", "")
	return splitOffice(text), true
}

// Statistics prefixes locations with "Office:" and lists email-only rows
// whose first text node is "Email: ".
type Statistics struct {
	Base
}

func (Statistics) ParseDepartment(*goquery.Selection) (string, bool) {
	return "Department of Statistics", true
}

func (Statistics) ParseOffice(element *goquery.Selection) (college.Office, bool) {
	fallback := college.Office{Building: "MATH"}
	if element == nil {
		return fallback, true
	}

	first, ok := firstText(element)
	if !ok || first == "Email: " {
		return fallback, true
	}

	text, ok := nthText(element, 1)
	if !ok {
		return fallback, true
	}

	fields := strings.Fields(strings.TrimSpace(text))
	office := college.Office{}
	if len(fields) > 0 {
		office.Building = strings.TrimSpace(strings.Replace(fields[0], "Office:", "", 1))
	}
	if len(fields) > 1 {
		office.Room = fields[1]
	}
	return office, true
}

// LiberalArts rows gate on a position list and publish the email as plain
// cell text.
type LiberalArts struct {
	Base
}

func (p LiberalArts) IsValidPosition(element *goquery.Selection) bool {
	positions := p.ParsePositions(element)
	for _, position := range positions {
		if position == "Graduate Student" {
			return true
		}
	}
	return false
}

func (LiberalArts) ParseEmail(element *goquery.Selection) string {
	if element == nil {
		return ""
	}
	text := strings.ToLower(strings.TrimSpace(allText(element)))
	if !strings.Contains(text, "@") {
		return ""
	}
	return text
}

func (p LiberalArts) ParseID(element *goquery.Selection) string {
	email := p.ParseEmail(element)
	if email == "" {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(strings.TrimSpace(local))
}
