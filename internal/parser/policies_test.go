package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func nameElements(t *testing.T, html, selector string) []*goquery.Selection {
	t.Helper()
	return []*goquery.Selection{selection(t, html, selector)}
}

func TestLastNameFirstParseNames(t *testing.T) {
	t.Parallel()
	names := LastNameFirst{}.ParseNames(nameElements(t, `<a>Doe, Jane Q</a>`, "a"))
	if got := strings.Join(names, "|"); got != "Jane|Q|Doe" {
		t.Errorf("expected Jane|Q|Doe, got %q", got)
	}
}

func TestPharmacyParseNames(t *testing.T) {
	t.Parallel()

	names := Pharmacy{}.ParseNames(nameElements(t, `<td>Jane (Janie) Doe</td>`, "td"))
	if got := strings.Join(names, "|"); got != "Jane|Janie|Doe" {
		t.Errorf("expected parentheses stripped, got %q", got)
	}

	if department, _ := (Pharmacy{}).ParseDepartment(nil); department != "School of Pharmacy" {
		t.Errorf("unexpected department: %q", department)
	}
}

func TestChemicalSciencesOfficeSwapsOrder(t *testing.T) {
	t.Parallel()

	office, ok := ChemicalSciences{}.ParseOffice(selection(t, `<td>2128 BRWN</td>`, "td"))
	if !ok {
		t.Fatal("expected an office")
	}
	if office.Room != "2128" || office.Building != "BRWN" {
		t.Errorf("expected room-first layout, got %+v", office)
	}
}

func TestChemicalSciencesParseNames(t *testing.T) {
	t.Parallel()
	names := ChemicalSciences{}.ParseNames(nameElements(t, `<td>Doe, Jane (Janie)</td>`, "td"))
	if got := strings.Join(names, "|"); got != "Jane|Janie|Doe" {
		t.Errorf("expected Jane|Janie|Doe, got %q", got)
	}
}

func TestPhysicsAndAstronomy(t *testing.T) {
	t.Parallel()

	policy := PhysicsAndAstronomy{}

	if !policy.IsValidPosition(selection(t, `<a>Graduate Students</a>`, "a")) {
		t.Error("expected graduate students tab to pass the gate")
	}
	if policy.IsValidPosition(selection(t, `<a>Faculty</a>`, "a")) {
		t.Error("expected faculty tab to fail the gate")
	}
	if policy.IsValidPosition(nil) {
		t.Error("expected missing position element to fail the gate")
	}

	id := policy.ParseID(selection(t, `<span class="email_link">jdoe</span>`, "span"))
	if id != "jdoe" {
		t.Errorf("expected username id, got %q", id)
	}

	email := policy.ParseEmail(selection(t, `<span class="email_link">jdoe</span>`, "span"))
	if email != "jdoe@purdue.edu" {
		t.Errorf("expected synthesized email, got %q", email)
	}

	office, _ := policy.ParseOffice(nil)
	if office.Building != "PHYS" {
		t.Errorf("expected PHYS fallback, got %+v", office)
	}
}

func TestVeterinaryMedicine(t *testing.T) {
	t.Parallel()

	policy := VeterinaryMedicine{}

	names := policy.ParseNames(nameElements(t, `<a>Doe, Jane M.</a>`, "a"))
	if got := strings.Join(names, "|"); got != "Jane|M|Doe" {
		t.Errorf("expected periods stripped, got %q", got)
	}

	office, ok := policy.ParseOffice(selection(t, `<div>LYNN 1177</div>`, "div"))
	if !ok || !office.IsZero() {
		t.Errorf("expected an always-empty office, got %+v (ok=%v)", office, ok)
	}
}

func TestBiologicalSciencesOffice(t *testing.T) {
	t.Parallel()

	office, ok := BiologicalSciences{}.ParseOffice(selection(t,
		`<p><strong>Office:</strong> LILY 1-233 (Lab)</p>`, "p"))
	if !ok {
		t.Fatal("expected an office")
	}
	if office.Building != "LILY" || office.Room != "1-233" {
		t.Errorf("expected lab suffix stripped after the label, got %+v", office)
	}
}

func TestStatisticsOffice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		html             string
		expectedBuilding string
		expectedRoom     string
	}{
		{"email only row", `<p>Email: <a>jdoe@purdue.edu</a></p>`, "MATH", ""},
		{"office row", `<p><strong>Office:</strong> Office:MATH 535</p>`, "MATH", "535"},
		{"missing location", `<p></p>`, "MATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			office, ok := Statistics{}.ParseOffice(selection(t, tt.html, "p"))
			if !ok {
				t.Fatal("expected an office")
			}
			if office.Building != tt.expectedBuilding || office.Room != tt.expectedRoom {
				t.Errorf("unexpected office: %+v", office)
			}
		})
	}
}

func TestLiberalArts(t *testing.T) {
	t.Parallel()

	policy := LiberalArts{}

	if !policy.IsValidPosition(selection(t, `<td>Graduate Student // SLC</td>`, "td")) {
		t.Error("expected graduate student row to pass the gate")
	}
	if policy.IsValidPosition(selection(t, `<td>Professor</td>`, "td")) {
		t.Error("expected professor row to fail the gate")
	}

	email := policy.ParseEmail(selection(t, `<td>JDoe@purdue.edu</td>`, "td"))
	if email != "jdoe@purdue.edu" {
		t.Errorf("expected text email, got %q", email)
	}

	if id := policy.ParseID(selection(t, `<td>jdoe@purdue.edu</td>`, "td")); id != "jdoe" {
		t.Errorf("expected id jdoe, got %q", id)
	}

	if email := policy.ParseEmail(selection(t, `<td>unlisted</td>`, "td")); email != "" {
		t.Errorf("expected no email for text without at sign, got %q", email)
	}
}
