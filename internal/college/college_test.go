package college

import (
	"strings"
	"testing"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		names    []string
		expected string
	}{
		{"first middle last", []string{"Anna", "Kay", "Aarstad"}, "Aarstad, Anna Kay"},
		{"first last", []string{"Jane", "Doe"}, "Doe, Jane"},
		{"single token", []string{"Cher"}, "Cher"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CanonicalName(tt.names); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSplitCanonicalName(t *testing.T) {
	t.Parallel()

	tokens := SplitCanonicalName("Doe, Jane Marie")
	if got := strings.Join(tokens, "|"); got != "Doe|Jane|Marie" {
		t.Errorf("expected stored-order tokens, got %q", got)
	}
}

func TestOfficeIsZero(t *testing.T) {
	t.Parallel()

	if !(Office{}).IsZero() {
		t.Error("expected empty office to be zero")
	}
	if (Office{Building: "PHYS"}).IsZero() {
		t.Error("expected office with building to be non-zero")
	}
}

func TestScrapeResult(t *testing.T) {
	t.Parallel()

	success := Success(&GraduateStudent{ID: "jdoe"})
	if !success.OK() {
		t.Error("expected success result to be OK")
	}

	failure := Failure(errTest)
	if failure.OK() {
		t.Error("expected failure result to not be OK")
	}
}

type testError struct{}

func (testError) Error() string { return "test" }

var errTest = testError{}
