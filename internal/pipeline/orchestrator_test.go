package pipeline

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/ecoulson/perdue/internal/college"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/metrics"
)

type recordingStore struct {
	mu    sync.Mutex
	pages [][]college.ScrapeResult
}

func (s *recordingStore) StorePage(_ context.Context, results []college.ScrapeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, results)
	return nil
}

type recordingSalaries struct {
	ran bool
}

func (s *recordingSalaries) Run(context.Context) error {
	s.ran = true
	return nil
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func staticSite(name string, pages [][]college.ScrapeResult, err error) Site {
	return Site{
		College: college.College{ID: "0", Name: name},
		Scrape: func(context.Context) ([][]college.ScrapeResult, error) {
			return pages, err
		},
	}
}

func TestOrchestratorStoresEveryPage(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	salaries := &recordingSalaries{}
	sites := []Site{
		staticSite("A", [][]college.ScrapeResult{{studentRow("a1")}, {studentRow("a2")}}, nil),
		staticSite("B", [][]college.ScrapeResult{{studentRow("b1")}}, nil),
	}

	orchestrator := NewOrchestrator(sites, store, salaries, testLogger(), metrics.New())
	if err := orchestrator.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(store.pages) != 3 {
		t.Errorf("expected 3 stored pages, got %d", len(store.pages))
	}
	if !salaries.ran {
		t.Error("expected the salary phase to run after the sites drained")
	}
}

func TestOrchestratorIsolatesSiteFailures(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	sites := []Site{
		staticSite("Broken", nil, domerrors.Internalf("upstream down")),
		staticSite("Healthy", [][]college.ScrapeResult{{studentRow("ok")}}, nil),
	}

	orchestrator := NewOrchestrator(sites, store, &recordingSalaries{}, testLogger(), metrics.New())
	if err := orchestrator.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(store.pages) != 1 {
		t.Errorf("expected the healthy site's page to be stored, got %d pages", len(store.pages))
	}
}

func TestOrchestratorWithoutSalaryPhase(t *testing.T) {
	t.Parallel()

	orchestrator := NewOrchestrator(nil, &recordingStore{}, nil, testLogger(), metrics.New())
	if err := orchestrator.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}
