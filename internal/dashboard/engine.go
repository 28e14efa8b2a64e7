package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mindmate/triage-client/internal/metrics"
	"github.com/mindmate/triage-client/internal/models"
)

// PageSize is the fixed number of records per dashboard page.
const PageSize = 10

// CaseLister fetches the full case history from the analyzer.
type CaseLister interface {
	ListCases(ctx context.Context) ([]models.CaseRecord, error)
}

// Engine owns one dashboard session: the fetched record set, the current
// filter and the page. The filtered view is always recomputed from the full
// record set, never patched.
type Engine struct {
	lister CaseLister
	logger *slog.Logger

	mu       sync.RWMutex
	records  []models.CaseRecord
	filtered []models.CaseRecord
	criteria models.FilterCriteria
	page     int
	loading  bool
	loadErr  error
}

// NewEngine creates an empty engine showing page 1 with no filter.
func NewEngine(lister CaseLister, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		lister:   lister,
		logger:   logger,
		criteria: models.AllCases(),
		page:     1,
	}
}

// Load replaces the record set with a fresh fetch and resets the view to
// {all, all}, page 1. On failure the record set is left empty and the view
// carries the error; the same error is returned for callers that want it.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.loading = true
	e.loadErr = nil
	e.records = nil
	e.filtered = nil
	e.page = 1
	e.mu.Unlock()

	records, err := e.lister.ListCases(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	e.criteria = models.AllCases()
	e.page = 1
	if err != nil {
		e.loadErr = err
		e.records = nil
		e.filtered = nil
		metrics.ObserveCaseLoad(metrics.OutcomeFailure)
		e.logger.Warn("case list load failed", slog.Any("error", err))
		return err
	}

	e.records = append([]models.CaseRecord(nil), records...)
	e.refilter()
	metrics.ObserveCaseLoad(metrics.OutcomeSuccess)
	e.logger.Debug("case list loaded", slog.Int("records", len(e.records)))
	return nil
}

// SetFilter replaces the criteria, rescans the record set and returns to page 1.
func (e *Engine) SetFilter(criteria models.FilterCriteria) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.criteria = criteria.Normalized()
	e.page = 1
	e.refilter()
}

// NextPage advances one page. It reports false, leaving the page unchanged,
// when already on the last page.
func (e *Engine) NextPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page >= totalPages(len(e.filtered)) {
		return false
	}
	e.page++
	return true
}

// PrevPage goes back one page. It reports false on page 1.
func (e *Engine) PrevPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page <= 1 {
		return false
	}
	e.page--
	return true
}

// RenderState returns a snapshot of the current view. It never mutates the engine.
func (e *Engine) RenderState() ViewState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := totalPages(len(e.filtered))
	start := (e.page - 1) * PageSize
	end := start + PageSize
	if start > len(e.filtered) {
		start = len(e.filtered)
	}
	if end > len(e.filtered) {
		end = len(e.filtered)
	}

	return ViewState{
		FilteredRecords: cloneRecords(e.filtered),
		PageRecords:     cloneRecords(e.filtered[start:end]),
		TotalRecords:    len(e.records),
		Criteria:        e.criteria,
		Page:            e.page,
		PageSize:        PageSize,
		TotalPages:      total,
		HasPrev:         e.page > 1,
		HasNext:         e.page < total,
		Loading:         e.loading,
		LoadErr:         e.loadErr,
	}
}

// refilter rebuilds the filtered view with a full scan. A page left beyond the
// new bound goes back to 1 rather than to the nearest page. Caller holds mu.
func (e *Engine) refilter() {
	filtered := make([]models.CaseRecord, 0, len(e.records))
	for _, rec := range e.records {
		if e.criteria.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	e.filtered = filtered
	if e.page > totalPages(len(filtered)) {
		e.page = 1
	}
}

func cloneRecords(in []models.CaseRecord) []models.CaseRecord {
	out := make([]models.CaseRecord, len(in))
	copy(out, in)
	return out
}

func totalPages(count int) int {
	pages := (count + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}
