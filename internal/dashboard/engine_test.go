package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmate/triage-client/internal/models"
)

type fakeLister struct {
	records []models.CaseRecord
	err     error
	calls   int
}

func (f *fakeLister) ListCases(context.Context) ([]models.CaseRecord, error) {
	f.calls++
	return f.records, f.err
}

func makeRecords(n int, severity func(i int) models.Severity) []models.CaseRecord {
	out := make([]models.CaseRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.CaseRecord{
			Timestamp: fmt.Sprintf("2025-01-01 00:00:%02d", i),
			Name:      fmt.Sprintf("patient-%d", i),
			Age:       models.Age(20 + i),
			Language:  models.LanguageEnglish,
			Severity:  severity(i),
			Symptoms:  "symptoms",
		})
	}
	return out
}

func lowSeverity(int) models.Severity { return models.SeverityLow }

func loadedEngine(t *testing.T, records []models.CaseRecord) *Engine {
	t.Helper()
	engine := NewEngine(&fakeLister{records: records}, nil)
	require.NoError(t, engine.Load(context.Background()))
	return engine
}

func TestTotalPagesFormula(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 20, 21, 99, 100, 101} {
		view := loadedEngine(t, makeRecords(n, lowSeverity)).RenderState()
		want := (n + 9) / 10
		if want < 1 {
			want = 1
		}
		assert.Equal(t, want, view.TotalPages, "n=%d", n)
	}
}

func TestEmptyLoad(t *testing.T) {
	view := loadedEngine(t, nil).RenderState()

	assert.NotNil(t, view.FilteredRecords)
	assert.Empty(t, view.FilteredRecords)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.Page)
	assert.True(t, view.Empty())
	assert.False(t, view.LoadFailed())
	assert.False(t, view.HasPrev)
	assert.False(t, view.HasNext)
}

func TestPageBoundsAreNoOps(t *testing.T) {
	engine := loadedEngine(t, makeRecords(25, lowSeverity))

	assert.False(t, engine.PrevPage())
	assert.Equal(t, 1, engine.RenderState().Page)

	assert.True(t, engine.NextPage())
	assert.True(t, engine.NextPage())
	assert.Equal(t, 3, engine.RenderState().Page)

	assert.False(t, engine.NextPage())
	assert.Equal(t, 3, engine.RenderState().Page)

	assert.True(t, engine.PrevPage())
	assert.Equal(t, 2, engine.RenderState().Page)
}

func TestPageSlice(t *testing.T) {
	engine := loadedEngine(t, makeRecords(25, lowSeverity))
	engine.NextPage()
	engine.NextPage()

	view := engine.RenderState()
	require.Len(t, view.PageRecords, 5)
	assert.Equal(t, "patient-20", view.PageRecords[0].Name)
	assert.Equal(t, "patient-24", view.PageRecords[4].Name)
	assert.True(t, view.HasPrev)
	assert.False(t, view.HasNext)
}

func TestSetFilterResetsPage(t *testing.T) {
	engine := loadedEngine(t, makeRecords(35, lowSeverity))
	engine.NextPage()
	engine.NextPage()
	require.Equal(t, 3, engine.RenderState().Page)

	// Same criteria still resets.
	engine.SetFilter(models.AllCases())
	assert.Equal(t, 1, engine.RenderState().Page)

	engine.NextPage()
	engine.SetFilter(models.FilterCriteria{Severity: "Low"})
	assert.Equal(t, 1, engine.RenderState().Page)
}

func TestSeverityFilterScenario(t *testing.T) {
	records := makeRecords(23, func(i int) models.Severity {
		if i == 2 || i == 11 || i == 19 {
			return models.SeverityHigh
		}
		return models.SeverityLow
	})
	engine := loadedEngine(t, records)

	engine.SetFilter(models.FilterCriteria{Language: models.FilterAll, Severity: "High"})
	view := engine.RenderState()

	assert.Equal(t, 1, view.TotalPages)
	require.Len(t, view.PageRecords, 3)
	assert.Equal(t, []string{"patient-2", "patient-11", "patient-19"},
		[]string{view.PageRecords[0].Name, view.PageRecords[1].Name, view.PageRecords[2].Name})
}

func TestFilteringIsIdempotent(t *testing.T) {
	records := makeRecords(40, func(i int) models.Severity {
		if i%3 == 0 {
			return models.SeverityModerate
		}
		return models.SeverityLow
	})
	engine := loadedEngine(t, records)
	criteria := models.FilterCriteria{Language: "English", Severity: "Moderate"}

	engine.SetFilter(criteria)
	first := engine.RenderState().FilteredRecords
	engine.SetFilter(criteria)
	second := engine.RenderState().FilteredRecords

	assert.Equal(t, first, second)
	assert.Len(t, first, 14)
}

func TestLanguageFilterUnknown(t *testing.T) {
	records := []models.CaseRecord{
		{Name: "a", Language: models.LanguageSpanish, Severity: models.SeverityLow},
		{Name: "b", Severity: models.SeverityLow},
		{Name: "c", Language: models.LanguageEnglish, Severity: models.SeverityHigh},
	}
	engine := loadedEngine(t, records)

	engine.SetFilter(models.FilterCriteria{Language: "unknown"})
	view := engine.RenderState()
	require.Len(t, view.FilteredRecords, 1)
	assert.Equal(t, "b", view.FilteredRecords[0].Name)

	engine.SetFilter(models.FilterCriteria{Language: "Spanish", Severity: "High"})
	assert.Empty(t, engine.RenderState().FilteredRecords)
}

func TestLoadResetsCriteriaAndPage(t *testing.T) {
	lister := &fakeLister{records: makeRecords(30, lowSeverity)}
	engine := NewEngine(lister, nil)
	require.NoError(t, engine.Load(context.Background()))

	engine.SetFilter(models.FilterCriteria{Severity: "Low"})
	engine.NextPage()

	require.NoError(t, engine.Load(context.Background()))
	view := engine.RenderState()
	assert.Equal(t, models.AllCases(), view.Criteria)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 2, lister.calls)
}

func TestLoadFailureLeavesEmptySet(t *testing.T) {
	lister := &fakeLister{records: makeRecords(12, lowSeverity)}
	engine := NewEngine(lister, nil)
	require.NoError(t, engine.Load(context.Background()))

	lister.err = errors.New("connection refused")
	err := engine.Load(context.Background())
	require.Error(t, err)

	view := engine.RenderState()
	assert.True(t, view.LoadFailed())
	assert.Empty(t, view.FilteredRecords)
	assert.Zero(t, view.TotalRecords)
	assert.Equal(t, 1, view.TotalPages)
	assert.False(t, view.Loading)
}

func TestRenderStateIsASnapshot(t *testing.T) {
	engine := loadedEngine(t, makeRecords(3, lowSeverity))
	view := engine.RenderState()
	view.FilteredRecords[0].Name = "mutated"

	assert.Equal(t, "patient-0", engine.RenderState().FilteredRecords[0].Name)
}
