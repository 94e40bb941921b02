package standardize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUnmappedDeduplicates(t *testing.T) {
	l := NewUnmappedTagLogger(false)
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "BalanceSheet", Label: "Foo"})
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "BalanceSheet", Label: "Foo again"})
	assert.Equal(t, 1, l.UnmappedCount())
}

func TestLogUnmappedDistinguishesByStatementType(t *testing.T) {
	l := NewUnmappedTagLogger(false)
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "BalanceSheet", Label: "Foo"})
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "IncomeStatement", Label: "Foo"})
	assert.Equal(t, 2, l.UnmappedCount())
}

func TestLogAmbiguousDeduplicatesByConceptSectionResolution(t *testing.T) {
	l := NewUnmappedTagLogger(false)
	l.LogAmbiguous(AmbiguousResolutionEntry{Concept: "bar", Section: "Current Assets", ResolvedTo: "X", ResolutionMethod: "section"})
	l.LogAmbiguous(AmbiguousResolutionEntry{Concept: "bar", Section: "Current Assets", ResolvedTo: "X", ResolutionMethod: "section"})
	assert.Equal(t, 1, l.AmbiguousCount())
}

func TestAutoSuggestKeywordHeuristic(t *testing.T) {
	l := NewUnmappedTagLogger(true)
	l.LogUnmapped(UnmappedTagEntry{Concept: "us-gaap:GoodwillCustom", StatementType: "BalanceSheet", Label: "Goodwill, net"})
	entries := l.GetHighConfidenceSuggestions(0.7)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Goodwill", entries[0].SuggestedMapping)
}

func TestSaveUnmappedCSVWritesExpectedColumns(t *testing.T) {
	l := NewUnmappedTagLogger(true)
	l.LogUnmapped(UnmappedTagEntry{Concept: "us-gaap:GoodwillCustom", StatementType: "BalanceSheet", Label: "Goodwill, net", CIK: "0000320193"})

	dir := t.TempDir()
	path := filepath.Join(dir, "unmapped.csv")
	count, err := l.SaveUnmappedCSV(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "concept,label,suggested_mapping,confidence")
	assert.Contains(t, string(data), "us-gaap:GoodwillCustom")
}

func TestSaveAmbiguousCSVPipeJoinsCandidates(t *testing.T) {
	l := NewUnmappedTagLogger(false)
	l.LogAmbiguous(AmbiguousResolutionEntry{
		Concept:          "AccountsPayableCurrentAndNoncurrent",
		Candidates:       []string{"Accounts Payable", "Accrued Liabilities"},
		ResolvedTo:       "Accounts Payable",
		ResolutionMethod: "section",
		Confidence:       1.0,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "ambiguous.csv")
	count, err := l.SaveAmbiguousCSV(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "Accounts Payable|Accrued Liabilities")
}

func TestSaveToCSVCreatesBothFiles(t *testing.T) {
	l := NewUnmappedTagLogger(true)
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "BalanceSheet", Label: "Foo"})
	l.LogAmbiguous(AmbiguousResolutionEntry{Concept: "bar", ResolvedTo: "Bar", ResolutionMethod: "fallback", Candidates: []string{"Bar", "Baz"}})

	dir := t.TempDir()
	unmappedCount, ambiguousCount, err := l.SaveToCSV(dir)
	assert.NoError(t, err)
	assert.Equal(t, 1, unmappedCount)
	assert.Equal(t, 1, ambiguousCount)

	_, err = os.Stat(filepath.Join(dir, "unmapped_tags.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ambiguous_resolutions.csv"))
	assert.NoError(t, err)
}

func TestClearResetsBothPartitions(t *testing.T) {
	l := NewUnmappedTagLogger(false)
	l.LogUnmapped(UnmappedTagEntry{Concept: "foo", StatementType: "BalanceSheet"})
	l.LogAmbiguous(AmbiguousResolutionEntry{Concept: "bar", ResolvedTo: "X"})
	l.Clear()
	assert.Equal(t, 0, l.UnmappedCount())
	assert.Equal(t, 0, l.AmbiguousCount())
}
