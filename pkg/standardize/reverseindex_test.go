package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupNonAmbiguous(t *testing.T) {
	ri := NewReverseIndex(nil)
	result, err := ri.Lookup("us-gaap:Goodwill")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.IsAmbiguous)
	assert.Equal(t, "Goodwill", result.PrimaryConcept())
}

func TestLookupStripsNamespacePrefix(t *testing.T) {
	ri := NewReverseIndex(nil)
	result, err := ri.Lookup("us-gaap_NetIncomeLoss")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Net Income", result.PrimaryConcept())
}

func TestLookupCaseInsensitive(t *testing.T) {
	ri := NewReverseIndex(nil)
	result, err := ri.Lookup("goodwill")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Goodwill", result.PrimaryConcept())
}

func TestLookupExcludedTagReturnsNil(t *testing.T) {
	ri := NewReverseIndex(nil)
	result, err := ri.Lookup("dei:DocumentType")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupUnknownTagReturnsNil(t *testing.T) {
	ri := NewReverseIndex(nil)
	result, err := ri.Lookup("us-gaap:SomeTagNobodyMapped")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestGetStandardConceptAmbiguousFallback(t *testing.T) {
	ri := NewReverseIndex(nil)
	concept, ok := ri.GetStandardConcept("AccountsPayableCurrentAndNoncurrent", nil, false)
	assert.True(t, ok)
	assert.Equal(t, "Accounts Payable", concept) // first candidate wins with no context
}

func TestGetStandardConceptIsTotalHint(t *testing.T) {
	ri := NewReverseIndex(nil)
	// Neither candidate for this tag contains "total" or "current" in its
	// name, so the is_total and tag-name hint rules both fall through and
	// the first candidate wins.
	concept, ok := ri.GetStandardConcept("DebtCurrent", &DisambiguationContext{IsTotal: true}, false)
	assert.True(t, ok)
	assert.Equal(t, "Short-Term Debt", concept)
}

func TestGetStandardConceptTagNameHintPrefersCurrent(t *testing.T) {
	ri := NewReverseIndex(nil)
	concept, ok := ri.GetStandardConcept("DebtCurrent", nil, false)
	assert.True(t, ok)
	assert.Equal(t, "Short-Term Debt", concept)
}

func TestGetStandardConceptTagNameHintPrefersNoncurrent(t *testing.T) {
	ri := NewReverseIndex(nil)
	concept, ok := ri.GetStandardConcept("LongTermDebtNoncurrent", nil, false)
	assert.True(t, ok)
	assert.Equal(t, "Long-Term Debt", concept)
}

func TestGetStandardConceptSectionDisambiguation(t *testing.T) {
	ri := NewReverseIndex(nil)
	concept, ok := ri.GetStandardConcept("AccountsPayableCurrentAndNoncurrent", &DisambiguationContext{
		StatementType: "BalanceSheet",
		Section:       "Current Liabilities",
	}, false)
	assert.True(t, ok)
	assert.Equal(t, "Accounts Payable", concept)
}

func TestGetStandardConceptLogsAmbiguousResolution(t *testing.T) {
	logger := NewUnmappedTagLogger(false)
	ri := NewReverseIndex(logger)
	_, ok := ri.GetStandardConcept("AccountsPayableCurrentAndNoncurrent", &DisambiguationContext{
		StatementType: "BalanceSheet",
		Section:       "Current Liabilities",
		Label:         "Trade Payables",
	}, true)
	assert.True(t, ok)
	assert.Equal(t, 1, logger.AmbiguousCount())
}

func TestSectionsMatchCurrentAssets(t *testing.T) {
	assert.True(t, sectionsMatch("Current Assets", "CurrentAssets"))
	assert.True(t, sectionsMatch("current-assets", "Current Assets"))
}

func TestSectionsMatchRejectsAssetLiabilityMismatch(t *testing.T) {
	assert.False(t, sectionsMatch("Current Assets", "Current Liabilities"))
}

func TestSectionsMatchRejectsCurrencyMismatch(t *testing.T) {
	assert.False(t, sectionsMatch("Current Assets", "Non-Current Assets"))
}

func TestGetDisplayName(t *testing.T) {
	ri := NewReverseIndex(nil)
	name, ok := ri.GetDisplayName("us-gaap:RetainedEarningsAccumulatedDeficit", nil)
	assert.True(t, ok)
	assert.Equal(t, "Retained Earnings (Accumulated Deficit)", name)
}

func TestConceptToDisplayNameFallsBackToConcept(t *testing.T) {
	ri := NewReverseIndex(nil)
	assert.Equal(t, "NotARealConcept", ri.ConceptToDisplayName("NotARealConcept"))
}
