package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSectionIDCapturesDecimalItemNumber(t *testing.T) {
	assert.Equal(t, "item_502", canonicalSectionID("Item 5.02 Departure of Directors"))
	assert.Equal(t, "item_1a", canonicalSectionID("Item 1A. Risk Factors"))
}

const decimalItemFixtureHTML = `<html><body>
<p>Some unrelated introductory prose precedes the disclosure below, padding the
document out past the minimum substantive length this strategy looks for.</p>
<p>Item 5.02 Departure of Directors or Certain Officers; Election of Directors;
Appointment of Certain Officers; Compensatory Arrangements of Certain Officers.
The board of directors accepted the resignation of the chief financial officer
effective as of the date below, and appointed a successor to serve in that role
pending ratification at the next annual meeting of shareholders.</p>
</body></html>`

func TestDetectSectionsFallsBackToPatternForDecimalItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionThresholds.MinConfidence = 0.1
	doc, err := ParseHTML([]byte(decimalItemFixtureHTML), cfg)
	require.NoError(t, err)

	sections := doc.Sections(cfg)
	var found *Section
	for _, s := range sections {
		if s.ID == "item_502" {
			found = s
		}
	}
	require.NotNil(t, found, "expected an item_502 section from the pattern fallback strategy")
	assert.Equal(t, "pattern", found.DetectionMethod)
}

const crossRefFixtureHTML = `<html><body>
<h2>Item 1A. RISK FACTORS</h2>
<p>Our business faces a number of risks, described at length across several
pages of this report, covering competitive, regulatory, and operational
exposure that could materially affect our results of operations.</p>
<table>
<caption>Cross Reference Index</caption>
<tr><th>Item</th><th>Title</th><th>Pages</th></tr>
<tr><td>Item 1A</td><td>Risk Factors</td><td>1-5</td></tr>
</table>
</body></html>`

// The Cross-Reference Index strategy is preferred over a disagreeing
// heading candidate for the same section id (§4.5's combination
// policy), so wiring doc.CrossReferences() into detectSections should
// make "cross_reference_index" the winning detection method here even
// though a heading for the same id was also found.
func TestDetectSectionsPrefersCrossReferenceIndexOnDisagreement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionThresholds.MinConfidence = 0.1
	doc, err := ParseHTML([]byte(crossRefFixtureHTML), cfg)
	require.NoError(t, err)

	idx := doc.CrossReferences()
	require.Contains(t, idx.Entries, "item_1a")

	sections := doc.Sections(cfg)
	var found *Section
	for _, s := range sections {
		if s.ID == "item_1a" {
			found = s
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "cross_reference_index", found.DetectionMethod)
}

func TestCrossRefStrategyReturnsNoCandidatesWithoutPages(t *testing.T) {
	doc, err := ParseHTML([]byte(`<html><body><p>no cross reference table here</p></body></html>`), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, crossRefStrategy(doc, 100))
}
