package htmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `<html><body>
<h1>Item 7. Management's Discussion and Analysis</h1>
<p>Revenue increased year over year.</p>
<table>
	<tr><th>Year</th><th>Revenue</th></tr>
	<tr><td>2023</td><td>$100</td></tr>
</table>
<div style="display:none;"><ix:hidden>
	<xbrli:context id="c-1">
		<xbrli:period>
			<xbrli:startDate>2023-01-01</xbrli:startDate>
			<xbrli:endDate>2023-12-31</xbrli:endDate>
		</xbrli:period>
	</xbrli:context>
</ix:hidden></div>
<p>Net income of $<ix:nonFraction unitRef="usd" contextRef="c-1" decimals="-3" name="us-gaap:NetIncomeLoss" format="ixt:num-dot-decimal" scale="3" id="f-1">94,680</ix:nonFraction>.</p>
</body></html>`

func TestParseHTMLNilInput(t *testing.T) {
	_, err := ParseHTML(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestParseHTMLOversizeInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDocumentSize = 10
	_, err := ParseHTML([]byte(fixtureHTML), cfg)
	require.Error(t, err)
	var tooLarge *DocumentTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
}

func TestParseHTMLRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDocumentSize = 0
	_, err := ParseHTML([]byte(fixtureHTML), cfg)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseHTMLExtractsHeadingsTablesAndText(t *testing.T) {
	doc, err := ParseHTML([]byte(fixtureHTML), DefaultConfig())
	require.NoError(t, err)

	require.NotEmpty(t, doc.ID)
	assert.NotZero(t, doc.SizeBytes)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Contains(t, headings[0].Text, "Management's Discussion and Analysis")

	tables := doc.Tables()
	require.Len(t, tables, 1)
	matrix, ok := tables[0].Matrix().(interface{ Rows() [][]string })
	require.True(t, ok)
	rows := matrix.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "2023", rows[1][0])

	text := doc.Text()
	assert.True(t, strings.Contains(text, "Revenue increased"))

	// memoized: calling twice returns the same computed value
	assert.Equal(t, headings, doc.Headings())
	assert.Equal(t, text, doc.Text())
}

func TestParseHTMLExtractsXBRLFacts(t *testing.T) {
	doc, err := ParseHTML([]byte(fixtureHTML), DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, doc.XBRL)
	require.Len(t, doc.XBRL.Facts, 1)
	fact := doc.XBRL.Facts[0]
	assert.Equal(t, "us-gaap:NetIncomeLoss", fact.Concept)
	assert.Equal(t, "94,680", fact.Value)
	assert.False(t, fact.Hidden)
	assert.Equal(t, float64(94680000), fact.ScaledNumber())
}

func TestParseHTMLSkipsXBRLWhenDisabled(t *testing.T) {
	cfg := ForPerformance()
	doc, err := ParseHTML([]byte(fixtureHTML), cfg)
	require.NoError(t, err)
	assert.Nil(t, doc.XBRL)
}

func TestParseHTMLEagerSectionExtraction(t *testing.T) {
	cfg := ForAccuracy()
	doc, err := ParseHTML([]byte(fixtureHTML), cfg)
	require.NoError(t, err)
	// ForAccuracy requests eager section extraction at parse time;
	// Sections() should return the already-memoized result without
	// needing a config argument at call time to do real work.
	assert.NotNil(t, doc.Sections(nil))
}
