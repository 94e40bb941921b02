package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const streamingFixtureHTML = `<html><body>
<h2>Item 1A. Risk Factors</h2>
<p>Our business faces a number of risks described below.</p>
<ul>
	<li>Competition</li>
	<li>Regulation</li>
</ul>
<table>
	<tr><th>Year</th><th>Revenue</th></tr>
	<tr><td>2023</td><td>$100</td></tr>
</table>
<p>Additional prose follows the table.</p>
</body></html>`

// forceStreamingConfig returns a config whose StreamingThreshold is low
// enough that ParseHTML always takes the StreamingTreeBuilder path
// (document.go's `src.Len() >= config.StreamingThreshold` check).
func forceStreamingConfig() *ParserConfig {
	cfg := DefaultConfig()
	cfg.StreamingThreshold = 1
	return cfg
}

func TestStreamingTreeBuilderProducesHeadingsTablesAndLists(t *testing.T) {
	doc, err := ParseHTML([]byte(streamingFixtureHTML), forceStreamingConfig())
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Contains(t, headings[0].Text, "Risk Factors")

	tables := doc.Tables()
	require.Len(t, tables, 1)
	matrix, ok := tables[0].Matrix().(interface{ Rows() [][]string })
	require.True(t, ok)
	rows := matrix.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "2023", rows[1][0])

	var lists []*List
	var items []*ListItemNode
	Walk(doc.Root, func(n Node) bool {
		if l, ok := n.(*List); ok {
			lists = append(lists, l)
		}
		if li, ok := n.(*ListItemNode); ok {
			items = append(items, li)
		}
		return true
	})
	require.Len(t, lists, 1)
	assert.False(t, lists[0].Ordered)
	require.Len(t, items, 2)
}

func TestStreamingTreeBuilderMatchesDOMHeadingCount(t *testing.T) {
	streamed, err := ParseHTML([]byte(streamingFixtureHTML), forceStreamingConfig())
	require.NoError(t, err)

	domWalked, err := ParseHTML([]byte(streamingFixtureHTML), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, len(domWalked.Headings()), len(streamed.Headings()))
	assert.Equal(t, len(domWalked.Tables()), len(streamed.Tables()))
}

func TestStreamingTreeBuilderFallsBackToStyleHeading(t *testing.T) {
	const html = `<html><body>
<div style="font-weight:bold;font-size:16pt;">Item 2. Properties</div>
<p>The company leases office space in several cities across the country.</p>
</body></html>`
	doc, err := ParseHTML([]byte(html), forceStreamingConfig())
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Contains(t, headings[0].Text, "Properties")
}
