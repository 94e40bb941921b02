package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseTable(t *testing.T, snippet string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + snippet + "</body></html>"))
	require.NoError(t, err)
	var table *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			table = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if table != nil {
				return
			}
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, table, "no <table> found in fixture")
	return table
}

func TestNewMatrixSimpleGrid(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><th>Year</th><th>Revenue</th></tr>
		<tr><td>2023</td><td>$100</td></tr>
		<tr><td>2022</td><td>$90</td></tr>
	</table>`)
	m := NewMatrix(node)

	assert.Equal(t, 3, m.NumRows)
	assert.Equal(t, 2, m.NumCols)
	assert.Equal(t, 1, m.HeaderRows)
	assert.Equal(t, "2023", m.Grid[1][0].Value)
	assert.Equal(t, "$100", m.Grid[1][1].Value)
}

func TestNewMatrixRowspanColspan(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><td rowspan="2">Cash</td><td>2023</td><td>$5</td></tr>
		<tr><td>2022</td><td>$4</td></tr>
		<tr><td colspan="3">Total</td></tr>
	</table>`)
	m := NewMatrix(node)

	require.Equal(t, 3, m.NumRows)
	require.Equal(t, 3, m.NumCols)
	assert.Equal(t, "Cash", m.Grid[0][0].Value)
	assert.Equal(t, "Cash", m.Grid[1][0].Value, "rowspan cell content should cover row below")
	assert.True(t, m.Grid[0][0].IsOrigin)
	assert.False(t, m.Grid[1][0].IsOrigin)
	assert.Equal(t, "Total", m.Grid[2][0].Value)
	assert.Equal(t, "Total", m.Grid[2][2].Value, "colspan cell content should cover every spanned column")
}

func TestNewMatrixOverlappingCellDropped(t *testing.T) {
	// Row 1's only cell lands in the gap between A's and Z's rowspans
	// but its colspan reaches into Z's covered column, so it conflicts
	// and gets dropped with a recorded warning rather than panicking.
	node := parseTable(t, `<table>
		<tr><td rowspan="2">A</td><td>Mid</td><td rowspan="2">Z</td></tr>
		<tr><td colspan="2">X</td></tr>
	</table>`)
	m := NewMatrix(node)
	assert.NotEmpty(t, m.Warnings)
}

func TestClassifyFinancialStatement(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><th>Line Item</th><th>2023</th><th>2022</th></tr>
		<tr><td>Total revenue</td><td>$1,000</td><td>$900</td></tr>
		<tr><td>Net income</td><td>$200</td><td>$150</td></tr>
	</table>`)
	m := NewMatrix(node)
	assert.Equal(t, FinancialStatement, m.Classification)
}

func TestClassifySingleColumnIsLayout(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><td>Risk factor one applies to our business.</td></tr>
		<tr><td>Risk factor two also applies.</td></tr>
	</table>`)
	m := NewMatrix(node)
	assert.Equal(t, Layout, m.Classification, "single-column tables are classified as layout regardless of content")
}

func TestClassifyNumericData(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><td>100</td><td>200</td></tr>
		<tr><td>150</td><td>250</td></tr>
	</table>`)
	m := NewMatrix(node)
	assert.Equal(t, NumericData, m.Classification)
}

func TestRowsAndRender(t *testing.T) {
	node := parseTable(t, `<table>
		<tr><th>A</th><th>B</th></tr>
		<tr><td>1</td><td>2</td></tr>
	</table>`)
	m := NewMatrix(node)

	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A", "B"}, rows[0])

	rendered := m.Render()
	assert.Contains(t, rendered, "A")
	assert.Contains(t, rendered, "1")
	assert.True(t, strings.HasPrefix(rendered, "+"))
}

func TestClassificationStringMatchesClassification(t *testing.T) {
	node := parseTable(t, `<table><tr><td>100</td><td>200</td></tr></table>`)
	m := NewMatrix(node)
	assert.Equal(t, string(m.Classification), m.ClassificationString())
}

func TestEmptyTableClassifiesUnknown(t *testing.T) {
	node := parseTable(t, `<table></table>`)
	m := NewMatrix(node)
	assert.Equal(t, Unknown, m.Classification)
	assert.Equal(t, "", m.Render())
}
