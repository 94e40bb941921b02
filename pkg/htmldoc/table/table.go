// Package table implements TableMatrix (§4.4): two-pass rowspan/colspan
// resolution into a dense cell grid, column classification, header-band
// detection, and both DataFrame-style and box-drawn text rendering. It
// depends only on golang.org/x/net/html so pkg/htmldoc can build a
// lazy-resolution closure over a raw table element without an import
// cycle back into this package.
package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ColumnKind classifies a column's majority content.
type ColumnKind int

const (
	ColumnUnknown ColumnKind = iota
	ColumnNumeric
	ColumnText
	ColumnMixed
)

// Classification is the table-level heuristic label (§4.4).
type Classification string

const (
	FinancialStatement Classification = "financial_statement"
	NumericData        Classification = "numeric_data"
	Comparison         Classification = "comparison"
	Narrative          Classification = "narrative"
	Layout             Classification = "layout"
	Unknown            Classification = "unknown"
)

// Cell is one resolved grid position. Covered cells that are not an
// origin point still carry the origin cell's content, so row/column
// scans never need to special-case spans.
type Cell struct {
	Value       string
	IsHeader    bool
	OriginRow   int
	OriginCol   int
	IsOrigin    bool
	RowSpan     int
	ColSpan     int
	DroppedSpan bool // a conflicting span was clipped or dropped here
}

// Matrix is the dense, resolved cell grid for one <table> element.
type Matrix struct {
	Grid           [][]Cell
	NumRows        int
	NumCols        int
	HeaderRows     int
	ColumnKinds    []ColumnKind
	Classification Classification
	Warnings       []string
}

var currencyRe = regexp.MustCompile(`[$€£¥]`)
var numericRe = regexp.MustCompile(`^\(?-?[\d,]*\.?\d+\)?%?$`)

var financialLabelRe = regexp.MustCompile(`(?i)^(total|net|gross|cash|revenue|income|assets|liabilities|equity|expenses)`)

// NewMatrix runs the full TableMatrix algorithm over a raw <table>
// html.Node: pass one resolves rowspan/colspan into a dense grid, pass
// two classifies columns and detects the header band.
func NewMatrix(tableNode *html.Node) *Matrix {
	rows := tableRows(tableNode)
	m := &Matrix{NumRows: len(rows)}
	resolveGrid(m, rows)
	classifyColumns(m)
	detectHeaderBand(m, rows)
	m.Classification = classify(m)
	return m
}

// tableRows collects every <tr> under tableNode, including ones nested
// inside <thead>/<tbody>/<tfoot>, in document order.
func tableRows(tableNode *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && strings.EqualFold(c.Data, "tr") {
				rows = append(rows, c)
				continue
			}
			if c.Type == html.ElementNode {
				switch strings.ToLower(c.Data) {
				case "thead", "tbody", "tfoot":
					walk(c)
				}
			}
		}
	}
	walk(tableNode)
	return rows
}

type rawCell struct {
	value    string
	isHeader bool
	rowSpan  int
	colSpan  int
}

func rowCells(tr *html.Node) []rawCell {
	var cells []rawCell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		name := strings.ToLower(c.Data)
		if name != "td" && name != "th" {
			continue
		}
		cells = append(cells, rawCell{
			value:    strings.TrimSpace(cellText(c)),
			isHeader: name == "th",
			rowSpan:  spanAttr(c, "rowspan"),
			colSpan:  spanAttr(c, "colspan"),
		})
	}
	return cells
}

func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func spanAttr(n *html.Node, name string) int {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return 1
}

// resolveGrid is TableMatrix's first pass: walk rows top-to-bottom,
// cells left-to-right; for each cell find the first uncovered (row,
// col), mark the row_span×col_span rectangle covered there. A colspan
// is never clipped: the grid widens to the furthest column any span
// reaches. A cell that would overlap an already-covered position is
// dropped, the first-declared cell winning (its cell at the clash is
// marked DroppedSpan), with a recorded warning (§4.4).
func resolveGrid(m *Matrix, rows []*html.Node) {
	maxCols := 0
	parsed := make([][]rawCell, len(rows))
	for i, tr := range rows {
		parsed[i] = rowCells(tr)
	}

	grid := make([][]Cell, len(rows))
	covered := make([][]bool, len(rows))
	for i := range rows {
		grid[i] = make([]Cell, 0)
		covered[i] = make([]bool, 0)
	}

	ensureWidth := func(row, width int) {
		for len(grid[row]) < width {
			grid[row] = append(grid[row], Cell{})
			covered[row] = append(covered[row], false)
		}
	}

	for r, cells := range parsed {
		col := 0
		for _, rc := range cells {
			ensureWidth(r, col+1)
			for col < len(covered[r]) && covered[r][col] {
				col++
				ensureWidth(r, col+1)
			}

			colSpan := rc.colSpan
			rowSpan := rc.rowSpan
			if colSpan < 1 {
				colSpan = 1
			}
			if rowSpan < 1 {
				rowSpan = 1
			}

			conflict := false
			for dc := 0; dc < colSpan; dc++ {
				ensureWidth(r, col+dc+1)
				if covered[r][col+dc] {
					grid[r][col+dc].DroppedSpan = true
					conflict = true
					break
				}
			}
			if conflict {
				m.Warnings = append(m.Warnings, fmt.Sprintf("row %d: overlapping cell dropped at col %d", r, col))
				col++
				continue
			}

			for dr := 0; dr < rowSpan && r+dr < len(rows); dr++ {
				ensureWidth(r+dr, col+colSpan)
				for dc := 0; dc < colSpan; dc++ {
					ensureWidth(r+dr, col+dc+1)
					covered[r+dr][col+dc] = true
					isOrigin := dr == 0 && dc == 0
					grid[r+dr][col+dc] = Cell{
						Value: rc.value, IsHeader: rc.isHeader,
						OriginRow: r, OriginCol: col,
						IsOrigin: isOrigin, RowSpan: rowSpan, ColSpan: colSpan,
					}
				}
			}
			col += colSpan
			if col > maxCols {
				maxCols = col
			}
		}
	}

	for i := range grid {
		ensureWidth(i, maxCols)
	}
	m.Grid = grid
	m.NumCols = maxCols
	m.NumRows = len(grid)
}

// classifyColumns runs pass two's column classification: numeric,
// text, or mixed by majority cell content.
func classifyColumns(m *Matrix) {
	m.ColumnKinds = make([]ColumnKind, m.NumCols)
	for col := 0; col < m.NumCols; col++ {
		numeric, text := 0, 0
		for row := 0; row < m.NumRows; row++ {
			v := strings.TrimSpace(m.Grid[row][col].Value)
			if v == "" {
				continue
			}
			if isNumericCell(v) {
				numeric++
			} else {
				text++
			}
		}
		switch {
		case numeric == 0 && text == 0:
			m.ColumnKinds[col] = ColumnUnknown
		case numeric > 0 && text == 0:
			m.ColumnKinds[col] = ColumnNumeric
		case text > 0 && numeric == 0:
			m.ColumnKinds[col] = ColumnText
		default:
			m.ColumnKinds[col] = ColumnMixed
		}
	}
}

func isNumericCell(v string) bool {
	stripped := currencyRe.ReplaceAllString(v, "")
	stripped = strings.TrimSpace(stripped)
	return numericRe.MatchString(stripped)
}

// detectHeaderBand marks the leading rows whose non-empty cells are all
// <th> as the header band. Bold styling and ruled borders are not
// examined.
func detectHeaderBand(m *Matrix, rows []*html.Node) {
	for r := 0; r < m.NumRows; r++ {
		allHeader := true
		any := false
		for c := 0; c < m.NumCols; c++ {
			cell := m.Grid[r][c]
			if strings.TrimSpace(cell.Value) == "" {
				continue
			}
			any = true
			if !cell.IsHeader {
				allHeader = false
			}
		}
		if any && allHeader {
			m.HeaderRows++
			continue
		}
		break
	}
}

// classify applies the table-level heuristic: column count,
// numeric-cell ratio, currency-symbol presence, and row labels
// resembling known financial-statement concepts.
func classify(m *Matrix) Classification {
	if m.NumRows == 0 || m.NumCols == 0 {
		return Unknown
	}
	if m.NumCols <= 1 {
		return Layout
	}

	numericCols := 0
	for _, k := range m.ColumnKinds {
		if k == ColumnNumeric {
			numericCols++
		}
	}

	hasCurrency := false
	labelHits := 0
	for r := 0; r < m.NumRows; r++ {
		label := strings.TrimSpace(m.Grid[r][0].Value)
		if currencyRe.MatchString(label) {
			hasCurrency = true
		}
		for c := 0; c < m.NumCols; c++ {
			if currencyRe.MatchString(m.Grid[r][c].Value) {
				hasCurrency = true
			}
		}
		if financialLabelRe.MatchString(label) {
			labelHits++
		}
	}

	switch {
	case hasCurrency && labelHits > 0:
		return FinancialStatement
	case numericCols >= m.NumCols/2 && numericCols > 0:
		return NumericData
	case numericCols == 1 && m.NumCols >= 2:
		return Comparison
	case numericCols == 0:
		return Narrative
	default:
		return Unknown
	}
}

// ClassificationString exposes Classification as a plain string so
// pkg/htmldoc's Table node can copy it over without importing this
// package's named type.
func (m *Matrix) ClassificationString() string {
	return string(m.Classification)
}

// Rows renders the matrix as a 2D array of cell values, one row per
// grid row — the DataFrame export shape, and what CrossReferenceIndex
// detection reads rows through.
func (m *Matrix) Rows() [][]string {
	out := make([][]string, m.NumRows)
	for r := range out {
		out[r] = make([]string, m.NumCols)
		for c := 0; c < m.NumCols; c++ {
			out[r][c] = m.Grid[r][c].Value
		}
	}
	return out
}

// Render draws the matrix as a box-drawn text table for terminal
// display.
func (m *Matrix) Render() string {
	if m.NumCols == 0 {
		return ""
	}
	widths := make([]int, m.NumCols)
	rows := m.Rows()
	for _, row := range rows {
		for c, v := range row {
			if len(v) > widths[c] {
				widths[c] = len(v)
			}
		}
	}
	var b strings.Builder
	border := func() {
		b.WriteByte('+')
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	border()
	for r, row := range rows {
		b.WriteByte('|')
		for c, v := range row {
			fmt.Fprintf(&b, " %-*s |", widths[c], v)
		}
		b.WriteByte('\n')
		if r+1 == m.HeaderRows {
			border()
		}
	}
	border()
	return b.String()
}
