package htmldoc

import (
	"regexp"
	"strconv"
	"strings"
)

// PageRange is an inclusive page span, e.g. "26-33".
type PageRange struct {
	Start, End int
}

// CrossReferenceEntry is one row of a filing's Cross Reference Index
// table: an item id, its title, and the page ranges it spans. "Not
// applicable" rows carry no pages.
type CrossReferenceEntry struct {
	Title string
	Pages []PageRange
}

// CrossReferenceIndex is the parsed `{item_id -> Entry}` map (§4.6).
type CrossReferenceIndex struct {
	Entries map[string]CrossReferenceEntry
}

var (
	crossRefCaptionRe = regexp.MustCompile(`(?i)cross[\s-]+reference\s+index`)
	pageRangeRe       = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	singlePageRe      = regexp.MustCompile(`^(\d+)$`)
)

// rowsProvider is satisfied by pkg/htmldoc/table.Matrix once a table
// has been resolved; Table.Matrix returns `any`, so this file reads
// rows through this interface rather than the concrete type.
type rowsProvider interface {
	Rows() [][]string
}

// buildCrossReferenceIndex scans doc's tables for one whose caption
// names a Cross Reference Index and parses its three-column rows
// (item label, title, page reference). Page-to-byte-offset resolution
// (§4.6's "map page N to the offset immediately after the Nth page
// break marker") needs page-break markers the node tree does not carry
// forward today, so Content(item) — the union of byte ranges for an
// item's page spans — is left as a documented limitation: callers get
// the title/page-range metadata, not resolved offsets.
func buildCrossReferenceIndex(doc *Document) *CrossReferenceIndex {
	idx := &CrossReferenceIndex{Entries: map[string]CrossReferenceEntry{}}
	for _, t := range doc.Tables() {
		if !crossRefCaptionRe.MatchString(t.Caption) {
			continue
		}
		rows, ok := t.Matrix().(rowsProvider)
		if !ok {
			continue
		}
		for _, row := range rows.Rows() {
			if len(row) < 2 {
				continue
			}
			label := strings.TrimSpace(row[0])
			m := itemRe.FindStringSubmatch(label)
			if m == nil {
				continue
			}
			id := "item_" + strings.ToLower(strings.ReplaceAll(m[1], ".", ""))
			entry := CrossReferenceEntry{Title: strings.TrimSpace(row[1])}
			if len(row) >= 3 {
				entry.Pages = parsePageRanges(row[2])
			}
			idx.Entries[id] = entry
		}
	}
	return idx
}

func parsePageRanges(s string) []PageRange {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "not applicable") || s == "" {
		return nil
	}
	var out []PageRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if m := pageRangeRe.FindStringSubmatch(part); m != nil {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			out = append(out, PageRange{Start: start, End: end})
			continue
		}
		if m := singlePageRe.FindStringSubmatch(part); m != nil {
			n, _ := strconv.Atoi(m[1])
			out = append(out, PageRange{Start: n, End: n})
		}
	}
	return out
}
