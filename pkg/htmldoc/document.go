package htmldoc

import (
	"bytes"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Document is the façade §6 external callers use: ParseHTML returns
// one, and every view it exposes (Sections, Tables, Text, Headings) is
// computed lazily and memoized, mirroring the teacher's lazy
// pkg/facts accessors built on top of a single parsed source.
type Document struct {
	ID        string // per-parse identifier, part of the metadata record §6 describes
	Root      *Container
	Styles    *StyleCache
	XBRL      *XBRLData
	Form      string
	SizeBytes int

	// anchors and hrefs ground the TOC detection strategy (§4.5
	// strategy 1). Populated only on the regular (DOM) build path —
	// the streaming path serves documents too large for a TOC-driven
	// table of contents to matter in practice, so it leaves these nil
	// and HybridSectionDetector falls through to the remaining
	// strategies.
	anchors map[string]int
	hrefs   []string

	sectionsOnce sync.Once
	sectionsVal  []*Section

	tablesOnce sync.Once
	tablesVal  []*Table

	headingsOnce sync.Once
	headingsVal  []*Heading

	textOnce sync.Once
	textVal  string

	crossRefOnce sync.Once
	crossRefVal  *CrossReferenceIndex
}

// ParseHTML is the package's single entry point (§6):
//
//	ParseHTML(html []byte, config *ParserConfig) (*Document, error)
//
// It drives the full pipeline — ByteSource validation, three-pass
// preprocessing, tree construction (streaming once input is at or
// above config.StreamingThreshold), then optional XBRL extraction — and
// returns a Document with every other view left unevaluated until
// first use.
func ParseHTML(raw []byte, config *ParserConfig) (*Document, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	src, err := NewByteSource(raw, config)
	if err != nil {
		return nil, err
	}

	pre := &Preprocessor{}
	result, err := pre.Run(src, config)
	if err != nil {
		return nil, err
	}

	styles := NewStyleCache(config.CacheSize)

	var root *Container
	doc := &Document{ID: uuid.NewString(), Styles: styles, Form: config.Form, SizeBytes: src.Len()}
	if src.Len() >= config.StreamingThreshold {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.visibleRoot); err != nil {
			return nil, err
		}
		sb := NewStreamingTreeBuilder(styles, config)
		root, err = sb.Build(buf.Bytes())
		if err != nil {
			return nil, &StreamingInvariantError{Detail: err.Error()}
		}
	} else {
		tb := NewTreeBuilder(styles, config)
		root = tb.Build(result.visibleRoot)
		doc.anchors = tb.anchors
		doc.hrefs = tb.hrefs
	}
	doc.Root = root

	if config.ExtractXBRL {
		xb, err := extractXBRL(result.hiddenRegions, result.visibleRoot)
		if err != nil {
			return nil, err
		}
		doc.XBRL = xb
	}

	if config.DetectSections && config.EagerSectionExtraction {
		doc.Sections(config)
	}

	return doc, nil
}

// Sections runs HybridSectionDetector (§4.5) against the current tree
// and memoizes the result. A nil cfg falls back to DefaultConfig().
// cfg only matters on the first call; later calls return the memoized
// result whatever cfg they pass. ParseHTML supplies its own config on
// the eager path.
func (d *Document) Sections(cfg *ParserConfig) []*Section {
	d.sectionsOnce.Do(func() {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		d.sectionsVal = detectSections(d, cfg)
	})
	return d.sectionsVal
}

// Tables collects every Table node in document order, memoized.
func (d *Document) Tables() []*Table {
	d.tablesOnce.Do(func() {
		var out []*Table
		Walk(d.Root, func(n Node) bool {
			if t, ok := n.(*Table); ok {
				out = append(out, t)
			}
			return true
		})
		d.tablesVal = out
	})
	return d.tablesVal
}

// Headings collects every Heading node in document order, memoized.
func (d *Document) Headings() []*Heading {
	d.headingsOnce.Do(func() {
		var out []*Heading
		Walk(d.Root, func(n Node) bool {
			if h, ok := n.(*Heading); ok {
				out = append(out, h)
			}
			return true
		})
		d.headingsVal = out
	})
	return d.headingsVal
}

// Text returns the document's normalized, full-text rendering,
// memoized on first call.
func (d *Document) Text() string {
	d.textOnce.Do(func() {
		var b strings.Builder
		Walk(d.Root, func(n Node) bool {
			if t, ok := n.(*Text); ok {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t.Content)
			}
			return true
		})
		d.textVal = NormalizeText(b.String())
	})
	return d.textVal
}

// CrossReferences builds and memoizes CrossReferenceIndex (§4.6) from
// the document's tables whose caption names a Cross Reference Index.
func (d *Document) CrossReferences() *CrossReferenceIndex {
	d.crossRefOnce.Do(func() {
		d.crossRefVal = buildCrossReferenceIndex(d)
	})
	return d.crossRefVal
}
