package htmldoc

import (
	"bytes"
	"strings"

	"github.com/saranrapjs/sternvault/pkg/htmldoc/table"
	"golang.org/x/net/html"
)

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

var blockTags = map[string]bool{
	"div": true, "p": true, "section": true, "article": true,
	"center": true, "font": true,
	"span": true, "b": true, "strong": true, "i": true, "em": true,
	"u": true, "br": true, "a": true,
}

// TreeBuilder walks an already-parsed DOM (via golang.org/x/net/html.Parse)
// and produces the document's Node tree, interning every inline style
// along the way through a StyleCache (§4.2).
type TreeBuilder struct {
	styles *StyleCache
	cfg    *ParserConfig
	cursor int
	total  int // estimated total length, for position-ratio heuristics

	// anchors maps an id/name attribute value to the cursor offset of
	// the element carrying it. TOC resolution (§4.5 strategy 1) needs
	// this to turn `<a href="#item1a">` into a section start offset.
	anchors map[string]int
	// hrefs collects every same-document anchor reference
	// (`href="#..."`) seen near the top of the document, in order —
	// the TOC strategy's link cluster.
	hrefs []string
}

const tocLinkClusterLimit = 200

// NewTreeBuilder returns a builder that interns styles into styles and
// evaluates heading confidence against cfg's thresholds.
func NewTreeBuilder(styles *StyleCache, cfg *ParserConfig) *TreeBuilder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &TreeBuilder{styles: styles, cfg: cfg, anchors: map[string]int{}}
}

// Build converts root (typically the document's <html> node) into a
// Container tree.
func (b *TreeBuilder) Build(root *html.Node) *Container {
	b.total = len([]rune(HTMLText(root)))
	c := &Container{}
	c.start = b.cursor
	c.children = b.convertChildren(root, c, "")
	c.end = b.cursor
	return c
}

// positionRatio returns how far into the document the cursor currently
// sits, in [0,1]; used by the contextual heading detector's
// early-document-position signal.
func (b *TreeBuilder) positionRatio() float64 {
	if b.total == 0 {
		return 0
	}
	return float64(b.cursor) / float64(b.total)
}

func (b *TreeBuilder) convertChildren(n *html.Node, parent Node, styleKey StyleKey) []Node {
	var out []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if node := b.convertNode(c, parent, styleKey); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (b *TreeBuilder) convertNode(n *html.Node, parent Node, inheritedKey StyleKey) Node {
	switch n.Type {
	case html.TextNode:
		return b.buildText(n, parent, inheritedKey)
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if isHiddenRegion(n) || isScriptOrStyle(n) {
			return nil
		}
		key := inheritedKey
		if raw := attrOf(n, "style"); raw != "" {
			key = b.styles.Intern(raw, inheritedKey)
		}
		if id := attrOf(n, "id"); id != "" {
			b.anchors[strings.ToLower(id)] = b.cursor
		}
		if nm := attrOf(n, "name"); nm != "" {
			b.anchors[strings.ToLower(nm)] = b.cursor
		}
		if name == "a" {
			if href := attrOf(n, "href"); strings.HasPrefix(href, "#") && len(b.hrefs) < tocLinkClusterLimit {
				b.hrefs = append(b.hrefs, strings.ToLower(strings.TrimPrefix(href, "#")))
			}
		}
		if level, ok := headingTags[name]; ok {
			return b.buildHeading(n, parent, key, level, "tag")
		}
		switch name {
		case "table":
			return b.buildTable(n, parent, key)
		case "ul", "ol":
			return b.buildList(n, parent, key, name == "ol")
		case "li":
			return b.buildListItem(n, parent, key)
		case "p":
			return b.buildParagraph(n, parent, key)
		default:
			return b.buildContainerOrHeading(n, parent, key)
		}
	default:
		return nil // comments, doctype, document node
	}
}

func (b *TreeBuilder) buildText(n *html.Node, parent Node, key StyleKey) Node {
	if strings.TrimSpace(n.Data) == "" {
		return nil
	}
	start := b.cursor
	b.cursor += len([]rune(n.Data))
	t := &Text{Content: n.Data}
	t.base = base{start: start, end: b.cursor, parent: parent, styleRef: &key}
	return t
}

func (b *TreeBuilder) buildHeading(n *html.Node, parent Node, key StyleKey, level int, method string) Node {
	start := b.cursor
	text := HTMLText(n)
	b.cursor += len([]rune(text))
	h := &Heading{Level: level, Text: strings.TrimSpace(text), DetectionMethod: method, Confidence: 1.0}
	h.base = base{start: start, end: b.cursor, parent: parent, styleRef: &key}
	return h
}

// buildContainerOrHeading runs classifyHeading's weighted vote (style,
// Item/Part pattern, structural and contextual detectors) on blockTags
// elements that aren't an <h1>-<h6> tag and hold no table, list, div or
// p child — common in EDGAR filings that fake headings with styled
// <div>s.
func (b *TreeBuilder) buildContainerOrHeading(n *html.Node, parent Node, key StyleKey) Node {
	name := strings.ToLower(n.Data)
	if !blockTags[name] {
		return b.buildGenericContainer(n, parent, key)
	}
	info := b.styles.Resolved(key)
	text := strings.TrimSpace(HTMLText(n))
	if !onlyInline(n) {
		return b.buildGenericContainer(n, parent, key)
	}
	if level, confidence, method, ok := classifyHeading(b.cfg, info, text, b.positionRatio()); ok {
		h := b.buildHeading(n, parent, key, level, method).(*Heading)
		h.Confidence = confidence
		return h
	}
	return b.buildGenericContainer(n, parent, key)
}

func onlyInline(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch strings.ToLower(c.Data) {
			case "table", "ul", "ol", "div", "p":
				return false
			}
		}
	}
	return true
}

func (b *TreeBuilder) buildGenericContainer(n *html.Node, parent Node, key StyleKey) Node {
	c := &Container{}
	c.start = b.cursor
	c.base = base{parent: parent, styleRef: &key}
	c.children = b.convertChildren(n, c, key)
	c.end = b.cursor
	if len(c.children) == 0 {
		return nil
	}
	return c
}

func (b *TreeBuilder) buildParagraph(n *html.Node, parent Node, key StyleKey) Node {
	p := &Paragraph{}
	p.start = b.cursor
	p.base = base{parent: parent, styleRef: &key}
	p.children = b.convertChildren(n, p, key)
	p.end = b.cursor
	if len(p.children) == 0 {
		return nil
	}
	return p
}

func (b *TreeBuilder) buildList(n *html.Node, parent Node, key StyleKey, ordered bool) Node {
	l := &List{Ordered: ordered}
	l.start = b.cursor
	l.base = base{parent: parent, styleRef: &key}
	l.children = b.convertChildren(n, l, key)
	l.end = b.cursor
	return l
}

func (b *TreeBuilder) buildListItem(n *html.Node, parent Node, key StyleKey) Node {
	li := &ListItemNode{}
	li.start = b.cursor
	li.base = base{parent: parent, styleRef: &key}
	li.children = b.convertChildren(n, li, key)
	li.end = b.cursor
	return li
}

func (b *TreeBuilder) buildTable(n *html.Node, parent Node, key StyleKey) Node {
	start := b.cursor
	text := HTMLText(n)
	b.cursor += len([]rune(text))
	t := &Table{Caption: tableCaption(n)}
	t.base = base{start: start, end: b.cursor, parent: parent, styleRef: &key}
	t.resolve = func() any { return buildTableMatrix(n) }
	return t
}

// buildTableMatrix adapts pkg/htmldoc/table.NewMatrix for Table.Matrix()'s
// lazy-resolution closure; kept as a package var (rather than a direct
// call) so the indirection documented on Table.Matrix still holds even
// though this package now imports pkg/htmldoc/table directly.
var buildTableMatrix = func(n *html.Node) any { return table.NewMatrix(n) }

func tableCaption(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.ToLower(c.Data) == "caption" {
			return strings.TrimSpace(HTMLText(c))
		}
	}
	return ""
}

func attrOf(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// StreamingTreeBuilder builds the same Node tree as TreeBuilder but
// walks the token stream directly instead of materializing a full DOM
// first, for documents at or above ParserConfig.StreamingThreshold (default
// 10MB) where holding two full trees in memory at once is wasteful. It
// dispatches on tag exactly as TreeBuilder.convertNode does — headings,
// tables, and lists are built as their real types instead of a generic
// Container, so the streaming path satisfies the same "both builders
// produce the same NodeTree" invariant the DOM path does (§4.2). A
// <table> is the one case that needs a real *html.Node (table.NewMatrix
// resolves rowspan/colspan against the DOM), so its subtree is buffered
// and parsed in isolation rather than the whole document; style-based
// heading detection runs classifyHeading against each block element's
// flattened text once its closing tag is seen, the same signal
// buildContainerOrHeading uses on the DOM path.
//
// A JPM 10-K filing once regressed this path: the tokenizer's implicit
// tag-closing produced a closing event with no matching open tag on the
// explicit stack, and the original code treated "no parent on the
// stack" as "discard this node and all its children." That silently
// dropped entire item sections from a real filing. The fix below is
// the guard: an orphaned close is ignored rather than discarding the
// still-open frames beneath it.
type StreamingTreeBuilder struct {
	styles *StyleCache
	cfg    *ParserConfig
	cursor int
	total  int // rough document length estimate, for position-ratio heuristics
}

// NewStreamingTreeBuilder returns a token-stream builder that interns
// styles into styles and evaluates heading confidence against cfg's
// thresholds, the same as NewTreeBuilder.
func NewStreamingTreeBuilder(styles *StyleCache, cfg *ParserConfig) *StreamingTreeBuilder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &StreamingTreeBuilder{styles: styles, cfg: cfg}
}

func (b *StreamingTreeBuilder) positionRatioAt(offset int) float64 {
	if b.total == 0 {
		return 0
	}
	return float64(offset) / float64(b.total)
}

// streamParent is what a stack frame's node must support: every owning
// type (Container, Paragraph, List, ListItemNode) satisfies it via its
// own appendChild plus the setEnd promoted from base.
type streamParent interface {
	Node
	setEnd(int)
	appendChild(Node)
}

// onlyInlineDisqualifiers mirrors onlyInline's disqualifying tag set on
// the DOM path: a block element containing one of these as an immediate
// child is never itself a heading candidate.
var onlyInlineDisqualifiers = map[string]bool{
	"table": true, "ul": true, "ol": true, "div": true, "p": true,
}

type stackFrame struct {
	tag        string
	node       streamParent
	styleKey   StyleKey
	blockChild bool // an immediate child was table/ul/ol/div/p
}

// Build tokenizes src and returns the root Container. It never panics
// on malformed markup; unmatched closing tags fall through the
// parent-null guard described above rather than discarding content.
func (b *StreamingTreeBuilder) Build(src []byte) (*Container, error) {
	root := &Container{}
	b.total = len([]rune(string(src)))
	z := html.NewTokenizer(bytes.NewReader(src))
	stack := []*stackFrame{{tag: "", node: root}}

	top := func() *stackFrame { return stack[len(stack)-1] }

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return root, nil
		case html.TextToken:
			text := string(z.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			frame := top()
			start := b.cursor
			b.cursor += len([]rune(text))
			t := &Text{Content: text}
			t.base = base{start: start, end: b.cursor, parent: frame.node, styleRef: &frame.styleKey}
			frame.node.appendChild(t)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := strings.ToLower(string(name))
			var openRaw []byte
			if tag == "table" {
				openRaw = append([]byte(nil), z.Raw()...)
			}
			parentFrame := top()
			key := parentFrame.styleKey
			if hasAttr {
				for {
					k, v, more := z.TagAttr()
					if strings.EqualFold(string(k), "style") {
						key = b.styles.Intern(string(v), parentFrame.styleKey)
					}
					if !more {
						break
					}
				}
			}
			if tag == "script" || tag == "style" || tag == "ix:header" || tag == "ix:hidden" {
				skipStreamingSubtree(z, tag)
				continue
			}
			if onlyInlineDisqualifiers[tag] {
				parentFrame.blockChild = true
			}

			if level, ok := headingTags[tag]; ok {
				start := b.cursor
				text := strings.TrimSpace(collectStreamingText(z, tag))
				b.cursor += len([]rune(text))
				h := &Heading{Level: level, Text: text, DetectionMethod: "tag", Confidence: 1.0}
				h.base = base{start: start, end: b.cursor, parent: parentFrame.node, styleRef: &key}
				parentFrame.node.appendChild(h)
				continue
			}
			switch tag {
			case "table":
				if tnode := b.buildStreamingTable(z, openRaw, parentFrame.node, key); tnode != nil {
					parentFrame.node.appendChild(tnode)
				}
				continue
			case "ul", "ol":
				l := &List{Ordered: tag == "ol"}
				l.base = base{start: b.cursor, parent: parentFrame.node, styleRef: &key}
				if tt == html.StartTagToken {
					stack = append(stack, &stackFrame{tag: tag, node: l, styleKey: key})
				} else {
					parentFrame.node.appendChild(l)
				}
				continue
			case "li":
				li := &ListItemNode{}
				li.base = base{start: b.cursor, parent: parentFrame.node, styleRef: &key}
				if tt == html.StartTagToken {
					stack = append(stack, &stackFrame{tag: tag, node: li, styleKey: key})
				} else {
					parentFrame.node.appendChild(li)
				}
				continue
			case "p":
				p := &Paragraph{}
				p.base = base{start: b.cursor, parent: parentFrame.node, styleRef: &key}
				if tt == html.StartTagToken {
					stack = append(stack, &stackFrame{tag: tag, node: p, styleKey: key})
				}
				continue
			}

			c := &Container{}
			c.base = base{start: b.cursor, parent: parentFrame.node, styleRef: &key}
			if tt == html.StartTagToken && !isVoidTag(tag) {
				stack = append(stack, &stackFrame{tag: tag, node: c, styleKey: key})
			} else if final := b.finalizeFrame(&stackFrame{tag: tag, node: c, styleKey: key}); final != nil {
				parentFrame.node.appendChild(final)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			idx := -1
			for i := len(stack) - 1; i >= 1; i-- {
				if stack[i].tag == tag {
					idx = i
					break
				}
			}
			if idx == -1 {
				// Unmatched close: the guard. Ignore the stray token
				// rather than discarding the still-open frames beneath it.
				continue
			}
			for len(stack)-1 >= idx {
				frame := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				frame.node.setEnd(b.cursor)
				parent := top()
				if final := b.finalizeFrame(frame); final != nil {
					parent.node.appendChild(final)
				}
			}
		}
	}
}

// finalizeFrame decides what a closed frame actually becomes: a plain
// Container/Paragraph is dropped if it ended up empty (matching
// buildGenericContainer/buildParagraph on the DOM path), and a Container
// whose tag is one of blockTags with no disqualifying block child is
// run through classifyHeading — the streaming equivalent of
// buildContainerOrHeading's style-based fallback.
func (b *StreamingTreeBuilder) finalizeFrame(frame *stackFrame) Node {
	switch n := frame.node.(type) {
	case *Container:
		if blockTags[frame.tag] && !frame.blockChild {
			start, end := n.Span()
			text := strings.TrimSpace(flattenNodeText(n))
			info := b.styles.Resolved(frame.styleKey)
			if level, confidence, method, ok := classifyHeading(b.cfg, info, text, b.positionRatioAt(start)); ok {
				h := &Heading{Level: level, Text: text, Confidence: confidence, DetectionMethod: method}
				h.base = base{start: start, end: end, parent: n.Parent(), styleRef: &frame.styleKey}
				return h
			}
		}
		if len(n.children) == 0 {
			return nil
		}
		return n
	case *Paragraph:
		if len(n.children) == 0 {
			return nil
		}
		return n
	default:
		return frame.node
	}
}

// buildStreamingTable buffers a <table>...</table> subtree's raw bytes
// and parses just that fragment with html.Parse, since table.NewMatrix
// needs a real *html.Node for rowspan/colspan resolution — the one
// place the streaming path materializes a DOM, bounded to a single
// table's markup rather than the whole document.
func (b *StreamingTreeBuilder) buildStreamingTable(z *html.Tokenizer, openRaw []byte, parent Node, key StyleKey) Node {
	raw := captureStreamingSubtree(z, "table", openRaw)
	var frag bytes.Buffer
	frag.WriteString("<html><body>")
	frag.Write(raw)
	frag.WriteString("</body></html>")
	doc, err := html.Parse(&frag)
	if err != nil {
		return nil
	}
	tableNode := findFirstElement(doc, "table")
	if tableNode == nil {
		return nil
	}
	start := b.cursor
	text := HTMLText(tableNode)
	b.cursor += len([]rune(text))
	t := &Table{Caption: tableCaption(tableNode)}
	t.base = base{start: start, end: b.cursor, parent: parent, styleRef: &key}
	t.resolve = func() any { return buildTableMatrix(tableNode) }
	return t
}

func isVoidTag(tag string) bool {
	switch tag {
	case "br", "img", "hr", "input", "meta", "link", "area", "base", "col", "embed", "source", "track", "wbr":
		return true
	}
	return false
}

func skipStreamingSubtree(z *html.Tokenizer, tag string) {
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		name, _ := z.TagName()
		t := strings.ToLower(string(name))
		if t != tag {
			continue
		}
		switch tt {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			depth--
		}
	}
}

// captureStreamingSubtree collects the raw bytes of tag's subtree,
// starting from its already-consumed open tag (openRaw), through and
// including its matching close tag.
func captureStreamingSubtree(z *html.Tokenizer, tag string, openRaw []byte) []byte {
	var buf bytes.Buffer
	buf.Write(openRaw)
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		buf.Write(z.Raw())
		name, _ := z.TagName()
		if strings.EqualFold(string(name), tag) {
			switch tt {
			case html.StartTagToken:
				depth++
			case html.EndTagToken:
				depth--
			}
		}
	}
	return buf.Bytes()
}

// collectStreamingText flattens tag's subtree down to its text content,
// discarding markup, without materializing a DOM — used for heading
// tags, where buildHeading on the DOM path does the same flattening via
// HTMLText.
func collectStreamingText(z *html.Tokenizer, tag string) string {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(z.Text())
			continue
		}
		name, _ := z.TagName()
		if strings.EqualFold(string(name), tag) {
			switch tt {
			case html.StartTagToken:
				depth++
			case html.EndTagToken:
				depth--
			}
		}
	}
	return sb.String()
}

func findFirstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// flattenNodeText concatenates every Text leaf (and any already-resolved
// Heading's Text) under n, in document order.
func flattenNodeText(n Node) string {
	var sb strings.Builder
	var walk func(Node)
	walk = func(node Node) {
		switch v := node.(type) {
		case *Text:
			sb.WriteString(v.Content)
		case *Heading:
			sb.WriteString(v.Text)
		default:
			for _, c := range node.Children() {
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}
