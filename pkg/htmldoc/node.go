// Package htmldoc converts raw filing HTML into a semantic node tree:
// headings, paragraphs, tables, lists, and sections, annotated with
// style lookups and extracted XBRL facts. It is the teacher's iXBRL
// fact parser (pkg/ixbrl) generalized with a full document model sitting
// on top of it, following the same golang.org/x/net/html tree-walking
// idiom pkg/ixbrl/html.go already uses.
package htmldoc

// NodeKind discriminates the fixed, closed set of node variants. The
// set is exhaustive and never grows at runtime — new node types are a
// code change, not a registration.
type NodeKind int

const (
	KindContainer NodeKind = iota
	KindHeading
	KindParagraph
	KindText
	KindTable
	KindList
	KindSection
)

func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindText:
		return "text"
	case KindTable:
		return "table"
	case KindList:
		return "list"
	case KindSection:
		return "section"
	default:
		return "unknown"
	}
}

// Node is the sum type every tree member implements. Grounded in the
// Node-interface pattern from Financial-Times-content-tree/content_tree.go
// (GetType/GetChildren/AppendChild); our variant set is closed and the
// tree is never serialized to JSON, so we skip that file's
// union-wrapper-struct-with-custom-(Un)MarshalJSON machinery (built
// purely to solve JSON field collisions) in favor of a plain type switch
// over concrete pointer types — Walk below is the exhaustive visitor.
type Node interface {
	Kind() NodeKind
	Span() (start, end int)
	Parent() Node
	Children() []Node
}

// base is embedded by every concrete node; it owns the span, the
// non-owning parent backlink, and an optional interned style key.
type base struct {
	start, end int
	parent     Node
	styleRef   *StyleKey
}

func (b *base) Span() (int, int) { return b.start, b.end }
func (b *base) Parent() Node     { return b.parent }
func (b *base) setEnd(end int)   { b.end = end }
func (b *base) StyleRef() *StyleKey {
	return b.styleRef
}

// Container is a generic owning parent with no semantics of its own —
// the root node and any plain `<div>`-like wrapper use it.
type Container struct {
	base
	children []Node
}

func (n *Container) Kind() NodeKind   { return KindContainer }
func (n *Container) Children() []Node { return n.children }
func (n *Container) appendChild(c Node) { n.children = append(n.children, c) }

// Heading is a detected section/item heading.
type Heading struct {
	base
	Level           int
	Text            string
	Confidence      float64
	DetectionMethod string
}

func (n *Heading) Kind() NodeKind   { return KindHeading }
func (n *Heading) Children() []Node { return nil }

// Paragraph is a block of inline content.
type Paragraph struct {
	base
	children []Node
}

func (n *Paragraph) Kind() NodeKind     { return KindParagraph }
func (n *Paragraph) Children() []Node   { return n.children }
func (n *Paragraph) appendChild(c Node) { n.children = append(n.children, c) }

// Text is a leaf text run.
type Text struct {
	base
	Content string
}

func (n *Text) Kind() NodeKind   { return KindText }
func (n *Text) Children() []Node { return nil }

// Table wraps a lazily-resolved table.Matrix reference; the heavy
// rowspan/colspan resolution lives in pkg/htmldoc/table and is only
// triggered on first access (§4.4).
type Table struct {
	base
	Caption        string
	Classification string
	resolve        func() any
	resolved       any
	resolvedOnce   bool
}

func (n *Table) Kind() NodeKind   { return KindTable }
func (n *Table) Children() []Node { return nil }

// Matrix lazily resolves and memoizes the table's dense cell grid. The
// concrete type returned is *table.Matrix from pkg/htmldoc/table; it is
// returned as `any`, and callers in this package read it through
// interface assertions (see rowsProvider in crossref.go).
func (n *Table) Matrix() any {
	if !n.resolvedOnce {
		if n.resolve != nil {
			n.resolved = n.resolve()
			if c, ok := n.resolved.(interface{ ClassificationString() string }); ok {
				n.Classification = c.ClassificationString()
			}
		}
		n.resolvedOnce = true
	}
	return n.resolved
}

// List is an ordered or unordered list.
type List struct {
	base
	Ordered  bool
	children []Node
}

func (n *List) Kind() NodeKind     { return KindList }
func (n *List) Children() []Node   { return n.children }
func (n *List) appendChild(c Node) { n.children = append(n.children, c) }

// ListItemNode is a single list item; lists hold these as children.
type ListItemNode struct {
	base
	children []Node
}

func (n *ListItemNode) Kind() NodeKind     { return KindContainer }
func (n *ListItemNode) Children() []Node   { return n.children }
func (n *ListItemNode) appendChild(c Node) { n.children = append(n.children, c) }

// Section is a named span of the document (e.g. "Item 1A Risk
// Factors"). Non-owning: it references the subtree range it covers
// rather than owning a separate copy of it.
type Section struct {
	base
	ID              string
	Title           string
	Confidence      float64
	Validated       bool
	DetectionMethod string
	node            Node // the node this section's range starts at
}

func (n *Section) Kind() NodeKind   { return KindSection }
func (n *Section) Children() []Node { return nil }
func (n *Section) Node() Node       { return n.node }

// Walk is the exhaustive visitor: it calls fn for every node in
// document order, including n itself, short-circuiting a subtree when
// fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
