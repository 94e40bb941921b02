package htmldoc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	ixhtml "github.com/saranrapjs/sternvault/pkg/ixbrl"
)

// Preprocessor runs the three passes described in §4.1 before tree
// construction: extract hidden-region XBRL facts, strip the hidden
// regions (and script/style) so their text never reaches the builder,
// then strip decorative noise.
type Preprocessor struct{}

// preprocessResult carries what TreeBuilder/StreamingTreeBuilder need:
// the cleaned visible root plus the detached hidden-region subtrees
// XBRLExtractor still needs to read.
type preprocessResult struct {
	visibleRoot   *html.Node
	hiddenRegions []*html.Node
}

// Run parses raw bytes into a DOM and applies all three preprocessing
// passes in order. XBRL pre-extraction must see the hidden regions
// before they are stripped, or hidden facts are lost (the regression
// the spec's test suite documents) — Run preserves that ordering by
// collecting hidden subtrees (without yet unlinking them) before the
// stripping pass removes them from the tree the builder will walk.
func (p *Preprocessor) Run(src *ByteSource, cfg *ParserConfig) (*preprocessResult, error) {
	doc, err := html.Parse(strings.NewReader(string(src.Bytes())))
	if err != nil {
		return nil, err
	}

	hidden := collectHiddenRegions(doc)
	stripHiddenAndScripts(doc)
	stripNoise(doc)

	return &preprocessResult{visibleRoot: doc, hiddenRegions: hidden}, nil
}

// isHiddenRegion reports whether an element is an ix:header or
// ix:hidden subtree root, matched case-insensitively.
func isHiddenRegion(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	name := strings.ToLower(n.Data)
	return name == "ix:header" || name == "ix:hidden"
}

func isScriptOrStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	name := strings.ToLower(n.Data)
	return name == "script" || name == "style"
}

// collectHiddenRegions returns every ix:header/ix:hidden subtree root
// in document order, without modifying the tree, so extractXBRL can
// still read their ix:nonfraction/ix:nonnumeric descendants afterward.
func collectHiddenRegions(n *html.Node) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if isHiddenRegion(n) {
			found = append(found, n)
			return // don't descend further into an already-captured region
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// stripHiddenAndScripts removes ix:header, ix:hidden, <script>, and
// <style> subtrees in place so their textual content never reaches the
// tree the builder consumes.
func stripHiddenAndScripts(root *html.Node) {
	var toRemove []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if isHiddenRegion(n) || isScriptOrStyle(n) {
			toRemove = append(toRemove, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	for _, n := range toRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

var (
	pageFooterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^Page\s*\d+$`),
		regexp.MustCompile(`^-\s*\d+\s*-$`),
		regexp.MustCompile(`^[A-Z]?-\d+$`),
	}
)

// stripNoise removes spacer/pagination images, empty decorative
// elements, and page-number footers using a goquery pass grounded in
// the EDGAR-specific sanitizer referenced in SPEC_FULL.md §2.2. It
// never touches an element carrying an id/name attribute, since
// HybridSectionDetector's TOC strategy depends on those anchors.
func stripNoise(root *html.Node) {
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if hasAnchor(s) {
			return
		}
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		if isSpacerDimension(width) || isSpacerDimension(height) {
			removeSelection(s)
		}
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if hasAnchor(s) {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" && len(s.Nodes[0].Attr) == 0 && s.Children().Length() == 0 {
			removeSelection(s)
			return
		}
		for _, pat := range pageFooterPatterns {
			if pat.MatchString(text) {
				removeSelection(s)
				return
			}
		}
	})
}

func hasAnchor(s *goquery.Selection) bool {
	if _, ok := s.Attr("id"); ok {
		return true
	}
	if _, ok := s.Attr("name"); ok {
		return true
	}
	return false
}

func isSpacerDimension(v string) bool {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	return v == "1" || v == "0"
}

func removeSelection(s *goquery.Selection) {
	for _, n := range s.Nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// HTMLText re-exposes the teacher's block/inline-aware text
// stringification for callers building on the preprocessed tree.
func HTMLText(n *html.Node) string {
	return ixhtml.HTMLText(n)
}
