package htmldoc

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/saranrapjs/sternvault/pkg/ixbrl"
	"golang.org/x/net/html"
)

// XBRLFact is the document-model-level fact record (§3). It is
// immutable once constructed; hidden facts are distinguished only by
// the Hidden boolean, never by omission.
type XBRLFact struct {
	Concept      string
	Value        string
	ContextRef   string
	UnitRef      string
	Decimals     string
	Scale        string
	Period       *ixbrl.Period
	Hidden       bool
	SourceOffset int
}

// ScaledNumber parses Value as a number and applies Scale (a power of
// ten), mirroring the teacher's ixbrl.NonFraction.ScaledNumber for the
// document-model-level fact shape.
func (f XBRLFact) ScaledNumber() float64 {
	scale, err := strconv.Atoi(f.Scale)
	if err != nil {
		scale = 0
	}
	clean := strings.ReplaceAll(f.Value, ",", "")
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return math.Pow10(scale) * value
}

// XBRLData is the fact store attached to Document.XBRL when
// extraction is enabled.
type XBRLData struct {
	Facts []XBRLFact
}

// extractXBRL runs XBRLExtractor: the teacher's ixbrl.Parse generalized
// to run over the Preprocessor's isolated hidden-region subtrees first
// (setting hidden=true) and then the remaining visible tree (setting
// hidden=false), coalescing duplicate (concept, context, value) triples
// with the visible copy winning (§4.7).
func extractXBRL(hiddenRegions []*html.Node, visibleRoot *html.Node) (*XBRLData, error) {
	var facts []XBRLFact

	collect := func(root *html.Node, hidden bool) error {
		var buf bytes.Buffer
		if err := html.Render(&buf, root); err != nil {
			return err
		}
		parsed, _, err := ixbrl.Parse(&buf)
		if err != nil {
			return err
		}
		for _, p := range parsed {
			switch v := p.Struct.(type) {
			case *ixbrl.NonFraction:
				facts = append(facts, XBRLFact{
					Concept: v.Name, Value: v.Content, ContextRef: v.ContextRef,
					UnitRef: v.UnitRef, Decimals: v.Decimals, Scale: v.Scale,
					Period: periodOf(v.Context), Hidden: hidden,
				})
			case *ixbrl.NonNumeric:
				facts = append(facts, XBRLFact{
					Concept: v.Name, Value: v.Content, ContextRef: v.ContextRef,
					Period: periodOf(v.Context), Hidden: hidden,
				})
			case *ixbrl.Fraction:
				facts = append(facts, XBRLFact{
					Concept: v.Name, Value: v.Content, ContextRef: v.ContextRef,
					UnitRef: v.UnitRef, Period: periodOf(v.Context), Hidden: hidden,
				})
			}
		}
		return nil
	}

	for _, region := range hiddenRegions {
		if err := collect(region, true); err != nil {
			return nil, err
		}
	}
	if visibleRoot != nil {
		if err := collect(visibleRoot, false); err != nil {
			return nil, err
		}
	}

	return &XBRLData{Facts: coalesce(facts)}, nil
}

func periodOf(ctx *ixbrl.Context) *ixbrl.Period {
	if ctx == nil {
		return nil
	}
	return &ctx.Period
}

// coalesce dedups by (concept, context, value); the visible copy wins
// when both a hidden and a visible fact exist for the same triple.
func coalesce(facts []XBRLFact) []XBRLFact {
	type key struct{ concept, ctx, value string }
	index := map[key]int{}
	var out []XBRLFact
	for _, f := range facts {
		k := key{f.Concept, f.ContextRef, f.Value}
		if i, ok := index[k]; ok {
			if out[i].Hidden && !f.Hidden {
				out[i] = f
			}
			continue
		}
		index[k] = len(out)
		out = append(out, f)
	}
	return out
}
