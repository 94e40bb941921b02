package htmldoc

import (
	"regexp"
	"sort"
	"strings"
)

// bodyFontSizePt is the assumed baseline body text size filings are
// measured against when the style detector computes a font-size ratio.
const bodyFontSizePt = 10.0

var (
	itemRe = regexp.MustCompile(`(?i)^item\s+(\d+(?:\.\d+)?[A-Z]?)\.?`)
	partRe = regexp.MustCompile(`(?i)^part\s+([IVX]+)\b`)
)

type headingDetection struct {
	name    string
	weight  float64
	conf    float64
	level   int
	fires   bool
}

// classifyHeading runs the four HeaderDetector implementations (§4.5.1)
// over one candidate element and combines their votes. A single firing
// detector must itself clear cfg.HeaderDetectionThreshold; two or more
// combine via Σ(confidence·weight)/Σ(weight), with the winning level
// chosen by total weighted support rather than by the single
// highest-weight detector.
func classifyHeading(cfg *ParserConfig, info StyleInfo, text string, positionRatio float64) (level int, confidence float64, method string, ok bool) {
	detectors := []headingDetection{
		styleDetector(info, text),
		patternDetector(text),
		structuralDetector(info, text),
		contextualDetector(text, positionRatio),
	}

	var firing []headingDetection
	for _, d := range detectors {
		if d.fires {
			firing = append(firing, d)
		}
	}
	if len(firing) == 0 {
		return 0, 0, "", false
	}
	threshold := cfg.HeaderDetectionThreshold

	if len(firing) == 1 {
		d := firing[0]
		if d.conf < threshold {
			return 0, 0, "", false
		}
		return d.level, d.conf, d.name, true
	}

	var sumWeight, sumWeightedConf float64
	levelSupport := map[int]float64{}
	var names []string
	for _, d := range firing {
		sumWeight += d.weight
		sumWeightedConf += d.weight * d.conf
		levelSupport[d.level] += d.weight * d.conf
		names = append(names, d.name)
	}
	combined := sumWeightedConf / sumWeight
	if combined < threshold {
		return 0, 0, "", false
	}

	bestLevel, bestSupport := 0, -1.0
	for lvl, support := range levelSupport {
		if support > bestSupport || (support == bestSupport && lvl < bestLevel) {
			bestLevel, bestSupport = lvl, support
		}
	}
	return bestLevel, combined, strings.Join(names, "+"), true
}

func styleDetector(info StyleInfo, text string) headingDetection {
	d := headingDetection{name: "style", weight: 0.3, level: 2}
	if text == "" || len([]rune(text)) > 200 {
		return d
	}
	var score float64
	if info.IsBold {
		score += 0.3
	}
	if info.IsCentered {
		score += 0.2
	}
	if info.HasFontSize && info.FontSizePt/bodyFontSizePt >= 1.2 {
		score += 0.3
	}
	if isAllCaps(text) {
		score += 0.2
	}
	if score > 0 {
		d.fires = true
		d.conf = clamp01(score)
	}
	return d
}

func patternDetector(text string) headingDetection {
	d := headingDetection{name: "pattern", weight: 0.4, level: 2}
	trimmed := strings.TrimSpace(text)
	if m := itemRe.FindStringSubmatch(trimmed); m != nil {
		d.fires = true
		d.conf = 0.95
		return d
	}
	if partRe.MatchString(trimmed) {
		d.fires = true
		d.conf = 0.9
		d.level = 1
		return d
	}
	if isAllCaps(trimmed) && len([]rune(trimmed)) <= 80 && trimmed != "" {
		d.fires = true
		d.conf = 0.55
	}
	return d
}

// structuralDetector's fast path (an actual <h1>-<h6> tag, confidence
// 1.0) is handled directly in TreeBuilder.convertNode before this
// classifier ever runs; here it only covers the weaker signal of an
// isolated, centered run of text standing alone in its container.
func structuralDetector(info StyleInfo, text string) headingDetection {
	d := headingDetection{name: "structural", weight: 0.2, level: 2}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len([]rune(trimmed)) > 120 {
		return d
	}
	if info.IsCentered {
		d.fires = true
		d.conf = 0.5
	}
	return d
}

func contextualDetector(text string, positionRatio float64) headingDetection {
	d := headingDetection{name: "contextual", weight: 0.1, level: 2}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return d
	}
	var score float64
	if isTitleCaseNoPunct(trimmed) {
		score += 0.5
	}
	if positionRatio < 0.05 {
		score += 0.5
	}
	if score > 0 {
		d.fires = true
		d.conf = clamp01(score)
	}
	return d
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func isTitleCaseNoPunct(s string) bool {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		return false
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 12 {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		if r[0] < 'A' || r[0] > 'Z' {
			// allow common lowercase connective words
			lw := strings.ToLower(w)
			if lw != "of" && lw != "and" && lw != "the" && lw != "to" && lw != "in" {
				return false
			}
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sectionCandidate is one strategy's proposed section span, before
// combination (§4.5).
type sectionCandidate struct {
	id         string
	start, end int
	confidence float64
	method     string
	weight     float64
}

// detectSections runs HybridSectionDetector: five strategies propose
// candidates, each weighted and combined per section id, with
// TOC/Cross-Reference results preferred on disagreement and overlaps
// resolved by trimming the later section's start.
func detectSections(doc *Document, cfg *ParserConfig) []*Section {
	headings := doc.Headings()
	docEnd := 0
	if doc.Root != nil {
		_, docEnd = doc.Root.Span()
	}

	var all []sectionCandidate
	headingCandidates := headingStrategy(headings, docEnd)
	all = append(all, headingCandidates...)
	if len(headingCandidates) == 0 {
		all = append(all, patternStrategy(doc.Root, docEnd)...)
	}
	all = append(all, tocStrategy(doc, docEnd)...)
	all = append(all, crossRefStrategy(doc, docEnd)...)

	if cfg.DetectionThresholds.EnableCrossValidation {
		for i := range all {
			all[i].confidence = applyContextualAdjustment(doc, all[i])
		}
	}

	sections := combineSectionCandidates(all, cfg.thresholdFor(cfg.Form))
	return resolveOverlaps(sections)
}

func headingStrategy(headings []*Heading, docEnd int) []sectionCandidate {
	var matches []*Heading
	for _, h := range headings {
		trimmed := strings.TrimSpace(h.Text)
		if itemRe.MatchString(trimmed) || partRe.MatchString(trimmed) {
			matches = append(matches, h)
		}
	}
	var out []sectionCandidate
	for i, h := range matches {
		start, _ := h.Span()
		end := docEnd
		if i+1 < len(matches) {
			end, _ = matches[i+1].Span()
		}
		out = append(out, sectionCandidate{
			id: canonicalSectionID(h.Text), start: start, end: end,
			confidence: 0.25, method: "heading", weight: 0.25,
		})
	}
	return out
}

// patternStrategy is the final fallback: it only runs when no heading
// carried an Item/Part pattern, scanning raw paragraph text instead —
// necessary for filings where Item lines carry no distinguishing style
// at all (§4.5's documented edge case).
func patternStrategy(root *Container, docEnd int) []sectionCandidate {
	type hit struct {
		id    string
		start int
	}
	var hits []hit
	Walk(root, func(n Node) bool {
		if p, ok := n.(*Paragraph); ok {
			text := paragraphText(p)
			trimmed := strings.TrimSpace(text)
			if itemRe.MatchString(trimmed) || partRe.MatchString(trimmed) {
				start, _ := p.Span()
				hits = append(hits, hit{id: canonicalSectionID(trimmed), start: start})
			}
		}
		return true
	})
	var out []sectionCandidate
	for i, h := range hits {
		end := docEnd
		if i+1 < len(hits) {
			end = hits[i+1].start
		}
		out = append(out, sectionCandidate{id: h.id, start: h.start, end: end, confidence: 0.15, method: "pattern", weight: 0.15})
	}
	return out
}

func paragraphText(p *Paragraph) string {
	var b strings.Builder
	Walk(p, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.Content)
		}
		return true
	})
	return b.String()
}

// tocStrategy resolves the document's link cluster (anchors collected
// by TreeBuilder) against the anchor targets it also recorded,
// producing the highest-weighted candidates when a table of contents
// is present. It only has data to work with on the regular (DOM) build
// path — see Document.anchors's doc comment.
func tocStrategy(doc *Document, docEnd int) []sectionCandidate {
	if len(doc.hrefs) == 0 {
		return nil
	}
	type target struct {
		id    string
		start int
	}
	var targets []target
	for _, href := range doc.hrefs {
		if start, ok := doc.anchors[href]; ok {
			targets = append(targets, target{id: href, start: start})
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].start < targets[j].start })
	var out []sectionCandidate
	for i, t := range targets {
		end := docEnd
		if i+1 < len(targets) {
			end = targets[i+1].start
		}
		out = append(out, sectionCandidate{id: canonicalSectionID(t.id), start: t.start, end: end, confidence: 0.35, method: "toc", weight: 0.35})
	}
	return out
}

// crossRefStrategy maps Cross Reference Index entries (§4.6) to
// section candidates by estimating each entry's byte offset
// proportionally against the highest page number referenced anywhere
// in the index. This is a best-effort stand-in for true
// page-break-to-offset resolution — buildCrossReferenceIndex's doc
// comment already documents that the node tree carries no page-break
// markers forward, so an entry's Pages are the only positional signal
// available. DetectionMethod uses the spec's "cross_reference_index"
// label directly.
func crossRefStrategy(doc *Document, docEnd int) []sectionCandidate {
	idx := doc.CrossReferences()
	if idx == nil || len(idx.Entries) == 0 {
		return nil
	}
	maxPage := 0
	for _, e := range idx.Entries {
		for _, pr := range e.Pages {
			if pr.End > maxPage {
				maxPage = pr.End
			}
		}
	}
	if maxPage == 0 {
		return nil
	}
	var out []sectionCandidate
	for id, e := range idx.Entries {
		if len(e.Pages) == 0 {
			continue
		}
		startPage, endPage := e.Pages[0].Start, e.Pages[0].End
		for _, pr := range e.Pages[1:] {
			if pr.Start < startPage {
				startPage = pr.Start
			}
			if pr.End > endPage {
				endPage = pr.End
			}
		}
		start := int(float64(startPage-1) / float64(maxPage) * float64(docEnd))
		end := int(float64(endPage) / float64(maxPage) * float64(docEnd))
		if end <= start {
			end = docEnd
		}
		out = append(out, sectionCandidate{
			id: id, start: start, end: end,
			confidence: 0.30, method: "cross_reference_index", weight: 0.30,
		})
	}
	return out
}

// applyContextualAdjustment checks for substantive following text
// (§4.5 strategy 5) and nudges confidence up or down by 0.20 times the
// candidate's strategy weight. detectSections only applies it when
// DetectionThresholds.EnableCrossValidation is set.
func applyContextualAdjustment(doc *Document, c sectionCandidate) float64 {
	const minSubstantiveChars = 200
	length := c.end - c.start
	if length >= minSubstantiveChars {
		return clamp01(c.confidence + 0.20*c.weight)
	}
	return clamp01(c.confidence - 0.20*c.weight)
}

// combineSectionCandidates groups candidates by id, taking the
// weight-averaged confidence of the group as the final score; when TOC or Cross-Reference candidates exist for an id
// they win on disagreement, otherwise the higher-confidence (then
// larger-span) candidate does.
func combineSectionCandidates(all []sectionCandidate, minConfidence float64) []*Section {
	byID := map[string][]sectionCandidate{}
	for _, c := range all {
		byID[c.id] = append(byID[c.id], c)
	}

	var out []*Section
	for id, group := range byID {
		winner := group[0]
		for _, c := range group[1:] {
			switch {
			case (c.method == "toc" || c.method == "cross_reference_index") && winner.method != "toc" && winner.method != "cross_reference_index":
				winner = c
			case c.confidence > winner.confidence:
				winner = c
			case c.confidence == winner.confidence && (c.end-c.start) > (winner.end-winner.start):
				winner = c
			}
		}
		var sum, sumW float64
		for _, c := range group {
			sum += c.confidence * c.weight
			sumW += c.weight
		}
		final := winner.confidence
		if sumW > 0 {
			final = clamp01(sum / sumW)
		}
		if final < minConfidence {
			continue
		}
		s := &Section{ID: id, Confidence: final, DetectionMethod: winner.method}
		s.start, s.end = winner.start, winner.end
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// resolveOverlaps trims a later section's start to the earlier
// section's end when two sections overlap, losing no content from the
// earlier section (§4.5).
func resolveOverlaps(sections []*Section) []*Section {
	for i := 1; i < len(sections); i++ {
		prev, cur := sections[i-1], sections[i]
		if cur.start < prev.end {
			cur.start = prev.end
		}
	}
	return sections
}

func canonicalSectionID(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := itemRe.FindStringSubmatch(trimmed); m != nil {
		return "item_" + strings.ToLower(strings.ReplaceAll(m[1], ".", ""))
	}
	if m := partRe.FindStringSubmatch(trimmed); m != nil {
		return "part_" + strings.ToLower(m[1])
	}
	var b strings.Builder
	for _, r := range strings.ToLower(trimmed) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune('_')
		}
	}
	return b.String()
}
