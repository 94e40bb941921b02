package standardize

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

//go:embed gaap_mappings.json
var gaapMappingsJSON []byte

//go:embed display_names.json
var displayNamesJSON []byte

// gaapEntry is one gaap_mappings.json value (§6, "Persisted state
// layout"): {tag → {standard_tags, ambiguous, deprecated, comment}}.
type gaapEntry struct {
	StandardTags []string `json:"standard_tags"`
	Ambiguous    bool     `json:"ambiguous"`
	Deprecated   string   `json:"deprecated,omitempty"`
	Comment      string   `json:"comment,omitempty"`
}

// MappingResult is the outcome of a ReverseIndex lookup (§4.8), built
// once per unique tag and immutable after construction.
type MappingResult struct {
	StandardConcepts []string
	DisplayNames     []string
	IsAmbiguous      bool
	IsDeprecated     bool
	DeprecatedYear   string
	Comment          string
}

// PrimaryConcept returns the first standard concept, or "" if none.
func (r *MappingResult) PrimaryConcept() string {
	if len(r.StandardConcepts) == 0 {
		return ""
	}
	return r.StandardConcepts[0]
}

// PrimaryDisplayName returns the first display name, or "" if none.
func (r *MappingResult) PrimaryDisplayName() string {
	if len(r.DisplayNames) == 0 {
		return ""
	}
	return r.DisplayNames[0]
}

// DisambiguationContext carries the hints get_standard_concept's
// disambiguation rules consult (§4.8 rules 1-3).
type DisambiguationContext struct {
	Section       string
	StatementType string
	IsTotal       bool
	Label         string
}

var namespacePrefixes = []string{"us-gaap:", "us-gaap_", "ifrs-full:", "dei:"}

// ReverseIndex is the O(1) XBRL-tag → standard-concept lookup (§4.8),
// loaded once from the embedded gaap_mappings.json/display_names.json
// tables, grounded in reverse_index.py's ReverseIndex.
type ReverseIndex struct {
	index           map[string]gaapEntry
	displayNames    map[string]string
	normalizedCache map[string]string
	logger          *UnmappedTagLogger

	statsOnce sync.Once
	stats     ReverseIndexStats
}

// ReverseIndexStats mirrors ReverseIndex.stats in reverse_index.py.
type ReverseIndexStats struct {
	TotalMappings   int
	AmbiguousCount  int
	DeprecatedCount int
}

// NewReverseIndex builds a ReverseIndex from the embedded mapping
// tables. logger may be nil; when set, ambiguous resolutions are
// optionally recorded there (see GetStandardConcept's logAmbiguous
// parameter).
func NewReverseIndex(logger *UnmappedTagLogger) *ReverseIndex {
	var index map[string]gaapEntry
	if err := json.Unmarshal(gaapMappingsJSON, &index); err != nil {
		slog.Warn("failed to parse gaap_mappings.json", "error", err)
		index = map[string]gaapEntry{}
	}
	var names map[string]string
	if err := json.Unmarshal(displayNamesJSON, &names); err != nil {
		slog.Warn("failed to parse display_names.json", "error", err)
		names = map[string]string{}
	}

	ri := &ReverseIndex{
		index:        index,
		displayNames: names,
		logger:       logger,
	}
	ri.buildNormalizedCache()
	return ri
}

func (ri *ReverseIndex) buildNormalizedCache() {
	ri.normalizedCache = make(map[string]string, len(ri.index))
	for tag := range ri.index {
		ri.normalizedCache[strings.ToLower(tag)] = tag
		lowerTag := strings.ToLower(tag)
		for _, prefix := range namespacePrefixes {
			p := strings.ToLower(prefix)
			if strings.HasPrefix(lowerTag, p) {
				ri.normalizedCache[lowerTag[len(p):]] = tag
			}
		}
	}
}

// Stats returns the lazily-computed, memoized index statistics.
func (ri *ReverseIndex) Stats() ReverseIndexStats {
	ri.statsOnce.Do(func() {
		var ambiguous, deprecated int
		for _, e := range ri.index {
			if e.Ambiguous {
				ambiguous++
			}
			if e.Deprecated != "" {
				deprecated++
			}
		}
		ri.stats = ReverseIndexStats{
			TotalMappings:   len(ri.index),
			AmbiguousCount:  ambiguous,
			DeprecatedCount: deprecated,
		}
	})
	return ri.stats
}

// normalizeTag resolves xbrlTag to an index key: direct match, then
// prefix-stripped match, then a case-insensitive cache lookup (§4.8
// "Normalize tag").
func (ri *ReverseIndex) normalizeTag(tag string) (string, bool) {
	if _, ok := ri.index[tag]; ok {
		return tag, true
	}

	normalized := tag
	for _, prefix := range namespacePrefixes {
		if strings.HasPrefix(tag, prefix) {
			normalized = tag[len(prefix):]
			break
		}
	}
	if _, ok := ri.index[normalized]; ok {
		return normalized, true
	}

	if orig, ok := ri.normalizedCache[strings.ToLower(normalized)]; ok {
		return orig, true
	}
	return "", false
}

// Lookup resolves xbrlTag to a MappingResult, or nil if excluded or
// unrecognized (§4.8 step 1-3).
func (ri *ReverseIndex) Lookup(tag string) (*MappingResult, error) {
	if ShouldExclude(tag) {
		return nil, nil
	}
	normalized, ok := ri.normalizeTag(tag)
	if !ok {
		return nil, nil
	}
	entry := ri.index[normalized]

	displayNames := make([]string, len(entry.StandardTags))
	for i, concept := range entry.StandardTags {
		if name, ok := ri.displayNames[concept]; ok {
			displayNames[i] = name
		} else {
			displayNames[i] = concept
		}
	}

	return &MappingResult{
		StandardConcepts: entry.StandardTags,
		DisplayNames:     displayNames,
		IsAmbiguous:      entry.Ambiguous,
		IsDeprecated:     entry.Deprecated != "",
		DeprecatedYear:   entry.Deprecated,
		Comment:          entry.Comment,
	}, nil
}

// GetStandardConcept is the primary standardization lookup (§4.8).
// Non-ambiguous tags return their sole concept; ambiguous tags are
// disambiguated using ctx per the ordered rules, falling back to the
// first candidate. When logAmbiguous is true and the tag was
// ambiguous, the resolution is recorded to the ReverseIndex's logger.
func (ri *ReverseIndex) GetStandardConcept(tag string, ctx *DisambiguationContext, logAmbiguous bool) (string, bool) {
	result, _ := ri.Lookup(tag)
	if result == nil {
		return "", false
	}
	if !result.IsAmbiguous {
		return result.PrimaryConcept(), true
	}

	resolutionMethod := "fallback"
	resolved := ""
	if ctx != nil && len(result.StandardConcepts) > 1 {
		resolved = ri.disambiguateByContext(tag, result.StandardConcepts, ctx)
		if resolved != "" {
			switch {
			case ctx.IsTotal:
				resolutionMethod = "is_total"
			case ctx.Section != "":
				resolutionMethod = "section"
			default:
				resolutionMethod = "tag_hint"
			}
		}
	}
	if resolved == "" {
		resolved = result.PrimaryConcept()
		resolutionMethod = "fallback"
	}

	if logAmbiguous && ri.logger != nil {
		label := ""
		statementType := ""
		section := ""
		if ctx != nil {
			label, statementType, section = ctx.Label, ctx.StatementType, ctx.Section
		}
		confidence := 0.5
		if resolutionMethod != "fallback" {
			confidence = 1.0
		}
		ri.logger.LogAmbiguous(AmbiguousResolutionEntry{
			Concept:           tag,
			Label:             label,
			Candidates:        result.StandardConcepts,
			ResolvedTo:        resolved,
			ResolutionMethod:  resolutionMethod,
			StatementType:     statementType,
			Section:           section,
			Confidence:        confidence,
		})
	}

	return resolved, true
}

// disambiguateByContext applies §4.8's three ordered rules, in order:
// is_total hint, section matching via SectionMembership, then
// tag-name hints (Noncurrent/LongTerm vs Current).
func (ri *ReverseIndex) disambiguateByContext(tag string, candidates []string, ctx *DisambiguationContext) string {
	if ctx.IsTotal {
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c), "total") {
				return c
			}
		}
	}

	if ctx.Section != "" {
		statementType := ctx.StatementType
		if statementType == "" {
			statementType = "BalanceSheet"
		}
		for _, c := range candidates {
			if section := GetSectionForConcept(c, statementType); section != "" && sectionsMatch(ctx.Section, section) {
				return c
			}
		}
	}

	tagLower := strings.ToLower(tag)
	if strings.Contains(tagLower, "noncurrent") || strings.Contains(tagLower, "longterm") {
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c), "noncurrent") || strings.Contains(strings.ToLower(c), "long-term") {
				return c
			}
		}
	} else if strings.Contains(tagLower, "current") {
		for _, c := range candidates {
			cl := strings.ToLower(c)
			if strings.Contains(cl, "current") && !strings.Contains(cl, "noncurrent") {
				return c
			}
		}
	}

	return ""
}

// sectionsMatch is the fuzzy section-name equality §4.8 describes:
// "Current Assets" ≈ "CurrentAssets", but current-vs-noncurrent and
// asset-vs-liability must both agree strictly. Grounded verbatim in
// reverse_index.py's _sections_match.
func sectionsMatch(contextSection, conceptSection string) bool {
	if contextSection == "" || conceptSection == "" {
		return false
	}
	ctx := normalizeSectionName(contextSection)
	cpt := normalizeSectionName(conceptSection)
	if ctx == cpt {
		return true
	}

	ctxCurrent, ctxNoncurrent := currency(ctx)
	cptCurrent, cptNoncurrent := currency(cpt)
	if ctxCurrent != cptCurrent || ctxNoncurrent != cptNoncurrent {
		return false
	}

	ctxAsset := strings.Contains(ctx, "asset")
	ctxLiability := strings.Contains(ctx, "liabilit")
	cptAsset := strings.Contains(cpt, "asset")
	cptLiability := strings.Contains(cpt, "liabilit")

	if ctxAsset && cptLiability {
		return false
	}
	if ctxLiability && cptAsset {
		return false
	}

	switch {
	case ctxCurrent && cptCurrent && ctxAsset && cptAsset:
		return true
	case ctxCurrent && cptCurrent && ctxLiability && cptLiability:
		return true
	case ctxNoncurrent && cptNoncurrent && ctxAsset && cptAsset:
		return true
	case ctxNoncurrent && cptNoncurrent && ctxLiability && cptLiability:
		return true
	}
	return false
}

func normalizeSectionName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return s
}

// currency reports (isCurrent, isNoncurrent) for an already-normalized
// section name, matching _sections_match's split-on-"current" test.
func currency(s string) (isCurrent, isNoncurrent bool) {
	if strings.Contains(s, "current") {
		before, _, _ := strings.Cut(s, "current")
		isCurrent = !strings.Contains(before, "non")
	}
	isNoncurrent = strings.Contains(s, "non current") || strings.Contains(s, "noncurrent") ||
		(strings.Contains(s, "non") && strings.Contains(s, "current"))
	return
}

// GetDisplayName resolves xbrlTag to its user-friendly display label
// (§6 reverseIndex.GetDisplayName), applying the same disambiguation
// as GetStandardConcept when the tag is ambiguous.
func (ri *ReverseIndex) GetDisplayName(tag string, ctx *DisambiguationContext) (string, bool) {
	result, _ := ri.Lookup(tag)
	if result == nil {
		return "", false
	}
	if !result.IsAmbiguous {
		return result.PrimaryDisplayName(), true
	}
	if ctx != nil && len(result.StandardConcepts) > 1 {
		if resolved := ri.disambiguateByContext(tag, result.StandardConcepts, ctx); resolved != "" {
			if name, ok := ri.displayNames[resolved]; ok {
				return name, true
			}
			return resolved, true
		}
	}
	return result.PrimaryDisplayName(), true
}

// IsAmbiguous reports whether tag maps to more than one standard concept.
func (ri *ReverseIndex) IsAmbiguous(tag string) bool {
	result, _ := ri.Lookup(tag)
	return result != nil && result.IsAmbiguous
}

// AmbiguousCandidates returns every (concept, display name) pair an
// ambiguous tag could resolve to.
func (ri *ReverseIndex) AmbiguousCandidates(tag string) [][2]string {
	result, _ := ri.Lookup(tag)
	if result == nil {
		return nil
	}
	out := make([][2]string, len(result.StandardConcepts))
	for i, c := range result.StandardConcepts {
		out[i] = [2]string{c, result.DisplayNames[i]}
	}
	return out
}

// ConceptToDisplayName resolves a standard concept directly to its
// display name, falling back to the concept itself when unmapped.
func (ri *ReverseIndex) ConceptToDisplayName(standardConcept string) string {
	if name, ok := ri.displayNames[standardConcept]; ok {
		return name
	}
	return standardConcept
}

func (ri *ReverseIndex) Len() int { return len(ri.index) }
