package standardize

import (
	"strings"
	"sync"

	"github.com/xrash/smetrics"

	"github.com/saranrapjs/sternvault/pkg/edgar"
)

// MappingContext carries the per-row hints ConceptMapper.MapConcept
// needs: which statement the row is in, what section it was assigned
// (by Standardizer's bottom-up pass), whether it's a total row, and
// which company/CIK is filing (for the entity-detection boost, §4.9).
type MappingContext struct {
	StatementType string
	Section       string
	IsTotal       bool
	CIK           string
	Ticker        string
}

func (c *MappingContext) disambiguation(label string) *DisambiguationContext {
	if c == nil {
		return nil
	}
	return &DisambiguationContext{
		Section:       c.Section,
		StatementType: c.StatementType,
		IsTotal:       c.IsTotal,
		Label:         label,
	}
}

// companyOverrides is one <id>_mappings.json file (§6 "Persisted state
// layout"): {metadata, concept_mappings, hierarchy_rules?}.
type companyOverrides struct {
	Metadata struct {
		EntityIdentifier string `json:"entity_identifier"`
		CIK              string `json:"cik"`
		Ticker           string `json:"ticker"`
		Name             string `json:"name"`
		Description      string `json:"description"`
	} `json:"metadata"`
	ConceptMappings map[string]string `json:"concept_mappings"` // tag -> standard concept
}

type cacheKey struct {
	tag           string
	statementType string
}

// ConceptMapper layers three priorities of lookup over a company
// concept (§4.9):
//
//	priority 3 (entity-detection boost) > priority 2 (company override)
//	> priority 1 (the global ReverseIndex)
//
// grounded in core.py's ConceptMapper, generalized from its single
// MappingStore source into the three-tier resolution order §4.9
// describes, plus the fuzzy inference §4.9.1 adds for tags none of
// the three priorities recognize.
type ConceptMapper struct {
	reverseIndex *ReverseIndex
	logger       *UnmappedTagLogger

	mu                sync.RWMutex
	companyOverrides  map[string]companyOverrides // keyed by lowercased CIK or ticker
	cache             map[cacheKey]string          // "" recorded = cached negative result
	cacheHasEntry     map[cacheKey]bool
}

// NewConceptMapper builds a ConceptMapper over reverseIndex, logging
// unmapped/ambiguous tags to logger (may be nil to disable logging).
func NewConceptMapper(reverseIndex *ReverseIndex, logger *UnmappedTagLogger) *ConceptMapper {
	return &ConceptMapper{
		reverseIndex:     reverseIndex,
		logger:           logger,
		companyOverrides: make(map[string]companyOverrides),
		cache:            make(map[cacheKey]string),
		cacheHasEntry:    make(map[cacheKey]bool),
	}
}

// LoadCompanyOverrides registers a company's override mappings (§6
// "<company>_mappings.json"), indexed by both its CIK and ticker so
// either identifier resolves it. Safe to call concurrently — the
// first load of a given id acquires the write lock, matching §5's
// "first-time load of a company file acquires a lock".
func (m *ConceptMapper) LoadCompanyOverrides(cik, ticker string, mappings map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := companyOverrides{ConceptMappings: mappings}
	entry.Metadata.CIK = cik
	entry.Metadata.Ticker = ticker
	if cik != "" {
		m.companyOverrides[strings.ToLower(cik)] = entry
	}
	if ticker != "" {
		m.companyOverrides[strings.ToLower(ticker)] = entry
	}
}

// LearnMapping records a manually-confirmed mapping into the in-memory
// company-override layer (priority 2), so operators curating
// UnmappedTagLogger's CSV output can feed confirmed mappings back into
// a running process without a restart. Grounded in core.py's
// ConceptMapper.learn_mapping.
func (m *ConceptMapper) LearnMapping(cik, tag, standardConcept string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(cik)
	entry, ok := m.companyOverrides[key]
	if !ok {
		entry = companyOverrides{ConceptMappings: make(map[string]string)}
		entry.Metadata.CIK = cik
	}
	if entry.ConceptMappings == nil {
		entry.ConceptMappings = make(map[string]string)
	}
	entry.ConceptMappings[tag] = standardConcept
	m.companyOverrides[key] = entry
}

// entityPrefix extracts a tag's namespace prefix (e.g. "tsla" from
// "tsla:CustomRevenueConcept"), used for the entity-detection boost.
func entityPrefix(tag string) string {
	if i := strings.IndexAny(tag, ":_"); i > 0 {
		return strings.ToLower(tag[:i])
	}
	return ""
}

// MapConcept resolves companyConcept to a standard concept (§6
// conceptMapper.MapConcept / §4.9 resolution order): priority 3 if the
// tag's namespace prefix names a known ticker with an override file,
// else priority 2 if ctx names a company in context, else priority 1
// (the global ReverseIndex) always. The first non-empty answer wins.
// Negative results are cached too, keyed by (tag, statement_type).
func (m *ConceptMapper) MapConcept(companyConcept, label string, ctx *MappingContext) (string, bool) {
	statementType := ""
	if ctx != nil {
		statementType = ctx.StatementType
	}
	key := cacheKey{tag: companyConcept, statementType: statementType}

	m.mu.RLock()
	if m.cacheHasEntry[key] {
		v := m.cache[key]
		m.mu.RUnlock()
		return v, v != ""
	}
	m.mu.RUnlock()

	if concept, ok := m.resolveViaEntityDetection(companyConcept); ok {
		return m.store(key, concept)
	}
	if ctx != nil && (ctx.CIK != "" || ctx.Ticker != "") {
		if concept, ok := m.resolveViaCompanyOverride(ctx.CIK, ctx.Ticker, companyConcept); ok {
			return m.store(key, concept)
		}
	}
	if m.reverseIndex != nil {
		if concept, ok := m.reverseIndex.GetStandardConcept(companyConcept, ctx.disambiguation(label), true); ok {
			return m.store(key, concept)
		}
	}

	concept, confidence := m.inferMapping(companyConcept, label, statementType)
	if confidence >= 0.9 {
		return m.store(key, concept)
	}

	if m.logger != nil {
		entry := UnmappedTagEntry{
			Concept:       companyConcept,
			Label:         label,
			StatementType: statementType,
		}
		if ctx != nil {
			entry.Section = ctx.Section
			entry.CIK = ctx.CIK
		}
		if confidence >= 0.5 {
			entry.SuggestedMapping = concept
			entry.Confidence = confidence
		}
		m.logger.LogUnmapped(entry)
	}

	m.store(key, "")
	return "", false
}

func (m *ConceptMapper) store(key cacheKey, concept string) (string, bool) {
	m.mu.Lock()
	m.cache[key] = concept
	m.cacheHasEntry[key] = true
	m.mu.Unlock()
	return concept, concept != ""
}

// resolveViaEntityDetection is priority 3: a tag's namespace prefix is
// checked against the known ticker table (pkg/edgar.Ticker2CIK); when
// it resolves and an override file was registered for that ticker or
// its CIK, that company's mapping is tried first regardless of the
// active filing's own company.
func (m *ConceptMapper) resolveViaEntityDetection(tag string) (string, bool) {
	prefix := entityPrefix(tag)
	if prefix == "" {
		return "", false
	}
	cik, err := edgar.Ticker2CIK(strings.ToUpper(prefix))
	if err != nil {
		return "", false
	}
	return m.resolveViaCompanyOverride(cik, prefix, tag)
}

func (m *ConceptMapper) resolveViaCompanyOverride(cik, ticker, tag string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cik != "" {
		if entry, ok := m.companyOverrides[strings.ToLower(cik)]; ok {
			if concept, ok := entry.ConceptMappings[tag]; ok {
				return concept, true
			}
		}
	}
	if ticker != "" {
		if entry, ok := m.companyOverrides[strings.ToLower(ticker)]; ok {
			if concept, ok := entry.ConceptMappings[tag]; ok {
				return concept, true
			}
		}
	}
	return "", false
}

// inferMapping is §4.9.1's fuzzy inference: when no source above
// recognizes the tag, score label similarity against every known
// StandardConcept via Jaro-Winkler (smetrics.JaroWinkler, the
// closest ecosystem equivalent to core.py's difflib.SequenceMatcher
// ratio used by _infer_mapping) and take the best match.
func (m *ConceptMapper) inferMapping(companyConcept, label, statementType string) (string, float64) {
	labelLower := strings.ToLower(label)

	switch {
	case strings.Contains(labelLower, "total assets"):
		return string(TotalAssets), 0.95
	case strings.Contains(labelLower, "revenue") && len(labelLower) < 30:
		return string(Revenue), 0.9
	case strings.Contains(labelLower, "net income") && !strings.Contains(labelLower, "parent"):
		return string(NetIncome), 0.9
	}

	for _, c := range AllStandardConcepts {
		if strings.ToLower(string(c)) == labelLower {
			return string(c), 1.0
		}
	}

	candidates := AllStandardConcepts
	if filtered := filterByStatementType(statementType, labelLower); len(filtered) > 0 {
		candidates = filtered
	}

	var best string
	var bestScore float64
	for _, c := range candidates {
		score := smetrics.JaroWinkler(labelLower, strings.ToLower(string(c)), 0.7, 4)
		if score > bestScore {
			bestScore = score
			best = string(c)
		}
	}

	bestScore = applyContextualBoost(statementType, labelLower, best, bestScore)

	if bestScore >= 0.45 && bestScore < 0.5 {
		bestScore = 0.5
	}
	if bestScore < 0.5 {
		return "", 0.0
	}
	return best, bestScore
}

var (
	balanceSheetKeywords   = []string{"assets", "liabilities", "equity", "cash", "debt", "inventory", "receivable", "payable"}
	incomeStatementKeywords = []string{"revenue", "sales", "income", "expense", "profit", "loss", "tax", "earnings"}
	cashFlowKeywords       = []string{"cash", "operating", "investing", "financing", "activities"}
)

func filterByStatementType(statementType, labelLower string) []StandardConcept {
	var keywords []string
	switch statementType {
	case "BalanceSheet":
		keywords = balanceSheetKeywords
	case "IncomeStatement":
		keywords = incomeStatementKeywords
	case "CashFlowStatement":
		keywords = cashFlowKeywords
	default:
		return nil
	}
	if !containsAny(labelLower, keywords) {
		return nil
	}
	var out []StandardConcept
	for _, c := range AllStandardConcepts {
		if containsAny(strings.ToLower(string(c)), keywords) {
			out = append(out, c)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// applyContextualBoost nudges bestScore upward when label and
// statement type agree emphatically on a specific total concept,
// mirroring _infer_mapping's statement-specific contextual rules.
func applyContextualBoost(statementType, labelLower, best string, score float64) float64 {
	boost := func(target StandardConcept) float64 {
		if best == string(target) {
			return minFloat(1.0, score+0.2)
		}
		return score
	}
	switch statementType {
	case "BalanceSheet":
		switch {
		case strings.Contains(labelLower, "assets") && strings.Contains(labelLower, "total"):
			return boost(TotalAssets)
		case strings.Contains(labelLower, "liabilities") && strings.Contains(labelLower, "total"):
			return boost(TotalLiabilities)
		case strings.Contains(labelLower, "equity") && (strings.Contains(labelLower, "total") || strings.Contains(labelLower, "stockholders")):
			return boost(TotalEquity)
		}
	case "IncomeStatement":
		switch {
		case strings.Contains(labelLower, "revenue") || strings.Contains(labelLower, "sales"):
			return boost(Revenue)
		case strings.Contains(labelLower, "net income"):
			return boost(NetIncome)
		}
	}
	return score
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
