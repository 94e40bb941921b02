package standardize

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

//go:embed section_membership.json
var sectionMembershipJSON []byte

// SectionMembership answers "what section does this standard concept
// belong to" (§4.8 rule 2), grounded in sections.py's SectionMembership.
// It is loaded once from the embedded section_membership.json catalog
// ({statement_type → {section_name → [concepts]}}) and is read-only
// thereafter.
type SectionMembership struct {
	data    map[string]map[string][]string
	reverse map[string]map[string]string // concept -> statement_type -> section
}

var (
	defaultMembership     *SectionMembership
	defaultMembershipOnce sync.Once
)

// DefaultSectionMembership returns the process-wide SectionMembership
// singleton (§5 "process-wide singletons... initialized once, lazily").
func DefaultSectionMembership() *SectionMembership {
	defaultMembershipOnce.Do(func() {
		defaultMembership = NewSectionMembership()
	})
	return defaultMembership
}

// NewSectionMembership builds a SectionMembership from the embedded
// catalog. Exposed directly (rather than only via the singleton) so
// tests can construct isolated instances (§5.1 "provide a construction
// path that bypasses the singleton").
func NewSectionMembership() *SectionMembership {
	var data map[string]map[string][]string
	if err := json.Unmarshal(sectionMembershipJSON, &data); err != nil {
		slog.Warn("failed to parse section_membership.json", "error", err)
		data = map[string]map[string][]string{}
	}

	reverse := make(map[string]map[string]string)
	for statementType, sections := range data {
		for sectionName, concepts := range sections {
			for _, concept := range concepts {
				if reverse[concept] == nil {
					reverse[concept] = make(map[string]string)
				}
				reverse[concept][statementType] = sectionName
			}
		}
	}

	return &SectionMembership{data: data, reverse: reverse}
}

// GetSection returns the section concept belongs to within
// statementType; when statementType is "" it returns the first section
// found across any statement. It returns "" for an unknown concept.
func (m *SectionMembership) GetSection(concept, statementType string) string {
	sections, ok := m.reverse[concept]
	if !ok {
		return ""
	}
	if statementType != "" {
		return sections[statementType]
	}
	for _, s := range sections {
		return s
	}
	return ""
}

// GetStatementForConcept returns the first statement type concept
// appears in, or "" if not found.
func (m *SectionMembership) GetStatementForConcept(concept string) string {
	sections, ok := m.reverse[concept]
	if !ok {
		return ""
	}
	for statementType := range sections {
		return statementType
	}
	return ""
}

// GetStatementSections returns every section name defined for
// statementType. The order is not defined: sections are held in a map.
func (m *SectionMembership) GetStatementSections(statementType string) []string {
	sections := m.data[statementType]
	out := make([]string, 0, len(sections))
	for name := range sections {
		out = append(out, name)
	}
	return out
}

// GetConceptsInSection returns the concepts listed under
// (statementType, section).
func (m *SectionMembership) GetConceptsInSection(statementType, section string) []string {
	return m.data[statementType][section]
}

// IsCurrent reports whether concept's BalanceSheet section is current
// (true), non-current (false), or unknown (ok=false).
func (m *SectionMembership) IsCurrent(concept string) (value, ok bool) {
	section := m.GetSection(concept, "BalanceSheet")
	if section == "" {
		return false, false
	}
	lower := strings.ToLower(section)
	switch {
	case strings.Contains(lower, "current") && !strings.Contains(lower, "non-current"):
		return true, true
	case strings.Contains(lower, "non-current"):
		return false, true
	}
	return false, false
}

// IsAsset reports whether concept's BalanceSheet section is an asset
// section (true) or a liability/equity section (false).
func (m *SectionMembership) IsAsset(concept string) (value, ok bool) {
	section := m.GetSection(concept, "BalanceSheet")
	if section == "" {
		return false, false
	}
	lower := strings.ToLower(section)
	switch {
	case strings.Contains(lower, "asset"):
		return true, true
	case strings.Contains(lower, "liabilit") || strings.Contains(lower, "equity"):
		return false, true
	}
	if section == "Totals" {
		cl := strings.ToLower(concept)
		switch {
		case strings.Contains(cl, "asset"):
			return true, true
		case strings.Contains(cl, "liabilit") || strings.Contains(cl, "equity"):
			return false, true
		}
	}
	return false, false
}

// IsLiability reports whether concept's BalanceSheet section is a
// liability section.
func (m *SectionMembership) IsLiability(concept string) (value, ok bool) {
	section := m.GetSection(concept, "BalanceSheet")
	if section == "" {
		return false, false
	}
	return strings.Contains(strings.ToLower(section), "liabilit"), true
}

// IsEquity reports whether concept's BalanceSheet section is the
// equity section.
func (m *SectionMembership) IsEquity(concept string) (value, ok bool) {
	section := m.GetSection(concept, "BalanceSheet")
	if section == "" {
		return false, false
	}
	return strings.Contains(strings.ToLower(section), "equity"), true
}

// GetSectionForConcept is the package-level convenience ReverseIndex's
// disambiguation rule calls, backed by the default singleton.
func GetSectionForConcept(concept, statementType string) string {
	return DefaultSectionMembership().GetSection(concept, statementType)
}
