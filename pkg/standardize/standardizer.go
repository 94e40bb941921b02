package standardize

import "strings"

// StatementRow is one line item of a raw financial statement, the
// shape Standardizer consumes and enriches (§6 "StandardizeStatement").
// Label is never mutated by standardization — DisplayName carries the
// standardized presentation string instead, an explicit deviation from
// core.py's standardize_statement (which overwrites label and stashes
// the original under original_label) that §4.10 calls out by name.
type StatementRow struct {
	Concept       string
	Label         string
	IsTotal       bool
	Level         int
	StatementType string
	Section       string // supplied by calculation-linkbase context, or "" to infer

	StandardConcept string
	DisplayName     string
}

// subtotalSections maps a statement type's known subtotal labels to
// the section name they close out, used by Standardizer's bottom-up
// pass to assign section context to the rows a total row covers.
var subtotalSections = map[string]map[string]string{
	"BalanceSheet": {
		"total current assets":      "Current Assets",
		"total assets":              "Non-Current Assets",
		"total current liabilities": "Current Liabilities",
		"total liabilities":         "Non-Current Liabilities",
		"total stockholders equity": "Equity",
		"total equity":              "Equity",
	},
	"IncomeStatement": {
		"gross profit":     "Cost and Expenses",
		"operating income": "Operating Results",
		"net income":       "Non-Operating",
	},
	"CashFlowStatement": {
		"net cash from operating activities": "Operating Activities",
		"net cash from investing activities": "Investing Activities",
		"net cash from financing activities": "Financing Activities",
		"net change in cash":                 "Totals",
	},
}

func sectionForTotalLabel(statementType, label string) string {
	table := subtotalSections[statementType]
	if table == nil {
		return ""
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(label), " "))
	for key, section := range table {
		if strings.Contains(normalized, key) {
			return section
		}
	}
	return ""
}

// AssignSections is Standardizer's bottom-up section-assignment pass
// (§4.10): walk rows in document order, maintaining a stack keyed by
// indent level; a total row pops every row pushed since the prior
// total at the same or deeper level and assigns them the section
// inferred from the total's own label. Rows that already carry a
// Section are never overwritten.
func AssignSections(rows []StatementRow) {
	type pending struct {
		index int
		level int
	}
	var stack []pending

	for i := range rows {
		row := &rows[i]
		if row.IsTotal {
			section := sectionForTotalLabel(row.StatementType, row.Label)
			var kept []pending
			for _, p := range stack {
				if p.level >= row.Level {
					if section != "" && rows[p.index].Section == "" {
						rows[p.index].Section = section
					}
				} else {
					kept = append(kept, p)
				}
			}
			stack = kept
			if section != "" && row.Section == "" {
				row.Section = section
			}
			continue
		}
		stack = append(stack, pending{index: i, level: row.Level})
	}
}

// StandardizeStatement enriches rows with StandardConcept and
// DisplayName via mapper, after first running AssignSections to fill
// in any missing section context. It preserves every input row's
// Label byte-for-byte and never removes a row (§6).
func StandardizeStatement(rows []StatementRow, mapper *ConceptMapper) []StatementRow {
	out := make([]StatementRow, len(rows))
	copy(out, rows)
	AssignSections(out)

	for i := range out {
		row := &out[i]
		if row.Concept == "" || row.Label == "" {
			continue
		}
		ctx := &MappingContext{
			StatementType: row.StatementType,
			Section:       row.Section,
			IsTotal:       row.IsTotal || strings.Contains(strings.ToLower(row.Label), "total"),
		}
		concept, ok := mapper.MapConcept(row.Concept, row.Label, ctx)
		if !ok {
			continue
		}
		row.StandardConcept = concept
		row.DisplayName = mapper.reverseIndex.ConceptToDisplayName(concept)
	}
	return out
}
