package standardize

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UnmappedTagEntry records one XBRL tag that ConceptMapper could not
// map at all (§4.11).
type UnmappedTagEntry struct {
	Concept            string
	Label              string
	CIK                string
	CompanyName        string
	StatementType      string
	Section            string
	CalculationParent  string
	SuggestedMapping   string
	Confidence         float64
	Notes              string
	Timestamp          time.Time
}

// AmbiguousResolutionEntry records one ambiguous tag's resolution
// (§4.11).
type AmbiguousResolutionEntry struct {
	Concept           string
	Label             string
	Candidates        []string
	ResolvedTo        string
	ResolutionMethod  string
	CIK               string
	CompanyName       string
	StatementType     string
	Section           string
	Confidence        float64
	Notes             string
	Timestamp         time.Time
}

// UnmappedTagLogger is the thread-safe append-only accumulator §4.11
// and §5 describe: two partitions (unmapped, ambiguous-resolved), each
// deduplicated on its own key, each exportable as Excel-friendly CSV.
// Grounded in unmapped_logger.py's UnmappedTagLogger.
type UnmappedTagLogger struct {
	mu               sync.Mutex
	unmapped         []UnmappedTagEntry
	ambiguous        []AmbiguousResolutionEntry
	seenUnmapped     map[string]bool
	seenAmbiguous    map[string]bool
	autoSuggest      bool
	exportLimiter    *rate.Limiter
	now              func() time.Time
}

// NewUnmappedTagLogger constructs a logger. When autoSuggest is true,
// log_unmapped infers a suggested mapping via keyword heuristics
// (§4.11). The CSV-export path is throttled with a token-bucket
// limiter (one export per 200ms, burst 1) so a service hot-reloading
// mapping files and re-exporting on every reload can't thrash the
// filesystem — repurposing golang.org/x/time/rate, which has no HTTP
// fetcher left to wrap once the teacher's api.go was dropped (§2.2).
func NewUnmappedTagLogger(autoSuggest bool) *UnmappedTagLogger {
	return &UnmappedTagLogger{
		seenUnmapped:  make(map[string]bool),
		seenAmbiguous: make(map[string]bool),
		autoSuggest:   autoSuggest,
		exportLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		now:           time.Now,
	}
}

var (
	defaultLogger     *UnmappedTagLogger
	defaultLoggerOnce sync.Once
)

// DefaultUnmappedTagLogger returns the process-wide singleton (§5).
func DefaultUnmappedTagLogger() *UnmappedTagLogger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewUnmappedTagLogger(true)
	})
	return defaultLogger
}

// LogUnmapped records concept as unmapped, deduplicated by
// (concept, statement_type). A no-op if that key was already logged.
func (l *UnmappedTagLogger) LogUnmapped(entry UnmappedTagEntry) {
	key := entry.Concept + ":" + entry.StatementType
	l.mu.Lock()
	if l.seenUnmapped[key] {
		l.mu.Unlock()
		return
	}
	l.seenUnmapped[key] = true
	l.mu.Unlock()

	if l.autoSuggest && entry.SuggestedMapping == "" {
		entry.SuggestedMapping, entry.Confidence = suggestMapping(entry.Label, entry.StatementType)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	l.mu.Lock()
	l.unmapped = append(l.unmapped, entry)
	l.mu.Unlock()
}

// LogAmbiguous records an ambiguous tag's resolution, deduplicated by
// (concept, section, resolved_to).
func (l *UnmappedTagLogger) LogAmbiguous(entry AmbiguousResolutionEntry) {
	key := entry.Concept + ":" + entry.Section + ":" + entry.ResolvedTo
	l.mu.Lock()
	if l.seenAmbiguous[key] {
		l.mu.Unlock()
		return
	}
	l.seenAmbiguous[key] = true
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	l.ambiguous = append(l.ambiguous, entry)
	l.mu.Unlock()
}

// suggestionRule is one (label substring, statement type) -> (concept,
// confidence) entry. Order matters: the first matching rule wins,
// exactly as the Python dict's iteration order did.
type suggestionRule struct {
	pattern       string
	statementType string
	concept       string
	confidence    float64
}

// suggestionTable is transcribed verbatim from unmapped_logger.py's
// _suggest_mapping, preserving its insertion order.
var suggestionTable = []suggestionRule{
	{"revenue", "IncomeStatement", "Revenue", 0.85},
	{"sales", "IncomeStatement", "Revenue", 0.75},
	{"net sales", "IncomeStatement", "Revenue", 0.80},
	{"cost of", "IncomeStatement", "Cost of Revenue", 0.70},
	{"research", "IncomeStatement", "Research and Development Expense", 0.75},
	{"selling", "IncomeStatement", "Selling, General and Administrative Expense", 0.70},
	{"cash", "BalanceSheet", "Cash and Cash Equivalents", 0.75},
	{"receivable", "BalanceSheet", "Accounts Receivable", 0.70},
	{"inventory", "BalanceSheet", "Inventory", 0.85},
	{"property", "BalanceSheet", "Property, Plant and Equipment", 0.70},
	{"goodwill", "BalanceSheet", "Goodwill", 0.90},
	{"intangible", "BalanceSheet", "Intangible Assets", 0.80},
	{"payable", "BalanceSheet", "Accounts Payable", 0.70},
	{"debt", "BalanceSheet", "Long-Term Debt", 0.65},
	{"deferred", "BalanceSheet", "Deferred Revenue", 0.50},
	{"equity", "BalanceSheet", "Total Stockholders' Equity", 0.60},
	{"retained", "BalanceSheet", "Retained Earnings", 0.65},
}

func suggestMapping(label, statementType string) (string, float64) {
	labelLower := strings.ToLower(label)
	for _, rule := range suggestionTable {
		if !strings.Contains(labelLower, rule.pattern) {
			continue
		}
		if rule.statementType == "" || statementType == rule.statementType {
			return rule.concept, rule.confidence
		}
	}
	return "", 0.0
}

var unmappedCSVFields = []string{
	"concept", "label", "suggested_mapping", "confidence",
	"cik", "company_name", "statement_type", "section",
	"calculation_parent", "notes", "timestamp",
}

var ambiguousCSVFields = []string{
	"concept", "label", "candidates", "resolved_to", "resolution_method",
	"confidence", "cik", "company_name", "statement_type", "section",
	"notes", "timestamp",
}

// SaveUnmappedCSV writes the unmapped partition to outputPath in the
// column order unmapped_logger.py's save_unmapped_csv uses, and
// returns the entry count written.
func (l *UnmappedTagLogger) SaveUnmappedCSV(outputPath string) (int, error) {
	_ = l.exportLimiter.Wait(context.Background())
	l.mu.Lock()
	entries := append([]UnmappedTagEntry(nil), l.unmapped...)
	l.mu.Unlock()
	if len(entries) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(unmappedCSVFields); err != nil {
		return 0, err
	}
	for _, e := range entries {
		confidence := ""
		if e.Confidence != 0 {
			confidence = fmt.Sprintf("%.2f", e.Confidence)
		}
		row := []string{
			e.Concept, e.Label, e.SuggestedMapping, confidence,
			e.CIK, e.CompanyName, e.StatementType, e.Section,
			e.CalculationParent, e.Notes, e.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return 0, err
		}
	}
	return len(entries), w.Error()
}

// SaveAmbiguousCSV writes the ambiguous-resolution partition to
// outputPath, candidates pipe-separated to stay Excel-friendly inside
// a single cell.
func (l *UnmappedTagLogger) SaveAmbiguousCSV(outputPath string) (int, error) {
	_ = l.exportLimiter.Wait(context.Background())
	l.mu.Lock()
	entries := append([]AmbiguousResolutionEntry(nil), l.ambiguous...)
	l.mu.Unlock()
	if len(entries) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(ambiguousCSVFields); err != nil {
		return 0, err
	}
	for _, e := range entries {
		row := []string{
			e.Concept, e.Label, strings.Join(e.Candidates, "|"), e.ResolvedTo, e.ResolutionMethod,
			fmt.Sprintf("%.2f", e.Confidence), e.CIK, e.CompanyName, e.StatementType, e.Section,
			e.Notes, e.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return 0, err
		}
	}
	return len(entries), w.Error()
}

// SaveToCSV writes both partitions under outputDir as unmapped_tags.csv
// and ambiguous_resolutions.csv.
func (l *UnmappedTagLogger) SaveToCSV(outputDir string) (unmappedCount, ambiguousCount int, err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, 0, err
	}
	unmappedCount, err = l.SaveUnmappedCSV(filepath.Join(outputDir, "unmapped_tags.csv"))
	if err != nil {
		return unmappedCount, 0, err
	}
	ambiguousCount, err = l.SaveAmbiguousCSV(filepath.Join(outputDir, "ambiguous_resolutions.csv"))
	return unmappedCount, ambiguousCount, err
}

// Clear empties both partitions and their dedup sets.
func (l *UnmappedTagLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unmapped = nil
	l.ambiguous = nil
	l.seenUnmapped = make(map[string]bool)
	l.seenAmbiguous = make(map[string]bool)
}

// UnmappedCount returns the number of unmapped entries logged.
func (l *UnmappedTagLogger) UnmappedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.unmapped)
}

// AmbiguousCount returns the number of ambiguous-resolution entries logged.
func (l *UnmappedTagLogger) AmbiguousCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ambiguous)
}

// GetUnmappedByStatement groups the unmapped partition by statement
// type ("Unknown" when unset).
func (l *UnmappedTagLogger) GetUnmappedByStatement() map[string][]UnmappedTagEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]UnmappedTagEntry)
	for _, e := range l.unmapped {
		stmt := e.StatementType
		if stmt == "" {
			stmt = "Unknown"
		}
		out[stmt] = append(out[stmt], e)
	}
	return out
}

// GetHighConfidenceSuggestions returns unmapped entries whose
// suggested mapping confidence is at least minConfidence.
func (l *UnmappedTagLogger) GetHighConfidenceSuggestions(minConfidence float64) []UnmappedTagEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []UnmappedTagEntry
	for _, e := range l.unmapped {
		if e.SuggestedMapping != "" && e.Confidence >= minConfidence {
			out = append(out, e)
		}
	}
	return out
}
