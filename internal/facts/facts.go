// Package facts is the thin façade generalized from the teacher's pkg/facts
// dashboard-metrics assembler: it walks a parsed htmldoc.Document's XBRL
// fact store (or an IRS Form 990 return) into the StatementRow shape
// pkg/standardize consumes, and keeps a handful of domain-specific
// worked-example extractors (CEO pay ratio, employee headcount,
// executive-compensation tables) that exercise the same Document surface
// a caller would build any other fact extractor on top of.
package facts

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/saranrapjs/sternvault/internal/render"
	"github.com/saranrapjs/sternvault/pkg/htmldoc"
	"github.com/saranrapjs/sternvault/pkg/irsform"
	"github.com/saranrapjs/sternvault/pkg/standardize"
)

var (
	errNilReturn             = errors.New("invalid return data: nil return document")
	errMissingIRS990         = errors.New("invalid return data: missing IRS990")
	errMissingIRS990EZ       = errors.New("invalid return data: missing IRS990EZ")
	errMissingIRS990PF       = errors.New("invalid return data: missing IRS990PF")
	errUnsupportedReturnType = errors.New("unsupported return type")
)

// Facts is the transformed data extracted from one or more parsed
// filings (EDGAR HTML/iXBRL or an IRS Form 990 return).
type Facts struct {
	CIK         string `json:"cik"`
	EIN         string `json:"ein,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
	CompanyName string `json:"company_name"`

	// Rows is the flat, unordered concept/label set Standardizer
	// consumes. iXBRL facts alone carry no presentation-linkbase
	// order, so Level/IsTotal/Section are left at their zero values;
	// a caller that also parses the statement's HTML table can set
	// them before calling standardize.StandardizeStatement.
	Rows []standardize.StatementRow

	NetIncomeLoss []htmldoc.XBRLFact `json:"net_income_loss,omitempty"`
	Buybacks      []htmldoc.XBRLFact `json:"buybacks,omitempty"`
	Cash          []htmldoc.XBRLFact `json:"cash,omitempty"`
	NetAssets     *htmldoc.XBRLFact  `json:"net_assets,omitempty"`
	WorkerPay     []htmldoc.XBRLFact `json:"worker_pay,omitempty"`

	CEOPayRatio            *CEOPayRatio `json:"ceo_pay_ratio,omitempty"`
	EmployeesCount          int         `json:"employees_count"`
	ExecCompensationTables []string     `json:"exec_compensation_tables,omitempty"`
}

// FromDocuments walks one or more already-parsed filings and extracts
// Facts, mirroring the teacher's FromEdgar loop over multiple filing
// documents for the same filer.
func FromDocuments(cik, ticker, companyName, statementType string, docs []*htmldoc.Document) (*Facts, error) {
	facts := &Facts{CIK: cik, Ticker: ticker, CompanyName: companyName}

	for _, doc := range docs {
		if doc.XBRL != nil {
			for _, f := range doc.XBRL.Facts {
				switch localName(f.Concept) {
				case "StockRepurchasedDuringPeriodValue":
					facts.Buybacks = append(facts.Buybacks, f)
				case "NetIncomeLoss":
					facts.NetIncomeLoss = append(facts.NetIncomeLoss, f)
				case "CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents", "CashAndCashEquivalentsAtCarryingValue":
					facts.Cash = append(facts.Cash, f)
				}
				facts.Rows = append(facts.Rows, standardize.StatementRow{
					Concept:       f.Concept,
					Label:         humanizeConcept(f.Concept),
					StatementType: statementType,
				})
			}
		}

		if facts.CEOPayRatio == nil {
			facts.CEOPayRatio = extractCEOPayRatio(doc)
		}
		if facts.EmployeesCount == 0 {
			facts.EmployeesCount = extractEmployeeCount(doc)
		}
		facts.ExecCompensationTables = append(facts.ExecCompensationTables, extractExecCompTables(doc)...)
	}

	sortXBRLFactsByDate(facts.NetIncomeLoss)
	sortXBRLFactsByDate(facts.Buybacks)
	sortXBRLFactsByDate(facts.Cash)

	return facts, nil
}

// localName strips an XBRL namespace prefix ("us-gaap:" / "us-gaap_")
// so switch statements over a fact's Concept don't need to repeat the
// prefix for every taxonomy revision.
func localName(tag string) string {
	if i := strings.LastIndexAny(tag, ":_"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// humanizeConcept turns a CamelCase XBRL tag's local name into a
// spaced, human-facing label when no linkbase label is available —
// iXBRL facts alone don't carry the presentation label, only the tag.
func humanizeConcept(tag string) string {
	name := localName(tag)
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			prev := rune(name[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

var employeeCountPattern = regexp.MustCompile(`([\d]{1}[\d,]{1,})[^.,%]*employees`)

// extractEmployeeCount looks for a sentence mentioning "December" (the
// usual fiscal-year-end headcount disclosure) and a nearby number
// followed by "employees", rejecting 4-digit numbers that look like a
// year rather than a headcount.
func extractEmployeeCount(doc *htmldoc.Document) int {
	for _, t := range textLeaves(doc) {
		lowered := strings.ToLower(t)
		if !strings.Contains(lowered, "december") {
			continue
		}
		match := employeeCountPattern.FindStringSubmatch(t)
		if match == nil {
			continue
		}
		group := match[1]
		if strings.HasPrefix(group, "20") && len(group) == 4 {
			continue
		}
		if n := onlyNumber(group); n != 0 {
			return n
		}
	}
	return 0
}

// extractCEOPayRatio scans the document's text leaves in order for a
// "CEO pay ratio" mention, then reads forward across the following
// leaves (mirroring the teacher's FindNextLeafNodes) until it has
// enough text to contain both a dollar figure and "median".
func extractCEOPayRatio(doc *htmldoc.Document) *CEOPayRatio {
	leaves := textLeaves(doc)
	for i, t := range leaves {
		if !strings.Contains(strings.ToLower(t), "ceo pay ratio") {
			continue
		}
		window := strings.Join(leaves[i:], " ")
		if len(window) > 700 {
			window = window[:700]
		}
		lowered := strings.ToLower(window)
		if strings.Contains(window, "$") && strings.Contains(lowered, "median") {
			ratio := parseCEOPayRatio(window)
			if ratio.Text != "" {
				return &ratio
			}
		}
	}
	return nil
}

// extractExecCompTables finds tables that look like Summary
// Compensation Table disclosures and renders each as a plain-text
// grid (the CLI's non-JSON output mode, §11.4).
func extractExecCompTables(doc *htmldoc.Document) []string {
	var out []string
	for _, tbl := range doc.Tables() {
		matrix, ok := tbl.Matrix().(interface{ Rows() [][]string })
		if !ok {
			continue
		}
		rows := matrix.Rows()
		flat := strings.Join(flattenRows(rows), " ")
		if strings.Contains(flat, "Name") && strings.Contains(flat, "$") && strings.Contains(flat, "Salary") {
			renderer, ok := tbl.Matrix().(interface{ Render() string })
			if ok {
				out = append(out, renderer.Render())
			}
		}
	}
	return out
}

func flattenRows(rows [][]string) []string {
	var out []string
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// textLeaves flattens every Text node in document order, giving
// extractEmployeeCount/extractCEOPayRatio a linear scan surface
// equivalent to the teacher's SearchHTML/FindNextLeafNodes pair.
func textLeaves(doc *htmldoc.Document) []string {
	var out []string
	htmldoc.Walk(doc.Root, func(n htmldoc.Node) bool {
		if t, ok := n.(*htmldoc.Text); ok {
			out = append(out, t.Content)
		}
		return true
	})
	return out
}

// CEOPayRatio is the highest and lowest dollar figures found in a
// matched passage, labeled CEO/median per convention (the highest
// figure discussed alongside "CEO pay ratio" is almost always the
// CEO's compensation, the lowest the reported median employee's).
type CEOPayRatio struct {
	Text   string
	CEO    float64
	Median float64
}

var dollarAmountPattern = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)

func parseCEOPayRatio(text string) CEOPayRatio {
	matches := dollarAmountPattern.FindAllString(text, -1)
	if len(matches) < 2 {
		return CEOPayRatio{Text: text}
	}

	var amounts []float64
	for _, m := range matches {
		clean := strings.ReplaceAll(strings.TrimPrefix(m, "$"), ",", "")
		amount, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, amount)
	}
	if len(amounts) < 2 {
		return CEOPayRatio{Text: text}
	}

	ceo, median := amounts[0], amounts[0]
	for _, a := range amounts {
		if a > ceo {
			ceo = a
		}
		if a < median {
			median = a
		}
	}
	return CEOPayRatio{text, ceo, median}
}

const dateLayout = "2006-01-02"

func minusOneYear(date string) (string, string) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", ""
	}
	return t.Add(-365 * 24 * time.Hour).Format(dateLayout), t.Add(-24 * time.Hour).Format(dateLayout)
}

func intFact(concept string, value int, start, end string) htmldoc.XBRLFact {
	return htmldoc.XBRLFact{
		Concept: concept,
		Value:   strconv.Itoa(value),
		Scale:   "0",
		Period:  nil,
	}
}

// FromIRS extracts Facts from a parsed IRS Form 990 family return,
// producing the same XBRLFact-shaped values the EDGAR path does so
// both input families feed the same downstream consumers.
func FromIRS(returnDoc *irsform.Return) (*Facts, error) {
	if returnDoc == nil {
		return nil, errNilReturn
	}

	facts := &Facts{}
	if name := returnDoc.ReturnHeader.Filer.BusinessName.BusinessNameLine1Txt; name != "" {
		facts.CompanyName = name
	}

	periodStart := returnDoc.ReturnHeader.TaxPeriodBeginDt
	periodEnd := returnDoc.ReturnHeader.TaxPeriodEndDt

	switch data := returnDoc.ReturnData.(type) {
	case *irsform.ReturnData990:
		if data.IRS990 == nil {
			return nil, errMissingIRS990
		}
		irs990 := data.IRS990
		facts.EmployeesCount = irs990.TotalEmployeeCnt
		facts.NetIncomeLoss = append(facts.NetIncomeLoss, intFact("NetIncomeLoss", irs990.CYTotalRevenueAmt-irs990.CYTotalExpensesAmt, periodStart, periodEnd))
		netAssets := intFact("NetAssets", irs990.NetAssetsOrFundBalancesEOYAmt, periodStart, periodEnd)
		facts.NetAssets = &netAssets

		if facts.CompanyName == "" && irs990.PrincipalOfcrBusinessName != nil && irs990.PrincipalOfcrBusinessName.BusinessNameLine1Txt != "" {
			facts.CompanyName = irs990.PrincipalOfcrBusinessName.BusinessNameLine1Txt
		}

		if table := irsExecComp(irs990.Form990PartVIISectionAGrp); table != "" {
			facts.ExecCompensationTables = append(facts.ExecCompensationTables, table)
		}

		facts.WorkerPay = append(facts.WorkerPay, intFact("SalariesAndWages", irs990.CYSalariesCompEmpBnftPaidAmt, periodStart, periodEnd))
		prevStart, prevEnd := minusOneYear(periodStart)
		facts.WorkerPay = append(facts.WorkerPay, intFact("SalariesAndWages", irs990.PYSalariesCompEmpBnftPaidAmt, prevStart, prevEnd))

	case *irsform.ReturnData990EZ:
		if data.IRS990EZ == nil {
			return nil, errMissingIRS990EZ
		}
		irs990ez := data.IRS990EZ
		facts.NetIncomeLoss = append(facts.NetIncomeLoss, intFact("NetIncomeLoss", irs990ez.TotalRevenueAmt-irs990ez.TotalExpensesAmt, periodStart, periodEnd))
		netAssets := intFact("NetAssets", irs990ez.NetAssetsOrFundBalancesEOYAmt, periodStart, periodEnd)
		facts.NetAssets = &netAssets

	case *irsform.ReturnData990PF:
		if data.IRS990PF == nil {
			return nil, errMissingIRS990PF
		}
		// Form 990-PF's revenue/expense schedule has a different
		// shape (investment income vs. charitable-activity expense
		// split across several line items) that the EDGAR-side Facts
		// fields don't model yet; only the filer identity above is
		// populated for this return type.

	default:
		return nil, fmt.Errorf("%w: %T", errUnsupportedReturnType, data)
	}

	sortXBRLFactsByDate(facts.NetIncomeLoss)
	sortXBRLFactsByDate(facts.WorkerPay)

	return facts, nil
}

func irsExecComp(execs []*irsform.Form990PartVIISectionAGrp) string {
	if len(execs) == 0 {
		return ""
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "Name\tTitle\tCompensation\n")
	for _, e := range execs {
		total := e.ReportableCompFromOrgAmt + e.OtherCompensationAmt
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.PersonNm, e.TitleTxt, render.Currency(total))
	}
	w.Flush()
	return b.String()
}

// sortXBRLFactsByDate sorts by period end (falling back to instant,
// then start) in reverse chronological order, mirroring the teacher's
// sortNonFractionsByDate.
func sortXBRLFactsByDate(facts []htmldoc.XBRLFact) {
	sort.Slice(facts, func(i, j int) bool {
		return latestDate(facts[i]).After(latestDate(facts[j]))
	})
}

func latestDate(f htmldoc.XBRLFact) time.Time {
	if f.Period == nil {
		return time.Time{}
	}
	dateStr := f.Period.EndDate
	if dateStr == "" {
		dateStr = f.Period.Instant
	}
	if dateStr == "" {
		dateStr = f.Period.StartDate
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}
	}
	return date
}

func onlyNumber(s string) int {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
