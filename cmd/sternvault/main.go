// sternvault reads a filing from a local path or stdin, parses it, and
// prints either the extracted document structure or its standardized
// facts. Adapted from the teacher's cmd/server: the net/http routing,
// go:embed templates, and organization search are dropped (rendering
// frontends are out of scope), but the currency/count formatting
// helpers survive as internal/render, used by the human-readable
// output mode below.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/saranrapjs/sternvault/internal/facts"
	"github.com/saranrapjs/sternvault/internal/render"
	"github.com/saranrapjs/sternvault/internal/store"
	"github.com/saranrapjs/sternvault/pkg/htmldoc"
	"github.com/saranrapjs/sternvault/pkg/irsform"
	"github.com/saranrapjs/sternvault/pkg/standardize"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "standardize":
		err = runStandardize(os.Args[2:])
	case "export-unmapped":
		err = runExportUnmapped(os.Args[2:])
	case "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "sternvault: unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sternvault: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: sternvault <command> [flags]

Commands:
  parse              extract text, sections, tables, and iXBRL facts from a filing
  standardize        map a filing's facts onto the standard concept vocabulary
  export-unmapped    parse a batch of filings and export concepts the mapper couldn't resolve

Run "sternvault <command> -h" for flag details.
`)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// runParse drives htmldoc.ParseHTML over one filing and prints its
// document structure, mirroring the teacher's handleFilings view but
// to stdout instead of an HTML template.
func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	form := fs.String("form", "", "form type hint (10-K, 10-Q, ...), passed through to ParserConfig")
	accuracy := fs.Bool("accuracy", false, "use ForAccuracy preset instead of DefaultConfig")
	asJSON := fs.Bool("json", false, "print the extracted facts as JSON instead of a text summary")
	fs.Parse(args)

	raw, err := readInput(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	cfg := htmldoc.DefaultConfig()
	if *accuracy {
		cfg = htmldoc.ForAccuracy()
	}
	cfg.Form = *form

	doc, err := htmldoc.ParseHTML(raw, cfg)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	f, err := facts.FromDocuments("", "", "", "", []*htmldoc.Document{doc})
	if err != nil {
		return fmt.Errorf("extracting facts: %w", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}

	fmt.Printf("document %s (%d bytes, form=%q)\n", doc.ID, doc.SizeBytes, doc.Form)
	fmt.Printf("headings: %d  tables: %d  xbrl facts: %d\n", len(doc.Headings()), len(doc.Tables()), factCount(doc))
	for _, s := range doc.Sections(cfg) {
		fmt.Printf("section %-30s confidence=%.2f method=%s\n", s.Title, s.Confidence, s.DetectionMethod)
	}
	if f.EmployeesCount > 0 {
		fmt.Printf("employees: %s\n", render.Count(f.EmployeesCount))
	}
	if f.CEOPayRatio != nil {
		fmt.Printf("CEO pay ratio: CEO %s vs median %s\n", render.Currency(f.CEOPayRatio.CEO), render.Currency(f.CEOPayRatio.Median))
	}
	for _, table := range f.ExecCompensationTables {
		fmt.Println(table)
	}
	return nil
}

func factCount(doc *htmldoc.Document) int {
	if doc.XBRL == nil {
		return 0
	}
	return len(doc.XBRL.Facts)
}

// runStandardize extracts facts (from HTML/iXBRL or an IRS Form 990
// return, selected by -irs) and maps them onto the standard concept
// vocabulary, optionally loading company overrides previously saved in
// internal/store (-db).
func runStandardize(args []string) error {
	fs := flag.NewFlagSet("standardize", flag.ExitOnError)
	cik := fs.String("cik", "", "filer CIK, used for the entity-detection boost and company-override persistence")
	ticker := fs.String("ticker", "", "filer ticker symbol")
	statementType := fs.String("statement", "IncomeStatement", "statement type: BalanceSheet, IncomeStatement, or CashFlowStatement")
	irsInput := fs.Bool("irs", false, "treat the input as an IRS Form 990 family XML return instead of EDGAR HTML")
	dbPath := fs.String("db", "", "optional sqlite path to load persisted company overrides from")
	asJSON := fs.Bool("json", false, "print standardized rows as JSON instead of a table")
	fs.Parse(args)

	raw, err := readInput(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var f *facts.Facts
	if *irsInput {
		returnDoc, err := irsform.Parse(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("parsing IRS return: %w", err)
		}
		f, err = facts.FromIRS(returnDoc)
		if err != nil {
			return fmt.Errorf("extracting IRS facts: %w", err)
		}
	} else {
		doc, err := htmldoc.ParseHTML(raw, htmldoc.DefaultConfig())
		if err != nil {
			return fmt.Errorf("parsing document: %w", err)
		}
		f, err = facts.FromDocuments(*cik, *ticker, "", *statementType, []*htmldoc.Document{doc})
		if err != nil {
			return fmt.Errorf("extracting facts: %w", err)
		}
	}

	logger := standardize.DefaultUnmappedTagLogger()
	reverseIndex := standardize.NewReverseIndex(logger)
	mapper := standardize.NewConceptMapper(reverseIndex, logger)

	var db *store.Store
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()
		if overrides, ok, err := db.LoadCompanyOverrides(*cik); err == nil && ok {
			mapper.LoadCompanyOverrides(*cik, *ticker, overrides)
		}
	}

	rows := standardize.StandardizeStatement(f.Rows, mapper)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, row := range rows {
		concept := row.StandardConcept
		if concept == "" {
			concept = "(unmapped)"
		}
		fmt.Printf("%-50s %-10s -> %s\n", row.Label, row.StatementType, concept)
	}
	return nil
}

// runExportUnmapped parses each filing given on the command line and
// writes UnmappedTagLogger's accumulated CSV output, mirroring
// SaveToCSV's two-file (unmapped + ambiguous) output.
func runExportUnmapped(args []string) error {
	fs := flag.NewFlagSet("export-unmapped", flag.ExitOnError)
	statementType := fs.String("statement", "IncomeStatement", "statement type to assume for every input filing")
	outDir := fs.String("out", ".", "output directory for unmapped_tags.csv and ambiguous_resolutions.csv")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("export-unmapped requires at least one filing path")
	}

	logger := standardize.DefaultUnmappedTagLogger()
	reverseIndex := standardize.NewReverseIndex(logger)
	mapper := standardize.NewConceptMapper(reverseIndex, logger)

	for _, path := range fs.Args() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, err := htmldoc.ParseHTML(raw, htmldoc.DefaultConfig())
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		f, err := facts.FromDocuments("", "", "", *statementType, []*htmldoc.Document{doc})
		if err != nil {
			return fmt.Errorf("extracting facts from %s: %w", path, err)
		}
		standardize.StandardizeStatement(f.Rows, mapper)
	}

	unmapped, ambiguous, err := logger.SaveToCSV(*outDir)
	if err != nil {
		return fmt.Errorf("writing CSV export: %w", err)
	}
	fmt.Printf("exported %d unmapped and %d ambiguous concepts to %s\n", unmapped, ambiguous, *outDir)
	return nil
}
