// Package render holds the plain-text formatting helpers the CLI's
// human-readable output mode uses, adapted from the teacher's
// cmd/server/main.go template.FuncMap (formatCurrency, formatCount,
// ratio) now that there's no html/template to register them against.
package render

import (
	"fmt"

	"golang.org/x/text/message"

	"github.com/saranrapjs/sternvault/pkg/htmldoc"
)

var printer = message.NewPrinter(message.MatchLanguage("en"))

// Currency formats a value as a grouped, whole-dollar amount
// ("$1,234,567"), accepting either an int or a float64 the way the
// teacher's template func did for template.FuncMap's untyped args.
func Currency(val interface{}) string {
	switch v := val.(type) {
	case float64:
		return printer.Sprintf("$%.0f", v)
	case int:
		return printer.Sprintf("$%d", v)
	default:
		return fmt.Sprintf("$%v", v)
	}
}

// Count formats a plain grouped integer count ("1,234,567").
func Count(val interface{}) string {
	switch v := val.(type) {
	case float64:
		return printer.Sprintf("%.0f", v)
	case int:
		return printer.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Ratio formats a/b as a whole-number percentage string.
func Ratio(a, b float64) string {
	if b == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", (a/b)*100)
}

// XBRLFact formats a parsed fact's scaled numeric value as currency,
// mirroring the teacher's formatNonFraction template func.
func XBRLFact(f htmldoc.XBRLFact) string {
	return Currency(f.ScaledNumber())
}

// PerEmployee formats a fact's scaled value alongside its per-employee
// breakdown, mirroring formatNonFractionPerEmployee — the CLI's plain
// text output has no <span> styling to carry the aside in, so it's
// rendered as a parenthetical instead of embedded HTML.
func PerEmployee(f htmldoc.XBRLFact, employeeCount int) string {
	val := f.ScaledNumber()
	formatted := Currency(val)
	if employeeCount <= 0 {
		return formatted
	}
	perEmployee := Currency(val / float64(employeeCount))
	return fmt.Sprintf("%s (%s/employee)", formatted, perEmployee)
}
