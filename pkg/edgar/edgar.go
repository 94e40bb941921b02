// Package edgar provides the ticker/CIK lookup table used as an
// entity-detection boost by pkg/standardize's ConceptMapper. Fetching
// filings over HTTP (the teacher's api.go, and the Filing/Filings/
// Submissions JSON shapes that API returned) is out of scope; this
// package now only answers "what CIK is this ticker" and back.
package edgar

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

//go:embed tickers.json
var tickersJSON []byte

type TickerData struct {
	CIKStr int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

var TickersData map[string]TickerData

func init() {
	if err := json.Unmarshal(tickersJSON, &TickersData); err != nil {
		panic(fmt.Sprintf("failed to parse tickers data: %v", err))
	}
}

// Ticker2CIK returns the CIK string for a given ticker symbol.
func Ticker2CIK(ticker string) (string, error) {
	for _, data := range TickersData {
		if data.Ticker == ticker {
			return strconv.Itoa(data.CIKStr), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found", ticker)
}

// CIK2Ticker returns the ticker symbol for a given CIK string.
func CIK2Ticker(cik string) (string, error) {
	for _, data := range TickersData {
		cikStr := strconv.Itoa(data.CIKStr)
		if cik == cikStr {
			return data.Ticker, nil
		}
	}
	return "", fmt.Errorf("ticker %v not found", cik)
}

// Ticker2CompanyName returns the company title for a given ticker symbol.
func Ticker2CompanyName(ticker string) (string, error) {
	for _, data := range TickersData {
		if data.Ticker == ticker {
			return data.Title, nil
		}
	}
	return "", fmt.Errorf("ticker %s not found", ticker)
}

// KnownCompanyName reports whether name matches the SEC title on file for
// cik, ignoring case.
func KnownCompanyName(cik, name string) bool {
	title, err := cikToTitle(cik)
	if err != nil {
		return false
	}
	return strings.EqualFold(title, name)
}

func cikToTitle(cik string) (string, error) {
	for _, data := range TickersData {
		if strconv.Itoa(data.CIKStr) == cik {
			return data.Title, nil
		}
	}
	return "", fmt.Errorf("cik %v not found", cik)
}
