// Package irs990 adapts the teacher's IRS Form 990 fetch client into a
// local-file-only index reader. The network fetch (index CSV download,
// ZIP-over-HTTP XML retrieval) is out of scope per the same "HTTP fetcher"
// Non-goal spec.md applies to pkg/edgar/api.go; callers supply the index CSV
// and the extracted return XML themselves.
package irs990

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/saranrapjs/sternvault/pkg/irsform"
)

// NonProfit is one row of the IRS e-file index for a given tax year.
type NonProfit struct {
	Name       string
	EIN        string
	ReturnID   string
	BatchID    string
	ObjectID   string
	ReturnType string
}

// Index is a loaded IRS e-file index for one tax year.
type Index struct {
	Year       string
	NonProfits []NonProfit
}

// LoadIndexFile parses a previously-downloaded IRS e-file index CSV from
// disk. The CSV format matches the one published at
// https://apps.irs.gov/pub/epostcard/990/xml/<year>/index_<year>.csv;
// downloading it is the caller's responsibility.
func LoadIndexFile(path, year string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	nonprofits, err := parseRecords(records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}

	return &Index{Year: year, NonProfits: nonprofits}, nil
}

func parseRecords(records [][]string) ([]NonProfit, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records found")
	}

	header := records[0]
	nameCol, einCol, returnIDCol, batchIDCol, objectIDCol, returnTypeCol := -1, -1, -1, -1, -1, -1
	for i, col := range header {
		switch col {
		case "TAXPAYER_NAME":
			nameCol = i
		case "EIN":
			einCol = i
		case "RETURN_ID":
			returnIDCol = i
		case "XML_BATCH_ID":
			batchIDCol = i
		case "OBJECT_ID":
			objectIDCol = i
		case "RETURN_TYPE":
			returnTypeCol = i
		}
	}
	if nameCol == -1 || einCol == -1 || returnIDCol == -1 || batchIDCol == -1 || objectIDCol == -1 || returnTypeCol == -1 {
		return nil, fmt.Errorf("required columns not found in CSV")
	}

	nonprofits := make([]NonProfit, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) > nameCol && len(record) > einCol && len(record) > returnIDCol && len(record) > batchIDCol && len(record) > objectIDCol {
			nonprofits = append(nonprofits, NonProfit{
				Name:       record[nameCol],
				EIN:        record[einCol],
				ReturnID:   record[returnIDCol],
				BatchID:    record[batchIDCol],
				ObjectID:   record[objectIDCol],
				ReturnType: record[returnTypeCol],
			})
		}
	}
	return nonprofits, nil
}

// Find looks up a nonprofit by EIN among supported return types.
func (idx *Index) Find(ein string) (*NonProfit, bool) {
	for i := range idx.NonProfits {
		np := idx.NonProfits[i]
		if strings.EqualFold(np.EIN, ein) && irsform.IsSupportedReturnType(np.ReturnType) {
			return &np, true
		}
	}
	return nil, false
}

// LoadReturnFile parses a previously-extracted Form 990 return XML file
// from disk (the file an operator pulled out of the IRS's per-batch ZIP).
func LoadReturnFile(path string) (*irsform.Return, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open return file: %w", err)
	}
	defer file.Close()

	returnData, err := irsform.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse return XML: %w", err)
	}
	return returnData, nil
}
