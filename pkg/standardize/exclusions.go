package standardize

// excludedTags are XBRL tags ReverseIndex.Lookup refuses to map even
// when present in gaap_mappings.json — cover-page and document
// metadata tags (document type and period, entity name, CIK and share
// count, amendment flag) that never carry a standalone financial value
// worth standardizing.
var excludedTags = map[string]bool{
	"DocumentType":                   true,
	"DocumentPeriodEndDate":          true,
	"DocumentFiscalYearFocus":        true,
	"DocumentFiscalPeriodFocus":      true,
	"EntityRegistrantName":           true,
	"EntityCentralIndexKey":          true,
	"EntityCommonStockSharesOutstanding": true,
	"AmendmentFlag":                  true,
}

// ShouldExclude reports whether tag should be dropped from
// standardization before any lookup is attempted (§4.8 step 1),
// matching the stripped tag against the exclusion set regardless of
// namespace prefix.
func ShouldExclude(tag string) bool {
	stripped := tag
	for _, prefix := range namespacePrefixes {
		if len(tag) > len(prefix) && tag[:len(prefix)] == prefix {
			stripped = tag[len(prefix):]
			break
		}
	}
	return excludedTags[stripped]
}
