package facts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saranrapjs/sternvault/pkg/htmldoc"
	"github.com/saranrapjs/sternvault/pkg/irsform"
)

const fixtureHTML = `<html><body>
<div style="display:none;"><ix:hidden>
	<xbrli:context id="c-1">
		<xbrli:period>
			<xbrli:startDate>2023-01-01</xbrli:startDate>
			<xbrli:endDate>2023-12-31</xbrli:endDate>
		</xbrli:period>
	</xbrli:context>
</ix:hidden></div>
<p>Net income of $<ix:nonFraction unitRef="usd" contextRef="c-1" decimals="-3" name="us-gaap:NetIncomeLoss" format="ixt:num-dot-decimal" scale="3" id="f-1">94,680</ix:nonFraction> for the year.</p>
<p>As of December 31, 2023 the company had 161,000 employees worldwide.</p>
<p>CEO Pay Ratio: the median employee's annual total compensation was $59,296, and our CEO's annual total compensation was $27,524,258, resulting in a ratio of 464 to 1.</p>
</body></html>`

func parseFixture(t *testing.T) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseHTML([]byte(fixtureHTML), htmldoc.DefaultConfig())
	require.NoError(t, err)
	return doc
}

func TestFromDocumentsExtractsXBRLFacts(t *testing.T) {
	doc := parseFixture(t)
	f, err := FromDocuments("0000320193", "AAPL", "Apple Inc.", "IncomeStatement", []*htmldoc.Document{doc})
	require.NoError(t, err)

	require.Len(t, f.NetIncomeLoss, 1)
	assert.Equal(t, "94,680", f.NetIncomeLoss[0].Value)
	assert.Equal(t, float64(94680000), f.NetIncomeLoss[0].ScaledNumber())
	assert.Equal(t, "0000320193", f.CIK)
	assert.Equal(t, "AAPL", f.Ticker)
	assert.NotEmpty(t, f.Rows)
}

func TestFromDocumentsExtractsEmployeeCount(t *testing.T) {
	doc := parseFixture(t)
	f, err := FromDocuments("cik", "", "", "IncomeStatement", []*htmldoc.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 161000, f.EmployeesCount)
}

func TestFromDocumentsExtractsCEOPayRatio(t *testing.T) {
	doc := parseFixture(t)
	f, err := FromDocuments("cik", "", "", "IncomeStatement", []*htmldoc.Document{doc})
	require.NoError(t, err)
	require.NotNil(t, f.CEOPayRatio)
	assert.Equal(t, 27524258.0, f.CEOPayRatio.CEO)
	assert.Equal(t, 59296.0, f.CEOPayRatio.Median)
}

func TestHumanizeConcept(t *testing.T) {
	assert.Equal(t, "Net Income Loss", humanizeConcept("us-gaap:NetIncomeLoss"))
	assert.Equal(t, "Cash And Cash Equivalents At Carrying Value", humanizeConcept("us-gaap:CashAndCashEquivalentsAtCarryingValue"))
}

func TestFromIRS990(t *testing.T) {
	ret := &irsform.Return{
		ReturnHeader: irsform.ReturnHeader{
			TaxPeriodBeginDt: "2023-01-01",
			TaxPeriodEndDt:   "2023-12-31",
			Filer: irsform.Filer{
				BusinessName: irsform.BusinessNameType{BusinessNameLine1Txt: "Example Foundation"},
			},
		},
		ReturnData: &irsform.ReturnData990{
			IRS990: &irsform.IRS990{
				IRS990Type: &irsform.IRS990Type{
					TotalEmployeeCnt:              42,
					CYTotalRevenueAmt:              1000000,
					CYTotalExpensesAmt:              600000,
					CYSalariesCompEmpBnftPaidAmt:   200000,
					PYSalariesCompEmpBnftPaidAmt:   180000,
					NetAssetsOrFundBalancesEOYAmt:  5000000,
					Form990PartVIISectionAGrp: []*irsform.Form990PartVIISectionAGrp{
						{PersonNm: "Jane Doe", TitleTxt: "Executive Director", ReportableCompFromOrgAmt: 150000, OtherCompensationAmt: 10000},
					},
				},
			},
		},
	}

	f, err := FromIRS(ret)
	require.NoError(t, err)
	assert.Equal(t, "Example Foundation", f.CompanyName)
	assert.Equal(t, 42, f.EmployeesCount)
	require.Len(t, f.NetIncomeLoss, 1)
	assert.Equal(t, "400000", f.NetIncomeLoss[0].Value)
	require.NotNil(t, f.NetAssets)
	assert.Equal(t, "5000000", f.NetAssets.Value)
	require.Len(t, f.ExecCompensationTables, 1)
	assert.True(t, strings.Contains(f.ExecCompensationTables[0], "Jane Doe"))
	assert.True(t, strings.Contains(f.ExecCompensationTables[0], "$160,000"))
	require.Len(t, f.WorkerPay, 2)
}

func TestFromIRSNilReturn(t *testing.T) {
	_, err := FromIRS(nil)
	assert.ErrorIs(t, err, errNilReturn)
}

func TestFromIRSMissingIRS990(t *testing.T) {
	ret := &irsform.Return{ReturnData: &irsform.ReturnData990{}}
	_, err := FromIRS(ret)
	assert.ErrorIs(t, err, errMissingIRS990)
}
