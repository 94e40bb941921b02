package irsform

// BusinessNameType is the IRS e-file schema's two-line business name
// group; only line 1 is used anywhere downstream.
type BusinessNameType struct {
	BusinessNameLine1Txt string `xml:"BusinessNameLine1Txt"`
}

// Form990PartVIISectionAGrp is one row of Form 990 Part VII Section A
// (officers, directors, trustees, key employees, and highest
// compensated employees).
type Form990PartVIISectionAGrp struct {
	PersonNm                 string `xml:"PersonNm"`
	TitleTxt                 string `xml:"TitleTxt"`
	ReportableCompFromOrgAmt int    `xml:"ReportableCompFromOrgAmt"`
	OtherCompensationAmt     int    `xml:"OtherCompensationAmt"`
}

// IRS990Type is Form 990's core financial summary (Part I and Part
// VII), the subset of the schema this module extracts facts from.
type IRS990Type struct {
	PrincipalOfficerNm            string                       `xml:"PrincipalOfficerNm"`
	PrincipalOfcrBusinessName     *BusinessNameType            `xml:"PrincipalOfcrBusinessName"`
	TotalEmployeeCnt              int                          `xml:"TotalEmployeeCnt"`
	CYTotalRevenueAmt             int                          `xml:"CYTotalRevenueAmt"`
	CYTotalExpensesAmt            int                          `xml:"CYTotalExpensesAmt"`
	CYSalariesCompEmpBnftPaidAmt  int                          `xml:"CYSalariesCompEmpBnftPaidAmt"`
	PYSalariesCompEmpBnftPaidAmt  int                          `xml:"PYSalariesCompEmpBnftPaidAmt"`
	NetAssetsOrFundBalancesEOYAmt int                          `xml:"NetAssetsOrFundBalancesEOYAmt"`
	Form990PartVIISectionAGrp     []*Form990PartVIISectionAGrp `xml:"Form990PartVIISectionAGrp"`
}

// IRS990 wraps IRS990Type the way the e-file schema nests the
// form-specific content one level below ReturnData.
type IRS990 struct {
	*IRS990Type
}

// ReturnData990 is ReturnData's shape when ReturnHeader.ReturnTypeCd
// is "990".
type ReturnData990 struct {
	IRS990 *IRS990 `xml:"IRS990"`
}

func (r *ReturnData990) GetFormType() string { return "990" }

// IRS990EZType is Form 990-EZ's abbreviated financial summary, used by
// smaller nonprofits below the full-990 revenue threshold.
type IRS990EZType struct {
	TotalRevenueAmt               int `xml:"TotalRevenueAmt"`
	TotalExpensesAmt              int `xml:"TotalExpensesAmt"`
	NetAssetsOrFundBalancesEOYAmt int `xml:"NetAssetsOrFundBalancesEOYAmt"`
}

type IRS990EZ struct {
	*IRS990EZType
}

// ReturnData990EZ is ReturnData's shape when ReturnHeader.ReturnTypeCd
// is "990EZ".
type ReturnData990EZ struct {
	IRS990EZ *IRS990EZ `xml:"IRS990EZ"`
}

func (r *ReturnData990EZ) GetFormType() string { return "990EZ" }

// IRS990PFType is Form 990-PF's private-foundation summary; only the
// distributable-amount schedule is modeled (DistributableAmountGrp.xsd.go)
// since nothing downstream reads the rest of the PF-specific schema yet.
type IRS990PFType struct {
	DistributableAmountGrp *DistributableAmountGrp `xml:"DistributableAmountGrp"`
}

type IRS990PF struct {
	*IRS990PFType
}

// ReturnData990PF is ReturnData's shape when ReturnHeader.ReturnTypeCd
// is "990PF".
type ReturnData990PF struct {
	IRS990PF *IRS990PF `xml:"IRS990PF"`
}

func (r *ReturnData990PF) GetFormType() string { return "990PF" }
