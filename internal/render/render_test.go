package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saranrapjs/sternvault/pkg/htmldoc"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$1,234,567", Currency(1234567.0))
	assert.Equal(t, "$42", Currency(42))
	assert.Equal(t, "$hello", Currency("hello"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "1,000", Count(1000.0))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "50", Ratio(1, 2))
	assert.Equal(t, "N/A", Ratio(1, 0))
}

func TestXBRLFact(t *testing.T) {
	f := htmldoc.XBRLFact{Value: "1000", Scale: "3"}
	assert.Equal(t, "$1,000,000", XBRLFact(f))
}

func TestPerEmployee(t *testing.T) {
	f := htmldoc.XBRLFact{Value: "1000000", Scale: "0"}
	assert.Equal(t, "$1,000,000 ($1,000/employee)", PerEmployee(f, 1000))
	assert.Equal(t, "$1,000,000", PerEmployee(f, 0))
}
