package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_FixedList(t *testing.T) {
	all := All()
	require.Len(t, all, 8)
	assert.Equal(t, []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY"}, Codes())

	// callers cannot mutate the package list
	all[0].Code = "XXX"
	assert.Equal(t, "USD", All()[0].Code)
}

func TestLookup(t *testing.T) {
	c, ok := Lookup(" gbp ")
	require.True(t, ok)
	assert.Equal(t, "British Pound", c.Name)
	assert.Equal(t, "£", c.Symbol)
	assert.Equal(t, "GBP - British Pound", c.Label())

	_, ok = Lookup("BTC")
	assert.False(t, ok)
	assert.True(t, Valid("cny"))
	assert.False(t, Valid(""))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value float64
		code  string
		want  string
	}{
		{100, "GBP", "100.00 £"},
		{127.1, "USD", "127.10 $"},
		{1234567.891234, "JPY", "1,234,567.8912 ¥"},
		{0.78740157, "GBP", "0.7874 £"},
		{999.99999, "CHF", "1,000.00 CHF"},
		{12.5, "XYZ", "12.50 XYZ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.value, tt.code), "value=%v", tt.value)
	}
}

func TestFormatNumber_Negative(t *testing.T) {
	assert.Equal(t, "-1,000.50", FormatNumber(decimal.RequireFromString("-1000.5"), 2, 4))
	assert.Equal(t, "1,000", FormatNumber(decimal.NewFromInt(1000), 0, 0))
}
