// Package currency lists the currencies offered by the converter.
package currency

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Currency is a selectable currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

var currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
}

// All returns the currencies in display order.
func All() []Currency {
	return append([]Currency(nil), currencies...)
}

func Codes() []string {
	return lo.Map(currencies, func(c Currency, _ int) string { return c.Code })
}

func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return lo.Find(currencies, func(c Currency) bool { return c.Code == code })
}

func Valid(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Label is the selector text, e.g. "GBP - British Pound".
func (c Currency) Label() string {
	return c.Code + " - " + c.Name
}

// Format renders value with en-US digit grouping, between two and four
// fraction digits, followed by the currency symbol (or the code when unknown).
func Format(value float64, code string) string {
	symbol := code
	if c, ok := Lookup(code); ok {
		symbol = c.Symbol
	}
	return FormatNumber(decimal.NewFromFloat(value), 2, 4) + " " + symbol
}

// FormatNumber rounds d to at most maxFrac digits, pads to minFrac digits and
// groups the integer part by thousands.
func FormatNumber(d decimal.Decimal, minFrac, maxFrac int32) string {
	s := d.Round(maxFrac).String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	for int32(len(frac)) < minFrac {
		frac += "0"
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
