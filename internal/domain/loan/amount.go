package loan

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseAmount drops every non-digit (grouping separators, spaces, currency
// labels) and reads what is left as a whole number.
func ParseAmount(s string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// AmountFormatter renders whole amounts with locale grouping and no decimals.
type AmountFormatter struct {
	p        *message.Printer
	currency string
}

// NewAmountFormatter falls back to Vietnamese grouping when locale is empty or unknown.
func NewAmountFormatter(locale, currency string) *AmountFormatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.Vietnamese
	}
	return &AmountFormatter{p: message.NewPrinter(tag), currency: strings.TrimSpace(currency)}
}

func (f *AmountFormatter) Format(n int64) string { return f.p.Sprintf("%d", n) }

// WithCurrency appends the currency label, if any.
func (f *AmountFormatter) WithCurrency(n int64) string {
	if f.currency == "" {
		return f.Format(n)
	}
	return f.Format(n) + " " + f.currency
}

// Currency is the configured label, possibly empty.
func (f *AmountFormatter) Currency() string { return f.currency }
