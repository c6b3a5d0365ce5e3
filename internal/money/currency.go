package money

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/GregMSThompson/budget-report/internal/models"
)

// Symbols maps ISO codes to display symbols for budgets whose currency
// format carries no symbol.
var Symbols = map[string]string{
	"TRY": "₺",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"QAR": "ر.ق",
	"AED": "د.إ",
	"SAR": "ر.س",
	"JPY": "¥",
	"KWD": "د.ك",
	"BHD": "د.ب",
	"OMR": "ر.ع",
}

// Currency is the formatting context for one report. It is passed
// explicitly to every formatting call.
type Currency struct {
	Code   string       `json:"code"`
	Symbol string       `json:"symbol"`
	Tag    language.Tag `json:"-"`
}

var DefaultCurrency = Currency{Code: "TRY", Symbol: "₺", Tag: language.Turkish}

// NewCurrency resolves the symbol from the explicit value, then the symbol
// table, then the code itself.
func NewCurrency(code, symbol string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	if symbol == "" {
		symbol = Symbols[code]
	}
	if symbol == "" {
		symbol = code
	}
	return Currency{Code: code, Symbol: symbol, Tag: tagFor(code)}
}

// FromBudget builds the formatting context for a budget's currency format.
func FromBudget(f *models.CurrencyFormat) Currency {
	if f == nil {
		return DefaultCurrency
	}
	return NewCurrency(f.ISOCode, f.CurrencySymbol)
}

func tagFor(code string) language.Tag {
	switch code {
	case "TRY":
		return language.Turkish
	case "EUR":
		return language.German
	case "GBP":
		return language.BritishEnglish
	case "JPY":
		return language.Japanese
	case "QAR", "AED", "SAR", "KWD", "BHD", "OMR":
		return language.Arabic
	default:
		return language.AmericanEnglish
	}
}

// FormatAmount renders symbol + grouped whole units, e.g. ₺1.235.
func (c Currency) FormatAmount(v float64) string {
	p := message.NewPrinter(c.tag())
	return c.Symbol + p.Sprint(number.Decimal(finite(v), number.MaxFractionDigits(0)))
}

// FormatPercent renders v (already scaled to 0..100) with the given number
// of fraction digits.
func (c Currency) FormatPercent(v float64, digits int) string {
	p := message.NewPrinter(c.tag())
	return p.Sprint(number.Decimal(finite(v), number.MaxFractionDigits(digits))) + "%"
}

func (c Currency) tag() language.Tag {
	if c.Tag == language.Und {
		return language.AmericanEnglish
	}
	return c.Tag
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
