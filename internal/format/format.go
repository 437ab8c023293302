// Package format renders event fields for display
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	catalogDate = "2006-01-02"
	displayDate = "January 2, 2006"
	displayTime = "3:04 PM"
)

var catalogTimes = []string{"15:04:05", "15:04"}

var printer = message.NewPrinter(language.AmericanEnglish)

// Date renders "2025-05-12" as "May 12, 2025". Unparsable input is
// returned unchanged.
func Date(localDate string) string {
	t, err := time.Parse(catalogDate, strings.TrimSpace(localDate))
	if err != nil {
		return localDate
	}
	return t.Format(displayDate)
}

// Time renders "19:30:00" as "7:30 PM". Unparsable input is returned unchanged.
func Time(localTime string) string {
	trimmed := strings.TrimSpace(localTime)
	for _, layout := range catalogTimes {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(displayTime)
		}
	}
	return localTime
}

// When renders a start as "May 12, 2025 at 7:30 PM", or the date alone
// when the time is unknown.
func When(start domain.DateInfo) string {
	date := Date(start.LocalDate)
	if start.LocalTime == "" {
		return date
	}
	if date == "" {
		return Time(start.LocalTime)
	}
	return date + " at " + Time(start.LocalTime)
}

// Price renders a price band as "$25.00 - $75.00". Non-USD currencies are
// prefixed with their ISO code; a band with equal bounds renders one amount.
func Price(p domain.PriceRange) string {
	low := Amount(p.Currency, p.Min)
	if p.Max <= p.Min {
		return low
	}
	return low + " - " + Amount(p.Currency, p.Max)
}

// Amount renders a single amount with grouping and two decimals
func Amount(currency string, v float64) string {
	digits := printer.Sprint(number.Decimal(v, number.Scale(2)))
	code := strings.ToUpper(strings.TrimSpace(currency))
	switch code {
	case "", "USD":
		return "$" + digits
	default:
		return code + " " + digits
	}
}
