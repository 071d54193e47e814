package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer localizes numeric output for en-US, matching the backend's
// dollar-denominated prices.
var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a USD amount with cents and digit grouping,
// e.g. "$1,234.50".
func Currency(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}
