// Package money formats whole-rouble amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the only display locale of the storefront.
var Locale = language.Russian

// Sign is appended after every formatted amount.
const Sign = "₽"

// Number groups digits by thousands using the ru-RU separator.
func Number(amount int64) string {
	return message.NewPrinter(Locale).Sprintf("%d", amount)
}

// Format renders an amount as shown to customers, e.g. "2 500 ₽".
func Format(amount int64) string {
	return Number(amount) + " " + Sign
}
