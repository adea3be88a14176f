// Package movies provides agent tools over the IMDB metadata API: title
// discovery with year/rating/genre filters, and per-title details.
package movies

import (
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "movies")

var validate = validator.New()

var amountPrinter = message.NewPrinter(language.English)

// formatMoney renders "$1,000,000 USD" style amounts.
func formatMoney(amount int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return amountPrinter.Sprintf("$%d %s", amount, currency)
}
