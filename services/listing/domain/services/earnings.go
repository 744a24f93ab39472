package services

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// Earnings is the estimated revenue of selling the whole quantity.
type Earnings struct {
	Total     models.Money
	Currency  string
	Formatted string
}

// EstimateEarnings multiplies price by quantity and formats the total for
// display in the given currency and language.
func EstimateEarnings(price models.Money, quantity int, currencyCode string, lang language.Tag) (Earnings, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Earnings{}, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	total := price.Times(quantity)

	p := message.NewPrinter(lang)
	symbol := p.Sprint(currency.Symbol(unit))
	return Earnings{
		Total:     total,
		Currency:  unit.String(),
		Formatted: symbol + p.Sprintf("%.2f", total.Float()),
	}, nil
}
