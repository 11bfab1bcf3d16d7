// Package format renderiza montos y números en pt-BR para los textos
// listos para mostrar del dashboard.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formatea un monto con el símbolo de la moneda ISO indicada.
// Un código desconocido cae a BRL.
func Currency(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.BRL
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

// Number formatea un entero con separadores de miles pt-BR.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}
