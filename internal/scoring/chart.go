package scoring

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ColorFavored    = "green"
	ColorDisfavored = "red"
)

// ChartPoint is one option plotted as (probability, expected value).
type ChartPoint struct {
	Option string  `json:"option"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
}

// ScatterPoints returns the safe ("S") and risky ("R") points of a result.
// The option with the higher expected value is green and the other red;
// equivalent options are both green.
func ScatterPoints(r Result) []ChartPoint {
	safeColor, riskyColor := ColorFavored, ColorFavored
	switch r.Recommendation {
	case PreferSafe:
		riskyColor = ColorDisfavored
	case PreferRisky:
		safeColor = ColorDisfavored
	}
	return []ChartPoint{
		{
			Option: "S",
			Label:  FormatCurrency(r.SafeExpectedValue),
			X:      r.SafeProbability,
			Y:      r.SafeExpectedValue,
			Color:  safeColor,
		},
		{
			Option: "R",
			Label:  FormatCurrency(r.RiskyExpectedValue),
			X:      r.RiskProbability,
			Y:      r.RiskyExpectedValue,
			Color:  riskyColor,
		},
	}
}

// FormatProbability renders a probability with two decimals.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

// Amounts are always grouped the US way, in every locale.
var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a whole-unit amount with thousands separators,
// e.g. "$1,500".
func FormatCurrency(v float64) string {
	return "$" + currencyPrinter.Sprintf("%.0f", v)
}
