package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatCOP formats an amount as Colombian pesos. COP is quoted in whole
// pesos, so the amount is rounded and grouped in thousands with dots
// (e.g., $1.234.568).
func FormatCOP(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	pesos := int64(math.Round(amount))
	formatted := applyThousandsGrouping(fmt.Sprintf("%d", pesos))

	result := "$" + formatted
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts dots every three digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "." + result
}

// AmountToWordsCOP converts a numeric amount to Spanish words as used on
// Colombian commercial documents.
// Example: 913183 → "Novecientos trece mil ciento ochenta y tres pesos m/cte"
func AmountToWordsCOP(amount float64) string {
	if amount < 0 {
		return "Menos " + strings.ToLower(AmountToWordsCOP(-amount))
	}

	pesos := int64(math.Round(amount))
	if pesos == 0 {
		return "Cero pesos m/cte"
	}

	words := convertSpanish(pesos)
	// Exact millions take "de": "un millón de pesos".
	if pesos >= 1000000 && pesos%1000000 == 0 {
		words += " de"
	}

	words += " pesos m/cte"
	return strings.ToUpper(words[:1]) + words[1:]
}

func convertSpanish(n int64) string {
	var parts []string

	if n >= 1000000 {
		millions := n / 1000000
		if millions == 1 {
			parts = append(parts, "un millón")
		} else {
			parts = append(parts, apocope(convertThousands(millions))+" millones")
		}
		n %= 1000000
	}

	if n > 0 {
		parts = append(parts, convertThousands(n))
	}

	return strings.Join(parts, " ")
}

// convertThousands handles 1..999999.
func convertThousands(n int64) string {
	var parts []string

	if n >= 1000 {
		thousands := n / 1000
		if thousands == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, apocope(convertUnder1000(thousands))+" mil")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, convertUnder1000(n))
	}

	return strings.Join(parts, " ")
}

func convertUnder1000(n int64) string {
	if n == 100 {
		return "cien"
	}
	if n >= 100 {
		result := spanishHundreds[n/100]
		if n%100 != 0 {
			result += " " + convertUnder100(n%100)
		}
		return result
	}
	return convertUnder100(n)
}

func convertUnder100(n int64) string {
	if n < 30 {
		return spanishUnder30[n]
	}
	result := spanishTens[n/10]
	if n%10 != 0 {
		result += " y " + spanishUnder30[n%10]
	}
	return result
}

// apocope shortens a trailing "uno" before "mil" and "millones"
// (veintiuno → veintiún, uno → un).
func apocope(s string) string {
	if strings.HasSuffix(s, "veintiuno") {
		return strings.TrimSuffix(s, "veintiuno") + "veintiún"
	}
	if strings.HasSuffix(s, "uno") {
		return strings.TrimSuffix(s, "uno") + "un"
	}
	return s
}

var spanishUnder30 = []string{
	"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho",
	"nueve", "diez", "once", "doce", "trece", "catorce", "quince",
	"dieciséis", "diecisiete", "dieciocho", "diecinueve", "veinte",
	"veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco",
	"veintiséis", "veintisiete", "veintiocho", "veintinueve",
}

var spanishTens = []string{
	"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta",
	"ochenta", "noventa",
}

var spanishHundreds = []string{
	"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos",
	"seiscientos", "setecientos", "ochocientos", "novecientos",
}
