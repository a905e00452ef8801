// Package receipt turns OCR text of a purchase receipt into line items.
//
// The grammar is a best-effort heuristic: one product per line, written as
// a name followed by a price with two decimals. Footer lines (totals, tax,
// payment details) are recognised by keyword and skipped.
package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// ExcludedKeywords mark metadata and footer lines. A line whose upper-cased
// text contains any of them never yields a product, even when the keyword
// is only part of a product name.
var ExcludedKeywords = []string{
	"TOTAL",
	"NETO",
	"IVA",
	"BRUTO",
	"A PAGAR",
	"PAGO",
	"OPERACION",
	"CONTACTLESS",
	"EUR",
}

// TotalKeyword marks the line carrying the grand total.
const TotalKeyword = "A PAGAR"

var (
	// ProductLinePattern matches a whole line of the form "<name> <price>".
	ProductLinePattern = regexp.MustCompile(`^([\w\s.,\-]+?)\s+(\d+[.,]\d{2})$`)

	// TotalPricePattern finds the first price token on a total line.
	TotalPricePattern = regexp.MustCompile(`\d+[.,]\d{2}`)
)

// ParseResult is the outcome of parsing one receipt text.
type ParseResult struct {
	// Items are the products in the order they appear on the receipt.
	Items []models.LineItem

	// Total is the detected grand total. Invalid when none was found.
	Total decimal.NullDecimal
}

// ItemsTotal sums quantity × unit price over all items.
func (r ParseResult) ItemsTotal() decimal.Decimal {
	return models.SumLineItems(r.Items)
}

// TicketTotal is the detected total, falling back to ItemsTotal.
func (r ParseResult) TicketTotal() decimal.Decimal {
	if r.Total.Valid {
		return r.Total.Decimal
	}
	return r.ItemsTotal()
}

// Parse extracts line items and the grand total from OCR text.
// It never fails: when no product line is recognised the result holds a
// single blank item so an editor always has a row to work on.
func Parse(text string) ParseResult {
	result := ExtractItems(text)
	if len(result.Items) == 0 {
		result.Items = []models.LineItem{models.NewBlankLineItem()}
	}
	return result
}

// ExtractItems runs the line grammar without adding the blank placeholder,
// so the returned item list may be empty.
//
// The first "A PAGAR" line carrying a price sets the total; later ones are
// ignored.
func ExtractItems(text string) ParseResult {
	var result ParseResult
	items := []models.LineItem{}

	for _, line := range splitLines(text) {
		upper := strings.ToUpper(line)

		if !result.Total.Valid && strings.Contains(upper, TotalKeyword) {
			if token := TotalPricePattern.FindString(line); token != "" {
				result.Total = decimal.NewNullDecimal(parsePrice(token))
			}
		}

		if isExcluded(upper) {
			continue
		}

		match := ProductLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		items = append(items, models.LineItem{
			Quantity:  1,
			Name:      strings.TrimSpace(match[1]),
			UnitPrice: parsePrice(match[2]),
		})
	}

	result.Items = items
	return result
}

// splitLines splits on any line break, trims each line and drops blanks.
func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isExcluded(upper string) bool {
	for _, keyword := range ExcludedKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// parsePrice accepts "1,50" or "1.50". Unparseable tokens are zero.
func parsePrice(token string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.Replace(token, ",", ".", 1))
	if err != nil {
		return decimal.Zero
	}
	return price
}
