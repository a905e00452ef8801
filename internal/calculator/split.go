package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PersonItem is one person's share of an item.
type PersonItem struct {
	Name   string
	Amount decimal.Decimal
}

// PersonSplit represents the calculated split for one person
type PersonSplit struct {
	Subtotal   decimal.Decimal
	Adjustment decimal.Decimal
	Total      decimal.Decimal
	Items      []PersonItem
}

// Item represents a single line of the ticket with its owners
type Item struct {
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	AssignedTo []string
}

// Amount is quantity × unit price.
func (i Item) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateSplit computes how much each person owes for a ticket.
// Each item is shared equally among its owners. Any gap between the ticket
// total and the sum of items (discounts, rounding, service) is spread in
// proportion to each person's subtotal:
//
//	person_total = person_subtotal × (ticket_total / items_subtotal)
//
// Shares and adjustments are whole cents. The cents left over by rounding
// go to the first owner of an item, and to the participant with the largest
// subtotal for the adjustment, so the totals add up to ticketTotal when
// every item has an owner.
func CalculateSplit(items []Item, ticketTotal decimal.Decimal, participants []string) (map[string]*PersonSplit, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	splits := make(map[string]*PersonSplit, len(participants))
	for _, p := range participants {
		splits[p] = &PersonSplit{}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}
	if subtotal.IsZero() && !ticketTotal.IsZero() {
		return nil, fmt.Errorf("items add up to zero but ticket total is %s", ticketTotal.StringFixed(2))
	}

	for _, item := range items {
		owners := make([]string, 0, len(item.AssignedTo))
		for _, person := range item.AssignedTo {
			if _, ok := splits[person]; ok {
				owners = append(owners, person)
			}
		}
		for i, share := range shareOut(item.Amount(), len(owners)) {
			split := splits[owners[i]]
			split.Subtotal = split.Subtotal.Add(share)
			split.Items = append(split.Items, PersonItem{Name: item.Name, Amount: share})
		}
	}

	adjustment := ticketTotal.Sub(subtotal)
	if !subtotal.IsZero() && !adjustment.IsZero() {
		allocated := decimal.Zero
		largest := participants[0]
		for _, p := range participants {
			split := splits[p]
			split.Adjustment = split.Subtotal.Mul(adjustment).Div(subtotal).Round(2)
			allocated = allocated.Add(split.Adjustment)
			if split.Subtotal.GreaterThan(splits[largest].Subtotal) {
				largest = p
			}
		}
		splits[largest].Adjustment = splits[largest].Adjustment.Add(adjustment.Sub(allocated))
	}

	for _, split := range splits {
		split.Total = split.Subtotal.Add(split.Adjustment)
	}

	return splits, nil
}

// shareOut splits amount into n cent-rounded shares that add up to amount.
// The first share absorbs the remainder.
func shareOut(amount decimal.Decimal, n int) []decimal.Decimal {
	if n == 0 {
		return nil
	}
	shares := make([]decimal.Decimal, n)
	each := amount.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	rest := amount.Sub(each.Mul(decimal.NewFromInt(int64(n))))
	for i := range shares {
		shares[i] = each
	}
	shares[0] = each.Add(rest)
	return shares
}
