package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

var (
	ErrItemIndex   = errors.New("item index out of range")
	ErrInvalidItem = errors.New("quantity and unit price must not be negative")
)

// Draft wraps a models.Draft with the editing operations of the ticket table.
// The item list is never left empty.
type Draft struct {
	*models.Draft
}

// NewDraft builds a draft from a parse result.
func NewDraft(id, storeName string, result ParseResult) *Draft {
	items := make([]models.LineItem, len(result.Items))
	copy(items, result.Items)
	return Edit(&models.Draft{
		ID:             id,
		StoreName:      strings.TrimSpace(storeName),
		Items:          items,
		ExtractedTotal: result.Total,
	})
}

// Edit wraps a stored draft for editing.
func Edit(m *models.Draft) *Draft {
	d := &Draft{m}
	d.ensureRow()
	return d
}

// UpdateItem replaces the item at index.
func (d *Draft) UpdateItem(index int, item models.LineItem) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	if item.Quantity < 0 || item.UnitPrice.IsNegative() {
		return ErrInvalidItem
	}
	item.Name = strings.TrimSpace(item.Name)
	d.Items[index] = item
	return nil
}

// AddItem appends a blank row.
func (d *Draft) AddItem() {
	d.Items = append(d.Items, models.NewBlankLineItem())
}

// RemoveItem drops the item at index. Out of range indexes are ignored.
func (d *Draft) RemoveItem(index int) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.ensureRow()
}

// ItemsTotal sums quantity × unit price over the current rows.
func (d *Draft) ItemsTotal() decimal.Decimal {
	return models.SumLineItems(d.Items)
}

// Total is the extracted total when one was detected, else ItemsTotal.
func (d *Draft) Total() decimal.Decimal {
	if d.ExtractedTotal.Valid {
		return d.ExtractedTotal.Decimal
	}
	return d.ItemsTotal()
}

func (d *Draft) ensureRow() {
	if len(d.Items) == 0 {
		d.Items = []models.LineItem{models.NewBlankLineItem()}
	}
}
