// Package cart implements the in-memory cart ledger: an ordered list of line
// items with derived monetary aggregates. All amounts are int64 pesewas.
package cart

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TaxRateBasisPoints is the flat VAT rate applied to the cart subtotal (7.5%).
const TaxRateBasisPoints = 750

type LineItem struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId"`
	Title          string `json:"title"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

// Ledger holds cart lines in insertion order. Lines are merged on
// (productID, variantID); a line never exists with quantity below 1.
type Ledger struct {
	lines []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// FromLines builds a ledger from existing lines, merging duplicates and
// dropping non-positive quantities. Lines without an id get one synthesized.
func FromLines(lines []LineItem) *Ledger {
	l := NewLedger()
	for _, item := range lines {
		l.AddItem(item)
	}
	return l
}

// AddItem merges the item into an existing line with the same
// (productID, variantID) or appends a new line. Returns the id of the
// affected line; items with quantity < 1 are ignored.
func (l *Ledger) AddItem(item LineItem) string {
	if item.Quantity < 1 {
		return ""
	}
	for i := range l.lines {
		if l.lines[i].ProductID == item.ProductID && l.lines[i].VariantID == item.VariantID {
			l.lines[i].Quantity += item.Quantity
			return l.lines[i].ID
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	l.lines = append(l.lines, item)
	return item.ID
}

// RemoveItem deletes the line with the given id. No-op if absent.
func (l *Ledger) RemoveItem(id string) {
	for i := range l.lines {
		if l.lines[i].ID == id {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line with the given id. A quantity
// of zero or less removes the line.
func (l *Ledger) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(id)
		return
	}
	for i := range l.lines {
		if l.lines[i].ID == id {
			l.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the ledger. Idempotent.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines returns a copy of the current lines in order.
func (l *Ledger) Lines() []LineItem {
	out := make([]LineItem, len(l.lines))
	copy(out, l.lines)
	return out
}

// ItemCount is the sum of quantities across all lines.
func (l *Ledger) ItemCount() int {
	count := 0
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

// SubtotalCents is the sum of unit price times quantity across all lines.
func (l *Ledger) SubtotalCents() int64 {
	var sum int64
	for _, line := range l.lines {
		sum += line.UnitPriceCents * int64(line.Quantity)
	}
	return sum
}

// TaxCents applies the flat tax rate to the subtotal, rounding half up.
func (l *Ledger) TaxCents() int64 {
	return (l.SubtotalCents()*TaxRateBasisPoints + 5000) / 10000
}

// TotalCents is subtotal plus tax.
func (l *Ledger) TotalCents() int64 {
	return l.SubtotalCents() + l.TaxCents()
}

// Snapshot serializes the ledger for persistence.
func (l *Ledger) Snapshot() ([]byte, error) {
	return json.Marshal(l.lines)
}

// Restore rebuilds a ledger from a Snapshot payload.
func Restore(data []byte) (*Ledger, error) {
	var lines []LineItem
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return FromLines(lines), nil
}
