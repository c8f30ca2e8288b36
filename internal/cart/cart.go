// Package cart holds the immutable cart snapshot a checkout attempt runs against.
package cart

import "github.com/shopspring/decimal"

// Modifier is a selected option on a line (extra topping, size change, ...).
type Modifier struct {
	Name       string          `json:"name"`
	GroupLabel string          `json:"group_label,omitempty"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Line is one cart entry. For composite lines (half-and-half products) the
// unit price is the average of the component prices; ComponentIDs carries the
// component product ids for inventory validation.
type Line struct {
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	Composite       bool              `json:"composite,omitempty"`
	ComponentIDs    []string          `json:"component_ids,omitempty"`
	ComponentPrices []decimal.Decimal `json:"component_prices,omitempty"`
	Modifiers       []Modifier        `json:"modifiers,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	RequiresPrep    bool              `json:"requires_prep"`
}

// BaseUnitPrice returns the effective unit price before modifiers: the plain
// unit price, or the average of component prices for composite lines.
func (l Line) BaseUnitPrice() decimal.Decimal {
	if !l.Composite || len(l.ComponentPrices) == 0 {
		return l.UnitPrice
	}
	sum := decimal.Zero
	for _, p := range l.ComponentPrices {
		sum = sum.Add(p)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(l.ComponentPrices))), 2)
}

// UnitTotal is the base unit price plus all modifier deltas.
func (l Line) UnitTotal() decimal.Decimal {
	total := l.BaseUnitPrice()
	for _, m := range l.Modifiers {
		total = total.Add(m.PriceDelta)
	}
	return total
}

// Total is the line total: unit total times quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is the cart frozen at the start of a checkout attempt.
type Snapshot struct {
	Lines []Line `json:"lines"`
}

func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

func (s Snapshot) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range s.Lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}
