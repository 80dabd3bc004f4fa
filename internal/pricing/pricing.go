// Package pricing derives the money breakdown of a cart. It does no I/O and
// keeps full precision; rounding happens only in Present.
package pricing

import "github.com/shopspring/decimal"

type Policy struct {
	// Shipping is free only when the subtotal is strictly greater than this.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	// TaxRate applies to the subtotal only, never to shipping.
	TaxRate decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.NewFromInt(10),
		TaxRate:               decimal.New(10, -2),
	}
}

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Breakdown struct {
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int

	threshold decimal.Decimal
}

// Compute is order independent: decimal addition is exact, so permuting
// lines yields an identical breakdown.
func (p Policy) Compute(lines []Line) Breakdown {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)

	return Breakdown{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     subtotal.Add(shipping).Add(tax),
		ItemCount: count,
		threshold: p.FreeShippingThreshold,
	}
}

// FreeShippingRemaining is how much more must be spent before shipping is
// waived, zero once it already is.
func (b Breakdown) FreeShippingRemaining() decimal.Decimal {
	if b.Shipping.IsZero() {
		return decimal.Zero
	}
	rem := b.threshold.Sub(b.Subtotal)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Summary is the rounded, client-facing form of a Breakdown. Amounts are
// fixed two-place strings.
type Summary struct {
	Subtotal              string `json:"subtotal"`
	Shipping              string `json:"shipping"`
	Tax                   string `json:"tax"`
	Total                 string `json:"total"`
	ItemCount             int    `json:"item_count"`
	FreeShipping          bool   `json:"free_shipping"`
	FreeShippingRemaining string `json:"free_shipping_remaining"`
}

func (b Breakdown) Present() Summary {
	return Summary{
		Subtotal:              round2(b.Subtotal),
		Shipping:              round2(b.Shipping),
		Tax:                   round2(b.Tax),
		Total:                 round2(b.Total),
		ItemCount:             b.ItemCount,
		FreeShipping:          b.Shipping.IsZero(),
		FreeShippingRemaining: round2(b.FreeShippingRemaining()),
	}
}

// round2 rounds half away from zero and always renders two places.
func round2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
