package pricing

// FixedShippingCost is the flat fee charged whenever the cart holds at
// least one line item. Empty carts ship nothing and pay nothing.
const FixedShippingCost = 10.0

// Line is one priced cart position.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the full price breakdown of a cart.
//
// Subtotal is always the raw, pre-discount sum of unit price times quantity.
// Discount is reported as a separate positive amount rather than folded into
// Subtotal, so Subtotal + Shipping - Discount == Total holds by construction
// and callers never have to reconstruct the raw figure.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Quote computes the totals for the given lines at the given discount rate.
// It is a pure function recomputed on every call; nothing is cached.
// discountRate outside [0,1] is clamped so Total can never go negative.
func Quote(lines []Line, discountRate float64) Totals {
	if discountRate < 0 {
		discountRate = 0
	}
	if discountRate > 1 {
		discountRate = 1
	}

	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	discount := subtotal * discountRate

	var shipping float64
	if len(lines) > 0 {
		shipping = FixedShippingCost
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal - discount + shipping,
	}
}
