package pricing

import "github.com/shopspring/decimal"

// Line is the priced quantity of one product going into a checkout quote.
type Line struct {
	Price float64
	Qty   int
}

// Quote is the checkout price breakdown. Both the client estimate and the
// server-side revalidation are produced by QuoteLines, so the two sides
// can never disagree on a placed order's totals.
type Quote struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

const (
	// Orders with an items subtotal above this ship for free.
	freeShippingThreshold = 100
	// Flat shipping fee below the threshold.
	flatShippingFee = 100
)

// taxRate is 15% of the items subtotal.
var taxRate = decimal.NewFromFloat(0.15)

// Round2 rounds a money amount to cents.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// QuoteLines computes the checkout breakdown for a set of cart lines.
// Each component is rounded to cents before the components are summed;
// summing first and rounding once can be off by a cent against a peer
// that rounds per component.
func QuoteLines(lines []Line) Quote {
	items := decimal.Zero
	for _, l := range lines {
		items = items.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	items = items.Round(2)

	shipping := decimal.NewFromInt(flatShippingFee)
	if items.GreaterThan(decimal.NewFromInt(freeShippingThreshold)) {
		shipping = decimal.Zero
	}

	tax := items.Mul(taxRate).Round(2)
	total := items.Add(shipping).Add(tax).Round(2)

	return Quote{
		ItemsPrice:    items.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}

// Matches reports whether a client-submitted breakdown agrees with q to
// the cent on every component.
func (q Quote) Matches(items, shipping, tax, total float64) bool {
	return eqCents(q.ItemsPrice, items) &&
		eqCents(q.ShippingPrice, shipping) &&
		eqCents(q.TaxPrice, tax) &&
		eqCents(q.TotalPrice, total)
}

func eqCents(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
