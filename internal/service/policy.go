package service

import "context"

// Policy is the closed set of selling policies. A sale is either normal or
// member-discounted; the choice is made per sale request and never
// persisted.
type Policy int

const (
	PolicyNormal Policy = iota
	PolicyDiscounted
)

// discountPercent is the member discount applied to the displayed price.
// It never alters the stored price or the quantity math.
const discountPercent = 10

// PolicyFor maps the sale request's discount flag to a policy.
func PolicyFor(discounted bool) Policy {
	if discounted {
		return PolicyDiscounted
	}
	return PolicyNormal
}

func (p Policy) Label() string {
	if p == PolicyDiscounted {
		return "member discount"
	}
	return "normal"
}

// Sell delegates to the service's sell path. Both policies share the same
// quantity math; the policy only decides the sale's label and the price
// shown by the caller.
func (p Policy) Sell(ctx context.Context, inv InventoryService, title string, quantity int64) (bool, error) {
	return inv.SellBook(ctx, title, quantity, p == PolicyDiscounted)
}

// DisplayPrice computes the per-unit price shown to the buyer. The stored
// record keeps the full price either way.
func (p Policy) DisplayPrice(unitPrice int64) int64 {
	if p == PolicyDiscounted {
		return unitPrice * (100 - discountPercent) / 100
	}
	return unitPrice
}
