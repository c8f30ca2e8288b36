package checkout

import "github.com/shopspring/decimal"

// LoyaltyTickets computes the ticket accrual for one order: a flat amount per
// order plus one bonus ticket per full threshold of subtotal.
func LoyaltyTickets(subtotal decimal.Decimal, flat int, bonusThreshold decimal.Decimal) int {
	tickets := flat
	if bonusThreshold.IsPositive() {
		tickets += int(subtotal.Div(bonusThreshold).IntPart())
	}
	return tickets
}
