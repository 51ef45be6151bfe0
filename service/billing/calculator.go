package billing

import (
	"github.com/shopspring/decimal"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

// round2 rounds to 2 decimal places, half away from zero. For the
// non-negative amounts money takes in this domain that is round-half-up,
// matching how the shop has always priced lines. Banker's rounding is
// deliberately not used.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// lineTotal is unit price times quantity, rounded per line before summing.
func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// orderTotal applies tax and discount to an already-summed subtotal and
// rounds again at the end.
func orderTotal(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return round2(subtotal.Add(tax).Sub(discount))
}

// DerivePaymentStatus classifies an order purely from its total and the sum
// of its payments. A zero-total order with no payments comes out paid.
func DerivePaymentStatus(total, paid decimal.Decimal) model.PaymentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero) && total.GreaterThan(decimal.Zero):
		return model.PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return model.PaymentPaid
	default:
		return model.PaymentPartial
	}
}
