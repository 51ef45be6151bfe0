package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

func TestLineTotal_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		unitPrice string
		quantity  int
		want      string
	}{
		{"20.00", 5, "100.00"},
		{"1.005", 1, "1.01"},   // half rounds up, not to even
		{"2.675", 1, "2.68"},
		{"0.333", 3, "1.00"},
		{"19.99", 3, "59.97"},
		{"0.00", 10, "0.00"},
	}
	for _, tc := range cases {
		got := lineTotal(dec(tc.unitPrice), tc.quantity)
		assert.True(t, got.Equal(dec(tc.want)), "%s x %d = %s, want %s", tc.unitPrice, tc.quantity, got, tc.want)
	}
}

func TestOrderTotal_RoundsAgainAtTheEnd(t *testing.T) {
	cases := []struct {
		subtotal, tax, discount, want string
	}{
		{"100.00", "10.00", "5.00", "105.00"},
		{"100.00", "0.005", "0.00", "100.01"},
		{"100.00", "0.00", "100.00", "0.00"},
		{"100.00", "0.00", "150.00", "-50.00"},
	}
	for _, tc := range cases {
		got := orderTotal(dec(tc.subtotal), dec(tc.tax), dec(tc.discount))
		assert.True(t, got.Equal(dec(tc.want)), "%s + %s - %s = %s, want %s", tc.subtotal, tc.tax, tc.discount, got, tc.want)
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		total, paid string
		want        model.PaymentStatus
	}{
		{"105.00", "0.00", model.PaymentUnpaid},
		{"105.00", "50.00", model.PaymentPartial},
		{"105.00", "105.00", model.PaymentPaid},
		{"105.00", "200.00", model.PaymentPaid},
		{"0.00", "0.00", model.PaymentPaid}, // zero-total order needs no payment
		{"105.00", "0.01", model.PaymentPartial},
		{"105.00", "104.99", model.PaymentPartial},
	}
	for _, tc := range cases {
		got := DerivePaymentStatus(dec(tc.total), dec(tc.paid))
		assert.Equal(t, tc.want, got, "total %s paid %s", tc.total, tc.paid)
	}
}

func TestInvoiceNumber(t *testing.T) {
	date := time.Date(2025, 9, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "INV-20250901-00042", invoiceNumber(date, 42))
	assert.Equal(t, "INV-20250901-100000", invoiceNumber(date, 100000)) // suffix widens past 5 digits
	assert.Equal(t, "20250901", invoiceDay(date))
}
