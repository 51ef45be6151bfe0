package billing

import (
	"fmt"
	"time"
)

const invoiceDateFormat = "20060102"

// invoiceNumber builds the human-readable order identifier from the
// creation date and a per-day sequence: INV-20250901-00042. The sequence
// row is incremented inside the order transaction and the column carries a
// unique index, so the number can never repeat even if two orders race.
func invoiceNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%05d", date.Format(invoiceDateFormat), seq)
}

func invoiceDay(date time.Time) string {
	return date.Format(invoiceDateFormat)
}
