package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber builds a human-readable order code from a time-derived
// component and a random suffix. Collisions are not detected here; the
// unique index on orders.order_number is the backstop and surfaces as a
// conflict at insert time.
func NewOrderNumber(at time.Time) (string, error) {
	millis := at.UnixMilli() % 1_000_000

	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("orders: read random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("ORD-%06d-%s", millis, buf), nil
}
