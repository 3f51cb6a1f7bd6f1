package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber builds the human-facing order number:
// ORD-<14-digit UTC timestamp>-<4-digit random suffix>.
// Collisions are not retried here; the store's unique index surfaces them.
func GenerateOrderNumber() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	suffix := 1000 + rand.Intn(9000)
	return fmt.Sprintf("ORD-%s-%d", timestamp, suffix)
}
