package orders

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber formats ORD-<yyyyMMddHHmmss>-<12 hex chars>. The suffix comes
// from a random UUID, so numbers minted in the same second do not collide.
func NewOrderNumber(now time.Time) string {
	id := uuid.New()
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + hex.EncodeToString(id[:6])
}
