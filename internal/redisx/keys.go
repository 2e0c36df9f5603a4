package redisx

import "time"

const (
	// Session: sess:{sid} -> customer_id
	KeySession = "sess:%s"

	// One-shot flash messages: flash:{sid} -> list of level|text entries
	KeyFlash = "flash:%s"

	// Exchange rate cache: fx:rate:{code} -> decimal string
	KeyRate = "fx:rate:%s"

	// Order status cache: order_status:{order_id} -> {"state": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession     = 72 * time.Hour
	TTLFlash       = 10 * time.Minute
	TTLRateCache   = 1 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
