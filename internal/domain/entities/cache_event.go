package entities

import (
	"time"
)

// CacheEvent announces an availability-cache invalidation to every running
// instance. Scope is the affected date, or "*" for a full clear.
type CacheEvent struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	EmittedAt time.Time `json:"emitted_at"`
}
