package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a completed allocation request as journaled and served over the API.
type Report struct {
	ID        uuid.UUID         `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Snapshot  *Snapshot         `json:"snapshot"`
	Result    *AllocationResult `json:"result"`
	// Substituted lists discrete assets priced with the fallback price instead of a quote.
	Substituted []string `json:"substituted,omitempty"`
}

// ReportRecord is a journaled report with its journal index.
type ReportRecord struct {
	Index  uint64 `json:"index"`
	Report Report `json:"report"`
}
