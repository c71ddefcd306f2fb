package dataset

import (
	"fmt"
	"time"
)

// DefaultBaseTime keeps generated datasets reproducible.
var DefaultBaseTime = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Generate returns count synthetic payment records. Every record carries
// the same timestamp so repeated runs hash identically.
func Generate(count int, base time.Time) []any {
	if base.IsZero() {
		base = DefaultBaseTime
	}
	timestamp := base.UTC().Format(timestampLayout)

	records := make([]any, count)
	for index := range records {
		records[index] = map[string]any{
			"id":        fmt.Sprintf("record-%03d", index),
			"timestamp": timestamp,
			"type":      "PAYMENT",
			"payload": map[string]any{
				"amount":   (index + 1) * 100,
				"currency": "HBAR",
				"memo":     fmt.Sprintf("Transaction %d", index),
			},
		}
	}
	return records
}
