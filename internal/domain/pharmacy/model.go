// Package pharmacy manages the medicine inventory and the alert stream
// raised when stock drops below the reorder threshold.
package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// LowStockThreshold is the strict cutoff below which a stock write raises
// an alert. A write landing exactly on the threshold stays silent.
const LowStockThreshold = 10

type Medicine struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Manufacturer  string    `json:"manufacturer"`
	CreatedAt     time.Time `json:"created_at"`
}

type Alert struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
