package contracts

import (
	"context"
	"time"
)

// PriceProvider is the external market-data collaborator. "No data" is
// an empty table, never an error; transport and lookup failures wrap
// ErrDataProvider.
type PriceProvider interface {
	FetchPrices(ctx context.Context, symbols []string, from, to time.Time) (*PriceTable, error)
}
