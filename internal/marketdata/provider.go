package marketdata

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the provider has no data for a symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrNoData is returned when a response parses but carries no usable bars.
	ErrNoData = errors.New("no market data returned")
)

// Metadata describes an instrument. MarketCap and Sector are optional.
type Metadata struct {
	CompanyName string
	MarketCap   *float64
	Sector      *string
}

// Bar is one daily session.
type Bar struct {
	Close  float64
	Volume int64
}

// Provider is the market data capability the screener depends on.
// Every call may fail independently per symbol.
type Provider interface {
	GetMetadata(ctx context.Context, symbol string) (Metadata, error)
	// GetRecentHistory returns up to days sessions, oldest first.
	GetRecentHistory(ctx context.Context, symbol string, days int) ([]Bar, error)
}

// SnapshotProvider is implemented by providers that can serve metadata and
// recent history from a single upstream call.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, symbol string, days int) (Metadata, []Bar, error)
}
