package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/pennypulse/internal/domain/models"
	"github.com/guttosm/pennypulse/internal/logger"
	"github.com/guttosm/pennypulse/internal/marketdata"
)

// DefaultPriceCeiling is the penny stock price bound used when none is configured.
const DefaultPriceCeiling = 5.0

// ErrInsufficientHistory marks a symbol with fewer than two closes.
var ErrInsufficientHistory = errors.New("insufficient price history")

// GainersResult is the outcome of one screening run.
type GainersResult struct {
	Timestamp time.Time
	Total     int
	Stocks    []models.PennyStock
}

// GainersService screens a watchlist for penny stocks that gained since the previous close.
type GainersService interface {
	Screen(ctx context.Context, limit int) (*GainersResult, error)
}

type gainersService struct {
	provider     marketdata.Provider
	watchlist    []string
	priceCeiling float64
	parallelism  int
	now          func() time.Time
}

// NewGainersService builds the screener over watchlist. A non-positive ceiling
// falls back to DefaultPriceCeiling; non-positive parallelism runs sequentially.
func NewGainersService(provider marketdata.Provider, watchlist []string, priceCeiling float64, parallelism int) GainersService {
	if priceCeiling <= 0 {
		priceCeiling = DefaultPriceCeiling
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	wl := make([]string, len(watchlist))
	copy(wl, watchlist)
	return &gainersService{
		provider:     provider,
		watchlist:    wl,
		priceCeiling: priceCeiling,
		parallelism:  parallelism,
		now:          time.Now,
	}
}

// Screen evaluates the first limit symbols of the watchlist.
//
// Behavior:
//   - Each symbol is fetched independently; any fetch error or short history skips it.
//   - Keeps records with current_price <= ceiling and change_percent > 0.
//   - Prices are rounded to 4 places, percent to 2.
//   - Sorted by change_percent descending; ties keep watchlist order.
//
// Only a cancelled context fails the whole run. When the deadline passes,
// unfinished symbols are skipped and the gainers found so far are returned.
func (s *gainersService) Screen(ctx context.Context, limit int) (*GainersResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	candidates := s.watchlist
	if limit < len(candidates) {
		candidates = candidates[:limit]
	}

	log := logger.Component("gainers")

	// slots are indexed by watchlist position so the stable sort keeps that order on ties
	slots := make([]*models.PennyStock, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, symbol := range candidates {
		i, symbol := i, symbol
		g.Go(func() error {
			snap, err := s.snapshot(gctx, symbol)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) {
					return ctx.Err()
				}
				if ctx.Err() == nil {
					log.Warn().Str("symbol", symbol).Err(err).Msg("symbol skipped")
				}
				return nil
			}
			if rec, ok := s.include(snap); ok {
				slots[i] = &rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screen watchlist: %w", err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn().Msg("deadline reached, returning partial results")
	}

	stocks := make([]models.PennyStock, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			stocks = append(stocks, *rec)
		}
	}
	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].ChangePercent > stocks[j].ChangePercent
	})
	if len(stocks) > limit {
		stocks = stocks[:limit]
	}

	log.Info().Int("candidates", len(candidates)).Int("gainers", len(stocks)).Msg("screen done")

	return &GainersResult{
		Timestamp: s.now(),
		Total:     len(stocks),
		Stocks:    stocks,
	}, nil
}

// snapshot fetches metadata and two sessions for one symbol, in one call
// when the provider supports it.
func (s *gainersService) snapshot(ctx context.Context, symbol string) (models.PriceSnapshot, error) {
	md, bars, err := s.fetch(ctx, symbol)
	if err != nil {
		return models.PriceSnapshot{}, err
	}
	if len(bars) < 2 {
		return models.PriceSnapshot{}, fmt.Errorf("%d closes: %w", len(bars), ErrInsufficientHistory)
	}
	prev, curr := bars[len(bars)-2], bars[len(bars)-1]

	name := md.CompanyName
	if name == "" {
		name = symbol
	}
	return models.PriceSnapshot{
		Symbol:        symbol,
		CompanyName:   name,
		CurrentPrice:  curr.Close,
		PreviousClose: prev.Close,
		Volume:        curr.Volume,
		MarketCap:     md.MarketCap,
		Sector:        md.Sector,
	}, nil
}

func (s *gainersService) fetch(ctx context.Context, symbol string) (marketdata.Metadata, []marketdata.Bar, error) {
	if sp, ok := s.provider.(marketdata.SnapshotProvider); ok {
		md, bars, err := sp.GetSnapshot(ctx, symbol, 2)
		if err != nil {
			return marketdata.Metadata{}, nil, fmt.Errorf("snapshot: %w", err)
		}
		return md, bars, nil
	}
	md, err := s.provider.GetMetadata(ctx, symbol)
	if err != nil {
		return marketdata.Metadata{}, nil, fmt.Errorf("metadata: %w", err)
	}
	bars, err := s.provider.GetRecentHistory(ctx, symbol, 2)
	if err != nil {
		return marketdata.Metadata{}, nil, fmt.Errorf("history: %w", err)
	}
	return md, bars, nil
}

// include applies the inclusion predicate and rounds the surviving record.
// The ceiling is checked against the current price only.
func (s *gainersService) include(snap models.PriceSnapshot) (models.PennyStock, bool) {
	pct := snap.ChangePercent()
	if snap.CurrentPrice > s.priceCeiling || pct <= 0 {
		return models.PennyStock{}, false
	}
	return models.PennyStock{
		Symbol:        snap.Symbol,
		CompanyName:   snap.CompanyName,
		CurrentPrice:  Round(snap.CurrentPrice, 4),
		PreviousClose: Round(snap.PreviousClose, 4),
		Change:        Round(snap.Change(), 4),
		ChangePercent: Round(pct, 2),
		Volume:        snap.Volume,
		MarketCap:     snap.MarketCap,
		Sector:        snap.Sector,
	}, true
}

// Round rounds v to places decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
