package marketdata

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/client"
	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/pkg/logger"
	"github.com/betbot/tradegate/pkg/ordermath"
)

// DefaultTickSize is assumed when the venue cannot tell us the real one.
var DefaultTickSize = decimal.RequireFromString("0.01")

// Provider fetches market metadata from the venue and hands it over as
// typed decimals. All string->decimal parsing of venue responses happens
// here, not in the handlers.
type Provider struct {
	clob *client.Client
}

func NewProvider(clob *client.Client) *Provider {
	return &Provider{clob: clob}
}

// Metadata assembles ordermath.MarketMetadata for a token.
//
// Tick size and neg-risk fall back to defaults ("0.01", false) when the
// venue call fails. The midpoint is only fetched when requireMidpoint is
// set (i.e. the intent carries no limit price); a midpoint failure is then
// a hard error because there is nothing to derive a price from.
func (p *Provider) Metadata(ctx context.Context, tokenID string, requireMidpoint bool) (ordermath.MarketMetadata, error) {
	meta := ordermath.MarketMetadata{TickSize: DefaultTickSize}

	if tick, err := p.clob.GetTickSize(ctx, tokenID); err != nil {
		logger.Warnf("tick size lookup failed for %s, assuming %s: %v", tokenID, DefaultTickSize, err)
	} else if parsed, perr := decimal.NewFromString(string(tick)); perr != nil || !parsed.IsPositive() {
		logger.Warnf("venue returned unusable tick size %q for %s, assuming %s", tick, tokenID, DefaultTickSize)
	} else {
		meta.TickSize = parsed
	}

	if negRisk, err := p.clob.GetNegRisk(ctx, tokenID); err != nil {
		logger.Warnf("neg-risk lookup failed for %s, assuming false: %v", tokenID, err)
	} else {
		meta.NegRisk = negRisk
	}

	if requireMidpoint {
		mid, err := p.Midpoint(ctx, tokenID)
		if err != nil {
			return meta, err
		}
		meta.Midpoint = mid
	}

	return meta, nil
}

// Midpoint fetches and parses the current mid price.
func (p *Provider) Midpoint(ctx context.Context, tokenID string) (decimal.Decimal, error) {
	resp, err := p.clob.GetMidpoint(ctx, tokenID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("midpoint for %s: %w", tokenID, err)
	}
	mid, err := decimal.NewFromString(resp.Mid)
	if err != nil {
		return decimal.Zero, fmt.Errorf("midpoint for %s: venue returned %q: %w", tokenID, resp.Mid, err)
	}
	return mid, nil
}

// Snapshot is the market view served by GET /api/markets/:tokenID.
type Snapshot struct {
	TokenID  string          `json:"tokenId"`
	Midpoint decimal.Decimal `json:"midpoint"`
	TickSize decimal.Decimal `json:"tickSize"`
	NegRisk  bool            `json:"negRisk"`
	BestBid  decimal.Decimal `json:"bestBid"`
	BestAsk  decimal.Decimal `json:"bestAsk"`
}

// Snapshot fetches midpoint, metadata and top-of-book for a token.
// Top-of-book fields stay zero when the book is one-sided or unavailable;
// the midpoint endpoint is authoritative for pricing.
func (p *Provider) Snapshot(ctx context.Context, tokenID string) (*Snapshot, error) {
	mid, err := p.Midpoint(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		TokenID:  tokenID,
		Midpoint: mid,
		TickSize: DefaultTickSize,
	}

	meta, err := p.Metadata(ctx, tokenID, false)
	if err == nil {
		snap.TickSize = meta.TickSize
		snap.NegRisk = meta.NegRisk
	}

	book, err := p.clob.GetOrderBook(ctx, tokenID)
	if err != nil {
		logger.Warnf("order book lookup failed for %s: %v", tokenID, err)
		return snap, nil
	}
	snap.BestBid = bestLevel(book.Bids, true)
	snap.BestAsk = bestLevel(book.Asks, false)

	return snap, nil
}

// bestLevel picks the best price out of one side of the book. The venue
// does not guarantee ordering, so scan the lot.
func bestLevel(levels []types.OrderSummary, highest bool) decimal.Decimal {
	best := decimal.Zero
	for _, lvl := range levels {
		price, err := decimal.NewFromString(lvl.Price)
		if err != nil {
			continue
		}
		if best.IsZero() || (highest && price.GreaterThan(best)) || (!highest && price.LessThan(best)) {
			best = price
		}
	}
	return best
}
