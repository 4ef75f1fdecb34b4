package fds

import (
	"github.com/google/uuid"
)

// IngestResult summarizes an ingestion batch.
type IngestResult struct {
	Trades  []Trade `json:"trades"`
	Skipped int     `json:"skipped"`
}

// IngestTrades normalizes a batch of provider trade records, completes the
// partial output (totalUsd from amount and price, zero fee) and persists
// the canonical trades. Records the normalizer cannot map, or that the
// store rejects, are skipped and recorded as diagnostics so one malformed
// provider row cannot poison a batch. Re-ingesting an already stored trade
// is a no-op.
func (c *Core) IngestTrades(raws []RawTrade) (IngestResult, error) {
	result := IngestResult{Trades: []Trade{}}
	for _, raw := range raws {
		partial, err := NormalizeTrade(raw)
		if err != nil {
			c.logger.Warn("skipping unmappable trade record", "tx_hash", raw.TxHash, "err", err)
			c.recordDiagnostic("normalizer", ErrCodeNormalizationGap, err.Error())
			result.Skipped++
			continue
		}

		trade := completeTrade(partial)
		if err := c.AddTrade(trade); err != nil {
			if IsErrorCode(err, ErrCodeDuplicate) {
				result.Skipped++
				continue
			}
			if IsErrorCode(err, ErrCodeValidation) {
				c.logger.Warn("skipping invalid trade record", "id", trade.ID, "err", err)
				c.recordDiagnostic("ingest", ErrCodeValidation, err.Error())
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Trades = append(result.Trades, trade)
	}
	return result, nil
}

// completeTrade fills the fields the provider payload cannot supply.
func completeTrade(p PartialTrade) Trade {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	total := Amount{NewAmount(p.Amount).Mul(NewAmount(p.Price).Decimal)}
	return Trade{
		ID:       id,
		Date:     p.Date,
		Symbol:   p.Symbol,
		Side:     p.Side,
		Amount:   p.Amount,
		Price:    p.Price,
		TotalUsd: total.InexactFloat64(),
		FeeUsd:   0,
		Status:   p.Status,
	}
}

// RefreshPositions normalizes a batch of provider position records and
// replaces the DeFi position collection wholesale. Unmappable records are
// skipped with a diagnostic; the remainder still replaces the collection.
func (c *Core) RefreshPositions(raws []RawPosition) ([]DefiPosition, error) {
	positions := make([]DefiPosition, 0, len(raws))
	for _, raw := range raws {
		partial, err := NormalizePosition(raw)
		if err != nil {
			c.logger.Warn("skipping unmappable position record", "protocol", raw.ProtocolID, "err", err)
			c.recordDiagnostic("normalizer", ErrCodeNormalizationGap, err.Error())
			continue
		}
		positions = append(positions, DefiPosition{
			ID:       partial.ID,
			Protocol: partial.Protocol,
			Chain:    partial.Chain,
			Asset:    partial.Asset,
			Type:     partial.Type,
			Amount:   partial.Amount,
			UsdValue: partial.UsdValue,
		})
	}
	if err := c.ReplacePositions(positions); err != nil {
		return nil, err
	}
	return positions, nil
}
