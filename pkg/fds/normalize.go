package fds

import (
	"strings"
)

// chainNames maps provider chain ids to canonical chain labels. Everything
// not listed here falls into the generic L2 bucket; callers needing finer
// resolution extend this table rather than inferring names elsewhere.
var chainNames = map[int]string{
	1: "Mainnet",
}

const defaultChain = "L2"

// ChainName resolves a provider chain id to its canonical label.
func ChainName(chainID int) string {
	if name, ok := chainNames[chainID]; ok {
		return name
	}
	return defaultChain
}

// NormalizeTrade converts a provider trade record into a partial canonical
// trade. The conversion is deterministic: no clock, no randomness.
//
// The provider side token is uppercased and passed through unvalidated;
// values outside buy/sell survive as-is and are the caller's problem.
// Unparseable numeric fields return a NORMALIZATION_GAP error.
func NormalizeTrade(raw RawTrade) (PartialTrade, error) {
	price, err := parseAmount(raw.PriceUsd)
	if err != nil {
		return PartialTrade{}, WrapError(ErrCodeNormalizationGap, "unparseable price_usd", err)
	}
	amount, err := parseAmount(raw.AmountIn)
	if err != nil {
		return PartialTrade{}, WrapError(ErrCodeNormalizationGap, "unparseable amount_in", err)
	}

	return PartialTrade{
		ID:     raw.TxHash,
		Date:   unixDayUTC(raw.Timestamp),
		Symbol: strings.Replace(raw.Pair, "_", "-", 1),
		Side:   strings.ToUpper(raw.Type),
		Price:  price.InexactFloat64(),
		Amount: amount.InexactFloat64(),
		// Provider trades are settled by the time they reach us.
		Status: "FILLED",
	}, nil
}

// NormalizePosition converts a provider position record into a partial
// canonical DeFi position. The scaled integer balance is divided by
// 10^decimals using exact decimal arithmetic before the USD value is
// computed.
func NormalizePosition(raw RawPosition) (PartialPosition, error) {
	balance, err := parseAmount(raw.BalanceRaw)
	if err != nil {
		return PartialPosition{}, WrapError(ErrCodeNormalizationGap, "unparseable balance_raw", err)
	}
	amount := Amount{balance.Shift(int32(-raw.Decimals))}
	usdValue := Amount{amount.Mul(NewAmount(raw.UsdPrice).Decimal)}

	return PartialPosition{
		ID:       raw.ProtocolID + "-" + raw.TokenSymbol,
		Protocol: raw.ProtocolID,
		Chain:    ChainName(raw.ChainID),
		Asset:    raw.TokenSymbol,
		// Provider payloads carry no position kind; LP is the default
		// until protocol-level inference exists.
		Type:     PositionLP,
		Amount:   amount.InexactFloat64(),
		UsdValue: usdValue.InexactFloat64(),
	}, nil
}
