package fds

// Risk status values for a portfolio snapshot.
const (
	RiskStatusSafe     = "SAFE"
	RiskStatusWarning  = "WARNING"
	RiskStatusCritical = "CRITICAL"
)

var RiskStatuses = []string{RiskStatusSafe, RiskStatusWarning, RiskStatusCritical}

// Trade sides and statuses.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

var TradeStatuses = []string{"FILLED", "PENDING", "FAILED"}

// DeFi position types.
const (
	PositionLending = "LENDING"
	PositionLP      = "LP"
	PositionStaking = "STAKING"
)

var PositionTypes = []string{PositionLending, PositionLP, PositionStaking}

// Alert types and severities.
const (
	AlertDrawdown = "DRAWDOWN"
	AlertExposure = "EXPOSURE"
	AlertMargin   = "MARGIN"

	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// PortfolioSnapshot is an immutable point-in-time portfolio record.
// Snapshots are append-only and ordered by date; cashBalance plus
// positionsValue must equal totalValue within floating tolerance.
type PortfolioSnapshot struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	TotalValue     float64 `json:"totalValue"`
	CashBalance    float64 `json:"cashBalance"`
	PositionsValue float64 `json:"positionsValue"`
	PnlUsd         float64 `json:"pnlUsd"`
	PnlPct         float64 `json:"pnlPct"`
	DrawdownPct    float64 `json:"drawdownPct"`
	RiskStatus     string  `json:"riskStatus"`
	Notes          *string `json:"notes,omitempty"`
}

// Trade is a canonical trade record, immutable once created. Symbol uses
// the dash-separated pair notation, e.g. "SOL-USD".
type Trade struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
	TotalUsd float64 `json:"totalUsd"`
	FeeUsd   float64 `json:"feeUsd"`
	Status   string  `json:"status"`
}

// DefiPosition is the current state of a DeFi position. The collection is
// replaced wholesale on refresh, never diffed. HealthFactor is only
// meaningful for LENDING positions.
type DefiPosition struct {
	ID           string   `json:"id"`
	Protocol     string   `json:"protocol"`
	Chain        string   `json:"chain"`
	Asset        string   `json:"asset"`
	Type         string   `json:"type"`
	Amount       float64  `json:"amount"`
	UsdValue     float64  `json:"usdValue"`
	Apy          float64  `json:"apy"`
	HealthFactor *float64 `json:"healthFactor,omitempty"`
}

// RiskAlert is produced by the risk evaluator. The id is a pure function
// of (type, severity, date), so repeated evaluation of identical state
// yields identical alerts.
type RiskAlert struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	Acknowledged bool   `json:"acknowledged"`
}

// JournalEntry is an immutable narrative record, one per day.
type JournalEntry struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Summary         string `json:"summary"`
	RiskCommentary  string `json:"riskCommentary"`
	DisciplineNotes string `json:"disciplineNotes"`
	TomorrowFocus   string `json:"tomorrowFocus"`
}

// RawTrade is a provider-shaped trade record, input to the normalizer only.
type RawTrade struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
	Pair      string `json:"pair"`
	Type      string `json:"type"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	PriceUsd  string `json:"price_usd"`
}

// RawPosition is a provider-shaped position record with a scaled integer
// balance, input to the normalizer only.
type RawPosition struct {
	ProtocolID  string  `json:"protocol_id"`
	ChainID     int     `json:"chain_id"`
	TokenSymbol string  `json:"token_symbol"`
	BalanceRaw  string  `json:"balance_raw"`
	UsdPrice    float64 `json:"usd_price"`
	Decimals    int     `json:"decimals"`
}

// PartialTrade is the normalizer's output for a raw trade. It carries only
// the fields derivable from the provider payload: TotalUsd and FeeUsd are
// left for ingestion to complete. All listed fields are always populated.
type PartialTrade struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

// PartialPosition is the normalizer's output for a raw position. Apy and
// HealthFactor are not derivable from the provider payload.
type PartialPosition struct {
	ID       string  `json:"id"`
	Protocol string  `json:"protocol"`
	Chain    string  `json:"chain"`
	Asset    string  `json:"asset"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	UsdValue float64 `json:"usdValue"`
}

// Dataset is a full canonical data snapshot handed to the export
// projectors. Collections are ordered by date where applicable.
type Dataset struct {
	Snapshots     []PortfolioSnapshot `json:"snapshots"`
	Trades        []Trade             `json:"trades"`
	DefiPositions []DefiPosition      `json:"defiPositions"`
	Alerts        []RiskAlert         `json:"alerts"`
	Journal       []JournalEntry      `json:"journal"`
}
