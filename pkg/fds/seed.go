package fds

import (
	"fmt"
	"math"
	"time"
)

const (
	seedDays     = 14
	seedStartNav = 100000.0
	seedPeakNav  = 105000.0
)

// GenerateSeedDataset builds a deterministic demo dataset covering the 14
// days ending at today. The NAV walk is sin/cos-driven, so the same anchor
// day always produces the same dataset.
func GenerateSeedDataset(today time.Time) *Dataset {
	data := &Dataset{
		Snapshots:     []PortfolioSnapshot{},
		Trades:        []Trade{},
		DefiPositions: []DefiPosition{},
		Alerts:        []RiskAlert{},
		Journal:       []JournalEntry{},
	}

	nav := seedStartNav
	for i := seedDays - 1; i >= 0; i-- {
		date := today.UTC().AddDate(0, 0, -i).Format(dayLayout)
		fi := float64(i)

		dailyChangePct := math.Sin(fi) * 2 / 100
		if i%3 == 0 {
			dailyChangePct -= 1.5 / 100
		} else {
			dailyChangePct += 0.5 / 100
		}
		pnlUsd := nav * dailyChangePct
		nav += pnlUsd

		cashRatio := 0.2 + math.Cos(fi)*0.1
		totalValue := round2(nav)
		cashBalance := round2(nav * cashRatio)
		positionsValue := round2(totalValue - cashBalance)

		drawdownPct := round2(math.Max(0, (seedPeakNav-nav)/seedPeakNav*100))
		riskStatus := RiskStatusSafe
		if drawdownPct > 10 {
			riskStatus = RiskStatusCritical
		} else if drawdownPct > 5 {
			riskStatus = RiskStatusWarning
		}

		data.Snapshots = append(data.Snapshots, PortfolioSnapshot{
			ID:             fmt.Sprintf("snap-%d", i),
			Date:           date,
			TotalValue:     totalValue,
			CashBalance:    cashBalance,
			PositionsValue: positionsValue,
			PnlUsd:         round2(pnlUsd),
			PnlPct:         round2(dailyChangePct * 100),
			DrawdownPct:    drawdownPct,
			RiskStatus:     riskStatus,
		})

		if i%2 == 0 {
			symbol := "SOL-USD"
			price := 140 + fi
			if i%4 == 0 {
				symbol = "ETH-USD"
				price = 2500 + fi*10
			}
			side := SideSell
			if dailyChangePct > 0 {
				side = SideBuy
			}
			amount := math.Round((1.5+math.Abs(math.Sin(fi))*8)*10000) / 10000
			data.Trades = append(data.Trades, Trade{
				ID:       fmt.Sprintf("trade-%d-1", i),
				Date:     date,
				Symbol:   symbol,
				Side:     side,
				Amount:   amount,
				Price:    price,
				TotalUsd: round2(amount * price),
				FeeUsd:   5,
				Status:   "FILLED",
			})
		}

		if riskStatus != RiskStatusSafe {
			data.Alerts = append(data.Alerts, RiskAlert{
				ID:       AlertID(AlertDrawdown, riskStatus, date),
				Date:     date,
				Type:     AlertDrawdown,
				Severity: riskStatus,
				Message:  fmt.Sprintf("Drawdown limit breached: %.2f%%", drawdownPct),
			})
		}

		summary := "Choppy market, stayed defensive."
		if dailyChangePct > 0 {
			summary = "Market trended up, captured volatility."
		}
		riskCommentary := "Exposure managed well."
		if riskStatus != RiskStatusSafe {
			riskCommentary = "Drawdown nearing limits, need to hedge."
		}
		data.Journal = append(data.Journal, JournalEntry{
			ID:              fmt.Sprintf("journal-%d", i),
			Date:            date,
			Summary:         summary,
			RiskCommentary:  riskCommentary,
			DisciplineNotes: "Followed plan.",
			TomorrowFocus:   "Watch ETH resistance levels.",
		})
	}

	data.DefiPositions = append(data.DefiPositions,
		DefiPosition{
			ID:           "pos-1",
			Protocol:     "Aave V3",
			Chain:        "Arbitrum",
			Asset:        "USDC",
			Type:         PositionLending,
			Amount:       50000,
			UsdValue:     50000,
			Apy:          4.5,
			HealthFactor: floatPtr(1.8),
		},
		DefiPosition{
			ID:       "pos-2",
			Protocol: "Uniswap V3",
			Chain:    "Mainnet",
			Asset:    "ETH/USDC",
			Type:     PositionLP,
			Amount:   1.5,
			UsdValue: 3500,
			Apy:      12.4,
		},
	)

	return data
}

// SeedDemoData populates an empty store with the demo dataset. It is a
// no-op when snapshots already exist.
func (c *Core) SeedDemoData() error {
	latest, err := c.LatestSnapshot()
	if err != nil {
		return err
	}
	if latest != nil {
		return nil
	}

	data := GenerateSeedDataset(time.Now())
	for _, s := range data.Snapshots {
		if err := c.AddSnapshot(s); err != nil {
			return err
		}
	}
	for _, t := range data.Trades {
		if err := c.AddTrade(t); err != nil {
			return err
		}
	}
	if err := c.ReplacePositions(data.DefiPositions); err != nil {
		return err
	}
	if err := c.saveAlerts(data.Alerts); err != nil {
		return err
	}
	for _, j := range data.Journal {
		if err := c.AddJournalEntry(j); err != nil {
			return err
		}
	}
	c.logger.Info("seeded demo data",
		"snapshots", len(data.Snapshots),
		"trades", len(data.Trades),
		"positions", len(data.DefiPositions),
		"alerts", len(data.Alerts),
		"journal", len(data.Journal))
	return nil
}
