package fds

// GetDataset assembles the full canonical dataset for the export
// projectors. The projectors themselves are pure; this is the single read
// path that feeds them.
func (c *Core) GetDataset() (*Dataset, error) {
	snapshots, err := c.GetSnapshots(DateRangeFilter{})
	if err != nil {
		return nil, err
	}
	trades, err := c.GetTrades(TradeFilter{})
	if err != nil {
		return nil, err
	}
	positions, err := c.GetPositions()
	if err != nil {
		return nil, err
	}
	alerts, err := c.GetAlerts(AlertFilter{})
	if err != nil {
		return nil, err
	}
	journal, err := c.GetJournal(DateRangeFilter{})
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Snapshots:     snapshots,
		Trades:        trades,
		DefiPositions: positions,
		Alerts:        alerts,
		Journal:       journal,
	}, nil
}
