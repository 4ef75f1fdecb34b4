package fds

// Notion database names. The property layout per database is a published
// external contract, versioned independently of the spreadsheet export.
const (
	NotionPortfolioMetrics = "Portfolio Metrics"
	NotionTradeLog         = "Trade Log"
	NotionRiskAlerts       = "Risk Alerts"
	NotionJournal          = "AI Performance Journal"
)

// Property envelopes follow the Notion page-property vocabulary. The
// envelope per field is fixed by the field's semantic kind, never chosen
// by runtime type inspection.
// https://developers.notion.com/reference/page-property-values

// DateProperty wraps a calendar date.
type DateProperty struct {
	Date DateValue `json:"date"`
}

// DateValue is the inner date payload.
type DateValue struct {
	Start string `json:"start"`
}

// NumberProperty wraps a numeric value.
type NumberProperty struct {
	Number float64 `json:"number"`
}

// SelectProperty wraps an enumeration value.
type SelectProperty struct {
	Select SelectOption `json:"select"`
}

// SelectOption is the inner select payload.
type SelectOption struct {
	Name string `json:"name"`
}

// TitleProperty wraps short text used as the page title.
type TitleProperty struct {
	Title []TextFragment `json:"title"`
}

// RichTextProperty wraps long-form text.
type RichTextProperty struct {
	RichText []TextFragment `json:"rich_text"`
}

// TextFragment is a single text run.
type TextFragment struct {
	Text TextContent `json:"text"`
}

// TextContent holds the literal text.
type TextContent struct {
	Content string `json:"content"`
}

// NotionPage maps property names to typed property envelopes.
type NotionPage map[string]any

// NotionExport maps database names to ordered page sequences.
type NotionExport map[string][]NotionPage

func dateProp(day string) DateProperty {
	return DateProperty{Date: DateValue{Start: day}}
}

func numberProp(n float64) NumberProperty {
	return NumberProperty{Number: n}
}

func selectProp(name string) SelectProperty {
	return SelectProperty{Select: SelectOption{Name: name}}
}

func titleProp(content string) TitleProperty {
	return TitleProperty{Title: []TextFragment{{Text: TextContent{Content: content}}}}
}

func richTextProp(content string) RichTextProperty {
	return RichTextProperty{RichText: []TextFragment{{Text: TextContent{Content: content}}}}
}

// BuildNotionExport projects the canonical dataset onto the nested
// property-typed page schema. Pure function of its input; no code shared
// with the tabular export.
func BuildNotionExport(data *Dataset) NotionExport {
	export := NotionExport{
		NotionPortfolioMetrics: make([]NotionPage, 0, len(data.Snapshots)),
		NotionTradeLog:         make([]NotionPage, 0, len(data.Trades)),
		NotionRiskAlerts:       make([]NotionPage, 0, len(data.Alerts)),
		NotionJournal:          make([]NotionPage, 0, len(data.Journal)),
	}

	for _, s := range data.Snapshots {
		export[NotionPortfolioMetrics] = append(export[NotionPortfolioMetrics], NotionPage{
			"Date":        dateProp(s.Date),
			"Total Value": numberProp(s.TotalValue),
			"Risk Status": selectProp(s.RiskStatus),
			"Drawdown":    numberProp(s.DrawdownPct),
		})
	}

	for _, t := range data.Trades {
		export[NotionTradeLog] = append(export[NotionTradeLog], NotionPage{
			"Date":   dateProp(t.Date),
			"Symbol": titleProp(t.Symbol),
			"Side":   selectProp(t.Side),
			"Price":  numberProp(t.Price),
			"Amount": numberProp(t.Amount),
		})
	}

	for _, a := range data.Alerts {
		export[NotionRiskAlerts] = append(export[NotionRiskAlerts], NotionPage{
			"Date":     dateProp(a.Date),
			"Message":  titleProp(a.Message),
			"Type":     selectProp(a.Type),
			"Severity": selectProp(a.Severity),
		})
	}

	for _, j := range data.Journal {
		export[NotionJournal] = append(export[NotionJournal], NotionPage{
			"Entry Date":       dateProp(j.Date),
			"Summary":          richTextProp(j.Summary),
			"Risk Commentary":  richTextProp(j.RiskCommentary),
			"Discipline Notes": richTextProp(j.DisciplineNotes),
			"Tomorrow Focus":   richTextProp(j.TomorrowFocus),
		})
	}

	return export
}
