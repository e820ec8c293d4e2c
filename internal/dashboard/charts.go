package dashboard

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"data-warehouse-dashboard/internal/analytics"
)

// Series is a chart-ready dataset: one label, value and color per point.
type Series struct {
	Labels []string
	Values []float64
	Colors []string
}

// Empty reports whether the series has nothing to draw. Renderers show a
// no-data state for an empty series instead of failing.
func (s Series) Empty() bool {
	return len(s.Labels) == 0
}

// MultiSeries carries several datasets over a shared label axis (the
// activity-trends line chart).
type MultiSeries struct {
	Labels   []string
	Datasets []Dataset
}

type Dataset struct {
	Label  string
	Values []float64
}

func (m MultiSeries) Empty() bool {
	return len(m.Labels) == 0
}

// maxLabelLen caps axis labels and tooltip text before truncation kicks in.
// Both use truncateLabel so they stay in sync.
const maxLabelLen = 15

var palette = []string{
	"rgba(255, 99, 132, 0.8)",
	"rgba(54, 162, 235, 0.8)",
	"rgba(255, 205, 86, 0.8)",
	"rgba(75, 192, 192, 0.8)",
	"rgba(153, 102, 255, 0.8)",
	"rgba(255, 159, 64, 0.8)",
	"rgba(199, 199, 199, 0.8)",
	"rgba(83, 102, 255, 0.8)",
	"rgba(255, 99, 255, 0.8)",
	"rgba(99, 255, 132, 0.8)",
}

// Load-time buckets: fast under 200ms, medium under 300ms, slow otherwise.
const (
	loadTimeFast   = "rgba(76, 175, 80, 0.8)"
	loadTimeMedium = "rgba(255, 193, 7, 0.8)"
	loadTimeSlow   = "rgba(244, 67, 54, 0.8)"
)

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) > maxLabelLen {
		return string(r[:maxLabelLen]) + "..."
	}
	return s
}

func paletteColor(i int) string {
	return palette[i%len(palette)]
}

// MonthlySeries builds the users-per-month bar chart: "Jan 24" style labels
// over registration counts.
func MonthlySeries(rows []analytics.MonthlyCount) Series {
	var s Series
	for _, row := range rows {
		label := row.Month
		if t, err := time.Parse("2006-01", row.Month); err == nil {
			label = t.Format("Jan 06")
		}
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, float64(row.Count))
		s.Colors = append(s.Colors, palette[1])
	}
	return s
}

// CountrySeries builds the users-by-country doughnut chart.
func CountrySeries(rows []analytics.CountryCount) Series {
	var s Series
	for i, row := range rows {
		s.Labels = append(s.Labels, truncateLabel(row.Country))
		s.Values = append(s.Values, float64(row.Count))
		s.Colors = append(s.Colors, paletteColor(i))
	}
	return s
}

// TrendsSeries builds the three-line activity chart. Labels come from the
// user-registration series; each dataset keeps its own length since the
// three windows are independent.
func TrendsSeries(trends analytics.ActivityTrends) MultiSeries {
	var m MultiSeries
	for _, p := range trends.UserTrends {
		m.Labels = append(m.Labels, trendLabel(p.Date))
	}

	users := Dataset{Label: "User Registrations"}
	for _, p := range trends.UserTrends {
		users.Values = append(users.Values, float64(p.UserCount))
	}
	txs := Dataset{Label: "Transactions"}
	for _, p := range trends.TransactionTrends {
		txs.Values = append(txs.Values, float64(p.TransactionCount))
	}
	revenue := Dataset{Label: "Revenue ($)"}
	for _, p := range trends.RevenueTrends {
		revenue.Values = append(revenue.Values, p.TotalAmount)
	}

	if len(users.Values) > 0 || len(txs.Values) > 0 || len(revenue.Values) > 0 {
		m.Datasets = []Dataset{users, txs, revenue}
	}
	return m
}

func trendLabel(date string) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("Jan 2")
	}
	return date
}

// PerformanceSeries builds the top-products bar chart with truncated
// product names.
func PerformanceSeries(rows []analytics.ProductPerformance) Series {
	var s Series
	for i, row := range rows {
		s.Labels = append(s.Labels, truncateLabel(row.ProductName))
		s.Values = append(s.Values, row.TotalRevenue)
		s.Colors = append(s.Colors, paletteColor(i))
	}
	return s
}

// PerformanceTooltip renders the tooltip lines for one product bar. The
// product name is truncated to the same length as the axis label.
func PerformanceTooltip(rows []analytics.ProductPerformance, i int) []string {
	if i < 0 || i >= len(rows) {
		return nil
	}
	row := rows[i]
	category := "Uncategorized"
	if row.Category != nil {
		category = *row.Category
	}
	return []string{
		fmt.Sprintf("Product: %s", truncateLabel(row.ProductName)),
		fmt.Sprintf("Revenue: $%.2f", row.TotalRevenue),
		fmt.Sprintf("Sales Count: %d", row.SalesCount),
		fmt.Sprintf("Category: %s", category),
		fmt.Sprintf("Avg Order: $%.2f", row.AvgOrderValue),
	}
}

// CategorySeries builds the product-categories doughnut chart.
func CategorySeries(rows []analytics.CategoryPerformance) Series {
	var s Series
	for i, row := range rows {
		s.Labels = append(s.Labels, truncateLabel(row.Category))
		s.Values = append(s.Values, row.TotalRevenue)
		s.Colors = append(s.Colors, paletteColor(i))
	}
	return s
}

// SortedLoadTimes returns a copy ordered fastest page first. The chart and
// its tooltips both index this order.
func SortedLoadTimes(rows []analytics.LoadTimeMetric) []analytics.LoadTimeMetric {
	sorted := make([]analytics.LoadTimeMetric, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoadTimeMS < sorted[j].LoadTimeMS
	})
	return sorted
}

// LoadTimeSeries builds the load-time bar chart from an already-sorted
// slice, coloring bars by performance bucket.
func LoadTimeSeries(sorted []analytics.LoadTimeMetric) Series {
	var s Series
	for _, row := range sorted {
		s.Labels = append(s.Labels, truncateLabel(row.Page))
		s.Values = append(s.Values, float64(row.LoadTimeMS))
		s.Colors = append(s.Colors, loadTimeColor(row.LoadTimeMS))
	}
	return s
}

func LoadTimeTooltip(sorted []analytics.LoadTimeMetric, i int) []string {
	if i < 0 || i >= len(sorted) {
		return nil
	}
	row := sorted[i]
	performance := "Slow"
	switch {
	case row.LoadTimeMS < 200:
		performance = "Fast"
	case row.LoadTimeMS < 300:
		performance = "Medium"
	}
	return []string{
		fmt.Sprintf("Page: %s", truncateLabel(row.Page)),
		fmt.Sprintf("Load Time: %dms", row.LoadTimeMS),
		fmt.Sprintf("Performance: %s", performance),
		fmt.Sprintf("Avg Load Time: %dms", row.AvgLoadTimeMS),
		fmt.Sprintf("Requests: %d", row.Requests),
		fmt.Sprintf("Page Size: %dKB", row.PageSizeKB),
	}
}

func loadTimeColor(ms int) string {
	switch {
	case ms < 200:
		return loadTimeFast
	case ms < 300:
		return loadTimeMedium
	default:
		return loadTimeSlow
	}
}

// ChartHandle is a live chart instance as produced by the drawing layer.
type ChartHandle interface {
	Dispose()
}

// ChartSlot owns at most one live chart instance. Re-rendering disposes
// the prior instance before constructing the new one, so a slot can never
// leak handles or stack duplicate overlays.
type ChartSlot struct {
	mu     sync.Mutex
	active ChartHandle
}

// Render replaces the slot's chart with the one built by build. When build
// fails the slot is left empty.
func (s *ChartSlot) Render(build func() (ChartHandle, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.Dispose()
		s.active = nil
	}

	h, err := build()
	if err != nil {
		return err
	}
	s.active = h
	return nil
}

func (s *ChartSlot) Rendered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *ChartSlot) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Dispose()
		s.active = nil
	}
}
