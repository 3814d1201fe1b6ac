// Package charts renders PNG charts of the portfolio's performance.
package charts

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vicanso/go-charts/v2"

	"github.com/aristath/stockfolio/internal/modules/analytics"
	"github.com/aristath/stockfolio/pkg/formulas"
)

// Service renders portfolio charts from the analytics daily return series
type Service struct {
	analytics *analytics.Service
	log       zerolog.Logger
}

// NewService creates a new chart service
func NewService(analyticsService *analytics.Service, log zerolog.Logger) *Service {
	return &Service{
		analytics: analyticsService,
		log:       log.With().Str("service", "charts").Logger(),
	}
}

// PortfolioChart renders the cumulative portfolio return as a PNG line chart
func (s *Service) PortfolioChart() ([]byte, error) {
	series, err := s.analytics.DailyReturns()
	if err != nil {
		return nil, fmt.Errorf("failed to load daily returns: %w", err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no return history to chart")
	}

	returns := make([]float64, len(series))
	for i, point := range series {
		returns[i] = point.Return
	}
	cumulative := formulas.CumulativeReturns(returns)

	values := make([]float64, len(cumulative))
	xLabels := make([]string, len(cumulative))
	for i, cum := range cumulative {
		values[i] = cum * 100
		xLabels[i] = dateLabel(series[i].Date, len(series))
	}

	minVal, maxVal := values[0], values[0]
	for _, val := range values {
		if val < minVal {
			minVal = val
		}
		if val > maxVal {
			maxVal = val
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = 1
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	title := fmt.Sprintf("Portfolio Cumulative Return\n%s to %s", series[0].Date, series[len(series)-1].Date)

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return buf, nil
}

// dateLabel shortens the axis labels as the series grows: day-level labels
// for short windows, month and year for long ones.
func dateLabel(date string, total int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if total <= 60 {
		return t.Format("Jan 02")
	}
	return t.Format("Jan '06")
}
