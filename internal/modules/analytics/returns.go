package analytics

import (
	"strings"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/pkg/formulas"
)

// PeriodReturns computes each symbol's percentage price return over the
// requested period labels.
//
// The anchor for every calculation is the latest trading date observed in
// the (filtered) price history; each symbol is compared from its own latest
// close back to its last close at or before the period's target date.
// Unresolvable periods, missing history at the target and zero target prices
// all record 0.0; symbols with no price bars at all (or a zero anchor price)
// are omitted from the result since no comparison anchor exists.
func PeriodReturns(bars []prices.PriceBar, symbols []string, periods []string) map[string]map[string]float64 {
	result := make(map[string]map[string]float64)
	if len(symbols) == 0 || len(bars) == 0 {
		return result
	}

	requested := make(map[string]struct{}, len(symbols))
	ordered := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if _, dup := requested[symbol]; symbol == "" || dup {
			continue
		}
		requested[symbol] = struct{}{}
		ordered = append(ordered, symbol)
	}

	filtered := make([]prices.PriceBar, 0, len(bars))
	for _, bar := range bars {
		if _, ok := requested[bar.Symbol]; ok {
			filtered = append(filtered, bar)
		}
	}

	calendar := NewCalendar(filtered)
	anchorDate, ok := calendar.Latest()
	if !ok {
		return result
	}

	index := buildPriceIndex(filtered)

	for _, symbol := range ordered {
		symbolBars := index[symbol]
		if len(symbolBars) == 0 {
			continue
		}

		anchorPrice := symbolBars[len(symbolBars)-1].Close
		if anchorPrice == 0 {
			continue
		}

		symbolResult := make(map[string]float64, len(periods))
		for _, period := range periods {
			targetDate, ok := calendar.TargetDate(anchorDate, period)
			if !ok {
				symbolResult[period] = 0.0
				continue
			}

			targetPrice, ok := index.lastCloseOnOrBefore(symbol, targetDate)
			if !ok || targetPrice == 0 {
				symbolResult[period] = 0.0
				continue
			}

			symbolResult[period] = formulas.Round((anchorPrice-targetPrice)/targetPrice*100, 2)
		}

		result[symbol] = symbolResult
	}

	return result
}

// DailyPortfolioValues folds the daily position table into the portfolio's
// total market value per date, preserving date order.
func DailyPortfolioValues(table []DailyPosition) (dates []string, values []float64) {
	for _, row := range table {
		if len(dates) == 0 || dates[len(dates)-1] != row.Date {
			dates = append(dates, row.Date)
			values = append(values, 0)
		}
		values[len(values)-1] += row.MarketValue
	}
	return dates, values
}

// DailyPortfolioReturns derives the portfolio's daily fractional return
// series from the position table. The first observation is 0 (no prior day)
// and a zero prior-day value yields 0 rather than a division error. A
// positive lookback keeps only the trailing lookback observations.
func DailyPortfolioReturns(table []DailyPosition, lookback int) (dates []string, returns []float64) {
	dates, values := DailyPortfolioValues(table)
	returns = formulas.PercentChange(values)

	if lookback > 0 && len(returns) > lookback {
		dates = dates[len(dates)-lookback:]
		returns = returns[len(returns)-lookback:]
	}

	return dates, returns
}
