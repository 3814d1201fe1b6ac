package analytics

import (
	"sort"
	"time"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
)

// priceIndex groups bars per symbol, sorted by date, for last-observed-value
// lookups.
type priceIndex map[string][]prices.PriceBar

func buildPriceIndex(bars []prices.PriceBar) priceIndex {
	index := make(priceIndex)
	for _, bar := range bars {
		index[bar.Symbol] = append(index[bar.Symbol], bar)
	}
	for symbol := range index {
		symbolBars := index[symbol]
		sort.Slice(symbolBars, func(i, j int) bool { return symbolBars[i].Date < symbolBars[j].Date })
	}
	return index
}

// lastCloseOnOrBefore returns the most recent close for symbol with a date
// at or before the given day. Data after the day is never consulted.
func (ix priceIndex) lastCloseOnOrBefore(symbol, date string) (float64, bool) {
	symbolBars := ix[symbol]
	i := sort.Search(len(symbolBars), func(i int) bool { return symbolBars[i].Date > date })
	if i == 0 {
		return 0, false
	}
	return symbolBars[i-1].Close, true
}

// BuildDailyPositions reconstructs the dense daily holdings table from a
// trade ledger and a price history.
//
// Trade deltas are bucketed per (calendar day, symbol); every day between the
// first and last trade day is materialized for every traded symbol, and the
// held quantity is the running sum of deltas up to that day. Each row is
// valued at the last observed close at or before its day; rows with no
// eligible price bar are dropped (a valueless position would corrupt the
// weights). Weights are market value over the day's total, or 0 when the
// total is not positive.
func BuildDailyPositions(trades []trading.Trade, bars []prices.PriceBar) []DailyPosition {
	deltas := make(map[string]map[string]float64) // day -> symbol -> quantity delta
	symbolSet := make(map[string]struct{})
	var minDay, maxDay string

	for _, trade := range trades {
		delta := trade.SignedQuantity()
		if delta == 0 {
			// Dividends carry no position change and don't define the grid.
			continue
		}

		day := trade.Date()
		if deltas[day] == nil {
			deltas[day] = make(map[string]float64)
		}
		deltas[day][trade.Symbol] += delta
		symbolSet[trade.Symbol] = struct{}{}

		if minDay == "" || day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	if len(symbolSet) == 0 {
		return []DailyPosition{}
	}

	symbols := make([]string, 0, len(symbolSet))
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	index := buildPriceIndex(bars)

	start, err := time.Parse(dateLayout, minDay)
	if err != nil {
		return []DailyPosition{}
	}
	end, err := time.Parse(dateLayout, maxDay)
	if err != nil {
		return []DailyPosition{}
	}

	cumulative := make(map[string]float64, len(symbols))
	var table []DailyPosition

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		dayRows := make([]DailyPosition, 0, len(symbols))
		totalValue := 0.0

		for _, symbol := range symbols {
			if dayDeltas := deltas[date]; dayDeltas != nil {
				cumulative[symbol] += dayDeltas[symbol]
			}

			close, ok := index.lastCloseOnOrBefore(symbol, date)
			if !ok {
				continue
			}

			marketValue := cumulative[symbol] * close
			dayRows = append(dayRows, DailyPosition{
				Date:        date,
				Symbol:      symbol,
				Quantity:    cumulative[symbol],
				Close:       close,
				MarketValue: marketValue,
			})
			totalValue += marketValue
		}

		if totalValue > 0 {
			for i := range dayRows {
				dayRows[i].Weight = dayRows[i].MarketValue / totalValue
			}
		}

		table = append(table, dayRows...)
	}

	return table
}

// TruncatePositions keeps only the rows within the trailing lookback window
// of calendar days, measured from the table's latest date. A non-positive
// lookback returns the table unchanged.
func TruncatePositions(table []DailyPosition, lookbackDays int) []DailyPosition {
	if lookbackDays <= 0 || len(table) == 0 {
		return table
	}

	latest := table[len(table)-1].Date
	latestTime, err := time.Parse(dateLayout, latest)
	if err != nil {
		return table
	}
	cutoff := latestTime.AddDate(0, 0, -lookbackDays).Format(dateLayout)

	truncated := make([]DailyPosition, 0, len(table))
	for _, row := range table {
		if row.Date >= cutoff {
			truncated = append(truncated, row)
		}
	}
	return truncated
}
