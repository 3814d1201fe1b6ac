package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
)

func TestPeriodReturns_OneDay(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 110),
	}

	result := PeriodReturns(bars, []string{"AAA"}, []string{"1D"})

	assert.Contains(t, result, "AAA")
	assert.Equal(t, 10.00, result["AAA"]["1D"])
}

func TestPeriodReturns_FlatPricesAreZero(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 100),
		bar("AAA", "2024-01-04", 100),
	}

	result := PeriodReturns(bars, []string{"AAA"}, []string{"1D", "1W"})
	assert.Equal(t, 0.00, result["AAA"]["1D"])
	assert.Equal(t, 0.00, result["AAA"]["1W"])
}

func TestPeriodReturns_UnresolvablePeriodDefaultsToZero(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-03", 110),
	}

	// With one trading day, MTD's target (Jan 1) has no trading day at or
	// before it.
	result := PeriodReturns(bars, []string{"AAA"}, []string{"MTD"})
	assert.Equal(t, 0.0, result["AAA"]["MTD"])
}

func TestPeriodReturns_ZeroTargetPriceDefaultsToZero(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 0),
		bar("AAA", "2024-01-03", 110),
	}

	result := PeriodReturns(bars, []string{"AAA"}, []string{"1D"})
	assert.Equal(t, 0.0, result["AAA"]["1D"])
}

func TestPeriodReturns_SymbolWithoutBarsIsOmitted(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 110),
	}

	result := PeriodReturns(bars, []string{"AAA", "ZZZ"}, []string{"1D"})
	assert.Contains(t, result, "AAA")
	assert.NotContains(t, result, "ZZZ")
}

func TestPeriodReturns_SymbolsNormalizedAndDeduplicated(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 110),
	}

	result := PeriodReturns(bars, []string{" aaa ", "AAA"}, []string{"1D"})
	assert.Len(t, result, 1)
	assert.Contains(t, result, "AAA")
}

func TestPeriodReturns_AnchorIsPerPortfolioNotPerSymbol(t *testing.T) {
	// BBB stops trading before AAA; its anchor price is still its own last
	// close, compared against the shared anchor date's period targets.
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 100),
		bar("AAA", "2024-01-04", 120),
		bar("BBB", "2024-01-02", 50),
		bar("BBB", "2024-01-03", 55),
	}

	result := PeriodReturns(bars, []string{"AAA", "BBB"}, []string{"1D"})

	// AAA: anchor 120 vs close on 2024-01-03 (100) = +20%
	assert.Equal(t, 20.00, result["AAA"]["1D"])
	// BBB: anchor 55 vs its last close at or before 2024-01-03 (55) = 0%
	assert.Equal(t, 0.00, result["BBB"]["1D"])
}

func TestPeriodReturns_RepeatedCallsAgree(t *testing.T) {
	bars := []prices.PriceBar{
		bar("AAA", "2024-01-02", 100),
		bar("AAA", "2024-01-03", 110),
		bar("BBB", "2024-01-02", 50),
		bar("BBB", "2024-01-03", 45),
	}
	symbols := []string{"AAA", "BBB"}
	periods := []string{"1D", "1W", "MTD"}

	first := PeriodReturns(bars, symbols, periods)
	second := PeriodReturns(bars, symbols, periods)
	assert.Equal(t, first, second)
}

func TestDailyPortfolioValues(t *testing.T) {
	table := []DailyPosition{
		{Date: "2024-01-02", Symbol: "AAA", MarketValue: 1000},
		{Date: "2024-01-02", Symbol: "BBB", MarketValue: 500},
		{Date: "2024-01-03", Symbol: "AAA", MarketValue: 1100},
	}

	dates, values := DailyPortfolioValues(table)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, dates)
	assert.Equal(t, []float64{1500, 1100}, values)
}

func TestDailyPortfolioReturns_Lookback(t *testing.T) {
	trades := []trading.Trade{
		tradeAt("AAA", trading.SideBuy, 10, 100, "2024-01-01"),
	}
	bars := []prices.PriceBar{}
	for day := 1; day <= 9; day++ {
		bars = append(bars, bar("AAA", "2024-01-0"+string(rune('0'+day)), float64(100+day)))
	}
	// Extend the grid to the last bar day with a second trade.
	trades = append(trades, tradeAt("AAA", trading.SideBuy, 1, 109, "2024-01-09"))

	table := BuildDailyPositions(trades, bars)
	dates, returns := DailyPortfolioReturns(table, 3)

	assert.Len(t, dates, 3)
	assert.Len(t, returns, 3)
	assert.Equal(t, "2024-01-09", dates[len(dates)-1])
}
