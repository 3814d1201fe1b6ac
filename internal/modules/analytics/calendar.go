package analytics

import (
	"sort"
	"time"

	"github.com/aristath/stockfolio/internal/modules/prices"
)

const dateLayout = "2006-01-02"

// Calendar is the implied trading calendar of a price history: a calendar
// date is a trading day exactly when at least one price bar exists on it.
type Calendar struct {
	days []string // sorted distinct YYYY-MM-DD dates
}

// NewCalendar derives the trading calendar from the distinct dates of the
// supplied price bars.
func NewCalendar(bars []prices.PriceBar) *Calendar {
	seen := make(map[string]struct{}, len(bars))
	for _, bar := range bars {
		seen[bar.Date] = struct{}{}
	}

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)

	return &Calendar{days: days}
}

// Empty reports whether the calendar has no trading days at all
func (c *Calendar) Empty() bool {
	return len(c.days) == 0
}

// Latest returns the most recent trading day
func (c *Calendar) Latest() (string, bool) {
	if len(c.days) == 0 {
		return "", false
	}
	return c.days[len(c.days)-1], true
}

// IsTradingDay reports whether the given date has a price observation
func (c *Calendar) IsTradingDay(date string) bool {
	i := sort.SearchStrings(c.days, date)
	return i < len(c.days) && c.days[i] == date
}

// ShiftTradingDays moves n trading days strictly backward from date, using
// only known trading days. When fewer than n trading days exist before date,
// the earliest known trading day is returned.
func (c *Calendar) ShiftTradingDays(date string, n int) (string, bool) {
	if len(c.days) == 0 {
		return "", false
	}

	// Number of trading days strictly before date.
	before := sort.SearchStrings(c.days, date)

	idx := before - n
	if idx < 0 {
		idx = 0
	}
	return c.days[idx], true
}

// SnapToTradingDay returns date itself when it is a trading day, otherwise
// the latest trading day strictly before it. The second return is false when
// no such day exists.
func (c *Calendar) SnapToTradingDay(date string) (string, bool) {
	i := sort.SearchStrings(c.days, date)
	if i < len(c.days) && c.days[i] == date {
		return date, true
	}
	if i == 0 {
		return "", false
	}
	return c.days[i-1], true
}

// TargetDate resolves a period label to its comparison date relative to the
// anchor. Day-count periods (1D, 1W, 2W) step backward over trading days;
// calendar periods subtract a calendar interval and snap backward to a
// trading day.
func (c *Calendar) TargetDate(anchor string, period string) (string, bool) {
	anchorTime, err := time.Parse(dateLayout, anchor)
	if err != nil {
		return "", false
	}

	switch period {
	case "1D":
		return c.ShiftTradingDays(anchor, 1)
	case "1W":
		return c.ShiftTradingDays(anchor, 5)
	case "2W":
		return c.ShiftTradingDays(anchor, 10)
	case "1M":
		return c.SnapToTradingDay(addMonthsClamped(anchorTime, -1).Format(dateLayout))
	case "3M":
		return c.SnapToTradingDay(addMonthsClamped(anchorTime, -3).Format(dateLayout))
	case "6M":
		return c.SnapToTradingDay(addMonthsClamped(anchorTime, -6).Format(dateLayout))
	case "1Y":
		return c.SnapToTradingDay(addMonthsClamped(anchorTime, -12).Format(dateLayout))
	case "MTD":
		firstOfMonth := time.Date(anchorTime.Year(), anchorTime.Month(), 1, 0, 0, 0, 0, time.UTC)
		return c.SnapToTradingDay(firstOfMonth.Format(dateLayout))
	case "YTD":
		firstOfYear := time.Date(anchorTime.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return c.SnapToTradingDay(firstOfYear.Format(dateLayout))
	default:
		return "", false
	}
}

// addMonthsClamped shifts a date by whole months, clamping the day of month
// to the target month's length (Mar 31 minus one month is Feb 28/29, not
// Mar 3 as time.AddDate would normalize it to).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}
