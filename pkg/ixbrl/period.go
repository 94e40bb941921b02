package ixbrl

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

// SmartLabel renders a human-facing period label ("Q3 2024", "FY2023",
// "TTM") instead of FormattedValue's raw ISO-date rendering. Durations
// are classified by length: >300 days is an annual period, 80-100 days
// is a quarter, 355-375 days measured as a rolling window from a
// non-calendar start is treated as trailing-twelve-months. Unparseable
// or zero-value dates fall back to FormattedValue.
func (p Period) SmartLabel() string {
	if p.Instant != "" {
		t, err := time.Parse(isoDate, p.Instant)
		if err != nil {
			return p.FormattedValue()
		}
		return t.Format("Jan 2, 2006")
	}

	start, errStart := time.Parse(isoDate, p.StartDate)
	end, errEnd := time.Parse(isoDate, p.EndDate)
	if errStart != nil || errEnd != nil {
		return p.FormattedValue()
	}

	days := int(end.Sub(start).Hours() / 24)
	isRollingWindow := days >= 355 && days <= 375 && !(start.Month() == time.January && start.Day() == 1)
	switch {
	case isRollingWindow:
		return "TTM"
	case days > 300:
		return fmt.Sprintf("FY%d", end.Year())
	case days >= 80 && days <= 100:
		return fmt.Sprintf("Q%d %d", quarterOf(end.Month()), end.Year())
	default:
		return p.FormattedValue()
	}
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}
