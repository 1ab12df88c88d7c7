package portfolio

import (
	"time"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// rebalanceIndexes marks the positions in the date index where holdings
// reset to target weights. Weekly and monthly schedules pick the last
// available trading date inside each calendar period that exists in the
// index; daily marks every date.
func rebalanceIndexes(dates []time.Time, schedule contracts.RebalanceSchedule) map[int]bool {
	out := make(map[int]bool, len(dates))

	switch schedule {
	case contracts.RebalanceDaily:
		for i := range dates {
			out[i] = true
		}
	case contracts.RebalanceWeekly, contracts.RebalanceMonthly:
		for i := range dates {
			if i == len(dates)-1 || periodKey(dates[i+1], schedule) != periodKey(dates[i], schedule) {
				out[i] = true
			}
		}
	}
	return out
}

// periodKey buckets a date into its calendar period.
func periodKey(d time.Time, schedule contracts.RebalanceSchedule) int {
	if schedule == contracts.RebalanceWeekly {
		year, week := d.ISOWeek()
		return year*100 + week
	}
	return d.Year()*100 + int(d.Month())
}
