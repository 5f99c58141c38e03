package cases

import "time"

// DayCount is the number of cases registered on one calendar day.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Stats is the dashboard summary derived from a visible case set.
type Stats struct {
	TotalCount   int            `json:"total_count"`
	OwnedCount   int            `json:"owned_count"`
	PublicCount  int            `json:"public_count"`
	ActiveCount  int            `json:"active_count"`
	CasesPerDay  []DayCount     `json:"cases_per_day"`
	StatusCounts map[Status]int `json:"status_counts"`
}

// Summarize computes the dashboard statistics for a visible case set. It is a
// pure function of its inputs and holds no state between calls.
//
// CasesPerDay covers the trailing windowDays calendar days ending at now, in
// chronological order, bucketed by CreatedAt; days without cases report 0.
func Summarize(p Principal, visible []Case, now time.Time, windowDays int) Stats {
	stats := Stats{
		TotalCount:   len(visible),
		StatusCounts: make(map[Status]int),
	}

	for _, c := range visible {
		if c.OwnerID == p.ID {
			stats.OwnedCount++
		}
		if c.IsPublic {
			stats.PublicCount++
		}
		if c.Status == StatusActive {
			stats.ActiveCount++
		}
		stats.StatusCounts[c.Status]++
	}

	if windowDays <= 0 {
		return stats
	}

	byDay := make(map[string]int)
	for _, c := range visible {
		byDay[c.CreatedAt.UTC().Format("2006-01-02")]++
	}

	today := now.UTC().Truncate(24 * time.Hour)
	stats.CasesPerDay = make([]DayCount, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		stats.CasesPerDay = append(stats.CasesPerDay, DayCount{
			Date:  day,
			Count: byDay[day],
		})
	}
	return stats
}
