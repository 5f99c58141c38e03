package cases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(now time.Time, daysAgo int) time.Time {
	return now.UTC().AddDate(0, 0, -daysAgo)
}

func TestSummarize_Counts(t *testing.T) {
	p := Principal{ID: "alice"}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	visible := []Case{
		{OwnerID: "alice", Status: StatusActive, IsPublic: false, CreatedAt: now},
		{OwnerID: "alice", Status: StatusResolved, IsPublic: true, CreatedAt: now},
		{OwnerID: "bob", Status: StatusActive, IsPublic: true, CreatedAt: now},
		{OwnerID: "bob", Status: StatusClosed, IsPublic: true, CreatedAt: now},
	}

	stats := Summarize(p, visible, now, 7)

	assert.Equal(t, 4, stats.TotalCount)
	assert.Equal(t, 2, stats.OwnedCount)
	assert.Equal(t, 3, stats.PublicCount)
	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, map[Status]int{
		StatusActive:   2,
		StatusResolved: 1,
		StatusClosed:   1,
	}, stats.StatusCounts)
}

func TestSummarize_DayBucketsZeroFilled(t *testing.T) {
	p := Principal{ID: "alice"}
	now := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)

	visible := []Case{
		{OwnerID: "alice", Status: StatusActive, CreatedAt: day(now, 0)},
		{OwnerID: "alice", Status: StatusActive, CreatedAt: day(now, 0)},
		{OwnerID: "alice", Status: StatusActive, CreatedAt: day(now, 3)},
		// Outside the window, must not appear in any bucket.
		{OwnerID: "alice", Status: StatusActive, CreatedAt: day(now, 10)},
	}

	stats := Summarize(p, visible, now, 7)

	assert.Equal(t, []DayCount{
		{Date: "2026-08-24", Count: 0},
		{Date: "2026-08-25", Count: 0},
		{Date: "2026-08-26", Count: 0},
		{Date: "2026-08-27", Count: 1},
		{Date: "2026-08-28", Count: 0},
		{Date: "2026-08-29", Count: 0},
		{Date: "2026-08-30", Count: 2},
	}, stats.CasesPerDay)
}

func TestSummarize_EmptySet(t *testing.T) {
	stats := Summarize(Principal{ID: "alice"}, nil, time.Now(), 7)

	assert.Equal(t, 0, stats.TotalCount)
	assert.Empty(t, stats.StatusCounts)
	assert.Len(t, stats.CasesPerDay, 7, "buckets are emitted even with no cases")
	for _, d := range stats.CasesPerDay {
		assert.Equal(t, 0, d.Count)
	}
}

func TestSummarize_NoWindow(t *testing.T) {
	stats := Summarize(Principal{ID: "alice"}, nil, time.Now(), 0)
	assert.Nil(t, stats.CasesPerDay)
}
