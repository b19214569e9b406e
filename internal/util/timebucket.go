package util

import (
	"time"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// ISODateFormat is the wire format for calendar dates.
const ISODateFormat = "2006-01-02"

// Day deltas for the fixed-size bucket options.
const (
	daysPerWeek        = 7
	daysPerMonth       = 31
	daysPerThreeMonths = 365 / 4
	daysPerSixMonths   = 365 / 2
	daysPerYear        = 365
)

// Date truncates t to midnight UTC. Buckets and transactions compare on
// calendar dates only.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days between two dates, ignoring
// any time-of-day component.
func DaysBetween(start, end time.Time) int {
	days := int(Date(end).Sub(Date(start)).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// TimeBuckets splits the inclusive date range [start, end] into an ordered
// sequence of inclusive sub-ranges of the given size. Buckets are contiguous,
// never overlap, and together cover the range exactly; the final bucket may be
// shorter than the nominal size. An inverted range yields no buckets and a
// single-day range yields one degenerate bucket.
func TimeBuckets(start, end time.Time, size domain.TimeBucketSize) []domain.DateRange {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return nil
	}

	var delta int
	switch size {
	case domain.BucketOneDay:
		return oneDayBuckets(start, end)
	case domain.BucketOneWeek:
		delta = daysPerWeek
	case domain.BucketOneMonth:
		delta = daysPerMonth
	case domain.BucketThreeMonths:
		delta = daysPerThreeMonths
	case domain.BucketSixMonths:
		delta = daysPerSixMonths
	case domain.BucketOneYear:
		delta = daysPerYear
	default:
		return []domain.DateRange{{Start: start, End: end}}
	}

	return bucketsByDayDelta(start, end, delta)
}

// oneDayBuckets emits one degenerate bucket per calendar day, inclusive of
// both endpoints.
func oneDayBuckets(start, end time.Time) []domain.DateRange {
	days := DaysBetween(start, end)
	buckets := make([]domain.DateRange, 0, days+1)
	for day := 0; day <= days; day++ {
		d := start.AddDate(0, 0, day)
		buckets = append(buckets, domain.DateRange{Start: d, End: d})
	}
	return buckets
}

// bucketsByDayDelta emits buckets whose end dates advance by exactly delta
// days from start, each new bucket beginning the day after the previous one
// ends, with a final partial bucket covering any remainder through end.
func bucketsByDayDelta(start, end time.Time, delta int) []domain.DateRange {
	days := DaysBetween(start, end)
	if days == 0 {
		return []domain.DateRange{{Start: start, End: start}}
	}

	var buckets []domain.DateRange
	next := start
	for day := delta; day <= days; day += delta {
		buckets = append(buckets, domain.DateRange{Start: next, End: start.AddDate(0, 0, day)})
		next = start.AddDate(0, 0, day+1)
	}

	if days%delta != 0 {
		buckets = append(buckets, domain.DateRange{Start: next, End: end})
	}
	return buckets
}

// ReportDates formats each bucket's start date as an ISO calendar date.
func ReportDates(buckets []domain.DateRange) []string {
	dates := make([]string, len(buckets))
	for i, bucket := range buckets {
		dates[i] = bucket.Start.Format(ISODateFormat)
	}
	return dates
}
