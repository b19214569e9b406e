package util

import (
	"testing"
	"time"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeBuckets_OneDayFullYear(t *testing.T) {
	// 2022-01-01 through 2023-01-01 inclusive is 366 single-day buckets.
	buckets := TimeBuckets(date(2022, 1, 1), date(2023, 1, 1), domain.BucketOneDay)
	if len(buckets) != 366 {
		t.Fatalf("expected 366 buckets, got %d", len(buckets))
	}
	for i, bucket := range buckets {
		if !bucket.Start.Equal(bucket.End) {
			t.Errorf("bucket %d is not a single day: %v..%v", i, bucket.Start, bucket.End)
		}
		want := date(2022, 1, 1).AddDate(0, 0, i)
		if !bucket.Start.Equal(want) {
			t.Errorf("bucket %d starts %v, want %v", i, bucket.Start, want)
		}
	}
}

func TestTimeBuckets_One(t *testing.T) {
	buckets := TimeBuckets(date(2022, 3, 1), date(2022, 9, 30), domain.BucketOne)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if !buckets[0].Start.Equal(date(2022, 3, 1)) || !buckets[0].End.Equal(date(2022, 9, 30)) {
		t.Errorf("bucket does not span the whole range: %v..%v", buckets[0].Start, buckets[0].End)
	}
}

func TestTimeBuckets_WeekWithRemainder(t *testing.T) {
	// 10 days at a 7-day delta: one full bucket, one partial.
	buckets := TimeBuckets(date(2022, 1, 1), date(2022, 1, 11), domain.BucketOneWeek)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if !buckets[0].End.Equal(date(2022, 1, 8)) {
		t.Errorf("first bucket ends %v, want 2022-01-08", buckets[0].End)
	}
	if !buckets[1].Start.Equal(date(2022, 1, 9)) || !buckets[1].End.Equal(date(2022, 1, 11)) {
		t.Errorf("partial bucket is %v..%v, want 2022-01-09..2022-01-11", buckets[1].Start, buckets[1].End)
	}
}

func TestTimeBuckets_WeekExactMultiple(t *testing.T) {
	// 14 days at a 7-day delta: two full buckets, no partial.
	buckets := TimeBuckets(date(2022, 1, 1), date(2022, 1, 15), domain.BucketOneWeek)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if !buckets[1].End.Equal(date(2022, 1, 15)) {
		t.Errorf("last bucket ends %v, want 2022-01-15", buckets[1].End)
	}
}

func TestTimeBuckets_CoverageProperty(t *testing.T) {
	// Buckets must be contiguous, non-overlapping, and cover the range exactly
	// for every fixed-delta granularity.
	sizes := []domain.TimeBucketSize{
		domain.BucketOneWeek, domain.BucketOneMonth, domain.BucketThreeMonths,
		domain.BucketSixMonths, domain.BucketOneYear,
	}
	start := date(2021, 2, 14)
	end := date(2023, 7, 3)

	for _, size := range sizes {
		buckets := TimeBuckets(start, end, size)
		if len(buckets) == 0 {
			t.Fatalf("%s: no buckets", size)
		}
		if !buckets[0].Start.Equal(start) {
			t.Errorf("%s: first bucket starts %v, want %v", size, buckets[0].Start, start)
		}
		if !buckets[len(buckets)-1].End.Equal(end) {
			t.Errorf("%s: last bucket ends %v, want %v", size, buckets[len(buckets)-1].End, end)
		}
		for i := 1; i < len(buckets); i++ {
			wantStart := buckets[i-1].End.AddDate(0, 0, 1)
			if !buckets[i].Start.Equal(wantStart) {
				t.Errorf("%s: bucket %d starts %v, want %v", size, i, buckets[i].Start, wantStart)
			}
		}
	}
}

func TestTimeBuckets_DegenerateRange(t *testing.T) {
	buckets := TimeBuckets(date(2022, 5, 5), date(2022, 5, 5), domain.BucketOneMonth)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 degenerate bucket, got %d", len(buckets))
	}
	if !buckets[0].Start.Equal(buckets[0].End) {
		t.Errorf("degenerate bucket spans %v..%v", buckets[0].Start, buckets[0].End)
	}
}

func TestTimeBuckets_InvertedRange(t *testing.T) {
	buckets := TimeBuckets(date(2022, 5, 6), date(2022, 5, 5), domain.BucketOneWeek)
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets for inverted range, got %d", len(buckets))
	}
}

func TestReportDates(t *testing.T) {
	buckets := TimeBuckets(date(2022, 1, 1), date(2022, 1, 3), domain.BucketOneDay)
	dates := ReportDates(buckets)
	want := []string{"2022-01-01", "2022-01-02", "2022-01-03"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{date(2022, 1, 1), date(2022, 1, 8), 7},
		{date(2022, 1, 8), date(2022, 1, 1), 7},
		{date(2022, 1, 1), date(2022, 1, 1), 0},
		{date(2022, 1, 1), date(2023, 1, 1), 365},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.start, tt.end); got != tt.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}
