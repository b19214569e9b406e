package domain

import "time"

// TimeBucketSize selects the granularity a report's date range is split into.
type TimeBucketSize string

const (
	BucketOneDay      TimeBucketSize = "one_day"
	BucketOneWeek     TimeBucketSize = "one_week"
	BucketOneMonth    TimeBucketSize = "one_month"
	BucketThreeMonths TimeBucketSize = "three_months"
	BucketSixMonths   TimeBucketSize = "six_months"
	BucketOneYear     TimeBucketSize = "one_year"
	// BucketOne covers the whole range with a single bucket.
	BucketOne TimeBucketSize = "one"
)

// TimeBucketSizes lists every valid bucket size.
func TimeBucketSizes() []TimeBucketSize {
	return []TimeBucketSize{
		BucketOneDay, BucketOneWeek, BucketOneMonth,
		BucketThreeMonths, BucketSixMonths, BucketOneYear, BucketOne,
	}
}

// Valid reports whether s is a known bucket size.
func (s TimeBucketSize) Valid() bool {
	for _, option := range TimeBucketSizes() {
		if s == option {
			return true
		}
	}
	return false
}

// ReportKind selects the per-bucket aggregation a report computes.
type ReportKind string

const (
	ReportTransactionCount ReportKind = "transaction_count"
	ReportIncome           ReportKind = "income"
	ReportTransfer         ReportKind = "transfer"
	ReportOutcome          ReportKind = "outcome"
	ReportBudgetDelta      ReportKind = "budget_delta"
	ReportTagDelta         ReportKind = "tag_delta"
	ReportBudgetBalance    ReportKind = "budget_balance"
	ReportTagBalance       ReportKind = "tag_balance"
)

// ReportKinds lists every valid report kind.
func ReportKinds() []ReportKind {
	return []ReportKind{
		ReportTransactionCount, ReportIncome, ReportTransfer, ReportOutcome,
		ReportBudgetDelta, ReportTagDelta, ReportBudgetBalance, ReportTagBalance,
	}
}

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	for _, option := range ReportKinds() {
		if k == option {
			return true
		}
	}
	return false
}

// MultiSeries reports whether k produces one series per entity rather than a
// single flat series.
func (k ReportKind) MultiSeries() bool {
	switch k {
	case ReportBudgetDelta, ReportTagDelta, ReportBudgetBalance, ReportTagBalance:
		return true
	}
	return false
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Report pairs bucket start dates (ISO calendar dates) with per-bucket data.
// Data is a []int64 for single-series kinds and a map from entity id to
// []int64 for multi-series kinds.
type Report struct {
	Dates []string    `json:"dates"`
	Data  interface{} `json:"data"`
}
