package entity

import "time"

// OwnerSummary aggregates an owner's records for the analytics dashboard.
type OwnerSummary struct {
	TotalURLs   int64       // TotalURLs is the number of records the owner has created.
	TotalClicks int64       // TotalClicks is the sum of clicks across all of the owner's records.
	TopURLs     []URLRecord // TopURLs holds the most clicked records, ties broken by most recent creation.
	RecentCount int64       // RecentCount is the number of records created within the trailing window.
}

// DayStat is one bucket of the per-day analytics series.
//
// Clicks attributes a record's accumulated click total to its creation date:
// there is no per-click timestamp log, so the series is an approximation of
// daily traffic, not an exact one.
type DayStat struct {
	Date      time.Time // Date is the bucket day, truncated to midnight UTC.
	Clicks    int64     // Clicks is the click total of records created on that day.
	Creations int64     // Creations is the number of records created on that day.
}
