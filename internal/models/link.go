package models

import "time"

// Link represents a shortened link record and its usage counter.
type Link struct {
	// ID is the unique identifier for the link record.
	ID int64
	// UserID references the account that owns the link.
	UserID int64
	// LongURL is the original, full-length URL submitted for shortening.
	LongURL string
	// ShortURL is the provider-issued short URL. It is assigned exactly
	// once at creation and never changes afterwards.
	ShortURL string
	// Domain is the hostname extracted from LongURL at creation time.
	Domain string
	// CopyCount tracks how many times the short URL has been copied.
	CopyCount int64
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// ExpiresAt is an optional expiry for the link.
	ExpiresAt *time.Time
}

// LinkStats holds the aggregate totals shown on the dashboard.
type LinkStats struct {
	TotalLinks  int64
	TotalCopies int64
	Domains     []string
}

// BucketCount is a single time bucket of link creations.
type BucketCount struct {
	// Bucket is the formatted period, "2006-01-02" for daily buckets
	// and "2006-01" for monthly ones.
	Bucket string
	Count  int64
}

// ChartData groups the daily and monthly creation histograms.
type ChartData struct {
	Daily   []BucketCount
	Monthly []BucketCount
}
