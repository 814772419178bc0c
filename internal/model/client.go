// Package model defines the client records flowing through the extraction
// and deduplication pipeline.
package model

import (
	"fmt"
	"sort"
)

// Date is a calendar date in the canonical DD/MM/YYYY rendering used by
// the source registries. The zero value is not a valid date.
type Date struct {
	Day   int
	Month int
	Year  int
}

// String renders the date in the canonical DD/MM/YYYY form.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Before reports whether d is chronologically earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// SortDates orders dates chronologically in place.
func SortDates(dates []Date) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}

// UnionDates merges two date sets into a new sorted, deduplicated slice.
// Either argument may be nil.
func UnionDates(a, b []Date) []Date {
	seen := make(map[Date]struct{}, len(a)+len(b))
	out := make([]Date, 0, len(a)+len(b))
	for _, set := range [][]Date{a, b} {
		for _, d := range set {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	SortDates(out)
	return out
}

// RawClientRecord is one extraction result for one client mention in one
// table row. A record with an empty LastName is never materialized: the
// table walker discards the row fragment instead.
type RawClientRecord struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"` // digits only, empty if none found
	Dates     []Date `json:"dates"` // deduplicated within the record
	SourceID  string `json:"source_id"`
}

// FullName returns "LastName FirstName" with a single space, trimmed when
// the first name is absent. Deduplication scores are computed over this.
func (r RawClientRecord) FullName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.LastName + " " + r.FirstName
}

// MergedClientRecord is a cluster of raw records believed to be the same
// person. Name fields come verbatim from the cluster seed and are never
// recomputed from later members.
type MergedClientRecord struct {
	LastName  string   `json:"last_name"`
	FirstName string   `json:"first_name"`
	Phone     string   `json:"phone"`
	Dates     []Date   `json:"dates"`
	SourceIDs []string `json:"source_ids"`
}

// SessionCount is the number of distinct visit dates in the cluster.
func (m MergedClientRecord) SessionCount() int {
	return len(m.Dates)
}

// FullName returns "LastName FirstName", trimmed when the first name is
// absent.
func (m MergedClientRecord) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.LastName + " " + m.FirstName
}

// DisplayName returns the "FirstName LastName" ordering used by the Odoo
// export, falling back to the last name alone.
func (m MergedClientRecord) DisplayName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}

// RunStats summarizes one pipeline run for logging, the HTTP surface, and
// the run-history store.
type RunStats struct {
	FilesFound    int `json:"files_found"`
	FilesFailed   int `json:"files_failed"`
	RawRecords    int `json:"raw_records"`
	MergedRecords int `json:"merged_records"`
	LoyalRecords  int `json:"loyal_records"`
	WithPhone     int `json:"with_phone"`
}

// RunStatus represents the final state of an extraction run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusEmpty    RunStatus = "empty"     // nothing extracted
	RunStatusNoLoyal  RunStatus = "no_loyal"  // nothing met the threshold
	RunStatusFailed   RunStatus = "failed"
)
