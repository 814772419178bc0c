// Package dedupe clusters raw client records that represent the same
// person despite spelling variance across source documents.
package dedupe

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

const (
	// DefaultThreshold is the minimum similarity score (0-100) for two
	// records to merge. Useful values sit roughly between 50 and 100.
	DefaultThreshold = 85

	// phoneBoostScore is the floor applied when both records carry the
	// same non-empty phone number: identical phones outrank name spelling.
	phoneBoostScore = 95
)

var simParams = levenshtein.NewParams()

// Similarity scores two records on a 0-100 scale using the normalized
// edit-distance ratio of their case-folded full names, with the phone
// equality boost applied.
func Similarity(a, b model.RawClientRecord) float64 {
	score := levenshtein.Similarity(
		strings.ToLower(a.FullName()),
		strings.ToLower(b.FullName()),
		simParams,
	) * 100

	if a.Phone != "" && a.Phone == b.Phone && score < phoneBoostScore {
		return phoneBoostScore
	}
	return score
}

// Merge clusters records with a greedy single forward pass. Each
// unconsumed record seeds a cluster and scans only later records, scoring
// them against the seed (never against accreted members), so clustering is
// deliberately not a transitive closure: the seed acts as the centroid,
// and a record consumed by an earlier cluster is never reconsidered.
//
// Records are scanned in input order (document order, then row order).
// The O(n²) pass is fine for the hundreds-to-low-thousands of rows a run
// produces.
func Merge(records []model.RawClientRecord, threshold float64) []model.MergedClientRecord {
	merged := make([]model.MergedClientRecord, 0, len(records))
	consumed := make([]bool, len(records))

	for i, seed := range records {
		if consumed[i] {
			continue
		}

		cluster := model.MergedClientRecord{
			LastName:  seed.LastName,
			FirstName: seed.FirstName,
			Phone:     seed.Phone,
			Dates:     model.UnionDates(nil, seed.Dates),
			SourceIDs: []string{seed.SourceID},
		}

		for j := i + 1; j < len(records); j++ {
			if consumed[j] {
				continue
			}
			if Similarity(seed, records[j]) < threshold {
				continue
			}

			cluster.Dates = model.UnionDates(cluster.Dates, records[j].Dates)
			cluster.SourceIDs = appendUnique(cluster.SourceIDs, records[j].SourceID)
			// The longest phone is the most complete one; ties keep the
			// earliest.
			if len(records[j].Phone) > len(cluster.Phone) {
				cluster.Phone = records[j].Phone
			}
			consumed[j] = true
		}

		consumed[i] = true
		merged = append(merged, cluster)
	}

	return merged
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
