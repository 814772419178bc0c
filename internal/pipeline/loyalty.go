package pipeline

import "github.com/radiance-crm/loyalty-cli/internal/model"

// DefaultMinSessions is the session count at which a client counts as
// loyal.
const DefaultMinSessions = 2

// Filter keeps merged records with at least minSessions distinct visit
// dates. Order is preserved and the input slice is not mutated.
func Filter(merged []model.MergedClientRecord, minSessions int) []model.MergedClientRecord {
	loyal := make([]model.MergedClientRecord, 0, len(merged))
	for _, m := range merged {
		if m.SessionCount() >= minSessions {
			loyal = append(loyal, m)
		}
	}
	return loyal
}
