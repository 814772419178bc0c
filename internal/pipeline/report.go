package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

// FormatReport generates a human-readable run summary: overall counts,
// session-count distribution, the most loyal clients, and phone coverage.
func FormatReport(inputDir string, stats model.RunStats, loyal []model.MergedClientRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Rapport de fidélité: %s\n\n", inputDir)

	b.WriteString("## Résumé\n")
	fmt.Fprintf(&b, "- Fichiers lus: %d (%d en échec)\n", stats.FilesFound, stats.FilesFailed)
	fmt.Fprintf(&b, "- Mentions extraites: %d\n", stats.RawRecords)
	fmt.Fprintf(&b, "- Clients uniques: %d\n", stats.MergedRecords)
	fmt.Fprintf(&b, "- Clients fidèles: %d\n\n", stats.LoyalRecords)

	// Session distribution.
	dist := make(map[int]int)
	withPhone := 0
	for _, m := range loyal {
		dist[m.SessionCount()]++
		if m.Phone != "" {
			withPhone++
		}
	}

	b.WriteString("## Répartition des séances\n")
	if len(dist) == 0 {
		b.WriteString("Aucun client fidèle.\n\n")
	} else {
		counts := make([]int, 0, len(dist))
		for n := range dist {
			counts = append(counts, n)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(counts)))
		for _, n := range counts {
			fmt.Fprintf(&b, "- %d séances: %d clients\n", n, dist[n])
		}
		b.WriteString("\n")
	}

	// Top clients. The slice arrives already sorted for export.
	b.WriteString("## Clients les plus fidèles\n")
	top := loyal
	if len(top) > 5 {
		top = top[:5]
	}
	if len(top) == 0 {
		b.WriteString("Aucun.\n\n")
	} else {
		for _, m := range top {
			fmt.Fprintf(&b, "- %s: %d séances\n", m.FullName(), m.SessionCount())
		}
		b.WriteString("\n")
	}

	b.WriteString("## Téléphones\n")
	if len(loyal) == 0 {
		fmt.Fprintf(&b, "- Couverture: 0/0\n")
	} else {
		fmt.Fprintf(&b, "- Couverture: %d/%d (%.0f%%)\n",
			withPhone, len(loyal), float64(withPhone)/float64(len(loyal))*100)
	}

	return b.String()
}
