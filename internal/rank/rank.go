// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank filters, orders, and ranks author records and computes
// the run's summary statistics. Ranking is a pure in-memory
// recomputation: every run rebuilds the full table from scratch.
package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// Aggregate turns fetched records into the final ranked table.
// Filters apply in the order the curation process established:
// name exclusions, then the affiliation denylist, then non-social
// fields, then the h-index floor. Sort is descending h-index with
// citations as tie-break; remaining ties keep input order. Ranks are
// dense, 1-based, and contiguous regardless of how many upstream
// records were dropped.
func Aggregate(records []types.AuthorRecord, cfg types.RankingConfig) []types.RankedRow {
	names := toSet(cfg.NameExclusions)
	affiliations := toSet(cfg.AffiliationDenylist)
	fields := toSet(cfg.FieldExclusions)

	seen := make(map[string]bool)
	var kept []types.AuthorRecord
	for _, r := range records {
		// Resolve the curated Scholar ID before deduplication, so a
		// harvested record for a researcher whose Scholar profile was
		// also fetched collapses into that profile instead of ranking
		// twice under two identifiers.
		if id, ok := lookupKnownID(r.Name, cfg.KnownScholarIDs); ok && r.ScholarID == "" {
			r.ScholarID = id
		}
		// Duplicates: first occurrence wins.
		if id := r.ID(); id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		if names[r.Name] {
			continue
		}
		if r.Affiliation != "" && affiliations[r.Affiliation] {
			continue
		}
		if r.PrimaryField != "" && fields[r.PrimaryField] {
			continue
		}
		if r.HIndex < cfg.MinHIndex {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].HIndex != kept[j].HIndex {
			return kept[i].HIndex > kept[j].HIndex
		}
		return kept[i].Citations > kept[j].Citations
	})

	rows := make([]types.RankedRow, len(kept))
	for i, r := range kept {
		discipline := ClassifyDiscipline(r)
		rows[i] = types.RankedRow{
			AuthorRecord:     r,
			Rank:             i + 1,
			Discipline:       discipline,
			DisciplineCode:   AbbreviateDiscipline(discipline),
			ShortAffiliation: AbbreviateInstitution(r.Affiliation),
		}
	}
	return rows
}

// lookupKnownID resolves a name against the curated Scholar ID table.
// Unicode hyphen variants in provider names are normalized to ASCII
// before the second lookup; the table itself carries both spellings
// where they occur upstream.
func lookupKnownID(name string, known map[string]string) (string, bool) {
	if len(known) == 0 {
		return "", false
	}
	if id, ok := known[name]; ok {
		return id, true
	}
	normalized := strings.NewReplacer("‐", "-", "–", "-").Replace(name)
	id, ok := known[normalized]
	return id, ok
}

// Statistics computes the run summary over the ranked set. Fractional
// values are rounded to 2 decimal places.
func Statistics(rows []types.RankedRow, now time.Time) types.Stats {
	stats := types.Stats{Count: len(rows), GeneratedAt: now}
	if len(rows) == 0 {
		return stats
	}

	hs := make([]int, len(rows))
	var hSum, citSum int
	for i, r := range rows {
		hs[i] = r.HIndex
		hSum += r.HIndex
		citSum += r.Citations
		if r.HIndex > stats.MaxHIndex {
			stats.MaxHIndex = r.HIndex
		}
	}

	stats.TotalCitations = citSum
	stats.MeanHIndex = round2(float64(hSum) / float64(len(rows)))
	stats.MeanCitations = round2(float64(citSum) / float64(len(rows)))
	stats.MedianHIndex = round2(median(hs))
	stats.TopAffiliations = topAffiliations(rows, 20)
	return stats
}

// median of an int slice; the input is not assumed sorted.
func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// topAffiliations tallies rows per abbreviated institution, descending
// by count with name as tie-break for deterministic output.
func topAffiliations(rows []types.RankedRow, limit int) []types.AffiliationCount {
	counts := make(map[string]int)
	for _, r := range rows {
		if inst := r.ShortAffiliation; inst != "" {
			counts[inst]++
		}
	}

	out := make([]types.AffiliationCount, 0, len(counts))
	for inst, n := range counts {
		out = append(out, types.AffiliationCount{Institution: inst, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Institution < out[j].Institution
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
