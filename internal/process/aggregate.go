package process

import (
	"sort"
	"strings"
)

// Filter keeps records whose solicitation id, title, requester or vacancy
// type contains term, case-insensitively. An empty term keeps everything.
// The input is never modified.
func Filter(records []FlatRecord, term string) []FlatRecord {
	if term == "" {
		out := make([]FlatRecord, len(records))
		copy(out, records)
		return out
	}

	needle := strings.ToLower(term)
	out := make([]FlatRecord, 0, len(records))
	for _, r := range records {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r FlatRecord, needle string) bool {
	for _, field := range []string{r.SolicitationID, r.Title, r.Requester, r.VacancyType} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// TotalVacancies sums vacancy counts.
func TotalVacancies(records []FlatRecord) int {
	total := 0
	for _, r := range records {
		total += r.VacancyCount
	}
	return total
}

// RankByRequester sums vacancies per requester, highest total first. Ties
// keep the order in which requesters first appear.
func RankByRequester(records []FlatRecord) []RankingEntry {
	index := make(map[string]int)
	entries := make([]RankingEntry, 0)
	for _, r := range records {
		i, ok := index[r.Requester]
		if !ok {
			i = len(entries)
			index[r.Requester] = i
			entries = append(entries, RankingEntry{Requester: r.Requester})
		}
		entries[i].Total += r.VacancyCount
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Total > entries[b].Total
	})
	return entries
}
