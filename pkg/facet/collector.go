package facet

import (
	"sort"
	"strings"

	"vidmux/pkg/core"
)

// Badge is a derived, read-only summary of one facet value: how many
// results in the current list carry it. Recomputed from scratch whenever
// the result list changes; result sets are small enough that incremental
// counting is not worth its bookkeeping.
type Badge struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountTypes derives the content type badges for a result list.
func CountTypes(videos []core.Video) []Badge {
	return countBy(videos, TypeOf)
}

// CountSources derives the per-source badges for a result list.
func CountSources(videos []core.Video) []Badge {
	return countBy(videos, SourceOf)
}

// countBy counts occurrences of the extracted facet value. Values are
// trimmed and empty values skipped. Badges come back sorted by count
// descending; equal counts keep first-encounter order.
func countBy(videos []core.Video, extract Extractor) []Badge {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, v := range videos {
		value := strings.TrimSpace(extract(v))
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	badges := make([]Badge, 0, len(order))
	for _, value := range order {
		badges = append(badges, Badge{Value: value, Count: counts[value]})
	}

	sort.SliceStable(badges, func(i, j int) bool {
		return badges[i].Count > badges[j].Count
	})
	return badges
}
