package core

import (
	"sort"
	"strings"
)

// SortBy selects the ordering applied to a merged result list.
type SortBy string

const (
	// SortRelevance orders by each source's own ranking, interleaved.
	SortRelevance SortBy = "relevance"
	// SortNewest orders by publication date, newest first.
	SortNewest SortBy = "newest"
	// SortTitle orders alphabetically by title, case-insensitive.
	SortTitle SortBy = "title"
)

// DefaultSort is used whenever no explicit ordering has been chosen.
const DefaultSort = SortRelevance

// ParseSortBy maps a user-supplied string to a SortBy, falling back to
// DefaultSort for unknown values. Unknown values are tolerated rather than
// rejected so stale settings files never block a search.
func ParseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortRelevance:
		return SortRelevance
	case SortNewest:
		return SortNewest
	case SortTitle:
		return SortTitle
	default:
		return DefaultSort
	}
}

// SortVideos orders videos in place. The sort is stable: results that
// compare equal keep their current relative order, so re-sorting an
// already sorted list is a no-op and switching orderings back and forth
// does not shuffle ties.
func SortVideos(videos []Video, by SortBy) {
	switch by {
	case SortNewest:
		sort.SliceStable(videos, func(i, j int) bool {
			// Undated results sink to the bottom regardless of direction.
			if videos[i].PublishedAt.IsZero() != videos[j].PublishedAt.IsZero() {
				return !videos[i].PublishedAt.IsZero()
			}
			return videos[i].PublishedAt.After(videos[j].PublishedAt)
		})
	case SortTitle:
		sort.SliceStable(videos, func(i, j int) bool {
			return strings.ToLower(videos[i].Title) < strings.ToLower(videos[j].Title)
		})
	default:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].Rank < videos[j].Rank
		})
	}
}
