// Package core defines the data model and source contract shared by every
// part of vidmux: the Video result type, the Source interface that search
// backends implement, the registry used for source self-registration, and
// the sorting rules applied to merged result sets.
package core

import (
	"fmt"
	"strings"
	"time"
)

// Common content type values. Sources may emit other values; faceting
// treats the content type as an opaque string, so new categories work
// without code changes here.
const (
	TypeVideo    = "video"
	TypeChannel  = "channel"
	TypePlaylist = "playlist"
)

// Video is a single search result as produced by a source. Results from
// different sources are merged into one list, so every field a renderer
// or facet counter needs lives here rather than behind a per-source type.
//
// Source is the instance name of the source that produced the result
// (e.g. "invidious_main"), ContentType is the category within that source
// (e.g. "video", "channel"). Both may be empty; faceting skips empty
// values. Rank is the zero-based position within the source's own
// response and drives relevance ordering after merges.
type Video struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	Description string        `json:"description,omitempty"`
	Channel     string        `json:"channel,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	PublishedAt time.Time     `json:"published_at,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Rank        int           `json:"rank"`
	Source      string        `json:"source,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
}

// Summary returns a one-line description suitable for list output.
func (v Video) Summary() string {
	var b strings.Builder
	b.WriteString(v.Title)

	details := make([]string, 0, 3)
	if v.Channel != "" {
		details = append(details, v.Channel)
	}
	if v.Duration > 0 {
		details = append(details, FormatDuration(v.Duration))
	}
	if v.Source != "" {
		details = append(details, v.Source)
	}
	if len(details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(details, ", "))
		b.WriteString(")")
	}

	return b.String()
}

// Key returns an identifier that is unique across sources. Two sources can
// legitimately return the same platform ID for mirrored content, so the
// source name is part of the key.
func (v Video) Key() string {
	return fmt.Sprintf("%s/%s", v.Source, v.ID)
}
