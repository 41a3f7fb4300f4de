// Package static implements a source backed by a fixed catalog from the
// config file. It needs no network, which makes it the demo source in the
// sample config and a convenient backend for exercising a whole session.
package static

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidmux/pkg/core"
)

func init() {
	prototype := &Source{}
	core.RegisterSourcePrototype("static", prototype)
}

// VideoEntry is one catalog entry as written in the config file.
type VideoEntry struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	URL         string `toml:"url"`
	Description string `toml:"description"`
	Channel     string `toml:"channel"`
	ContentType string `toml:"content_type"`
	// Duration uses Go duration syntax, e.g. "4m12s".
	Duration string `toml:"duration"`
	// PublishedAt is RFC 3339, e.g. "2026-01-02T15:04:05Z".
	PublishedAt string `toml:"published_at"`
	Thumbnail   string `toml:"thumbnail"`
}

type Config struct {
	Videos []VideoEntry `toml:"videos"`
}

func (c *Config) Validate() error {
	for i := range c.Videos {
		if c.Videos[i].Title == "" {
			return fmt.Errorf("video entry %d has no title", i)
		}
		if c.Videos[i].ContentType == "" {
			c.Videos[i].ContentType = core.TypeVideo
		}
	}
	return nil
}

type Source struct {
	config       *Config
	instanceName string
}

func NewSource(instanceName string, config interface{}) (core.Source, error) {
	src := &Source{
		config:       &Config{},
		instanceName: instanceName,
	}
	// A nil config leaves an unconfigured prototype.
	if config != nil {
		if err := src.SetConfig(config); err != nil {
			return nil, err
		}
	}
	return src, nil
}

func (s *Source) Type() string {
	return "static"
}

func (s *Source) Name() string {
	return s.instanceName
}

// Search matches the query case-insensitively against title, channel and
// description.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]core.Video, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	results := make([]core.Video, 0)
	for _, entry := range s.config.Videos {
		if limit > 0 && len(results) >= limit {
			break
		}
		if !matches(entry, needle) {
			continue
		}
		results = append(results, s.toVideo(entry, len(results)))
	}
	return results, nil
}

func matches(entry VideoEntry, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{entry.Title, entry.Channel, entry.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *Source) toVideo(entry VideoEntry, rank int) core.Video {
	video := core.Video{
		ID:          entry.ID,
		Title:       entry.Title,
		URL:         entry.URL,
		Description: entry.Description,
		Channel:     entry.Channel,
		ContentType: entry.ContentType,
		Thumbnail:   entry.Thumbnail,
		Rank:        rank,
		Source:      s.instanceName,
	}
	if entry.Duration != "" {
		if d, err := time.ParseDuration(entry.Duration); err == nil {
			video.Duration = d
		}
	}
	if entry.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, entry.PublishedAt); err == nil {
			video.PublishedAt = ts
		}
	}
	return video
}

func (s *Source) ConfigType() interface{} {
	return &Config{}
}

func (s *Source) SetConfig(config interface{}) error {
	if cfg, ok := config.(*Config); ok {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.config = cfg
		return nil
	}
	return fmt.Errorf("invalid config type for static source")
}

func (s *Source) GetConfig() interface{} {
	return s.config
}

func (s *Source) Close() error {
	return nil
}

func (s *Source) Factory(instanceName string, config interface{}) (core.Source, error) {
	return NewSource(instanceName, config)
}
