// Package invidious implements a source for Invidious instances using the
// public /api/v1/search endpoint. One search returns a mix of videos,
// channels and playlists; each kind maps to its own content type.
package invidious

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidmux/pkg/core"
	"vidmux/pkg/log"
)

func init() {
	prototype := &Source{}
	core.RegisterSourcePrototype("invidious", prototype)
}

type Config struct {
	BaseURL string `toml:"base_url"`
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

type Source struct {
	config       *Config
	client       *http.Client
	instanceName string
	logger       *log.Logger
}

// searchItem covers all three result kinds the API mixes into one array;
// the Type field says which of the optional fields are meaningful.
type searchItem struct {
	Type            string      `json:"type"`
	Title           string      `json:"title"`
	VideoID         string      `json:"videoId"`
	PlaylistID      string      `json:"playlistId"`
	Author          string      `json:"author"`
	AuthorID        string      `json:"authorId"`
	Description     string      `json:"description"`
	LengthSeconds   int64       `json:"lengthSeconds"`
	Published       int64       `json:"published"`
	VideoThumbnails []thumbnail `json:"videoThumbnails"`
}

type thumbnail struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

func NewSource(instanceName string, config interface{}) (core.Source, error) {
	src := &Source{
		config:       &Config{},
		client:       &http.Client{Timeout: 30 * time.Second},
		instanceName: instanceName,
		logger:       log.ForComponent(instanceName),
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
	return "invidious"
}

func (s *Source) Name() string {
	return s.instanceName
}

func (s *Source) Search(ctx context.Context, query string, limit int) ([]core.Video, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "all")
	searchURL := fmt.Sprintf("%s/api/v1/search?%s", s.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warnf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var items []searchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	videos := make([]core.Video, 0, len(items))
	for _, item := range items {
		if limit > 0 && len(videos) >= limit {
			break
		}
		video, ok := s.toVideo(item)
		if !ok {
			s.logger.Debugf("skipping result of unknown type %q", item.Type)
			continue
		}
		video.Rank = len(videos)
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *Source) toVideo(item searchItem) (core.Video, bool) {
	video := core.Video{
		Description: item.Description,
		Channel:     item.Author,
		Source:      s.instanceName,
	}

	switch item.Type {
	case "video":
		video.ID = item.VideoID
		video.Title = item.Title
		video.URL = fmt.Sprintf("%s/watch?v=%s", s.config.BaseURL, item.VideoID)
		video.ContentType = core.TypeVideo
		video.Duration = time.Duration(item.LengthSeconds) * time.Second
		if item.Published > 0 {
			video.PublishedAt = time.Unix(item.Published, 0).UTC()
		}
		if len(item.VideoThumbnails) > 0 {
			video.Thumbnail = item.VideoThumbnails[0].URL
		}
	case "playlist":
		video.ID = item.PlaylistID
		video.Title = item.Title
		video.URL = fmt.Sprintf("%s/playlist?list=%s", s.config.BaseURL, item.PlaylistID)
		video.ContentType = core.TypePlaylist
	case "channel":
		video.ID = item.AuthorID
		video.Title = item.Author
		video.URL = fmt.Sprintf("%s/channel/%s", s.config.BaseURL, item.AuthorID)
		video.ContentType = core.TypeChannel
	default:
		return core.Video{}, false
	}

	return video, true
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
	return fmt.Errorf("invalid config type for Invidious source")
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
