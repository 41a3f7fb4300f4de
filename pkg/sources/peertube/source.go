// Package peertube implements a source for PeerTube instances (including
// SepiaSearch, which indexes many of them) using /api/v1/search/videos.
package peertube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vidmux/pkg/core"
	"vidmux/pkg/log"
)

func init() {
	prototype := &Source{}
	core.RegisterSourcePrototype("peertube", prototype)
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

type searchResponse struct {
	Total int         `json:"total"`
	Data  []videoItem `json:"data"`
}

type videoItem struct {
	UUID          string    `json:"uuid"`
	ShortUUID     string    `json:"shortUUID"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Duration      int64     `json:"duration"`
	PublishedAt   time.Time `json:"publishedAt"`
	URL           string    `json:"url"`
	ThumbnailPath string    `json:"thumbnailPath"`
	Channel       struct {
		DisplayName string `json:"displayName"`
	} `json:"channel"`
	Account struct {
		DisplayName string `json:"displayName"`
	} `json:"account"`
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
	return "peertube"
}

func (s *Source) Name() string {
	return s.instanceName
}

func (s *Source) Search(ctx context.Context, query string, limit int) ([]core.Video, error) {
	params := url.Values{}
	params.Set("search", query)
	if limit > 0 {
		params.Set("count", strconv.Itoa(limit))
	}
	searchURL := fmt.Sprintf("%s/api/v1/search/videos?%s", s.config.BaseURL, params.Encode())

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

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	videos := make([]core.Video, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		if limit > 0 && len(videos) >= limit {
			break
		}
		videos = append(videos, s.toVideo(item, len(videos)))
	}
	return videos, nil
}

func (s *Source) toVideo(item videoItem, rank int) core.Video {
	video := core.Video{
		ID:          item.UUID,
		Title:       item.Name,
		URL:         item.URL,
		Description: item.Description,
		Channel:     item.Channel.DisplayName,
		Duration:    time.Duration(item.Duration) * time.Second,
		PublishedAt: item.PublishedAt,
		Rank:        rank,
		Source:      s.instanceName,
		ContentType: core.TypeVideo,
	}
	if video.Channel == "" {
		video.Channel = item.Account.DisplayName
	}
	if video.URL == "" && item.ShortUUID != "" {
		video.URL = fmt.Sprintf("%s/w/%s", s.config.BaseURL, item.ShortUUID)
	}
	if item.ThumbnailPath != "" {
		video.Thumbnail = s.config.BaseURL + item.ThumbnailPath
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
	return fmt.Errorf("invalid config type for PeerTube source")
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
