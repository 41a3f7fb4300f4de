package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidmux/pkg/cache"
	"vidmux/pkg/config"
	"vidmux/pkg/core"
	"vidmux/pkg/engine"
	"vidmux/pkg/nav"
	"vidmux/pkg/session"
	"vidmux/pkg/settings"

	_ "vidmux/pkg/sources/static"
)

const catalogConfigTemplate = `
data_dir = '%s'
sort_by = 'relevance'
result_limit = 25
source_timeout = '5s'

[sources.catalog]
type = 'static'
%s

[[sources.catalog.config.videos]]
id = 'v1'
title = 'Cat compilation'
url = 'https://example.com/v1'
channel = 'felines'
content_type = 'video'
duration = '4m12s'
published_at = '2026-01-02T15:04:05Z'

[[sources.catalog.config.videos]]
id = 'v2'
title = 'Cat documentary'
url = 'https://example.com/v2'
description = 'Big cats in the wild'
channel = 'wildlife'
content_type = 'playlist'

[[sources.catalog.config.videos]]
id = 'v3'
title = 'Dog training'
url = 'https://example.com/v3'
channel = 'canines'
content_type = 'video'
`

func writeCatalogConfig(t *testing.T, dataDir string, enabled bool) string {
	t.Helper()

	extra := ""
	if !enabled {
		extra = "enabled = false"
	}
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(catalogConfigTemplate, dataDir, extra)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath
}

type searchStack struct {
	cfg       *config.Config
	engine    engine.Engine
	navigator *nav.Memory
	session   *session.Session
}

func newSearchStack(t *testing.T, configPath string, initial nav.Location) *searchStack {
	t.Helper()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	registry := core.GetGlobalRegistry()
	if err := createSourcesFromConfig(registry, cfg); err != nil {
		t.Fatalf("createSourcesFromConfig: %v", err)
	}
	t.Cleanup(func() {
		if err := registry.Close(); err != nil {
			t.Errorf("closing registry: %v", err)
		}
	})

	cacheStore, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() {
		if err := cacheStore.Close(); err != nil {
			t.Errorf("closing cache: %v", err)
		}
	})

	eng := engine.NewParallel(engine.Config{
		ResultLimit:   cfg.ResultLimit,
		SourceTimeout: cfg.SourceTimeout.Duration,
	})
	navigator := nav.NewMemory(initial)
	sess := session.New(navigator, eng, settings.NewStore(cfg.Settings()), registry, cacheStore)
	t.Cleanup(sess.Close)

	return &searchStack{cfg: cfg, engine: eng, navigator: navigator, session: sess}
}

func waitSettled(t *testing.T, eng engine.Engine) engine.Snapshot {
	t.Helper()

	done := make(chan engine.Snapshot, 1)
	unsubscribe := eng.Subscribe(func(snap engine.Snapshot) {
		if snap.Settled() {
			select {
			case done <- snap:
			default:
			}
		}
	})
	defer unsubscribe()

	if snap := eng.State(); snap.Settled() {
		return snap
	}
	select {
	case snap := <-done:
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("search did not settle")
		return engine.Snapshot{}
	}
}

func TestSearchSessionEndToEnd(t *testing.T) {
	configPath := writeCatalogConfig(t, t.TempDir(), true)
	stack := newSearchStack(t, configPath, nav.NewLocation("/"))

	stack.session.Mount()
	stack.session.HandleSearch("cat")

	snap := waitSettled(t, stack.engine)
	if len(snap.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(snap.Results))
	}
	if snap.CompletedSources != 1 || snap.TotalSources != 1 {
		t.Errorf("expected 1/1 sources, got %d/%d", snap.CompletedSources, snap.TotalSources)
	}
	if !stack.session.HasSearched() {
		t.Error("expected session to record the search")
	}
	if got := stack.navigator.Current().Params.Get(session.QueryParam); got != "cat" {
		t.Errorf("expected query written to URL, got %q", got)
	}
}

func TestConfiguredSourcesExposeConfig(t *testing.T) {
	configPath := writeCatalogConfig(t, t.TempDir(), true)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	registry := core.GetGlobalRegistry()
	if err := createSourcesFromConfig(registry, cfg); err != nil {
		t.Fatalf("createSourcesFromConfig: %v", err)
	}
	t.Cleanup(func() {
		if err := registry.Close(); err != nil {
			t.Errorf("closing registry: %v", err)
		}
	})

	for name, src := range registry.GetAllSources() {
		if src.GetConfig() == nil {
			t.Errorf("source %s has no config after construction", name)
		}
	}
}

func TestSearchRendersGroupedOutput(t *testing.T) {
	configPath := writeCatalogConfig(t, t.TempDir(), true)
	stack := newSearchStack(t, configPath, nav.NewLocation("/"))

	stack.session.Mount()
	stack.session.HandleSearch("cat")
	waitSettled(t, stack.engine)

	output := renderResults(stack.session, "cat")

	for _, want := range []string{
		`Results for "cat"`,
		"2 results from 1/1 sources",
		"#1 - Cat compilation",
		"felines, 4:12, 2026-01-02",
		"https://example.com/v1",
		"ID: v1 | Source: catalog",
		"Cat documentary",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "Dog training") {
		t.Error("output contains a video the query should not match")
	}

	// One group header per content type present in the results.
	for _, header := range []string{"Video (1)", "Playlist (1)"} {
		if !strings.Contains(output, header) {
			t.Errorf("output missing group header %q\n%s", header, output)
		}
	}
}

func TestSearchRendersFilteredSummary(t *testing.T) {
	configPath := writeCatalogConfig(t, t.TempDir(), true)
	initial := nav.NewLocation("/")
	initial.Params.Set(session.TypesParam, "playlist")
	stack := newSearchStack(t, configPath, initial)

	stack.session.Mount()
	stack.session.HandleSearch("cat")
	waitSettled(t, stack.engine)

	output := renderResults(stack.session, "cat")
	if !strings.Contains(output, "1 after filters") {
		t.Errorf("expected filtered count in summary\n%s", output)
	}
	if strings.Contains(output, "Cat compilation") {
		t.Errorf("filtered-out video should not render\n%s", output)
	}
	if !strings.Contains(output, "Cat documentary") {
		t.Errorf("matching playlist should render\n%s", output)
	}
}

// A cached bundle restores even when every source has since been disabled,
// so the restored session cannot be confused with a fresh dispatch.
func TestCachedQueryRestoresWithoutSources(t *testing.T) {
	dataDir := t.TempDir()

	first := newSearchStack(t, writeCatalogConfig(t, dataDir, true), nav.NewLocation("/"))
	first.session.Mount()
	first.session.HandleSearch("cat")
	waitSettled(t, first.engine)

	// The session writes the bundle from the engine's notification
	// goroutine; wait for it to land before starting the second session.
	reader, err := cache.NewSQLite(first.cfg.CachePath())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer reader.Close()
	deadline := time.Now().Add(5 * time.Second)
	for {
		bundle, err := reader.Load()
		if err == nil && bundle != nil && bundle.Query == "cat" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached bundle was never saved")
		}
		time.Sleep(10 * time.Millisecond)
	}
	first.session.Close()

	initial := nav.NewLocation("/")
	initial.Params.Set(session.QueryParam, "cat")
	second := newSearchStack(t, writeCatalogConfig(t, dataDir, false), initial)
	second.session.Mount()

	snap := second.session.State()
	if !snap.Settled() {
		t.Fatal("expected cached results to settle immediately")
	}
	if len(snap.Results) != 2 {
		t.Errorf("expected 2 cached results, got %d", len(snap.Results))
	}
	if !second.session.HasSearched() {
		t.Error("expected restored session to count as searched")
	}
}

func TestSearchNoResultsMessage(t *testing.T) {
	configPath := writeCatalogConfig(t, t.TempDir(), true)
	stack := newSearchStack(t, configPath, nav.NewLocation("/"))

	stack.session.Mount()
	stack.session.HandleSearch("zebra")
	waitSettled(t, stack.engine)

	output := renderResults(stack.session, "zebra")
	if !strings.Contains(output, "No results found") {
		t.Errorf("expected empty-state message\n%s", output)
	}
}
