package facet

import (
	"reflect"
	"testing"

	"vidmux/pkg/core"
)

func TestCountTypes(t *testing.T) {
	videos := []core.Video{
		{ID: "1", ContentType: "movie"},
		{ID: "2", ContentType: "movie"},
		{ID: "3", ContentType: "show"},
	}

	badges := CountTypes(videos)

	want := []Badge{{Value: "movie", Count: 2}, {Value: "show", Count: 1}}
	if !reflect.DeepEqual(badges, want) {
		t.Errorf("CountTypes = %v, want %v", badges, want)
	}
}

func TestCountTypesTrimsAndSkipsEmpty(t *testing.T) {
	videos := []core.Video{
		{ID: "1", ContentType: " video "},
		{ID: "2", ContentType: "video"},
		{ID: "3", ContentType: ""},
		{ID: "4", ContentType: "   "},
	}

	badges := CountTypes(videos)

	want := []Badge{{Value: "video", Count: 2}}
	if !reflect.DeepEqual(badges, want) {
		t.Errorf("CountTypes = %v, want %v", badges, want)
	}
}

func TestCountTypesTieBreakKeepsEncounterOrder(t *testing.T) {
	videos := []core.Video{
		{ID: "1", ContentType: "playlist"},
		{ID: "2", ContentType: "channel"},
		{ID: "3", ContentType: "channel"},
		{ID: "4", ContentType: "playlist"},
	}

	badges := CountTypes(videos)

	// Equal counts: playlist was seen first, so it stays first.
	want := []Badge{{Value: "playlist", Count: 2}, {Value: "channel", Count: 2}}
	if !reflect.DeepEqual(badges, want) {
		t.Errorf("CountTypes = %v, want %v", badges, want)
	}
}

func TestCountTypesEmptyInput(t *testing.T) {
	if badges := CountTypes(nil); len(badges) != 0 {
		t.Errorf("Expected no badges for empty input, got %v", badges)
	}
}

func TestCountSources(t *testing.T) {
	videos := []core.Video{
		{ID: "1", Source: "invidious_main"},
		{ID: "2", Source: "peertube_sepia"},
		{ID: "3", Source: "invidious_main"},
		{ID: "4", Source: "invidious_main"},
	}

	badges := CountSources(videos)

	want := []Badge{{Value: "invidious_main", Count: 3}, {Value: "peertube_sepia", Count: 1}}
	if !reflect.DeepEqual(badges, want) {
		t.Errorf("CountSources = %v, want %v", badges, want)
	}
}
