package settings

import (
	"reflect"
	"testing"

	"vidmux/pkg/core"
)

func testSettings() Settings {
	return Settings{
		Sources: []SourceSetting{
			{ID: "invidious_main", Enabled: true},
			{ID: "peertube_sepia", Enabled: false},
		},
		SortBy: core.SortRelevance,
	}
}

func TestSubscribeInvokesSynchronouslyWithCurrentValue(t *testing.T) {
	store := NewStore(testSettings())

	var received []Settings
	unsubscribe := store.Subscribe(func(s Settings) { received = append(received, s) })
	defer unsubscribe()

	if len(received) != 1 {
		t.Fatalf("Subscribe must invoke the callback once before returning, got %d calls", len(received))
	}
	if got := received[0].EnabledSourceIDs(); !reflect.DeepEqual(got, []string{"invidious_main"}) {
		t.Errorf("Initial callback got wrong settings: %v", got)
	}
}

func TestSetNotifiesSubscribers(t *testing.T) {
	store := NewStore(testSettings())

	var received []Settings
	unsubscribe := store.Subscribe(func(s Settings) { received = append(received, s) })
	defer unsubscribe()

	updated := testSettings()
	updated.Sources[1].Enabled = true
	updated.SortBy = core.SortNewest
	store.Set(updated)

	if len(received) != 2 {
		t.Fatalf("Expected initial + change notification, got %d", len(received))
	}
	if received[1].SortBy != core.SortNewest {
		t.Errorf("Change notification carried stale sort: %s", received[1].SortBy)
	}
	if got := received[1].EnabledSourceIDs(); len(got) != 2 {
		t.Errorf("Change notification carried stale sources: %v", got)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	store := NewStore(testSettings())

	calls := 0
	unsubscribe := store.Subscribe(func(Settings) { calls++ })
	unsubscribe()
	unsubscribe() // second call must be harmless

	store.Set(testSettings())

	if calls != 1 {
		t.Errorf("Expected only the initial synchronous call, got %d", calls)
	}
}

func TestUpdateAppliesMutation(t *testing.T) {
	store := NewStore(testSettings())

	store.Update(func(s *Settings) {
		for i := range s.Sources {
			s.Sources[i].Enabled = true
		}
	})

	if got := store.Get().EnabledSourceIDs(); len(got) != 2 {
		t.Errorf("Update did not apply: enabled = %v", got)
	}
	if store.Version() != 1 {
		t.Errorf("Expected version 1 after one mutation, got %d", store.Version())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore(testSettings())

	got := store.Get()
	got.Sources[0].Enabled = false

	if !store.Get().Enabled("invidious_main") {
		t.Error("Mutating a returned snapshot leaked into the store")
	}
}

func TestSubscriberCanReadStoreReentrantly(t *testing.T) {
	store := NewStore(testSettings())

	var seen core.SortBy
	unsubscribe := store.Subscribe(func(Settings) {
		seen = store.Get().SortBy
	})
	defer unsubscribe()

	updated := testSettings()
	updated.SortBy = core.SortTitle
	store.Set(updated)

	if seen != core.SortTitle {
		t.Errorf("Re-entrant Get inside callback saw %q", seen)
	}
}

func TestEnabledSourceIDsOrder(t *testing.T) {
	s := Settings{Sources: []SourceSetting{
		{ID: "c", Enabled: true},
		{ID: "a", Enabled: false},
		{ID: "b", Enabled: true},
	}}

	if got := s.EnabledSourceIDs(); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Errorf("EnabledSourceIDs should keep declaration order, got %v", got)
	}
}
