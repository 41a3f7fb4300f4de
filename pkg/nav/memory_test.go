package nav

import (
	"net/url"
	"testing"
)

func TestReplaceDoesNotNotify(t *testing.T) {
	m := NewMemory(NewLocation("/search"))

	notified := 0
	unsubscribe := m.Subscribe(func(Location) { notified++ })
	defer unsubscribe()

	loc := m.Current()
	loc.Params.Set("q", "trains")
	m.Replace(loc, ReplaceOptions{})

	if notified != 0 {
		t.Errorf("Replace must not notify subscribers, got %d notifications", notified)
	}
	if got := m.Current().Params.Get("q"); got != "trains" {
		t.Errorf("Replace should have updated the location, q = %q", got)
	}
}

func TestReplaceDoesNotGrowHistory(t *testing.T) {
	m := NewMemory(NewLocation("/search"))

	loc := m.Current()
	loc.Params.Set("q", "one")
	m.Replace(loc, ReplaceOptions{})
	loc.Params.Set("q", "two")
	m.Replace(loc, ReplaceOptions{})

	if m.Back() {
		t.Error("Back should fail: Replace must not create history entries")
	}
}

func TestPushBackForwardNotify(t *testing.T) {
	m := NewMemory(NewLocation("/"))

	var seen []string
	unsubscribe := m.Subscribe(func(loc Location) { seen = append(seen, loc.Path) })
	defer unsubscribe()

	m.Push(NewLocation("/search"))
	if !m.Back() {
		t.Fatal("Back should succeed after a push")
	}
	if !m.Forward() {
		t.Fatal("Forward should succeed after going back")
	}

	want := []string{"/search", "/", "/search"}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d notifications, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Notification %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestPushDiscardsForwardEntries(t *testing.T) {
	m := NewMemory(NewLocation("/a"))
	m.Push(NewLocation("/b"))
	m.Back()

	m.Push(NewLocation("/c"))

	if m.Forward() {
		t.Error("Forward entries should be discarded by a push")
	}
	if got := m.Current().Path; got != "/c" {
		t.Errorf("Expected current path /c, got %s", got)
	}
}

func TestScrollPreservation(t *testing.T) {
	m := NewMemory(NewLocation("/search"))
	m.SetScroll(420)

	loc := m.Current()
	loc.Params.Set("type", "video")
	m.Replace(loc, ReplaceOptions{PreserveScroll: true})

	if got := m.Scroll(); got != 420 {
		t.Errorf("Preserving replace reset scroll to %d", got)
	}

	m.Replace(loc, ReplaceOptions{})
	if got := m.Scroll(); got != 0 {
		t.Errorf("Non-preserving replace should reset scroll, got %d", got)
	}

	m.SetScroll(99)
	m.Push(NewLocation("/other"))
	if got := m.Scroll(); got != 0 {
		t.Errorf("Push should reset scroll, got %d", got)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	m := NewMemory(Location{Path: "/search", Params: url.Values{"q": {"cats"}}})

	loc := m.Current()
	loc.Params.Set("q", "dogs")

	if got := m.Current().Params.Get("q"); got != "cats" {
		t.Errorf("Mutating a returned location leaked into the navigator: q = %q", got)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	m := NewMemory(NewLocation("/"))

	notified := 0
	unsubscribe := m.Subscribe(func(Location) { notified++ })

	m.Push(NewLocation("/a"))
	unsubscribe()
	m.Push(NewLocation("/b"))

	if notified != 1 {
		t.Errorf("Expected exactly one notification before unsubscribe, got %d", notified)
	}

	// Calling unsubscribe again must be harmless.
	unsubscribe()
}

func TestSubscriberCanReadNavigatorReentrantly(t *testing.T) {
	m := NewMemory(NewLocation("/"))

	unsubscribe := m.Subscribe(func(loc Location) {
		// Re-entrant use of the navigator from a callback.
		current := m.Current()
		current.Params.Set("seen", "1")
		m.Replace(current, ReplaceOptions{PreserveScroll: true})
	})
	defer unsubscribe()

	m.Push(NewLocation("/search"))

	if got := m.Current().Params.Get("seen"); got != "1" {
		t.Errorf("Re-entrant replace from callback did not apply, seen = %q", got)
	}
}
