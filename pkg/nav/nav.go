// Package nav models the navigable location a search session lives at: a
// path plus query parameters, treated as a small key-value store that
// survives restarts and can be shared as a link. Components read state out
// of the location and write canonical state back into it through the
// Navigator interface instead of touching a real address bar or history
// stack directly.
package nav

import "net/url"

// Location is a navigable address: a path and its query parameters.
// Values are plain url.Values so components can use Get/Set/Del directly.
type Location struct {
	Path   string
	Params url.Values
}

// NewLocation returns a Location with initialized params.
func NewLocation(path string) Location {
	return Location{Path: path, Params: url.Values{}}
}

// Clone returns a deep copy. Locations cross component boundaries, and
// url.Values is a map, so handing out the original would let one component
// mutate another's view of the address.
func (l Location) Clone() Location {
	params := make(url.Values, len(l.Params))
	for k, vs := range l.Params {
		params[k] = append([]string(nil), vs...)
	}
	return Location{Path: l.Path, Params: params}
}

// Equal reports whether two locations have the same path and parameters.
func (l Location) Equal(other Location) bool {
	if l.Path != other.Path {
		return false
	}
	return l.Params.Encode() == other.Params.Encode()
}

// String renders the location as a relative URL.
func (l Location) String() string {
	if len(l.Params) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Params.Encode()
}

// ReplaceOptions controls how a Replace behaves.
type ReplaceOptions struct {
	// PreserveScroll keeps the current scroll offset. Without it a
	// replace resets scrolling, which is wrong for pure state updates
	// like rewriting a filter parameter.
	PreserveScroll bool
}

// Navigator is the boundary between session components and whatever holds
// the address: an in-memory stack in tests and the CLI, a browser bridge in
// an embedded UI.
//
// Replace swaps the current location in place. It never adds a history
// entry and never notifies subscribers; only external navigation (push,
// back, forward) does. That asymmetry is what keeps a component's own
// URL writes from echoing back into it as inbound changes.
type Navigator interface {
	// Current returns a copy of the current location.
	Current() Location

	// Replace overwrites the current location without history or
	// notification.
	Replace(loc Location, opts ReplaceOptions)

	// Subscribe registers a callback for external navigation. The
	// returned function unsubscribes; it is safe to call more than once.
	Subscribe(fn func(Location)) func()
}
