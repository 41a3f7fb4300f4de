package facet

import (
	"sync"

	"vidmux/pkg/core"
	"vidmux/pkg/log"
	"vidmux/pkg/nav"
)

// Phase tracks where a synchronizer is in its lifecycle. During
// Initializing the URL is the single source of truth: the synchronizer
// hydrates from it and never writes back, so the address that seeded the
// session cannot be clobbered before it has been read. Hydrate performs
// the one transition to Active, after which sync is bidirectional.
type Phase int

const (
	Initializing Phase = iota
	Active
)

// Extractor pulls the facet value for one dimension out of a video.
type Extractor func(core.Video) string

// SourceOf extracts the source facet. Instantiates the synchronizer for
// the "sources" dimension.
func SourceOf(v core.Video) string { return v.Source }

// TypeOf extracts the content type facet. Instantiates the synchronizer
// for the "types" dimension.
func TypeOf(v core.Video) string { return v.ContentType }

// Synchronizer keeps one facet dimension's selection in sync with a URL
// query parameter. The same logic serves both dimensions; only the
// parameter name and the extractor differ between instances.
//
// Outbound writes go through nav.Navigator.Replace with scroll
// preservation and never create history entries. Inbound changes arrive
// via LocationChanged, which the owning session forwards from its
// navigator subscription.
type Synchronizer struct {
	mu        sync.Mutex
	param     string
	extract   Extractor
	navigator nav.Navigator
	selection Selection
	phase     Phase

	logger *log.Logger
}

// NewSynchronizer creates a synchronizer for the named query parameter.
// It starts in the Initializing phase with an empty selection; call
// Hydrate once the navigator holds the location to seed from.
func NewSynchronizer(param string, extract Extractor, navigator nav.Navigator) *Synchronizer {
	return &Synchronizer{
		param:     param,
		extract:   extract,
		navigator: navigator,
		selection: NewSelection(),
		logger:    log.ForComponent("facet"),
	}
}

// Hydrate seeds the selection from the current location and transitions
// to the Active phase. Calling it again re-reads the URL but the phase
// transition happens only once.
func (s *Synchronizer) Hydrate() {
	loc := s.navigator.Current()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = NewSelection(nav.DecodeList(loc.Params.Get(s.param))...)
	s.phase = Active
}

// Phase returns the current lifecycle phase.
func (s *Synchronizer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Toggle flips membership of value in the selection and, when Active,
// rewrites the URL parameter.
func (s *Synchronizer) Toggle(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Toggle(value)
	s.syncOutLocked()
}

// Selected returns the selection in sorted order.
func (s *Synchronizer) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Values()
}

// Has reports whether value is currently selected.
func (s *Synchronizer) Has(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Has(value)
}

// Filter applies the selection to a result list. An empty selection means
// no filter: the input is returned unchanged, not emptied.
func (s *Synchronizer) Filter(videos []core.Video) []core.Video {
	s.mu.Lock()
	selection := s.selection.Clone()
	s.mu.Unlock()

	if selection.Empty() {
		return videos
	}

	filtered := make([]core.Video, 0, len(videos))
	for _, v := range videos {
		if selection.Has(s.extract(v)) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// LocationChanged reconciles the selection with an externally observed
// location (back/forward navigation). The in-memory selection is
// overwritten only when the parsed parameter differs by size or
// membership, and nothing is ever written back out from here. Together
// with the equality guard on outbound writes this prevents feedback
// loops between the two directions.
func (s *Synchronizer) LocationChanged(loc nav.Location) {
	parsed := NewSelection(nav.DecodeList(loc.Params.Get(s.param))...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.Equal(parsed) {
		return
	}
	s.selection = parsed
}

// SetAvailable prunes selected values that no longer exist among the
// available facet values. An empty available list is a transient loading
// state, not an instruction to clear the selection, so it is ignored. A
// pruned selection is written back to the URL.
func (s *Synchronizer) SetAvailable(values []string) {
	if len(values) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := s.selection.Intersect(values)
	if pruned.Equal(s.selection) {
		return
	}

	s.logger.Debugf("pruning %s selection %v to available %v", s.param, s.selection.Values(), values)
	s.selection = pruned
	s.syncOutLocked()
}

// syncOutLocked writes the selection to the URL parameter. Callers hold
// s.mu. Writes are skipped while Initializing and when the parameter
// already encodes the same selection.
func (s *Synchronizer) syncOutLocked() {
	if s.phase != Active {
		return
	}

	encoded := nav.EncodeList(s.selection.Values())
	loc := s.navigator.Current()

	if encoded == "" {
		if !loc.Params.Has(s.param) {
			return
		}
		loc.Params.Del(s.param)
	} else {
		if loc.Params.Get(s.param) == encoded {
			return
		}
		loc.Params.Set(s.param, encoded)
	}
	s.navigator.Replace(loc, nav.ReplaceOptions{PreserveScroll: true})
}
