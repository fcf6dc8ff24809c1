package document

import (
	"html/template"
	"sync"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/domain/theme"
)

// Snapshot is a copy of one document type's surface state
type Snapshot struct {
	DocType    document.DocType
	Doc        document.Document
	Fragment   template.HTML
	Decoration theme.Decoration
}

// Empty reports whether nothing has been composed onto the surface yet
func (s Snapshot) Empty() bool {
	return s.Fragment == ""
}

type surface struct {
	doc        document.Document
	fragment   template.HTML
	decoration theme.Decoration
}

// Workspace holds the per-type surface state: the last generated record, its
// composed fragment and the stamp/background decoration. State lives only in
// memory and starts with no stamp and no background for every type.
type Workspace struct {
	mu       sync.RWMutex
	surfaces map[document.DocType]*surface
}

// NewWorkspace creates a workspace with an empty surface per document type
func NewWorkspace() *Workspace {
	w := &Workspace{surfaces: make(map[document.DocType]*surface)}
	for _, t := range document.AllDocTypes() {
		w.surfaces[t] = &surface{}
	}
	return w
}

// Snapshot returns a copy of the surface state for t
func (w *Workspace) Snapshot(t document.DocType) Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, ok := w.surfaces[t]
	if !ok {
		return Snapshot{DocType: t}
	}
	return Snapshot{
		DocType:    t,
		Doc:        s.doc,
		Fragment:   s.fragment,
		Decoration: copyDecoration(s.decoration),
	}
}

// update runs fn with exclusive access to the surface of t
func (w *Workspace) update(t document.DocType, fn func(s *surface) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.surfaces[t]
	if !ok {
		s = &surface{}
		w.surfaces[t] = s
	}
	return fn(s)
}

func copyDecoration(d theme.Decoration) theme.Decoration {
	out := theme.Decoration{Background: d.Background}
	if d.Stamp != nil {
		cfg := *d.Stamp
		out.Stamp = &cfg
	}
	return out
}
