package shaderparts

import (
	"cmp"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps part names to parts.
//
// A Registry is normally populated once at startup and then read by a
// Cache. Redefining a name replaces the previous part and notifies
// watchers, so a Cache built on the registry drops programs that used the
// old definition.
//
// Registry is safe for concurrent use. Redefining a part runs cache
// invalidation, and with it Releaser.Release, on the goroutine that called
// Define, DefinePart or Register. With a builder tied to a graphics context,
// redefine parts only from the thread that owns the context.
type Registry struct {
	mu    sync.RWMutex
	parts map[string]*Part

	watchMu   sync.Mutex
	watchers  map[uint64]func(name string)
	nextWatch uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		parts:    make(map[string]*Part),
		watchers: make(map[uint64]func(name string)),
	}
}

// Define registers a part whose snippets are keyed "<stage>_<priority>",
// for example {"vertex_100": "gl_Position = ...;"}.
//
// A key that does not parse fails the whole call with an
// *InvalidPartDefinitionError and the registry is not changed. Keys are
// validated in sorted order and snippets are ordered by stage, priority
// and key, so the result does not depend on map iteration order.
func (r *Registry) Define(name, variables string, snippets map[string]string) error {
	type keyed struct {
		key string
		Snippet
	}
	list := make([]keyed, 0, len(snippets))
	for _, key := range slices.Sorted(maps.Keys(snippets)) {
		stage, priority, err := ParseSnippetKey(key)
		if err != nil {
			var ipe *InvalidPartDefinitionError
			if errors.As(err, &ipe) {
				ipe.Part = name
			}
			return err
		}
		list = append(list, keyed{key, Snippet{Stage: stage, Priority: priority, Code: snippets[key]}})
	}
	slices.SortFunc(list, func(a, b keyed) int {
		if c := cmp.Compare(a.Stage, b.Stage); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	ordered := make([]Snippet, len(list))
	for i, k := range list {
		ordered[i] = k.Snippet
	}
	return r.DefinePart(name, variables, ordered...)
}

// DefinePart registers a part built from a variable block and snippets.
// Snippet order is kept. See NewPart.
//
// Replacing an existing part releases the cached programs that used it on
// the calling goroutine.
func (r *Registry) DefinePart(name, variables string, snippets ...Snippet) error {
	p, err := NewPart(name, variables, snippets...)
	if err != nil {
		return err
	}
	for _, d := range p.diags {
		Logger().Warn("shaderparts: skipped variable declaration",
			"part", name, "line", d.Line, "text", d.Text, "reason", d.Reason)
	}
	r.Register(p)
	return nil
}

// Register inserts p, replacing any part with the same name.
func (r *Registry) Register(p *Part) {
	r.mu.Lock()
	_, replaced := r.parts[p.name]
	r.parts[p.name] = p
	r.mu.Unlock()

	if replaced {
		Logger().Debug("shaderparts: part redefined", "part", p.name)
		r.notify(p.name)
	}
}

// Resolve returns the part registered under name.
func (r *Registry) Resolve(name string) (*Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(name)
}

func (r *Registry) resolveLocked(name string) (*Part, error) {
	p, ok := r.parts[name]
	if !ok {
		return nil, &UnknownPartError{Name: name}
	}
	return p, nil
}

// ResolveAll resolves every name in order. It fails on the first unknown
// name and returns no parts in that case.
func (r *Registry) ResolveAll(names []string) ([]*Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveAllLocked(names)
}

func (r *Registry) resolveAllLocked(names []string) ([]*Part, error) {
	parts := make([]*Part, len(names))
	for i, name := range names {
		p, err := r.resolveLocked(name)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return parts, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parts[name]
	return ok
}

// Names returns the registered part names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.parts))
}

// Len returns the number of registered parts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parts)
}

// AssembleNames resolves names and assembles the stage's source with the
// default assembler. Nothing is assembled if any name is unknown.
func (r *Registry) AssembleNames(names []string, stage Stage) (string, error) {
	parts, err := r.ResolveAll(names)
	if err != nil {
		return "", err
	}
	return Assemble(parts, stage), nil
}

// watch registers fn to be called with the name of every redefined part.
// fn runs after the registry lock is released. The returned func removes
// fn; it may be called more than once.
func (r *Registry) watch(fn func(name string)) (unwatch func()) {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	id := r.nextWatch
	r.nextWatch++
	r.watchers[id] = fn
	return func() {
		r.watchMu.Lock()
		defer r.watchMu.Unlock()
		delete(r.watchers, id)
	}
}

func (r *Registry) notify(name string) {
	r.watchMu.Lock()
	ids := slices.Sorted(maps.Keys(r.watchers))
	watchers := make([]func(string), len(ids))
	for i, id := range ids {
		watchers[i] = r.watchers[id]
	}
	r.watchMu.Unlock()

	for _, fn := range watchers {
		fn(name)
	}
}
