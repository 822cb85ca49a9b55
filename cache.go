package shaderparts

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Builder compiles and links a vertex/fragment source pair into a program.
//
// Build is called on the goroutine that calls Cache.Get, with the cache
// lock held. Implementations backed by a graphics context must therefore
// be driven from the thread that owns the context.
//
// Compile and link failures should be reported as *ShaderBuildError; any
// other error is wrapped in one by the cache.
type Builder[P any] interface {
	Build(vertex, fragment string) (P, error)
}

// Releaser is implemented by builders whose programs hold resources.
// The cache calls Release for every program it drops.
type Releaser[P any] interface {
	Release(program P)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc[P any] func(vertex, fragment string) (P, error)

// Build calls f(vertex, fragment).
func (f BuilderFunc[P]) Build(vertex, fragment string) (P, error) {
	return f(vertex, fragment)
}

// Cache builds programs from part names and memoizes them.
//
// Programs are stored under two keys: the exact requested name sequence,
// and the canonical key (names deduplicated and sorted). Requests that
// differ only in order or repetition therefore share one program, and the
// builder runs at most once per distinct set of names.
//
// Programs are assembled from the canonical name order, so the source of a
// program does not depend on which ordering was requested first.
//
// Failed builds are not cached. When the registry redefines a part, every
// cached program that includes it is dropped and released. That release
// runs on the goroutine that redefined the part, so with a builder bound to
// a graphics context, parts must be redefined on the context thread.
//
// A cache stays attached to its registry until Close. Call Close when the
// cache is abandoned, for example after losing the graphics context, so
// later redefinitions do not release its stale programs.
//
// Cache is safe for concurrent use, but calls are serialized: Get holds
// the cache lock for the whole build.
type Cache[P any] struct {
	mu        sync.Mutex
	registry  *Registry
	builder   Builder[P]
	assembler *Assembler

	exact     map[string]*cacheEntry[P]
	canonical map[string]*cacheEntry[P]
	unwatch   func()
	closed    bool

	exactHits     atomic.Uint64
	canonicalHits atomic.Uint64
	misses        atomic.Uint64
	builds        atomic.Uint64
	failures      atomic.Uint64
}

// cacheEntry is shared by every key that maps to the same program.
type cacheEntry[P any] struct {
	program P
	names   []string // canonical, sorted
}

// NewCache creates a cache that resolves parts in reg and builds programs
// with b. It panics if reg or b is nil.
func NewCache[P any](reg *Registry, b Builder[P], opts ...CacheOption) *Cache[P] {
	if reg == nil {
		panic("shaderparts: NewCache with nil registry")
	}
	if b == nil {
		panic("shaderparts: NewCache with nil builder")
	}
	o := cacheOptions{assembler: defaultAssembler}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[P]{
		registry:  reg,
		builder:   b,
		assembler: o.assembler,
		exact:     make(map[string]*cacheEntry[P]),
		canonical: make(map[string]*cacheEntry[P]),
	}
	c.unwatch = reg.watch(c.invalidate)
	return c
}

// Get returns the program for names, building it on first use.
//
// Errors are *UnknownPartError when a name is not registered and
// *ShaderBuildError when the builder fails. Neither changes the cache.
// Get on a closed cache returns ErrCacheClosed.
func (c *Cache[P]) Get(names []string) (P, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		var zero P
		return zero, ErrCacheClosed
	}

	key := sequenceKey(names)
	if e, ok := c.exact[key]; ok {
		c.exactHits.Add(1)
		return e.program, nil
	}

	set := canonicalNames(names)
	setKey := sequenceKey(set)
	if e, ok := c.canonical[setKey]; ok {
		c.exact[key] = e
		c.canonicalHits.Add(1)
		Logger().Debug("shaderparts: program cache hit", "parts", names, "canonical", set)
		return e.program, nil
	}

	c.misses.Add(1)
	program, err := c.build(set)
	if err != nil {
		var zero P
		return zero, err
	}

	e := &cacheEntry[P]{program: program, names: set}
	c.exact[key] = e
	c.canonical[setKey] = e
	return program, nil
}

// build resolves, assembles and builds set. The registry read lock is held
// throughout so the parts cannot be redefined mid-build.
func (c *Cache[P]) build(set []string) (P, error) {
	var zero P

	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()

	parts, err := c.registry.resolveAllLocked(set)
	if err != nil {
		return zero, err
	}
	vertex := c.assembler.Assemble(parts, StageVertex)
	fragment := c.assembler.Assemble(parts, StageFragment)

	program, err := c.builder.Build(vertex, fragment)
	if err != nil {
		c.failures.Add(1)
		var sbe *ShaderBuildError
		if !errors.As(err, &sbe) {
			err = &ShaderBuildError{Err: err}
		}
		Logger().Warn("shaderparts: program build failed", "parts", set, "err", err)
		return zero, err
	}

	c.builds.Add(1)
	Logger().Debug("shaderparts: program built", "parts", set)
	return program, nil
}

// invalidate drops every program whose part set contains name.
func (c *Cache[P]) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	dropped := make(map[*cacheEntry[P]]struct{})
	for k, e := range c.canonical {
		if _, found := slices.BinarySearch(e.names, name); found {
			dropped[e] = struct{}{}
			delete(c.canonical, k)
		}
	}
	if len(dropped) == 0 {
		return
	}
	for k, e := range c.exact {
		if _, ok := dropped[e]; ok {
			delete(c.exact, k)
		}
	}

	Logger().Warn("shaderparts: redefined part invalidated cached programs",
		"part", name, "programs", len(dropped))
	for e := range dropped {
		c.release(e.program)
	}
}

// Clear drops every cached program, releasing each once.
// Statistics are kept.
func (c *Cache[P]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.canonical {
		c.release(e.program)
	}
	c.exact = make(map[string]*cacheEntry[P])
	c.canonical = make(map[string]*cacheEntry[P])
}

// Close releases every cached program and detaches the cache from its
// registry. Later redefinitions no longer reach the cache, and Get returns
// ErrCacheClosed. Close is idempotent.
func (c *Cache[P]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.unwatch()

	for _, e := range c.canonical {
		c.release(e.program)
	}
	c.exact = make(map[string]*cacheEntry[P])
	c.canonical = make(map[string]*cacheEntry[P])
}

func (c *Cache[P]) release(program P) {
	if r, ok := c.builder.(Releaser[P]); ok {
		r.Release(program)
	}
}

// Len returns the number of distinct cached programs.
func (c *Cache[P]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.canonical)
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	ExactHits     uint64 // requests answered by the exact-sequence table
	CanonicalHits uint64 // requests answered by the canonical table
	Misses        uint64 // requests that found no program
	Builds        uint64 // successful builds
	Failures      uint64 // failed builds

	ExactEntries     int
	CanonicalEntries int
}

// HitRate returns the fraction of requests answered from the cache,
// or 0 if there were none.
func (s CacheStats) HitRate() float64 {
	hits := s.ExactHits + s.CanonicalHits
	total := hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Stats returns the current counters and table sizes.
func (c *Cache[P]) Stats() CacheStats {
	c.mu.Lock()
	exact, canonical := len(c.exact), len(c.canonical)
	c.mu.Unlock()

	return CacheStats{
		ExactHits:        c.exactHits.Load(),
		CanonicalHits:    c.canonicalHits.Load(),
		Misses:           c.misses.Load(),
		Builds:           c.builds.Load(),
		Failures:         c.failures.Load(),
		ExactEntries:     exact,
		CanonicalEntries: canonical,
	}
}

// canonicalNames returns names deduplicated and sorted.
func canonicalNames(names []string) []string {
	set := slices.Clone(names)
	slices.Sort(set)
	return slices.Compact(set)
}

// sequenceKey encodes names as a map key. Each name is length-prefixed,
// so no two distinct sequences share a key.
func sequenceKey(names []string) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(strconv.Itoa(len(n)))
		b.WriteByte(':')
		b.WriteString(n)
	}
	return b.String()
}
