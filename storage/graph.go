package storage

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/pdcamargo/voidscript-storage/component"
	"github.com/pdcamargo/voidscript-storage/filter"
	vslog "github.com/pdcamargo/voidscript-storage/log"
	"github.com/pdcamargo/voidscript-storage/statsd"
	"github.com/pdcamargo/voidscript-storage/types/archetype"
)

// ArchetypeGraph owns every archetype and resolves component add/remove
// transitions between them. Lookups are canonicalized by signature, so the
// graph holds at most one archetype per unique component set. Transition
// edges are a memoization cache only; the signature map is authoritative.
//
// The graph is single-threaded by design: all mutation happens on one
// logical thread per tick, and no operation blocks or performs I/O.
type ArchetypeGraph struct {
	registry *component.Registry

	archetypes  map[archetype.ID]*Archetype
	ordered     []*Archetype
	bySignature map[string]*Archetype

	addEdges    map[archetype.ID]map[component.TypeID]archetype.ID
	removeEdges map[archetype.ID]map[component.TypeID]archetype.ID

	nextID    archetype.ID
	listeners []func(*Archetype)

	logger   *zerolog.Logger
	capacity int
}

// GraphOption augments the creation of an ArchetypeGraph.
type GraphOption func(*ArchetypeGraph)

// WithLogger replaces the graph's logger. The default is the global zerolog
// logger.
func WithLogger(logger *zerolog.Logger) GraphOption {
	return func(g *ArchetypeGraph) {
		g.logger = logger
	}
}

// WithInitialCapacity sets the per-column capacity new archetypes are
// created with.
func WithInitialCapacity(capacity int) GraphOption {
	return func(g *ArchetypeGraph) {
		g.capacity = capacity
	}
}

// NewArchetypeGraph creates an empty graph. The registry is the injected
// authority for component ids; archetypes can only be created for
// registered components.
func NewArchetypeGraph(registry *component.Registry, opts ...GraphOption) *ArchetypeGraph {
	g := &ArchetypeGraph{
		registry:    registry,
		archetypes:  map[archetype.ID]*Archetype{},
		bySignature: map[string]*Archetype{},
		addEdges:    map[archetype.ID]map[component.TypeID]archetype.ID{},
		removeEdges: map[archetype.ID]map[component.TypeID]archetype.ID{},
		logger:      &zlog.Logger,
		capacity:    defaultCapacity,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnArchetypeCreated registers a listener invoked synchronously whenever a
// brand-new archetype is allocated. Multiple listeners may be registered;
// query caches use this to invalidate themselves.
func (g *ArchetypeGraph) OnArchetypeCreated(fn func(*Archetype)) {
	g.listeners = append(g.listeners, fn)
}

// GetOrCreateArchetype returns the archetype for the given component set,
// creating it on first use. The input is canonicalized, so every permutation
// of the same id set resolves to the same archetype. Ids unknown to the
// registry fail with ErrMustRegisterComponent.
func (g *ArchetypeGraph) GetOrCreateArchetype(ids ...component.TypeID) (*Archetype, error) {
	normalized := normalizeTypeIDs(ids)
	key := signatureHash(normalized)
	if arch, ok := g.bySignature[key]; ok {
		return arch, nil
	}

	comps := make([]component.ComponentMetadata, 0, len(normalized))
	for _, cid := range normalized {
		comp, ok := g.registry.ComponentByID(cid)
		if !ok {
			return nil, eris.Wrapf(ErrMustRegisterComponent, "component %d", cid)
		}
		comps = append(comps, comp)
	}

	start := time.Now()
	arch := newArchetype(g.nextID, comps, g.capacity)
	g.nextID++
	g.archetypes[arch.id] = arch
	g.ordered = append(g.ordered, arch)
	g.bySignature[key] = arch
	g.addEdges[arch.id] = map[component.TypeID]archetype.ID{}
	g.removeEdges[arch.id] = map[component.TypeID]archetype.ID{}

	vslog.Archetype(g.logger, zerolog.DebugLevel, arch.id, comps)
	statsd.EmitCreateStat(start)
	for _, fn := range g.listeners {
		fn(arch)
	}
	return arch, nil
}

// ArchetypeAfterAdd resolves the archetype an entity moves to when the given
// component is added. Adding a component the archetype already has is not a
// valid transition and fails with ErrComponentAlreadyInArchetype; callers
// probing speculatively should treat it as "stay". The computed edge is
// cached, so repeat transitions are a single map lookup.
func (g *ArchetypeGraph) ArchetypeAfterAdd(from *Archetype, cid component.TypeID) (*Archetype, error) {
	if from.HasComponent(cid) {
		return nil, eris.Wrapf(ErrComponentAlreadyInArchetype, "component %d in archetype %d", cid, from.id)
	}
	if destID, ok := g.addEdges[from.id][cid]; ok {
		return g.archetypes[destID], nil
	}

	ids := make([]component.TypeID, 0, len(from.ids)+1)
	ids = append(ids, from.ids...)
	ids = append(ids, cid)
	dest, err := g.GetOrCreateArchetype(ids...)
	if err != nil {
		return nil, err
	}
	if g.addEdges[from.id] == nil {
		g.addEdges[from.id] = map[component.TypeID]archetype.ID{}
	}
	g.addEdges[from.id][cid] = dest.id
	return dest, nil
}

// ArchetypeAfterRemove resolves the archetype an entity moves to when the
// given component is removed. Removing a component the archetype does not
// have fails with ErrComponentNotInArchetype. Removing the last remaining
// component yields the empty-signature archetype, never nil.
func (g *ArchetypeGraph) ArchetypeAfterRemove(from *Archetype, cid component.TypeID) (*Archetype, error) {
	if !from.HasComponent(cid) {
		return nil, eris.Wrapf(ErrComponentNotInArchetype, "component %d in archetype %d", cid, from.id)
	}
	if destID, ok := g.removeEdges[from.id][cid]; ok {
		return g.archetypes[destID], nil
	}

	ids := make([]component.TypeID, 0, len(from.ids)-1)
	for _, id := range from.ids {
		if id != cid {
			ids = append(ids, id)
		}
	}
	dest, err := g.GetOrCreateArchetype(ids...)
	if err != nil {
		return nil, err
	}
	if g.removeEdges[from.id] == nil {
		g.removeEdges[from.id] = map[component.TypeID]archetype.ID{}
	}
	g.removeEdges[from.id][cid] = dest.id
	return dest, nil
}

// Archetype returns the archetype with the given id.
func (g *ArchetypeGraph) Archetype(id archetype.ID) (*Archetype, bool) {
	arch, ok := g.archetypes[id]
	return arch, ok
}

// Archetypes returns every archetype in creation order, for full-table
// scans. The returned slice must not be modified.
func (g *ArchetypeGraph) Archetypes() []*Archetype {
	return g.ordered
}

// Count returns the number of archetypes in the graph.
func (g *ArchetypeGraph) Count() int {
	return len(g.ordered)
}

// SearchFrom returns an iterator over the ids of archetypes matching the
// given filter, starting the scan at the given position in creation order.
func (g *ArchetypeGraph) SearchFrom(f filter.ComponentFilter, start int) *ArchetypeIterator {
	it := &ArchetypeIterator{}
	for i := start; i < len(g.ordered); i++ {
		if f.MatchesComponents(g.ordered[i].filterable) {
			it.Values = append(it.Values, g.ordered[i].id)
		}
	}
	return it
}

// Search returns an iterator over the ids of all archetypes matching the
// given filter.
func (g *ArchetypeGraph) Search(f filter.ComponentFilter) *ArchetypeIterator {
	return g.SearchFrom(f, 0)
}

// Clear resets the graph to empty: archetypes, the signature map, and all
// cached edges are dropped. The id counter intentionally keeps counting, so
// stale archetype ids retained by outside observers across a reset can
// never collide with archetypes created afterwards.
func (g *ArchetypeGraph) Clear() {
	clear(g.archetypes)
	clear(g.bySignature)
	clear(g.addEdges)
	clear(g.removeEdges)
	g.ordered = nil
	g.logger.Info().Msg("archetype graph cleared")
}
