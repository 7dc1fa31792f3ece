package storage

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/pdcamargo/voidscript-storage/component"
	vslog "github.com/pdcamargo/voidscript-storage/log"
	"github.com/pdcamargo/voidscript-storage/statsd"
	"github.com/pdcamargo/voidscript-storage/types/archetype"
	"github.com/pdcamargo/voidscript-storage/types/entity"
)

// Store tracks which archetype every entity currently lives in and performs
// the row migrations that component adds and removes require. Entity ids
// are issued by the caller; the store never allocates them. Row indices are
// deliberately not tracked here: swap-remove makes them unstable, so the
// row is always re-resolved through the archetype at access time.
type Store struct {
	graph     *ArchetypeGraph
	locations map[entity.ID]archetype.ID
	logger    *zerolog.Logger
}

// NewStore creates an empty store with its own archetype graph.
func NewStore(registry *component.Registry, opts ...GraphOption) *Store {
	graph := NewArchetypeGraph(registry, opts...)
	return &Store{
		graph:     graph,
		locations: map[entity.ID]archetype.ID{},
		logger:    graph.logger,
	}
}

// Graph returns the archetype graph backing this store.
func (s *Store) Graph() *ArchetypeGraph {
	return s.graph
}

// CreateEntity places a caller-issued entity id into the archetype for the
// given component set. The values map must hold data for every listed
// component.
func (s *Store) CreateEntity(id entity.ID, values map[component.TypeID]any, ids ...component.TypeID) error {
	if _, ok := s.locations[id]; ok {
		return eris.Wrapf(ErrEntityAlreadyExists, "entity %d", id)
	}
	arch, err := s.graph.GetOrCreateArchetype(ids...)
	if err != nil {
		return err
	}
	if _, err := arch.AddEntity(id, values); err != nil {
		return err
	}
	s.locations[id] = arch.ID()
	vslog.Entity(s.logger, zerolog.DebugLevel, id, arch.ID(), arch.Components())
	return nil
}

// DestroyEntity removes the entity from its archetype and returns its final
// component values. Destroying an unknown entity is a no-op probe and
// returns false.
func (s *Store) DestroyEntity(id entity.ID) (map[component.TypeID]any, bool) {
	arch, ok := s.archetypeForEntity(id)
	if !ok {
		return nil, false
	}
	values, ok := arch.RemoveEntity(id)
	if !ok {
		return nil, false
	}
	delete(s.locations, id)
	return values, true
}

// AddComponent attaches a component to an entity by migrating its row to
// the archetype whose signature includes the component.
func (s *Store) AddComponent(id entity.ID, cid component.TypeID, value any) error {
	start := time.Now()
	from, ok := s.archetypeForEntity(id)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	dest, err := s.graph.ArchetypeAfterAdd(from, cid)
	if err != nil {
		return err
	}
	values, _ := from.RemoveEntity(id)
	values[cid] = value
	if _, err := dest.AddEntity(id, values); err != nil {
		return err
	}
	s.locations[id] = dest.ID()
	vslog.Entity(s.logger, zerolog.DebugLevel, id, dest.ID(), dest.Components())
	statsd.EmitMoveStat(start, "add_component")
	return nil
}

// RemoveComponent detaches a component from an entity by migrating its row
// to the archetype whose signature excludes the component. The detached
// value is returned.
func (s *Store) RemoveComponent(id entity.ID, cid component.TypeID) (any, error) {
	start := time.Now()
	from, ok := s.archetypeForEntity(id)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	dest, err := s.graph.ArchetypeAfterRemove(from, cid)
	if err != nil {
		return nil, err
	}
	values, _ := from.RemoveEntity(id)
	detached := values[cid]
	if _, err := dest.AddEntity(id, values); err != nil {
		return nil, err
	}
	s.locations[id] = dest.ID()
	vslog.Entity(s.logger, zerolog.DebugLevel, id, dest.ID(), dest.Components())
	statsd.EmitMoveStat(start, "remove_component")
	return detached, nil
}

// GetComponent returns the component value stored for the given entity.
func (s *Store) GetComponent(id entity.ID, cid component.TypeID) (any, error) {
	arch, ok := s.archetypeForEntity(id)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	value, ok := arch.Component(id, cid)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotInArchetype, "component %d for entity %d", cid, id)
	}
	return value, nil
}

// SetComponent overwrites the component value stored for the given entity.
func (s *Store) SetComponent(id entity.ID, cid component.TypeID, value any) error {
	arch, ok := s.archetypeForEntity(id)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	return arch.SetComponent(id, cid, value)
}

// ArchetypeForEntity returns the archetype the entity currently lives in.
func (s *Store) ArchetypeForEntity(id entity.ID) (*Archetype, bool) {
	return s.archetypeForEntity(id)
}

func (s *Store) archetypeForEntity(id entity.ID) (*Archetype, bool) {
	archID, ok := s.locations[id]
	if !ok {
		return nil, false
	}
	return s.graph.Archetype(archID)
}

// Len returns the number of live entities tracked by the store.
func (s *Store) Len() int {
	return len(s.locations)
}

// Clear resets the store and its graph together, so no stale entity
// location can outlive the archetype ids it refers to.
func (s *Store) Clear() {
	clear(s.locations)
	s.graph.Clear()
}
