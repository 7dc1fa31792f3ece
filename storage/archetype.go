package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pdcamargo/voidscript-storage/component"
	"github.com/pdcamargo/voidscript-storage/types/archetype"
	"github.com/pdcamargo/voidscript-storage/types/entity"
)

// defaultCapacity is the initial per-column capacity of a new archetype.
const defaultCapacity = 256

// Archetype is the dense storage table for all entities sharing one exact
// set of component types. Component data is laid out as one contiguous
// column per component type, so bulk iteration over a single component
// touches a single slice. Rows are unstable: removal swaps the last row
// into the vacated slot, so positions must always be re-resolved through
// Row after any removal.
type Archetype struct {
	id        archetype.ID
	signature string
	ids       []component.TypeID
	comps     []component.ComponentMetadata
	// comps viewed through the interface the filter package matches on
	filterable []component.Component
	columns    []column
	entities   []entity.ID
	rowOf      map[entity.ID]int
}

// NewArchetype creates a new archetype for the given component metadata.
// The component set is canonicalized (sorted by TypeID, deduplicated); an
// empty set is valid and produces the root archetype that holds entities
// with no components.
func NewArchetype(archID archetype.ID, components []component.ComponentMetadata) *Archetype {
	return newArchetype(archID, components, defaultCapacity)
}

func newArchetype(archID archetype.ID, components []component.ComponentMetadata, capacity int) *Archetype {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	sorted := make([]component.ComponentMetadata, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	a := &Archetype{
		id:       archID,
		entities: make([]entity.ID, 0, capacity),
		rowOf:    make(map[entity.ID]int, capacity),
	}
	for _, comp := range sorted {
		if len(a.ids) > 0 && a.ids[len(a.ids)-1] == comp.ID() {
			continue
		}
		a.ids = append(a.ids, comp.ID())
		a.comps = append(a.comps, comp)
		a.filterable = append(a.filterable, comp)
		a.columns = append(a.columns, newColumn(comp.ID(), capacity))
	}
	a.signature = signatureHash(a.ids)
	return a
}

// ID returns the archetype id.
func (a *Archetype) ID() archetype.ID {
	return a.id
}

// ComponentIDs returns the sorted component type ids that define this
// archetype's signature. The returned slice must not be modified.
func (a *Archetype) ComponentIDs() []component.TypeID {
	return a.ids
}

// Components returns the metadata of the components in this archetype,
// sorted by TypeID.
func (a *Archetype) Components() []component.ComponentMetadata {
	return a.comps
}

// slot returns the column index for the given component type id.
func (a *Archetype) slot(cid component.TypeID) (int, bool) {
	i := sort.Search(len(a.ids), func(n int) bool { return a.ids[n] >= cid })
	if i < len(a.ids) && a.ids[i] == cid {
		return i, true
	}
	return 0, false
}

// AddEntity appends the entity and its component values as a new row and
// returns the row index. Every component id in the archetype's signature
// must have a value in the given map; a missing value fails with
// ErrMissingComponentData before any state is modified.
func (a *Archetype) AddEntity(id entity.ID, values map[component.TypeID]any) (int, error) {
	if _, ok := a.rowOf[id]; ok {
		return 0, eris.Wrapf(ErrEntityAlreadyExists, "entity %d in archetype %d", id, a.id)
	}
	for _, cid := range a.ids {
		if _, ok := values[cid]; !ok {
			return 0, eris.Wrapf(ErrMissingComponentData, "component %d for entity %d", cid, id)
		}
	}
	row := len(a.entities)
	a.entities = append(a.entities, id)
	a.rowOf[id] = row
	for i, cid := range a.ids {
		a.columns[i].push(values[cid])
	}
	return row, nil
}

// RemoveEntity removes the entity's row via swap-remove and returns its
// component values, keyed by component type id, so the caller can insert
// them into a destination archetype. The second return value is false when
// the entity is not tracked here; probing for absent entities is a normal,
// non-error outcome.
func (a *Archetype) RemoveEntity(id entity.ID) (map[component.TypeID]any, bool) {
	row, ok := a.rowOf[id]
	if !ok {
		return nil, false
	}
	removed := make(map[component.TypeID]any, len(a.ids))
	for i, cid := range a.ids {
		removed[cid] = a.columns[i].swapRemove(row)
	}
	last := len(a.entities) - 1
	if row != last {
		moved := a.entities[last]
		a.entities[row] = moved
		a.rowOf[moved] = row
	}
	a.entities = a.entities[:last]
	delete(a.rowOf, id)
	return removed, true
}

// Component returns the component value stored for the given entity. The
// second return value is false when the entity is not in this archetype or
// the component is not part of its signature.
func (a *Archetype) Component(id entity.ID, cid component.TypeID) (any, bool) {
	row, ok := a.rowOf[id]
	if !ok {
		return nil, false
	}
	i, ok := a.slot(cid)
	if !ok {
		return nil, false
	}
	return a.columns[i].get(row), true
}

// ComponentByRow is the fast path for bulk iteration: it reads a component
// value by row index with no entity lookup. Out-of-range rows and component
// ids outside the signature are programmer errors and panic.
func (a *Archetype) ComponentByRow(row int, cid component.TypeID) any {
	i, ok := a.slot(cid)
	if !ok {
		panic(fmt.Sprintf("component %d is not part of archetype %d", cid, a.id))
	}
	return a.columns[i].get(row)
}

// SetComponent overwrites the entity's stored value for the given component.
func (a *Archetype) SetComponent(id entity.ID, cid component.TypeID, value any) error {
	row, ok := a.rowOf[id]
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d in archetype %d", id, a.id)
	}
	i, ok := a.slot(cid)
	if !ok {
		return eris.Wrapf(ErrComponentNotInArchetype, "component %d in archetype %d", cid, a.id)
	}
	a.columns[i].set(row, value)
	return nil
}

// HasComponent returns true if the component type is part of this
// archetype's signature.
func (a *Archetype) HasComponent(cid component.TypeID) bool {
	_, ok := a.slot(cid)
	return ok
}

// MatchesSignature returns true if the given component ids, after
// canonicalization, are exactly this archetype's signature. Subsets and
// supersets do not match.
func (a *Archetype) MatchesSignature(ids []component.TypeID) bool {
	normalized := normalizeTypeIDs(ids)
	if len(normalized) != len(a.ids) {
		return false
	}
	for i, cid := range normalized {
		if a.ids[i] != cid {
			return false
		}
	}
	return true
}

// SignatureHash returns the canonical signature key of this archetype: the
// sorted component ids joined by ",".
func (a *Archetype) SignatureHash() string {
	return a.signature
}

// Row returns the entity's current row index.
func (a *Archetype) Row(id entity.ID) (int, bool) {
	row, ok := a.rowOf[id]
	return row, ok
}

// Count returns the number of entities stored in this archetype.
func (a *Archetype) Count() int {
	return len(a.entities)
}

// Entities returns the dense entity list. The index of an entity in this
// slice is its row. The returned slice must not be modified.
func (a *Archetype) Entities() []entity.ID {
	return a.entities
}

// Clear empties all rows in place. The archetype keeps its id and
// signature; this is a world-reset operation, not a schema change.
func (a *Archetype) Clear() {
	a.entities = a.entities[:0]
	clear(a.rowOf)
	for i := range a.columns {
		a.columns[i].clear()
	}
}

// normalizeTypeIDs returns a sorted, deduplicated copy of the given ids.
func normalizeTypeIDs(ids []component.TypeID) []component.TypeID {
	sorted := make([]component.TypeID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]component.TypeID, 0, len(sorted))
	for i, cid := range sorted {
		if i > 0 && sorted[i-1] == cid {
			continue
		}
		out = append(out, cid)
	}
	return out
}

// signatureHash builds the canonical signature key for a sorted id set.
// Integers joined by a non-numeric delimiter cannot collide.
func signatureHash(ids []component.TypeID) string {
	var sb strings.Builder
	for i, cid := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(cid)))
	}
	return sb.String()
}
