package component

import (
	"github.com/rotisserie/eris"
)

// Registry assigns TypeIDs to component metadata and resolves them back.
// IDs are handed out sequentially starting at zero, so a registry always
// produces the small dense id space the storage engine indexes by.
type Registry struct {
	byID   map[TypeID]ComponentMetadata
	byName map[string]ComponentMetadata
	nextID TypeID
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   map[TypeID]ComponentMetadata{},
		byName: map[string]ComponentMetadata{},
	}
}

// Register assigns the next free TypeID to each of the given components.
// Registering the same component twice is an error, as is reusing a name.
func (r *Registry) Register(comps ...ComponentMetadata) error {
	for _, comp := range comps {
		if _, ok := r.byName[comp.Name()]; ok {
			return eris.Errorf("component %q is already registered", comp.Name())
		}
		if err := comp.SetID(r.nextID); err != nil {
			return err
		}
		r.byID[r.nextID] = comp
		r.byName[comp.Name()] = comp
		r.nextID++
	}
	return nil
}

// ComponentByID returns the metadata registered under the given id.
func (r *Registry) ComponentByID(id TypeID) (ComponentMetadata, bool) {
	comp, ok := r.byID[id]
	return comp, ok
}

// ComponentByName returns the metadata registered under the given name. The
// signature matches what the CQL parser expects for name resolution.
func (r *Registry) ComponentByName(name string) (ComponentMetadata, error) {
	comp, ok := r.byName[name]
	if !ok {
		return nil, eris.Errorf("component %q is not registered", name)
	}
	return comp, nil
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.byID)
}
