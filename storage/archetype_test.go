package storage_test

import (
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"gotest.tools/v3/assert"

	"github.com/pdcamargo/voidscript-storage/component"
	"github.com/pdcamargo/voidscript-storage/storage"
	"github.com/pdcamargo/voidscript-storage/types/entity"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	X, Y float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	Value int
}

func (Health) Name() string { return "health" }

// newTestComponents returns a registry with position, velocity and health
// registered, in that order, so their ids are 0, 1 and 2.
func newTestComponents(t *testing.T) (
	*component.Registry, component.ComponentMetadata, component.ComponentMetadata, component.ComponentMetadata,
) {
	t.Helper()
	reg := component.NewRegistry()
	pos := component.NewComponentMetadata[Position]()
	vel := component.NewComponentMetadata[Velocity]()
	health := component.NewComponentMetadata[Health]()
	assert.NilError(t, reg.Register(pos, vel, health))
	return reg, pos, vel, health
}

func TestAddEntityRequiresAllComponentData(t *testing.T) {
	_, pos, vel, _ := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos, vel})

	_, err := arch.AddEntity(1, map[component.TypeID]any{
		pos.ID(): Position{X: 1, Y: 2},
	})
	assert.Check(t, eris.Is(eris.Cause(err), storage.ErrMissingComponentData))
	// The failed insert must not leave a partial row behind
	assert.Equal(t, 0, arch.Count())

	row, err := arch.AddEntity(1, map[component.TypeID]any{
		pos.ID(): Position{X: 1, Y: 2},
		vel.ID(): Velocity{X: 3, Y: 4},
	})
	assert.NilError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, arch.Count())

	_, err = arch.AddEntity(1, map[component.TypeID]any{
		pos.ID(): Position{},
		vel.ID(): Velocity{},
	})
	assert.Check(t, eris.Is(eris.Cause(err), storage.ErrEntityAlreadyExists))
}

func TestSwapRemoveKeepsRowsDenseAndConsistent(t *testing.T) {
	_, pos, _, health := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos, health})

	const n = 8
	for i := 0; i < n; i++ {
		_, err := arch.AddEntity(entity.ID(i), map[component.TypeID]any{
			pos.ID():    Position{X: float64(i)},
			health.ID(): Health{Value: i * 10},
		})
		assert.NilError(t, err)
	}

	// Remove a middle entity; the last row is swapped into its slot.
	removed, ok := arch.RemoveEntity(3)
	assert.Check(t, ok)
	assert.Equal(t, Position{X: 3}, removed[pos.ID()])
	assert.Equal(t, Health{Value: 30}, removed[health.ID()])
	assert.Equal(t, n-1, arch.Count())

	// Every remaining entity is where its row map says it is and still
	// holds its original component values.
	for row, id := range arch.Entities() {
		gotRow, ok := arch.Row(id)
		assert.Check(t, ok)
		assert.Equal(t, row, gotRow)
		value, ok := arch.Component(id, pos.ID())
		assert.Check(t, ok)
		assert.Equal(t, Position{X: float64(id)}, value)
		assert.Equal(t, Health{Value: int(id) * 10}, arch.ComponentByRow(row, health.ID()))
	}

	_, ok = arch.RemoveEntity(3)
	assert.Check(t, !ok)
}

func TestRemoveLastRowNeedsNoSwap(t *testing.T) {
	_, pos, _, _ := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos})

	for i := 0; i < 3; i++ {
		_, err := arch.AddEntity(entity.ID(i), map[component.TypeID]any{pos.ID(): Position{X: float64(i)}})
		assert.NilError(t, err)
	}
	_, ok := arch.RemoveEntity(2)
	assert.Check(t, ok)
	assert.Equal(t, 2, arch.Count())
	row, ok := arch.Row(0)
	assert.Check(t, ok)
	assert.Equal(t, 0, row)
	row, ok = arch.Row(1)
	assert.Check(t, ok)
	assert.Equal(t, 1, row)
}

func TestSetComponentContract(t *testing.T) {
	_, pos, vel, _ := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos})

	_, err := arch.AddEntity(7, map[component.TypeID]any{pos.ID(): Position{}})
	assert.NilError(t, err)

	assert.NilError(t, arch.SetComponent(7, pos.ID(), Position{X: 9}))
	value, ok := arch.Component(7, pos.ID())
	assert.Check(t, ok)
	assert.Equal(t, Position{X: 9}, value)

	err = arch.SetComponent(8, pos.ID(), Position{})
	assert.Check(t, eris.Is(eris.Cause(err), storage.ErrEntityNotFound))

	err = arch.SetComponent(7, vel.ID(), Velocity{})
	assert.Check(t, eris.Is(eris.Cause(err), storage.ErrComponentNotInArchetype))

	// A component outside the signature is an expected miss on reads.
	_, ok = arch.Component(7, vel.ID())
	assert.Check(t, !ok)
}

func TestMatchesSignature(t *testing.T) {
	_, pos, vel, health := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos, vel})

	tests := []struct {
		name string
		ids  []component.TypeID
		want bool
	}{
		{"identical", []component.TypeID{pos.ID(), vel.ID()}, true},
		{"different order", []component.TypeID{vel.ID(), pos.ID()}, true},
		{"duplicated ids", []component.TypeID{pos.ID(), vel.ID(), pos.ID()}, true},
		{"subset", []component.TypeID{pos.ID()}, false},
		{"superset", []component.TypeID{pos.ID(), vel.ID(), health.ID()}, false},
		{"disjoint", []component.TypeID{health.ID()}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, arch.MatchesSignature(tt.ids))
		})
	}
}

func TestSignatureHash(t *testing.T) {
	_, pos, vel, health := newTestComponents(t)

	arch := storage.NewArchetype(0, []component.ComponentMetadata{health, pos, vel})
	assert.Equal(t, "0,1,2", arch.SignatureHash())

	empty := storage.NewArchetype(1, nil)
	assert.Equal(t, "", empty.SignatureHash())
	assert.Equal(t, 0, len(empty.ComponentIDs()))
}

func TestDenseInvariantUnderChurn(t *testing.T) {
	_, pos, vel, _ := newTestComponents(t)
	arch := storage.NewArchetype(0, []component.ComponentMetadata{pos, vel})

	checkInvariants := func() {
		t.Helper()
		count := arch.Count()
		assert.Equal(t, count, len(arch.Entities()))
		for row, id := range arch.Entities() {
			gotRow, ok := arch.Row(id)
			assert.Check(t, ok, "entity %d missing from row map", id)
			assert.Equal(t, row, gotRow)
			// Both columns must answer for every live row
			_ = arch.ComponentByRow(row, pos.ID())
			_ = arch.ComponentByRow(row, vel.ID())
		}
	}

	const n = 16
	for i := 0; i < n; i++ {
		_, err := arch.AddEntity(entity.ID(i), map[component.TypeID]any{
			pos.ID(): Position{X: float64(i)},
			vel.ID(): Velocity{Y: float64(i)},
		})
		assert.NilError(t, err)
		checkInvariants()
	}

	for i := 1; i < n; i += 2 {
		_, ok := arch.RemoveEntity(entity.ID(i))
		assert.Check(t, ok)
		checkInvariants()
	}
	assert.Equal(t, n/2, arch.Count())

	const m = 5
	for i := 0; i < m; i++ {
		_, err := arch.AddEntity(entity.ID(100+i), map[component.TypeID]any{
			pos.ID(): Position{},
			vel.ID(): Velocity{},
		})
		assert.NilError(t, err)
		checkInvariants()
	}
	assert.Equal(t, n/2+m, arch.Count())
}

func TestClearKeepsIdentity(t *testing.T) {
	_, pos, _, _ := newTestComponents(t)
	arch := storage.NewArchetype(42, []component.ComponentMetadata{pos})

	for i := 0; i < 4; i++ {
		_, err := arch.AddEntity(entity.ID(i), map[component.TypeID]any{pos.ID(): Position{}})
		assert.NilError(t, err)
	}
	arch.Clear()
	assert.Equal(t, 0, arch.Count())
	assert.Equal(t, "42", fmt.Sprint(arch.ID()))
	assert.Check(t, arch.HasComponent(pos.ID()))

	// The cleared archetype accepts new rows starting at row zero.
	row, err := arch.AddEntity(99, map[component.TypeID]any{pos.ID(): Position{}})
	assert.NilError(t, err)
	assert.Equal(t, 0, row)
}
