package storage

import (
	"github.com/pdcamargo/voidscript-storage/component"
)

// column is the dense storage for a single component type within one
// archetype. Values are type-erased; the TypeID tag identifies which
// component schema the values belong to. The archetype that owns the column
// keeps every column's length equal to its entity count.
type column struct {
	id     component.TypeID
	values []any
}

func newColumn(id component.TypeID, capacity int) column {
	return column{
		id:     id,
		values: make([]any, 0, capacity),
	}
}

func (c *column) push(v any) {
	c.values = append(c.values, v)
}

func (c *column) get(row int) any {
	return c.values[row]
}

func (c *column) set(row int, v any) {
	c.values[row] = v
}

// swapRemove removes the value at the given row in O(1) by moving the last
// value into its slot. The removed value is returned.
func (c *column) swapRemove(row int) any {
	removed := c.values[row]
	last := len(c.values) - 1
	c.values[row] = c.values[last]
	c.values[last] = nil
	c.values = c.values[:last]
	return removed
}

func (c *column) len() int {
	return len(c.values)
}

func (c *column) clear() {
	for i := range c.values {
		c.values[i] = nil
	}
	c.values = c.values[:0]
}
