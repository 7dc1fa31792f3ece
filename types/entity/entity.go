package entity

// ID is the opaque handle of a live entity. IDs are issued by the world
// that owns the storage engine; the storage packages treat them as keys.
type ID uint64
