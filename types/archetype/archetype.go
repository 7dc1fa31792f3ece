package archetype

// ID identifies an archetype within a graph. IDs are assigned sequentially
// at creation time and are never reused, even across a graph reset.
type ID int
