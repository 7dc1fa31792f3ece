package filter

import (
	"github.com/pdcamargo/voidscript-storage/component"
)

// ComponentFilter is a filter that filters entities based on their components.
type ComponentFilter interface {
	// MatchesComponents returns true if the entity matches the filter.
	MatchesComponents(components []component.Component) bool
}
