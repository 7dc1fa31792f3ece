package filter

import (
	"github.com/pdcamargo/voidscript-storage/component"
)

func Not(filter ComponentFilter) ComponentFilter {
	return &not{filter: filter}
}

type not struct {
	filter ComponentFilter
}

func (f *not) MatchesComponents(components []component.Component) bool {
	return !f.filter.MatchesComponents(components)
}
