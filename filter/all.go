package filter

import (
	"github.com/pdcamargo/voidscript-storage/component"
)

type all struct{}

func All() ComponentFilter {
	return &all{}
}

func (f *all) MatchesComponents(_ []component.Component) bool {
	return true
}
