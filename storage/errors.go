package storage

import (
	"errors"
)

var (
	ErrEntityNotFound              = errors.New("entity does not exist in this archetype")
	ErrEntityAlreadyExists         = errors.New("entity already exists in this archetype")
	ErrMissingComponentData        = errors.New("missing component data for entity")
	ErrComponentNotInArchetype     = errors.New("component is not part of the archetype signature")
	ErrComponentAlreadyInArchetype = errors.New("component is already part of the archetype signature")
	ErrMustRegisterComponent       = errors.New("must register component")
)
