package model

import "errors"

var (
	// ErrAccessorConflict is returned when a second method/field is assigned where one already exists.
	ErrAccessorConflict = errors.New("model: method and field are mutually exclusive")
	// ErrGeneratorConflict is returned when components and a generator are mixed on one node.
	ErrGeneratorConflict = errors.New("model: generator and components are mutually exclusive")
	// ErrInvalidComponent is returned when a nil or untyped component is added.
	ErrInvalidComponent = errors.New("model: component has no valid type")
)
