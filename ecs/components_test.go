package ecs_test

import "github.com/plus3/walker/ecs"

type Position struct {
	X, Y int
}

type Velocity struct {
	DX, DY int
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Frame struct {
	Index int
}

type Controlled struct{}

type Score int32

type Unregistered struct{}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Frame](registry)
	ecs.RegisterComponent[Controlled](registry)
	ecs.RegisterComponent[Score](registry)
	return registry
}
