package demo

import (
	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metareg"
)

// Animal is the abstract root of the diamond.
type Animal struct {
	Legs int32
}

func (a *Animal) Describe() int32 { return a.Legs }

// Walker and Swimmer each embed their own Animal.
type Walker struct {
	Animal
	Speed int32
}

type Swimmer struct {
	Animal
	Depth int32
}

// Duck inherits from both, so it holds two Animal subobjects.
type Duck struct {
	Walker
	Swimmer
	Name string
}

func (d *Duck) Quack() string { return d.Name + " quacks" }

func defineShapes(opts []metareg.Option) ([]*meta.Class, error) {
	animal, err := metareg.DefineClass[Animal]("Animal", opts...).
		Abstract().
		Field("legs", "Legs").
		Method("describe", (*Animal).Describe).
		Build()
	if err != nil {
		return nil, err
	}
	walker, err := metareg.DefineClass[Walker]("Walker", opts...).
		Base(animal).
		Constructor(func(legs, speed int32) *Walker { return &Walker{Animal: Animal{Legs: legs}, Speed: speed} }).
		Field("speed", "Speed").
		Method("walk", func(w *Walker) int32 { return w.Speed }).
		Build()
	if err != nil {
		return nil, err
	}
	swimmer, err := metareg.DefineClass[Swimmer]("Swimmer", opts...).
		Base(animal).
		Constructor(func(legs, depth int32) *Swimmer { return &Swimmer{Animal: Animal{Legs: legs}, Depth: depth} }).
		Field("depth", "Depth").
		Method("swim", func(s *Swimmer) int32 { return s.Depth }).
		Build()
	if err != nil {
		return nil, err
	}
	duck, err := metareg.DefineClass[Duck]("Duck", opts...).
		Base(walker).
		Base(swimmer).
		Constructor(func(name string) *Duck {
			return &Duck{
				Walker:  Walker{Animal: Animal{Legs: 2}, Speed: 3},
				Swimmer: Swimmer{Animal: Animal{Legs: 2}, Depth: 5},
				Name:    name,
			}
		}).
		Field("name", "Name").
		Method("quack", (*Duck).Quack).
		Build()
	if err != nil {
		return nil, err
	}
	return []*meta.Class{animal, walker, swimmer, duck}, nil
}
