// Package meta holds the meta-item model: fundamentals, enums, classes and their
// fields, properties, methods, constructors and operators, plus annotations and the
// class navigator used for hierarchy lookups and overload resolution.
//
// Items are populated during a single-threaded registration phase and are read-only
// afterwards, which makes every query safe for concurrent use.
package meta

import (
	"github.com/seitarof/gometa/pkg/metatype"
)

// Category tags the concrete kind of an Item.
type Category uint8

const (
	CategoryField Category = iota
	CategoryProperty
	CategoryMethod
	CategoryEnum
	CategoryOperator
	CategoryConstructor
	CategoryClass
	CategoryAnnotation
	CategoryFundamental
)

var categoryNames = [...]string{
	CategoryField:       "field",
	CategoryProperty:    "property",
	CategoryMethod:      "method",
	CategoryEnum:        "enum",
	CategoryOperator:    "operator",
	CategoryConstructor: "constructor",
	CategoryClass:       "class",
	CategoryAnnotation:  "annotation",
	CategoryFundamental: "fundamental",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Item is implemented by every meta item. The interface is sealed.
type Item interface {
	Name() string
	QualifiedName() string
	Owner() *Class
	Category() Category
	ItemType() metatype.TypeInfo
	IsStatic() bool
	AnnotationCount() int
	AnnotationAt(i int) *Annotation
	Annotation(name string) *Annotation
	Equal(other Item) bool

	base() *itemBase
}

type itemBase struct {
	name        string
	owner       *Class
	category    Category
	typ         metatype.TypeInfo
	static      bool
	annotations []*Annotation
}

func (b *itemBase) base() *itemBase { return b }

func (b *itemBase) Name() string { return b.name }

// QualifiedName joins the owner chain with dots. The global class contributes nothing.
func (b *itemBase) QualifiedName() string {
	if b.owner == nil || b.owner.IsGlobal() {
		return b.name
	}
	return b.owner.QualifiedName() + "." + b.name
}

// Owner returns the class the item is registered in, nil for roots.
func (b *itemBase) Owner() *Class { return b.owner }

func (b *itemBase) Category() Category { return b.category }

func (b *itemBase) ItemType() metatype.TypeInfo { return b.typ }

func (b *itemBase) IsStatic() bool { return b.static }

func (b *itemBase) AnnotationCount() int { return len(b.annotations) }

func (b *itemBase) AnnotationAt(i int) *Annotation {
	if i < 0 || i >= len(b.annotations) {
		return nil
	}
	return b.annotations[i]
}

// Annotation returns the annotation attached directly to this item. Annotations of base
// classes are not consulted.
func (b *itemBase) Annotation(name string) *Annotation {
	for _, a := range b.annotations {
		if a.name == name {
			return a
		}
	}
	return nil
}

// Equal reports whether other is the very same item.
func (b *itemBase) Equal(other Item) bool {
	return other != nil && other.base() == b
}

func (b *itemBase) attach(target Item, specs []AnnotationSpec) {
	for _, spec := range specs {
		b.annotations = append(b.annotations, newAnnotation(target, spec))
	}
}
