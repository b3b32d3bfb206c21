package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/convert"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// ClassSpec describes a class. New, Copy and Destroy are the instance lifecycle hooks;
// a nil New makes the class non-creatable and a nil Copy non-copyable.
type ClassSpec struct {
	Name        string
	Type        metatype.TypeInfo
	Size        uintptr
	Abstract    bool
	New         func() unsafe.Pointer
	Copy        func(instance unsafe.Pointer) unsafe.Pointer
	Destroy     func(instance unsafe.Pointer)
	Converter   variant.Converter
	Resolver    convert.Resolver
	Annotations []AnnotationSpec
}

type baseEntry struct {
	class  *Class
	adjust Adjuster
}

// Class describes a class and everything registered in it.
type Class struct {
	itemBase
	global   bool
	size     uintptr
	abstract bool
	create   func() unsafe.Pointer
	copy     func(unsafe.Pointer) unsafe.Pointer
	destroy  func(unsafe.Pointer)
	conv     variant.Converter
	resolver convert.Resolver

	constructors []*Constructor
	fields       []*Field
	properties   []*Property
	methods      []*Method
	operators    []*Operator
	enums        []*Enum
	classes      []*Class
	bases        []baseEntry
	members      []Item
}

var _ TypedItem = (*Class)(nil)

// NewResolver returns the default argument resolver, resolving class hierarchies
// through reg.
func NewResolver(reg *metatype.IdentityRegistry) convert.Resolver {
	return convert.New(Hierarchy(reg), convert.DefaultRules()...)
}

// NewClass creates an empty class from spec.
func NewClass(spec ClassSpec) *Class {
	typ := spec.Type
	if typ.IsEmpty() {
		typ = metatype.New(metatype.KindObject, metatype.Options{BaseName: spec.Name})
	}
	if typ.BaseName() == "" {
		typ = typ.WithName(spec.Name)
	}
	typ = typ.WithFlags(metatype.FlagBaseIsClass)
	r := spec.Resolver
	if r == nil {
		r = NewResolver(metatype.Identities())
	}
	c := &Class{
		itemBase: itemBase{name: spec.Name, category: CategoryClass, typ: typ},
		size:     spec.Size,
		abstract: spec.Abstract,
		create:   spec.New,
		copy:     spec.Copy,
		destroy:  spec.Destroy,
		conv:     spec.Converter,
		resolver: r,
	}
	c.attach(c, spec.Annotations)
	return c
}

// NewGlobalClass creates the unnamed root class of a module. Everything registered in
// it is static.
func NewGlobalClass(r convert.Resolver) *Class {
	c := NewClass(ClassSpec{Resolver: r})
	c.global = true
	c.static = true
	return c
}

func (c *Class) IsGlobal() bool { return c.global }

func (c *Class) IsAbstract() bool { return c.abstract }

func (c *Class) CanCreateInstance() bool { return !c.abstract && c.create != nil }

func (c *Class) CanCopyInstance() bool { return c.copy != nil }

func (c *Class) TypeName() string { return c.name }

func (c *Class) TypeSize() uintptr { return c.size }

// Converter returns the string converter of the class, nil when it has none.
func (c *Class) Converter() variant.Converter { return c.conv }

// Resolver returns the argument resolver shared by the class members.
func (c *Class) Resolver() convert.Resolver { return c.resolver }

func (c *Class) CreateInstance() (unsafe.Pointer, error) {
	if !c.CanCreateInstance() {
		return nil, fmt.Errorf("create %s: %w", c.QualifiedName(), metaerr.ErrNotInvocable)
	}
	return c.create(), nil
}

func (c *Class) CloneInstance(instance unsafe.Pointer) (unsafe.Pointer, error) {
	if !c.CanCopyInstance() {
		return nil, fmt.Errorf("clone %s: %w", c.QualifiedName(), metaerr.ErrNotCopyable)
	}
	if instance == nil {
		return nil, fmt.Errorf("clone %s: %w", c.QualifiedName(), metaerr.ErrNullInstance)
	}
	return c.copy(instance), nil
}

func (c *Class) DestroyInstance(instance unsafe.Pointer) {
	if c.destroy != nil && instance != nil {
		c.destroy(instance)
	}
}

// Wrap returns a borrowed object Variant for an existing instance.
func (c *Class) Wrap(instance unsafe.Pointer) variant.Variant {
	return variant.Object(instance, c.typ, false, c)
}

func (c *Class) adopt(item Item) {
	b := item.base()
	b.owner = c
	if c.global {
		b.static = true
	}
	c.members = append(c.members, item)
}

// AddField registers a field.
func (c *Class) AddField(spec FieldSpec) *Field {
	f := &Field{accessor: newAccessor(spec.Name, CategoryField, spec.Type, spec.Static, spec.Size,
		spec.Get, spec.Set, spec.Converter, c.resolver), address: spec.Address}
	c.adopt(f)
	f.attach(f, spec.Annotations)
	c.fields = append(c.fields, f)
	return f
}

// AddProperty registers a property.
func (c *Class) AddProperty(spec PropertySpec) *Property {
	p := &Property{accessor: newAccessor(spec.Name, CategoryProperty, spec.Type, spec.Static, spec.Size,
		spec.Get, spec.Set, spec.Converter, c.resolver)}
	c.adopt(p)
	p.attach(p, spec.Annotations)
	c.properties = append(c.properties, p)
	return p
}

func newAccessor(name string, category Category, typ metatype.TypeInfo, static bool, size uintptr,
	get Getter, set Setter, conv variant.Converter, r convert.Resolver) accessor {
	if size == 0 {
		size = typ.VariantKind().Size()
	}
	return accessor{
		itemBase: itemBase{name: name, category: category, typ: typ, static: static},
		size:     size,
		get:      get,
		set:      set,
		conv:     conv,
		resolver: r,
	}
}

// AddMethod registers one overload of a method.
func (c *Class) AddMethod(spec MethodSpec) *Method {
	m := &Method{callable: newCallable(spec.Name, CategoryMethod, spec.Signature, spec.Invoke, c.resolver)}
	m.static = spec.Static
	c.adopt(m)
	m.needsInstance = !m.static
	m.attach(m, spec.Annotations)
	c.methods = append(c.methods, m)
	return m
}

// AddConstructor registers a constructor.
func (c *Class) AddConstructor(spec ConstructorSpec) *Constructor {
	sig := spec.Signature
	sig.Result = c.typ
	sig.ResultTransfer = true
	sig.ResultOwner = c
	ctor := &Constructor{callable: newCallable(c.name, CategoryConstructor, sig, spec.Invoke, c.resolver)}
	c.adopt(ctor)
	ctor.attach(ctor, spec.Annotations)
	c.constructors = append(c.constructors, ctor)
	return ctor
}

// AddOperator registers an operator.
func (c *Class) AddOperator(spec OperatorSpec) *Operator {
	op := &Operator{
		callable: newCallable(spec.Kind.String(), CategoryOperator, spec.Signature, spec.Invoke, c.resolver),
		kind:     spec.Kind,
	}
	c.adopt(op)
	op.needsInstance = spec.Kind == OpFunctor
	op.attach(op, spec.Annotations)
	c.operators = append(c.operators, op)
	return op
}

// AddEnum registers an enum.
func (c *Class) AddEnum(spec EnumSpec) *Enum {
	e := newEnum(spec)
	c.adopt(e)
	e.attach(e, spec.Annotations)
	c.enums = append(c.enums, e)
	return e
}

// AddClass registers a nested class.
func (c *Class) AddClass(nested *Class) *Class {
	c.adopt(nested)
	nested.static = true
	c.classes = append(c.classes, nested)
	return nested
}

// AddBase appends a direct base. Base order is the search order of every hierarchy
// lookup.
func (c *Class) AddBase(base *Class, adjust Adjuster) {
	c.bases = append(c.bases, baseEntry{class: base, adjust: adjust})
}

// MetaCount returns the number of registered members.
func (c *Class) MetaCount() int { return len(c.members) }

// MetaAt returns the i-th member in registration order.
func (c *Class) MetaAt(i int) Item {
	if i < 0 || i >= len(c.members) {
		return nil
	}
	return c.members[i]
}

func (c *Class) ConstructorCount() int { return len(c.constructors) }

func (c *Class) ConstructorAt(i int) *Constructor {
	if i < 0 || i >= len(c.constructors) {
		return nil
	}
	return c.constructors[i]
}

// ConstructorByParamCount returns the first constructor taking n parameters.
func (c *Class) ConstructorByParamCount(n int) *Constructor {
	for _, ctor := range c.constructors {
		if ctor.ParamCount() == n {
			return ctor
		}
	}
	return nil
}

func (c *Class) FieldCount() int { return len(c.fields) }

func (c *Class) FieldAt(i int) *Field {
	if i < 0 || i >= len(c.fields) {
		return nil
	}
	return c.fields[i]
}

// Field returns the field declared directly in c.
func (c *Class) Field(name string) *Field {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (c *Class) PropertyCount() int { return len(c.properties) }

func (c *Class) PropertyAt(i int) *Property {
	if i < 0 || i >= len(c.properties) {
		return nil
	}
	return c.properties[i]
}

func (c *Class) Property(name string) *Property {
	for _, p := range c.properties {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (c *Class) MethodCount() int { return len(c.methods) }

func (c *Class) MethodAt(i int) *Method {
	if i < 0 || i >= len(c.methods) {
		return nil
	}
	return c.methods[i]
}

// Method returns the first registered overload named name.
func (c *Class) Method(name string) *Method {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

func (c *Class) OperatorCount() int { return len(c.operators) }

func (c *Class) OperatorAt(i int) *Operator {
	if i < 0 || i >= len(c.operators) {
		return nil
	}
	return c.operators[i]
}

// Operator returns the first registered operator of kind.
func (c *Class) Operator(kind OpKind) *Operator {
	for _, op := range c.operators {
		if op.kind == kind {
			return op
		}
	}
	return nil
}

func (c *Class) EnumCount() int { return len(c.enums) }

func (c *Class) EnumAt(i int) *Enum {
	if i < 0 || i >= len(c.enums) {
		return nil
	}
	return c.enums[i]
}

func (c *Class) Enum(name string) *Enum {
	for _, e := range c.enums {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (c *Class) ClassCount() int { return len(c.classes) }

func (c *Class) ClassAt(i int) *Class {
	if i < 0 || i >= len(c.classes) {
		return nil
	}
	return c.classes[i]
}

// Class returns the nested class named name.
func (c *Class) Class(name string) *Class {
	for _, n := range c.classes {
		if n.name == name {
			return n
		}
	}
	return nil
}

func (c *Class) BaseCount() int { return len(c.bases) }

func (c *Class) BaseClass(i int) *Class {
	if i < 0 || i >= len(c.bases) {
		return nil
	}
	return c.bases[i].class
}
