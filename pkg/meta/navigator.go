package meta

import "unsafe"

func found[T comparable](v T) (T, bool) {
	var zero T
	return v, v != zero
}

// FieldInHierarchy finds a field in c or its bases and returns it with instance
// adjusted to the declaring class.
func (c *Class) FieldInHierarchy(name string, instance unsafe.Pointer) (*Field, unsafe.Pointer) {
	f, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Field, bool) { return found(cls.Field(name)) })
	return f, p
}

func (c *Class) PropertyInHierarchy(name string, instance unsafe.Pointer) (*Property, unsafe.Pointer) {
	prop, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Property, bool) { return found(cls.Property(name)) })
	return prop, p
}

// MethodInHierarchy returns the first overload named name found in c or its bases.
func (c *Class) MethodInHierarchy(name string, instance unsafe.Pointer) (*Method, unsafe.Pointer) {
	m, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Method, bool) { return found(cls.Method(name)) })
	return m, p
}

func (c *Class) OperatorInHierarchy(kind OpKind, instance unsafe.Pointer) (*Operator, unsafe.Pointer) {
	op, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Operator, bool) { return found(cls.Operator(kind)) })
	return op, p
}

func (c *Class) EnumInHierarchy(name string, instance unsafe.Pointer) (*Enum, unsafe.Pointer) {
	e, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Enum, bool) { return found(cls.Enum(name)) })
	return e, p
}

func (c *Class) ClassInHierarchy(name string, instance unsafe.Pointer) (*Class, unsafe.Pointer) {
	n, p, _ := searchHierarchy(c, instance, func(cls *Class) (*Class, bool) { return found(cls.Class(name)) })
	return n, p
}

// Filter restricts which methods a method list collects.
type Filter uint8

const (
	FilterNone           Filter = 0
	FilterIgnoreStatic   Filter = 1 << 0
	FilterIgnoreInstance Filter = 1 << 1
)

func (f Filter) accepts(m *Method) bool {
	if m.static {
		return f&FilterIgnoreStatic == 0
	}
	return f&FilterIgnoreInstance == 0
}

// MethodList appends every overload of name declared in c to list.
func (c *Class) MethodList(list *List, name string, filter Filter, instance unsafe.Pointer) {
	for _, m := range c.methods {
		if m.name == name && filter.accepts(m) {
			list.Add(m, instance)
		}
	}
}

// MethodListInHierarchy appends the overloads of name from c and all its bases, in
// hierarchy search order, each with its adjusted instance. Classes reached twice
// through a diamond contribute once.
func (c *Class) MethodListInHierarchy(list *List, name string, filter Filter, instance unsafe.Pointer) {
	visited := make(map[*Class]struct{})
	var walk func(cls *Class, p unsafe.Pointer)
	walk = func(cls *Class, p unsafe.Pointer) {
		if _, seen := visited[cls]; seen {
			return
		}
		visited[cls] = struct{}{}
		cls.MethodList(list, name, filter, p)
		for i := range cls.bases {
			walk(cls.bases[i].class, cls.CastToBase(p, i))
		}
	}
	walk(c, instance)
}
