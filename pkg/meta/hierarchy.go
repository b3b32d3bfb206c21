package meta

import (
	"unsafe"

	"github.com/seitarof/gometa/pkg/convert"
	"github.com/seitarof/gometa/pkg/metatype"
)

// Adjuster converts an instance address between a derived class and one of its direct
// bases. Both functions must map nil to nil.
type Adjuster struct {
	ToBase   func(unsafe.Pointer) unsafe.Pointer
	FromBase func(unsafe.Pointer) unsafe.Pointer
}

// OffsetAdjuster places the base subobject at a fixed offset inside the derived object.
func OffsetAdjuster(offset uintptr) Adjuster {
	return Adjuster{
		ToBase: func(p unsafe.Pointer) unsafe.Pointer {
			if p == nil {
				return nil
			}
			return unsafe.Add(p, offset)
		},
		FromBase: func(p unsafe.Pointer) unsafe.Pointer {
			if p == nil {
				return nil
			}
			return unsafe.Add(p, -int(offset))
		},
	}
}

// CastToBase adjusts instance to the subobject of the i-th direct base.
func (c *Class) CastToBase(instance unsafe.Pointer, i int) unsafe.Pointer {
	if i < 0 || i >= len(c.bases) || instance == nil {
		return nil
	}
	if c.bases[i].adjust.ToBase == nil {
		return instance
	}
	return c.bases[i].adjust.ToBase(instance)
}

// CastFromBase is the inverse of CastToBase. The caller guarantees the instance really
// is a subobject of c.
func (c *Class) CastFromBase(instance unsafe.Pointer, i int) unsafe.Pointer {
	if i < 0 || i >= len(c.bases) || instance == nil {
		return nil
	}
	if c.bases[i].adjust.FromBase == nil {
		return instance
	}
	return c.bases[i].adjust.FromBase(instance)
}

// IsInheritedFrom reports whether ancestor is a direct or indirect base of c.
func (c *Class) IsInheritedFrom(ancestor *Class) bool {
	if ancestor == nil {
		return false
	}
	visited := make(map[*Class]struct{})
	var walk func(*Class) bool
	walk = func(cls *Class) bool {
		for _, b := range cls.bases {
			if b.class == ancestor {
				return true
			}
			if _, seen := visited[b.class]; seen {
				continue
			}
			visited[b.class] = struct{}{}
			if walk(b.class) {
				return true
			}
		}
		return false
	}
	return walk(c)
}

// upcastPath returns the adjustment from c to the first subobject matching target, in
// depth-first base order.
func (c *Class) upcastPath(target metatype.TypeInfo) (func(unsafe.Pointer) unsafe.Pointer, bool) {
	if c.typ.SameBase(target) {
		return func(p unsafe.Pointer) unsafe.Pointer { return p }, true
	}
	for i := range c.bases {
		next, ok := c.bases[i].class.upcastPath(target)
		if !ok {
			continue
		}
		return func(p unsafe.Pointer) unsafe.Pointer {
			return next(c.CastToBase(p, i))
		}, true
	}
	return nil, false
}

// searchHierarchy visits c and then its bases depth first, each base fully before the
// next sibling, and returns the first hit together with the adjusted instance.
func searchHierarchy[T any](c *Class, instance unsafe.Pointer, find func(*Class) (T, bool)) (T, unsafe.Pointer, bool) {
	if hit, ok := find(c); ok {
		return hit, instance, true
	}
	for i := range c.bases {
		if hit, adjusted, ok := searchHierarchy(c.bases[i].class, c.CastToBase(instance, i), find); ok {
			return hit, adjusted, true
		}
	}
	var zero T
	return zero, nil, false
}

type registryHierarchy struct {
	reg *metatype.IdentityRegistry
}

// Hierarchy adapts classes registered in reg for the derived-to-base conversion rule.
func Hierarchy(reg *metatype.IdentityRegistry) convert.Hierarchy {
	return registryHierarchy{reg: reg}
}

func (h registryHierarchy) Upcast(derived, base metatype.TypeInfo) (func(unsafe.Pointer) unsafe.Pointer, bool) {
	if h.reg == nil {
		return nil, false
	}
	named, ok := h.reg.Lookup(derived.Identity())
	if !ok {
		return nil, false
	}
	cls, ok := named.(*Class)
	if !ok || cls.typ.SameBase(base) {
		return nil, false
	}
	return cls.upcastPath(base)
}
