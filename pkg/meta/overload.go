package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/variant"
)

// ResolveMethod returns the first overload of name declared in c whose parameters all
// accept args. Candidates are tried in registration order and no ranking is applied, so
// a lossy conversion registered first wins over an exact one registered later.
func (c *Class) ResolveMethod(name string, args []variant.Variant) *Method {
	for _, m := range c.methods {
		if m.name == name && m.accepts(args) {
			return m
		}
	}
	return nil
}

// ResolveConstructor returns the first constructor accepting args.
func (c *Class) ResolveConstructor(args []variant.Variant) *Constructor {
	for _, ctor := range c.constructors {
		if ctor.accepts(args) {
			return ctor
		}
	}
	return nil
}

// ResolveOperator returns the first operator of kind accepting args.
func (c *Class) ResolveOperator(kind OpKind, args []variant.Variant) *Operator {
	for _, op := range c.operators {
		if op.kind == kind && op.accepts(args) {
			return op
		}
	}
	return nil
}

// InvokeMethod resolves name against the overloads of c and its bases and invokes the
// first candidate accepting args on the suitably adjusted instance.
func (c *Class) InvokeMethod(instance unsafe.Pointer, name string, args ...variant.Variant) (variant.Variant, error) {
	list := NewList()
	c.MethodListInHierarchy(list, name, FilterNone, instance)
	if list.Count() == 0 {
		return variant.Empty(), fmt.Errorf("method %s.%s: %w", c.QualifiedName(), name, metaerr.ErrNotFound)
	}
	for i := 0; i < list.Count(); i++ {
		m := list.At(i).(*Method)
		if m.accepts(args) {
			return m.Invoke(list.InstanceAt(i), args)
		}
	}
	return variant.Empty(), fmt.Errorf("method %s.%s: %w: no overload accepts %d arguments",
		c.QualifiedName(), name, metaerr.ErrTypeMismatch, len(args))
}

// NewInstance constructs an owned instance through the first matching constructor. A
// class without constructors falls back to its default creation hook when called
// without arguments.
func (c *Class) NewInstance(args ...variant.Variant) (variant.Variant, error) {
	if c.abstract {
		return variant.Empty(), fmt.Errorf("new %s: abstract class: %w", c.QualifiedName(), metaerr.ErrNotInvocable)
	}
	if ctor := c.ResolveConstructor(args); ctor != nil {
		return ctor.Invoke(nil, args)
	}
	if len(c.constructors) == 0 && len(args) == 0 && c.CanCreateInstance() {
		p, err := c.CreateInstance()
		if err != nil {
			return variant.Empty(), err
		}
		return variant.Object(p, c.typ, true, c), nil
	}
	return variant.Empty(), fmt.Errorf("new %s: %w: no constructor accepts %d arguments",
		c.QualifiedName(), metaerr.ErrTypeMismatch, len(args))
}
