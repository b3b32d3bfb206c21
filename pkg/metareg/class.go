package metareg

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// ClassBuilder registers the struct type T as a class. Steps are recorded in call
// order and applied by Build; errors are collected and reported together.
type ClassBuilder[T any] struct {
	recipe
	name     string
	rt       reflect.Type
	abstract bool
	destroy  func(*T)
}

// DefineClass starts the registration of T under name.
func DefineClass[T any](name string, opts ...Option) *ClassBuilder[T] {
	b := &ClassBuilder[T]{
		recipe: recipe{opts: newOptions(opts)},
		name:   name,
		rt:     reflect.TypeOf((*T)(nil)).Elem(),
	}
	if b.rt.Kind() != reflect.Struct {
		b.fail("class "+name, fmt.Errorf("%w: %s is not a struct", metaerr.ErrTypeMismatch, b.rt))
	}
	return b
}

// Constructor registers fn, which returns T or *T and optionally an error.
func (b *ClassBuilder[T]) Constructor(fn any) *ClassBuilder[T] {
	shape, err := funcOf(fn, false)
	if err == nil && shape.result != b.rt && shape.result != reflect.PointerTo(b.rt) {
		err = fmt.Errorf("%w: constructor must return %s or *%s", metaerr.ErrTypeMismatch, b.rt, b.rt)
	}
	if err != nil {
		b.fail("constructor of "+b.name, err)
		return b
	}
	reg := b.opts.reg
	b.add(&step{what: "constructor", annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddConstructor(meta.ConstructorSpec{
			Signature:   shape.signature(),
			Invoke:      shape.invoker(reg),
			Annotations: ann,
		})
	}})
	return b
}

// Field registers the struct field goName of T as name. Promoted fields of embedded
// structs are accepted as long as no pointer is crossed; unexported fields are accessed
// through their address.
func (b *ClassBuilder[T]) Field(name, goName string) *ClassBuilder[T] {
	sf, ok := b.rt.FieldByName(goName)
	if !ok {
		b.fail("field "+name, fmt.Errorf("%s has no field %s", b.rt, goName))
		return b
	}
	off, err := fieldOffset(b.rt, sf.Index)
	if err != nil {
		b.fail("field "+name, err)
		return b
	}
	ft := sf.Type
	reg := b.opts.reg
	b.add(&step{what: "field " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddField(meta.FieldSpec{
			Name: name,
			Type: TypeOf(ft),
			Size: ft.Size(),
			Get: func(p unsafe.Pointer) (variant.Variant, error) {
				return load(unsafe.Add(p, off), ft, reg)
			},
			Set: func(p unsafe.Pointer, v variant.Variant) error {
				return store(unsafe.Add(p, off), ft, v)
			},
			Address:     func(p unsafe.Pointer) unsafe.Pointer { return unsafe.Add(p, off) },
			Converter:   converterFor(ft),
			Annotations: ann,
		})
	}})
	return b
}

func fieldOffset(rt reflect.Type, index []int) (uintptr, error) {
	var off uintptr
	for i, n := range index {
		if rt.Kind() != reflect.Struct {
			return 0, fmt.Errorf("field path crosses %s", rt)
		}
		sf := rt.Field(n)
		off += sf.Offset
		rt = sf.Type
		if i < len(index)-1 && rt.Kind() == reflect.Pointer {
			return 0, fmt.Errorf("field path crosses pointer %s", rt)
		}
	}
	return off, nil
}

// StaticField registers the variable behind ptr as a static field.
func (b *ClassBuilder[T]) StaticField(name string, ptr any) *ClassBuilder[T] {
	b.staticField(name, ptr)
	return b
}

// Property registers an accessor pair. getter is func(T) V or func(*T) V, setter is
// func(*T, V); either may be nil.
func (b *ClassBuilder[T]) Property(name string, getter, setter any) *ClassBuilder[T] {
	if getter == nil && setter == nil {
		b.fail("property "+name, errors.New("neither getter nor setter given"))
		return b
	}
	var (
		typ      metatype.TypeInfo
		conv     variant.Converter
		get, set meta.Invoker
		reg      = b.opts.reg
	)
	if getter != nil {
		shape, err := b.methodShape(getter)
		if err == nil && (shape.fixed != 0 || shape.variadic != nil || shape.result == nil) {
			err = fmt.Errorf("%w: getter must take no arguments and return a value", metaerr.ErrArityMismatch)
		}
		if err != nil {
			b.fail("property "+name, err)
			return b
		}
		typ = TypeOf(shape.result)
		conv = converterFor(shape.result)
		get = shape.invoker(reg)
	}
	if setter != nil {
		shape, err := b.methodShape(setter)
		if err == nil && (shape.fixed != 1 || shape.variadic != nil) {
			err = fmt.Errorf("%w: setter must take exactly one argument", metaerr.ErrArityMismatch)
		}
		if err != nil {
			b.fail("property "+name, err)
			return b
		}
		if getter == nil {
			pt := shape.fn.Type().In(1)
			typ = TypeOf(pt)
			conv = converterFor(pt)
		}
		set = shape.invoker(reg)
	}

	spec := meta.PropertySpec{Name: name, Type: typ, Converter: conv}
	if get != nil {
		spec.Get = func(p unsafe.Pointer) (variant.Variant, error) { return get(p, nil) }
	}
	if set != nil {
		spec.Set = func(p unsafe.Pointer, v variant.Variant) error {
			_, err := set(p, []variant.Variant{v})
			return err
		}
	}
	b.add(&step{what: "property " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		spec.Annotations = ann
		c.AddProperty(spec)
	}})
	return b
}

// methodShape validates fn as a method of T: its first parameter is T or *T.
func (b *ClassBuilder[T]) methodShape(fn any) (callShape, error) {
	shape, err := funcOf(fn, true)
	if err != nil {
		return shape, err
	}
	if in := shape.fn.Type().In(0); in != b.rt && in != reflect.PointerTo(b.rt) {
		return shape, fmt.Errorf("%w: receiver is %s, want %s or *%s", metaerr.ErrTypeMismatch, in, b.rt, b.rt)
	}
	return shape, nil
}

// Method registers one overload of an instance method. fn takes the receiver (T or *T)
// as its first parameter; method expressions such as (*T).Do fit directly.
func (b *ClassBuilder[T]) Method(name string, fn any) *ClassBuilder[T] {
	shape, err := b.methodShape(fn)
	if err != nil {
		b.fail("method "+name, err)
		return b
	}
	reg := b.opts.reg
	b.add(&step{what: "method " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddMethod(meta.MethodSpec{
			Name:        name,
			Signature:   shape.signature(),
			Invoke:      shape.invoker(reg),
			Annotations: ann,
		})
	}})
	return b
}

// StaticMethod registers one overload of a static method.
func (b *ClassBuilder[T]) StaticMethod(name string, fn any) *ClassBuilder[T] {
	b.staticMethod(name, fn)
	return b
}

// Operator registers an operator. Unary and binary operators take their operands as
// parameters, self first. A functor takes the receiver like a method.
func (b *ClassBuilder[T]) Operator(kind meta.OpKind, fn any) *ClassBuilder[T] {
	var (
		shape callShape
		err   error
	)
	switch {
	case kind == meta.OpFunctor:
		shape, err = b.methodShape(fn)
	case kind.IsUnary():
		shape, err = funcOf(fn, false)
		if err == nil && shape.fixed != 1 {
			err = fmt.Errorf("%w: unary operator takes one operand", metaerr.ErrArityMismatch)
		}
	default:
		shape, err = funcOf(fn, false)
		if err == nil && shape.fixed != 2 {
			err = fmt.Errorf("%w: binary operator takes two operands", metaerr.ErrArityMismatch)
		}
	}
	if err != nil {
		b.fail("operator "+kind.String(), err)
		return b
	}
	reg := b.opts.reg
	b.add(&step{what: "operator " + kind.String(), annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddOperator(meta.OperatorSpec{
			Kind:        kind,
			Signature:   shape.signature(),
			Invoke:      shape.invoker(reg),
			Annotations: ann,
		})
	}})
	return b
}

// Enum registers an enum whose values have the integer type rt.
func (b *ClassBuilder[T]) Enum(name string, rt reflect.Type, values ...meta.EnumValue) *ClassBuilder[T] {
	b.enum(name, rt, values)
	return b
}

// Nested registers an already built class inside T.
func (b *ClassBuilder[T]) Nested(cls *meta.Class) *ClassBuilder[T] {
	b.nested(cls)
	return b
}

// Base registers cls as a direct base. The Go type of cls must be embedded by value
// directly in T; the subobject offset is taken from the embedding.
func (b *ClassBuilder[T]) Base(cls *meta.Class) *ClassBuilder[T] {
	if cls == nil {
		b.fail("base", errors.New("nil class"))
		return b
	}
	baseRT := cls.ItemType().Identity().Type()
	for i := 0; b.rt.Kind() == reflect.Struct && i < b.rt.NumField(); i++ {
		sf := b.rt.Field(i)
		if sf.Anonymous && sf.Type == baseRT {
			return b.BaseWith(cls, meta.OffsetAdjuster(sf.Offset))
		}
	}
	b.fail("base "+cls.Name(), fmt.Errorf("%s does not embed %v by value, use BaseWith", b.rt, baseRT))
	return b
}

// BaseWith registers cls as a direct base with an explicit adjustment.
func (b *ClassBuilder[T]) BaseWith(cls *meta.Class, adjust meta.Adjuster) *ClassBuilder[T] {
	if cls == nil {
		b.fail("base", errors.New("nil class"))
		return b
	}
	b.add(&step{what: "base " + cls.Name(), apply: func(c *meta.Class, _ []meta.AnnotationSpec) {
		c.AddBase(cls, adjust)
	}})
	return b
}

// Annotate attaches an annotation to the member registered last, or to the class when
// no member has been registered yet.
func (b *ClassBuilder[T]) Annotate(name string, entries ...meta.AnnotationEntry) *ClassBuilder[T] {
	b.annotate(meta.Annotate(name, entries...))
	return b
}

// Abstract marks the class as not instantiable.
func (b *ClassBuilder[T]) Abstract() *ClassBuilder[T] {
	b.abstract = true
	return b
}

// Destructor runs fn when an owned instance is released.
func (b *ClassBuilder[T]) Destructor(fn func(*T)) *ClassBuilder[T] {
	b.destroy = fn
	return b
}

// Build creates the class and registers its identity.
func (b *ClassBuilder[T]) Build() (*meta.Class, error) {
	if err := b.err(); err != nil {
		return nil, fmt.Errorf("define %s: %w", b.name, err)
	}
	reg := b.opts.reg
	spec := meta.ClassSpec{
		Name: b.name,
		Type: metatype.New(metatype.KindObject, metatype.Options{
			BaseName: b.name,
			Identity: metatype.IdentityOf(b.rt),
		}),
		Size:     b.rt.Size(),
		Abstract: b.abstract,
		Copy: func(p unsafe.Pointer) unsafe.Pointer {
			cp := new(T)
			*cp = *(*T)(p)
			return unsafe.Pointer(cp)
		},
		Converter:   converterFor(b.rt),
		Resolver:    meta.NewResolver(reg),
		Annotations: b.annotations,
	}
	if !b.abstract {
		spec.New = func() unsafe.Pointer { return unsafe.Pointer(new(T)) }
	}
	if destroy := b.destroy; destroy != nil {
		spec.Destroy = func(p unsafe.Pointer) { destroy((*T)(p)) }
	}

	c := meta.NewClass(spec)
	b.run(c)
	if err := reg.Register(metatype.IdentityOf(b.rt), c); err != nil {
		return nil, fmt.Errorf("define %s: %w", b.name, err)
	}
	return c, nil
}

// MustBuild is like Build but panics on error. It suits package-level registration.
func (b *ClassBuilder[T]) MustBuild() *meta.Class {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
