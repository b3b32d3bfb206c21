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

// Option configures a builder.
type Option func(*options)

type options struct {
	reg *metatype.IdentityRegistry
}

// WithIdentities registers built classes in reg instead of the process-wide registry.
func WithIdentities(reg *metatype.IdentityRegistry) Option {
	return func(o *options) {
		if reg != nil {
			o.reg = reg
		}
	}
}

func newOptions(opts []Option) options {
	o := options{reg: metatype.Identities()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// step adds one member to a class under construction. Annotations collected after the
// step are passed to apply.
type step struct {
	what        string
	annotatable bool
	annotations []meta.AnnotationSpec
	apply       func(c *meta.Class, annotations []meta.AnnotationSpec)
}

// recipe records registration steps and defers them until Build, so that annotations
// can follow the member they describe.
type recipe struct {
	opts        options
	steps       []*step
	annotations []meta.AnnotationSpec
	errs        []error
}

func (r *recipe) add(s *step) {
	r.steps = append(r.steps, s)
}

func (r *recipe) fail(what string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", what, err))
}

func (r *recipe) annotate(spec meta.AnnotationSpec) {
	if len(r.steps) == 0 {
		r.annotations = append(r.annotations, spec)
		return
	}
	last := r.steps[len(r.steps)-1]
	if !last.annotatable {
		r.fail("annotate "+last.what, errors.New("item does not accept annotations here"))
		return
	}
	last.annotations = append(last.annotations, spec)
}

func (r *recipe) err() error {
	return errors.Join(r.errs...)
}

func (r *recipe) run(c *meta.Class) {
	for _, s := range r.steps {
		s.apply(c, s.annotations)
	}
}

func (r *recipe) staticField(name string, ptr any) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		r.fail("field "+name, fmt.Errorf("%w: expected a non-nil pointer, got %T", metaerr.ErrTypeMismatch, ptr))
		return
	}
	addr := rv.UnsafePointer()
	ft := rv.Type().Elem()
	reg := r.opts.reg
	r.add(&step{what: "field " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddField(meta.FieldSpec{
			Name:        name,
			Type:        TypeOf(ft),
			Static:      true,
			Size:        ft.Size(),
			Get:         func(unsafe.Pointer) (variant.Variant, error) { return load(addr, ft, reg) },
			Set:         func(_ unsafe.Pointer, v variant.Variant) error { return store(addr, ft, v) },
			Address:     func(unsafe.Pointer) unsafe.Pointer { return addr },
			Converter:   converterFor(ft),
			Annotations: ann,
		})
	}})
}

func (r *recipe) staticMethod(name string, fn any) {
	shape, err := funcOf(fn, false)
	if err != nil {
		r.fail("method "+name, err)
		return
	}
	reg := r.opts.reg
	r.add(&step{what: "method " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddMethod(meta.MethodSpec{
			Name:        name,
			Static:      true,
			Signature:   shape.signature(),
			Invoke:      shape.invoker(reg),
			Annotations: ann,
		})
	}})
}

func (r *recipe) enum(name string, rt reflect.Type, values []meta.EnumValue) {
	kind := kindOf(rt)
	if !kind.IsInteger() {
		r.fail("enum "+name, fmt.Errorf("%w: %s is not an integer type", metaerr.ErrTypeMismatch, rt))
		return
	}
	r.add(&step{what: "enum " + name, annotatable: true, apply: func(c *meta.Class, ann []meta.AnnotationSpec) {
		c.AddEnum(meta.EnumSpec{
			Name:        name,
			Type:        metatype.New(kind, metatype.Options{BaseName: name, Identity: metatype.IdentityOf(rt)}),
			Kind:        kind,
			Values:      values,
			Annotations: ann,
		})
	}})
}

func (r *recipe) nested(cls *meta.Class) {
	if cls == nil {
		r.fail("nested class", errors.New("nil class"))
		return
	}
	r.add(&step{what: "class " + cls.Name(), apply: func(c *meta.Class, _ []meta.AnnotationSpec) {
		c.AddClass(cls)
	}})
}

// load reads the value stored at addr. Struct values are returned as borrowed objects
// so that writes through them reach the storage.
func load(addr unsafe.Pointer, rt reflect.Type, reg *metatype.IdentityRegistry) (variant.Variant, error) {
	if rt.Kind() == reflect.Struct {
		return objectAt(addr, rt, false, reg), nil
	}
	return fromValue(reflect.NewAt(rt, addr).Elem(), reg)
}

func store(addr unsafe.Pointer, rt reflect.Type, v variant.Variant) error {
	val, err := toValue(v, rt)
	if err != nil {
		return err
	}
	reflect.NewAt(rt, addr).Elem().Set(val)
	return nil
}
