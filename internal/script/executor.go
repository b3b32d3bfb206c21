package script

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/service"
	"github.com/seitarof/gometa/pkg/variant"
)

// Result records the outcome of one step.
type Result struct {
	Step   int    `json:"step" yaml:"step"`
	Op     string `json:"op" yaml:"op"`
	Target string `json:"target" yaml:"target"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Executor runs scripts.
type Executor interface {
	Run(s *Script) ([]Result, error)
}

type executorImpl struct {
	svc    service.Service
	logger *zap.Logger
}

// NewExecutor returns an executor bound to svc.
func NewExecutor(svc service.Service, logger *zap.Logger) Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &executorImpl{svc: svc, logger: logger}
}

// run holds the variables of one script execution.
type run struct {
	svc   service.Service
	vars  map[string]variant.Variant
	order []string
}

// Run executes every step in order and stops at the first failure. Objects still
// bound when the script ends are released.
func (e *executorImpl) Run(s *Script) (results []Result, err error) {
	r := &run{svc: e.svc, vars: map[string]variant.Variant{}}
	defer func() {
		err = errors.Join(err, r.releaseAll())
	}()

	for i, step := range s.Steps {
		e.logger.Debug("script step",
			zap.Int("step", i+1),
			zap.String("op", step.Op),
			zap.String("class", step.Class),
			zap.String("object", step.Object),
			zap.String("member", step.Member),
		)
		res, err := r.exec(step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		res.Step = i + 1
		res.Op = step.Op
		results = append(results, res)
	}
	return results, nil
}

func (r *run) exec(step Step) (Result, error) {
	switch step.Op {
	case OpNew:
		return r.create(step)
	case OpSet:
		return r.set(step)
	case OpGet:
		return r.get(step)
	case OpCall:
		return r.call(step)
	case OpRelease:
		return r.release(step)
	default:
		return Result{}, fmt.Errorf("unknown op %q", step.Op)
	}
}

func (r *run) create(step Step) (Result, error) {
	cls := r.svc.FindClassByName(step.Class)
	if cls == nil {
		return Result{}, fmt.Errorf("class %q: %w", step.Class, metaerr.ErrNotFound)
	}
	args, err := r.args(step.Args)
	if err != nil {
		return Result{}, err
	}
	obj, err := cls.NewInstance(args...)
	if err != nil {
		return Result{}, err
	}
	if err := r.bind(step.As, obj); err != nil {
		return Result{}, err
	}
	return Result{Target: cls.QualifiedName(), Value: step.As}, nil
}

func (r *run) set(step Step) (Result, error) {
	acc, p, err := r.accessible(step.Object, step.Member)
	if err != nil {
		return Result{}, err
	}
	v, err := r.toVariant(step.Value)
	if err != nil {
		return Result{}, err
	}
	if err := acc.Set(p, v); err != nil {
		return Result{}, err
	}
	return Result{Target: step.Object + "." + step.Member, Value: render(v, nil)}, nil
}

func (r *run) get(step Step) (Result, error) {
	acc, p, err := r.accessible(step.Object, step.Member)
	if err != nil {
		return Result{}, err
	}
	v, err := acc.Get(p)
	if err != nil {
		return Result{}, err
	}
	return r.finish(step, step.Object+"."+step.Member, v, converterOf(acc))
}

func (r *run) call(step Step) (Result, error) {
	args, err := r.args(step.Args)
	if err != nil {
		return Result{}, err
	}

	var (
		v      variant.Variant
		target string
	)
	switch {
	case step.Object != "":
		cls, p, err := r.object(step.Object)
		if err != nil {
			return Result{}, err
		}
		target = step.Object + "." + step.Member
		v, err = cls.InvokeMethod(p, step.Member, args...)
		if err != nil {
			return Result{}, err
		}
	case step.Class != "":
		cls := r.svc.FindClassByName(step.Class)
		if cls == nil {
			return Result{}, fmt.Errorf("class %q: %w", step.Class, metaerr.ErrNotFound)
		}
		target = cls.QualifiedName() + "." + step.Member
		v, err = cls.InvokeMethod(nil, step.Member, args...)
		if err != nil {
			return Result{}, err
		}
	default:
		target = step.Member
		v, err = r.callGlobal(step.Member, args)
		if err != nil {
			return Result{}, err
		}
	}
	return r.finish(step, target, v, r.converterFor(v))
}

// callGlobal invokes the first global function named name, searching modules in
// registration order.
func (r *run) callGlobal(name string, args []variant.Variant) (variant.Variant, error) {
	for i := 0; i < r.svc.ModuleCount(); i++ {
		v, err := r.svc.GlobalClass(i).InvokeMethod(nil, name, args...)
		if metaerr.IsNotFound(err) {
			continue
		}
		return v, err
	}
	return variant.Empty(), fmt.Errorf("function %q: %w", name, metaerr.ErrNotFound)
}

func (r *run) release(step Step) (Result, error) {
	v, ok := r.vars[step.Object]
	if !ok {
		return Result{}, fmt.Errorf("variable %q: %w", step.Object, metaerr.ErrNotFound)
	}
	delete(r.vars, step.Object)
	return Result{Target: step.Object}, v.Release()
}

// finish binds and checks the value produced by a step.
func (r *run) finish(step Step, target string, v variant.Variant, conv variant.Converter) (Result, error) {
	text := render(v, conv)
	if step.Expect != nil {
		want, err := cast.ToStringE(step.Expect)
		if err != nil {
			return Result{}, err
		}
		if want != text {
			return Result{}, fmt.Errorf("%s: got %q, want %q", target, text, want)
		}
	}
	if step.As != "" {
		if err := r.bind(step.As, v); err != nil {
			return Result{}, err
		}
	}
	return Result{Target: target, Value: text}, nil
}

func (r *run) bind(name string, v variant.Variant) error {
	if old, ok := r.vars[name]; ok {
		if err := old.Release(); err != nil {
			return err
		}
	} else {
		r.order = append(r.order, name)
	}
	r.vars[name] = v
	return nil
}

func (r *run) releaseAll() error {
	var errs []error
	for _, name := range r.order {
		v, ok := r.vars[name]
		if !ok {
			continue
		}
		delete(r.vars, name)
		if err := v.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// object resolves a variable to its class and instance address.
func (r *run) object(name string) (*meta.Class, unsafe.Pointer, error) {
	v, ok := r.vars[name]
	if !ok {
		return nil, nil, fmt.Errorf("variable %q: %w", name, metaerr.ErrNotFound)
	}
	if v.Kind() != metatype.KindObject {
		return nil, nil, fmt.Errorf("variable %q holds %s: %w", name, v.Kind(), metaerr.ErrTypeMismatch)
	}
	cls := r.svc.FindClassByType(v.Type())
	if cls == nil {
		return nil, nil, fmt.Errorf("class of %q (%s): %w", name, v.Type(), metaerr.ErrNotFound)
	}
	p, err := v.AsPointer()
	if err != nil {
		return nil, nil, err
	}
	return cls, p, nil
}

func (r *run) accessible(object, member string) (meta.Accessible, unsafe.Pointer, error) {
	cls, p, err := r.object(object)
	if err != nil {
		return nil, nil, err
	}
	if f, adjusted := cls.FieldInHierarchy(member, p); f != nil {
		return f, adjusted, nil
	}
	if prop, adjusted := cls.PropertyInHierarchy(member, p); prop != nil {
		return prop, adjusted, nil
	}
	return nil, nil, fmt.Errorf("member %s.%s: %w", cls.QualifiedName(), member, metaerr.ErrNotFound)
}

func (r *run) converterFor(v variant.Variant) variant.Converter {
	if v.Kind() != metatype.KindObject {
		return nil
	}
	if cls := r.svc.FindClassByType(v.Type()); cls != nil {
		return cls.Converter()
	}
	return nil
}

func converterOf(acc meta.Accessible) variant.Converter {
	if c, ok := acc.(interface{ Converter() variant.Converter }); ok {
		return c.Converter()
	}
	return nil
}

func (r *run) args(raw []any) ([]variant.Variant, error) {
	out := make([]variant.Variant, 0, len(raw))
	for i, a := range raw {
		v, err := r.toVariant(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// toVariant decodes a scalar script value. "$name" borrows a bound variable.
func (r *run) toVariant(a any) (variant.Variant, error) {
	switch x := a.(type) {
	case nil:
		return variant.Empty(), nil
	case bool:
		return variant.Bool(x), nil
	case string:
		if len(x) > 1 && x[0] == '$' {
			v, ok := r.vars[x[1:]]
			if !ok {
				return variant.Empty(), fmt.Errorf("variable %q: %w", x[1:], metaerr.ErrNotFound)
			}
			return v.Borrow(), nil
		}
		return variant.String(x), nil
	case int, int8, int16, int32, int64:
		n, err := cast.ToInt64E(x)
		if err != nil {
			return variant.Empty(), err
		}
		return variant.Int64(n), nil
	case uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToUint64E(x)
		if err != nil {
			return variant.Empty(), err
		}
		return variant.Uint64(n), nil
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return variant.Empty(), err
		}
		return variant.Float64(f), nil
	default:
		return variant.Empty(), fmt.Errorf("%w: unsupported script value %T", metaerr.ErrTypeMismatch, a)
	}
}

// render formats a value for results and expectations.
func render(v variant.Variant, conv variant.Converter) string {
	switch {
	case v.IsEmpty(), v.IsVoid():
		return ""
	case v.CanConvertToString(conv):
		if s, err := v.ToString(conv); err == nil {
			return s
		}
	}
	if x := v.Interface(); x != nil {
		if s, err := cast.ToStringE(x); err == nil {
			return s
		}
	}
	return v.String()
}
