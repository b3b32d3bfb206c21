package convert

import (
	"unsafe"

	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&ExactRule{},
		&NumericCastRule{},
		&StringRule{},
		&PointerRule{},
		&DerivedToBaseRule{},
		&NullPointerRule{},
	}
}

// ExactRule: same type -> pass through. An object matches a parameter of the same base
// taken by value or through a single pointer, as an object Variant always carries an
// address. Deeper pointers need a pointer Variant.
type ExactRule struct{}

func (r *ExactRule) Name() string { return "exact" }

func (r *ExactRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	vt := value.Type()
	if value.Kind() == metatype.KindObject && param.Kind() == metatype.KindObject {
		if param.PointerDimension() <= 1 && vt.SameBase(param) {
			return newPlan(StrategyExact, identity), true
		}
		return Plan{}, false
	}
	if value.Kind().IsFundamental() && param.IsFundamental() && value.Kind() == param.Kind() {
		return newPlan(StrategyExact, identity), true
	}
	if value.Kind() == metatype.KindPointer && vt.Equal(param) {
		return newPlan(StrategyExact, identity), true
	}
	return Plan{}, false
}

// NumericCastRule: numeric kind -> other numeric kind, bool included.
type NumericCastRule struct{}

func (r *NumericCastRule) Name() string { return "numeric-cast" }

func (r *NumericCastRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	if !value.Kind().IsNumeric() || param.PointerDimension() > 0 || !param.Kind().IsNumeric() {
		return Plan{}, false
	}
	target := param.Kind()
	return newPlan(StrategyNumericCast, func(v variant.Variant) (variant.Variant, error) {
		return v.Cast(target)
	}), true
}

// StringRule: narrow <-> wide string.
type StringRule struct{}

func (r *StringRule) Name() string { return "string" }

func (r *StringRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	if !value.Kind().IsString() || param.PointerDimension() > 0 || !param.Kind().IsString() {
		return Plan{}, false
	}
	if param.Kind() == metatype.KindWideString {
		return newPlan(StrategyStringConvert, func(v variant.Variant) (variant.Variant, error) {
			ws, err := v.AsWideString()
			if err != nil {
				return variant.Empty(), err
			}
			return variant.WideString(ws), nil
		}), true
	}
	return newPlan(StrategyStringConvert, func(v variant.Variant) (variant.Variant, error) {
		s, err := v.AsString()
		if err != nil {
			return variant.Empty(), err
		}
		return variant.String(s), nil
	}), true
}

// PointerRule: any pointer or object -> void pointer, and pointers of the same base and
// depth with differing pointee qualifiers.
type PointerRule struct{}

func (r *PointerRule) Name() string { return "pointer" }

func (r *PointerRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	if value.Kind() != metatype.KindPointer && value.Kind() != metatype.KindObject {
		return Plan{}, false
	}
	if param.PointerDimension() == 0 {
		return Plan{}, false
	}
	if value.Kind() == metatype.KindObject && param.PointerDimension() > 1 {
		return Plan{}, false
	}
	if param.Kind() == metatype.KindVoid {
		return newPlan(StrategyPointerPass, func(v variant.Variant) (variant.Variant, error) {
			p, err := v.AsPointer()
			if err != nil {
				return variant.Empty(), err
			}
			return variant.Pointer(p, param), nil
		}), true
	}
	vt := value.Type()
	if value.Kind() == metatype.KindPointer && vt.PointerDimension() == param.PointerDimension() && vt.SameBase(param) {
		return newPlan(StrategyPointerPass, func(v variant.Variant) (variant.Variant, error) {
			p, err := v.AsPointer()
			if err != nil {
				return variant.Empty(), err
			}
			return variant.Pointer(p, param), nil
		}), true
	}
	return Plan{}, false
}

// DerivedToBaseRule: instance of a derived class -> parameter of a base class. The
// address is adjusted to the base subobject.
type DerivedToBaseRule struct {
	hierarchy Hierarchy
}

func (r *DerivedToBaseRule) Name() string { return "derived-to-base" }

func (r *DerivedToBaseRule) SetHierarchy(h Hierarchy) {
	r.hierarchy = h
}

func (r *DerivedToBaseRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	if r.hierarchy == nil || value.Kind() != metatype.KindObject || param.Kind() != metatype.KindObject ||
		param.PointerDimension() > 1 {
		return Plan{}, false
	}
	adjust, ok := r.hierarchy.Upcast(value.Type(), param)
	if !ok {
		return Plan{}, false
	}
	base := metatype.New(metatype.KindObject, metatype.Options{
		BaseName: param.BaseName(),
		Identity: param.Identity(),
		Flags:    metatype.FlagBaseIsClass,
	})
	return newPlan(StrategyDerivedToBase, func(v variant.Variant) (variant.Variant, error) {
		p, err := v.AsPointer()
		if err != nil {
			return variant.Empty(), err
		}
		return v.WithPointer(adjust(p), base), nil
	}), true
}

// NullPointerRule: empty Variant or nil address -> null pointer or object parameter.
type NullPointerRule struct{}

func (r *NullPointerRule) Name() string { return "null-pointer" }

func (r *NullPointerRule) Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool) {
	if param.PointerDimension() == 0 {
		return Plan{}, false
	}
	if !value.IsEmpty() {
		p, err := value.AsPointer()
		if err != nil || p != nil {
			return Plan{}, false
		}
	}
	return newPlan(StrategyNullPointer, func(variant.Variant) (variant.Variant, error) {
		return variant.Pointer(unsafe.Pointer(nil), param), nil
	}), true
}
