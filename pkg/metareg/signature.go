package metareg

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// callShape describes how a Go function maps onto the call protocol.
type callShape struct {
	fn       reflect.Value
	skip     int
	fixed    int
	variadic reflect.Type
	result   reflect.Type
	errOut   bool
}

// funcOf validates fn and returns its shape. With hasReceiver set, the first parameter
// receives the instance and is not part of the signature.
func funcOf(fn any, hasReceiver bool) (callShape, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return callShape{}, fmt.Errorf("%w: expected a function, got %T", metaerr.ErrTypeMismatch, fn)
	}
	ft := rv.Type()
	s := callShape{fn: rv}
	if hasReceiver {
		if ft.NumIn() == 0 {
			return callShape{}, fmt.Errorf("%w: %s has no receiver parameter", metaerr.ErrArityMismatch, ft)
		}
		s.skip = 1
	}
	s.fixed = ft.NumIn() - s.skip
	if ft.IsVariadic() {
		s.fixed--
		s.variadic = ft.In(ft.NumIn() - 1).Elem()
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			s.errOut = true
		} else {
			s.result = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType {
			return callShape{}, fmt.Errorf("%w: second result of %s must be error", metaerr.ErrTypeMismatch, ft)
		}
		s.result = ft.Out(0)
		s.errOut = true
	default:
		return callShape{}, fmt.Errorf("%w: %s returns too many values", metaerr.ErrTypeMismatch, ft)
	}
	return s, nil
}

func (s callShape) signature() meta.Signature {
	ft := s.fn.Type()
	sig := meta.Signature{Variadic: s.variadic != nil, Result: metatype.Void()}
	for i := 0; i < s.fixed; i++ {
		sig.Params = append(sig.Params, TypeOf(ft.In(s.skip+i)))
	}
	if s.result != nil {
		sig.Result = TypeOf(s.result)
		sig.ResultConverter = converterFor(s.result)
	}
	return sig
}

func (s callShape) invoker(reg *metatype.IdentityRegistry) meta.Invoker {
	ft := s.fn.Type()
	return func(instance unsafe.Pointer, args []variant.Variant) (variant.Variant, error) {
		in := make([]reflect.Value, 0, s.skip+len(args))
		if s.skip == 1 {
			in = append(in, receiver(ft.In(0), instance))
		}
		for i, arg := range args {
			pt := s.variadic
			if i < s.fixed {
				pt = ft.In(s.skip + i)
			}
			v, err := toValue(arg, pt)
			if err != nil {
				return variant.Empty(), fmt.Errorf("argument %d: %w", i, err)
			}
			in = append(in, v)
		}

		out := s.fn.Call(in)
		if s.errOut {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return variant.Empty(), err
			}
			out = out[:len(out)-1]
		}
		if len(out) == 0 {
			return variant.Void(), nil
		}
		return fromValue(out[0], reg)
	}
}
