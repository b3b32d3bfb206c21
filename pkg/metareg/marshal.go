package metareg

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// toValue converts v into a reflect.Value of type rt.
func toValue(v variant.Variant, rt reflect.Type) (reflect.Value, error) {
	out := reflect.New(rt).Elem()
	switch rt.Kind() {
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := v.AsInt64()
		if err != nil {
			return out, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := v.AsUint64()
		if err != nil {
			return out, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := v.AsFloat64()
		if err != nil {
			return out, err
		}
		out.SetFloat(f)
	case reflect.String:
		s, err := v.AsString()
		if err != nil {
			return out, err
		}
		out.SetString(s)
	case reflect.Slice:
		if rt.Elem().Kind() != reflect.Int32 {
			return out, unsupported(rt)
		}
		ws, err := v.AsWideString()
		if err != nil {
			return out, err
		}
		out.Set(reflect.ValueOf(ws).Convert(rt))
	case reflect.Pointer:
		p, err := addressOf(v)
		if err != nil {
			return out, err
		}
		if p != nil {
			out.Set(reflect.NewAt(rt.Elem(), p).Convert(rt))
		}
	case reflect.Struct:
		p, err := addressOf(v)
		if err != nil {
			return out, err
		}
		if p == nil {
			return out, fmt.Errorf("%s by value: %w", rt, metaerr.ErrNullInstance)
		}
		out.Set(reflect.NewAt(rt, p).Elem())
	case reflect.UnsafePointer:
		p, err := addressOf(v)
		if err != nil {
			return out, err
		}
		out.SetPointer(p)
	default:
		return out, unsupported(rt)
	}
	return out, nil
}

func addressOf(v variant.Variant) (unsafe.Pointer, error) {
	if v.IsEmpty() {
		return nil, nil
	}
	return v.AsPointer()
}

func unsupported(rt reflect.Type) error {
	return fmt.Errorf("%w: unsupported Go type %s", metaerr.ErrTypeMismatch, rt)
}

// fromValue converts rv into a Variant. Pointers to structs become borrowed objects;
// structs returned by value are copied into an object owned by the caller.
func fromValue(rv reflect.Value, reg *metatype.IdentityRegistry) (variant.Variant, error) {
	rt := rv.Type()
	switch rt.Kind() {
	case reflect.Bool:
		return variant.Bool(rv.Bool()), nil
	case reflect.Int8:
		return variant.Int8(int8(rv.Int())), nil
	case reflect.Int16:
		return variant.Int16(int16(rv.Int())), nil
	case reflect.Int32:
		return variant.Int32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return variant.Int64(rv.Int()), nil
	case reflect.Uint8:
		return variant.Uint8(uint8(rv.Uint())), nil
	case reflect.Uint16:
		return variant.Uint16(uint16(rv.Uint())), nil
	case reflect.Uint32:
		return variant.Uint32(uint32(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return variant.Uint64(rv.Uint()), nil
	case reflect.Float32:
		return variant.Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return variant.Float64(rv.Float()), nil
	case reflect.String:
		return variant.String(rv.String()), nil
	case reflect.Slice:
		if rt.Elem().Kind() != reflect.Int32 {
			return variant.Empty(), unsupported(rt)
		}
		return variant.WideString(rv.Convert(runeSliceType).Interface().([]rune)), nil
	case reflect.Pointer:
		if rt.Elem().Kind() == reflect.Struct && !rv.IsNil() {
			return objectAt(rv.UnsafePointer(), rt.Elem(), false, reg), nil
		}
		return variant.Pointer(rv.UnsafePointer(), TypeOf(rt)), nil
	case reflect.Struct:
		cp := reflect.New(rt)
		cp.Elem().Set(rv)
		return objectAt(cp.UnsafePointer(), rt, true, reg), nil
	case reflect.UnsafePointer:
		return variant.Pointer(rv.UnsafePointer(), TypeOf(rt)), nil
	case reflect.Interface:
		if rv.IsNil() {
			return variant.Empty(), nil
		}
		return fromValue(rv.Elem(), reg)
	default:
		return variant.Empty(), unsupported(rt)
	}
}

// objectAt wraps the struct at p. The registered class, when known, names the type
// and destroys owned instances.
func objectAt(p unsafe.Pointer, rt reflect.Type, owned bool, reg *metatype.IdentityRegistry) variant.Variant {
	var owner variant.Destroyer
	if item, ok := reg.Lookup(metatype.IdentityOf(rt)); ok {
		owner, _ = item.(variant.Destroyer)
	}
	return variant.Object(p, classType(rt, reg), owned, owner)
}

// receiver builds the receiver argument of a method from an instance address.
func receiver(rt reflect.Type, instance unsafe.Pointer) reflect.Value {
	if rt.Kind() == reflect.Pointer {
		return reflect.NewAt(rt.Elem(), instance).Convert(rt)
	}
	return reflect.NewAt(rt, instance).Elem()
}
