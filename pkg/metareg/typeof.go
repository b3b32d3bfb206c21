// Package metareg registers Go types with the meta model. It deduces type
// descriptions and call signatures with package reflect and erases functions and
// methods into the uniform call protocol.
package metareg

import (
	"reflect"

	"github.com/seitarof/gometa/pkg/metatype"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	runeSliceType = reflect.TypeOf((*[]rune)(nil)).Elem()
)

// TypeOf describes rt. Struct types carry only their identity token; their names are
// bound late, once the class registered for them is known.
func TypeOf(rt reflect.Type) metatype.TypeInfo {
	if rt == nil {
		return metatype.TypeInfo{}
	}
	pointers := 0
	for rt.Kind() == reflect.Pointer {
		pointers++
		rt = rt.Elem()
	}
	if rt.Kind() == reflect.UnsafePointer {
		return metatype.New(metatype.KindVoid, metatype.Options{
			BaseName: metatype.KindVoid.String(),
			Pointers: pointers + 1,
		})
	}
	kind := kindOf(rt)
	opts := metatype.Options{Pointers: pointers, Identity: metatype.IdentityOf(rt)}
	switch {
	case kind.IsFundamental():
		opts.BaseName = kind.String()
	case rt.Kind() == reflect.Struct:
		opts.Flags = metatype.FlagBaseIsClass
	default:
		opts.BaseName = rt.String()
	}
	return metatype.New(kind, opts)
}

func kindOf(rt reflect.Type) metatype.Kind {
	switch rt.Kind() {
	case reflect.Bool:
		return metatype.KindBool
	case reflect.Int8:
		return metatype.KindInt8
	case reflect.Uint8:
		return metatype.KindUint8
	case reflect.Int16:
		return metatype.KindInt16
	case reflect.Uint16:
		return metatype.KindUint16
	case reflect.Int32:
		return metatype.KindInt32
	case reflect.Uint32:
		return metatype.KindUint32
	case reflect.Int, reflect.Int64:
		return metatype.KindInt64
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return metatype.KindUint64
	case reflect.Float32:
		return metatype.KindFloat32
	case reflect.Float64:
		return metatype.KindFloat64
	case reflect.String:
		return metatype.KindString
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Int32 {
			return metatype.KindWideString
		}
		return metatype.KindObject
	default:
		return metatype.KindObject
	}
}

// classType describes a struct type, resolving its name through reg when possible.
func classType(rt reflect.Type, reg *metatype.IdentityRegistry) metatype.TypeInfo {
	t := TypeOf(rt)
	metatype.Fixup(&t, reg)
	return t
}
