// Package variant implements the type-erased value container of the engine.
//
// A Variant is a closed tagged union over the fundamental kinds, raw pointers and
// objects. Numeric kinds convert freely between each other; reads across categories
// fail with metaerr.ErrTypeMismatch. Objects carry an ownership cell shared by every
// copy of the Variant, which guarantees the owning item destroys the instance at most
// once.
package variant

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
)

// Destroyer releases instances of one type. Implemented by typed meta items.
type Destroyer interface {
	DestroyInstance(instance unsafe.Pointer)
}

// Copier duplicates instances of one type.
type Copier interface {
	CloneInstance(instance unsafe.Pointer) (unsafe.Pointer, error)
}

// Converter renders instances of a type that has no canonical string form.
type Converter interface {
	CanToString() bool
	ToString(instance unsafe.Pointer) (string, error)
}

// Variant holds one value of any kind described by metatype.Kind.
type Variant struct {
	kind metatype.Kind
	bits uint64
	f    float64
	s    string
	ws   []rune
	ptr  unsafe.Pointer
	typ  metatype.TypeInfo
	cell *ownership
}

// ownership is shared by every copy of an object Variant. instance is the address
// handed to the owner on release, which differs from the Variant's own address once
// ownership moved into a base subobject view.
type ownership struct {
	instance unsafe.Pointer
	owner    Destroyer
	owned    bool
	released bool
}

// Empty returns a Variant holding nothing.
func Empty() Variant { return Variant{} }

// Void returns the result of a callable declared to return void.
func Void() Variant { return Variant{kind: metatype.KindVoid} }

func Bool(b bool) Variant {
	v := Variant{kind: metatype.KindBool}
	if b {
		v.bits = 1
	}
	return v
}

func Int8(n int8) Variant { return Variant{kind: metatype.KindInt8, bits: uint64(n)} }
func Uint8(n uint8) Variant { return Variant{kind: metatype.KindUint8, bits: uint64(n)} }
func Int16(n int16) Variant { return Variant{kind: metatype.KindInt16, bits: uint64(n)} }
func Uint16(n uint16) Variant { return Variant{kind: metatype.KindUint16, bits: uint64(n)} }
func Int32(n int32) Variant { return Variant{kind: metatype.KindInt32, bits: uint64(n)} }
func Uint32(n uint32) Variant { return Variant{kind: metatype.KindUint32, bits: uint64(n)} }
func Int64(n int64) Variant { return Variant{kind: metatype.KindInt64, bits: uint64(n)} }
func Uint64(n uint64) Variant { return Variant{kind: metatype.KindUint64, bits: n} }

// Int stores a platform int as int64.
func Int(n int) Variant { return Int64(int64(n)) }

func Float32(f float32) Variant { return Variant{kind: metatype.KindFloat32, f: float64(f)} }
func Float64(f float64) Variant { return Variant{kind: metatype.KindFloat64, f: f} }

func String(s string) Variant { return Variant{kind: metatype.KindString, s: s} }

// WideString stores a copy of ws.
func WideString(ws []rune) Variant {
	return Variant{kind: metatype.KindWideString, ws: append([]rune(nil), ws...)}
}

// Pointer stores a raw pointer to a value of type typ. It never owns the pointee.
func Pointer(p unsafe.Pointer, typ metatype.TypeInfo) Variant {
	return Variant{kind: metatype.KindPointer, ptr: p, typ: typ}
}

// Object stores an instance of a reflected type. When owned is set, owner must be the
// item able to destroy the instance and the Variant must eventually be released.
func Object(p unsafe.Pointer, typ metatype.TypeInfo, owned bool, owner Destroyer) Variant {
	return Variant{
		kind: metatype.KindObject,
		ptr:  p,
		typ:  typ,
		cell: &ownership{instance: p, owner: owner, owned: owned && p != nil},
	}
}

// From builds a Variant from a plain Go value of a supported kind.
func From(x any) (Variant, error) {
	switch v := x.(type) {
	case nil:
		return Empty(), nil
	case Variant:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int8(v), nil
	case int16:
		return Int16(v), nil
	case int32:
		return Int32(v), nil
	case int64:
		return Int64(v), nil
	case uint:
		return Uint64(uint64(v)), nil
	case uint8:
		return Uint8(v), nil
	case uint16:
		return Uint16(v), nil
	case uint32:
		return Uint32(v), nil
	case uint64:
		return Uint64(v), nil
	case float32:
		return Float32(v), nil
	case float64:
		return Float64(v), nil
	case string:
		return String(v), nil
	case []rune:
		return WideString(v), nil
	case unsafe.Pointer:
		return Pointer(v, metatype.New(metatype.KindVoid, metatype.Options{Pointers: 1})), nil
	default:
		return Empty(), fmt.Errorf("%w: unsupported value %T", metaerr.ErrTypeMismatch, x)
	}
}

// Kind returns the tag of the stored value.
func (v Variant) Kind() metatype.Kind { return v.kind }

func (v Variant) IsEmpty() bool { return v.kind == metatype.KindEmpty }

func (v Variant) IsVoid() bool { return v.kind == metatype.KindVoid }

// Type returns the TypeInfo of the stored value.
func (v Variant) Type() metatype.TypeInfo {
	switch v.kind {
	case metatype.KindPointer, metatype.KindObject:
		return v.typ
	case metatype.KindEmpty:
		return metatype.TypeInfo{}
	case metatype.KindVoid:
		return metatype.Void()
	default:
		return metatype.Fundamental(v.kind)
	}
}

func (v Variant) mismatch(target string) error {
	return fmt.Errorf("%w: cannot read %s as %s", metaerr.ErrTypeMismatch, v.kind, target)
}

// AsInt64 reads any numeric kind as int64, truncating floats.
func (v Variant) AsInt64() (int64, error) {
	switch {
	case v.kind == metatype.KindBool:
		return int64(v.bits), nil
	case v.kind.IsSigned():
		return int64(v.bits), nil
	case v.kind.IsInteger():
		return int64(v.bits), nil
	case v.kind.IsFloat():
		return int64(v.f), nil
	default:
		return 0, v.mismatch("int64")
	}
}

// AsUint64 reads any numeric kind as uint64.
func (v Variant) AsUint64() (uint64, error) {
	switch {
	case v.kind == metatype.KindBool || v.kind.IsInteger():
		return v.bits, nil
	case v.kind.IsFloat():
		return uint64(v.f), nil
	default:
		return 0, v.mismatch("uint64")
	}
}

// AsFloat64 reads any numeric kind as float64.
func (v Variant) AsFloat64() (float64, error) {
	switch {
	case v.kind.IsFloat():
		return v.f, nil
	case v.kind.IsSigned():
		return float64(int64(v.bits)), nil
	case v.kind == metatype.KindBool || v.kind.IsInteger():
		return float64(v.bits), nil
	default:
		return 0, v.mismatch("float64")
	}
}

func (v Variant) AsBool() (bool, error) {
	switch {
	case v.kind == metatype.KindBool || v.kind.IsInteger():
		return v.bits != 0, nil
	case v.kind.IsFloat():
		return v.f != 0, nil
	default:
		return false, v.mismatch("bool")
	}
}

func (v Variant) AsInt() (int, error) {
	n, err := v.AsInt64()
	return int(n), err
}

// AsInt32 narrows like a native integral conversion.
func (v Variant) AsInt32() (int32, error) {
	n, err := v.AsInt64()
	return int32(n), err
}

// AsString reads a narrow or wide string.
func (v Variant) AsString() (string, error) {
	switch v.kind {
	case metatype.KindString:
		return v.s, nil
	case metatype.KindWideString:
		return string(v.ws), nil
	default:
		return "", v.mismatch("string")
	}
}

// AsWideString reads a narrow or wide string as runes.
func (v Variant) AsWideString() ([]rune, error) {
	switch v.kind {
	case metatype.KindWideString:
		return append([]rune(nil), v.ws...), nil
	case metatype.KindString:
		return []rune(v.s), nil
	default:
		return nil, v.mismatch("wide string")
	}
}

// AsPointer reads the address held by a pointer or object Variant.
func (v Variant) AsPointer() (unsafe.Pointer, error) {
	switch v.kind {
	case metatype.KindPointer, metatype.KindObject:
		return v.ptr, nil
	default:
		return nil, v.mismatch("pointer")
	}
}

// WithPointer returns a copy of v addressing p with type typ. Ownership stays with v.
func (v Variant) WithPointer(p unsafe.Pointer, typ metatype.TypeInfo) Variant {
	out := v
	out.ptr = p
	out.typ = typ
	if out.cell != nil {
		out.cell = &ownership{owner: v.cell.owner}
	}
	return out
}

// Cast converts a numeric Variant to another numeric kind.
func (v Variant) Cast(kind metatype.Kind) (Variant, error) {
	if !v.kind.IsNumeric() || !kind.IsNumeric() {
		return Empty(), fmt.Errorf("%w: cannot cast %s to %s", metaerr.ErrTypeMismatch, v.kind, kind)
	}
	if kind.IsFloat() {
		f, _ := v.AsFloat64()
		if kind == metatype.KindFloat32 {
			return Float32(float32(f)), nil
		}
		return Float64(f), nil
	}
	if kind == metatype.KindBool {
		b, _ := v.AsBool()
		return Bool(b), nil
	}
	n, _ := v.AsInt64()
	if v.kind.IsInteger() && !v.kind.IsSigned() {
		u, _ := v.AsUint64()
		n = int64(u)
	}
	switch kind {
	case metatype.KindInt8:
		return Int8(int8(n)), nil
	case metatype.KindUint8:
		return Uint8(uint8(n)), nil
	case metatype.KindInt16:
		return Int16(int16(n)), nil
	case metatype.KindUint16:
		return Uint16(uint16(n)), nil
	case metatype.KindInt32:
		return Int32(int32(n)), nil
	case metatype.KindUint32:
		return Uint32(uint32(n)), nil
	case metatype.KindUint64:
		return Uint64(uint64(n)), nil
	default:
		return Int64(n), nil
	}
}

// CanConvertToString reports whether ToString succeeds, using conv for values that
// have no canonical string form.
func (v Variant) CanConvertToString(conv Converter) bool {
	if v.kind.IsString() {
		return true
	}
	if v.kind == metatype.KindObject || v.kind == metatype.KindPointer {
		return conv != nil && conv.CanToString()
	}
	return false
}

// ToString converts strings directly and objects through conv.
func (v Variant) ToString(conv Converter) (string, error) {
	if v.kind.IsString() {
		return v.AsString()
	}
	if v.CanConvertToString(conv) {
		return conv.ToString(v.ptr)
	}
	return "", v.mismatch("string")
}

// Interface returns the stored value as a plain Go value.
func (v Variant) Interface() any {
	switch {
	case v.kind == metatype.KindBool:
		return v.bits != 0
	case v.kind.IsSigned():
		n, _ := v.AsInt64()
		return n
	case v.kind.IsInteger():
		return v.bits
	case v.kind.IsFloat():
		return v.f
	case v.kind == metatype.KindString:
		return v.s
	case v.kind == metatype.KindWideString:
		return string(v.ws)
	case v.kind == metatype.KindPointer || v.kind == metatype.KindObject:
		return v.ptr
	default:
		return nil
	}
}

// String renders the Variant for diagnostics.
func (v Variant) String() string {
	switch {
	case v.kind == metatype.KindEmpty || v.kind == metatype.KindVoid:
		return v.kind.String()
	case v.kind == metatype.KindBool:
		return strconv.FormatBool(v.bits != 0)
	case v.kind.IsSigned():
		return v.kind.String() + "(" + strconv.FormatInt(int64(v.bits), 10) + ")"
	case v.kind.IsInteger():
		return v.kind.String() + "(" + strconv.FormatUint(v.bits, 10) + ")"
	case v.kind.IsFloat():
		bitSize := 64
		if v.kind == metatype.KindFloat32 {
			bitSize = 32
		}
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return v.kind.String() + "(" + strconv.FormatFloat(v.f, 'g', -1, 64) + ")"
		}
		return v.kind.String() + "(" + strconv.FormatFloat(v.f, 'g', -1, bitSize) + ")"
	case v.kind.IsString():
		s, _ := v.AsString()
		return strconv.Quote(s)
	default:
		return fmt.Sprintf("%s(%s@%p)", v.kind, v.typ, v.ptr)
	}
}
