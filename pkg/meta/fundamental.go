package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// TypedItem is implemented by items that describe a type and manage its instances.
type TypedItem interface {
	Item
	TypeName() string
	TypeSize() uintptr
	CreateInstance() (unsafe.Pointer, error)
	CloneInstance(instance unsafe.Pointer) (unsafe.Pointer, error)
	DestroyInstance(instance unsafe.Pointer)
}

// Fundamental describes one fundamental kind.
type Fundamental struct {
	itemBase
	kind metatype.Kind
}

var _ TypedItem = (*Fundamental)(nil)

// NewFundamental returns the item for kind, nil when kind is not fundamental.
func NewFundamental(kind metatype.Kind) *Fundamental {
	if !kind.IsFundamental() {
		return nil
	}
	return &Fundamental{
		itemBase: itemBase{
			name:     kind.String(),
			category: CategoryFundamental,
			typ:      metatype.Fundamental(kind),
		},
		kind: kind,
	}
}

// Fundamentals returns one item per fundamental kind.
func Fundamentals() []*Fundamental {
	kinds := metatype.FundamentalKinds()
	out := make([]*Fundamental, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, NewFundamental(k))
	}
	return out
}

func (f *Fundamental) Kind() metatype.Kind { return f.kind }

func (f *Fundamental) TypeName() string { return f.name }

func (f *Fundamental) TypeSize() uintptr { return f.kind.Size() }

func (f *Fundamental) CreateInstance() (unsafe.Pointer, error) {
	return allocFundamental(f.kind), nil
}

func (f *Fundamental) CloneInstance(instance unsafe.Pointer) (unsafe.Pointer, error) {
	if instance == nil {
		return nil, fmt.Errorf("clone %s: %w", f.name, metaerr.ErrNullInstance)
	}
	out := allocFundamental(f.kind)
	v, err := f.Value(instance)
	if err != nil {
		return nil, err
	}
	if err := storeFundamental(f.kind, out, v); err != nil {
		return nil, err
	}
	return out, nil
}

// DestroyInstance drops the instance; memory is reclaimed by the collector.
func (f *Fundamental) DestroyInstance(unsafe.Pointer) {}

// Value reads the value stored at instance.
func (f *Fundamental) Value(instance unsafe.Pointer) (variant.Variant, error) {
	if instance == nil {
		return variant.Empty(), fmt.Errorf("value of %s: %w", f.name, metaerr.ErrNullInstance)
	}
	return loadFundamental(f.kind, instance), nil
}

func allocFundamental(kind metatype.Kind) unsafe.Pointer {
	switch kind {
	case metatype.KindBool:
		return unsafe.Pointer(new(bool))
	case metatype.KindInt8:
		return unsafe.Pointer(new(int8))
	case metatype.KindUint8:
		return unsafe.Pointer(new(uint8))
	case metatype.KindInt16:
		return unsafe.Pointer(new(int16))
	case metatype.KindUint16:
		return unsafe.Pointer(new(uint16))
	case metatype.KindInt32:
		return unsafe.Pointer(new(int32))
	case metatype.KindUint32:
		return unsafe.Pointer(new(uint32))
	case metatype.KindInt64:
		return unsafe.Pointer(new(int64))
	case metatype.KindUint64:
		return unsafe.Pointer(new(uint64))
	case metatype.KindFloat32:
		return unsafe.Pointer(new(float32))
	case metatype.KindFloat64:
		return unsafe.Pointer(new(float64))
	case metatype.KindString:
		return unsafe.Pointer(new(string))
	case metatype.KindWideString:
		return unsafe.Pointer(new([]rune))
	default:
		return nil
	}
}

func loadFundamental(kind metatype.Kind, p unsafe.Pointer) variant.Variant {
	switch kind {
	case metatype.KindBool:
		return variant.Bool(*(*bool)(p))
	case metatype.KindInt8:
		return variant.Int8(*(*int8)(p))
	case metatype.KindUint8:
		return variant.Uint8(*(*uint8)(p))
	case metatype.KindInt16:
		return variant.Int16(*(*int16)(p))
	case metatype.KindUint16:
		return variant.Uint16(*(*uint16)(p))
	case metatype.KindInt32:
		return variant.Int32(*(*int32)(p))
	case metatype.KindUint32:
		return variant.Uint32(*(*uint32)(p))
	case metatype.KindInt64:
		return variant.Int64(*(*int64)(p))
	case metatype.KindUint64:
		return variant.Uint64(*(*uint64)(p))
	case metatype.KindFloat32:
		return variant.Float32(*(*float32)(p))
	case metatype.KindFloat64:
		return variant.Float64(*(*float64)(p))
	case metatype.KindString:
		return variant.String(*(*string)(p))
	case metatype.KindWideString:
		return variant.WideString(*(*[]rune)(p))
	default:
		return variant.Empty()
	}
}

func storeFundamental(kind metatype.Kind, p unsafe.Pointer, v variant.Variant) error {
	var err error
	switch {
	case kind == metatype.KindBool:
		*(*bool)(p), err = v.AsBool()
	case kind == metatype.KindString:
		*(*string)(p), err = v.AsString()
	case kind == metatype.KindWideString:
		*(*[]rune)(p), err = v.AsWideString()
	case kind.IsNumeric():
		var c variant.Variant
		c, err = v.Cast(kind)
		if err == nil {
			copyNumeric(kind, p, c)
		}
	default:
		err = fmt.Errorf("%w: %s is not fundamental", metaerr.ErrTypeMismatch, kind)
	}
	return err
}

func copyNumeric(kind metatype.Kind, p unsafe.Pointer, v variant.Variant) {
	i, _ := v.AsInt64()
	u, _ := v.AsUint64()
	f, _ := v.AsFloat64()
	switch kind {
	case metatype.KindInt8:
		*(*int8)(p) = int8(i)
	case metatype.KindUint8:
		*(*uint8)(p) = uint8(u)
	case metatype.KindInt16:
		*(*int16)(p) = int16(i)
	case metatype.KindUint16:
		*(*uint16)(p) = uint16(u)
	case metatype.KindInt32:
		*(*int32)(p) = int32(i)
	case metatype.KindUint32:
		*(*uint32)(p) = uint32(u)
	case metatype.KindInt64:
		*(*int64)(p) = i
	case metatype.KindUint64:
		*(*uint64)(p) = u
	case metatype.KindFloat32:
		*(*float32)(p) = float32(f)
	case metatype.KindFloat64:
		*(*float64)(p) = f
	}
}
