package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// EnumValue is one key of an enum.
type EnumValue struct {
	Key   string
	Value int64
}

// EnumSpec describes an enum. Kind is the underlying integer kind, int64 when unset.
type EnumSpec struct {
	Name        string
	Type        metatype.TypeInfo
	Kind        metatype.Kind
	Values      []EnumValue
	Annotations []AnnotationSpec
}

// Enum is a named set of integral constants.
type Enum struct {
	itemBase
	kind   metatype.Kind
	values []EnumValue
}

var _ TypedItem = (*Enum)(nil)

func newEnum(spec EnumSpec) *Enum {
	kind := spec.Kind
	if !kind.IsInteger() {
		kind = metatype.KindInt64
	}
	typ := spec.Type
	if typ.IsEmpty() {
		typ = metatype.New(kind, metatype.Options{BaseName: spec.Name})
	}
	e := &Enum{
		itemBase: itemBase{name: spec.Name, category: CategoryEnum, typ: typ, static: true},
		kind:     kind,
		values:   append([]EnumValue(nil), spec.Values...),
	}
	return e
}

func (e *Enum) TypeName() string { return e.name }

func (e *Enum) TypeSize() uintptr { return e.kind.Size() }

func (e *Enum) Count() int { return len(e.values) }

func (e *Enum) Key(i int) string {
	if i < 0 || i >= len(e.values) {
		return ""
	}
	return e.values[i].Key
}

// Value returns the i-th value converted to the underlying kind.
func (e *Enum) Value(i int) variant.Variant {
	if i < 0 || i >= len(e.values) {
		return variant.Empty()
	}
	v, _ := variant.Int64(e.values[i].Value).Cast(e.kind)
	return v
}

// FindKey returns the index of key, -1 when absent.
func (e *Enum) FindKey(key string) int {
	for i, v := range e.values {
		if v.Key == key {
			return i
		}
	}
	return -1
}

func (e *Enum) CreateInstance() (unsafe.Pointer, error) {
	return allocFundamental(e.kind), nil
}

func (e *Enum) CloneInstance(instance unsafe.Pointer) (unsafe.Pointer, error) {
	if instance == nil {
		return nil, fmt.Errorf("clone %s: %w", e.name, metaerr.ErrNullInstance)
	}
	out := allocFundamental(e.kind)
	if err := storeFundamental(e.kind, out, loadFundamental(e.kind, instance)); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Enum) DestroyInstance(unsafe.Pointer) {}
