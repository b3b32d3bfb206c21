package metatype

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gometa/pkg/metaerr"
)

type sample struct{ v int }

type namedItem string

func (n namedItem) TypeName() string { return string(n) }

func TestTypeInfo_Equal(t *testing.T) {
	id := IdentityOf(reflect.TypeOf(sample{}))
	obj := New(KindObject, Options{BaseName: "sample", Identity: id, Flags: FlagBaseIsClass})
	objPtr := obj.AddPointer()
	constObjPtr := obj.WithFlags(FlagConst).AddPointer()
	anonymous := New(KindObject, Options{Identity: id})

	tests := []struct {
		name string
		a, b TypeInfo
		want bool
	}{
		{name: "reflexive value", a: obj, b: obj, want: true},
		{name: "reflexive pointer", a: objPtr, b: objPtr, want: true},
		{name: "pointer depth differs", a: objPtr, b: obj, want: false},
		{name: "pointee constness differs", a: constObjPtr, b: objPtr, want: false},
		{name: "identity only side matches by token", a: anonymous, b: obj, want: true},
		{name: "different names", a: Fundamental(KindInt32), b: Fundamental(KindInt64), want: false},
		{name: "same fundamental", a: Fundamental(KindInt32), b: Fundamental(KindInt32), want: true},
		{name: "no usable identity", a: New(KindObject, Options{}), b: New(KindObject, Options{}), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestTypeInfo_QualifiersAreExclusive(t *testing.T) {
	cv := New(KindInt32, Options{Flags: FlagConst | FlagVolatile | FlagConstVolatile})
	assert.True(t, cv.IsConstVolatile())
	assert.False(t, cv.IsConst())
	assert.False(t, cv.IsVolatile())

	c := New(KindInt32, Options{Flags: FlagConst})
	assert.True(t, c.IsConst())
	assert.False(t, c.IsConstVolatile())

	p := New(KindInt32, Options{Flags: FlagPointerToConst | FlagPointerToConstVolatile, Pointers: 1})
	assert.True(t, p.IsPointerToConstVolatile())
	assert.False(t, p.IsPointerToConst())
}

func TestTypeInfo_AddPointer(t *testing.T) {
	base := New(KindInt32, Options{BaseName: "int32", Flags: FlagConst | FlagReference})
	ptr := base.AddPointer()

	assert.Equal(t, 0, base.PointerDimension())
	assert.Equal(t, 1, ptr.PointerDimension())
	assert.True(t, ptr.IsPointer())
	assert.True(t, ptr.IsPointerToConst())
	assert.False(t, ptr.IsConst())
	assert.False(t, ptr.IsReference())
	assert.Equal(t, KindPointer, ptr.VariantKind())
	assert.Equal(t, KindInt32, ptr.Kind())

	ptrPtr := ptr.AddPointer()
	assert.Equal(t, 2, ptrPtr.PointerDimension())
	assert.True(t, ptrPtr.IsPointerToConst())
	assert.Equal(t, "const int32 **", ptrPtr.String())
}

func TestTypeInfo_ObjectPointerKeepsObjectKind(t *testing.T) {
	obj := New(KindObject, Options{BaseName: "sample"})
	assert.Equal(t, KindObject, obj.AddPointer().VariantKind())
}

func TestFixupAndResolveName(t *testing.T) {
	reg := NewIdentityRegistry()
	id := IdentityOf(reflect.TypeOf(sample{}))
	late := New(KindObject, Options{Identity: id})

	_, err := late.ResolveName(reg)
	require.Error(t, err)
	assert.True(t, metaerr.IsUnresolvedType(err))
	assert.False(t, Fixup(&late, reg))

	require.NoError(t, reg.Register(id, namedItem("sample")))
	name, err := late.ResolveName(reg)
	require.NoError(t, err)
	assert.Equal(t, "sample", name)

	assert.True(t, Fixup(&late, reg))
	assert.Equal(t, "sample", late.BaseName())
}

func TestIdentityRegistry_Lifecycle(t *testing.T) {
	reg := NewIdentityRegistry()
	id := IdentityOf(reflect.TypeOf(sample{}))
	item := namedItem("sample")

	require.NoError(t, reg.Register(id, item))
	require.NoError(t, reg.Register(id, item), "same item twice is idempotent")
	require.Error(t, reg.Register(id, namedItem("other")))
	require.Error(t, reg.Register(TypeID{}, item))
	assert.Equal(t, 1, reg.Len())

	reg.Freeze()
	assert.True(t, reg.Frozen())
	err := reg.Register(IdentityOf(reflect.TypeOf(0)), namedItem("int"))
	assert.ErrorIs(t, err, metaerr.ErrRegistryFrozen)

	got, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "sample", got.TypeName())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindBool.IsNumeric())
	assert.False(t, KindBool.IsInteger())
	assert.True(t, KindUint16.IsInteger())
	assert.False(t, KindUint16.IsSigned())
	assert.True(t, KindInt8.IsSigned())
	assert.True(t, KindFloat32.IsFloat())
	assert.True(t, KindWideString.IsString())
	assert.False(t, KindObject.IsFundamental())
	assert.Equal(t, "wstring", KindWideString.String())
	assert.Equal(t, uintptr(4), KindInt32.Size())
	assert.Len(t, FundamentalKinds(), 13)
}
