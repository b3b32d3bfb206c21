package meta

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

func TestClass_MethodInHierarchyAdjustsInstance(t *testing.T) {
	dm := newDiamond(t)
	d := sampleD()
	instance := unsafe.Pointer(d)

	m, adjusted := dm.d.MethodInHierarchy("m", instance)
	require.NotNil(t, m)
	assert.True(t, m.Equal(dm.b2.Method("m")))
	assert.Equal(t, dm.d.CastToBase(instance, 1), adjusted)
	assert.Equal(t, unsafe.Pointer(&d.nodeB2), adjusted)

	got, err := m.Invoke(adjusted, nil)
	require.NoError(t, err)
	n, _ := got.AsInt32()
	assert.Equal(t, int32(3), n)

	missing, p := dm.d.MethodInHierarchy("nope", instance)
	assert.Nil(t, missing)
	assert.Nil(t, p)
}

func TestClass_FieldInHierarchyPrefersFirstBase(t *testing.T) {
	dm := newDiamond(t)
	d := sampleD()

	f, adjusted := dm.d.FieldInHierarchy("a", unsafe.Pointer(d))
	require.NotNil(t, f)
	assert.Equal(t, unsafe.Pointer(&d.nodeB1.nodeA), adjusted)

	v, err := f.Get(adjusted)
	require.NoError(t, err)
	n, _ := v.AsInt32()
	assert.Equal(t, int32(1), n)
}

func TestClass_CastRoundTrip(t *testing.T) {
	dm := newDiamond(t)
	d := sampleD()
	instance := unsafe.Pointer(d)

	for i := 0; i < dm.d.BaseCount(); i++ {
		base := dm.d.CastToBase(instance, i)
		assert.Equal(t, instance, dm.d.CastFromBase(base, i))
	}
	assert.Nil(t, dm.d.CastToBase(instance, 5))
	assert.Nil(t, dm.d.CastToBase(nil, 0))
}

func TestClass_IsInheritedFromDiamond(t *testing.T) {
	dm := newDiamond(t)

	assert.True(t, dm.d.IsInheritedFrom(dm.a))
	assert.True(t, dm.d.IsInheritedFrom(dm.b2))
	assert.False(t, dm.a.IsInheritedFrom(dm.d))
	assert.False(t, dm.d.IsInheritedFrom(dm.d))
	assert.False(t, dm.d.IsInheritedFrom(nil))
}

func TestClass_IsInheritedFromTerminatesOnCycle(t *testing.T) {
	x := NewClass(ClassSpec{Name: "X"})
	y := NewClass(ClassSpec{Name: "Y"})
	z := NewClass(ClassSpec{Name: "Z"})
	x.AddBase(y, Adjuster{})
	y.AddBase(x, Adjuster{})

	assert.False(t, x.IsInheritedFrom(z))
}

func TestClass_Accessors(t *testing.T) {
	dm := newDiamond(t)

	assert.Equal(t, 2, dm.d.BaseCount())
	assert.Equal(t, dm.b1, dm.d.BaseClass(0))
	assert.Nil(t, dm.d.BaseClass(2))
	assert.Equal(t, 4, dm.global.ClassCount())
	assert.Equal(t, dm.b2, dm.global.Class("B2"))
	assert.Equal(t, "B2.m", dm.b2.Method("m").QualifiedName())
	assert.Equal(t, dm.b2, dm.b2.Method("m").Owner())
	assert.Equal(t, 2, dm.b2.MetaCount())
	assert.Equal(t, CategoryField, dm.b2.MetaAt(0).Category())
	assert.Equal(t, CategoryMethod, dm.b2.MetaAt(1).Category())
	assert.Nil(t, dm.b2.MetaAt(2))
	assert.True(t, dm.global.IsGlobal())
	assert.True(t, dm.d.CanCreateInstance())
	assert.False(t, dm.d.CanCopyInstance())
}

func TestClass_MethodListInHierarchy(t *testing.T) {
	dm := newDiamond(t)
	dm.a.AddMethod(MethodSpec{Name: "m", Static: true, Invoke: func(unsafe.Pointer, []variant.Variant) (variant.Variant, error) {
		return variant.Void(), nil
	}})
	d := sampleD()

	list := NewList()
	dm.d.MethodListInHierarchy(list, "m", FilterNone, unsafe.Pointer(d))
	require.Equal(t, 2, list.Count())
	assert.Equal(t, dm.a, list.At(0).Owner())
	assert.Equal(t, dm.b2, list.At(1).Owner())
	assert.Equal(t, unsafe.Pointer(&d.nodeB2), list.InstanceAt(1))

	list.Clear()
	dm.d.MethodListInHierarchy(list, "m", FilterIgnoreStatic, unsafe.Pointer(d))
	require.Equal(t, 1, list.Count())
	assert.Equal(t, dm.b2, list.At(0).Owner())

	list.Clear()
	dm.d.MethodListInHierarchy(list, "m", FilterIgnoreInstance, unsafe.Pointer(d))
	require.Equal(t, 1, list.Count())
	assert.True(t, list.At(0).IsStatic())
}

func TestClass_DerivedToBaseArgument(t *testing.T) {
	dm := newDiamond(t)
	var seen unsafe.Pointer
	dm.global.AddMethod(MethodSpec{
		Name:      "touch",
		Signature: Signature{Params: []metatype.TypeInfo{dm.b2.ItemType().AddPointer()}},
		Invoke: func(_ unsafe.Pointer, args []variant.Variant) (variant.Variant, error) {
			seen, _ = args[0].AsPointer()
			return variant.Empty(), nil
		},
	})
	d := sampleD()

	_, err := dm.global.InvokeMethod(nil, "touch", dm.d.Wrap(unsafe.Pointer(d)))
	require.NoError(t, err)
	assert.Equal(t, unsafe.Pointer(&d.nodeB2), seen)

	_, err = dm.global.InvokeMethod(nil, "touch", dm.a.Wrap(unsafe.Pointer(&d.nodeB1.nodeA)))
	assert.True(t, metaerr.IsTypeMismatch(err))
}

func TestClass_InvokeMethodNotFound(t *testing.T) {
	dm := newDiamond(t)
	_, err := dm.d.InvokeMethod(unsafe.Pointer(sampleD()), "missing")
	assert.True(t, metaerr.IsNotFound(err))
}

func TestClass_NewInstanceWithoutConstructors(t *testing.T) {
	dm := newDiamond(t)
	v, err := dm.d.NewInstance()
	require.NoError(t, err)
	assert.True(t, v.IsOwned())
	assert.Equal(t, "D", v.Type().BaseName())
	require.NoError(t, v.Release())

	_, err = dm.d.NewInstance(variant.Int32(1))
	assert.True(t, metaerr.IsTypeMismatch(err))

	abstract := NewClass(ClassSpec{Name: "Shape", Abstract: true})
	assert.False(t, abstract.CanCreateInstance())
	_, err = abstract.NewInstance()
	assert.ErrorIs(t, err, metaerr.ErrNotInvocable)
}

func TestHierarchy_UnknownClass(t *testing.T) {
	dm := newDiamond(t)
	h := Hierarchy(dm.reg)

	_, ok := h.Upcast(metatype.New(metatype.KindObject, metatype.Options{BaseName: "Ghost"}), dm.a.ItemType())
	assert.False(t, ok)

	adjust, ok := h.Upcast(dm.d.ItemType(), dm.a.ItemType())
	require.True(t, ok)
	d := sampleD()
	assert.Equal(t, unsafe.Pointer(&d.nodeB1.nodeA), adjust(unsafe.Pointer(d)))
}

func TestFixup_ResolvesLateBoundNames(t *testing.T) {
	dm := newDiamond(t)
	anonymous := metatype.New(metatype.KindObject, metatype.Options{Identity: dm.a.ItemType().Identity()})
	m := dm.global.AddMethod(MethodSpec{
		Name:      "late",
		Signature: Signature{Params: []metatype.TypeInfo{anonymous}, Result: anonymous},
	})
	assert.Equal(t, "", m.ParamType(0).BaseName())

	unresolved := Fixup(dm.global, dm.reg)
	assert.Empty(t, unresolved)
	assert.Equal(t, "A", m.ParamType(0).BaseName())
	assert.Equal(t, "A", m.ResultType().BaseName())
}

func TestWalk_VisitsNestedClasses(t *testing.T) {
	dm := newDiamond(t)
	var names []string
	Walk(dm.global, func(item Item) bool {
		if item.Category() == CategoryClass && !item.(*Class).IsGlobal() {
			names = append(names, item.Name())
		}
		return true
	})
	assert.Equal(t, []string{"A", "B1", "B2", "D"}, names)

	count := 0
	Walk(dm.global, func(Item) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)
}
