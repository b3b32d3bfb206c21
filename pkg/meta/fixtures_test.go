package meta

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/seitarof/gometa/pkg/convert"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

type nodeA struct{ a int32 }

type nodeB1 struct {
	nodeA
	b1 int32
}

type nodeB2 struct {
	nodeA
	b2 int32
}

type nodeD struct {
	nodeB1
	nodeB2
	d int32
}

type diamond struct {
	reg                  *metatype.IdentityRegistry
	resolver             convert.Resolver
	global, a, b1, b2, d *Class
}

func classType(rt reflect.Type, name string) metatype.TypeInfo {
	return metatype.New(metatype.KindObject, metatype.Options{
		BaseName: name,
		Identity: metatype.IdentityOf(rt),
		Flags:    metatype.FlagBaseIsClass,
	})
}

func int32Field(name string, offset uintptr) FieldSpec {
	return FieldSpec{
		Name: name,
		Type: metatype.Fundamental(metatype.KindInt32),
		Get: func(p unsafe.Pointer) (variant.Variant, error) {
			return variant.Int32(*(*int32)(unsafe.Add(p, offset))), nil
		},
		Set: func(p unsafe.Pointer, v variant.Variant) error {
			n, err := v.AsInt32()
			if err != nil {
				return err
			}
			*(*int32)(unsafe.Add(p, offset)) = n
			return nil
		},
		Address: func(p unsafe.Pointer) unsafe.Pointer { return unsafe.Add(p, offset) },
	}
}

func newDiamond(tb testing.TB) *diamond {
	tb.Helper()
	reg := metatype.NewIdentityRegistry()
	r := NewResolver(reg)
	dm := &diamond{reg: reg, resolver: r, global: NewGlobalClass(r)}

	newClass := func(name string, rt reflect.Type) *Class {
		c := NewClass(ClassSpec{
			Name:     name,
			Type:     classType(rt, name),
			Size:     rt.Size(),
			Resolver: r,
			New: func() unsafe.Pointer {
				return reflect.New(rt).UnsafePointer()
			},
		})
		require.NoError(tb, reg.Register(metatype.IdentityOf(rt), c))
		dm.global.AddClass(c)
		return c
	}

	var a nodeA
	var d nodeD
	var b1 nodeB1
	var b2 nodeB2

	dm.a = newClass("A", reflect.TypeOf(nodeA{}))
	dm.a.AddField(int32Field("a", unsafe.Offsetof(a.a)))

	dm.b1 = newClass("B1", reflect.TypeOf(nodeB1{}))
	dm.b1.AddBase(dm.a, OffsetAdjuster(unsafe.Offsetof(b1.nodeA)))
	dm.b1.AddField(int32Field("b1", unsafe.Offsetof(b1.b1)))

	dm.b2 = newClass("B2", reflect.TypeOf(nodeB2{}))
	dm.b2.AddBase(dm.a, OffsetAdjuster(unsafe.Offsetof(b2.nodeA)))
	dm.b2.AddField(int32Field("b2", unsafe.Offsetof(b2.b2)))
	dm.b2.AddMethod(MethodSpec{
		Name:      "m",
		Signature: Signature{Result: metatype.Fundamental(metatype.KindInt32)},
		Invoke: func(p unsafe.Pointer, _ []variant.Variant) (variant.Variant, error) {
			return variant.Int32((*nodeB2)(p).b2), nil
		},
	})

	dm.d = newClass("D", reflect.TypeOf(nodeD{}))
	dm.d.AddBase(dm.b1, OffsetAdjuster(unsafe.Offsetof(d.nodeB1)))
	dm.d.AddBase(dm.b2, OffsetAdjuster(unsafe.Offsetof(d.nodeB2)))
	dm.d.AddField(int32Field("d", unsafe.Offsetof(d.d)))

	return dm
}

// sampleD returns a D whose subobjects carry distinct values.
func sampleD() *nodeD {
	d := &nodeD{d: 4}
	d.nodeB1.a = 1
	d.nodeB1.b1 = 2
	d.nodeB2.a = 10
	d.nodeB2.b2 = 3
	return d
}
