// Package demo registers the sample types the inspector ships with: TestObject and
// its overload set, a diamond hierarchy, a few enums and global functions.
package demo

import (
	"fmt"
	"reflect"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metareg"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// Magic values carried by TestObject instances.
const (
	Magic1 int32 = 0x1999
	Magic2 int32 = 0xbeef38
	Magic3 int32 = 0xf00d
)

// TestData is a plain record without methods.
type TestData struct {
	X    int32
	Name string
}

// TestObject is the main sample class.
type TestObject struct {
	Value int32
}

// NewTestObject returns an object holding Magic1.
func NewTestObject() *TestObject { return &TestObject{Value: Magic1} }

func (o *TestObject) Self() *TestObject { return o }

func (o TestObject) String() string { return fmt.Sprintf("TestObject(%d)", o.Value) }

// Assign mimics an assignment operator that stamps Magic3.
func (o *TestObject) Assign(TestObject) *TestObject {
	o.Value = Magic3
	return o
}

// Counter is the global variable exposed as "counter".
var Counter int32

// Global registers every demo type into a new global class. Identities go to reg.
func Global(reg *metatype.IdentityRegistry) (*meta.Class, error) {
	opts := []metareg.Option{metareg.WithIdentities(reg)}

	data, err := metareg.DefineClass[TestData]("TestData", opts...).
		Constructor(func() *TestData { return &TestData{} }).
		Field("x", "X").
		Field("name", "Name").
		Build()
	if err != nil {
		return nil, err
	}

	obj, err := defineTestObject(opts)
	if err != nil {
		return nil, err
	}

	shapes, err := defineShapes(opts)
	if err != nil {
		return nil, err
	}

	g := metareg.NewGlobal(opts...).
		Class(data).
		Class(obj)
	for _, c := range shapes {
		g.Class(c)
	}
	return g.
		Enum("Magic", reflect.TypeOf((*int32)(nil)).Elem(),
			meta.EnumValue{Key: "Magic1", Value: int64(Magic1)},
			meta.EnumValue{Key: "Magic2", Value: int64(Magic2)},
			meta.EnumValue{Key: "Magic3", Value: int64(Magic3)}).
		Var("counter", &Counter).
		Func("sum", func(xs ...int64) int64 {
			var total int64
			for _, x := range xs {
				total += x
			}
			return total
		}).
		Annotate("doc", meta.Entry("text", variant.String("adds every argument"))).
		Func("concat", func(a, b string) string { return a + b }).
		Build()
}

func defineTestObject(opts []metareg.Option) (*meta.Class, error) {
	return metareg.DefineClass[TestObject]("TestObject", opts...).
		Annotate("attribute",
			meta.Entry("name", variant.String("TestObject")),
			meta.Entry("id", variant.Int32(Magic1))).
		Constructor(NewTestObject).
		Constructor(func(value int32) *TestObject { return &TestObject{Value: value} }).
		Constructor(func(a int32, s string) *TestObject { return &TestObject{Value: a + int32(len(s))} }).
		Field("value", "Value").
		Annotate("range", meta.Entry("min", variant.Int32(0))).
		Property("magic",
			func(o TestObject) bool { return o.Value == Magic1 || o.Value == Magic2 || o.Value == Magic3 },
			nil).
		Method("self", (*TestObject).Self).
		Method("methodOverload", func(o *TestObject, other *TestObject, n int32) int32 { return other.Value + n }).
		Method("methodOverload", func(o *TestObject, n int32, other *TestObject) int32 { return other.Value + n + 1 }).
		Method("methodOverload", func(o *TestObject, a, b int32) int32 { return a * b }).
		Method("methodOverload", func(o *TestObject, s string, n int32) int32 { return int32(len(s)) + n }).
		Method("methodOverload", func(o *TestObject, n int32, s string) int32 { return int32(len(s)) + n + 1 }).
		Method("add", func(o *TestObject, n int32) int32 {
			o.Value += n
			return o.Value
		}).
		StaticMethod("create", NewTestObject).
		Operator(meta.OpAdd, func(a, b TestObject) TestObject { return TestObject{Value: a.Value + b.Value} }).
		Operator(meta.OpEqual, func(a, b TestObject) bool { return a.Value == b.Value }).
		Operator(meta.OpNeg, func(a TestObject) TestObject { return TestObject{Value: -a.Value} }).
		Operator(meta.OpAssign, func(a *TestObject, b TestObject) *TestObject { return a.Assign(b) }).
		Operator(meta.OpFunctor, func(o *TestObject, n int32) int32 { return o.Value * n }).
		Enum("Level", reflect.TypeOf((*int8)(nil)).Elem(),
			meta.EnumValue{Key: "low", Value: 1},
			meta.EnumValue{Key: "high", Value: 2}).
		Build()
}
