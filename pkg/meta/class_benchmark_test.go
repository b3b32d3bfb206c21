package meta

import (
	"testing"
	"unsafe"

	"github.com/seitarof/gometa/pkg/variant"
)

func BenchmarkClassMethodInHierarchy(b *testing.B) {
	dm := newDiamond(b)
	instance := unsafe.Pointer(sampleD())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if m, _ := dm.d.MethodInHierarchy("m", instance); m == nil {
			b.Fatal("method not found")
		}
	}
}

func BenchmarkClassInvokeMethod_Overloads(b *testing.B) {
	destroyed := 0
	c := newWidgetClass(&destroyed)
	addOverloads(c)
	w := unsafe.Pointer(&widget{})
	args := []variant.Variant{variant.String("ab"), variant.Int32(3)}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.InvokeMethod(w, "f", args...); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
