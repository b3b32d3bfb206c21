package metareg

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/variant"
)

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// stringerConverter renders instances of struct types implementing fmt.Stringer.
type stringerConverter struct {
	rt reflect.Type
}

var _ variant.Converter = stringerConverter{}

func (c stringerConverter) CanToString() bool { return true }

func (c stringerConverter) ToString(instance unsafe.Pointer) (string, error) {
	if instance == nil {
		return "", fmt.Errorf("%s.String: %w", c.rt, metaerr.ErrNullInstance)
	}
	return reflect.NewAt(c.rt, instance).Interface().(fmt.Stringer).String(), nil
}

// converterFor returns a string converter when rt, after stripping pointers, is a struct
// whose pointer method set has String() string.
func converterFor(rt reflect.Type) variant.Converter {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct || !reflect.PointerTo(rt).Implements(stringerType) {
		return nil
	}
	return stringerConverter{rt: rt}
}
