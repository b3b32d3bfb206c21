package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/convert"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// Getter reads a value from an instance. Static accessors receive a nil instance.
type Getter func(instance unsafe.Pointer) (variant.Variant, error)

// Setter writes an already converted value into an instance.
type Setter func(instance unsafe.Pointer, v variant.Variant) error

// Accessible is implemented by fields and properties.
type Accessible interface {
	Item
	CanGet() bool
	CanSet() bool
	Get(instance unsafe.Pointer) (variant.Variant, error)
	Set(instance unsafe.Pointer, v variant.Variant) error
	Size() uintptr
}

// FieldSpec describes a field. A nil Set makes the field read-only, a nil Get makes it
// write-only.
type FieldSpec struct {
	Name        string
	Type        metatype.TypeInfo
	Static      bool
	Size        uintptr
	Get         Getter
	Set         Setter
	Address     func(instance unsafe.Pointer) unsafe.Pointer
	Converter   variant.Converter
	Annotations []AnnotationSpec
}

// PropertySpec describes an accessor-backed property.
type PropertySpec struct {
	Name        string
	Type        metatype.TypeInfo
	Static      bool
	Size        uintptr
	Get         Getter
	Set         Setter
	Converter   variant.Converter
	Annotations []AnnotationSpec
}

type accessor struct {
	itemBase
	size     uintptr
	get      Getter
	set      Setter
	conv     variant.Converter
	resolver convert.Resolver
}

func (a *accessor) CanGet() bool { return a.get != nil }

func (a *accessor) CanSet() bool { return a.set != nil }

func (a *accessor) Size() uintptr { return a.size }

// Converter returns the string converter registered for the value type, if any.
func (a *accessor) Converter() variant.Converter { return a.conv }

func (a *accessor) checkInstance(instance unsafe.Pointer) error {
	if instance == nil && !a.static {
		return fmt.Errorf("%s: %w", a.QualifiedName(), metaerr.ErrNullInstance)
	}
	return nil
}

func (a *accessor) Get(instance unsafe.Pointer) (variant.Variant, error) {
	if !a.CanGet() {
		return variant.Empty(), fmt.Errorf("get %s: %w", a.QualifiedName(), metaerr.ErrAccessDenied)
	}
	if err := a.checkInstance(instance); err != nil {
		return variant.Empty(), err
	}
	return a.get(instance)
}

func (a *accessor) Set(instance unsafe.Pointer, v variant.Variant) error {
	if !a.CanSet() {
		return fmt.Errorf("set %s: %w", a.QualifiedName(), metaerr.ErrAccessDenied)
	}
	if err := a.checkInstance(instance); err != nil {
		return err
	}
	converted, err := a.resolver.Convert(v, a.typ)
	if err != nil {
		return fmt.Errorf("set %s: %w", a.QualifiedName(), err)
	}
	return a.set(instance, converted)
}

// Field is a data member with a stable address inside its instance.
type Field struct {
	accessor
	address func(instance unsafe.Pointer) unsafe.Pointer
}

var _ Accessible = (*Field)(nil)

// Address returns a borrowed pointer to the field storage, typed one indirection deeper
// than the field.
func (f *Field) Address(instance unsafe.Pointer) (variant.Variant, error) {
	if f.address == nil {
		return variant.Empty(), fmt.Errorf("address of %s: %w", f.QualifiedName(), metaerr.ErrAccessDenied)
	}
	if err := f.checkInstance(instance); err != nil {
		return variant.Empty(), err
	}
	return variant.Pointer(f.address(instance), f.typ.AddPointer()), nil
}

// Property is an accessor-backed value with the same contract as a field.
type Property struct {
	accessor
}

var _ Accessible = (*Property)(nil)
