package convert

import (
	"unsafe"

	"github.com/seitarof/gometa/pkg/metatype"
)

// Hierarchy answers derived-to-base questions about registered classes.
type Hierarchy interface {
	// Upcast returns the pointer adjustment from an instance of derived to its base
	// subobject of type base, ok false when base is not an ancestor of derived.
	Upcast(derived, base metatype.TypeInfo) (adjust func(unsafe.Pointer) unsafe.Pointer, ok bool)
}

// HierarchyAware rules consume class hierarchy information.
type HierarchyAware interface {
	SetHierarchy(Hierarchy)
}
