// Package metaerr defines the error kinds reported by the reflection engine.
//
// Structural errors (type, arity, access, instance) are returned synchronously by the
// operation that detected them, wrapped with the name of the offending item. Use the
// Is helpers or errors.Is to classify them.
package metaerr

import "errors"

var (
	// ErrTypeMismatch is returned when a value cannot be coerced to the requested kind
	// or an argument is not compatible with a parameter.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArityMismatch is returned when a callable receives fewer arguments than it
	// declares, or more arguments when it is not variadic.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrAccessDenied is returned when reading a non-readable or writing a
	// non-writable field or property.
	ErrAccessDenied = errors.New("access denied")

	// ErrNullInstance is returned when a non-static operation is called without an instance.
	ErrNullInstance = errors.New("null instance")

	// ErrNotFound is only used by convenience helpers that look up and act in one step.
	// Plain lookups report absence with a nil result instead.
	ErrNotFound = errors.New("not found")

	// ErrUnresolvedType is returned when a type name is requested but the fix-up pass
	// could not resolve it from its identity token.
	ErrUnresolvedType = errors.New("unresolved type")

	// ErrReleased is returned when an owned object is released a second time.
	ErrReleased = errors.New("object already released")

	// ErrNotCopyable is returned when an owned object has to be duplicated but its
	// type cannot be copy-constructed.
	ErrNotCopyable = errors.New("object is not copyable")

	// ErrRegistryFrozen is returned when registering into a frozen identity registry.
	ErrRegistryFrozen = errors.New("identity registry is frozen")

	// ErrNotInvocable is returned when an item has no backing implementation for the
	// requested operation (e.g. an abstract class asked to create an instance).
	ErrNotInvocable = errors.New("not invocable")
)

// IsTypeMismatch reports whether err is a type mismatch.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsArityMismatch reports whether err is an arity mismatch.
func IsArityMismatch(err error) bool {
	return errors.Is(err, ErrArityMismatch)
}

// IsAccessDenied reports whether err is an access violation.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsNullInstance reports whether err is caused by a missing instance.
func IsNullInstance(err error) bool {
	return errors.Is(err, ErrNullInstance)
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnresolvedType reports whether err is an unresolved type name.
func IsUnresolvedType(err error) bool {
	return errors.Is(err, ErrUnresolvedType)
}
