// Package metatype describes native type occurrences: a base identity plus qualifiers
// and pointer depth. TypeInfo values are immutable after registration and are compared
// with Equal, never with ==.
package metatype

import (
	"reflect"
	"strings"
)

// Flags is the qualifier bitset of a TypeInfo.
type Flags uint32

const (
	FlagConst Flags = 1 << iota
	FlagVolatile
	FlagConstVolatile
	FlagReference
	FlagPointer
	FlagPointerToConst
	FlagPointerToVolatile
	FlagPointerToConstVolatile
	FlagFunction
	FlagConstFunction
	FlagVolatileFunction
	FlagConstVolatileFunction
	FlagBaseIsClass
)

// TypeID is an opaque runtime identity token for a base type.
type TypeID struct {
	t reflect.Type
}

// IdentityOf returns the identity token of rt.
func IdentityOf(rt reflect.Type) TypeID {
	return TypeID{t: rt}
}

// IsEmpty reports whether the token carries no identity.
func (id TypeID) IsEmpty() bool {
	return id.t == nil
}

// Type returns the runtime type behind the token, nil when empty.
func (id TypeID) Type() reflect.Type {
	return id.t
}

func (id TypeID) String() string {
	if id.t == nil {
		return ""
	}
	return id.t.String()
}

// Options carries the static description a TypeInfo is built from.
type Options struct {
	BaseName string
	Flags    Flags
	Pointers int
	Identity TypeID
}

// TypeInfo identifies one native type occurrence.
type TypeInfo struct {
	baseName string
	flags    Flags
	kind     Kind
	pointers uint8
	identity TypeID
}

// New builds a TypeInfo for a base kind. A positive pointer count implies FlagPointer.
func New(kind Kind, opts Options) TypeInfo {
	t := TypeInfo{
		baseName: opts.BaseName,
		flags:    opts.Flags,
		kind:     kind,
		identity: opts.Identity,
	}
	if opts.Pointers > 0 {
		t.pointers = uint8(opts.Pointers)
		t.flags |= FlagPointer
	}
	return t
}

// Fundamental returns the unqualified TypeInfo of a fundamental kind.
func Fundamental(kind Kind) TypeInfo {
	return TypeInfo{baseName: kind.String(), kind: kind}
}

// Void is the result type of callables that return nothing meaningful.
func Void() TypeInfo {
	return TypeInfo{baseName: KindVoid.String(), kind: KindVoid}
}

func (t TypeInfo) hasFlag(f Flags) bool {
	return t.flags&f == f
}

// IsEmpty reports whether t describes nothing.
func (t TypeInfo) IsEmpty() bool {
	return t.kind == KindEmpty
}

// Kind returns the base storage kind, ignoring pointer levels.
func (t TypeInfo) Kind() Kind {
	return t.kind
}

// VariantKind returns the kind a Variant holding a value of t is tagged with.
func (t TypeInfo) VariantKind() Kind {
	if t.pointers > 0 && t.kind != KindObject {
		return KindPointer
	}
	return t.kind
}

func (t TypeInfo) Flags() Flags {
	return t.flags
}

// BaseName returns the resolved base name, empty when only an identity is known.
func (t TypeInfo) BaseName() string {
	return t.baseName
}

// Identity returns the identity token of the base type.
func (t TypeInfo) Identity() TypeID {
	return t.identity
}

func (t TypeInfo) BaseIsClass() bool {
	return t.hasFlag(FlagBaseIsClass)
}

func (t TypeInfo) IsFundamental() bool {
	return t.pointers == 0 && t.kind.IsFundamental()
}

func (t TypeInfo) IsFunction() bool {
	return t.hasFlag(FlagFunction)
}

func (t TypeInfo) IsConstFunction() bool {
	return t.hasFlag(FlagConstFunction)
}

func (t TypeInfo) IsVolatileFunction() bool {
	return t.hasFlag(FlagVolatileFunction)
}

func (t TypeInfo) IsConstVolatileFunction() bool {
	return t.hasFlag(FlagConstVolatileFunction)
}

// IsConst is false for const-volatile types, which report IsConstVolatile instead.
func (t TypeInfo) IsConst() bool {
	return t.hasFlag(FlagConst) && !t.IsConstVolatile()
}

// IsVolatile is false for const-volatile types, which report IsConstVolatile instead.
func (t TypeInfo) IsVolatile() bool {
	return t.hasFlag(FlagVolatile) && !t.IsConstVolatile()
}

func (t TypeInfo) IsConstVolatile() bool {
	return t.hasFlag(FlagConstVolatile)
}

func (t TypeInfo) IsPointerToConst() bool {
	return t.hasFlag(FlagPointer|FlagPointerToConst) && !t.IsPointerToConstVolatile()
}

func (t TypeInfo) IsPointerToVolatile() bool {
	return t.hasFlag(FlagPointer|FlagPointerToVolatile) && !t.IsPointerToConstVolatile()
}

func (t TypeInfo) IsPointerToConstVolatile() bool {
	return t.hasFlag(FlagPointer | FlagPointerToConstVolatile)
}

func (t TypeInfo) IsPointer() bool {
	return t.hasFlag(FlagPointer)
}

func (t TypeInfo) IsReference() bool {
	return t.hasFlag(FlagReference)
}

// PointerDimension returns the number of pointer indirections.
func (t TypeInfo) PointerDimension() int {
	return int(t.pointers)
}

// AddPointer returns t one indirection deeper. The cv qualifiers of a non-pointer
// type move to the pointee.
func (t TypeInfo) AddPointer() TypeInfo {
	out := t
	if out.pointers == 0 {
		if t.IsConstVolatile() {
			out.flags |= FlagPointerToConstVolatile
		} else {
			if t.hasFlag(FlagConst) {
				out.flags |= FlagPointerToConst
			}
			if t.hasFlag(FlagVolatile) {
				out.flags |= FlagPointerToVolatile
			}
		}
		out.flags &^= FlagConst | FlagVolatile | FlagConstVolatile
	}
	out.flags &^= FlagReference
	out.flags |= FlagPointer
	out.pointers++
	return out
}

// WithName returns a copy of t with the base name set.
func (t TypeInfo) WithName(name string) TypeInfo {
	out := t
	out.baseName = name
	return out
}

// WithFlags returns a copy of t with extra qualifier flags.
func (t TypeInfo) WithFlags(f Flags) TypeInfo {
	out := t
	out.flags |= f
	return out
}

// SameBase reports whether both types name the same base type. Names are compared when
// both are present, identity tokens otherwise. Without a usable identity on either side
// the answer is false.
func (t TypeInfo) SameBase(o TypeInfo) bool {
	if t.baseName != "" && o.baseName != "" {
		return t.baseName == o.baseName
	}
	if !t.identity.IsEmpty() && !o.identity.IsEmpty() {
		return t.identity == o.identity
	}
	return false
}

// Equal compares pointer depth, pointee qualifiers when both are pointers, and the base.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.pointers != o.pointers {
		return false
	}
	if t.IsPointer() && o.IsPointer() {
		if t.IsPointerToConstVolatile() != o.IsPointerToConstVolatile() ||
			t.IsPointerToConst() != o.IsPointerToConst() ||
			t.IsPointerToVolatile() != o.IsPointerToVolatile() {
			return false
		}
	}
	return t.SameBase(o)
}

func (t TypeInfo) displayBase() string {
	switch {
	case t.baseName != "":
		return t.baseName
	case !t.identity.IsEmpty():
		return t.identity.String()
	default:
		return t.kind.String()
	}
}

// String renders t in a C-like declarator form, e.g. "const TestObject *".
func (t TypeInfo) String() string {
	var b strings.Builder
	switch {
	case t.IsConstVolatile():
		b.WriteString("const volatile ")
	case t.IsConst():
		b.WriteString("const ")
	case t.IsVolatile():
		b.WriteString("volatile ")
	}
	switch {
	case t.IsPointerToConstVolatile():
		b.WriteString("const volatile ")
	case t.IsPointerToConst():
		b.WriteString("const ")
	case t.IsPointerToVolatile():
		b.WriteString("volatile ")
	}
	b.WriteString(t.displayBase())
	if t.pointers > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Repeat("*", int(t.pointers)))
	}
	if t.IsReference() {
		b.WriteString(" &")
	}
	return b.String()
}
