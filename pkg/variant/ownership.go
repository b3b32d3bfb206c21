package variant

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
)

// IsOwned reports whether releasing v destroys its instance.
func (v Variant) IsOwned() bool {
	return v.cell != nil && v.cell.owned && !v.cell.released
}

// IsReleased reports whether the instance of an owned Variant was already destroyed.
func (v Variant) IsReleased() bool {
	return v.cell != nil && v.cell.released
}

// Owner returns the item responsible for destroying the instance, nil for non-objects.
func (v Variant) Owner() Destroyer {
	if v.cell == nil {
		return nil
	}
	return v.cell.owner
}

// Release destroys an owned instance through its owner. Releasing a borrowed Variant is
// a no-op; releasing an owned one twice returns metaerr.ErrReleased. Every copy of an
// owned Variant shares the same cell, so the instance is destroyed exactly once.
func (v Variant) Release() error {
	if v.cell == nil {
		return nil
	}
	if v.cell.released {
		return fmt.Errorf("release %s: %w", v.typ, metaerr.ErrReleased)
	}
	if !v.cell.owned {
		return nil
	}
	v.cell.released = true
	v.cell.owned = false
	if v.cell.owner != nil {
		p := v.cell.instance
		if p == nil {
			p = v.ptr
		}
		v.cell.owner.DestroyInstance(p)
	}
	return nil
}

// Transfer moves ownership to the returned Variant. Afterwards v, and every copy of it,
// is a borrowed view.
func (v Variant) Transfer() Variant {
	if !v.IsOwned() {
		return v
	}
	out := v
	out.cell = &ownership{instance: v.cell.instance, owner: v.cell.owner, owned: true}
	v.cell.owned = false
	return out
}

// TransferAs moves ownership like Transfer and returns a view of the instance at p with
// type typ, typically a base subobject. Releasing the view destroys the whole instance
// at its original address.
func (v Variant) TransferAs(p unsafe.Pointer, typ metatype.TypeInfo) Variant {
	out := v.Transfer()
	out.ptr = p
	out.typ = typ
	return out
}

// Borrow returns a non-owning view of v.
func (v Variant) Borrow() Variant {
	out := v
	if v.cell != nil {
		out.cell = &ownership{owner: v.cell.owner}
	}
	if v.kind == metatype.KindWideString {
		out.ws = append([]rune(nil), v.ws...)
	}
	return out
}

// Clone copies v. Owned instances are deep copied through c and the copy is owned by
// the same item; without a copier the result is metaerr.ErrNotCopyable.
func (v Variant) Clone(c Copier) (Variant, error) {
	if !v.IsOwned() {
		return v.Borrow(), nil
	}
	if c == nil {
		return Empty(), fmt.Errorf("clone %s: %w", v.typ, metaerr.ErrNotCopyable)
	}
	p, err := c.CloneInstance(v.ptr)
	if err != nil {
		return Empty(), fmt.Errorf("clone %s: %w", v.typ, err)
	}
	return Object(p, v.typ, true, v.cell.owner), nil
}
