package meta

import (
	"github.com/seitarof/gometa/pkg/metatype"
)

// Walk visits c and every item registered under it in registration order, descending
// into nested classes. Annotations are not visited. Returning false stops the walk.
func Walk(c *Class, fn func(Item) bool) bool {
	if !fn(c) {
		return false
	}
	for _, item := range c.members {
		if nested, ok := item.(*Class); ok {
			if !Walk(nested, fn) {
				return false
			}
			continue
		}
		if !fn(item) {
			return false
		}
	}
	return true
}

// Fixup resolves late-bound type names of every item under c through reg and returns
// the types that stay unresolved. It must run before the owning module is published.
func Fixup(c *Class, reg *metatype.IdentityRegistry) []metatype.TypeInfo {
	var unresolved []metatype.TypeInfo
	fix := func(t *metatype.TypeInfo) {
		if t.IsEmpty() || t.IsFundamental() || t.Kind() == metatype.KindVoid {
			return
		}
		if !metatype.Fixup(t, reg) && !t.Identity().IsEmpty() {
			unresolved = append(unresolved, *t)
		}
	}
	Walk(c, func(item Item) bool {
		fix(&item.base().typ)
		switch x := item.(type) {
		case *Method:
			x.fixSignature(fix)
		case *Constructor:
			x.fixSignature(fix)
		case *Operator:
			x.fixSignature(fix)
		}
		return true
	})
	return unresolved
}

func (c *callable) fixSignature(fix func(*metatype.TypeInfo)) {
	for i := range c.sig.Params {
		fix(&c.sig.Params[i])
	}
	fix(&c.sig.Result)
}
