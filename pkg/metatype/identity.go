package metatype

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/seitarof/gometa/pkg/metaerr"
)

// Named is implemented by items that own a type name, typically registered classes.
type Named interface {
	TypeName() string
}

// IdentityRegistry maps identity tokens to the items registered for them. It is filled
// incrementally while modules register and frozen once every needed module is loaded.
type IdentityRegistry struct {
	mu     sync.RWMutex
	items  map[TypeID]Named
	frozen atomic.Bool
}

// NewIdentityRegistry returns an empty, unfrozen registry.
func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{items: make(map[TypeID]Named)}
}

var processIdentities = NewIdentityRegistry()

// Identities returns the process-wide identity registry.
func Identities() *IdentityRegistry {
	return processIdentities
}

// Register associates id with item. Re-registering the same item is a no-op, a
// different item for a known id is an error.
func (r *IdentityRegistry) Register(id TypeID, item Named) error {
	if id.IsEmpty() {
		return fmt.Errorf("register %q: empty identity", item.TypeName())
	}
	if r.frozen.Load() {
		return fmt.Errorf("register %q: %w", item.TypeName(), metaerr.ErrRegistryFrozen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[id]; ok {
		if existing == item {
			return nil
		}
		return fmt.Errorf("register %q: identity %s already bound to %q", item.TypeName(), id, existing.TypeName())
	}
	r.items[id] = item
	return nil
}

// Lookup returns the item registered for id.
func (r *IdentityRegistry) Lookup(id TypeID) (Named, bool) {
	if id.IsEmpty() {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

// Freeze rejects further registrations.
func (r *IdentityRegistry) Freeze() {
	r.frozen.Store(true)
}

func (r *IdentityRegistry) Frozen() bool {
	return r.frozen.Load()
}

func (r *IdentityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Fixup fills in a missing base name from the registry. It reports whether t carries a
// name afterwards.
func Fixup(t *TypeInfo, r *IdentityRegistry) bool {
	if t.baseName != "" {
		return true
	}
	if r == nil {
		return false
	}
	if item, ok := r.Lookup(t.identity); ok {
		t.baseName = item.TypeName()
	}
	return t.baseName != ""
}

// ResolveName returns the base name, consulting r for late-bound types.
func (t TypeInfo) ResolveName(r *IdentityRegistry) (string, error) {
	if t.baseName != "" {
		return t.baseName, nil
	}
	if r != nil {
		if item, ok := r.Lookup(t.identity); ok {
			return item.TypeName(), nil
		}
	}
	if t.identity.IsEmpty() {
		return "", fmt.Errorf("%w: type has neither name nor identity", metaerr.ErrUnresolvedType)
	}
	return "", fmt.Errorf("%w: %s", metaerr.ErrUnresolvedType, t.identity)
}
