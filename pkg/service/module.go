// Package service aggregates registered modules and answers name- and type-keyed
// lookups across them.
package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metatype"
)

// Module is a self-contained, read-only set of items rooted at one global class.
type Module interface {
	Name() string
	GlobalClass() *meta.Class
	FindTypedItemByName(name string) meta.TypedItem
	FindFundamental(kind metatype.Kind) *meta.Fundamental
	FindClassByName(name string) *meta.Class
	FindClassByType(t metatype.TypeInfo) *meta.Class
}

type moduleOptions struct {
	name       string
	logger     *zap.Logger
	identities *metatype.IdentityRegistry
}

// ModuleOption configures NewModule.
type ModuleOption func(*moduleOptions)

// WithModuleName names the module for diagnostics.
func WithModuleName(name string) ModuleOption {
	return func(o *moduleOptions) { o.name = name }
}

// WithModuleLogger sets the logger used while building the module.
func WithModuleLogger(logger *zap.Logger) ModuleOption {
	return func(o *moduleOptions) { o.logger = logger }
}

// WithModuleIdentities sets the identity registry used by the fix-up pass. The
// process-wide registry is used by default.
func WithModuleIdentities(reg *metatype.IdentityRegistry) ModuleOption {
	return func(o *moduleOptions) { o.identities = reg }
}

type moduleImpl struct {
	name         string
	global       *meta.Class
	typedByName  map[string]meta.TypedItem
	classByName  map[string]*meta.Class
	classByID    map[metatype.TypeID]*meta.Class
	fundamentals map[metatype.Kind]*meta.Fundamental
}

// NewModule finishes registration of global: late-bound type names are fixed up and
// the lookup indexes are built. The module must not be mutated afterwards.
func NewModule(global *meta.Class, opts ...ModuleOption) (Module, error) {
	if global == nil {
		return nil, errors.New("new module: global class is nil")
	}
	o := moduleOptions{logger: zap.NewNop(), identities: metatype.Identities()}
	for _, opt := range opts {
		opt(&o)
	}

	for _, t := range meta.Fixup(global, o.identities) {
		o.logger.Warn("unresolved type identity",
			zap.String("module", o.name),
			zap.Stringer("identity", t.Identity()),
		)
	}

	m := &moduleImpl{
		name:         o.name,
		global:       global,
		typedByName:  make(map[string]meta.TypedItem),
		classByName:  make(map[string]*meta.Class),
		classByID:    make(map[metatype.TypeID]*meta.Class),
		fundamentals: make(map[metatype.Kind]*meta.Fundamental),
	}
	for _, f := range meta.Fundamentals() {
		m.fundamentals[f.Kind()] = f
		m.indexTyped(f.Name(), f)
	}
	meta.Walk(global, func(item meta.Item) bool {
		switch x := item.(type) {
		case *meta.Class:
			if x.IsGlobal() {
				return true
			}
			m.indexClass(x)
		case *meta.Enum:
			m.indexTyped(x.Name(), x)
			m.indexTyped(x.QualifiedName(), x)
		}
		return true
	})

	o.logger.Debug("module built",
		zap.String("module", o.name),
		zap.Int("classes", len(m.classByID)),
		zap.Int("typed_items", len(m.typedByName)),
	)
	return m, nil
}

func (m *moduleImpl) indexTyped(name string, item meta.TypedItem) {
	if _, ok := m.typedByName[name]; !ok {
		m.typedByName[name] = item
	}
}

func (m *moduleImpl) indexClass(c *meta.Class) {
	for _, name := range []string{c.Name(), c.QualifiedName()} {
		if _, ok := m.classByName[name]; !ok {
			m.classByName[name] = c
		}
		m.indexTyped(name, c)
	}
	if id := c.ItemType().Identity(); !id.IsEmpty() {
		if _, ok := m.classByID[id]; !ok {
			m.classByID[id] = c
		}
	}
}

func (m *moduleImpl) Name() string { return m.name }

func (m *moduleImpl) GlobalClass() *meta.Class { return m.global }

func (m *moduleImpl) FindTypedItemByName(name string) meta.TypedItem {
	return m.typedByName[name]
}

func (m *moduleImpl) FindFundamental(kind metatype.Kind) *meta.Fundamental {
	return m.fundamentals[kind]
}

func (m *moduleImpl) FindClassByName(name string) *meta.Class {
	return m.classByName[name]
}

// FindClassByType matches by identity token first, by base name otherwise.
func (m *moduleImpl) FindClassByType(t metatype.TypeInfo) *meta.Class {
	if id := t.Identity(); !id.IsEmpty() {
		if c, ok := m.classByID[id]; ok {
			return c
		}
	}
	if name := t.BaseName(); name != "" {
		return m.classByName[name]
	}
	return nil
}
