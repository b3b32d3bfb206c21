// Package catalog names the modules the inspector can load.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/seitarof/gometa/internal/demo"
	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/service"
)

// BuildFunc populates a global class, registering class identities in reg.
type BuildFunc func(reg *metatype.IdentityRegistry) (*meta.Class, error)

// Catalog loads named modules. Each module is built at most once.
type Catalog interface {
	Names() []string
	Load(name string) (service.Module, error)
}

type catalogImpl struct {
	mu      sync.Mutex
	reg     *metatype.IdentityRegistry
	logger  *zap.Logger
	builds  map[string]BuildFunc
	modules map[string]service.Module
}

// Option configures a Catalog.
type Option func(*catalogImpl)

// WithLogger sets the logger passed to loaded modules.
func WithLogger(l *zap.Logger) Option {
	return func(c *catalogImpl) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIdentities sets the identity registry modules are built into.
func WithIdentities(reg *metatype.IdentityRegistry) Option {
	return func(c *catalogImpl) {
		if reg != nil {
			c.reg = reg
		}
	}
}

// WithModule adds or replaces a named module.
func WithModule(name string, build BuildFunc) Option {
	return func(c *catalogImpl) {
		c.builds[name] = build
	}
}

// New returns a catalog holding the demo module plus any modules given as options.
func New(opts ...Option) Catalog {
	c := &catalogImpl{
		reg:     metatype.Identities(),
		logger:  zap.NewNop(),
		builds:  map[string]BuildFunc{"demo": demo.Global},
		modules: map[string]service.Module{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *catalogImpl) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.builds))
	for name := range c.builds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *catalogImpl) Load(name string) (service.Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modules[name]; ok {
		return m, nil
	}
	build, ok := c.builds[name]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", name)
	}
	global, err := build(c.reg)
	if err != nil {
		return nil, fmt.Errorf("build module %q: %w", name, err)
	}
	m, err := service.NewModule(global,
		service.WithModuleName(name),
		service.WithModuleIdentities(c.reg),
		service.WithModuleLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build module %q: %w", name, err)
	}
	c.modules[name] = m
	return m, nil
}
