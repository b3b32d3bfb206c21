package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metatype"
)

// Service is an append-only, ordered list of modules. Lookups scan modules in addition
// order and the first hit wins.
type Service interface {
	AddModule(m Module)
	ModuleCount() int
	ModuleAt(i int) Module
	GlobalClass(i int) *meta.Class
	CreateMetaList() *meta.List
	FindClassByName(name string) *meta.Class
	FindClassByType(t metatype.TypeInfo) *meta.Class
	FindTypedItemByName(name string) meta.TypedItem
	FindFundamental(kind metatype.Kind) *meta.Fundamental
}

// Option configures a Service.
type Option func(*serviceImpl)

// WithLogger sets the service logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *serviceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type serviceImpl struct {
	mu      sync.RWMutex
	modules []Module
	logger  *zap.Logger
}

// New returns an empty service.
func New(opts ...Option) Service {
	s := &serviceImpl{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	defaultOnce    sync.Once
	defaultService Service
)

// Default returns the process-wide service.
func Default() Service {
	defaultOnce.Do(func() {
		defaultService = New()
	})
	return defaultService
}

func (s *serviceImpl) AddModule(m Module) {
	if m == nil {
		return
	}
	s.mu.Lock()
	s.modules = append(s.modules, m)
	count := len(s.modules)
	s.mu.Unlock()
	s.logger.Debug("module added", zap.String("module", m.Name()), zap.Int("modules", count))
}

func (s *serviceImpl) ModuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modules)
}

func (s *serviceImpl) ModuleAt(i int) Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.modules) {
		return nil
	}
	return s.modules[i]
}

// GlobalClass returns the global class of the i-th module.
func (s *serviceImpl) GlobalClass(i int) *meta.Class {
	if m := s.ModuleAt(i); m != nil {
		return m.GlobalClass()
	}
	return nil
}

// CreateMetaList returns a fresh, caller-owned meta list.
func (s *serviceImpl) CreateMetaList() *meta.List {
	return meta.NewList()
}

func (s *serviceImpl) snapshot() []Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modules
}

func firstHit[T comparable](modules []Module, find func(Module) T) T {
	var zero T
	for _, m := range modules {
		if hit := find(m); hit != zero {
			return hit
		}
	}
	return zero
}

func (s *serviceImpl) FindClassByName(name string) *meta.Class {
	return firstHit(s.snapshot(), func(m Module) *meta.Class { return m.FindClassByName(name) })
}

func (s *serviceImpl) FindClassByType(t metatype.TypeInfo) *meta.Class {
	return firstHit(s.snapshot(), func(m Module) *meta.Class { return m.FindClassByType(t) })
}

func (s *serviceImpl) FindTypedItemByName(name string) meta.TypedItem {
	return firstHit(s.snapshot(), func(m Module) meta.TypedItem { return m.FindTypedItemByName(name) })
}

func (s *serviceImpl) FindFundamental(kind metatype.Kind) *meta.Fundamental {
	return firstHit(s.snapshot(), func(m Module) *meta.Fundamental { return m.FindFundamental(kind) })
}
