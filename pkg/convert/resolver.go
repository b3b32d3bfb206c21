// Package convert decides whether a Variant can be passed where a parameter of a given
// type is expected, and performs the conversion. Rules are tried in order and the
// first one that accepts the pair wins.
package convert

import (
	"fmt"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// Resolver resolves argument conversion plans.
type Resolver interface {
	Resolve(value variant.Variant, param metatype.TypeInfo) Plan
	CanConvert(value variant.Variant, param metatype.TypeInfo) bool
	Convert(value variant.Variant, param metatype.TypeInfo) (variant.Variant, error)
}

// Rule tries to produce a conversion plan for one value and parameter type.
type Rule interface {
	Name() string
	Try(value variant.Variant, param metatype.TypeInfo) (Plan, bool)
}

type resolverImpl struct {
	rules []Rule
}

// New builds a resolver with the rule chain. Rules implementing HierarchyAware receive h.
func New(h Hierarchy, rules ...Rule) Resolver {
	for _, rule := range rules {
		if aware, ok := rule.(HierarchyAware); ok {
			aware.SetHierarchy(h)
		}
	}
	return &resolverImpl{rules: rules}
}

// Default returns a resolver with DefaultRules and no class hierarchy.
func Default() Resolver {
	return New(nil, DefaultRules()...)
}

func (r *resolverImpl) Resolve(value variant.Variant, param metatype.TypeInfo) Plan {
	for _, rule := range r.rules {
		if plan, ok := rule.Try(value, param); ok {
			plan.Rule = rule.Name()
			return plan
		}
	}
	return Plan{Strategy: StrategySkip}
}

func (r *resolverImpl) CanConvert(value variant.Variant, param metatype.TypeInfo) bool {
	return r.Resolve(value, param).Convertible()
}

func (r *resolverImpl) Convert(value variant.Variant, param metatype.TypeInfo) (variant.Variant, error) {
	plan := r.Resolve(value, param)
	if !plan.Convertible() {
		return variant.Empty(), fmt.Errorf("%w: %s is not convertible to %s", metaerr.ErrTypeMismatch, value.Type(), param)
	}
	return plan.Apply(value)
}
