package metareg

import (
	"errors"
	"reflect"

	"github.com/seitarof/gometa/pkg/meta"
)

// GlobalBuilder populates the global class of a module.
type GlobalBuilder struct {
	recipe
}

// NewGlobal starts a global class.
func NewGlobal(opts ...Option) *GlobalBuilder {
	return &GlobalBuilder{recipe: recipe{opts: newOptions(opts)}}
}

// Class registers a top-level class.
func (g *GlobalBuilder) Class(cls *meta.Class) *GlobalBuilder {
	g.nested(cls)
	return g
}

// Func registers a global function.
func (g *GlobalBuilder) Func(name string, fn any) *GlobalBuilder {
	g.staticMethod(name, fn)
	return g
}

// Var registers the variable behind ptr as a global field.
func (g *GlobalBuilder) Var(name string, ptr any) *GlobalBuilder {
	g.staticField(name, ptr)
	return g
}

// Enum registers a global enum whose values have the integer type rt.
func (g *GlobalBuilder) Enum(name string, rt reflect.Type, values ...meta.EnumValue) *GlobalBuilder {
	g.enum(name, rt, values)
	return g
}

// Annotate attaches an annotation to the item registered last. The global class itself
// carries no annotations.
func (g *GlobalBuilder) Annotate(name string, entries ...meta.AnnotationEntry) *GlobalBuilder {
	if len(g.steps) == 0 {
		g.fail("annotate global class", errors.New("no item registered yet"))
		return g
	}
	g.annotate(meta.Annotate(name, entries...))
	return g
}

func (g *GlobalBuilder) Build() (*meta.Class, error) {
	if err := g.err(); err != nil {
		return nil, err
	}
	c := meta.NewGlobalClass(meta.NewResolver(g.opts.reg))
	g.run(c)
	return c, nil
}
