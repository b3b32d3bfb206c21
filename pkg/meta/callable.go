package meta

import (
	"fmt"
	"unsafe"

	"github.com/seitarof/gometa/pkg/convert"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// Invoker is the uniform call protocol every callable is erased into. Arguments arrive
// already converted to the declared parameter types; trailing variadic arguments are
// forwarded as given.
type Invoker func(instance unsafe.Pointer, args []variant.Variant) (variant.Variant, error)

// Signature describes the parameters and result of a callable. An empty Result means
// the callable has no result, metatype.Void() means it returns void.
type Signature struct {
	Params          []metatype.TypeInfo
	Result          metatype.TypeInfo
	Variadic        bool
	ParamTransfer   []bool
	ResultTransfer  bool
	ResultOwner     variant.Destroyer
	ResultConverter variant.Converter
}

// Callable is implemented by methods, constructors and operators.
type Callable interface {
	Item
	ParamCount() int
	ParamType(i int) metatype.TypeInfo
	HasResult() bool
	ResultType() metatype.TypeInfo
	IsVariadic() bool
	CheckParam(v variant.Variant, i int) bool
	IsParamTransferOwnership(i int) bool
	IsResultTransferOwnership() bool
	Execute(instance unsafe.Pointer, args ...variant.Variant) (variant.Variant, error)
	Invoke(instance unsafe.Pointer, args []variant.Variant) (variant.Variant, error)
	InvokeIndirectly(instance unsafe.Pointer, args []*variant.Variant) (variant.Variant, error)
}

type callable struct {
	itemBase
	sig           Signature
	invoke        Invoker
	resolver      convert.Resolver
	needsInstance bool
}

func newCallable(name string, category Category, sig Signature, invoke Invoker, r convert.Resolver) callable {
	typ := metatype.New(metatype.KindVoid, metatype.Options{Flags: metatype.FlagFunction})
	if !sig.Result.IsEmpty() {
		typ = sig.Result.WithFlags(metatype.FlagFunction)
	}
	sig.Params = append([]metatype.TypeInfo(nil), sig.Params...)
	sig.ParamTransfer = append([]bool(nil), sig.ParamTransfer...)
	return callable{
		itemBase: itemBase{name: name, category: category, typ: typ},
		sig:      sig,
		invoke:   invoke,
		resolver: r,
	}
}

func (c *callable) ParamCount() int { return len(c.sig.Params) }

func (c *callable) ParamType(i int) metatype.TypeInfo {
	if i < 0 || i >= len(c.sig.Params) {
		return metatype.TypeInfo{}
	}
	return c.sig.Params[i]
}

// HasResult distinguishes "no result" from a void result.
func (c *callable) HasResult() bool { return !c.sig.Result.IsEmpty() }

func (c *callable) ResultType() metatype.TypeInfo { return c.sig.Result }

func (c *callable) IsVariadic() bool { return c.sig.Variadic }

// ResultConverter returns the string converter of the result type, if any.
func (c *callable) ResultConverter() variant.Converter { return c.sig.ResultConverter }

// CheckParam reports whether v can be passed as the i-th argument. Positions past the
// declared parameters are accepted only by variadic callables.
func (c *callable) CheckParam(v variant.Variant, i int) bool {
	if i < 0 {
		return false
	}
	if i >= len(c.sig.Params) {
		return c.sig.Variadic
	}
	return c.resolver.CanConvert(v, c.sig.Params[i])
}

func (c *callable) IsParamTransferOwnership(i int) bool {
	return i >= 0 && i < len(c.sig.ParamTransfer) && c.sig.ParamTransfer[i]
}

func (c *callable) IsResultTransferOwnership() bool { return c.sig.ResultTransfer }

// accepts reports whether every argument passes CheckParam and the count fits.
func (c *callable) accepts(args []variant.Variant) bool {
	if len(args) < len(c.sig.Params) || (len(args) > len(c.sig.Params) && !c.sig.Variadic) {
		return false
	}
	for i := range args {
		if !c.CheckParam(args[i], i) {
			return false
		}
	}
	return true
}

func (c *callable) Execute(instance unsafe.Pointer, args ...variant.Variant) (variant.Variant, error) {
	return c.Invoke(instance, args)
}

func (c *callable) Invoke(instance unsafe.Pointer, args []variant.Variant) (variant.Variant, error) {
	if c.invoke == nil {
		return variant.Empty(), fmt.Errorf("invoke %s: %w", c.QualifiedName(), metaerr.ErrNotInvocable)
	}
	if c.needsInstance && instance == nil {
		return variant.Empty(), fmt.Errorf("invoke %s: %w", c.QualifiedName(), metaerr.ErrNullInstance)
	}
	n := len(c.sig.Params)
	if len(args) < n || (len(args) > n && !c.sig.Variadic) {
		return variant.Empty(), fmt.Errorf("invoke %s: %w: want %d arguments, got %d",
			c.QualifiedName(), metaerr.ErrArityMismatch, n, len(args))
	}

	converted := make([]variant.Variant, len(args))
	for i, arg := range args {
		if i >= n {
			converted[i] = arg
			continue
		}
		v, err := c.resolver.Convert(arg, c.sig.Params[i])
		if err != nil {
			return variant.Empty(), fmt.Errorf("invoke %s: argument %d: %w", c.QualifiedName(), i, err)
		}
		if c.IsParamTransferOwnership(i) && arg.IsOwned() {
			v = transferArg(arg, v)
		}
		converted[i] = v
	}

	result, err := c.invoke(instance, converted)
	if err != nil {
		return variant.Empty(), fmt.Errorf("invoke %s: %w", c.QualifiedName(), err)
	}
	return c.adoptResult(result), nil
}

func (c *callable) InvokeIndirectly(instance unsafe.Pointer, args []*variant.Variant) (variant.Variant, error) {
	direct := make([]variant.Variant, len(args))
	for i, p := range args {
		if p != nil {
			direct[i] = *p
		}
	}
	return c.Invoke(instance, direct)
}

// adoptResult marks an object result as owned when the callable transfers ownership.
func (c *callable) adoptResult(result variant.Variant) variant.Variant {
	if !c.sig.ResultTransfer || result.Kind() != metatype.KindObject || result.IsOwned() {
		return result
	}
	p, _ := result.AsPointer()
	owner := c.sig.ResultOwner
	if owner == nil {
		owner = result.Owner()
	}
	return variant.Object(p, result.Type(), true, owner)
}

// transferArg moves ownership from the caller's argument to the converted value. The
// callee sees the converted address while release still targets the original instance.
func transferArg(arg, converted variant.Variant) variant.Variant {
	to, _ := converted.AsPointer()
	return arg.TransferAs(to, converted.Type())
}

// MethodSpec describes a method. Static methods are invoked without an instance.
type MethodSpec struct {
	Name        string
	Static      bool
	Signature   Signature
	Invoke      Invoker
	Annotations []AnnotationSpec
}

// Method is a named callable; overloads share a name.
type Method struct {
	callable
}

var _ Callable = (*Method)(nil)

// ConstructorSpec describes a constructor. The invoker returns the address of the new
// instance as a pointer or object Variant.
type ConstructorSpec struct {
	Signature   Signature
	Invoke      Invoker
	Annotations []AnnotationSpec
}

// Constructor creates instances of its owner class. Results are always owned by the
// caller and destroyed through the class.
type Constructor struct {
	callable
}

var _ Callable = (*Constructor)(nil)

func (c *Constructor) IsResultTransferOwnership() bool { return true }

func (c *Constructor) Execute(instance unsafe.Pointer, args ...variant.Variant) (variant.Variant, error) {
	return c.Invoke(instance, args)
}

// Invoke builds a new instance. The instance argument is ignored.
func (c *Constructor) Invoke(_ unsafe.Pointer, args []variant.Variant) (variant.Variant, error) {
	result, err := c.callable.Invoke(nil, args)
	if err != nil {
		return variant.Empty(), err
	}
	p, err := result.AsPointer()
	if err != nil {
		return variant.Empty(), fmt.Errorf("construct %s: %w", c.QualifiedName(), err)
	}
	cls := c.owner
	return variant.Object(p, cls.ItemType(), true, cls), nil
}

func (c *Constructor) InvokeIndirectly(instance unsafe.Pointer, args []*variant.Variant) (variant.Variant, error) {
	direct := make([]variant.Variant, len(args))
	for i, p := range args {
		if p != nil {
			direct[i] = *p
		}
	}
	return c.Invoke(instance, direct)
}
