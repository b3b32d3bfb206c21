package meta

import (
	"unsafe"

	"github.com/seitarof/gometa/pkg/variant"
)

// OpKind tags the operator an Operator item implements.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPlus
	OpNeg
	OpNot
	OpBitNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAssign
	OpIndex
	OpFunctor
)

var opNames = [...]string{
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpPlus:         "+@",
	OpNeg:          "-@",
	OpNot:          "!",
	OpBitNot:       "~",
	OpBitAnd:       "&",
	OpBitOr:        "|",
	OpBitXor:       "^",
	OpShl:          "<<",
	OpShr:          ">>",
	OpAnd:          "&&",
	OpOr:           "||",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpAssign:       "=",
	OpIndex:        "[]",
	OpFunctor:      "()",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// IsUnary reports whether the operator takes a single operand.
func (k OpKind) IsUnary() bool {
	switch k {
	case OpPlus, OpNeg, OpNot, OpBitNot:
		return true
	default:
		return false
	}
}

// ParseOpKind maps an operator symbol back to its kind.
func ParseOpKind(symbol string) (OpKind, bool) {
	for k, name := range opNames {
		if name == symbol {
			return OpKind(k), true
		}
	}
	return 0, false
}

// OperatorSpec describes an operator. Unary and binary operators list their operands as
// parameters, self first; functors receive self as the instance.
type OperatorSpec struct {
	Kind        OpKind
	Signature   Signature
	Invoke      Invoker
	Annotations []AnnotationSpec
}

// Operator is a callable keyed by its OpKind.
type Operator struct {
	callable
	kind OpKind
}

var _ Callable = (*Operator)(nil)

func (o *Operator) Kind() OpKind { return o.kind }

// InvokeUnary applies a unary operator to operand.
func (o *Operator) InvokeUnary(operand variant.Variant) (variant.Variant, error) {
	return o.Invoke(nil, []variant.Variant{operand})
}

// InvokeBinary applies a binary operator to the operands.
func (o *Operator) InvokeBinary(left, right variant.Variant) (variant.Variant, error) {
	return o.Invoke(nil, []variant.Variant{left, right})
}

// InvokeFunctor calls a functor operator on instance.
func (o *Operator) InvokeFunctor(instance unsafe.Pointer, args ...variant.Variant) (variant.Variant, error) {
	return o.Invoke(instance, args)
}
