package metatype

import "unsafe"

// Kind is the storage category of a type, shared with the Variant tag.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindVoid
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindWideString
	KindPointer
	KindObject
)

var kindNames = [...]string{
	KindEmpty:      "empty",
	KindVoid:       "void",
	KindBool:       "bool",
	KindInt8:       "int8",
	KindUint8:      "uint8",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindString:     "string",
	KindWideString: "wstring",
	KindPointer:    "pointer",
	KindObject:     "object",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsNumeric reports whether k takes part in numeric conversions. Bool counts as numeric.
func (k Kind) IsNumeric() bool {
	return k == KindBool || k.IsInteger() || k.IsFloat()
}

// IsString reports whether k is a narrow or wide string.
func (k Kind) IsString() bool {
	return k == KindString || k == KindWideString
}

// IsFundamental reports whether k is a kind described by a fundamental item.
func (k Kind) IsFundamental() bool {
	return k.IsNumeric() || k.IsString()
}

// Size returns the storage size of the kind in bytes, 0 when it has none.
func (k Kind) Size() uintptr {
	switch k {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	case KindString:
		return unsafe.Sizeof("")
	case KindWideString:
		return unsafe.Sizeof([]rune(nil))
	case KindPointer:
		return unsafe.Sizeof(uintptr(0))
	default:
		return 0
	}
}

// FundamentalKinds lists every kind that has a fundamental item, in declaration order.
func FundamentalKinds() []Kind {
	return []Kind{
		KindBool,
		KindInt8, KindUint8,
		KindInt16, KindUint16,
		KindInt32, KindUint32,
		KindInt64, KindUint64,
		KindFloat32, KindFloat64,
		KindString, KindWideString,
	}
}
