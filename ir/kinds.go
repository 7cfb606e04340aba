package ir

import cil "github.com/keremc/cil"

// IKind identifies an integer type.
type IKind int

const (
	IChar IKind = iota
	ISChar
	IUChar
	IInt
	IUInt
	IShort
	IUShort
	ILong
	IULong
	ILongLong
	IULongLong
)

func (k IKind) String() string {
	switch k {
	case IChar:
		return "char"
	case ISChar:
		return "signed char"
	case IUChar:
		return "unsigned char"
	case IInt:
		return "int"
	case IUInt:
		return "unsigned int"
	case IShort:
		return "short"
	case IUShort:
		return "unsigned short"
	case ILong:
		return "long"
	case IULong:
		return "unsigned long"
	case ILongLong:
		return "long long"
	case IULongLong:
		return "unsigned long long"
	}
	return "int?"
}

// Unsigned reports whether the kind is an unsigned type under the given
// target. Plain char signedness comes from the machine model.
func (k IKind) Unsigned(m *cil.Machine) bool {
	switch k {
	case IUChar, IUInt, IUShort, IULong, IULongLong:
		return true
	case IChar:
		return m != nil && m.CharUnsigned
	}
	return false
}

// BytesSize returns the size in bytes of the kind under the given target.
func (k IKind) BytesSize(m *cil.Machine) int {
	switch k {
	case IChar, ISChar, IUChar:
		return 1
	case IShort, IUShort:
		return m.SizeofShort
	case IInt, IUInt:
		return m.SizeofInt
	case ILong, IULong:
		return m.SizeofLong
	case ILongLong, IULongLong:
		return m.SizeofLongLong
	}
	return m.SizeofInt
}

// FKind identifies a floating-point type.
type FKind int

const (
	FFloat FKind = iota
	FDouble
	FLongDouble
)

func (k FKind) String() string {
	switch k {
	case FFloat:
		return "float"
	case FDouble:
		return "double"
	case FLongDouble:
		return "long double"
	}
	return "double?"
}

// BytesSize returns the size in bytes of the kind under the given target.
func (k FKind) BytesSize(m *cil.Machine) int {
	switch k {
	case FFloat:
		return m.SizeofFloat
	case FDouble:
		return m.SizeofDouble
	case FLongDouble:
		return m.SizeofLongDbl
	}
	return m.SizeofDouble
}

// Storage is a variable's storage class.
type Storage int

const (
	NoStorage Storage = iota
	Static
	Register
	Extern
)

func (s Storage) String() string {
	switch s {
	case NoStorage:
		return ""
	case Static:
		return "static"
	case Register:
		return "register"
	case Extern:
		return "extern"
	}
	return ""
}

// UnOp is a unary operator.
type UnOp int

const (
	Neg  UnOp = iota // -x
	BNot             // ~x
	LNot             // !x
)

func (op UnOp) String() string {
	switch op {
	case Neg:
		return "-"
	case BNot:
		return "~"
	case LNot:
		return "!"
	}
	return "?"
}

// BinOp is a binary operator. The arithmetic/pointer distinction is
// semantically load-bearing: the folder and the layout engine treat
// pointer-flavored operators as pointer arithmetic, and typeOf derives the
// result type from it.
type BinOp int

const (
	PlusA   BinOp = iota // arithmetic +
	PlusPI               // pointer + integer
	IndexPI              // pointer + integer, known to arise from an index
	MinusA               // arithmetic -
	MinusPI              // pointer - integer
	MinusPP              // pointer - pointer
	Mult
	Div
	Mod
	Shiftlt
	Shiftrt
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	BAnd
	BXor
	BOr
	LtP // pointer comparisons
	GtP
	LeP
	GeP
	EqP
	NeP
)

func (op BinOp) String() string {
	switch op {
	case PlusA, PlusPI, IndexPI:
		return "+"
	case MinusA, MinusPI, MinusPP:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Shiftlt:
		return "<<"
	case Shiftrt:
		return ">>"
	case Lt, LtP:
		return "<"
	case Gt, GtP:
		return ">"
	case Le, LeP:
		return "<="
	case Ge, GeP:
		return ">="
	case Eq, EqP:
		return "=="
	case Ne, NeP:
		return "!="
	case BAnd:
		return "&"
	case BXor:
		return "^"
	case BOr:
		return "|"
	}
	return "?"
}

// IsPointerOp reports whether the operator is pointer-flavored.
func (op BinOp) IsPointerOp() bool {
	switch op {
	case PlusPI, IndexPI, MinusPI, MinusPP, LtP, GtP, LeP, GeP, EqP, NeP:
		return true
	}
	return false
}

// IsComparison reports whether the operator yields a boolean int result.
func (op BinOp) IsComparison() bool {
	switch op {
	case Lt, Gt, Le, Ge, Eq, Ne, LtP, GtP, LeP, GeP, EqP, NeP:
		return true
	}
	return false
}
