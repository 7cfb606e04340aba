package ir

// Constant is a literal value.
type Constant interface {
	isConstant()
}

// CInt64 is an integer constant: a 64-bit value tagged with an integer
// kind. Text, when non-empty, is the original source spelling and is
// preferred by the printer.
type CInt64 struct {
	Value int64
	Kind  IKind
	Text  string
}

// CStr is a string literal. The value is the unescaped contents.
type CStr struct {
	Value string
}

// CChr is a character literal.
type CChr struct {
	Value byte
}

// CReal is a floating-point constant tagged with a kind. Text, when
// non-empty, is the original source spelling.
type CReal struct {
	Value float64
	Kind  FKind
	Text  string
}

func (*CInt64) isConstant() {}
func (*CStr) isConstant()   {}
func (*CChr) isConstant()   {}
func (*CReal) isConstant()  {}

// Exp is a side-effect-free expression.
type Exp interface {
	isExp()
}

// Const wraps a constant as an expression.
type Const struct {
	C Constant
}

// Load reads the value of an lvalue.
type Load struct {
	Lv *Lval
}

// SizeOfT is sizeof(type).
type SizeOfT struct {
	T Type
}

// SizeOfE is sizeof(expression). The argument is not evaluated.
type SizeOfE struct {
	X Exp
}

// AlignOfT is __alignof__(type).
type AlignOfT struct {
	T Type
}

// AlignOfE is __alignof__(expression).
type AlignOfE struct {
	X Exp
}

// Unary applies a unary operator. Type is the result type.
type Unary struct {
	Op   UnOp
	X    Exp
	Type Type
}

// Binary applies a binary operator. Type is the result type.
type Binary struct {
	Op    BinOp
	Left  Exp
	Right Exp
	Type  Type
}

// Cast converts an expression to another type.
type Cast struct {
	To Type
	X  Exp
}

// AddrOf takes the address of an lvalue.
type AddrOf struct {
	Lv *Lval
}

// StartOf marks the conversion of an array lvalue into a pointer to its
// first element. It makes array-to-pointer decay explicit in the IR; the
// printer emits nothing for it.
type StartOf struct {
	Lv *Lval
}

func (*Const) isExp()    {}
func (*Load) isExp()     {}
func (*SizeOfT) isExp()  {}
func (*SizeOfE) isExp()  {}
func (*AlignOfT) isExp() {}
func (*AlignOfE) isExp() {}
func (*Unary) isExp()    {}
func (*Binary) isExp()   {}
func (*Cast) isExp()     {}
func (*AddrOf) isExp()   {}
func (*StartOf) isExp()  {}

// LHost is the host of an lvalue: a variable or a dereferenced address.
type LHost interface {
	isLHost()
}

// Var hosts an lvalue in a variable. The VarInfo is shared by pointer.
type Var struct {
	V *VarInfo
}

// Mem hosts an lvalue at a dereferenced pointer expression.
type Mem struct {
	Addr Exp
}

func (*Var) isLHost() {}
func (*Mem) isLHost() {}

// Lval is a pair of a host and an offset chain. A nil Offset is NoOffset.
type Lval struct {
	Host LHost
	Off  Offset
}

// Offset selects into the host. A nil Offset terminates the chain.
type Offset interface {
	isOffset()
}

// FieldOff selects a composite field and continues with Next.
type FieldOff struct {
	Field *FieldInfo
	Next  Offset
}

// IndexOff selects an array element and continues with Next.
type IndexOff struct {
	Index Exp
	Next  Offset
}

func (*FieldOff) isOffset() {}
func (*IndexOff) isOffset() {}

// Init is an initializer for a variable definition.
type Init interface {
	isInit()
}

// SingleInit initializes a scalar from an expression.
type SingleInit struct {
	X Exp
}

// InitItem pairs a designator with the initializer for that position.
// The designator is a single FieldOff or IndexOff terminated by a nil
// offset.
type InitItem struct {
	Off  Offset
	Init Init
}

// CompoundInit initializes an aggregate. Type is the type of the value
// being initialized, needed to interpret the designators.
type CompoundInit struct {
	Type  Type
	Items []InitItem
}

func (*SingleInit) isInit()   {}
func (*CompoundInit) isInit() {}
