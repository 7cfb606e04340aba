package ir

// Type is a C type. Variants are pointer-to-struct nodes; an unchanged
// node keeps its pointer identity across traversals.
//
// Composite and enumeration references (TComp, TEnum) share their
// descriptor by pointer with every other use; compare descriptors by
// address, never by structure.
type Type interface {
	isType()
}

// TVoid is the void type.
type TVoid struct {
	Attrs []Attr
}

// TInt is an integer type.
type TInt struct {
	Kind  IKind
	Attrs []Attr
}

// TFloat is a floating-point type.
type TFloat struct {
	Kind  FKind
	Attrs []Attr
}

// TPtr is a pointer type.
type TPtr struct {
	Elem  Type
	Attrs []Attr
}

// TArray is an array type. A nil Len means the length is unspecified.
type TArray struct {
	Elem  Type
	Len   Exp
	Attrs []Attr
}

// TFun is a function type. Params is nil and NoProto true for a function
// declared without a prototype. For a defined function the Params slice is
// the exact same slice referenced by the FunDec's Formals; SetFormals and
// SetFunctionType preserve that identity.
type TFun struct {
	Ret      Type
	Params   []*VarInfo
	NoProto  bool
	Variadic bool
	Attrs    []Attr
}

// TNamed is a reference to a typedef. The TypeInfo is shared by pointer
// with the defining GType global.
type TNamed struct {
	Info  *TypeInfo
	Attrs []Attr
}

// TComp is a reference to a struct or union. The CompInfo is shared by
// pointer with the defining GCompTag global and every other use.
type TComp struct {
	Comp  *CompInfo
	Attrs []Attr
}

// TEnum is a reference to an enumeration. The EnumInfo is shared by
// pointer with the defining GEnumTag global and every other use.
type TEnum struct {
	Enum  *EnumInfo
	Attrs []Attr
}

// TBuiltinVaList is the built-in variadic-argument handle type.
type TBuiltinVaList struct {
	Attrs []Attr
}

func (*TVoid) isType()          {}
func (*TInt) isType()           {}
func (*TFloat) isType()         {}
func (*TPtr) isType()           {}
func (*TArray) isType()         {}
func (*TFun) isType()           {}
func (*TNamed) isType()         {}
func (*TComp) isType()          {}
func (*TEnum) isType()          {}
func (*TBuiltinVaList) isType() {}

// TypeInfo describes a typedef. Shared by pointer across all uses.
type TypeInfo struct {
	Name       string
	Type       Type
	Referenced bool
}

// MissingFieldName is the sentinel field name used for unnamed bitfields.
const MissingFieldName = "___missing_field_name"

// CompInfo describes a struct or union. Exactly one CompInfo exists per
// composite; every TComp and FieldInfo references it by pointer. It is
// created by NewCompInfo or MkCompInfo, mutated in place, and destroyed
// only with the enclosing File.
type CompInfo struct {
	Struct     bool // struct rather than union
	Name       string
	Key        int // hash of "struct <name>" or "union <name>"
	Fields     []*FieldInfo
	Attrs      []Attr
	Referenced bool
}

// NewCompInfo creates an empty composite descriptor with its key computed
// from the name.
func NewCompInfo(isStruct bool, name string) *CompInfo {
	ci := &CompInfo{Struct: isStruct, Name: name}
	ci.Key = compKey(isStruct, name)
	return ci
}

// SetName renames the composite and recomputes its key.
func (ci *CompInfo) SetName(name string) {
	ci.Name = name
	ci.Key = compKey(ci.Struct, name)
}

func compKey(isStruct bool, name string) int {
	if isStruct {
		return hashName("struct " + name)
	}
	return hashName("union " + name)
}

// FieldInfo describes one field of a composite. Comp points back to the
// owning CompInfo. A nil Bitfield means the field is not a bitfield.
type FieldInfo struct {
	Comp     *CompInfo
	Name     string // MissingFieldName for unnamed bitfields
	Type     Type
	Bitfield *int
	Attrs    []Attr
	Loc      Location
}

// EnumItem is one enumeration label with its constant value.
type EnumItem struct {
	Name  string
	Value Exp
	Loc   Location
}

// EnumInfo describes an enumeration. Shared by pointer across all uses.
type EnumInfo struct {
	Name       string
	Items      []EnumItem
	Attrs      []Attr
	Referenced bool
}

// VarInfo describes a variable or function. Exactly one VarInfo exists
// per variable; a prototype and a definition of the same name share it.
// For globals the ID is a hash of the name; for locals it is assigned by
// the enclosing function, with formals numbered from 0.
type VarInfo struct {
	Name       string
	Type       Type
	Attrs      []Attr
	Storage    Storage
	Global     bool
	Inline     bool
	Decl       Location
	ID         int
	AddrTaken  bool
	Referenced bool
}

// hashName derives a stable numeric key from a name. FNV-1a folded to a
// non-negative int so keys survive re-parsing.
func hashName(s string) int {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return int(h & 0x7FFFFFFF)
}
