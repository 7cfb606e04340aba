package ir

// Instr is an effectful, control-flow-free instruction.
type Instr interface {
	isInstr()
}

// Set is the assignment lv = x.
type Set struct {
	Lv  *Lval
	X   Exp
	Loc Location
}

// Call invokes Fn with Args, storing the result in Ret when non-nil.
type Call struct {
	Ret  *Lval
	Fn   Exp
	Args []Exp
	Loc  Location
}

// AsmOutput is one output operand of an inline-assembly instruction.
type AsmOutput struct {
	Constraint string
	Lv         *Lval
}

// AsmInput is one input operand of an inline-assembly instruction.
type AsmInput struct {
	Constraint string
	X          Exp
}

// Asm is an inline-assembly instruction in the GCC extended form. The
// printer renders it as __asm__ (...) or as an MSVC __asm block.
type Asm struct {
	Attrs     []Attr
	Templates []string
	Outputs   []AsmOutput
	Inputs    []AsmInput
	Clobbers  []string
	Loc       Location
}

func (*Set) isInstr()  {}
func (*Call) isInstr() {}
func (*Asm) isInstr()  {}

// Label marks a statement as a jump or switch-case target.
type Label interface {
	isLabel()
}

// NameLabel is a goto target. User distinguishes source labels from
// synthesized ones.
type NameLabel struct {
	Name string
	Loc  Location
	User bool
}

// CaseLabel is a switch case value.
type CaseLabel struct {
	X   Exp
	Loc Location
}

// DefaultLabel is a switch default.
type DefaultLabel struct {
	Loc Location
}

func (*NameLabel) isLabel()    {}
func (*CaseLabel) isLabel()    {}
func (*DefaultLabel) isLabel() {}

// Stmt is a statement. ID is -1 until ComputeCFGInfo assigns one; Succs
// and Preds are filled in by the same pass. Statements are created by
// MkStmt and may be mutated in place by the visitor.
type Stmt struct {
	Labels []Label
	Kind   StmtKind
	ID     int
	Succs  []*Stmt
	Preds  []*Stmt
}

// StmtKind is the payload of a statement.
type StmtKind interface {
	isStmtKind()
}

// InstrList is a run of instructions executed in order.
type InstrList struct {
	Instrs []Instr
}

// Return exits the function, with an optional result.
type Return struct {
	X   Exp
	Loc Location
}

// Goto jumps to Target. The target pointer is mutable; it is patched by
// the function copier and dereferenced only after ComputeCFGInfo has run.
type Goto struct {
	Target *Stmt
	Loc    Location
}

// Break exits the innermost loop or switch.
type Break struct {
	Loc Location
}

// Continue restarts the innermost loop.
type Continue struct {
	Loc Location
}

// If branches on Cond.
type If struct {
	Cond Exp
	Then *Block
	Else *Block
	Loc  Location
}

// Switch dispatches on Cond. Cases lists the statements inside Body that
// carry case or default labels; the references are mutable and patched by
// the function copier.
type Switch struct {
	Cond  Exp
	Body  *Block
	Cases []*Stmt
	Loc   Location
}

// Loop is the infinite loop while(1). Exits are expressed with Break or
// Goto; MkWhile builds the guarded form.
type Loop struct {
	Body *Block
	Loc  Location
}

// BlockStmt nests a block as a statement.
type BlockStmt struct {
	B *Block
}

func (*InstrList) isStmtKind() {}
func (*Return) isStmtKind()    {}
func (*Goto) isStmtKind()      {}
func (*Break) isStmtKind()     {}
func (*Continue) isStmtKind()  {}
func (*If) isStmtKind()        {}
func (*Switch) isStmtKind()    {}
func (*Loop) isStmtKind()      {}
func (*BlockStmt) isStmtKind() {}

// Block is an attribute list plus an ordered statement sequence.
type Block struct {
	Attrs []Attr
	Stmts []*Stmt
}

// FunDec is a function definition. Var is the declaring VarInfo, shared
// with any prototype of the same name. Formals is the exact same slice
// referenced by the function type's parameter list; use SetFormals or
// SetFunctionType to change either so the identity is preserved.
type FunDec struct {
	Var       *VarInfo
	Formals   []*VarInfo
	Locals    []*VarInfo
	MaxID     int // largest local id used; MakeLocalVar increments it
	Body      *Block
	Inline    bool
	MaxStmtID int // number of statement ids assigned (ids lie in [0, MaxStmtID)), -1 before ComputeCFGInfo
}

// Global is a top-level declaration or definition. Every global except
// verbatim text carries a source location.
type Global interface {
	isGlobal()
}

// GType defines a typedef.
type GType struct {
	Info *TypeInfo
	Loc  Location
}

// GCompTag defines a struct or union tag. It must appear in the globals
// list before any TComp that references the same CompInfo, except through
// pointer indirection.
type GCompTag struct {
	Comp *CompInfo
	Loc  Location
}

// GEnumTag defines an enumeration tag.
type GEnumTag struct {
	Enum *EnumInfo
	Loc  Location
}

// GVarDecl declares a variable or function without defining it. A
// variable has at most one declaration and at most one definition in a
// file; if both exist they share the VarInfo.
type GVarDecl struct {
	Var *VarInfo
	Loc Location
}

// GVar defines a variable, with an optional initializer.
type GVar struct {
	Var  *VarInfo
	Init Init
	Loc  Location
}

// GFun defines a function.
type GFun struct {
	Fn  *FunDec
	Loc Location
}

// GAsm is top-level inline assembly.
type GAsm struct {
	Text string
	Loc  Location
}

// GPragma is an attribute-style pragma.
type GPragma struct {
	Attr Attr
	Loc  Location
}

// GText is verbatim text emitted as-is.
type GText struct {
	Text string
}

func (*GType) isGlobal()    {}
func (*GCompTag) isGlobal() {}
func (*GEnumTag) isGlobal() {}
func (*GVarDecl) isGlobal() {}
func (*GVar) isGlobal()     {}
func (*GFun) isGlobal()     {}
func (*GAsm) isGlobal()     {}
func (*GPragma) isGlobal()  {}
func (*GText) isGlobal()    {}

// File is a parsed translation unit.
type File struct {
	Name    string
	Globals []Global

	// GlobInit is an optional function collecting initialization code for
	// the file; GlobInitCalled records whether a call to it has already
	// been injected into main.
	GlobInit       *FunDec
	GlobInitCalled bool
}
