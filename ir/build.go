package ir

import (
	"fmt"

	"go.uber.org/zap"

	cil "github.com/keremc/cil"
	cilerr "github.com/keremc/cil/errors"
)

// MakeGlobalVar creates the canonical VarInfo for a global. The id is a
// hash of the name so it survives re-parsing.
func MakeGlobalVar(name string, t Type) *VarInfo {
	return &VarInfo{
		Name:   name,
		Type:   t,
		Global: true,
		ID:     hashName(name),
		Decl:   currentLoc,
	}
}

// MakeLocalVar creates a local variable in fd with a fresh id and appends
// it to the function's locals iff insert.
func MakeLocalVar(fd *FunDec, name string, t Type, insert bool) *VarInfo {
	fd.MaxID++
	v := &VarInfo{
		Name: name,
		Type: t,
		ID:   fd.MaxID,
		Decl: currentLoc,
	}
	if insert {
		fd.Locals = append(fd.Locals, v)
	}
	return v
}

// MakeTempVar creates a fresh temporary local with a unique name derived
// from base (default "tmp") and the assigned id.
func MakeTempVar(fd *FunDec, base string, t Type) *VarInfo {
	if base == "" {
		base = "tmp"
	}
	name := fmt.Sprintf("%s%d", base, fd.MaxID+1)
	return MakeLocalVar(fd, name, t, true)
}

// MakeFormalVar creates a new formal for fd and inserts it per where:
// "^" prepends, "$" appends, any other value names an existing formal to
// insert after. The function type's parameter list is re-installed so it
// stays the same slice as the formals.
func MakeFormalVar(fd *FunDec, where, name string, t Type) (*VarInfo, error) {
	v := MakeLocalVar(fd, name, t, false)
	var formals []*VarInfo
	switch where {
	case "^":
		formals = append([]*VarInfo{v}, fd.Formals...)
	case "$":
		formals = append(append([]*VarInfo{}, fd.Formals...), v)
	default:
		found := false
		for _, f := range fd.Formals {
			formals = append(formals, f)
			if f.Name == where {
				formals = append(formals, v)
				found = true
			}
		}
		if !found {
			return nil, cilerr.NotFound(cilerr.PhaseBuild, "formal", where)
		}
	}
	if err := SetFormals(fd, formals); err != nil {
		return nil, err
	}
	return v, nil
}

// SetFormals installs a new formals list, updating the function type's
// parameter list to reference the exact same slice.
func SetFormals(fd *FunDec, formals []*VarInfo) error {
	ft, ok := UnrollType(fd.Var.Type).(*TFun)
	if !ok {
		return cilerr.Bug(cilerr.PhaseBuild, "setFormals on a non-function %q", fd.Var.Name)
	}
	fd.Formals = formals
	ft.Params = formals
	ft.NoProto = false
	return nil
}

// SetFunctionType replaces the function's type. The new type must be a
// function type with as many parameters as the current formals; its
// parameter list is re-pointed at the formals slice to preserve the
// sharing invariant.
func SetFunctionType(fd *FunDec, t Type) error {
	ft, ok := UnrollType(t).(*TFun)
	if !ok {
		return cilerr.Bug(cilerr.PhaseBuild, "setFunctionType %q: not a function type", fd.Var.Name)
	}
	if len(ft.Params) != len(fd.Formals) {
		return cilerr.Bug(cilerr.PhaseBuild, "setFunctionType %q: %d parameters for %d formals",
			fd.Var.Name, len(ft.Params), len(fd.Formals))
	}
	fd.Var.Type = t
	ft.Params = fd.Formals
	return nil
}

// FieldSpec describes one field for MkCompInfo.
type FieldSpec struct {
	Name     string
	Type     Type
	Bitfield *int
	Attrs    []Attr
	Loc      Location
}

// MkCompInfo creates a composite descriptor. The field-spec closure
// receives a forward TComp referencing the new descriptor, which lets it
// build recursive types such as a list node pointing to itself.
func MkCompInfo(isStruct bool, name string, mkFields func(*TComp) []FieldSpec, attrs []Attr) *CompInfo {
	ci := NewCompInfo(isStruct, name)
	ci.Attrs = SortAttributes(attrs)
	forward := &TComp{Comp: ci}
	for _, fs := range mkFields(forward) {
		ci.Fields = append(ci.Fields, &FieldInfo{
			Comp:     ci,
			Name:     fs.Name,
			Type:     fs.Type,
			Bitfield: fs.Bitfield,
			Attrs:    SortAttributes(fs.Attrs),
			Loc:      fs.Loc,
		})
	}
	return ci
}

// EmptyFunction produces a function with no locals and an empty body
// whose return type is void.
func EmptyFunction(name string) *FunDec {
	ft := &TFun{Ret: &TVoid{}}
	return &FunDec{
		Var:       MakeGlobalVar(name, ft),
		MaxID:     -1,
		Body:      &Block{},
		MaxStmtID: -1,
	}
}

// TruncateInteger64 truncates v to the width of kind k under machine m,
// sign- or zero-extending the remaining bits per the kind's signedness.
// It reports whether truncation changed the value.
func TruncateInteger64(m *cil.Machine, k IKind, v int64) (int64, bool) {
	bits := uint(8 * k.BytesSize(m))
	if bits >= 64 {
		return v, false
	}
	var tr int64
	if k.Unsigned(m) {
		tr = int64(uint64(v) << (64 - bits) >> (64 - bits))
	} else {
		tr = v << (64 - bits) >> (64 - bits)
	}
	return tr, tr != v
}

// Integer builds an int constant expression.
func Integer(n int64) Exp {
	return &Const{C: &CInt64{Value: n, Kind: IInt}}
}

// Kinteger builds an integer constant of the given kind.
func Kinteger(m *cil.Machine, k IKind, n int) Exp {
	return Kinteger64(m, k, int64(n))
}

// Kinteger64 builds an integer constant of the given kind, truncating the
// value to the kind's width. A warning is emitted when truncation changed
// the value.
func Kinteger64(m *cil.Machine, k IKind, v int64) Exp {
	tr, changed := TruncateInteger64(m, k, v)
	if changed {
		Logger().Warn("integer constant truncated",
			zap.String("kind", k.String()),
			zap.Int64("value", v),
			zap.Int64("truncated", tr))
	}
	return &Const{C: &CInt64{Value: tr, Kind: k}}
}

// IsInteger recovers the 64-bit value of a constant expression, looking
// through casts and character constants.
func IsInteger(e Exp) (int64, bool) {
	switch x := e.(type) {
	case *Const:
		switch c := x.C.(type) {
		case *CInt64:
			return c.Value, true
		case *CChr:
			return int64(c.Value), true
		}
	case *Cast:
		return IsInteger(x.X)
	}
	return 0, false
}

// IsZero reports whether the expression is a literal zero.
func IsZero(e Exp) bool {
	v, ok := IsInteger(e)
	return ok && v == 0
}

// VarLval builds the lvalue naming a variable, with no offset.
func VarLval(v *VarInfo) *Lval {
	return &Lval{Host: &Var{V: v}}
}

// AddOffset appends add at the innermost end of off.
func AddOffset(add, off Offset) Offset {
	switch o := off.(type) {
	case nil:
		return add
	case *FieldOff:
		return &FieldOff{Field: o.Field, Next: AddOffset(add, o.Next)}
	case *IndexOff:
		return &IndexOff{Index: o.Index, Next: AddOffset(add, o.Next)}
	}
	return add
}

// AddOffsetLval appends add at the innermost end of the lvalue's offset.
func AddOffsetLval(add Offset, lv *Lval) *Lval {
	return &Lval{Host: lv.Host, Off: AddOffset(add, lv.Off)}
}

// MkMem builds the lvalue *(addr) with the given offset, simplifying
// &lv and decayed arrays back into direct accesses.
func MkMem(addr Exp, off Offset) *Lval {
	switch a := addr.(type) {
	case *AddrOf:
		return AddOffsetLval(off, a.Lv)
	case *StartOf:
		return AddOffsetLval(&IndexOff{Index: Integer(0), Next: off}, a.Lv)
	}
	return &Lval{Host: &Mem{Addr: addr}, Off: off}
}

// MkAddrOf builds &lv. Taking the address of *(e) yields e back; taking
// the address of lv[0] yields the decayed array. Marks the variable
// address-taken and demotes Register storage, which cannot hold an
// address.
func MkAddrOf(lv *Lval) Exp {
	if h, ok := lv.Host.(*Var); ok {
		h.V.AddrTaken = true
		if h.V.Storage == Register {
			h.V.Storage = NoStorage
		}
	}
	if m, ok := lv.Host.(*Mem); ok && lv.Off == nil {
		return m.Addr
	}
	if ix, ok := lv.Off.(*IndexOff); ok && ix.Next == nil && IsZero(ix.Index) {
		return &StartOf{Lv: &Lval{Host: lv.Host}}
	}
	return &AddrOf{Lv: lv}
}

// MkAddrOrStartOf picks StartOf for array lvalues and MkAddrOf otherwise.
func MkAddrOrStartOf(lv *Lval) Exp {
	if IsArrayType(TypeOfLval(lv)) {
		return &StartOf{Lv: lv}
	}
	return MkAddrOf(lv)
}

// MkStmt wraps a statement kind into a fresh statement with no labels, an
// unassigned id and empty flow links.
func MkStmt(k StmtKind) *Stmt {
	return &Stmt{Kind: k, ID: -1}
}

// MkBlock wraps statements into a block.
func MkBlock(stmts []*Stmt) *Block {
	return &Block{Stmts: stmts}
}

// MkEmptyStmt is an empty instruction list.
func MkEmptyStmt() *Stmt {
	return MkStmt(&InstrList{})
}

// MkStmtOneInstr wraps a single instruction.
func MkStmtOneInstr(i Instr) *Stmt {
	return MkStmt(&InstrList{Instrs: []Instr{i}})
}

// MkWhile builds while (guard) body as the canonical
// Loop([If(guard, {}, {Break}); body...]) form.
func MkWhile(guard Exp, body []*Stmt) []*Stmt {
	loc := currentLoc
	breakStmt := MkStmt(&Break{Loc: loc})
	guardStmt := MkStmt(&If{
		Cond: guard,
		Then: &Block{},
		Else: MkBlock([]*Stmt{breakStmt}),
		Loc:  loc,
	})
	loopBody := append([]*Stmt{guardStmt}, body...)
	return []*Stmt{MkStmt(&Loop{Body: MkBlock(loopBody), Loc: loc})}
}

// MkFor builds for (start; guard; next) body.
func MkFor(start []*Stmt, guard Exp, next, body []*Stmt) []*Stmt {
	return append(append([]*Stmt{}, start...),
		MkWhile(guard, append(append([]*Stmt{}, body...), next...))...)
}

// MkForIncr builds for (iter = first; iter < past; iter += incr) body,
// choosing pointer or arithmetic comparison and addition from iter's
// type.
func MkForIncr(iter *VarInfo, first, past, incr Exp, body []*Stmt) []*Stmt {
	cmpOp, plusOp := Lt, PlusA
	if IsPointerType(iter.Type) {
		cmpOp, plusOp = LtP, PlusPI
	}
	loc := currentLoc
	start := MkStmtOneInstr(&Set{Lv: VarLval(iter), X: first, Loc: loc})
	guard := &Binary{Op: cmpOp, Left: &Load{Lv: VarLval(iter)}, Right: past, Type: &TInt{Kind: IInt}}
	next := MkStmtOneInstr(&Set{
		Lv:  VarLval(iter),
		X:   &Binary{Op: plusOp, Left: &Load{Lv: VarLval(iter)}, Right: incr, Type: iter.Type},
		Loc: loc,
	})
	return MkFor([]*Stmt{start}, guard, []*Stmt{next}, body)
}

// CompactStmts coalesces adjacent instruction-list statements whose
// second element carries no labels.
func CompactStmts(ss []*Stmt) []*Stmt {
	var out []*Stmt
	for _, s := range ss {
		if len(out) > 0 && len(s.Labels) == 0 {
			if prev, ok := out[len(out)-1].Kind.(*InstrList); ok {
				if cur, ok := s.Kind.(*InstrList); ok {
					merged := append(append([]Instr{}, prev.Instrs...), cur.Instrs...)
					out[len(out)-1].Kind = &InstrList{Instrs: merged}
					continue
				}
			}
		}
		out = append(out, s)
	}
	return out
}
