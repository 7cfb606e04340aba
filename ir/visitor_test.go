package ir_test

import (
	"testing"

	"github.com/keremc/cil/ir"
)

// buildTestFile makes a file with a typedef, a struct, a global with an
// initializer and a function with a loop.
func buildTestFile() (*ir.File, *ir.FunDec) {
	intT := &ir.TInt{Kind: ir.IInt}
	f := &ir.File{Name: "t.c"}

	info := &ir.TypeInfo{Name: "word", Type: &ir.TInt{Kind: ir.IUInt}}
	f.Globals = append(f.Globals, &ir.GType{Info: info})

	ci := ir.MkCompInfo(true, "pair", func(*ir.TComp) []ir.FieldSpec {
		return []ir.FieldSpec{
			{Name: "a", Type: intT},
			{Name: "b", Type: intT},
		}
	}, nil)
	f.Globals = append(f.Globals, &ir.GCompTag{Comp: ci})

	g := ir.MakeGlobalVar("g", intT)
	f.Globals = append(f.Globals, &ir.GVar{Var: g, Init: &ir.SingleInit{X: ir.Integer(1)}})

	fd := ir.EmptyFunction("f")
	x, _ := ir.MakeFormalVar(fd, "$", "x", intT)
	loop := ir.MkWhile(
		&ir.Binary{Op: ir.Lt, Left: &ir.Load{Lv: ir.VarLval(x)}, Right: ir.Integer(10), Type: intT},
		[]*ir.Stmt{ir.MkStmtOneInstr(&ir.Set{
			Lv: ir.VarLval(x),
			X:  &ir.Binary{Op: ir.PlusA, Left: &ir.Load{Lv: ir.VarLval(x)}, Right: ir.Integer(1), Type: intT},
		})},
	)
	body := append(loop, ir.MkStmt(&ir.Return{X: &ir.Load{Lv: ir.VarLval(x)}}))
	fd.Body = ir.MkBlock(body)
	f.Globals = append(f.Globals, &ir.GFun{Fn: fd})
	return f, fd
}

func TestNopVisitorPreservesIdentity(t *testing.T) {
	f, fd := buildTestFile()

	globalsBefore := make([]ir.Global, len(f.Globals))
	copy(globalsBefore, f.Globals)
	bodyBefore := fd.Body
	stmtsBefore := make([]*ir.Stmt, len(fd.Body.Stmts))
	copy(stmtsBefore, fd.Body.Stmts)
	kindsBefore := make([]ir.StmtKind, len(fd.Body.Stmts))
	for i, s := range fd.Body.Stmts {
		kindsBefore[i] = s.Kind
	}
	varBefore := fd.Var
	typeBefore := fd.Var.Type
	formalsBefore := fd.Formals

	ir.VisitFile(ir.NopVisitor{}, f)

	for i, g := range f.Globals {
		if g != globalsBefore[i] {
			t.Errorf("global %d was reallocated", i)
		}
	}
	if fd.Body != bodyBefore {
		t.Errorf("body block was reallocated")
	}
	for i, s := range fd.Body.Stmts {
		if s != stmtsBefore[i] {
			t.Errorf("statement %d was reallocated", i)
		}
		if s.Kind != kindsBefore[i] {
			t.Errorf("statement %d kind was reallocated", i)
		}
	}
	if fd.Var != varBefore || fd.Var.Type != typeBefore {
		t.Errorf("function variable or type was reallocated")
	}
	if len(fd.Formals) != len(formalsBefore) || (len(fd.Formals) > 0 && fd.Formals[0] != formalsBefore[0]) {
		t.Errorf("formals were reallocated")
	}
}

// renameVisitor rewrites uses of one variable to another.
type renameVisitor struct {
	ir.NopVisitor
	from, to *ir.VarInfo
}

func (r *renameVisitor) VVarUse(v *ir.VarInfo) ir.Action[*ir.VarInfo] {
	if v == r.from {
		return ir.ChangeTo(r.to)
	}
	return ir.SkipChildren[*ir.VarInfo]()
}

func TestRewritingVisitor(t *testing.T) {
	intT := &ir.TInt{Kind: ir.IInt}
	a := ir.MakeGlobalVar("a", intT)
	b := ir.MakeGlobalVar("b", intT)

	fd := ir.EmptyFunction("f")
	set := &ir.Set{Lv: ir.VarLval(a), X: &ir.Load{Lv: ir.VarLval(a)}}
	keep := &ir.Set{Lv: ir.VarLval(b), X: ir.Integer(0)}
	s1 := ir.MkStmtOneInstr(set)
	s2 := ir.MkStmtOneInstr(keep)
	fd.Body = ir.MkBlock([]*ir.Stmt{s1, s2})

	ir.VisitFunc(&renameVisitor{from: a, to: b}, fd)

	got := s1.Kind.(*ir.InstrList).Instrs[0].(*ir.Set)
	if got == set {
		t.Fatalf("rewritten instruction kept its identity")
	}
	if got.Lv.Host.(*ir.Var).V != b || got.X.(*ir.Load).Lv.Host.(*ir.Var).V != b {
		t.Errorf("uses of a were not redirected to b")
	}
	// The untouched instruction is not reallocated.
	if s2.Kind.(*ir.InstrList).Instrs[0] != ir.Instr(keep) {
		t.Errorf("unchanged instruction was reallocated")
	}
	// Statements keep their identity even when their contents change.
	if fd.Body.Stmts[0] != s1 {
		t.Errorf("statement identity lost")
	}
}

// spliceVisitor duplicates every Set instruction.
type spliceVisitor struct {
	ir.NopVisitor
}

func (spliceVisitor) VInst(i ir.Instr) ir.Action[[]ir.Instr] {
	if s, ok := i.(*ir.Set); ok {
		return ir.ChangeTo([]ir.Instr{s, s})
	}
	return ir.DoChildren[[]ir.Instr]()
}

func TestInstrSplice(t *testing.T) {
	intT := &ir.TInt{Kind: ir.IInt}
	v := ir.MakeGlobalVar("v", intT)
	fd := ir.EmptyFunction("f")
	s := ir.MkStmtOneInstr(&ir.Set{Lv: ir.VarLval(v), X: ir.Integer(1)})
	fd.Body = ir.MkBlock([]*ir.Stmt{s})

	ir.VisitFunc(spliceVisitor{}, fd)

	il := s.Kind.(*ir.InstrList)
	if len(il.Instrs) != 2 {
		t.Errorf("instruction was not spliced: %d", len(il.Instrs))
	}
}

// attrExpander turns one attribute into two.
type attrExpander struct {
	ir.NopVisitor
}

func (attrExpander) VAttr(a ir.Attr) ir.Action[[]ir.Attr] {
	if a.Name == "zz_expand" {
		return ir.ChangeTo([]ir.Attr{{Name: "aa_first"}, {Name: "mm_second"}})
	}
	return ir.DoChildren[[]ir.Attr]()
}

func TestAttrExpansionResorted(t *testing.T) {
	intT := &ir.TInt{Kind: ir.IInt}
	v := ir.MakeGlobalVar("v", intT)
	v.Attrs = ir.AddAttribute(ir.Attr{Name: "kk_keep"}, ir.AddAttribute(ir.Attr{Name: "zz_expand"}, nil))
	g := &ir.GVarDecl{Var: v}
	f := &ir.File{Name: "t.c", Globals: []ir.Global{g}}

	ir.VisitFile(attrExpander{}, f)

	names := make([]string, len(v.Attrs))
	for i, a := range v.Attrs {
		names[i] = a.Name
	}
	want := []string{"aa_first", "kk_keep", "mm_second"}
	if len(names) != 3 {
		t.Fatalf("attrs = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("attrs = %v, want %v (sorted after expansion)", names, want)
			break
		}
	}
}

// globalSplitter splices a declaration in front of every function.
type globalSplitter struct {
	ir.NopVisitor
}

func (globalSplitter) VGlobal(g ir.Global) ir.Action[[]ir.Global] {
	if fn, ok := g.(*ir.GFun); ok {
		return ir.ChangeTo([]ir.Global{&ir.GVarDecl{Var: fn.Fn.Var}, g})
	}
	return ir.DoChildren[[]ir.Global]()
}

func TestGlobalSplice(t *testing.T) {
	f, _ := buildTestFile()
	before := len(f.Globals)
	ir.VisitFile(globalSplitter{}, f)
	if len(f.Globals) != before+1 {
		t.Errorf("globals = %d, want %d", len(f.Globals), before+1)
	}
	if _, ok := f.Globals[len(f.Globals)-2].(*ir.GVarDecl); !ok {
		t.Errorf("prototype not spliced before the function")
	}
}

// typeRewriter replaces int with long everywhere.
type typeRewriter struct {
	ir.NopVisitor
}

func (typeRewriter) VType(t ir.Type) ir.Action[ir.Type] {
	if ti, ok := t.(*ir.TInt); ok && ti.Kind == ir.IInt {
		return ir.ChangeTo[ir.Type](&ir.TInt{Kind: ir.ILong, Attrs: ti.Attrs})
	}
	return ir.DoChildren[ir.Type]()
}

func TestVisitorFormalsReinstalled(t *testing.T) {
	intT := &ir.TInt{Kind: ir.IInt}
	fd := ir.EmptyFunction("f")
	if _, err := ir.MakeFormalVar(fd, "$", "x", intT); err != nil {
		t.Fatal(err)
	}

	ir.VisitFunc(typeRewriter{}, fd)

	if fd.Formals[0].Type.(*ir.TInt).Kind != ir.ILong {
		t.Errorf("formal type not rewritten")
	}
	ft := ir.UnrollType(fd.Var.Type).(*ir.TFun)
	if len(ft.Params) != 1 || ft.Params[0] != fd.Formals[0] {
		t.Errorf("formals and type parameters diverged after the rewrite")
	}
}
