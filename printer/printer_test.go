package printer_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	cil "github.com/keremc/cil"
	"github.com/keremc/cil/ir"
	"github.com/keremc/cil/printer"
)

func gccPrinter() *printer.Printer {
	return printer.New(&bytes.Buffer{}, printer.Config{Machine: cil.GCC64()})
}

func msvcPrinter() *printer.Printer {
	return printer.New(&bytes.Buffer{}, printer.Config{Machine: cil.MSVC32()})
}

func intT() *ir.TInt { return &ir.TInt{Kind: ir.IInt} }

func load(v *ir.VarInfo) ir.Exp { return &ir.Load{Lv: ir.VarLval(v)} }

func TestPrintSimpleFunction(t *testing.T) {
	fd := ir.EmptyFunction("f")
	x, err := ir.MakeFormalVar(fd, "$", "x", intT())
	if err != nil {
		t.Fatal(err)
	}
	if err := ir.SetFunctionType(fd, &ir.TFun{Ret: intT(), Params: fd.Formals}); err != nil {
		t.Fatal(err)
	}
	sum := &ir.Binary{Op: ir.PlusA, Left: load(x), Right: ir.Integer(1), Type: intT()}
	fd.Body = ir.MkBlock([]*ir.Stmt{ir.MkStmt(&ir.Return{X: sum})})

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GFun{Fn: fd}}}); err != nil {
		t.Fatal(err)
	}

	want := "/* Generated by CIL */\n" +
		"int f(int x) {\n" +
		"  return (x + 1);\n" +
		"}\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDeclaratorNesting(t *testing.T) {
	p := gccPrinter()
	tests := []struct {
		name string
		t    ir.Type
		decl string
		want string
	}{
		{
			"array of pointers to functions",
			&ir.TArray{
				Elem: &ir.TPtr{Elem: &ir.TFun{Ret: intT(), Params: []*ir.VarInfo{{Type: intT()}}}},
				Len:  ir.Integer(3),
			},
			"a",
			"int (*a[3])(int)",
		},
		{
			"pointer to array",
			&ir.TPtr{Elem: &ir.TArray{Elem: intT(), Len: ir.Integer(3)}},
			"p",
			"int (*p)[3]",
		},
		{
			"pointer to pointer",
			&ir.TPtr{Elem: &ir.TPtr{Elem: intT()}},
			"pp",
			"int **pp",
		},
		{
			"function returning pointer",
			&ir.TFun{Ret: &ir.TPtr{Elem: intT()}},
			"g",
			"int *g(void)",
		},
		{
			"pure type",
			&ir.TPtr{Elem: intT()},
			"",
			"int *",
		},
		{
			"unspecified parameters",
			&ir.TFun{Ret: intT(), NoProto: true},
			"h",
			"int h()",
		},
		{
			"variadic",
			&ir.TFun{Ret: intT(), Params: []*ir.VarInfo{{Name: "fmt", Type: &ir.TPtr{Elem: &ir.TInt{Kind: ir.IChar}}}}, Variadic: true},
			"pf",
			"int pf(char *fmt, ...)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.TypeString(tt.t, tt.decl); got != tt.want {
				t.Errorf("TypeString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntegerSuffixes(t *testing.T) {
	p := gccPrinter()
	m := msvcPrinter()
	tests := []struct {
		c        *ir.CInt64
		gcc, msvc string
	}{
		{&ir.CInt64{Value: 5, Kind: ir.IInt}, "5", "5"},
		{&ir.CInt64{Value: 5, Kind: ir.IUInt}, "5U", "5U"},
		{&ir.CInt64{Value: 5, Kind: ir.ILong}, "5L", "5L"},
		{&ir.CInt64{Value: 5, Kind: ir.IULong}, "5UL", "5UL"},
		{&ir.CInt64{Value: 5, Kind: ir.ILongLong}, "5LL", "5L"},
		{&ir.CInt64{Value: 5, Kind: ir.IULongLong}, "5ULL", "5UL"},
		{&ir.CInt64{Value: 7, Kind: ir.IInt, Text: "007"}, "007", "007"},
		{&ir.CInt64{Value: math.MinInt32, Kind: ir.IInt}, "(-0x7FFFFFFF-1)", "(-0x7FFFFFFF-1)"},
		{&ir.CInt64{Value: math.MinInt64, Kind: ir.ILongLong}, "(-0x7FFFFFFFFFFFFFFF-1)", "(-0x7FFFFFFFFFFFFFFF-1)"},
	}
	for _, tt := range tests {
		if got := p.ExpString(&ir.Const{C: tt.c}); got != tt.gcc {
			t.Errorf("gcc %v = %q, want %q", tt.c, got, tt.gcc)
		}
		if got := m.ExpString(&ir.Const{C: tt.c}); got != tt.msvc {
			t.Errorf("msvc %v = %q, want %q", tt.c, got, tt.msvc)
		}
	}
}

func TestExpPrecedence(t *testing.T) {
	p := gccPrinter()
	a := load(ir.MakeGlobalVar("a", intT()))
	b := load(ir.MakeGlobalVar("b", intT()))
	c := load(ir.MakeGlobalVar("c", intT()))

	tests := []struct {
		name string
		e    ir.Exp
		want string
	}{
		{
			"left associativity needs no parens",
			&ir.Binary{Op: ir.MinusA, Left: &ir.Binary{Op: ir.MinusA, Left: a, Right: b, Type: intT()}, Right: c, Type: intT()},
			"a - b - c",
		},
		{
			"right nesting keeps parens",
			&ir.Binary{Op: ir.MinusA, Left: a, Right: &ir.Binary{Op: ir.MinusA, Left: b, Right: c, Type: intT()}, Type: intT()},
			"a - (b - c)",
		},
		{
			"mult binds tighter",
			&ir.Binary{Op: ir.PlusA, Left: a, Right: &ir.Binary{Op: ir.Mult, Left: b, Right: c, Type: intT()}, Type: intT()},
			"a + b * c",
		},
		{
			"additive under bitwise is parenthesized",
			&ir.Binary{Op: ir.BAnd, Left: &ir.Binary{Op: ir.PlusA, Left: a, Right: b, Type: intT()}, Right: c, Type: intT()},
			"(a + b) & c",
		},
		{
			"comparison under additive",
			&ir.Binary{Op: ir.PlusA, Left: a, Right: &ir.Binary{Op: ir.Lt, Left: b, Right: c, Type: intT()}, Type: intT()},
			"a + (b < c)",
		},
		{
			"unary",
			&ir.Unary{Op: ir.Neg, X: &ir.Binary{Op: ir.PlusA, Left: a, Right: b, Type: intT()}, Type: intT()},
			"- (a + b)",
		},
		{
			"cast",
			&ir.Cast{To: &ir.TInt{Kind: ir.IUInt}, X: a},
			"(unsigned int)a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ExpString(tt.e); got != tt.want {
				t.Errorf("exp = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLvalPrinting(t *testing.T) {
	p := gccPrinter()
	intPtr := &ir.TPtr{Elem: intT()}

	ci := ir.MkCompInfo(true, "s", func(*ir.TComp) []ir.FieldSpec {
		return []ir.FieldSpec{{Name: "f", Type: intT()}}
	}, nil)
	f := ci.Fields[0]

	sp := ir.MakeGlobalVar("sp", &ir.TPtr{Elem: &ir.TComp{Comp: ci}})
	sv := ir.MakeGlobalVar("sv", &ir.TComp{Comp: ci})
	pv := ir.MakeGlobalVar("p", intPtr)
	av := ir.MakeGlobalVar("a", &ir.TArray{Elem: intT(), Len: ir.Integer(4)})

	tests := []struct {
		name string
		lv   *ir.Lval
		want string
	}{
		{"var", ir.VarLval(pv), "p"},
		{"deref", &ir.Lval{Host: &ir.Mem{Addr: load(pv)}}, "*p"},
		{"field", &ir.Lval{Host: &ir.Var{V: sv}, Off: &ir.FieldOff{Field: f}}, "sv.f"},
		{"arrow", &ir.Lval{Host: &ir.Mem{Addr: load(sp)}, Off: &ir.FieldOff{Field: f}}, "sp->f"},
		{"index", &ir.Lval{Host: &ir.Var{V: av}, Off: &ir.IndexOff{Index: ir.Integer(2)}}, "a[2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.LvalString(tt.lv); got != tt.want {
				t.Errorf("lval = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMSVCSpellings(t *testing.T) {
	m := msvcPrinter()
	if got := m.TypeString(&ir.TInt{Kind: ir.ILongLong}, "x"); got != "__int64 x" {
		t.Errorf("msvc long long = %q", got)
	}
	if got := m.TypeString(&ir.TInt{Kind: ir.IULongLong}, "x"); got != "unsigned __int64 x" {
		t.Errorf("msvc unsigned long long = %q", got)
	}
	p := gccPrinter()
	if got := p.TypeString(&ir.TInt{Kind: ir.ILongLong}, "x"); got != "long long x" {
		t.Errorf("gcc long long = %q", got)
	}
}

func TestWhileRecovery(t *testing.T) {
	x := ir.MakeGlobalVar("x", intT())
	guard := &ir.Binary{Op: ir.Lt, Left: load(x), Right: ir.Integer(10), Type: intT()}
	body := ir.MkStmtOneInstr(&ir.Set{Lv: ir.VarLval(x), X: ir.Integer(0)})

	fd := ir.EmptyFunction("f")
	fd.Body = ir.MkBlock(ir.MkWhile(guard, []*ir.Stmt{body}))

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GFun{Fn: fd}}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "while (x < 10)") {
		t.Errorf("canonical loop not recovered as while:\n%s", out)
	}
	if strings.Contains(out, "while (1)") {
		t.Errorf("guarded loop printed as while(1):\n%s", out)
	}
}

func TestGotoPrinting(t *testing.T) {
	target := ir.MkEmptyStmt()
	target.Labels = []ir.Label{&ir.NameLabel{Name: "done", User: true}}
	jump := ir.MkStmt(&ir.Goto{Target: target})

	fd := ir.EmptyFunction("f")
	fd.Body = ir.MkBlock([]*ir.Stmt{jump, target})

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GFun{Fn: fd}}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "goto done;") || !strings.Contains(out, "done:") {
		t.Errorf("goto/label printing wrong:\n%s", out)
	}
}

func TestGotoWithoutLabels(t *testing.T) {
	jump := ir.MkStmt(&ir.Goto{Target: ir.MkEmptyStmt()})
	fd := ir.EmptyFunction("f")
	fd.Body = ir.MkBlock([]*ir.Stmt{jump})

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GFun{Fn: fd}}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "goto __invalid_label;") {
		t.Errorf("unlabeled target must fall back to __invalid_label:\n%s", buf.String())
	}
}

func TestGlobalsPrinting(t *testing.T) {
	three := 3
	ci := ir.MkCompInfo(true, "pair", func(*ir.TComp) []ir.FieldSpec {
		return []ir.FieldSpec{
			{Name: "a", Type: intT()},
			{Name: "fl", Type: intT(), Bitfield: &three},
		}
	}, nil)
	en := &ir.EnumInfo{Name: "color", Items: []ir.EnumItem{
		{Name: "RED", Value: ir.Integer(0)},
		{Name: "GREEN", Value: ir.Integer(1)},
	}}
	info := &ir.TypeInfo{Name: "word", Type: &ir.TInt{Kind: ir.IUInt}}

	g := ir.MakeGlobalVar("g", intT())
	g.Storage = ir.Static

	f := &ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GType{Info: info},
		&ir.GCompTag{Comp: ci},
		&ir.GEnumTag{Enum: en},
		&ir.GVar{Var: g, Init: &ir.SingleInit{X: ir.Integer(42)}},
		&ir.GPragma{Attr: ir.Attr{Name: "pack", Params: []ir.AttrParam{&ir.AInt{Value: 1}}}},
		&ir.GPragma{Attr: ir.Attr{Name: "cilnoremove", Params: []ir.AttrParam{&ir.AStr{Value: "g"}}}},
		&ir.GText{Text: "/* verbatim */"},
	}}

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"typedef unsigned int word;",
		"struct pair {",
		"int a ;",
		"int fl : 3 ;",
		"enum color {",
		"RED = 0",
		"static int g = 42;",
		"#pragma pack(1)",
		"/* #pragma cilnoremove(\"g\") */",
		"/* verbatim */",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuiltinSuppression(t *testing.T) {
	v := ir.MakeGlobalVar("__builtin_memcpy", &ir.TFun{Ret: &ir.TVoid{}})
	boxed := ir.MakeGlobalVar("modeled", intT())
	boxed.Attrs = ir.AddAttribute(ir.Attr{Name: "boxmodel"}, nil)

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GVarDecl{Var: v},
		&ir.GVarDecl{Var: boxed},
	}})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "/* compiler builtin: __builtin_memcpy */") {
		t.Errorf("builtin not suppressed:\n%s", out)
	}
	if !strings.Contains(out, "/* compiler builtin: modeled */") {
		t.Errorf("boxmodel declaration not suppressed:\n%s", out)
	}
	if strings.Contains(out, "void __builtin_memcpy") {
		t.Errorf("builtin printed anyway:\n%s", out)
	}
}

func TestFunctionAttrsEmitPrototype(t *testing.T) {
	fd := ir.EmptyFunction("f")
	fd.Var.Attrs = ir.AddAttribute(ir.Attr{Name: "noreturn"}, nil)

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GFun{Fn: fd}}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// One attributed prototype, then a bare definition.
	if !strings.Contains(out, ";") {
		t.Errorf("missing prototype:\n%s", out)
	}
	defIdx := strings.LastIndex(out, "void f(void) {")
	protoIdx := strings.Index(out, ";")
	if defIdx < 0 || protoIdx < 0 || protoIdx > defIdx {
		t.Errorf("prototype must precede the definition:\n%s", out)
	}
	if len(fd.Var.Attrs) != 1 {
		t.Errorf("printing must restore the attributes")
	}
}

func TestCompoundInitDesignators(t *testing.T) {
	ci := ir.MkCompInfo(true, "pt", func(*ir.TComp) []ir.FieldSpec {
		return []ir.FieldSpec{
			{Name: "x", Type: intT()},
			{Name: "y", Type: intT()},
		}
	}, nil)
	v := ir.MakeGlobalVar("origin", &ir.TComp{Comp: ci})
	init := &ir.CompoundInit{
		Type: &ir.TComp{Comp: ci},
		Items: []ir.InitItem{
			{Off: &ir.FieldOff{Field: ci.Fields[0]}, Init: &ir.SingleInit{X: ir.Integer(1)}},
			{Off: &ir.FieldOff{Field: ci.Fields[1]}, Init: &ir.SingleInit{X: ir.Integer(2)}},
		},
	}

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GCompTag{Comp: ci},
		&ir.GVar{Var: v, Init: init},
	}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "{.x = 1, .y = 2}") {
		t.Errorf("designated initializer missing:\n%s", buf.String())
	}

	var mbuf bytes.Buffer
	mp := printer.New(&mbuf, printer.Config{Machine: cil.MSVC32()})
	if err := mp.File(&ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GCompTag{Comp: ci},
		&ir.GVar{Var: v, Init: init},
	}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mbuf.String(), "{1, 2}") {
		t.Errorf("msvc initializer must be positional:\n%s", mbuf.String())
	}
}

func TestLineDirectives(t *testing.T) {
	fd := ir.EmptyFunction("f")
	fd.Body = ir.MkBlock([]*ir.Stmt{
		ir.MkStmt(&ir.Return{Loc: ir.Location{File: "t.c", Line: 5}}),
	})

	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: cil.GCC64(), PrintLineNumbers: true})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GFun{Fn: fd, Loc: ir.Location{File: "t.c", Line: 4}},
	}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "# 4 \"t.c\"") {
		t.Errorf("missing global line directive:\n%s", out)
	}
	if !strings.Contains(out, "# 5") {
		t.Errorf("missing statement line directive:\n%s", out)
	}

	var cbuf bytes.Buffer
	cp := printer.New(&cbuf, printer.Config{
		Machine: cil.GCC64(), PrintLineNumbers: true, LineAsComment: true,
	})
	if err := cp.File(&ir.File{Name: "t.c", Globals: []ir.Global{
		&ir.GFun{Fn: fd, Loc: ir.Location{File: "t.c", Line: 4}},
	}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(cbuf.String(), "//# 4 \"t.c\"") {
		t.Errorf("comment prefix missing:\n%s", cbuf.String())
	}
}

func TestCustomAttrPrinter(t *testing.T) {
	v := ir.MakeGlobalVar("x", &ir.TInt{Kind: ir.IInt, Attrs: []ir.Attr{{Name: "myattr"}}})
	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{
		Machine: cil.GCC64(),
		CustomAttrPrinter: func(a ir.Attr) (string, bool) {
			if a.Name == "myattr" {
				return "/*custom*/", true
			}
			return "", false
		},
	})
	if err := p.File(&ir.File{Name: "t.c", Globals: []ir.Global{&ir.GVarDecl{Var: v}}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "/*custom*/") {
		t.Errorf("custom attribute hook not used:\n%s", buf.String())
	}
}

func TestStringAndCharConstants(t *testing.T) {
	p := gccPrinter()
	if got := p.ExpString(&ir.Const{C: &ir.CStr{Value: "a\nb"}}); got != "\"a\\nb\"" {
		t.Errorf("string constant = %q", got)
	}
	if got := p.ExpString(&ir.Const{C: &ir.CChr{Value: '\''}}); got != "'\\''" {
		t.Errorf("char constant = %q", got)
	}
	if got := p.ExpString(&ir.Const{C: &ir.CReal{Value: 1.5, Kind: ir.FFloat}}); got != "1.5f" {
		t.Errorf("float constant = %q", got)
	}
}

func TestSizeofPrinting(t *testing.T) {
	p := gccPrinter()
	if got := p.ExpString(&ir.SizeOfT{T: &ir.TPtr{Elem: intT()}}); got != "sizeof(int *)" {
		t.Errorf("sizeof = %q", got)
	}
	v := ir.MakeGlobalVar("x", intT())
	if got := p.ExpString(&ir.AlignOfE{X: load(v)}); got != "__alignof__(x)" {
		t.Errorf("alignof = %q", got)
	}
}
