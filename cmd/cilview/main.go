package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	cil "github.com/keremc/cil"
	"github.com/keremc/cil/ir"
	"github.com/keremc/cil/printer"
)

func main() {
	var (
		target      = flag.String("target", "gcc", "Target dialect: gcc or msvc")
		lines       = flag.Bool("lines", false, "Emit line directives")
		lineComment = flag.Bool("line-comment", false, "Prefix line directives with //")
		layout      = flag.Bool("layout", false, "Print a field-layout table for every composite")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Verbose logging to stderr")
	)
	flag.Parse()

	var machine *cil.Machine
	switch *target {
	case "gcc":
		machine = cil.GCC64()
	case "msvc":
		machine = cil.MSVC32()
	default:
		fmt.Fprintf(os.Stderr, "unknown target %q (want gcc or msvc)\n", *target)
		os.Exit(1)
	}

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		ir.SetLogger(logger)
	}

	file := demoFile()

	if *interactive {
		if err := runInteractive(file, machine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(file, machine, *lines, *lineComment, *layout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file *ir.File, machine *cil.Machine, lines, lineComment, layout bool) error {
	p := printer.New(os.Stdout, printer.Config{
		Machine:          machine,
		PrintLineNumbers: lines,
		LineAsComment:    lineComment,
	})
	if err := p.File(file); err != nil {
		return fmt.Errorf("print: %w", err)
	}

	if layout {
		fmt.Println()
		for _, g := range file.Globals {
			ct, ok := g.(*ir.GCompTag)
			if !ok {
				continue
			}
			printLayout(machine, ct.Comp)
		}
	}
	return nil
}

func printLayout(machine *cil.Machine, ci *ir.CompInfo) {
	kw := "union"
	if ci.Struct {
		kw = "struct"
	}
	base := &ir.TComp{Comp: ci}
	size, err := ir.BitsSizeOf(machine, base)
	if err != nil {
		fmt.Printf("/* %s %s: %v */\n", kw, ci.Name, err)
		return
	}
	align, _ := ir.AlignOf(machine, base)
	fmt.Printf("/* %s %s: %d bits, align %d */\n", kw, ci.Name, size, align)
	for _, f := range ci.Fields {
		start, width, err := ir.BitsOffset(machine, base, &ir.FieldOff{Field: f})
		if err != nil {
			fmt.Printf("/*   %-16s ? (%v) */\n", f.Name, err)
			continue
		}
		fmt.Printf("/*   %-16s bits %d..%d */\n", f.Name, start, start+width-1)
	}
}

// demoFile builds a small translation unit exercising composites,
// bitfields, enums, typedefs and loops, so the viewer has something to
// show without a parser.
func demoFile() *ir.File {
	f := &ir.File{Name: "demo.c"}
	loc := func(line int) ir.Location { return ir.Location{File: "demo.c", Line: line} }

	intT := &ir.TInt{Kind: ir.IInt}
	charT := &ir.TInt{Kind: ir.IChar}

	// typedef unsigned int size32;
	size32 := &ir.TypeInfo{Name: "size32", Type: &ir.TInt{Kind: ir.IUInt}}
	f.Globals = append(f.Globals, &ir.GType{Info: size32, Loc: loc(1)})

	// A recursive list node.
	three := 3
	node := ir.MkCompInfo(true, "node", func(self *ir.TComp) []ir.FieldSpec {
		return []ir.FieldSpec{
			{Name: "value", Type: intT},
			{Name: "flags", Type: intT, Bitfield: &three},
			{Name: "tag", Type: charT},
			{Name: "next", Type: &ir.TPtr{Elem: self}},
		}
	}, nil)
	f.Globals = append(f.Globals, &ir.GCompTag{Comp: node, Loc: loc(3)})

	// enum color { RED = 0, GREEN = 1, BLUE = 2 };
	color := &ir.EnumInfo{Name: "color"}
	for i, n := range []string{"RED", "GREEN", "BLUE"} {
		color.Items = append(color.Items, ir.EnumItem{Name: n, Value: ir.Integer(int64(i)), Loc: loc(9)})
	}
	f.Globals = append(f.Globals, &ir.GEnumTag{Enum: color, Loc: loc(9)})

	// int total = 0;
	total := ir.MakeGlobalVar("total", intT)
	f.Globals = append(f.Globals, &ir.GVar{
		Var:  total,
		Init: &ir.SingleInit{X: ir.Integer(0)},
		Loc:  loc(11),
	})

	// int sum(int n) { int i; i = 0; while (i < n) { total = total + i; i = i + 1; } return total; }
	sum := ir.EmptyFunction("sum")
	if err := ir.SetFunctionType(sum, &ir.TFun{Ret: intT}); err != nil {
		panic(err)
	}
	n, err := ir.MakeFormalVar(sum, "$", "n", intT)
	if err != nil {
		panic(err)
	}
	i := ir.MakeLocalVar(sum, "i", intT, true)

	body := ir.MkForIncr(i, ir.Integer(0), &ir.Load{Lv: ir.VarLval(n)}, ir.Integer(1),
		[]*ir.Stmt{ir.MkStmtOneInstr(&ir.Set{
			Lv: ir.VarLval(total),
			X: &ir.Binary{
				Op:   ir.PlusA,
				Left: &ir.Load{Lv: ir.VarLval(total)},
				Right: &ir.Load{
					Lv: ir.VarLval(i),
				},
				Type: intT,
			},
			Loc: loc(14),
		})})
	body = append(body, ir.MkStmt(&ir.Return{X: &ir.Load{Lv: ir.VarLval(total)}, Loc: loc(16)}))
	sum.Body = ir.MkBlock(body)
	f.Globals = append(f.Globals, &ir.GFun{Fn: sum, Loc: loc(13)})

	return f
}
