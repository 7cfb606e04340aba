package printer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/keremc/cil/ir"
)

// InstrString renders one instruction without the trailing newline.
func (p *Printer) InstrString(i ir.Instr) string {
	switch x := i.(type) {
	case *ir.Set:
		return p.LvalString(x.Lv) + " = " + p.expString(x.X, topLevel) + ";"
	case *ir.Call:
		var b strings.Builder
		if x.Ret != nil {
			b.WriteString(p.LvalString(x.Ret))
			b.WriteString(" = ")
		}
		b.WriteString(p.expString(x.Fn, derefLevel))
		b.WriteString("(")
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.expString(a, topLevel))
		}
		b.WriteString(");")
		return b.String()
	case *ir.Asm:
		return p.asmString(x)
	}
	return ";"
}

func (p *Printer) asmString(a *ir.Asm) string {
	var b strings.Builder
	if p.msvc() {
		b.WriteString("__asm {\n")
		for _, t := range a.Templates {
			b.WriteString("  ")
			b.WriteString(t)
			b.WriteString("\n")
		}
		b.WriteString("}")
		return b.String()
	}
	b.WriteString("__asm__ ")
	if ir.HasAttribute("volatile", a.Attrs) {
		b.WriteString("volatile ")
	}
	b.WriteString("(")
	for i, t := range a.Templates {
		if i > 0 {
			b.WriteString("\n  ")
		}
		b.WriteString("\"" + escapeC(t) + "\"")
	}
	if len(a.Outputs) > 0 || len(a.Inputs) > 0 || len(a.Clobbers) > 0 {
		b.WriteString(": ")
		for i, o := range a.Outputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("\"" + escapeC(o.Constraint) + "\" (" + p.LvalString(o.Lv) + ")")
		}
	}
	if len(a.Inputs) > 0 || len(a.Clobbers) > 0 {
		b.WriteString(": ")
		for i, in := range a.Inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("\"" + escapeC(in.Constraint) + "\" (" + p.expString(in.X, topLevel) + ")")
		}
	}
	if len(a.Clobbers) > 0 {
		b.WriteString(": ")
		for i, c := range a.Clobbers {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("\"" + escapeC(c) + "\"")
		}
	}
	b.WriteString(");")
	return b.String()
}

func gotoLabel(s *ir.Stmt) (string, bool) {
	for _, l := range s.Labels {
		if n, ok := l.(*ir.NameLabel); ok {
			return n.Name, true
		}
	}
	return "", false
}

func (p *Printer) labelString(l ir.Label) string {
	switch x := l.(type) {
	case *ir.NameLabel:
		return x.Name + ":"
	case *ir.CaseLabel:
		return "case " + p.expString(x.X, topLevel) + ":"
	case *ir.DefaultLabel:
		return "default:"
	}
	return ""
}

// stmt prints one statement at the current indentation. next is the
// statement that follows in program order, used to recognize compact
// branch patterns.
func (p *Printer) stmt(s *ir.Stmt, next *ir.Stmt) {
	for _, l := range s.Labels {
		p.nl()
		p.print(p.labelString(l))
	}
	if loc, ok := stmtLocation(s.Kind); ok {
		p.print("\n")
		p.lineDirective(loc, false)
		for i := 0; i < p.indent; i++ {
			p.print("  ")
		}
		p.stmtKind(s, next, true)
		return
	}
	p.nl()
	p.stmtKind(s, next, true)
}

func stmtLocation(k ir.StmtKind) (ir.Location, bool) {
	switch x := k.(type) {
	case *ir.Return:
		return x.Loc, x.Loc.Known()
	case *ir.Goto:
		return x.Loc, x.Loc.Known()
	case *ir.If:
		return x.Loc, x.Loc.Known()
	case *ir.Switch:
		return x.Loc, x.Loc.Known()
	case *ir.Loop:
		return x.Loc, x.Loc.Known()
	case *ir.Break:
		return x.Loc, x.Loc.Known()
	case *ir.Continue:
		return x.Loc, x.Loc.Known()
	}
	return ir.UnknownLoc, false
}

func (p *Printer) stmtKind(s *ir.Stmt, next *ir.Stmt, _ bool) {
	switch k := s.Kind.(type) {
	case *ir.InstrList:
		for i, ins := range k.Instrs {
			if i > 0 {
				p.nl()
			}
			p.print(p.InstrString(ins))
		}
		if len(k.Instrs) == 0 {
			p.print(";")
		}

	case *ir.Return:
		if k.X == nil {
			p.print("return;")
		} else {
			p.print("return (" + p.expString(k.X, topLevel) + ");")
		}

	case *ir.Goto:
		p.print(p.gotoString(k))

	case *ir.Break:
		p.print("break;")

	case *ir.Continue:
		p.print("continue;")

	case *ir.If:
		// if (c) goto L; with the then branch falling to the next
		// statement prints on one line.
		if g, ok := singleGoto(k.Then); ok && len(k.Else.Stmts) == 0 {
			gk := g.Kind.(*ir.Goto)
			if gk.Target == next {
				p.print("if (" + p.expString(k.Cond, topLevel) + ") " + p.gotoString(gk))
				return
			}
		}
		p.print("if (" + p.expString(k.Cond, topLevel) + ") ")
		p.blockBraces(k.Then)
		if len(k.Else.Stmts) > 0 || len(k.Else.Attrs) > 0 {
			p.print(" else ")
			p.blockBraces(k.Else)
		}

	case *ir.Switch:
		p.print("switch (" + p.expString(k.Cond, topLevel) + ") ")
		p.blockBraces(k.Body)

	case *ir.Loop:
		if guard, rest, neg, ok := whilePattern(k.Body); ok {
			cond := p.expString(guard, topLevel)
			if neg {
				cond = "! (" + cond + ")"
			}
			p.print("while (" + cond + ") ")
			p.stmtsBraces(rest, k.Body.Attrs)
			return
		}
		p.print("while (1) ")
		p.blockBraces(k.Body)

	case *ir.BlockStmt:
		p.blockBraces(k.B)
	}
}

func (p *Printer) gotoString(k *ir.Goto) string {
	if k.Target != nil {
		if name, ok := gotoLabel(k.Target); ok {
			return "goto " + name + ";"
		}
	}
	ir.Logger().Warn("goto target has no labels", zap.String("file", p.lastFile))
	return "goto __invalid_label;"
}

// singleGoto matches a block holding exactly one unlabeled goto.
func singleGoto(b *ir.Block) (*ir.Stmt, bool) {
	if len(b.Stmts) != 1 || len(b.Stmts[0].Labels) != 0 {
		return nil, false
	}
	if _, ok := b.Stmts[0].Kind.(*ir.Goto); !ok {
		return nil, false
	}
	return b.Stmts[0], true
}

// whilePattern recognizes a loop body beginning with the canonical guard
// If(e, {}, {break}) or its negation If(e, {break}, {}). It returns the
// guard, the remaining body, and whether the guard is negated.
func whilePattern(b *ir.Block) (ir.Exp, []*ir.Stmt, bool, bool) {
	if len(b.Stmts) == 0 || len(b.Stmts[0].Labels) != 0 {
		return nil, nil, false, false
	}
	fi, ok := b.Stmts[0].Kind.(*ir.If)
	if !ok {
		return nil, nil, false, false
	}
	isBreak := func(blk *ir.Block) bool {
		if len(blk.Stmts) != 1 || len(blk.Stmts[0].Labels) != 0 {
			return false
		}
		_, ok := blk.Stmts[0].Kind.(*ir.Break)
		return ok
	}
	if len(fi.Then.Stmts) == 0 && isBreak(fi.Else) {
		return fi.Cond, b.Stmts[1:], false, true
	}
	if isBreak(fi.Then) && len(fi.Else.Stmts) == 0 {
		return fi.Cond, b.Stmts[1:], true, true
	}
	return nil, nil, false, false
}

func (p *Printer) blockBraces(b *ir.Block) {
	p.stmtsBraces(b.Stmts, b.Attrs)
}

func (p *Printer) stmtsBraces(stmts []*ir.Stmt, attrs []ir.Attr) {
	p.print("{")
	if s := p.attrsString(attrs); s != "" {
		p.print(" " + s)
	}
	p.indent++
	for i, s := range stmts {
		var next *ir.Stmt
		if i+1 < len(stmts) {
			next = stmts[i+1]
		}
		p.stmt(s, next)
	}
	p.indent--
	p.nl()
	p.print("}")
}
