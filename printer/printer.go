package printer

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	cil "github.com/keremc/cil"
	"github.com/keremc/cil/ir"
)

// Config controls C source emission.
type Config struct {
	// Machine selects the dialect. A nil machine prints GCC spellings
	// with the GCC64 data model.
	Machine *cil.Machine

	// PrintLineNumbers enables line directives before globals and
	// statements.
	PrintLineNumbers bool

	// LineAsComment prefixes line directives with //, keeping them
	// visible but inert.
	LineAsComment bool

	// CustomAttrPrinter overrides the spelling of specific attributes.
	// Returning false falls back to the default rendering.
	CustomAttrPrinter func(ir.Attr) (string, bool)
}

// Printer emits C source to a writer.
type Printer struct {
	w        *bufio.Writer
	cfg      Config
	indent   int
	lastFile string
	lastLine int
	err      error
}

// New creates a printer writing to w.
func New(w io.Writer, cfg Config) *Printer {
	if cfg.Machine == nil {
		cfg.Machine = cil.GCC64()
	}
	return &Printer{w: bufio.NewWriter(w), lastLine: -1, cfg: cfg}
}

func (p *Printer) msvc() bool {
	return p.cfg.Machine.MSVC
}

func (p *Printer) print(s string) {
	if p.err != nil {
		return
	}
	_, p.err = p.w.WriteString(s)
}

func (p *Printer) printf(format string, args ...any) {
	p.print(fmt.Sprintf(format, args...))
}

func (p *Printer) nl() {
	p.print("\n")
	for i := 0; i < p.indent; i++ {
		p.print("  ")
	}
}

// Flush writes buffered output and reports any accumulated error.
func (p *Printer) Flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

// lineDirective emits a line marker when enabled and the position moved.
// The file name is repeated only when it changed or force is set.
func (p *Printer) lineDirective(l ir.Location, force bool) {
	if !p.cfg.PrintLineNumbers || !l.Known() {
		return
	}
	if l.File == p.lastFile && l.Line == p.lastLine && !force {
		return
	}
	prefix := ""
	if p.cfg.LineAsComment {
		prefix = "//"
	}
	fileChanged := l.File != p.lastFile || force
	if p.msvc() {
		if fileChanged {
			p.printf("%s#line %d \"%s\"\n", prefix, l.Line, l.File)
		} else {
			p.printf("%s#line %d\n", prefix, l.Line)
		}
	} else {
		if fileChanged {
			p.printf("%s# %d \"%s\"\n", prefix, l.Line, l.File)
		} else {
			p.printf("%s# %d\n", prefix, l.Line)
		}
	}
	p.lastFile = l.File
	p.lastLine = l.Line
}

// Parenthesization levels. A subexpression is parenthesized iff its own
// level is at least the context level supplied by the parent.
const (
	derefLevel    = 20
	unaryLevel    = 30
	multLevel     = 40
	additiveLevel = 60
	cmpLevel      = 70
	bitwiseLevel  = 75
	topLevel      = 100
)

func parenthLevel(e ir.Exp) int {
	switch x := e.(type) {
	case *ir.Const:
		return 0
	case *ir.Load:
		if _, ok := x.Lv.Host.(*ir.Mem); ok {
			return derefLevel
		}
		return 0
	case *ir.StartOf:
		if _, ok := x.Lv.Host.(*ir.Mem); ok {
			return derefLevel
		}
		return 0
	case *ir.SizeOfT, *ir.SizeOfE, *ir.AlignOfT, *ir.AlignOfE:
		return derefLevel
	case *ir.Unary, *ir.Cast, *ir.AddrOf:
		return unaryLevel
	case *ir.Binary:
		switch x.Op {
		case ir.Mult, ir.Div, ir.Mod:
			return multLevel
		case ir.PlusA, ir.PlusPI, ir.IndexPI, ir.MinusA, ir.MinusPI, ir.MinusPP,
			ir.Shiftlt, ir.Shiftrt:
			return additiveLevel
		case ir.BAnd, ir.BXor, ir.BOr:
			return bitwiseLevel
		default:
			return cmpLevel
		}
	}
	return 0
}

// ExpString renders an expression at top level.
func (p *Printer) ExpString(e ir.Exp) string {
	return p.expString(e, topLevel)
}

func (p *Printer) expString(e ir.Exp, context int) string {
	level := parenthLevel(e)
	s := p.expStringInner(e, level)
	if level >= context {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) expStringInner(e ir.Exp, level int) string {
	switch x := e.(type) {
	case *ir.Const:
		return p.constString(x.C)
	case *ir.Load:
		return p.LvalString(x.Lv)
	case *ir.StartOf:
		// Array decay is implicit in C.
		return p.LvalString(x.Lv)
	case *ir.SizeOfT:
		return "sizeof(" + p.TypeString(x.T, "") + ")"
	case *ir.SizeOfE:
		return "sizeof(" + p.expString(x.X, topLevel) + ")"
	case *ir.AlignOfT:
		return "__alignof__(" + p.TypeString(x.T, "") + ")"
	case *ir.AlignOfE:
		return "__alignof__(" + p.expString(x.X, topLevel) + ")"
	case *ir.Unary:
		return x.Op.String() + " " + p.expString(x.X, level)
	case *ir.Binary:
		lctx, rctx := level+1, level
		ls := p.expString(x.Left, lctx)
		rs := p.expString(x.Right, rctx)
		// Additive operands of a bitwise operator keep their parentheses
		// to quiet compiler warnings.
		if level == bitwiseLevel {
			if parenthLevel(x.Left) == additiveLevel {
				ls = "(" + p.expStringInner(x.Left, additiveLevel) + ")"
			}
			if parenthLevel(x.Right) == additiveLevel {
				rs = "(" + p.expStringInner(x.Right, additiveLevel) + ")"
			}
		}
		return ls + " " + x.Op.String() + " " + rs
	case *ir.Cast:
		return "(" + p.TypeString(x.To, "") + ")" + p.expString(x.X, level+1)
	case *ir.AddrOf:
		return "& " + p.lvalStringPrec(x.Lv, level)
	}
	return "/*exp?*/"
}

// LvalString renders an lvalue.
func (p *Printer) LvalString(lv *ir.Lval) string {
	return p.lvalStringPrec(lv, topLevel)
}

func (p *Printer) lvalStringPrec(lv *ir.Lval, _ int) string {
	var b strings.Builder
	switch h := lv.Host.(type) {
	case *ir.Var:
		b.WriteString(h.V.Name)
		p.offsetString(&b, lv.Off)
	case *ir.Mem:
		if f, ok := lv.Off.(*ir.FieldOff); ok {
			b.WriteString(p.expString(h.Addr, derefLevel))
			b.WriteString("->")
			b.WriteString(f.Field.Name)
			p.offsetString(&b, f.Next)
		} else if lv.Off != nil {
			// Postfix selectors bind tighter than the dereference.
			b.WriteString("(*")
			b.WriteString(p.expString(h.Addr, derefLevel))
			b.WriteString(")")
			p.offsetString(&b, lv.Off)
		} else {
			b.WriteString("*")
			b.WriteString(p.expString(h.Addr, derefLevel))
		}
	}
	return b.String()
}

func (p *Printer) offsetString(b *strings.Builder, off ir.Offset) {
	for off != nil {
		switch o := off.(type) {
		case *ir.FieldOff:
			b.WriteString(".")
			b.WriteString(o.Field.Name)
			off = o.Next
		case *ir.IndexOff:
			b.WriteString("[")
			b.WriteString(p.expString(o.Index, topLevel))
			b.WriteString("]")
			off = o.Next
		default:
			return
		}
	}
}

func (p *Printer) constString(c ir.Constant) string {
	switch x := c.(type) {
	case *ir.CInt64:
		return p.intConstString(x)
	case *ir.CStr:
		return "\"" + escapeC(x.Value) + "\""
	case *ir.CChr:
		return "'" + escapeCChar(x.Value) + "'"
	case *ir.CReal:
		if x.Text != "" {
			return x.Text
		}
		s := strconv.FormatFloat(x.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		switch x.Kind {
		case ir.FFloat:
			return s + "f"
		case ir.FLongDouble:
			return s + "L"
		}
		return s
	}
	return "/*const?*/"
}

func (p *Printer) intConstString(c *ir.CInt64) string {
	if c.Text != "" {
		return c.Text
	}
	// The most negative literals cannot be written directly: the token is
	// parsed as a negated positive constant that overflows.
	if c.Value == math.MinInt32 && (c.Kind == ir.IInt || c.Kind == ir.ILong) {
		return "(-0x7FFFFFFF-1)"
	}
	if c.Value == math.MinInt64 {
		return "(-0x7FFFFFFFFFFFFFFF-1)"
	}
	var body string
	if c.Kind.Unsigned(p.cfg.Machine) {
		body = strconv.FormatUint(uint64(c.Value), 10)
	} else {
		body = strconv.FormatInt(c.Value, 10)
	}
	return body + p.intSuffix(c.Kind)
}

func (p *Printer) intSuffix(k ir.IKind) string {
	switch k {
	case ir.IUInt:
		return "U"
	case ir.ILong:
		return "L"
	case ir.IULong:
		return "UL"
	case ir.ILongLong:
		if p.msvc() {
			return "L"
		}
		return "LL"
	case ir.IULongLong:
		if p.msvc() {
			return "UL"
		}
		return "ULL"
	}
	return ""
}

func escapeC(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteString(escapeCChar(s[i]))
	}
	return b.String()
}

func escapeCChar(c byte) string {
	switch c {
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	case '\\':
		return "\\\\"
	case '\'':
		return "\\'"
	case '"':
		return "\\\""
	case 0:
		return "\\000"
	}
	if c < 32 || c > 126 {
		return fmt.Sprintf("\\%03o", c)
	}
	return string(c)
}

// attrString renders one attribute, honoring the custom hook. The second
// result is false when the attribute prints as nothing.
func (p *Printer) attrString(a ir.Attr) (string, bool) {
	if p.cfg.CustomAttrPrinter != nil {
		if s, ok := p.cfg.CustomAttrPrinter(a); ok {
			return s, s != ""
		}
	}
	switch a.Name {
	case "const":
		return "const", true
	case "volatile":
		return "volatile", true
	case "restrict":
		return "restrict", true
	case "stdcall":
		if p.msvc() {
			return "__stdcall", true
		}
		return "__attribute__((__stdcall__))", true
	case "cdecl":
		if p.msvc() {
			return "__cdecl", true
		}
		return "__attribute__((__cdecl__))", true
	case "fastcall":
		if p.msvc() {
			return "__fastcall", true
		}
		return "__attribute__((__fastcall__))", true
	case "declspec":
		return "__declspec(" + p.attrParamsString(a.Params) + ")", true
	case "mode", "format":
		// Informational only; both confuse one compiler or the other.
		return "/* " + a.Name + "(" + p.attrParamsString(a.Params) + ") */", true
	}
	if p.msvc() {
		return "/* " + p.plainAttrString(a) + " */", true
	}
	return "__attribute__((" + p.plainAttrString(a) + "))", true
}

func (p *Printer) plainAttrString(a ir.Attr) string {
	if len(a.Params) == 0 {
		return a.Name
	}
	return a.Name + "(" + p.attrParamsString(a.Params) + ")"
}

func (p *Printer) attrParamsString(params []ir.AttrParam) string {
	parts := make([]string, 0, len(params))
	for _, q := range params {
		parts = append(parts, p.attrParamString(q))
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) attrParamString(q ir.AttrParam) string {
	switch x := q.(type) {
	case *ir.AInt:
		return strconv.Itoa(x.Value)
	case *ir.AStr:
		return "\"" + escapeC(x.Value) + "\""
	case *ir.AVar:
		return x.Name
	case *ir.ACons:
		if len(x.Params) == 0 {
			return x.Name
		}
		return x.Name + "(" + p.attrParamsString(x.Params) + ")"
	case *ir.ASizeOf:
		return "sizeof(" + p.TypeString(x.T, "") + ")"
	case *ir.ASizeOfE:
		return "sizeof(" + p.attrParamString(x.P) + ")"
	case *ir.AUnOp:
		return x.Op.String() + p.attrParamString(x.P)
	case *ir.ABinOp:
		return "(" + p.attrParamString(x.Left) + " " + x.Op.String() + " " + p.attrParamString(x.Right) + ")"
	}
	return ""
}

// attrsString renders a whole attribute list separated by spaces.
func (p *Printer) attrsString(al []ir.Attr) string {
	var parts []string
	for _, a := range al {
		if s, ok := p.attrString(a); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// TypeString renders a declaration of decl with type t; an empty decl
// renders the pure type, as needed inside casts and sizeof.
func (p *Printer) TypeString(t ir.Type, decl string) string {
	return p.declString(t, decl, true)
}

// declString threads the partial declarator inward. simple is true while
// the declarator is empty or a bare identifier followed only by postfix
// constructs, so pointer wrapping knows when to parenthesize.
func (p *Printer) declString(t ir.Type, decl string, simple bool) string {
	withBase := func(base string) string {
		if decl == "" {
			return base
		}
		return base + " " + decl
	}
	attrSuffix := func(al []ir.Attr) string {
		if s := p.attrsString(al); s != "" {
			return " " + s
		}
		return ""
	}

	switch x := t.(type) {
	case *ir.TVoid:
		return withBase("void" + attrSuffix(x.Attrs))
	case *ir.TInt:
		return withBase(p.intKindString(x.Kind) + attrSuffix(x.Attrs))
	case *ir.TFloat:
		return withBase(x.Kind.String() + attrSuffix(x.Attrs))
	case *ir.TComp:
		kw := "union"
		if x.Comp.Struct {
			kw = "struct"
		}
		return withBase(kw + " " + x.Comp.Name + attrSuffix(x.Attrs))
	case *ir.TEnum:
		return withBase("enum " + x.Enum.Name + attrSuffix(x.Attrs))
	case *ir.TNamed:
		return withBase(x.Info.Name + attrSuffix(x.Attrs))
	case *ir.TBuiltinVaList:
		return withBase("__builtin_va_list" + attrSuffix(x.Attrs))
	case *ir.TPtr:
		inner := "*"
		if s := p.attrsString(x.Attrs); s != "" {
			inner += s + " "
		}
		return p.declString(x.Elem, inner+decl, false)
	case *ir.TArray:
		d := decl
		if !simple {
			d = "(" + d + ")"
		}
		ln := ""
		if x.Len != nil {
			ln = p.expString(x.Len, topLevel)
		}
		return p.declString(x.Elem, d+"["+ln+"]", true)
	case *ir.TFun:
		d := decl
		if !simple {
			d = "(" + d + ")"
		}
		// MSVC spells calling conventions before the name; everything else
		// trails the parameter list, which is legal only in declarations.
		var before, after []string
		for _, a := range x.Attrs {
			s, ok := p.attrString(a)
			if !ok {
				continue
			}
			if p.msvc() && ir.AttrClassFlag(a.Name) {
				before = append(before, s)
			} else {
				after = append(after, s)
			}
		}
		if len(before) > 0 {
			d = strings.Join(before, " ") + " " + d
		}
		d = d + "(" + p.paramsString(x) + ")"
		if len(after) > 0 {
			d = d + " " + strings.Join(after, " ")
		}
		return p.declString(x.Ret, d, true)
	}
	return withBase("/*type?*/")
}

func (p *Printer) intKindString(k ir.IKind) string {
	if p.msvc() {
		switch k {
		case ir.ILongLong:
			return "__int64"
		case ir.IULongLong:
			return "unsigned __int64"
		}
	}
	return k.String()
}

func (p *Printer) paramsString(ft *ir.TFun) string {
	if ft.NoProto {
		return ""
	}
	if len(ft.Params) == 0 {
		if ft.Variadic {
			return "..."
		}
		return "void"
	}
	parts := make([]string, 0, len(ft.Params)+1)
	for _, v := range ft.Params {
		parts = append(parts, p.TypeString(v.Type, v.Name))
	}
	if ft.Variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}
