package ir

// The visitor framework traverses every IR node kind with a per-node
// callback. Traversal rebuilds a parent only when a child actually
// changed, so an all-DoChildren visitor leaves the tree identical node
// for node. Statements and blocks are updated in place, which keeps Goto
// targets valid across a rewrite.

type actionKind int

const (
	aDoChildren actionKind = iota
	aSkip
	aChangeTo
	aChangePost
)

// Action tells the traversal engine what to do at a node.
type Action[T any] struct {
	kind actionKind
	node T
	post func(T) T
}

// SkipChildren returns the node unchanged without descending.
func SkipChildren[T any]() Action[T] {
	return Action[T]{kind: aSkip}
}

// DoChildren descends and rebuilds the node iff a child changed.
func DoChildren[T any]() Action[T] {
	return Action[T]{kind: aDoChildren}
}

// ChangeTo replaces the node with n without descending.
func ChangeTo[T any](n T) Action[T] {
	return Action[T]{kind: aChangeTo, node: n}
}

// ChangeDoChildrenPost replaces the node with n, descends, then applies
// post to the result. A nil post is the identity.
func ChangeDoChildrenPost[T any](n T, post func(T) T) Action[T] {
	return Action[T]{kind: aChangePost, node: n, post: post}
}

// Visitor has one callback per node kind. Instructions may expand to a
// list that splices in place; attributes may expand to a list, after
// which the combined list is re-sorted; globals may expand to a list.
// Embed NopVisitor to get DoChildren defaults.
type Visitor interface {
	VExp(e Exp) Action[Exp]
	VLval(lv *Lval) Action[*Lval]
	VOffset(o Offset) Action[Offset]
	VInst(i Instr) Action[[]Instr]
	VStmt(s *Stmt) Action[*Stmt]
	VBlock(b *Block) Action[*Block]
	VFunc(f *FunDec) Action[*FunDec]
	VVarDecl(v *VarInfo) Action[*VarInfo]
	VVarUse(v *VarInfo) Action[*VarInfo]
	VGlobal(g Global) Action[[]Global]
	VInit(i Init) Action[Init]
	VType(t Type) Action[Type]
	VAttr(a Attr) Action[[]Attr]
}

// NopVisitor descends everywhere and changes nothing.
type NopVisitor struct{}

func (NopVisitor) VExp(Exp) Action[Exp]               { return DoChildren[Exp]() }
func (NopVisitor) VLval(*Lval) Action[*Lval]          { return DoChildren[*Lval]() }
func (NopVisitor) VOffset(Offset) Action[Offset]      { return DoChildren[Offset]() }
func (NopVisitor) VInst(Instr) Action[[]Instr]        { return DoChildren[[]Instr]() }
func (NopVisitor) VStmt(*Stmt) Action[*Stmt]          { return DoChildren[*Stmt]() }
func (NopVisitor) VBlock(*Block) Action[*Block]       { return DoChildren[*Block]() }
func (NopVisitor) VFunc(*FunDec) Action[*FunDec]      { return DoChildren[*FunDec]() }
func (NopVisitor) VVarDecl(*VarInfo) Action[*VarInfo] { return DoChildren[*VarInfo]() }
func (NopVisitor) VVarUse(*VarInfo) Action[*VarInfo]  { return DoChildren[*VarInfo]() }
func (NopVisitor) VGlobal(Global) Action[[]Global]    { return DoChildren[[]Global]() }
func (NopVisitor) VInit(Init) Action[Init]            { return DoChildren[Init]() }
func (NopVisitor) VType(Type) Action[Type]            { return DoChildren[Type]() }
func (NopVisitor) VAttr(Attr) Action[[]Attr]          { return DoChildren[[]Attr]() }

// mapNoCopy maps f over xs, reusing the input slice when eq reports every
// element unchanged.
func mapNoCopy[T any](xs []T, f func(T) T, eq func(a, b T) bool) ([]T, bool) {
	for i, x := range xs {
		y := f(x)
		if !eq(y, x) {
			out := make([]T, len(xs))
			copy(out, xs[:i])
			out[i] = y
			for j := i + 1; j < len(xs); j++ {
				out[j] = f(xs[j])
			}
			return out, true
		}
	}
	return xs, false
}

func eqExp(a, b Exp) bool           { return a == b }
func eqAttrParam(a, b AttrParam) bool { return a == b }
func eqVarInfo(a, b *VarInfo) bool  { return a == b }
func eqStmt(a, b *Stmt) bool        { return a == b }

func doVisit[T any](vis Visitor, orig T, act Action[T], children func(Visitor, T) T) T {
	switch act.kind {
	case aSkip:
		return orig
	case aChangeTo:
		return act.node
	case aChangePost:
		n := children(vis, act.node)
		if act.post != nil {
			return act.post(n)
		}
		return n
	}
	return children(vis, orig)
}

// VisitExp rewrites an expression.
func VisitExp(vis Visitor, e Exp) Exp {
	debugf(DebugVisit, "visit exp %T", e)
	return doVisit(vis, e, vis.VExp(e), visitExpChildren)
}

func visitExpChildren(vis Visitor, e Exp) Exp {
	switch x := e.(type) {
	case *Const:
		return e
	case *Load:
		lv := VisitLval(vis, x.Lv)
		if lv == x.Lv {
			return e
		}
		return &Load{Lv: lv}
	case *SizeOfT:
		t := VisitType(vis, x.T)
		if t == x.T {
			return e
		}
		return &SizeOfT{T: t}
	case *SizeOfE:
		sub := VisitExp(vis, x.X)
		if sub == x.X {
			return e
		}
		return &SizeOfE{X: sub}
	case *AlignOfT:
		t := VisitType(vis, x.T)
		if t == x.T {
			return e
		}
		return &AlignOfT{T: t}
	case *AlignOfE:
		sub := VisitExp(vis, x.X)
		if sub == x.X {
			return e
		}
		return &AlignOfE{X: sub}
	case *Unary:
		sub := VisitExp(vis, x.X)
		t := VisitType(vis, x.Type)
		if sub == x.X && t == x.Type {
			return e
		}
		return &Unary{Op: x.Op, X: sub, Type: t}
	case *Binary:
		l := VisitExp(vis, x.Left)
		r := VisitExp(vis, x.Right)
		t := VisitType(vis, x.Type)
		if l == x.Left && r == x.Right && t == x.Type {
			return e
		}
		return &Binary{Op: x.Op, Left: l, Right: r, Type: t}
	case *Cast:
		to := VisitType(vis, x.To)
		sub := VisitExp(vis, x.X)
		if to == x.To && sub == x.X {
			return e
		}
		return &Cast{To: to, X: sub}
	case *AddrOf:
		lv := VisitLval(vis, x.Lv)
		if lv == x.Lv {
			return e
		}
		return &AddrOf{Lv: lv}
	case *StartOf:
		lv := VisitLval(vis, x.Lv)
		if lv == x.Lv {
			return e
		}
		return &StartOf{Lv: lv}
	}
	return e
}

// VisitLval rewrites an lvalue.
func VisitLval(vis Visitor, lv *Lval) *Lval {
	return doVisit(vis, lv, vis.VLval(lv), visitLvalChildren)
}

func visitLvalChildren(vis Visitor, lv *Lval) *Lval {
	host := lv.Host
	switch h := lv.Host.(type) {
	case *Var:
		if v := visitVarUse(vis, h.V); v != h.V {
			host = &Var{V: v}
		}
	case *Mem:
		if a := VisitExp(vis, h.Addr); a != h.Addr {
			host = &Mem{Addr: a}
		}
	}
	off := VisitOffset(vis, lv.Off)
	if host == lv.Host && off == lv.Off {
		return lv
	}
	return &Lval{Host: host, Off: off}
}

func visitVarUse(vis Visitor, v *VarInfo) *VarInfo {
	// A variable use has no children: the type and attributes are visited
	// at the declaration.
	return doVisit(vis, v, vis.VVarUse(v), func(Visitor, *VarInfo) *VarInfo { return v })
}

// VisitOffset rewrites an offset chain.
func VisitOffset(vis Visitor, o Offset) Offset {
	if o == nil {
		return nil
	}
	return doVisit(vis, o, vis.VOffset(o), visitOffsetChildren)
}

func visitOffsetChildren(vis Visitor, o Offset) Offset {
	switch x := o.(type) {
	case *FieldOff:
		next := VisitOffset(vis, x.Next)
		if next == x.Next {
			return o
		}
		return &FieldOff{Field: x.Field, Next: next}
	case *IndexOff:
		idx := VisitExp(vis, x.Index)
		next := VisitOffset(vis, x.Next)
		if idx == x.Index && next == x.Next {
			return o
		}
		return &IndexOff{Index: idx, Next: next}
	}
	return o
}

// VisitInstr rewrites an instruction, possibly into a list that splices
// in place of the original.
func VisitInstr(vis Visitor, i Instr) []Instr {
	res, _ := visitInstr(vis, i)
	return res
}

func visitInstr(vis Visitor, i Instr) ([]Instr, bool) {
	if loc, ok := instrLoc(i); ok {
		currentLoc = loc
	}
	act := vis.VInst(i)
	switch act.kind {
	case aSkip:
		return []Instr{i}, false
	case aChangeTo:
		return act.node, true
	case aChangePost:
		out := make([]Instr, 0, len(act.node))
		for _, n := range act.node {
			out = append(out, visitInstrChildren(vis, n))
		}
		if act.post != nil {
			out = act.post(out)
		}
		return out, true
	}
	n := visitInstrChildren(vis, i)
	return []Instr{n}, n != i
}

func instrLoc(i Instr) (Location, bool) {
	switch x := i.(type) {
	case *Set:
		return x.Loc, true
	case *Call:
		return x.Loc, true
	case *Asm:
		return x.Loc, true
	}
	return UnknownLoc, false
}

func visitInstrChildren(vis Visitor, i Instr) Instr {
	switch x := i.(type) {
	case *Set:
		lv := VisitLval(vis, x.Lv)
		e := VisitExp(vis, x.X)
		if lv == x.Lv && e == x.X {
			return i
		}
		return &Set{Lv: lv, X: e, Loc: x.Loc}
	case *Call:
		ret := x.Ret
		if ret != nil {
			ret = VisitLval(vis, x.Ret)
		}
		fn := VisitExp(vis, x.Fn)
		args, argsChanged := mapNoCopy(x.Args, func(a Exp) Exp { return VisitExp(vis, a) }, eqExp)
		if ret == x.Ret && fn == x.Fn && !argsChanged {
			return i
		}
		return &Call{Ret: ret, Fn: fn, Args: args, Loc: x.Loc}
	case *Asm:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		outs, outsChanged := mapNoCopy(x.Outputs, func(o AsmOutput) AsmOutput {
			if lv := VisitLval(vis, o.Lv); lv != o.Lv {
				return AsmOutput{Constraint: o.Constraint, Lv: lv}
			}
			return o
		}, func(a, b AsmOutput) bool { return a == b })
		ins, insChanged := mapNoCopy(x.Inputs, func(in AsmInput) AsmInput {
			if e := VisitExp(vis, in.X); e != in.X {
				return AsmInput{Constraint: in.Constraint, X: e}
			}
			return in
		}, func(a, b AsmInput) bool { return a == b })
		if !attrsChanged && !outsChanged && !insChanged {
			return i
		}
		return &Asm{
			Attrs: attrs, Templates: x.Templates,
			Outputs: outs, Inputs: ins, Clobbers: x.Clobbers, Loc: x.Loc,
		}
	}
	return i
}

// VisitStmt rewrites a statement. The statement is updated in place for
// DoChildren so that Goto references remain valid.
func VisitStmt(vis Visitor, s *Stmt) *Stmt {
	if loc, ok := stmtLoc(s.Kind); ok {
		currentLoc = loc
	}
	debugf(DebugVisit, "visit stmt %T", s.Kind)
	return doVisit(vis, s, vis.VStmt(s), visitStmtChildren)
}

func stmtLoc(k StmtKind) (Location, bool) {
	switch x := k.(type) {
	case *Return:
		return x.Loc, true
	case *Goto:
		return x.Loc, true
	case *Break:
		return x.Loc, true
	case *Continue:
		return x.Loc, true
	case *If:
		return x.Loc, true
	case *Switch:
		return x.Loc, true
	case *Loop:
		return x.Loc, true
	}
	return UnknownLoc, false
}

func visitStmtChildren(vis Visitor, s *Stmt) *Stmt {
	if k := visitStmtKind(vis, s.Kind); k != s.Kind {
		s.Kind = k
	}
	return s
}

func visitStmtKind(vis Visitor, k StmtKind) StmtKind {
	switch x := k.(type) {
	case *InstrList:
		instrs, changed := visitInstrList(vis, x.Instrs)
		if !changed {
			return k
		}
		return &InstrList{Instrs: instrs}
	case *Return:
		if x.X == nil {
			return k
		}
		e := VisitExp(vis, x.X)
		if e == x.X {
			return k
		}
		return &Return{X: e, Loc: x.Loc}
	case *If:
		cond := VisitExp(vis, x.Cond)
		thenB := VisitBlock(vis, x.Then)
		elseB := VisitBlock(vis, x.Else)
		if cond == x.Cond && thenB == x.Then && elseB == x.Else {
			return k
		}
		return &If{Cond: cond, Then: thenB, Else: elseB, Loc: x.Loc}
	case *Switch:
		// The case-statement references are not traversed: they point at
		// statements inside the body, which are updated in place.
		cond := VisitExp(vis, x.Cond)
		body := VisitBlock(vis, x.Body)
		if cond == x.Cond && body == x.Body {
			return k
		}
		return &Switch{Cond: cond, Body: body, Cases: x.Cases, Loc: x.Loc}
	case *Loop:
		body := VisitBlock(vis, x.Body)
		if body == x.Body {
			return k
		}
		return &Loop{Body: body, Loc: x.Loc}
	case *BlockStmt:
		b := VisitBlock(vis, x.B)
		if b == x.B {
			return k
		}
		return &BlockStmt{B: b}
	}
	return k
}

func visitInstrList(vis Visitor, instrs []Instr) ([]Instr, bool) {
	changed := false
	out := make([]Instr, 0, len(instrs))
	for _, i := range instrs {
		res, ch := visitInstr(vis, i)
		changed = changed || ch
		out = append(out, res...)
	}
	if !changed {
		return instrs, false
	}
	return out, true
}

// VisitBlock rewrites a block, updating it in place for DoChildren.
func VisitBlock(vis Visitor, b *Block) *Block {
	return doVisit(vis, b, vis.VBlock(b), visitBlockChildren)
}

func visitBlockChildren(vis Visitor, b *Block) *Block {
	if stmts, changed := mapNoCopy(b.Stmts, func(s *Stmt) *Stmt { return VisitStmt(vis, s) }, eqStmt); changed {
		b.Stmts = stmts
	}
	if attrs, changed := visitAttrs(vis, b.Attrs); changed {
		b.Attrs = attrs
	}
	return b
}

// VisitFunc rewrites a function definition.
func VisitFunc(vis Visitor, f *FunDec) *FunDec {
	return doVisit(vis, f, vis.VFunc(f), visitFuncChildren)
}

func visitFuncChildren(vis Visitor, f *FunDec) *FunDec {
	if v := visitVarDecl(vis, f.Var); v != f.Var {
		f.Var = v
	}
	formals, formalsChanged := mapNoCopy(f.Formals, func(v *VarInfo) *VarInfo { return visitVarDecl(vis, v) }, eqVarInfo)
	if formalsChanged {
		// Re-install so the function type's parameter list is the same
		// sequence as the formals.
		if err := SetFormals(f, formals); err != nil {
			f.Formals = formals
		}
	}
	if locals, changed := mapNoCopy(f.Locals, func(v *VarInfo) *VarInfo { return visitVarDecl(vis, v) }, eqVarInfo); changed {
		f.Locals = locals
	}
	if b := VisitBlock(vis, f.Body); b != f.Body {
		f.Body = b
	}
	return f
}

func visitVarDecl(vis Visitor, v *VarInfo) *VarInfo {
	return doVisit(vis, v, vis.VVarDecl(v), visitVarDeclChildren)
}

func visitVarDeclChildren(vis Visitor, v *VarInfo) *VarInfo {
	if t := VisitType(vis, v.Type); t != v.Type {
		v.Type = t
	}
	if attrs, changed := visitAttrs(vis, v.Attrs); changed {
		v.Attrs = attrs
	}
	return v
}

// VisitInit rewrites an initializer.
func VisitInit(vis Visitor, i Init) Init {
	return doVisit(vis, i, vis.VInit(i), visitInitChildren)
}

func visitInitChildren(vis Visitor, i Init) Init {
	switch x := i.(type) {
	case *SingleInit:
		e := VisitExp(vis, x.X)
		if e == x.X {
			return i
		}
		return &SingleInit{X: e}
	case *CompoundInit:
		t := VisitType(vis, x.Type)
		items, itemsChanged := mapNoCopy(x.Items, func(it InitItem) InitItem {
			off := VisitOffset(vis, it.Off)
			sub := VisitInit(vis, it.Init)
			if off == it.Off && sub == it.Init {
				return it
			}
			return InitItem{Off: off, Init: sub}
		}, func(a, b InitItem) bool { return a == b })
		if t == x.Type && !itemsChanged {
			return i
		}
		return &CompoundInit{Type: t, Items: items}
	}
	return i
}

// VisitType rewrites a type.
func VisitType(vis Visitor, t Type) Type {
	return doVisit(vis, t, vis.VType(t), visitTypeChildren)
}

func visitTypeChildren(vis Visitor, t Type) Type {
	switch x := t.(type) {
	case *TPtr:
		elem := VisitType(vis, x.Elem)
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if elem == x.Elem && !attrsChanged {
			return t
		}
		return &TPtr{Elem: elem, Attrs: attrs}
	case *TArray:
		elem := VisitType(vis, x.Elem)
		ln := x.Len
		if ln != nil {
			ln = VisitExp(vis, x.Len)
		}
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if elem == x.Elem && ln == x.Len && !attrsChanged {
			return t
		}
		return &TArray{Elem: elem, Len: ln, Attrs: attrs}
	case *TFun:
		// Parameters are visited as declarations through the owning
		// function; visiting them here as well would process shared
		// VarInfos twice.
		ret := VisitType(vis, x.Ret)
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if ret == x.Ret && !attrsChanged {
			return t
		}
		return &TFun{Ret: ret, Params: x.Params, NoProto: x.NoProto, Variadic: x.Variadic, Attrs: attrs}
	case *TNamed:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TNamed{Info: x.Info, Attrs: attrs}
	case *TComp:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TComp{Comp: x.Comp, Attrs: attrs}
	case *TEnum:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TEnum{Enum: x.Enum, Attrs: attrs}
	case *TVoid:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TVoid{Attrs: attrs}
	case *TInt:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TInt{Kind: x.Kind, Attrs: attrs}
	case *TFloat:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TFloat{Kind: x.Kind, Attrs: attrs}
	case *TBuiltinVaList:
		attrs, attrsChanged := visitAttrs(vis, x.Attrs)
		if !attrsChanged {
			return t
		}
		return &TBuiltinVaList{Attrs: attrs}
	}
	return t
}

// visitAttrs maps the attribute callback over a list. An attribute may
// expand to several; when anything changed the combined list is re-sorted
// to restore the sort invariant.
func visitAttrs(vis Visitor, al []Attr) ([]Attr, bool) {
	changed := false
	out := make([]Attr, 0, len(al))
	for _, a := range al {
		act := vis.VAttr(a)
		switch act.kind {
		case aSkip:
			out = append(out, a)
		case aChangeTo:
			out = append(out, act.node...)
			changed = true
		case aChangePost:
			exp := make([]Attr, 0, len(act.node))
			for _, n := range act.node {
				n2, _ := visitAttrChildren(vis, n)
				exp = append(exp, n2)
			}
			if act.post != nil {
				exp = act.post(exp)
			}
			out = append(out, exp...)
			changed = true
		default:
			a2, ch := visitAttrChildren(vis, a)
			changed = changed || ch
			out = append(out, a2)
		}
	}
	if !changed {
		return al, false
	}
	return SortAttributes(out), true
}

func visitAttrChildren(vis Visitor, a Attr) (Attr, bool) {
	params, changed := mapNoCopy(a.Params, func(p AttrParam) AttrParam { return visitAttrParam(vis, p) }, eqAttrParam)
	if !changed {
		return a, false
	}
	return Attr{Name: a.Name, Params: params}, true
}

func visitAttrParam(vis Visitor, p AttrParam) AttrParam {
	switch x := p.(type) {
	case *ASizeOf:
		t := VisitType(vis, x.T)
		if t == x.T {
			return p
		}
		return &ASizeOf{T: t}
	case *ASizeOfE:
		sub := visitAttrParam(vis, x.P)
		if sub == x.P {
			return p
		}
		return &ASizeOfE{P: sub}
	case *ACons:
		params, changed := mapNoCopy(x.Params, func(q AttrParam) AttrParam { return visitAttrParam(vis, q) }, eqAttrParam)
		if !changed {
			return p
		}
		return &ACons{Name: x.Name, Params: params}
	case *AUnOp:
		sub := visitAttrParam(vis, x.P)
		if sub == x.P {
			return p
		}
		return &AUnOp{Op: x.Op, P: sub}
	case *ABinOp:
		l := visitAttrParam(vis, x.Left)
		r := visitAttrParam(vis, x.Right)
		if l == x.Left && r == x.Right {
			return p
		}
		return &ABinOp{Op: x.Op, Left: l, Right: r}
	}
	return p
}

// VisitGlobal rewrites a global, possibly into a list that splices in
// place of the original.
func VisitGlobal(vis Visitor, g Global) []Global {
	res, _ := visitGlobal(vis, g)
	return res
}

func visitGlobal(vis Visitor, g Global) ([]Global, bool) {
	if loc, ok := globalLoc(g); ok {
		currentLoc = loc
	}
	act := vis.VGlobal(g)
	switch act.kind {
	case aSkip:
		return []Global{g}, false
	case aChangeTo:
		return act.node, true
	case aChangePost:
		out := make([]Global, 0, len(act.node))
		for _, n := range act.node {
			out = append(out, visitGlobalChildren(vis, n))
		}
		if act.post != nil {
			out = act.post(out)
		}
		return out, true
	}
	n := visitGlobalChildren(vis, g)
	return []Global{n}, n != g
}

func globalLoc(g Global) (Location, bool) {
	switch x := g.(type) {
	case *GType:
		return x.Loc, true
	case *GCompTag:
		return x.Loc, true
	case *GEnumTag:
		return x.Loc, true
	case *GVarDecl:
		return x.Loc, true
	case *GVar:
		return x.Loc, true
	case *GFun:
		return x.Loc, true
	case *GAsm:
		return x.Loc, true
	case *GPragma:
		return x.Loc, true
	}
	return UnknownLoc, false
}

func visitGlobalChildren(vis Visitor, g Global) Global {
	switch x := g.(type) {
	case *GType:
		// The typedef's descriptor is shared; update it in place.
		if t := VisitType(vis, x.Info.Type); t != x.Info.Type {
			x.Info.Type = t
		}
		return g
	case *GCompTag:
		for _, f := range x.Comp.Fields {
			if t := VisitType(vis, f.Type); t != f.Type {
				f.Type = t
			}
			if attrs, changed := visitAttrs(vis, f.Attrs); changed {
				f.Attrs = attrs
			}
		}
		if attrs, changed := visitAttrs(vis, x.Comp.Attrs); changed {
			x.Comp.Attrs = attrs
		}
		return g
	case *GEnumTag:
		for i := range x.Enum.Items {
			if e := VisitExp(vis, x.Enum.Items[i].Value); e != x.Enum.Items[i].Value {
				x.Enum.Items[i].Value = e
			}
		}
		if attrs, changed := visitAttrs(vis, x.Enum.Attrs); changed {
			x.Enum.Attrs = attrs
		}
		return g
	case *GVarDecl:
		visitVarDecl(vis, x.Var)
		return g
	case *GVar:
		visitVarDecl(vis, x.Var)
		if x.Init != nil {
			if init := VisitInit(vis, x.Init); init != x.Init {
				return &GVar{Var: x.Var, Init: init, Loc: x.Loc}
			}
		}
		return g
	case *GFun:
		if fn := VisitFunc(vis, x.Fn); fn != x.Fn {
			return &GFun{Fn: fn, Loc: x.Loc}
		}
		return g
	case *GPragma:
		if a, changed := visitAttrChildren(vis, x.Attr); changed {
			return &GPragma{Attr: a, Loc: x.Loc}
		}
		return g
	}
	return g
}

// VisitFile rewrites a whole file in place and returns it.
func VisitFile(vis Visitor, f *File) *File {
	changed := false
	out := make([]Global, 0, len(f.Globals))
	for _, g := range f.Globals {
		res, ch := visitGlobal(vis, g)
		changed = changed || ch
		out = append(out, res...)
	}
	if changed {
		f.Globals = out
	}
	if f.GlobInit != nil {
		if fn := VisitFunc(vis, f.GlobInit); fn != f.GlobInit {
			f.GlobInit = fn
		}
	}
	return f
}
