package ir

import (
	"fmt"

	"go.uber.org/zap"
)

// copyVisitor clones a function body. Variable uses are redirected
// through a name table so references inside the body share the cloned
// VarInfos; statements and blocks are replaced with fresh objects and
// recorded so Goto and Switch references can be patched afterwards.
type copyVisitor struct {
	NopVisitor
	vmap map[string]*VarInfo
	smap map[*Stmt]*Stmt
}

func (c *copyVisitor) VVarUse(v *VarInfo) Action[*VarInfo] {
	if nv, ok := c.vmap[v.Name]; ok {
		return ChangeTo(nv)
	}
	return SkipChildren[*VarInfo]()
}

func (c *copyVisitor) VVarDecl(v *VarInfo) Action[*VarInfo] {
	if nv, ok := c.vmap[v.Name]; ok {
		return ChangeTo(nv)
	}
	return SkipChildren[*VarInfo]()
}

func (c *copyVisitor) VStmt(s *Stmt) Action[*Stmt] {
	ns := &Stmt{ID: s.ID}
	if len(s.Labels) > 0 {
		ns.Labels = append([]Label{}, s.Labels...)
	}
	switch k := s.Kind.(type) {
	case *Goto:
		// Mutable target: the clone needs its own Goto so the patch pass
		// does not touch the original.
		ns.Kind = &Goto{Target: k.Target, Loc: k.Loc}
	case *Switch:
		ns.Kind = &Switch{
			Cond:  k.Cond,
			Body:  k.Body,
			Cases: append([]*Stmt{}, k.Cases...),
			Loc:   k.Loc,
		}
	default:
		ns.Kind = s.Kind
	}
	c.smap[s] = ns
	return ChangeDoChildrenPost(ns, nil)
}

func (c *copyVisitor) VBlock(b *Block) Action[*Block] {
	nb := &Block{
		Attrs: append([]Attr{}, b.Attrs...),
		Stmts: append([]*Stmt{}, b.Stmts...),
	}
	return ChangeDoChildrenPost(nb, nil)
}

// CopyFunction deep-clones a function under a new name. Locals and
// formals in the clone are fresh VarInfo objects, unnamed formals are
// given names arg0, arg1, ..., and all Goto and Switch case references
// point at the cloned statements.
func CopyFunction(fd *FunDec, newName string) *FunDec {
	cv := &copyVisitor{
		vmap: make(map[string]*VarInfo),
		smap: make(map[*Stmt]*Stmt),
	}

	nvar := *fd.Var
	nvar.Name = newName
	nvar.ID = hashName(newName)
	if ft, ok := UnrollType(fd.Var.Type).(*TFun); ok {
		nft := *ft
		nvar.Type = &nft
	}

	newFd := &FunDec{
		Var:       &nvar,
		MaxID:     fd.MaxID,
		Inline:    fd.Inline,
		MaxStmtID: fd.MaxStmtID,
	}

	formals := make([]*VarInfo, 0, len(fd.Formals))
	for i, v := range fd.Formals {
		nv := *v
		if nv.Name == "" {
			nv.Name = fmt.Sprintf("arg%d", i)
		}
		if v.Name != "" {
			cv.vmap[v.Name] = &nv
		}
		formals = append(formals, &nv)
	}
	locals := make([]*VarInfo, 0, len(fd.Locals))
	for _, v := range fd.Locals {
		nv := *v
		cv.vmap[v.Name] = &nv
		locals = append(locals, &nv)
	}
	newFd.Formals = formals
	newFd.Locals = locals

	newFd.Body = VisitBlock(cv, fd.Body)
	if err := SetFormals(newFd, formals); err != nil {
		Logger().Warn("copyFunction: cannot re-install formals", zap.Error(err))
	}

	for _, ns := range cv.smap {
		switch k := ns.Kind.(type) {
		case *Goto:
			if t, ok := cv.smap[k.Target]; ok {
				k.Target = t
			} else if k.Target != nil {
				Logger().Warn("copyFunction: goto target outside the function",
					zap.String("function", fd.Var.Name))
			}
		case *Switch:
			for i, cs := range k.Cases {
				if t, ok := cv.smap[cs]; ok {
					k.Cases[i] = t
				}
			}
		}
	}
	return newFd
}
