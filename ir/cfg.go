package ir

import (
	"go.uber.org/zap"

	cilerr "github.com/keremc/cil/errors"
)

// ComputeCFGInfo numbers every statement in the function with a fresh id,
// clears old flow links, then records successor and predecessor edges.
// Break, Continue and Switch must have been normalized away before this
// runs; encountering one is an error. The function's MaxStmtID is set so
// that every assigned id lies in [0, MaxStmtID), and the collected
// statements are returned in numbering order.
func ComputeCFGInfo(fd *FunDec) ([]*Stmt, error) {
	var all []*Stmt
	next := 0
	numberBlock(fd.Body, &next, &all)
	fd.MaxStmtID = next

	if err := succpredBlock(fd.Body, nil); err != nil {
		return nil, err
	}
	return all, nil
}

func numberBlock(b *Block, next *int, all *[]*Stmt) {
	for _, s := range b.Stmts {
		numberStmt(s, next, all)
	}
}

func numberStmt(s *Stmt, next *int, all *[]*Stmt) {
	s.ID = *next
	*next++
	s.Succs = nil
	s.Preds = nil
	*all = append(*all, s)

	switch k := s.Kind.(type) {
	case *If:
		numberBlock(k.Then, next, all)
		numberBlock(k.Else, next, all)
	case *Switch:
		numberBlock(k.Body, next, all)
	case *Loop:
		numberBlock(k.Body, next, all)
	case *BlockStmt:
		numberBlock(k.B, next, all)
	}
}

func link(from, to *Stmt) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// blockHead returns the first statement of a block, or fall when the
// block is empty.
func blockHead(b *Block, fall *Stmt) *Stmt {
	if len(b.Stmts) > 0 {
		return b.Stmts[0]
	}
	return fall
}

func succpredBlock(b *Block, fall *Stmt) error {
	for i, s := range b.Stmts {
		next := fall
		if i+1 < len(b.Stmts) {
			next = b.Stmts[i+1]
		}
		if err := succpredStmt(s, next); err != nil {
			return err
		}
	}
	return nil
}

func succpredStmt(s *Stmt, next *Stmt) error {
	switch k := s.Kind.(type) {
	case *InstrList:
		if next != nil {
			link(s, next)
		}
		return nil

	case *Return:
		return nil

	case *Goto:
		if k.Target == nil {
			Logger().Warn("goto with no target", zap.Int("stmt", s.ID))
			return nil
		}
		link(s, k.Target)
		return nil

	case *If:
		if h := blockHead(k.Then, next); h != nil {
			link(s, h)
		}
		if h := blockHead(k.Else, next); h != nil {
			link(s, h)
		}
		if err := succpredBlock(k.Then, next); err != nil {
			return err
		}
		return succpredBlock(k.Else, next)

	case *Loop:
		head := blockHead(k.Body, s)
		link(s, head)
		// Falling off the end of the body loops back to the head.
		return succpredBlock(k.Body, head)

	case *BlockStmt:
		if h := blockHead(k.B, next); h != nil {
			link(s, h)
		}
		return succpredBlock(k.B, next)

	case *Break:
		return cilerr.Bug(cilerr.PhaseCFG, "Break not normalized away before CFG construction")
	case *Continue:
		return cilerr.Bug(cilerr.PhaseCFG, "Continue not normalized away before CFG construction")
	case *Switch:
		return cilerr.Bug(cilerr.PhaseCFG, "Switch not normalized away before CFG construction")
	}
	return nil
}
