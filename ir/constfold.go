package ir

import (
	"go.uber.org/zap"

	cil "github.com/keremc/cil"
)

// intConst extracts an integer constant, promoting character constants
// to int.
func intConst(e Exp) (int64, IKind, bool) {
	c, ok := e.(*Const)
	if !ok {
		return 0, IInt, false
	}
	switch k := c.C.(type) {
	case *CInt64:
		return k.Value, k.Kind, true
	case *CChr:
		return int64(k.Value), IInt, true
	}
	return 0, IInt, false
}

// ConstFold evaluates constant sub-expressions bottom-up. Arithmetic is
// performed with 64-bit semantics; only casts truncate. When machdep is
// true and a machine is given, sizeof and alignof are resolved through
// the layout engine; otherwise they stay symbolic. Nodes whose children
// did not change are returned with their identity intact.
func ConstFold(m *cil.Machine, machdep bool, e Exp) Exp {
	switch x := e.(type) {
	case *Unary:
		return foldUnary(m, machdep, x)
	case *Binary:
		return foldBinary(m, machdep, x)
	case *Cast:
		return foldCast(m, machdep, x)
	case *SizeOfT:
		if machdep && m != nil {
			if bits, err := BitsSizeOf(m, x.T); err == nil {
				return Kinteger64(m, IUInt, bits/8)
			}
		}
		return e
	case *SizeOfE:
		if machdep && m != nil {
			if bits, err := BitsSizeOf(m, TypeOf(x.X)); err == nil {
				return Kinteger64(m, IUInt, bits/8)
			}
		}
		return e
	case *AlignOfT:
		if machdep && m != nil {
			if a, err := AlignOf(m, x.T); err == nil {
				return Kinteger64(m, IUInt, int64(a))
			}
		}
		return e
	case *AlignOfE:
		if machdep && m != nil {
			if a, err := AlignOf(m, TypeOf(x.X)); err == nil {
				return Kinteger64(m, IUInt, int64(a))
			}
		}
		return e
	}
	return e
}

func foldUnary(m *cil.Machine, machdep bool, x *Unary) Exp {
	arg := ConstFold(m, machdep, x.X)
	if v, k, ok := intConst(arg); ok && IsIntegralType(x.Type) {
		switch x.Op {
		case Neg:
			return &Const{C: &CInt64{Value: -v, Kind: k}}
		case BNot:
			return &Const{C: &CInt64{Value: ^v, Kind: k}}
		}
	}
	if arg == x.X {
		return x
	}
	return &Unary{Op: x.Op, X: arg, Type: x.Type}
}

func foldCast(m *cil.Machine, machdep bool, x *Cast) Exp {
	arg := ConstFold(m, machdep, x.X)
	if m != nil {
		if ti, ok := UnrollType(x.To).(*TInt); ok {
			if v, _, ok := intConst(arg); ok {
				tr, changed := TruncateInteger64(m, ti.Kind, v)
				if changed {
					Logger().Warn("cast truncated a constant",
						zap.String("kind", ti.Kind.String()),
						zap.Int64("value", v),
						zap.Int64("truncated", tr))
				}
				return &Const{C: &CInt64{Value: tr, Kind: ti.Kind}}
			}
		}
	}
	if arg == x.X {
		return x
	}
	return &Cast{To: x.To, X: arg}
}

func foldBinary(m *cil.Machine, machdep bool, x *Binary) Exp {
	l := ConstFold(m, machdep, x.Left)
	r := ConstFold(m, machdep, x.Right)

	// x+0, 0+x, x-0, ptr+0, ptr-0 simplify to the non-zero side.
	switch x.Op {
	case PlusA:
		if IsZero(r) {
			return l
		}
		if IsZero(l) {
			return r
		}
	case MinusA:
		if IsZero(r) {
			return l
		}
	case PlusPI, IndexPI, MinusPI:
		if IsZero(r) {
			return l
		}
	}

	v1, k1, ok1 := intConst(l)
	v2, k2, ok2 := intConst(r)
	if ok1 && ok2 && k1 == k2 && IsIntegralType(x.Type) {
		if res, ok := foldIntBinOp(m, x.Op, k1, v1, v2); ok {
			return res
		}
	}

	if l == x.Left && r == x.Right {
		return x
	}
	return &Binary{Op: x.Op, Left: l, Right: r, Type: x.Type}
}

func foldIntBinOp(m *cil.Machine, op BinOp, k IKind, v1, v2 int64) (Exp, bool) {
	mk := func(v int64) (Exp, bool) {
		return &Const{C: &CInt64{Value: v, Kind: k}}, true
	}
	mkBool := func(b bool) (Exp, bool) {
		if b {
			return Integer(1), true
		}
		return Integer(0), true
	}
	unsigned := k.Unsigned(m)

	switch op {
	case PlusA:
		return mk(v1 + v2)
	case MinusA:
		return mk(v1 - v2)
	case Mult:
		return mk(v1 * v2)
	case Div:
		if v2 == 0 {
			return nil, false
		}
		if unsigned {
			return mk(int64(uint64(v1) / uint64(v2)))
		}
		if v2 == -1 {
			return mk(-v1)
		}
		return mk(v1 / v2)
	case Mod:
		if v2 == 0 {
			return nil, false
		}
		if unsigned {
			return mk(int64(uint64(v1) % uint64(v2)))
		}
		if v2 == -1 {
			return mk(0)
		}
		return mk(v1 % v2)
	case BAnd:
		return mk(v1 & v2)
	case BOr:
		return mk(v1 | v2)
	case BXor:
		return mk(v1 ^ v2)
	case Shiftlt:
		if v2 < 0 || v2 >= 64 {
			return nil, false
		}
		return mk(v1 << uint(v2))
	case Shiftrt:
		if v2 < 0 || v2 >= 64 {
			return nil, false
		}
		if unsigned {
			return mk(int64(uint64(v1) >> uint(v2)))
		}
		return mk(v1 >> uint(v2))
	case Eq:
		return mkBool(v1 == v2)
	case Ne:
		return mkBool(v1 != v2)
	case Lt:
		return mkBool(!ge64(unsigned, v1, v2))
	case Ge:
		return mkBool(ge64(unsigned, v1, v2))
	case Gt:
		return mkBool(ge64(unsigned, v1, v2) && v1 != v2)
	case Le:
		return mkBool(!ge64(unsigned, v1, v2) || v1 == v2)
	}
	return nil, false
}

// ge64 is a kind-aware greater-or-equal on 64-bit values.
func ge64(unsigned bool, a, b int64) bool {
	if unsigned {
		return uint64(a) >= uint64(b)
	}
	return a >= b
}

// Increm adds a constant to an expression, as pointer arithmetic when the
// expression has pointer type.
func Increm(e Exp, k int64) Exp {
	t := TypeOf(e)
	op := PlusA
	if IsPointerType(t) {
		op = PlusPI
	}
	return ConstFold(nil, false, &Binary{Op: op, Left: e, Right: Integer(k), Type: t})
}
