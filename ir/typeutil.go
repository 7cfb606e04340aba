package ir

import (
	cilerr "github.com/keremc/cil/errors"
)

// UnrollType follows TNamed chains to the underlying type. The named
// types' own attributes are dropped on the way; use UnrollTypeAttrs when
// they must be kept.
func UnrollType(t Type) Type {
	for {
		n, ok := t.(*TNamed)
		if !ok {
			return t
		}
		t = n.Info.Type
	}
}

// UnrollTypeAttrs follows TNamed chains like UnrollType but merges each
// named type's attributes into the result.
func UnrollTypeAttrs(t Type) Type {
	var acc []Attr
	for {
		n, ok := t.(*TNamed)
		if !ok {
			if len(acc) == 0 {
				return t
			}
			return typeAddAttrsPlain(acc, t)
		}
		acc = AddAttributes(n.Attrs, acc)
		t = n.Info.Type
	}
}

// TypeAttrs returns the attribute list of the outermost type constructor.
func TypeAttrs(t Type) []Attr {
	switch x := t.(type) {
	case *TVoid:
		return x.Attrs
	case *TInt:
		return x.Attrs
	case *TFloat:
		return x.Attrs
	case *TPtr:
		return x.Attrs
	case *TArray:
		return x.Attrs
	case *TFun:
		return x.Attrs
	case *TNamed:
		return x.Attrs
	case *TComp:
		return x.Attrs
	case *TEnum:
		return x.Attrs
	case *TBuiltinVaList:
		return x.Attrs
	}
	return nil
}

// SetTypeAttrs returns a type like t whose outermost attribute list is al.
// The input type is not modified.
func SetTypeAttrs(t Type, al []Attr) Type {
	switch x := t.(type) {
	case *TVoid:
		return &TVoid{Attrs: al}
	case *TInt:
		return &TInt{Kind: x.Kind, Attrs: al}
	case *TFloat:
		return &TFloat{Kind: x.Kind, Attrs: al}
	case *TPtr:
		return &TPtr{Elem: x.Elem, Attrs: al}
	case *TArray:
		return &TArray{Elem: x.Elem, Len: x.Len, Attrs: al}
	case *TFun:
		return &TFun{Ret: x.Ret, Params: x.Params, NoProto: x.NoProto, Variadic: x.Variadic, Attrs: al}
	case *TNamed:
		return &TNamed{Info: x.Info, Attrs: al}
	case *TComp:
		return &TComp{Comp: x.Comp, Attrs: al}
	case *TEnum:
		return &TEnum{Enum: x.Enum, Attrs: al}
	case *TBuiltinVaList:
		return &TBuiltinVaList{Attrs: al}
	}
	return t
}

func typeAddAttrsPlain(al0 []Attr, t Type) Type {
	if len(al0) == 0 {
		return t
	}
	merged := AddAttributes(al0, TypeAttrs(t))
	return SetTypeAttrs(t, merged)
}

// gccModeWidths maps the GCC mode() attribute tags to byte widths.
var gccModeWidths = map[string]int{
	"__QI__":      1,
	"__byte__":    1,
	"__HI__":      2,
	"__SI__":      4,
	"__word__":    4,
	"__pointer__": 4,
	"__DI__":      8,
}

// TypeAddAttributes merges al0 into t's attribute list. As a special
// case, a lone mode(tag) attribute applied to an integer type rewrites
// the integer's kind per the GCC width-mode table, preserving signedness.
func TypeAddAttributes(al0 []Attr, t Type) (Type, error) {
	if len(al0) == 0 {
		return t, nil
	}
	if len(al0) == 1 && al0[0].Name == "mode" {
		if ti, ok := t.(*TInt); ok {
			tag := ""
			if len(al0[0].Params) == 1 {
				if c, ok := al0[0].Params[0].(*ACons); ok && len(c.Params) == 0 {
					tag = c.Name
				}
			}
			width, ok := gccModeWidths[tag]
			if !ok {
				return t, cilerr.Invalid(cilerr.PhaseBuild, "unknown integer mode %q", tag)
			}
			k, err := intKindForWidth(width, ti.Kind.Unsigned(nil))
			if err != nil {
				return t, err
			}
			return &TInt{Kind: k, Attrs: ti.Attrs}, nil
		}
	}
	return typeAddAttrsPlain(al0, t), nil
}

func intKindForWidth(bytes int, unsigned bool) (IKind, error) {
	switch bytes {
	case 1:
		if unsigned {
			return IUChar, nil
		}
		return ISChar, nil
	case 2:
		if unsigned {
			return IUShort, nil
		}
		return IShort, nil
	case 4:
		if unsigned {
			return IUInt, nil
		}
		return IInt, nil
	case 8:
		if unsigned {
			return IULongLong, nil
		}
		return ILongLong, nil
	}
	return IInt, cilerr.Invalid(cilerr.PhaseBuild, "no integer kind of width %d", bytes)
}

// TypeRemoveAttributes drops the listed attribute names from t's
// outermost attribute list.
func TypeRemoveAttributes(names []string, t Type) Type {
	al := TypeAttrs(t)
	for _, n := range names {
		al = DropAttribute(n, al)
	}
	if len(al) == len(TypeAttrs(t)) {
		return t
	}
	return SetTypeAttrs(t, al)
}

// IsIntegralType reports whether the unrolled type is an integer or
// enumeration type.
func IsIntegralType(t Type) bool {
	switch UnrollType(t).(type) {
	case *TInt, *TEnum:
		return true
	}
	return false
}

// IsArithmeticType reports whether the unrolled type is integral or
// floating.
func IsArithmeticType(t Type) bool {
	switch UnrollType(t).(type) {
	case *TInt, *TEnum, *TFloat:
		return true
	}
	return false
}

// IsPointerType reports whether the unrolled type is a pointer.
func IsPointerType(t Type) bool {
	_, ok := UnrollType(t).(*TPtr)
	return ok
}

// IsArrayType reports whether the unrolled type is an array.
func IsArrayType(t Type) bool {
	_, ok := UnrollType(t).(*TArray)
	return ok
}

// IsFunctionType reports whether the unrolled type is a function type.
func IsFunctionType(t Type) bool {
	_, ok := UnrollType(t).(*TFun)
	return ok
}

// IsVoidType reports whether the unrolled type is void.
func IsVoidType(t Type) bool {
	_, ok := UnrollType(t).(*TVoid)
	return ok
}

// GetCompField finds a field of a composite by name.
func GetCompField(ci *CompInfo, name string) (*FieldInfo, error) {
	for _, f := range ci.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	what := "union"
	if ci.Struct {
		what = "struct"
	}
	return nil, cilerr.NotFound(cilerr.PhaseBuild, "field", name+" in "+what+" "+ci.Name)
}

// TypeOf returns the type of an expression. It panics with a bug error on
// a structurally invalid expression, such as Mem applied to a non-pointer.
func TypeOf(e Exp) Type {
	switch x := e.(type) {
	case *Const:
		switch c := x.C.(type) {
		case *CInt64:
			return &TInt{Kind: c.Kind}
		case *CChr:
			return &TInt{Kind: IInt}
		case *CStr:
			return &TPtr{Elem: &TInt{Kind: IChar}}
		case *CReal:
			return &TFloat{Kind: c.Kind}
		}
	case *Load:
		return TypeOfLval(x.Lv)
	case *SizeOfT, *SizeOfE, *AlignOfT, *AlignOfE:
		return &TInt{Kind: IUInt}
	case *Unary:
		return x.Type
	case *Binary:
		return x.Type
	case *Cast:
		return x.To
	case *AddrOf:
		return &TPtr{Elem: TypeOfLval(x.Lv)}
	case *StartOf:
		arr, ok := UnrollType(TypeOfLval(x.Lv)).(*TArray)
		if !ok {
			panic(cilerr.Bug(cilerr.PhaseBuild, "StartOf on a non-array lvalue"))
		}
		return &TPtr{Elem: arr.Elem}
	}
	panic(cilerr.Bug(cilerr.PhaseBuild, "typeOf: unknown expression"))
}

// TypeOfLval returns the type of an lvalue.
func TypeOfLval(lv *Lval) Type {
	var base Type
	switch h := lv.Host.(type) {
	case *Var:
		base = h.V.Type
	case *Mem:
		pt, ok := UnrollType(TypeOf(h.Addr)).(*TPtr)
		if !ok {
			panic(cilerr.Bug(cilerr.PhaseBuild, "Mem on a non-pointer expression"))
		}
		base = pt.Elem
	default:
		panic(cilerr.Bug(cilerr.PhaseBuild, "typeOfLval: unknown host"))
	}
	return TypeOffset(base, lv.Off)
}

// TypeOffset returns the type selected by applying an offset chain to a
// base type.
func TypeOffset(base Type, off Offset) Type {
	for off != nil {
		switch o := off.(type) {
		case *FieldOff:
			base = o.Field.Type
			off = o.Next
		case *IndexOff:
			arr, ok := UnrollType(base).(*TArray)
			if !ok {
				panic(cilerr.Bug(cilerr.PhaseBuild, "Index on a non-array type"))
			}
			base = arr.Elem
			off = o.Next
		default:
			panic(cilerr.Bug(cilerr.PhaseBuild, "typeOffset: unknown offset"))
		}
	}
	return base
}
