package ir

// TSig is a canonical, sharing-free encoding of a type. Structural
// equality on signatures defines type equivalence modulo TNamed aliases
// and attribute order.
type TSig interface {
	isTSig()
}

// TSBase carries a non-structured type (void, integer, float, va_list)
// with its normalized attributes.
type TSBase struct {
	T Type
}

// TSPtr is a pointer signature.
type TSPtr struct {
	Elem  TSig
	Attrs []Attr
}

// TSArray is an array signature. Len is the constant-folded length, nil
// when unknown or not constant.
type TSArray struct {
	Elem  TSig
	Len   *int64
	Attrs []Attr
}

// TSComp identifies a composite by flavor and name, not by descriptor
// identity.
type TSComp struct {
	Struct bool
	Name   string
	Attrs  []Attr
}

// TSEnum identifies an enumeration by name.
type TSEnum struct {
	Name  string
	Attrs []Attr
}

// TSFun is a function signature.
type TSFun struct {
	Ret      TSig
	Params   []TSig
	Variadic bool
	Attrs    []Attr
}

func (*TSBase) isTSig()  {}
func (*TSPtr) isTSig()   {}
func (*TSArray) isTSig() {}
func (*TSComp) isTSig()  {}
func (*TSEnum) isTSig()  {}
func (*TSFun) isTSig()   {}

// TypeSig computes the signature of a type.
func TypeSig(t Type) TSig {
	return TypeSigWithAttrs(func(al []Attr) []Attr { return al }, t)
}

// TypeSigWithAttrs computes a signature while letting doAttrs post-process
// each attribute list, so callers can normalize or drop attributes.
func TypeSigWithAttrs(doAttrs func([]Attr) []Attr, t Type) TSig {
	norm := func(al []Attr) []Attr {
		return SortAttributes(doAttrs(al))
	}
	switch x := t.(type) {
	case *TVoid:
		return &TSBase{T: &TVoid{Attrs: norm(x.Attrs)}}
	case *TInt:
		return &TSBase{T: &TInt{Kind: x.Kind, Attrs: norm(x.Attrs)}}
	case *TFloat:
		return &TSBase{T: &TFloat{Kind: x.Kind, Attrs: norm(x.Attrs)}}
	case *TBuiltinVaList:
		return &TSBase{T: &TBuiltinVaList{Attrs: norm(x.Attrs)}}
	case *TPtr:
		return &TSPtr{Elem: TypeSigWithAttrs(doAttrs, x.Elem), Attrs: norm(x.Attrs)}
	case *TArray:
		var ln *int64
		if x.Len != nil {
			if v, ok := IsInteger(ConstFold(nil, false, x.Len)); ok {
				ln = &v
			}
		}
		return &TSArray{Elem: TypeSigWithAttrs(doAttrs, x.Elem), Len: ln, Attrs: norm(x.Attrs)}
	case *TComp:
		return &TSComp{Struct: x.Comp.Struct, Name: x.Comp.Name, Attrs: norm(AddAttributes(x.Attrs, x.Comp.Attrs))}
	case *TEnum:
		return &TSEnum{Name: x.Enum.Name, Attrs: norm(x.Attrs)}
	case *TFun:
		var params []TSig
		for _, p := range x.Params {
			params = append(params, TypeSigWithAttrs(doAttrs, p.Type))
		}
		return &TSFun{Ret: TypeSigWithAttrs(doAttrs, x.Ret), Params: params, Variadic: x.Variadic, Attrs: norm(x.Attrs)}
	case *TNamed:
		// Aliases are transparent: the named type's attributes merge into
		// the underlying signature.
		sig := TypeSigWithAttrs(doAttrs, x.Info.Type)
		return typeSigAddAttrs(norm(x.Attrs), sig)
	}
	return &TSBase{T: t}
}

// typeSigAddAttrs merges attributes into the outermost signature node.
func typeSigAddAttrs(al []Attr, s TSig) TSig {
	if len(al) == 0 {
		return s
	}
	switch x := s.(type) {
	case *TSBase:
		return &TSBase{T: typeAddAttrsPlain(al, x.T)}
	case *TSPtr:
		return &TSPtr{Elem: x.Elem, Attrs: AddAttributes(al, x.Attrs)}
	case *TSArray:
		return &TSArray{Elem: x.Elem, Len: x.Len, Attrs: AddAttributes(al, x.Attrs)}
	case *TSComp:
		return &TSComp{Struct: x.Struct, Name: x.Name, Attrs: AddAttributes(al, x.Attrs)}
	case *TSEnum:
		return &TSEnum{Name: x.Name, Attrs: AddAttributes(al, x.Attrs)}
	case *TSFun:
		return &TSFun{Ret: x.Ret, Params: x.Params, Variadic: x.Variadic, Attrs: AddAttributes(al, x.Attrs)}
	}
	return s
}

// TypeSigEqual compares two signatures structurally.
func TypeSigEqual(a, b TSig) bool {
	switch x := a.(type) {
	case *TSBase:
		y, ok := b.(*TSBase)
		return ok && baseTypeEqual(x.T, y.T)
	case *TSPtr:
		y, ok := b.(*TSPtr)
		return ok && attrsEqual(x.Attrs, y.Attrs) && TypeSigEqual(x.Elem, y.Elem)
	case *TSArray:
		y, ok := b.(*TSArray)
		if !ok || !attrsEqual(x.Attrs, y.Attrs) || !TypeSigEqual(x.Elem, y.Elem) {
			return false
		}
		if (x.Len == nil) != (y.Len == nil) {
			return false
		}
		return x.Len == nil || *x.Len == *y.Len
	case *TSComp:
		y, ok := b.(*TSComp)
		return ok && x.Struct == y.Struct && x.Name == y.Name && attrsEqual(x.Attrs, y.Attrs)
	case *TSEnum:
		y, ok := b.(*TSEnum)
		return ok && x.Name == y.Name && attrsEqual(x.Attrs, y.Attrs)
	case *TSFun:
		y, ok := b.(*TSFun)
		if !ok || x.Variadic != y.Variadic || len(x.Params) != len(y.Params) {
			return false
		}
		if !attrsEqual(x.Attrs, y.Attrs) || !TypeSigEqual(x.Ret, y.Ret) {
			return false
		}
		for i := range x.Params {
			if !TypeSigEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func baseTypeEqual(a, b Type) bool {
	switch x := a.(type) {
	case *TVoid:
		y, ok := b.(*TVoid)
		return ok && attrsEqual(x.Attrs, y.Attrs)
	case *TInt:
		y, ok := b.(*TInt)
		return ok && x.Kind == y.Kind && attrsEqual(x.Attrs, y.Attrs)
	case *TFloat:
		y, ok := b.(*TFloat)
		return ok && x.Kind == y.Kind && attrsEqual(x.Attrs, y.Attrs)
	case *TBuiltinVaList:
		y, ok := b.(*TBuiltinVaList)
		return ok && attrsEqual(x.Attrs, y.Attrs)
	}
	return false
}

func attrsEqual(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !AttrEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TypeEqual reports whether two types are equivalent modulo TNamed
// unrolling and attribute order.
func TypeEqual(a, b Type) bool {
	return TypeSigEqual(TypeSig(a), TypeSig(b))
}
