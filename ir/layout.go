package ir

import (
	cil "github.com/keremc/cil"
	cilerr "github.com/keremc/cil/errors"
)

// typeName renders a type tersely for error messages.
func typeName(t Type) string {
	switch x := t.(type) {
	case *TVoid:
		return "void"
	case *TInt:
		return x.Kind.String()
	case *TFloat:
		return x.Kind.String()
	case *TPtr:
		return typeName(x.Elem) + " *"
	case *TArray:
		return typeName(x.Elem) + " []"
	case *TFun:
		return typeName(x.Ret) + " ()"
	case *TNamed:
		return x.Info.Name
	case *TComp:
		if x.Comp.Struct {
			return "struct " + x.Comp.Name
		}
		return "union " + x.Comp.Name
	case *TEnum:
		return "enum " + x.Enum.Name
	case *TBuiltinVaList:
		return "__builtin_va_list"
	}
	return "?"
}

// AlignOf returns the byte alignment of a type under the given target.
func AlignOf(m *cil.Machine, t Type) (int, error) {
	switch x := UnrollType(t).(type) {
	case *TVoid:
		return 1, nil
	case *TInt:
		switch x.Kind {
		case IChar, ISChar, IUChar:
			return 1, nil
		case IShort, IUShort:
			return m.SizeofShort, nil
		case IInt, IUInt:
			return m.SizeofInt, nil
		case ILong, IULong:
			return m.SizeofLong, nil
		default:
			return m.AlignofLongLong, nil
		}
	case *TEnum:
		return m.SizeofEnum, nil
	case *TFloat:
		switch x.Kind {
		case FFloat:
			return m.SizeofFloat, nil
		case FDouble:
			return m.AlignofDouble, nil
		default:
			return m.AlignofLongDbl, nil
		}
	case *TPtr:
		return m.SizeofPtr, nil
	case *TBuiltinVaList:
		return m.SizeofPtr, nil
	case *TArray:
		return AlignOf(m, x.Elem)
	case *TComp:
		return alignOfComp(m, x.Comp)
	case *TFun:
		return 0, cilerr.SizeOf(typeName(t), "alignment of a function type")
	}
	return 0, cilerr.Bug(cilerr.PhaseLayout, "alignOf: unknown type")
}

// alignOfComp is the max alignment across fields, dropping zero-width
// bitfields: GCC drops all of them, MSVC only those not preceded by a
// bitfield.
func alignOfComp(m *cil.Machine, ci *CompInfo) (int, error) {
	align := 1
	prevBitfield := false
	for _, f := range ci.Fields {
		zeroWidth := f.Bitfield != nil && *f.Bitfield == 0
		drop := zeroWidth && (!m.MSVC || !prevBitfield)
		prevBitfield = f.Bitfield != nil
		if drop {
			continue
		}
		fa, err := AlignOf(m, f.Type)
		if err != nil {
			return 0, err
		}
		if fa > align {
			align = fa
		}
	}
	return align, nil
}

// offsetAcc accumulates field placement. All quantities are bits.
type offsetAcc struct {
	firstFree int64 // first bit not yet consumed
	lastStart int64 // start of the most recently placed field
	lastWidth int64 // width of the most recently placed field
	pack      *packState
}

// packState is the MSVC bit-pack: a run of consecutive bitfields sharing
// one storage unit.
type packState struct {
	start int64 // bit where the pack's storage unit begins
	kind  IKind
	width int64 // storage unit width in bits
}

func alignUpBits(v, align int64) int64 {
	if align <= 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// offsetOfFieldAcc places one field after the accumulated ones, under the
// target's rules.
func offsetOfFieldAcc(m *cil.Machine, f *FieldInfo, acc offsetAcc) (offsetAcc, error) {
	if m.MSVC {
		return offsetOfFieldAccMSVC(m, f, acc)
	}
	return offsetOfFieldAccGCC(m, f, acc)
}

func offsetOfFieldAccGCC(m *cil.Machine, f *FieldInfo, acc offsetAcc) (offsetAcc, error) {
	align, err := AlignOf(m, f.Type)
	if err != nil {
		return acc, err
	}
	alignBits := int64(8 * align)

	if f.Bitfield != nil {
		w := int64(*f.Bitfield)
		if w == 0 {
			// Round up to the field type's alignment boundary.
			start := alignUpBits(acc.firstFree, alignBits)
			return offsetAcc{firstFree: start, lastStart: start, lastWidth: 0}, nil
		}
		sizeBits, err := BitsSizeOf(m, f.Type)
		if err != nil {
			return acc, err
		}
		start := acc.firstFree
		// A bitfield may cross only as many alignment boundaries as fit in
		// its own type; otherwise it is realigned.
		crossed := (start+w-1)/alignBits - start/alignBits
		maxCross := sizeBits/alignBits - 1
		if crossed > maxCross {
			start = alignUpBits(start, alignBits)
		}
		return offsetAcc{firstFree: start + w, lastStart: start, lastWidth: w}, nil
	}

	sizeBits, err := BitsSizeOf(m, f.Type)
	if err != nil {
		return acc, err
	}
	start := alignUpBits(acc.firstFree, alignBits)
	return offsetAcc{firstFree: start + sizeBits, lastStart: start, lastWidth: sizeBits}, nil
}

func offsetOfFieldAccMSVC(m *cil.Machine, f *FieldInfo, acc offsetAcc) (offsetAcc, error) {
	align, err := AlignOf(m, f.Type)
	if err != nil {
		return acc, err
	}
	alignBits := int64(8 * align)

	if f.Bitfield == nil {
		if acc.pack != nil {
			acc.firstFree = acc.pack.start + acc.pack.width
			acc.pack = nil
		}
		sizeBits, err := BitsSizeOf(m, f.Type)
		if err != nil {
			return acc, err
		}
		start := alignUpBits(acc.firstFree, alignBits)
		return offsetAcc{firstFree: start + sizeBits, lastStart: start, lastWidth: sizeBits}, nil
	}

	sizeBits, err := BitsSizeOf(m, f.Type)
	if err != nil {
		return acc, err
	}
	w := int64(*f.Bitfield)

	// A bitfield of a different storage width closes the current pack and
	// retries from the advanced position.
	if acc.pack != nil && acc.pack.width != sizeBits {
		acc.firstFree = acc.pack.start + acc.pack.width
		acc.pack = nil
		return offsetOfFieldAccMSVC(m, f, acc)
	}

	if w == 0 {
		if acc.pack != nil {
			acc.firstFree = acc.pack.start + acc.pack.width
			acc.pack = nil
		}
		start := alignUpBits(acc.firstFree, alignBits)
		ik := IInt
		if ti, ok := UnrollType(f.Type).(*TInt); ok {
			ik = ti.Kind
		}
		return offsetAcc{
			firstFree: start,
			lastStart: start,
			lastWidth: 0,
			pack:      &packState{start: start, kind: ik, width: sizeBits},
		}, nil
	}

	if acc.pack != nil {
		used := acc.firstFree - acc.pack.start
		if used+w <= acc.pack.width {
			return offsetAcc{
				firstFree: acc.firstFree + w,
				lastStart: acc.firstFree,
				lastWidth: w,
				pack:      acc.pack,
			}, nil
		}
		// Same width but no room: close and retry, opening a fresh pack.
		acc.firstFree = acc.pack.start + acc.pack.width
		acc.pack = nil
		return offsetOfFieldAccMSVC(m, f, acc)
	}

	// First bitfield opens a pack at the aligned position.
	start := alignUpBits(acc.firstFree, alignBits)
	ik := IInt
	if ti, ok := UnrollType(f.Type).(*TInt); ok {
		ik = ti.Kind
	}
	return offsetAcc{
		firstFree: start + w,
		lastStart: start,
		lastWidth: w,
		pack:      &packState{start: start, kind: ik, width: sizeBits},
	}, nil
}

// BitsSizeOf computes the total size of a type in bits.
func BitsSizeOf(m *cil.Machine, t Type) (int64, error) {
	switch x := UnrollType(t).(type) {
	case *TInt:
		return int64(8 * x.Kind.BytesSize(m)), nil
	case *TFloat:
		return int64(8 * x.Kind.BytesSize(m)), nil
	case *TEnum:
		return int64(8 * m.SizeofEnum), nil
	case *TPtr:
		return int64(8 * m.SizeofPtr), nil
	case *TBuiltinVaList:
		return int64(8 * m.SizeofVaList), nil
	case *TVoid:
		return 0, cilerr.SizeOf("void", "zero-sized type")
	case *TFun:
		return 0, cilerr.SizeOf(typeName(t), "function type")
	case *TArray:
		if x.Len == nil {
			return 0, cilerr.SizeOf(typeName(t), "array of unknown length")
		}
		n, ok := IsInteger(ConstFold(m, true, x.Len))
		if !ok {
			return 0, cilerr.SizeOf(typeName(t), "array length is not constant")
		}
		elem, err := BitsSizeOf(m, x.Elem)
		if err != nil {
			return 0, err
		}
		return elem * n, nil
	case *TComp:
		return bitsSizeOfComp(m, x.Comp)
	}
	return 0, cilerr.Bug(cilerr.PhaseLayout, "bitsSizeOf: unknown type")
}

func bitsSizeOfComp(m *cil.Machine, ci *CompInfo) (int64, error) {
	what := "union"
	if ci.Struct {
		what = "struct"
	}
	if len(ci.Fields) == 0 {
		return 0, cilerr.SizeOf(what+" "+ci.Name, "abstract type")
	}

	align, err := alignOfComp(m, ci)
	if err != nil {
		return 0, err
	}
	alignBits := int64(8 * align)

	if !ci.Struct {
		var max int64
		for _, f := range ci.Fields {
			acc, err := offsetOfFieldAcc(m, f, offsetAcc{})
			if err != nil {
				return 0, err
			}
			if acc.firstFree > max {
				max = acc.firstFree
			}
		}
		return alignUpBits(max, alignBits), nil
	}

	if m.MSVC {
		onlyZeroWidth := true
		for _, f := range ci.Fields {
			if f.Bitfield == nil || *f.Bitfield != 0 {
				onlyZeroWidth = false
				break
			}
		}
		if onlyZeroWidth {
			// MSVC gives a struct of only zero-width bitfields one int of
			// storage, unpadded.
			return 32, nil
		}
	}

	acc := offsetAcc{}
	for _, f := range ci.Fields {
		acc, err = offsetOfFieldAcc(m, f, acc)
		if err != nil {
			return 0, err
		}
	}
	if m.MSVC && acc.pack != nil {
		acc.firstFree = acc.pack.start + acc.pack.width
	}
	return alignUpBits(acc.firstFree, alignBits), nil
}

// SizeOf returns the size in bytes of a type as an expression, or the
// unevaluated sizeof when the layout engine cannot compute it.
func SizeOf(m *cil.Machine, t Type) Exp {
	bits, err := BitsSizeOf(m, t)
	if err != nil {
		return &SizeOfT{T: t}
	}
	return Integer(bits / 8)
}

// BitsOffset returns the bit offset and bit width designated by applying
// an offset chain to a base type. Array indexes must constant-fold.
func BitsOffset(m *cil.Machine, base Type, off Offset) (start, width int64, err error) {
	switch o := off.(type) {
	case nil:
		w, err := BitsSizeOf(m, base)
		return 0, w, err

	case *IndexOff:
		arr, ok := UnrollType(base).(*TArray)
		if !ok {
			return 0, 0, cilerr.Bug(cilerr.PhaseLayout, "Index offset on non-array %s", typeName(base))
		}
		elemBits, err := BitsSizeOf(m, arr.Elem)
		if err != nil {
			return 0, 0, err
		}
		idx, ok := IsInteger(ConstFold(m, true, o.Index))
		if !ok {
			return 0, 0, cilerr.SizeOf(typeName(base), "array index is not constant")
		}
		if o.Next == nil {
			return idx * elemBits, elemBits, nil
		}
		s2, w2, err := BitsOffset(m, arr.Elem, o.Next)
		if err != nil {
			return 0, 0, err
		}
		return idx*elemBits + s2, w2, nil

	case *FieldOff:
		fi := o.Field
		var fieldStart, fieldWidth int64
		if fi.Comp.Struct {
			acc := offsetAcc{}
			found := false
			for _, f := range fi.Comp.Fields {
				acc, err = offsetOfFieldAcc(m, f, acc)
				if err != nil {
					return 0, 0, err
				}
				if f == fi {
					found = true
					break
				}
			}
			if !found {
				return 0, 0, cilerr.Bug(cilerr.PhaseLayout, "field %q not in struct %s", fi.Name, fi.Comp.Name)
			}
			fieldStart, fieldWidth = acc.lastStart, acc.lastWidth
		} else {
			fieldStart = 0
			if fi.Bitfield != nil {
				fieldWidth = int64(*fi.Bitfield)
			} else {
				fieldWidth, err = BitsSizeOf(m, fi.Type)
				if err != nil {
					return 0, 0, err
				}
			}
		}
		if o.Next == nil {
			return fieldStart, fieldWidth, nil
		}
		s2, w2, err := BitsOffset(m, fi.Type, o.Next)
		if err != nil {
			return 0, 0, err
		}
		return fieldStart + s2, w2, nil
	}
	return 0, 0, cilerr.Bug(cilerr.PhaseLayout, "bitsOffset: unknown offset")
}
