package cil

// Machine describes the data model of a compilation target. The layout
// engine and the constant folder read sizes and alignments from it; the
// printer reads the MSVC flag to select dialect spellings.
//
// Alignments not listed explicitly equal the corresponding size, except
// va_list, which is aligned like a pointer. The char family always has
// size and alignment 1.
type Machine struct {
	// MSVC selects the MSVC dialect: integer suffixes, __int64 spellings,
	// __declspec placement, __asm blocks, #line directives, and the MSVC
	// bitfield packing rules.
	MSVC bool

	// CharUnsigned reports whether plain char is an unsigned type.
	CharUnsigned bool

	SizeofShort    int
	SizeofInt      int
	SizeofLong     int
	SizeofLongLong int
	SizeofPtr      int
	SizeofEnum     int
	SizeofFloat    int
	SizeofDouble   int
	SizeofLongDbl  int
	SizeofVaList   int

	AlignofLongLong int
	AlignofDouble   int
	AlignofLongDbl  int
}

// GCC64 returns the data model of a GCC x86-64 SysV target.
func GCC64() *Machine {
	return &Machine{
		SizeofShort:     2,
		SizeofInt:       4,
		SizeofLong:      8,
		SizeofLongLong:  8,
		SizeofPtr:       8,
		SizeofEnum:      4,
		SizeofFloat:     4,
		SizeofDouble:    8,
		SizeofLongDbl:   16,
		SizeofVaList:    24,
		AlignofLongLong: 8,
		AlignofDouble:   8,
		AlignofLongDbl:  16,
	}
}

// MSVC32 returns the data model of a 32-bit MSVC target.
func MSVC32() *Machine {
	return &Machine{
		MSVC:            true,
		SizeofShort:     2,
		SizeofInt:       4,
		SizeofLong:      4,
		SizeofLongLong:  8,
		SizeofPtr:       4,
		SizeofEnum:      4,
		SizeofFloat:     4,
		SizeofDouble:    8,
		SizeofLongDbl:   8,
		SizeofVaList:    4,
		AlignofLongLong: 8,
		AlignofDouble:   8,
		AlignofLongDbl:  8,
	}
}
