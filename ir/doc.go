// Package ir provides a typed intermediate representation for ISO C
// programs and the core engines that operate on it.
//
// # The IR
//
// A translation unit is a File holding an ordered list of globals:
// typedefs, struct/union and enum tags, variable declarations and
// definitions, function definitions, top-level assembly, pragmas and
// verbatim text. Types, expressions, lvalues, initializers, instructions
// and statements are tagged variants realized as small interfaces with
// pointer-struct implementations.
//
// Composite descriptors (CompInfo), enumeration descriptors (EnumInfo),
// typedef descriptors (TypeInfo) and variables (VarInfo) are canonical:
// one object per entity, referenced by pointer everywhere, mutated in
// place. Compare them by address, never by structure. Forward references
// for recursive composites are built with MkCompInfo, whose field-spec
// closure receives the composite's own TComp before the fields are
// stored.
//
// # Services
//
//	Construction:  MakeGlobalVar, MakeLocalVar, MakeTempVar, MkCompInfo,
//	               EmptyFunction, MkStmt, MkWhile, MkFor, MkForIncr, ...
//	Attributes:    AddAttribute and friends; lists stay sorted by name
//	Signatures:    TypeSig/TypeSigEqual define equivalence modulo typedef
//	               aliases and attribute order
//	Layout:        AlignOf, BitsSizeOf, BitsOffset, SizeOf under a
//	               cil.Machine target (GCC or MSVC packing rules)
//	Folding:       ConstFold with 64-bit integer semantics
//	Traversal:     the Visitor interface with Skip/ChangeTo/DoChildren/
//	               ChangeDoChildrenPost actions and identity-preserving
//	               rebuilds
//	Control flow:  ComputeCFGInfo fills statement ids and succ/pred links
//	Freshness:     AlphaTable/NewAlphaName and CopyFunction
//
// Warnings (integer truncation, unresolvable gotos) and debug traces go
// through the zap logger installed with SetLogger; the default is a
// no-op logger.
package ir
