// Package cil provides an intermediate representation for ISO C programs
// together with the core engines that operate on it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	cil/                 Root package with the target Machine data model
//	├── ir/              Typed abstract syntax tree, attributes, type
//	│                    signatures, constructors, layout engine, constant
//	│                    folder, visitor framework, CFG builder, alpha
//	│                    naming and function cloning
//	├── printer/         Emission of C source text (GCC and MSVC dialects)
//	├── errors/          Structured error types for debugging
//	└── cmd/cilview/     CLI and interactive inspector for IR values
//
// # Quick Start
//
// Build a translation unit and print it back as C:
//
//	f := &ir.File{Name: "hello.c"}
//	fd := ir.EmptyFunction("main")
//	f.Globals = append(f.Globals, &ir.GFun{Fn: fd})
//
//	p := printer.New(os.Stdout, printer.Config{Machine: cil.GCC64()})
//	p.File(f)
//
// Compute the layout of a composite type:
//
//	size, err := ir.BitsSizeOf(cil.GCC64(), &ir.TComp{Comp: ci})
//
// # Targets
//
// Two compiler models are supported, selected by the Machine value: a
// GCC-family model and an MSVC-family model. They differ in integer
// suffixes, 64-bit integer spellings, declspec placement, inline assembly
// syntax, line directives, and bitfield packing rules.
//
// # Sharing
//
// Composite descriptors (CompInfo), enumeration descriptors (EnumInfo),
// typedef descriptors (TypeInfo) and variables (VarInfo) are canonical:
// exactly one Go object exists per entity and every use references it by
// pointer. The visitor framework preserves this sharing; CopyFunction is
// the approved mechanism for producing an independently mutable clone.
//
// The IR is a single-owner in-memory structure. No package in this module
// is safe for concurrent mutation of a shared File.
package cil
