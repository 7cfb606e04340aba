// Package printer emits C source text for the cil intermediate
// representation.
//
// A Printer writes to a caller-supplied io.Writer and is configured with
// a target machine: the MSVC flag selects integer suffixes, __int64
// spellings, __declspec placement, __asm block syntax and #line
// directive spelling. Operator precedence, declarator nesting, storage
// and attribute placement follow the C grammar, so the output re-parses
// under the selected compiler.
//
//	var buf bytes.Buffer
//	p := printer.New(&buf, printer.Config{Machine: cil.GCC64()})
//	if err := p.File(file); err != nil {
//	    log.Fatal(err)
//	}
//
// Line directives are emitted when PrintLineNumbers is set, tracking the
// last printed file so the name is repeated only on change. A custom
// attribute hook can override the spelling of individual attributes.
package printer
