// Package jsonpack converts between JSON text and vpack documents: a
// recursive-descent parser that writes parsed values straight into a
// vpack.Builder, and a Dumper that walks a vpack.Slice back
// out to JSON text, compact or pretty.
//
// Grounded on original_source/JasonParser.cpp and JasonDumper.cpp: both
// parse and dump in a single pass over the wire-format tree rather than
// building an intermediate generic value first — the original itself
// parses directly into its builder in one recursive descent, which is
// what this package does too.
package jsonpack
