// Package xmlpull implements a forward-only, pull-style XML 1.0 parser.
//
// A Reader is constructed over a byte source — a file path, a borrowed
// io.Reader, an in-memory byte slice, or a caller-supplied CharacterReader
// — and driven by repeated calls to ReadNode. Each call advances the
// parser by exactly one node (start element, end element, text, …) and
// exposes it through the Reader's accessor methods until the next call.
//
// The parser performs its own Unicode decoding (UTF-8, UTF-16, UTF-32,
// with byte-order-mark detection), its own well-formedness checking, and
// its own namespace resolution. It does not build a DOM, does not read
// DTDs, does not resolve external entities, and does not evaluate XPath;
// those are explicit non-goals. Memory use beyond the element-nesting
// stack and the current node's buffers is constant in document size.
package xmlpull
