// Package scan provides the byte-level scanning primitives the JSON parser
// calls on string bodies and whitespace runs.
//
// Both primitives are defined here as pure scalar functions. A
// SIMD-accelerated implementation is a pure drop-in replacement behind the
// same signature — the same CPUID-dispatched-scanner-as-an-implementation-
// detail pattern minio-simdjson-go uses (stage2 tape building calls a
// family of `parse_string`/`find_whitespace` primitives selected once at
// package init by CPU feature detection, never by the caller). vpack does
// not ship a SIMD path; CopyUntilDelim/SkipWhitespace are the scalar
// fallback and must be sufficient on their own.
package scan

// delimiter classes for the unchecked scanner: quote, backslash, or any
// control byte below 0x20.
func isDelim(c byte) bool {
	return c == '"' || c == '\\' || c < 0x20
}

// CopyUntilDelim copies bytes from src into dst until the first of `"`,
// `\`, or a control byte < 0x20, or until limit bytes have been examined.
// It returns the number of bytes copied (and thus consumed from src).
func CopyUntilDelim(dst, src []byte, limit int) int {
	n := len(src)
	if limit < n {
		n = limit
	}
	if len(dst) < n {
		n = len(dst)
	}

	i := 0
	for ; i < n; i++ {
		if isDelim(src[i]) {
			break
		}
		dst[i] = src[i]
	}

	return i
}

// CopyUntilDelimChecked behaves like CopyUntilDelim but additionally stops
// at the first byte >= 0x80, so the parser's UTF-8 validator can take over
// one multi-byte sequence at a time.
func CopyUntilDelimChecked(dst, src []byte, limit int) int {
	n := len(src)
	if limit < n {
		n = limit
	}
	if len(dst) < n {
		n = len(dst)
	}

	i := 0
	for ; i < n; i++ {
		c := src[i]
		if isDelim(c) || c >= 0x80 {
			break
		}
		dst[i] = c
	}

	return i
}

// SkipWhitespace advances past a run of SP/TAB/LF/CR bytes (RFC 8259's
// whitespace set, narrower than the \f/\b-inclusive whitespace some older
// JSON-adjacent formats accept) and returns the number of bytes skipped.
func SkipWhitespace(src []byte, limit int) int {
	n := len(src)
	if limit < n {
		n = limit
	}

	i := 0
	for i < n {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}

	return i
}
