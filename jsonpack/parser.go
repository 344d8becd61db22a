package jsonpack

import (
	"strconv"

	"github.com/arloliu/vpack"
	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/internal/scan"
)

// ParseOptions configures Parse/ParseMulti.
type ParseOptions struct {
	// ValidateUTF8 rejects malformed UTF-8 byte sequences inside string
	// literals, rather than passing them through uninspected.
	ValidateUTF8 bool
	// Builder options forwarded to the vpack.Builder backing the result,
	// e.g. vpack.WithSortAttributeNames.
	BuilderOptions []vpack.BuilderOption
}

// Parse parses a single JSON text into a vpack document. Trailing bytes
// after the value (other than whitespace) are a parse error; use
// ParseMulti to read a whitespace-separated sequence of values from one
// buffer.
func Parse(data []byte, opts ParseOptions) (vpack.Slice, error) {
	p := newParser(data, opts)
	p.skipBOM()
	p.skipWS()

	if err := p.parseValue(); err != nil {
		return vpack.Slice{}, err
	}

	p.skipWS()
	if p.pos != len(p.data) {
		return vpack.Slice{}, errs.NewAt(errs.KindParseError, p.pos, "trailing data after JSON value")
	}

	return p.b.Slice()
}

// ParseMulti parses a sequence of whitespace-separated JSON texts from one
// buffer, returning one vpack.Slice per value.
func ParseMulti(data []byte, opts ParseOptions) ([]vpack.Slice, error) {
	p := newParser(data, opts)
	p.skipBOM()

	var out []vpack.Slice
	for {
		p.skipWS()
		if p.pos >= len(p.data) {
			break
		}

		p.b = vpack.NewBuilder(opts.BuilderOptions...)
		if err := p.parseValue(); err != nil {
			return nil, err
		}

		s, err := p.b.Slice()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

type parser struct {
	data         []byte
	pos          int
	b            *vpack.Builder
	validateUTF8 bool
}

func newParser(data []byte, opts ParseOptions) *parser {
	return &parser{
		data:         data,
		b:            vpack.NewBuilder(opts.BuilderOptions...),
		validateUTF8: opts.ValidateUTF8,
	}
}

func (p *parser) skipBOM() {
	if len(p.data) >= 3 && p.data[0] == 0xef && p.data[1] == 0xbb && p.data[2] == 0xbf {
		p.pos = 3
	}
}

func (p *parser) skipWS() {
	p.pos += scan.SkipWhitespace(p.data[p.pos:], len(p.data)-p.pos)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}

	return p.data[p.pos], true
}

func (p *parser) errAt(msg string) error {
	return errs.NewAt(errs.KindParseError, p.pos, msg)
}

// parseValue dispatches on the next non-whitespace byte (already skipped by
// the caller) to one of the JSON grammar productions.
func (p *parser) parseValue() error {
	c, ok := p.peek()
	if !ok {
		return p.errAt("unexpected end of input, expected value")
	}

	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return err
		}

		return p.b.Add(s)
	case c == 't':
		return p.parseLiteral("true", true)
	case c == 'f':
		return p.parseLiteral("false", false)
	case c == 'n':
		return p.parseLiteral("null", nil)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.errAt("unexpected character, expected value")
	}
}

func (p *parser) parseLiteral(lit string, value any) error {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return p.errAt("invalid literal")
	}
	p.pos += len(lit)

	if value == nil {
		return p.b.AddNull()
	}

	return p.b.Add(value)
}

func (p *parser) parseArray() error {
	p.pos++ // '['
	if err := p.b.AddArray(); err != nil {
		return err
	}

	p.skipWS()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return p.b.Close()
	}

	for {
		p.skipWS()
		if err := p.parseValue(); err != nil {
			return err
		}
		p.skipWS()

		c, ok := p.peek()
		if !ok {
			return p.errAt("unexpected end of input in array, expected ',' or ']'")
		}
		if c == ']' {
			p.pos++
			return p.b.Close()
		}
		if c != ',' {
			return p.errAt("expected ',' or ']' in array")
		}
		p.pos++
	}
}

func (p *parser) parseObject() error {
	p.pos++ // '{'
	if err := p.b.AddObject(); err != nil {
		return err
	}

	p.skipWS()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return p.b.Close()
	}

	for {
		p.skipWS()
		c, ok := p.peek()
		if !ok || c != '"' {
			return p.errAt("expected string key in object")
		}
		key, err := p.parseStringLiteral()
		if err != nil {
			return err
		}

		p.skipWS()
		c, ok = p.peek()
		if !ok || c != ':' {
			return p.errAt("expected ':' after object key")
		}
		p.pos++
		p.skipWS()

		if err := p.b.AddKey(key); err != nil {
			return err
		}
		if err := p.parseValue(); err != nil {
			return err
		}
		p.skipWS()

		c, ok = p.peek()
		if !ok {
			return p.errAt("unexpected end of input in object, expected ',' or '}'")
		}
		if c == '}' {
			p.pos++
			return p.b.Close()
		}
		if c != ',' {
			return p.errAt("expected ',' or '}' in object")
		}
		p.pos++
	}
}

// parseNumber scans a JSON number literal and writes it as Int, UInt, or
// Double depending on its shape.
func (p *parser) parseNumber() error {
	start := p.pos
	isFloat := false

	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}

	if c, ok := p.peek(); !ok || c < '0' || c > '9' {
		return p.errAt("invalid number: expected digit")
	}
	if p.data[p.pos] == '0' {
		p.pos++
	} else {
		for {
			c, ok := p.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			p.pos++
		}
	}

	if c, ok := p.peek(); ok && c == '.' {
		isFloat = true
		p.pos++
		if c, ok := p.peek(); !ok || c < '0' || c > '9' {
			return p.errAt("invalid number: expected digit after '.'")
		}
		for {
			c, ok := p.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			p.pos++
		}
	}

	if c, ok := p.peek(); ok && (c == 'e' || c == 'E') {
		isFloat = true
		p.pos++
		if c, ok := p.peek(); ok && (c == '+' || c == '-') {
			p.pos++
		}
		if c, ok := p.peek(); !ok || c < '0' || c > '9' {
			return p.errAt("invalid number: expected digit in exponent")
		}
		for {
			c, ok := p.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			p.pos++
		}
	}

	lit := string(p.data[start:p.pos])

	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return errs.NewAt(errs.KindNumberOutOfRange, start, "number out of range: "+lit)
		}

		return p.b.Add(f)
	}

	if lit[0] == '-' {
		i, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return errs.NewAt(errs.KindNumberOutOfRange, start, "integer out of range: "+lit)
		}

		return p.b.Add(i)
	}

	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return errs.NewAt(errs.KindNumberOutOfRange, start, "integer out of range: "+lit)
	}

	return p.b.Add(u)
}

// parseStringLiteral parses a JSON string starting at the opening '"' and
// returns its unescaped body.
func (p *parser) parseStringLiteral() (string, error) {
	p.pos++ // opening '"'

	var out []byte
	var highSurrogate rune

	for {
		scratch := make([]byte, len(p.data)-p.pos)
		var n int
		if p.validateUTF8 {
			n = scan.CopyUntilDelimChecked(scratch, p.data[p.pos:], len(scratch))
		} else {
			n = scan.CopyUntilDelim(scratch, p.data[p.pos:], len(scratch))
		}
		if n > 0 {
			out = append(out, scratch[:n]...)
			p.pos += n
			highSurrogate = 0
		}

		c, ok := p.peek()
		if !ok {
			return "", p.errAt("unfinished string literal")
		}

		switch {
		case c == '"':
			p.pos++
			return string(out), nil
		case c == '\\':
			p.pos++
			esc, ok := p.peek()
			if !ok {
				return "", p.errAt("unfinished escape sequence")
			}
			p.pos++

			switch esc {
			case '"', '\\', '/':
				out = append(out, esc)
				highSurrogate = 0
			case 'b':
				out = append(out, '\b')
				highSurrogate = 0
			case 'f':
				out = append(out, '\f')
				highSurrogate = 0
			case 'n':
				out = append(out, '\n')
				highSurrogate = 0
			case 'r':
				out = append(out, '\r')
				highSurrogate = 0
			case 't':
				out = append(out, '\t')
				highSurrogate = 0
			case 'u':
				v, err := p.parseHex4()
				if err != nil {
					return "", err
				}

				switch {
				case v >= 0xdc00 && v <= 0xdfff && highSurrogate != 0:
					r := 0x10000 + (highSurrogate-0xd800)<<10 + (rune(v) - 0xdc00)
					// Overwrite the 3-byte placeholder the high surrogate
					// alone encoded as, with the combined 4-byte sequence.
					out = out[:len(out)-3]
					out = appendRune(out, r)
					highSurrogate = 0
				case v >= 0xd800 && v <= 0xdbff:
					highSurrogate = rune(v)
					out = appendRune(out, rune(v))
				default:
					highSurrogate = 0
					out = appendRune(out, rune(v))
				}
			default:
				return "", p.errAt("illegal escape character")
			}
		case c < 0x20:
			return "", errs.NewAt(errs.KindUnexpectedControlCharacter, p.pos, "control character in string literal")
		case c >= 0x80:
			// A validated multi-byte sequence boundary: re-scan one rune
			// worth of bytes and validate it explicitly.
			r, size, err := p.decodeRune()
			if err != nil {
				return "", err
			}
			out = appendRune(out, r)
			p.pos += size
			highSurrogate = 0
		default:
			return "", p.errAt("unreachable string byte")
		}
	}
}

func (p *parser) parseHex4() (uint32, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errAt("unfinished \\u escape")
	}

	var v uint32
	for i := 0; i < 4; i++ {
		c := p.data[p.pos+i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, p.errAt("illegal hex digit in \\u escape")
		}
	}
	p.pos += 4

	return v, nil
}

// decodeRune validates and decodes one UTF-8 sequence starting at p.pos,
// following the exact byte-class rules original_source/JasonParser.cpp
// applies (2/3/4-byte sequences, rejecting stray continuation bytes and
// 5-/6-byte sequences outright).
func (p *parser) decodeRune() (rune, int, error) {
	b := p.data[p.pos:]
	c := b[0]

	var follow int
	var r rune
	switch {
	case c&0xe0 == 0xc0:
		follow, r = 1, rune(c&0x1f)
	case c&0xf0 == 0xe0:
		follow, r = 2, rune(c&0x0f)
	case c&0xf8 == 0xf0:
		follow, r = 3, rune(c&0x07)
	default:
		return 0, 0, p.errAt("illegal UTF-8 lead byte")
	}

	if len(b) < follow+1 {
		return 0, 0, p.errAt("truncated UTF-8 sequence")
	}
	for i := 1; i <= follow; i++ {
		if b[i]&0xc0 != 0x80 {
			return 0, 0, errs.NewAt(errs.KindInvalidUTF8Sequence, p.pos, "invalid UTF-8 continuation byte")
		}
		r = r<<6 | rune(b[i]&0x3f)
	}

	return r, follow + 1, nil
}

// appendRune appends r's UTF-8 encoding to dst, including encodings for
// lone surrogate code points (0xd800-0xdfff), which Go's utf8 package
// would otherwise replace with U+FFFD — original_source round-trips an
// unpaired surrogate as its raw 3-byte CESU-8-style encoding instead.
func appendRune(dst []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, byte(0xc0+(r>>6)), byte(0x80+(r&0x3f)))
	case r < 0x10000:
		return append(dst, byte(0xe0+(r>>12)), byte(0x80+((r>>6)&0x3f)), byte(0x80+(r&0x3f)))
	default:
		return append(dst,
			byte(0xf0+(r>>18)), byte(0x80+((r>>12)&0x3f)),
			byte(0x80+((r>>6)&0x3f)), byte(0x80+(r&0x3f)))
	}
}
