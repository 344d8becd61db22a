package jsonpack

import (
	"strconv"
	"strings"

	"github.com/arloliu/vpack"
	"github.com/arloliu/vpack/errs"
)

// NonJSONPolicy controls how the Dumper handles a value with no JSON
// equivalent (None, UTCDate, External, MinKey, MaxKey, Binary, BCD,
// Custom) — original_source/JasonDumper.cpp calls these
// handleUnsupportedType and always throws; vpack additionally offers a
// Nullify mode rather than forcing every caller to pre-filter.
type NonJSONPolicy int

const (
	// Fail returns errs.ErrNoJSONEquivalent the first time a value with no
	// JSON equivalent is encountered.
	Fail NonJSONPolicy = iota
	// Nullify renders such a value as JSON null instead of failing.
	Nullify
)

// CustomHandler renders a Custom-kind value as JSON text, given both the
// value itself and its parent container (an Array or Object, or the zero
// Slice at the document root). The returned string is written verbatim, so
// it must itself be valid JSON text.
type CustomHandler func(value, parent vpack.Slice) (string, error)

// DumpOptions configures Dump.
type DumpOptions struct {
	Pretty  bool
	Indent  string // used when Pretty is true; defaults to two spaces
	NonJSON NonJSONPolicy
	// Custom, when set, overrides NonJSON for Kind Custom values only.
	Custom CustomHandler
}

// Dump renders slice as JSON text.
func Dump(slice vpack.Slice, opts DumpOptions) (string, error) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}

	var sb strings.Builder
	d := &dumper{opts: opts, out: &sb}
	if err := d.dump(slice, vpack.Slice{}, 0); err != nil {
		return "", err
	}

	return sb.String(), nil
}

type dumper struct {
	opts DumpOptions
	out  *strings.Builder
}

func (d *dumper) newline(depth int) {
	if !d.opts.Pretty {
		return
	}
	d.out.WriteByte('\n')
	for i := 0; i < depth; i++ {
		d.out.WriteString(d.opts.Indent)
	}
}

func (d *dumper) dump(s, parent vpack.Slice, depth int) error {
	switch s.Type() {
	case vpack.Null:
		d.out.WriteString("null")
	case vpack.Bool:
		v, err := s.GetBool()
		if err != nil {
			return err
		}
		if v {
			d.out.WriteString("true")
		} else {
			d.out.WriteString("false")
		}
	case vpack.Double:
		v, err := s.GetDouble()
		if err != nil {
			return err
		}
		d.out.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case vpack.SmallInt, vpack.Int:
		v, err := s.GetInt()
		if err != nil {
			return err
		}
		d.out.WriteString(strconv.FormatInt(v, 10))
	case vpack.UInt:
		v, err := s.GetUInt()
		if err != nil {
			return err
		}
		d.out.WriteString(strconv.FormatUint(v, 10))
	case vpack.String:
		str, err := s.CopyString()
		if err != nil {
			return err
		}
		d.dumpString(str)
	case vpack.Array:
		return d.dumpArray(s, depth)
	case vpack.Object:
		return d.dumpObject(s, depth)
	case vpack.Custom:
		return d.dumpCustom(s, parent)
	default:
		return d.dumpUnsupported()
	}

	return nil
}

func (d *dumper) dumpCustom(s, parent vpack.Slice) error {
	if d.opts.Custom == nil {
		return d.dumpUnsupported()
	}

	text, err := d.opts.Custom(s, parent)
	if err != nil {
		return err
	}
	d.out.WriteString(text)

	return nil
}

func (d *dumper) dumpUnsupported() error {
	if d.opts.NonJSON == Nullify {
		d.out.WriteString("null")

		return nil
	}

	return errs.New(errs.KindNoJSONEquivalent, "value has no JSON equivalent")
}

func (d *dumper) dumpArray(s vpack.Slice, depth int) error {
	n, err := s.Length()
	if err != nil {
		return err
	}

	d.out.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			d.out.WriteByte(',')
		}
		d.newline(depth + 1)

		elem, err := s.At(i)
		if err != nil {
			return err
		}
		if err := d.dump(elem, s, depth+1); err != nil {
			return err
		}
	}
	if n > 0 {
		d.newline(depth)
	}
	d.out.WriteByte(']')

	return nil
}

func (d *dumper) dumpObject(s vpack.Slice, depth int) error {
	n, err := s.Length()
	if err != nil {
		return err
	}

	d.out.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			d.out.WriteByte(',')
		}
		d.newline(depth + 1)

		key, err := s.KeyAt(i)
		if err != nil {
			return err
		}
		keyStr, err := key.CopyString()
		if err != nil {
			return err
		}
		d.dumpString(keyStr)
		d.out.WriteByte(':')
		if d.opts.Pretty {
			d.out.WriteByte(' ')
		}

		val, err := s.ValueAt(i)
		if err != nil {
			return err
		}
		if err := d.dump(val, s, depth+1); err != nil {
			return err
		}
	}
	if n > 0 {
		d.newline(depth)
	}
	d.out.WriteByte('}')

	return nil
}

// escapeTable mirrors original_source/JasonDumper.cpp's EscapeTable: a
// single-character escape for the bytes that have one, 0 for bytes passed
// through unescaped, and 'u' for everything else below 0x20.
var escapeTable = buildEscapeTable()

func buildEscapeTable() [128]byte {
	var t [128]byte
	for i := 0; i < 0x20; i++ {
		t[i] = 'u'
	}
	t['\b'] = 'b'
	t['\t'] = 't'
	t['\n'] = 'n'
	t['\f'] = 'f'
	t['\r'] = 'r'
	t['"'] = '"'
	t['\\'] = '\\'
	t['/'] = '/'

	return t
}

func (d *dumper) dumpString(s string) {
	d.out.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			d.out.WriteByte(c)
			continue
		}

		esc := escapeTable[c]
		switch esc {
		case 0:
			d.out.WriteByte(c)
		case 'u':
			d.out.WriteString(`\u00`)
			d.out.WriteByte(hexDigit(c >> 4))
			d.out.WriteByte(hexDigit(c & 0x0f))
		default:
			d.out.WriteByte('\\')
			d.out.WriteByte(esc)
		}
	}
	d.out.WriteByte('"')
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}

	return 'A' + v - 10
}
