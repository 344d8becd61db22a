package vpack

import (
	"encoding/binary"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/internal/options"
	"github.com/arloliu/vpack/internal/pool"
	"github.com/arloliu/vpack/internal/seen"
)

// frame tracks one open Array or Object, from AddArray/AddObject through the
// matching Close(). Grounded on NumericEncoder.encoderState
// (blob/numeric_encoder.go): a small, sequential record of where this
// container's header was reserved and where its elements start, patched in
// place once the container's final size is known — generalized here from a
// single fixed-layout metric blob to an arbitrarily nested tree of
// containers, each with its own frame on an explicit stack.
type frame struct {
	isObject   bool
	startOff   int      // buffer offset of the reserved 9-byte placeholder header
	entries    []int    // buffer offset of each element (Array) or key (Object)
	keyBytes   [][]byte // Object only: a copy of each key, parallel to entries
	pendingKey bool     // Object only: AddKey was called, awaiting its value
	seenKeys   *seen.Keys
}

// placeholderHeaderSize is the worst-case front header reservation: 1 head
// byte + up to 8 byte-length bytes. No width/count combination needs more
// than 9 bytes at the front; W==8 containers relocate their
// count field to 8 trailing bytes instead, and W==4-with-count also totals
// 9 (1 + 4 + 4).
const placeholderHeaderSize = 9

// Builder incrementally constructs a vpack document. The
// zero value is not usable; create one with NewBuilder. A Builder is not
// safe for concurrent use.
type Builder struct {
	buf     pool.Buffer
	stack   []frame
	opts    Options
	started bool // true once any Add*/AddArray/AddObject has been called
	closed  bool // cleared by Clear; no Builder method sets or reads it
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	o := defaultOptions()
	_ = options.Apply(&o, opts...)

	return &Builder{opts: o}
}

// Clear resets the Builder to its initial empty state, reusing its
// underlying buffer allocation.
func (b *Builder) Clear() {
	b.buf.Truncate(0)
	b.stack = b.stack[:0]
	b.started = false
	b.closed = false
}

func (b *Builder) top() *frame {
	return &b.stack[len(b.stack)-1]
}

// precheck validates that a value (scalar, AddArray, or AddObject) may be
// written right now: either at the document root (nothing written yet), as
// an array element, or as an object value immediately following AddKey.
func (b *Builder) precheck() error {
	if len(b.stack) == 0 {
		if b.started {
			return errs.New(errs.KindBuilderUnexpectedValue, "document root already written")
		}

		return nil
	}

	f := b.top()
	if f.isObject && !f.pendingKey {
		return errs.New(errs.KindBuilderUnexpectedValue, "object value added without a preceding AddKey")
	}

	return nil
}

// recordValue notes that a value was just appended at the current top of
// frame (or the document root), updating pendingKey bookkeeping.
func (b *Builder) recordValue() {
	b.started = true
	if len(b.stack) == 0 {
		return
	}

	f := b.top()
	if f.isObject {
		f.pendingKey = false
	}
}

// openFrame pushes startOff as the beginning of a new Array/Object, writing
// the placeholder header.
func (b *Builder) openFrame(isObject bool) {
	start := b.buf.Len()
	b.buf.Prealloc(placeholderHeaderSize)

	f := frame{isObject: isObject, startOff: start}
	if isObject && b.opts.CheckAttributeUniqueness {
		f.seenKeys = seen.NewKeys()
	}
	b.stack = append(b.stack, f)
}

// AddArray opens a new Array; elements are added with Add/AddArray/
// AddObject until the matching Close().
func (b *Builder) AddArray() error {
	if err := b.precheck(); err != nil {
		return err
	}

	b.recordElementStart()
	b.openFrame(false)

	return nil
}

// AddObject opens a new Object; key/value pairs are added with
// AddKey followed by Add/AddArray/AddObject, until the matching Close().
func (b *Builder) AddObject() error {
	if err := b.precheck(); err != nil {
		return err
	}

	b.recordElementStart()
	b.openFrame(true)

	return nil
}

// recordElementStart notes, in the *parent* frame (if any), the buffer
// offset at which the value about to be written begins. Called before
// writing any Array element. Object values need no separate entry: AddKey
// already recorded the pair's offset, and the value is found by walking
// past the key's ByteSize() (see Slice.ValueAt).
func (b *Builder) recordElementStart() {
	if len(b.stack) == 0 {
		b.started = true
		return
	}

	f := b.top()
	if f.isObject {
		return
	}
	f.entries = append(f.entries, b.buf.Len())
}

// AddKey begins an Object pair by writing key as a String and marking the
// frame as awaiting its value.
func (b *Builder) AddKey(key string) error {
	if len(b.stack) == 0 {
		return errs.New(errs.KindBuilderNeedOpenObject, "AddKey called with no open Object")
	}

	f := b.top()
	if !f.isObject {
		return errs.New(errs.KindBuilderUnexpectedType, "AddKey called on an open Array")
	}
	if f.pendingKey {
		return errs.New(errs.KindBuilderUnexpectedValue, "AddKey called twice without an intervening value")
	}

	if f.seenKeys != nil && f.seenKeys.Add(key) {
		return errs.New(errs.KindDuplicateAttributeName, "duplicate attribute name: "+key)
	}
	if b.opts.ValidateUTF8Strings && !utf8.ValidString(key) {
		return errs.New(errs.KindInvalidUTF8Sequence, "AddKey: invalid UTF-8 in attribute name")
	}

	f.entries = append(f.entries, b.buf.Len())
	f.keyBytes = append(f.keyBytes, []byte(key))
	b.writeString(key)
	f.pendingKey = true

	return nil
}

// --- scalar writers ---

func (b *Builder) writeString(s string) {
	n := len(s)
	if n <= 126 {
		b.buf.Push(byte(headShortStringBase + n))
		b.buf.Append([]byte(s))

		return
	}

	b.buf.Push(headLongString)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(n))
	b.buf.Append(lenBuf[:])
	b.buf.Append([]byte(s))
}

func minIntWidth(v int64) int {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return 2
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return 4
	default:
		return 8
	}
}

func minUintWidth(v uint64) int {
	switch {
	case v <= math.MaxUint8:
		return 1
	case v <= math.MaxUint16:
		return 2
	case v <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

func (b *Builder) writeInt(v int64) {
	if v >= -6 && v <= 9 {
		b.writeSmallInt(v)
		return
	}

	w := minIntWidth(v)
	b.buf.Push(byte(headIntBase + w - 1))
	u := uint64(v)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	b.buf.Append(buf[:w])
}

func (b *Builder) writeUint(v uint64) {
	if v <= 9 {
		b.writeSmallInt(int64(v))
		return
	}

	w := minUintWidth(v)
	b.buf.Push(byte(headUIntBase + w - 1))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.buf.Append(buf[:w])
}

func (b *Builder) writeSmallInt(v int64) {
	if v >= 0 {
		b.buf.Push(byte(headSmallIntPos + v))
	} else {
		b.buf.Push(byte(int64(headSmallIntNeg) + 6 + v))
	}
}

func (b *Builder) writeDouble(v float64) {
	b.buf.Push(headDouble)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	b.buf.Append(buf[:])
}

func (b *Builder) writeBool(v bool) {
	if v {
		b.buf.Push(headBoolTrue)
	} else {
		b.buf.Push(headBoolFalse)
	}
}

func (b *Builder) writeBinary(v []byte) {
	w := minUintWidth(uint64(len(v)))
	if w < 1 {
		w = 1
	}
	b.buf.Push(byte(headBinaryBase + w - 1))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
	b.buf.Append(buf[:w])
	b.buf.Append(v)
}

func (b *Builder) writeUTCDate(ms int64) {
	b.buf.Push(headUTCDate)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(ms))
	b.buf.Append(buf[:])
}

// AddNull writes a Null value.
func (b *Builder) AddNull() error { return b.addScalar(func() { b.buf.Push(headNull) }) }

// AddMinKey writes a MinKey sentinel.
func (b *Builder) AddMinKey() error { return b.addScalar(func() { b.buf.Push(headMinKey) }) }

// AddMaxKey writes a MaxKey sentinel.
func (b *Builder) AddMaxKey() error { return b.addScalar(func() { b.buf.Push(headMaxKey) }) }

// AddExternal writes an opaque 8-byte External payload.
func (b *Builder) AddExternal(ptr uint64) error {
	return b.addScalar(func() {
		b.buf.Push(headExternal)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], ptr)
		b.buf.Append(buf[:])
	})
}

func (b *Builder) addScalar(write func()) error {
	if err := b.precheck(); err != nil {
		return err
	}

	b.recordElementStart()
	write()
	b.recordValue()

	return nil
}

// Add appends a scalar value, dispatching on v's Go type:
// nil -> Null, bool -> Bool, float32/float64 -> Double, any signed integer
// type -> Int (or SmallInt when -6..9), any unsigned integer type -> UInt
// (or SmallInt when 0..9), string -> String, []byte -> Binary, time.Time ->
// UTCDate (milliseconds since the epoch, UTC).
func (b *Builder) Add(v any) error {
	if err := b.precheck(); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		b.recordElementStart()
		b.buf.Push(headNull)
	case bool:
		b.recordElementStart()
		b.writeBool(t)
	case float64:
		b.recordElementStart()
		b.writeDouble(t)
	case float32:
		b.recordElementStart()
		b.writeDouble(float64(t))
	case int:
		b.recordElementStart()
		b.writeInt(int64(t))
	case int8:
		b.recordElementStart()
		b.writeInt(int64(t))
	case int16:
		b.recordElementStart()
		b.writeInt(int64(t))
	case int32:
		b.recordElementStart()
		b.writeInt(int64(t))
	case int64:
		b.recordElementStart()
		b.writeInt(t)
	case uint:
		b.recordElementStart()
		b.writeUint(uint64(t))
	case uint8:
		b.recordElementStart()
		b.writeUint(uint64(t))
	case uint16:
		b.recordElementStart()
		b.writeUint(uint64(t))
	case uint32:
		b.recordElementStart()
		b.writeUint(uint64(t))
	case uint64:
		b.recordElementStart()
		b.writeUint(t)
	case string:
		if b.opts.ValidateUTF8Strings && !utf8.ValidString(t) {
			return errs.New(errs.KindInvalidUTF8Sequence, "Add: invalid UTF-8 in string value")
		}
		b.recordElementStart()
		b.writeString(t)
	case []byte:
		b.recordElementStart()
		b.writeBinary(t)
	case time.Time:
		b.recordElementStart()
		b.writeUTCDate(t.UnixMilli())
	default:
		return errs.New(errs.KindBuilderUnexpectedType, "Add: unsupported Go type")
	}

	b.recordValue()

	return nil
}

// --- close ---

func maxForWidth(w int) uint64 {
	switch w {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 4:
		return 0xFFFFFFFF
	default:
		return math.MaxUint64
	}
}

// headerFrontSize returns the front-header size (head byte + byte-length,
// plus, when hasCount and w<8, an inline count field). Objects always
// hasCount; Arrays only when they carry an offset table.
func headerFrontSize(w int, hasCount bool) int {
	if hasCount && w < 8 {
		return 1 + 2*w // head + byteLength + count
	}

	return 1 + w // head + byteLength only; w==8 counts relocate to the trailer
}

// Close finalizes the innermost open Array/Object: empty
// containers collapse to a single head byte; non-empty containers pick the
// narrowest offset width that fits, compact their placeholder header down
// to that width, append an offset table (sorted, for Objects that want
// sorted keys) unless there is exactly one element or the container is an
// Array whose elements all have the same size, and patch in the final head
// byte, byte-length, and count.
func (b *Builder) Close() error {
	if len(b.stack) == 0 {
		return errs.New(errs.KindBuilderNeedOpenObject, "Close called with no open Array/Object")
	}

	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	n := len(f.entries)
	start := f.startOff
	contentEnd := b.buf.Len()

	if n == 0 {
		b.buf.Truncate(start)
		if f.isObject {
			b.buf.Push(headEmptyObject)
		} else {
			b.buf.Push(headEmptyArray)
		}
		b.recordValue()

		return nil
	}

	payloadBytes := contentEnd - (start + placeholderHeaderSize)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	isSorted := f.isObject && b.opts.SortAttributeNames
	if isSorted {
		sort.Slice(order, func(i, j int) bool {
			return compareKeys(f.keyBytes[order[i]], f.keyBytes[order[j]]) < 0
		})
	}

	uniform := !f.isObject && isUniformSize(f.entries, contentEnd)
	needsIdx := n > 1 && (f.isObject || !uniform)
	// hasCount mirrors needsIdxTable's reach in headtable.go: Objects always
	// carry a count field (when w<8); Arrays only in their offset-table head
	// range, which is exactly the range needsIdx selects.
	hasCount := f.isObject || needsIdx

	var w int
	var total int
	for _, cand := range []int{1, 2, 4, 8} {
		header := headerFrontSize(cand, hasCount)
		idxBytes := 0
		if needsIdx {
			idxBytes = n * cand
		}
		trailing := 0
		if hasCount && cand == 8 {
			trailing = 8
		}
		t := header + payloadBytes + idxBytes + trailing
		w = cand
		total = t
		if uint64(t) <= maxForWidth(cand) {
			break
		}
	}

	header := headerFrontSize(w, hasCount)
	shrinkBy := placeholderHeaderSize - header
	if shrinkBy > 0 {
		src := b.buf.Slice(start+placeholderHeaderSize, contentEnd)
		dst := make([]byte, len(src))
		copy(dst, src)
		copy(b.buf.Slice(start+header, start+header+len(dst)), dst)
		b.buf.Truncate(contentEnd - shrinkBy)
		contentEnd -= shrinkBy
	}

	if needsIdx {
		for _, idx := range order {
			orig := f.entries[idx]
			adjusted := header + (orig - (start + placeholderHeaderSize))
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(adjusted))
			b.buf.Append(buf[:w])
		}
	}

	if hasCount {
		if w == 8 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(n))
			b.buf.Append(buf[:])
		} else {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(n))
			copy(b.buf.Slice(start+1+w, start+1+2*w), buf[:w])
		}
	}

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(total))
	copy(b.buf.Slice(start+1, start+1+w), lenBuf[:w])

	var head byte
	switch {
	case !f.isObject && !needsIdx:
		head = headArrayNoIdx + byte(widthNibble(w))
	case !f.isObject:
		head = headArrayIdx + byte(widthNibble(w))
	case isSorted:
		head = headObjectSorted + byte(widthNibble(w))
	default:
		head = headObjectUnsorted + byte(widthNibble(w))
	}
	b.buf.PutAt(start, head)

	b.recordValue()

	return nil
}

// isUniformSize reports whether every element described by entries (their
// starts, with the container's current end as the final boundary) has the
// same byte size — the condition under which an Array can skip its offset
// table.
func isUniformSize(entries []int, end int) bool {
	if len(entries) <= 1 {
		return true
	}

	size := entries[1] - entries[0]
	for i := 1; i < len(entries)-1; i++ {
		if entries[i+1]-entries[i] != size {
			return false
		}
	}

	return end-entries[len(entries)-1] == size
}

// Slice returns a Slice over the document written so far. The Builder must
// have no open Array/Object (every AddArray/AddObject has a matching
// Close()); otherwise it returns an error.
func (b *Builder) Slice() (Slice, error) {
	if len(b.stack) != 0 {
		return Slice{}, errs.New(errs.KindBuilderNeedOpenObject, "Slice: unclosed Array/Object")
	}
	if !b.started {
		return Slice{}, errs.New(errs.KindBuilderUnexpectedValue, "Slice: nothing written")
	}

	return Slice{data: b.buf.Data()}, nil
}

// MustSlice is Slice without the error return, for call sites that have
// already verified the Builder is fully closed.
func (b *Builder) MustSlice() Slice {
	s, err := b.Slice()
	if err != nil {
		panic(err)
	}

	return s
}

// Steal transfers ownership of the written bytes out of the Builder,
// resetting it to empty. The Builder must have no open Array/Object.
func (b *Builder) Steal() ([]byte, error) {
	if len(b.stack) != 0 {
		return nil, errs.New(errs.KindBuilderNeedOpenObject, "Steal: unclosed Array/Object")
	}

	out := b.buf.Steal()
	b.started = false

	return out, nil
}
