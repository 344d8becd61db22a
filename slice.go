package vpack

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/internal/digest"
)

// Slice is a non-owning, pointer-sized view over a byte region whose first
// byte is a valid value header. It does not copy or
// retain the underlying bytes; the caller must keep them alive for as long
// as the Slice (or any Slice derived from it) is used. Multiple Slices may
// alias the same storage; all Slice methods are read-only.
type Slice struct {
	data []byte
}

// NewSlice wraps data, whose first byte must be a valid value header. The
// returned Slice aliases data; ByteSize() bounds how much of it belongs to
// this value, but no bounds or well-formedness checking is performed here —
// malformed input surfaces as errors (or, for adversarial input, possibly
// a panic) from the accessor that first needs to read past the end.
func NewSlice(data []byte) Slice {
	return Slice{data: data}
}

// Type returns the value's logical tag.
func (s Slice) Type() Kind {
	if len(s.data) == 0 {
		return None
	}

	return typeOfTable[s.data[0]]
}

// IsNone, IsNull etc. are small conveniences mirroring
// BlobReader.IsNumeric()/IsText() self-description methods.
func (s Slice) IsNone() bool   { return s.Type() == None }
func (s Slice) IsNull() bool   { return s.Type() == Null }
func (s Slice) IsArray() bool  { return s.Type() == Array }
func (s Slice) IsObject() bool { return s.Type() == Object }

func readUint(data []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	case 8:
		return binary.LittleEndian.Uint64(data)
	default:
		panic("vpack: invalid width")
	}
}

// ByteSize returns the total number of bytes this value occupies, head
// byte through its last byte inclusive.
func (s Slice) ByteSize() int {
	return byteSizeAt(s.data)
}

func byteSizeAt(data []byte) int {
	head := data[0]
	switch head {
	case headNone, headNull, headBoolFalse, headBoolTrue, headMinKey, headMaxKey:
		return 1
	case headEmptyArray, headEmptyObject:
		return 1
	case headDouble, headUTCDate:
		return 9
	case headExternal:
		// Pointer-sized payload; fixed at 8 bytes within our own wire format
		// regardless of host pointer width.
		return 9
	case headLongString:
		length := readUint(data[1:9], 8)
		return 9 + int(length)
	}

	switch {
	case head >= headIntBase && head <= headIntBase+7:
		return 1 + intByteCount(head)
	case head >= headUIntBase && head <= headUIntBase+7:
		return 1 + uintByteCount(head)
	case head >= headSmallIntPos && head <= headSmallIntPos+9:
		return 1
	case head >= headSmallIntNeg && head <= headSmallIntNeg+5:
		return 1
	case head >= headShortStringBase && head <= 0xbe:
		return 1 + shortStringLen(head)
	case head >= headBinaryBase && head <= headBinaryBase+7:
		w := binaryLenWidth(head)
		length := readUint(data[1:1+w], w)
		return 1 + w + int(length)
	case isContainerHead(head):
		w := widthTable[head]
		return int(readUint(data[1:1+w], w))
	case head >= headBCDPosBase && head <= headBCDNegBase+7:
		// BCD is reserved and no Builder method writes it; a generic reader
		// cannot size it since no length encoding is defined for it.
		return 1
	default:
		// Custom: length is known only to the caller's context, not the wire
		// format itself; see Dumper's Custom callback.
		return 1
	}
}

// --- scalar accessors ---

func (s Slice) typeMismatch(want Kind) error {
	return errs.New(errs.KindInvalidValueType, "expected "+want.String()+", got "+s.Type().String())
}

// GetBool returns the Bool payload.
func (s Slice) GetBool() (bool, error) {
	switch s.data[0] {
	case headBoolTrue:
		return true, nil
	case headBoolFalse:
		return false, nil
	default:
		return false, s.typeMismatch(Bool)
	}
}

// GetDouble returns the Double payload.
func (s Slice) GetDouble() (float64, error) {
	if s.data[0] != headDouble {
		return 0, s.typeMismatch(Double)
	}

	bits := binary.LittleEndian.Uint64(s.data[1:9])

	return math.Float64frombits(bits), nil
}

// GetUTCDate returns the UTCDate payload as milliseconds since the epoch.
func (s Slice) GetUTCDate() (int64, error) {
	if s.data[0] != headUTCDate {
		return 0, s.typeMismatch(UTCDate)
	}

	u := binary.LittleEndian.Uint64(s.data[1:9])

	return int64(u), nil
}

// GetTime is a convenience wrapper over GetUTCDate.
func (s Slice) GetTime() (time.Time, error) {
	ms, err := s.GetUTCDate()
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(ms).UTC(), nil
}

// GetSmallInt returns a SmallInt payload (-6..9).
func (s Slice) GetSmallInt() (int64, error) {
	head := s.data[0]
	isPos := head >= headSmallIntPos && head <= headSmallIntPos+9
	isNeg := head >= headSmallIntNeg && head <= headSmallIntNeg+5
	if !isPos && !isNeg {
		return 0, s.typeMismatch(SmallInt)
	}

	return smallIntValue(head), nil
}

// GetInt returns an Int or SmallInt payload, sign-extended from its stored
// width. A UInt payload is accepted when it fits in an int64; a larger one
// is errs.ErrNumberOutOfRange.
func (s Slice) GetInt() (int64, error) {
	head := s.data[0]
	if head >= headSmallIntPos && head <= headSmallIntPos+9 {
		return smallIntValue(head), nil
	}
	if head >= headSmallIntNeg && head <= headSmallIntNeg+5 {
		return smallIntValue(head), nil
	}
	if head >= headUIntBase && head <= headUIntBase+7 {
		u, err := s.GetUInt()
		if err != nil {
			return 0, err
		}
		if u > math.MaxInt64 {
			return 0, errs.New(errs.KindNumberOutOfRange, "UInt value does not fit in int64")
		}

		return int64(u), nil
	}
	if head < headIntBase || head > headIntBase+7 {
		return 0, s.typeMismatch(Int)
	}

	n := intByteCount(head)
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(s.data[1+i])
	}
	// Sign-extend from n bytes to 64 bits.
	shift := uint(64 - 8*n)

	return int64(u<<shift) >> shift, nil
}

// GetUInt returns a UInt payload.
func (s Slice) GetUInt() (uint64, error) {
	head := s.data[0]
	if head >= headSmallIntPos && head <= headSmallIntPos+9 {
		return uint64(smallIntValue(head)), nil
	}
	if head < headUIntBase || head > headUIntBase+7 {
		return 0, s.typeMismatch(UInt)
	}

	n := uintByteCount(head)
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(s.data[1+i])
	}

	return u, nil
}

// stringBytes returns the raw UTF-8 body bytes of a String value.
func (s Slice) stringBytes() ([]byte, error) {
	head := s.data[0]
	if head == headLongString {
		length := readUint(s.data[1:9], 8)
		return s.data[9 : 9+int(length)], nil
	}
	if head >= headShortStringBase && head <= 0xbe {
		n := shortStringLen(head)
		return s.data[1 : 1+n], nil
	}

	return nil, s.typeMismatch(String)
}

// GetString returns the String payload as a zero-copy view aliasing the
// Slice's underlying bytes. The returned slice must not outlive the data
// the Slice was built over.
func (s Slice) GetString() ([]byte, error) {
	return s.stringBytes()
}

// CopyString returns the String payload as an independently-owned string.
func (s Slice) CopyString() (string, error) {
	b, err := s.stringBytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// GetBinary returns the Binary payload as a zero-copy view.
func (s Slice) GetBinary() ([]byte, error) {
	head := s.data[0]
	if head < headBinaryBase || head > headBinaryBase+7 {
		return nil, s.typeMismatch(Binary)
	}

	w := binaryLenWidth(head)
	length := readUint(s.data[1:1+w], w)

	return s.data[1+w : 1+w+int(length)], nil
}

// GetExternal returns the raw 8-byte External payload. vpack treats this as
// an opaque interoperability hatch: it performs no pointer
// dereference or lifetime management.
func (s Slice) GetExternal() (uint64, error) {
	if s.data[0] != headExternal {
		return 0, s.typeMismatch(External)
	}

	return binary.LittleEndian.Uint64(s.data[1:9]), nil
}

// --- containers ---

// containerView describes an Array/Object's layout. Length/At/KeyAt/
// ValueAt/Get/Iterate/Keys each compute it afresh from the header bytes.
type containerView struct {
	head         byte
	byteLength   int
	count        int
	firstSub     int
	idxTableBase int // valid only if hasIdx
	hasIdx       bool
	w            int
}

func (s Slice) container() (containerView, error) {
	head := s.data[0]
	if head == headEmptyArray || head == headEmptyObject {
		return containerView{head: head}, nil
	}
	if !isContainerHead(head) {
		return containerView{}, errs.New(errs.KindInvalidValueType, "not an Array or Object")
	}

	w := widthTable[head]
	byteLength := int(readUint(s.data[1:1+w], w))
	firstSub := firstSubTable[head]

	var count int
	switch {
	case hasCountField[head] && w < 8:
		count = int(readUint(s.data[1+w:1+2*w], w))
	case hasCountField[head]:
		// w == 8: trailing 8-byte count at the very end of the container.
		count = int(readUint(s.data[byteLength-8:byteLength], 8))
	default:
		// Array without offset table: uniform element size, count derived.
		if byteLength == firstSub {
			count = 0
		} else {
			elemSize := byteSizeAt(s.data[firstSub:])
			count = (byteLength - firstSub) / elemSize
		}
	}

	hasIdx := needsIdxTable[head] && count > 1

	var idxBase int
	if hasIdx {
		trailing := 0
		if w == 8 {
			trailing = 8
		}
		idxBase = byteLength - count*w - trailing
	}

	return containerView{
		head: head, byteLength: byteLength, count: count,
		firstSub: firstSub, idxTableBase: idxBase, hasIdx: hasIdx, w: w,
	}, nil
}

// Length returns the number of elements (Array) or key/value pairs (Object).
func (s Slice) Length() (int, error) {
	cv, err := s.container()
	if err != nil {
		return 0, err
	}

	return cv.count, nil
}

// offsetOf returns the byte offset (from the container start) of element i.
func (s Slice) offsetOf(cv containerView, i int) (int, error) {
	if i < 0 || i >= cv.count {
		return 0, errs.New(errs.KindIndexOutOfBounds, "index "+strconv.Itoa(i)+" out of bounds")
	}

	if !cv.hasIdx {
		if isArrayNoIdxHead(cv.head) || cv.count == 1 {
			elemSize := byteSizeAt(s.data[cv.firstSub:])
			return cv.firstSub + i*elemSize, nil
		}
	}

	off := int(readUint(s.data[cv.idxTableBase+i*cv.w:cv.idxTableBase+(i+1)*cv.w], cv.w))

	return off, nil
}

// At returns the i-th element of an Array.
func (s Slice) At(i int) (Slice, error) {
	cv, err := s.container()
	if err != nil {
		return Slice{}, err
	}
	if cv.head != headEmptyArray && !isArrayHead(cv.head) {
		return Slice{}, s.typeMismatch(Array)
	}

	off, err := s.offsetOf(cv, i)
	if err != nil {
		return Slice{}, err
	}

	return Slice{data: s.data[off:]}, nil
}

func isArrayHead(head byte) bool {
	return isArrayNoIdxHead(head) || (head >= headArrayIdx && head <= headArrayIdx+3)
}

// KeyAt returns the key Slice (always a String) at pair index i of an
// Object.
func (s Slice) KeyAt(i int) (Slice, error) {
	cv, err := s.container()
	if err != nil {
		return Slice{}, err
	}
	if cv.head != headEmptyObject && !isObjectHead(cv.head) {
		return Slice{}, s.typeMismatch(Object)
	}

	off, err := s.offsetOf(cv, i)
	if err != nil {
		return Slice{}, err
	}

	return Slice{data: s.data[off:]}, nil
}

// ValueAt returns the value Slice at pair index i of an Object.
func (s Slice) ValueAt(i int) (Slice, error) {
	key, err := s.KeyAt(i)
	if err != nil {
		return Slice{}, err
	}

	return Slice{data: key.data[key.ByteSize():]}, nil
}

// Get looks up key in an Object. If the key is absent, it returns a Slice
// of Kind None (not an error). On a sorted Object with 4 or more pairs, the
// lookup is a binary search; otherwise it is a linear scan.
func (s Slice) Get(key string) (Slice, error) {
	cv, err := s.container()
	if err != nil {
		return Slice{}, err
	}
	if cv.head != headEmptyObject && !isObjectHead(cv.head) {
		return Slice{}, s.typeMismatch(Object)
	}
	if cv.count == 0 {
		return Slice{data: []byte{headNone}}, nil
	}

	if isSortedObjectHead(cv.head) && cv.count >= 4 {
		lo, hi := 0, cv.count-1
		for lo <= hi {
			mid := (lo + hi) / 2
			k, err := s.KeyAt(mid)
			if err != nil {
				return Slice{}, err
			}
			kb, err := k.stringBytes()
			if err != nil {
				// Non-string key under a sorted-key path aborts the search.
				return Slice{data: []byte{headNone}}, nil
			}

			switch compareKeys(kb, []byte(key)) {
			case 0:
				return s.ValueAt(mid)
			case -1:
				lo = mid + 1
			default:
				hi = mid - 1
			}
		}

		return Slice{data: []byte{headNone}}, nil
	}

	for i := 0; i < cv.count; i++ {
		k, err := s.KeyAt(i)
		if err != nil {
			return Slice{}, err
		}
		kb, err := k.stringBytes()
		if err != nil {
			continue
		}
		if string(kb) == key {
			return s.ValueAt(i)
		}
	}

	return Slice{data: []byte{headNone}}, nil
}

// compareKeys implements the wire format's key order: memcmp over the
// shared prefix, then shorter-is-less.
func compareKeys(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}

			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// GetPath walks a sequence of Object keys / Array indices (as decimal
// strings) into nested containers.
func (s Slice) GetPath(path []string) (Slice, error) {
	if len(path) == 0 {
		return Slice{}, errs.New(errs.KindInvalidAttributePath, "empty path")
	}

	cur := s
	for _, seg := range path {
		switch cur.Type() {
		case Object:
			next, err := cur.Get(seg)
			if err != nil {
				return Slice{}, err
			}
			cur = next
		case Array:
			idx, convErr := strconv.Atoi(seg)
			if convErr != nil {
				return Slice{}, errs.New(errs.KindInvalidAttributePath, "non-numeric array index: "+seg)
			}
			next, err := cur.At(idx)
			if err != nil {
				return Slice{}, err
			}
			cur = next
		default:
			return Slice{}, errs.New(errs.KindInvalidAttributePath, "path segment into non-container")
		}
	}

	return cur, nil
}

// Path is dotted-path sugar over GetPath (e.g. "a.b.2.c"), supplementing
// the vector-of-keys form with the string-path shorthand callers of the
// original C++ tooling expect.
func (s Slice) Path(dotted string) (Slice, error) {
	if dotted == "" {
		return Slice{}, errs.New(errs.KindInvalidAttributePath, "empty path")
	}

	return s.GetPath(strings.Split(dotted, "."))
}

// Iterate visits each element (Array) or key/value pair (Object), calling
// fn until it returns false or elements are exhausted.
func (s Slice) Iterate(fn func(index int, key, value Slice) bool) error {
	cv, err := s.container()
	if err != nil {
		return err
	}

	switch {
	case cv.head == headEmptyArray || cv.head == headEmptyObject:
		return nil
	case isArrayHead(cv.head):
		for i := 0; i < cv.count; i++ {
			v, err := s.At(i)
			if err != nil {
				return err
			}
			if !fn(i, Slice{}, v) {
				return nil
			}
		}

		return nil
	case isObjectHead(cv.head):
		for i := 0; i < cv.count; i++ {
			k, err := s.KeyAt(i)
			if err != nil {
				return err
			}
			v, err := s.ValueAt(i)
			if err != nil {
				return err
			}
			if !fn(i, k, v) {
				return nil
			}
		}

		return nil
	default:
		return s.typeMismatch(Array)
	}
}

// Keys returns copies of an Object's key strings, in wire order.
func (s Slice) Keys() ([]string, error) {
	cv, err := s.container()
	if err != nil {
		return nil, err
	}
	if cv.head != headEmptyObject && !isObjectHead(cv.head) {
		return nil, s.typeMismatch(Object)
	}

	out := make([]string, 0, cv.count)
	for i := 0; i < cv.count; i++ {
		k, err := s.KeyAt(i)
		if err != nil {
			return nil, err
		}
		str, err := k.CopyString()
		if err != nil {
			return nil, err
		}
		out = append(out, str)
	}

	return out, nil
}

// Checksum returns the xxHash64 of this value's raw wire bytes, for the
// CLI's --verify round-trip check.
func (s Slice) Checksum() uint64 {
	return digest.Sum64(s.data[:s.ByteSize()])
}

// Bytes returns the raw wire bytes of this value.
func (s Slice) Bytes() []byte {
	return s.data[:s.ByteSize()]
}
