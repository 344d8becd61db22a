package vpack

// Head-byte constants. These, plus typeOfTable/widthTable/
// firstSubTable below, are the wire format's single source of truth: no
// other code branches on head-byte ranges except for the int/string/binary
// payload-extraction helpers at the bottom of this file, which are range
// arithmetic rather than format decisions.
const (
	headNone = 0x00

	headEmptyArray  = 0x01
	headArrayNoIdx  = 0x02 // .. 0x05, +0/1/2/3 for W=1/2/4/8
	headArrayIdx    = 0x06 // .. 0x09
	headEmptyObject = 0x0a
	headObjectSorted   = 0x0b // .. 0x0e
	headObjectUnsorted = 0x0f // .. 0x12

	headNull      = 0x18
	headBoolFalse = 0x19
	headBoolTrue  = 0x1a
	headDouble    = 0x1b
	headUTCDate   = 0x1c
	headExternal  = 0x1d
	headMinKey    = 0x1e
	headMaxKey    = 0x1f

	headIntBase    = 0x20 // .. 0x27, low nibble+1 = byte count
	headUIntBase   = 0x28 // .. 0x2f, low nibble-7 = byte count
	headSmallIntPos = 0x30 // .. 0x39, value 0..9
	headSmallIntNeg = 0x3a // .. 0x3f, value -6..-1

	headShortStringBase = 0x40 // .. 0xbe, length = head-0x40 (0..126)
	headLongString      = 0xbf

	headBinaryBase = 0xc0 // .. 0xc7, low nibble+1 = length-field byte count

	headBCDPosBase = 0xc8 // .. 0xcf
	headBCDNegBase = 0xd0 // .. 0xd7

	headCustomBase = 0xf0 // .. 0xff
)

// widthOf maps an offset-width nibble (0..3) to its byte width.
var widthOf = [4]int{1, 2, 4, 8}

// widthNibble is the inverse of widthOf, keyed by width.
func widthNibble(w int) int {
	switch w {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		panic("vpack: invalid offset width")
	}
}

var (
	typeOfTable   [256]Kind
	widthTable    [256]int // offset width W; 0 for non-container heads
	firstSubTable [256]int // first-data-offset; meaningless for non-containers
	hasCountField [256]bool
	needsIdxTable [256]bool // true for indexed-array and object heads; used only when count > 1
)

func init() {
	for i := range typeOfTable {
		typeOfTable[i] = Custom // heads with no other meaning default to Custom/reserved
	}

	typeOfTable[headNone] = None
	typeOfTable[headEmptyArray] = Array
	typeOfTable[headEmptyObject] = Object
	typeOfTable[headNull] = Null
	typeOfTable[headBoolFalse] = Bool
	typeOfTable[headBoolTrue] = Bool
	typeOfTable[headDouble] = Double
	typeOfTable[headUTCDate] = UTCDate
	typeOfTable[headExternal] = External
	typeOfTable[headMinKey] = MinKey
	typeOfTable[headMaxKey] = MaxKey

	for n := 0; n < 4; n++ {
		// Array without offset table: header is head+byteLength(W); no count field.
		h := headArrayNoIdx + n
		typeOfTable[h] = Array
		widthTable[h] = widthOf[n]
		firstSubTable[h] = 1 + widthOf[n]
		hasCountField[h] = false
		needsIdxTable[h] = false

		// Array with offset table.
		h = headArrayIdx + n
		typeOfTable[h] = Array
		widthTable[h] = widthOf[n]
		hasCountField[h] = widthOf[n] < 8
		if hasCountField[h] {
			firstSubTable[h] = 1 + 2*widthOf[n]
		} else {
			firstSubTable[h] = 1 + widthOf[n]
		}
		needsIdxTable[h] = true

		// Sorted object.
		h = headObjectSorted + n
		typeOfTable[h] = Object
		widthTable[h] = widthOf[n]
		hasCountField[h] = widthOf[n] < 8
		if hasCountField[h] {
			firstSubTable[h] = 1 + 2*widthOf[n]
		} else {
			firstSubTable[h] = 1 + widthOf[n]
		}
		needsIdxTable[h] = true

		// Unsorted object.
		h = headObjectUnsorted + n
		typeOfTable[h] = Object
		widthTable[h] = widthOf[n]
		hasCountField[h] = widthOf[n] < 8
		if hasCountField[h] {
			firstSubTable[h] = 1 + 2*widthOf[n]
		} else {
			firstSubTable[h] = 1 + widthOf[n]
		}
		needsIdxTable[h] = true
	}

	for h := headIntBase; h <= headIntBase+7; h++ {
		typeOfTable[h] = Int
	}
	for h := headUIntBase; h <= headUIntBase+7; h++ {
		typeOfTable[h] = UInt
	}
	for h := headSmallIntPos; h <= headSmallIntPos+9; h++ {
		typeOfTable[h] = SmallInt
	}
	for h := headSmallIntNeg; h <= headSmallIntNeg+5; h++ {
		typeOfTable[h] = SmallInt
	}
	for h := headShortStringBase; h <= 0xbe; h++ {
		typeOfTable[h] = String
	}
	typeOfTable[headLongString] = String
	for h := headBinaryBase; h <= headBinaryBase+7; h++ {
		typeOfTable[h] = Binary
	}
	for h := headBCDPosBase; h <= headBCDNegBase+7; h++ {
		typeOfTable[h] = BCD
	}
	for h := headCustomBase; h <= 0xff; h++ {
		typeOfTable[h] = Custom
	}
}

// isContainerHead reports whether head denotes a non-empty Array or Object.
func isContainerHead(head byte) bool {
	switch {
	case head >= headArrayNoIdx && head <= headArrayNoIdx+3:
		return true
	case head >= headArrayIdx && head <= headArrayIdx+3:
		return true
	case head >= headObjectSorted && head <= headObjectSorted+3:
		return true
	case head >= headObjectUnsorted && head <= headObjectUnsorted+3:
		return true
	default:
		return false
	}
}

func isObjectHead(head byte) bool {
	return head == headEmptyObject || (head >= headObjectSorted && head <= headObjectUnsorted+3)
}

func isSortedObjectHead(head byte) bool {
	return head >= headObjectSorted && head <= headObjectSorted+3
}

func isArrayNoIdxHead(head byte) bool {
	return head >= headArrayNoIdx && head <= headArrayNoIdx+3
}

// intByteCount returns the byte count of a signed Int payload (1..8).
func intByteCount(head byte) int {
	return int(head&0x0f) + 1
}

// uintByteCount returns the byte count of an unsigned UInt payload (1..8).
func uintByteCount(head byte) int {
	return int(head&0x0f) - 7
}

// smallIntValue returns the value (-6..9) encoded by a SmallInt head.
func smallIntValue(head byte) int64 {
	if head >= headSmallIntPos && head <= headSmallIntPos+9 {
		return int64(head - headSmallIntPos)
	}

	return int64(head) - headSmallIntNeg - 6
}

// shortStringLen returns the body length (0..126) of a short-string head.
func shortStringLen(head byte) int {
	return int(head - headShortStringBase)
}

// binaryLenWidth returns the byte width of a Binary value's length field.
func binaryLenWidth(head byte) int {
	return int(head&0x0f) + 1
}
