// Package vppress provides optional whole-document compression for vpack's
// CLI output file. It never touches the wire format's internal bytes: a
// Builder's offset tables and size limits are defined over uncompressed
// bytes, so compression is strictly an outer envelope around
// an already-complete document, applied only when writing to (and undone
// only when reading from) a file or stream outside the library itself.
//
// Adapted from mebo's compress package (github.com/arloliu/mebo/compress),
// which compresses per-metric timestamp/value payloads; here the same
// Codec/Compressor/Decompressor interfaces and the same four algorithms
// compress one whole serialized document instead.
package vppress

import "fmt"

// Algorithm identifies a whole-document compression scheme.
type Algorithm uint8

const (
	None Algorithm = iota
	Zstd
	S2
	LZ4
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a whole vpack document's bytes for storage.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec builds a Codec for algo, or an error naming target (the
// flag/field that requested it) if algo is not recognized.
func CreateCodec(algo Algorithm, target string) (Codec, error) {
	switch algo {
	case None:
		return NewNoOpCodec(), nil
	case Zstd:
		return NewZstdCodec(), nil
	case S2:
		return NewS2Codec(), nil
	case LZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression algorithm: %d", target, algo)
	}
}

var builtinCodecs = map[Algorithm]Codec{
	None: NewNoOpCodec(),
	Zstd: NewZstdCodec(),
	S2:   NewS2Codec(),
	LZ4:  NewLZ4Codec(),
}

// GetCodec retrieves a shared built-in Codec for algo.
func GetCodec(algo Algorithm) (Codec, error) {
	if c, ok := builtinCodecs[algo]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
}

// ParseAlgorithm maps a CLI-facing name ("none", "zstd", "s2", "lz4") to an
// Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none", "":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("unknown compression algorithm %q", name)
	}
}
