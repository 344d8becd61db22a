//go:build nobuild

package vppress

import "github.com/valyala/gozstd"

// Compress uses cgo zstd bindings for the best ratio/speed tradeoff, when
// built with a C toolchain available. Disabled by the nobuild tag above,
// keeping this path as documented reference code rather than enabling it,
// since CI has no C toolchain to link valyala/gozstd against. The pure-Go
// path in zstd_pure.go is what actually builds by default.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
