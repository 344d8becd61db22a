package vppress

// ZstdCodec is the --compress=zstd choice: best ratio, for archival output
// or bandwidth-constrained transport of a finished document. Its actual
// Compress/Decompress methods live in zstd_pure.go (via
// klauspost/compress/zstd), which every normal build compiles, with or
// without cgo. zstd_cgo.go holds a valyala/gozstd variant behind the
// nobuild tag, so it is compiled only when that tag is set (and zstd_pure.go
// is then excluded).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a Zstd codec.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }
