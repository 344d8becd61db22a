package vppress

// NoOpCodec bypasses compression entirely, for --compress=none.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec creates a no-operation codec.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (c NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (c NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
