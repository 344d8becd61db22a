package vppress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a vppress envelope. 'v'=0x76 is also a valid vpack head
// byte (a 54-byte short String, see headtable.go), so a bare document that
// is a top-level string starting with "prs" begins with the same four
// bytes; ReadEnvelope is only called when the caller has chosen a
// compression algorithm.
var magic = [4]byte{'v', 'p', 'r', 's'}

// WriteEnvelope writes algo-compressed document to w, preceded by a small
// self-describing header: magic, algorithm byte, and the uncompressed
// length. ReadEnvelope checks the decompressed size against that length;
// it does not use it to size the output buffer, so an LZ4 envelope still
// goes through LZ4Codec's geometric-growth retry loop.
func WriteEnvelope(w io.Writer, algo Algorithm, document []byte) error {
	codec, err := CreateCodec(algo, "vppress envelope")
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(document)
	if err != nil {
		return fmt.Errorf("vppress: compress: %w", err)
	}

	var header [13]byte
	copy(header[0:4], magic[:])
	header[4] = byte(algo)
	binary.LittleEndian.PutUint64(header[5:13], uint64(len(document)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(compressed)

	return err
}

// ReadEnvelope reads and decompresses a document previously written by
// WriteEnvelope.
func ReadEnvelope(r io.Reader) ([]byte, error) {
	var header [13]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("vppress: reading envelope header: %w", err)
	}
	if !bytes.Equal(header[0:4], magic[:]) {
		return nil, fmt.Errorf("vppress: not a vppress envelope (bad magic)")
	}

	algo := Algorithm(header[4])
	originalLen := binary.LittleEndian.Uint64(header[5:13])

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vppress: reading envelope body: %w", err)
	}

	codec, err := CreateCodec(algo, "vppress envelope")
	if err != nil {
		return nil, err
	}

	out, err := codec.Decompress(rest)
	if err != nil {
		return nil, fmt.Errorf("vppress: decompress: %w", err)
	}
	if uint64(len(out)) != originalLen {
		return nil, fmt.Errorf("vppress: decompressed length mismatch: got %d, want %d", len(out), originalLen)
	}

	return out, nil
}
