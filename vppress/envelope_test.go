package vppress_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack/vppress"
)

func TestEnvelope_RoundTrip_S2(t *testing.T) {
	doc := []byte(`{"hello":"world","n":42}`)

	var buf bytes.Buffer
	require.NoError(t, vppress.WriteEnvelope(&buf, vppress.S2, doc))

	out, err := vppress.ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestEnvelope_RoundTrip_LZ4(t *testing.T) {
	doc := bytes.Repeat([]byte("abcdefgh"), 512)

	var buf bytes.Buffer
	require.NoError(t, vppress.WriteEnvelope(&buf, vppress.LZ4, doc))

	out, err := vppress.ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestEnvelope_RoundTrip_None(t *testing.T) {
	doc := []byte("uncompressed document")

	var buf bytes.Buffer
	require.NoError(t, vppress.WriteEnvelope(&buf, vppress.None, doc))

	out, err := vppress.ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestEnvelope_BadMagicRejected(t *testing.T) {
	_, err := vppress.ReadEnvelope(bytes.NewReader([]byte("not an envelope at all, too short or wrong")))
	assert.Error(t, err)
}

func TestEnvelope_TruncatedHeaderRejected(t *testing.T) {
	_, err := vppress.ReadEnvelope(bytes.NewReader([]byte("vp")))
	assert.Error(t, err)
}
