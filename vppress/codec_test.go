package vppress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack/vppress"
)

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]vppress.Algorithm{
		"none": vppress.None,
		"":     vppress.None,
		"zstd": vppress.Zstd,
		"s2":   vppress.S2,
		"lz4":  vppress.LZ4,
	}
	for name, want := range cases {
		got, err := vppress.ParseAlgorithm(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := vppress.ParseAlgorithm("bogus")
	assert.Error(t, err)
}

func TestAlgorithm_String(t *testing.T) {
	assert.Equal(t, "none", vppress.None.String())
	assert.Equal(t, "zstd", vppress.Zstd.String())
	assert.Equal(t, "s2", vppress.S2.String())
	assert.Equal(t, "lz4", vppress.LZ4.String())
}

func TestCreateCodec_NoOpRoundTrip(t *testing.T) {
	c, err := vppress.CreateCodec(vppress.None, "test")
	require.NoError(t, err)

	data := []byte("hello, vpack")
	compressed, err := c.Compress(data)
	require.NoError(t, err)

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCreateCodec_S2RoundTrip(t *testing.T) {
	c, err := vppress.CreateCodec(vppress.S2, "test")
	require.NoError(t, err)

	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")
	compressed, err := c.Compress(data)
	require.NoError(t, err)

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCreateCodec_LZ4RoundTrip(t *testing.T) {
	c, err := vppress.CreateCodec(vppress.LZ4, "test")
	require.NoError(t, err)

	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")
	compressed, err := c.Compress(data)
	require.NoError(t, err)

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCreateCodec_UnknownAlgorithm(t *testing.T) {
	_, err := vppress.CreateCodec(vppress.Algorithm(99), "test")
	assert.Error(t, err)
}

func TestGetCodec_KnownAlgorithm(t *testing.T) {
	c, err := vppress.GetCodec(vppress.S2)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestGetCodec_UnknownAlgorithm(t *testing.T) {
	_, err := vppress.GetCodec(vppress.Algorithm(99))
	assert.Error(t, err)
}
