package vpack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack"
)

func TestWithValidateUTF8Strings_RejectsInvalidUTF8(t *testing.T) {
	b := vpack.NewBuilder(vpack.WithValidateUTF8Strings(true))
	require.NoError(t, b.AddObject())
	err := b.AddKey(string([]byte{0xff, 0xfe}))
	assert.Error(t, err)
}

func TestDefaultOptions_SortsKeysByDefault(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.AddObject())
	require.NoError(t, b.AddKey("z"))
	require.NoError(t, b.Add(1))
	require.NoError(t, b.AddKey("a"))
	require.NoError(t, b.Add(2))
	require.NoError(t, b.Close())

	s, err := b.Slice()
	require.NoError(t, err)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, keys, "default options sort object keys")
}
