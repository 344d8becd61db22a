package jsonpack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack"
	"github.com/arloliu/vpack/jsonpack"
)

func dump(t *testing.T, s vpack.Slice, opts jsonpack.DumpOptions) string {
	t.Helper()
	text, err := jsonpack.Dump(s, opts)
	require.NoError(t, err)

	return text
}

func TestDump_RoundTripsThroughParse(t *testing.T) {
	in := `{"name":"alice","age":30,"tags":["a","b"],"active":true,"score":3.5,"note":null}`
	s, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)

	out := dump(t, s, jsonpack.DumpOptions{})

	s2, err := jsonpack.Parse([]byte(out), jsonpack.ParseOptions{})
	require.NoError(t, err)

	name, err := s2.Get("name")
	require.NoError(t, err)
	str, err := name.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "alice", str)
}

func TestDump_Pretty(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.AddObject())
	require.NoError(t, b.AddKey("a"))
	require.NoError(t, b.Add(1))
	require.NoError(t, b.Close())
	s, err := b.Slice()
	require.NoError(t, err)

	out := dump(t, s, jsonpack.DumpOptions{Pretty: true})
	assert.Contains(t, out, "\n")
	assert.Contains(t, out, "  \"a\": 1")
}

func TestDump_EscapesSlashAndControlChars(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.Add("a/b\nc\"d"))
	s, err := b.Slice()
	require.NoError(t, err)

	out := dump(t, s, jsonpack.DumpOptions{})
	assert.Equal(t, `"a\/b\nc\"d"`, out)
}

func TestDump_UnsupportedValueFailsByDefault(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.AddMinKey())
	s, err := b.Slice()
	require.NoError(t, err)

	_, err = jsonpack.Dump(s, jsonpack.DumpOptions{})
	assert.Error(t, err)
}

func TestDump_UnsupportedValueNullifyPolicy(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.AddMinKey())
	s, err := b.Slice()
	require.NoError(t, err)

	out := dump(t, s, jsonpack.DumpOptions{NonJSON: jsonpack.Nullify})
	assert.Equal(t, "null", out)
}

func TestDump_CustomHandlerInvokedWithValueAndParent(t *testing.T) {
	custom := vpack.NewSlice([]byte{0xf0})

	var gotParent vpack.Slice
	out := dump(t, custom, jsonpack.DumpOptions{
		Custom: func(value, parent vpack.Slice) (string, error) {
			gotParent = parent
			assert.Equal(t, custom.Bytes(), value.Bytes())

			return `"custom"`, nil
		},
	})
	assert.Equal(t, `"custom"`, out)
	assert.Equal(t, vpack.Slice{}, gotParent)
}

func TestDump_CustomValueFallsBackToNonJSONPolicyWhenUnset(t *testing.T) {
	custom := vpack.NewSlice([]byte{0xf0})

	_, err := jsonpack.Dump(custom, jsonpack.DumpOptions{})
	assert.Error(t, err)

	out := dump(t, custom, jsonpack.DumpOptions{NonJSON: jsonpack.Nullify})
	assert.Equal(t, "null", out)
}

func TestDump_EmptyContainers(t *testing.T) {
	b := vpack.NewBuilder()
	require.NoError(t, b.AddArray())
	require.NoError(t, b.Close())
	s, err := b.Slice()
	require.NoError(t, err)
	assert.Equal(t, "[]", dump(t, s, jsonpack.DumpOptions{}))

	b2 := vpack.NewBuilder()
	require.NoError(t, b2.AddObject())
	require.NoError(t, b2.Close())
	s2, err := b2.Slice()
	require.NoError(t, err)
	assert.Equal(t, "{}", dump(t, s2, jsonpack.DumpOptions{}))
}
