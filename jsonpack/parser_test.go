package jsonpack_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/jsonpack"
)

func TestParse_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"null", nil},
		{"42", int64(42)},
		{"-17", int64(-17)},
		{"3.5", 3.5},
		{`"hello"`, "hello"},
	}

	for _, tc := range cases {
		s, err := jsonpack.Parse([]byte(tc.in), jsonpack.ParseOptions{})
		require.NoError(t, err, tc.in)

		switch want := tc.want.(type) {
		case nil:
			assert.True(t, s.IsNull())
		case bool:
			got, err := s.GetBool()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		case int64:
			got, err := s.GetInt()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		case float64:
			got, err := s.GetDouble()
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		case string:
			got, err := s.CopyString()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestParse_ObjectAndArray(t *testing.T) {
	in := `{"name": "alice", "age": 30, "tags": ["a", "b"], "meta": {"x": 1}}`
	s, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)

	name, err := s.Get("name")
	require.NoError(t, err)
	str, err := name.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "alice", str)

	tags, err := s.Get("tags")
	require.NoError(t, err)
	n, err := tags.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := s.Path("meta.x")
	require.NoError(t, err)
	i, err := v.GetInt()
	require.NoError(t, err)
	assert.EqualValues(t, 1, i)
}

func TestParse_WhitespaceAndBOM(t *testing.T) {
	in := "\xef\xbb\xbf  \t\n  [1, 2, 3]  \n"
	s, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)
	n, err := s.Length()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParse_TrailingDataRejected(t *testing.T) {
	_, err := jsonpack.Parse([]byte(`1 2`), jsonpack.ParseOptions{})
	assert.Error(t, err)
}

func TestParse_EmptyInputRejected(t *testing.T) {
	_, err := jsonpack.Parse([]byte(``), jsonpack.ParseOptions{})
	assert.Error(t, err)
}

func TestParse_Multi(t *testing.T) {
	in := `1 "two" [3] {"four":4}`
	slices, err := jsonpack.ParseMulti([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)
	require.Len(t, slices, 4)

	i, err := slices[0].GetInt()
	require.NoError(t, err)
	assert.EqualValues(t, 1, i)

	str, err := slices[1].CopyString()
	require.NoError(t, err)
	assert.Equal(t, "two", str)
}

func TestParse_StringEscapes(t *testing.T) {
	in := `"line1\nline2\ttab\\backslash\/slash\"quote"`
	s, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)
	got, err := s.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\ttab\\backslash/slash\"quote", got)
}

func TestParse_SurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair.
	in := `"\` + `ud83d\` + `ude00"`
	s, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.NoError(t, err)
	got, err := s.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", got)
}

func TestParse_ControlCharacterRejected(t *testing.T) {
	in := "\"abc\x01def\""
	_, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnexpectedControlCharacter))
}

func TestParse_IntegerOverflowRejected(t *testing.T) {
	// A bare integer literal (no '.' or exponent) that overflows uint64 is a
	// number-out-of-range parse error, not a silent float fallback.
	in := `99999999999999999999999999999999`
	_, err := jsonpack.Parse([]byte(in), jsonpack.ParseOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNumberOutOfRange))
}
