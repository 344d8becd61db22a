package vpack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack"
)

func buildDoc(t *testing.T, build func(b *vpack.Builder)) vpack.Slice {
	t.Helper()
	b := vpack.NewBuilder()
	build(b)
	s, err := b.Slice()
	require.NoError(t, err)

	return s
}

func TestSlice_Type_Empty(t *testing.T) {
	s := vpack.NewSlice(nil)
	assert.Equal(t, vpack.None, s.Type())
	assert.True(t, s.IsNone())
}

func TestSlice_Path_Nested(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.AddObject())
		require.NoError(t, b.AddKey("a"))
		require.NoError(t, b.AddObject())
		require.NoError(t, b.AddKey("b"))
		require.NoError(t, b.AddArray())
		require.NoError(t, b.Add("x"))
		require.NoError(t, b.Add("y"))
		require.NoError(t, b.Add("z"))
		require.NoError(t, b.Close()) // array
		require.NoError(t, b.Close()) // inner object
		require.NoError(t, b.Close()) // outer object
	})

	v, err := s.Path("a.b.2")
	require.NoError(t, err)
	str, err := v.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "z", str)

	v2, err := s.GetPath([]string{"a", "b", "0"})
	require.NoError(t, err)
	str2, err := v2.CopyString()
	require.NoError(t, err)
	assert.Equal(t, "x", str2)

	_, err = s.Path("a.b.notanumber")
	assert.Error(t, err)

	_, err = s.Path("")
	assert.Error(t, err)
}

func TestSlice_Iterate_Array(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.AddArray())
		require.NoError(t, b.Add(10))
		require.NoError(t, b.Add(20))
		require.NoError(t, b.Add(30))
		require.NoError(t, b.Close())
	})

	var seen []int64
	err := s.Iterate(func(index int, key, value vpack.Slice) bool {
		v, gerr := value.GetInt()
		require.NoError(t, gerr)
		seen = append(seen, v)

		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, seen)
}

func TestSlice_Iterate_Object_EarlyStop(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.AddObject())
		require.NoError(t, b.AddKey("a"))
		require.NoError(t, b.Add(1))
		require.NoError(t, b.AddKey("b"))
		require.NoError(t, b.Add(2))
		require.NoError(t, b.AddKey("c"))
		require.NoError(t, b.Add(3))
		require.NoError(t, b.Close())
	})

	count := 0
	err := s.Iterate(func(index int, key, value vpack.Slice) bool {
		count++

		return index < 1
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSlice_Checksum_StableForEqualBytes(t *testing.T) {
	build := func() vpack.Slice {
		return buildDoc(t, func(b *vpack.Builder) {
			require.NoError(t, b.AddArray())
			require.NoError(t, b.Add("same"))
			require.NoError(t, b.Add(99))
			require.NoError(t, b.Close())
		})
	}

	s1 := build()
	s2 := build()
	assert.Equal(t, s1.Checksum(), s2.Checksum())
	assert.NotZero(t, s1.Checksum())
}

func TestSlice_WidthBoundary_Int(t *testing.T) {
	cases := []int64{0, 127, 128, 255, 256, 32767, 32768, 2147483647, 2147483648, -1, -129, -32769}
	for _, v := range cases {
		s := buildDoc(t, func(b *vpack.Builder) {
			require.NoError(t, b.Add(v))
		})
		got, err := s.GetInt()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestSlice_WidthBoundary_LongString(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.Add(string(long)))
	})
	got, err := s.CopyString()
	require.NoError(t, err)
	assert.Equal(t, string(long), got)
}

func TestSlice_TypeMismatch(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.Add("not a number"))
	})
	_, err := s.GetInt()
	assert.Error(t, err)
}

func TestSlice_GetOnNonObject(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.Add(1))
	})
	_, err := s.Get("x")
	assert.Error(t, err)
}

func TestSlice_Bool(t *testing.T) {
	sTrue := buildDoc(t, func(b *vpack.Builder) { require.NoError(t, b.Add(true)) })
	sFalse := buildDoc(t, func(b *vpack.Builder) { require.NoError(t, b.Add(false)) })

	vt, err := sTrue.GetBool()
	require.NoError(t, err)
	assert.True(t, vt)

	vf, err := sFalse.GetBool()
	require.NoError(t, err)
	assert.False(t, vf)
}

func TestSlice_Double(t *testing.T) {
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.Add(3.14159))
	})
	v, err := s.GetDouble()
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, v, 1e-9)
}

func TestSlice_Binary(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	s := buildDoc(t, func(b *vpack.Builder) {
		require.NoError(t, b.Add(data))
	})
	v, err := s.GetBinary()
	require.NoError(t, err)
	assert.Equal(t, data, v)
}
