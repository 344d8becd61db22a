package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum64(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		sum  uint64
	}{
		{"empty", []byte{}, 0xef46db3751d8e999},
		{"short", []byte("test"), 0x4fdcca5ddb678139},
		{"longer", []byte("this is a longer test string to hash"), 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sum, Sum64(tt.data))
		})
	}
}

func TestSum64_Deterministic(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0xde, 0xad, 0xbe, 0xef}
	assert.Equal(t, Sum64(data), Sum64(data))
}

func TestSum64_DiffersOnDifferentInput(t *testing.T) {
	a := Sum64([]byte("document one"))
	b := Sum64([]byte("document two"))
	assert.NotEqual(t, a, b)
}
