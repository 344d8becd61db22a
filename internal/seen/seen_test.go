package seen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeys(t *testing.T) {
	k := NewKeys()
	require.NotNil(t, k)
}

func TestKeys_Add_NoDuplicate(t *testing.T) {
	k := NewKeys()

	assert.False(t, k.Add("foo"))
	assert.False(t, k.Add("bar"))
	assert.False(t, k.Add("baz"))
}

func TestKeys_Add_Duplicate(t *testing.T) {
	k := NewKeys()

	assert.False(t, k.Add("foo"))
	assert.True(t, k.Add("foo"))
}

func TestKeys_Reset(t *testing.T) {
	k := NewKeys()
	require.False(t, k.Add("foo"))
	require.True(t, k.Add("foo"))

	k.Reset()
	assert.False(t, k.Add("foo"))
}
