package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUTF8(t *testing.T) {
	text, name, err := Decode([]byte("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", text)
	assert.Equal(t, "utf-8", name)
}

func TestDecodeStripsBOM(t *testing.T) {
	text, _, err := Decode([]byte("\xef\xbb\xbfhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestDecodeUTF16(t *testing.T) {
	data := []byte{0xff, 0xfe, 'H', 0, 'i', 0}
	text, name, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Hi", text)
	assert.Contains(t, name, "utf-16")
}

func TestDecodeWindows1252Fallback(t *testing.T) {
	text, _, err := Decode([]byte("caf\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}
